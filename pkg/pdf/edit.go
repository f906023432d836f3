package pdf

import (
	"bytes"
	"fmt"
	"math"
)

// DeletePage removes the page at the 0-based index
func (d *Document) DeletePage(index int) error {
	if index < 0 || index >= len(d.Pages) {
		return fmt.Errorf("page index %d out of range", index)
	}
	d.Pages = append(d.Pages[:index], d.Pages[index+1:]...)
	d.rebuildPageIndex()
	return nil
}

// InsertBlankPage inserts an empty page of the given size in points
// before the 0-based index.
func (d *Document) InsertBlankPage(index int, width, height float64) error {
	if index < 0 || index > len(d.Pages) {
		return fmt.Errorf("insert position %d out of range", index)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid page size %gx%g", width, height)
	}

	box := Rectangle{URX: width, URY: height}
	page := &Page{
		doc: d,
		Dictionary: Dictionary{
			"Type":      Name("Page"),
			"MediaBox":  rectangleToArray(box),
			"Resources": Dictionary{},
		},
		MediaBox: box,
	}
	d.Pages = append(d.Pages[:index], append([]*Page{page}, d.Pages[index:]...)...)
	d.rebuildPageIndex()
	return nil
}

// SetPageRotation sets the absolute rotation of a page. Degrees must
// be a multiple of 90 and is normalized into [0, 360).
func (d *Document) SetPageRotation(index int, degrees int) error {
	if index < 0 || index >= len(d.Pages) {
		return fmt.Errorf("page index %d out of range", index)
	}
	if degrees%90 != 0 {
		return fmt.Errorf("rotation %d is not a multiple of 90", degrees)
	}
	deg := degrees % 360
	if deg < 0 {
		deg += 360
	}
	d.Pages[index].Dictionary["Rotate"] = Integer(deg)
	return nil
}

func (d *Document) rebuildPageIndex() {
	d.pageIndex = make(map[int]int, len(d.Pages))
	for i, page := range d.Pages {
		if page.ObjectNum > 0 {
			d.pageIndex[page.ObjectNum] = i
		}
	}
}

// StampOptions control watermark placement
type StampOptions struct {
	FontSize float64 // points, 48 when zero
	Opacity  float64 // 0..1, 0.3 when zero
	Diagonal bool    // rotate ascending across the page
}

// Stamp draws text across the listed pages (0-based indices; nil means
// every page). The text is centered and drawn above the existing
// content with the requested opacity.
func (d *Document) Stamp(text string, pages []int, opts StampOptions) error {
	if text == "" {
		return fmt.Errorf("empty watermark text")
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 48
	}
	if opts.Opacity <= 0 || opts.Opacity > 1 {
		opts.Opacity = 0.3
	}

	targets := pages
	if targets == nil {
		targets = make([]int, len(d.Pages))
		for i := range targets {
			targets[i] = i
		}
	}

	for _, idx := range targets {
		if idx < 0 || idx >= len(d.Pages) {
			return fmt.Errorf("page index %d out of range", idx)
		}
		if err := d.stampPage(d.Pages[idx], text, opts); err != nil {
			return fmt.Errorf("stamp page %d: %w", idx+1, err)
		}
	}
	return nil
}

// stampPage appends a content stream and the resources it needs
func (d *Document) stampPage(page *Page, text string, opts StampOptions) error {
	content := buildStampContent(page, text, opts)

	stream := Stream{
		Dictionary: Dictionary{"Length": Integer(len(content))},
		Data:       content,
	}
	streamNum := d.allocObjectNum()
	d.objects[streamNum] = stream
	streamRef := Reference{ObjectNumber: streamNum}

	// Existing contents come first so the stamp paints on top
	switch contents := page.Dictionary.Get("Contents").(type) {
	case nil:
		page.Dictionary["Contents"] = streamRef
	case Array:
		page.Dictionary["Contents"] = append(contents, streamRef)
	default:
		page.Dictionary["Contents"] = Array{contents, streamRef}
	}

	// The resource dictionary may be shared through inheritance, so
	// mutate a copy owned by this page.
	var resources Dictionary
	if res, err := d.Resolve(page.Dictionary.Get("Resources")); err == nil {
		if dict, ok := res.(Dictionary); ok {
			resources = dict.Clone()
		}
	}
	if resources == nil && page.Resources != nil {
		resources = page.Resources.Clone()
	}
	if resources == nil {
		resources = Dictionary{}
	}

	fonts := d.resolveDict(resources.Get("Font")).Clone()
	fonts["WMFont"] = Dictionary{
		"Type":     Name("Font"),
		"Subtype":  Name("Type1"),
		"BaseFont": Name("Helvetica"),
	}
	resources["Font"] = fonts

	states := d.resolveDict(resources.Get("ExtGState")).Clone()
	states["WMGS"] = Dictionary{
		"Type": Name("ExtGState"),
		"ca":   Real(opts.Opacity),
		"CA":   Real(opts.Opacity),
	}
	resources["ExtGState"] = states

	page.Dictionary["Resources"] = resources
	page.Resources = resources
	return nil
}

// resolveDict resolves obj and returns it as a dictionary, nil-safe
func (d *Document) resolveDict(obj Object) Dictionary {
	resolved, err := d.Resolve(obj)
	if err != nil {
		return nil
	}
	dict, _ := resolved.(Dictionary)
	return dict
}

// buildStampContent produces the drawing operators for one page
func buildStampContent(page *Page, text string, opts StampOptions) []byte {
	w := page.MediaBox.Width()
	h := page.MediaBox.Height()

	// Helvetica glyphs average roughly half the em square
	textWidth := 0.5 * opts.FontSize * float64(len(text))

	var a, b, c, dd float64 = 1, 0, 0, 1
	x := page.MediaBox.LLX + (w-textWidth)/2
	y := page.MediaBox.LLY + h/2
	if opts.Diagonal {
		angle := math.Atan2(h, w)
		sin, cos := math.Sincos(angle)
		a, b, c, dd = cos, sin, -sin, cos
		x = page.MediaBox.LLX + w/2 - cos*textWidth/2
		y = page.MediaBox.LLY + h/2 - sin*textWidth/2
	}

	var buf bytes.Buffer
	buf.WriteString("q\n/WMGS gs\n0.5 g\nBT\n/WMFont ")
	fmt.Fprintf(&buf, "%g Tf\n", opts.FontSize)
	fmt.Fprintf(&buf, "%f %f %f %f %f %f Tm\n", a, b, c, dd, x, y)
	writeString(&buf, []byte(text))
	buf.WriteString(" Tj\nET\nQ\n")
	return buf.Bytes()
}
