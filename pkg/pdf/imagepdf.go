package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
)

// AppendJPEGPage appends a page showing a JPEG image. The JPEG bytes
// are embedded as a DCTDecode stream without recompression, and the
// page is sized so the image maps 1:1 to points.
func (d *Document) AppendJPEGPage(data []byte) error {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode jpeg: %w", err)
	}

	colorSpace := Name("DeviceRGB")
	if cfg.ColorModel == color.GrayModel {
		colorSpace = Name("DeviceGray")
	}

	stream := Stream{
		Dictionary: Dictionary{
			"Type":             Name("XObject"),
			"Subtype":          Name("Image"),
			"Width":            Integer(cfg.Width),
			"Height":           Integer(cfg.Height),
			"ColorSpace":       colorSpace,
			"BitsPerComponent": Integer(8),
			"Filter":           Name("DCTDecode"),
			"Length":           Integer(len(data)),
		},
		Data: data,
	}
	return d.appendImagePage(stream, cfg.Width, cfg.Height)
}

// AppendImagePage appends a page showing a decoded image. Pixels are
// stored as flate compressed RGB samples.
func (d *Document) AppendImagePage(img image.Image) error {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("empty image")
	}

	samples := make([]byte, 0, w*h*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			samples = append(samples, byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}

	compressed := flateEncode(samples)

	stream := Stream{
		Dictionary: Dictionary{
			"Type":             Name("XObject"),
			"Subtype":          Name("Image"),
			"Width":            Integer(w),
			"Height":           Integer(h),
			"ColorSpace":       Name("DeviceRGB"),
			"BitsPerComponent": Integer(8),
			"Filter":           Name("FlateDecode"),
			"Length":           Integer(len(compressed)),
		},
		Data: compressed,
	}
	return d.appendImagePage(stream, w, h)
}

// appendImagePage wires an image XObject into a fresh page
func (d *Document) appendImagePage(img Stream, width, height int) error {
	imgNum := d.allocObjectNum()
	d.objects[imgNum] = img

	content := []byte(fmt.Sprintf("q\n%d 0 0 %d 0 0 cm\n/Im0 Do\nQ\n", width, height))
	contentNum := d.allocObjectNum()
	d.objects[contentNum] = Stream{
		Dictionary: Dictionary{"Length": Integer(len(content))},
		Data:       content,
	}

	resources := Dictionary{
		"XObject": Dictionary{"Im0": Reference{ObjectNumber: imgNum}},
	}
	box := Rectangle{URX: float64(width), URY: float64(height)}
	page := &Page{
		doc: d,
		Dictionary: Dictionary{
			"Type":      Name("Page"),
			"MediaBox":  rectangleToArray(box),
			"Resources": resources,
			"Contents":  Reference{ObjectNumber: contentNum},
		},
		MediaBox:  box,
		Resources: resources,
	}
	d.Pages = append(d.Pages, page)
	return nil
}
