package pdf

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// NewEmptyDocument creates a document with no pages, ready to receive
// imported or blank pages.
func NewEmptyDocument() *Document {
	return &Document{
		Version:   "1.7",
		Root:      Dictionary{"Type": Name("Catalog")},
		trailer:   Dictionary{},
		objects:   make(map[int]Object),
		xref:      make(map[int]xrefEntry),
		pageIndex: make(map[int]int),
	}
}

// ImportPages copies pages start..end (1-indexed, inclusive) from src
// into this document, inserting them before 0-based page index at.
// The copied pages are self contained, so src can be closed afterwards.
func (d *Document) ImportPages(src *Document, start, end, at int) error {
	if start < 1 || end > len(src.Pages) || start > end {
		return fmt.Errorf("page range %d-%d out of bounds (document has %d pages)", start, end, len(src.Pages))
	}
	if at < 0 || at > len(d.Pages) {
		return fmt.Errorf("insert position %d out of bounds", at)
	}

	copier := &objectCopier{
		src:  src,
		dst:  d,
		seen: make(map[int]int),
	}

	imported := make([]*Page, 0, end-start+1)
	for i := start; i <= end; i++ {
		page, err := copier.copyPage(src.Pages[i-1], d)
		if err != nil {
			return fmt.Errorf("copy page %d: %w", i, err)
		}
		imported = append(imported, page)
	}

	d.Pages = append(d.Pages[:at], append(imported, d.Pages[at:]...)...)
	return nil
}

// objectTarget receives copied objects under new numbers
type objectTarget interface {
	alloc() int
	put(num int, obj Object)
}

func (d *Document) alloc() int            { return d.allocObjectNum() }
func (d *Document) put(num int, o Object) { d.objects[num] = o }

func (f *fileWriter) put(num int, o Object) { f.objects[num] = o }

// objectCopier transplants an object graph out of a source document,
// mapping source object numbers to freshly allocated target numbers.
type objectCopier struct {
	src  *Document
	dst  objectTarget
	seen map[int]int
}

// copyPage deep copies a page and everything it references
func (c *objectCopier) copyPage(page *Page, owner *Document) (*Page, error) {
	dict := make(Dictionary, len(page.Dictionary))
	for k, v := range page.Dictionary {
		// Parent ties the page into the source tree; the writer
		// rebuilds it on save.
		if k == "Parent" {
			continue
		}
		copied, err := c.copyObject(v)
		if err != nil {
			return nil, err
		}
		dict[k] = copied
	}

	// Pin inherited attributes onto the page itself
	if dict.Get("MediaBox") == nil {
		dict["MediaBox"] = rectangleToArray(page.MediaBox)
	}
	if dict.Get("Resources") == nil && page.Resources != nil {
		res, err := c.copyObject(page.Resources)
		if err != nil {
			return nil, err
		}
		dict["Resources"] = res
	}

	resources, _ := owner.Resolve(dict.Get("Resources"))
	resDict, _ := resources.(Dictionary)

	return &Page{
		doc:        owner,
		Dictionary: dict,
		MediaBox:   page.MediaBox,
		Resources:  resDict,
	}, nil
}

// copyObject rewrites an object so every reference points into dst.
// Cycles terminate through the seen map.
func (c *objectCopier) copyObject(obj Object) (Object, error) {
	switch v := obj.(type) {
	case Reference:
		if newNum, ok := c.seen[v.ObjectNumber]; ok {
			return Reference{ObjectNumber: newNum}, nil
		}
		newNum := c.dst.alloc()
		c.seen[v.ObjectNumber] = newNum

		target, err := c.src.GetObject(v.ObjectNumber)
		if err != nil {
			return nil, err
		}
		copied, err := c.copyObject(target)
		if err != nil {
			return nil, err
		}
		c.dst.put(newNum, copied)
		return Reference{ObjectNumber: newNum}, nil

	case Array:
		out := make(Array, len(v))
		for i, item := range v {
			copied, err := c.copyObject(item)
			if err != nil {
				return nil, err
			}
			out[i] = copied
		}
		return out, nil

	case Dictionary:
		out := make(Dictionary, len(v))
		for k, item := range v {
			copied, err := c.copyObject(item)
			if err != nil {
				return nil, err
			}
			out[k] = copied
		}
		return out, nil

	case Stream:
		dict, err := c.copyObject(v.Dictionary)
		if err != nil {
			return nil, err
		}
		data := make([]byte, len(v.Data))
		copy(data, v.Data)
		return Stream{Dictionary: dict.(Dictionary), Data: data}, nil

	default:
		return obj, nil
	}
}

// WriteTo serializes the document as a fresh, compactly numbered PDF
// file with a classic cross-reference table. Output is never encrypted.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	// Object 1 is the catalog, 2 the page tree root, pages follow.
	out := &fileWriter{objects: make(map[int]Object), next: 3 + len(d.Pages)}
	copier := &objectCopier{src: d, dst: out, seen: make(map[int]int)}

	// Seed page mappings first so destinations and annotations that
	// reference pages resolve to the rebuilt page objects.
	for i, page := range d.Pages {
		if page.ObjectNum > 0 {
			copier.seen[page.ObjectNum] = 3 + i
		}
	}

	pagesRef := Reference{ObjectNumber: 2}
	kids := make(Array, len(d.Pages))
	for i, page := range d.Pages {
		dict := make(Dictionary, len(page.Dictionary)+2)
		for k, v := range page.Dictionary {
			if k == "Parent" {
				continue
			}
			copied, err := copier.copyObject(v)
			if err != nil {
				return 0, fmt.Errorf("page %d: %w", i+1, err)
			}
			dict[k] = copied
		}
		dict["Type"] = Name("Page")
		dict["Parent"] = pagesRef
		if dict.Get("MediaBox") == nil {
			dict["MediaBox"] = rectangleToArray(page.MediaBox)
		}
		if dict.Get("Resources") == nil {
			if page.Resources != nil {
				res, err := copier.copyObject(page.Resources)
				if err != nil {
					return 0, fmt.Errorf("page %d resources: %w", i+1, err)
				}
				dict["Resources"] = res
			} else {
				dict["Resources"] = Dictionary{}
			}
		}

		out.objects[3+i] = dict
		kids[i] = Reference{ObjectNumber: 3 + i}
	}

	out.objects[2] = Dictionary{
		"Type":  Name("Pages"),
		"Kids":  kids,
		"Count": Integer(len(d.Pages)),
	}

	catalog := Dictionary{
		"Type":  Name("Catalog"),
		"Pages": pagesRef,
	}
	// The outline survives a rewrite because its page references run
	// through the seeded copier mappings.
	if outlines := d.Root.Get("Outlines"); outlines != nil {
		if copied, err := copier.copyObject(outlines); err == nil {
			catalog["Outlines"] = copied
		}
	}
	if names := d.Root.Get("Names"); names != nil {
		if copied, err := copier.copyObject(names); err == nil {
			catalog["Names"] = copied
		}
	}
	out.objects[1] = catalog

	var infoRef Object
	if d.InfoDict != nil {
		copied, err := copier.copyObject(d.InfoDict)
		if err == nil {
			num := out.alloc()
			out.objects[num] = copied
			infoRef = Reference{ObjectNumber: num}
		}
	}

	return out.serialize(w, infoRef)
}

// fileWriter accumulates renumbered objects for serialization
type fileWriter struct {
	objects map[int]Object
	next    int
}

func (f *fileWriter) alloc() int {
	n := f.next
	f.next++
	return n
}

// serialize writes the header, body, xref table and trailer
func (f *fileWriter) serialize(w io.Writer, infoRef Object) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	nums := make([]int, 0, len(f.objects))
	for n := range f.objects {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	offsets := make(map[int]int64, len(nums))
	for _, n := range nums {
		offsets[n] = int64(buf.Len())
		buf.WriteString(strconv.Itoa(n))
		buf.WriteString(" 0 obj\n")
		writeObject(&buf, f.objects[n])
		buf.WriteString("\nendobj\n")
	}

	size := 1
	if len(nums) > 0 {
		size = nums[len(nums)-1] + 1
	}

	xrefStart := int64(buf.Len())
	buf.WriteString("xref\n")
	fmt.Fprintf(&buf, "0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	for n := 1; n < size; n++ {
		if off, ok := offsets[n]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}

	trailer := Dictionary{
		"Size": Integer(size),
		"Root": Reference{ObjectNumber: 1},
	}
	if infoRef != nil {
		trailer["Info"] = infoRef
	}

	buf.WriteString("trailer\n")
	writeObject(&buf, trailer)
	fmt.Fprintf(&buf, "\nstartxref\n%d\n%%%%EOF\n", xrefStart)

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// writeObject serializes a single object in PDF syntax
func writeObject(buf *bytes.Buffer, obj Object) {
	switch v := obj.(type) {
	case nil, Null:
		buf.WriteString("null")

	case Boolean:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}

	case Integer:
		buf.WriteString(strconv.FormatInt(int64(v), 10))

	case Real:
		buf.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 64))

	case String:
		writeString(buf, v.Value)

	case Name:
		writeName(buf, string(v))

	case Array:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(' ')
			}
			writeObject(buf, item)
		}
		buf.WriteByte(']')

	case Dictionary:
		writeDictionary(buf, v)

	case Stream:
		dict := v.Dictionary.Clone()
		dict["Length"] = Integer(len(v.Data))
		writeDictionary(buf, dict)
		buf.WriteString("\nstream\n")
		buf.Write(v.Data)
		buf.WriteString("\nendstream")

	case Reference:
		fmt.Fprintf(buf, "%d %d R", v.ObjectNumber, v.GenerationNumber)
	}
}

// writeDictionary serializes a dictionary with sorted keys so output
// is deterministic.
func writeDictionary(buf *bytes.Buffer, dict Dictionary) {
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	buf.WriteString("<<")
	for _, k := range keys {
		writeName(buf, k)
		buf.WriteByte(' ')
		writeObject(buf, dict[Name(k)])
		buf.WriteByte(' ')
	}
	buf.WriteString(">>")
}

// writeString serializes a string, switching to hex form when the
// bytes are mostly binary.
func writeString(buf *bytes.Buffer, data []byte) {
	binary := 0
	for _, b := range data {
		if b < 0x20 && b != '\n' && b != '\r' && b != '\t' {
			binary++
		}
	}
	if binary > len(data)/4 {
		buf.WriteByte('<')
		const hex = "0123456789ABCDEF"
		for _, b := range data {
			buf.WriteByte(hex[b>>4])
			buf.WriteByte(hex[b&0x0F])
		}
		buf.WriteByte('>')
		return
	}

	buf.WriteByte('(')
	for _, b := range data {
		switch b {
		case '(', ')', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(b)
		case '\n':
			buf.WriteString("\\n")
		case '\r':
			buf.WriteString("\\r")
		default:
			buf.WriteByte(b)
		}
	}
	buf.WriteByte(')')
}

// writeName serializes a name, escaping delimiter and non-regular bytes
func writeName(buf *bytes.Buffer, name string) {
	buf.WriteByte('/')
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b <= 0x20 || b > 0x7e || b == '#' || isDelimiter(b) {
			fmt.Fprintf(buf, "#%02X", b)
		} else {
			buf.WriteByte(b)
		}
	}
}
