package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidPassword is returned when neither the user nor the owner
// password matches.
var ErrInvalidPassword = fmt.Errorf("invalid password")

// Document represents a parsed PDF document
type Document struct {
	data      []byte
	Version   string
	Root      Dictionary
	InfoDict  Dictionary
	Pages     []*Page
	trailer   Dictionary
	objects   map[int]Object
	xref      map[int]xrefEntry
	security  *SecurityHandler
	pageIndex map[int]int // page object number -> 0-based page index
	nextObj   int
}

// allocObjectNum hands out an unused object number
func (d *Document) allocObjectNum() int {
	if d.nextObj == 0 {
		d.nextObj = 1
		for n := range d.xref {
			if n >= d.nextObj {
				d.nextObj = n + 1
			}
		}
		for n := range d.objects {
			if n >= d.nextObj {
				d.nextObj = n + 1
			}
		}
	}
	n := d.nextObj
	d.nextObj++
	return n
}

// xrefEntry represents an entry in the cross-reference table
type xrefEntry struct {
	Offset     int64
	Generation int
	InUse      bool
	// For compressed objects
	StreamObjNum int
	Index        int
}

// Page represents a PDF page
type Page struct {
	doc        *Document
	Dictionary Dictionary
	ObjectNum  int
	MediaBox   Rectangle
	Resources  Dictionary
}

// Rectangle represents a PDF rectangle
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// Width returns the rectangle width
func (r Rectangle) Width() float64 {
	return r.URX - r.LLX
}

// Height returns the rectangle height
func (r Rectangle) Height() float64 {
	return r.URY - r.LLY
}

// Open opens a PDF file with an optional password. An empty password
// works for unencrypted files and files encrypted with an empty user
// password.
func Open(filename, password string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewDocument(data, password)
}

// NewDocument parses PDF data
func NewDocument(data []byte, password string) (*Document, error) {
	doc := &Document{
		data:      data,
		objects:   make(map[int]Object),
		xref:      make(map[int]xrefEntry),
		pageIndex: make(map[int]int),
	}

	if err := doc.parse(password); err != nil {
		return nil, err
	}

	return doc, nil
}

// NewReader parses PDF data from a reader
func NewReader(r io.Reader, password string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewDocument(data, password)
}

// parse parses the PDF document
func (d *Document) parse(password string) error {
	if !bytes.HasPrefix(d.data, []byte("%PDF-")) {
		return fmt.Errorf("not a PDF file")
	}

	idx := bytes.IndexAny(d.data, "\r\n")
	if idx > 5 {
		d.Version = string(d.data[5:idx])
	}

	startxref, err := d.findStartXRef()
	if err != nil {
		return err
	}

	if err := d.parseXRef(startxref, make(map[int64]bool)); err != nil {
		return err
	}

	// Encryption must be settled before anything past the trailer is
	// resolved, so that strings and streams come back in the clear.
	sh, err := parseEncryption(d)
	if err != nil {
		return err
	}
	if sh != nil {
		if !sh.Authenticate(password) {
			return ErrInvalidPassword
		}
		d.security = sh
	}

	rootRef := d.trailer.Get("Root")
	if rootRef == nil {
		return fmt.Errorf("missing Root in trailer")
	}
	rootObj, err := d.Resolve(rootRef)
	if err != nil {
		return err
	}
	root, ok := rootObj.(Dictionary)
	if !ok {
		return fmt.Errorf("Root is not a dictionary")
	}
	d.Root = root

	if infoRef := d.trailer.Get("Info"); infoRef != nil {
		if infoObj, err := d.Resolve(infoRef); err == nil {
			if info, ok := infoObj.(Dictionary); ok {
				d.InfoDict = info
			}
		}
	}

	return d.parsePages()
}

// findStartXRef locates the startxref offset near the end of the file
func (d *Document) findStartXRef() (int64, error) {
	searchLen := 1024
	if len(d.data) < searchLen {
		searchLen = len(d.data)
	}

	tail := d.data[len(d.data)-searchLen:]
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("startxref not found")
	}

	start := idx + len("startxref")
	for start < len(tail) && isWhitespace(tail[start]) {
		start++
	}
	end := start
	for end < len(tail) && tail[end] >= '0' && tail[end] <= '9' {
		end++
	}

	offset, err := strconv.ParseInt(string(tail[start:end]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid startxref offset")
	}
	if offset < 0 || offset >= int64(len(d.data)) {
		return 0, fmt.Errorf("startxref offset %d out of bounds", offset)
	}
	return offset, nil
}

// parseXRef parses the cross-reference table or stream at offset.
// visited guards against Prev cycles in damaged files.
func (d *Document) parseXRef(offset int64, visited map[int64]bool) error {
	if visited[offset] {
		return nil
	}
	visited[offset] = true

	pos := offset
	for pos < int64(len(d.data)) && isWhitespace(d.data[pos]) {
		pos++
	}

	if pos+4 <= int64(len(d.data)) && string(d.data[pos:pos+4]) == "xref" {
		return d.parseXRefTable(pos, visited)
	}
	return d.parseXRefStream(pos, visited)
}

// parseXRefTable parses a classic xref table
func (d *Document) parseXRefTable(offset int64, visited map[int64]bool) error {
	lexer := NewLexer(d.data[offset:])

	// Skip the xref keyword line
	lexer.ReadLine()

	for {
		line := lexer.ReadLine()
		if line == nil {
			return fmt.Errorf("unterminated xref table")
		}

		lineStr := string(bytes.TrimSpace(line))
		if lineStr == "" {
			continue
		}
		if lineStr == "trailer" {
			break
		}

		// Section header: start count
		parts := bytes.Fields(line)
		if len(parts) != 2 {
			continue
		}
		start, err := strconv.Atoi(string(parts[0]))
		if err != nil {
			continue
		}
		count, err := strconv.Atoi(string(parts[1]))
		if err != nil {
			continue
		}

		for i := 0; i < count; i++ {
			entryLine := lexer.ReadLine()
			if entryLine == nil {
				return fmt.Errorf("truncated xref section")
			}

			// Entry format: nnnnnnnnnn ggggg n/f
			entryStr := string(entryLine)
			if len(entryStr) < 17 {
				continue
			}

			entryOffset, _ := strconv.ParseInt(strings.TrimSpace(entryStr[0:10]), 10, 64)
			gen, _ := strconv.Atoi(strings.TrimSpace(entryStr[11:16]))
			inUse := entryStr[17] == 'n'

			objNum := start + i
			if _, exists := d.xref[objNum]; !exists {
				d.xref[objNum] = xrefEntry{
					Offset:     entryOffset,
					Generation: gen,
					InUse:      inUse,
				}
			}
		}
	}

	parser := &Parser{lexer: lexer}
	trailerObj, err := parser.ParseObject()
	if err != nil {
		return err
	}
	trailer, ok := trailerObj.(Dictionary)
	if !ok {
		return fmt.Errorf("trailer is not a dictionary")
	}

	d.mergeTrailer(trailer)

	// Hybrid files point at an xref stream too
	if xrefStm, ok := trailer.GetInt("XRefStm"); ok {
		if err := d.parseXRef(int64(xrefStm), visited); err != nil {
			return err
		}
	}

	if prev, ok := trailer.GetInt("Prev"); ok {
		return d.parseXRef(int64(prev), visited)
	}
	return nil
}

// parseXRefStream parses a cross-reference stream
func (d *Document) parseXRefStream(offset int64, visited map[int64]bool) error {
	parser := NewParser(d.data[offset:])

	_, _, obj, err := parser.ParseIndirectObject()
	if err != nil {
		return err
	}
	stream, ok := obj.(Stream)
	if !ok {
		return fmt.Errorf("xref stream expected at offset %d", offset)
	}

	data, err := stream.Decode()
	if err != nil {
		return err
	}

	wArray, ok := stream.Dictionary.GetArray("W")
	if !ok || len(wArray) != 3 {
		return fmt.Errorf("invalid xref stream W array")
	}
	w := make([]int, 3)
	for i, obj := range wArray {
		if n, ok := obj.(Integer); ok {
			w[i] = int(n)
		}
	}

	var indices []int
	if indexArray, ok := stream.Dictionary.GetArray("Index"); ok {
		for _, obj := range indexArray {
			if n, ok := obj.(Integer); ok {
				indices = append(indices, int(n))
			}
		}
	} else if size, ok := stream.Dictionary.GetInt("Size"); ok {
		indices = []int{0, int(size)}
	}

	entrySize := w[0] + w[1] + w[2]
	if entrySize == 0 {
		return fmt.Errorf("empty xref stream entries")
	}
	pos := 0

	for i := 0; i+1 < len(indices); i += 2 {
		start := indices[i]
		count := indices[i+1]

		for j := 0; j < count; j++ {
			if pos+entrySize > len(data) {
				break
			}
			entry := data[pos : pos+entrySize]
			pos += entrySize

			field1 := readXRefField(entry, 0, w[0])
			field2 := readXRefField(entry, w[0], w[1])
			field3 := readXRefField(entry, w[0]+w[1], w[2])

			objNum := start + j
			if _, exists := d.xref[objNum]; exists {
				continue
			}

			entryType := field1
			if w[0] == 0 {
				entryType = 1
			}

			switch entryType {
			case 0:
				d.xref[objNum] = xrefEntry{InUse: false}
			case 1:
				d.xref[objNum] = xrefEntry{
					Offset:     int64(field2),
					Generation: field3,
					InUse:      true,
				}
			case 2:
				d.xref[objNum] = xrefEntry{
					StreamObjNum: field2,
					Index:        field3,
					InUse:        true,
				}
			}
		}
	}

	d.mergeTrailer(stream.Dictionary)

	if prev, ok := stream.Dictionary.GetInt("Prev"); ok {
		return d.parseXRef(int64(prev), visited)
	}
	return nil
}

// mergeTrailer merges a trailer dictionary, keeping the newest values
func (d *Document) mergeTrailer(trailer Dictionary) {
	if d.trailer == nil {
		d.trailer = trailer
		return
	}
	for k, v := range trailer {
		if _, exists := d.trailer[k]; !exists {
			d.trailer[k] = v
		}
	}
}

// readXRefField reads a big-endian field from an xref stream entry
func readXRefField(data []byte, offset, width int) int {
	result := 0
	for i := 0; i < width; i++ {
		result = result<<8 | int(data[offset+i])
	}
	return result
}

// Resolve resolves an object, following references
func (d *Document) Resolve(obj Object) (Object, error) {
	ref, ok := obj.(Reference)
	if !ok {
		return obj, nil
	}
	return d.GetObject(ref.ObjectNumber)
}

// GetObject gets an object by number
func (d *Document) GetObject(objNum int) (Object, error) {
	if obj, ok := d.objects[objNum]; ok {
		return obj, nil
	}

	entry, ok := d.xref[objNum]
	if !ok || !entry.InUse {
		return Null{}, nil
	}

	var obj Object
	var err error

	if entry.StreamObjNum > 0 {
		// Members of object streams are never individually encrypted,
		// only the containing stream was.
		obj, err = d.getCompressedObject(entry.StreamObjNum, entry.Index)
	} else {
		obj, err = d.getUncompressedObject(entry.Offset)
		if err == nil && d.security != nil {
			obj = d.decryptObject(obj, objNum, entry.Generation)
		}
	}
	if err != nil {
		return nil, err
	}

	d.objects[objNum] = obj
	return obj, nil
}

// getUncompressedObject reads an object stored directly in the file
func (d *Document) getUncompressedObject(offset int64) (Object, error) {
	if offset < 0 || offset >= int64(len(d.data)) {
		return nil, fmt.Errorf("object offset %d out of bounds", offset)
	}
	parser := NewParser(d.data[offset:])
	_, _, obj, err := parser.ParseIndirectObject()
	return obj, err
}

// getCompressedObject reads an object from an object stream
func (d *Document) getCompressedObject(streamObjNum, index int) (Object, error) {
	streamObj, err := d.GetObject(streamObjNum)
	if err != nil {
		return nil, err
	}
	stream, ok := streamObj.(Stream)
	if !ok {
		return nil, fmt.Errorf("object stream %d is not a stream", streamObjNum)
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, err
	}

	first, ok := stream.Dictionary.GetInt("First")
	if !ok {
		return nil, fmt.Errorf("object stream missing First")
	}
	n, ok := stream.Dictionary.GetInt("N")
	if !ok {
		return nil, fmt.Errorf("object stream missing N")
	}

	// Header holds object number/offset pairs
	headerParser := NewParser(data[:first])
	offsets := make([]int64, n)
	for i := int64(0); i < n; i++ {
		if _, err := headerParser.ParseObject(); err != nil {
			return nil, err
		}
		offsetObj, err := headerParser.ParseObject()
		if err != nil {
			return nil, err
		}
		if offset, ok := offsetObj.(Integer); ok {
			offsets[i] = int64(offset)
		}
	}

	if index < 0 || index >= len(offsets) {
		return nil, fmt.Errorf("object index %d out of range", index)
	}

	objParser := NewParser(data[first+offsets[index]:])
	return objParser.ParseObject()
}

// decryptObject decrypts strings and stream bodies in place
func (d *Document) decryptObject(obj Object, objNum, genNum int) Object {
	switch v := obj.(type) {
	case String:
		if dec, err := d.security.DecryptData(v.Value, objNum, genNum); err == nil {
			v.Value = dec
		}
		return v
	case Array:
		for i, item := range v {
			v[i] = d.decryptObject(item, objNum, genNum)
		}
		return v
	case Dictionary:
		for k, item := range v {
			v[k] = d.decryptObject(item, objNum, genNum)
		}
		return v
	case Stream:
		// XRef streams and crypt-filtered metadata are written in the
		// clear; everything else is encrypted.
		if t, _ := v.Dictionary.GetName("Type"); t == "XRef" {
			return v
		}
		if dec, err := d.security.DecryptData(v.Data, objNum, genNum); err == nil {
			v.Data = dec
		}
		v.Dictionary = d.decryptObject(v.Dictionary, objNum, genNum).(Dictionary)
		return v
	default:
		return obj
	}
}

// IsEncrypted reports whether the file carries an Encrypt dictionary
func (d *Document) IsEncrypted() bool {
	return d.trailer.Get("Encrypt") != nil
}

// parsePages walks the page tree
func (d *Document) parsePages() error {
	pagesRef := d.Root.Get("Pages")
	if pagesRef == nil {
		return fmt.Errorf("missing Pages in catalog")
	}

	pagesObj, err := d.Resolve(pagesRef)
	if err != nil {
		return err
	}
	pagesDict, ok := pagesObj.(Dictionary)
	if !ok {
		return fmt.Errorf("Pages is not a dictionary")
	}

	return d.parsePagesNode(pagesDict, 0, nil, Rectangle{}, 0, make(map[int]bool))
}

// parsePagesNode recursively collects leaf pages, inheriting
// Resources and MediaBox from intermediate nodes.
func (d *Document) parsePagesNode(node Dictionary, objNum int, inheritedRes Dictionary, inheritedBox Rectangle, depth int, seen map[int]bool) error {
	if depth > 64 {
		return fmt.Errorf("page tree too deep")
	}

	resources := inheritedRes
	if res := node.Get("Resources"); res != nil {
		if resObj, err := d.Resolve(res); err == nil {
			if resDict, ok := resObj.(Dictionary); ok {
				resources = resDict
			}
		}
	}

	mediaBox := inheritedBox
	if mb := node.Get("MediaBox"); mb != nil {
		if mbObj, err := d.Resolve(mb); err == nil {
			if mbArray, ok := mbObj.(Array); ok && len(mbArray) == 4 {
				mediaBox = arrayToRectangle(mbArray)
			}
		}
	}

	nodeType, _ := node.GetName("Type")
	switch nodeType {
	case "Pages":
		kidsObj, err := d.Resolve(node.Get("Kids"))
		if err != nil {
			return err
		}
		kids, ok := kidsObj.(Array)
		if !ok {
			return fmt.Errorf("Kids is not an array")
		}

		for _, kidRef := range kids {
			kidNum := 0
			if ref, ok := kidRef.(Reference); ok {
				kidNum = ref.ObjectNumber
				if seen[kidNum] {
					continue
				}
				seen[kidNum] = true
			}
			kidObj, err := d.Resolve(kidRef)
			if err != nil {
				continue
			}
			kidDict, ok := kidObj.(Dictionary)
			if !ok {
				continue
			}
			if err := d.parsePagesNode(kidDict, kidNum, resources, mediaBox, depth+1, seen); err != nil {
				return err
			}
		}

	case "Page":
		if mediaBox == (Rectangle{}) {
			// US Letter fallback for files that omit MediaBox entirely
			mediaBox = Rectangle{URX: 612, URY: 792}
		}
		page := &Page{
			doc:        d,
			Dictionary: node,
			ObjectNum:  objNum,
			MediaBox:   mediaBox,
			Resources:  resources,
		}
		if objNum > 0 {
			d.pageIndex[objNum] = len(d.Pages)
		}
		d.Pages = append(d.Pages, page)
	}

	return nil
}

// arrayToRectangle converts a PDF array to a Rectangle
func arrayToRectangle(arr Array) Rectangle {
	var r Rectangle
	if len(arr) >= 4 {
		r.LLX = objectToFloat(arr[0])
		r.LLY = objectToFloat(arr[1])
		r.URX = objectToFloat(arr[2])
		r.URY = objectToFloat(arr[3])
	}
	return r
}

// rectangleToArray converts a Rectangle to a PDF array
func rectangleToArray(r Rectangle) Array {
	return Array{Real(r.LLX), Real(r.LLY), Real(r.URX), Real(r.URY)}
}

// objectToFloat converts a numeric PDF object to float64
func objectToFloat(obj Object) float64 {
	switch v := obj.(type) {
	case Integer:
		return float64(v)
	case Real:
		return float64(v)
	}
	return 0
}

// NumPages returns the number of pages
func (d *Document) NumPages() int {
	return len(d.Pages)
}

// GetPage returns a page by number (1-indexed)
func (d *Document) GetPage(num int) (*Page, error) {
	if num < 1 || num > len(d.Pages) {
		return nil, fmt.Errorf("page %d out of range", num)
	}
	return d.Pages[num-1], nil
}

// pageIndexForObject maps a page object number to its 0-based index
func (d *Document) pageIndexForObject(objNum int) (int, bool) {
	idx, ok := d.pageIndex[objNum]
	return idx, ok
}

// GetContents returns the page content streams as decoded bytes
func (p *Page) GetContents() ([]byte, error) {
	contentsRef := p.Dictionary.Get("Contents")
	if contentsRef == nil {
		return nil, nil
	}

	contentsObj, err := p.doc.Resolve(contentsRef)
	if err != nil {
		return nil, err
	}

	switch contents := contentsObj.(type) {
	case Stream:
		return contents.Decode()
	case Array:
		var buf bytes.Buffer
		for _, ref := range contents {
			streamObj, err := p.doc.Resolve(ref)
			if err != nil {
				continue
			}
			if stream, ok := streamObj.(Stream); ok {
				data, err := stream.Decode()
				if err != nil {
					continue
				}
				buf.Write(data)
				buf.WriteByte('\n')
			}
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("invalid Contents type")
}

// Width returns the page width in points
func (p *Page) Width() float64 {
	return p.MediaBox.Width()
}

// Height returns the page height in points
func (p *Page) Height() float64 {
	return p.MediaBox.Height()
}

// Rotation returns the page rotation in degrees (0, 90, 180 or 270)
func (p *Page) Rotation() int {
	if rot := p.Dictionary.Get("Rotate"); rot != nil {
		if rObj, err := p.doc.Resolve(rot); err == nil {
			if r, ok := rObj.(Integer); ok {
				deg := int(r) % 360
				if deg < 0 {
					deg += 360
				}
				return deg
			}
		}
	}
	return 0
}

// Close releases the document buffers
func (d *Document) Close() error {
	d.data = nil
	d.objects = nil
	d.xref = nil
	d.Pages = nil
	d.pageIndex = nil
	return nil
}
