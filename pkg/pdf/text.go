package pdf

import (
	"sort"
	"strings"
	"unicode/utf16"
)

// TextFont carries the decoding tables for one content stream font
type TextFont struct {
	Name       string
	Subtype    string
	Encoding   string
	IsIdentity bool
	ToUnicode  map[uint16]rune
}

// ExtractText returns the text of a page in reading order
func (p *Page) ExtractText() (string, error) {
	contents, err := p.GetContents()
	if err != nil {
		return "", err
	}
	if len(contents) == 0 {
		return "", nil
	}

	ex := &textExtractor{
		doc:       p.doc,
		resources: p.Resources,
		fonts:     make(map[string]*TextFont),
	}
	return ex.extract(contents), nil
}

// textItem is a positioned run of decoded text
type textItem struct {
	text string
	x, y float64
	endX float64 // estimated x after the run's advance
	size float64 // font size the run was shown at
}

// textExtractor interprets the text operators of a content stream
type textExtractor struct {
	doc       *Document
	resources Dictionary
	fonts     map[string]*TextFont

	items []textItem

	tm        [6]float64
	tlm       [6]float64
	ctm       [6]float64
	ctmStack  [][6]float64
	font      *TextFont
	fontSize  float64
	leading   float64
	charSpace float64
	wordSpace float64
	scale     float64
}

func (ex *textExtractor) extract(contents []byte) string {
	ex.tm = identityMatrix()
	ex.tlm = identityMatrix()
	ex.ctm = identityMatrix()
	ex.fontSize = 12
	ex.scale = 100

	lexer := NewLexer(contents)
	var operands []Object

	for {
		tok, err := lexer.NextToken()
		if err != nil || tok.Type == TokenEOF {
			break
		}

		if tok.Type == TokenKeyword {
			ex.apply(tok.Value.(string), operands)
			operands = operands[:0]
			continue
		}

		obj, ok := contentOperand(lexer, tok)
		if ok {
			operands = append(operands, obj)
		}
	}

	return ex.buildText()
}

// contentOperand converts a token into an operand object. Arrays and
// dictionaries recurse into the same lexer.
func contentOperand(lexer *Lexer, tok Token) (Object, bool) {
	switch tok.Type {
	case TokenNull:
		return Null{}, true
	case TokenBoolean:
		return Boolean(tok.Value.(bool)), true
	case TokenInteger:
		return Integer(tok.Value.(int64)), true
	case TokenReal:
		return Real(tok.Value.(float64)), true
	case TokenString:
		return String{Value: tok.Value.([]byte)}, true
	case TokenHexString:
		return String{Value: tok.Value.([]byte), IsHex: true}, true
	case TokenName:
		return Name(tok.Value.(string)), true
	case TokenArrayStart:
		var arr Array
		for {
			t, err := lexer.NextToken()
			if err != nil || t.Type == TokenEOF || t.Type == TokenArrayEnd {
				return arr, true
			}
			if obj, ok := contentOperand(lexer, t); ok {
				arr = append(arr, obj)
			}
		}
	case TokenDictStart:
		dict := make(Dictionary)
		var key Name
		haveKey := false
		for {
			t, err := lexer.NextToken()
			if err != nil || t.Type == TokenEOF || t.Type == TokenDictEnd {
				return dict, true
			}
			obj, ok := contentOperand(lexer, t)
			if !ok {
				continue
			}
			if !haveKey {
				if n, isName := obj.(Name); isName {
					key = n
					haveKey = true
				}
				continue
			}
			dict[key] = obj
			haveKey = false
		}
	}
	return nil, false
}

// apply executes one text related operator
func (ex *textExtractor) apply(op string, operands []Object) {
	switch op {
	case "q":
		ex.ctmStack = append(ex.ctmStack, ex.ctm)
	case "Q":
		if n := len(ex.ctmStack); n > 0 {
			ex.ctm = ex.ctmStack[n-1]
			ex.ctmStack = ex.ctmStack[:n-1]
		}
	case "cm":
		if m, ok := matrixOperands(operands); ok {
			ex.ctm = multiplyMatrix(m, ex.ctm)
		}

	case "BT":
		ex.tm = identityMatrix()
		ex.tlm = identityMatrix()
	case "ET":

	case "Tf":
		if len(operands) == 2 {
			if name, ok := operands[0].(Name); ok {
				ex.font = ex.lookupFont(string(name))
			}
			ex.fontSize = objectToFloat(operands[1])
		}
	case "Tc":
		if len(operands) == 1 {
			ex.charSpace = objectToFloat(operands[0])
		}
	case "Tw":
		if len(operands) == 1 {
			ex.wordSpace = objectToFloat(operands[0])
		}
	case "Tz":
		if len(operands) == 1 {
			ex.scale = objectToFloat(operands[0])
		}
	case "TL":
		if len(operands) == 1 {
			ex.leading = objectToFloat(operands[0])
		}

	case "Td":
		if len(operands) == 2 {
			ex.translateLine(objectToFloat(operands[0]), objectToFloat(operands[1]))
		}
	case "TD":
		if len(operands) == 2 {
			ty := objectToFloat(operands[1])
			ex.leading = -ty
			ex.translateLine(objectToFloat(operands[0]), ty)
		}
	case "Tm":
		if m, ok := matrixOperands(operands); ok {
			ex.tm = m
			ex.tlm = m
		}
	case "T*":
		ex.translateLine(0, -ex.leading)

	case "Tj":
		if len(operands) == 1 {
			if s, ok := operands[0].(String); ok {
				ex.showText(s.Value)
			}
		}
	case "'":
		ex.translateLine(0, -ex.leading)
		if len(operands) == 1 {
			if s, ok := operands[0].(String); ok {
				ex.showText(s.Value)
			}
		}
	case "\"":
		if len(operands) == 3 {
			ex.wordSpace = objectToFloat(operands[0])
			ex.charSpace = objectToFloat(operands[1])
			ex.translateLine(0, -ex.leading)
			if s, ok := operands[2].(String); ok {
				ex.showText(s.Value)
			}
		}
	case "TJ":
		if len(operands) == 1 {
			if arr, ok := operands[0].(Array); ok {
				for _, item := range arr {
					switch v := item.(type) {
					case String:
						ex.showText(v.Value)
					case Integer, Real:
						ex.tm[4] -= objectToFloat(v) / 1000 * ex.fontSize * ex.scale / 100
					}
				}
			}
		}
	}
}

func (ex *textExtractor) translateLine(tx, ty float64) {
	ex.tlm = multiplyMatrix([6]float64{1, 0, 0, 1, tx, ty}, ex.tlm)
	ex.tm = ex.tlm
}

// showText decodes a string and records it at the current position
func (ex *textExtractor) showText(data []byte) {
	text := ex.decodeText(data)
	if text == "" {
		return
	}

	x := ex.ctm[0]*ex.tm[4] + ex.ctm[2]*ex.tm[5] + ex.ctm[4]
	y := ex.ctm[1]*ex.tm[4] + ex.ctm[3]*ex.tm[5] + ex.ctm[5]

	// Advance by an estimated width so later runs on the same line
	// keep their relative order.
	width := 0.5 * ex.fontSize * float64(len([]rune(text)))
	width += ex.charSpace * float64(len([]rune(text)))
	width += ex.wordSpace * float64(strings.Count(text, " "))
	ex.tm[4] += width * ex.scale / 100

	endX := ex.ctm[0]*ex.tm[4] + ex.ctm[2]*ex.tm[5] + ex.ctm[4]
	ex.items = append(ex.items, textItem{text: text, x: x, y: y, endX: endX, size: ex.fontSize})
}

// decodeText maps raw string bytes to Unicode using the current font
func (ex *textExtractor) decodeText(data []byte) string {
	if ex.font != nil && (len(ex.font.ToUnicode) > 0 || ex.font.IsIdentity) {
		var runes []rune
		for i := 0; i < len(data); {
			var code uint16
			if ex.font.IsIdentity && i+1 < len(data) {
				code = uint16(data[i])<<8 | uint16(data[i+1])
				i += 2
			} else {
				code = uint16(data[i])
				i++
			}
			if r, ok := ex.font.ToUnicode[code]; ok {
				runes = append(runes, r)
			} else {
				runes = append(runes, rune(code))
			}
		}
		return string(runes)
	}

	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		return decodeUTF16BE(data[2:])
	}
	return string(data)
}

// lookupFont resolves a /Font resource entry into decoding tables
func (ex *textExtractor) lookupFont(name string) *TextFont {
	if font, ok := ex.fonts[name]; ok {
		return font
	}

	font := &TextFont{Name: name, ToUnicode: make(map[uint16]rune)}
	ex.fonts[name] = font

	if ex.resources == nil {
		return font
	}
	fontsDict := ex.doc.resolveDict(ex.resources.Get("Font"))
	dict := ex.doc.resolveDict(fontsDict.Get(name))
	if dict == nil {
		return font
	}

	if subtype, ok := dict.GetName("Subtype"); ok {
		font.Subtype = string(subtype)
	}
	if baseFont, ok := dict.GetName("BaseFont"); ok {
		font.Name = string(baseFont)
	}
	if enc, ok := dict.GetName("Encoding"); ok {
		font.Encoding = string(enc)
		font.IsIdentity = font.Encoding == "Identity-H" || font.Encoding == "Identity-V"
	}
	if toUnicode := dict.Get("ToUnicode"); toUnicode != nil {
		ex.parseToUnicode(font, toUnicode)
	}

	return font
}

// parseToUnicode reads the bfchar and bfrange sections of a CMap
func (ex *textExtractor) parseToUnicode(font *TextFont, ref Object) {
	obj, err := ex.doc.Resolve(ref)
	if err != nil {
		return
	}
	stream, ok := obj.(Stream)
	if !ok {
		return
	}
	data, err := stream.Decode()
	if err != nil {
		return
	}

	inBfChar := false
	inBfRange := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.Contains(line, "beginbfchar"):
			inBfChar = true
			continue
		case strings.Contains(line, "endbfchar"):
			inBfChar = false
			continue
		case strings.Contains(line, "beginbfrange"):
			inBfRange = true
			continue
		case strings.Contains(line, "endbfrange"):
			inBfRange = false
			continue
		}

		parts := strings.Fields(line)
		if inBfChar && len(parts) >= 2 {
			src := hexTokenBytes(parts[0])
			dst := hexTokenBytes(parts[1])
			if code, ok := codeFromBytes(src); ok && len(dst) >= 2 {
				font.ToUnicode[code] = runeFromUTF16Bytes(dst)
			}
		}
		if inBfRange && len(parts) >= 3 {
			start := hexTokenBytes(parts[0])
			end := hexTokenBytes(parts[1])
			dst := hexTokenBytes(parts[2])
			startCode, ok1 := codeFromBytes(start)
			endCode, ok2 := codeFromBytes(end)
			if ok1 && ok2 && len(dst) >= 2 && startCode <= endCode {
				r := runeFromUTF16Bytes(dst)
				for code := uint32(startCode); code <= uint32(endCode); code++ {
					font.ToUnicode[uint16(code)] = r
					r++
				}
			}
		}
	}
}

// hexTokenBytes decodes a <...> hex token from a CMap
func hexTokenBytes(s string) []byte {
	s = strings.Trim(s, "<>")
	var out []byte
	for i := 0; i+1 < len(s); i += 2 {
		hi := hexDigit(s[i])
		lo := hexDigit(s[i+1])
		if hi < 0 || lo < 0 {
			return nil
		}
		out = append(out, byte(hi<<4|lo))
	}
	return out
}

func hexDigit(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return -1
}

func codeFromBytes(b []byte) (uint16, bool) {
	switch len(b) {
	case 1:
		return uint16(b[0]), true
	case 2:
		return uint16(b[0])<<8 | uint16(b[1]), true
	}
	return 0, false
}

func runeFromUTF16Bytes(b []byte) rune {
	u16s := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u16s = append(u16s, uint16(b[i])<<8|uint16(b[i+1]))
	}
	decoded := utf16.Decode(u16s)
	if len(decoded) == 0 {
		return 0
	}
	return decoded[0]
}

// buildText orders the collected runs top to bottom, left to right
func (ex *textExtractor) buildText() string {
	if len(ex.items) == 0 {
		return ""
	}

	items := make([]textItem, len(ex.items))
	copy(items, ex.items)

	// Runs whose baselines are within half a line merge into one line
	const lineTolerance = 5.0
	sort.SliceStable(items, func(i, j int) bool {
		if diff := items[i].y - items[j].y; diff > lineTolerance || diff < -lineTolerance {
			return items[i].y > items[j].y
		}
		return items[i].x < items[j].x
	})

	var sb strings.Builder
	lastY := items[0].y
	for i, item := range items {
		if i > 0 {
			if lastY-item.y > lineTolerance {
				sb.WriteByte('\n')
			} else if wordGap(items[i-1], item) &&
				!strings.HasSuffix(sb.String(), " ") && !strings.HasPrefix(item.text, " ") {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(item.text)
		lastY = item.y
	}
	return sb.String()
}

// wordGap reports whether the horizontal distance between two runs on
// one line is wide enough to be a word break. Runs split across TJ
// kerning adjustments sit nearly flush and stay joined.
func wordGap(prev, cur textItem) bool {
	threshold := 0.3 * cur.size
	if threshold <= 0 {
		threshold = 1
	}
	return cur.x-prev.endX > threshold
}

// matrixOperands reads six numeric operands as a matrix
func matrixOperands(operands []Object) ([6]float64, bool) {
	if len(operands) != 6 {
		return [6]float64{}, false
	}
	var m [6]float64
	for i, op := range operands {
		m[i] = objectToFloat(op)
	}
	return m, true
}

func identityMatrix() [6]float64 {
	return [6]float64{1, 0, 0, 1, 0, 0}
}

// multiplyMatrix computes a*b for row-major [a b c d e f] matrices
func multiplyMatrix(a, b [6]float64) [6]float64 {
	return [6]float64{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
		a[4]*b[0] + a[5]*b[2] + b[4],
		a[4]*b[1] + a[5]*b[3] + b[5],
	}
}
