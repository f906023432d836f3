package pdf

import (
	"bytes"
	"fmt"
	"strconv"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNull
	TokenBoolean
	TokenInteger
	TokenReal
	TokenString
	TokenHexString
	TokenName
	TokenArrayStart
	TokenArrayEnd
	TokenDictStart
	TokenDictEnd
	TokenStreamStart
	TokenStreamEnd
	TokenObjStart
	TokenObjEnd
	TokenRef
	TokenKeyword
)

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value interface{}
	Pos   int
}

// Lexer performs lexical analysis over a byte slice.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a lexer over data.
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Position returns the current byte offset.
func (l *Lexer) Position() int {
	return l.pos
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.data)
}

func (l *Lexer) peek() byte {
	if l.atEOF() {
		return 0
	}
	return l.data[l.pos]
}

// skipWhitespace skips whitespace and comments.
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() {
		b := l.data[l.pos]
		if isWhitespace(b) {
			l.pos++
			continue
		}
		if b == '%' {
			for !l.atEOF() && l.data[l.pos] != '\r' && l.data[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		return
	}
}

// isWhitespace checks if a byte is PDF whitespace
func isWhitespace(b byte) bool {
	return b == 0 || b == '\t' || b == '\n' || b == '\f' || b == '\r' || b == ' '
}

// isDelimiter checks if a byte is a PDF delimiter
func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' ||
		b == '[' || b == ']' || b == '{' || b == '}' ||
		b == '/' || b == '%'
}

// NextToken returns the next token. Unknown bare words come back as
// TokenKeyword so that content streams, with their operator soup, can
// share this lexer.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	pos := l.pos
	if l.atEOF() {
		return Token{Type: TokenEOF, Pos: pos}, nil
	}

	b := l.data[l.pos]
	l.pos++

	switch b {
	case '[':
		return Token{Type: TokenArrayStart, Pos: pos}, nil
	case ']':
		return Token{Type: TokenArrayEnd, Pos: pos}, nil
	case '(':
		return l.readLiteralString(pos)
	case '<':
		if l.peek() == '<' {
			l.pos++
			return Token{Type: TokenDictStart, Pos: pos}, nil
		}
		return l.readHexString(pos)
	case '>':
		if l.peek() == '>' {
			l.pos++
			return Token{Type: TokenDictEnd, Pos: pos}, nil
		}
		return Token{}, fmt.Errorf("unexpected '>' at offset %d", pos)
	case '/':
		return l.readName(pos)
	case '+', '-', '.':
		l.pos--
		return l.readNumber(pos)
	case '{':
		return Token{Type: TokenKeyword, Value: "{", Pos: pos}, nil
	case '}':
		return Token{Type: TokenKeyword, Value: "}", Pos: pos}, nil
	default:
		if b >= '0' && b <= '9' {
			l.pos--
			return l.readNumber(pos)
		}
		l.pos--
		return l.readKeyword(pos)
	}
}

// readLiteralString reads a literal string (...)
func (l *Lexer) readLiteralString(pos int) (Token, error) {
	var buf bytes.Buffer
	depth := 1

	for depth > 0 {
		if l.atEOF() {
			return Token{}, fmt.Errorf("unterminated string at offset %d", pos)
		}
		b := l.data[l.pos]
		l.pos++

		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth > 0 {
				buf.WriteByte(b)
			}
		case '\\':
			escaped, err := l.readEscapeSequence()
			if err != nil {
				return Token{}, err
			}
			buf.Write(escaped)
		default:
			buf.WriteByte(b)
		}
	}
	return Token{Type: TokenString, Value: buf.Bytes(), Pos: pos}, nil
}

// readEscapeSequence reads one escape sequence in a literal string.
func (l *Lexer) readEscapeSequence() ([]byte, error) {
	if l.atEOF() {
		return nil, fmt.Errorf("unterminated escape sequence")
	}
	b := l.data[l.pos]
	l.pos++

	switch b {
	case 'n':
		return []byte{'\n'}, nil
	case 'r':
		return []byte{'\r'}, nil
	case 't':
		return []byte{'\t'}, nil
	case 'b':
		return []byte{'\b'}, nil
	case 'f':
		return []byte{'\f'}, nil
	case '(', ')', '\\':
		return []byte{b}, nil
	case '\r':
		if l.peek() == '\n' {
			l.pos++
		}
		return nil, nil // line continuation
	case '\n':
		return nil, nil
	default:
		if b >= '0' && b <= '7' {
			octal := []byte{b}
			for i := 0; i < 2 && !l.atEOF(); i++ {
				next := l.data[l.pos]
				if next < '0' || next > '7' {
					break
				}
				octal = append(octal, next)
				l.pos++
			}
			val, _ := strconv.ParseInt(string(octal), 8, 16)
			return []byte{byte(val)}, nil
		}
		return []byte{b}, nil
	}
}

// readHexString reads a hexadecimal string <...>
func (l *Lexer) readHexString(pos int) (Token, error) {
	var hex []byte
	for {
		if l.atEOF() {
			return Token{}, fmt.Errorf("unterminated hex string at offset %d", pos)
		}
		b := l.data[l.pos]
		l.pos++
		if b == '>' {
			break
		}
		if isWhitespace(b) {
			continue
		}
		hex = append(hex, b)
	}

	if len(hex)%2 != 0 {
		hex = append(hex, '0')
	}
	decoded := make([]byte, len(hex)/2)
	for i := 0; i < len(hex); i += 2 {
		val, err := strconv.ParseUint(string(hex[i:i+2]), 16, 8)
		if err != nil {
			return Token{}, fmt.Errorf("invalid hex string at offset %d", pos)
		}
		decoded[i/2] = byte(val)
	}
	return Token{Type: TokenHexString, Value: decoded, Pos: pos}, nil
}

// readName reads a name object /...
func (l *Lexer) readName(pos int) (Token, error) {
	var buf bytes.Buffer
	for !l.atEOF() {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		l.pos++

		if b == '#' && l.pos+1 < len(l.data) {
			val, err := strconv.ParseUint(string(l.data[l.pos:l.pos+2]), 16, 8)
			if err == nil {
				buf.WriteByte(byte(val))
				l.pos += 2
				continue
			}
		}
		buf.WriteByte(b)
	}
	return Token{Type: TokenName, Value: buf.String(), Pos: pos}, nil
}

// readNumber reads an integer or real number.
func (l *Lexer) readNumber(pos int) (Token, error) {
	var buf bytes.Buffer
	hasDecimal := false
	hasDigit := false

	for !l.atEOF() {
		b := l.data[l.pos]
		switch {
		case b == '+' || b == '-':
			if buf.Len() > 0 {
				goto done
			}
		case b == '.':
			if hasDecimal {
				goto done
			}
			hasDecimal = true
		case b >= '0' && b <= '9':
			hasDigit = true
		default:
			goto done
		}
		buf.WriteByte(b)
		l.pos++
	}
done:
	if !hasDigit {
		return Token{}, fmt.Errorf("invalid number at offset %d", pos)
	}

	str := buf.String()
	if hasDecimal {
		val, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return Token{}, fmt.Errorf("invalid real number at offset %d", pos)
		}
		return Token{Type: TokenReal, Value: val, Pos: pos}, nil
	}
	val, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("invalid integer at offset %d", pos)
	}
	return Token{Type: TokenInteger, Value: val, Pos: pos}, nil
}

// readKeyword reads a bare word: true, false, null, obj, R, operators...
func (l *Lexer) readKeyword(pos int) (Token, error) {
	var buf bytes.Buffer
	for !l.atEOF() {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		buf.WriteByte(b)
		l.pos++
	}
	if buf.Len() == 0 {
		return Token{}, fmt.Errorf("unexpected character %q at offset %d", l.data[l.pos], pos)
	}

	switch keyword := buf.String(); keyword {
	case "true":
		return Token{Type: TokenBoolean, Value: true, Pos: pos}, nil
	case "false":
		return Token{Type: TokenBoolean, Value: false, Pos: pos}, nil
	case "null":
		return Token{Type: TokenNull, Pos: pos}, nil
	case "obj":
		return Token{Type: TokenObjStart, Pos: pos}, nil
	case "endobj":
		return Token{Type: TokenObjEnd, Pos: pos}, nil
	case "stream":
		return Token{Type: TokenStreamStart, Pos: pos}, nil
	case "endstream":
		return Token{Type: TokenStreamEnd, Pos: pos}, nil
	case "R":
		return Token{Type: TokenRef, Pos: pos}, nil
	default:
		return Token{Type: TokenKeyword, Value: keyword, Pos: pos}, nil
	}
}

// ReadLine reads bytes up to the next end of line.
func (l *Lexer) ReadLine() []byte {
	start := l.pos
	for !l.atEOF() {
		b := l.data[l.pos]
		if b == '\r' {
			line := l.data[start:l.pos]
			l.pos++
			if l.peek() == '\n' {
				l.pos++
			}
			return line
		}
		if b == '\n' {
			line := l.data[start:l.pos]
			l.pos++
			return line
		}
		l.pos++
	}
	return l.data[start:]
}

// ReadBytes reads up to n bytes.
func (l *Lexer) ReadBytes(n int) []byte {
	if l.pos+n > len(l.data) {
		n = len(l.data) - l.pos
	}
	out := l.data[l.pos : l.pos+n]
	l.pos += n
	return out
}
