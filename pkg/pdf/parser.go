package pdf

import (
	"bytes"
	"fmt"
	"io"
)

// Parser assembles objects from the token stream.
type Parser struct {
	lexer   *Lexer
	pending []Token // pushed-back tokens, consumed before the lexer
}

// NewParser creates a parser over data.
func NewParser(data []byte) *Parser {
	return &Parser{lexer: NewLexer(data)}
}

func (p *Parser) next() (Token, error) {
	if n := len(p.pending); n > 0 {
		tok := p.pending[n-1]
		p.pending = p.pending[:n-1]
		return tok, nil
	}
	return p.lexer.NextToken()
}

func (p *Parser) unread(tok Token) {
	p.pending = append(p.pending, tok)
}

func (p *Parser) expect(tt TokenType, what string) (Token, error) {
	tok, err := p.next()
	if err != nil {
		return Token{}, err
	}
	if tok.Type != tt {
		return Token{}, fmt.Errorf("expected %s at offset %d", what, tok.Pos)
	}
	return tok, nil
}

// ParseObject parses a single PDF object.
func (p *Parser) ParseObject() (Object, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case TokenEOF:
		return nil, io.EOF
	case TokenNull:
		return Null{}, nil
	case TokenBoolean:
		return Boolean(tok.Value.(bool)), nil
	case TokenInteger:
		return p.integerOrReference(tok)
	case TokenReal:
		return Real(tok.Value.(float64)), nil
	case TokenString:
		return String{Value: tok.Value.([]byte)}, nil
	case TokenHexString:
		return String{Value: tok.Value.([]byte), IsHex: true}, nil
	case TokenName:
		return Name(tok.Value.(string)), nil
	case TokenArrayStart:
		return p.parseArray()
	case TokenDictStart:
		return p.parseDictionary()
	}
	return nil, fmt.Errorf("unexpected token type %d at offset %d", tok.Type, tok.Pos)
}

// integerOrReference disambiguates "num" from "num gen R". Tokens read
// while probing are pushed back when the R never arrives.
func (p *Parser) integerOrReference(num Token) (Object, error) {
	gen, err := p.next()
	if err != nil || gen.Type != TokenInteger {
		if err == nil {
			p.unread(gen)
		}
		return Integer(num.Value.(int64)), nil
	}

	r, err := p.next()
	if err != nil || r.Type != TokenRef {
		if err == nil {
			p.unread(r)
		}
		p.unread(gen)
		return Integer(num.Value.(int64)), nil
	}

	return Reference{
		ObjectNumber:     int(num.Value.(int64)),
		GenerationNumber: int(gen.Value.(int64)),
	}, nil
}

func (p *Parser) parseArray() (Array, error) {
	var arr Array
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenArrayEnd {
			return arr, nil
		}
		p.unread(tok)

		obj, err := p.ParseObject()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) parseDictionary() (Dictionary, error) {
	dict := make(Dictionary)
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenDictEnd {
			return dict, nil
		}
		if tok.Type != TokenName {
			return nil, fmt.Errorf("expected name as dictionary key at offset %d", tok.Pos)
		}

		value, err := p.ParseObject()
		if err != nil {
			return nil, err
		}
		dict[Name(tok.Value.(string))] = value
	}
}

// ParseIndirectObject parses "num gen obj ... endobj", including any
// stream body.
func (p *Parser) ParseIndirectObject() (int, int, Object, error) {
	numTok, err := p.expect(TokenInteger, "object number")
	if err != nil {
		return 0, 0, nil, err
	}
	genTok, err := p.expect(TokenInteger, "generation number")
	if err != nil {
		return 0, 0, nil, err
	}
	if _, err := p.expect(TokenObjStart, "'obj' keyword"); err != nil {
		return 0, 0, nil, err
	}

	obj, err := p.ParseObject()
	if err != nil {
		return 0, 0, nil, err
	}

	tok, err := p.next()
	if err != nil {
		return 0, 0, nil, err
	}
	if tok.Type == TokenStreamStart {
		dict, ok := obj.(Dictionary)
		if !ok {
			return 0, 0, nil, fmt.Errorf("stream without dictionary at offset %d", tok.Pos)
		}
		data, err := p.readStreamData(dict)
		if err != nil {
			return 0, 0, nil, err
		}
		obj = Stream{Dictionary: dict, Data: data}

		if _, err := p.expect(TokenStreamEnd, "'endstream'"); err != nil {
			return 0, 0, nil, err
		}
	} else {
		p.unread(tok)
	}

	if _, err := p.expect(TokenObjEnd, "'endobj'"); err != nil {
		return 0, 0, nil, err
	}

	return int(numTok.Value.(int64)), int(genTok.Value.(int64)), obj, nil
}

// readStreamData reads the raw stream body. When Length is absent or an
// indirect reference we scan ahead for the endstream marker instead of
// resolving it, which tolerates broken writers too.
func (p *Parser) readStreamData(dict Dictionary) ([]byte, error) {
	// Pushed-back tokens predate the raw section and cannot be valid here.
	p.pending = p.pending[:0]

	// Consume the EOL after the stream keyword.
	if p.lexer.peek() == '\r' {
		p.lexer.pos++
	}
	if p.lexer.peek() == '\n' {
		p.lexer.pos++
	}

	if length, ok := dict.GetInt("Length"); ok {
		return p.lexer.ReadBytes(int(length)), nil
	}
	return p.readStreamUntilEnd()
}

// readStreamUntilEnd scans forward for "endstream".
func (p *Parser) readStreamUntilEnd() ([]byte, error) {
	rest := p.lexer.data[p.lexer.pos:]
	idx := bytes.Index(rest, []byte("endstream"))
	if idx < 0 {
		return nil, fmt.Errorf("unterminated stream")
	}

	data := rest[:idx]
	p.lexer.pos += idx

	for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
		data = data[:len(data)-1]
	}
	return data, nil
}
