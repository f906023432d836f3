package pdf

import (
	"bytes"
	"testing"
)

func TestLexerTokens(t *testing.T) {
	lexer := NewLexer([]byte("<< /Type /Page >> [1 2.5 -3] (hi) <48690A> true null 4 0 R obj endobj"))

	want := []TokenType{
		TokenDictStart, TokenName, TokenName, TokenDictEnd,
		TokenArrayStart, TokenInteger, TokenReal, TokenInteger, TokenArrayEnd,
		TokenString, TokenHexString, TokenBoolean, TokenNull,
		TokenInteger, TokenInteger, TokenRef, TokenObjStart, TokenObjEnd,
		TokenEOF,
	}
	for i, wantType := range want {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
		if tok.Type != wantType {
			t.Fatalf("token %d: got type %d, want %d", i, tok.Type, wantType)
		}
	}
}

func TestLexerLiteralString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(simple)", "simple"},
		{"(nested (parens) kept)", "nested (parens) kept"},
		{`(escape \( \) \\ \n)`, "escape ( ) \\ \n"},
		{`(octal \101\102)`, "octal AB"},
		{"()", ""},
	}
	for _, tt := range tests {
		lexer := NewLexer([]byte(tt.in))
		tok, err := lexer.NextToken()
		if err != nil {
			t.Errorf("%s: %v", tt.in, err)
			continue
		}
		if tok.Type != TokenString {
			t.Errorf("%s: got type %d, want TokenString", tt.in, tok.Type)
			continue
		}
		if got := string(tok.Value.([]byte)); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLexerHexString(t *testing.T) {
	lexer := NewLexer([]byte("<48 65 6C6C 6F>"))
	tok, err := lexer.NextToken()
	if err != nil {
		t.Fatal(err)
	}
	if got := string(tok.Value.([]byte)); got != "Hello" {
		t.Errorf("got %q, want 'Hello'", got)
	}

	// Odd digit counts get a trailing zero.
	lexer = NewLexer([]byte("<481>"))
	tok, err = lexer.NextToken()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(tok.Value.([]byte), []byte{0x48, 0x10}) {
		t.Errorf("got % X, want 48 10", tok.Value.([]byte))
	}
}

func TestLexerNameEscapes(t *testing.T) {
	lexer := NewLexer([]byte("/A#20B"))
	tok, err := lexer.NextToken()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Value.(string) != "A B" {
		t.Errorf("got %q, want 'A B'", tok.Value)
	}
}

func TestLexerComments(t *testing.T) {
	lexer := NewLexer([]byte("% a comment\n42"))
	tok, err := lexer.NextToken()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Type != TokenInteger || tok.Value.(int64) != 42 {
		t.Errorf("got %v, want integer 42", tok)
	}
}

func TestLexerKeyword(t *testing.T) {
	lexer := NewLexer([]byte("BT Tf ET"))
	for _, want := range []string{"BT", "Tf", "ET"} {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatal(err)
		}
		if tok.Type != TokenKeyword || tok.Value.(string) != want {
			t.Errorf("got %v, want keyword %q", tok, want)
		}
	}
}

func TestLexerReadLine(t *testing.T) {
	lexer := NewLexer([]byte("one\r\ntwo\nthree"))
	for _, want := range []string{"one", "two", "three"} {
		line := lexer.ReadLine()
		if string(line) != want {
			t.Errorf("got %q, want %q", line, want)
		}
	}
}
