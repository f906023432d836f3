package pdf

import (
	"bytes"
	"testing"
)

func TestFlateRoundTrip(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog, twice over")
	encoded := flateEncode(payload)
	decoded, err := applyFilter(encoded, "FlateDecode", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Errorf("got %q, want %q", decoded, payload)
	}
}

func TestASCIIHexDecode(t *testing.T) {
	decoded, err := applyFilter([]byte("48 65 6C 6C 6F>"), "ASCIIHexDecode", nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "Hello" {
		t.Errorf("got %q, want 'Hello'", decoded)
	}

	// An odd digit count implies a trailing zero.
	decoded, err = applyFilter([]byte("486>"), "ASCIIHexDecode", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, []byte{0x48, 0x60}) {
		t.Errorf("got % X, want 48 60", decoded)
	}
}

func TestASCII85Decode(t *testing.T) {
	// "Man " encodes to 9jqo^ in ascii85.
	decoded, err := applyFilter([]byte("9jqo^~>"), "ASCII85Decode", nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "Man " {
		t.Errorf("got %q, want 'Man '", decoded)
	}
}

func TestRunLengthDecode(t *testing.T) {
	// 2 literal bytes, then 'x' repeated 4 times, then EOD.
	in := []byte{1, 'a', 'b', 0xFD, 'x', 0x80}
	decoded, err := applyFilter(in, "RunLengthDecode", nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "abxxxx" {
		t.Errorf("got %q, want 'abxxxx'", decoded)
	}
}

func TestDCTPassThrough(t *testing.T) {
	raw := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	decoded, err := applyFilter(raw, "DCTDecode", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, raw) {
		t.Error("DCTDecode should pass data through untouched")
	}
}

func TestUnknownFilter(t *testing.T) {
	if _, err := applyFilter([]byte("data"), "NoSuchFilter", nil); err == nil {
		t.Error("unknown filter should fail")
	}
}

func TestPNGPredictor(t *testing.T) {
	// Predictor 12 (PNG Up) over two rows of two columns.
	// Row format: filter byte then data bytes.
	encoded := flateEncode([]byte{
		2, 10, 20, // up filter, first row has no prior row
		2, 5, 5, // second row adds to the first
	})
	params := Dictionary{
		"Predictor":        Integer(12),
		"Columns":          Integer(2),
		"Colors":           Integer(1),
		"BitsPerComponent": Integer(8),
	}
	decoded, err := applyFilter(encoded, "FlateDecode", params)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{10, 20, 15, 25}
	if !bytes.Equal(decoded, want) {
		t.Errorf("got % X, want % X", decoded, want)
	}
}
