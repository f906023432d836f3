package pdf

import (
	"fmt"
	"strings"
	"testing"
)

// textPDF builds a one page document with the given content stream and
// a Helvetica font under /F1.
func textPDF(content string) []byte {
	b := newFileBuilder()
	b.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	b.add(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>")
	b.add(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	b.addStream(5, "", []byte(content))
	return b.finish(1, "")
}

func extractPage(t *testing.T, data []byte) string {
	t.Helper()
	d := mustParse(data)
	defer d.Close()
	page, err := d.GetPage(1)
	if err != nil {
		t.Fatal(err)
	}
	text, err := page.ExtractText()
	if err != nil {
		t.Fatal(err)
	}
	return text
}

func TestExtractSimpleText(t *testing.T) {
	text := extractPage(t, textPDF("BT\n/F1 12 Tf\n72 720 Td\n(Hello World) Tj\nET"))
	if !strings.Contains(text, "Hello World") {
		t.Errorf("got %q", text)
	}
}

func TestExtractLineOrder(t *testing.T) {
	// Lines come out top to bottom regardless of stream order.
	content := "BT\n/F1 12 Tf\n72 100 Td\n(bottom) Tj\n72 600 Td\n(top) Tj\nET"
	text := extractPage(t, textPDF(content))

	topIdx := strings.Index(text, "top")
	bottomIdx := strings.Index(text, "bottom")
	if topIdx < 0 || bottomIdx < 0 {
		t.Fatalf("missing lines in %q", text)
	}
	if topIdx > bottomIdx {
		t.Errorf("lines out of order: %q", text)
	}
}

func TestExtractTJArray(t *testing.T) {
	content := "BT\n/F1 12 Tf\n72 720 Td\n[(Hel) -10 (lo)] TJ\nET"
	text := extractPage(t, textPDF(content))
	if !strings.Contains(text, "Hello") {
		t.Errorf("got %q", text)
	}
}

func TestExtractSeparatedRuns(t *testing.T) {
	content := "BT\n/F1 12 Tf\n72 720 Td\n(left) Tj\n1 0 0 1 200 720 Tm\n(right) Tj\nET"
	text := extractPage(t, textPDF(content))
	if !strings.Contains(text, "left right") {
		t.Errorf("got %q", text)
	}
}

func TestExtractNextLineOperators(t *testing.T) {
	content := "BT\n/F1 12 Tf\n14 TL\n72 720 Td\n(first) Tj\n(second) '\nET"
	text := extractPage(t, textPDF(content))
	if !strings.Contains(text, "first") || !strings.Contains(text, "second") {
		t.Fatalf("got %q", text)
	}
	if strings.Index(text, "first") > strings.Index(text, "second") {
		t.Errorf("line order wrong: %q", text)
	}
}

func TestExtractTextMatrix(t *testing.T) {
	content := "BT\n/F1 12 Tf\n1 0 0 1 50 400 Tm\n(positioned) Tj\nET"
	text := extractPage(t, textPDF(content))
	if !strings.Contains(text, "positioned") {
		t.Errorf("got %q", text)
	}
}

func TestExtractGraphicsStateNesting(t *testing.T) {
	content := "q\n2 0 0 2 0 0 cm\nBT\n/F1 12 Tf\n72 300 Td\n(scaled) Tj\nET\nQ\n" +
		"BT\n/F1 12 Tf\n72 100 Td\n(plain) Tj\nET"
	text := extractPage(t, textPDF(content))
	if !strings.Contains(text, "scaled") || !strings.Contains(text, "plain") {
		t.Errorf("got %q", text)
	}
}

func TestExtractHexStringText(t *testing.T) {
	content := fmt.Sprintf("BT\n/F1 12 Tf\n72 720 Td\n<%X> Tj\nET", "hex text")
	text := extractPage(t, textPDF(content))
	if !strings.Contains(text, "hex text") {
		t.Errorf("got %q", text)
	}
}

func TestExtractWithToUnicode(t *testing.T) {
	cmap := `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
2 beginbfchar
<0001> <0041>
<0002> <0042>
endbfchar
endcmap
end
end`
	b := newFileBuilder()
	b.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	b.add(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>")
	b.add(4, "<< /Type /Font /Subtype /Type0 /BaseFont /Custom "+
		"/Encoding /Identity-H /ToUnicode 6 0 R >>")
	b.addStream(5, "", []byte("BT\n/F1 12 Tf\n72 720 Td\n<00010002> Tj\nET"))
	b.addStream(6, "", []byte(cmap))

	text := extractPage(t, b.finish(1, ""))
	if !strings.Contains(text, "AB") {
		t.Errorf("got %q, want AB", text)
	}
}

func TestHexTokenBytes(t *testing.T) {
	if got := hexTokenBytes("<0041>"); len(got) != 2 || got[0] != 0 || got[1] != 0x41 {
		t.Errorf("got % X", got)
	}
	if got := hexTokenBytes("<zz>"); got != nil {
		t.Errorf("invalid hex should return nil, got % X", got)
	}

	if code, ok := codeFromBytes([]byte{0x00, 0x41}); !ok || code != 0x41 {
		t.Errorf("got %#x, %v", code, ok)
	}
	if r := runeFromUTF16Bytes([]byte{0x00, 0x41}); r != 'A' {
		t.Errorf("got %q", r)
	}
}

func TestExtractBfrange(t *testing.T) {
	cmap := `2 beginbfrange
<0010> <0012> <0061>
endbfrange`
	b := newFileBuilder()
	b.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	b.add(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>")
	b.add(4, "<< /Type /Font /Subtype /Type0 /BaseFont /Custom "+
		"/Encoding /Identity-H /ToUnicode 6 0 R >>")
	b.addStream(5, "", []byte("BT\n/F1 12 Tf\n72 720 Td\n<001000110012> Tj\nET"))
	b.addStream(6, "", []byte(cmap))

	text := extractPage(t, b.finish(1, ""))
	if !strings.Contains(text, "abc") {
		t.Errorf("got %q, want abc", text)
	}
}

func TestMultiplyMatrix(t *testing.T) {
	// Translation composed with scale.
	scale := [6]float64{2, 0, 0, 2, 0, 0}
	translate := [6]float64{1, 0, 0, 1, 10, 20}
	got := multiplyMatrix(translate, scale)
	want := [6]float64{2, 0, 0, 2, 20, 40}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
