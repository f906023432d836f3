package pdf

import (
	"bytes"
	"fmt"
	"sort"
)

// fileBuilder assembles a classic xref PDF in memory for parser tests.
type fileBuilder struct {
	buf     bytes.Buffer
	offsets map[int]int
}

func newFileBuilder() *fileBuilder {
	b := &fileBuilder{offsets: make(map[int]int)}
	b.buf.WriteString("%PDF-1.4\n")
	return b
}

// add writes an indirect object with the given body.
func (b *fileBuilder) add(num int, body string) {
	b.offsets[num] = b.buf.Len()
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nendobj\n", num, body)
}

// addStream writes a stream object. dict must omit the Length key.
func (b *fileBuilder) addStream(num int, dict string, data []byte) {
	b.offsets[num] = b.buf.Len()
	fmt.Fprintf(&b.buf, "%d 0 obj\n<< %s /Length %d >>\nstream\n", num, dict, len(data))
	b.buf.Write(data)
	fmt.Fprintf(&b.buf, "\nendstream\nendobj\n")
}

// finish writes the xref table and trailer and returns the file bytes.
// extraTrailer is spliced into the trailer dictionary as-is.
func (b *fileBuilder) finish(rootNum int, extraTrailer string) []byte {
	xrefOffset := b.buf.Len()

	nums := make([]int, 0, len(b.offsets))
	maxNum := 0
	for num := range b.offsets {
		nums = append(nums, num)
		if num > maxNum {
			maxNum = num
		}
	}
	sort.Ints(nums)

	fmt.Fprintf(&b.buf, "xref\n0 %d\n", maxNum+1)
	b.buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= maxNum; num++ {
		if off, ok := b.offsets[num]; ok {
			fmt.Fprintf(&b.buf, "%010d %05d n \n", off, 0)
		} else {
			b.buf.WriteString("0000000000 65535 f \n")
		}
	}
	fmt.Fprintf(&b.buf, "trailer\n<< /Size %d /Root %d 0 R %s >>\n", maxNum+1, rootNum, extraTrailer)
	fmt.Fprintf(&b.buf, "startxref\n%d\n%%%%EOF\n", xrefOffset)
	return b.buf.Bytes()
}

// singlePagePDF returns a one page document with a Helvetica text
// content stream.
func singlePagePDF(text string) []byte {
	b := newFileBuilder()
	b.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	b.add(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>")
	b.add(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	content := fmt.Sprintf("BT\n/F1 24 Tf\n72 720 Td\n(%s) Tj\nET", text)
	b.addStream(5, "", []byte(content))
	return b.finish(1, "")
}

// multiPagePDF returns a document with n pages, each carrying a content
// stream that shows its 1-based page number.
func multiPagePDF(n int) []byte {
	b := newFileBuilder()
	b.add(1, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			kids += " "
		}
		kids += fmt.Sprintf("%d 0 R", 4+2*i)
	}
	b.add(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, n))
	b.add(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i := 0; i < n; i++ {
		pageNum := 4 + 2*i
		b.add(pageNum, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageNum+1))
		content := fmt.Sprintf("BT\n/F1 12 Tf\n72 720 Td\n(Page %d) Tj\nET", i+1)
		b.addStream(pageNum+1, "", []byte(content))
	}
	return b.finish(1, "")
}

// mustParse parses data or panics. Test helper for fixtures that are
// known to be well formed.
func mustParse(data []byte) *Document {
	d, err := NewDocument(data, "")
	if err != nil {
		panic(err)
	}
	return d
}
