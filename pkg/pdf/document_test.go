package pdf

import (
	"bytes"
	"strings"
	"testing"
)

func TestOpenSinglePage(t *testing.T) {
	d, err := NewDocument(singlePagePDF("Hello"), "")
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	if d.Version != "1.4" {
		t.Errorf("version: got %q, want 1.4", d.Version)
	}
	if d.NumPages() != 1 {
		t.Fatalf("pages: got %d, want 1", d.NumPages())
	}

	page, err := d.GetPage(1)
	if err != nil {
		t.Fatal(err)
	}
	if page.Width() != 612 || page.Height() != 792 {
		t.Errorf("size: got %gx%g, want 612x792", page.Width(), page.Height())
	}
	if page.Rotation() != 0 {
		t.Errorf("rotation: got %d, want 0", page.Rotation())
	}
}

func TestOpenMultiPage(t *testing.T) {
	d := mustParse(multiPagePDF(5))
	defer d.Close()

	if d.NumPages() != 5 {
		t.Fatalf("pages: got %d, want 5", d.NumPages())
	}
	for n := 1; n <= 5; n++ {
		if _, err := d.GetPage(n); err != nil {
			t.Errorf("page %d: %v", n, err)
		}
	}
	if _, err := d.GetPage(0); err == nil {
		t.Error("page 0 should be out of range")
	}
	if _, err := d.GetPage(6); err == nil {
		t.Error("page 6 should be out of range")
	}
}

func TestOpenNotPDF(t *testing.T) {
	if _, err := NewDocument([]byte("plain text, not a PDF"), ""); err == nil {
		t.Error("expected an error for non-PDF data")
	}
}

func TestOpenTruncated(t *testing.T) {
	data := singlePagePDF("Hello")
	if _, err := NewDocument(data[:len(data)/2], ""); err == nil {
		t.Error("expected an error for truncated data")
	}
}

func TestGetContents(t *testing.T) {
	d := mustParse(singlePagePDF("Hello"))
	defer d.Close()

	page, err := d.GetPage(1)
	if err != nil {
		t.Fatal(err)
	}
	contents, err := page.GetContents()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(contents, []byte("(Hello) Tj")) {
		t.Errorf("contents missing text operator: %q", contents)
	}
}

func TestInheritedPageAttributes(t *testing.T) {
	// MediaBox and Resources declared on the Pages node apply to kids
	// that omit them.
	b := newFileBuilder()
	b.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 200 400] "+
		"/Resources << /Font << /F1 4 0 R >> >> >>")
	b.add(3, "<< /Type /Page /Parent 2 0 R >>")
	b.add(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	d := mustParse(b.finish(1, ""))
	defer d.Close()

	page, err := d.GetPage(1)
	if err != nil {
		t.Fatal(err)
	}
	if page.Width() != 200 || page.Height() != 400 {
		t.Errorf("size: got %gx%g, want 200x400", page.Width(), page.Height())
	}
	if page.Resources == nil || page.Resources.Get("Font") == nil {
		t.Error("inherited resources not applied")
	}
}

func TestPageRotationNormalized(t *testing.T) {
	b := newFileBuilder()
	b.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	b.add(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Rotate 450 >>")

	d := mustParse(b.finish(1, ""))
	defer d.Close()

	page, _ := d.GetPage(1)
	if page.Rotation() != 90 {
		t.Errorf("rotation: got %d, want 90", page.Rotation())
	}
}

func TestDocumentInfo(t *testing.T) {
	b := newFileBuilder()
	b.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	b.add(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	b.add(4, "<< /Title (Test Document) /Author (Alice) "+
		"/CreationDate (D:20240115103000Z) /CustomKey (custom value) >>")
	data := b.finish(1, "/Info 4 0 R")

	d := mustParse(data)
	defer d.Close()

	info := d.GetInfo()
	if info.Title != "Test Document" {
		t.Errorf("title: got %q", info.Title)
	}
	if info.Author != "Alice" {
		t.Errorf("author: got %q", info.Author)
	}
	if info.CreationDate.IsZero() {
		t.Error("creation date not parsed")
	}
	if info.CreationDate.Year() != 2024 || info.CreationDate.Month() != 1 {
		t.Errorf("creation date: got %v", info.CreationDate)
	}
	if info.Custom["CustomKey"] != "custom value" {
		t.Errorf("custom: got %v", info.Custom)
	}
	if info.Encrypted {
		t.Error("document should not report encryption")
	}
}

func TestResolveChain(t *testing.T) {
	d := mustParse(singlePagePDF("Hello"))
	defer d.Close()

	obj, err := d.Resolve(Reference{ObjectNumber: 2})
	if err != nil {
		t.Fatal(err)
	}
	dict, ok := obj.(Dictionary)
	if !ok {
		t.Fatalf("got %T, want Dictionary", obj)
	}
	if n, _ := dict.GetName("Type"); n != "Pages" {
		t.Errorf("Type: got %q, want Pages", n)
	}

	// Non-reference objects resolve to themselves.
	obj, err = d.Resolve(Integer(9))
	if err != nil || obj != Integer(9) {
		t.Errorf("got %v, %v", obj, err)
	}
}

func TestListObjects(t *testing.T) {
	d := mustParse(singlePagePDF("Hello"))
	defer d.Close()

	objects := d.ListObjects()
	if len(objects) < 5 {
		t.Fatalf("got %d objects, want at least 5", len(objects))
	}
	for i := 1; i < len(objects); i++ {
		if objects[i].Number < objects[i-1].Number {
			t.Fatal("objects not sorted by number")
		}
	}

	byNum := make(map[int]ObjectInfo)
	for _, obj := range objects {
		byNum[obj.Number] = obj
	}
	if byNum[1].Type != "Catalog" {
		t.Errorf("object 1 type: got %q, want Catalog", byNum[1].Type)
	}
	if byNum[2].Type != "Pages" {
		t.Errorf("object 2 type: got %q, want Pages", byNum[2].Type)
	}
	if !strings.Contains(byNum[5].Type, "tream") {
		t.Errorf("object 5 type: got %q, want a stream", byNum[5].Type)
	}
}
