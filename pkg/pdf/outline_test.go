package pdf

import "testing"

// outlinePDF builds a two page document with a small outline tree:
// Chapter One (page 1) containing Section 1.1 (page 2), then a URI
// entry.
func outlinePDF() []byte {
	b := newFileBuilder()
	b.add(1, "<< /Type /Catalog /Pages 2 0 R /Outlines 5 0 R >>")
	b.add(2, "<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 >>")
	b.add(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	b.add(4, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	b.add(5, "<< /Type /Outlines /First 6 0 R /Last 8 0 R /Count 3 >>")
	b.add(6, "<< /Title (Chapter One) /Parent 5 0 R /Next 8 0 R "+
		"/First 7 0 R /Last 7 0 R /Count 1 /Dest [3 0 R /Fit] >>")
	b.add(7, "<< /Title (Section 1.1) /Parent 6 0 R "+
		"/A << /S /GoTo /D [4 0 R /XYZ 0 792 0] >> >>")
	b.add(8, "<< /Title (Project Site) /Parent 5 0 R /Prev 6 0 R "+
		"/A << /S /URI /URI (https://example.com) >> >>")
	return b.finish(1, "")
}

func TestOutlineTraversal(t *testing.T) {
	d := mustParse(outlinePDF())
	defer d.Close()

	root := d.GetOutline()
	if root == nil {
		t.Fatal("no outline")
	}

	chapter := root.FirstChild()
	if chapter == nil || chapter.Title() != "Chapter One" {
		t.Fatalf("first entry: got %v", chapter)
	}
	if chapter.ActionType() != "GoTo" {
		t.Errorf("chapter action: got %q", chapter.ActionType())
	}
	if chapter.PageIndex() != 0 {
		t.Errorf("chapter page: got %d, want 0", chapter.PageIndex())
	}

	section := chapter.FirstChild()
	if section == nil || section.Title() != "Section 1.1" {
		t.Fatalf("child entry: got %v", section)
	}
	if section.PageIndex() != 1 {
		t.Errorf("section page: got %d, want 1", section.PageIndex())
	}
	if section.NextSibling() != nil {
		t.Error("section should have no sibling")
	}

	uri := chapter.NextSibling()
	if uri == nil || uri.Title() != "Project Site" {
		t.Fatalf("sibling entry: got %v", uri)
	}
	if uri.ActionType() != "URI" {
		t.Errorf("uri action: got %q", uri.ActionType())
	}
	if uri.PageIndex() != -1 {
		t.Errorf("uri page: got %d, want -1", uri.PageIndex())
	}
	if uri.NextSibling() != nil {
		t.Error("uri should be the last entry")
	}
}

func TestOutlineAbsent(t *testing.T) {
	d := mustParse(singlePagePDF("Hello"))
	defer d.Close()

	if d.GetOutline() != nil {
		t.Error("document without outlines should return nil")
	}
}

func TestNamedDestination(t *testing.T) {
	b := newFileBuilder()
	b.add(1, "<< /Type /Catalog /Pages 2 0 R /Outlines 4 0 R "+
		"/Names << /Dests 6 0 R >> >>")
	b.add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	b.add(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	b.add(4, "<< /Type /Outlines /First 5 0 R /Last 5 0 R /Count 1 >>")
	b.add(5, "<< /Title (Intro) /Parent 4 0 R /Dest (intro) >>")
	b.add(6, "<< /Names [(intro) [3 0 R /Fit]] >>")

	d := mustParse(b.finish(1, ""))
	defer d.Close()

	entry := d.GetOutline().FirstChild()
	if entry == nil {
		t.Fatal("no outline entry")
	}
	if entry.PageIndex() != 0 {
		t.Errorf("named destination page: got %d, want 0", entry.PageIndex())
	}
}
