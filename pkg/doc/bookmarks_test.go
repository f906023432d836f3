package doc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeBookmark is an in-memory outline node for index tests.
type fakeBookmark struct {
	title   string
	child   *fakeBookmark
	sibling *fakeBookmark
	action  ActionKind
	page    int
}

func (b *fakeBookmark) Title() string { return b.title }
func (b *fakeBookmark) FirstChild() Bookmark {
	if b.child == nil {
		return nil
	}
	return b.child
}
func (b *fakeBookmark) NextSibling() Bookmark {
	if b.sibling == nil {
		return nil
	}
	return b.sibling
}
func (b *fakeBookmark) ActionKind() ActionKind { return b.action }
func (b *fakeBookmark) PageNumber() int        { return b.page }

// outlineDoc is a Document stub that only answers Outline.
type outlineDoc struct {
	Document
	root *fakeBookmark
}

func (d outlineDoc) Outline() Bookmark {
	if d.root == nil {
		return nil
	}
	return d.root
}

func TestBuildBookmarkIndexOrder(t *testing.T) {
	// Chapter 1 (p1)
	//   Section 1.1 (p2)
	//   Section 1.2 (p3)
	// Chapter 2 (p4)
	root := &fakeBookmark{
		title: "Chapter 1", page: 1, action: ActionGoTo,
		child: &fakeBookmark{
			title: "Section 1.1", page: 2, action: ActionGoTo,
			sibling: &fakeBookmark{title: "Section 1.2", page: 3, action: ActionGoTo},
		},
		sibling: &fakeBookmark{title: "Chapter 2", page: 4, action: ActionGoTo},
	}

	nodes := BuildBookmarkIndex(outlineDoc{root: root})
	want := []BookmarkNode{
		{Title: "Chapter 1", Level: 0, Action: ActionGoTo, PageNumber: 1},
		{Title: "Section 1.1", Level: 1, Action: ActionGoTo, PageNumber: 2},
		{Title: "Section 1.2", Level: 1, Action: ActionGoTo, PageNumber: 3},
		{Title: "Chapter 2", Level: 0, Action: ActionGoTo, PageNumber: 4},
	}
	if diff := cmp.Diff(want, nodes); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildBookmarkIndexEmptyTitle(t *testing.T) {
	// An empty title cuts off its children and later siblings, but not
	// entries already above it.
	root := &fakeBookmark{
		title: "Kept", page: 1,
		sibling: &fakeBookmark{
			title: "", page: 2,
			child:   &fakeBookmark{title: "Hidden Child", page: 3},
			sibling: &fakeBookmark{title: "Hidden Sibling", page: 4},
		},
	}

	nodes := BuildBookmarkIndex(outlineDoc{root: root})
	if len(nodes) != 1 || nodes[0].Title != "Kept" {
		t.Errorf("got %v, want only the Kept entry", nodes)
	}
}

func TestBuildBookmarkIndexNoOutline(t *testing.T) {
	if nodes := BuildBookmarkIndex(outlineDoc{}); nodes != nil {
		t.Errorf("got %v, want nil", nodes)
	}
}

func TestBuildBookmarkIndexDeepNesting(t *testing.T) {
	// A pathological chain must not overflow the stack.
	var root *fakeBookmark
	for i := 0; i < 100000; i++ {
		root = &fakeBookmark{title: "n", page: 1, child: root}
	}
	nodes := BuildBookmarkIndex(outlineDoc{root: root})
	if len(nodes) != 100000 {
		t.Errorf("got %d nodes, want 100000", len(nodes))
	}
	if nodes[len(nodes)-1].Level != 99999 {
		t.Errorf("deepest level: got %d", nodes[len(nodes)-1].Level)
	}
}

func TestPageNamesLastWins(t *testing.T) {
	nodes := []BookmarkNode{
		{Title: "First", PageNumber: 1},
		{Title: "Second", PageNumber: 1},
		{Title: "Other", PageNumber: 3},
		{Title: "Unresolved", PageNumber: 0},
	}
	names := PageNames(nodes)
	want := map[int]string{1: "Second", 3: "Other"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}
