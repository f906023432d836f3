// Package engine adapts the pure-Go PDF engine to the document
// boundary consumed by the assembler.
package engine

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/docfold/pdftool/pkg/doc"
	"github.com/docfold/pdftool/pkg/pdf"
)

// Engine loads and creates documents through pkg/pdf.
type Engine struct{}

// New returns the engine.
func New() *Engine {
	return &Engine{}
}

// Load opens the document at path with an optional password.
func (*Engine) Load(path, password string) (doc.Document, error) {
	d, err := pdf.Open(path, password)
	if err != nil {
		return nil, translateError(path, err)
	}
	return &document{d: d}, nil
}

// Create returns a new empty document.
func (*Engine) Create() doc.Document {
	return &document{d: pdf.NewEmptyDocument()}
}

// translateError maps engine failures onto the boundary sentinels
func translateError(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s", doc.ErrFileNotFound, path)
	case errors.Is(err, pdf.ErrInvalidPassword):
		return fmt.Errorf("%w: %s", doc.ErrWrongPassword, path)
	default:
		return fmt.Errorf("%w: %s: %v", doc.ErrBadFormat, path, err)
	}
}

type document struct {
	d *pdf.Document
}

// Unwrap exposes the underlying engine document for callers that need
// features beyond the assembly boundary.
func (dd *document) Unwrap() *pdf.Document {
	return dd.d
}

func (dd *document) PageCount() int {
	return dd.d.NumPages()
}

func (dd *document) Page(index int) (doc.Page, error) {
	p, err := dd.d.GetPage(index + 1)
	if err != nil {
		return nil, err
	}
	return &page{p: p}, nil
}

func (dd *document) ImportPages(src doc.Document, rangeSpec string, at int) error {
	srcDoc, ok := src.(*document)
	if !ok {
		return fmt.Errorf("%w: foreign document type %T", doc.ErrUnsupported, src)
	}

	start, end, err := parseSpan(rangeSpec)
	if err != nil {
		return err
	}
	return dd.d.ImportPages(srcDoc.d, start, end, at)
}

// parseSpan parses a 1-based "n" or "a-b" page span
func parseSpan(spec string) (int, int, error) {
	if i := strings.IndexByte(spec, '-'); i >= 0 {
		start, err1 := strconv.Atoi(spec[:i])
		end, err2 := strconv.Atoi(spec[i+1:])
		if err1 != nil || err2 != nil {
			return 0, 0, fmt.Errorf("invalid page range %q", spec)
		}
		return start, end, nil
	}
	n, err := strconv.Atoi(spec)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid page range %q", spec)
	}
	return n, n, nil
}

func (dd *document) DeletePage(index int) error {
	return dd.d.DeletePage(index)
}

func (dd *document) InsertPage(index int, width, height float64) error {
	return dd.d.InsertBlankPage(index, width, height)
}

func (dd *document) RotatePage(index int, degrees int) error {
	p, err := dd.d.GetPage(index + 1)
	if err != nil {
		return err
	}
	return dd.d.SetPageRotation(index, p.Rotation()+degrees)
}

func (dd *document) Stamp(text string, pages []int, opts doc.StampOptions) error {
	return dd.d.Stamp(text, pages, pdf.StampOptions{
		FontSize: opts.FontSize,
		Opacity:  opts.Opacity,
		Diagonal: opts.Diagonal,
	})
}

func (dd *document) Outline() doc.Bookmark {
	root := dd.d.GetOutline()
	if root == nil {
		return nil
	}
	// The outline root is a bare container; entries start at its first
	// child.
	first := root.FirstChild()
	if first == nil {
		return nil
	}
	return bookmark{item: first}
}

func (dd *document) WriteTo(w io.Writer) (int64, error) {
	return dd.d.WriteTo(w)
}

func (dd *document) Close() error {
	return dd.d.Close()
}

type page struct {
	p *pdf.Page
}

func (pg *page) Size() (float64, float64) {
	return pg.p.Width(), pg.p.Height()
}

func (pg *page) Rotation() int {
	return pg.p.Rotation()
}

func (pg *page) Text() (string, error) {
	return pg.p.ExtractText()
}

func (pg *page) Render(width, height int) (*image.RGBA, error) {
	return pg.p.Render(width, height)
}

func (pg *page) Close() error {
	return nil
}

type bookmark struct {
	item *pdf.OutlineItem
}

func (b bookmark) Title() string {
	return b.item.Title()
}

func (b bookmark) FirstChild() doc.Bookmark {
	child := b.item.FirstChild()
	if child == nil {
		return nil
	}
	return bookmark{item: child}
}

func (b bookmark) NextSibling() doc.Bookmark {
	sibling := b.item.NextSibling()
	if sibling == nil {
		return nil
	}
	return bookmark{item: sibling}
}

func (b bookmark) ActionKind() doc.ActionKind {
	switch b.item.ActionType() {
	case "GoTo":
		return doc.ActionGoTo
	case "GoToR":
		return doc.ActionRemoteGoTo
	case "URI":
		return doc.ActionURI
	case "Launch":
		return doc.ActionLaunch
	case "GoToE":
		return doc.ActionEmbeddedGoTo
	}
	return doc.ActionUnsupported
}

func (b bookmark) PageNumber() int {
	return b.item.PageIndex() + 1
}
