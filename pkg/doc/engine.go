// Package doc implements page-object composition and document assembly
// on top of a narrow PDF engine boundary.
package doc

import (
	"errors"
	"image"
	"io"
)

// Categories the engine's load/save failures are translated into.
var (
	ErrFileNotFound  = errors.New("file not found")
	ErrBadFormat     = errors.New("not a valid PDF")
	ErrWrongPassword = errors.New("wrong password")
	ErrUnsupported   = errors.New("unsupported feature")
)

// ActionKind identifies what a bookmark activates.
type ActionKind int

const (
	ActionUnsupported ActionKind = iota
	ActionGoTo
	ActionRemoteGoTo
	ActionURI
	ActionLaunch
	ActionEmbeddedGoTo
	ActionPage
)

func (k ActionKind) String() string {
	switch k {
	case ActionGoTo:
		return "goto"
	case ActionRemoteGoTo:
		return "remote-goto"
	case ActionURI:
		return "uri"
	case ActionLaunch:
		return "launch"
	case ActionEmbeddedGoTo:
		return "embedded-goto"
	case ActionPage:
		return "page"
	}
	return "unsupported"
}

// Engine is the boundary to the PDF rendering engine. Implementations are
// not assumed safe for concurrent use; the assembler serializes all calls
// behind a single process-wide lock.
type Engine interface {
	// Load opens the document at path. The password may be empty.
	Load(path, password string) (Document, error)
	// Create returns a new empty document.
	Create() Document
}

// Document is a loaded or in-construction PDF document. It is owned by
// the operation that obtained it and must be closed exactly once.
type Document interface {
	PageCount() int

	// Page loads the page at the given 0-based engine index. The caller
	// must close the page before closing the document.
	Page(index int) (Page, error)

	// ImportPages copies a range of pages from src into this document at
	// the given 0-based insertion index. The range spec uses 1-based page
	// numbers: "3" or "2-5".
	ImportPages(src Document, rangeSpec string, at int) error

	// DeletePage removes the page at the given 0-based index.
	DeletePage(index int) error

	// InsertPage inserts a blank page of the given size in points at the
	// given 0-based index.
	InsertPage(index int, width, height float64) error

	// RotatePage rotates the page at the given 0-based index by degrees
	// (a multiple of 90) relative to its current rotation.
	RotatePage(index int, degrees int) error

	// Stamp draws a text watermark on the selected pages (0-based
	// indices; nil means every page).
	Stamp(text string, pages []int, opts StampOptions) error

	// Outline returns the first top-level bookmark, or nil when the
	// document has no outline.
	Outline() Bookmark

	WriteTo(w io.Writer) (int64, error)
	Close() error
}

// Page is a loaded page handle.
type Page interface {
	// Size returns the page dimensions in points.
	Size() (width, height float64)
	Rotation() int
	Text() (string, error)
	Render(width, height int) (*image.RGBA, error)
	Close() error
}

// Bookmark is one node of the document outline tree.
type Bookmark interface {
	Title() string
	FirstChild() Bookmark
	NextSibling() Bookmark
	ActionKind() ActionKind
	// PageNumber returns the 1-based display page the bookmark points at,
	// or 0 when the destination cannot be resolved.
	PageNumber() int
}

// StampOptions controls watermark appearance.
type StampOptions struct {
	FontSize float64 // defaults to 48
	Opacity  float64 // 0..1, defaults to 0.3
	Diagonal bool    // draw bottom-left to top-right across the page
}
