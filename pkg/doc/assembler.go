package doc

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// The engine is not proven safe for concurrent use across its own
// document and page registries, so every engine-touching operation runs
// under one process-wide lock: at most one in-flight engine operation
// system-wide.
var engineMu sync.Mutex

// Assembler executes page-composition operations against the engine.
// The zero Reporter and Log fields are valid: progress is dropped and
// warnings go to the logrus standard logger.
type Assembler struct {
	Engine   Engine
	Reporter Reporter
	Log      logrus.FieldLogger
}

func (a *Assembler) logger() logrus.FieldLogger {
	if a.Log != nil {
		return a.Log
	}
	return logrus.StandardLogger()
}

// SplitOptions controls Split.
type SplitOptions struct {
	Input     string
	Password  string
	OutputDir string

	// Range selects the pages to split out; empty means every page.
	Range string

	// Template names outputs using {original} and {page} placeholders.
	// Empty falls through to the "original-NNN" default.
	Template string

	// Overrides maps 1-based page numbers to explicit output names and
	// beats every other naming source.
	Overrides map[int]string

	// UseBookmarks names pages after the last bookmark pointing at them.
	UseBookmarks bool
}

// Split writes one single-page document per selected page and returns
// the paths written. A failing page aborts the remaining work; outputs
// already written stay on disk.
func (a *Assembler) Split(opts SplitOptions) ([]string, error) {
	rng, err := ParseRange(opts.Range)
	if err != nil {
		return nil, err
	}
	if opts.Range != "" && rng.Len() == 0 {
		return nil, fmt.Errorf("page range %q selects no pages", opts.Range)
	}

	engineMu.Lock()
	defer engineMu.Unlock()

	src, err := a.Engine.Load(opts.Input, opts.Password)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", opts.Input, err)
	}
	defer src.Close()

	var selected []int
	for n := 1; n <= src.PageCount(); n++ {
		if rng.Contains(n) {
			selected = append(selected, n)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("page range %q selects no pages of %s", opts.Range, opts.Input)
	}

	var bookmarkNames map[int]string
	if opts.UseBookmarks {
		bookmarkNames = PageNames(BuildBookmarkIndex(src))
	}

	stem := stemOf(opts.Input)
	used := make(map[string]int)
	var written []string

	for i, pageNum := range selected {
		name := uniqueName(used, ResolveName(pageNum, stem, opts.Overrides, bookmarkNames, opts.Template))
		outPath := filepath.Join(opts.OutputDir, name+".pdf")

		if err := a.writeSinglePage(src, pageNum, outPath); err != nil {
			return written, fmt.Errorf("split page %d (%s): %w", pageNum, outPath, err)
		}
		written = append(written, outPath)
		report(a.Reporter, i+1, len(selected), name)
	}
	return written, nil
}

func (a *Assembler) writeSinglePage(src Document, pageNum int, outPath string) error {
	dst := a.Engine.Create()
	defer dst.Close()

	if err := dst.ImportPages(src, strconv.Itoa(pageNum), 0); err != nil {
		return err
	}
	return writeDocument(dst, outPath)
}

// MergeOptions controls Merge.
type MergeOptions struct {
	Inputs   []string
	Output   string
	Password string

	// DeleteSource removes each input file after its pages were imported.
	DeleteSource bool
}

// Merge concatenates the inputs, in the given order, into one document.
// Inputs that are missing or fail to load are logged and skipped; the
// output is written even when no input survived.
func (a *Assembler) Merge(opts MergeOptions) error {
	if len(opts.Inputs) == 0 {
		return errors.New("merge: no input files")
	}

	engineMu.Lock()
	defer engineMu.Unlock()

	dst := a.Engine.Create()
	defer dst.Close()

	offset := 0
	for i, input := range opts.Inputs {
		n, err := a.mergeOne(dst, input, opts.Password, offset, opts.DeleteSource)
		if err != nil {
			return fmt.Errorf("merge %s: %w", input, err)
		}
		offset += n
		report(a.Reporter, i+1, len(opts.Inputs), input)
	}

	return writeDocument(dst, opts.Output)
}

// mergeOne imports all pages of one input and returns how many were
// appended. Load failures are skips, not errors; import failures are.
func (a *Assembler) mergeOne(dst Document, input, password string, offset int, deleteSource bool) (int, error) {
	src, err := a.Engine.Load(input, password)
	if err != nil {
		a.logger().Warnf("merge: skipping %s: %v", input, err)
		return 0, nil
	}
	defer src.Close()

	n := src.PageCount()
	if n == 0 {
		return 0, nil
	}
	if err := dst.ImportPages(src, fmt.Sprintf("1-%d", n), offset); err != nil {
		return 0, err
	}

	if deleteSource {
		if err := os.Remove(input); err != nil {
			a.logger().Warnf("merge: cannot delete %s: %v", input, err)
		}
	}
	return n, nil
}

// ReorderOptions controls Reorder. Order must be a permutation of 1..N.
type ReorderOptions struct {
	Input    string
	Output   string
	Password string
	Order    []int
}

// Reorder builds a new document whose i-th page is source page Order[i].
// The permutation is validated in full before anything is written: on
// failure there are zero side effects. Whole pages are copied, so
// rotation and annotations survive.
func (a *Assembler) Reorder(opts ReorderOptions) error {
	engineMu.Lock()
	defer engineMu.Unlock()

	src, err := a.Engine.Load(opts.Input, opts.Password)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}
	defer src.Close()

	if err := validatePermutation(opts.Order, src.PageCount()); err != nil {
		return err
	}

	dst := a.Engine.Create()
	defer dst.Close()

	for i, pageNum := range opts.Order {
		if err := dst.ImportPages(src, strconv.Itoa(pageNum), i); err != nil {
			return fmt.Errorf("reorder: import page %d: %w", pageNum, err)
		}
		report(a.Reporter, i+1, len(opts.Order), strconv.Itoa(pageNum))
	}

	return writeDocument(dst, opts.Output)
}

// validatePermutation checks that order is a bijection on 1..n.
func validatePermutation(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("permutation has %d entries, document has %d pages", len(order), n)
	}
	seen := make([]bool, n+1)
	for _, p := range order {
		if p < 1 || p > n {
			return fmt.Errorf("permutation entry %d out of range 1-%d", p, n)
		}
		if seen[p] {
			return fmt.Errorf("permutation entry %d repeated", p)
		}
		seen[p] = true
	}
	return nil
}

// RemoveOptions controls Remove. Pages are 1-based display numbers.
type RemoveOptions struct {
	Input    string
	Output   string
	Password string
	Pages    []int
}

// Remove deletes the given pages from the document and saves the result.
// Deletion runs highest index first so earlier deletions never shift the
// indices still to be processed. Out-of-range entries are dropped, not
// errors.
func (a *Assembler) Remove(opts RemoveOptions) error {
	engineMu.Lock()
	defer engineMu.Unlock()

	d, err := a.Engine.Load(opts.Input, opts.Password)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}
	defer d.Close()

	targets := descendingInRange(opts.Pages, d.PageCount())
	for i, pageNum := range targets {
		if err := d.DeletePage(pageNum - 1); err != nil {
			return fmt.Errorf("remove page %d: %w", pageNum, err)
		}
		report(a.Reporter, i+1, len(targets), strconv.Itoa(pageNum))
	}

	return writeDocument(d, opts.Output)
}

// descendingInRange filters out entries outside 1..max, deduplicates,
// and sorts the survivors in descending order.
func descendingInRange(pages []int, max int) []int {
	seen := make(map[int]bool, len(pages))
	var out []int
	for _, p := range pages {
		if p >= 1 && p <= max && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// InsertOptions controls Insert. Positions maps a 1-based insertion
// position to the count of blank pages to insert before it; position
// N+1 appends.
type InsertOptions struct {
	Input     string
	Output    string
	Password  string
	Positions map[int]int
	Width     float64
	Height    float64
}

// Insert adds blank pages of the given size. Positions are processed
// highest first so earlier insertions cannot shift the coordinate space
// of later ones. Out-of-range positions are dropped.
func (a *Assembler) Insert(opts InsertOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid blank page size %gx%g", opts.Width, opts.Height)
	}

	engineMu.Lock()
	defer engineMu.Unlock()

	d, err := a.Engine.Load(opts.Input, opts.Password)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}
	defer d.Close()

	positions := make([]int, 0, len(opts.Positions))
	for pos := range opts.Positions {
		if pos >= 1 && pos <= d.PageCount()+1 {
			positions = append(positions, pos)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(positions)))

	for i, pos := range positions {
		for j := 0; j < opts.Positions[pos]; j++ {
			if err := d.InsertPage(pos-1, opts.Width, opts.Height); err != nil {
				return fmt.Errorf("insert at page %d: %w", pos, err)
			}
		}
		report(a.Reporter, i+1, len(positions), strconv.Itoa(pos))
	}

	return writeDocument(d, opts.Output)
}

// RotateOptions controls Rotate. Degrees must be a multiple of 90 and is
// applied relative to each page's current rotation.
type RotateOptions struct {
	Input    string
	Output   string
	Password string
	Range    string
	Degrees  int
}

// Rotate rotates the selected pages and saves the result.
func (a *Assembler) Rotate(opts RotateOptions) error {
	if opts.Degrees%90 != 0 {
		return fmt.Errorf("rotation %d is not a multiple of 90", opts.Degrees)
	}
	rng, err := ParseRange(opts.Range)
	if err != nil {
		return err
	}
	if opts.Range != "" && rng.Len() == 0 {
		return fmt.Errorf("page range %q selects no pages", opts.Range)
	}

	engineMu.Lock()
	defer engineMu.Unlock()

	d, err := a.Engine.Load(opts.Input, opts.Password)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}
	defer d.Close()

	total := d.PageCount()
	done := 0
	for n := 1; n <= total; n++ {
		if !rng.Contains(n) {
			continue
		}
		if err := d.RotatePage(n-1, opts.Degrees); err != nil {
			return fmt.Errorf("rotate page %d: %w", n, err)
		}
		done++
		report(a.Reporter, done, total, strconv.Itoa(n))
	}

	return writeDocument(d, opts.Output)
}

// WatermarkOptions controls Watermark.
type WatermarkOptions struct {
	Input    string
	Output   string
	Password string
	Range    string
	Text     string
	Stamp    StampOptions
}

// Watermark stamps text on the selected pages and saves the result.
func (a *Assembler) Watermark(opts WatermarkOptions) error {
	if opts.Text == "" {
		return errors.New("watermark: empty text")
	}
	rng, err := ParseRange(opts.Range)
	if err != nil {
		return err
	}

	engineMu.Lock()
	defer engineMu.Unlock()

	d, err := a.Engine.Load(opts.Input, opts.Password)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}
	defer d.Close()

	var pages []int // nil means all
	if rng != nil {
		for n := 1; n <= d.PageCount(); n++ {
			if rng.Contains(n) {
				pages = append(pages, n-1)
			}
		}
		if len(pages) == 0 {
			return fmt.Errorf("page range %q selects no pages", opts.Range)
		}
	}

	if err := d.Stamp(opts.Text, pages, opts.Stamp); err != nil {
		return fmt.Errorf("watermark: %w", err)
	}
	return writeDocument(d, opts.Output)
}

// PageText is the extracted text of one page.
type PageText struct {
	Page int // 1-based display page number
	Text string
}

// ExtractText returns the text of the selected pages, in page order.
func (a *Assembler) ExtractText(input, password, rangeSpec string) ([]PageText, error) {
	rng, err := ParseRange(rangeSpec)
	if err != nil {
		return nil, err
	}

	engineMu.Lock()
	defer engineMu.Unlock()

	d, err := a.Engine.Load(input, password)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", input, err)
	}
	defer d.Close()

	var out []PageText
	for n := 1; n <= d.PageCount(); n++ {
		if !rng.Contains(n) {
			continue
		}
		text, err := a.pageText(d, n)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", n, err)
		}
		out = append(out, PageText{Page: n, Text: text})
		report(a.Reporter, len(out), d.PageCount(), strconv.Itoa(n))
	}
	return out, nil
}

func (a *Assembler) pageText(d Document, pageNum int) (string, error) {
	p, err := d.Page(pageNum - 1)
	if err != nil {
		return "", err
	}
	defer p.Close()
	return p.Text()
}

// Bookmarks returns the flattened outline of the document.
func (a *Assembler) Bookmarks(input, password string) ([]BookmarkNode, error) {
	engineMu.Lock()
	defer engineMu.Unlock()

	d, err := a.Engine.Load(input, password)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", input, err)
	}
	defer d.Close()

	return BuildBookmarkIndex(d), nil
}

// RenderPages rasterizes the selected pages at the given DPI and hands
// each bitmap to fn together with its 1-based page number. An error from
// fn aborts the remaining pages.
func (a *Assembler) RenderPages(input, password, rangeSpec string, dpi float64, fn func(page int, img *image.RGBA) error) error {
	if dpi <= 0 {
		dpi = 150
	}
	rng, err := ParseRange(rangeSpec)
	if err != nil {
		return err
	}

	engineMu.Lock()
	defer engineMu.Unlock()

	d, err := a.Engine.Load(input, password)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	defer d.Close()

	total := d.PageCount()
	done := 0
	for n := 1; n <= total; n++ {
		if !rng.Contains(n) {
			continue
		}
		if err := a.renderOne(d, n, dpi, fn); err != nil {
			return fmt.Errorf("render page %d: %w", n, err)
		}
		done++
		report(a.Reporter, done, total, strconv.Itoa(n))
	}
	return nil
}

func (a *Assembler) renderOne(d Document, pageNum int, dpi float64, fn func(int, *image.RGBA) error) error {
	p, err := d.Page(pageNum - 1)
	if err != nil {
		return err
	}
	defer p.Close()

	w, h := p.Size()
	scale := dpi / 72.0
	img, err := p.Render(int(w*scale+0.5), int(h*scale+0.5))
	if err != nil {
		return err
	}
	return fn(pageNum, img)
}

// writeDocument persists d to path, creating or truncating the file.
func writeDocument(d Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := d.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// stemOf returns the base name of path without its extension.
func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
