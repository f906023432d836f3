package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/docfold/pdftool/pkg/doc"
)

// ConvertOptions control a PDF to image conversion run.
type ConvertOptions struct {
	Input     string
	Password  string
	RangeSpec string
	DPI       float64
	Format    string // output image format
	OutDir    string
	Stem      string // output name stem, input stem when empty
}

// Convert renders the selected pages into image files named
// <stem>-NNN.<format> and returns the written paths in page order.
func Convert(a *doc.Assembler, opts ConvertOptions) ([]string, error) {
	format := NormalizeFormat(opts.Format)
	if format == "" {
		format = "png"
	}
	stem := opts.Stem
	if stem == "" {
		base := filepath.Base(opts.Input)
		stem = base[:len(base)-len(filepath.Ext(base))]
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = "."
	}

	var written []string
	err := a.RenderPages(opts.Input, opts.Password, opts.RangeSpec, opts.DPI, func(page int, img *image.RGBA) error {
		data, err := Encode(img, format)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, fmt.Sprintf("%s-%03d.%s", stem, page, format))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	})
	if err != nil {
		return written, err
	}
	return written, nil
}
