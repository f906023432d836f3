package main

import (
	"flag"
	"fmt"

	"github.com/docfold/pdftool/pkg/doc"
)

func runWatermark(args []string) error {
	fs := flag.NewFlagSet("watermark", flag.ExitOnError)
	var (
		input     string
		output    string
		password  string
		pageRange string
		text      string
		fontSize  float64
		opacity   float64
		diagonal  bool
	)
	stringVar(fs, &input, "input", "i", "", "input PDF file")
	stringVar(fs, &output, "output", "o", "", "output PDF file")
	fs.StringVar(&password, "password", "", "document password")
	fs.StringVar(&pageRange, "range", "", "pages to stamp, e.g. 1-5 (default all)")
	fs.StringVar(&text, "text", "", "watermark text")
	fs.Float64Var(&fontSize, "font-size", 48, "watermark font size in points")
	fs.Float64Var(&opacity, "opacity", 0.3, "watermark opacity between 0 and 1")
	fs.BoolVar(&diagonal, "diagonal", false, "stamp diagonally across the page")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("missing --input")
	}
	if output == "" {
		return fmt.Errorf("missing --output")
	}
	if text == "" {
		return fmt.Errorf("missing --text")
	}

	a := newAssembler()
	return a.Watermark(doc.WatermarkOptions{
		Input:    input,
		Output:   output,
		Password: password,
		Range:    pageRange,
		Text:     text,
		Stamp: doc.StampOptions{
			FontSize: fontSize,
			Opacity:  opacity,
			Diagonal: diagonal,
		},
	})
}
