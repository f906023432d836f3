package main

import (
	"flag"
	"fmt"

	"github.com/docfold/pdftool/pkg/render"
)

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	var (
		input     string
		outDir    string
		password  string
		pageRange string
		format    string
		dpi       float64
		stem      string
	)
	stringVar(fs, &input, "input", "i", "", "input PDF file")
	stringVar(fs, &outDir, "output", "o", ".", "output directory")
	fs.StringVar(&password, "password", "", "document password")
	fs.StringVar(&pageRange, "range", "", "pages to render, e.g. 1-5")
	fs.StringVar(&format, "format", "png", "image format: png, jpeg, gif, bmp or tiff")
	fs.Float64Var(&dpi, "dpi", 150, "render resolution")
	fs.StringVar(&stem, "stem", "", "output file name stem (defaults to the input name)")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("missing --input")
	}

	a := newAssembler()
	outputs, err := render.Convert(a, render.ConvertOptions{
		Input:     input,
		Password:  password,
		RangeSpec: pageRange,
		DPI:       dpi,
		Format:    format,
		OutDir:    outDir,
		Stem:      stem,
	})
	if err != nil {
		return err
	}
	for _, path := range outputs {
		fmt.Println(path)
	}
	return nil
}
