package main

import (
	"flag"
	"fmt"

	"github.com/docfold/pdftool/pkg/doc"
)

func runRotate(args []string) error {
	fs := flag.NewFlagSet("rotate", flag.ExitOnError)
	var (
		input     string
		output    string
		password  string
		pageRange string
		degrees   int
	)
	stringVar(fs, &input, "input", "i", "", "input PDF file")
	stringVar(fs, &output, "output", "o", "", "output PDF file")
	fs.StringVar(&password, "password", "", "document password")
	fs.StringVar(&pageRange, "range", "", "pages to rotate, e.g. 1-5 (default all)")
	fs.IntVar(&degrees, "degrees", 90, "rotation in degrees, a multiple of 90")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("missing --input")
	}
	if output == "" {
		return fmt.Errorf("missing --output")
	}

	a := newAssembler()
	return a.Rotate(doc.RotateOptions{
		Input:    input,
		Output:   output,
		Password: password,
		Range:    pageRange,
		Degrees:  degrees,
	})
}
