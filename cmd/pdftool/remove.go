package main

import (
	"flag"
	"fmt"

	"github.com/docfold/pdftool/pkg/doc"
)

func runRemove(args []string) error {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	var (
		input    string
		output   string
		password string
		pages    string
	)
	stringVar(fs, &input, "input", "i", "", "input PDF file")
	stringVar(fs, &output, "output", "o", "", "output PDF file")
	fs.StringVar(&password, "password", "", "document password")
	fs.StringVar(&pages, "pages", "", "pages to remove, e.g. 1,4,7")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("missing --input")
	}
	if output == "" {
		return fmt.Errorf("missing --output")
	}
	pageList, err := parsePageList(pages)
	if err != nil {
		return err
	}

	a := newAssembler()
	return a.Remove(doc.RemoveOptions{
		Input:    input,
		Output:   output,
		Password: password,
		Pages:    pageList,
	})
}
