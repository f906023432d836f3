package main

import (
	"flag"
	"fmt"
)

func runText(args []string) error {
	fs := flag.NewFlagSet("text", flag.ExitOnError)
	var (
		input     string
		password  string
		pageRange string
	)
	stringVar(fs, &input, "input", "i", "", "input PDF file")
	fs.StringVar(&password, "password", "", "document password")
	fs.StringVar(&pageRange, "range", "", "pages to extract, e.g. 1-5")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("missing --input")
	}

	a := newAssembler()
	pages, err := a.ExtractText(input, password, pageRange)
	if err != nil {
		return err
	}
	for i, p := range pages {
		if i > 0 {
			fmt.Println("\f")
		}
		fmt.Print(p.Text)
	}
	return nil
}
