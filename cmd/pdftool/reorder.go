package main

import (
	"flag"
	"fmt"

	"github.com/docfold/pdftool/pkg/doc"
)

func runReorder(args []string) error {
	fs := flag.NewFlagSet("reorder", flag.ExitOnError)
	var (
		input    string
		output   string
		password string
		order    string
	)
	stringVar(fs, &input, "input", "i", "", "input PDF file")
	stringVar(fs, &output, "output", "o", "", "output PDF file")
	fs.StringVar(&password, "password", "", "document password")
	fs.StringVar(&order, "order", "", "new page order, e.g. 3,1,2 (must list every page once)")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("missing --input")
	}
	if output == "" {
		return fmt.Errorf("missing --output")
	}
	orderList, err := parsePageList(order)
	if err != nil {
		return err
	}

	a := newAssembler()
	return a.Reorder(doc.ReorderOptions{
		Input:    input,
		Output:   output,
		Password: password,
		Order:    orderList,
	})
}
