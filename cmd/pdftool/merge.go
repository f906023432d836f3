package main

import (
	"flag"
	"fmt"

	"github.com/docfold/pdftool/pkg/doc"
)

func runMerge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	var (
		output       string
		password     string
		deleteSource bool
	)
	stringVar(fs, &output, "output", "o", "", "output PDF file")
	fs.StringVar(&password, "password", "", "password for encrypted inputs")
	fs.BoolVar(&deleteSource, "delete-source", false, "delete input files after a successful merge")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if output == "" {
		return fmt.Errorf("missing --output")
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		return fmt.Errorf("no input files given")
	}

	a := newAssembler()
	return a.Merge(doc.MergeOptions{
		Inputs:       inputs,
		Output:       output,
		Password:     password,
		DeleteSource: deleteSource,
	})
}
