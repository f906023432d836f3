package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/docfold/pdftool/pkg/doc"
)

func runSplit(args []string) error {
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	var (
		input        string
		outDir       string
		password     string
		pageRange    string
		template     string
		useBookmarks bool
		overrides    string
	)
	stringVar(fs, &input, "input", "i", "", "input PDF file")
	stringVar(fs, &outDir, "output", "o", ".", "output directory")
	fs.StringVar(&password, "password", "", "document password")
	fs.StringVar(&pageRange, "range", "", "pages to split, e.g. 1-5 or 2,4,9")
	fs.StringVar(&template, "template", "", "output name template with {original} and {page} placeholders")
	fs.BoolVar(&useBookmarks, "bookmarks", false, "name output files after bookmark titles")
	fs.StringVar(&overrides, "names", "", "per-page names, e.g. 1=cover,2=toc")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("missing --input")
	}

	overrideMap, err := parseNameOverrides(overrides)
	if err != nil {
		return err
	}

	a := newAssembler()
	outputs, err := a.Split(doc.SplitOptions{
		Input:        input,
		Password:     password,
		OutputDir:    outDir,
		Range:        pageRange,
		Template:     template,
		Overrides:    overrideMap,
		UseBookmarks: useBookmarks,
	})
	if err != nil {
		return err
	}
	for _, path := range outputs {
		fmt.Println(path)
	}
	return nil
}

// parseNameOverrides parses "1=cover,2=toc" into a page to name map.
func parseNameOverrides(s string) (map[int]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	out := make(map[int]string)
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid name override %q", part)
		}
		page, err := strconv.Atoi(strings.TrimSpace(kv[0]))
		if err != nil || page < 1 {
			return nil, fmt.Errorf("invalid page number in override %q", part)
		}
		out[page] = strings.TrimSpace(kv[1])
	}
	return out, nil
}
