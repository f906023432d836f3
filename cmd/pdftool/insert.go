package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/docfold/pdftool/pkg/doc"
)

func runInsert(args []string) error {
	fs := flag.NewFlagSet("insert", flag.ExitOnError)
	var (
		input    string
		output   string
		password string
		at       string
		width    float64
		height   float64
	)
	stringVar(fs, &input, "input", "i", "", "input PDF file")
	stringVar(fs, &output, "output", "o", "", "output PDF file")
	fs.StringVar(&password, "password", "", "document password")
	fs.StringVar(&at, "at", "", "insert positions, e.g. 1 or 1=2,5=1 (position=count)")
	fs.Float64Var(&width, "width", 612, "blank page width in points")
	fs.Float64Var(&height, "height", 792, "blank page height in points")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("missing --input")
	}
	if output == "" {
		return fmt.Errorf("missing --output")
	}
	positions, err := parsePositions(at)
	if err != nil {
		return err
	}

	a := newAssembler()
	return a.Insert(doc.InsertOptions{
		Input:     input,
		Output:    output,
		Password:  password,
		Positions: positions,
		Width:     width,
		Height:    height,
	})
}

// parsePositions parses "1=2,5=1" into a position to count map. A bare
// position means one page.
func parsePositions(s string) (map[int]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("missing --at")
	}
	out := make(map[int]int)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		count := 1
		if idx := strings.IndexByte(part, '='); idx >= 0 {
			n, err := strconv.Atoi(part[idx+1:])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid insert count in %q", part)
			}
			count = n
			part = part[:idx]
		}
		pos, err := strconv.Atoi(part)
		if err != nil || pos < 1 {
			return nil, fmt.Errorf("invalid insert position %q", part)
		}
		out[pos] = count
	}
	return out, nil
}
