package main

import (
	"flag"
	"fmt"

	"github.com/docfold/pdftool/pkg/pdf"
)

func runListObjects(args []string) error {
	fs := flag.NewFlagSet("list-objects", flag.ExitOnError)
	var (
		input    string
		password string
		format   string
	)
	stringVar(fs, &input, "input", "i", "", "input PDF file")
	fs.StringVar(&password, "password", "", "document password")
	fs.StringVar(&format, "format", "text", "output format: text or json")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("missing --input")
	}
	if err := checkFormat(format); err != nil {
		return err
	}

	d, err := pdf.Open(input, password)
	if err != nil {
		return err
	}
	defer d.Close()

	objects := d.ListObjects()

	if format == "json" {
		type jsonObject struct {
			Number     int    `json:"number"`
			Generation int    `json:"generation"`
			Offset     int64  `json:"offset"`
			Type       string `json:"type,omitempty"`
			Subtype    string `json:"subtype,omitempty"`
			Compressed bool   `json:"compressed"`
			InUse      bool   `json:"inUse"`
		}
		out := make([]jsonObject, 0, len(objects))
		for _, obj := range objects {
			out = append(out, jsonObject{
				Number:     obj.Number,
				Generation: obj.Generation,
				Offset:     obj.Offset,
				Type:       obj.Type,
				Subtype:    obj.Subtype,
				Compressed: obj.Compressed,
				InUse:      obj.InUse,
			})
		}
		return printJSON(out)
	}

	fmt.Printf("%6s %3s %10s  %-16s %s\n", "num", "gen", "offset", "type", "subtype")
	for _, obj := range objects {
		kind := obj.Type
		if kind == "" {
			kind = "-"
		}
		extra := obj.Subtype
		if obj.Compressed {
			extra += " (compressed)"
		}
		fmt.Printf("%6d %3d %10d  %-16s %s\n", obj.Number, obj.Generation, obj.Offset, kind, extra)
	}
	return nil
}
