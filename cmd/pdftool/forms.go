package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/docfold/pdftool/pkg/pdf"
)

func runListForms(args []string) error {
	fs := flag.NewFlagSet("list-forms", flag.ExitOnError)
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

	fields := d.GetFormFields()

	if format == "json" {
		return printJSON(jsonFields(fields))
	}

	if len(fields) == 0 {
		fmt.Println("No form fields.")
		return nil
	}
	printFields(fields, 0)
	return nil
}

type jsonFormField struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Value    string          `json:"value,omitempty"`
	Default  string          `json:"default,omitempty"`
	Options  []string        `json:"options,omitempty"`
	ReadOnly bool            `json:"readOnly,omitempty"`
	Required bool            `json:"required,omitempty"`
	Kids     []jsonFormField `json:"kids,omitempty"`
}

func jsonFields(fields []*pdf.FormField) []jsonFormField {
	out := make([]jsonFormField, 0, len(fields))
	for _, f := range fields {
		out = append(out, jsonFormField{
			Name:     f.Name,
			Type:     f.Type,
			Value:    f.Value,
			Default:  f.DefaultVal,
			Options:  f.Options,
			ReadOnly: f.ReadOnly,
			Required: f.Required,
			Kids:     jsonFields(f.Kids),
		})
	}
	return out
}

func printFields(fields []*pdf.FormField, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range fields {
		line := fmt.Sprintf("%s%s [%s]", indent, f.Name, f.Type)
		if f.Value != "" {
			line += " = " + f.Value
		}
		var attrs []string
		if f.ReadOnly {
			attrs = append(attrs, "readonly")
		}
		if f.Required {
			attrs = append(attrs, "required")
		}
		if len(attrs) > 0 {
			line += " (" + strings.Join(attrs, ", ") + ")"
		}
		fmt.Println(line)
		printFields(f.Kids, depth+1)
	}
}
