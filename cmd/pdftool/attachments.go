package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/docfold/pdftool/pkg/pdf"
)

func runListAttachments(args []string) error {
	fs := flag.NewFlagSet("list-attachments", flag.ExitOnError)
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

	attachments := d.GetAllAttachments()

	if format == "json" {
		type jsonAttachment struct {
			Name        string `json:"name"`
			Description string `json:"description,omitempty"`
			Size        int64  `json:"size"`
			MimeType    string `json:"mimeType,omitempty"`
		}
		out := make([]jsonAttachment, 0, len(attachments))
		for _, att := range attachments {
			out = append(out, jsonAttachment{
				Name:        att.Name,
				Description: att.Description,
				Size:        att.Size,
				MimeType:    att.MimeType,
			})
		}
		return printJSON(out)
	}

	if len(attachments) == 0 {
		fmt.Println("No attachments.")
		return nil
	}
	for _, att := range attachments {
		line := fmt.Sprintf("%s (%d bytes)", att.Name, att.Size)
		if att.Description != "" {
			line += " - " + att.Description
		}
		fmt.Println(line)
	}
	return nil
}

func runExtractAttachments(args []string) error {
	fs := flag.NewFlagSet("extract-attachments", flag.ExitOnError)
	var (
		input    string
		outDir   string
		password string
	)
	stringVar(fs, &input, "input", "i", "", "input PDF file")
	stringVar(fs, &outDir, "output", "o", ".", "output directory")
	fs.StringVar(&password, "password", "", "document password")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("missing --input")
	}

	d, err := pdf.Open(input, password)
	if err != nil {
		return err
	}
	defer d.Close()

	attachments := d.GetAllAttachments()
	if len(attachments) == 0 {
		fmt.Println("No attachments.")
		return nil
	}
	for _, att := range attachments {
		if err := att.SaveTo(outDir); err != nil {
			return fmt.Errorf("extract %s: %w", att.Name, err)
		}
		fmt.Println(filepath.Join(outDir, filepath.Base(att.Name)))
	}
	return nil
}
