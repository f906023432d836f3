package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/docfold/pdftool/pkg/pdf"
)

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
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

	info := d.GetInfo()
	pages := d.NumPages()

	var width, height float64
	if pages > 0 {
		if p, err := d.GetPage(1); err == nil {
			width, height = p.Width(), p.Height()
		}
	}

	if format == "json" {
		out := map[string]interface{}{
			"title":      info.Title,
			"author":     info.Author,
			"subject":    info.Subject,
			"keywords":   info.Keywords,
			"creator":    info.Creator,
			"producer":   info.Producer,
			"pages":      pages,
			"pageWidth":  width,
			"pageHeight": height,
			"encrypted":  info.Encrypted,
			"tagged":     info.Tagged,
			"form":       info.Form,
			"optimized":  info.Optimized,
			"pdfVersion": info.PDFVersion,
			"custom":     info.Custom,
		}
		if !info.CreationDate.IsZero() {
			out["creationDate"] = info.CreationDate.Format(time.RFC3339)
		}
		if !info.ModDate.IsZero() {
			out["modDate"] = info.ModDate.Format(time.RFC3339)
		}
		return printJSON(out)
	}

	printField := func(name, value string) {
		if value != "" {
			fmt.Printf("%-16s %s\n", name+":", value)
		}
	}
	printField("Title", info.Title)
	printField("Author", info.Author)
	printField("Subject", info.Subject)
	printField("Keywords", info.Keywords)
	printField("Creator", info.Creator)
	printField("Producer", info.Producer)
	if !info.CreationDate.IsZero() {
		printField("CreationDate", info.CreationDate.Format(time.RFC1123))
	}
	if !info.ModDate.IsZero() {
		printField("ModDate", info.ModDate.Format(time.RFC1123))
	}
	for key, value := range info.Custom {
		printField(key, value)
	}
	fmt.Printf("%-16s %d\n", "Pages:", pages)
	if pages > 0 {
		fmt.Printf("%-16s %.2f x %.2f pts\n", "Page size:", width, height)
	}
	fmt.Printf("%-16s %s\n", "Tagged:", yesNo(info.Tagged))
	fmt.Printf("%-16s %s\n", "Form:", info.Form)
	fmt.Printf("%-16s %s\n", "Encrypted:", yesNo(info.Encrypted))
	fmt.Printf("%-16s %s\n", "Optimized:", yesNo(info.Optimized))
	fmt.Printf("%-16s %s\n", "PDF version:", info.PDFVersion)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
