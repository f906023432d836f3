package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/docfold/pdftool/pkg/pdf"
	"github.com/docfold/pdftool/pkg/render"
)

func runImageToPDF(args []string) error {
	fs := flag.NewFlagSet("imagetopdf", flag.ExitOnError)
	var output string
	stringVar(fs, &output, "output", "o", "", "output PDF file")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if output == "" {
		return fmt.Errorf("missing --output")
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		return fmt.Errorf("no input images given")
	}

	d := pdf.NewEmptyDocument()
	for _, path := range inputs {
		if err := appendImage(d, path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := d.WriteTo(out); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	return nil
}

func appendImage(d *pdf.Document, path string) error {
	if render.FormatFromPath(path) == "jpeg" {
		// JPEG data embeds directly as a DCTDecode stream.
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return d.AppendJPEGPage(data)
	}
	img, _, err := render.Decode(path)
	if err != nil {
		return err
	}
	return d.AppendImagePage(img)
}
