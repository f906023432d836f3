// pdftool is a command line toolkit for splitting, merging and
// transforming PDF documents.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
)

var commands = map[string]struct {
	run     func(args []string) error
	summary string
}{
	"split":               {runSplit, "split a document into single-page files"},
	"merge":               {runMerge, "concatenate documents into one file"},
	"convert":             {runConvert, "render pages to image files"},
	"imagetopdf":          {runImageToPDF, "build a PDF from image files"},
	"text":                {runText, "extract page text"},
	"bookmarks":           {runBookmarks, "list the document outline"},
	"info":                {runInfo, "print document metadata"},
	"rotate":              {runRotate, "rotate pages"},
	"remove":              {runRemove, "delete pages"},
	"insert":              {runInsert, "insert blank pages"},
	"reorder":             {runReorder, "rearrange pages"},
	"list-attachments":    {runListAttachments, "list embedded files"},
	"extract-attachments": {runExtractAttachments, "save embedded files"},
	"list-objects":        {runListObjects, "list the object table"},
	"list-forms":          {runListForms, "list form fields"},
	"watermark":           {runWatermark, "stamp text over pages"},
}

func main() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if os.Getenv("PDFTOOL_DEBUG") != "" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "--verbose" {
		logrus.SetLevel(logrus.DebugLevel)
		args = args[1:]
	}

	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	name := args[0]
	if name == "-h" || name == "--help" || name == "help" {
		usage()
		return
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", name)
		usage()
		os.Exit(1)
	}

	if err := cmd.run(args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: pdftool <command> [options]\n\nCommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-20s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(os.Stderr, "\nRun 'pdftool <command> -h' for command options.\n")
	fmt.Fprintf(os.Stderr, "Pass --verbose before the command for debug logging.\n")
}
