package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/docfold/pdftool/pkg/doc"
	"github.com/docfold/pdftool/pkg/engine"
)

// newAssembler wires the PDF engine into an assembler with logging and
// a terminal progress bar.
func newAssembler() *doc.Assembler {
	return &doc.Assembler{
		Engine:   engine.New(),
		Reporter: newProgressReporter(),
		Log:      logrus.StandardLogger(),
	}
}

// progressReporter renders progress on a writer. The bar is rebuilt
// only when the total changes, so multi-phase operations get one bar
// per phase; per-event context just updates the bar's description.
type progressReporter struct {
	w     io.Writer
	bar   *progressbar.ProgressBar
	total int
}

func newProgressReporter() *progressReporter {
	return &progressReporter{w: os.Stderr}
}

func (r *progressReporter) Report(current, total int, context string) {
	if total <= 0 {
		return
	}
	if r.bar == nil || total != r.total {
		r.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(r.w),
			progressbar.OptionSetDescription(context),
			progressbar.OptionClearOnFinish(),
		)
		r.total = total
	}
	r.bar.Describe(context)
	r.bar.Set(current)
}

// stringVar registers a flag under both its long and short name.
func stringVar(fs *flag.FlagSet, p *string, long, short, value, help string) {
	fs.StringVar(p, long, value, help)
	if short != "" {
		fs.StringVar(p, short, value, help)
	}
}

func parseArgs(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(os.Stderr)
	return fs.Parse(args)
}

// parsePageList parses a comma separated list of page numbers, e.g.
// "1,4,7". Page numbers are 1-based.
func parsePageList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty page list")
	}
	var pages []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid page number %q", part)
		}
		pages = append(pages, n)
	}
	return pages, nil
}

func checkFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("unsupported output format %q (want text or json)", format)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
