package main

import (
	"flag"
	"fmt"
	"strings"
)

func runBookmarks(args []string) error {
	fs := flag.NewFlagSet("bookmarks", flag.ExitOnError)
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

	a := newAssembler()
	nodes, err := a.Bookmarks(input, password)
	if err != nil {
		return err
	}

	if format == "json" {
		type jsonNode struct {
			Title  string `json:"title"`
			Level  int    `json:"level"`
			Action string `json:"action"`
			Page   int    `json:"page,omitempty"`
		}
		out := make([]jsonNode, 0, len(nodes))
		for _, n := range nodes {
			out = append(out, jsonNode{
				Title:  n.Title,
				Level:  n.Level,
				Action: n.Action.String(),
				Page:   n.PageNumber,
			})
		}
		return printJSON(out)
	}

	for _, n := range nodes {
		indent := strings.Repeat("  ", n.Level)
		if n.PageNumber > 0 {
			fmt.Printf("%s%s (page %d)\n", indent, n.Title, n.PageNumber)
		} else {
			fmt.Printf("%s%s [%s]\n", indent, n.Title, n.Action)
		}
	}
	return nil
}
