// Command onigc generates Go source for a pattern: a package-level compiled
// *onig.Regex plus a typed match struct with one field per named group.
//
// Usage:
//
//	onigc -pattern '(?<year>\d{4})-(?<month>\d\d)' -name Date -package dates -o date_gen.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coregx/onig"
	"github.com/coregx/onig/syntax"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "onigc:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("onigc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		pattern = fs.String("pattern", "", "pattern to compile (required)")
		name    = fs.String("name", "", "prefix for generated identifiers (required)")
		pkg     = fs.String("package", "", "package name of the generated file (required)")
		synName = fs.String("syntax", "ruby", "pattern syntax: "+strings.Join(syntaxNames(), ", "))
		opts    = fs.String("options", "", "comma separated compile options, e.g. i,x")
		out     = fs.String("o", "", "output file (default stdout)")
		verbose = fs.Bool("v", false, "log analysis decisions to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	syn, err := syntaxByName(*synName)
	if err != nil {
		return err
	}
	opt, err := parseOptions(*opts)
	if err != nil {
		return err
	}

	logger := NewLogger(*verbose)
	logger.SetOutput(stderr)
	cfg := Config{
		Pattern: *pattern,
		Name:    *name,
		Package: *pkg,
		Syntax:  syn,
		Options: opt,
	}
	var w io.Writer = stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := Generate(cfg, logger, w); err != nil {
		return err
	}
	logger.Log("Wrote %s (%d warnings)", outputName(*out), logger.Warnings())
	return nil
}

func outputName(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}

func syntaxNames() []string {
	var names []string
	for _, s := range syntax.Builtins() {
		names = append(names, strings.ToLower(s.Name()))
	}
	return names
}

func syntaxByName(name string) (*syntax.Syntax, error) {
	for _, s := range syntax.Builtins() {
		if strings.EqualFold(s.Name(), name) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown syntax %q (want one of %s)", name, strings.Join(syntaxNames(), ", "))
}

// optionNames maps -options entries to the onig constant they select.
var optionNames = map[string]string{
	"i":                "OptionIgnoreCase",
	"ignorecase":       "OptionIgnoreCase",
	"x":                "OptionExtend",
	"extend":           "OptionExtend",
	"m":                "OptionMultiline",
	"multiline":        "OptionMultiline",
	"s":                "OptionSingleline",
	"singleline":       "OptionSingleline",
	"longest":          "OptionFindLongest",
	"notempty":         "OptionFindNotEmpty",
	"negatesingleline": "OptionNegateSingleline",
	"capture":          "OptionCaptureGroup",
	"nocapture":        "OptionDontCaptureGroup",
}

var optionValues = map[string]syntax.Option{
	"OptionIgnoreCase":       onig.OptionIgnoreCase,
	"OptionExtend":           onig.OptionExtend,
	"OptionMultiline":        onig.OptionMultiline,
	"OptionSingleline":       onig.OptionSingleline,
	"OptionFindLongest":      onig.OptionFindLongest,
	"OptionFindNotEmpty":     onig.OptionFindNotEmpty,
	"OptionNegateSingleline": onig.OptionNegateSingleline,
	"OptionCaptureGroup":     onig.OptionCaptureGroup,
	"OptionDontCaptureGroup": onig.OptionDontCaptureGroup,
}

// parseOptions returns the constant names selected by a comma separated
// list, in input order and without duplicates.
func parseOptions(s string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		c, ok := optionNames[f]
		if !ok {
			return nil, fmt.Errorf("unknown option %q", f)
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}
