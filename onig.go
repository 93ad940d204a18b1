// Package onig provides an Oniguruma-compatible backtracking regex engine.
//
// Patterns are compiled under a configurable syntax (Ruby by default, or
// Perl, Java, Python, POSIX, GNU, Emacs, grep and the other built-in
// dialects) and a pluggable character encoding. The engine supports
// capture groups, named groups with duplicate names, back-references,
// look-ahead and fixed-length look-behind, atomic groups, possessive
// quantifiers, conditionals, subexpression calls and capture history.
//
// Basic usage:
//
//	re, err := onig.Compile(`(?<year>\d{4})-(?<month>\d\d)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	region := onig.NewRegion(0)
//	buf := []byte("date: 2024-05")
//	pos, err := re.Search(buf, 0, len(buf), 0, len(buf), region, onig.OptionNone)
//	// pos = 6, region.Beg(1) = 6, region.End(1) = 10
//
// Advanced usage:
//
//	cfg := onig.DefaultConfig()
//	cfg.Syntax = syntax.Perl()
//	cfg.RetryLimitInMatch = 1_000_000
//	re, err := onig.NewWithConfig([]byte(`(a|b)*c`), onig.OptionIgnoreCase, cfg)
//
// A Regex is immutable and safe for concurrent use. Each concurrent call
// needs its own Region.
package onig

import "github.com/coregx/onig/syntax"

// Mismatch is returned by Search and MatchAt when there is no match. It is
// not an error.
const Mismatch = -1

// Option aliases so callers need not import the syntax package for the
// common cases.
const (
	OptionNone             = syntax.OptionNone
	OptionIgnoreCase       = syntax.OptionIgnoreCase
	OptionExtend           = syntax.OptionExtend
	OptionMultiline        = syntax.OptionMultiline
	OptionSingleline       = syntax.OptionSingleline
	OptionFindLongest      = syntax.OptionFindLongest
	OptionFindNotEmpty     = syntax.OptionFindNotEmpty
	OptionNegateSingleline = syntax.OptionNegateSingleline
	OptionDontCaptureGroup = syntax.OptionDontCaptureGroup
	OptionCaptureGroup     = syntax.OptionCaptureGroup
	OptionNotBOL           = syntax.OptionNotBOL
	OptionNotEOL           = syntax.OptionNotEOL
)

const version = "6.9.0-go"

// Version returns the engine version string.
func Version() string { return version }
