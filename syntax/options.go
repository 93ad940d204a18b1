package syntax

import (
	"fmt"
	"strings"
)

// Option is a bitset of compile-time and search-time flags. The values
// match Oniguruma's ONIG_OPTION_* constants.
type Option uint32

const (
	OptionNone Option = 0

	// OptionIgnoreCase enables simple case-insensitive matching.
	OptionIgnoreCase Option = 1 << 0
	// OptionExtend ignores unescaped whitespace and #-comments in the pattern.
	OptionExtend Option = 1 << 1
	// OptionMultiline makes '.' match a newline.
	OptionMultiline Option = 1 << 2
	// OptionSingleline makes '^' mean \A and '$' mean \Z.
	OptionSingleline Option = 1 << 3
	// OptionFindLongest selects the longest match at the first matching start.
	OptionFindLongest Option = 1 << 4
	// OptionFindNotEmpty rejects zero-length matches.
	OptionFindNotEmpty Option = 1 << 5
	// OptionNegateSingleline clears OptionSingleline inherited from a syntax.
	OptionNegateSingleline Option = 1 << 6
	// OptionDontCaptureGroup makes only named groups capture.
	OptionDontCaptureGroup Option = 1 << 7
	// OptionCaptureGroup makes unnamed groups capture even when named
	// groups are present.
	OptionCaptureGroup Option = 1 << 8

	// OptionNotBOL: the start of the buffer is not the beginning of a line.
	OptionNotBOL Option = 1 << 9
	// OptionNotEOL: the end of the buffer is not the end of a line.
	OptionNotEOL Option = 1 << 10
)

const (
	// CompileOptionsMask covers the options accepted at compile time.
	CompileOptionsMask = OptionIgnoreCase | OptionExtend | OptionMultiline |
		OptionSingleline | OptionFindLongest | OptionFindNotEmpty |
		OptionNegateSingleline | OptionDontCaptureGroup | OptionCaptureGroup

	// SearchOptionsMask covers the options accepted at search time.
	SearchOptionsMask = OptionFindLongest | OptionFindNotEmpty | OptionNotBOL | OptionNotEOL
)

var optionNames = []struct {
	opt  Option
	name string
}{
	{OptionIgnoreCase, "IgnoreCase"},
	{OptionExtend, "Extend"},
	{OptionMultiline, "Multiline"},
	{OptionSingleline, "Singleline"},
	{OptionFindLongest, "FindLongest"},
	{OptionFindNotEmpty, "FindNotEmpty"},
	{OptionNegateSingleline, "NegateSingleline"},
	{OptionDontCaptureGroup, "DontCaptureGroup"},
	{OptionCaptureGroup, "CaptureGroup"},
	{OptionNotBOL, "NotBOL"},
	{OptionNotEOL, "NotEOL"},
}

// Has reports whether every bit of flag is set.
func (o Option) Has(flag Option) bool {
	return o&flag == flag
}

// String returns the set flags joined by '|', or "None".
func (o Option) String() string {
	if o == OptionNone {
		return "None"
	}
	var parts []string
	for _, n := range optionNames {
		if o&n.opt != 0 {
			parts = append(parts, n.name)
		}
	}
	if rest := o &^ (CompileOptionsMask | SearchOptionsMask); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseOptions parses a comma or '|' separated list of option names, such
// as "i,x" or "IgnoreCase|Extend". Single-letter forms i, x, m and s map to
// IgnoreCase, Extend, Multiline and Singleline.
func ParseOptions(s string) (Option, bool) {
	var opt Option
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' || r == ' ' })
	for _, f := range fields {
		switch f {
		case "i":
			opt |= OptionIgnoreCase
			continue
		case "x":
			opt |= OptionExtend
			continue
		case "m":
			opt |= OptionMultiline
			continue
		case "s":
			opt |= OptionSingleline
			continue
		}
		found := false
		for _, n := range optionNames {
			if strings.EqualFold(n.name, f) {
				opt |= n.opt
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return opt, true
}
