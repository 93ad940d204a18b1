package main

import (
	"fmt"
	"go/token"
	"io"
	"strconv"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/coregx/onig"
	"github.com/coregx/onig/syntax"
)

const (
	onigPath   = "github.com/coregx/onig"
	syntaxPath = "github.com/coregx/onig/syntax"
)

// Config describes one generated file.
type Config struct {
	Pattern string
	Name    string // prefix for generated identifiers, e.g. "Date"
	Package string
	Syntax  *syntax.Syntax // nil selects Ruby
	Options []string       // names of onig option constants
}

// Validate checks that the identifiers are usable.
func (c Config) Validate() error {
	if !token.IsIdentifier(c.Name) {
		return fmt.Errorf("name %q is not a Go identifier", c.Name)
	}
	if !token.IsIdentifier(c.Package) {
		return fmt.Errorf("package %q is not a Go identifier", c.Package)
	}
	for _, o := range c.Options {
		if _, ok := optionValues[o]; !ok {
			return fmt.Errorf("unknown option constant %q", o)
		}
	}
	return nil
}

// field is one member of the generated match struct.
type field struct {
	Name   string
	Group  string
	Groups []int
}

// Generate compiles the pattern to check it and writes the generated
// source to w.
func Generate(cfg Config, logger *Logger, w io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Syntax == nil {
		cfg.Syntax = syntax.Ruby()
	}
	var opt syntax.Option
	for _, o := range cfg.Options {
		opt |= optionValues[o]
	}

	conf := onig.DefaultConfig()
	conf.Syntax = cfg.Syntax
	conf.Warn = logger.Warn
	conf.VerboseWarn = func(msg string) { logger.Log("warning: %s", msg) }
	re, err := onig.NewWithConfig([]byte(cfg.Pattern), opt, conf)
	if err != nil {
		return fmt.Errorf("failed to compile pattern: %w", err)
	}

	logger.Section("Pattern Analysis")
	logger.Log("Pattern: %s", cfg.Pattern)
	logger.Log("Syntax: %s", cfg.Syntax.Name())
	logger.Log("Options: %s", re.Options())
	logger.Log("Captures: %d", re.NumberOfCaptures())
	logger.Log("Names: %d", re.NumberOfNames())
	if n := re.NumberOfCaptureHistories(); n > 0 {
		logger.Log("Capture history groups: %d", n)
	}
	if logger.Enabled() {
		logger.Log("Program:\n%s", re.Dump())
	}

	fields := matchFields(re)
	logger.Section("Match Struct")
	for _, f := range fields {
		logger.Log("%s <- <%s> %v", f.Name, f.Group, f.Groups)
	}

	file := render(cfg, fields)
	if err := file.Render(w); err != nil {
		return fmt.Errorf("failed to render file: %w", err)
	}
	return nil
}

// matchFields assigns a struct field to every group name.
func matchFields(re *onig.Regex) []field {
	used := map[string]bool{"Match": true}
	var fields []field
	re.ForEachName(func(name string, groups []int) bool {
		id := fieldName(name)
		for used[id] {
			id += strconv.Itoa(groups[len(groups)-1])
		}
		used[id] = true
		fields = append(fields, field{Name: id, Group: name, Groups: groups})
		return true
	})
	return fields
}

// fieldName turns a group name into an exported identifier: "first_name"
// becomes "FirstName" and "1st" becomes "G1st".
func fieldName(name string) string {
	var out []rune
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		out = append(out, r)
	}
	if len(out) == 0 || !unicode.IsUpper(out[0]) {
		out = append([]rune{'G'}, out...)
	}
	return string(out)
}

func render(cfg Config, fields []field) *jen.File {
	regexVar := cfg.Name + "Regex"
	matchType := cfg.Name + "Match"
	groupFunc := "group" + cfg.Name

	f := jen.NewFile(cfg.Package)
	f.HeaderComment(fmt.Sprintf("Code generated by onigc from %q. DO NOT EDIT.", cfg.Pattern))

	opts := jen.Qual(onigPath, "OptionNone")
	for i, o := range cfg.Options {
		if i == 0 {
			opts = jen.Qual(onigPath, o)
			continue
		}
		opts = opts.Op("|").Qual(onigPath, o)
	}

	f.Commentf("%s is the compiled pattern %q.", regexVar, cfg.Pattern)
	f.Var().Id(regexVar).Op("=").Func().Params().Op("*").Qual(onigPath, "Regex").Block(
		jen.List(jen.Id("re"), jen.Err()).Op(":=").Qual(onigPath, "New").Call(
			jen.Index().Byte().Call(jen.Lit(cfg.Pattern)),
			opts,
			jen.Nil(),
			jen.Qual(syntaxPath, cfg.Syntax.Name()).Call(),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Panic(jen.Err())),
		jen.Return(jen.Id("re")),
	).Call()
	f.Line()

	members := []jen.Code{jen.Id("Match").Index().Byte()}
	for _, fl := range fields {
		members = append(members, jen.Id(fl.Name).Index().Byte().Comment(fmt.Sprintf("<%s>", fl.Group)))
	}
	f.Commentf("%s holds one match of %s. Unset groups are nil.", matchType, regexVar)
	f.Type().Id(matchType).Struct(members...)
	f.Line()

	f.Commentf("Match%s reports whether b contains a match of %s.", cfg.Name, regexVar)
	f.Func().Id("Match"+cfg.Name).Params(jen.Id("b").Index().Byte()).Bool().Block(
		jen.Return(jen.Id(regexVar).Dot("IsMatch").Call(jen.Id("b"))),
	)
	f.Line()

	body := []jen.Code{
		jen.Id("region").Op(":=").Qual(onigPath, "NewRegion").Call(jen.Lit(0)),
		jen.If(
			jen.List(jen.Id("pos"), jen.Id("_")).Op(":=").Id(regexVar).Dot("Search").Call(
				jen.Id("b"), jen.Lit(0), jen.Len(jen.Id("b")), jen.Lit(0),
				jen.Len(jen.Id("b")).Op("+").Lit(1), jen.Id("region"), jen.Qual(onigPath, "OptionNone"),
			),
			jen.Id("pos").Op("==").Qual(onigPath, "Mismatch"),
		).Block(jen.Return(jen.Nil(), jen.False())),
		jen.Id("m").Op(":=").Op("&").Id(matchType).Values(jen.Dict{
			jen.Id("Match"): jen.Id("b").Index(
				jen.Id("region").Dot("Beg").Call(jen.Lit(0)),
				jen.Id("region").Dot("End").Call(jen.Lit(0)),
			),
		}),
	}
	for _, fl := range fields {
		if len(fl.Groups) == 1 {
			body = append(body, jen.Id("m").Dot(fl.Name).Op("=").Id(groupFunc).Call(
				jen.Id("b"), jen.Id("region"), jen.Lit(fl.Groups[0])))
			continue
		}
		// A duplicated name reads the last group that participated.
		body = append(body, jen.If(
			jen.List(jen.Id("g"), jen.Err()).Op(":=").Id(regexVar).Dot("NameToBackrefNumber").Call(
				jen.Lit(fl.Group), jen.Id("region")),
			jen.Err().Op("==").Nil(),
		).Block(
			jen.Id("m").Dot(fl.Name).Op("=").Id(groupFunc).Call(jen.Id("b"), jen.Id("region"), jen.Id("g")),
		))
	}
	body = append(body, jen.Return(jen.Id("m"), jen.True()))

	f.Commentf("Find%s returns the leftmost match of %s in b.", cfg.Name, regexVar)
	f.Func().Id("Find"+cfg.Name).Params(jen.Id("b").Index().Byte()).
		Params(jen.Op("*").Id(matchType), jen.Bool()).
		Block(body...)
	f.Line()

	f.Func().Id(groupFunc).Params(
		jen.Id("b").Index().Byte(),
		jen.Id("region").Op("*").Qual(onigPath, "Region"),
		jen.Id("g").Int(),
	).Index().Byte().Block(
		jen.If(
			jen.Id("beg").Op(":=").Id("region").Dot("Beg").Call(jen.Id("g")),
			jen.Id("beg").Op("!=").Qual(onigPath, "Unset"),
		).Block(jen.Return(jen.Id("b").Index(jen.Id("beg"), jen.Id("region").Dot("End").Call(jen.Id("g"))))),
		jen.Return(jen.Nil()),
	)
	return f
}
