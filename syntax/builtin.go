package syntax

import "strings"

const (
	posixCommonOp = OpDotAnychar | OpPosixBracket | OpDecimalBackref |
		OpBracketCC | OpAsteriskZeroInf | OpLineAnchor | OpEscControlChars

	gnuRegexOp = OpDotAnychar | OpBracketCC | OpPosixBracket |
		OpDecimalBackref | OpBraceInterval | OpLparenSubexp |
		OpVbarAlt | OpAsteriskZeroInf | OpPlusOneInf |
		OpQmarkZeroOne | OpEscAZBufAnchor | OpEscCapitalGBeginAnchor |
		OpEscWWord | OpEscBWordBound | OpEscLtGtWordBeginEnd |
		OpEscSWhiteSpace | OpEscDDigit | OpLineAnchor

	gnuRegexBehavior = BehaviorContextIndepAnchors | BehaviorContextIndepRepeatOps |
		BehaviorContextInvalidRepeatOps | BehaviorAllowInvalidInterval |
		BehaviorBackslashEscapeInCC | BehaviorAllowDoubleRangeOpInCC

	perlOp = (gnuRegexOp | OpQmarkNonGreedy | OpEscOctal3 | OpEscXHex2 |
		OpEscXBraceHex8 | OpEscControlChars | OpEscCControl) &^ OpEscLtGtWordBeginEnd

	perlOp2 = Op2EscCapitalQQuote | Op2QmarkGroupEffect | Op2OptionPerl |
		Op2EscPBraceCharProperty | Op2EscPBraceCircumflexNot |
		Op2EscCapitalKKeep | Op2EscCapitalRGeneralNewline |
		Op2EscCapitalNOSuperDot | Op2QmarkLparenCondition
)

func builtin(name string, op Op, op2 Op2, b Behavior, opt Option) *Syntax {
	s := New(op, op2, b, opt)
	s.name = name
	s.frozen = true
	return s
}

var (
	syntaxASIS = builtin("ASIS", 0, Op2IneffectiveEscape, 0, OptionNone)

	syntaxPosixBasic = builtin("PosixBasic",
		posixCommonOp|OpEscLparenSubexp|OpEscBraceInterval,
		0, 0, OptionSingleline)

	syntaxPosixExtended = builtin("PosixExtended",
		posixCommonOp|OpLparenSubexp|OpBraceInterval|OpPlusOneInf|OpQmarkZeroOne|OpVbarAlt,
		0,
		BehaviorContextIndepAnchors|BehaviorContextIndepRepeatOps|
			BehaviorContextInvalidRepeatOps|BehaviorAllowUnmatchedCloseSubexp|
			BehaviorAllowDoubleRangeOpInCC,
		OptionSingleline)

	syntaxEmacs = builtin("Emacs",
		OpDotAnychar|OpBracketCC|OpEscBraceInterval|OpEscLparenSubexp|
			OpEscVbarAlt|OpAsteriskZeroInf|OpPlusOneInf|OpQmarkZeroOne|
			OpDecimalBackref|OpLineAnchor|OpEscControlChars,
		Op2EscGnuBufAnchor,
		BehaviorAllowEmptyRangeInCC,
		OptionNone)

	syntaxGrep = builtin("Grep",
		OpDotAnychar|OpBracketCC|OpPosixBracket|OpEscBraceInterval|
			OpEscLparenSubexp|OpEscVbarAlt|OpAsteriskZeroInf|OpEscPlusOneInf|
			OpEscQmarkZeroOne|OpLineAnchor|OpEscWWord|OpEscBWordBound|
			OpEscLtGtWordBeginEnd|OpDecimalBackref,
		0,
		BehaviorAllowEmptyRangeInCC|BehaviorNotNewlineInNegativeCC,
		OptionNone)

	syntaxGnuRegex = builtin("GnuRegex", gnuRegexOp, 0, gnuRegexBehavior, OptionNone)

	syntaxJava = builtin("Java",
		(gnuRegexOp|OpQmarkNonGreedy|OpEscControlChars|OpEscCControl|
			OpEscOctal3|OpEscXHex2)&^OpEscLtGtWordBeginEnd,
		Op2EscCapitalQQuote|Op2QmarkGroupEffect|Op2OptionPerl|
			Op2PlusPossessiveRepeat|Op2PlusPossessiveInterval|Op2CClassSetOp|
			Op2EscVVtab|Op2EscUHex4|Op2EscPBraceCharProperty,
		gnuRegexBehavior|BehaviorDifferentLenAltLookBehind,
		OptionSingleline)

	syntaxPerl = builtin("Perl", perlOp, perlOp2, gnuRegexBehavior, OptionSingleline)

	syntaxPerlNG = builtin("PerlNG", perlOp,
		perlOp2|Op2PlusPossessiveRepeat|Op2PlusPossessiveInterval|
			Op2QmarkLtNamedGroup|Op2EscKNamedBackref|Op2EscGSubexpCall,
		gnuRegexBehavior|BehaviorCaptureOnlyNamedGroup|BehaviorAllowMultiplexDefinitionName,
		OptionSingleline)

	syntaxPython = builtin("Python", perlOp,
		perlOp2|Op2PlusPossessiveRepeat|Op2PlusPossessiveInterval|
			Op2QmarkLtNamedGroup|Op2QmarkCapitalPName|Op2EscUHex4|Op2EscVVtab,
		gnuRegexBehavior|BehaviorCaptureOnlyNamedGroup,
		OptionSingleline)

	syntaxRuby = builtin("Ruby",
		(gnuRegexOp|OpQmarkNonGreedy|OpEscOctal3|OpEscXHex2|OpEscXBraceHex8|
			OpEscControlChars|OpEscCControl)&^OpEscLtGtWordBeginEnd,
		Op2EscCapitalQQuote|Op2QmarkGroupEffect|Op2OptionRuby|
			Op2QmarkLtNamedGroup|Op2EscKNamedBackref|Op2EscGSubexpCall|
			Op2EscPBraceCharProperty|Op2EscPBraceCircumflexNot|
			Op2PlusPossessiveRepeat|Op2CClassSetOp|Op2EscCapitalCBarControl|
			Op2EscCapitalMBarMeta|Op2EscVVtab|Op2EscHXdigit|
			Op2EscCapitalKKeep|Op2EscCapitalRGeneralNewline|
			Op2EscCapitalNOSuperDot|Op2QmarkLparenCondition,
		gnuRegexBehavior|BehaviorAllowIntervalLowAbbrev|
			BehaviorDifferentLenAltLookBehind|BehaviorCaptureOnlyNamedGroup|
			BehaviorAllowMultiplexDefinitionName|BehaviorFixedIntervalIsGreedyOnly|
			BehaviorWarnCCOpNotValid|BehaviorWarnRedundantNestedRepeat,
		OptionNone)
)

// ASIS treats the whole pattern as a literal string.
func ASIS() *Syntax { return syntaxASIS }

// PosixBasic is POSIX basic regular expressions (\( \) \{ \}).
func PosixBasic() *Syntax { return syntaxPosixBasic }

// PosixExtended is POSIX extended regular expressions.
func PosixExtended() *Syntax { return syntaxPosixExtended }

// Emacs is the Emacs regex dialect.
func Emacs() *Syntax { return syntaxEmacs }

// Grep is the grep dialect.
func Grep() *Syntax { return syntaxGrep }

// GnuRegex is the GNU regex dialect.
func GnuRegex() *Syntax { return syntaxGnuRegex }

// Java is the java.util.regex dialect.
func Java() *Syntax { return syntaxJava }

// Perl is the Perl 5.8 dialect.
func Perl() *Syntax { return syntaxPerl }

// PerlNG is Perl with named groups, \k and \g.
func PerlNG() *Syntax { return syntaxPerlNG }

// Python is the Python re dialect: Perl with (?P<name>...).
func Python() *Syntax { return syntaxPython }

// Ruby is the Ruby dialect and the default syntax.
func Ruby() *Syntax { return syntaxRuby }

// Default returns the default syntax (Ruby).
func Default() *Syntax { return syntaxRuby }

// Builtins returns every built-in syntax.
func Builtins() []*Syntax {
	return []*Syntax{
		syntaxASIS, syntaxPosixBasic, syntaxPosixExtended, syntaxEmacs,
		syntaxGrep, syntaxGnuRegex, syntaxJava, syntaxPerl, syntaxPerlNG,
		syntaxPython, syntaxRuby,
	}
}

// ByName returns the built-in syntax with the given name, ignoring case.
func ByName(name string) (*Syntax, bool) {
	for _, s := range Builtins() {
		if strings.EqualFold(s.name, name) {
			return s, true
		}
	}
	return nil, false
}
