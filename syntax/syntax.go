package syntax

// Op enables first-generation operators. Bit positions follow
// Oniguruma's ONIG_SYN_OP_*.
type Op uint32

const (
	OpVariableMetaCharacters Op = 1 << 0
	OpDotAnychar             Op = 1 << 1  // .
	OpAsteriskZeroInf        Op = 1 << 2  // *
	OpEscAsteriskZeroInf     Op = 1 << 3  // \*
	OpPlusOneInf             Op = 1 << 4  // +
	OpEscPlusOneInf          Op = 1 << 5  // \+
	OpQmarkZeroOne           Op = 1 << 6  // ?
	OpEscQmarkZeroOne        Op = 1 << 7  // \?
	OpBraceInterval          Op = 1 << 8  // {lower,upper}
	OpEscBraceInterval       Op = 1 << 9  // \{lower,upper\}
	OpVbarAlt                Op = 1 << 10 // |
	OpEscVbarAlt             Op = 1 << 11 // \|
	OpLparenSubexp           Op = 1 << 12 // (...)
	OpEscLparenSubexp        Op = 1 << 13 // \(...\)
	OpEscAZBufAnchor         Op = 1 << 14 // \A, \Z, \z
	OpEscCapitalGBeginAnchor Op = 1 << 15 // \G
	OpDecimalBackref         Op = 1 << 16 // \num
	OpBracketCC              Op = 1 << 17 // [...]
	OpEscWWord               Op = 1 << 18 // \w, \W
	OpEscLtGtWordBeginEnd    Op = 1 << 19 // \<. \>
	OpEscBWordBound          Op = 1 << 20 // \b, \B
	OpEscSWhiteSpace         Op = 1 << 21 // \s, \S
	OpEscDDigit              Op = 1 << 22 // \d, \D
	OpLineAnchor             Op = 1 << 23 // ^, $
	OpPosixBracket           Op = 1 << 24 // [:xxxx:]
	OpQmarkNonGreedy         Op = 1 << 25 // ??,*?,+?,{n,m}?
	OpEscControlChars        Op = 1 << 26 // \n,\r,\t,\a ...
	OpEscCControl            Op = 1 << 27 // \cX
	OpEscOctal3              Op = 1 << 28 // \OOO
	OpEscXHex2               Op = 1 << 29 // \xHH
	OpEscXBraceHex8          Op = 1 << 30 // \x{7HHHHHHH}
)

// Op2 enables second-generation operators (ONIG_SYN_OP2_*). Bits 21 and up
// cover constructs newer than the 5.9 table.
type Op2 uint32

const (
	Op2EscCapitalQQuote          Op2 = 1 << 0  // \Q...\E
	Op2QmarkGroupEffect          Op2 = 1 << 1  // (?...)
	Op2OptionPerl                Op2 = 1 << 2  // (?imsx),(?-imsx)
	Op2OptionRuby                Op2 = 1 << 3  // (?imx), (?-imx)
	Op2PlusPossessiveRepeat      Op2 = 1 << 4  // ?+,*+,++
	Op2PlusPossessiveInterval    Op2 = 1 << 5  // {n,m}+
	Op2CClassSetOp               Op2 = 1 << 6  // [...&&..[..]..]
	Op2QmarkLtNamedGroup         Op2 = 1 << 7  // (?<name>...)
	Op2EscKNamedBackref          Op2 = 1 << 8  // \k<name>
	Op2EscGSubexpCall            Op2 = 1 << 9  // \g<name>, \g<n>
	Op2AtmarkCaptureHistory      Op2 = 1 << 10 // (?@..),(?@<x>..)
	Op2EscCapitalCBarControl     Op2 = 1 << 11 // \C-x
	Op2EscCapitalMBarMeta        Op2 = 1 << 12 // \M-x
	Op2EscVVtab                  Op2 = 1 << 13 // \v as VTAB
	Op2EscUHex4                  Op2 = 1 << 14 // \uHHHH
	Op2EscGnuBufAnchor           Op2 = 1 << 15 // \`, \'
	Op2EscPBraceCharProperty     Op2 = 1 << 16 // \p{...}, \P{...}
	Op2EscPBraceCircumflexNot    Op2 = 1 << 17 // \p{^..}, \P{^..}
	Op2EscHXdigit                Op2 = 1 << 19 // \h, \H
	Op2IneffectiveEscape         Op2 = 1 << 20 // \
	Op2QmarkCapitalPName         Op2 = 1 << 21 // (?P<name>...)
	Op2EscCapitalKKeep           Op2 = 1 << 22 // \K
	Op2EscCapitalRGeneralNewline Op2 = 1 << 23 // \R
	Op2EscCapitalNOSuperDot      Op2 = 1 << 24 // \N, \O
	Op2QmarkLparenCondition      Op2 = 1 << 25 // (?(cond)yes|no)
)

// Behavior holds dialect behaviour switches (ONIG_SYN_*).
type Behavior uint32

const (
	BehaviorContextIndepRepeatOps        Behavior = 1 << 0 // ?, *, +, {n,m}
	BehaviorContextInvalidRepeatOps      Behavior = 1 << 1 // error or ignore
	BehaviorAllowUnmatchedCloseSubexp    Behavior = 1 << 2 // ...)...
	BehaviorAllowInvalidInterval         Behavior = 1 << 3 // {???
	BehaviorAllowIntervalLowAbbrev       Behavior = 1 << 4 // {,n} => {0,n}
	BehaviorStrictCheckBackref           Behavior = 1 << 5 // /(\1)/,/\1()/ ..
	BehaviorDifferentLenAltLookBehind    Behavior = 1 << 6 // (?<=a|bc)
	BehaviorCaptureOnlyNamedGroup        Behavior = 1 << 7 // see doc/RE
	BehaviorAllowMultiplexDefinitionName Behavior = 1 << 8 // (?<x>)(?<x>)
	BehaviorFixedIntervalIsGreedyOnly    Behavior = 1 << 9 // a{n}?=(?:a{n})?

	// syntax (behavior) in char class [...]
	BehaviorNotNewlineInNegativeCC Behavior = 1 << 20 // [^...]
	BehaviorBackslashEscapeInCC    Behavior = 1 << 21 // [..\w..] etc..
	BehaviorAllowEmptyRangeInCC    Behavior = 1 << 22
	BehaviorAllowDoubleRangeOpInCC Behavior = 1 << 23 // [0-9-a]=[0-9\-a]

	// syntax (behavior) warning
	BehaviorWarnCCOpNotValid          Behavior = 1 << 24 // [,-,]
	BehaviorWarnRedundantNestedRepeat Behavior = 1 << 25 // (?:a*)+

	BehaviorContextIndepAnchors Behavior = 1 << 31
)

// IneffectiveMetaChar disables a meta-character slot.
const IneffectiveMetaChar rune = 0

// MetaCharIndex names a slot of the MetaCharTable.
type MetaCharIndex int

const (
	MetaEscape MetaCharIndex = iota
	MetaAnyChar
	MetaAnyTime
	MetaZeroOrOneTime
	MetaOneOrMoreTime
	MetaAnyCharAnyTime
)

// MetaCharTable maps the six configurable meta-characters to code points.
// Only Esc is consulted unless OpVariableMetaCharacters is enabled.
type MetaCharTable struct {
	Esc            rune
	AnyChar        rune
	AnyTime        rune
	ZeroOrOneTime  rune
	OneOrMoreTime  rune
	AnyCharAnyTime rune
}

func defaultMetaChars() MetaCharTable {
	ine := IneffectiveMetaChar
	return MetaCharTable{Esc: '\\', AnyChar: ine, AnyTime: ine, ZeroOrOneTime: ine, OneOrMoreTime: ine, AnyCharAnyTime: ine}
}

// Syntax describes a pattern dialect: the operators it enables, its
// behaviour flags, its default options and its meta-character table.
//
// Built-in syntaxes returned by Ruby, Perl and friends are frozen and safe
// to share; their setters panic with ErrFrozenSyntax. Use Clone to obtain a
// mutable copy.
type Syntax struct {
	name     string
	op       Op
	op2      Op2
	behavior Behavior
	options  Option
	meta     MetaCharTable
	frozen   bool
}

// New returns a mutable syntax with the given tables and a default
// meta-character table ('\' escape, everything else ineffective).
func New(op Op, op2 Op2, behavior Behavior, options Option) *Syntax {
	return &Syntax{op: op, op2: op2, behavior: behavior, options: options, meta: defaultMetaChars()}
}

// Clone returns a mutable copy of s.
func (s *Syntax) Clone() *Syntax {
	c := *s
	c.frozen = false
	return &c
}

// Name returns the dialect name of a built-in syntax, or "" for a custom one.
func (s *Syntax) Name() string { return s.name }

// Frozen reports whether s is a read-only built-in.
func (s *Syntax) Frozen() bool { return s.frozen }

func (s *Syntax) Op() Op             { return s.op }
func (s *Syntax) Op2() Op2           { return s.op2 }
func (s *Syntax) Behavior() Behavior { return s.behavior }
func (s *Syntax) Options() Option    { return s.options }

// IsOp reports whether all bits of op are enabled.
func (s *Syntax) IsOp(op Op) bool { return s.op&op == op }

// IsOp2 reports whether all bits of op are enabled.
func (s *Syntax) IsOp2(op Op2) bool { return s.op2&op == op }

// IsBehavior reports whether all bits of b are enabled.
func (s *Syntax) IsBehavior(b Behavior) bool { return s.behavior&b == b }

func (s *Syntax) mustMutable() {
	if s.frozen {
		panic(ErrFrozenSyntax)
	}
}

func (s *Syntax) SetOp(op Op) {
	s.mustMutable()
	s.op = op
}

func (s *Syntax) SetOp2(op Op2) {
	s.mustMutable()
	s.op2 = op
}

func (s *Syntax) SetBehavior(b Behavior) {
	s.mustMutable()
	s.behavior = b
}

func (s *Syntax) SetOptions(opt Option) {
	s.mustMutable()
	s.options = opt
}

// MetaChars returns a copy of the meta-character table.
func (s *Syntax) MetaChars() MetaCharTable { return s.meta }

// MetaChar returns the code point of one slot.
func (s *Syntax) MetaChar(which MetaCharIndex) rune {
	switch which {
	case MetaEscape:
		return s.meta.Esc
	case MetaAnyChar:
		return s.meta.AnyChar
	case MetaAnyTime:
		return s.meta.AnyTime
	case MetaZeroOrOneTime:
		return s.meta.ZeroOrOneTime
	case MetaOneOrMoreTime:
		return s.meta.OneOrMoreTime
	case MetaAnyCharAnyTime:
		return s.meta.AnyCharAnyTime
	}
	return IneffectiveMetaChar
}

// SetMetaChar assigns one slot. Use IneffectiveMetaChar to disable it.
// An unknown slot returns ErrInvalidArgument.
func (s *Syntax) SetMetaChar(which MetaCharIndex, code rune) error {
	s.mustMutable()
	switch which {
	case MetaEscape:
		s.meta.Esc = code
	case MetaAnyChar:
		s.meta.AnyChar = code
	case MetaAnyTime:
		s.meta.AnyTime = code
	case MetaZeroOrOneTime:
		s.meta.ZeroOrOneTime = code
	case MetaOneOrMoreTime:
		s.meta.OneOrMoreTime = code
	case MetaAnyCharAnyTime:
		s.meta.AnyCharAnyTime = code
	default:
		return ErrInvalidArgument
	}
	return nil
}

// isMeta reports whether r is the active meta-character of slot which.
func (s *Syntax) isMeta(which MetaCharIndex, r rune) bool {
	if which != MetaEscape && !s.IsOp(OpVariableMetaCharacters) {
		return false
	}
	m := s.MetaChar(which)
	return m != IneffectiveMetaChar && m == r
}
