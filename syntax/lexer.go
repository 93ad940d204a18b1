package syntax

import (
	"github.com/coregx/onig/encoding"
)

const (
	maxRepeatNum  = 100000
	maxBackrefNum = 1000
	infinite      = -1
)

type tokenKind uint8

const (
	tkEOT tokenKind = iota
	tkChar
	tkRawByte
	tkCodePoint
	tkString
	tkAnyChar
	tkAnyCharAnyTime
	tkCtype
	tkProperty
	tkAnchor
	tkBackref
	tkCall
	tkKeep
	tkGeneralNewline
	tkNoNewline
	tkTrueAnyChar
	tkRepeat
	tkInterval
	tkAlt
	tkOpenGroup
	tkCloseGroup
	tkOpenClass
)

type token struct {
	kind    tokenKind
	pos     int
	escaped bool
	c       rune
	// litEnd is where a repeat token resumes when it is reread as a literal.
	litEnd int

	min, max   int
	greedy     bool
	possessive bool

	ctype encoding.Ctype
	neg   bool
	pred  encoding.Predicate
	name  string

	anchor   AnchorKind
	lineMeta bool

	refNum      int
	refName     string
	refNumbered bool

	str []byte
}

func (p *parser) eof() bool { return p.pos >= len(p.pat) }

// peekRune decodes the character at the current position.
func (p *parser) peekRune() (rune, int) {
	if p.eof() {
		return -1, 0
	}
	return p.enc.Decode(p.pat[p.pos:])
}

func (p *parser) nextRune() rune {
	r, n := p.peekRune()
	p.pos += n
	return r
}

func (p *parser) peekIs(r rune) bool {
	c, _ := p.peekRune()
	return c == r
}

func (p *parser) errAt(code ErrorCode, pos int) error {
	return NewError(code, pos, nil)
}

func (p *parser) errCtx(code ErrorCode, pos int, ctx []byte) error {
	return NewError(code, pos, ctx)
}

func (p *parser) unsupported(pos int) error {
	return NewError(ErrUnsupportedConstruct, pos, p.pat[pos:p.pos])
}

// skipExtended skips whitespace and #-comments in extended mode.
func (p *parser) skipExtended() {
	for !p.eof() {
		c, n := p.peekRune()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			p.pos += n
		case c == '#':
			for !p.eof() {
				if p.nextRune() == '\n' {
					break
				}
			}
		default:
			return
		}
	}
}

// fetch reads the next token outside a character class.
func (p *parser) fetch(opt Option) (token, error) {
	if opt&OptionExtend != 0 {
		p.skipExtended()
	}
	tok := token{pos: p.pos}
	if p.eof() {
		tok.kind = tkEOT
		return tok, nil
	}
	c := p.nextRune()
	tok.c = c
	tok.kind = tkChar
	tok.litEnd = p.pos

	if c == p.syn.meta.Esc && c != IneffectiveMetaChar && !p.syn.IsOp2(Op2IneffectiveEscape) {
		return p.fetchEscape(opt, tok)
	}

	if p.syn.IsOp(OpVariableMetaCharacters) {
		switch {
		case p.syn.isMeta(MetaAnyChar, c):
			tok.kind = tkAnyChar
			return tok, nil
		case p.syn.isMeta(MetaAnyTime, c):
			return p.repeatToken(tok, 0, infinite, false)
		case p.syn.isMeta(MetaZeroOrOneTime, c):
			return p.repeatToken(tok, 0, 1, false)
		case p.syn.isMeta(MetaOneOrMoreTime, c):
			return p.repeatToken(tok, 1, infinite, false)
		case p.syn.isMeta(MetaAnyCharAnyTime, c):
			tok.kind = tkAnyCharAnyTime
			return tok, nil
		}
	}

	switch c {
	case '.':
		if p.syn.IsOp(OpDotAnychar) {
			tok.kind = tkAnyChar
		}
	case '*':
		if p.syn.IsOp(OpAsteriskZeroInf) {
			return p.repeatToken(tok, 0, infinite, false)
		}
	case '+':
		if p.syn.IsOp(OpPlusOneInf) {
			return p.repeatToken(tok, 1, infinite, false)
		}
	case '?':
		if p.syn.IsOp(OpQmarkZeroOne) {
			return p.repeatToken(tok, 0, 1, false)
		}
	case '{':
		if p.syn.IsOp(OpBraceInterval) {
			return p.intervalToken(tok)
		}
	case '|':
		if p.syn.IsOp(OpVbarAlt) {
			tok.kind = tkAlt
		}
	case '(':
		if p.syn.IsOp(OpLparenSubexp) {
			if p.syn.IsOp2(Op2QmarkGroupEffect) && p.hasPrefix("?#") {
				if err := p.skipComment(tok.pos); err != nil {
					return tok, err
				}
				return p.fetch(opt)
			}
			tok.kind = tkOpenGroup
		}
	case ')':
		if p.syn.IsOp(OpLparenSubexp) {
			tok.kind = tkCloseGroup
		}
	case '^':
		if p.syn.IsOp(OpLineAnchor) {
			tok.kind = tkAnchor
			if opt&OptionSingleline != 0 {
				tok.anchor = AnchorBeginBuf
				tok.lineMeta = true
			} else {
				tok.anchor = AnchorBeginLine
			}
		}
	case '$':
		if p.syn.IsOp(OpLineAnchor) {
			tok.kind = tkAnchor
			if opt&OptionSingleline != 0 {
				tok.anchor = AnchorSemiEndBuf
				tok.lineMeta = true
			} else {
				tok.anchor = AnchorEndLine
			}
		}
	case '[':
		if p.syn.IsOp(OpBracketCC) {
			tok.kind = tkOpenClass
		}
	}
	return tok, nil
}

func (p *parser) hasPrefix(s string) bool {
	return len(p.pat)-p.pos >= len(s) && string(p.pat[p.pos:p.pos+len(s)]) == s
}

// skipComment consumes "?#...)" after an opening parenthesis.
func (p *parser) skipComment(start int) error {
	p.pos += 2
	for !p.eof() {
		c := p.nextRune()
		if c == ')' {
			return nil
		}
		if c == p.syn.meta.Esc && !p.eof() {
			p.nextRune()
		}
	}
	return p.errAt(ErrEndPatternInGroup, start)
}

// repeatToken finishes a ?, * or + token with its lazy or possessive suffix.
func (p *parser) repeatToken(tok token, min, max int, interval bool) (token, error) {
	tok.kind = tkRepeat
	if interval {
		tok.kind = tkInterval
	}
	tok.min, tok.max = min, max
	tok.greedy = true
	fixed := interval && min == max
	if !(fixed && p.syn.IsBehavior(BehaviorFixedIntervalIsGreedyOnly)) {
		if p.peekIs('?') && p.syn.IsOp(OpQmarkNonGreedy) {
			p.pos++
			tok.greedy = false
			return tok, nil
		}
	}
	if p.peekIs('+') {
		if (!interval && p.syn.IsOp2(Op2PlusPossessiveRepeat)) ||
			(interval && p.syn.IsOp2(Op2PlusPossessiveInterval)) {
			p.pos++
			tok.possessive = true
		}
	}
	return tok, nil
}

// scanDecimal reads up to maxDigits decimal digits. n is the digit count;
// v is -1 on overflow past limit.
func (p *parser) scanDecimal(limit int) (v, n int) {
	for !p.eof() {
		c := p.pat[p.pos]
		if c < '0' || c > '9' {
			break
		}
		p.pos++
		n++
		if v >= 0 {
			v = v*10 + int(c-'0')
			if v > limit {
				v = -1
			}
		}
	}
	return v, n
}

func hexVal(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func (p *parser) scanHex(maxDigits int) (v, n int) {
	for n < maxDigits && !p.eof() {
		d := hexVal(p.pat[p.pos])
		if d < 0 {
			break
		}
		v = v<<4 | d
		p.pos++
		n++
	}
	return v, n
}

func (p *parser) scanOctal(maxDigits int) (v, n int) {
	for n < maxDigits && !p.eof() {
		c := p.pat[p.pos]
		if c < '0' || c > '7' {
			break
		}
		v = v<<3 | int(c-'0')
		p.pos++
		n++
	}
	return v, n
}

// intervalToken parses {n,m} after the opening brace. When the syntax
// allows invalid intervals, a malformed one rereads '{' as a literal.
func (p *parser) intervalToken(tok token) (token, error) {
	allowInvalid := p.syn.IsBehavior(BehaviorAllowInvalidInterval)
	escBrace := tok.escaped
	invalid := func() (token, error) {
		if allowInvalid {
			p.pos = tok.litEnd
			tok.kind = tkChar
			return tok, nil
		}
		return tok, p.errAt(ErrInvalidRepeatRangePattern, tok.pos)
	}

	if p.eof() {
		if allowInvalid {
			return invalid()
		}
		return tok, p.errAt(ErrEndPatternAtLeftBrace, tok.pos)
	}
	if !allowInvalid {
		if c := p.pat[p.pos]; c == ')' || c == '(' || c == '|' {
			return tok, p.errAt(ErrEndPatternAtLeftBrace, tok.pos)
		}
	}

	low, n := p.scanDecimal(maxRepeatNum)
	if low < 0 {
		return tok, p.errAt(ErrTooBigNumberForRepeatRange, tok.pos)
	}
	nonLow := false
	if n == 0 {
		if p.syn.IsBehavior(BehaviorAllowIntervalLowAbbrev) && p.peekIs(',') {
			low = 0
			nonLow = true
		} else {
			return invalid()
		}
	}
	if p.eof() {
		return invalid()
	}
	up := low
	if p.pat[p.pos] == ',' {
		p.pos++
		var m int
		up, m = p.scanDecimal(maxRepeatNum)
		if up < 0 {
			return tok, p.errAt(ErrTooBigNumberForRepeatRange, tok.pos)
		}
		if m == 0 {
			if nonLow {
				return invalid()
			}
			up = infinite
		}
	} else if nonLow {
		return invalid()
	}
	if p.eof() {
		return invalid()
	}
	if escBrace {
		if c, n := p.peekRune(); c != p.syn.meta.Esc {
			return invalid()
		} else {
			p.pos += n
		}
	}
	if p.eof() || p.pat[p.pos] != '}' {
		return invalid()
	}
	p.pos++
	if up != infinite && low > up {
		return tok, p.errAt(ErrUpperSmallerThanLowerInRepeatRange, tok.pos)
	}
	return p.repeatToken(tok, low, up, true)
}

// knownEscapeLetters are letters that name an operator in some syntax.
// Escaping one of them while its operator is disabled is an error.
const knownEscapeLetters = "wWsSdDhHbBAZzGQpPkgKRNOxuctnrfvaeCM"

func isKnownEscape(c rune) bool {
	for _, k := range knownEscapeLetters {
		if k == c {
			return true
		}
	}
	return false
}

// fetchEscape reads the token following the escape character.
func (p *parser) fetchEscape(opt Option, tok token) (token, error) {
	if p.eof() {
		return tok, p.errAt(ErrEndPatternAtEscape, tok.pos)
	}
	c := p.nextRune()
	tok.c = c
	tok.escaped = true
	tok.litEnd = p.pos
	syn := p.syn

	switch c {
	case '*':
		if syn.IsOp(OpEscAsteriskZeroInf) {
			return p.repeatToken(tok, 0, infinite, false)
		}
		return tok, nil
	case '+':
		if syn.IsOp(OpEscPlusOneInf) {
			return p.repeatToken(tok, 1, infinite, false)
		}
		return tok, nil
	case '?':
		if syn.IsOp(OpEscQmarkZeroOne) {
			return p.repeatToken(tok, 0, 1, false)
		}
		return tok, nil
	case '{':
		if syn.IsOp(OpEscBraceInterval) {
			return p.intervalToken(tok)
		}
		return tok, nil
	case '|':
		if syn.IsOp(OpEscVbarAlt) {
			tok.kind = tkAlt
		}
		return tok, nil
	case '(':
		if syn.IsOp(OpEscLparenSubexp) {
			tok.kind = tkOpenGroup
		}
		return tok, nil
	case ')':
		if syn.IsOp(OpEscLparenSubexp) {
			tok.kind = tkCloseGroup
		}
		return tok, nil
	case '<', '>':
		if syn.IsOp(OpEscLtGtWordBeginEnd) {
			tok.kind = tkAnchor
			tok.anchor = AnchorWordBegin
			if c == '>' {
				tok.anchor = AnchorWordEnd
			}
		}
		return tok, nil
	case '`', '\'':
		if syn.IsOp2(Op2EscGnuBufAnchor) {
			tok.kind = tkAnchor
			tok.anchor = AnchorBeginBuf
			if c == '\'' {
				tok.anchor = AnchorEndBuf
			}
		}
		return tok, nil
	case 'w', 'W':
		if syn.IsOp(OpEscWWord) {
			return ctypeToken(tok, encoding.CtypeWord, c == 'W'), nil
		}
	case 's', 'S':
		if syn.IsOp(OpEscSWhiteSpace) {
			return ctypeToken(tok, encoding.CtypeSpace, c == 'S'), nil
		}
	case 'd', 'D':
		if syn.IsOp(OpEscDDigit) {
			return ctypeToken(tok, encoding.CtypeDigit, c == 'D'), nil
		}
	case 'h', 'H':
		if syn.IsOp2(Op2EscHXdigit) {
			return ctypeToken(tok, encoding.CtypeXDigit, c == 'H'), nil
		}
	case 'b', 'B':
		if syn.IsOp(OpEscBWordBound) {
			tok.kind = tkAnchor
			tok.anchor = AnchorWordBoundary
			if c == 'B' {
				tok.anchor = AnchorNotWordBoundary
			}
			return tok, nil
		}
	case 'A', 'Z', 'z':
		if syn.IsOp(OpEscAZBufAnchor) {
			tok.kind = tkAnchor
			switch c {
			case 'A':
				tok.anchor = AnchorBeginBuf
			case 'Z':
				tok.anchor = AnchorSemiEndBuf
			default:
				tok.anchor = AnchorEndBuf
			}
			return tok, nil
		}
	case 'G':
		if syn.IsOp(OpEscCapitalGBeginAnchor) {
			tok.kind = tkAnchor
			tok.anchor = AnchorBeginPosition
			return tok, nil
		}
	case 'K':
		if syn.IsOp2(Op2EscCapitalKKeep) {
			tok.kind = tkKeep
			return tok, nil
		}
	case 'R':
		if syn.IsOp2(Op2EscCapitalRGeneralNewline) {
			tok.kind = tkGeneralNewline
			return tok, nil
		}
	case 'N', 'O':
		if syn.IsOp2(Op2EscCapitalNOSuperDot) {
			tok.kind = tkNoNewline
			if c == 'O' {
				tok.kind = tkTrueAnyChar
			}
			return tok, nil
		}
	case 'Q':
		if syn.IsOp2(Op2EscCapitalQQuote) {
			return p.quoteToken(tok), nil
		}
	case 'p', 'P':
		if syn.IsOp2(Op2EscPBraceCharProperty) {
			if p.peekIs('{') {
				return p.propertyToken(tok, c == 'P')
			}
			return tok, nil
		}
	case 'k':
		if syn.IsOp2(Op2EscKNamedBackref) {
			if p.peekIs('<') || p.peekIs('\'') {
				return p.namedRefToken(tok, tkBackref)
			}
			return tok, nil
		}
	case 'g':
		if syn.IsOp2(Op2EscGSubexpCall) {
			if p.peekIs('<') || p.peekIs('\'') {
				return p.namedRefToken(tok, tkCall)
			}
			return tok, nil
		}
	case 'x':
		if syn.IsOp(OpEscXBraceHex8) && p.peekIs('{') {
			return p.braceHexToken(tok)
		}
		if syn.IsOp(OpEscXHex2) {
			v, _ := p.scanHex(2)
			tok.kind = tkRawByte
			tok.c = rune(v)
			return tok, nil
		}
		if syn.IsOp(OpEscXBraceHex8) {
			return tok, nil
		}
	case 'u':
		if syn.IsOp2(Op2EscUHex4) {
			v, _ := p.scanHex(4)
			tok.kind = tkCodePoint
			tok.c = rune(v)
			return tok, nil
		}
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return p.decimalEscape(tok)
	case '0':
		if syn.IsOp(OpEscOctal3) {
			v, _ := p.scanOctal(2)
			tok.kind = tkRawByte
			tok.c = rune(v)
		}
		return tok, nil
	default:
		if !isKnownEscape(c) {
			return tok, nil
		}
		v, ok, err := p.controlEscape(c, tok.pos)
		if err != nil {
			return tok, err
		}
		if ok {
			tok.kind = tkCodePoint
			tok.c = v
			if v >= 0x80 {
				tok.kind = tkRawByte
			}
			return tok, nil
		}
	}
	if c == 'E' {
		return tok, nil
	}
	return tok, p.unsupported(tok.pos)
}

func ctypeToken(tok token, ct encoding.Ctype, neg bool) token {
	tok.kind = tkCtype
	tok.ctype = ct
	tok.neg = neg
	return tok
}

// controlEscape decodes \t \n \r \f \v \a \e \cX \C-X \M-X. ok is false
// when the letter's operator is disabled.
func (p *parser) controlEscape(c rune, start int) (rune, bool, error) {
	syn := p.syn
	switch c {
	case 't', 'n', 'r', 'f', 'a', 'e':
		if !syn.IsOp(OpEscControlChars) {
			return 0, false, nil
		}
		switch c {
		case 't':
			return '\t', true, nil
		case 'n':
			return '\n', true, nil
		case 'r':
			return '\r', true, nil
		case 'f':
			return '\f', true, nil
		case 'a':
			return 0x07, true, nil
		}
		return 0x1b, true, nil
	case 'v':
		if syn.IsOp2(Op2EscVVtab) {
			return '\v', true, nil
		}
		return 0, false, nil
	case 'c':
		if !syn.IsOp(OpEscCControl) {
			return 0, false, nil
		}
		if p.eof() {
			return 0, false, p.errAt(ErrEndPatternAtControl, start)
		}
		return p.controlOf(start)
	case 'C':
		if !syn.IsOp2(Op2EscCapitalCBarControl) {
			return 0, false, nil
		}
		if p.eof() {
			return 0, false, p.errAt(ErrEndPatternAtControl, start)
		}
		if p.pat[p.pos] != '-' {
			return 0, false, p.errAt(ErrControlCodeSyntax, start)
		}
		p.pos++
		if p.eof() {
			return 0, false, p.errAt(ErrEndPatternAtControl, start)
		}
		return p.controlOf(start)
	case 'M':
		if !syn.IsOp2(Op2EscCapitalMBarMeta) {
			return 0, false, nil
		}
		if p.eof() {
			return 0, false, p.errAt(ErrEndPatternAtMeta, start)
		}
		if p.pat[p.pos] != '-' {
			return 0, false, p.errAt(ErrMetaCodeSyntax, start)
		}
		p.pos++
		if p.eof() {
			return 0, false, p.errAt(ErrEndPatternAtMeta, start)
		}
		v, err := p.escapedValue(start)
		if err != nil {
			return 0, false, err
		}
		return (v & 0xff) | 0x80, true, nil
	}
	return 0, false, nil
}

// controlOf reads the X of \cX or \C-X.
func (p *parser) controlOf(start int) (rune, bool, error) {
	v, err := p.escapedValue(start)
	if err != nil {
		return 0, false, err
	}
	if v == '?' {
		return 0x7f, true, nil
	}
	return v & 0x9f, true, nil
}

// escapedValue reads one character that may itself be an escape, for the
// operand of \c, \C- and \M-.
func (p *parser) escapedValue(start int) (rune, error) {
	c := p.nextRune()
	if c != p.syn.meta.Esc {
		return c, nil
	}
	if p.eof() {
		return 0, p.errAt(ErrEndPatternAtEscape, start)
	}
	c = p.nextRune()
	v, ok, err := p.controlEscape(c, start)
	if err != nil {
		return 0, err
	}
	if ok {
		return v, nil
	}
	return c, nil
}

// decimalEscape handles \1..\9: a back-reference when enough groups are
// open, otherwise an octal escape or the digit itself.
func (p *parser) decimalEscape(tok token) (token, error) {
	start := p.pos - 1
	p.pos = start
	num, _ := p.scanDecimal(1 << 30)
	if p.syn.IsOp(OpDecimalBackref) && num >= 0 && (num <= p.numCaps || num <= 9) {
		if num > maxBackrefNum {
			return tok, p.errAt(ErrTooBigBackrefNumber, tok.pos)
		}
		if p.syn.IsBehavior(BehaviorStrictCheckBackref) && num > p.numCaps {
			return tok, p.errAt(ErrInvalidBackref, tok.pos)
		}
		tok.kind = tkBackref
		tok.refNum = num
		tok.refNumbered = true
		return tok, nil
	}
	p.pos = start
	if tok.c == '8' || tok.c == '9' {
		p.pos++
		return tok, nil
	}
	if p.syn.IsOp(OpEscOctal3) {
		v, _ := p.scanOctal(3)
		if v > 0xff {
			return tok, p.errAt(ErrTooBigNumber, tok.pos)
		}
		tok.kind = tkRawByte
		tok.c = rune(v)
		return tok, nil
	}
	p.pos++
	return tok, nil
}

func (p *parser) braceHexToken(tok token) (token, error) {
	save := p.pos
	p.pos++
	v, n := p.scanHex(8)
	if n == 8 && v > 0x7fffffff {
		return tok, p.errAt(ErrTooBigWideCharValue, tok.pos)
	}
	if !p.eof() && hexVal(p.pat[p.pos]) >= 0 {
		return tok, p.errAt(ErrTooLongWideCharValue, tok.pos)
	}
	if n > 0 && p.peekIs('}') {
		p.pos++
		tok.kind = tkCodePoint
		tok.c = rune(v)
		return tok, nil
	}
	p.pos = save
	return tok, nil
}

// quoteToken reads \Q...\E as a literal string.
func (p *parser) quoteToken(tok token) token {
	start := p.pos
	end := len(p.pat)
	next := len(p.pat)
	for i := start; i < len(p.pat); {
		r, n := p.enc.Decode(p.pat[i:])
		if r == p.syn.meta.Esc && i+n < len(p.pat) && p.pat[i+n] == 'E' {
			end = i
			next = i + n + 1
			break
		}
		i += n
	}
	tok.kind = tkString
	tok.str = p.pat[start:end]
	p.pos = next
	return tok
}

// propertyToken reads {name} or {^name} after \p or \P.
func (p *parser) propertyToken(tok token, neg bool) (token, error) {
	p.pos++ // {
	if p.peekIs('^') && p.syn.IsOp2(Op2EscPBraceCircumflexNot) {
		p.pos++
		neg = !neg
	}
	start := p.pos
	for !p.eof() && p.pat[p.pos] != '}' {
		p.pos++
	}
	if p.eof() {
		return tok, p.errCtx(ErrInvalidCharPropertyName, tok.pos, p.pat[start:])
	}
	name := string(p.pat[start:p.pos])
	p.pos++
	pred, ok := p.enc.Property(name)
	if !ok {
		return tok, p.errCtx(ErrInvalidCharPropertyName, tok.pos, []byte(name))
	}
	tok.kind = tkProperty
	tok.pred = pred
	tok.name = name
	tok.neg = neg
	return tok, nil
}

// namedRefToken reads <name>, 'name', <n> or <-n> after \k or \g.
func (p *parser) namedRefToken(tok token, kind tokenKind) (token, error) {
	open := p.pat[p.pos]
	term := byte('>')
	if open == '\'' {
		term = '\''
	}
	p.pos++
	name, num, numbered, err := p.fetchRefName(term, tok.pos)
	if err != nil {
		return tok, err
	}
	tok.kind = kind
	if numbered {
		tok.refNumbered = true
		tok.refNum = num
	} else {
		tok.refName = name
	}
	return tok, nil
}

// fetchRefName reads a reference up to close: a name, a group number or a
// relative group number. Relative numbers are resolved against the groups
// opened so far.
func (p *parser) fetchRefName(close byte, start int) (string, int, bool, error) {
	begin := p.pos
	for !p.eof() && p.pat[p.pos] != close {
		_, n := p.peekRune()
		p.pos += n
	}
	if p.eof() {
		return "", 0, false, p.errCtx(ErrInvalidGroupName, start, p.pat[begin:])
	}
	raw := p.pat[begin:p.pos]
	p.pos++
	if len(raw) == 0 {
		return "", 0, false, p.errAt(ErrEmptyGroupName, start)
	}
	if raw[0] == '-' || raw[0] == '+' || (raw[0] >= '0' && raw[0] <= '9') {
		digits := raw
		sign := byte(0)
		if raw[0] == '-' || raw[0] == '+' {
			sign = raw[0]
			digits = raw[1:]
		}
		if len(digits) == 0 {
			return "", 0, false, p.errCtx(ErrInvalidGroupName, start, raw)
		}
		v := 0
		for _, d := range digits {
			if d < '0' || d > '9' {
				return "", 0, false, p.errCtx(ErrInvalidCharInGroupName, start, raw)
			}
			v = v*10 + int(d-'0')
			if v > maxBackrefNum {
				return "", 0, false, p.errCtx(ErrTooBigBackrefNumber, start, raw)
			}
		}
		switch sign {
		case '-':
			v = p.numCaps + 1 - v
			if v <= 0 {
				return "", 0, false, p.errCtx(ErrInvalidBackref, start, raw)
			}
		case '+':
			v = p.numCaps + v
		}
		return "", v, true, nil
	}
	if err := p.checkName(raw, start, false); err != nil {
		return "", 0, false, err
	}
	return string(raw), 0, false, nil
}

// checkName validates a group name. Definitions may not start with a digit.
func (p *parser) checkName(name []byte, start int, definition bool) error {
	if len(name) == 0 {
		return p.errAt(ErrEmptyGroupName, start)
	}
	if definition && name[0] >= '0' && name[0] <= '9' {
		return p.errCtx(ErrInvalidGroupName, start, name)
	}
	for i := 0; i < len(name); {
		r, n := p.enc.Decode(name[i:])
		if !p.enc.IsCtype(r, encoding.CtypeWord) {
			return p.errCtx(ErrInvalidCharInGroupName, start, name)
		}
		i += n
	}
	return nil
}
