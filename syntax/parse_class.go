package syntax

import (
	"bytes"

	"github.com/coregx/onig/encoding"
)

// classState tracks range construction inside one operand of a class.
type classState struct {
	prev    rune
	hasPrev bool
	dash    bool
	// noRange is set after a completed range or a set item, where a
	// following '-' cannot start a range.
	noRange bool
	items   int
}

func (st *classState) flush(cur *CharClass) {
	if st.hasPrev {
		cur.AddRune(st.prev)
		st.hasPrev = false
	}
}

// parseClass parses a bracket expression after its opening '['.
func (p *parser) parseClass(opt Option, start int) (*CharClass, error) {
	if err := p.enter(start); err != nil {
		return nil, err
	}
	defer p.leave()

	cc := NewCharClass(p.enc)
	cc.Fold = opt&OptionIgnoreCase != 0
	if p.peekIs('^') {
		p.pos++
		cc.Negated = true
		cc.NoNewline = p.syn.IsBehavior(BehaviorNotNewlineInNegativeCC)
	}
	cur := cc
	st := &classState{}
	if p.peekIs(']') {
		if bytes.IndexByte(p.pat[p.pos+1:], ']') < 0 {
			return nil, p.errAt(ErrEmptyCharClass, start)
		}
		p.verboseWarn("character class has ']' without escape")
		p.pos++
		if err := p.classChar(cur, st, ']', start); err != nil {
			return nil, err
		}
	}

	for {
		if p.eof() {
			return nil, p.errAt(ErrPrematureEndOfCharClass, start)
		}
		itemPos := p.pos
		c := p.nextRune()
		var err error
		switch {
		case c == ']':
			p.finishOperand(cur, st)
			p.dropEmptyOperands(cc)
			return cc, nil

		case c == p.syn.meta.Esc && c != IneffectiveMetaChar && p.syn.IsBehavior(BehaviorBackslashEscapeInCC):
			err = p.classEscape(cur, st, opt, itemPos)

		case c == '[':
			err = p.classOpenBracket(cur, st, opt, itemPos)

		case c == '&' && p.syn.IsOp2(Op2CClassSetOp) && p.peekIs('&'):
			p.pos++
			p.finishOperand(cur, st)
			next := NewCharClass(p.enc)
			cc.Intersect(next)
			cur = next
			*st = classState{}

		case c == '-':
			err = p.classDash(cur, st, itemPos)

		default:
			err = p.classChar(cur, st, c, itemPos)
		}
		if err != nil {
			return nil, err
		}
	}
}

// finishOperand completes a trailing character or "x-" at the end of an
// operand; a dangling '-' is literal.
func (p *parser) finishOperand(cur *CharClass, st *classState) {
	if st.dash {
		st.flush(cur)
		cur.AddRune('-')
		st.dash = false
		p.ccWarn("character class has '-' without escape")
	}
	st.flush(cur)
}

// dropEmptyOperands treats an empty operand of && as universal.
func (p *parser) dropEmptyOperands(cc *CharClass) {
	kept := cc.ands[:0]
	for _, a := range cc.ands {
		if a.IsEmptyUnion() && len(a.ands) == 0 {
			continue
		}
		kept = append(kept, a)
	}
	cc.ands = kept
}

func (p *parser) ccWarn(msg string) {
	if p.syn.IsBehavior(BehaviorWarnCCOpNotValid) {
		p.warn(msg)
	}
}

// classChar adds a single character, completing a pending range.
func (p *parser) classChar(cur *CharClass, st *classState, r rune, pos int) error {
	st.items++
	if st.dash {
		st.dash = false
		st.hasPrev = false
		st.noRange = true
		if r < st.prev {
			if p.syn.IsBehavior(BehaviorAllowEmptyRangeInCC) {
				return nil
			}
			return p.errAt(ErrEmptyRangeInCharClass, pos)
		}
		cur.AddRange(st.prev, r)
		return nil
	}
	st.flush(cur)
	st.prev, st.hasPrev = r, true
	st.noRange = false
	return nil
}

// classSet adds a non-character item such as \w or a nested class.
func (p *parser) classSet(st *classState, cur *CharClass, pos int, add func()) error {
	if st.dash {
		return p.errAt(ErrCharClassValueAtEndOfRange, pos)
	}
	st.flush(cur)
	add()
	st.items++
	st.noRange = true
	return nil
}

func (p *parser) classDash(cur *CharClass, st *classState, pos int) error {
	switch {
	case st.dash:
		return p.classChar(cur, st, '-', pos)
	case st.hasPrev:
		if p.peekIs(']') {
			p.ccWarn("character class has '-' without escape")
			return p.classChar(cur, st, '-', pos)
		}
		st.dash = true
		return nil
	case st.items == 0 || p.peekIs(']'):
		return p.classChar(cur, st, '-', pos)
	case p.syn.IsBehavior(BehaviorAllowDoubleRangeOpInCC):
		p.ccWarn("character class has '-' without escape")
		return p.classChar(cur, st, '-', pos)
	}
	return p.errAt(ErrUnmatchedRangeSpecifierInCharClass, pos)
}

// classOpenBracket handles '[' inside a class: a POSIX bracket, a nested
// class or a literal.
func (p *parser) classOpenBracket(cur *CharClass, st *classState, opt Option, pos int) error {
	if p.syn.IsOp(OpPosixBracket) && p.peekIs(':') {
		ct, neg, ok, err := p.posixBracket(pos)
		if err != nil {
			return err
		}
		if ok {
			return p.classSet(st, cur, pos, func() { cur.AddCtype(ct, neg) })
		}
	}
	if p.syn.IsOp2(Op2CClassSetOp) {
		sub, err := p.parseClass(opt, pos)
		if err != nil {
			return err
		}
		sub.Fold = false
		return p.classSet(st, cur, pos, func() { cur.AddClass(sub) })
	}
	p.ccWarn("character class has '[' without escape")
	return p.classChar(cur, st, '[', pos)
}

// posixBracket reads [:name:] or [:^name:] with the position just past
// '['. ok is false when the text is not bracket syntax at all.
func (p *parser) posixBracket(start int) (encoding.Ctype, bool, bool, error) {
	save := p.pos
	p.pos++ // :
	neg := false
	if p.peekIs('^') {
		p.pos++
		neg = true
	}
	begin := p.pos
	for !p.eof() && isASCIILetter(p.pat[p.pos]) {
		p.pos++
	}
	name := string(p.pat[begin:p.pos])
	if p.hasPrefix(":]") {
		p.pos += 2
		ct, ok := encoding.CtypeByName(name)
		if !ok {
			return 0, false, false, p.errCtx(ErrInvalidPosixBracketType, start, []byte(name))
		}
		return ct, neg, true, nil
	}
	if i := bytes.Index(p.pat[save:], []byte(":]")); i >= 0 && i < 20 {
		return 0, false, false, p.errAt(ErrInvalidPosixBracketType, start)
	}
	p.pos = save
	return 0, false, false, nil
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// classEscape handles an escape inside a class.
func (p *parser) classEscape(cur *CharClass, st *classState, opt Option, pos int) error {
	if p.eof() {
		return p.errAt(ErrPrematureEndOfCharClass, pos)
	}
	c, n := p.peekRune()
	switch {
	case c == 'b':
		p.pos += n
		return p.classChar(cur, st, 0x08, pos)
	case c >= '0' && c <= '7' && p.syn.IsOp(OpEscOctal3):
		v, _ := p.scanOctal(3)
		if v > 0xff {
			return p.errAt(ErrTooBigNumber, pos)
		}
		return p.classRaw(cur, st, byte(v), opt, pos)
	case c == '8' || c == '9' || c == 'Q' || c == 'E' || c == 'k' || c == 'g':
		p.pos += n
		return p.classChar(cur, st, c, pos)
	}

	tok, err := p.fetchEscape(opt, token{pos: pos, c: p.syn.meta.Esc})
	if err != nil {
		return err
	}
	switch tok.kind {
	case tkCtype:
		return p.classSet(st, cur, pos, func() { cur.AddCtype(tok.ctype, tok.neg) })
	case tkProperty:
		return p.classSet(st, cur, pos, func() { cur.AddProperty(tok.name, tok.pred, tok.neg) })
	case tkRawByte:
		return p.classRaw(cur, st, byte(tok.c), opt, pos)
	case tkRepeat, tkInterval, tkAnchor:
		// The escaped operator letter or punctuation stands for itself.
		p.pos = tok.litEnd
	}
	return p.classChar(cur, st, tok.c, pos)
}

// classRaw adds a character written as raw byte escapes.
func (p *parser) classRaw(cur *CharClass, st *classState, b byte, opt Option, pos int) error {
	buf, err := p.rawSequence(b, opt&^OptionExtend, pos)
	if err != nil {
		return err
	}
	r := rune(b)
	if len(buf) > 1 {
		r, _ = p.enc.Decode(buf)
	}
	return p.classChar(cur, st, r, pos)
}
