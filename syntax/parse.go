package syntax

import (
	"fmt"
	"strconv"

	"github.com/coregx/onig/encoding"
)

// DefaultParseDepthLimit bounds group and class nesting when
// ParseConfig.DepthLimit is zero.
const DefaultParseDepthLimit = 4096

// ParseConfig carries parser limits and warning sinks.
type ParseConfig struct {
	// DepthLimit bounds nesting of groups, repeats and classes.
	DepthLimit int
	// Warn receives warnings the syntax asks for; VerboseWarn receives
	// pedantic ones. Either may be nil.
	Warn        func(msg string)
	VerboseWarn func(msg string)
}

type parser struct {
	pat   []byte
	pos   int
	enc   encoding.Encoding
	syn   *Syntax
	cfg   ParseConfig
	depth int
	open  int

	numCaps  int
	captures []*Node
	names    []Name
	refs     []*Node
	// numberedRef is the offset of the first numbered backref or call, or -1.
	numberedRef int
	calls       bool
	callsRoot   bool
}

// Parse parses pattern under syn and returns its tree. opt is combined with
// the syntax's default options.
func Parse(pattern []byte, opt Option, syn *Syntax, enc encoding.Encoding, cfg ParseConfig) (*Tree, error) {
	if syn == nil {
		syn = Default()
	}
	if enc == nil {
		enc = encoding.UTF8
	}
	if opt&OptionDontCaptureGroup != 0 && opt&OptionCaptureGroup != 0 {
		return nil, NewError(ErrInvalidCombinationOfOptions, -1, nil)
	}
	if opt&OptionNegateSingleline != 0 {
		opt = (opt | syn.Options()) &^ (OptionSingleline | OptionNegateSingleline)
	} else {
		opt |= syn.Options()
	}
	opt &= CompileOptionsMask

	if off, truncated := enc.Invalid(pattern); off >= 0 {
		if truncated {
			return nil, NewError(ErrTooShortMultiByteString, off, nil)
		}
		return nil, NewError(ErrInvalidCodePointValue, off, pattern[off:off+1])
	}
	if cfg.DepthLimit <= 0 {
		cfg.DepthLimit = DefaultParseDepthLimit
	}

	p := &parser{
		pat:         pattern,
		enc:         enc,
		syn:         syn,
		cfg:         cfg,
		captures:    []*Node{nil},
		numberedRef: -1,
	}

	var root *Node
	var err error
	if syn.IsOp2(Op2IneffectiveEscape) && syn.Op() == 0 {
		root = p.literalString(pattern, opt)
	} else {
		root, err = p.parseAlternation(opt)
		if err != nil {
			return nil, err
		}
		tok, err := p.fetch(opt)
		if err != nil {
			return nil, err
		}
		if tok.kind != tkEOT {
			return nil, p.errAt(ErrUnmatchedCloseParenthesis, tok.pos)
		}
	}

	t := &Tree{Root: root, Options: opt}
	if err := p.finish(t, opt); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *parser) warn(msg string) {
	if p.cfg.Warn != nil {
		p.cfg.Warn(msg)
	}
}

func (p *parser) verboseWarn(msg string) {
	if p.cfg.VerboseWarn != nil {
		p.cfg.VerboseWarn(msg)
	}
}

func (p *parser) enter(pos int) error {
	p.depth++
	if p.depth > p.cfg.DepthLimit {
		return p.errAt(ErrParseDepthLimitOver, pos)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

// peekKind returns the kind of the next token without consuming it.
func (p *parser) peekKind(opt Option) tokenKind {
	save := p.pos
	tok, err := p.fetch(opt)
	p.pos = save
	if err != nil {
		return tkChar
	}
	return tok.kind
}

// parseAlternation parses branches separated by '|' and stops before ')'
// or the end of the pattern.
func (p *parser) parseAlternation(opt Option) (*Node, error) {
	var branches []*Node
	for {
		b, err := p.parseBranch(opt)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
		save := p.pos
		tok, err := p.fetch(opt)
		if err != nil {
			return nil, err
		}
		if tok.kind != tkAlt {
			p.pos = save
			break
		}
	}
	if len(branches) == 1 {
		return branches[0], nil
	}
	return &Node{Kind: NodeAlternate, Subs: branches}, nil
}

// parseBranch parses a sequence of quantified atoms.
func (p *parser) parseBranch(opt Option) (*Node, error) {
	var items []*Node
	for {
		save := p.pos
		tok, err := p.fetch(opt)
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tkEOT, tkAlt:
			p.pos = save
			return concat(items), nil

		case tkCloseGroup:
			if p.open == 0 && p.syn.IsBehavior(BehaviorAllowUnmatchedCloseSubexp) {
				items = append(items, p.literalRune(tok.c, opt, tok.pos))
				continue
			}
			if p.open == 0 {
				return nil, p.errAt(ErrUnmatchedCloseParenthesis, tok.pos)
			}
			p.pos = save
			return concat(items), nil

		case tkRepeat, tkInterval:
			if len(items) == 0 {
				if p.syn.IsBehavior(BehaviorContextIndepRepeatOps) {
					if p.syn.IsBehavior(BehaviorContextInvalidRepeatOps) {
						return nil, p.errAt(ErrTargetOfRepeatOperatorNotSpecified, tok.pos)
					}
				}
				p.pos = tok.litEnd
				items = append(items, p.literalRune(tok.c, opt, tok.pos))
				continue
			}
			last, err := p.quantify(items[len(items)-1], tok)
			if err != nil {
				return nil, err
			}
			items[len(items)-1] = last

		case tkOpenGroup:
			n, optOnly, newOpt, err := p.parseGroup(opt, tok.pos)
			if err != nil {
				return nil, err
			}
			if optOnly {
				rest, err := p.parseAlternation(newOpt)
				if err != nil {
					return nil, err
				}
				items = append(items, rest)
				return concat(items), nil
			}
			items = append(items, n)

		case tkAnchor:
			if n := p.contextAnchor(tok, opt, len(items) == 0); n != nil {
				items = append(items, n)
				continue
			}
			items = append(items, &Node{Kind: NodeAnchor, Anchor: tok.anchor, LineMeta: tok.lineMeta, Pos: tok.pos})

		case tkString:
			if n := p.literalString(tok.str, opt); n.Kind == NodeConcat {
				items = append(items, n.Subs...)
			} else if n.Kind != NodeEmpty {
				items = append(items, n)
			}

		default:
			n, err := p.parseAtom(tok, opt)
			if err != nil {
				return nil, err
			}
			items = append(items, n)
		}
	}
}

// contextAnchor returns a literal for ^ or $ when the syntax treats
// anchors as context dependent and the anchor is not at a branch edge.
func (p *parser) contextAnchor(tok token, opt Option, atStart bool) *Node {
	if tok.escaped || p.syn.IsBehavior(BehaviorContextIndepAnchors) {
		return nil
	}
	switch tok.c {
	case '^':
		if atStart {
			return nil
		}
	case '$':
		switch p.peekKind(opt) {
		case tkEOT, tkAlt, tkCloseGroup:
			return nil
		}
	default:
		return nil
	}
	return p.literalRune(tok.c, opt, tok.pos)
}

func concat(items []*Node) *Node {
	switch len(items) {
	case 0:
		return &Node{Kind: NodeEmpty}
	case 1:
		return items[0]
	}
	return &Node{Kind: NodeConcat, Subs: items}
}

// parseAtom turns a single-token construct into a node.
func (p *parser) parseAtom(tok token, opt Option) (*Node, error) {
	switch tok.kind {
	case tkChar, tkCodePoint:
		buf, ok := p.enc.AppendRune(nil, tok.c)
		if !ok {
			return nil, p.errAt(ErrInvalidCodePointValue, tok.pos)
		}
		return p.literalBytes(buf, opt, tok.pos), nil

	case tkRawByte:
		buf, err := p.rawSequence(byte(tok.c), opt, tok.pos)
		if err != nil {
			return nil, err
		}
		return p.literalBytes(buf, opt, tok.pos), nil

	case tkAnyChar:
		return &Node{Kind: NodeAnyChar, DotAll: opt&OptionMultiline != 0, Pos: tok.pos}, nil

	case tkAnyCharAnyTime:
		dot := &Node{Kind: NodeAnyChar, DotAll: opt&OptionMultiline != 0, Pos: tok.pos}
		return &Node{Kind: NodeRepeat, Min: 0, Max: infinite, Greedy: true, Subs: []*Node{dot}, Pos: tok.pos}, nil

	case tkNoNewline:
		return &Node{Kind: NodeAnyChar, Pos: tok.pos}, nil

	case tkTrueAnyChar:
		return &Node{Kind: NodeAnyChar, DotAll: true, Pos: tok.pos}, nil

	case tkCtype:
		cc := NewCtypeClass(p.enc, tok.ctype, tok.neg)
		cc.Freeze()
		return &Node{Kind: NodeClass, Class: cc, Pos: tok.pos}, nil

	case tkProperty:
		cc := NewCharClass(p.enc)
		cc.AddProperty(tok.name, tok.pred, tok.neg)
		cc.Fold = opt&OptionIgnoreCase != 0
		cc.Freeze()
		return &Node{Kind: NodeClass, Class: cc, Pos: tok.pos}, nil

	case tkOpenClass:
		cc, err := p.parseClass(opt, tok.pos)
		if err != nil {
			return nil, err
		}
		cc.Freeze()
		return &Node{Kind: NodeClass, Class: cc, Pos: tok.pos}, nil

	case tkKeep:
		return &Node{Kind: NodeKeep, Pos: tok.pos}, nil

	case tkGeneralNewline:
		return p.generalNewline(tok.pos), nil

	case tkBackref:
		return p.backrefNode(tok, opt), nil

	case tkCall:
		return p.callNode(tok), nil
	}
	return nil, p.errAt(ErrParserBug, tok.pos)
}

// generalNewline builds \R as (?>\r\n|[\n\v\f\r\x85\x{2028}\x{2029}]).
func (p *parser) generalNewline(pos int) *Node {
	cc := NewCharClass(p.enc)
	cc.AddRange('\n', '\r')
	for _, r := range []rune{0x85, 0x2028, 0x2029} {
		if r <= p.enc.MaxCodePoint() {
			cc.AddRune(r)
		}
	}
	cc.Freeze()
	crlf := &Node{Kind: NodeLiteral, Bytes: []byte("\r\n"), Pos: pos}
	alt := &Node{Kind: NodeAlternate, Subs: []*Node{crlf, {Kind: NodeClass, Class: cc, Pos: pos}}}
	return &Node{Kind: NodeGroup, Group: GroupAtomic, Subs: []*Node{alt}, Pos: pos}
}

func (p *parser) backrefNode(tok token, opt Option) *Node {
	n := &Node{Kind: NodeBackref, Fold: opt&OptionIgnoreCase != 0, Pos: tok.pos}
	p.setRef(n, tok)
	return n
}

func (p *parser) callNode(tok token) *Node {
	n := &Node{Kind: NodeCall, Pos: tok.pos}
	p.setRef(n, tok)
	p.calls = true
	if tok.refNumbered && tok.refNum == 0 {
		p.callsRoot = true
	}
	return n
}

func (p *parser) setRef(n *Node, tok token) {
	if tok.refNumbered {
		n.refNumbered = true
		n.Index = tok.refNum
		if p.numberedRef < 0 && !(n.Kind == NodeCall && tok.refNum == 0) {
			p.numberedRef = tok.pos
		}
	} else {
		n.refName = tok.refName
	}
	p.refs = append(p.refs, n)
}

// literalRune builds a literal node for one code point.
func (p *parser) literalRune(r rune, opt Option, pos int) *Node {
	buf, ok := p.enc.AppendRune(nil, r)
	if !ok {
		buf = []byte{byte(r)}
	}
	return p.literalBytes(buf, opt, pos)
}

// literalBytes builds a literal for one encoded character. Case folding is
// only recorded when the character has other fold-equivalent forms.
func (p *parser) literalBytes(b []byte, opt Option, pos int) *Node {
	n := &Node{Kind: NodeLiteral, Bytes: b, Pos: pos}
	if opt&OptionIgnoreCase != 0 {
		r, _ := p.enc.Decode(b)
		n.Fold = p.enc.SimpleFold(r) != r
	}
	return n
}

// literalString builds a concatenation of per-character literals.
func (p *parser) literalString(s []byte, opt Option) *Node {
	var items []*Node
	for i := 0; i < len(s); {
		n := p.enc.CharLen(s[i:])
		items = append(items, p.literalBytes(s[i:i+n:i+n], opt, i))
		i += n
	}
	return concat(items)
}

// rawSequence joins consecutive raw-byte escapes that together form one
// multibyte character.
func (p *parser) rawSequence(first byte, opt Option, pos int) ([]byte, error) {
	buf := []byte{first}
	for {
		off, truncated := p.enc.Invalid(buf)
		if off < 0 || !truncated {
			return buf, nil
		}
		save := p.pos
		tok, err := p.fetch(opt)
		if err != nil || tok.kind != tkRawByte {
			p.pos = save
			return nil, p.errAt(ErrTooShortMultiByteString, pos)
		}
		buf = append(buf, byte(tok.c))
	}
}

// quantify applies a repeat token to the last item of a branch.
func (p *parser) quantify(target *Node, tok token) (*Node, error) {
	switch target.Kind {
	case NodeAnchor, NodeKeep:
		return nil, p.errAt(ErrTargetOfRepeatOperatorInvalid, tok.pos)
	case NodeGroup:
		if target.Group.IsLookaround() {
			return nil, p.errAt(ErrTargetOfRepeatOperatorInvalid, tok.pos)
		}
	}
	inner := target
	for inner.Kind == NodeGroup && inner.Group == GroupNonCapture {
		inner = inner.Sub()
	}
	if inner.Kind == NodeRepeat && inner.Greedy && tok.greedy && !inner.Possessive && !tok.possessive &&
		p.syn.IsBehavior(BehaviorWarnRedundantNestedRepeat) {
		p.warn(fmt.Sprintf("redundant nested repeat operator in %q", p.pat))
	}
	rep := &Node{
		Kind:   NodeRepeat,
		Min:    tok.min,
		Max:    tok.max,
		Greedy: tok.greedy || tok.possessive,
		Subs:   []*Node{target},
		Pos:    tok.pos,
	}
	if tok.possessive {
		rep.Possessive = true
	}
	return rep, nil
}

// parseGroup parses a group after its opening parenthesis. optOnly reports
// an option-only group such as (?i), whose options apply to the rest of
// the enclosing group.
func (p *parser) parseGroup(opt Option, start int) (n *Node, optOnly bool, newOpt Option, err error) {
	if err := p.enter(start); err != nil {
		return nil, false, 0, err
	}
	defer p.leave()

	if !p.peekIs('?') || !p.syn.IsOp2(Op2QmarkGroupEffect) {
		if opt&OptionDontCaptureGroup != 0 {
			n, err = p.groupBody(&Node{Kind: NodeGroup, Group: GroupNonCapture, Pos: start}, opt, start)
			return n, false, opt, err
		}
		n, err = p.captureGroup("", false, opt, start)
		return n, false, opt, err
	}
	p.pos++ // ?
	if p.eof() {
		return nil, false, 0, p.errAt(ErrEndPatternInGroup, start)
	}
	c := p.nextRune()
	switch c {
	case ':':
		n, err = p.groupBody(&Node{Kind: NodeGroup, Group: GroupNonCapture, Pos: start}, opt, start)
	case '=':
		n, err = p.groupBody(&Node{Kind: NodeGroup, Group: GroupLookAhead, Pos: start}, opt, start)
	case '!':
		n, err = p.groupBody(&Node{Kind: NodeGroup, Group: GroupNegLookAhead, Pos: start}, opt, start)
	case '>':
		n, err = p.groupBody(&Node{Kind: NodeGroup, Group: GroupAtomic, Pos: start}, opt, start)
	case '<':
		switch {
		case p.peekIs('='):
			p.pos++
			n, err = p.lookBehind(GroupLookBehind, opt, start)
		case p.peekIs('!'):
			p.pos++
			n, err = p.lookBehind(GroupNegLookBehind, opt, start)
		case p.syn.IsOp2(Op2QmarkLtNamedGroup):
			n, err = p.namedGroup('>', false, opt, start)
		default:
			err = p.unsupported(start)
		}
	case '\'':
		if !p.syn.IsOp2(Op2QmarkLtNamedGroup) {
			return nil, false, 0, p.unsupported(start)
		}
		n, err = p.namedGroup('\'', false, opt, start)
	case 'P':
		if !p.syn.IsOp2(Op2QmarkCapitalPName) {
			return nil, false, 0, p.unsupported(start)
		}
		n, err = p.pythonGroup(opt, start)
	case '@':
		if !p.syn.IsOp2(Op2AtmarkCaptureHistory) {
			return nil, false, 0, p.unsupported(start)
		}
		switch {
		case p.peekIs('<') && p.syn.IsOp2(Op2QmarkLtNamedGroup):
			p.pos++
			n, err = p.namedGroup('>', true, opt, start)
		case p.peekIs('\'') && p.syn.IsOp2(Op2QmarkLtNamedGroup):
			p.pos++
			n, err = p.namedGroup('\'', true, opt, start)
		default:
			n, err = p.captureGroup("", true, opt, start)
		}
	case '(':
		if !p.syn.IsOp2(Op2QmarkLparenCondition) {
			return nil, false, 0, p.unsupported(start)
		}
		n, err = p.conditional(opt, start)
	case '-', 'i', 'm', 's', 'x':
		if !p.syn.IsOp2(Op2OptionPerl) && !p.syn.IsOp2(Op2OptionRuby) {
			return nil, false, 0, p.unsupported(start)
		}
		p.pos--
		return p.optionGroup(opt, start)
	default:
		return nil, false, 0, p.errCtx(ErrUndefinedGroupOption, start, p.pat[start:p.pos])
	}
	return n, false, opt, err
}

// groupBody parses the contents of a group up to and including ')'.
func (p *parser) groupBody(n *Node, opt Option, start int) (*Node, error) {
	p.open++
	body, err := p.parseAlternation(opt)
	p.open--
	if err != nil {
		return nil, err
	}
	tok, err := p.fetch(opt)
	if err != nil {
		return nil, err
	}
	if tok.kind != tkCloseGroup {
		return nil, p.errAt(ErrEndPatternWithUnmatchedParenthesis, start)
	}
	n.Subs = []*Node{body}
	return n, nil
}

// captureGroup allocates the next group number before parsing the body,
// so numbering follows opening parentheses.
func (p *parser) captureGroup(name string, history bool, opt Option, start int) (*Node, error) {
	p.numCaps++
	n := &Node{Kind: NodeCapture, Index: p.numCaps, Name: name, History: history, Pos: start}
	p.captures = append(p.captures, n)
	if name != "" {
		if err := p.defineName(name, n.Index, start); err != nil {
			return nil, err
		}
	}
	return p.groupBody(n, opt, start)
}

func (p *parser) defineName(name string, group, start int) error {
	for i := range p.names {
		if p.names[i].Name == name {
			if !p.syn.IsBehavior(BehaviorAllowMultiplexDefinitionName) {
				return p.errCtx(ErrMultiplexDefinedName, start, []byte(name))
			}
			p.names[i].Groups = append(p.names[i].Groups, group)
			return nil
		}
	}
	p.names = append(p.names, Name{Name: name, Groups: []int{group}})
	return nil
}

// readName reads a group name terminated by term.
func (p *parser) readName(term byte, start int) (string, error) {
	begin := p.pos
	for !p.eof() && p.pat[p.pos] != term {
		if c := p.pat[p.pos]; c == ')' {
			break
		}
		_, n := p.peekRune()
		p.pos += n
	}
	if p.eof() || p.pat[p.pos] != term {
		if p.pos == begin {
			return "", p.errAt(ErrEmptyGroupName, start)
		}
		return "", p.errCtx(ErrInvalidGroupName, start, p.pat[begin:p.pos])
	}
	name := p.pat[begin:p.pos]
	p.pos++
	if err := p.checkName(name, start, true); err != nil {
		return "", err
	}
	return string(name), nil
}

func (p *parser) namedGroup(term byte, history bool, opt Option, start int) (*Node, error) {
	name, err := p.readName(term, start)
	if err != nil {
		return nil, err
	}
	return p.captureGroup(name, history, opt, start)
}

// pythonGroup handles (?P<name>...), (?P=name) and (?P>name).
func (p *parser) pythonGroup(opt Option, start int) (*Node, error) {
	if p.eof() {
		return nil, p.errAt(ErrEndPatternInGroup, start)
	}
	switch p.nextRune() {
	case '<':
		return p.namedGroup('>', false, opt, start)
	case '=', '>':
		kind := tkBackref
		if p.pat[p.pos-1] == '>' {
			kind = tkCall
		}
		name, num, numbered, err := p.fetchRefName(')', start)
		if err != nil {
			return nil, err
		}
		tok := token{kind: kind, pos: start, refName: name, refNum: num, refNumbered: numbered}
		if kind == tkCall {
			return p.callNode(tok), nil
		}
		return p.backrefNode(tok, opt), nil
	}
	return nil, p.errCtx(ErrUndefinedGroupOption, start, p.pat[start:p.pos])
}

func (p *parser) lookBehind(kind GroupKind, opt Option, start int) (*Node, error) {
	n, err := p.groupBody(&Node{Kind: NodeGroup, Group: kind, Pos: start}, opt, start)
	if err != nil {
		return nil, err
	}
	if err := p.checkLookBehind(n.Sub()); err != nil {
		return nil, p.errAt(ErrInvalidLookBehindPattern, start)
	}
	return n, nil
}

// optionGroup parses (?imsx-imsx) and (?imsx-imsx:...).
func (p *parser) optionGroup(opt Option, start int) (*Node, bool, Option, error) {
	neg := false
	newOpt := opt
	set := func(o Option, on bool) {
		if on {
			newOpt |= o
		} else {
			newOpt &^= o
		}
	}
	for {
		if p.eof() {
			return nil, false, 0, p.errAt(ErrEndPatternInGroup, start)
		}
		c := p.nextRune()
		switch c {
		case ')':
			return nil, true, newOpt, nil
		case ':':
			n, err := p.groupBody(&Node{Kind: NodeGroup, Group: GroupNonCapture, Pos: start}, newOpt, start)
			return n, false, newOpt, err
		case '-':
			neg = true
		case 'i':
			set(OptionIgnoreCase, !neg)
		case 'x':
			set(OptionExtend, !neg)
		case 'm':
			if p.syn.IsOp2(Op2OptionRuby) {
				set(OptionMultiline, !neg)
			} else {
				set(OptionSingleline, neg)
			}
		case 's':
			if !p.syn.IsOp2(Op2OptionPerl) {
				return nil, false, 0, p.errCtx(ErrUndefinedGroupOption, start, p.pat[start:p.pos])
			}
			set(OptionMultiline, !neg)
		default:
			return nil, false, 0, p.errCtx(ErrUndefinedGroupOption, start, p.pat[start:p.pos])
		}
	}
}

// conditional parses (?(cond)yes|no) after "(?(".
func (p *parser) conditional(opt Option, start int) (*Node, error) {
	term := byte(')')
	if p.peekIs('<') || p.peekIs('\'') {
		if p.pat[p.pos] == '\'' {
			term = '\''
		} else {
			term = '>'
		}
		p.pos++
	}
	name, num, numbered, err := p.fetchRefName(term, start)
	if err != nil {
		return nil, err
	}
	if term != ')' {
		if p.eof() || p.pat[p.pos] != ')' {
			return nil, p.errAt(ErrInvalidConditionPattern, start)
		}
		p.pos++
	}
	n := &Node{Kind: NodeConditional, Pos: start}
	p.setRef(n, token{pos: start, refName: name, refNum: num, refNumbered: numbered})

	p.open++
	body, err := p.parseAlternation(opt)
	p.open--
	if err != nil {
		return nil, err
	}
	tok, err := p.fetch(opt)
	if err != nil {
		return nil, err
	}
	if tok.kind != tkCloseGroup {
		return nil, p.errAt(ErrEndPatternWithUnmatchedParenthesis, start)
	}
	yes, no := body, &Node{Kind: NodeEmpty}
	if body.Kind == NodeAlternate {
		if len(body.Subs) > 2 {
			return nil, p.errAt(ErrInvalidConditionPattern, start)
		}
		yes, no = body.Subs[0], body.Subs[1]
	}
	n.Subs = []*Node{yes, no}
	return n, nil
}

// finish renumbers groups, resolves references and fills in t.
func (p *parser) finish(t *Tree, opt Option) error {
	if len(p.names) > 0 &&
		((p.syn.IsBehavior(BehaviorCaptureOnlyNamedGroup) && opt&OptionCaptureGroup == 0) ||
			opt&OptionDontCaptureGroup != 0) {
		if p.numberedRef >= 0 {
			return p.errAt(ErrNumberedBackrefOrCallNotAllowed, p.numberedRef)
		}
		p.renumberNamed()
	} else if opt&OptionDontCaptureGroup != 0 && p.numberedRef >= 0 {
		return p.errAt(ErrNumberedBackrefOrCallNotAllowed, p.numberedRef)
	}

	for _, ref := range p.refs {
		if err := p.resolve(ref); err != nil {
			return err
		}
	}

	for _, c := range p.captures[1:] {
		if c.History {
			if c.Index > 31 {
				return p.errAt(ErrGroupNumberOverForCaptureHistory, c.Pos)
			}
			t.NumHistory++
		}
	}

	t.NumCaptures = p.numCaps
	t.Captures = p.captures
	t.Names = p.names
	t.HasCalls = p.calls
	t.CallsRoot = p.callsRoot
	Walk(t.Root, func(n *Node) bool {
		if n.Kind == NodeRepeat && isCounted(n) {
			t.NumRepeats++
		}
		return true
	})
	if t.HasCalls {
		return checkRecursion(t)
	}
	return nil
}

// isCounted reports whether a repeat needs a counter register.
func isCounted(n *Node) bool {
	return !(n.Min <= 1 && (n.Max == infinite || n.Max <= 1))
}

// renumberNamed turns unnamed groups into non-capturing ones and numbers
// the named groups consecutively.
func (p *parser) renumberNamed() {
	mapping := make([]int, len(p.captures))
	caps := []*Node{nil}
	for _, c := range p.captures[1:] {
		if c.Name == "" {
			c.Kind = NodeGroup
			c.Group = GroupNonCapture
			c.History = false
			continue
		}
		mapping[c.Index] = len(caps)
		c.Index = len(caps)
		caps = append(caps, c)
	}
	for i := range p.names {
		for j, g := range p.names[i].Groups {
			p.names[i].Groups[j] = mapping[g]
		}
	}
	p.captures = caps
	p.numCaps = len(caps) - 1
}

// resolve binds a backref, call or condition to group numbers.
func (p *parser) resolve(n *Node) error {
	if !n.refNumbered {
		var groups []int
		for _, nm := range p.names {
			if nm.Name == n.refName {
				groups = nm.Groups
				break
			}
		}
		if groups == nil {
			return p.errCtx(ErrUndefinedNameReference, n.Pos, []byte(n.refName))
		}
		if n.Kind == NodeCall {
			if len(groups) > 1 {
				return p.errCtx(ErrMultiplexDefinitionNameCall, n.Pos, []byte(n.refName))
			}
			n.Index = groups[0]
			n.Name = n.refName
			return nil
		}
		n.Refs = make([]int, 0, len(groups))
		for i := len(groups) - 1; i >= 0; i-- {
			n.Refs = append(n.Refs, groups[i])
		}
		return nil
	}

	num := n.Index
	if n.Kind == NodeCall {
		if num < 0 || num > p.numCaps {
			return p.errCtx(ErrUndefinedGroupReference, n.Pos, []byte(strconv.Itoa(num)))
		}
		if num > 0 {
			n.Name = p.captures[num].Name
		}
		return nil
	}
	if num <= 0 || num > p.numCaps {
		return p.errAt(ErrInvalidBackref, n.Pos)
	}
	n.Refs = []int{num}
	n.Index = 0
	return nil
}
