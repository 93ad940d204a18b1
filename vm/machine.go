package vm

import (
	"bytes"

	"github.com/coregx/onig/encoding"
	"github.com/coregx/onig/syntax"
)

// Limits bounds the work of one match attempt. Zero means unlimited.
type Limits struct {
	// MatchStack caps the number of frames on the backtrack stack.
	MatchStack int
	// Retry caps the number of backtracks in one attempt.
	Retry int
}

// Input describes the subject of a match.
type Input struct {
	Buf []byte
	// AbsStart and AbsEnd delimit the visible text; anchors and
	// look-behind never see past them.
	AbsStart, AbsEnd int
	// GPos is the position \G matches.
	GPos    int
	Options syntax.Option
}

// HistoryEvent records a capture-history group being opened or closed.
type HistoryEvent struct {
	Group int
	Pos   int
	Open  bool
}

type frameKind uint8

const (
	frameRestore frameKind = iota // regs[idx] = val
	frameChoice                   // resume at pc, pos
	frameNegLook                  // resume at pc, pos when the body fails
	frameAtomic                   // marker
	frameLook                     // marker holding the position to return to
)

type frame struct {
	kind  frameKind
	pc    InstID
	pos   int
	idx   int
	val   int
	calls *callFrame
	hist  *historyList
}

// callFrame is a persistent call stack entry. saved holds the caller's
// pending group starts followed by its loop registers.
type callFrame struct {
	ret   InstID
	saved []int
	next  *callFrame
}

type historyList struct {
	ev   HistoryEvent
	next *historyList
}

// Machine runs a program by backtracking. A Machine is not safe for
// concurrent use; pool one per goroutine.
type Machine struct {
	prog *Prog
	enc  encoding.Encoding

	// regs layout: group beg/end pairs, pending group starts, keep,
	// counters, null-check positions.
	regs     []int
	pendBase int
	keepReg  int
	loopBase int

	stack []frame
	calls *callFrame
	hist  *historyList

	best     []int
	bestHist *historyList
	bestEnd  int

	in      Input
	limits  Limits
	retries int
	err     error
}

// NewMachine returns a machine for prog.
func NewMachine(prog *Prog) *Machine {
	nregs := prog.NumRegs()
	m := &Machine{
		prog:     prog,
		enc:      prog.Enc,
		pendBase: 2 * nregs,
	}
	m.keepReg = m.pendBase + nregs
	m.loopBase = m.keepReg + 1
	m.regs = make([]int, m.loopBase+prog.NumCounters+prog.NumNullChecks)
	m.best = make([]int, 2*nregs)
	m.stack = make([]frame, 0, 64)
	return m
}

// Prog returns the program the machine runs.
func (m *Machine) Prog() *Prog { return m.prog }

// Input returns the subject set by the last Reset.
func (m *Machine) Input() Input { return m.in }

// Reset prepares the machine for a new subject.
func (m *Machine) Reset(in Input, limits Limits) {
	m.in = in
	m.limits = limits
}

// MatchAt runs one attempt starting at position at. It returns the end of
// the match, or -1 when the attempt fails.
func (m *Machine) MatchAt(at int) (int, error) {
	m.initRegs(at)
	m.stack = m.stack[:0]
	m.calls = nil
	m.hist = nil
	m.retries = 0
	m.err = nil
	m.bestEnd = -1
	m.bestHist = nil

	opt := m.in.Options | m.prog.Options
	longest := opt&syntax.OptionFindLongest != 0
	notEmpty := opt&syntax.OptionFindNotEmpty != 0

	insts := m.prog.Insts
	pc, pos := m.prog.Start, at
	for {
		in := &insts[pc]
		fail := false
		switch in.Op {
		case OpMatch:
			switch {
			case notEmpty && pos == at:
				fail = true
			case longest:
				if pos > m.bestEnd {
					m.bestEnd = pos
					m.saveCaps(m.best, pos)
					m.bestHist = m.hist
				}
				fail = true
			default:
				m.saveCaps(m.regs, pos)
				return pos, nil
			}

		case OpFail:
			fail = true

		case OpString:
			end := pos + len(in.Bytes)
			if end <= m.in.AbsEnd && bytes.Equal(m.in.Buf[pos:end], in.Bytes) {
				pos = end
				pc++
			} else {
				fail = true
			}

		case OpStringFold:
			if end, ok := m.matchFold(pos, in.Bytes); ok {
				pos = end
				pc++
			} else {
				fail = true
			}

		case OpClass:
			if r, n := m.decode(pos); n > 0 && in.Class.Matches(r) {
				pos += n
				pc++
			} else {
				fail = true
			}

		case OpAnyChar:
			if r, n := m.decode(pos); n > 0 && r != '\n' {
				pos += n
				pc++
			} else {
				fail = true
			}

		case OpAnyCharNL:
			if _, n := m.decode(pos); n > 0 {
				pos += n
				pc++
			} else {
				fail = true
			}

		case OpAnchor:
			if m.anchor(in, pos) {
				pc++
			} else {
				fail = true
			}

		case OpJump:
			pc = in.X

		case OpSplit:
			m.push(frame{kind: frameChoice, pc: in.Y, pos: pos, calls: m.calls, hist: m.hist})
			pc = in.X

		case OpMemStart:
			m.set(m.pendBase+in.N, pos)
			if in.History {
				m.hist = &historyList{ev: HistoryEvent{Group: in.N, Pos: pos, Open: true}, next: m.hist}
			}
			pc++

		case OpMemEnd:
			m.set(2*in.N, m.regs[m.pendBase+in.N])
			m.set(2*in.N+1, pos)
			if in.History {
				m.hist = &historyList{ev: HistoryEvent{Group: in.N, Pos: pos}, next: m.hist}
			}
			pc++

		case OpBackref:
			if end, ok := m.backref(in, pos); ok {
				pos = end
				pc++
			} else {
				fail = true
			}

		case OpKeep:
			m.set(m.keepReg, pos)
			pc++

		case OpAtomicStart:
			m.push(frame{kind: frameAtomic})
			pc++

		case OpAtomicEnd:
			m.cut(frameAtomic)
			pc++

		case OpLookStart:
			m.push(frame{kind: frameLook, pos: pos})
			pc++

		case OpLookEnd:
			pos = m.cut(frameLook).pos
			pc++

		case OpNegLookStart:
			m.push(frame{kind: frameNegLook, pc: in.X, pos: pos, calls: m.calls, hist: m.hist})
			pc++

		case OpNegLookEnd:
			m.unwindNegLook()
			fail = true

		case OpStepBack:
			if p, ok := m.stepBack(pos, in.N); ok {
				pos = p
				pc++
			} else {
				fail = true
			}

		case OpRepeatStart:
			m.set(m.loopBase+in.N, 0)
			pc++

		case OpRepeatBranch:
			c := m.regs[m.loopBase+in.N]
			switch {
			case c < in.Min:
				pc = in.X
			case in.Max >= 0 && c >= in.Max:
				pc = in.Y
			case in.Greedy:
				m.push(frame{kind: frameChoice, pc: in.Y, pos: pos, calls: m.calls, hist: m.hist})
				pc = in.X
			default:
				m.push(frame{kind: frameChoice, pc: in.X, pos: pos, calls: m.calls, hist: m.hist})
				pc = in.Y
			}

		case OpRepeatInc:
			m.set(m.loopBase+in.N, m.regs[m.loopBase+in.N]+1)
			pc++

		case OpNullCheckStart:
			m.set(m.loopBase+m.prog.NumCounters+in.N, pos)
			pc++

		case OpNullCheckEnd:
			if m.regs[m.loopBase+m.prog.NumCounters+in.N] == pos {
				pc = in.X
			} else {
				pc++
			}

		case OpCall:
			saved := make([]int, 0, m.keepReg-m.pendBase+len(m.regs)-m.loopBase)
			saved = append(saved, m.regs[m.pendBase:m.keepReg]...)
			saved = append(saved, m.regs[m.loopBase:]...)
			m.calls = &callFrame{ret: pc + 1, saved: saved, next: m.calls}
			pc = in.X

		case OpReturn:
			cf := m.calls
			npend := m.keepReg - m.pendBase
			for i, v := range cf.saved {
				if i < npend {
					m.set(m.pendBase+i, v)
				} else {
					m.set(m.loopBase+i-npend, v)
				}
			}
			m.calls = cf.next
			pc = cf.ret

		case OpCondRef:
			if m.anySet(in.Refs) {
				pc++
			} else {
				pc = in.X
			}

		default:
			fail = true
		}

		if m.err != nil {
			return -1, m.err
		}
		if !fail {
			continue
		}
		var ok bool
		pc, pos, ok = m.backtrack()
		if m.err != nil {
			return -1, m.err
		}
		if !ok {
			if m.bestEnd >= 0 {
				copy(m.regs, m.best)
				m.hist = m.bestHist
				return m.bestEnd, nil
			}
			return -1, nil
		}
	}
}

func (m *Machine) initRegs(at int) {
	for i := 0; i < m.keepReg; i++ {
		m.regs[i] = -1
	}
	m.regs[m.keepReg] = at
	counters := m.loopBase + m.prog.NumCounters
	for i := m.loopBase; i < counters; i++ {
		m.regs[i] = 0
	}
	for i := counters; i < len(m.regs); i++ {
		m.regs[i] = -1
	}
}

// saveCaps writes the capture registers into dst with group 0 set to the
// match bounds.
func (m *Machine) saveCaps(dst []int, end int) {
	copy(dst, m.regs[:m.pendBase])
	dst[0] = m.regs[m.keepReg]
	dst[1] = end
}

// Captures appends the begin/end pairs of the last successful attempt to
// dst, group 0 first. Unset groups are -1.
func (m *Machine) Captures(dst []int) []int {
	return append(dst, m.regs[:m.pendBase]...)
}

// History appends the capture-history events of the last successful
// attempt to dst in the order they happened.
func (m *Machine) History(dst []HistoryEvent) []HistoryEvent {
	start := len(dst)
	for h := m.hist; h != nil; h = h.next {
		dst = append(dst, h.ev)
	}
	for i, j := start, len(dst)-1; i < j; i, j = i+1, j-1 {
		dst[i], dst[j] = dst[j], dst[i]
	}
	return dst
}

func (m *Machine) push(f frame) {
	if m.limits.MatchStack > 0 && len(m.stack) >= m.limits.MatchStack {
		m.err = syntax.ErrMatchStackLimitOver
		return
	}
	m.stack = append(m.stack, f)
}

// set assigns a register, trailing the old value for backtracking.
func (m *Machine) set(i, v int) {
	if m.regs[i] == v {
		return
	}
	m.push(frame{kind: frameRestore, idx: i, val: m.regs[i]})
	m.regs[i] = v
}

func (m *Machine) backtrack() (InstID, int, bool) {
	for n := len(m.stack); n > 0; n = len(m.stack) {
		f := &m.stack[n-1]
		m.stack = m.stack[:n-1]
		switch f.kind {
		case frameRestore:
			m.regs[f.idx] = f.val
		case frameChoice, frameNegLook:
			m.retries++
			if m.limits.Retry > 0 && m.retries > m.limits.Retry {
				m.err = syntax.ErrRetryLimitInMatchOver
				return 0, 0, false
			}
			m.calls = f.calls
			m.hist = f.hist
			return f.pc, f.pos, true
		}
	}
	return 0, 0, false
}

// cut removes the most recent marker of kind together with every choice
// above it. Register trail frames survive so later failures still restore.
func (m *Machine) cut(kind frameKind) frame {
	i := len(m.stack) - 1
	for i >= 0 && m.stack[i].kind != kind {
		i--
	}
	if i < 0 {
		return frame{}
	}
	marker := m.stack[i]
	w := i
	for j := i + 1; j < len(m.stack); j++ {
		if m.stack[j].kind == frameRestore {
			m.stack[w] = m.stack[j]
			w++
		}
	}
	m.stack = m.stack[:w]
	return marker
}

// unwindNegLook pops frames up to and including the innermost negative
// look-around, undoing register changes made by its body.
func (m *Machine) unwindNegLook() {
	for n := len(m.stack); n > 0; n = len(m.stack) {
		f := m.stack[n-1]
		m.stack = m.stack[:n-1]
		if f.kind == frameRestore {
			m.regs[f.idx] = f.val
		}
		if f.kind == frameNegLook {
			return
		}
	}
}

func (m *Machine) decode(pos int) (rune, int) {
	if pos >= m.in.AbsEnd {
		return 0, 0
	}
	return m.enc.Decode(m.in.Buf[pos:m.in.AbsEnd])
}

func (m *Machine) matchFold(pos int, lit []byte) (int, bool) {
	for i := 0; i < len(lit); {
		pr, pn := m.enc.Decode(lit[i:])
		tr, tn := m.decode(pos)
		if tn == 0 || !encoding.EqualFold(m.enc, pr, tr) {
			return 0, false
		}
		i += pn
		pos += tn
	}
	return pos, true
}

func (m *Machine) backref(in *Inst, pos int) (int, bool) {
	for _, g := range in.Refs {
		beg, end := m.regs[2*g], m.regs[2*g+1]
		if beg < 0 || end < 0 {
			continue
		}
		ref := m.in.Buf[beg:end]
		if in.Fold {
			if e, ok := m.matchFold(pos, ref); ok {
				return e, true
			}
			continue
		}
		e := pos + len(ref)
		if e <= m.in.AbsEnd && bytes.Equal(m.in.Buf[pos:e], ref) {
			return e, true
		}
	}
	return 0, false
}

func (m *Machine) anySet(refs []int) bool {
	for _, g := range refs {
		if m.regs[2*g+1] >= 0 {
			return true
		}
	}
	return false
}

func (m *Machine) stepBack(pos, n int) (int, bool) {
	text := m.in.Buf[m.in.AbsStart:m.in.AbsEnd]
	rel := pos - m.in.AbsStart
	for ; n > 0; n-- {
		rel = encoding.PrevCharHead(m.enc, text, rel)
		if rel < 0 {
			return 0, false
		}
	}
	return m.in.AbsStart + rel, true
}

func (m *Machine) wordBefore(pos int) bool {
	text := m.in.Buf[m.in.AbsStart:m.in.AbsEnd]
	prev := encoding.PrevCharHead(m.enc, text, pos-m.in.AbsStart)
	return prev >= 0 && encoding.IsWordAt(m.enc, text, prev)
}

func (m *Machine) wordAfter(pos int) bool {
	text := m.in.Buf[m.in.AbsStart:m.in.AbsEnd]
	return encoding.IsWordAt(m.enc, text, pos-m.in.AbsStart)
}

func (m *Machine) anchor(in *Inst, pos int) bool {
	notBOL := m.in.Options&syntax.OptionNotBOL != 0
	notEOL := m.in.Options&syntax.OptionNotEOL != 0
	buf, start, end := m.in.Buf, m.in.AbsStart, m.in.AbsEnd

	switch in.Anchor {
	case syntax.AnchorBeginBuf:
		return pos == start && !(in.LineMeta && notBOL)
	case syntax.AnchorEndBuf:
		return pos == end && !(in.LineMeta && notEOL)
	case syntax.AnchorSemiEndBuf:
		if pos == end || (pos+1 == end && buf[pos] == '\n') {
			return !notEOL
		}
		return false
	case syntax.AnchorBeginLine:
		if pos == start {
			return !notBOL
		}
		return buf[pos-1] == '\n' && pos != end
	case syntax.AnchorEndLine:
		if pos == end {
			return !notEOL
		}
		return buf[pos] == '\n'
	case syntax.AnchorBeginPosition:
		return pos == m.in.GPos
	case syntax.AnchorWordBoundary:
		return m.wordBefore(pos) != m.wordAfter(pos)
	case syntax.AnchorNotWordBoundary:
		return m.wordBefore(pos) == m.wordAfter(pos)
	case syntax.AnchorWordBegin:
		return !m.wordBefore(pos) && m.wordAfter(pos)
	case syntax.AnchorWordEnd:
		return m.wordBefore(pos) && !m.wordAfter(pos)
	}
	return false
}
