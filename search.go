package onig

import (
	"github.com/coregx/onig/encoding"
	"github.com/coregx/onig/simd"
	"github.com/coregx/onig/syntax"
	"github.com/coregx/onig/vm"
)

// Search looks for the pattern in buf[absStart:absEnd], trying start
// positions from start toward rng. Forward search (start <= rng) tries
// [start, rng); backward search tries (rng, start]. Pass rng = absEnd+1 or
// absStart-1 to include the bound itself.
//
// On success Search returns the start position of the winning attempt and
// fills region, if non-nil, with absolute offsets into buf. On failure it
// returns Mismatch with a nil error and leaves region untouched. A match
// budget exceeded during the search returns Mismatch with an error of kind
// syntax.KindResourceExhausted.
//
// Example:
//
//	re := onig.MustCompile(`a`)
//	buf := []byte("aaa")
//	pos, _ := re.Search(buf, 0, 3, 3, 0, nil, onig.OptionNone)
//	// pos = 2 (backward search)
func (r *Regex) Search(buf []byte, absStart, absEnd, start, rng int, region *Region, opt syntax.Option) (int, error) {
	if absStart < 0 || absEnd > len(buf) || absStart > absEnd ||
		start < absStart || start > absEnd || rng < absStart-1 || rng > absEnd+1 {
		return Mismatch, syntax.NewError(syntax.ErrInvalidArgument, -1, nil)
	}

	m := r.getMachine()
	defer r.putMachine(m)
	m.Reset(vm.Input{
		Buf:      buf,
		AbsStart: absStart,
		AbsEnd:   absEnd,
		GPos:     start,
		Options:  opt & syntax.SearchOptionsMask,
	}, r.limits)

	var (
		pos int
		err error
	)
	if start <= rng {
		pos, err = r.forward(m, start, rng-1)
	} else {
		pos, err = r.backward(m, start, rng+1)
	}
	if err != nil || pos < 0 {
		return Mismatch, err
	}
	r.fill(m, region)
	return pos, nil
}

// MatchAt runs a single attempt at position at and returns the length of
// the match, or Mismatch. region and errors behave as in Search.
//
// Example:
//
//	re := onig.MustCompile(`\d+`)
//	n, _ := re.MatchAt([]byte("ab123"), 0, 5, 2, nil, onig.OptionNone)
//	// n = 3
func (r *Regex) MatchAt(buf []byte, absStart, absEnd, at int, region *Region, opt syntax.Option) (int, error) {
	if absStart < 0 || absEnd > len(buf) || absStart > absEnd || at < absStart || at > absEnd {
		return Mismatch, syntax.NewError(syntax.ErrInvalidArgument, -1, nil)
	}

	m := r.getMachine()
	defer r.putMachine(m)
	m.Reset(vm.Input{
		Buf:      buf,
		AbsStart: absStart,
		AbsEnd:   absEnd,
		GPos:     at,
		Options:  opt & syntax.SearchOptionsMask,
	}, r.limits)

	end, err := m.MatchAt(at)
	if err != nil || end < 0 {
		return Mismatch, err
	}
	r.fill(m, region)
	return end - at, nil
}

// forward tries start positions from first to last inclusive. It returns
// the winning position, or -1.
func (r *Regex) forward(m *vm.Machine, first, last int) (int, error) {
	in := m.Input()
	enc := r.enc
	if enc.MaxLen() > 1 && first < in.AbsEnd {
		first = in.AbsStart + encoding.RightAdjustCharHead(enc, in.Buf[in.AbsStart:in.AbsEnd], first-in.AbsStart)
	}

	switch r.prog.Anchor {
	case vm.StartBeginBuf:
		if first > in.AbsStart || last < in.AbsStart {
			return -1, nil
		}
		return r.single(m, in.AbsStart)
	case vm.StartBeginPosition:
		if first > last {
			return -1, nil
		}
		return r.single(m, first)
	}

	for pos := first; pos <= last; {
		switch {
		case r.prog.Anchor == vm.StartBeginLine:
			if pos > in.AbsStart && in.Buf[pos-1] != '\n' {
				i := simd.Memchr(in.Buf[pos:in.AbsEnd], '\n')
				if i < 0 {
					return -1, nil
				}
				pos += i + 1
				continue
			}
		case r.pf != nil:
			c := r.pf.Find(in.Buf[:in.AbsEnd], pos)
			if c < 0 || c > last {
				return -1, nil
			}
			if c != pos && !isCharHead(enc, in, c) {
				pos = c + 1
				continue
			}
			pos = c
		}
		if pos > last {
			break
		}

		if ok, err := r.attempt(m, pos); ok || err != nil {
			return pos, err
		}
		if pos >= in.AbsEnd {
			break
		}
		pos += max(1, enc.CharLen(in.Buf[pos:in.AbsEnd]))
	}
	return -1, nil
}

// backward tries start positions from first down to last inclusive,
// stepping by character.
func (r *Regex) backward(m *vm.Machine, first, last int) (int, error) {
	in := m.Input()
	text := in.Buf[in.AbsStart:in.AbsEnd]

	switch r.prog.Anchor {
	case vm.StartBeginBuf:
		if last > in.AbsStart || first < in.AbsStart {
			return -1, nil
		}
		return r.single(m, in.AbsStart)
	case vm.StartBeginPosition:
		if first < last {
			return -1, nil
		}
		return r.single(m, first)
	}

	pos := first
	if pos < in.AbsEnd {
		pos = in.AbsStart + r.enc.LeftAdjustCharHead(text, pos-in.AbsStart)
	}
	for pos >= last {
		if r.prog.Anchor != vm.StartBeginLine || pos == in.AbsStart || in.Buf[pos-1] == '\n' {
			if ok, err := r.attempt(m, pos); ok || err != nil {
				return pos, err
			}
		}
		prev := encoding.PrevCharHead(r.enc, text, pos-in.AbsStart)
		if prev < 0 {
			break
		}
		pos = in.AbsStart + prev
	}
	return -1, nil
}

func (r *Regex) attempt(m *vm.Machine, pos int) (bool, error) {
	end, err := m.MatchAt(pos)
	return end >= 0 && err == nil, err
}

func (r *Regex) single(m *vm.Machine, pos int) (int, error) {
	ok, err := r.attempt(m, pos)
	if !ok {
		return -1, err
	}
	return pos, nil
}

func isCharHead(enc encoding.Encoding, in vm.Input, pos int) bool {
	if enc.MaxLen() == 1 {
		return true
	}
	return enc.LeftAdjustCharHead(in.Buf[in.AbsStart:in.AbsEnd], pos-in.AbsStart) == pos-in.AbsStart
}

// fill copies the winning attempt into region.
func (r *Regex) fill(m *vm.Machine, region *Region) {
	if region == nil {
		return
	}
	var buf [32]int
	region.set(m.Captures(buf[:0]))
	if r.prog.HasHistory() {
		var events [16]vm.HistoryEvent
		region.buildTree(m.History(events[:0]))
	} else {
		region.clearTree()
	}
}
