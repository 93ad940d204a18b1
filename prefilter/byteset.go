package prefilter

import "github.com/coregx/onig/simd"

// ByteSet finds the next occurrence of any byte of a set. It serves both
// single-byte literal alternations and the first-byte sets computed from
// compiled programs.
type ByteSet struct {
	bytes []byte
	table [256]bool
}

// NewByteSet returns a prefilter for the bytes of set. Duplicates are
// ignored. It returns nil for an empty set.
func NewByteSet(set []byte) *ByteSet {
	p := &ByteSet{}
	for _, c := range set {
		if !p.table[c] {
			p.table[c] = true
			p.bytes = append(p.bytes, c)
		}
	}
	if len(p.bytes) == 0 {
		return nil
	}
	return p
}

// Find implements Prefilter.
func (p *ByteSet) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	hay := haystack[start:]
	var idx int
	switch len(p.bytes) {
	case 1:
		idx = simd.Memchr(hay, p.bytes[0])
	case 2:
		idx = simd.Memchr2(hay, p.bytes[0], p.bytes[1])
	case 3:
		idx = simd.Memchr3(hay, p.bytes[0], p.bytes[1], p.bytes[2])
	default:
		idx = -1
		for i, c := range hay {
			if p.table[c] {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return -1
	}
	return start + idx
}

// Bytes returns the members of the set in insertion order.
func (p *ByteSet) Bytes() []byte { return p.bytes }

// IsComplete implements Prefilter; a byte never proves a match.
func (p *ByteSet) IsComplete() bool { return false }

// LiteralLen implements Prefilter.
func (p *ByteSet) LiteralLen() int { return 0 }

// HeapBytes implements Prefilter.
func (p *ByteSet) HeapBytes() int { return len(p.bytes) + len(p.table) }
