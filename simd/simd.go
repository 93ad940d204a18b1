// Package simd provides fast byte and substring search for the prefilters
// that skip impossible match start positions.
//
// On CPUs with vector units the searches hand off to the standard library,
// whose byte search is written in assembly for those targets. Everywhere
// else, and for short inputs, they use SWAR (SIMD Within A Register): eight
// bytes are compared at a time with uint64 arithmetic.
package simd

import "golang.org/x/sys/cpu"

// vectorized reports whether the CPU has the vector extensions the standard
// library's assembly byte search uses.
var vectorized = cpu.X86.HasSSE42 || cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD

// minVectorLen is the input length below which SWAR wins over the call
// into the vectorized search.
const minVectorLen = 32

const (
	lo8 = uint64(0x0101010101010101)
	hi8 = uint64(0x8080808080808080)
)

// zeroBytes returns a word with the high bit set in each byte of v that is
// zero.
func zeroBytes(v uint64) uint64 {
	return (v - lo8) &^ v & hi8
}

// Vectorized reports whether searches use the CPU's vector units.
func Vectorized() bool { return vectorized }
