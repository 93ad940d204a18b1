// Package conv provides checked integer conversions.
//
// The functions panic on overflow since it indicates a programming error,
// such as a program too large for 32-bit instruction ids.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
func IntToUint32(n int) uint32 {
	// Compare as uint so 32-bit platforms do not overflow.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}
