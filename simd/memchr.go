package simd

import (
	"bytes"
	"encoding/binary"
	"math/bits"
)

// Memchr returns the index of the first instance of needle in haystack, or
// -1 if needle is not present.
//
// Example:
//
//	pos := simd.Memchr([]byte("hello world"), 'o') // 4
func Memchr(haystack []byte, needle byte) int {
	if vectorized && len(haystack) >= minVectorLen {
		return bytes.IndexByte(haystack, needle)
	}
	return memchrSWAR(haystack, needle)
}

// Memchr2 returns the index of the first byte equal to n1 or n2, or -1.
func Memchr2(haystack []byte, n1, n2 byte) int {
	if n1 == n2 {
		return Memchr(haystack, n1)
	}
	return memchr2SWAR(haystack, n1, n2)
}

// Memchr3 returns the index of the first byte equal to n1, n2 or n3, or -1.
func Memchr3(haystack []byte, n1, n2, n3 byte) int {
	return memchr3SWAR(haystack, n1, n2, n3)
}

func memchrSWAR(haystack []byte, needle byte) int {
	mask := uint64(needle) * lo8
	i := 0
	for ; i+8 <= len(haystack); i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(chunk ^ mask); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < len(haystack); i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

func memchr2SWAR(haystack []byte, n1, n2 byte) int {
	m1, m2 := uint64(n1)*lo8, uint64(n2)*lo8
	i := 0
	for ; i+8 <= len(haystack); i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(chunk^m1) | zeroBytes(chunk^m2); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < len(haystack); i++ {
		if c := haystack[i]; c == n1 || c == n2 {
			return i
		}
	}
	return -1
}

func memchr3SWAR(haystack []byte, n1, n2, n3 byte) int {
	m1, m2, m3 := uint64(n1)*lo8, uint64(n2)*lo8, uint64(n3)*lo8
	i := 0
	for ; i+8 <= len(haystack); i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(chunk^m1) | zeroBytes(chunk^m2) | zeroBytes(chunk^m3); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < len(haystack); i++ {
		if c := haystack[i]; c == n1 || c == n2 || c == n3 {
			return i
		}
	}
	return -1
}
