package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack, or
// -1. An empty needle matches at 0, as with bytes.Index.
//
// The search scans for the needle's rarest byte and verifies each
// candidate, which skips most of the haystack for typical text.
func Memmem(haystack, needle []byte) int {
	switch {
	case len(needle) == 0:
		return 0
	case len(needle) > len(haystack):
		return -1
	case len(needle) == 1:
		return Memchr(haystack, needle[0])
	}

	rare, off := RareByte(needle)
	for from := off; from < len(haystack); {
		i := Memchr(haystack[from:], rare)
		if i < 0 {
			return -1
		}
		cand := from + i - off
		if cand+len(needle) > len(haystack) {
			return -1
		}
		if bytes.Equal(haystack[cand:cand+len(needle)], needle) {
			return cand
		}
		from += i + 1
	}
	return -1
}

// RareByte returns the byte of needle expected to occur least often in
// text, and its offset. Ties go to the later byte.
func RareByte(needle []byte) (byte, int) {
	best, at := needle[0], 0
	for i := 1; i < len(needle); i++ {
		if byteRank[needle[i]] <= byteRank[best] {
			best, at = needle[i], i
		}
	}
	return best, at
}

// byteRank approximates how common each byte is in text and source code;
// higher is more common.
var byteRank = func() [256]uint8 {
	var r [256]uint8
	for c := 0; c < 256; c++ {
		switch {
		case c == ' ':
			r[c] = 255
		case c >= 'a' && c <= 'z':
			r[c] = 160
		case c >= 'A' && c <= 'Z':
			r[c] = 90
		case c >= '0' && c <= '9':
			r[c] = 110
		case c == '\n' || c == '\t':
			r[c] = 120
		case c == '.' || c == ',' || c == '_' || c == '-' || c == '/' || c == '"' || c == '\'':
			r[c] = 130
		case c < 0x20:
			r[c] = 5
		case c < 0x80:
			r[c] = 60
		default:
			r[c] = 30
		}
	}
	for _, c := range "etaoinsrh" {
		r[c] = 230
	}
	for _, c := range "qjxz" {
		r[c] = 40
	}
	return r
}()
