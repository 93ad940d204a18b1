package onig

// The helpers below search the whole of b, end position included, with no
// search options. A match budget failure is reported as no match; use
// Search to tell the two apart.

// IsMatch reports whether b contains a match.
//
// Example:
//
//	re := onig.MustCompile(`\d+`)
//	re.IsMatch([]byte("hello 123")) // true
func (r *Regex) IsMatch(b []byte) bool {
	pos, _ := r.Search(b, 0, len(b), 0, len(b)+1, nil, OptionNone)
	return pos >= 0
}

// Find returns the text of the leftmost match in b, or nil.
func (r *Regex) Find(b []byte) []byte {
	loc := r.FindIndex(b)
	if loc == nil {
		return nil
	}
	return b[loc[0]:loc[1]:loc[1]]
}

// FindString returns the text of the leftmost match in s, or "".
func (r *Regex) FindString(s string) string {
	loc := r.FindIndex([]byte(s))
	if loc == nil {
		return ""
	}
	return s[loc[0]:loc[1]]
}

// FindIndex returns the bounds of the leftmost match in b, or nil.
//
// Example:
//
//	re := onig.MustCompile(`\d+`)
//	loc := re.FindIndex([]byte("age: 42"))
//	// loc = [5 7]
func (r *Regex) FindIndex(b []byte) []int {
	region := NewRegion(r.NumberOfCaptures() + 1)
	if !r.findAt(b, 0, region) {
		return nil
	}
	return []int{region.Beg(0), region.End(0)}
}

// FindSubmatchIndex returns the bounds of the leftmost match and of each
// group as pairs, group 0 first, with -1 for unset groups. It returns nil
// when there is no match.
func (r *Regex) FindSubmatchIndex(b []byte) []int {
	region := NewRegion(r.NumberOfCaptures() + 1)
	if !r.findAt(b, 0, region) {
		return nil
	}
	return regionIndex(region)
}

// FindAllIndex returns the bounds of successive non-overlapping matches.
// If n >= 0 it returns at most n matches.
//
// Example:
//
//	re := onig.MustCompile(`\d+`)
//	re.FindAllIndex([]byte("1 22 333"), -1)
//	// [[0 1] [2 4] [5 8]]
func (r *Regex) FindAllIndex(b []byte, n int) [][]int {
	var out [][]int
	r.each(b, n, func(region *Region) {
		out = append(out, []int{region.Beg(0), region.End(0)})
	})
	return out
}

// SubexpNames returns the name of each group, "" for unnamed ones. Index 0
// is the whole match and is always "".
func (r *Regex) SubexpNames() []string {
	names := make([]string, r.NumberOfCaptures()+1)
	for i := 1; i < len(names); i++ {
		names[i] = r.names.NameOf(i)
	}
	return names
}

// ReplaceAll returns a copy of src with every match replaced by the
// expansion of repl. In repl, \0 to \9 stand for the text of a group,
// \k<name> for the text of a named group and \\ for a backslash.
//
// Example:
//
//	re := onig.MustCompile(`(?<user>\w+)@(?<host>\w+)`)
//	re.ReplaceAll([]byte("bob@example"), []byte(`\2 for \k<user>`))
//	// "example for bob"
func (r *Regex) ReplaceAll(src, repl []byte) []byte {
	out := make([]byte, 0, len(src))
	last := 0
	r.each(src, -1, func(region *Region) {
		out = append(out, src[last:region.Beg(0)]...)
		out = r.expand(out, repl, src, region)
		last = region.End(0)
	})
	return append(out, src[last:]...)
}

// expand appends template to dst, replacing group references with the
// text they captured. Unset groups and unknown names expand to nothing.
func (r *Regex) expand(dst, template, src []byte, region *Region) []byte {
	group := func(g int) {
		if b := region.Beg(g); b != Unset {
			dst = append(dst, src[b:region.End(g)]...)
		}
	}
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '\\' || i+1 >= len(template) {
			dst = append(dst, c)
			continue
		}
		next := template[i+1]
		switch {
		case next >= '0' && next <= '9':
			group(int(next - '0'))
			i++
		case next == '\\':
			dst = append(dst, '\\')
			i++
		case next == 'k' && i+2 < len(template) && template[i+2] == '<':
			end := -1
			for j := i + 3; j < len(template); j++ {
				if template[j] == '>' {
					end = j
					break
				}
			}
			if end < 0 {
				dst = append(dst, c)
				continue
			}
			if g, err := r.NameToBackrefNumber(string(template[i+3:end]), region); err == nil {
				group(g)
			}
			i = end
		default:
			dst = append(dst, c)
		}
	}
	return dst
}

// findAt searches b from at to the end, filling region.
func (r *Regex) findAt(b []byte, at int, region *Region) bool {
	pos, _ := r.Search(b, 0, len(b), at, len(b)+1, region, OptionNone)
	return pos >= 0
}

// each calls fn for successive non-overlapping matches, at most n when
// n >= 0. An empty match advances the search by one character.
func (r *Regex) each(b []byte, n int, fn func(*Region)) {
	region := NewRegion(r.NumberOfCaptures() + 1)
	for at, count := 0, 0; at <= len(b) && (n < 0 || count < n); count++ {
		if !r.findAt(b, at, region) {
			return
		}
		fn(region)
		next := region.End(0)
		if next <= at || region.Beg(0) == next {
			next = max(next, at)
			if next >= len(b) {
				return
			}
			next += max(1, r.enc.CharLen(b[next:]))
		}
		at = next
	}
}

func regionIndex(region *Region) []int {
	out := make([]int, 2*region.NumRegs())
	for i := 0; i < region.NumRegs(); i++ {
		out[2*i] = region.Beg(i)
		out[2*i+1] = region.End(i)
	}
	return out
}
