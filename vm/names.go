package vm

import "github.com/coregx/onig/syntax"

// NameTable maps group names to group numbers. Iteration follows the order
// in which names were first defined.
type NameTable struct {
	entries []syntax.Name
	index   map[string]int
}

// NewNameTable builds a table from parsed names.
func NewNameTable(names []syntax.Name) *NameTable {
	t := &NameTable{
		entries: make([]syntax.Name, len(names)),
		index:   make(map[string]int, len(names)),
	}
	for i, n := range names {
		t.entries[i] = syntax.Name{Name: n.Name, Groups: append([]int(nil), n.Groups...)}
		t.index[n.Name] = i
	}
	return t
}

// GroupNumbers returns the groups defined with name in definition order,
// or nil when the name is unknown.
func (t *NameTable) GroupNumbers(name string) []int {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return t.entries[i].Groups
}

// Len returns the number of distinct names.
func (t *NameTable) Len() int { return len(t.entries) }

// Names returns the distinct names in first-definition order.
func (t *NameTable) Names() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Name
	}
	return out
}

// ForEach calls fn for each name until fn returns false. It reports
// whether the iteration ran to completion.
func (t *NameTable) ForEach(fn func(name string, groups []int) bool) bool {
	for _, e := range t.entries {
		if !fn(e.Name, e.Groups) {
			return false
		}
	}
	return true
}

// NameOf returns the name of group g, or "" when it is unnamed.
func (t *NameTable) NameOf(g int) string {
	for _, e := range t.entries {
		for _, n := range e.Groups {
			if n == g {
				return e.Name
			}
		}
	}
	return ""
}
