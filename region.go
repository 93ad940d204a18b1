package onig

import "github.com/coregx/onig/vm"

// Unset marks a group that did not participate in a match.
const Unset = -1

// Region holds the group offsets of a match. Group 0 is the whole match.
// A Region is reusable across matches but must not be shared by
// concurrent calls.
type Region struct {
	beg, end []int
	numRegs  int

	tree  *CaptureTreeNode
	arena []CaptureTreeNode
	kids  []*CaptureTreeNode
}

// CaptureTreeNode is one group visit in the capture-history tree.
type CaptureTreeNode struct {
	Group    int
	Beg, End int
	Children []*CaptureTreeNode
}

// NewRegion returns a region with room for capacity groups, group 0
// included. Every slot starts unset.
func NewRegion(capacity int) *Region {
	r := &Region{}
	r.Resize(capacity)
	return r
}

// NumRegs returns the number of active groups, group 0 included.
func (r *Region) NumRegs() int { return r.numRegs }

// Capacity returns the number of allocated group slots.
func (r *Region) Capacity() int { return len(r.beg) }

// Beg returns the start of group i, or Unset.
func (r *Region) Beg(i int) int {
	if i < 0 || i >= r.numRegs {
		return Unset
	}
	return r.beg[i]
}

// End returns the end of group i, or Unset.
func (r *Region) End(i int) int {
	if i < 0 || i >= r.numRegs {
		return Unset
	}
	return r.end[i]
}

// Clear unsets every group and drops the capture tree. Storage is kept.
func (r *Region) Clear() {
	for i := range r.beg {
		r.beg[i] = Unset
		r.end[i] = Unset
	}
	r.clearTree()
}

// Resize sets the number of groups to n. Storage only grows; groups that
// become active start unset.
func (r *Region) Resize(n int) {
	if n < 0 {
		n = 0
	}
	for len(r.beg) < n {
		r.beg = append(r.beg, Unset)
		r.end = append(r.end, Unset)
	}
	for i := r.numRegs; i < n; i++ {
		r.beg[i] = Unset
		r.end[i] = Unset
	}
	r.numRegs = n
}

// CopyFrom makes r a deep copy of src, capture tree included.
func (r *Region) CopyFrom(src *Region) {
	if r == src {
		return
	}
	r.Resize(src.numRegs)
	copy(r.beg, src.beg[:src.numRegs])
	copy(r.end, src.end[:src.numRegs])
	r.clearTree()
	if src.tree != nil {
		r.tree = r.copyNode(src.tree)
	}
}

func (r *Region) copyNode(n *CaptureTreeNode) *CaptureTreeNode {
	c := r.newNode(n.Group, n.Beg, n.End)
	for _, k := range n.Children {
		c.Children = append(c.Children, r.copyNode(k))
	}
	return c
}

// Equal reports whether r and o hold the same offsets and capture trees.
func (r *Region) Equal(o *Region) bool {
	if r.numRegs != o.numRegs {
		return false
	}
	for i := 0; i < r.numRegs; i++ {
		if r.beg[i] != o.beg[i] || r.end[i] != o.end[i] {
			return false
		}
	}
	return equalTree(r.tree, o.tree)
}

func equalTree(a, b *CaptureTreeNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Group != b.Group || a.Beg != b.Beg || a.End != b.End || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !equalTree(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// CaptureTree returns the root of the capture-history tree of the last
// match, or nil when the pattern records no history. The root is group 0.
func (r *Region) CaptureTree() *CaptureTreeNode { return r.tree }

// TraverseOrder selects when TraverseCaptureTree calls back.
type TraverseOrder uint8

const (
	// TraverseAtFirst calls back before visiting a node's children.
	TraverseAtFirst TraverseOrder = 1 << iota
	// TraverseAtLast calls back after visiting a node's children.
	TraverseAtLast
	// TraverseAtBoth calls back at both points.
	TraverseAtBoth = TraverseAtFirst | TraverseAtLast
)

// TraverseCaptureTree walks the capture tree below the root in depth-first
// order. fn receives the node, its nesting level (0 for children of the
// root) and the point of the visit. A non-nil error from fn stops the walk
// and is returned.
func (r *Region) TraverseCaptureTree(order TraverseOrder, fn func(n *CaptureTreeNode, level int, at TraverseOrder) error) error {
	if r.tree == nil {
		return nil
	}
	return traverse(r.tree, 0, order, fn)
}

func traverse(n *CaptureTreeNode, level int, order TraverseOrder, fn func(*CaptureTreeNode, int, TraverseOrder) error) error {
	for _, c := range n.Children {
		if order&TraverseAtFirst != 0 {
			if err := fn(c, level, TraverseAtFirst); err != nil {
				return err
			}
		}
		if err := traverse(c, level+1, order, fn); err != nil {
			return err
		}
		if order&TraverseAtLast != 0 {
			if err := fn(c, level, TraverseAtLast); err != nil {
				return err
			}
		}
	}
	return nil
}

// set stores the captures of a match: pairs of offsets, group 0 first.
func (r *Region) set(caps []int) {
	n := len(caps) / 2
	r.Resize(n)
	for i := 0; i < n; i++ {
		r.beg[i] = caps[2*i]
		r.end[i] = caps[2*i+1]
	}
}

// buildTree rebuilds the capture tree from history events. Nodes come
// from an arena reused across matches.
func (r *Region) buildTree(events []vm.HistoryEvent) {
	r.clearTree()
	if cap(r.arena) < len(events)/2+1 {
		r.arena = make([]CaptureTreeNode, 0, len(events)/2+1)
	}
	r.tree = r.newNode(0, r.beg[0], r.end[0])
	stack := r.kids[:0]
	stack = append(stack, r.tree)
	for _, ev := range events {
		top := stack[len(stack)-1]
		if ev.Open {
			n := r.newNode(ev.Group, ev.Pos, Unset)
			top.Children = append(top.Children, n)
			stack = append(stack, n)
			continue
		}
		for i := len(stack) - 1; i > 0; i-- {
			if stack[i].Group == ev.Group {
				stack[i].End = ev.Pos
				stack = stack[:i]
				break
			}
		}
	}
	r.kids = stack[:0]
}

func (r *Region) newNode(group, beg, end int) *CaptureTreeNode {
	if len(r.arena) == cap(r.arena) {
		// Nodes handed out earlier stay valid; grow into a new block.
		r.arena = make([]CaptureTreeNode, 0, 2*cap(r.arena)+4)
	}
	r.arena = append(r.arena, CaptureTreeNode{Group: group, Beg: beg, End: end})
	return &r.arena[len(r.arena)-1]
}

func (r *Region) clearTree() {
	for i := range r.arena {
		r.arena[i] = CaptureTreeNode{}
	}
	r.arena = r.arena[:0]
	r.tree = nil
}
