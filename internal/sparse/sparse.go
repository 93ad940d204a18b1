// Package sparse provides a sparse set of small integers with constant-time
// insertion, membership and clearing.
package sparse

// SparseSet is a set of uint32 values below a fixed capacity. The dense
// array keeps insertion order; the sparse array maps a value to its index
// in dense and may hold stale entries, which Contains cross-checks.
type SparseSet struct {
	sparse []uint32
	dense  []uint32
}

// NewSparseSet returns an empty set for values below capacity.
func NewSparseSet(capacity uint32) *SparseSet {
	return &SparseSet{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds value and reports whether it was absent.
// Panics if value >= capacity.
func (s *SparseSet) Insert(value uint32) bool {
	if s.Contains(value) {
		return false
	}
	//nolint:gosec // G115: len(dense) < capacity, which is a uint32
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains reports whether value is in the set.
func (s *SparseSet) Contains(value uint32) bool {
	if int(value) >= len(s.sparse) {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}

// Clear empties the set in O(1).
func (s *SparseSet) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of values in the set.
func (s *SparseSet) Len() int {
	return len(s.dense)
}

// Capacity returns the exclusive upper bound on values.
func (s *SparseSet) Capacity() int {
	return len(s.sparse)
}

// Values returns the values in insertion order. The slice is valid until
// the next mutation.
func (s *SparseSet) Values() []uint32 {
	return s.dense
}
