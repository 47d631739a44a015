// Package coils holds coil state and turns coil transitions into clip
// playback.
package coils

// Store maps coil addresses to their last written value. Unseen addresses
// read as false. Store is not safe for concurrent use; Operations serializes
// access.
type Store struct {
	values map[uint16]bool
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{values: make(map[uint16]bool)}
}

// Get returns the stored value for addr.
func (s *Store) Get(addr uint16) bool {
	return s.values[addr]
}

// Set records value for addr and reports whether it differs from the
// previous value.
func (s *Store) Set(addr uint16, value bool) (changed bool) {
	old := s.values[addr]
	s.values[addr] = value
	return old != value
}

// Len returns the number of coils written so far.
func (s *Store) Len() int {
	return len(s.values)
}
