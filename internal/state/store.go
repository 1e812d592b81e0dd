package state

import "sync"

// Change is the outcome of applying one register update. First is set the
// first time a register is seen; Changed is set whenever the stored value
// differs from the previous one (a first sighting always counts as changed).
type Change struct {
	Previous int
	Current  int
	Changed  bool
	First    bool
}

// Store holds the last known raw value per register. Safe for concurrent
// use.
type Store struct {
	mu   sync.Mutex
	regs map[uint16]int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{regs: make(map[uint16]int)}
}

// Apply records val for reg and reports what changed. Applying the stored
// value again is a no-op with Changed false.
func (s *Store) Apply(reg uint16, val int) Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, seen := s.regs[reg]
	s.regs[reg] = val
	return Change{
		Previous: prev,
		Current:  val,
		Changed:  !seen || prev != val,
		First:    !seen,
	}
}

// Get returns the stored value for reg, if any.
func (s *Store) Get(reg uint16) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.regs[reg]
	return v, ok
}

// Snapshot copies the full register map, for dumps and diagnostics.
func (s *Store) Snapshot() map[uint16]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint16]int, len(s.regs))
	for reg, val := range s.regs {
		out[reg] = val
	}
	return out
}

// Len returns the number of registers seen so far.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.regs)
}
