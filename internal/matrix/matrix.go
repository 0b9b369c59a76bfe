package matrix

import "sync"

// Entry is one row of a matrix snapshot.
type Entry struct {
	Profile Profile
	Status  StatusKind
}

// Observer is notified with a full snapshot after every mutation, inside
// the matrix's critical section so renders never interleave with writes.
type Observer func(entries []Entry)

// Matrix is the insertion-ordered Profile -> StatusKind map that is the
// single source of truth for outcomes. All access is synchronized; each
// profile appears at most once and its slot is pre-registered before any
// worker can write to it.
type Matrix struct {
	mu       sync.Mutex
	order    []Profile
	entries  map[Profile]StatusKind
	observer Observer
}

// New returns an empty matrix.
func New() *Matrix {
	return &Matrix{entries: make(map[Profile]StatusKind)}
}

// SetObserver installs the render callback. Must be called before
// concurrent use; typically once, right after New.
func (m *Matrix) SetObserver(fn Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = fn
}

// Register inserts p with status None if absent. Idempotent; used to
// pre-allocate every slot before workers start.
func (m *Matrix) Register(p Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[p]; ok {
		return
	}
	m.order = append(m.order, p)
	m.entries[p] = None
}

// Set records a status for p, inserting it if it was never registered,
// and notifies the observer.
func (m *Matrix) Set(p Profile, s StatusKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[p]; !ok {
		m.order = append(m.order, p)
	}
	m.entries[p] = s
	if m.observer != nil {
		m.observer(m.snapshotLocked())
	}
}

// Status returns the recorded status for p and whether p is registered.
func (m *Matrix) Status(p Profile) (StatusKind, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.entries[p]
	return s, ok
}

// Contains reports whether p has a real outcome. Absent, None, and Skip
// entries do not count as contained.
func (m *Matrix) Contains(p Profile) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[p] > Skip
}

// Decided reports whether p already carries a scheduling decision. Unlike
// Contains, Skip counts: a pruned profile must not be scheduled again.
func (m *Matrix) Decided(p Profile) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.entries[p]
	return ok && s != None
}

// Snapshot returns the entries in insertion order.
func (m *Matrix) Snapshot() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Len returns the number of registered profiles.
func (m *Matrix) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

func (m *Matrix) snapshotLocked() []Entry {
	out := make([]Entry, 0, len(m.order))
	for _, p := range m.order {
		out = append(out, Entry{Profile: p, Status: m.entries[p]})
	}
	return out
}
