// Package matrix defines the configuration space the runner schedules over:
// axes with ordinally ranked values, profiles (one value per axis plus a
// test identifier), outcome statuses, and the shared results matrix.
package matrix

import "fmt"

// Backend selects the code-generation strategy of the toolchain under test.
type Backend string

// Backend values, in increasing ordinal rank.
const (
	BackendC      Backend = "c"      // portable C backend
	BackendNative Backend = "native" // direct machine codegen
	BackendInterp Backend = "interp" // bytecode interpreter
)

// Memory selects the memory-management strategy.
type Memory string

// Memory values, in increasing ordinal rank. MemVM is only meaningful with
// BackendInterp; see Profile.Valid.
const (
	MemBoehm Memory = "boehm" // conservative GC
	MemRC    Memory = "rc"    // reference counting
	MemVM    Memory = "vm"    // interpreter-managed heap
)

// Opt selects the optimization mode.
type Opt string

// Opt values, in increasing ordinal rank. OptDebug is the least aggressive
// mode and is what the diagnostic re-run forces.
const (
	OptDebug      Opt = "debug"
	OptRelease    Opt = "release"
	OptAggressive Opt = "aggressive"
)

// Backends, Memories, and Opts list every known axis value in rank order.
// Rank lookups index into these; the order is load-bearing for scheduling
// and dominance, not cosmetic.
var (
	Backends = []Backend{BackendC, BackendNative, BackendInterp}
	Memories = []Memory{MemBoehm, MemRC, MemVM}
	Opts     = []Opt{OptDebug, OptRelease, OptAggressive}
)

// Rank returns the ordinal rank of b, or -1 if b is not a known value.
func (b Backend) Rank() int {
	for i, v := range Backends {
		if v == b {
			return i
		}
	}
	return -1
}

// Rank returns the ordinal rank of m, or -1 if m is not a known value.
func (m Memory) Rank() int {
	for i, v := range Memories {
		if v == m {
			return i
		}
	}
	return -1
}

// Rank returns the ordinal rank of o, or -1 if o is not a known value.
func (o Opt) Rank() int {
	for i, v := range Opts {
		if v == o {
			return i
		}
	}
	return -1
}

// Profile identifies one concrete configuration for one test file. It is a
// plain value type: comparable, usable as a map key, never mutated.
type Profile struct {
	Backend Backend
	Memory  Memory
	Opt     Opt
	Test    string
}

// Valid reports whether the axis values are mutually consistent. The
// interpreter backend and the vm memory strategy require each other;
// every other combination is allowed.
func (p Profile) Valid() bool {
	if p.Backend == BackendInterp {
		return p.Memory == MemVM
	}
	return p.Memory != MemVM
}

// AxisCompare orders profiles for scheduling: lexicographic over
// (backend, memory, opt) ranks, test identifier excluded. Returns a
// negative value, zero, or a positive value in the usual cmp convention.
func (p Profile) AxisCompare(q Profile) int {
	if d := p.Backend.Rank() - q.Backend.Rank(); d != 0 {
		return d
	}
	if d := p.Memory.Rank() - q.Memory.Rank(); d != 0 {
		return d
	}
	return p.Opt.Rank() - q.Opt.Rank()
}

// String renders the profile for diagnostics, e.g. "maps_test.tox [c/boehm/release]".
func (p Profile) String() string {
	return fmt.Sprintf("%s [%s/%s/%s]", p.Test, p.Backend, p.Memory, p.Opt)
}
