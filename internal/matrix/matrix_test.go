package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func profileFor(test string, o Opt) Profile {
	return Profile{Backend: BackendC, Memory: MemBoehm, Opt: o, Test: test}
}

func TestMatrix_Contains_When_StatusVaries(t *testing.T) {
	t.Parallel()

	m := New()
	absent := profileFor("absent", OptDebug)
	registered := profileFor("registered", OptDebug)
	skipped := profileFor("skipped", OptDebug)
	passed := profileFor("passed", OptDebug)
	failed := profileFor("failed", OptDebug)

	m.Register(registered)
	m.Set(skipped, Skip)
	m.Set(passed, Pass)
	m.Set(failed, Fail)

	assert.False(t, m.Contains(absent))
	assert.False(t, m.Contains(registered), "None does not count as contained")
	assert.False(t, m.Contains(skipped), "Skip does not count as contained")
	assert.True(t, m.Contains(passed))
	assert.True(t, m.Contains(failed))
}

func TestMatrix_Decided_When_SkipRecorded(t *testing.T) {
	t.Parallel()

	m := New()
	skipped := profileFor("skipped", OptDebug)
	registered := profileFor("registered", OptDebug)

	m.Set(skipped, Skip)
	m.Register(registered)

	assert.True(t, m.Decided(skipped), "Skip is a scheduling decision")
	assert.False(t, m.Decided(registered))
	assert.False(t, m.Decided(profileFor("absent", OptDebug)))
}

func TestMatrix_Register_When_CalledTwice(t *testing.T) {
	t.Parallel()

	m := New()
	p := profileFor("t1", OptDebug)
	m.Set(p, Pass)
	m.Register(p)

	s, ok := m.Status(p)
	assert.True(t, ok)
	assert.Equal(t, Pass, s, "Register must not overwrite a recorded status")
	assert.Equal(t, 1, m.Len())
}

func TestMatrix_Snapshot_When_InsertionOrderPreserved(t *testing.T) {
	t.Parallel()

	m := New()
	first := profileFor("b-test", OptRelease)
	second := profileFor("a-test", OptDebug)
	m.Set(first, Fail)
	m.Set(second, Pass)

	snap := m.Snapshot()
	assert.Len(t, snap, 2)
	assert.Equal(t, first, snap[0].Profile)
	assert.Equal(t, second, snap[1].Profile)
}

func TestMatrix_Set_When_ObserverInstalled(t *testing.T) {
	t.Parallel()

	m := New()
	var renders [][]Entry
	m.SetObserver(func(entries []Entry) {
		renders = append(renders, entries)
	})

	m.Set(profileFor("t1", OptDebug), Pass)
	m.Set(profileFor("t1", OptRelease), Fail)

	assert.Len(t, renders, 2, "every mutation renders")
	assert.Len(t, renders[1], 2, "observer sees the full matrix")
}

func TestGenerate_When_FullSpace(t *testing.T) {
	t.Parallel()

	space := Space{Backends: Backends, Memories: Memories, Opts: Opts}
	profiles := Generate("t1", space)

	// 3*3*3 combinations minus invalid vm/interp pairings:
	// interp with boehm/rc (2*3) and c/native with vm (2*3).
	assert.Len(t, profiles, 15)
	for _, p := range profiles {
		assert.True(t, p.Valid(), "generated profile must be valid: %s", p)
		assert.Equal(t, "t1", p.Test)
	}
}

func TestGenerate_When_DuplicateAxisValues(t *testing.T) {
	t.Parallel()

	space := Space{
		Backends: []Backend{BackendC, BackendC},
		Memories: []Memory{MemBoehm},
		Opts:     []Opt{OptDebug},
	}
	profiles := Generate("t1", space)
	assert.Len(t, profiles, 1, "generator yields distinct profiles only")
}

func TestDominated_When_LesserOptFailed(t *testing.T) {
	t.Parallel()

	m := New()
	lax := profileFor("t1", OptDebug)
	strict := profileFor("t1", OptAggressive)
	m.Set(lax, Fail)

	assert.True(t, Dominated(strict, m))
}

func TestDominated_When_LesserOptPassed(t *testing.T) {
	t.Parallel()

	m := New()
	m.Set(profileFor("t1", OptDebug), Pass)

	assert.False(t, Dominated(profileFor("t1", OptRelease), m))
}

func TestDominated_When_DifferentTest(t *testing.T) {
	t.Parallel()

	m := New()
	m.Set(profileFor("t1", OptDebug), Fail)

	assert.False(t, Dominated(profileFor("t2", OptRelease), m),
		"dominance never crosses test identifiers")
}

func TestDominated_When_LesserMemoryFailed(t *testing.T) {
	t.Parallel()

	m := New()
	boehm := Profile{Backend: BackendC, Memory: MemBoehm, Opt: OptDebug, Test: "t1"}
	rc := Profile{Backend: BackendC, Memory: MemRC, Opt: OptDebug, Test: "t1"}
	m.Set(boehm, Fail)

	assert.True(t, Dominated(rc, m))
}

func TestDominated_When_VMProfile(t *testing.T) {
	t.Parallel()

	m := New()
	// Every non-vm memory sibling of the vm profile has failed.
	for _, mem := range []Memory{MemBoehm, MemRC} {
		m.Set(Profile{Backend: BackendInterp, Memory: mem, Opt: OptDebug, Test: "t1"}, Fail)
	}
	vm := Profile{Backend: BackendInterp, Memory: MemVM, Opt: OptDebug, Test: "t1"}

	assert.False(t, Dominated(vm, m), "vm is its own dominance class")
}

func TestDominated_When_VMSiblingFailed(t *testing.T) {
	t.Parallel()

	m := New()
	// A failed vm record must never prune a non-vm profile. vm outranks rc,
	// so this also guards against rank-order mistakes.
	m.Set(Profile{Backend: BackendC, Memory: MemVM, Opt: OptDebug, Test: "t1"}, Fail)
	rc := Profile{Backend: BackendC, Memory: MemRC, Opt: OptDebug, Test: "t1"}

	assert.False(t, Dominated(rc, m))
}
