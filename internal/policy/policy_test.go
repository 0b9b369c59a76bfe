package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkoosis/tmx/internal/matrix"
)

func baselineProfile() matrix.Profile {
	return matrix.Profile{
		Backend: matrix.BackendC,
		Memory:  matrix.MemBoehm,
		Opt:     matrix.OptRelease,
		Test:    "t1",
	}
}

func TestRules_Fatal_When_BaselineCombinationLocal(t *testing.T) {
	t.Parallel()

	env := Env{Gen: "gen2"}
	assert.True(t, Default().Fatal(baselineProfile(), env),
		"baseline failures are fatal even locally")
}

func TestRules_Fatal_When_NonBaselineLocal(t *testing.T) {
	t.Parallel()

	p := baselineProfile()
	p.Memory = matrix.MemRC
	p.Opt = matrix.OptRelease
	env := Env{Gen: "gen2"}

	assert.False(t, Default().Fatal(p, env),
		"only baseline combinations are fatal outside CI")
}

func TestRules_Fatal_When_CIFailFast(t *testing.T) {
	t.Parallel()

	rules := Default()
	env := Env{Gen: "gen2", CI: true, FailFast: true}

	plain := baselineProfile()
	plain.Memory = matrix.MemRC
	assert.True(t, rules.Fatal(plain, env), "non-excused combinations become fatal on CI")

	excusedBackend := plain
	excusedBackend.Backend = matrix.BackendNative
	assert.False(t, rules.Fatal(excusedBackend, env))

	excusedOpt := plain
	excusedOpt.Opt = matrix.OptAggressive
	assert.False(t, rules.Fatal(excusedOpt, env))

	vm := matrix.Profile{Backend: matrix.BackendInterp, Memory: matrix.MemVM, Opt: matrix.OptDebug, Test: "t1"}
	assert.False(t, rules.Fatal(vm, env))
}

func TestRules_Fatal_When_CIWithoutFailFast(t *testing.T) {
	t.Parallel()

	p := baselineProfile()
	p.Memory = matrix.MemRC
	env := Env{Gen: "gen2", CI: true}

	assert.False(t, Default().Fatal(p, env),
		"without fail-fast, CI keeps the local fatal set")
}

func TestRules_Fatal_When_UnknownGeneration(t *testing.T) {
	t.Parallel()

	env := Env{Gen: "gen9", CI: true, FailFast: true}
	assert.False(t, Default().Fatal(baselineProfile(), env))
}

func TestRules_Space_When_LocalVersusCI(t *testing.T) {
	t.Parallel()

	rules := Default()

	local := rules.Space(Env{Gen: "gen2"})
	assert.ElementsMatch(t, []matrix.Backend{matrix.BackendC}, local.Backends)
	assert.NotContains(t, local.Memories, matrix.MemVM)
	assert.NotContains(t, local.Opts, matrix.OptAggressive)

	ci := rules.Space(Env{Gen: "gen2", CI: true})
	assert.Contains(t, ci.Backends, matrix.BackendInterp)
	assert.Contains(t, ci.Memories, matrix.MemVM)
	assert.Contains(t, ci.Opts, matrix.OptAggressive)
}

func TestRules_Merge_When_GenerationOverridden(t *testing.T) {
	t.Parallel()

	override := Rules{
		Generations: map[string]Generation{
			"gen2": {
				Backends: []matrix.Backend{matrix.BackendNative},
				Memories: []matrix.Memory{matrix.MemRC},
				Opts:     []matrix.Opt{matrix.OptDebug},
			},
		},
	}
	merged := Default().Merge(override)

	space := merged.Space(Env{Gen: "gen2"})
	assert.Equal(t, []matrix.Backend{matrix.BackendNative}, space.Backends)

	// Untouched generations and excused sets survive the merge.
	assert.NotEmpty(t, merged.Generations["gen1"].Backends)
	assert.NotEmpty(t, merged.Excused.Opts)
}

func TestCombo_Matches_When_Wildcard(t *testing.T) {
	t.Parallel()

	c := Combo{Backend: matrix.BackendC, Memory: matrix.MemBoehm}
	for _, o := range matrix.Opts {
		p := baselineProfile()
		p.Opt = o
		assert.True(t, c.Matches(p), "empty opt field matches any opt")
	}

	p := baselineProfile()
	p.Backend = matrix.BackendNative
	assert.False(t, c.Matches(p))
}
