// Package policy holds the data-driven outcome rules: which axis values a
// toolchain generation offers, which combinations are historically solid
// (baseline), and which values are excused from fatality. All of it is
// plain data so it can be overridden from the config file without touching
// the scheduler.
package policy

import "github.com/dkoosis/tmx/internal/matrix"

// Combo matches a set of axis combinations. An empty field is a wildcard.
type Combo struct {
	Backend matrix.Backend `yaml:"backend,omitempty"`
	Memory  matrix.Memory  `yaml:"memory,omitempty"`
	Opt     matrix.Opt     `yaml:"opt,omitempty"`
}

// Matches reports whether p falls inside the combo.
func (c Combo) Matches(p matrix.Profile) bool {
	if c.Backend != "" && c.Backend != p.Backend {
		return false
	}
	if c.Memory != "" && c.Memory != p.Memory {
		return false
	}
	if c.Opt != "" && c.Opt != p.Opt {
		return false
	}
	return true
}

// Generation describes one toolchain compatibility generation: the axis
// values it supports locally, the extra values continuous integration
// enables, and the baseline of known-solid combinations.
type Generation struct {
	Backends   []matrix.Backend `yaml:"backends"`
	CIBackends []matrix.Backend `yaml:"ci_backends"`
	Memories   []matrix.Memory  `yaml:"memories"`
	CIMemories []matrix.Memory  `yaml:"ci_memories"`
	Opts       []matrix.Opt     `yaml:"opts"`
	CIOpts     []matrix.Opt     `yaml:"ci_opts"`
	Baseline   []Combo          `yaml:"baseline"`
}

// Excused lists axis values whose failures are tolerated even on CI with
// fail-fast: combinations expected to be occasionally unreliable.
type Excused struct {
	Backends []matrix.Backend `yaml:"backends"`
	Memories []matrix.Memory  `yaml:"memories"`
	Opts     []matrix.Opt     `yaml:"opts"`
}

// Matches reports whether any of p's axis values is excused.
func (e Excused) Matches(p matrix.Profile) bool {
	for _, b := range e.Backends {
		if b == p.Backend {
			return true
		}
	}
	for _, m := range e.Memories {
		if m == p.Memory {
			return true
		}
	}
	for _, o := range e.Opts {
		if o == p.Opt {
			return true
		}
	}
	return false
}

// Rules bundles the per-generation tables with the excused sets.
type Rules struct {
	Generations map[string]Generation `yaml:"generations"`
	Excused     Excused               `yaml:"excused"`
}

// Env is the environment slice the fatality decision depends on.
type Env struct {
	Gen      string
	CI       bool
	FailFast bool
}

// Space returns the enabled axis values for a run: the generation's local
// values, widened by the CI-only values when env.CI is set.
func (r Rules) Space(env Env) matrix.Space {
	gen, ok := r.Generations[env.Gen]
	if !ok {
		return matrix.Space{}
	}
	space := matrix.Space{
		Backends: append([]matrix.Backend(nil), gen.Backends...),
		Memories: append([]matrix.Memory(nil), gen.Memories...),
		Opts:     append([]matrix.Opt(nil), gen.Opts...),
	}
	if env.CI {
		space.Backends = append(space.Backends, gen.CIBackends...)
		space.Memories = append(space.Memories, gen.CIMemories...)
		space.Opts = append(space.Opts, gen.CIOpts...)
	}
	return space
}

// Fatal decides whether a failure of p must abort the run. Baseline
// combinations are fatal everywhere; outside CI nothing else is, so local
// iteration stays unblocked. On CI with fail-fast the fatal set widens to
// every combination that is not excused.
func (r Rules) Fatal(p matrix.Profile, env Env) bool {
	gen, ok := r.Generations[env.Gen]
	if !ok {
		return false
	}
	for _, c := range gen.Baseline {
		if c.Matches(p) {
			return true
		}
	}
	if env.CI && env.FailFast {
		return !r.Excused.Matches(p)
	}
	return false
}

// Merge overlays o onto r: generations are replaced per key, the excused
// sets wholesale when non-empty. Used to apply config-file overrides onto
// the defaults.
func (r Rules) Merge(o Rules) Rules {
	out := Rules{
		Generations: make(map[string]Generation, len(r.Generations)),
		Excused:     r.Excused,
	}
	for k, v := range r.Generations {
		out.Generations[k] = v
	}
	for k, v := range o.Generations {
		out.Generations[k] = v
	}
	if len(o.Excused.Backends)+len(o.Excused.Memories)+len(o.Excused.Opts) > 0 {
		out.Excused = o.Excused
	}
	return out
}

// Default returns the shipped rules for the known generations.
func Default() Rules {
	return Rules{
		Generations: map[string]Generation{
			"gen1": {
				Backends:   []matrix.Backend{matrix.BackendC},
				CIBackends: []matrix.Backend{matrix.BackendNative},
				Memories:   []matrix.Memory{matrix.MemBoehm},
				CIMemories: []matrix.Memory{matrix.MemRC},
				Opts:       []matrix.Opt{matrix.OptDebug, matrix.OptRelease},
				CIOpts:     []matrix.Opt{matrix.OptAggressive},
				Baseline: []Combo{
					{Backend: matrix.BackendC, Memory: matrix.MemBoehm, Opt: matrix.OptDebug},
					{Backend: matrix.BackendC, Memory: matrix.MemBoehm, Opt: matrix.OptRelease},
				},
			},
			"gen2": {
				Backends:   []matrix.Backend{matrix.BackendC},
				CIBackends: []matrix.Backend{matrix.BackendNative, matrix.BackendInterp},
				Memories:   []matrix.Memory{matrix.MemBoehm, matrix.MemRC},
				CIMemories: []matrix.Memory{matrix.MemVM},
				Opts:       []matrix.Opt{matrix.OptDebug, matrix.OptRelease},
				CIOpts:     []matrix.Opt{matrix.OptAggressive},
				Baseline: []Combo{
					{Backend: matrix.BackendC, Memory: matrix.MemBoehm},
					{Backend: matrix.BackendC, Memory: matrix.MemRC, Opt: matrix.OptDebug},
				},
			},
		},
		Excused: Excused{
			Backends: []matrix.Backend{matrix.BackendNative, matrix.BackendInterp},
			Memories: []matrix.Memory{matrix.MemVM},
			Opts:     []matrix.Opt{matrix.OptAggressive},
		},
	}
}
