package matrix

// Space is the set of enabled values per axis for one run. Which values
// are enabled is environment policy (CI enables more than local); the
// generator only consumes the result.
type Space struct {
	Backends []Backend
	Memories []Memory
	Opts     []Opt
}

// Generate produces every distinct, valid profile for one test identifier:
// the cross-product of the enabled axis values with nonsensical
// combinations discarded. Pure; ordering of the result is not significant.
func Generate(test string, space Space) []Profile {
	seen := make(map[Profile]bool)
	var out []Profile
	for _, b := range space.Backends {
		for _, m := range space.Memories {
			for _, o := range space.Opts {
				p := Profile{Backend: b, Memory: m, Opt: o, Test: test}
				if !p.Valid() || seen[p] {
					continue
				}
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}
