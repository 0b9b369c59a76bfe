package matrix

// Dominated reports whether p's run can be skipped because a sibling
// profile that differs from p only by a strictly lesser value of one
// comparable axis is already recorded as failed. A stricter configuration
// subsumes a looser one's correctness requirements along each axis
// independently: if the looser build already fails, tightening one axis
// will not rescue it.
//
// Only the optimization and memory axes are comparable. The vm memory
// value forms its own dominance class: a vm profile neither dominates nor
// is dominated across the vm/non-vm boundary, because interpreter-managed
// memory is not a strictly harder or easier variant of the native
// strategies.
func Dominated(p Profile, m *Matrix) bool {
	for _, o := range Opts {
		if o.Rank() >= p.Opt.Rank() {
			break
		}
		sib := p
		sib.Opt = o
		if s, ok := m.Status(sib); ok && s.Failed() {
			return true
		}
	}
	if p.Memory == MemVM {
		return false
	}
	for _, mem := range Memories {
		if mem.Rank() >= p.Memory.Rank() {
			break
		}
		if mem == MemVM {
			continue
		}
		sib := p
		sib.Memory = mem
		if s, ok := m.Status(sib); ok && s.Failed() {
			return true
		}
	}
	return false
}
