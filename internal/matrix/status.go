package matrix

// StatusKind is the recorded outcome for one profile. The order is part of
// the contract: anything strictly greater than Part counts as a failure,
// and None/Skip sort below every real outcome.
type StatusKind int

// StatusKind values, in increasing order.
const (
	None StatusKind = iota // slot registered, no attempt recorded
	Skip                   // deliberately not run (dominance-pruned)
	Pass                   // external run succeeded
	Part                   // ambiguous/partial; the success/failure boundary
	Fail                   // external run failed
	Info                   // diagnostic-only record, never judged
)

var statusNames = map[StatusKind]string{
	None: "none",
	Skip: "skip",
	Pass: "pass",
	Part: "part",
	Fail: "fail",
	Info: "info",
}

func (s StatusKind) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

// Failed reports whether s denotes a failure for policy purposes.
func (s StatusKind) Failed() bool {
	return s > Part
}
