package domain

// VerdictKind is the outcome of judging one candidate.
type VerdictKind int

// Verdict kinds.
const (
	// VerdictAccepted means the candidate is stored with Summary.
	VerdictAccepted VerdictKind = iota

	// VerdictRejected means the model judged the candidate irrelevant.
	// The title is not registered as seen, so a later run judges it again.
	VerdictRejected

	// VerdictSkipped means the model call failed under the skip policy.
	// The candidate is dropped for this run only.
	VerdictSkipped
)

// String returns a short label for logs.
func (k VerdictKind) String() string {
	switch k {
	case VerdictAccepted:
		return "accepted"
	case VerdictRejected:
		return "rejected"
	case VerdictSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Verdict is the typed result the gate hands back to the orchestrator.
type Verdict struct {
	Kind    VerdictKind
	Summary string

	// Degraded marks an accepted verdict whose summary is a marker
	// (unconfigured or failure placeholder) rather than model output.
	Degraded bool

	// Err is the model call failure behind a degraded or skipped verdict.
	Err error
}

// Accept returns an accepted verdict.
func Accept(summary string) Verdict {
	return Verdict{Kind: VerdictAccepted, Summary: summary}
}

// AcceptDegraded returns an accepted verdict carrying a marker summary.
func AcceptDegraded(marker string, err error) Verdict {
	return Verdict{Kind: VerdictAccepted, Summary: marker, Degraded: true, Err: err}
}

// Reject returns a rejected verdict.
func Reject() Verdict {
	return Verdict{Kind: VerdictRejected}
}

// Skip returns a skipped verdict.
func Skip(err error) Verdict {
	return Verdict{Kind: VerdictSkipped, Err: err}
}

// Accepted reports whether the candidate should be stored.
func (v Verdict) Accepted() bool {
	return v.Kind == VerdictAccepted
}
