package assignment

// Strategy is a pure selection policy. It holds no mutable state, so a single
// value may be shared by any number of goroutines.
type Strategy struct {
	kind Kind
}

var (
	RoundRobin = Strategy{kind: KindRoundRobin}
	LeastOpen  = Strategy{kind: KindLeastOpen}
	Manual     = Strategy{kind: KindManual}
)

// StrategyFor returns the Strategy for kind. ok is false for KindUnrecognized.
func StrategyFor(kind Kind) (Strategy, bool) {
	switch kind {
	case KindRoundRobin:
		return RoundRobin, true
	case KindLeastOpen:
		return LeastOpen, true
	case KindManual:
		return Manual, true
	default:
		return Strategy{}, false
	}
}

func (s Strategy) Kind() Kind { return s.kind }

func (s Strategy) String() string { return s.kind.String() }

// Select picks the candidate that should receive the next conversation.
// ok is false when ctx is nil, has no candidates, or nobody has spare capacity.
func (s Strategy) Select(ctx *Context) (Candidate, bool) {
	if ctx == nil || len(ctx.Candidates) == 0 {
		return Candidate{}, false
	}
	switch s.kind {
	case KindRoundRobin:
		return selectRoundRobin(ctx)
	case KindLeastOpen:
		return selectLeastOpen(ctx)
	default:
		// Manual: conversations stay queued for explicit pickup.
		return Candidate{}, false
	}
}

// selectRoundRobin returns the first candidate with spare capacity after the
// previously assigned agent, wrapping around once. Duplicate user ids are not
// collapsed; the cursor follows the first occurrence.
func selectRoundRobin(ctx *Context) (Candidate, bool) {
	n := len(ctx.Candidates)
	start := 0
	if i := indexOf(ctx.Candidates, ctx.LastAgentUserID); i >= 0 {
		start = (i + 1) % n
	}
	for step := 0; step < n; step++ {
		cand := ctx.Candidates[(start+step)%n]
		if ctx.HasCapacity(cand) {
			return cand, true
		}
	}
	return Candidate{}, false
}

// selectLeastOpen prefers the least loaded eligible candidates and rotates
// among ties. If the previous agent is not in the tie set the rotation starts
// over at the first tied candidate.
func selectLeastOpen(ctx *Context) (Candidate, bool) {
	eligible := make([]Candidate, 0, len(ctx.Candidates))
	minActive := 0
	for _, cand := range ctx.Candidates {
		if !ctx.HasCapacity(cand) {
			continue
		}
		active := ctx.Active(cand.UserID)
		if len(eligible) == 0 || active < minActive {
			minActive = active
		}
		eligible = append(eligible, cand)
	}
	if len(eligible) == 0 {
		return Candidate{}, false
	}

	ties := eligible[:0:0]
	for _, cand := range eligible {
		if ctx.Active(cand.UserID) == minActive {
			ties = append(ties, cand)
		}
	}

	start := 0
	if i := indexOf(ties, ctx.LastAgentUserID); i >= 0 {
		start = (i + 1) % len(ties)
	}
	return ties[start], true
}
