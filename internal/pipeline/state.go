package pipeline

// State is a position in the load state machine. FAILED is absorbing and
// reachable from every stage after RESOLVING.
type State int

const (
	StateResolving State = iota
	StateFetching
	StateExtracting
	StateConverting
	StateImporting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "RESOLVING"
	case StateFetching:
		return "FETCHING"
	case StateExtracting:
		return "EXTRACTING"
	case StateConverting:
		return "CONVERTING"
	case StateImporting:
		return "IMPORTING"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// stageName is the lowercase label used in logs and error chains.
func (s State) stageName() string {
	switch s {
	case StateResolving:
		return "resolve"
	case StateFetching:
		return "fetch"
	case StateExtracting:
		return "extract"
	case StateConverting:
		return "convert"
	case StateImporting:
		return "import"
	default:
		return "pipeline"
	}
}

// Outcome records what happened to a stage during a run.
type Outcome string

const (
	OutcomeRan     Outcome = "ran"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Skip reasons.
const (
	ReasonTargetPresent = "target already exists"
	ReasonNoSource      = "no source url"
)
