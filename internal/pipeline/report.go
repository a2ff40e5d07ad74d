package pipeline

import (
	"time"

	"demoload/internal/catalog"
	"demoload/internal/convert"
)

// StageReport is the outcome of one entered stage.
type StageReport struct {
	State    State
	Outcome  Outcome
	Reason   string
	Duration time.Duration
	Err      error
}

// Report describes a finished run.
type Report struct {
	RunID   string
	Dataset catalog.Dataset
	Limit   *int
	State   State
	Stages  []StageReport
	// Conversion and Imported are set once the respective stage ran.
	Conversion convert.Result
	Imported   int
	// Listing holds the catalog in order for discovery runs.
	Listing []catalog.Dataset
}

// Discovery reports whether the run only listed the catalog.
func (r *Report) Discovery() bool {
	return r != nil && r.Listing != nil
}

// Stage returns the report for state, if the stage was entered.
func (r *Report) Stage(state State) (StageReport, bool) {
	if r == nil {
		return StageReport{}, false
	}
	for _, st := range r.Stages {
		if st.State == state {
			return st, true
		}
	}
	return StageReport{}, false
}

// Ran lists the stages that executed, in order.
func (r *Report) Ran() []State {
	if r == nil {
		return nil
	}
	var out []State
	for _, st := range r.Stages {
		if st.Outcome == OutcomeRan {
			out = append(out, st.State)
		}
	}
	return out
}
