package orchestrator

// State is a step of one command invocation.
type State int

const (
	Idle State = iota
	AwaitingSelection
	JobRunning
	Classifying
	Rendered
	ReportedFailure
)

var stateNames = [...]string{
	Idle:              "idle",
	AwaitingSelection: "awaiting_selection",
	JobRunning:        "job_running",
	Classifying:       "classifying",
	Rendered:          "rendered",
	ReportedFailure:   "reported_failure",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether s ends an invocation.
func (s State) Terminal() bool {
	return s == Rendered || s == ReportedFailure
}
