// Package classify turns a finished job's exit code and output buffers into
// a success, an empty success or a failure.
package classify

import (
	"fmt"
	"strings"

	"github.com/dkoosis/lens/pkg/collect"
	"github.com/dkoosis/lens/pkg/job"
)

// Status is the top-level classification of a job.
type Status int

const (
	Success Status = iota + 1
	EmptySuccess
	Failure
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case EmptySuccess:
		return "empty"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Reason explains an EmptySuccess or Failure.
type Reason int

const (
	ReasonNone Reason = iota
	// SelectionAborted means no folder was picked; no job ran.
	SelectionAborted
	// ProcessStartFailure means the executable could not be launched.
	ProcessStartFailure
	// NonZeroExit means the process exited with a non-success code.
	NonZeroExit
	// DiagnosticPresent means the process exited 0 but wrote to stderr.
	DiagnosticPresent
	// EmptyPayload means the process exited cleanly with nothing usable on stdout.
	EmptyPayload
	// OutputTruncated means the payload exceeded the buffer cap and cannot
	// be used intact.
	OutputTruncated
)

var reasonNames = map[Reason]string{
	ReasonNone:          "",
	SelectionAborted:    "selection_aborted",
	ProcessStartFailure: "process_start_failure",
	NonZeroExit:         "non_zero_exit",
	DiagnosticPresent:   "diagnostic_present",
	EmptyPayload:        "empty_payload",
	OutputTruncated:     "output_truncated",
}

func (r Reason) String() string {
	return reasonNames[r]
}

// MarshalText renders the reason by name.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Result is the classified outcome of one job.
type Result struct {
	Status     Status `json:"status" yaml:"status"`
	Payload    string `json:"payload,omitempty" yaml:"payload,omitempty"`
	Diagnostic string `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
	Reason     Reason `json:"reason,omitempty" yaml:"reason,omitempty"`
	ExitCode   int    `json:"exit_code" yaml:"exit_code"`
	Truncated  bool   `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// OK reports whether the job succeeded.
func (r Result) OK() bool {
	return r.Status == Success
}

// NoSelection is the result when the user declined to pick a folder.
func NoSelection() Result {
	return Result{Status: EmptySuccess, Reason: SelectionAborted}
}

// Classify applies the per-command rules to a finished job. Any stderr
// output fails Visualize and GenerateTests even when the process exited 0.
//
// When stdout hit the buffer cap, Analyze takes its path from the last line
// tracked past the cap, and Visualize fails since a clipped diagram cannot
// render. GenerateTests keeps the head of its report and is flagged
// Truncated.
func Classify(kind job.Kind, o collect.Outcome) Result {
	base := Result{ExitCode: o.ExitCode, Truncated: o.Truncated()}

	if o.StartErr != nil {
		base.Status = Failure
		base.Reason = ProcessStartFailure
		base.Diagnostic = o.StartErr.Error()
		return base
	}

	switch kind {
	case job.Analyze:
		return classifyAnalyze(base, o)
	case job.Visualize:
		return classifyVisualize(base, o)
	case job.GenerateTests:
		return classifyGenerateTests(base, o)
	default:
		base.Status = Failure
		base.Diagnostic = fmt.Sprintf("unknown command kind %s", kind)
		return base
	}
}

func classifyAnalyze(r Result, o collect.Outcome) Result {
	if o.ExitCode != 0 {
		r.Status = Failure
		r.Reason = NonZeroExit
		r.Diagnostic = fmt.Sprintf("process exited with code %d", o.ExitCode)
		return r
	}
	path := LastNonEmptyLine(o.Stdout)
	if o.StdoutTruncated {
		if o.StdoutLastLineClipped {
			r.Status = Failure
			r.Reason = OutputTruncated
			r.Diagnostic = "result line exceeded the output buffer cap"
			return r
		}
		path = o.StdoutLastLine
	}
	if path == "" {
		r.Status = EmptySuccess
		r.Reason = EmptyPayload
		return r
	}
	r.Status = Success
	r.Payload = path
	return r
}

func classifyVisualize(r Result, o collect.Outcome) Result {
	if o.ExitCode == 0 && o.Stderr == "" && o.StdoutTruncated {
		r.Status = Failure
		r.Reason = OutputTruncated
		r.Diagnostic = "diagram markup exceeded the output buffer cap"
		return r
	}
	if o.ExitCode == 0 && o.Stderr == "" && o.Stdout != "" {
		r.Status = Success
		r.Payload = o.Stdout
		return r
	}
	r.Status = Failure
	r.Diagnostic = o.Stderr
	r.Reason = failureReason(o)
	return r
}

func classifyGenerateTests(r Result, o collect.Outcome) Result {
	if o.ExitCode == 0 && o.Stderr == "" {
		r.Status = Success
		r.Payload = o.Stdout
		return r
	}
	r.Status = Failure
	r.Diagnostic = o.Stderr
	r.Reason = failureReason(o)
	return r
}

func failureReason(o collect.Outcome) Reason {
	switch {
	case o.ExitCode != 0:
		return NonZeroExit
	case o.Stderr != "":
		return DiagnosticPresent
	default:
		return EmptyPayload
	}
}

// LastNonEmptyLine returns the last line of s that is not blank, trimmed.
func LastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
