package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/lens/pkg/classify"
	"github.com/dkoosis/lens/pkg/job"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// ViewKind distinguishes transient notifications from persistent panels.
type ViewKind string

const (
	KindNotification ViewKind = "notification"
	KindPanel        ViewKind = "panel"
)

// Panel identity and title for the architecture diagram.
const (
	ArchitecturePanelID    = "legacyLensArchitecture"
	ArchitecturePanelTitle = "Application Architecture"
)

// View is what the user sees for one command invocation (or one interim
// message while it runs). Views are plain values; a single top-level
// dispatcher decides where they are written.
type View struct {
	Command job.Kind         `json:"command" yaml:"command"`
	Kind    ViewKind         `json:"kind" yaml:"kind"`
	Level   Level            `json:"level" yaml:"level"`
	Message string           `json:"message" yaml:"message"`
	Panel   *Panel           `json:"panel,omitempty" yaml:"panel,omitempty"`
	Result  *classify.Result `json:"result,omitempty" yaml:"result,omitempty"`
}

// IsError reports whether the view reports a failure.
func (v View) IsError() bool {
	return v.Level == LevelError
}

// Panel is a persistent diagram display with its zoom state.
type Panel struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Markup string `json:"markup" yaml:"markup"`
	Zoom   Zoom   `json:"zoom" yaml:"zoom"`
}

// NewArchitecturePanel wraps diagram markup in a panel at 100% zoom.
func NewArchitecturePanel(markup string) *Panel {
	return &Panel{
		ID:     ArchitecturePanelID,
		Title:  ArchitecturePanelTitle,
		Markup: markup,
		Zoom:   NewZoom(),
	}
}

// Info returns an informational notification.
func Info(cmd job.Kind, msg string) View {
	return View{Command: cmd, Kind: KindNotification, Level: LevelInfo, Message: msg}
}

// Error returns an error notification.
func Error(cmd job.Kind, msg string) View {
	return View{Command: cmd, Kind: KindNotification, Level: LevelError, Message: msg}
}

// NoSelection is shown when the folder picker returned nothing. No job is
// created on this path.
func NoSelection(cmd job.Kind) View {
	r := classify.NoSelection()
	v := Info(cmd, "No folder selected.")
	v.Result = &r
	return v
}

// Busy is shown when a command is invoked while another job is running.
func Busy(cmd job.Kind) View {
	return Info(cmd, "Another analysis is already running. Try again when it finishes.")
}

// StartNotice announces that an analysis was launched for a folder.
func StartNotice(cmd job.Kind, folder string) View {
	return Info(cmd, fmt.Sprintf("Selected folder: %s. Starting analysis...", folder))
}

// LiveDiagnostic reports one stderr chunk as it arrives.
func LiveDiagnostic(cmd job.Kind, chunk string) View {
	return Error(cmd, "Python Error: "+chunk)
}

// ProgressTitle is the progress caption for commands that show one.
func ProgressTitle(cmd job.Kind) string {
	switch cmd {
	case job.Visualize:
		return "LegacyLens: Visualizing architecture..."
	case job.GenerateTests:
		return "LegacyLens: Generating unit tests..."
	default:
		return ""
	}
}

// FromResult builds the final view for a classified job.
func FromResult(cmd job.Kind, r classify.Result) View {
	v := fromResult(cmd, r)
	res := r
	v.Result = &res
	if r.Truncated {
		v.Message += " (output truncated)"
	}
	return v
}

func fromResult(cmd job.Kind, r classify.Result) View {
	switch r.Status {
	case classify.Success:
		return success(cmd, r.Payload)
	case classify.EmptySuccess:
		return empty(cmd, r)
	default:
		return Error(cmd, failurePrefix(cmd)+diagnosticText(r))
	}
}

func success(cmd job.Kind, payload string) View {
	switch cmd {
	case job.Analyze:
		return Info(cmd, "Analysis complete! Prompts saved to "+payload)
	case job.Visualize:
		v := Info(cmd, "Architecture diagram created successfully!")
		v.Kind = KindPanel
		v.Panel = NewArchitecturePanel(payload)
		return v
	case job.GenerateTests:
		return Info(cmd, "Generated tests successfully! "+payload)
	default:
		return Info(cmd, payload)
	}
}

func empty(cmd job.Kind, r classify.Result) View {
	if r.Reason == classify.SelectionAborted {
		return Info(cmd, "No folder selected.")
	}
	return Info(cmd, cmd.Title()+" finished but produced no output.")
}

func failurePrefix(cmd job.Kind) string {
	switch cmd {
	case job.Analyze:
		return "Analysis failed: "
	case job.Visualize:
		return "Visualization failed: "
	case job.GenerateTests:
		return "Test generation failed: "
	default:
		return "Command failed: "
	}
}

// diagnosticText is the stderr text, or a description of the failure when
// the process wrote nothing to stderr.
func diagnosticText(r classify.Result) string {
	if d := strings.TrimRight(r.Diagnostic, "\r\n"); d != "" {
		return d
	}
	switch r.Reason {
	case classify.NonZeroExit:
		return fmt.Sprintf("process exited with code %d", r.ExitCode)
	case classify.EmptyPayload:
		return "process produced no output"
	default:
		return "no diagnostic output"
	}
}
