package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/lens/pkg/classify"
	"github.com/dkoosis/lens/pkg/job"
)

func TestFromResult(t *testing.T) {
	tests := []struct {
		name    string
		kind    job.Kind
		in      classify.Result
		level   Level
		message string
	}{
		{
			name:    "analyze success names the prompt file",
			kind:    job.Analyze,
			in:      classify.Result{Status: classify.Success, Payload: "/tmp/out.json"},
			level:   LevelInfo,
			message: "Analysis complete! Prompts saved to /tmp/out.json",
		},
		{
			name:    "analyze non-zero exit",
			kind:    job.Analyze,
			in:      classify.Result{Status: classify.Failure, Reason: classify.NonZeroExit, ExitCode: 2, Diagnostic: "process exited with code 2"},
			level:   LevelError,
			message: "Analysis failed: process exited with code 2",
		},
		{
			name:    "analyze empty output",
			kind:    job.Analyze,
			in:      classify.Result{Status: classify.EmptySuccess, Reason: classify.EmptyPayload},
			level:   LevelInfo,
			message: "Analyze Codebase finished but produced no output.",
		},
		{
			name:    "visualize failure shows stderr",
			kind:    job.Visualize,
			in:      classify.Result{Status: classify.Failure, Reason: classify.DiagnosticPresent, Diagnostic: "warning: x\n"},
			level:   LevelError,
			message: "Visualization failed: warning: x",
		},
		{
			name:    "visualize failure without stderr gets fallback text",
			kind:    job.Visualize,
			in:      classify.Result{Status: classify.Failure, Reason: classify.EmptyPayload},
			level:   LevelError,
			message: "Visualization failed: process produced no output",
		},
		{
			name:    "gentests success appends stdout",
			kind:    job.GenerateTests,
			in:      classify.Result{Status: classify.Success, Payload: "Generated 5 tests"},
			level:   LevelInfo,
			message: "Generated tests successfully! Generated 5 tests",
		},
		{
			name:    "gentests stderr failure",
			kind:    job.GenerateTests,
			in:      classify.Result{Status: classify.Failure, Reason: classify.DiagnosticPresent, Diagnostic: "Fatal error processing file x.py"},
			level:   LevelError,
			message: "Test generation failed: Fatal error processing file x.py",
		},
		{
			name:    "start failure",
			kind:    job.GenerateTests,
			in:      classify.Result{Status: classify.Failure, Reason: classify.ProcessStartFailure, ExitCode: 127, Diagnostic: "failed to start process 'py': not found"},
			level:   LevelError,
			message: "Test generation failed: failed to start process 'py': not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := FromResult(tt.kind, tt.in)
			assert.Equal(t, tt.kind, v.Command)
			assert.Equal(t, tt.level, v.Level)
			assert.Equal(t, tt.message, v.Message)
			require.NotNil(t, v.Result)
			assert.Equal(t, tt.in, *v.Result)
		})
	}
}

func TestFromResult_VisualizePanelKeepsMarkupVerbatim(t *testing.T) {
	markup := "graph TD;\n  A[\"<b>x</b>\"]-->B;\n"
	v := FromResult(job.Visualize, classify.Result{Status: classify.Success, Payload: markup})

	assert.Equal(t, KindPanel, v.Kind)
	assert.Equal(t, "Architecture diagram created successfully!", v.Message)
	require.NotNil(t, v.Panel)
	assert.Equal(t, markup, v.Panel.Markup)
	assert.Equal(t, ArchitecturePanelTitle, v.Panel.Title)
	assert.Equal(t, ArchitecturePanelID, v.Panel.ID)
	assert.InDelta(t, 1.0, v.Panel.Zoom.Scale(), 1e-9)
}

func TestFromResult_FailureHasNoPanel(t *testing.T) {
	v := FromResult(job.Visualize, classify.Result{Status: classify.Failure, Diagnostic: "boom"})
	assert.Nil(t, v.Panel)
	assert.Equal(t, KindNotification, v.Kind)
	assert.True(t, v.IsError())
}

func TestFromResult_MarksTruncation(t *testing.T) {
	v := FromResult(job.GenerateTests, classify.Result{Status: classify.Success, Payload: "ok", Truncated: true})
	assert.Equal(t, "Generated tests successfully! ok (output truncated)", v.Message)
}

func TestNoSelectionAndBusy(t *testing.T) {
	v := NoSelection(job.Analyze)
	assert.Equal(t, "No folder selected.", v.Message)
	assert.False(t, v.IsError())
	require.NotNil(t, v.Result)
	assert.Equal(t, classify.SelectionAborted, v.Result.Reason)

	b := Busy(job.Visualize)
	assert.False(t, b.IsError())
	assert.Contains(t, b.Message, "already running")
}

func TestInterimViews(t *testing.T) {
	assert.Equal(t, "Selected folder: /repo. Starting analysis...", StartNotice(job.Analyze, "/repo").Message)

	d := LiveDiagnostic(job.Analyze, "Traceback")
	assert.True(t, d.IsError())
	assert.Equal(t, "Python Error: Traceback", d.Message)

	assert.Equal(t, "LegacyLens: Visualizing architecture...", ProgressTitle(job.Visualize))
	assert.Equal(t, "LegacyLens: Generating unit tests...", ProgressTitle(job.GenerateTests))
	assert.Empty(t, ProgressTitle(job.Analyze))
}
