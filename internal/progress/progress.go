// Package progress shows a non-cancellable spinner while a long command
// runs. It stays silent when the output is not a terminal.
package progress

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// Indicator is a started progress display.
type Indicator interface {
	Stop()
}

// Spinner starts spinners on a terminal writer.
type Spinner struct {
	w       io.Writer
	enabled bool
}

// New returns a Spinner writing to w. It is enabled only when w is a
// terminal and enabled is true (callers pass false for CI or machine formats).
func New(w io.Writer, enabled bool) *Spinner {
	return &Spinner{w: w, enabled: enabled && isTerminal(w)}
}

// Enabled reports whether Start will draw anything.
func (s *Spinner) Enabled() bool {
	return s.enabled
}

// Start shows title until the returned indicator is stopped.
func (s *Spinner) Start(title string) Indicator {
	if !s.enabled || title == "" {
		return noop{}
	}
	sp := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(s.w))
	sp.Suffix = " " + title
	sp.Start()
	return sp
}

type noop struct{}

func (noop) Stop() {}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
