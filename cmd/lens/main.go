// lens runs LegacyLens analysis scripts against a codebase folder and
// reports the result as a notification or an architecture diagram panel.
//
// Usage:
//
//	lens analyze   [folder]   # write LLM prompts for the codebase
//	lens visualize [folder]   # render a mermaid architecture diagram
//	lens gentests  [folder]   # generate unit tests
//
// Without a folder argument an interactive folder picker opens when stdin
// and stdout are terminals.
//
// Output modes (auto-detected):
//
//	terminal  styled notifications and an interactive diagram viewer (TTY)
//	plain     unstyled text (default when piped)
//	json      one JSON object per view
//	yaml      one YAML document per view
//
// Exit codes: 0 success, 1 the command reported a failure, 2 usage or
// configuration error.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/term"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// usageError marks errors that should exit 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "lens: %v\n", err)
		var ue usageError
		if errors.As(err, &ue) || a.code == 0 {
			return 2
		}
	}
	return a.code
}

// isTTY reports whether v is a terminal.
func isTTY(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width for w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}

// resolveFormat maps "auto" to terminal for a TTY and plain otherwise.
func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	if isTTY(w) {
		return "terminal"
	}
	return "plain"
}
