//go:build mage

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/magefile/mage/mg"

	"github.com/dkoosis/lens/internal/version"
	"github.com/dkoosis/lens/pkg/collect"
	"github.com/dkoosis/lens/pkg/job"
)

// Default target - build the binary
var Default = Build

var runner = job.NewExecRunner(0, nil)

// step runs one tool through lens's own job runner, streaming its output.
func step(title, exe string, args ...string) error {
	fmt.Printf("▶ %s\n", title)
	j := job.Job{ID: title, Executable: exe, Args: args}
	out := runner.Run(context.Background(), j, func(stream collect.Stream, chunk string) {
		if stream == collect.Stderr {
			fmt.Fprint(os.Stderr, chunk)
			return
		}
		fmt.Print(chunk)
	})
	if out.StartErr != nil {
		return out.StartErr
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("%s: exit code %d", title, out.ExitCode)
	}
	return nil
}

// Build builds the lens binary into bin/.
func Build() error {
	ldflags := strings.Join([]string{
		"-X github.com/dkoosis/lens/internal/version.Version=" + envOr("LENS_VERSION", version.Version),
		"-X github.com/dkoosis/lens/internal/version.CommitHash=" + envOr("LENS_COMMIT", version.CommitHash),
	}, " ")
	return step("Build", "go", "build", "-ldflags", ldflags, "-o", "bin/lens", "./cmd/lens")
}

// Test runs the unit tests with the race detector.
func Test() error {
	return step("Test", "go", "test", "-race", "./...")
}

// Lint runs go vet and, when installed, golangci-lint.
func Lint() error {
	if err := step("Go Vet", "go", "vet", "./..."); err != nil {
		return err
	}
	err := step("Golangci-lint", "golangci-lint", "run", "--timeout=5m", "./...")
	if err != nil && isNotFound(err) {
		fmt.Println("⚠ golangci-lint not found (install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest)")
		return nil
	}
	return err
}

// QA runs lint and tests.
func QA() {
	mg.SerialDeps(Lint, Test)
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll("bin")
}

func isNotFound(err error) bool {
	return strings.Contains(err.Error(), "not found")
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
