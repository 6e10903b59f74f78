package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dkoosis/lens/pkg/collect"
)

// SignalTimeout bounds how long Wait lingers on inherited pipes after the
// process group has been killed.
const SignalTimeout = 2 * time.Second

// ErrStart wraps failures to launch the external program.
// Use errors.Is(outcome.StartErr, ErrStart) to detect them.
var ErrStart = errors.New("failed to start process")

// Runner executes a Job to completion. Implementations never return a
// synchronous error: a job that cannot start yields an Outcome whose
// StartErr is set. onChunk may be nil.
type Runner interface {
	Run(ctx context.Context, j Job, onChunk collect.ChunkFunc) collect.Outcome
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, j Job, onChunk collect.ChunkFunc) collect.Outcome

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, j Job, onChunk collect.ChunkFunc) collect.Outcome {
	return f(ctx, j, onChunk)
}

// ExecRunner runs jobs as operating-system processes.
type ExecRunner struct {
	MaxBufferSize int64
	Logger        *zap.Logger
}

// NewExecRunner returns a runner capping each stream at maxBufferSize bytes.
func NewExecRunner(maxBufferSize int64, logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{MaxBufferSize: maxBufferSize, Logger: logger}
}

// Run starts the process, drains both streams until they close and only
// then waits for the exit status, so every chunk is delivered before the
// exit code is known.
func (r *ExecRunner) Run(ctx context.Context, j Job, onChunk collect.ChunkFunc) collect.Outcome {
	log := r.logger().With(zap.String("job", j.ID), zap.Stringer("kind", j.Kind))
	col := collect.New(r.MaxBufferSize, onChunk)

	cmd := exec.CommandContext(ctx, j.Executable, j.Args...)
	cmd.Env = os.Environ()
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }
	cmd.WaitDelay = SignalTimeout

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return col.Finalize(1, fmt.Errorf("%w: creating stdout pipe: %w", ErrStart, err))
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		_ = stdoutPipe.Close()
		return col.Finalize(1, fmt.Errorf("%w: creating stderr pipe: %w", ErrStart, err))
	}

	start := time.Now()
	log.Debug("starting job", zap.String("command", j.CommandLine()))
	if err := cmd.Start(); err != nil {
		code := exitCode(err)
		log.Warn("job failed to start", zap.Error(err), zap.Int("exit_code", code))
		return col.Finalize(code, fmt.Errorf("%w '%s': %w", ErrStart, j.Executable, err))
	}

	if drainErr := col.Drain(stdoutPipe, stderrPipe); drainErr != nil {
		log.Warn("error reading job output", zap.Error(drainErr))
	}
	waitErr := cmd.Wait()
	code := exitCode(waitErr)

	out := col.Finalize(code, nil)
	log.Debug("job finished",
		zap.Int("exit_code", code),
		zap.Duration("duration", time.Since(start)),
		zap.Int("stdout_bytes", len(out.Stdout)),
		zap.Int("stderr_bytes", len(out.Stderr)))
	if out.Truncated() {
		log.Warn("job output truncated",
			zap.Int64("max_buffer_size", r.MaxBufferSize),
			zap.Int64("stdout_dropped", col.Dropped(collect.Stdout)),
			zap.Int64("stderr_dropped", col.Dropped(collect.Stderr)))
	}
	return out
}

func (r *ExecRunner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// exitCode maps a Start or Wait error to a shell-style exit code:
// 0 on success, the process status for exit errors, 127 when the
// executable does not exist and 1 otherwise.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code, ok := exitCodeFromError(exitErr); ok {
			return code
		}
		return 1
	}

	if isCommandNotFoundError(err) {
		return 127
	}
	return 1
}

// isCommandNotFoundError checks if the error indicates the executable was
// not found.
func isCommandNotFoundError(err error) bool {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return true
	}
	errStr := err.Error()
	if strings.Contains(errStr, "executable file not found") {
		return true
	}
	if runtime.GOOS != "windows" && strings.Contains(errStr, "no such file or directory") {
		return true
	}
	return false
}
