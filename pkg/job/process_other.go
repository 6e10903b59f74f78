//go:build !unix

package job

import "os/exec"

// setProcessGroup is a no-op without process group support.
func setProcessGroup(cmd *exec.Cmd) {}

// killProcessGroup kills the job process directly.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

// exitCodeFromError uses ProcessState.ExitCode, available on every platform.
func exitCodeFromError(exitErr *exec.ExitError) (int, bool) {
	if exitErr.ProcessState != nil {
		return exitErr.ProcessState.ExitCode(), true
	}
	return 0, false
}
