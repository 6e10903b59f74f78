//go:build unix

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- End-to-end tests ---
// These exercise the full pipeline: args → config → job → classify → render → stdout.
// Scripts are shell files run with sh as the interpreter.

func setup(t *testing.T, scripts map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, name := range []string{"LENS_INTERPRETER", "LENS_FORMAT", "LENS_PANEL", "LENS_DEBUG", "NO_COLOR", "CI"} {
		t.Setenv(name, "")
	}
	for name, body := range scripts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func lens(t *testing.T, dir string, args ...string) (int, string, string) {
	t.Helper()
	base := []string{"--interpreter", "sh", "--tests-interpreter", "sh", "--script-dir", dir, "--panel", "none"}
	var stdout, stderr bytes.Buffer
	code := run(append(args, base...), strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestJTBD_AnalyzeReportsPromptFile(t *testing.T) {
	dir := setup(t, map[string]string{
		"analyze.py": `echo "scanning $1"; echo "Error processing file a.py" >&2; echo /tmp/prompts.md`,
	})

	code, out, _ := lens(t, dir, "analyze", "/repo", "--format", "plain")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "INFO analyze: Selected folder: /repo. Starting analysis...")
	assert.Contains(t, out, "ERROR analyze: Python Error: Error processing file a.py")
	assert.Contains(t, out, "INFO analyze: Analysis complete! Prompts saved to /tmp/prompts.md")
	assert.NotContains(t, out, "\033[")
}

func TestJTBD_AnalyzeNonZeroExitFails(t *testing.T) {
	dir := setup(t, map[string]string{"analyze.py": `echo /tmp/out.json; exit 2`})

	code, out, _ := lens(t, dir, "analyze", "/repo", "--format", "plain")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Analysis failed: process exited with code 2")
}

func TestJTBD_VisualizePrintsDiagram(t *testing.T) {
	dir := setup(t, map[string]string{"visualize.py": `printf 'graph TD; A-->B;'`})

	code, out, _ := lens(t, dir, "visualize", "/repo", "--format", "plain")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Architecture diagram created successfully!")
	assert.Contains(t, out, "graph TD; A-->B;")
}

func TestJTBD_VisualizeStderrFails(t *testing.T) {
	dir := setup(t, map[string]string{"visualize.py": `printf 'graph TD;'; printf 'warning: x' >&2`})

	code, out, _ := lens(t, dir, "visualize", "/repo", "--format", "plain")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Visualization failed: warning: x")
}

func TestJTBD_VisualizeWritesHTMLPanel(t *testing.T) {
	dir := setup(t, map[string]string{"visualize.py": `printf 'graph TD; A-->B;'`})
	htmlPath := filepath.Join(dir, "out", "arch.html")

	code, _, _ := lens(t, dir, "visualize", "/repo", "--format", "plain", "--html-out", htmlPath)

	require.Equal(t, 0, code)
	doc, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "A--&gt;B;")
	assert.Contains(t, string(doc), "Content-Security-Policy")
}

func TestJTBD_GenerateTestsJSON(t *testing.T) {
	dir := setup(t, map[string]string{"test_gen.py": `echo "Generated 5 tests"`})

	code, out, _ := lens(t, dir, "gentests", "/repo", "--format", "json")

	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	var v struct {
		Command string `json:"command"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &v))
	assert.Equal(t, "gentests", v.Command)
	assert.Contains(t, v.Message, "Generated 5 tests")
}

func TestJTBD_NoFolderWithoutTerminal(t *testing.T) {
	dir := setup(t, nil)

	code, out, _ := lens(t, dir, "visualize", "--format", "plain")

	assert.Equal(t, 0, code)
	assert.Equal(t, "INFO visualize: No folder selected.\n", out)
}

func TestJTBD_MissingInterpreterFails(t *testing.T) {
	dir := setup(t, nil)

	var stdout, stderr bytes.Buffer
	code := run([]string{"analyze", "/repo", "--format", "plain", "--interpreter", "nonexistent_interpreter_12345",
		"--script-dir", dir}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Analysis failed: failed to start process")
}

func TestRun_UsageErrors(t *testing.T) {
	setup(t, nil)
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"unknown flag", []string{"analyze", "--bogus"}},
		{"too many args", []string{"analyze", "a", "b"}},
		{"bad format", []string{"analyze", "/repo", "--format", "xml"}},
		{"bad panel", []string{"visualize", "/repo", "--panel", "popup"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, strings.NewReader(""), &stdout, &stderr)
			assert.Equal(t, 2, code)
			assert.Contains(t, stderr.String(), "lens:")
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"version"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout.String(), "lens "))
}

func TestResolveFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, "plain", resolveFormat("auto", &buf))
	assert.Equal(t, "json", resolveFormat("json", &buf))
}
