package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"LENS_INTERPRETER", "LENS_TESTS_INTERPRETER", "LENS_SCRIPT_DIR", "LENS_FORMAT",
		"LENS_THEME", "LENS_PANEL", "LENS_MERMAID_URL", "LENS_MAX_BUFFER_SIZE",
		"LENS_NO_COLOR", "NO_COLOR", "LENS_CI", "CI", "LENS_DEBUG",
	} {
		t.Setenv(name, "")
	}
}

func TestResolveConfig_Priority(t *testing.T) {
	tempDir := isolate(t)
	clearEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".lens.yaml"),
		[]byte("interpreter: file-python\nformat: yaml\nno_color: false\n"), 0o600))

	r, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, "file-python", r.Interpreter)
	assert.Equal(t, "file", r.InterpreterSource)
	assert.Equal(t, ".lens.yaml", r.File)

	t.Setenv("LENS_INTERPRETER", "env-python")
	r, err = ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, "env-python", r.Interpreter)
	assert.Equal(t, "env", r.InterpreterSource)

	r, err = ResolveConfig(CliFlags{Interpreter: "cli-python", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, "cli-python", r.Interpreter)
	assert.Equal(t, "cli", r.InterpreterSource)
	assert.Equal(t, "json", r.Format)
}

func TestResolveConfig_NoColor(t *testing.T) {
	isolate(t)
	clearEnv(t)

	r, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.False(t, r.NoColor)
	assert.Equal(t, "default", r.NoColorSource)

	t.Setenv("NO_COLOR", "yes-please")
	r, err = ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.True(t, r.NoColor)
	assert.Equal(t, "env", r.NoColorSource)

	r, err = ResolveConfig(CliFlags{NoColor: false, NoColorSet: true})
	require.NoError(t, err)
	assert.False(t, r.NoColor)
	assert.Equal(t, "cli", r.NoColorSource)
}

func TestResolveConfig_CIImpliesNoColor(t *testing.T) {
	isolate(t)
	clearEnv(t)
	t.Setenv("CI", "true")

	r, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.True(t, r.CI)
	assert.True(t, r.NoColor)
}

func TestResolveConfig_MaxBufferSize(t *testing.T) {
	isolate(t)
	clearEnv(t)
	t.Setenv("LENS_MAX_BUFFER_SIZE", "4096")

	r, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, int64(4096), r.MaxBufferSize)

	r, err = ResolveConfig(CliFlags{MaxBufferSize: 10, MaxBufferSizeSet: true})
	require.NoError(t, err)
	assert.Equal(t, int64(10), r.MaxBufferSize)

	t.Setenv("LENS_MAX_BUFFER_SIZE", "lots")
	_, err = ResolveConfig(CliFlags{})
	assert.ErrorContains(t, err, "LENS_MAX_BUFFER_SIZE")
}

func TestResolveConfig_InvalidFlagValue(t *testing.T) {
	isolate(t)
	clearEnv(t)

	_, err := ResolveConfig(CliFlags{Panel: "popup"})
	assert.ErrorContains(t, err, "panel")
}

func TestResolveConfig_Debug(t *testing.T) {
	isolate(t)
	clearEnv(t)
	t.Setenv("LENS_DEBUG", "1")

	r, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.True(t, r.Debug)

	r, err = ResolveConfig(CliFlags{Debug: false, DebugSet: true})
	require.NoError(t, err)
	assert.False(t, r.Debug)

	for _, v := range []string{"false", "0", "yes-please"} {
		t.Setenv("LENS_DEBUG", v)
		r, err = ResolveConfig(CliFlags{})
		require.NoError(t, err)
		assert.False(t, r.Debug, "LENS_DEBUG=%s", v)
	}
}
