package config

import (
	"fmt"
	"os"
	"strconv"
)

// CliFlags holds the values of command-line flags.
type CliFlags struct {
	ConfigPath       string
	Interpreter      string
	TestsInterpreter string
	ScriptDir        string
	Format           string
	Theme            string
	Panel            string
	MermaidURL       string
	HTMLOut          string
	ExportSVG        string
	MaxBufferSize    int64
	NoColor          bool
	Debug            bool

	// Flags to track if they were explicitly set by the user
	NoColorSet       bool
	DebugSet         bool
	MaxBufferSizeSet bool
}

// ResolvedConfig holds the final configuration after applying all priority
// rules, with the source of the values most likely to surprise a user.
type ResolvedConfig struct {
	*AppConfig

	// File is the config file that was loaded, or "".
	File string

	NoColorSource     string // "cli", "env", "file", "default"
	InterpreterSource string // "cli", "env", "file", "default"
	FormatSource      string // "cli", "env", "file", "default"
}

// ResolveConfig resolves configuration from all sources with explicit
// priority order: CLI > environment > file > defaults.
func ResolveConfig(cli CliFlags) (*ResolvedConfig, error) {
	appCfg, file, err := LoadConfig(cli.ConfigPath)
	if err != nil {
		return nil, err
	}
	src := "default"
	if file != "" {
		src = "file"
	}
	r := &ResolvedConfig{
		AppConfig:         appCfg,
		File:              file,
		NoColorSource:     src,
		InterpreterSource: src,
		FormatSource:      src,
	}

	if err := r.applyEnv(); err != nil {
		return nil, err
	}
	r.applyFlags(cli)

	if r.CI {
		r.NoColor = true
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ResolvedConfig) applyEnv() error {
	if v := os.Getenv("LENS_INTERPRETER"); v != "" {
		r.Interpreter = v
		r.InterpreterSource = "env"
	}
	setString(&r.TestsInterpreter, os.Getenv("LENS_TESTS_INTERPRETER"))
	setString(&r.ScriptDir, os.Getenv("LENS_SCRIPT_DIR"))
	setString(&r.Theme, os.Getenv("LENS_THEME"))
	setString(&r.Panel, os.Getenv("LENS_PANEL"))
	setString(&r.MermaidURL, os.Getenv("LENS_MERMAID_URL"))
	if v := os.Getenv("LENS_FORMAT"); v != "" {
		r.Format = v
		r.FormatSource = "env"
	}
	if v := os.Getenv("LENS_MAX_BUFFER_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("LENS_MAX_BUFFER_SIZE %q: %w", v, err)
		}
		r.MaxBufferSize = n
	}
	if b := getEnvBool("LENS_NO_COLOR", "NO_COLOR"); b != nil {
		r.NoColor = *b
		r.NoColorSource = "env"
	}
	if b := getEnvBool("LENS_CI", "CI"); b != nil {
		r.CI = *b
	}
	if b := getEnvBool("LENS_DEBUG"); b != nil {
		r.Debug = *b
	}
	return nil
}

func (r *ResolvedConfig) applyFlags(cli CliFlags) {
	if cli.Interpreter != "" {
		r.Interpreter = cli.Interpreter
		r.InterpreterSource = "cli"
	}
	if cli.Format != "" {
		r.Format = cli.Format
		r.FormatSource = "cli"
	}
	setString(&r.TestsInterpreter, cli.TestsInterpreter)
	setString(&r.ScriptDir, cli.ScriptDir)
	setString(&r.Theme, cli.Theme)
	setString(&r.Panel, cli.Panel)
	setString(&r.MermaidURL, cli.MermaidURL)
	setString(&r.HTMLOut, cli.HTMLOut)
	setString(&r.ExportSVG, cli.ExportSVG)
	if cli.MaxBufferSizeSet {
		r.MaxBufferSize = cli.MaxBufferSize
	}
	if cli.NoColorSet {
		r.NoColor = cli.NoColor
		r.NoColorSource = "cli"
	}
	if cli.DebugSet {
		r.Debug = cli.Debug
	}
}

// getEnvBool returns the first parseable boolean among the named variables.
// NO_COLOR follows no-color.org: any non-empty value that is not a boolean
// still counts as set.
func getEnvBool(names ...string) *bool {
	for _, name := range names {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			if name != "NO_COLOR" {
				continue
			}
			b = true
		}
		return &b
	}
	return nil
}
