package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/lens/pkg/collect"
	"github.com/dkoosis/lens/pkg/job"
)

// Config file names, checked in order within each directory.
var configNames = []string{".lens.yaml", ".lens.yml", ".lens.toml"}

// Panel modes.
const (
	PanelTUI  = "tui"
	PanelHTML = "html"
	PanelNone = "none"
)

// Constants for default values.
const (
	DefaultFormat = "auto"
	DefaultTheme  = "default"
	DefaultPanel  = PanelTUI
)

// Scripts maps each command to its script path.
type Scripts struct {
	Analyze   string `yaml:"analyze,omitempty" toml:"analyze"`
	Visualize string `yaml:"visualize,omitempty" toml:"visualize"`
	GenTests  string `yaml:"gentests,omitempty" toml:"gentests"`
}

// AppConfig represents the application's configuration file.
type AppConfig struct {
	Interpreter      string  `yaml:"interpreter,omitempty" toml:"interpreter"`
	TestsInterpreter string  `yaml:"tests_interpreter,omitempty" toml:"tests_interpreter"`
	ScriptDir        string  `yaml:"script_dir,omitempty" toml:"script_dir"`
	Scripts          Scripts `yaml:"scripts,omitempty" toml:"scripts"`
	MaxBufferSize    int64   `yaml:"max_buffer_size,omitempty" toml:"max_buffer_size"` // In bytes
	Theme            string  `yaml:"theme,omitempty" toml:"theme"`
	NoColor          bool    `yaml:"no_color" toml:"no_color"`
	CI               bool    `yaml:"ci" toml:"ci"`
	Debug            bool    `yaml:"debug" toml:"debug"`
	Format           string  `yaml:"format,omitempty" toml:"format"`
	MermaidURL       string  `yaml:"mermaid_url,omitempty" toml:"mermaid_url"`
	Panel            string  `yaml:"panel,omitempty" toml:"panel"`
	HTMLOut          string  `yaml:"html_out,omitempty" toml:"html_out"`
	ExportSVG        string  `yaml:"export_svg,omitempty" toml:"export_svg"`
	BrowserBin       string  `yaml:"browser_bin,omitempty" toml:"browser_bin"`
}

// Defaults returns the hardcoded configuration.
func Defaults() *AppConfig {
	d := job.DefaultScripts()
	return &AppConfig{
		Interpreter:      job.DefaultInterpreter,
		TestsInterpreter: job.DefaultTestsInterpreter,
		Scripts: Scripts{
			Analyze:   d[job.Analyze],
			Visualize: d[job.Visualize],
			GenTests:  d[job.GenerateTests],
		},
		MaxBufferSize: collect.DefaultMaxBufferSize,
		Theme:         DefaultTheme,
		Format:        DefaultFormat,
		Panel:         DefaultPanel,
	}
}

// LoadConfig reads the config file at path onto the defaults. An empty
// path triggers discovery; finding no file is not an error. The returned
// string is the file that was used, or "".
func LoadConfig(path string) (*AppConfig, string, error) {
	cfg := Defaults()
	if path == "" {
		path = getConfigPath()
		if path == "" {
			return cfg, "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, path, fmt.Errorf("read config %s: %w", path, err)
	}

	var fileCfg AppConfig
	if err := unmarshal(path, data, &fileCfg); err != nil {
		return cfg, path, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.merge(&fileCfg)
	if err := cfg.Validate(); err != nil {
		return cfg, path, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, path, nil
}

func unmarshal(path string, data []byte, into *AppConfig) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), into)
		return err
	}
	return yaml.Unmarshal(data, into)
}

// merge overlays the non-zero fields of other.
func (c *AppConfig) merge(other *AppConfig) {
	setString(&c.Interpreter, other.Interpreter)
	setString(&c.TestsInterpreter, other.TestsInterpreter)
	setString(&c.ScriptDir, other.ScriptDir)
	setString(&c.Scripts.Analyze, other.Scripts.Analyze)
	setString(&c.Scripts.Visualize, other.Scripts.Visualize)
	setString(&c.Scripts.GenTests, other.Scripts.GenTests)
	setString(&c.Theme, other.Theme)
	setString(&c.Format, other.Format)
	setString(&c.MermaidURL, other.MermaidURL)
	setString(&c.Panel, other.Panel)
	setString(&c.HTMLOut, other.HTMLOut)
	setString(&c.ExportSVG, other.ExportSVG)
	setString(&c.BrowserBin, other.BrowserBin)
	if other.MaxBufferSize > 0 {
		c.MaxBufferSize = other.MaxBufferSize
	}
	c.NoColor = c.NoColor || other.NoColor
	c.CI = c.CI || other.CI
	c.Debug = c.Debug || other.Debug
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate rejects values no component can act on.
func (c *AppConfig) Validate() error {
	var errs []error
	switch c.Panel {
	case PanelTUI, PanelHTML, PanelNone:
	default:
		errs = append(errs, fmt.Errorf("panel %q: want tui, html or none", c.Panel))
	}
	switch c.Format {
	case "auto", "terminal", "plain", "json", "yaml":
	default:
		errs = append(errs, fmt.Errorf("format %q: want auto, terminal, plain, json or yaml", c.Format))
	}
	if c.MaxBufferSize < 0 {
		errs = append(errs, fmt.Errorf("max_buffer_size %d: must not be negative", c.MaxBufferSize))
	}
	if c.Interpreter == "" {
		errs = append(errs, errors.New("interpreter: must not be empty"))
	}
	return errors.Join(errs...)
}

// ScriptMap returns the per-command scripts keyed by job kind.
func (c *AppConfig) ScriptMap() map[job.Kind]string {
	return map[job.Kind]string{
		job.Analyze:       c.Scripts.Analyze,
		job.Visualize:     c.Scripts.Visualize,
		job.GenerateTests: c.Scripts.GenTests,
	}
}

// ResolvedScriptDir returns script_dir, or the directory holding the running
// executable when it is unset.
func (c *AppConfig) ResolvedScriptDir() string {
	if c.ScriptDir != "" {
		return c.ScriptDir
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// getConfigPath tries to find a config file.
// It checks the local directory first, then the user config dir.
func getConfigPath() string {
	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}

	configHome, err := os.UserConfigDir()
	// An empty or root config dir is not a usable base.
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	for _, name := range configNames {
		p := filepath.Join(configHome, "lens", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
