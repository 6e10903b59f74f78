// Package job builds and runs the external analysis programs behind each
// lens command.
package job

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Kind is one of the analysis commands lens can run.
type Kind int

const (
	Analyze Kind = iota + 1
	Visualize
	GenerateTests
)

var kindNames = map[Kind]string{
	Analyze:       "analyze",
	Visualize:     "visualize",
	GenerateTests: "gentests",
}

var kindTitles = map[Kind]string{
	Analyze:       "Analyze Codebase",
	Visualize:     "Visualize Architecture",
	GenerateTests: "Generate Tests",
}

// Kinds returns every command kind in menu order.
func Kinds() []Kind {
	return []Kind{Analyze, Visualize, GenerateTests}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Title is the user-facing command name.
func (k Kind) Title() string {
	if title, ok := kindTitles[k]; ok {
		return title
	}
	return k.String()
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind by name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind resolves a command name. "generate-tests" and "test" are
// accepted as aliases for gentests.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "analyze", "analyse":
		return Analyze, nil
	case "visualize", "visualise":
		return Visualize, nil
	case "gentests", "generate-tests", "test":
		return GenerateTests, nil
	}
	return 0, fmt.Errorf("unknown command kind %q", s)
}

// Job is one invocation of an external analysis program against a folder.
// It is built per invocation and never mutated.
type Job struct {
	ID         string   `json:"id" yaml:"id"`
	Kind       Kind     `json:"kind" yaml:"kind"`
	Target     string   `json:"target" yaml:"target"`
	Executable string   `json:"executable" yaml:"executable"`
	Args       []string `json:"args" yaml:"args"`
}

// CommandLine renders the invocation for logs and debug output.
func (j Job) CommandLine() string {
	parts := append([]string{j.Executable}, j.Args...)
	return strings.Join(parts, " ")
}

// Defaults for the script contract: <interpreter> <script> <folder>.
const (
	DefaultInterpreter = "python"

	// DefaultTestsInterpreter is the Python 2 executable the test generator
	// needs; the other commands use DefaultInterpreter.
	DefaultTestsInterpreter = `C:\Python27\python.exe`
)

// DefaultScripts returns the script file name for each kind.
func DefaultScripts() map[Kind]string {
	return map[Kind]string{
		Analyze:       "analyze.py",
		Visualize:     "visualize.py",
		GenerateTests: "test_gen.py",
	}
}

// Invoker maps a command kind and target folder to a Job.
type Invoker struct {
	Interpreter      string
	TestsInterpreter string
	ScriptDir        string
	Scripts          map[Kind]string

	newID func() string
}

// NewInvoker returns an Invoker, filling empty settings with defaults.
func NewInvoker(interpreter, testsInterpreter, scriptDir string, scripts map[Kind]string) *Invoker {
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}
	if testsInterpreter == "" {
		testsInterpreter = DefaultTestsInterpreter
	}
	merged := DefaultScripts()
	for k, v := range scripts {
		if v != "" {
			merged[k] = v
		}
	}
	return &Invoker{
		Interpreter:      interpreter,
		TestsInterpreter: testsInterpreter,
		ScriptDir:        scriptDir,
		Scripts:          merged,
		newID:            uuid.NewString,
	}
}

// Build returns the job for kind against target. It never fails: a bad
// executable or script path surfaces when the job is run.
func (i *Invoker) Build(kind Kind, target string) Job {
	executable := i.Interpreter
	if kind == GenerateTests {
		executable = i.TestsInterpreter
	}

	script := i.Scripts[kind]
	if script != "" && !filepath.IsAbs(script) && i.ScriptDir != "" {
		script = filepath.Join(i.ScriptDir, script)
	}

	newID := i.newID
	if newID == nil {
		newID = uuid.NewString
	}

	return Job{
		ID:         newID(),
		Kind:       kind,
		Target:     target,
		Executable: executable,
		Args:       []string{script, target},
	}
}
