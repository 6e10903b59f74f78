package job

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedID() string { return "job-1" }

func TestInvoker_Build_UsesDefaultInterpreterAndScript(t *testing.T) {
	inv := NewInvoker("", "", "/opt/lens/scripts", nil)
	inv.newID = fixedID

	j := inv.Build(Analyze, "/work/repo")

	assert.Equal(t, "job-1", j.ID)
	assert.Equal(t, Analyze, j.Kind)
	assert.Equal(t, "/work/repo", j.Target)
	assert.Equal(t, DefaultInterpreter, j.Executable)
	assert.Equal(t, []string{filepath.Join("/opt/lens/scripts", "analyze.py"), "/work/repo"}, j.Args)
}

func TestInvoker_Build_GenerateTestsUsesAlternateInterpreter(t *testing.T) {
	inv := NewInvoker("python3", "", "/s", nil)

	visualize := inv.Build(Visualize, "/repo")
	tests := inv.Build(GenerateTests, "/repo")

	assert.Equal(t, "python3", visualize.Executable)
	assert.Equal(t, DefaultTestsInterpreter, tests.Executable)
	assert.Equal(t, filepath.Join("/s", "test_gen.py"), tests.Args[0])
}

func TestInvoker_Build_TargetIsSolePositionalArgument(t *testing.T) {
	inv := NewInvoker("python", "python2", "/s", nil)

	for _, kind := range Kinds() {
		j := inv.Build(kind, "/path with spaces/repo")
		require.Len(t, j.Args, 2, kind.String())
		assert.Equal(t, "/path with spaces/repo", j.Args[1])
	}
}

func TestInvoker_Build_ScriptOverrides(t *testing.T) {
	inv := NewInvoker("", "", "/s", map[Kind]string{
		Visualize: "/abs/diagram.py",
		Analyze:   "summary.py",
	})

	assert.Equal(t, "/abs/diagram.py", inv.Build(Visualize, "/r").Args[0])
	assert.Equal(t, filepath.Join("/s", "summary.py"), inv.Build(Analyze, "/r").Args[0])
	assert.Equal(t, filepath.Join("/s", "test_gen.py"), inv.Build(GenerateTests, "/r").Args[0])
}

func TestInvoker_Build_GeneratesDistinctIDs(t *testing.T) {
	inv := NewInvoker("", "", "", nil)
	a := inv.Build(Analyze, "/r")
	b := inv.Build(Analyze, "/r")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"analyze", Analyze},
		{"Visualize", Visualize},
		{"gentests", GenerateTests},
		{"generate-tests", GenerateTests},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseKind("refactor")
	assert.Error(t, err)
}

func TestKind_JSONUsesName(t *testing.T) {
	data, err := json.Marshal(Job{Kind: GenerateTests})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"gentests"`)

	var j Job
	require.NoError(t, json.Unmarshal(data, &j))
	assert.Equal(t, GenerateTests, j.Kind)
}

func TestJob_CommandLine(t *testing.T) {
	j := Job{Executable: "python", Args: []string{"visualize.py", "/repo"}}
	assert.Equal(t, "python visualize.py /repo", j.CommandLine())
}
