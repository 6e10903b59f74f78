package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew_DefaultLevelIsWarn(t *testing.T) {
	var buf bytes.Buffer
	log := New(false, &buf)

	log.Info("hidden")
	log.Warn("shown", zap.String("job", "j1"))
	_ = log.Sync()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"job":"j1"`)
	assert.Contains(t, out, `"logger":"lens"`)
}

func TestNew_DebugUsesConsoleEncoding(t *testing.T) {
	var buf bytes.Buffer
	log := New(true, &buf)

	log.Debug("starting job", zap.String("kind", "visualize"))
	_ = log.Sync()

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "starting job")
	assert.Contains(t, out, `"kind": "visualize"`)
}
