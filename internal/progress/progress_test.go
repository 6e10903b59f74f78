package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_DisabledForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, true)

	assert.False(t, s.Enabled())
	ind := s.Start("LegacyLens: Visualizing architecture...")
	ind.Stop()
	assert.Empty(t, buf.String())
}

func TestStart_EmptyTitleIsNoop(t *testing.T) {
	s := &Spinner{w: &bytes.Buffer{}, enabled: true}
	_, ok := s.Start("").(noop)
	assert.True(t, ok)
}
