package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML_EscapesMarkupAndSetsCSP(t *testing.T) {
	p := NewArchitecturePanel("graph TD;\n  A-->B;\n  C[\"<script>alert(1)</script>\"]")

	out, err := HTML(p, HTMLOptions{Nonce: "abc123"})
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "A--&gt;B;")
	assert.NotContains(t, doc, "<script>alert(1)</script>")
	assert.Contains(t, doc, "script-src 'nonce-abc123'")
	assert.Equal(t, 2, strings.Count(doc, `nonce="abc123"`))
	assert.Contains(t, doc, DefaultMermaidURL)
	assert.Contains(t, doc, `id="legacyLensArchitecture"`)
	assert.Contains(t, doc, "<title>Application Architecture</title>")
}

func TestHTML_CarriesZoomState(t *testing.T) {
	p := NewArchitecturePanel("graph TD;")
	p.Zoom.Out()
	p.Zoom.Out()

	out, err := HTML(p, HTMLOptions{MermaidURL: "https://example.test/mermaid.js"})
	require.NoError(t, err)
	doc := string(out)

	assert.Regexp(t, `let steps = \s*8\s*;`, doc)
	assert.Regexp(t, `const minSteps = \s*1\s*;`, doc)
	assert.Contains(t, doc, "scale(0.8)")
	assert.Contains(t, doc, "https://example.test/mermaid.js")
}

func TestHTML_GeneratesNonce(t *testing.T) {
	a, err := HTML(NewArchitecturePanel("graph TD;"), HTMLOptions{})
	require.NoError(t, err)
	b, err := HTML(NewArchitecturePanel("graph TD;"), HTMLOptions{})
	require.NoError(t, err)
	assert.NotEqual(t, string(a), string(b))
}

func TestHTML_NilPanel(t *testing.T) {
	_, err := HTML(nil, HTMLOptions{})
	assert.ErrorIs(t, err, ErrNoPanel)
}
