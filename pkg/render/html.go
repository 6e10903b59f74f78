package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/google/uuid"
)

// DefaultMermaidURL is the pinned mermaid bundle loaded by panel documents.
const DefaultMermaidURL = "https://cdn.jsdelivr.net/npm/mermaid@10.9.3/dist/mermaid.min.js"

// HTMLOptions controls panel document generation.
type HTMLOptions struct {
	// MermaidURL overrides the mermaid script location. Empty means
	// DefaultMermaidURL.
	MermaidURL string
	// Nonce is the CSP script nonce. Empty generates a fresh one.
	Nonce string
}

// ErrNoPanel is returned when HTML is asked to render a nil panel.
var ErrNoPanel = errors.New("no panel to render")

type htmlData struct {
	ID         string
	Title      string
	Markup     string
	MermaidURL string
	Nonce      string
	Steps      int
	MinSteps   int
	Scale      string
}

// Markup is HTML-escaped into the .mermaid element. Mermaid reads the
// element's text, so entities decode back to the original diagram source
// while tags in the payload stay inert.
var panelTemplate = template.Must(template.New("panel").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="Content-Security-Policy" content="default-src 'none'; script-src 'nonce-{{.Nonce}}'; style-src 'unsafe-inline'; img-src data:; font-src data:">
<title>{{.Title}}</title>
<script nonce="{{.Nonce}}" src="{{.MermaidURL}}"></script>
<style>
body, html { margin: 0; padding: 0; width: 100%; height: 100%; }
.zoom-controls { position: fixed; top: 10px; right: 10px; z-index: 1000; padding: 5px; border-radius: 5px; background: #fff; }
.zoom-controls button { padding: 5px 10px; margin-left: 5px; }
.zoom-controls span { margin-left: 5px; font-family: sans-serif; }
.scroll-container { width: 100%; height: 100%; overflow: auto; display: flex; justify-content: center; align-items: center; }
.mermaid-diagram { transform-origin: center; transform: scale({{.Scale}}); }
</style>
</head>
<body>
<div class="zoom-controls">
<button id="zoomIn">Zoom In</button>
<button id="zoomOut">Zoom Out</button>
<span id="zoomLevel"></span>
</div>
<div class="scroll-container">
<div class="mermaid-diagram" id="{{.ID}}">
<div class="mermaid">
{{.Markup}}
</div>
</div>
</div>
<script nonce="{{.Nonce}}">
const diagram = document.querySelector('.mermaid-diagram');
const level = document.getElementById('zoomLevel');
const minSteps = {{.MinSteps}};
let steps = {{.Steps}};
function applyZoom() {
  diagram.style.transform = 'scale(' + (steps / 10) + ')';
  level.textContent = (steps * 10) + '%';
}
document.getElementById('zoomIn').addEventListener('click', () => { steps += 1; applyZoom(); });
document.getElementById('zoomOut').addEventListener('click', () => { if (steps > minSteps) { steps -= 1; } applyZoom(); });
applyZoom();
mermaid.initialize({ startOnLoad: true, securityLevel: 'strict' });
</script>
</body>
</html>
`))

// HTML renders a panel as a standalone HTML document with zoom controls.
// The in-page zoom uses the same step and floor as Zoom.
func HTML(p *Panel, opts HTMLOptions) ([]byte, error) {
	if p == nil {
		return nil, ErrNoPanel
	}
	if opts.MermaidURL == "" {
		opts.MermaidURL = DefaultMermaidURL
	}
	if opts.Nonce == "" {
		opts.Nonce = uuid.NewString()
	}

	data := htmlData{
		ID:         p.ID,
		Title:      p.Title,
		Markup:     p.Markup,
		MermaidURL: opts.MermaidURL,
		Nonce:      opts.Nonce,
		Steps:      p.Zoom.steps,
		MinSteps:   minSteps,
		Scale:      fmt.Sprintf("%.1f", p.Zoom.Scale()),
	}
	if data.Steps == 0 {
		data.Steps = stepsPerUnit
	}

	var buf bytes.Buffer
	if err := panelTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render panel %s: %w", p.ID, err)
	}
	return buf.Bytes(), nil
}
