package render

import (
	"strings"
)

// Plain renders views as unstyled text for pipes and logs. Each view is one
// "LEVEL command: message" line; panel markup follows verbatim.
type Plain struct{}

// NewPlain creates a plain-text renderer.
func NewPlain() *Plain {
	return &Plain{}
}

// Render formats one view without color or box drawing.
func (p *Plain) Render(v View) string {
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(string(v.Level)))
	if v.Command != 0 {
		sb.WriteString(" ")
		sb.WriteString(v.Command.String())
	}
	sb.WriteString(": ")
	sb.WriteString(v.Message)
	sb.WriteString("\n")

	if v.Panel != nil {
		sb.WriteString("# ")
		sb.WriteString(v.Panel.Title)
		sb.WriteString(" (zoom ")
		sb.WriteString(v.Panel.Zoom.Percent())
		sb.WriteString(")\n")
		sb.WriteString(v.Panel.Markup)
		if !strings.HasSuffix(v.Panel.Markup, "\n") {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
