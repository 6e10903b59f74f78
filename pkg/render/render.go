// Package render turns command views into user-facing output: styled
// terminal notifications, plain text for pipes, JSON and YAML for
// automation, and a standalone HTML document for diagram panels.
package render

import "fmt"

// Renderer converts a view to formatted output.
type Renderer interface {
	Render(v View) string
}

// Format names an output renderer.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatPlain    Format = "plain"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists the selectable output formats.
func Formats() []Format {
	return []Format{FormatTerminal, FormatPlain, FormatJSON, FormatYAML}
}

// ForFormat returns the renderer for a named format. Theme and width only
// apply to the terminal renderer.
func ForFormat(f Format, theme Theme, width int) (Renderer, error) {
	switch f {
	case FormatTerminal:
		return NewTerminal(theme, width), nil
	case FormatPlain:
		return NewPlain(), nil
	case FormatJSON:
		return NewJSON(), nil
	case FormatYAML:
		return NewYAML(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want terminal, plain, json or yaml)", f)
	}
}
