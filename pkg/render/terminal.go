package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// previewLines caps how much diagram markup a terminal notification shows.
const previewLines = 12

// Terminal renders views as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
	title cases.Caser
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width, title: cases.Title(language.English)}
}

// Render formats one view for terminal display.
func (t *Terminal) Render(v View) string {
	var sb strings.Builder
	sb.WriteString(t.header(v))
	sb.WriteString("\n")
	if v.Panel != nil {
		sb.WriteString(t.renderPanel(v.Panel))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) header(v View) string {
	icon, style := t.theme.Icons.Info, t.theme.Info
	if v.IsError() {
		icon, style = t.theme.Icons.Error, t.theme.Error
	}
	label := t.title.String(string(v.Level))
	prefix := icon + " " + label + ": "
	indent := strings.Repeat(" ", runewidth.StringWidth(prefix))

	body := runewidth.Wrap(v.Message, t.width-runewidth.StringWidth(prefix))
	lines := strings.Split(body, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return style.Render(prefix) + strings.Join(lines, "\n")
}

func (t *Terminal) renderPanel(p *Panel) string {
	head := t.theme.Title.Render(t.theme.Icons.Panel+" "+p.Title) + " " +
		t.theme.Muted.Render("zoom "+p.Zoom.Percent())

	inner := t.width - 4
	lines := strings.Split(strings.TrimRight(p.Markup, "\n"), "\n")
	hidden := 0
	if len(lines) > previewLines {
		hidden = len(lines) - previewLines
		lines = lines[:previewLines]
	}
	for i, line := range lines {
		lines[i] = runewidth.Truncate(line, inner, "…")
	}
	if hidden > 0 {
		lines = append(lines, t.theme.Muted.Render(pluralLines(hidden)))
	}
	return head + "\n" + t.theme.Border.Render(strings.Join(lines, "\n"))
}

func pluralLines(n int) string {
	if n == 1 {
		return "… 1 more line"
	}
	return fmt.Sprintf("… %d more lines", n)
}
