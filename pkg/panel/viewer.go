// Package panel hosts the interactive terminal surfaces: a diagram viewer
// and a folder picker. The viewer shows the raw markup; its zoom keys set the
// scale the diagram opens at in the browser.
package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/lens/pkg/render"
)

// Opener exports a panel to a richer surface, usually a browser.
type Opener func(p *render.Panel) error

type keyMap struct {
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Open    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "browser zoom in")),
	ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "browser zoom out")),
	Open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "close")),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	boxStyle    = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("39"))
)

// Run shows the panel until the user closes it and returns the panel with
// its final zoom.
func Run(ctx context.Context, p *render.Panel, open Opener) (*render.Panel, error) {
	program := tea.NewProgram(newViewer(p, open), tea.WithContext(ctx), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return p, fmt.Errorf("panel %s: %w", p.ID, err)
	}
	out := final.(viewer).panel
	return &out, nil
}

type viewer struct {
	panel    render.Panel
	open     Opener
	viewport viewport.Model
	status   string
	ready    bool
	width    int
}

type openedMsg struct{ err error }

func newViewer(p *render.Panel, open Opener) viewer {
	vp := viewport.New(0, 0)
	vp.SetContent(p.Markup)
	return viewer{panel: *p, open: open, viewport: vp}
}

func (m viewer) Init() tea.Cmd {
	return nil
}

func (m viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.ZoomIn):
			m.panel.Zoom.In()
			m.status = ""
			return m, nil
		case key.Matches(msg, keys.ZoomOut):
			m.panel.Zoom.Out()
			m.status = ""
			return m, nil
		case key.Matches(msg, keys.Open):
			if m.open == nil {
				m.status = "no browser configured"
				return m, nil
			}
			p := m.panel
			open := m.open
			m.status = "opening..."
			return m, func() tea.Msg { return openedMsg{err: open(&p)} }
		}
	case openedMsg:
		if msg.err != nil {
			m.status = "open failed: " + msg.err.Error()
		} else {
			m.status = "opened in browser"
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = msg.Height - 4 // title, status, border
		m.ready = true
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m viewer) View() string {
	if !m.ready {
		return "loading..."
	}
	title := titleStyle.Render(m.panel.Title)
	return title + "\n" + boxStyle.Render(m.viewport.View()) + "\n" + statusStyle.Render(m.statusLine())
}

func (m viewer) statusLine() string {
	parts := []string{"browser zoom " + m.panel.Zoom.Percent()}
	for _, b := range []key.Binding{keys.ZoomIn, keys.ZoomOut, keys.Open, keys.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	line := strings.Join(parts, " · ")
	if m.width > 0 {
		line = runewidth.Truncate(line, m.width, "…")
	}
	return line
}
