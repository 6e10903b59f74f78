package panel

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var pickerKeys = struct {
	Here   key.Binding
	Cancel key.Binding
}{
	Here:   key.NewBinding(key.WithKeys("."), key.WithHelp(".", "use this folder")),
	Cancel: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "cancel")),
}

// PickFolder lets the user browse from start and choose one directory.
// It returns "" with a nil error when the user cancels.
func PickFolder(ctx context.Context, start string) (string, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve start folder: %w", err)
		}
		start = wd
	}
	program := tea.NewProgram(newPicker(start), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("folder picker: %w", err)
	}
	return final.(picker).selected, nil
}

type picker struct {
	fp       filepicker.Model
	selected string
}

func newPicker(start string) picker {
	fp := filepicker.New()
	fp.CurrentDirectory = start
	fp.DirAllowed = true
	fp.FileAllowed = false
	fp.AutoHeight = true
	return picker{fp: fp}
}

func (m picker) Init() tea.Cmd {
	return m.fp.Init()
}

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, pickerKeys.Cancel):
			m.selected = ""
			return m, tea.Quit
		case key.Matches(k, pickerKeys.Here):
			m.selected = m.fp.CurrentDirectory
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.fp, cmd = m.fp.Update(msg)
	if ok, path := m.fp.DidSelectFile(msg); ok {
		m.selected = path
		return m, tea.Quit
	}
	return m, cmd
}

func (m picker) View() string {
	return "Select a folder (enter to choose, . for current, q to cancel)\n" +
		m.fp.CurrentDirectory + "\n\n" + m.fp.View()
}
