package render

import "github.com/charmbracelet/lipgloss"

// Theme defines colors and icons for terminal rendering.
type Theme struct {
	Name   string
	Title  lipgloss.Style
	Info   lipgloss.Style
	Error  lipgloss.Style
	Muted  lipgloss.Style
	Border lipgloss.Style
	Icons  ThemeIcons
}

// ThemeIcons defines the icon set for a theme.
type ThemeIcons struct {
	Info  string
	Error string
	Panel string
}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return Theme{
		Name:   "default",
		Title:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true), // blue
		Info:   lipgloss.NewStyle().Foreground(lipgloss.Color("34")),            // green
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),           // red
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("242")),           // gray
		Border: lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("39")).Padding(0, 1),
		Icons: ThemeIcons{
			Info:  "●",
			Error: "✗",
			Panel: "◆",
		},
	}
}

// OrcaTheme returns a muted, professional theme.
func OrcaTheme() Theme {
	return Theme{
		Name:   "orca",
		Title:  lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true), // pale blue
		Info:   lipgloss.NewStyle().Foreground(lipgloss.Color("108")),           // sage green
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("167")),           // muted red
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Border: lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("245")).Padding(0, 1),
		Icons: ThemeIcons{
			Info:  "·",
			Error: "!",
			Panel: "□",
		},
	}
}

// MonoTheme returns a monochrome theme (no colors).
func MonoTheme() Theme {
	return Theme{
		Name:   "mono",
		Title:  lipgloss.NewStyle().Bold(true),
		Info:   lipgloss.NewStyle(),
		Error:  lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle(),
		Border: lipgloss.NewStyle().BorderStyle(lipgloss.ASCIIBorder()).Padding(0, 1),
		Icons: ThemeIcons{
			Info:  "*",
			Error: "x",
			Panel: "#",
		},
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "orca":
		return OrcaTheme()
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}
