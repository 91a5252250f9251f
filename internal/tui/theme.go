package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name     string
	Base     lipgloss.Style
	Border   lipgloss.Color
	Header   lipgloss.Style
	Column   lipgloss.Style
	Task     lipgloss.Style
	DoneTask lipgloss.Style
	Focused  lipgloss.Style
	Dim      lipgloss.Style
	Error    lipgloss.Style
}

var Themes = map[string]Theme{
	"default": {
		Name:     "Default",
		Base:     lipgloss.NewStyle().Margin(1, 2),
		Border:   lipgloss.Color("63"),
		Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Column:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Task:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		DoneTask: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true),
		Focused:  lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	},
	"dracula": {
		Name:     "Dracula",
		Base:     lipgloss.NewStyle().Margin(1, 2),
		Border:   lipgloss.Color("62"),                                            // Purple
		Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("50")).Bold(true), // Cyan
		Column:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Task:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		DoneTask: lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Strikethrough(true), // Comment
		Focused:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),         // Pink
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	},
}

// CurrentTheme holds the currently active theme.
var CurrentTheme = Themes["default"]

// SetTheme switches the active theme. Unknown names are ignored.
func SetTheme(name string) bool {
	t, ok := Themes[name]
	if ok {
		CurrentTheme = t
	}
	return ok
}
