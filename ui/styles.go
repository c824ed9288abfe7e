package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles shared by the live views and the static
// table renderer.
type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Muted       lipgloss.Style
	TableHeader lipgloss.Style
	TableBorder lipgloss.Style
	Selected    lipgloss.Style
	Footer      lipgloss.Style
	Cost        lipgloss.Style
	Warning     lipgloss.Style
}

// DefaultStyles returns the default dark-terminal styling.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("8")),
		TableBorder: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("12")).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1),
		Cost: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")),
	}
}
