// Package render draws page state for the terminal.
package render

import "github.com/charmbracelet/lipgloss"

// Theme holds the palette used by the renderers.
type Theme struct {
	Text    string
	Muted   string
	Accent  string
	Success string
	Danger  string
	Info    string
	Border  string
}

var DefaultTheme = Theme{
	Text:    "#e5e7eb",
	Muted:   "#9ca3af",
	Accent:  "#ff90e8",
	Success: "#22c55e",
	Danger:  "#ef4444",
	Info:    "#38bdf8",
	Border:  "#4b5563",
}

type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Danger   lipgloss.Style
	Info     lipgloss.Style
	Button   lipgloss.Style
	Row      lipgloss.Style
	Code     lipgloss.Style
}

func (t Theme) Styles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Width(28),
		Value: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),
		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Row: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		Code: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			PaddingLeft(2),
	}
}
