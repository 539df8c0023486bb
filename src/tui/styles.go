package tui

import "github.com/charmbracelet/lipgloss"

// StyleConfig holds all customizable style colors for the watch UI.
type StyleConfig struct {
	PrimaryBlue    lipgloss.Color
	AccentBlue     lipgloss.Color
	DarkBackground lipgloss.Color
	TextPrimary    lipgloss.Color
	TextSecondary  lipgloss.Color
	BorderColor    lipgloss.Color
	SelectedColor  lipgloss.Color

	// Run state colors
	Success lipgloss.Color
	Failure lipgloss.Color
	Active  lipgloss.Color
	Muted   lipgloss.Color
}

// DefaultStyles returns the default color palette
func DefaultStyles() *StyleConfig {
	return &StyleConfig{
		PrimaryBlue:    lipgloss.Color("#8AB4F8"),
		AccentBlue:     lipgloss.Color("#4285F4"),
		DarkBackground: lipgloss.Color("#1E1E1E"),
		TextPrimary:    lipgloss.Color("#E8EAED"),
		TextSecondary:  lipgloss.Color("#9AA0A6"),
		BorderColor:    lipgloss.Color("#5F6368"),
		SelectedColor:  lipgloss.Color("#303134"),
		Success:        lipgloss.Color("#34A853"),
		Failure:        lipgloss.Color("#EA4335"),
		Active:         lipgloss.Color("#FBBC04"),
		Muted:          lipgloss.Color("#9AA0A6"),
	}
}

// TitleStyle returns a title lipgloss style using this config
func (s *StyleConfig) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.PrimaryBlue).
		Bold(true).
		Padding(0, 1)
}

// HelpStyle returns a help text lipgloss style using this config
func (s *StyleConfig) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TextSecondary).
		Padding(0, 2)
}

// RunColor returns the color representing a run's current state. Active
// runs are colored by status, completed runs by conclusion.
func (s *StyleConfig) RunColor(status, conclusion string) lipgloss.Color {
	if status != "completed" {
		switch status {
		case "in_progress", "action_required":
			return s.Active
		default:
			return s.Muted
		}
	}
	switch conclusion {
	case "success":
		return s.Success
	case "failure", "timed_out", "startup_failure":
		return s.Failure
	case "action_required":
		return s.Active
	default:
		return s.Muted
	}
}
