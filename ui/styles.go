package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")

	// Learner name line. No background so terminal transparency survives.
	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	// Sevi name line
	AssistantStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	// Timestamps, hints, placeholders
	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	BorderStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	// Cursor row in the question list
	SelectedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)

	// Grading marks
	CorrectStyle = lipgloss.NewStyle().
			Foreground(successColor)
	IncorrectStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)

	// Help slot under the current question
	HelpSlotStyle = lipgloss.NewStyle().
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(highlightColor).
			PaddingLeft(1)
)

// FormatFooter formats a footer string with alternating keys and descriptions.
// Keys keep the default color, descriptions render in accent blue.
// Usage: FormatFooter("↑/↓", "Question", "Alt+S", "Submit")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i+1 < len(parts); i += 2 {
		if parts[i] == "" {
			continue
		}
		result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
	}
	return strings.Join(result, "  ")
}
