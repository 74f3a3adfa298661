package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrorModal is a standalone program shown when Sevi cannot start, for
// example on a broken settings.toml. It uses the borderless three-section
// layout of the in-app modals.
type ErrorModal struct {
	title   string
	message string
	hint    string
	width   int
	height  int
}

// NewErrorModal builds the modal. hint is an optional dim line under the
// message, such as the settings path to fix.
func NewErrorModal(title, message, hint string) ErrorModal {
	return ErrorModal{
		title:   title,
		message: message,
		hint:    hint,
	}
}

func (m ErrorModal) Init() tea.Cmd {
	return nil
}

func (m ErrorModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m ErrorModal) View() string {
	if m.width < 20 || m.height < 10 {
		return m.title + ": " + m.message
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		renderModal(m.title, m.message, m.hint, "Press Enter to quit", m.width, dangerColor))
}

// renderModal draws title, body and footer separated by rules. The chat
// screen's acknowledge modal uses it too.
func renderModal(title, message, hint, footer string, width int, titleColor lipgloss.Color) string {
	modalWidth := 60
	if width < modalWidth+10 {
		modalWidth = width - 10
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(titleColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(title)

	body := lipgloss.NewStyle().Width(modalWidth).Align(lipgloss.Center)
	lines := []string{strings.Repeat(" ", modalWidth)}
	for _, line := range strings.Split(message, "\n") {
		lines = append(lines, body.Render(line))
	}
	if hint != "" {
		lines = append(lines, "", body.Foreground(dimColor).Render(hint))
	}
	lines = append(lines, strings.Repeat(" ", modalWidth))

	rule := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor)

	messageSection := rule.Render(strings.Join(lines, "\n"))
	footerSection := rule.
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(footer)

	return strings.Join([]string{titleSection, messageSection, footerSection}, "\n")
}
