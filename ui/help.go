package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"sevi/config"
)

func renderHelpModal(kb *config.KeyBindingsConfig, version string, width, height int) string {
	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("Sevi " + version + " - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)
	line := func(action, desc string) string {
		return fmt.Sprintf("• %-13s %s", kb.DisplayActionKey(action), desc)
	}

	global := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Global"),
		line("switch_view", "Chat / quiz"),
		line("new_chat", "New chat"),
		line("help", "Toggle this help"),
		line("quit", "Quit"),
	)

	chatKeys := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat"),
		"• Enter         Send message",
		"• Alt+Enter     New line",
		line("yank_last_response", "Copy last reply"),
		line("scroll_down", "Scroll down"),
		line("scroll_up", "Scroll up"),
		line("scroll_to_top", "Jump to top"),
		line("scroll_to_bottom", "Jump to bottom"),
	)

	quizKeys := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Quiz"),
		line("question_down", "Next question"),
		line("question_up", "Previous question"),
		line("choice_next", "Next answer"),
		line("choice_prev", "Previous answer"),
		"• Enter         Type an answer",
		line("request_help", "Ask Sevi"),
		line("close_help", "Close help"),
		line("filter_questions", "Filter questions"),
		line("submit_quiz", "Submit answers"),
	)

	columnStyle := lipgloss.NewStyle().Width(42).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, global, "", chatKeys)),
		"  ",
		columnStyle.Render(quizKeys),
	)

	modifiers := fmt.Sprintf("Modifiers: %s (primary), %s (secondary). Change them under [keybindings] in settings.toml.",
		kb.PrimaryDisplay(), kb.SecondaryDisplay())

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render(modifiers + "\n" + fmt.Sprintf("Press %s or Esc to close this help", kb.DisplayActionKey("help")))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2).
		Width(96)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
