package ui

import (
	"fmt"
	"strings"

	"sevi/chat"
	"sevi/format"
)

const typingText = "Sevi is typing..."

func (a *AppView) updateViewportContent(gotoBottom bool) {
	msgs := a.dataModel.Chat.Transcript().Messages()
	if len(msgs) == 0 {
		a.viewport.SetContent(DimStyle.Render("No messages yet. Say hello!"))
		return
	}

	width := a.viewport.Width - 2
	var content strings.Builder

	for _, msg := range msgs {
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		if msg.Loader {
			content.WriteString(fmt.Sprintf("%s %s\n%s %s\n\n",
				timestamp, AssistantStyle.Render("Sevi"), a.loadingSpinner.View(), DimStyle.Render(typingText)))
			continue
		}

		body := format.Terminal(msg.BodyHTML, width)

		if msg.Role == chat.RoleUser {
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render("You"), body))
			continue
		}

		content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, AssistantStyle.Render("Sevi"), body))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// formatUserMessage draws the learner's bubble with a bar down the left edge.
func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")

	return result.String()
}
