package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sevi/format"
	"sevi/quiz"
)

func (a AppView) renderQuizScreen() string {
	doc := a.dataModel.Quiz

	theme := ""
	if doc != nil {
		if ids := doc.QuestionIDs(); len(ids) > 0 {
			theme = doc.Snapshot(ids[0]).ThemeName
		}
	}
	title := AssistantStyle.Render("Sevi") + TitleStyle.Render(" - Quiz")
	if theme != "" && theme != quiz.FallbackTheme {
		title += UserStyle.Render(" - " + theme)
	}
	if src := a.dataModel.QuizSource; src != "" {
		title += DimStyle.Render(" (" + src + ")")
	}
	title += a.titleStatus()

	footer := StatusStyle.Render(FormatFooter(
		"↑/↓", "Question",
		"←/→", "Answer",
		a.keys.DisplayActionKey("request_help"), "Ask Sevi",
		a.keys.DisplayActionKey("filter_questions"), "Filter",
		a.keys.DisplayActionKey("submit_quiz"), "Submit",
		a.keys.DisplayActionKey("switch_view"), "Chat",
		a.keys.DisplayActionKey("help"), "Help",
	))
	if a.flash != "" {
		footer = HighlightStyle.Render(a.flash)
	}

	if doc == nil {
		body := DimStyle.Render("No lecture page loaded. Start Sevi with: sevi quiz <page path or URL>")
		if a.quiz.loading {
			body = a.loadingSpinner.View() + " Loading lecture..."
		}
		return lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", footer)
	}

	detail := a.renderQuestionDetail(doc)

	var resultLine string
	switch {
	case a.quiz.submitting:
		resultLine = a.loadingSpinner.View() + " Grading..."
	case a.quiz.graded:
		resultLine = CorrectStyle.Render(a.quiz.result)
	case a.quiz.result != "":
		resultLine = IncorrectStyle.Render(a.quiz.result)
	}

	var filterLine string
	if a.quiz.filtering || a.quiz.filter.Value() != "" {
		filterLine = a.quiz.filter.View()
	}

	// title, blank, optional filter, blank, detail, blank, result, footer
	listHeight := a.height - lipgloss.Height(detail) - 6
	if filterLine != "" {
		listHeight--
	}
	listHeight = max(listHeight, 3)

	parts := []string{title, ""}
	if filterLine != "" {
		parts = append(parts, filterLine)
	}
	parts = append(parts, a.renderQuestionList(doc, listHeight), "", detail, "", resultLine, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a AppView) renderQuestionList(doc *quiz.Document, height int) string {
	q := a.quiz
	if len(q.visible) == 0 {
		if len(q.ids) == 0 {
			return DimStyle.Render("This page has no questions.")
		}
		return DimStyle.Render("No questions match the filter.")
	}

	start := 0
	if q.cursor >= height {
		start = q.cursor - height + 1
	}
	end := min(start+height, len(q.visible))

	var rows []string
	for i := start; i < end; i++ {
		idx := q.visible[i]
		id := q.ids[idx]

		mark, markStyle := "", DimStyle
		switch {
		case q.graded && q.incorrect[id]:
			mark, markStyle = quiz.IncorrectMessage, IncorrectStyle
		case q.graded && q.correct[id]:
			mark, markStyle = "✓", CorrectStyle
		case doc.Snapshot(id).Answered():
			mark = "•"
		}

		prefix := "  "
		if i == q.cursor {
			prefix = "▸ "
		}
		number := fmt.Sprintf("%2d. ", idx+1)

		textWidth := a.width - runewidth.StringWidth(prefix+number) - runewidth.StringWidth(mark) - 2
		label := q.labels[idx]
		if textWidth > 0 && runewidth.StringWidth(label) > textWidth {
			label = runewidth.Truncate(label, textWidth, "...")
		}
		if textWidth > 0 {
			label = runewidth.FillRight(label, textWidth)
		}

		row := prefix + number + label
		if i == q.cursor {
			row = SelectedStyle.Render(row)
		}
		if mark != "" {
			row += " " + markStyle.Render(mark)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (a AppView) renderQuestionDetail(doc *quiz.Document) string {
	id, ok := a.quiz.current()
	if !ok {
		return ""
	}
	snap := doc.Snapshot(id)
	width := max(a.width-4, 20)
	wrap := lipgloss.NewStyle().Width(width)

	var lines []string
	lines = append(lines,
		HighlightStyle.Render("Question "+id)+DimStyle.Render(" ("+snap.Kind.String()+")"),
		wrap.Render(snap.PromptText),
	)

	if snap.Kind == quiz.FreeText {
		switch {
		case a.quiz.editing:
			lines = append(lines, a.quiz.answer.View())
		case snap.Answered():
			lines = append(lines, "Answer: "+UserStyle.Render(snap.SelectedAnswer))
		default:
			lines = append(lines, DimStyle.Render("No answer yet. Press Enter to type one."))
		}
	} else {
		for _, o := range doc.Options(id) {
			if o.Checked {
				lines = append(lines, UserStyle.Render("(•) "+o.Label))
			} else {
				lines = append(lines, "( ) "+o.Label)
			}
		}
	}

	if a.quiz.graded && a.quiz.incorrect[id] {
		lines = append(lines, IncorrectStyle.Render(quiz.IncorrectMessage))
	}

	if slot, ok := a.dataModel.Help.Slot(id); ok && slot.Visible {
		body := format.Terminal(slot.HTML, width-3)
		if slot.Pending {
			body = a.loadingSpinner.View() + " " + body
		}
		lines = append(lines, "", HelpSlotStyle.Render(AssistantStyle.Render("Sevi")+"\n"+body))
	}

	return strings.Join(lines, "\n")
}
