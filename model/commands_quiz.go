package model

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"sevi/config"
	"sevi/quiz"
)

var ErrNoServer = errors.New("quiz grading needs a server base URL")

// LoadQuiz reads a lecture page from disk or from the server.
func (m *Model) LoadQuiz(src string) tea.Cmd {
	fetcher := m.Fetcher
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		doc, err := quiz.Load(ctx, fetcher, src)
		return QuizLoadedMsg{Source: src, Doc: doc, Err: err}
	}
}

// ApplyQuiz installs a loaded page.
func (m *Model) ApplyQuiz(msg QuizLoadedMsg) error {
	if msg.Err != nil {
		return msg.Err
	}
	m.Quiz = msg.Doc
	m.QuizSource = msg.Source
	m.LastResult = nil
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Model] quiz loaded from %s: %d questions", msg.Source, len(msg.Doc.QuestionIDs()))
	}
	return nil
}

// RequestHelp opens the help slot for id and returns the command that fetches
// the explanation. The question is read from the page now, so the prompt
// reflects the answer on screen at the moment of asking.
func (m *Model) RequestHelp(id string) tea.Cmd {
	if m.Quiz == nil {
		return nil
	}

	prompt := quiz.BuildPrompt(m.Quiz.Snapshot(id))
	m.Help.Begin(id)

	requester := m.Help
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		requester.Fetch(ctx, id, prompt.Question)
		return HelpDoneMsg{ID: id}
	}
}

// CloseHelp hides the help slot for id.
func (m *Model) CloseHelp(id string) {
	m.Help.Close(id)
}

// SubmitQuiz grades the page's current answers.
func (m *Model) SubmitQuiz() tea.Cmd {
	if m.Quiz == nil {
		return nil
	}
	doc, submitter := m.Quiz, m.Submitter
	return func() tea.Msg {
		if submitter == nil {
			return QuizSubmittedMsg{Err: ErrNoServer}
		}
		ctx, cancel := m.requestContext()
		defer cancel()

		res, err := quiz.Submit(ctx, submitter, doc)
		return QuizSubmittedMsg{Result: res, Err: err}
	}
}

// ApplyQuizResult records a grading. A failed submission clears the previous
// result.
func (m *Model) ApplyQuizResult(msg QuizSubmittedMsg) {
	if msg.Err != nil {
		m.LastResult = nil
		return
	}
	res := msg.Result
	m.LastResult = &res
}
