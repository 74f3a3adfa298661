package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	appmodel "sevi/model"
	"sevi/quiz"
)

type quizState struct {
	ids     []string // every question on the page, in document order
	labels  []string // prompt text per id, for the filter
	visible []int    // indexes into ids that pass the filter
	cursor  int      // index into visible

	filtering bool
	filter    textinput.Model

	editing bool
	answer  textinput.Model

	loading    bool
	submitting bool

	result    string
	graded    bool
	correct   map[string]bool
	incorrect map[string]bool
}

func newQuizState() quizState {
	filter := textinput.New()
	filter.Prompt = "Filter: "
	filter.CharLimit = 64

	answer := textinput.New()
	answer.Prompt = "Answer: "
	answer.Placeholder = "type your answer"
	answer.CharLimit = 500

	return quizState{filter: filter, answer: answer}
}

// reset points the list at a freshly loaded page.
func (q *quizState) reset(doc *quiz.Document) {
	q.ids = doc.QuestionIDs()
	q.labels = make([]string, len(q.ids))
	for i, id := range q.ids {
		q.labels[i] = doc.Snapshot(id).PromptText
	}
	q.cursor = 0
	q.filtering, q.editing = false, false
	q.filter.SetValue("")
	q.result, q.graded = "", false
	q.correct, q.incorrect = nil, nil
	q.applyFilter()
}

func (q *quizState) resize(width int) {
	q.filter.Width = max(width-12, 10)
	q.answer.Width = max(width-12, 10)
}

// capturing reports whether keystrokes belong to a text input.
func (q *quizState) capturing() bool {
	return q.filtering || q.editing
}

// applyFilter narrows the list to questions whose prompt fuzzily matches
// the filter, best match first. An empty filter shows everything.
func (q *quizState) applyFilter() {
	pattern := q.filter.Value()
	q.visible = q.visible[:0]
	if pattern == "" {
		for i := range q.ids {
			q.visible = append(q.visible, i)
		}
	} else {
		for _, m := range fuzzy.Find(pattern, q.labels) {
			q.visible = append(q.visible, m.Index)
		}
	}
	if q.cursor >= len(q.visible) {
		q.cursor = max(len(q.visible)-1, 0)
	}
}

func (q *quizState) current() (string, bool) {
	if q.cursor < 0 || q.cursor >= len(q.visible) {
		return "", false
	}
	return q.ids[q.visible[q.cursor]], true
}

func (q *quizState) move(delta int) {
	if len(q.visible) == 0 {
		return
	}
	q.cursor = min(max(q.cursor+delta, 0), len(q.visible)-1)
}

func (q *quizState) setResult(res *quiz.Result, err error) {
	q.correct, q.incorrect = nil, nil
	q.graded = false
	switch {
	case errors.Is(err, appmodel.ErrNoServer):
		q.result = "Grading needs the learning platform: set [server] base_url in settings.toml."
	case err != nil:
		q.result = quiz.SubmitFailureMessage
	case res != nil:
		q.graded = true
		q.correct = make(map[string]bool)
		q.incorrect = make(map[string]bool)
		for _, o := range res.Outcomes {
			if o.AnsweredCorrectly {
				q.correct[string(o.ID)] = true
			}
		}
		for _, id := range res.Incorrect() {
			q.incorrect[id] = true
		}
		q.result = res.Summary()
	}
}

// cycleChoice moves the selection of a choice question by delta, wrapping
// around. With nothing selected, forward picks the first answer and
// backward the last.
func cycleChoice(doc *quiz.Document, id string, delta int) error {
	opts := doc.Options(id)
	n := len(opts)
	if n == 0 {
		return quiz.ErrNoSuchOption
	}

	idx := -1
	for i, o := range opts {
		if o.Checked {
			idx = i
			break
		}
	}

	var next int
	switch {
	case idx < 0 && delta < 0:
		next = n - 1
	case idx < 0:
		next = 0
	default:
		next = ((idx+delta)%n + n) % n
	}
	return doc.Select(id, opts[next].Value)
}

func (a AppView) handleQuizKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	q := &a.quiz
	doc := a.dataModel.Quiz

	if q.filtering {
		switch k {
		case "esc":
			q.filtering = false
			q.filter.Blur()
			q.filter.SetValue("")
			q.applyFilter()
			return a, nil
		case "enter":
			q.filtering = false
			q.filter.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		q.filter, cmd = q.filter.Update(msg)
		q.cursor = 0
		q.applyFilter()
		return a, cmd
	}

	if doc == nil || q.submitting {
		return a, nil
	}
	id, ok := q.current()

	if q.editing {
		switch k {
		case "esc":
			q.editing = false
			q.answer.Blur()
			return a, nil
		case "enter":
			q.editing = false
			q.answer.Blur()
			if ok {
				if err := doc.SetText(id, q.answer.Value()); err != nil {
					a.flash = err.Error()
					return a, flashCmd()
				}
			}
			return a, nil
		}
		var cmd tea.Cmd
		q.answer, cmd = q.answer.Update(msg)
		return a, cmd
	}

	switch k {
	case a.keys.GetActionKey("question_down"):
		q.move(1)
	case a.keys.GetActionKey("question_up"):
		q.move(-1)
	case a.keys.GetActionKey("filter_questions"):
		q.filtering = true
		return a, q.filter.Focus()
	case a.keys.GetActionKey("submit_quiz"):
		q.submitting = true
		q.result = ""
		return a, a.dataModel.SubmitQuiz()
	}

	if !ok {
		return a, nil
	}

	switch k {
	case a.keys.GetActionKey("choice_next"), a.keys.GetActionKey("choice_prev"):
		delta := 1
		if k == a.keys.GetActionKey("choice_prev") {
			delta = -1
		}
		// Free-text questions have no options to cycle.
		if err := cycleChoice(doc, id, delta); err != nil && !errors.Is(err, quiz.ErrNoSuchOption) {
			a.flash = err.Error()
			return a, flashCmd()
		}

	case "enter":
		snap := doc.Snapshot(id)
		if snap.Kind != quiz.FreeText {
			return a, nil
		}
		q.editing = true
		q.answer.SetValue(snap.SelectedAnswer)
		q.answer.CursorEnd()
		return a, q.answer.Focus()

	case a.keys.GetActionKey("request_help"):
		return a, a.dataModel.RequestHelp(id)

	case a.keys.GetActionKey("close_help"):
		a.dataModel.CloseHelp(id)
	}
	return a, nil
}
