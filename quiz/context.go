// Package quiz reads quiz questions out of a server-rendered lecture page,
// synthesizes help prompts from them and submits answers for grading.
package quiz

// AnswerKind distinguishes choice questions from free-text ones.
type AnswerKind int

const (
	SingleChoice AnswerKind = iota
	FreeText
)

func (k AnswerKind) String() string {
	switch k {
	case SingleChoice:
		return "single-choice"
	case FreeText:
		return "free-text"
	default:
		return "unknown"
	}
}

// Fallbacks used when the page lacks context. Help requests never fail
// because of an incomplete page.
const (
	FallbackQuestion = "no available question"
	FallbackLecture  = "unknown lecture"
	FallbackTheme    = "unknown topic"
)

// QuestionContext is a read-once snapshot of one question on the page.
// It is rebuilt for every help request and never cached.
type QuestionContext struct {
	ID               string
	PromptText       string
	Kind             AnswerKind
	AvailableChoices []string // choice kind only
	SelectedAnswer   string   // empty when unanswered
	LectureName      string
	ThemeName        string
}

// Answered reports whether the learner has picked or typed an answer.
func (q QuestionContext) Answered() bool {
	return q.SelectedAnswer != ""
}

// Option is one selectable answer of a choice question.
type Option struct {
	Label   string
	Value   string
	Checked bool
}
