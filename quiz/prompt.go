package quiz

import (
	"fmt"
	"strings"
)

// HelpRequest is the body of POST /chat/question-help.
type HelpRequest struct {
	Question string `json:"question"`
}

const (
	choiceAnsweredTemplate = `Multiple-choice question: "%s". The learner selected: "%s". Available answers: "%s". Lecture: "%s", topic: "%s". ` +
		`Analyze whether the selected answer is correct. If it is, explain why. If it is wrong, state which answer is correct and what the other answers mean.`

	choiceUnansweredTemplate = `Multiple-choice question: "%s". The learner has not selected an answer. Available options: "%s". Lecture: "%s", topic: "%s". ` +
		`Point out the correct answer, justify the choice and explain the meaning of the other answers.`

	textAnsweredTemplate = `Free-text question: "%s". Entered answer: "%s". Lecture: "%s", topic: "%s". ` +
		`Judge whether the answer is correct. If it is, explain why. If it is wrong, state what the correct answer should be, which parts are missing or incorrect, ` +
		`and in which circumstances (if any) the entered answer could be used.`

	textUnansweredTemplate = `Free-text question: "%s". No answer has been entered. Lecture: "%s", topic: "%s". ` +
		`Describe how a valid answer to this question should be built. Include a sample answer and name the required components.`
)

// BuildPrompt turns a question snapshot into a help request. The template is
// chosen by answer kind and whether the question has been answered.
func BuildPrompt(q QuestionContext) HelpRequest {
	var s string
	switch q.Kind {
	case SingleChoice:
		choices := strings.Join(q.AvailableChoices, ", ")
		if q.Answered() {
			s = fmt.Sprintf(choiceAnsweredTemplate, q.PromptText, q.SelectedAnswer, choices, q.LectureName, q.ThemeName)
		} else {
			s = fmt.Sprintf(choiceUnansweredTemplate, q.PromptText, choices, q.LectureName, q.ThemeName)
		}
	default:
		if q.Answered() {
			s = fmt.Sprintf(textAnsweredTemplate, q.PromptText, q.SelectedAnswer, q.LectureName, q.ThemeName)
		} else {
			s = fmt.Sprintf(textUnansweredTemplate, q.PromptText, q.LectureName, q.ThemeName)
		}
	}
	return HelpRequest{Question: s}
}
