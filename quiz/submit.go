package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"sevi/config"
	"sevi/validation"
)

// User-facing texts of the submission flow.
const (
	SubmitFailureMessage = "There was a problem processing your request. Please try again."
	IncorrectMessage     = "Incorrect answer"
)

// Submitter grades a filled-in quiz form (POST /lections/submit).
type Submitter interface {
	SubmitAnswers(ctx context.Context, form url.Values) ([]Outcome, error)
}

// QuestionID accepts both numeric and string ids from the server.
type QuestionID string

func (q *QuestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = QuestionID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question id: %w", err)
	}
	*q = QuestionID(n.String())
	return nil
}

// Outcome is the grading of one answered question.
type Outcome struct {
	ID                QuestionID `json:"id"`
	AnsweredCorrectly bool       `json:"answeredCorrectly"`
}

// Result is the graded quiz. Unanswered questions are absent from Outcomes.
type Result struct {
	Outcomes []Outcome
	Correct  int
	Total    int
}

// Incorrect lists the ids of wrongly answered questions in server order.
func (r Result) Incorrect() []string {
	var ids []string
	for _, o := range r.Outcomes {
		if !o.AnsweredCorrectly {
			ids = append(ids, string(o.ID))
		}
	}
	return ids
}

func (r Result) Summary() string {
	return "You answered " + strconv.Itoa(r.Correct) + " of " + strconv.Itoa(r.Total) + " questions correctly."
}

var submissionSchema = validation.Schema{
	{Name: "lectionId", Rules: []validation.Rule{
		validation.Required("the page has no lecture id"),
	}},
}

// Submit posts the document's form values and tallies the grading. Callers
// show SubmitFailureMessage for any returned error.
func Submit(ctx context.Context, s Submitter, doc *Document) (Result, error) {
	form := doc.FormValues()
	if err := submissionSchema.ValidateForm(form); err != nil {
		return Result{}, fmt.Errorf("invalid quiz form: %w", err)
	}

	outcomes, err := s.SubmitAnswers(ctx, form)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("quiz submit failed: %v", err)
		}
		return Result{}, fmt.Errorf("submit answers: %w", err)
	}

	res := Result{Outcomes: outcomes, Total: len(outcomes)}
	for _, o := range outcomes {
		if o.AnsweredCorrectly {
			res.Correct++
		}
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("quiz graded: %d/%d", res.Correct, res.Total)
	}
	return res, nil
}
