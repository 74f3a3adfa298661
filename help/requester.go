// Package help fetches assistant explanations for individual quiz questions.
// Every question owns a response slot; requests for different questions run
// independently and only ever write their own slot.
package help

import (
	"context"
	"html"
	"sync"

	"sevi/config"
	"sevi/format"
	"sevi/quiz"
)

const (
	WaitMessage  = "Please wait..."
	ErrorMessage = "An error occurred while retrieving help."
)

// Asker sends a synthesized help question (POST /chat/question-help).
type Asker interface {
	QuestionHelp(ctx context.Context, question string) (string, error)
}

// Snapshotter yields the current context of a question.
type Snapshotter interface {
	Snapshot(id string) quiz.QuestionContext
}

// Slot is the response container of one question.
type Slot struct {
	Visible bool
	Pending bool
	HTML    string
}

type slot struct {
	Slot
	inflight int
}

// Requester owns the response slots. There is no re-entrancy guard: asking
// twice for the same question runs both requests and the later completion
// wins.
type Requester struct {
	asker Asker

	mu       sync.Mutex
	slots    map[string]*slot
	onUpdate func(id string)
}

func NewRequester(asker Asker) *Requester {
	return &Requester{
		asker: asker,
		slots: make(map[string]*slot),
	}
}

// OnUpdate registers fn to run, outside the lock, whenever a slot changes.
func (r *Requester) OnUpdate(fn func(id string)) {
	r.mu.Lock()
	r.onUpdate = fn
	r.mu.Unlock()
}

// Begin opens the slot for id with the waiting text.
func (r *Requester) Begin(id string) {
	r.update(id, func(s *slot) {
		s.Visible = true
		s.Pending = true
		s.inflight++
		s.HTML = html.EscapeString(WaitMessage)
	})
}

// Fetch sends question and writes the formatted reply, or the fixed error
// text, into the slot for id. It must follow a Begin for the same id.
func (r *Requester) Fetch(ctx context.Context, id, question string) {
	reply, err := r.asker.QuestionHelp(ctx, question)

	body := format.Reply(reply)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Help] question %s: %v", id, err)
		}
		body = html.EscapeString(ErrorMessage)
	}

	r.update(id, func(s *slot) {
		if s.inflight > 0 {
			s.inflight--
		}
		s.Pending = s.inflight > 0
		s.HTML = body
	})
}

// Ask snapshots the question, builds its prompt and runs the request.
func (r *Requester) Ask(ctx context.Context, doc Snapshotter, id string) Slot {
	prompt := quiz.BuildPrompt(doc.Snapshot(id))
	r.Begin(id)
	r.Fetch(ctx, id, prompt.Question)
	s, _ := r.Slot(id)
	return s
}

// Close hides the slot and keeps its content for the next open.
func (r *Requester) Close(id string) {
	r.mu.Lock()
	s, ok := r.slots[id]
	if ok {
		s.Visible = false
	}
	r.mu.Unlock()

	if ok {
		r.notify(id)
	}
}

// Slot returns a copy of the slot for id.
func (r *Requester) Slot(id string) (Slot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return Slot{}, false
	}
	return s.Slot, true
}

func (r *Requester) update(id string, fn func(*slot)) {
	r.mu.Lock()
	s, ok := r.slots[id]
	if !ok {
		s = &slot{}
		r.slots[id] = s
	}
	fn(s)
	r.mu.Unlock()

	r.notify(id)
}

func (r *Requester) notify(id string) {
	r.mu.Lock()
	fn := r.onUpdate
	r.mu.Unlock()
	if fn != nil {
		fn(id)
	}
}
