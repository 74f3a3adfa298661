// Package chat holds the assistant conversation: an append-only transcript
// of message bubbles and the session state machine that drives it.
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one bubble in the transcript. BodyHTML uses the restricted
// markup produced by format.Reply; user text is escaped before it lands here.
type Message struct {
	ID        string
	Role      Role
	BodyHTML  string
	AvatarURL string
	Loader    bool
	Timestamp time.Time
}

// Transcript is the ordered list of bubbles. Append is the only way to add
// content; the loader placeholder is the one bubble that can be removed.
type Transcript struct {
	mu       sync.Mutex
	messages []Message
	loaderID string
	onChange func()
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// OnChange registers fn to run after every mutation, outside the lock.
func (t *Transcript) OnChange(fn func()) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

func (t *Transcript) Append(role Role, bodyHTML, avatarURL string) Message {
	t.mu.Lock()
	msg := Message{
		ID:        uuid.NewString(),
		Role:      role,
		BodyHTML:  bodyHTML,
		AvatarURL: avatarURL,
		Timestamp: time.Now(),
	}
	t.messages = append(t.messages, msg)
	t.mu.Unlock()

	t.notify()
	return msg
}

// AppendLoader adds the pending-reply placeholder and returns its id. Only
// one loader exists at a time; a second call returns the existing id.
func (t *Transcript) AppendLoader(avatarURL string) string {
	t.mu.Lock()
	if t.loaderID != "" {
		id := t.loaderID
		t.mu.Unlock()
		return id
	}
	msg := Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		AvatarURL: avatarURL,
		Loader:    true,
		Timestamp: time.Now(),
	}
	t.messages = append(t.messages, msg)
	t.loaderID = msg.ID
	t.mu.Unlock()

	t.notify()
	return msg.ID
}

// RemoveLoader drops the placeholder. It reports false when none is shown.
func (t *Transcript) RemoveLoader() bool {
	t.mu.Lock()
	if t.loaderID == "" {
		t.mu.Unlock()
		return false
	}
	for i, m := range t.messages {
		if m.ID == t.loaderID {
			t.messages = append(t.messages[:i], t.messages[i+1:]...)
			break
		}
	}
	t.loaderID = ""
	t.mu.Unlock()

	t.notify()
	return true
}

func (t *Transcript) Reset() {
	t.mu.Lock()
	t.messages = nil
	t.loaderID = ""
	t.mu.Unlock()

	t.notify()
}

// Messages returns a copy of the transcript in append order.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

func (t *Transcript) HasLoader() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loaderID != ""
}

func (t *Transcript) notify() {
	t.mu.Lock()
	fn := t.onChange
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}
