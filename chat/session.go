package chat

import (
	"context"
	"html"
	"strings"
	"sync"

	"sevi/config"
	"sevi/format"
	"sevi/validation"
)

// ErrorMessage replaces the reply when the server cannot be reached.
const ErrorMessage = "⚠️ Error connecting to the server."

// MaxInputLength bounds a single chat message, in runes.
const MaxInputLength = 2000

// Sender delivers one chat message (POST /chat/send) and returns the raw
// assistant reply.
type Sender interface {
	SendChat(ctx context.Context, userInput string) (string, error)
}

type State int

const (
	Idle State = iota
	Sending
)

func (s State) String() string {
	if s == Sending {
		return "sending"
	}
	return "idle"
}

// Options carries the avatars and greeting shown in the transcript.
type Options struct {
	UserAvatar      string
	AssistantAvatar string
	Greeting        string
}

// Request is an accepted submission waiting for its reply.
type Request struct {
	Text string
	seq  uint64
}

var inputSchema = validation.Schema{
	{Name: "userInput", Rules: []validation.Rule{
		validation.Required("message is empty"),
		validation.MaxLength(MaxInputLength, "message is too long"),
	}},
}

// Session drives one conversation: idle -> sending -> idle. While a request
// is in flight input is disabled, so at most one request is outstanding.
type Session struct {
	sender     Sender
	opts       Options
	transcript *Transcript

	mu    sync.Mutex
	state State
	seq   uint64
}

// NewSession creates a session seeded with the greeting.
func NewSession(sender Sender, opts Options) *Session {
	s := &Session{
		sender:     sender,
		opts:       opts,
		transcript: NewTranscript(),
	}
	s.NewChat()
	return s
}

func (s *Session) Transcript() *Transcript { return s.transcript }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) InputEnabled() bool {
	return s.State() == Idle
}

// Submit accepts the user's input. Blank input, input that fails validation
// and input arriving while a request is in flight are rejected without any
// change to the transcript or state.
func (s *Session) Submit(input string) (Request, bool) {
	text := strings.TrimSpace(input)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return Request{}, false
	}
	if err := inputSchema.Validate(map[string]string{"userInput": text}); err != nil {
		if config.DebugLog != nil && text != "" {
			config.DebugLog.Printf("[Chat] input rejected: %v", err)
		}
		return Request{}, false
	}

	s.transcript.Append(RoleUser, html.EscapeString(text), s.opts.UserAvatar)
	s.transcript.AppendLoader(s.opts.AssistantAvatar)
	s.state = Sending
	s.seq++

	return Request{Text: text, seq: s.seq}, true
}

// Exchange performs the network call for req. It does not touch session
// state and may run off the UI goroutine.
func (s *Session) Exchange(ctx context.Context, req Request) (string, error) {
	return s.sender.SendChat(ctx, req.Text)
}

// Complete resolves req: the loader goes away, exactly one assistant bubble
// is appended and input is enabled again. It reports false for a request
// that was abandoned by NewChat.
func (s *Session) Complete(req Request, reply string, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Sending || req.seq != s.seq {
		return false
	}

	s.transcript.RemoveLoader()
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Chat] send failed: %v", err)
		}
		s.transcript.Append(RoleAssistant, ErrorMessage, s.opts.AssistantAvatar)
	} else {
		s.transcript.Append(RoleAssistant, format.Reply(reply), s.opts.AssistantAvatar)
	}
	s.state = Idle
	return true
}

// Send runs a whole submission synchronously.
func (s *Session) Send(ctx context.Context, input string) bool {
	req, ok := s.Submit(input)
	if !ok {
		return false
	}
	reply, err := s.Exchange(ctx, req)
	return s.Complete(req, reply, err)
}

// NewChat clears the transcript and leaves only the greeting. A request
// still in flight is abandoned.
func (s *Session) NewChat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript.Reset()
	s.transcript.Append(RoleAssistant, html.EscapeString(s.opts.Greeting), s.opts.AssistantAvatar)
	s.state = Idle
	s.seq++
}

// LastReply returns the newest assistant bubble body.
func (s *Session) LastReply() (string, bool) {
	msgs := s.transcript.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleAssistant && !msgs[i].Loader {
			return msgs[i].BodyHTML, true
		}
	}
	return "", false
}
