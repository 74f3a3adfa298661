package model

import (
	"context"

	"sevi/chat"
	"sevi/config"
	"sevi/help"
	"sevi/quiz"
)

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config    *config.Config
	Backend   Backend
	Fetcher   quiz.Fetcher   // nil without an LMS server
	Submitter quiz.Submitter // nil without an LMS server

	// Application data
	Chat       *chat.Session
	Help       *help.Requester
	Quiz       *quiz.Document
	QuizSource string
	LastResult *quiz.Result

	// Runtime state (not UI)
	Quitting bool

	// Application metadata
	Version string
}

// NewModel wires the chat session and help requester to backend.
func NewModel(cfg *config.Config, backend Backend, fetcher quiz.Fetcher, submitter quiz.Submitter, version string) *Model {
	session := chat.NewSession(backend, chat.Options{
		UserAvatar:      cfg.UserAvatar,
		AssistantAvatar: cfg.AssistantAvatar,
		Greeting:        cfg.Greeting,
	})

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Model] NewModel: backend=%s server=%v", backend.Name(), submitter != nil)
	}

	return &Model{
		Config:    cfg,
		Backend:   backend,
		Fetcher:   fetcher,
		Submitter: submitter,
		Chat:      session,
		Help:      help.NewRequester(backend),
		Version:   version,
	}
}

// requestContext bounds a request by the configured timeout. Without one the
// request runs until the transport gives up.
func (m *Model) requestContext() (context.Context, context.CancelFunc) {
	if m.Config != nil && m.Config.Timeout > 0 {
		return context.WithTimeout(context.Background(), m.Config.Timeout)
	}
	return context.WithCancel(context.Background())
}
