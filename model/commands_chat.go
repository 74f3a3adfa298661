package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sevi/config"
)

// SendChat accepts input into the chat session and returns the command that
// performs the request. It returns nil when the session rejects the input
// (blank, too long, or a request already in flight).
func (m *Model) SendChat(input string) tea.Cmd {
	req, ok := m.Chat.Submit(input)
	if !ok {
		return nil
	}

	session := m.Chat
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		start := time.Now()
		reply, err := session.Exchange(ctx, req)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] chat exchange took %v (err=%v)", time.Since(start), err)
		}
		return ChatReplyMsg{Request: req, Reply: reply, Err: err}
	}
}

// ApplyChatReply finishes the exchange started by SendChat.
func (m *Model) ApplyChatReply(msg ChatReplyMsg) bool {
	return m.Chat.Complete(msg.Request, msg.Reply, msg.Err)
}

// NewChat resets the conversation to the greeting.
func (m *Model) NewChat() {
	m.Chat.NewChat()
}

// CheckBackend pings the backend.
func (m *Model) CheckBackend() tea.Cmd {
	b := m.Backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return BackendStatusMsg{Name: b.Name(), Err: b.Ping(ctx)}
	}
}
