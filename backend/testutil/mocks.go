package testutil

import (
	"context"
	"io"
	"net/url"
	"strings"
	"sync"

	"sevi/quiz"
)

// MockBackend implements model.Backend for testing.
type MockBackend struct {
	SendChatFunc     func(ctx context.Context, userInput string) (string, error)
	QuestionHelpFunc func(ctx context.Context, question string) (string, error)
	PingFunc         func(ctx context.Context) error

	mu        sync.Mutex
	chats     []string
	questions []string
}

// NewMockBackend creates a mock backend with default implementations.
func NewMockBackend() *MockBackend {
	m := &MockBackend{}
	m.SendChatFunc = func(ctx context.Context, userInput string) (string, error) {
		return "Mock response", nil
	}
	m.QuestionHelpFunc = func(ctx context.Context, question string) (string, error) {
		return "Mock help", nil
	}
	m.PingFunc = func(ctx context.Context) error { return nil }
	return m
}

func (m *MockBackend) Name() string { return "mock" }

func (m *MockBackend) SendChat(ctx context.Context, userInput string) (string, error) {
	m.mu.Lock()
	m.chats = append(m.chats, userInput)
	m.mu.Unlock()
	return m.SendChatFunc(ctx, userInput)
}

func (m *MockBackend) QuestionHelp(ctx context.Context, question string) (string, error) {
	m.mu.Lock()
	m.questions = append(m.questions, question)
	m.mu.Unlock()
	return m.QuestionHelpFunc(ctx, question)
}

func (m *MockBackend) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}

// Chats returns the chat inputs received so far.
func (m *MockBackend) Chats() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.chats...)
}

// Questions returns the help questions received so far.
func (m *MockBackend) Questions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.questions...)
}

// MockServer implements the server-only services: page fetching, quiz
// grading and avatars.
type MockServer struct {
	Pages    map[string]string
	Outcomes []quiz.Outcome
	Avatars  map[string][]string
	Err      error

	mu        sync.Mutex
	Submitted []url.Values
	Saved     []string
}

func (s *MockServer) FetchPage(ctx context.Context, path string) (io.ReadCloser, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return io.NopCloser(strings.NewReader(s.Pages[path])), nil
}

func (s *MockServer) SubmitAnswers(ctx context.Context, form url.Values) ([]quiz.Outcome, error) {
	s.mu.Lock()
	s.Submitted = append(s.Submitted, form)
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Outcomes, nil
}

func (s *MockServer) ListAvatars(ctx context.Context, gender string) ([]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Avatars[gender], nil
}

func (s *MockServer) SaveAvatar(ctx context.Context, pictureURL string) error {
	s.mu.Lock()
	s.Saved = append(s.Saved, pictureURL)
	s.mu.Unlock()
	return s.Err
}

// Resolve prefixes paths with a fixed test host.
func (s *MockServer) Resolve(path string) string {
	return "http://lms.test/" + strings.TrimLeft(path, "/")
}
