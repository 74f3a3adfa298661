package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"sevi/config"
)

// Ollama answers requests with a local Ollama server.
type Ollama struct {
	client  *api.Client
	model   string
	baseURL string
}

func NewOllama(baseURL, model string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.1:latest"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &Ollama{
		client:  api.NewClient(parsedURL, http.DefaultClient),
		model:   model,
		baseURL: baseURL,
	}, nil
}

func (b *Ollama) Name() string { return config.BackendOllama }

func (b *Ollama) SendChat(ctx context.Context, userInput string) (string, error) {
	return b.complete(ctx, userInput)
}

func (b *Ollama) QuestionHelp(ctx context.Context, question string) (string, error) {
	return b.complete(ctx, question)
}

func (b *Ollama) complete(ctx context.Context, text string) (string, error) {
	req := &api.ChatRequest{
		Model: b.model,
		Messages: []api.Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: text},
		},
		Stream: func(v bool) *bool { return &v }(true),
	}

	var reply strings.Builder
	err := b.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}

	return strings.TrimSpace(reply.String()), nil
}

func (b *Ollama) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := b.client.List(ctx); err != nil {
		return fmt.Errorf("ollama at %s unreachable: %w", b.baseURL, err)
	}
	return nil
}
