package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"sevi/config"
)

const anthropicMaxTokens = 4096

// Anthropic answers requests with the Claude messages API.
type Anthropic struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropic creates an Anthropic backend.
//
// Parameters:
//   - baseURL: API base URL (default: "https://api.anthropic.com")
//   - apiKey: API key (required)
//   - model: model name (default: claude-sonnet-4-5)
func NewAnthropic(baseURL, apiKey, model string) (*Anthropic, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	m := anthropic.ModelClaudeSonnet4_5_20250929
	if model != "" {
		m = anthropic.Model(model)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &Anthropic{client: &client, model: m}, nil
}

func (b *Anthropic) Name() string { return config.BackendAnthropic }

func (b *Anthropic) SendChat(ctx context.Context, userInput string) (string, error) {
	return b.complete(ctx, userInput)
}

func (b *Anthropic) QuestionHelp(ctx context.Context, question string) (string, error) {
	return b.complete(ctx, question)
}

func (b *Anthropic) complete(ctx context.Context, text string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     b.model,
		MaxTokens: anthropicMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: SystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	}

	stream := b.client.Messages.NewStreaming(ctx, params)
	var reply strings.Builder
	for stream.Next() {
		event := stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok {
				reply.WriteString(delta.Text)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("Anthropic streaming error: %w", err)
	}

	return strings.TrimSpace(reply.String()), nil
}

// Ping sends a one-token request; the API has no health endpoint.
func (b *Anthropic) Ping(ctx context.Context) error {
	_, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     b.model,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("Anthropic ping failed: %w", err)
	}
	return nil
}
