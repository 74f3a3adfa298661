package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"sevi/config"
)

// OpenAI answers requests with the OpenAI chat completions API. Any
// OpenAI-compatible endpoint works through baseURL.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates an OpenAI backend.
//
// Parameters:
//   - baseURL: API base URL (default: "https://api.openai.com/v1")
//   - apiKey: API key (required)
//   - model: model name (default: "gpt-4o-mini")
func NewOpenAI(baseURL, apiKey, model string) (*OpenAI, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAI{client: client, model: model}, nil
}

func (b *OpenAI) Name() string { return config.BackendOpenAI }

func (b *OpenAI) SendChat(ctx context.Context, userInput string) (string, error) {
	return b.complete(ctx, userInput)
}

func (b *OpenAI) QuestionHelp(ctx context.Context, question string) (string, error) {
	return b.complete(ctx, question)
}

// complete streams one persona-prompted completion and returns the full text.
func (b *OpenAI) complete(ctx context.Context, text string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(text),
		},
	}

	stream := b.client.Chat.Completions.NewStreaming(ctx, params)
	var reply strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) > 0 {
			reply.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("OpenAI streaming error: %w", err)
	}

	return strings.TrimSpace(reply.String()), nil
}

// Ping lists models.
func (b *OpenAI) Ping(ctx context.Context) error {
	if _, err := b.client.Models.List(ctx); err != nil {
		return fmt.Errorf("OpenAI ping failed: %w", err)
	}
	return nil
}
