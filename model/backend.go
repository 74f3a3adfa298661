package model

import "context"

// Backend answers chat messages and quiz help questions.
type Backend interface {
	// SendChat delivers one chat message and returns the raw reply text.
	SendChat(ctx context.Context, userInput string) (string, error)

	// QuestionHelp asks for an explanation of a synthesized quiz question.
	// An empty reply is not an error.
	QuestionHelp(ctx context.Context, question string) (string, error)

	// Name identifies the backend in the status bar and debug log.
	Name() string

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
