// Package backend implements model.Backend.
//
// The LMS backend talks to the learning platform server, which owns the
// assistant persona and the model credentials. The direct backends (OpenAI,
// Anthropic, Ollama) answer the same requests without a server by sending the
// persona prompt themselves: one system message plus one user message, no
// history, which is what the server does on its side.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sevi/config"
	"sevi/model"
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// New builds the backend selected in cfg.
func New(cfg *config.Config) (model.Backend, error) {
	var (
		b   model.Backend
		err error
	)
	switch cfg.Backend {
	case config.BackendLMS, "":
		b, err = wrap(NewLMS(cfg.BaseURL, cfg.SessionCookie, cfg.Timeout))
	case config.BackendOpenAI:
		b, err = wrap(NewOpenAI(cfg.BackendURL, cfg.APIKey, cfg.Model))
	case config.BackendAnthropic:
		b, err = wrap(NewAnthropic(cfg.BackendURL, cfg.APIKey, cfg.Model))
	case config.BackendOllama:
		b, err = wrap(NewOllama(cfg.BackendURL, cfg.Model))
	default:
		return nil, fmt.Errorf("unknown backend type: %s", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s backend: %w", cfg.Backend, err)
	}
	return b, nil
}

// wrap keeps a failed constructor from yielding a non-nil interface that
// holds a nil pointer.
func wrap[T model.Backend](b T, err error) (model.Backend, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Probe pings b with a short deadline and logs the outcome.
func Probe(ctx context.Context, b model.Backend) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := b.Ping(ctx)
	if config.DebugLog != nil {
		if err != nil {
			config.DebugLog.Printf("[Backend] %s unreachable: %v", b.Name(), err)
		} else {
			config.DebugLog.Printf("[Backend] %s reachable", b.Name())
		}
	}
	return err
}
