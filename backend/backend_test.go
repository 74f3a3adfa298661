package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"sevi/backend/testutil"
	"sevi/config"
	"sevi/model"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      config.Config
		expectError bool
		wantName    string
	}{
		{
			name:     "lms with defaults",
			config:   config.Config{Backend: config.BackendLMS, BaseURL: "http://localhost:8080"},
			wantName: config.BackendLMS,
		},
		{
			name:     "empty backend means lms",
			config:   config.Config{BaseURL: "http://localhost:8080"},
			wantName: config.BackendLMS,
		},
		{
			name:        "lms with relative url",
			config:      config.Config{Backend: config.BackendLMS, BaseURL: "not a url"},
			expectError: true,
		},
		{
			name:     "openai",
			config:   config.Config{Backend: config.BackendOpenAI, APIKey: "test-key", Model: "gpt-4o-mini"},
			wantName: config.BackendOpenAI,
		},
		{
			name:        "openai without key",
			config:      config.Config{Backend: config.BackendOpenAI},
			expectError: true,
		},
		{
			name:     "anthropic",
			config:   config.Config{Backend: config.BackendAnthropic, APIKey: "test-key"},
			wantName: config.BackendAnthropic,
		},
		{
			name:     "ollama with defaults",
			config:   config.Config{Backend: config.BackendOllama},
			wantName: config.BackendOllama,
		},
		{
			name:        "unknown backend",
			config:      config.Config{Backend: "gemini"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(&tt.config)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				if b != nil {
					t.Errorf("expected nil backend, got %T", b)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", b.Name(), tt.wantName)
			}
		})
	}
}

func TestNewReturnsLMS(t *testing.T) {
	b, err := New(&config.Config{Backend: config.BackendLMS, BaseURL: "http://localhost:8080"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.(*LMS); !ok {
		t.Errorf("expected *LMS, got %T", b)
	}
}

func TestProbe(t *testing.T) {
	mock := testutil.NewMockBackend()
	if err := Probe(context.Background(), mock); err != nil {
		t.Errorf("Probe() error = %v", err)
	}

	mock.PingFunc = func(ctx context.Context) error { return errors.New("down") }
	if err := Probe(context.Background(), mock); err == nil {
		t.Error("Probe() should report ping failure")
	}
}

func TestOllamaComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		io.WriteString(w, `{"model":"m","message":{"role":"assistant","content":"Здра"},"done":false}`+"\n")
		io.WriteString(w, `{"model":"m","message":{"role":"assistant","content":"вей "},"done":true}`+"\n")
	}))
	defer srv.Close()

	b, err := NewOllama(srv.URL, "m")
	if err != nil {
		t.Fatal(err)
	}

	var _ model.Backend = b
	got, err := b.SendChat(context.Background(), "hi")
	if err != nil {
		t.Fatalf("SendChat() error = %v", err)
	}
	if got != "Здравей" {
		t.Errorf("SendChat() = %q, want trimmed concatenation", got)
	}
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{Method: "POST", Path: "/chat/send", StatusCode: 502}
	if got := err.Error(); got != "POST /chat/send: 502 Bad Gateway" {
		t.Errorf("Error() = %q", got)
	}
}
