package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sevi/config"
	"sevi/quiz"
)

// Server endpoints.
const (
	pathChatSend     = "/chat/send"
	pathQuestionHelp = "/chat/question-help"
	pathChatHistory  = "/chat/history"
	pathSubmitQuiz   = "/lections/submit"
	pathAvatars      = "/avatars/"
	pathSaveAvatar   = "/user/save-avatar"
)

const maxErrorBody = 512

// LMS is the learning platform server. It implements model.Backend,
// quiz.Fetcher, quiz.Submitter and the avatar service.
type LMS struct {
	baseURL    *url.URL
	cookie     string
	httpClient *http.Client
}

// HistoryEntry is one line of the server-side chat log.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FromUser reports whether the entry is the user's turn. The server labels
// them "You"; "user" is accepted as well.
func (e HistoryEntry) FromUser() bool {
	role := strings.TrimSpace(e.Role)
	return strings.EqualFold(role, "you") || strings.EqualFold(role, "user")
}

// NewLMS creates a client for the server at baseURL. cookie is sent verbatim
// as the Cookie header; a bare value is taken to be the JSESSIONID. A zero
// timeout means requests wait for as long as the transport allows.
func NewLMS(baseURL, cookie string, timeout time.Duration) (*LMS, error) {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: must be absolute", baseURL)
	}

	cookie = strings.TrimSpace(cookie)
	if cookie != "" && !strings.Contains(cookie, "=") {
		cookie = "JSESSIONID=" + cookie
	}

	return &LMS{
		baseURL:    u,
		cookie:     cookie,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *LMS) Name() string { return config.BackendLMS }

// BaseURL returns the server root without a trailing slash.
func (c *LMS) BaseURL() string { return c.baseURL.String() }

// Resolve turns a server path into an absolute URL. Absolute URLs pass
// through unchanged.
func (c *LMS) Resolve(path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	return c.BaseURL() + "/" + strings.TrimLeft(path, "/")
}

// SendChat posts the form field userInput and returns the plain-text reply.
func (c *LMS) SendChat(ctx context.Context, userInput string) (string, error) {
	form := url.Values{"userInput": {userInput}}
	body, err := c.do(ctx, http.MethodPost, pathChatSend, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), "")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// QuestionHelp posts {"question": ...} and returns the reply field.
func (c *LMS) QuestionHelp(ctx context.Context, question string) (string, error) {
	payload, err := json.Marshal(quiz.HelpRequest{Question: question})
	if err != nil {
		return "", fmt.Errorf("failed to encode help request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, pathQuestionHelp, "application/json", bytes.NewReader(payload), "application/json")
	if err != nil {
		return "", err
	}

	var resp struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode help reply: %w", err)
	}
	return resp.Reply, nil
}

// SubmitAnswers posts the quiz form and returns the per-question grading.
func (c *LMS) SubmitAnswers(ctx context.Context, form url.Values) ([]quiz.Outcome, error) {
	body, err := c.do(ctx, http.MethodPost, pathSubmitQuiz, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), "application/json")
	if err != nil {
		return nil, err
	}

	var resp struct {
		Questions []quiz.Outcome `json:"questions"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode grading: %w", err)
	}
	return resp.Questions, nil
}

// ListAvatars returns the avatar file names available for gender.
func (c *LMS) ListAvatars(ctx context.Context, gender string) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, pathAvatars+url.PathEscape(gender), "", nil, "application/json")
	if err != nil {
		return nil, err
	}

	var files []string
	if err := json.Unmarshal(body, &files); err != nil {
		return nil, fmt.Errorf("failed to decode avatar list: %w", err)
	}
	return files, nil
}

// SaveAvatar stores pictureURL as the user's profile picture.
func (c *LMS) SaveAvatar(ctx context.Context, pictureURL string) error {
	payload, err := json.Marshal(map[string]string{"profilePicture": pictureURL})
	if err != nil {
		return fmt.Errorf("failed to encode avatar: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, pathSaveAvatar, "application/json", bytes.NewReader(payload), "")
	return err
}

// FetchPage downloads a server-rendered page.
func (c *LMS) FetchPage(ctx context.Context, path string) (io.ReadCloser, error) {
	resp, err := c.send(ctx, http.MethodGet, path, "", nil, "text/html")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// History returns the server's chat log.
func (c *LMS) History(ctx context.Context) ([]HistoryEntry, error) {
	body, err := c.do(ctx, http.MethodGet, pathChatHistory, "", nil, "application/json")
	if err != nil {
		return nil, err
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode chat history: %w", err)
	}
	return entries, nil
}

// Ping requests the server root. Any HTTP answer below 500 means reachable.
func (c *LMS) Ping(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodGet, "/", "", nil, "")
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode < 500 {
			return nil
		}
		return fmt.Errorf("LMS ping failed: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (c *LMS) sameOrigin(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, c.baseURL.Scheme) && strings.EqualFold(u.Host, c.baseURL.Host)
}

func (c *LMS) do(ctx context.Context, method, path, contentType string, body io.Reader, accept string) ([]byte, error) {
	resp, err := c.send(ctx, method, path, contentType, body, accept)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}
	return data, nil
}

// send performs the request; on a non-2xx status the body is consumed and a
// *StatusError returned.
func (c *LMS) send(ctx context.Context, method, path, contentType string, body io.Reader, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.Resolve(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	// The session cookie belongs to the platform only.
	if c.cookie != "" && c.sameOrigin(req.URL) {
		req.Header.Set("Cookie", c.cookie)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[LMS] %s %s", method, req.URL.Path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       errorText(raw),
		}
	}
	return resp, nil
}

// errorText pulls the message out of {"error": ...} or {"message": ...}
// bodies and falls back to the raw text.
func errorText(raw []byte) string {
	var fields map[string]any
	if json.Unmarshal(raw, &fields) == nil {
		for _, key := range []string{"error", "message"} {
			if s, ok := fields[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return strings.TrimSpace(string(raw))
}
