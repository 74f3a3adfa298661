package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"testing"
	"time"
)

func newTestLMS(t *testing.T, handler http.HandlerFunc) *LMS {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewLMS(srv.URL, "abc123", 0)
	if err != nil {
		t.Fatalf("NewLMS() error = %v", err)
	}
	return c
}

func TestLMSSendChat(t *testing.T) {
	c := newTestLMS(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/send" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if cookie := r.Header.Get("Cookie"); cookie != "JSESSIONID=abc123" {
			t.Errorf("Cookie = %q", cookie)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if got := r.PostForm.Get("userInput"); got != "Здравей & hi" {
			t.Errorf("userInput = %q", got)
		}
		io.WriteString(w, "**Здравей!**")
	})

	reply, err := c.SendChat(context.Background(), "Здравей & hi")
	if err != nil {
		t.Fatalf("SendChat() error = %v", err)
	}
	if reply != "**Здравей!**" {
		t.Errorf("reply = %q", reply)
	}
}

func TestLMSQuestionHelp(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{name: "reply", status: 200, body: `{"reply":"### Yes"}`, want: "### Yes"},
		{name: "missing reply is empty", status: 200, body: `{}`, want: ""},
		{name: "bad request", status: 400, body: `{"error":"invalid input"}`, wantErr: true},
		{name: "garbage", status: 200, body: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestLMS(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/chat/question-help" {
					t.Errorf("path = %s", r.URL.Path)
				}
				var req struct {
					Question string `json:"question"`
				}
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question != "Q?" {
					t.Errorf("request body question = %q, err %v", req.Question, err)
				}
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			got, err := c.QuestionHelp(context.Background(), "Q?")
			if (err != nil) != tt.wantErr {
				t.Fatalf("QuestionHelp() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("QuestionHelp() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLMSStatusError(t *testing.T) {
	c := newTestLMS(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"database down"}`)
	})

	_, err := c.SendChat(context.Background(), "x")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if se.StatusCode != 500 || se.Body != "database down" || se.Path != "/chat/send" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestLMSSubmitAnswers(t *testing.T) {
	c := newTestLMS(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lections/submit" || r.Header.Get("Accept") != "application/json" {
			t.Errorf("got %s accept %q", r.URL.Path, r.Header.Get("Accept"))
		}
		_ = r.ParseForm()
		if r.PostForm.Get("lectionId") != "12" || r.PostForm.Get("question_1") != "goes" {
			t.Errorf("form = %v", r.PostForm)
		}
		io.WriteString(w, `{"questions":[{"id":1,"answeredCorrectly":true},{"id":2,"answeredCorrectly":false}]}`)
	})

	form := url.Values{"lectionId": {"12"}, "question_1": {"goes"}}
	outcomes, err := c.SubmitAnswers(context.Background(), form)
	if err != nil {
		t.Fatalf("SubmitAnswers() error = %v", err)
	}
	if len(outcomes) != 2 || outcomes[0].ID != "1" || !outcomes[0].AnsweredCorrectly || outcomes[1].AnsweredCorrectly {
		t.Errorf("outcomes = %+v", outcomes)
	}
}

func TestLMSAvatars(t *testing.T) {
	var saved string
	c := newTestLMS(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/avatars/female":
			io.WriteString(w, `["a.png","b.png"]`)
		case "/user/save-avatar":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			saved = body["profilePicture"]
			io.WriteString(w, `{"message":"ok"}`)
		default:
			http.NotFound(w, r)
		}
	})

	files, err := c.ListAvatars(context.Background(), "female")
	if err != nil {
		t.Fatalf("ListAvatars() error = %v", err)
	}
	if !slices.Equal(files, []string{"a.png", "b.png"}) {
		t.Errorf("files = %v", files)
	}

	if err := c.SaveAvatar(context.Background(), "/img/avatars/female/b.png"); err != nil {
		t.Fatalf("SaveAvatar() error = %v", err)
	}
	if saved != "/img/avatars/female/b.png" {
		t.Errorf("saved = %q", saved)
	}

	if _, err := c.ListAvatars(context.Background(), "robot"); err == nil {
		t.Error("ListAvatars(robot) should fail on 404")
	}
}

func TestLMSFetchPageAndHistory(t *testing.T) {
	c := newTestLMS(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lections/3":
			io.WriteString(w, "<h2>Theme</h2>")
		case "/chat/history":
			io.WriteString(w, `[{"role":"You","content":"hi"},{"role":"Assistant","content":"hello"}]`)
		default:
			http.NotFound(w, r)
		}
	})

	body, err := c.FetchPage(context.Background(), "/lections/3")
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	data, _ := io.ReadAll(body)
	body.Close()
	if string(data) != "<h2>Theme</h2>" {
		t.Errorf("page = %q", data)
	}

	hist, err := c.History(context.Background())
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(hist) != 2 || hist[1].Content != "hello" {
		t.Errorf("history = %+v", hist)
	}
}

func TestHistoryEntryFromUser(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"You", true},
		{"you", true},
		{" YOU ", true},
		{"user", true},
		{"User", true},
		{"Assistant", false},
		{"assistant", false},
		{"", false},
		{"Youth", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := (HistoryEntry{Role: tt.role}).FromUser(); got != tt.want {
				t.Errorf("FromUser(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestLMSCookieStaysOnPlatform(t *testing.T) {
	var foreignCookie string
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foreignCookie = r.Header.Get("Cookie")
		io.WriteString(w, "<h2>Elsewhere</h2>")
	}))
	defer foreign.Close()

	var platformCookie string
	c := newTestLMS(t, func(w http.ResponseWriter, r *http.Request) {
		platformCookie = r.Header.Get("Cookie")
		io.WriteString(w, "<h2>Theme</h2>")
	})

	body, err := c.FetchPage(context.Background(), foreign.URL+"/page")
	if err != nil {
		t.Fatalf("FetchPage(foreign) error = %v", err)
	}
	body.Close()
	if foreignCookie != "" {
		t.Errorf("foreign host got Cookie %q", foreignCookie)
	}

	body, err = c.FetchPage(context.Background(), c.BaseURL()+"/lections/3")
	if err != nil {
		t.Fatalf("FetchPage(platform) error = %v", err)
	}
	body.Close()
	if platformCookie != "JSESSIONID=abc123" {
		t.Errorf("platform Cookie = %q", platformCookie)
	}
}

func TestLMSPing(t *testing.T) {
	c := newTestLMS(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	down := newTestLMS(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	if err := down.Ping(context.Background()); err == nil {
		t.Error("Ping() should fail on 503")
	}
}

func TestLMSTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := NewLMS(srv.URL, "", 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.SendChat(context.Background(), "x"); err == nil {
		t.Error("SendChat() should time out")
	}
}

func TestNewLMSRejectsRelativeURL(t *testing.T) {
	if _, err := NewLMS("localhost:8080/app", "", 0); err == nil {
		t.Error("NewLMS() accepted a URL without scheme")
	}
}

func TestResolve(t *testing.T) {
	c, _ := NewLMS("https://lms.example.com/app/", "", 0)
	tests := map[string]string{
		"/chat/send":                "https://lms.example.com/app/chat/send",
		"img/a.png":                 "https://lms.example.com/app/img/a.png",
		"https://cdn.example.com/x": "https://cdn.example.com/x",
	}
	for in, want := range tests {
		if got := c.Resolve(in); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
}
