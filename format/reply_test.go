package format

import (
	"strings"
	"testing"
)

func TestReply(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "inline markers and newline",
			input: "**bold** and *italic* and __under__\nline2",
			want:  "<strong>bold</strong> and <em>italic</em> and <u>under</u><br>line2",
		},
		{
			name:  "fence with language tag",
			input: "```go\nfmt.Println(1)\n```",
			want:  "fmt.Println(1)<br>",
		},
		{
			name:  "fence with uppercase language tag",
			input: "```JSON\n{}\n```",
			want:  "{}<br>",
		},
		{
			name:  "bare fences",
			input: "x ```\ny\n``` z",
			want:  "x y<br> z",
		},
		{
			name:  "heading becomes bold",
			input: "### Present Simple\nUsed for habits.",
			want:  "<strong>Present Simple</strong><br>Used for habits.",
		},
		{
			name:  "heading only at line start",
			input: "a ### b",
			want:  "a ### b",
		},
		{
			name:  "heading on later line",
			input: "intro\n###   Rules",
			want:  "intro<br><strong>Rules</strong>",
		},
		{
			name:  "bold is not read as italic",
			input: "**a** *b*",
			want:  "<strong>a</strong> <em>b</em>",
		},
		{
			name:  "html passes through",
			input: "<strong>already</strong>",
			want:  "<strong>already</strong>",
		},
		{
			name:  "unpaired marker left alone",
			input: "2 * 3",
			want:  "2 * 3",
		},
		{
			name:  "crlf keeps carriage return",
			input: "a\r\nb",
			want:  "a\r<br>b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reply(tt.input); got != tt.want {
				t.Errorf("Reply(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReplyTwiceIsStable(t *testing.T) {
	inputs := []string{
		"**bold** and *italic* and __under__\nline2",
		"```python\nprint('x')\n```\n### Title\ntext",
		"plain text",
	}

	for _, in := range inputs {
		once := Reply(in)
		if twice := Reply(once); twice != once {
			t.Errorf("Reply(Reply(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tags dropped", "<strong>bold</strong> and <em>it</em>", "bold and it"},
		{"br to newline", "a<br>b<br/>c", "a\nb\nc"},
		{"entities decoded", "x &lt; y &amp;&amp; z", "x < y && z"},
		{"unknown tags keep text", `<a href="/x">link</a>`, "link"},
		{"trailing breaks trimmed", "done<br><br>", "done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.input); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTerminalKeepsText(t *testing.T) {
	out := Terminal(Reply("**Hello** there\nfriend"), 40)
	for _, want := range []string{"Hello", "there", "friend"} {
		if !strings.Contains(out, want) {
			t.Errorf("Terminal() output %q missing %q", out, want)
		}
	}
}
