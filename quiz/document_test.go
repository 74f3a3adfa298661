package quiz

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func loadFixture(t *testing.T) *Document {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "lection.html"))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestQuestionIDs(t *testing.T) {
	doc := loadFixture(t)
	got := doc.QuestionIDs()
	want := []string{"1", "2", "3"}
	if !slices.Equal(got, want) {
		t.Errorf("QuestionIDs() = %v, want %v", got, want)
	}
}

func TestSnapshot(t *testing.T) {
	doc := loadFixture(t)

	tests := []struct {
		name string
		id   string
		want QuestionContext
	}{
		{
			name: "unanswered choice question",
			id:   "1",
			want: QuestionContext{
				ID:               "1",
				PromptText:       "She ___ to school every day.",
				Kind:             SingleChoice,
				AvailableChoices: []string{"go", "goes", "going"},
				LectureName:      "12",
				ThemeName:        "Present Simple",
			},
		},
		{
			name: "blank text input is unanswered",
			id:   "2",
			want: QuestionContext{
				ID:          "2",
				PromptText:  `Translate: "I read books."`,
				Kind:        FreeText,
				LectureName: "12",
				ThemeName:   "Present Simple",
			},
		},
		{
			name: "checked checkbox",
			id:   "3",
			want: QuestionContext{
				ID:               "3",
				PromptText:       "Which are verbs?",
				Kind:             SingleChoice,
				AvailableChoices: []string{"run", "table"},
				SelectedAnswer:   "run",
				LectureName:      "12",
				ThemeName:        "Present Simple",
			},
		},
		{
			name: "missing question falls back",
			id:   "99",
			want: QuestionContext{
				ID:          "99",
				PromptText:  FallbackQuestion,
				Kind:        FreeText,
				LectureName: "12",
				ThemeName:   "Present Simple",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := doc.Snapshot(tt.id)
			if got.ID != tt.want.ID || got.PromptText != tt.want.PromptText || got.Kind != tt.want.Kind ||
				got.SelectedAnswer != tt.want.SelectedAnswer || got.LectureName != tt.want.LectureName ||
				got.ThemeName != tt.want.ThemeName {
				t.Errorf("Snapshot(%q) = %+v, want %+v", tt.id, got, tt.want)
			}
			if !slices.Equal(got.AvailableChoices, tt.want.AvailableChoices) {
				t.Errorf("AvailableChoices = %q, want %q", got.AvailableChoices, tt.want.AvailableChoices)
			}
		})
	}
}

func TestSnapshotEmptyPage(t *testing.T) {
	doc, err := Parse(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatal(err)
	}
	got := doc.Snapshot("1")
	if got.PromptText != FallbackQuestion || got.LectureName != FallbackLecture || got.ThemeName != FallbackTheme {
		t.Errorf("Snapshot() = %+v, want fallbacks", got)
	}
	if got.Answered() {
		t.Error("empty page question should be unanswered")
	}
}

func TestSelectReflectsInNextSnapshot(t *testing.T) {
	doc := loadFixture(t)

	if err := doc.Select("1", "goes"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got := doc.Snapshot("1").SelectedAnswer; got != "goes" {
		t.Errorf("SelectedAnswer = %q, want goes", got)
	}

	if err := doc.Select("1", "go"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	checked := 0
	for _, opt := range doc.Options("1") {
		if opt.Checked {
			checked++
			if opt.Value != "go" {
				t.Errorf("checked option = %q, want go", opt.Value)
			}
		}
	}
	if checked != 1 {
		t.Errorf("%d options checked, want 1", checked)
	}
}

func TestMutatorErrors(t *testing.T) {
	doc := loadFixture(t)

	if err := doc.Select("1", "went"); !errors.Is(err, ErrNoSuchOption) {
		t.Errorf("Select(unknown) error = %v, want ErrNoSuchOption", err)
	}
	if err := doc.SetText("1", "x"); !errors.Is(err, ErrNoTextInput) {
		t.Errorf("SetText(choice) error = %v, want ErrNoTextInput", err)
	}
}

func TestSetText(t *testing.T) {
	doc := loadFixture(t)

	if err := doc.SetText("2", "  Чета книги "); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}
	got := doc.Snapshot("2")
	if !got.Answered() || got.SelectedAnswer != "Чета книги" {
		t.Errorf("SelectedAnswer = %q, want trimmed text", got.SelectedAnswer)
	}
}

func TestFormValues(t *testing.T) {
	doc := loadFixture(t)

	form := doc.FormValues()
	if got := form.Get("lectionId"); got != "12" {
		t.Errorf("lectionId = %q, want 12", got)
	}
	if form.Has("question_1") {
		t.Error("unchecked radio group should not be submitted")
	}
	if !form.Has("question_2") {
		t.Error("text input should always be submitted")
	}
	if got := form["question_3"]; !slices.Equal(got, []string{"run"}) {
		t.Errorf("question_3 = %v, want [run]", got)
	}
	if form.Has("action") {
		t.Error("submit button should not be submitted")
	}

	_ = doc.Select("1", "goes")
	if got := doc.FormValues().Get("question_1"); got != "goes" {
		t.Errorf("question_1 after Select = %q, want goes", got)
	}
}

type pageFetcher struct {
	body string
	path string
}

func (f *pageFetcher) FetchPage(ctx context.Context, path string) (io.ReadCloser, error) {
	f.path = path
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	doc, err := Load(ctx, nil, filepath.Join("testdata", "lection.html"))
	if err != nil {
		t.Fatalf("Load(file) error = %v", err)
	}
	if len(doc.QuestionIDs()) != 3 {
		t.Errorf("Load(file) found %v", doc.QuestionIDs())
	}

	f := &pageFetcher{body: `<h2>Past</h2><p id="question_4">Q</p>`}
	doc, err = Load(ctx, f, "/lections/4")
	if err != nil {
		t.Fatalf("Load(remote) error = %v", err)
	}
	if f.path != "/lections/4" {
		t.Errorf("fetched %q", f.path)
	}
	if got := doc.Snapshot("4").ThemeName; got != "Past" {
		t.Errorf("ThemeName = %q, want Past", got)
	}

	if _, err := Load(ctx, nil, "/lections/does-not-exist"); err == nil {
		t.Error("Load() without fetcher should fail for server paths")
	}
}
