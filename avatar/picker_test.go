package avatar

import (
	"context"
	"errors"
	"slices"
	"testing"

	"sevi/backend/testutil"
	"sevi/validation"
)

func newServer() *testutil.MockServer {
	return &testutil.MockServer{Avatars: map[string][]string{
		"female": {"a.png", "b c.png"},
		"male":   {"m.png"},
	}}
}

func TestLoad(t *testing.T) {
	p := NewPicker(newServer())

	urls, err := p.Load(context.Background(), " Female ")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"/img/avatars/female/a.png", "/img/avatars/female/b%20c.png"}
	if !slices.Equal(urls, want) {
		t.Errorf("Load() = %v, want %v", urls, want)
	}
	if _, ok := p.Selected(); ok {
		t.Error("fresh load should have no selection")
	}
}

func TestLoadRejectsUnknownGender(t *testing.T) {
	p := NewPicker(newServer())

	_, err := p.Load(context.Background(), "robot")
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("Load(robot) error = %v, want validation.Errors", err)
	}
	if _, ok := verrs.For("gender"); !ok {
		t.Error("no gender error")
	}
}

func TestSelectAndSave(t *testing.T) {
	srv := newServer()
	p := NewPicker(srv)
	ctx := context.Background()

	if err := p.Save(ctx); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Save() before selection = %v, want ErrNoSelection", err)
	}

	if _, err := p.Load(ctx, "female"); err != nil {
		t.Fatal(err)
	}
	if err := p.Select(5); err == nil {
		t.Error("Select(5) should be out of range")
	}
	if err := p.Select(0); err != nil {
		t.Fatal(err)
	}
	if err := p.Select(1); err != nil {
		t.Fatal(err)
	}

	if err := p.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(srv.Saved) != 1 || srv.Saved[0] != "http://lms.test/img/avatars/female/b%20c.png" {
		t.Errorf("saved = %v", srv.Saved)
	}
}

func TestLoadClearsSelection(t *testing.T) {
	p := NewPicker(newServer())
	ctx := context.Background()

	_, _ = p.Load(ctx, "female")
	_ = p.Select(0)
	_, _ = p.Load(ctx, "male")

	if _, ok := p.Selected(); ok {
		t.Error("switching gender should clear the selection")
	}
}

func TestSaveFailure(t *testing.T) {
	srv := newServer()
	p := NewPicker(srv)
	ctx := context.Background()
	_, _ = p.Load(ctx, "male")
	_ = p.Select(0)

	srv.Err = errors.New("403 Forbidden")
	if err := p.Save(ctx); err == nil {
		t.Error("Save() should surface server failure")
	}
}
