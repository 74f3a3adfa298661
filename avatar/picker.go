// Package avatar lets the user browse the server's avatar images and store
// one as their profile picture.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"sevi/config"
	"sevi/validation"
)

var ErrNoSelection = errors.New("no avatar selected")

// Genders with an avatar directory on the server.
var Genders = []string{"male", "female"}

// Service is the server side of the picker.
type Service interface {
	ListAvatars(ctx context.Context, gender string) ([]string, error)
	SaveAvatar(ctx context.Context, pictureURL string) error
	Resolve(path string) string
}

var schema = validation.Schema{
	{Name: "gender", Rules: []validation.Rule{
		validation.Required("please choose a gender"),
		validation.OneOf("gender must be male or female", Genders...),
	}},
	{Name: "profilePicture", Rules: []validation.Rule{
		validation.URL("invalid avatar address"),
	}},
}

// Picker holds the avatars of one gender and the current selection.
type Picker struct {
	svc Service

	mu       sync.Mutex
	gender   string
	urls     []string
	selected int
}

func NewPicker(svc Service) *Picker {
	return &Picker{svc: svc, selected: -1}
}

// Load fetches the avatar list for gender and clears the selection.
func (p *Picker) Load(ctx context.Context, gender string) ([]string, error) {
	gender = strings.ToLower(strings.TrimSpace(gender))
	if err := schema.Validate(map[string]string{"gender": gender}); err != nil {
		return nil, err
	}

	files, err := p.svc.ListAvatars(ctx, gender)
	if err != nil {
		return nil, fmt.Errorf("failed to load avatars: %w", err)
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		urls = append(urls, "/img/avatars/"+gender+"/"+url.PathEscape(f))
	}

	p.mu.Lock()
	p.gender = gender
	p.urls = urls
	p.selected = -1
	p.mu.Unlock()

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Avatar] loaded %d %s avatars", len(urls), gender)
	}
	return append([]string(nil), urls...), nil
}

// URLs returns the loaded avatar paths.
func (p *Picker) URLs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.urls...)
}

// Select marks the avatar at index i. Selecting another replaces it.
func (p *Picker) Select(i int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.urls) {
		return fmt.Errorf("avatar index %d out of range (have %d)", i, len(p.urls))
	}
	p.selected = i
	return nil
}

// Selected returns the absolute URL of the chosen avatar.
func (p *Picker) Selected() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected < 0 {
		return "", false
	}
	return p.svc.Resolve(p.urls[p.selected]), true
}

// Save stores the selection as the profile picture.
func (p *Picker) Save(ctx context.Context) error {
	picture, ok := p.Selected()
	if !ok {
		return ErrNoSelection
	}
	if err := schema.Validate(map[string]string{"gender": p.gender, "profilePicture": picture}); err != nil {
		return err
	}
	if err := p.svc.SaveAvatar(ctx, picture); err != nil {
		return fmt.Errorf("failed to save avatar: %w", err)
	}
	return nil
}
