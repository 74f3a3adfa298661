package quiz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	ErrNoSuchOption = errors.New("no such answer option")
	ErrNoTextInput  = errors.New("question has no text input")
)

// Fetcher loads a page from the learning platform.
type Fetcher interface {
	FetchPage(ctx context.Context, path string) (io.ReadCloser, error)
}

// Document is a parsed lecture page. It plays the role of the live DOM: the
// UI records answers by mutating input attributes (checked, value) and every
// Snapshot reads them afresh.
type Document struct {
	mu   sync.RWMutex
	root *html.Node
}

// Parse reads a lecture page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return &Document{root: root}, nil
}

// Load reads src from disk when it names an existing file, otherwise asks
// the fetcher for it (absolute URL or server path such as "/lections/3").
func Load(ctx context.Context, f Fetcher, src string) (*Document, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		if file, err := os.Open(src); err == nil {
			defer file.Close()
			return Parse(file)
		}
	}

	if f == nil {
		return nil, fmt.Errorf("cannot load %q: no server configured", src)
	}

	body, err := f.FetchPage(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer body.Close()

	return Parse(body)
}

func inputName(id string) string { return "question_" + id }

// QuestionIDs lists question identifiers in document order.
func (d *Document) QuestionIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var ids []string
	seen := make(map[string]bool)
	add := func(v string) {
		id, ok := strings.CutPrefix(v, "question_")
		if !ok || id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	walk(d.root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if v, ok := getAttr(n, "id"); ok {
			add(v)
		}
		if n.DataAtom == atom.Input {
			if v, ok := getAttr(n, "name"); ok {
				add(v)
			}
		}
	})

	return ids
}

// Options returns the answer options of a choice question in page order.
// Labels come from the <p> inside the enclosing .switch-wrap and fall back
// to the input value.
func (d *Document) Options(id string) []Option {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.options(id)
}

func (d *Document) options(id string) []Option {
	var opts []Option
	for _, in := range d.inputs(inputName(id)) {
		if !isChoice(in) {
			continue
		}
		value, _ := getAttr(in, "value")
		label := ""
		if wrap := closest(in, func(n *html.Node) bool { return hasClass(n, "switch-wrap") }); wrap != nil {
			if p := find(wrap, func(n *html.Node) bool { return n.DataAtom == atom.P }); p != nil {
				label = innerText(p)
			}
		}
		if label == "" {
			label = value
		}
		if label == "" {
			continue
		}
		_, checked := getAttr(in, "checked")
		opts = append(opts, Option{Label: label, Value: value, Checked: checked})
	}
	return opts
}

// Snapshot builds the QuestionContext for id from the current page state.
func (d *Document) Snapshot(id string) QuestionContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	qc := QuestionContext{
		ID:          id,
		PromptText:  FallbackQuestion,
		LectureName: FallbackLecture,
		ThemeName:   FallbackTheme,
	}

	if el := find(d.root, func(n *html.Node) bool { return attrIs(n, "id", inputName(id)) }); el != nil {
		if text := innerText(el); text != "" {
			qc.PromptText = text
		}
	}
	if in := find(d.root, func(n *html.Node) bool { return n.DataAtom == atom.Input && attrIs(n, "name", "lectionId") }); in != nil {
		if v, _ := getAttr(in, "value"); v != "" {
			qc.LectureName = v
		}
	}
	if h2 := find(d.root, func(n *html.Node) bool { return n.DataAtom == atom.H2 }); h2 != nil {
		if text := innerText(h2); text != "" {
			qc.ThemeName = text
		}
	}

	inputs := d.inputs(inputName(id))
	choice := false
	for _, in := range inputs {
		if isChoice(in) {
			choice = true
			break
		}
	}

	if choice {
		qc.Kind = SingleChoice
		for _, opt := range d.options(id) {
			qc.AvailableChoices = append(qc.AvailableChoices, opt.Label)
		}
		for _, in := range inputs {
			if _, checked := getAttr(in, "checked"); checked && isChoice(in) {
				qc.SelectedAnswer, _ = getAttr(in, "value")
				break
			}
		}
		return qc
	}

	qc.Kind = FreeText
	if len(inputs) > 0 {
		v, _ := getAttr(inputs[0], "value")
		qc.SelectedAnswer = strings.TrimSpace(v)
	}
	return qc
}

// Select checks the option with the given value and unchecks its siblings.
func (d *Document) Select(id, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var target *html.Node
	var group []*html.Node
	for _, in := range d.inputs(inputName(id)) {
		if !isChoice(in) {
			continue
		}
		group = append(group, in)
		if v, _ := getAttr(in, "value"); v == value && target == nil {
			target = in
		}
	}
	if target == nil {
		return fmt.Errorf("question %s, value %q: %w", id, value, ErrNoSuchOption)
	}

	for _, in := range group {
		removeAttr(in, "checked")
	}
	setAttr(target, "checked", "checked")
	return nil
}

// SetText records a free-text answer.
func (d *Document) SetText(id, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, in := range d.inputs(inputName(id)) {
		if !isChoice(in) {
			setAttr(in, "value", text)
			return nil
		}
	}
	return fmt.Errorf("question %s: %w", id, ErrNoTextInput)
}

// FormValues collects the named form controls the way a browser would for
// submission: unchecked radios and checkboxes are left out.
func (d *Document) FormValues() url.Values {
	d.mu.RLock()
	defer d.mu.RUnlock()

	form := url.Values{}
	walk(d.root, func(n *html.Node) {
		if n.Type != html.ElementNode || (n.DataAtom != atom.Input && n.DataAtom != atom.Textarea) {
			return
		}
		name, ok := getAttr(n, "name")
		if !ok || name == "" {
			return
		}
		if _, disabled := getAttr(n, "disabled"); disabled {
			return
		}
		if n.DataAtom == atom.Textarea {
			form.Add(name, textContent(n))
			return
		}

		typ, _ := getAttr(n, "type")
		switch strings.ToLower(typ) {
		case "submit", "button", "reset", "image", "file":
			return
		case "radio", "checkbox":
			if _, checked := getAttr(n, "checked"); !checked {
				return
			}
			value, ok := getAttr(n, "value")
			if !ok {
				value = "on"
			}
			form.Add(name, value)
		default:
			value, _ := getAttr(n, "value")
			form.Add(name, value)
		}
	})
	return form
}

func (d *Document) inputs(name string) []*html.Node {
	var out []*html.Node
	walk(d.root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Input && attrIs(n, "name", name) {
			out = append(out, n)
		}
	})
	return out
}

func isChoice(n *html.Node) bool {
	typ, _ := getAttr(n, "type")
	typ = strings.ToLower(typ)
	return typ == "radio" || typ == "checkbox"
}
