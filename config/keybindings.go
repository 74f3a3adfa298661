package config

import (
	"strings"
	"unicode"
)

// KeyBindingsConfig is the [keybindings] table: two modifiers plus optional
// per-action overrides such as quit = "ctrl+q".
type KeyBindingsConfig struct {
	Modifiers ModifierConfig    `toml:"modifiers"`
	Actions   map[string]string `toml:"actions"`
}

type ModifierConfig struct {
	Primary   string `toml:"primary"`
	Secondary string `toml:"secondary"`
}

const (
	defaultPrimary   = "alt"
	defaultSecondary = "alt+shift"
)

type modKind int

const (
	modNone modKind = iota
	modPrimary
	modSecondary
)

type binding struct {
	mod modKind
	key string
}

var actions = map[string]binding{
	"help":        {modPrimary, "h"},
	"quit":        {modPrimary, "q"},
	"new_chat":    {modPrimary, "n"},
	"switch_view": {modNone, "tab"},

	"yank_last_response": {modPrimary, "y"},
	"scroll_down":        {modPrimary, "j"},
	"scroll_up":          {modPrimary, "k"},
	"scroll_to_top":      {modPrimary, "g"},
	"scroll_to_bottom":   {modSecondary, "g"},

	"request_help":     {modPrimary, "a"},
	"close_help":       {modPrimary, "x"},
	"submit_quiz":      {modPrimary, "s"},
	"filter_questions": {modPrimary, "f"},
	"question_down":    {modNone, "down"},
	"question_up":      {modNone, "up"},
	"choice_next":      {modNone, "right"},
	"choice_prev":      {modNone, "left"},
}

func DefaultKeybindings() *KeyBindingsConfig {
	return &KeyBindingsConfig{
		Modifiers: ModifierConfig{Primary: defaultPrimary, Secondary: defaultSecondary},
	}
}

func (kb *KeyBindingsConfig) Primary() string {
	return orDefault(kb.Modifiers.Primary, defaultPrimary)
}

func (kb *KeyBindingsConfig) Secondary() string {
	return orDefault(kb.Modifiers.Secondary, defaultSecondary)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// PrimaryDisplay is the primary modifier as shown in the UI ("Alt").
func (kb *KeyBindingsConfig) PrimaryDisplay() string {
	return titleParts(kb.Primary())
}

func (kb *KeyBindingsConfig) SecondaryDisplay() string {
	return titleParts(kb.Secondary())
}

// GetActionKey returns the key string bubbletea reports for action, or ""
// for an unknown action. A settings override wins over the default.
func (kb *KeyBindingsConfig) GetActionKey(action string) string {
	if k := kb.Actions[action]; k != "" {
		return k
	}
	b, ok := actions[action]
	if !ok {
		return ""
	}
	switch b.mod {
	case modPrimary:
		return kb.Primary() + "+" + b.key
	case modSecondary:
		return withShift(kb.Secondary(), b.key)
	default:
		return b.key
	}
}

// withShift joins mod and key. Terminals report shift+letter as the upper
// case letter, so "alt+shift" with "g" becomes "alt+G".
func withShift(mod, key string) string {
	if len(key) != 1 || key[0] < 'a' || key[0] > 'z' {
		return mod + "+" + key
	}
	var rest []string
	shifted := false
	for _, p := range strings.Split(mod, "+") {
		if strings.EqualFold(p, "shift") {
			shifted = true
			continue
		}
		rest = append(rest, p)
	}
	if !shifted {
		return mod + "+" + key
	}
	return strings.Join(append(rest, strings.ToUpper(key)), "+")
}

// DisplayActionKey renders an action's key for footers and help, spelling
// out the shift an upper case letter implies: "alt+G" is "Alt+Shift+G".
func (kb *KeyBindingsConfig) DisplayActionKey(action string) string {
	key := kb.GetActionKey(action)
	if key == "" {
		return ""
	}
	parts := strings.Split(key, "+")
	last := parts[len(parts)-1]
	if len(parts) > 1 && len(last) == 1 && unicode.IsUpper(rune(last[0])) && !hasPart(parts, "shift") {
		parts = append(parts[:len(parts)-1], "shift", last)
	}
	return titleParts(strings.Join(parts, "+"))
}

func hasPart(parts []string, want string) bool {
	for _, p := range parts {
		if strings.EqualFold(p, want) {
			return true
		}
	}
	return false
}

func titleParts(s string) string {
	parts := strings.Split(s, "+")
	out := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, strings.ToUpper(p[:1])+p[1:])
	}
	return strings.Join(out, "+")
}

// Validate reports whether the modifiers are usable. A true result may
// still carry a warning.
func (kb *KeyBindingsConfig) Validate() (bool, string) {
	primary, secondary := kb.Primary(), kb.Secondary()
	if primary == "shift" || secondary == "shift" {
		return false, "Shift alone conflicts with typing"
	}
	if strings.Contains(primary, "ctrl") || strings.Contains(secondary, "ctrl") {
		return true, "Warning: Ctrl may conflict with terminal shortcuts (Ctrl+C, Ctrl+Z, Ctrl+D)"
	}
	return true, ""
}
