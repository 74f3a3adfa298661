package format

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
)

// Terminal renders formatted reply HTML as styled terminal text wrapped to
// width (no wrapping when width <= 0). strong, em and u become bold, italic
// and underline; br and block elements become line breaks; any other tag is
// dropped and its text kept.
func Terminal(fragment string, width int) string {
	out := walk(fragment, true)
	if width > 0 {
		out = lipgloss.NewStyle().Width(width).Render(out)
	}
	return out
}

// PlainText is Terminal without styling or wrapping.
func PlainText(fragment string) string {
	return walk(fragment, false)
}

func walk(fragment string, styled bool) string {
	var (
		b                     strings.Builder
		bold, italic, underln int
	)

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed input; either way we are done
			return strings.TrimRight(b.String(), "\n")

		case html.TextToken:
			text := string(z.Text())
			if text == "" {
				continue
			}
			if styled && (bold > 0 || italic > 0 || underln > 0) {
				text = lipgloss.NewStyle().
					Bold(bold > 0).
					Italic(italic > 0).
					Underline(underln > 0).
					Render(text)
			}
			b.WriteString(text)

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "strong", "b":
				if tt == html.StartTagToken {
					bold++
				}
			case "em", "i":
				if tt == html.StartTagToken {
					italic++
				}
			case "u":
				if tt == html.StartTagToken {
					underln++
				}
			case "br":
				b.WriteString("\n")
			case "div", "p":
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
					b.WriteString("\n")
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "strong", "b":
				bold = max(bold-1, 0)
			case "em", "i":
				italic = max(italic-1, 0)
			case "u":
				underln = max(underln-1, 0)
			case "div", "p":
				b.WriteString("\n")
			}
		}
	}
}
