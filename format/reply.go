// Package format turns assistant replies into the restricted inline HTML shown
// in chat bubbles and help panels, and renders that HTML for the terminal.
package format

import "regexp"

// Rules run in this order; later rules must not see markers produced by
// earlier ones (bold before italic so "**" is never read as two "*").
var (
	fenceOpenRegex = regexp.MustCompile("(?i)```[a-z]*\n?")
	fenceRegex     = regexp.MustCompile("```")
	headingRegex   = regexp.MustCompile(`(?m)^###\s*(.*)$`)
	boldRegex      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRegex    = regexp.MustCompile(`\*(.*?)\*`)
	underlineRegex = regexp.MustCompile(`__(.*?)__`)
	newlineRegex   = regexp.MustCompile(`\n`)
)

// Reply converts a markdown-like assistant reply to inline HTML.
//
// The reply is trusted: HTML already present in it is passed through
// unescaped. Only fences, "###" headings, **bold**, *italic*, __underline__
// and newlines are rewritten.
func Reply(text string) string {
	if text == "" {
		return ""
	}

	text = fenceOpenRegex.ReplaceAllString(text, "")
	text = fenceRegex.ReplaceAllString(text, "")
	text = headingRegex.ReplaceAllString(text, "**${1}**")
	text = boldRegex.ReplaceAllString(text, "<strong>${1}</strong>")
	text = italicRegex.ReplaceAllString(text, "<em>${1}</em>")
	text = underlineRegex.ReplaceAllString(text, "<u>${1}</u>")
	text = newlineRegex.ReplaceAllString(text, "<br>")

	return text
}
