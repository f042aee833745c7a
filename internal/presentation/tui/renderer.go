package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewMarkdownRenderer returns a function that renders markdown for the
// terminal. Used for the shell's help output. Falls back to the raw text
// when the renderer cannot be built (e.g. no usable TERM).
func NewMarkdownRenderer() func(string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) string { return markdown }
	}

	return func(markdown string) string {
		rendered, err := r.Render(markdown)
		if err != nil {
			return markdown
		}
		return rendered
	}
}
