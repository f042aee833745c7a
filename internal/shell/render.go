package shell

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Renderer paints the input row and relays command output. All drawing goes
// through line-edit primitives (carriage return, clear-to-end-of-line,
// cursor moves) so the row can always be rebuilt from a View, regardless of
// what has scrolled by above it.
type Renderer struct {
	out *termenv.Output
}

// NewRenderer wraps the terminal output stream.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{out: termenv.NewOutput(w)}
}

// DrawInput repaints the input row from the view alone.
func (r *Renderer) DrawInput(v View) {
	r.out.WriteString("\r")
	r.out.WriteString(r.stylePrompt(v.Prompt))
	r.out.WriteString(v.Line)
	r.out.ClearLineRight()
	if back := len([]rune(v.Line)) - v.Cursor; back > 0 {
		r.out.CursorBack(back)
	}
}

// PrintAbove clears the input row, writes the text, and leaves the cursor at
// the start of a fresh row for the next DrawInput. Raw mode needs explicit
// carriage returns, so embedded newlines are normalized.
func (r *Renderer) PrintAbove(text string) {
	r.out.WriteString("\r")
	r.out.ClearLineRight()
	if text != "" {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		r.out.WriteString(strings.ReplaceAll(text, "\n", "\r\n"))
		if !strings.HasSuffix(text, "\n") {
			r.out.WriteString("\r\n")
		}
	}
}

// Newline moves past the current input row, e.g. after a submission.
func (r *Renderer) Newline() {
	r.out.WriteString("\r\n")
}

func (r *Renderer) stylePrompt(prompt string) string {
	p := r.out.ColorProfile()
	return termenv.String(prompt).Foreground(p.Color("#34d399")).Bold().String()
}

// Faint styles secondary text such as completion descriptions.
func (r *Renderer) Faint(s string) string {
	return termenv.String(s).Faint().String()
}
