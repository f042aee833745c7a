// Package shell implements the interactive line-editing front-end: an
// explicit state machine over (buffer, cursor, mode), history navigation,
// reverse search and completion, plus the loop that wires it to a raw
// terminal and the dispatch pipeline.
//
// The editor itself is pure: it consumes key events and emits events for the
// loop to act on. Everything the terminal shows is reconstructible from the
// editor's View alone, so the input row can be redrawn after any output has
// scrolled it away.
package shell

import (
	"strings"
	"unicode"

	"github.com/lvsoft/service-kit/internal/shell/history"
	"github.com/lvsoft/service-kit/pkg/command"
)

// Mode is the editor's input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeReverseSearch
)

// EventKind classifies what the loop must do after a keystroke.
type EventKind int

const (
	EventNone   EventKind = iota
	EventRedraw           // state changed, repaint the input row
	EventSubmit           // a non-empty line was submitted
	EventList             // multiple completion candidates to show
	EventQuit             // end the session
)

// Event is the editor's reaction to one key.
type Event struct {
	Kind       EventKind
	Line       string              // submitted line for EventSubmit
	Candidates []command.Candidate // for EventList
}

// CompleteFunc resolves completion candidates for the token under the
// cursor. before holds the whole tokens preceding it.
type CompleteFunc func(before []string, token string) []command.Candidate

// Editor is the shell's line-editing state machine. Not safe for concurrent
// use: one input event is handled to completion before the next starts.
type Editor struct {
	buffer []rune
	cursor int // 0..=len(buffer)
	mode   Mode

	histIndex int    // -1 = not navigating
	saved     []rune // pre-navigation buffer

	query []rune // reverse-search query

	history  *history.Buffer
	complete CompleteFunc
}

// NewEditor creates an editor over the given history.
func NewEditor(hist *history.Buffer, complete CompleteFunc) *Editor {
	if hist == nil {
		hist = history.NewBuffer(nil)
	}
	return &Editor{
		histIndex: -1,
		history:   hist,
		complete:  complete,
	}
}

// Line returns the current buffer contents.
func (e *Editor) Line() string { return string(e.buffer) }

// Mode returns the current input mode.
func (e *Editor) Mode() Mode { return e.mode }

// History exposes the underlying history buffer.
func (e *Editor) History() *history.Buffer { return e.history }

// View is everything needed to paint the input row.
type View struct {
	Prompt string
	Line   string
	Cursor int
}

// View computes the input row from (buffer, cursor, mode) alone.
func (e *Editor) View() View {
	if e.mode == ModeReverseSearch {
		return View{
			Prompt: "(reverse-i-search)`" + string(e.query) + "`: ",
			Line:   string(e.buffer),
			Cursor: len(e.buffer),
		}
	}
	return View{
		Prompt: Prompt,
		Line:   string(e.buffer),
		Cursor: e.cursor,
	}
}

// Prompt is the Normal-mode prompt.
const Prompt = "forge-api> "

// Handle consumes one key event and returns what the loop should do.
func (e *Editor) Handle(key Key) Event {
	if e.mode == ModeReverseSearch {
		return e.handleReverseSearch(key)
	}
	return e.handleNormal(key)
}

func (e *Editor) handleNormal(key Key) Event {
	switch key.Kind {
	case KeyRune:
		if !unicode.IsPrint(key.Rune) {
			return Event{Kind: EventNone}
		}
		e.insert(key.Rune)
		return Event{Kind: EventRedraw}

	case KeyEnter:
		line := strings.TrimSpace(string(e.buffer))
		if line == "" {
			e.reset()
			return Event{Kind: EventRedraw}
		}
		e.history.Append(line)
		e.reset()
		return Event{Kind: EventSubmit, Line: line}

	case KeyUp:
		if e.history.Len() == 0 {
			return Event{Kind: EventNone}
		}
		if e.histIndex == -1 {
			e.saved = append([]rune(nil), e.buffer...)
		}
		if e.histIndex+1 < e.history.Len() {
			e.histIndex++
		}
		if entry, ok := e.history.Recent(e.histIndex); ok {
			e.setBuffer(entry)
		}
		return Event{Kind: EventRedraw}

	case KeyDown:
		if e.histIndex == -1 {
			return Event{Kind: EventNone}
		}
		e.histIndex--
		if e.histIndex == -1 {
			e.buffer = append([]rune(nil), e.saved...)
			e.cursor = len(e.buffer)
		} else if entry, ok := e.history.Recent(e.histIndex); ok {
			e.setBuffer(entry)
		}
		return Event{Kind: EventRedraw}

	case KeyTab:
		return e.completeAtCursor()

	case KeyCtrlR:
		e.buffer = nil
		e.cursor = 0
		e.query = nil
		e.mode = ModeReverseSearch
		return Event{Kind: EventRedraw}

	case KeyBackspace:
		if e.cursor > 0 {
			e.buffer = append(e.buffer[:e.cursor-1], e.buffer[e.cursor:]...)
			e.cursor--
			return Event{Kind: EventRedraw}
		}
		return Event{Kind: EventNone}

	case KeyLeft:
		if e.cursor > 0 {
			e.cursor--
			return Event{Kind: EventRedraw}
		}
		return Event{Kind: EventNone}

	case KeyRight:
		if e.cursor < len(e.buffer) {
			e.cursor++
			return Event{Kind: EventRedraw}
		}
		return Event{Kind: EventNone}

	case KeyHome:
		e.cursor = 0
		return Event{Kind: EventRedraw}

	case KeyEnd:
		e.cursor = len(e.buffer)
		return Event{Kind: EventRedraw}

	case KeyCtrlC:
		e.reset()
		return Event{Kind: EventRedraw}

	case KeyCtrlD:
		if len(e.buffer) == 0 {
			return Event{Kind: EventQuit}
		}
		return Event{Kind: EventNone}
	}
	return Event{Kind: EventNone}
}

func (e *Editor) handleReverseSearch(key Key) Event {
	switch key.Kind {
	case KeyRune:
		if !unicode.IsPrint(key.Rune) {
			return Event{Kind: EventNone}
		}
		e.query = append(e.query, key.Rune)
		if match, ok := e.history.Search(string(e.query)); ok {
			e.setBuffer(match)
		}
		return Event{Kind: EventRedraw}

	case KeyEnter: // accept: commit the match
		e.mode = ModeNormal
		e.query = nil
		e.cursor = len(e.buffer)
		return Event{Kind: EventRedraw}

	case KeyEsc, KeyCtrlC: // cancel: discard
		e.mode = ModeNormal
		e.query = nil
		e.buffer = nil
		e.cursor = 0
		return Event{Kind: EventRedraw}
	}
	// Cursor operations are valid only in Normal mode.
	return Event{Kind: EventNone}
}

// completeAtCursor queries the completer for the token under the cursor.
// One match replaces the token in place; several are listed without
// mutating the buffer; none is a no-op.
func (e *Editor) completeAtCursor() Event {
	if e.complete == nil {
		return Event{Kind: EventNone}
	}

	start := e.cursor
	for start > 0 && !unicode.IsSpace(e.buffer[start-1]) {
		start--
	}
	token := string(e.buffer[start:e.cursor])
	before := strings.Fields(string(e.buffer[:start]))

	candidates := e.complete(before, token)
	switch len(candidates) {
	case 0:
		return Event{Kind: EventNone}
	case 1:
		replacement := []rune(candidates[0].Name)
		tail := append([]rune(nil), e.buffer[e.cursor:]...)
		e.buffer = append(append(e.buffer[:start:start], replacement...), tail...)
		e.cursor = start + len(replacement)
		return Event{Kind: EventRedraw}
	default:
		return Event{Kind: EventList, Candidates: candidates}
	}
}

func (e *Editor) insert(r rune) {
	tail := append([]rune(nil), e.buffer[e.cursor:]...)
	e.buffer = append(append(e.buffer[:e.cursor:e.cursor], r), tail...)
	e.cursor++
}

func (e *Editor) setBuffer(line string) {
	e.buffer = []rune(line)
	e.cursor = len(e.buffer)
}

// reset clears the line and leaves navigation, as after a submission.
func (e *Editor) reset() {
	e.buffer = nil
	e.cursor = 0
	e.histIndex = -1
	e.saved = nil
}
