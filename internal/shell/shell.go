package shell

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/lvsoft/service-kit/internal/logging"
	"github.com/lvsoft/service-kit/internal/shell/history"
	"github.com/lvsoft/service-kit/pkg/client"
	"github.com/lvsoft/service-kit/pkg/command"
)

// Config wires the shell to the dispatch pipeline and the terminal.
type Config struct {
	BaseURL  string
	Tree     *command.Tree
	Executor *client.Executor
	History  *history.Buffer
	Store    history.Store
	In       io.Reader
	Out      io.Writer
	Logger   *slog.Logger

	// RenderMarkdown renders the help listing; plain text when nil.
	RenderMarkdown func(string) string
}

// Shell is one interactive session. One logical session per instance; every
// input event is handled to completion before the next starts.
type Shell struct {
	cfg      Config
	editor   *Editor
	renderer *Renderer
	logger   *slog.Logger

	// Dispatch runs as a cancellable unit beside the input loop. While a
	// request is outstanding new submissions are rejected as busy; two
	// in-flight responses can never interleave.
	outstanding bool
	cancel      context.CancelFunc
}

type dispatchResult struct {
	text string
}

// New assembles a shell session.
func New(cfg Config) *Shell {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.History == nil {
		cfg.History = history.NewBuffer(nil)
	}
	if cfg.Store == nil {
		cfg.Store = history.NopStore{}
	}

	s := &Shell{
		cfg:      cfg,
		renderer: NewRenderer(cfg.Out),
		logger:   cfg.Logger,
	}
	s.editor = NewEditor(cfg.History, s.completeToken)
	return s
}

// completeToken resolves completion for the token under the cursor: command
// names (and built-ins) in first position, --flags of the resolved command
// after it.
func (s *Shell) completeToken(before []string, token string) []command.Candidate {
	if s.cfg.Tree == nil {
		return nil
	}
	if len(before) == 0 {
		candidates := s.cfg.Tree.Complete(token)
		for _, b := range []string{"help", "exit", "quit"} {
			if strings.HasPrefix(b, token) && token != "" {
				candidates = append(candidates, command.Candidate{Name: b, Description: "shell built-in"})
			}
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })
		return candidates
	}
	if strings.HasPrefix(token, "-") {
		return s.cfg.Tree.CompleteFlags(before[0], token)
	}
	return nil
}

// Run drives the session until exit/quit, EOF, or context cancellation.
func (s *Shell) Run(ctx context.Context) error {
	if f, ok := s.cfg.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		old, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("raw mode: %w", err)
		}
		defer term.Restore(int(f.Fd()), old)
	}

	// The reader goroutine stops either at EOF or when the loop returns.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := make(chan Key)
	readErr := make(chan error, 1)
	go func() {
		reader := NewKeyReader(s.cfg.In)
		for {
			key, err := reader.ReadKey()
			if err != nil {
				readErr <- err
				close(keys)
				return
			}
			select {
			case keys <- key:
			case <-ctx.Done():
				return
			}
		}
	}()

	results := make(chan dispatchResult, 1)

	s.renderer.PrintAbove("Welcome to the interactive API shell. Type 'help' for commands, 'exit' to quit.")
	s.renderer.DrawInput(s.editor.View())

	defer s.flushHistory()

	for {
		select {
		case <-ctx.Done():
			s.renderer.Newline()
			return ctx.Err()

		case res := <-results:
			// Result rendering happens only here, between keystroke
			// redraws: it can never split an input-row repaint.
			s.outstanding = false
			s.cancel = nil
			s.renderer.PrintAbove(res.text)
			s.renderer.DrawInput(s.editor.View())

		case key, ok := <-keys:
			if !ok {
				s.renderer.Newline()
				if err := <-readErr; err != io.EOF {
					return err
				}
				return nil
			}
			if key.Kind == KeyCtrlC && s.outstanding && s.cancel != nil {
				s.cancel()
			}

			ev := s.editor.Handle(key)
			switch ev.Kind {
			case EventRedraw:
				s.renderer.DrawInput(s.editor.View())

			case EventList:
				s.renderer.PrintAbove(s.formatCandidates(ev.Candidates))
				s.renderer.DrawInput(s.editor.View())

			case EventQuit:
				s.renderer.Newline()
				return nil

			case EventSubmit:
				s.renderer.Newline()
				if quit := s.submit(ctx, ev.Line, results); quit {
					return nil
				}
				s.renderer.DrawInput(s.editor.View())
			}
		}
	}
}

// submit runs the resolve -> bind -> execute pipeline for one line.
// Resolution and binding are fast and happen synchronously; the network
// call runs as a cancellable unit reporting back on the results channel.
func (s *Shell) submit(ctx context.Context, line string, results chan<- dispatchResult) (quit bool) {
	switch line {
	case "exit", "quit":
		return true
	case "help":
		s.renderer.PrintAbove(s.helpText())
		return false
	}

	if s.outstanding {
		s.renderer.PrintAbove("busy: a request is already in flight (ctrl-c cancels it)")
		return false
	}
	if s.cfg.Tree == nil {
		s.renderer.PrintAbove("Error: no service connected")
		return false
	}

	fields := strings.Fields(line)
	op, err := s.cfg.Tree.Resolve(fields[0])
	if err != nil {
		s.renderer.PrintAbove("Error: " + err.Error())
		return false
	}

	flags, positional, err := command.ParseTokens(fields[1:])
	if err != nil {
		s.renderer.PrintAbove("Error: " + err.Error())
		return false
	}
	rawBody := ""
	if len(positional) > 0 {
		rawBody = positional[0]
	}

	bound, err := command.Bind(op, flags, rawBody)
	if err != nil {
		s.renderer.PrintAbove("Error: " + err.Error())
		return false
	}
	for _, w := range bound.Warnings {
		s.renderer.PrintAbove("warning: " + w)
	}
	if s.cfg.Executor == nil {
		s.renderer.PrintAbove("Error: no service connected")
		return false
	}

	dispatchCtx, cancel := context.WithCancel(ctx)
	s.outstanding = true
	s.cancel = cancel

	go func() {
		defer cancel()
		res, err := s.cfg.Executor.Do(dispatchCtx, s.cfg.BaseURL, bound)
		if err != nil {
			results <- dispatchResult{text: "Error: " + err.Error()}
			return
		}
		text := res.Render()
		if !res.OK() {
			text = fmt.Sprintf("Error: %v", res.Err())
		}
		results <- dispatchResult{text: text}
	}()
	return false
}

func (s *Shell) formatCandidates(candidates []command.Candidate) string {
	width := 0
	for _, c := range candidates {
		if len(c.Name) > width {
			width = len(c.Name)
		}
	}
	var sb strings.Builder
	for _, c := range candidates {
		sb.WriteString(c.Name)
		if c.Description != "" {
			sb.WriteString(strings.Repeat(" ", width-len(c.Name)+2))
			sb.WriteString(s.renderer.Faint(c.Description))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (s *Shell) helpText() string {
	var sb strings.Builder
	sb.WriteString("# Commands\n\n")
	if s.cfg.Tree != nil {
		for _, name := range s.cfg.Tree.Names() {
			op, err := s.cfg.Tree.Resolve(name)
			if err != nil {
				continue
			}
			if doc := op.Doc(); doc != "" {
				fmt.Fprintf(&sb, "- `%s` — %s\n", name, doc)
			} else {
				fmt.Fprintf(&sb, "- `%s`\n", name)
			}
		}
	}
	sb.WriteString("\nBuilt-ins: `help`, `exit`, `quit`. Arguments: `--name value`, body as `--body '<json>'`.\n")

	if s.cfg.RenderMarkdown != nil {
		return strings.TrimRight(s.cfg.RenderMarkdown(sb.String()), "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// flushHistory persists the session's history through the configured store.
func (s *Shell) flushHistory() {
	ctx, cancel := context.WithTimeout(context.Background(), client.DefaultTimeout)
	defer cancel()
	if err := s.cfg.Store.Save(ctx, s.editor.History().Lines()); err != nil {
		s.logger.Warn("history flush failed", "error", err)
	}
}
