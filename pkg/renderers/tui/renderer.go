// Package tui is the full-screen terminal front-end built on bubbletea.
// Focus cycles through the combobox, the listbox and the Submit and Update
// buttons.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-comboform/pkg/render"
	"github.com/goliatone/go-comboform/pkg/session"
)

// Option configures the Renderer.
type Option func(*Renderer)

// WithInput sets the terminal input.
func WithInput(r io.Reader) Option {
	return func(rd *Renderer) {
		if r != nil {
			rd.in = r
		}
	}
}

// WithOutput sets the terminal output.
func WithOutput(w io.Writer) Option {
	return func(rd *Renderer) {
		if w != nil {
			rd.out = w
		}
	}
}

// WithNoColor disables colour output.
func WithNoColor(disabled bool) Option {
	return func(rd *Renderer) {
		rd.noColor = disabled
	}
}

// WithAltScreen runs the program in the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(rd *Renderer) {
		rd.altScreen = enabled
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(rd *Renderer) {
		if logger != nil {
			rd.logger = logger
		}
	}
}

// Renderer implements render.Renderer with a bubbletea program.
type Renderer struct {
	in        io.Reader
	out       io.Writer
	noColor   bool
	altScreen bool
	logger    *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a terminal renderer bound to stdin and stdout.
func New(options ...Option) *Renderer {
	r := &Renderer{
		in:     os.Stdin,
		out:    os.Stdout,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// Run blocks until the user quits or ctx is cancelled.
func (r *Renderer) Run(ctx context.Context, s *session.Session) error {
	if s == nil {
		return errors.New("tui: session is required")
	}

	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(r.in),
		tea.WithOutput(r.out),
	}
	if r.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	model := NewModel(s, newStyles(r.out, r.noColor))
	program := tea.NewProgram(model, opts...)
	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("tui: run: %w", err)
	}
	r.logger.Debug("terminal session closed", "selected", s.Log().Len())
	return nil
}
