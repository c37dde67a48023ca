// Package prompt is a line-oriented front-end built on survey prompts. It
// loops over a small menu until the user quits, then writes the accepted
// values to the configured output.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goliatone/go-comboform/pkg/binding"
	"github.com/goliatone/go-comboform/pkg/fuzzy"
	"github.com/goliatone/go-comboform/pkg/render"
	"github.com/goliatone/go-comboform/pkg/session"
)

type action int

const (
	actionOption action = iota
	actionSelection
	actionSubmit
	actionRefresh
	actionQuit
)

// Renderer implements render.Renderer for prompt sessions.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	out          io.Writer
	theme        Theme
	logger       *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a prompt renderer with defaults (survey driver, JSON output
// to stdout).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		out:          os.Stdout,
		theme:        DefaultTheme(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(os.Stdout)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "prompt"
}

// Run shows the menu until the user quits. Aborting a prompt returns
// ErrAborted and writes nothing.
func (r *Renderer) Run(ctx context.Context, s *session.Session) error {
	if ctx == nil {
		return errors.New("prompt: context is required")
	}
	if s == nil {
		return errors.New("prompt: session is required")
	}
	if r.driver == nil {
		return ErrNoDriver
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		labels, actions := r.menu(s)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message: "What next?",
			Options: labels,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			continue
		}

		switch actions[idx] {
		case actionOption:
			err = r.chooseOption(ctx, s.Combobox())
		case actionSelection:
			err = r.chooseSelection(ctx, s.Listbox())
		case actionSubmit:
			err = r.submit(ctx, s)
		case actionRefresh:
			err = r.refresh(ctx, s)
		case actionQuit:
			return r.writeOutput(s)
		}
		if err != nil {
			return err
		}
	}
}

func (r *Renderer) menu(s *session.Session) ([]string, []action) {
	combo, list := s.Combobox(), s.Listbox()
	labels := []string{
		fieldLine(combo),
		fieldLine(list),
		"Submit",
		"Update",
		"Quit",
	}
	return labels, []action{actionOption, actionSelection, actionSubmit, actionRefresh, actionQuit}
}

func fieldLine(b *binding.Binding) string {
	line := fmt.Sprintf("%s: %s", b.Label(), b.Display())
	if b.Disabled() {
		line += " (no options)"
	}
	if msg := b.Error(); msg != "" {
		line += " [" + msg + "]"
	}
	return line
}

func (r *Renderer) chooseOption(ctx context.Context, b *binding.Binding) error {
	if b.Disabled() {
		return r.driver.Info(ctx, r.theme.ErrorPrefix+"No options available")
	}
	query, err := r.driver.Input(ctx, InputConfig{
		Message: b.Label(),
		Help:    b.Placeholder(),
	})
	if err != nil {
		return err
	}
	if err := b.SetQuery(query); err != nil {
		return r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error())
	}

	visible := b.Visible()
	if len(visible) == 0 {
		b.Close()
		return r.driver.Info(ctx, "No matches")
	}
	return r.pickFrom(ctx, b, visible)
}

func (r *Renderer) chooseSelection(ctx context.Context, b *binding.Binding) error {
	visible := b.Visible()
	if len(visible) == 0 {
		return r.driver.Info(ctx, "No options")
	}
	return r.pickFrom(ctx, b, visible)
}

func (r *Renderer) pickFrom(ctx context.Context, b *binding.Binding, visible []fuzzy.Match) error {
	items := fuzzy.Items(visible)
	current := b.Value()
	defaultIndex := 0
	if current.Present() {
		if i := indexOf(items, current.Text()); i >= 0 {
			defaultIndex = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      b.Label(),
		Options:      items,
		DefaultIndex: defaultIndex,
		Help:         b.Placeholder(),
		PageSize:     10,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(items) {
		return nil
	}
	if err := b.Pick(items[idx]); err != nil {
		return r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error())
	}
	r.logger.Debug("option picked", "field", b.Name(), "value", items[idx])
	return nil
}

func (r *Renderer) submit(ctx context.Context, s *session.Session) error {
	record, err := s.Submit()
	if err != nil {
		mapping := render.MapError(s.Form().Schema(), err)
		for _, field := range s.Form().Schema().Fields {
			for _, msg := range mapping.For(field.Name) {
				if infoErr := r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, field.Label, msg)); infoErr != nil {
					return infoErr
				}
			}
		}
		for _, msg := range mapping.Form {
			if infoErr := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); infoErr != nil {
				return infoErr
			}
		}
		return nil
	}

	for _, name := range s.Form().Schema().Names() {
		if err := r.driver.Info(ctx, fmt.Sprintf("%s%s = %s", r.theme.InfoPrefix, name, record[name])); err != nil {
			return err
		}
	}
	return r.driver.Info(ctx, fmt.Sprintf("Selected: %v", s.Log().Values()))
}

func (r *Renderer) refresh(ctx context.Context, s *session.Session) error {
	value, err := s.Refresh()
	if err != nil {
		return err
	}
	return r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.InfoPrefix, s.Listbox().Label(), value))
}

func (r *Renderer) writeOutput(s *session.Session) error {
	payload, err := Serialize(r.outputFormat, s.Log().Values())
	if err != nil {
		return err
	}
	if _, err := r.out.Write(payload); err != nil {
		return fmt.Errorf("prompt: write output: %w", err)
	}
	return nil
}
