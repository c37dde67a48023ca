// Package session owns the mutable state behind one comboform: the option
// store, the selection log and the form controller, plus the two widget
// bindings. Front-ends drive a Session and never touch the parts directly.
//
// A Session is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-comboform/pkg/binding"
	"github.com/goliatone/go-comboform/pkg/form"
	"github.com/goliatone/go-comboform/pkg/fuzzy"
	"github.com/goliatone/go-comboform/pkg/options"
	"github.com/goliatone/go-comboform/pkg/schema"
	"github.com/goliatone/go-comboform/pkg/widgets"
)

// DefaultRefreshIndex is the store position copied into the listbox field by
// Refresh.
const DefaultRefreshIndex = 3

// ErrMissingWidget is returned when the schema lacks a combobox or listbox field.
var ErrMissingWidget = errors.New("session: schema must declare a combobox and a listbox field")

// Option configures a Session.
type Option func(*config)

type config struct {
	form           *schema.Form
	seed           []string
	seedSet        bool
	newOptionLabel string
	refreshIndex   int
	logger         *slog.Logger
	mode           form.ValidationMode
	matcher        *fuzzy.Matcher
	widgets        *widgets.Registry
}

// WithSchema replaces the embedded form definition.
func WithSchema(f schema.Form) Option {
	return func(c *config) {
		c.form = &f
	}
}

// WithSeed sets the initial option labels. An empty seed is allowed.
func WithSeed(labels ...string) Option {
	return func(c *config) {
		c.seed = append([]string{}, labels...)
		c.seedSet = true
	}
}

// WithNewOptionLabel sets the label appended by Refresh.
func WithNewOptionLabel(label string) Option {
	return func(c *config) {
		if label != "" {
			c.newOptionLabel = label
		}
	}
}

// WithRefreshIndex sets the store position Refresh copies into the listbox.
func WithRefreshIndex(index int) Option {
	return func(c *config) {
		if index >= 0 {
			c.refreshIndex = index
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithValidationMode forwards the mode to the form controller.
func WithValidationMode(mode form.ValidationMode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// WithWidgetRegistry resolves the widget of fields that carry no explicit
// hint.
func WithWidgetRegistry(reg *widgets.Registry) Option {
	return func(c *config) {
		if reg != nil {
			c.widgets = reg
		}
	}
}

// WithMatcher sets the fuzzy matcher used by the combobox.
func WithMatcher(m *fuzzy.Matcher) Option {
	return func(c *config) {
		if m != nil {
			c.matcher = m
		}
	}
}

// Session is one live form.
type Session struct {
	store      options.Store
	log        options.Log
	controller *form.Controller
	combobox   *binding.Binding
	listbox    *binding.Binding

	freeField    schema.Field
	fixedField   schema.Field
	newOption    string
	refreshIndex int
	logger       *slog.Logger
}

// New builds a Session with the default seed and schema unless overridden.
func New(opts ...Option) (*Session, error) {
	cfg := config{
		newOptionLabel: options.DefaultNewOption,
		refreshIndex:   DefaultRefreshIndex,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if !cfg.seedSet {
		cfg.seed = options.DefaultSeed()
	}
	if cfg.matcher == nil {
		cfg.matcher = fuzzy.New()
	}

	var def schema.Form
	if cfg.form != nil {
		def = *cfg.form
	} else {
		loaded, err := schema.Default()
		if err != nil {
			return nil, fmt.Errorf("session: load schema: %w", err)
		}
		def = loaded
	}

	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}
	cfg.widgets.Decorate(&def)

	free, ok := def.ByWidget(schema.WidgetCombobox)
	if !ok {
		return nil, ErrMissingWidget
	}
	fixed, ok := def.ByWidget(schema.WidgetListbox)
	if !ok {
		return nil, ErrMissingWidget
	}

	s := &Session{
		store:        options.NewStore(cfg.seed...),
		freeField:    free,
		fixedField:   fixed,
		newOption:    cfg.newOptionLabel,
		refreshIndex: cfg.refreshIndex,
		logger:       cfg.logger,
	}

	defaults := map[string]form.Value{}
	if first, ok := s.store.At(0); ok {
		defaults[fixed.Name] = form.Of(first)
	}
	controller, err := form.New(def, defaults, form.WithValidationMode(cfg.mode))
	if err != nil {
		return nil, fmt.Errorf("session: form: %w", err)
	}
	s.controller = controller

	if s.combobox, err = s.bind(free, binding.Combobox, cfg.matcher); err != nil {
		return nil, err
	}
	if s.listbox, err = s.bind(fixed, binding.Listbox, cfg.matcher); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) bind(field schema.Field, variant binding.Variant, matcher *fuzzy.Matcher) (*binding.Binding, error) {
	accessor, err := s.controller.Accessor(field.Name)
	if err != nil {
		return nil, fmt.Errorf("session: bind %s: %w", field.Name, err)
	}
	b, err := binding.New(binding.Config{
		Variant:     variant,
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Options:     s.Options,
		Accessor:    accessor,
		Matcher:     matcher,
	})
	if err != nil {
		return nil, fmt.Errorf("session: bind %s: %w", field.Name, err)
	}
	return b, nil
}

// Options returns the current option snapshot.
func (s *Session) Options() options.Store { return s.store }

// Log returns the accepted values.
func (s *Session) Log() options.Log { return s.log }

// Form returns the form controller.
func (s *Session) Form() *form.Controller { return s.controller }

// Combobox returns the free-choice widget binding.
func (s *Session) Combobox() *binding.Binding { return s.combobox }

// Listbox returns the fixed-choice widget binding.
func (s *Session) Listbox() *binding.Binding { return s.listbox }

// Submit validates the form. An accepted submission appends the combobox
// value to the log and removes it from the store. A rejected one changes
// nothing.
func (s *Session) Submit() (form.Record, error) {
	record, err := s.controller.Submit()
	if err != nil {
		if errors.Is(err, form.ErrInvalid) {
			s.logger.Debug("submission rejected", "error", err)
		}
		return nil, err
	}

	chosen := record[s.freeField.Name]
	s.log = s.log.Append(chosen)
	s.store = s.store.Remove(chosen)

	attrs := make([]any, 0, len(record)*2)
	for _, name := range s.controller.Schema().Names() {
		attrs = append(attrs, name, record[name])
	}
	s.logger.Info("submission accepted", attrs...)
	return record, nil
}

// Refresh appends the new-option label and copies the entry at the refresh
// index of the store, as it was before the append, into the listbox field.
// An index past the end leaves the field absent.
func (s *Session) Refresh() (form.Value, error) {
	before := s.store
	s.store = s.store.Append(s.newOption)

	value := form.Absent()
	if label, ok := before.At(s.refreshIndex); ok {
		value = form.Of(label)
	} else {
		s.logger.Debug("refresh index out of range",
			"index", s.refreshIndex,
			"options", before.Len(),
		)
	}
	if err := s.controller.SetValue(s.fixedField.Name, value); err != nil {
		return form.Value{}, fmt.Errorf("session: refresh: %w", err)
	}
	s.logger.Info("option added", "label", s.newOption, s.fixedField.Name, value.String())
	return value, nil
}

// AddOption appends label to the store.
func (s *Session) AddOption(label string) {
	s.store = s.store.Append(label)
}
