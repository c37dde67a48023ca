// Package binding connects one form field to a dropdown widget. A Binding
// never stores the field value: reads and writes go through the form
// Accessor it was built with. It only keeps widget-local state such as the
// typed query, whether the panel is open and the highlighted row.
package binding

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-comboform/pkg/form"
	"github.com/goliatone/go-comboform/pkg/fuzzy"
	"github.com/goliatone/go-comboform/pkg/options"
)

// Variant selects the widget behaviour.
type Variant string

const (
	// Combobox filters options by a typed query.
	Combobox Variant = "combobox"
	// Listbox always shows the full list.
	Listbox Variant = "listbox"
)

var (
	// ErrDisabled is returned when interacting with a disabled widget.
	ErrDisabled = errors.New("binding: widget is disabled")
	// ErrNotFilterable is returned when a listbox receives a query.
	ErrNotFilterable = errors.New("binding: listbox does not filter")
	// ErrNotAvailable is returned when picking an option that is not shown.
	ErrNotAvailable = errors.New("binding: option not available")
)

// Source returns the current option snapshot.
type Source func() options.Store

// Config wires a Binding.
type Config struct {
	Variant     Variant
	Label       string
	Placeholder string
	Options     Source
	Accessor    form.Accessor
	Matcher     *fuzzy.Matcher
}

// Binding is one field rendered as a combobox or listbox.
type Binding struct {
	variant     Variant
	label       string
	placeholder string
	source      Source
	accessor    form.Accessor
	matcher     *fuzzy.Matcher

	query  string
	open   bool
	cursor int
}

// New validates cfg and builds a Binding.
func New(cfg Config) (*Binding, error) {
	if cfg.Options == nil {
		return nil, errors.New("binding: options source is required")
	}
	if cfg.Accessor.Get == nil || cfg.Accessor.Set == nil {
		return nil, errors.New("binding: accessor is required")
	}
	switch cfg.Variant {
	case Combobox, Listbox:
	case "":
		cfg.Variant = Combobox
	default:
		return nil, fmt.Errorf("binding: unknown variant %q", cfg.Variant)
	}
	if cfg.Matcher == nil {
		cfg.Matcher = fuzzy.New()
	}
	return &Binding{
		variant:     cfg.Variant,
		label:       cfg.Label,
		placeholder: cfg.Placeholder,
		source:      cfg.Options,
		accessor:    cfg.Accessor,
		matcher:     cfg.Matcher,
	}, nil
}

// Name returns the bound field name.
func (b *Binding) Name() string { return b.accessor.Name }

// Variant returns the widget variant.
func (b *Binding) Variant() Variant { return b.variant }

// Label returns the widget label.
func (b *Binding) Label() string { return b.label }

// Placeholder returns the hint shown when no value is chosen.
func (b *Binding) Placeholder() string { return b.placeholder }

// Value reads the field through the accessor.
func (b *Binding) Value() form.Value {
	return b.accessor.Get()
}

// Display returns the current value, or the placeholder when absent.
func (b *Binding) Display() string {
	value := b.Value()
	if !value.Present() {
		return b.placeholder
	}
	return value.Text()
}

// Error returns the field's validation message.
func (b *Binding) Error() string {
	if b.accessor.Err == nil {
		return ""
	}
	return b.accessor.Err()
}

// Query returns the typed filter text.
func (b *Binding) Query() string { return b.query }

// Disabled reports whether interaction is refused. Only a combobox with no
// options is disabled.
func (b *Binding) Disabled() bool {
	return b.variant == Combobox && b.source().IsEmpty()
}

// SetQuery updates the filter text and opens the panel. It does not write
// the field.
func (b *Binding) SetQuery(query string) error {
	if b.variant != Combobox {
		return ErrNotFilterable
	}
	if b.Disabled() {
		return ErrDisabled
	}
	b.query = query
	b.open = true
	b.cursor = 0
	return nil
}

// Visible returns the options shown in the panel. It is recomputed on every
// call from the current store and query.
func (b *Binding) Visible() []fuzzy.Match {
	items := b.source().Values()
	if b.variant == Listbox {
		return fuzzy.Search("", items)
	}
	return b.matcher.Search(b.query, items)
}

// Open shows the panel.
func (b *Binding) Open() error {
	if b.Disabled() {
		return ErrDisabled
	}
	b.open = true
	b.cursor = b.selectedIndex(b.Visible())
	return nil
}

// Close hides the panel.
func (b *Binding) Close() {
	b.open = false
}

// ClearQuery drops the filter text and closes the panel. It works on a
// disabled combobox too.
func (b *Binding) ClearQuery() {
	b.query = ""
	b.open = false
	b.cursor = 0
}

// Toggle flips the panel state.
func (b *Binding) Toggle() error {
	if b.open {
		b.Close()
		return nil
	}
	return b.Open()
}

// PanelOpen reports whether the panel is displayed. A panel with nothing to
// show stays hidden.
func (b *Binding) PanelOpen() bool {
	return b.open && !b.Disabled() && len(b.Visible()) > 0
}

// MoveUp moves the highlight up, wrapping to the bottom.
func (b *Binding) MoveUp() {
	n := len(b.Visible())
	if n == 0 {
		b.cursor = 0
		return
	}
	b.cursor = (b.clampCursor(n) - 1 + n) % n
}

// MoveDown moves the highlight down, wrapping to the top.
func (b *Binding) MoveDown() {
	n := len(b.Visible())
	if n == 0 {
		b.cursor = 0
		return
	}
	b.cursor = (b.clampCursor(n) + 1) % n
}

// Active returns the highlighted option.
func (b *Binding) Active() (fuzzy.Match, bool) {
	visible := b.Visible()
	if len(visible) == 0 {
		return fuzzy.Match{}, false
	}
	return visible[b.clampCursor(len(visible))], true
}

// Pick writes item through the accessor. The item must be one of the
// visible options.
func (b *Binding) Pick(item string) error {
	if b.Disabled() {
		return ErrDisabled
	}
	for _, match := range b.Visible() {
		if match.Item == item {
			b.accessor.Set(form.Of(item))
			b.query = ""
			b.open = false
			b.cursor = 0
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNotAvailable, item)
}

// PickActive picks the highlighted option.
func (b *Binding) PickActive() error {
	if b.Disabled() {
		return ErrDisabled
	}
	match, ok := b.Active()
	if !ok {
		return ErrNotAvailable
	}
	return b.Pick(match.Item)
}

func (b *Binding) clampCursor(n int) int {
	if b.cursor < 0 || b.cursor >= n {
		return 0
	}
	return b.cursor
}

func (b *Binding) selectedIndex(visible []fuzzy.Match) int {
	value := b.Value()
	if !value.Present() {
		return 0
	}
	for i, match := range visible {
		if match.Item == value.Text() {
			return i
		}
	}
	return 0
}
