// Package widgets decides which widget variant renders a schema field when
// the document carries no explicit x-formgen-widget hint.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-comboform/pkg/schema"
)

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field schema.Field) bool

type rule struct {
	widget   schema.Widget
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit hints or registered
// matchers. Higher priority wins; ties fall back to registration order. An
// empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered:
// a required, non-nullable field without a length rule is a listbox (it
// always holds one of the options), anything else is a combobox.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher for widget with the provided priority.
func (r *Registry) Register(widget schema.Widget, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := schema.Widget(strings.ToLower(strings.TrimSpace(string(widget))))
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		widget:   trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget for a field. An explicit Widget on the field is
// honoured before matcher evaluation.
func (r *Registry) Resolve(field schema.Field) (schema.Widget, bool) {
	if field.Widget != "" {
		return field.Widget, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.widget, true
		}
	}
	return "", false
}

// Decorate fills in the widget of every field that lacks one. Fields that
// resolve to nothing are left untouched.
func (r *Registry) Decorate(form *schema.Form) {
	if r == nil || form == nil {
		return
	}
	fields := make([]schema.Field, len(form.Fields))
	for idx, field := range form.Fields {
		if widget, ok := r.Resolve(field); ok {
			field.Widget = widget
		}
		fields[idx] = field
	}
	form.Fields = fields
}

func (r *Registry) registerBuiltins() {
	r.Register(schema.WidgetListbox, 80, func(field schema.Field) bool {
		return field.Required && !field.Nullable && field.MinLength == 0
	})
	r.Register(schema.WidgetCombobox, 10, func(schema.Field) bool {
		return true
	})
}
