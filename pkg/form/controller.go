// Package form holds the comboform field values and their validation state.
//
// The Controller owns the values; widgets reach them only through an
// Accessor. Validation follows the usual form-library modes: on submit by
// default, re-validating changed fields once a submit has been attempted, or
// live on every change.
package form

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-comboform/pkg/schema"
)

// ValidationMode controls when field errors are computed.
type ValidationMode string

const (
	ValidateOnSubmit ValidationMode = "submit"
	ValidateOnChange ValidationMode = "change"
)

// Option configures a Controller.
type Option func(*Controller)

// WithValidationMode selects when errors are computed.
func WithValidationMode(mode ValidationMode) Option {
	return func(c *Controller) {
		if mode != "" {
			c.mode = mode
		}
	}
}

// Controller holds field values and errors for one form.
type Controller struct {
	form      schema.Form
	values    map[string]Value
	errors    map[string]string
	mode      ValidationMode
	submitted bool
}

// New builds a controller seeded with defaults. Defaults for unknown fields
// are rejected.
func New(form schema.Form, defaults map[string]Value, options ...Option) (*Controller, error) {
	if len(form.Fields) == 0 {
		return nil, errors.New("form: schema has no fields")
	}
	c := &Controller{
		form:   form,
		values: make(map[string]Value, len(form.Fields)),
		errors: make(map[string]string),
		mode:   ValidateOnSubmit,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	for name, value := range defaults {
		if _, ok := form.Field(name); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		c.values[name] = value
	}
	if c.mode == ValidateOnChange {
		for _, field := range form.Fields {
			c.validateField(field)
		}
	}
	return c, nil
}

// Schema returns the form definition.
func (c *Controller) Schema() schema.Form {
	return c.form
}

// Value returns the current value of name.
func (c *Controller) Value(name string) Value {
	return c.values[name]
}

// SetValue writes a value. Errors are recomputed for the field in live mode
// or once a submit has been attempted.
func (c *Controller) SetValue(name string, value Value) error {
	field, ok := c.form.Field(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	c.values[name] = value
	if c.mode == ValidateOnChange || c.submitted {
		c.validateField(field)
	}
	return nil
}

// State reports the field state derived from its value. An absent value is
// unset unless the field is nullable, in which case Submit accepts it and it
// is valid.
func (c *Controller) State(name string) State {
	field, ok := c.form.Field(name)
	if !ok {
		return StateUnset
	}
	value := c.values[name]
	if !value.Present() && !field.Nullable {
		return StateUnset
	}
	if err := field.Validate(value.Text(), value.Present()); err != nil {
		return StateInvalid
	}
	return StateValid
}

// Error returns the message currently shown for name.
func (c *Controller) Error(name string) string {
	return c.errors[name]
}

// Errors returns a copy of the visible field errors.
func (c *Controller) Errors() map[string]string {
	out := make(map[string]string, len(c.errors))
	for name, msg := range c.errors {
		out[name] = msg
	}
	return out
}

// Submitted reports whether a submit has been attempted.
func (c *Controller) Submitted() bool {
	return c.submitted
}

// Values returns a copy of all field values.
func (c *Controller) Values() map[string]Value {
	out := make(map[string]Value, len(c.values))
	for name, value := range c.values {
		out[name] = value
	}
	return out
}

// Submit validates every field. On success it returns the record and clears
// the fields marked reset-on-submit. A rejected submit returns
// ValidationErrors and changes no values.
func (c *Controller) Submit() (Record, error) {
	c.submitted = true

	var failed ValidationErrors
	for _, field := range c.form.Fields {
		if err := c.validateField(field); err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return nil, failed
	}

	record := make(Record, len(c.form.Fields))
	for _, field := range c.form.Fields {
		record[field.Name] = c.values[field.Name].Text()
	}

	for _, field := range c.form.Fields {
		if !field.ResetOnSubmit {
			continue
		}
		c.values[field.Name] = Of("")
		c.validateField(field)
	}
	return record, nil
}

// Accessor returns the typed read/write pair for name.
func (c *Controller) Accessor(name string) (Accessor, error) {
	if _, ok := c.form.Field(name); !ok {
		return Accessor{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return Accessor{
		Name: name,
		Get:  func() Value { return c.Value(name) },
		Set:  func(v Value) { _ = c.SetValue(name, v) },
		Err:  func() string { return c.Error(name) },
	}, nil
}

func (c *Controller) validateField(field schema.Field) *schema.ValidationError {
	value := c.values[field.Name]
	err := field.Validate(value.Text(), value.Present())
	if err == nil {
		delete(c.errors, field.Name)
		return nil
	}
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		verr = &schema.ValidationError{Field: field.Name, Message: err.Error()}
	}
	c.errors[field.Name] = verr.Message
	return verr
}
