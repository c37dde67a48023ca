// Package schema reads the comboform field definitions from an OpenAPI 3
// document. The form is the JSON request body of one operation; each
// property becomes a Field and x-formgen-* extensions carry the widget and
// message hints.
package schema

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed form.yaml
var defaultFS embed.FS

// DefaultOperationID names the operation whose request body describes the form.
const DefaultOperationID = "submitSelection"

// Widget selects the presentation variant bound to a field.
type Widget string

const (
	WidgetCombobox Widget = "combobox"
	WidgetListbox  Widget = "listbox"
)

const (
	extLabel         = "x-formgen-label"
	extPlaceholder   = "x-formgen-placeholder"
	extWidget        = "x-formgen-widget"
	extMessage       = "x-formgen-message"
	extResetOnSubmit = "x-formgen-reset-on-submit"
	extOrder         = "x-formgen-order"
)

const defaultMessage = "Too short!"

var (
	// ErrOperationNotFound is returned when the document lacks the form operation.
	ErrOperationNotFound = errors.New("schema: operation not found")
	// ErrNoFields is returned when the request body declares no properties.
	ErrNoFields = errors.New("schema: request body has no fields")
)

// Field describes one form input.
type Field struct {
	Name          string
	Label         string
	Placeholder   string
	Widget        Widget
	Required      bool
	Nullable      bool
	MinLength     int
	Message       string
	ResetOnSubmit bool
	Order         int
}

// Form is the ordered set of fields for one operation.
type Form struct {
	OperationID string
	Fields      []Field
}

// Field looks up a field by name.
func (f Form) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// ByWidget returns the first field rendered with widget.
func (f Form) ByWidget(widget Widget) (Field, bool) {
	for _, field := range f.Fields {
		if field.Widget == widget {
			return field, true
		}
	}
	return Field{}, false
}

// Names returns the field names in display order.
func (f Form) Names() []string {
	out := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		out = append(out, field.Name)
	}
	return out
}

// ValidationError reports a field that failed its rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a field value. Present values are trimmed before the
// length check.
func (f Field) Validate(value string, present bool) error {
	if !present {
		if f.Nullable {
			return nil
		}
		return &ValidationError{Field: f.Name, Message: f.message()}
	}
	min := f.MinLength
	if min < 1 && f.Required {
		min = 1
	}
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		return &ValidationError{Field: f.Name, Message: f.message()}
	}
	return nil
}

func (f Field) message() string {
	if f.Message != "" {
		return f.Message
	}
	return defaultMessage
}

// Default loads the embedded form document.
func Default() (Form, error) {
	return LoadSource(context.Background(), SourceFromFS(defaultFS, "form.yaml"), DefaultOperationID)
}

// MustDefault panics when the embedded document is invalid.
func MustDefault() Form {
	form, err := Default()
	if err != nil {
		panic(err)
	}
	return form
}

// Load parses raw (JSON or YAML) and extracts the form for operationID.
func Load(ctx context.Context, raw []byte, operationID string) (Form, error) {
	if len(raw) == 0 {
		return Form{}, errors.New("schema: document payload is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return Form{}, fmt.Errorf("schema: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return Form{}, fmt.Errorf("schema: validate: %w", err)
	}

	op := findOperation(doc, operationID)
	if op == nil {
		return Form{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := requestSchema(op)
	if body == nil || len(body.Properties) == 0 {
		return Form{}, ErrNoFields
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	form := Form{OperationID: operationID}
	for name, ref := range body.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[name]
		form.Fields = append(form.Fields, convertField(name, ref.Value, isRequired))
	}
	if len(form.Fields) == 0 {
		return Form{}, ErrNoFields
	}

	sort.SliceStable(form.Fields, func(i, j int) bool {
		if form.Fields[i].Order != form.Fields[j].Order {
			return form.Fields[i].Order < form.Fields[j].Order
		}
		return form.Fields[i].Name < form.Fields[j].Name
	})
	return form, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt := content.Get(mediaType); mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func convertField(name string, src *openapi3.Schema, required bool) Field {
	field := Field{
		Name:        name,
		Label:       stringExt(src.Extensions, extLabel),
		Placeholder: stringExt(src.Extensions, extPlaceholder),
		Widget:      Widget(strings.ToLower(stringExt(src.Extensions, extWidget))),
		Required:    required,
		Nullable:    src.Nullable,
		MinLength:   int(src.MinLength),
		Message:     stringExt(src.Extensions, extMessage),
		Order:       intExt(src.Extensions, extOrder),
	}
	if reset, ok := src.Extensions[extResetOnSubmit].(bool); ok {
		field.ResetOnSubmit = reset
	}
	if field.Label == "" {
		field.Label = name
	}
	return field
}

func stringExt(ext map[string]any, key string) string {
	if raw, ok := ext[key].(string); ok {
		return strings.TrimSpace(raw)
	}
	return ""
}

func intExt(ext map[string]any, key string) int {
	switch v := ext[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}
