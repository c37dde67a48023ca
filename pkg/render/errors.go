package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-comboform/pkg/form"
	"github.com/goliatone/go-comboform/pkg/schema"
)

// ErrorMapping splits error messages into field-level and form-level groups
// keyed by field name.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// For returns the messages for one field.
func (m ErrorMapping) For(name string) []string {
	return m.Fields[name]
}

// MapError converts a Submit error into an ErrorMapping. Validation errors
// for fields declared in def land on those fields; anything else becomes a
// form-level message so it is not lost.
func MapError(def schema.Form, err error) ErrorMapping {
	if err == nil {
		return ErrorMapping{}
	}
	var verrs form.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrorMapping{Form: NormalizeMessages([]string{err.Error()})}
	}

	mapping := ErrorMapping{Fields: make(map[string][]string, len(verrs))}
	for _, verr := range verrs {
		if verr == nil {
			continue
		}
		if _, ok := def.Field(verr.Field); !ok {
			mapping.Form = append(mapping.Form, verr.Message)
			continue
		}
		mapping.Fields[verr.Field] = NormalizeMessages(append(mapping.Fields[verr.Field], verr.Message))
	}
	for name, messages := range mapping.Fields {
		if len(messages) == 0 {
			delete(mapping.Fields, name)
		}
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = NormalizeMessages(mapping.Form)
	return mapping
}

// NormalizeMessages trims messages and removes blanks and duplicates,
// keeping the first occurrence.
func NormalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
