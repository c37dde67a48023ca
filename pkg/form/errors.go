package form

import (
	"errors"
	"strings"

	"github.com/goliatone/go-comboform/pkg/schema"
)

var (
	// ErrInvalid wraps every rejected submission.
	ErrInvalid = errors.New("form: invalid submission")
	// ErrUnknownField is returned for names the schema does not declare.
	ErrUnknownField = errors.New("form: unknown field")
)

// ValidationErrors lists the fields that blocked a submission, in form order.
type ValidationErrors []*schema.ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, err := range e {
		parts = append(parts, err.Error())
	}
	return "form: invalid submission: " + strings.Join(parts, "; ")
}

// Is lets errors.Is match ErrInvalid.
func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalid
}

// Fields maps field names to their messages.
func (e ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, err := range e {
		out[err.Field] = err.Message
	}
	return out
}
