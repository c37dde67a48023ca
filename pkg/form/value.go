package form

// Value is a field value: either absent or a string.
type Value struct {
	text    string
	present bool
}

// Of wraps a string value. The empty string is a present value.
func Of(text string) Value {
	return Value{text: text, present: true}
}

// Absent returns the "no value chosen" state.
func Absent() Value {
	return Value{}
}

// Text returns the string, or "" when absent.
func (v Value) Text() string {
	return v.text
}

// Present reports whether a value was chosen.
func (v Value) Present() bool {
	return v.present
}

func (v Value) String() string {
	if !v.present {
		return "<absent>"
	}
	return v.text
}

// State is the validation state of a field.
type State int

const (
	// StateUnset means no value has been chosen.
	StateUnset State = iota
	// StateInvalid means the value fails its rule.
	StateInvalid
	// StateValid means the value passes its rule.
	StateValid
)

func (s State) String() string {
	switch s {
	case StateInvalid:
		return "invalid"
	case StateValid:
		return "valid"
	default:
		return "unset"
	}
}

// Record is an accepted submission keyed by field name.
type Record map[string]string

// Accessor is the read/write pair a widget uses to reach one field.
type Accessor struct {
	Name string
	Get  func() Value
	Set  func(Value)
	Err  func() string
}
