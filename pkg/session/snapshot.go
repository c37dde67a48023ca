package session

import "github.com/goliatone/go-comboform/pkg/binding"

// Snapshot is a serialisable view of the whole session.
type Snapshot struct {
	Options   []string          `json:"options"`
	Selected  []string          `json:"selected"`
	Values    map[string]string `json:"values"`
	Errors    map[string]string `json:"errors,omitempty"`
	Submitted bool              `json:"submitted"`
	Combobox  binding.View      `json:"combobox"`
	Listbox   binding.View      `json:"listbox"`
}

// Snapshot captures the session state. Absent values are omitted from
// Values.
func (s *Session) Snapshot() Snapshot {
	values := map[string]string{}
	for name, value := range s.controller.Values() {
		if value.Present() {
			values[name] = value.Text()
		}
	}
	return Snapshot{
		Options:   s.store.Values(),
		Selected:  s.log.Values(),
		Values:    values,
		Errors:    s.controller.Errors(),
		Submitted: s.controller.Submitted(),
		Combobox:  s.combobox.View(),
		Listbox:   s.listbox.View(),
	}
}
