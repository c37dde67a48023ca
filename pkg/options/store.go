package options

// DefaultNewOption is the label appended by the refresh trigger.
const DefaultNewOption = "New option"

// DefaultSeed returns the labels a new session starts with.
func DefaultSeed() []string {
	return []string{"Option 1", "Option 2", "Option 3", "Option 4", "Option 5"}
}

// Store is an ordered snapshot of selectable labels. The zero value is an
// empty store. Duplicates are allowed; callers that need uniqueness check
// Contains before appending.
type Store struct {
	items []string
}

// NewStore builds a snapshot from labels. The input slice is copied.
func NewStore(labels ...string) Store {
	if len(labels) == 0 {
		return Store{}
	}
	return Store{items: append([]string(nil), labels...)}
}

// Append returns a new snapshot with label added at the end.
func (s Store) Append(label string) Store {
	items := make([]string, 0, len(s.items)+1)
	items = append(items, s.items...)
	items = append(items, label)
	return Store{items: items}
}

// Remove returns a new snapshot without the first element equal to label.
// Removing an absent label returns an equal snapshot.
func (s Store) Remove(label string) Store {
	idx := s.Index(label)
	if idx < 0 {
		return NewStore(s.items...)
	}
	items := make([]string, 0, len(s.items)-1)
	items = append(items, s.items[:idx]...)
	items = append(items, s.items[idx+1:]...)
	return Store{items: items}
}

// At returns the label at position i. Out of range positions report false.
func (s Store) At(i int) (string, bool) {
	if i < 0 || i >= len(s.items) {
		return "", false
	}
	return s.items[i], true
}

// Index returns the position of the first element equal to label, or -1.
func (s Store) Index(label string) int {
	for i, item := range s.items {
		if item == label {
			return i
		}
	}
	return -1
}

// Contains reports whether label is present.
func (s Store) Contains(label string) bool {
	return s.Index(label) >= 0
}

// Values returns a copy of the labels in order.
func (s Store) Values() []string {
	return append([]string{}, s.items...)
}

// Len returns the number of labels.
func (s Store) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the store has no labels.
func (s Store) IsEmpty() bool {
	return len(s.items) == 0
}
