package options

// Log is the append-only record of accepted values, in acceptance order.
type Log struct {
	entries []string
}

// Append returns a new log with value recorded last.
func (l Log) Append(value string) Log {
	entries := make([]string, 0, len(l.entries)+1)
	entries = append(entries, l.entries...)
	entries = append(entries, value)
	return Log{entries: entries}
}

// Values returns a copy of the accepted values.
func (l Log) Values() []string {
	return append([]string{}, l.entries...)
}

// Len returns the number of accepted values.
func (l Log) Len() int {
	return len(l.entries)
}

// Last returns the most recently accepted value.
func (l Log) Last() (string, bool) {
	if len(l.entries) == 0 {
		return "", false
	}
	return l.entries[len(l.entries)-1], true
}
