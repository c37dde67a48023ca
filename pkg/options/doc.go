// Package options holds the two list values behind the comboform: the Store of
// selectable labels and the Log of accepted values.
//
// Both types are immutable snapshots. Every mutating method returns a new
// value and leaves the receiver untouched, so a snapshot handed to a renderer
// stays consistent while the session moves on.
package options
