// Package optsearch serves fuzzy option search as JSON for combobox inputs.
//
// The handler responds to GET and HEAD requests and supports query and limit
// parameters. Options come from a per-request Source so callers can scope
// them to a session, or from a fixed list.
package optsearch
