package web

import (
	"github.com/goliatone/go-comboform/pkg/binding"
	"github.com/goliatone/go-comboform/pkg/render"
	"github.com/goliatone/go-comboform/pkg/session"
)

type segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

type itemData struct {
	Label    string    `json:"label"`
	Selected bool      `json:"selected"`
	Segments []segment `json:"segments"`
}

type fieldData struct {
	Name        string     `json:"name"`
	Label       string     `json:"label"`
	Placeholder string     `json:"placeholder"`
	Value       string     `json:"value"`
	HasValue    bool       `json:"hasValue"`
	Query       string     `json:"query"`
	Open        bool       `json:"open"`
	Disabled    bool       `json:"disabled"`
	Errors      []string   `json:"errors"`
	Items       []itemData `json:"items"`
	Hidden      []render.HiddenField
}

type themeData struct {
	Name    string `json:"name"`
	Variant string `json:"variant"`
	CSS     string `json:"css"`
}

type pageData struct {
	Title    string    `json:"title"`
	Combobox fieldData `json:"combobox"`
	Listbox  fieldData `json:"listbox"`
	Selected []string  `json:"selected"`
	Flash    []string  `json:"flash"`
}

func buildPage(s *session.Session, flash []string) pageData {
	return pageData{
		Title:    "Comboform",
		Combobox: buildField(s.Combobox()),
		Listbox:  buildField(s.Listbox()),
		Selected: s.Log().Values(),
		Flash:    render.NormalizeMessages(flash),
	}
}

func buildField(b *binding.Binding) fieldData {
	view := b.View()
	items := make([]itemData, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, itemData{
			Label:    item.Label,
			Selected: item.Selected,
			Segments: segments(item.Label, item.Positions),
		})
	}
	hidden := []render.HiddenField{render.Hidden("field", view.Name)}
	if view.Query != "" {
		hidden = append(hidden, render.Hidden("q", view.Query))
	}
	return fieldData{
		Name:        view.Name,
		Label:       view.Label,
		Placeholder: view.Placeholder,
		Value:       view.Value,
		HasValue:    view.HasValue,
		Query:       view.Query,
		Open:        view.Open,
		Disabled:    view.Disabled,
		Errors:      render.NormalizeMessages([]string{view.Error}),
		Items:       items,
		Hidden:      render.SortedHiddenFields(render.MergeHiddenFields(nil, hidden...)),
	}
}

// segments splits label into runs of matched and unmatched runes.
func segments(label string, positions []int) []segment {
	if len(positions) == 0 {
		return []segment{{Text: label}}
	}
	marked := make(map[int]struct{}, len(positions))
	for _, pos := range positions {
		marked[pos] = struct{}{}
	}

	var out []segment
	var current []rune
	currentMatch := false
	for i, r := range []rune(label) {
		_, match := marked[i]
		if len(current) > 0 && match != currentMatch {
			out = append(out, segment{Text: string(current), Match: currentMatch})
			current = current[:0]
		}
		currentMatch = match
		current = append(current, r)
	}
	if len(current) > 0 {
		out = append(out, segment{Text: string(current), Match: currentMatch})
	}
	return out
}
