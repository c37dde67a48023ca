package binding

// Item is one row of the options panel.
type Item struct {
	Label     string `json:"label"`
	Selected  bool   `json:"selected"`
	Active    bool   `json:"active"`
	Positions []int  `json:"positions,omitempty"`
}

// View is a render-agnostic snapshot of a Binding.
type View struct {
	Name        string  `json:"name"`
	Variant     Variant `json:"variant"`
	Label       string  `json:"label"`
	Placeholder string  `json:"placeholder"`
	Value       string  `json:"value"`
	HasValue    bool    `json:"hasValue"`
	Query       string  `json:"query"`
	Open        bool    `json:"open"`
	Disabled    bool    `json:"disabled"`
	Error       string  `json:"error,omitempty"`
	Items       []Item  `json:"items"`
}

// View captures the current widget state. Items hold every visible option
// even when the panel is closed so renderers that always list options (HTML
// select, prompt menus) can use them.
func (b *Binding) View() View {
	value := b.Value()
	visible := b.Visible()
	cursor := b.clampCursor(len(visible))

	items := make([]Item, 0, len(visible))
	for i, match := range visible {
		items = append(items, Item{
			Label:     match.Item,
			Selected:  value.Present() && match.Item == value.Text(),
			Active:    i == cursor,
			Positions: match.Positions,
		})
	}

	return View{
		Name:        b.Name(),
		Variant:     b.variant,
		Label:       b.label,
		Placeholder: b.placeholder,
		Value:       value.Text(),
		HasValue:    value.Present(),
		Query:       b.query,
		Open:        b.PanelOpen(),
		Disabled:    b.Disabled(),
		Error:       b.Error(),
		Items:       items,
	}
}
