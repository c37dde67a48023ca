package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/goliatone/go-comboform/pkg/binding"
	"github.com/goliatone/go-comboform/pkg/form"
	"github.com/goliatone/go-comboform/pkg/session"
)

type focus int

const (
	focusCombobox focus = iota
	focusListbox
	focusSubmit
	focusUpdate
	focusCount
)

const defaultWidth = 60

// Model is the bubbletea model for one session.
type Model struct {
	session *session.Session
	keys    keyMap
	styles  styles
	input   textinput.Model
	focus   focus
	width   int
	status  string
}

// NewModel builds a model focused on the combobox.
func NewModel(s *session.Session, st styles) Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = s.Combobox().Display()
	input.Focus()

	return Model{
		session: s,
		keys:    defaultKeyMap(),
		styles:  st,
		input:   input,
		focus:   focusCombobox,
		width:   defaultWidth,
	}
}

// Session returns the driven session.
func (m Model) Session() *session.Session { return m.session }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusCombobox {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(1), nil
	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1), nil
	case key.Matches(msg, m.keys.Submit):
		return m.submit(), nil
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh(), nil
	}

	switch m.focus {
	case focusCombobox:
		return m.comboboxKey(msg)
	case focusListbox:
		return m.listboxKey(msg), nil
	case focusSubmit:
		if key.Matches(msg, m.keys.Enter, m.keys.Space) {
			return m.submit(), nil
		}
	case focusUpdate:
		if key.Matches(msg, m.keys.Enter, m.keys.Space) {
			return m.refresh(), nil
		}
	}
	return m, nil
}

func (m Model) comboboxKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.session.Combobox()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.ensureOpen(b)
		b.MoveUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.ensureOpen(b)
		b.MoveDown()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		b.Close()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		if !b.PanelOpen() {
			m.ensureOpen(b)
			return m, nil
		}
		if err := b.PickActive(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		m.resetInput()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	if err := b.SetQuery(m.input.Value()); err != nil {
		if errors.Is(err, binding.ErrDisabled) {
			m.status = "No options available"
		} else {
			m.status = err.Error()
		}
		m.resetInput()
		return m, cmd
	}
	m.status = ""
	return m, cmd
}

func (m Model) listboxKey(msg tea.KeyMsg) Model {
	b := m.session.Listbox()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.ensureOpen(b)
		b.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.ensureOpen(b)
		b.MoveDown()
	case key.Matches(msg, m.keys.Escape):
		b.Close()
	case key.Matches(msg, m.keys.Enter):
		if b.PanelOpen() {
			if err := b.PickActive(); err != nil {
				m.status = err.Error()
			}
			return m
		}
		m.ensureOpen(b)
	case key.Matches(msg, m.keys.Space):
		if err := b.Toggle(); err != nil {
			m.status = err.Error()
		}
	}
	return m
}

func (m *Model) ensureOpen(b *binding.Binding) {
	if b.PanelOpen() {
		return
	}
	if err := b.Open(); err != nil {
		if errors.Is(err, binding.ErrDisabled) {
			m.status = "No options available"
			return
		}
		m.status = err.Error()
	}
}

func (m Model) moveFocus(delta int) Model {
	m.session.Combobox().Close()
	m.session.Listbox().Close()

	next := (int(m.focus) + delta + int(focusCount)) % int(focusCount)
	m.focus = focus(next)
	if m.focus == focusCombobox {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	return m
}

func (m Model) submit() Model {
	record, err := m.session.Submit()
	if err != nil {
		if errors.Is(err, form.ErrInvalid) {
			m.status = "Fix the highlighted fields"
		} else {
			m.status = err.Error()
		}
		return m
	}
	m.status = fmt.Sprintf("Accepted %q", record[m.session.Combobox().Name()])
	m.resetInput()
	return m
}

func (m Model) refresh() Model {
	value, err := m.session.Refresh()
	if err != nil {
		m.status = err.Error()
		return m
	}
	if value.Present() {
		m.status = fmt.Sprintf("Added option, %s set to %q", m.session.Listbox().Label(), value.Text())
	} else {
		m.status = fmt.Sprintf("Added option, %s cleared", m.session.Listbox().Label())
	}
	return m
}

// resetInput clears the typed text and the binding query together.
func (m *Model) resetInput() {
	m.input.SetValue("")
	m.session.Combobox().ClearQuery()
	m.input.Placeholder = m.session.Combobox().Display()
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Comboform"))
	b.WriteString("\n\n")

	m.writeField(&b, m.session.Combobox(), m.focus == focusCombobox, true)
	b.WriteString("\n")
	m.writeField(&b, m.session.Listbox(), m.focus == focusListbox, false)
	b.WriteString("\n")

	b.WriteString(m.renderButtons())
	b.WriteString("\n\n")

	b.WriteString(m.styles.label.Render("Selected"))
	b.WriteString("\n")
	selected := m.session.Log().Values()
	if len(selected) == 0 {
		b.WriteString(m.styles.muted.Render("  nothing yet"))
		b.WriteString("\n")
	}
	for _, value := range selected {
		b.WriteString("  • " + m.truncate(value, 4))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.status.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) writeField(b *strings.Builder, field *binding.Binding, focused, filterable bool) {
	label := m.styles.label.Render(field.Label())
	if focused {
		label = m.styles.focused.Render("› " + field.Label())
	}
	b.WriteString(label)
	b.WriteString("\n")

	switch {
	case field.Disabled():
		b.WriteString(m.styles.muted.Render("  " + field.Placeholder() + " (no options)"))
	case filterable && focused:
		m.input.Placeholder = field.Display()
		b.WriteString("  " + m.input.View())
	case field.Value().Present():
		b.WriteString("  " + m.styles.value.Render(m.truncate(field.Value().Text(), 2)))
	default:
		b.WriteString("  " + m.styles.muted.Render(field.Placeholder()))
	}
	b.WriteString("\n")

	if field.PanelOpen() {
		b.WriteString(m.renderPanel(field.View()))
		b.WriteString("\n")
	}
	if msg := field.Error(); msg != "" {
		b.WriteString(m.styles.err.Render("  " + msg))
		b.WriteString("\n")
	}
}

func (m Model) renderPanel(view binding.View) string {
	lines := make([]string, 0, len(view.Items))
	maxWidth := 0
	for _, item := range view.Items {
		marker := "  "
		if item.Active {
			marker = "> "
		}
		check := " "
		if item.Selected {
			check = "✓"
		}
		label := m.truncate(item.Label, 8)
		line := marker + m.highlight(label, item.Positions) + " " + check
		if item.Active {
			line = m.styles.active.Render(line)
		}
		if w := ansi.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
		lines = append(lines, line)
	}
	for i, line := range lines {
		if pad := maxWidth - ansi.StringWidth(line); pad > 0 {
			lines[i] = line + strings.Repeat(" ", pad)
		}
	}
	return m.styles.panel.Render(strings.Join(lines, "\n"))
}

func (m Model) highlight(label string, positions []int) string {
	if len(positions) == 0 {
		return label
	}
	marked := make(map[int]struct{}, len(positions))
	for _, pos := range positions {
		marked[pos] = struct{}{}
	}
	var b strings.Builder
	for i, r := range []rune(label) {
		if _, ok := marked[i]; ok {
			b.WriteString(m.styles.match.Render(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (m Model) renderButtons() string {
	submit := m.styles.button.Render("Submit")
	if m.focus == focusSubmit {
		submit = m.styles.buttonOn.Render("Submit")
	}
	update := m.styles.button.Render("Update")
	if m.focus == focusUpdate {
		update = m.styles.buttonOn.Render("Update")
	}
	return submit + " " + update
}

func (m Model) renderHelp() string {
	parts := make([]string, 0, len(m.keys.help()))
	for _, kb := range m.keys.help() {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.muted.Render(m.truncate(strings.Join(parts, " · "), 0))
}

func (m Model) truncate(s string, reserved int) string {
	limit := m.width - reserved
	if limit <= 0 || ansi.StringWidth(s) <= limit {
		return s
	}
	return ansi.Truncate(s, limit, "…")
}
