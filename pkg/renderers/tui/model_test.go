package tui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-comboform/pkg/form"
	"github.com/goliatone/go-comboform/pkg/session"
	"github.com/goliatone/go-comboform/pkg/testsupport"
)

func newModel(t *testing.T, opts ...session.Option) Model {
	t.Helper()
	return NewModel(testsupport.NewSession(t, opts...), newStyles(&bytes.Buffer{}, true))
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		updated, ok := next.(Model)
		if !ok {
			t.Fatalf("unexpected model type %T", next)
		}
		m = updated
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter    = tea.KeyMsg{Type: tea.KeyEnter}
	tab      = tea.KeyMsg{Type: tea.KeyTab}
	shiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	down     = tea.KeyMsg{Type: tea.KeyDown}
	up       = tea.KeyMsg{Type: tea.KeyUp}
	space    = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func TestTypingFiltersCombobox(t *testing.T) {
	m := newModel(t)
	m = press(t, m, runes("2"))

	b := m.Session().Combobox()
	if b.Query() != "2" {
		t.Fatalf("expected query 2, got %q", b.Query())
	}
	if !b.PanelOpen() {
		t.Fatalf("expected panel open")
	}
	if b.Value().Present() {
		t.Fatalf("typing must not write the field")
	}
	if view := m.View(); !strings.Contains(view, "Option 2") || strings.Contains(view, "Option 3") {
		t.Fatalf("expected only Option 2 in view:\n%s", view)
	}
}

func TestEnterPicksAndSubmitAccepts(t *testing.T) {
	m := newModel(t)
	m = press(t, m, runes("2"), enter)

	if got := m.Session().Combobox().Value(); got != form.Of("Option 2") {
		t.Fatalf("expected Option 2, got %v", got)
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input cleared, got %q", m.input.Value())
	}

	m = press(t, m, tab, tab, enter)
	if m.focus != focusSubmit {
		t.Fatalf("expected submit focus, got %d", m.focus)
	}
	if diff := cmp.Diff([]string{"Option 2"}, m.Session().Log().Values()); diff != "" {
		t.Fatalf("log mismatch (-want +got):\n%s", diff)
	}
	view := m.View()
	if !strings.Contains(view, "Too short!") {
		t.Fatalf("expected reset error in view:\n%s", view)
	}
	if !strings.Contains(view, "• Option 2") {
		t.Fatalf("expected accepted list in view:\n%s", view)
	}
}

func TestSubmitRejectedShowsError(t *testing.T) {
	m := newModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.Session().Log().Len() != 0 {
		t.Fatalf("expected empty log")
	}
	if !strings.Contains(m.View(), "Too short!") {
		t.Fatalf("expected validation error in view")
	}
}

func TestRejectedSubmitKeepsQueryInSync(t *testing.T) {
	ctrlS := tea.KeyMsg{Type: tea.KeyCtrlS}
	backspace := tea.KeyMsg{Type: tea.KeyBackspace}

	m := newModel(t)
	m = press(t, m, runes("zzz"), ctrlS)

	b := m.Session().Combobox()
	if m.input.Value() != "zzz" || b.Query() != "zzz" {
		t.Fatalf("expected input and query to agree, got input=%q query=%q", m.input.Value(), b.Query())
	}

	m = press(t, m, backspace, backspace, backspace)
	if m.input.Value() != "" || b.Query() != "" {
		t.Fatalf("expected cleared input and query, got input=%q query=%q", m.input.Value(), b.Query())
	}
	if !b.PanelOpen() {
		t.Fatalf("expected panel open once the query is cleared")
	}

	m = press(t, m, enter)
	if got := b.Value(); got != form.Of("Option 1") {
		t.Fatalf("expected Option 1 picked, got %v", got)
	}
}

func TestAcceptedSubmitClearsQuery(t *testing.T) {
	m := newModel(t)
	m = press(t, m, runes("2"), enter, runes("4"), tea.KeyMsg{Type: tea.KeyCtrlS})

	if diff := cmp.Diff([]string{"Option 2"}, m.Session().Log().Values()); diff != "" {
		t.Fatalf("log mismatch (-want +got):\n%s", diff)
	}
	b := m.Session().Combobox()
	if m.input.Value() != "" || b.Query() != "" || b.PanelOpen() {
		t.Fatalf("expected cleared combobox, got input=%q query=%q open=%v", m.input.Value(), b.Query(), b.PanelOpen())
	}
}

func TestNoMatchHidesPanel(t *testing.T) {
	m := newModel(t)
	m = press(t, m, runes("zzz"))

	if m.Session().Combobox().PanelOpen() {
		t.Fatalf("expected hidden panel")
	}
	if strings.Contains(m.View(), "Option 1") {
		t.Fatalf("expected no options rendered")
	}
}

func TestListboxNavigation(t *testing.T) {
	m := newModel(t)
	m = press(t, m, tab, space)

	b := m.Session().Listbox()
	if !b.PanelOpen() {
		t.Fatalf("expected listbox open")
	}
	if active, _ := b.Active(); active.Item != "Option 1" {
		t.Fatalf("expected current value highlighted, got %q", active.Item)
	}

	m = press(t, m, down, down, enter)
	if got := b.Value(); got != form.Of("Option 3") {
		t.Fatalf("expected Option 3, got %v", got)
	}
	if b.PanelOpen() {
		t.Fatalf("expected panel closed after pick")
	}

	m = press(t, m, up)
	if active, _ := b.Active(); active.Item != "Option 2" {
		t.Fatalf("expected Option 2 active after up, got %q", active.Item)
	}
}

func TestUpdateButtonRefreshes(t *testing.T) {
	m := newModel(t)
	m = press(t, m, shiftTab)
	if m.focus != focusUpdate {
		t.Fatalf("expected update focus, got %d", m.focus)
	}
	m = press(t, m, enter)

	if got := m.Session().Listbox().Value(); got != form.Of("Option 4") {
		t.Fatalf("expected Option 4, got %v", got)
	}
	if m.Session().Options().Len() != 6 {
		t.Fatalf("expected 6 options, got %d", m.Session().Options().Len())
	}
}

func TestDisabledComboboxRefusesInput(t *testing.T) {
	m := newModel(t, session.WithSeed())
	m = press(t, m, runes("a"))

	if m.input.Value() != "" {
		t.Fatalf("expected input rejected, got %q", m.input.Value())
	}
	if m.status != "No options available" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if !strings.Contains(m.View(), "(no options)") {
		t.Fatalf("expected disabled marker in view")
	}
}

func TestQuitKey(t *testing.T) {
	m := newModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}
