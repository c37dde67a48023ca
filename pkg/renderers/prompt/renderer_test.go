package prompt

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-comboform/pkg/session"
	"github.com/goliatone/go-comboform/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	infoMessages []string
	selects      []SelectConfig
	inputPos     int
	selectPos    int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	return false, errors.New("no confirm scripted")
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestRunPickSubmitAndQuit(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"2"},
		selectIdx: []int{
			int(actionOption), 0, // pick the only match for "2"
			int(actionSubmit),
			int(actionQuit),
		},
	}
	var out bytes.Buffer
	r := New(WithPromptDriver(driver), WithOutput(&out))
	s := testsupport.NewSession(t)

	if err := r.Run(testsupport.Context(), s); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := out.String(); got != "{\"selected\":[\"Option 2\"]}\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if diff := cmp.Diff([]string{"Option 2"}, driver.selects[1].Options); diff != "" {
		t.Fatalf("filtered options mismatch (-want +got):\n%s", diff)
	}
	want := []string{"Option 1", "Option 3", "Option 4", "Option 5"}
	if diff := cmp.Diff(want, s.Options().Values()); diff != "" {
		t.Fatalf("store mismatch (-want +got):\n%s", diff)
	}
	menu := driver.selects[len(driver.selects)-1].Options
	if !strings.Contains(menu[0], "[Too short!]") {
		t.Fatalf("expected reset field error in menu, got %q", menu[0])
	}
}

func TestRunReportsValidationErrors(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{int(actionSubmit), int(actionQuit)},
	}
	var out bytes.Buffer
	r := New(WithPromptDriver(driver), WithOutput(&out), WithTheme(Theme{ErrorPrefix: "! "}))

	if err := r.Run(testsupport.Context(), testsupport.NewSession(t)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff([]string{"! Options: Too short!"}, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if got := out.String(); got != "{\"selected\":[]}\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRunNoMatches(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"zzz"},
		selectIdx: []int{int(actionOption), int(actionQuit)},
	}
	r := New(WithPromptDriver(driver), WithOutput(&bytes.Buffer{}))

	if err := r.Run(testsupport.Context(), testsupport.NewSession(t)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff([]string{"No matches"}, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRunRefreshAndSelectionDefault(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{
			int(actionRefresh),
			int(actionSelection), 4,
			int(actionQuit),
		},
	}
	r := New(WithPromptDriver(driver), WithOutput(&bytes.Buffer{}))
	s := testsupport.NewSession(t)

	if err := r.Run(testsupport.Context(), s); err != nil {
		t.Fatalf("run: %v", err)
	}

	listPrompt := driver.selects[2]
	if listPrompt.DefaultIndex != 3 {
		t.Fatalf("expected listbox default on Option 4, got %d", listPrompt.DefaultIndex)
	}
	if len(listPrompt.Options) != 6 {
		t.Fatalf("expected 6 options after refresh, got %v", listPrompt.Options)
	}
	if got := s.Listbox().Value().Text(); got != "Option 5" {
		t.Fatalf("expected Option 5 picked, got %q", got)
	}
}

func TestRunDisabledCombobox(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{int(actionOption), int(actionQuit)},
	}
	r := New(WithPromptDriver(driver), WithOutput(&bytes.Buffer{}), WithTheme(Theme{}))

	if err := r.Run(testsupport.Context(), testsupport.NewSession(t, session.WithSeed())); err != nil {
		t.Fatalf("run: %v", err)
	}
	if driver.inputPos != 0 {
		t.Fatalf("expected no query prompt for disabled combobox")
	}
	if diff := cmp.Diff([]string{"No options available"}, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAbortPropagates(t *testing.T) {
	r := New(WithPromptDriver(&abortDriver{}), WithOutput(&bytes.Buffer{}))
	if err := r.Run(testsupport.Context(), testsupport.NewSession(t)); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

type abortDriver struct{ stubDriver }

func (abortDriver) Select(context.Context, SelectConfig) (int, error) { return 0, ErrAborted }

func TestSerializeFormats(t *testing.T) {
	selected := []string{"Option 2", "Option 4"}

	for _, format := range []OutputFormat{OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText} {
		got, err := Serialize(format, selected)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		testsupport.AssertGolden(t, filepath.Join("testdata", "selected."+string(format)+".golden"), got)
	}
	if _, err := Serialize("xml", selected); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
