package schema

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault_DeclaresComboboxAndListbox(t *testing.T) {
	form, err := Default()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}

	if diff := cmp.Diff([]string{"option", "selection"}, form.Names()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	option, ok := form.ByWidget(WidgetCombobox)
	if !ok || option.Name != "option" {
		t.Fatalf("expected option bound to combobox, got %+v", option)
	}
	want := Field{
		Name:          "option",
		Label:         "Options",
		Placeholder:   "Choose or search an option",
		Widget:        WidgetCombobox,
		Required:      true,
		MinLength:     1,
		Message:       "Too short!",
		ResetOnSubmit: true,
		Order:         1,
	}
	if diff := cmp.Diff(want, option); diff != "" {
		t.Fatalf("option field mismatch (-want +got):\n%s", diff)
	}

	selection, ok := form.Field("selection")
	if !ok || selection.Widget != WidgetListbox || selection.ResetOnSubmit {
		t.Fatalf("unexpected selection field: %+v", selection)
	}
}

func TestField_Validate(t *testing.T) {
	field := MustDefault().Fields[0]

	cases := []struct {
		name    string
		value   string
		present bool
		valid   bool
	}{
		{name: "absent", present: false},
		{name: "empty", value: "", present: true},
		{name: "whitespace", value: "   ", present: true},
		{name: "value", value: "Option 1", present: true, valid: true},
		{name: "padded", value: " x ", present: true, valid: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := field.Validate(tc.value, tc.present)
			if tc.valid {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Message != "Too short!" || verr.Field != "option" {
				t.Fatalf("unexpected validation error: %+v", verr)
			}
		})
	}
}

func TestField_ValidateNullable(t *testing.T) {
	field := Field{Name: "note", Nullable: true, MinLength: 2}
	if err := field.Validate("", false); err != nil {
		t.Fatalf("expected absent nullable value to pass, got %v", err)
	}
	if err := field.Validate("a", true); err == nil {
		t.Fatalf("expected min length failure")
	}
}

func TestLoad_MissingOperation(t *testing.T) {
	_, err := LoadSource(context.Background(), SourceFromFS(defaultFS, "form.yaml"), "nope")
	if !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
}

func TestLoad_EmptyPayload(t *testing.T) {
	if _, err := Load(context.Background(), nil, DefaultOperationID); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestLoad_JSONDocumentDefaults(t *testing.T) {
	raw := []byte(`{
	  "openapi": "3.0.3",
	  "info": {"title": "t", "version": "1"},
	  "paths": {
	    "/x": {
	      "post": {
	        "operationId": "pick",
	        "requestBody": {"content": {"application/json": {"schema": {
	          "type": "object",
	          "properties": {"color": {"type": "string"}}
	        }}}},
	        "responses": {"204": {"description": "ok"}}
	      }
	    }
	  }
	}`)

	form, err := Load(context.Background(), raw, "pick")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	field, ok := form.Field("color")
	if !ok {
		t.Fatalf("expected color field")
	}
	if field.Label != "color" || field.Widget != "" || field.Message != "" {
		t.Fatalf("unexpected defaults: %+v", field)
	}
	if err := field.Validate("", true); err != nil {
		t.Fatalf("optional field without min length should accept empty, got %v", err)
	}
}

func TestLoadSource_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	raw, err := defaultFS.ReadFile("form.yaml")
	if err != nil {
		t.Fatalf("read embedded: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	form, err := LoadSource(context.Background(), SourceFromFile(path), DefaultOperationID)
	if err != nil {
		t.Fatalf("load source: %v", err)
	}
	if diff := cmp.Diff([]string{"option", "selection"}, form.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestReadDocument_Errors(t *testing.T) {
	if _, err := ReadDocument(nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
	_, err := ReadDocument(SourceFromFile(filepath.Join(t.TempDir(), "missing.yaml")))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	doc, err := ReadDocument(SourceFromFS(defaultFS, "form.yaml"))
	if err != nil {
		t.Fatalf("read fs document: %v", err)
	}
	if doc.Location() != "form.yaml" || doc.Source().Kind() != SourceKindFS || len(doc.Raw()) == 0 {
		t.Fatalf("unexpected document %q %q", doc.Location(), doc.Source().Kind())
	}
}
