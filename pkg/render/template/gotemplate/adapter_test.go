package gotemplate_test

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-comboform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-comboform/pkg/testsupport"
)

func templateFiles(filter string) fstest.MapFS {
	return fstest.MapFS{
		"hello.html":      {Data: []byte("Hello {{ name }}")},
		"use-global.html": {Data: []byte("{{ base }}/ env={{ settings.env }}")},
		"use-filter.html": {Data: []byte("{{ name|" + filter + " }}")},
		"badge.html":      {Data: []byte("{{ label|initials }}")},
		"items.html":      {Data: []byte("{% for item in items %}{{ item.label }};{% endfor %}")},
		"page.tpl":        {Data: []byte("tpl {{ name }}")},
	}
}

func newEngine(t *testing.T, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	options = append([]gotemplate.Option{gotemplate.WithFS(templateFiles("upper"))}, options...)
	engine, err := gotemplate.New(options...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngineRenderWritesOutput(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.Render("hello", map[string]any{"name": "Ada"}, w)
	})
	if result != "Hello Ada" || written != "Hello Ada" {
		t.Fatalf("unexpected output %q / %q", result, written)
	}
}

func TestEngineRenderKeepsExplicitExtension(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Render("page.tpl", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "tpl Ada" {
		t.Fatalf("unexpected output %q", result)
	}
	if _, err := engine.Render("missing", nil); err == nil {
		t.Fatalf("expected missing template to fail")
	}
}

func TestEngineGlobals(t *testing.T) {
	type settings struct {
		Env string `json:"env"`
	}
	engine := newEngine(t, gotemplate.WithGlobals(map[string]any{
		"base":     "/fruit",
		"settings": settings{Env: "staging"},
		" ":        "ignored",
	}))

	result, err := engine.Render("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "/fruit/ env=staging" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEngineWithFilter(t *testing.T) {
	name := "shout_" + strings.ReplaceAll(t.Name(), "/", "_")
	shout := func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	}
	whisper := func(input any, _ any) (any, error) {
		return strings.ToLower(fmt.Sprint(input)), nil
	}

	first, err := gotemplate.New(gotemplate.WithFS(templateFiles(name)), gotemplate.WithFilter(name, shout))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	second, err := gotemplate.New(gotemplate.WithFS(templateFiles(name)), gotemplate.WithFilter(name, whisper))
	if err != nil {
		t.Fatalf("second engine: %v", err)
	}

	for _, engine := range []*gotemplate.Engine{first, second} {
		result, err := engine.Render("use-filter", map[string]any{"name": "Ada"})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if result != "ADA!" {
			t.Fatalf("unexpected output %q", result)
		}
	}
}

func TestEngineFilterError(t *testing.T) {
	name := "fail_" + strings.ReplaceAll(t.Name(), "/", "_")
	engine, err := gotemplate.New(
		gotemplate.WithFS(templateFiles(name)),
		gotemplate.WithFilter(name, func(any, any) (any, error) { return nil, fmt.Errorf("nope") }),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.Render("use-filter", map[string]any{"name": "Ada"}); err == nil {
		t.Fatalf("expected filter error to fail the render")
	}
}

func TestEngineStructData(t *testing.T) {
	engine := newEngine(t)
	type item struct {
		Label string `json:"label"`
	}
	data := struct {
		Items []item `json:"items"`
	}{Items: []item{{Label: "Option 1"}, {Label: "Option 2"}}}

	result, err := engine.Render("items", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Option 1;Option 2;" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEngineInitialsFilter(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Render("badge", map[string]any{"label": "New option"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "No" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without template source")
	}
}
