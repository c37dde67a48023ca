// Package gotemplate renders the comboform HTML templates with pongo2.
//
// Template data is converted through JSON, so templates address values by
// their json tags.
package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-comboform/pkg/render/template"
)

const defaultExtension = ".html"

var filterMu sync.Mutex

// Filter transforms a template value. param is nil when the template passes
// no argument.
type Filter func(input any, param any) (any, error)

// Option configures the Engine before construction.
type Option func(*config)

type config struct {
	templates fs.FS
	globals   map[string]any
	filters   map[string]Filter
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithGlobals exposes values to every template. Later calls override earlier
// keys.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		for key, value := range data {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if cfg.globals == nil {
				cfg.globals = make(map[string]any, len(data))
			}
			cfg.globals[key] = value
		}
	}
}

// WithFilter registers a filter when the engine is built. pongo2 filters are
// process-wide: a name that is already registered keeps its first function.
func WithFilter(name string, fn Filter) Option {
	return func(cfg *config) {
		name = strings.TrimSpace(name)
		if name == "" || fn == nil {
			return
		}
		if cfg.filters == nil {
			cfg.filters = make(map[string]Filter)
		}
		cfg.filters[name] = fn
	}
}

// Engine renders named templates from a pongo2 template set. Parsed
// templates are cached by path.
type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine. WithFS is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.templates == nil {
		return nil, errors.New("gotemplate: template fs.FS is required")
	}

	filterMu.Lock()
	registerBuiltinFilters()
	for name, fn := range cfg.filters {
		if err := registerFilter(name, fn); err != nil {
			filterMu.Unlock()
			return nil, err
		}
	}
	filterMu.Unlock()

	set := pongo2.NewSet("comboform", pongo2.NewFSLoader(cfg.templates))
	if len(cfg.globals) > 0 {
		globals, err := toContext(cfg.globals)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: convert globals: %w", err)
		}
		if set.Globals == nil {
			set.Globals = pongo2.Context{}
		}
		set.Globals.Update(globals)
	}

	return &Engine{
		set:       set,
		templates: make(map[string]*pongo2.Template),
	}, nil
}

// Render executes the named template, appending ".html" when name has no
// extension. The output is returned and copied to every writer in out.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	templatePath := name
	if path.Ext(templatePath) == "" {
		templatePath += defaultExtension
	}

	tmpl, err := e.lookup(templatePath)
	if err != nil {
		return "", err
	}
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", templatePath, err)
	}
	for _, w := range out {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func (e *Engine) lookup(templatePath string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[templatePath]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[templatePath]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", templatePath, err)
	}
	e.templates[templatePath] = tmpl
	return tmpl, nil
}

func registerFilter(name string, fn Filter) error {
	if pongo2.FilterExists(name) {
		return nil
	}
	err := pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
	if err != nil {
		return fmt.Errorf("gotemplate: register filter %q: %w", name, err)
	}
	return nil
}

func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	ctx := pongo2.Context{}
	if err := json.Unmarshal(raw, &ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

func registerBuiltinFilters() {
	if !pongo2.FilterExists("initials") {
		_ = pongo2.RegisterFilter("initials", filterInitials)
	}
}

// filterInitials turns "Option 12" into "O1", used for compact badges.
func filterInitials(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	var b strings.Builder
	for _, word := range strings.Fields(in.String()) {
		for _, r := range word {
			b.WriteRune(r)
			break
		}
	}
	return pongo2.AsValue(b.String()), nil
}
