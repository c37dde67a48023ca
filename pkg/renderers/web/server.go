// Package web serves the comboform as an HTML page. Every interaction is a
// plain form post followed by a 303 redirect, so the page works without
// JavaScript. JSON endpoints expose option search and the accepted values.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/schema"

	"github.com/goliatone/go-comboform/components/optsearch"
	"github.com/goliatone/go-comboform/pkg/binding"
	"github.com/goliatone/go-comboform/pkg/form"
	"github.com/goliatone/go-comboform/pkg/render"
	"github.com/goliatone/go-comboform/pkg/render/template"
	"github.com/goliatone/go-comboform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-comboform/pkg/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer implements render.Renderer as an HTTP server.
type Renderer struct {
	cfg     config
	engine  template.TemplateRenderer
	decoder *schema.Decoder
	logger  *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New parses the embedded templates and resolves the theme.
func New(options ...Option) (*Renderer, error) {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	selection, err := cfg.selector.Select(cfg.themeName, cfg.themeVariant)
	if err != nil {
		return nil, fmt.Errorf("web: select theme: %w", err)
	}
	th := themeData{Name: selection.Theme, Variant: selection.Variant}
	if rc := RendererConfig(selection); rc != nil {
		th.CSS = cssVarsStyle(rc.CSSVars)
	}

	engine, err := gotemplate.New(
		gotemplate.WithFS(TemplatesFS()),
		gotemplate.WithGlobals(map[string]any{
			"base":  cfg.basePath,
			"theme": th,
		}),
		gotemplate.WithFilter("sanitize", func(input any, _ any) (any, error) {
			return sanitizeLabel(fmt.Sprint(input)), nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("web: template engine: %w", err)
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &Renderer{
		cfg:     cfg,
		engine:  engine,
		decoder: decoder,
		logger:  cfg.logger,
	}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "web"
}

// Run serves until ctx is cancelled, then shuts the server down.
func (r *Renderer) Run(ctx context.Context, s *session.Session) error {
	srv := &http.Server{
		Addr:              r.cfg.addr,
		Handler:           r.Handler(s),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("web server listening", "addr", r.cfg.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("web: shutdown: %w", err)
		}
		r.logger.Info("web server stopped")
		return nil
	}
}

// Handler returns the routes. Without a session factory every request uses
// shared.
func (r *Renderer) Handler(shared *session.Session) http.Handler {
	h := &handler{
		renderer: r,
		sessions: newSessionStore(r.cfg.factory, shared, r.cfg.cookieName, r.cfg.maxSessions),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.page)
	mux.HandleFunc("POST /pick", h.pick)
	mux.HandleFunc("POST /submit", h.submit)
	mux.HandleFunc("POST /refresh", h.refresh)
	mux.HandleFunc("GET /api/selections", h.selections)
	mux.HandleFunc("GET /api/session", h.snapshot)

	search := optsearch.New(
		optsearch.WithDefaultLimit(r.cfg.searchLimit),
		optsearch.WithSource(h.optionSource),
	)
	if _, err := search.RegisterRoutes(mux, "/"); err != nil {
		r.logger.Error("register option search", "error", err)
	}
	return mux
}

type handler struct {
	renderer *Renderer
	sessions *sessionStore
}

type pickForm struct {
	Field string `schema:"field"`
	Value string `schema:"value"`
	Query string `schema:"q"`
}

type submitForm struct {
	Selection string `schema:"selection"`
}

func (h *handler) page(w http.ResponseWriter, r *http.Request) {
	e, ok := h.resolve(w, r)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if query, present := r.URL.Query()["q"]; present && len(query) > 0 {
		if err := s.Combobox().SetQuery(query[0]); err != nil {
			e.addFlash(bindingMessage(err))
		}
	}

	var buf bytes.Buffer
	data := buildPage(s, e.takeFlash())
	if _, err := h.renderer.engine.Render("page", data, &buf); err != nil {
		h.renderer.logger.Error("render page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *handler) pick(w http.ResponseWriter, r *http.Request) {
	var in pickForm
	if !h.decode(w, r, &in) {
		return
	}
	e, ok := h.resolve(w, r)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	var target *binding.Binding
	switch in.Field {
	case s.Combobox().Name():
		target = s.Combobox()
		if in.Query != "" {
			if err := target.SetQuery(in.Query); err != nil {
				e.addFlash(bindingMessage(err))
				h.redirect(w, r)
				return
			}
		}
	case s.Listbox().Name():
		target = s.Listbox()
	default:
		http.Error(w, "unknown field", http.StatusBadRequest)
		return
	}

	if err := target.Pick(in.Value); err != nil {
		e.addFlash(bindingMessage(err))
	}
	h.redirect(w, r)
}

func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	var in submitForm
	if !h.decode(w, r, &in) {
		return
	}
	e, ok := h.resolve(w, r)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if in.Selection != "" && (!s.Listbox().Value().Present() || s.Listbox().Value().Text() != in.Selection) {
		if err := s.Listbox().Pick(in.Selection); err != nil {
			e.addFlash(bindingMessage(err))
		}
	}

	record, err := s.Submit()
	switch {
	case err == nil:
		e.addFlash(fmt.Sprintf("Accepted %s", record[s.Combobox().Name()]))
	case errors.Is(err, form.ErrInvalid):
		// Field errors render inline.
	default:
		for _, msg := range render.MapError(s.Form().Schema(), err).Form {
			e.addFlash(msg)
		}
	}
	h.redirect(w, r)
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	e, ok := h.resolve(w, r)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.session.Refresh(); err != nil {
		h.renderer.logger.Error("refresh", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.redirect(w, r)
}

func (h *handler) selections(w http.ResponseWriter, r *http.Request) {
	e, ok := h.peek(w, r)
	if !ok {
		return
	}
	e.mu.Lock()
	values := e.session.Log().Values()
	e.mu.Unlock()

	writeJSON(w, map[string][]string{"data": values})
}

func (h *handler) snapshot(w http.ResponseWriter, r *http.Request) {
	e, ok := h.peek(w, r)
	if !ok {
		return
	}
	e.mu.Lock()
	snap := e.session.Snapshot()
	e.mu.Unlock()

	writeJSON(w, snap)
}

func (h *handler) optionSource(r *http.Request) ([]string, error) {
	e, err := h.sessions.peek(r)
	if err != nil {
		return nil, optsearch.StatusError{Code: http.StatusInternalServerError, Err: err}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Options().Values(), nil
}

func (h *handler) resolve(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	e, err := h.sessions.resolve(w, r)
	if err != nil {
		h.renderer.logger.Error("create session", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	return e, true
}

func (h *handler) peek(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	e, err := h.sessions.peek(r)
	if err != nil {
		h.renderer.logger.Error("create session", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	return e, true
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}
	if err := h.renderer.decoder.Decode(dst, r.PostForm); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}
	return true
}

func bindingMessage(err error) string {
	switch {
	case errors.Is(err, binding.ErrDisabled):
		return "No options available"
	case errors.Is(err, binding.ErrNotAvailable):
		return "Option not available"
	default:
		return err.Error()
	}
}

func (h *handler) redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.renderer.cfg.basePath+"/", http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}

// TemplatesFS returns the embedded page templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return templatesFS
	}
	return sub
}
