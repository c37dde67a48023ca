// Package comboform exposes the quick-start entry points: build a session
// from an OpenAPI document and serve it over HTTP.
package comboform

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/goliatone/go-comboform/pkg/renderers/web"
	"github.com/goliatone/go-comboform/pkg/schema"
	"github.com/goliatone/go-comboform/pkg/session"
)

// Session aliases session.Session for callers importing only the root package.
type Session = session.Session

// NewSession builds a session with the embedded form unless a schema option
// overrides it.
func NewSession(options ...session.Option) (*Session, error) {
	return session.New(options...)
}

// LoadForm parses an OpenAPI document (JSON or YAML) and extracts the form
// described by operationID.
func LoadForm(ctx context.Context, raw []byte, operationID string) (schema.Form, error) {
	return schema.Load(ctx, raw, operationID)
}

// NewHandler returns the HTML front-end for s. A nil s requires
// web.WithSessionFactory.
func NewHandler(s *Session, options ...web.Option) (http.Handler, error) {
	r, err := web.New(options...)
	if err != nil {
		return nil, err
	}
	return r.Handler(s), nil
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them.
func EmbeddedTemplates() fs.FS {
	return web.TemplatesFS()
}
