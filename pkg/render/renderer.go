package render

import (
	"context"

	"github.com/goliatone/go-comboform/pkg/session"
)

// Renderer presents a Session and drives it until the user leaves or ctx is
// cancelled.
type Renderer interface {
	Name() string
	Run(ctx context.Context, s *session.Session) error
}
