package web

import (
	"io"
	"log/slog"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	defaultAddr        = "127.0.0.1:8080"
	defaultCookieName  = "comboform_session"
	defaultMaxSessions = 1024
)

// Option configures the web Renderer.
type Option func(*config)

type config struct {
	addr         string
	factory      SessionFactory
	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
	logger       *slog.Logger
	cookieName   string
	maxSessions  int
	searchLimit  int
	basePath     string
}

func defaultConfig() config {
	return config{
		addr:        defaultAddr,
		selector:    NewThemeSelector(DefaultManifest()),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		cookieName:  defaultCookieName,
		maxSessions: defaultMaxSessions,
	}
}

// WithAddr sets the listen address used by Run.
func WithAddr(addr string) Option {
	return func(c *config) {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			c.addr = trimmed
		}
	}
}

// WithSessionFactory gives every browser its own Session. Without it all
// browsers share the Session passed to Run.
func WithSessionFactory(factory SessionFactory) Option {
	return func(c *config) {
		c.factory = factory
	}
}

// WithThemeSelector replaces the built-in theme selector.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(c *config) {
		if selector != nil {
			c.selector = selector
		}
	}
}

// WithTheme picks the theme name and variant.
func WithTheme(name, variant string) Option {
	return func(c *config) {
		c.themeName = strings.TrimSpace(name)
		c.themeVariant = strings.TrimSpace(variant)
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) Option {
	return func(c *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			c.cookieName = trimmed
		}
	}
}

// WithMaxSessions caps live browser sessions; the least recently seen is
// evicted first.
func WithMaxSessions(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxSessions = n
		}
	}
}

// WithSearchLimit sets the default result count of the options endpoint.
func WithSearchLimit(limit int) Option {
	return func(c *config) {
		c.searchLimit = limit
	}
}

// WithBasePath sets the prefix used in links and redirects when the handler
// is mounted below the root, for example behind http.StripPrefix.
func WithBasePath(prefix string) Option {
	return func(c *config) {
		c.basePath = strings.TrimRight(strings.TrimSpace(prefix), "/")
	}
}
