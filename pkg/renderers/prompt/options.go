package prompt

import (
	"io"
	"log/slog"
)

// OutputFormat controls how the accepted values are written on quit.
type OutputFormat string

const (
	// OutputFormatJSON emits {"selected":[...]}.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits selected[]=... pairs.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one selected[i]=value line per entry.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures message prefixes the renderer applies when printing.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme returns the prefixes used when none are configured.
func DefaultTheme() Theme {
	return Theme{InfoPrefix: "✓ ", ErrorPrefix: "✗ "}
}

// Option configures the prompt renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the serialization written on quit.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithOutput sets where the accepted values are written on quit.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
