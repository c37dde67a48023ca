package template

import (
	"io"
)

// TemplateRenderer is the seam the HTML front-end renders pages through.
// Output is returned and, when writers are given, copied to each of them.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}
