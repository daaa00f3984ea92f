package template

import (
	"io"
)

// TemplateRenderer is the contract page components render through.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}

// Reloader is implemented by renderers that cache parsed templates and can
// drop that cache when sources change on disk.
type Reloader interface {
	Reload()
}
