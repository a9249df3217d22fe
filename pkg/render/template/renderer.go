package template

import (
	"io"
)

// TemplateRenderer is the contract the binder renders through. Implementations
// must treat the data argument as read-only.
type TemplateRenderer interface {
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
}
