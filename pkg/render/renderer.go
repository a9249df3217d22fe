package render

import (
	"io"
)

// Renderer renders a template source against a RenderContext. The returned
// text is also copied to every writer in out.
type Renderer interface {
	Render(source string, ctx RenderContext, out ...io.Writer) (string, error)
}
