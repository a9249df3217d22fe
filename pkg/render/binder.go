package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-oasgen/pkg/render/template"
	"github.com/goliatone/go-oasgen/pkg/render/template/gotemplate"
)

// Binder checks templates against the allow-list and renders them through a
// template engine.
type Binder struct {
	registry *Registry
	engine   template.TemplateRenderer
}

var _ Renderer = (*Binder)(nil)

// NewBinder constructs a Binder. Without options it uses DefaultRegistry and a
// pongo2 engine.
func NewBinder(options ...Option) (*Binder, error) {
	b := &Binder{registry: DefaultRegistry()}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	if b.engine == nil {
		engine, err := gotemplate.New()
		if err != nil {
			return nil, fmt.Errorf("render: create engine: %w", err)
		}
		b.engine = engine
	}
	return b, nil
}

// Registry returns the allow-list the binder checks against.
func (b *Binder) Registry() *Registry {
	return b.registry
}

// Engine exposes the underlying engine, e.g. to register filters.
func (b *Binder) Engine() template.TemplateRenderer {
	return b.engine
}

// Check validates source for a context rooted at rootType without rendering.
func (b *Binder) Check(source, rootType string) error {
	return Check(b.registry, rootType, source)
}

// Render checks source against the allow-list and renders it against ctx.
// Template failures are reported as a *TemplateError.
func (b *Binder) Render(source string, ctx RenderContext, out ...io.Writer) (string, error) {
	if ctx.Root() == "" {
		return "", errors.New("render: context is empty")
	}
	if err := b.Check(source, ctx.Root()); err != nil {
		return "", err
	}

	rendered, err := b.engine.RenderString(source, ctx.Data())
	if err != nil {
		return "", &TemplateError{Err: err}
	}
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", fmt.Errorf("render: write output: %w", err)
		}
	}
	return rendered, nil
}
