package render

import (
	"github.com/goliatone/go-oasgen/pkg/render/template"
)

// Option customises a Binder.
type Option func(*Binder)

// WithRegistry replaces the default allow-list.
func WithRegistry(registry *Registry) Option {
	return func(b *Binder) {
		if registry != nil {
			b.registry = registry
		}
	}
}

// WithEngine swaps the template engine, by default a pongo2 engine with
// autoescape disabled.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(b *Binder) {
		if engine != nil {
			b.engine = engine
		}
	}
}
