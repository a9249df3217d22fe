// Package oasgen reads OpenAPI documents, traces their component schemas and
// renders allow-listed views of them through string templates.
//
// The root package only wires the public contracts in pkg/ to the
// implementations in internal/:
//
//	result, err := oasgen.Generate(ctx, openapi.SourceFromFile("store.yaml"),
//		"Title: {{Info.Title}}. Version: {{Info.Version}}")
package oasgen

import (
	"context"

	internalLoader "github.com/goliatone/go-oasgen/internal/openapi/loader"
	internalParser "github.com/goliatone/go-oasgen/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-oasgen/pkg/openapi"
	"github.com/goliatone/go-oasgen/pkg/orchestrator"
	"github.com/goliatone/go-oasgen/pkg/render"
)

// Result aliases orchestrator.Result for callers of the helpers below.
type Result = orchestrator.Result

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// NewBinder constructs a template binder with the default allow-list.
func NewBinder(options ...render.Option) (*render.Binder, error) {
	return render.NewBinder(options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Parse loads and parses the document behind source.
func Parse(ctx context.Context, source pkgopenapi.Source, options ...pkgopenapi.ParserOption) (*pkgopenapi.Document, []pkgopenapi.Diagnostic, error) {
	raw, err := NewLoader().Load(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	return NewParser(options...).Parse(ctx, raw)
}

// Generate runs the full pipeline for source and renders template against the
// document. A blank template only produces the trace.
func Generate(ctx context.Context, source pkgopenapi.Source, template string, options ...orchestrator.Option) (*Result, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:   source,
		Template: template,
	})
}

// GenerateFromDocument renders template against an already parsed document,
// bypassing the loader and parser stages.
func GenerateFromDocument(ctx context.Context, doc *pkgopenapi.Document, template string, options ...orchestrator.Option) (*Result, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Document: doc,
		Template: template,
	})
}
