package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	internalLoader "github.com/goliatone/go-oasgen/internal/openapi/loader"
	internalParser "github.com/goliatone/go-oasgen/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-oasgen/pkg/openapi"
	"github.com/goliatone/go-oasgen/pkg/render"
	"github.com/goliatone/go-oasgen/pkg/schema"
)

// ErrUnresolvedReferences is returned when strict reference checking is
// enabled and a local $ref names a schema the document does not define.
var ErrUnresolvedReferences = errors.New("orchestrator: unresolved references")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithRenderer injects the template renderer, by default a render.Binder
// using the default allow-list.
func WithRenderer(renderer render.Renderer) Option {
	return func(o *Orchestrator) {
		o.renderer = renderer
	}
}

// WithLogger sets the logger used for diagnostics and timing. The default
// discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithStrictReferences makes Generate fail with ErrUnresolvedReferences when
// a local reference names a missing schema. References are lenient otherwise.
func WithStrictReferences(enabled bool) Option {
	return func(o *Orchestrator) {
		o.strictRefs = enabled
	}
}

// Orchestrator runs the load, parse, trace and render steps for one document
// per call.
type Orchestrator struct {
	loader        pkgopenapi.Loader
	parser        pkgopenapi.Parser
	renderer      render.Renderer
	logger        zerolog.Logger
	strictRefs    bool
	initialiseErr error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.renderer == nil {
		binder, err := render.NewBinder()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: init renderer: %w", err)
			return
		}
		o.renderer = binder
	}
}

// Request describes one pipeline run. Exactly one of Source, Raw or Document
// is needed; the first non-nil of Document, Raw, Source wins.
type Request struct {
	// Source is loaded through the loader and then parsed.
	Source pkgopenapi.Source

	// Raw skips the loader.
	Raw *pkgopenapi.RawDocument

	// Document skips both loader and parser.
	Document *pkgopenapi.Document

	// Template is rendered against the document when not blank.
	Template string

	// Schema renders Template against a single named schema instead of the
	// whole document.
	Schema string
}

// Result holds everything a run produced. Trace is populated before the
// render step, so it stays valid when rendering fails.
type Result struct {
	Document    *pkgopenapi.Document
	Diagnostics []pkgopenapi.Diagnostic
	Trace       []string
	Unresolved  []string
	Output      string
	Elapsed     time.Duration
}

// Generate executes the pipeline. A *pkgopenapi.ParseError is returned as is
// and ends the run. A render failure returns the partial Result together with
// an error matching render.ErrTemplate.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{}

	doc, diagnostics, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Diagnostics = diagnostics
	o.logDiagnostics(doc, diagnostics)

	result.Trace = schema.TraceLines(doc)
	result.Unresolved = schema.UnresolvedReferences(doc)
	if len(result.Unresolved) > 0 {
		o.logger.Warn().
			Str("location", doc.Location()).
			Strs("references", result.Unresolved).
			Msg("unresolved schema references")
		if o.strictRefs {
			result.Elapsed = time.Since(start)
			return result, fmt.Errorf("%w: %s", ErrUnresolvedReferences, strings.Join(result.Unresolved, ", "))
		}
	}

	if strings.TrimSpace(req.Template) != "" {
		renderCtx, err := contextFor(doc, req.Schema)
		if err != nil {
			result.Elapsed = time.Since(start)
			return result, err
		}
		output, err := o.renderer.Render(req.Template, renderCtx)
		if err != nil {
			result.Elapsed = time.Since(start)
			o.logger.Error().Err(err).Dur("elapsed", result.Elapsed).Msg("render failed")
			return result, fmt.Errorf("orchestrator: render: %w", err)
		}
		result.Output = output
	}

	result.Elapsed = time.Since(start)
	o.logger.Info().
		Str("location", doc.Location()).
		Int("schemas", doc.SchemaCount()).
		Int("diagnostics", len(diagnostics)).
		Bool("rendered", result.Output != "").
		Dur("elapsed", result.Elapsed).
		Msg("pipeline complete")
	return result, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (*pkgopenapi.Document, []pkgopenapi.Diagnostic, error) {
	if req.Document != nil {
		return req.Document, nil, nil
	}

	var raw pkgopenapi.RawDocument
	switch {
	case req.Raw != nil:
		raw = *req.Raw
	case req.Source != nil:
		loaded, err := o.loader.Load(ctx, req.Source)
		if err != nil {
			return nil, nil, fmt.Errorf("orchestrator: load document: %w", err)
		}
		o.logger.Debug().
			Str("location", loaded.Location()).
			Str("kind", string(req.Source.Kind())).
			Int("bytes", len(loaded.Raw())).
			Msg("document loaded")
		raw = loaded
	default:
		return nil, nil, errors.New("orchestrator: source, raw document or document is required")
	}

	doc, diagnostics, err := o.parser.Parse(ctx, raw)
	if err != nil {
		var parseErr *pkgopenapi.ParseError
		if errors.As(err, &parseErr) {
			o.logDiagnostics(nil, parseErr.Diagnostics)
			return nil, nil, parseErr
		}
		return nil, nil, fmt.Errorf("orchestrator: parse document: %w", err)
	}
	return doc, diagnostics, nil
}

func (o *Orchestrator) logDiagnostics(doc *pkgopenapi.Document, diagnostics []pkgopenapi.Diagnostic) {
	for _, diag := range diagnostics {
		event := o.logger.Warn()
		if diag.Severity == pkgopenapi.SeverityError {
			event = o.logger.Error()
		}
		if doc != nil {
			event = event.Str("location", doc.Location())
		}
		if diag.Pointer != "" {
			event = event.Str("pointer", diag.Pointer)
		}
		event.Msg(diag.Message)
	}
}

func contextFor(doc *pkgopenapi.Document, schemaName string) (render.RenderContext, error) {
	name := strings.TrimSpace(schemaName)
	if name == "" {
		return render.NewContext(doc), nil
	}
	node, ok := doc.Schema(name)
	if !ok {
		return render.RenderContext{}, fmt.Errorf("orchestrator: schema %q not found", name)
	}
	return render.NewSchemaContext(name, node), nil
}
