package openapi

import "context"

// Parser turns raw document text into a Document plus diagnostics. A
// *ParseError is returned when the text is not a well-formed OpenAPI document;
// non-fatal findings are returned as warning diagnostics alongside the
// document.
type Parser interface {
	Parse(ctx context.Context, doc RawDocument) (*Document, []Diagnostic, error)
}

// ParserOptions exposes parser toggles.
type ParserOptions struct {
	// Validate runs structural validation after decoding and reports the
	// findings as warnings. Defaults to true.
	Validate bool

	// AllowSwagger2 accepts `swagger: "2.0"` documents by converting their
	// definitions into component schemas. Defaults to true.
	AllowSwagger2 bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithValidation toggles post-decode validation.
func WithValidation(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.Validate = enabled
	}
}

// WithSwagger2 toggles Swagger 2.0 support.
func WithSwagger2(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowSwagger2 = enabled
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		Validate:      true,
		AllowSwagger2: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}
