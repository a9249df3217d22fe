package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-oasgen/pkg/openapi"
)

// validate resolves local references and runs kin-openapi validation. Every
// finding is downgraded to a warning: the document stays usable and $ref
// existence is left to whoever consumes the classified output.
func validate(ctx context.Context, spec *openapi3.T) (diagnostics []pkgopenapi.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			diagnostics = append(diagnostics, warning(fmt.Sprintf("validation aborted: %v", r)))
		}
	}()

	loader := openapi3.NewLoader()
	loader.Context = ctx
	if err := loader.ResolveRefsIn(spec, nil); err != nil {
		return append(diagnostics, warning("resolve references: "+err.Error()))
	}

	err := spec.Validate(ctx, openapi3.DisableExamplesValidation())
	for _, item := range flatten(err) {
		diagnostics = append(diagnostics, warning(item.Error()))
	}
	return diagnostics
}

func flatten(err error) []error {
	if err == nil {
		return nil
	}
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []error
		for _, item := range multi {
			out = append(out, flatten(item)...)
		}
		return out
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, item := range joined.Unwrap() {
			out = append(out, flatten(item)...)
		}
		return out
	}
	return []error{err}
}

func warning(message string) pkgopenapi.Diagnostic {
	return pkgopenapi.Diagnostic{
		Severity: pkgopenapi.SeverityWarning,
		Message:  message,
	}
}
