package openapi

import (
	"errors"
	"fmt"
)

// ErrParse matches every *ParseError through errors.Is.
var ErrParse = errors.New("openapi: parse error")

// ParseError reports a document that is not well-formed OpenAPI: malformed
// syntax, an unknown version, or missing required top-level fields. It is
// fatal to the invocation and carries the parser diagnostics verbatim.
type ParseError struct {
	Location    string
	Diagnostics []Diagnostic
	Err         error
}

// NewParseError wraps err and records it as an error diagnostic.
func NewParseError(location string, err error, diagnostics ...Diagnostic) *ParseError {
	out := &ParseError{Location: location, Err: err}
	out.Diagnostics = append(out.Diagnostics, diagnostics...)
	if err != nil {
		out.Diagnostics = append(out.Diagnostics, Diagnostic{
			Severity: SeverityError,
			Message:  err.Error(),
		})
	}
	return out
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Location == "" {
		return fmt.Sprintf("openapi: parse document: %v", e.Err)
	}
	return fmt.Sprintf("openapi: parse %s: %v", e.Location, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is(err, ErrParse) match any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
