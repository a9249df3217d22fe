package render

import (
	"errors"
	"fmt"
)

// ErrTemplate is matched by every *TemplateError through errors.Is.
var ErrTemplate = errors.New("render: template error")

// TemplateError reports a template that reads a field outside the allow-list
// or that the engine cannot parse or execute. Path, Type and Field are set
// for allow-list violations; Line is 1-based and zero when unknown.
type TemplateError struct {
	Path  string
	Type  string
	Field string
	Line  int
	Err   error
}

func (e *TemplateError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var msg string
	switch {
	case e.Field != "":
		msg = fmt.Sprintf("render: template: field %q of %s is not exposed (%s)", e.Field, e.Type, e.Path)
	case e.Err != nil:
		msg = fmt.Sprintf("render: template: %v", e.Err)
	default:
		msg = "render: template: invalid template"
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *TemplateError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is allows errors.Is(err, ErrTemplate).
func (e *TemplateError) Is(target error) bool {
	return target == ErrTemplate
}

func fieldError(line int, path, typeName, field string) *TemplateError {
	return &TemplateError{Path: path, Type: typeName, Field: field, Line: line}
}

func syntaxError(line int, format string, args ...any) *TemplateError {
	return &TemplateError{Line: line, Err: fmt.Errorf(format, args...)}
}
