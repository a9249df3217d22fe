package openapi

import (
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// RawDocument wraps an unparsed OpenAPI payload and its origin. Loaders return
// it and parsers consume it; it never exposes kin-openapi structures.
type RawDocument struct {
	source Source
	raw    []byte
}

// NewRawDocument constructs a RawDocument wrapper while validating the inputs.
func NewRawDocument(src Source, raw []byte) (RawDocument, error) {
	if src == nil {
		return RawDocument{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return RawDocument{}, errors.New("openapi: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return RawDocument{source: src, raw: clone}, nil
}

// MustNewRawDocument panics if the document cannot be created. Useful for tests.
func MustNewRawDocument(src Source, raw []byte) RawDocument {
	doc, err := NewRawDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d RawDocument) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d RawDocument) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d RawDocument) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Schemas maps schema or property names to nodes, preserving the order in
// which they were declared in the source text.
type Schemas = orderedmap.OrderedMap[string, *SchemaNode]

// NewSchemas returns an empty ordered schema mapping.
func NewSchemas() *Schemas {
	return orderedmap.New[string, *SchemaNode]()
}

// Document is the parsed, read-only model of an OpenAPI document. Only the
// info object and the named component schemas are retained.
type Document struct {
	OpenAPI    string
	Info       Info
	Components Components

	location string
}

// Info carries the document metadata.
type Info struct {
	Title       string
	Version     string
	Description string
}

// Components holds the named schema definitions in declaration order.
type Components struct {
	Schemas *Schemas
}

// NewDocument builds an empty Document for the given location.
func NewDocument(location string) *Document {
	return &Document{
		location:   location,
		Components: Components{Schemas: NewSchemas()},
	}
}

// Location reports where the document was loaded from. It is not part of any
// template projection.
func (d *Document) Location() string {
	if d == nil {
		return ""
	}
	return d.location
}

// Schema looks up a named component schema.
func (d *Document) Schema(name string) (*SchemaNode, bool) {
	if d == nil || d.Components.Schemas == nil {
		return nil, false
	}
	return d.Components.Schemas.Get(name)
}

// SchemaCount returns the number of component schemas.
func (d *Document) SchemaCount() int {
	if d == nil || d.Components.Schemas == nil {
		return 0
	}
	return d.Components.Schemas.Len()
}

// SchemaNames returns component schema names in declaration order.
func (d *Document) SchemaNames() []string {
	if d == nil {
		return nil
	}
	return Keys(d.Components.Schemas)
}

// Keys returns the keys of an ordered schema mapping in insertion order.
func Keys(schemas *Schemas) []string {
	if schemas == nil || schemas.Len() == 0 {
		return nil
	}
	names := make([]string, 0, schemas.Len())
	for pair := schemas.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// SchemaNode is one schema definition or inline type occurrence exactly as it
// was written. Ref holds the raw $ref pointer; references are kept opaque and
// never dereferenced, so self-referential schemas are safe to hold.
type SchemaNode struct {
	Ref         string
	Type        string
	Format      string
	Description string
	Properties  *orderedmap.OrderedMap[string, *SchemaNode]
	Items       *SchemaNode
}

// IsReference reports whether the node carries a $ref pointer.
func (s *SchemaNode) IsReference() bool {
	return s != nil && s.Ref != ""
}

// PropertyCount returns the number of declared properties.
func (s *SchemaNode) PropertyCount() int {
	if s == nil || s.Properties == nil {
		return 0
	}
	return s.Properties.Len()
}

// DebugString renders the node for logging without walking children.
func (s *SchemaNode) DebugString() string {
	if s == nil {
		return "<nil>"
	}
	summary := fmt.Sprintf("type=%s", s.Type)
	if s.Ref != "" {
		summary += fmt.Sprintf(",ref=%s", s.Ref)
	}
	if n := s.PropertyCount(); n > 0 {
		summary += fmt.Sprintf(",properties=%d", n)
	}
	if s.Items != nil {
		summary += ",items=true"
	}
	return summary
}

// Severity grades a parser diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a message reported while parsing a document.
type Diagnostic struct {
	Severity Severity
	Message  string
	Pointer  string
}

func (d Diagnostic) String() string {
	if d.Pointer == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s (at %s)", d.Severity, d.Message, d.Pointer)
}
