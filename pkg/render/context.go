package render

import (
	"github.com/goliatone/go-oasgen/pkg/openapi"
	"github.com/goliatone/go-oasgen/pkg/schema"
)

// Registered type names of the document view.
const (
	TypeDocument   = "Document"
	TypeInfo       = "Info"
	TypeComponents = "Components"
	TypeSchema     = "Schema"
	TypeString     = "string"
)

var defaultRegistry = newDefaultRegistry()

// DefaultRegistry returns the allow-list for the document view, populated at
// process start. The document location and parser diagnostics are not
// exposed.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(TypeDocument,
		Field{Name: "OpenAPI", Type: TypeString},
		Field{Name: "Info", Type: TypeInfo},
		Field{Name: "Components", Type: TypeComponents},
	)
	r.MustRegister(TypeInfo,
		Field{Name: "Title", Type: TypeString},
		Field{Name: "Version", Type: TypeString},
		Field{Name: "Description", Type: TypeString},
	)
	r.MustRegister(TypeComponents,
		Field{Name: "Schemas", Type: TypeSchema, List: true},
	)
	r.MustRegister(TypeSchema,
		Field{Name: "Name", Type: TypeString},
		Field{Name: "Kind", Type: TypeString},
		Field{Name: "ReferenceID", Type: TypeString},
		Field{Name: "Type", Type: TypeString},
		Field{Name: "TypeName", Type: TypeString},
		Field{Name: "Description", Type: TypeString},
		Field{Name: "Properties", Type: TypeSchema, List: true},
		Field{Name: "Items", Type: TypeSchema},
	)
	return r
}

// RenderContext is the data a template is rendered against: a fixed mapping
// built ahead of rendering plus the registered type of its root.
type RenderContext struct {
	root string
	data map[string]any
}

// NewContext projects doc into a context rooted at Document, so templates
// address `Info.Title` or `Components.Schemas`.
func NewContext(doc *openapi.Document) RenderContext {
	return RenderContext{root: TypeDocument, data: projectDocument(doc)}
}

// NewSchemaContext projects a single schema into a context rooted at Schema,
// so templates address `Name` or `Properties` directly.
func NewSchemaContext(name string, node *openapi.SchemaNode) RenderContext {
	return RenderContext{root: TypeSchema, data: projectSchema(name, schema.Classify(node))}
}

// Root returns the registered type the context data is shaped as.
func (c RenderContext) Root() string {
	return c.root
}

// Data returns the projected values. Callers must not mutate the result.
func (c RenderContext) Data() map[string]any {
	return c.data
}

func projectDocument(doc *openapi.Document) map[string]any {
	if doc == nil {
		doc = &openapi.Document{}
	}
	return map[string]any{
		"OpenAPI":    doc.OpenAPI,
		"Info":       projectInfo(doc.Info),
		"Components": projectComponents(doc),
	}
}

func projectInfo(info openapi.Info) map[string]any {
	return map[string]any{
		"Title":       info.Title,
		"Version":     info.Version,
		"Description": info.Description,
	}
}

func projectComponents(doc *openapi.Document) map[string]any {
	schemas := []any{}
	for entry := range schema.Classified(doc) {
		schemas = append(schemas, projectSchema(entry.Name, entry.Classification))
	}
	return map[string]any{"Schemas": schemas}
}

// projectSchema flattens a classification. Items is only present for arrays.
func projectSchema(name string, c schema.Classification) map[string]any {
	properties := make([]any, 0, len(c.Properties))
	for _, prop := range c.Properties {
		properties = append(properties, projectSchema(prop.Name, prop.Classification))
	}

	out := map[string]any{
		"Name":        name,
		"Kind":        string(c.Kind),
		"ReferenceID": c.ReferenceID,
		"Type":        c.Type,
		"TypeName":    c.TypeName(),
		"Description": c.Description,
		"Properties":  properties,
	}
	if c.Items != nil {
		out["Items"] = projectSchema("", *c.Items)
	}
	return out
}
