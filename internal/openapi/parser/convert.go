package parser

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	pkgopenapi "github.com/goliatone/go-oasgen/pkg/openapi"
)

// convertSchemas converts a kin-openapi schema map using node (the mapping the
// schemas were declared in) to recover declaration order.
func convertSchemas(schemas openapi3.Schemas, node *yaml.Node) *pkgopenapi.Schemas {
	out := pkgopenapi.NewSchemas()
	for _, name := range orderedKeys(mappingKeys(node), schemas) {
		out.Set(name, convertSchema(schemas[name], lookup(node, name)))
	}
	return out
}

// convertSchema never follows a $ref: reference nodes keep their pointer and
// the sibling fields written next to it, which keeps recursive schemas finite.
func convertSchema(ref *openapi3.SchemaRef, node *yaml.Node) *pkgopenapi.SchemaNode {
	if ref == nil {
		return &pkgopenapi.SchemaNode{}
	}
	if ref.Ref != "" {
		return &pkgopenapi.SchemaNode{
			Ref:         ref.Ref,
			Type:        scalar(node, "type"),
			Description: scalar(node, "description"),
		}
	}
	if ref.Value == nil {
		return &pkgopenapi.SchemaNode{}
	}

	src := ref.Value
	out := &pkgopenapi.SchemaNode{
		Type:        schemaType(src.Type),
		Format:      src.Format,
		Description: src.Description,
	}
	if len(src.Properties) > 0 {
		out.Properties = convertSchemas(src.Properties, lookup(node, "properties"))
	}
	if src.Items != nil {
		out.Items = convertSchema(src.Items, lookup(node, "items"))
	}
	return out
}

// schemaType flattens the declared type list. A "null" member next to a
// concrete type (3.1 nullable form) is dropped.
func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	}
	concrete := make([]string, 0, len(values))
	for _, value := range values {
		if value == "null" {
			continue
		}
		concrete = append(concrete, value)
	}
	return strings.Join(concrete, ",")
}
