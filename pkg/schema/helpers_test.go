package schema

import "github.com/goliatone/go-oasgen/pkg/openapi"

type namedNode struct {
	name string
	node *openapi.SchemaNode
}

func prop(name string, node *openapi.SchemaNode) namedNode {
	return namedNode{name: name, node: node}
}

func object(props ...namedNode) *openapi.SchemaNode {
	node := &openapi.SchemaNode{Type: TypeObject, Properties: openapi.NewSchemas()}
	for _, p := range props {
		node.Properties.Set(p.name, p.node)
	}
	return node
}

func ref(target string) *openapi.SchemaNode {
	return &openapi.SchemaNode{Ref: "#/components/schemas/" + target}
}

func primitive(typ string) *openapi.SchemaNode {
	return &openapi.SchemaNode{Type: typ}
}

func arrayOf(items *openapi.SchemaNode) *openapi.SchemaNode {
	return &openapi.SchemaNode{Type: TypeArray, Items: items}
}

func document(schemas ...namedNode) *openapi.Document {
	doc := openapi.NewDocument("test.yaml")
	doc.Info = openapi.Info{Title: "Store API", Version: "1.0.0"}
	for _, s := range schemas {
		doc.Components.Schemas.Set(s.name, s.node)
	}
	return doc
}
