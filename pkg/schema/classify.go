package schema

import "github.com/goliatone/go-oasgen/pkg/openapi"

// Kind is the classified shape of a schema node.
type Kind string

const (
	KindObject    Kind = "object"
	KindArray     Kind = "array"
	KindPrimitive Kind = "primitive"
	KindReference Kind = "reference"
)

// Declared type names that drive classification.
const (
	TypeObject = "object"
	TypeArray  = "array"
)

// Classification is the kind of a node plus the payload pertinent to that
// kind: ReferenceID for references, Properties for objects, Items for arrays
// and Type for primitives.
type Classification struct {
	Kind        Kind
	ReferenceID string
	Type        string
	Description string
	Properties  []Property
	Items       *Classification
}

// Property is a classified object property.
type Property struct {
	Name string
	Classification
}

// Classify maps a node to its kind. The checks run in a fixed order:
//
//   - a $ref makes the node a reference, whatever type is declared next to it
//   - type "object" with at least one property makes an object
//   - type "array" makes an array, items classified recursively
//   - anything else is a primitive carrying the declared type, which may be
//     empty
//
// A nil node classifies as a primitive with an empty type.
func Classify(node *openapi.SchemaNode) Classification {
	if node == nil {
		return Classification{Kind: KindPrimitive}
	}

	if node.Ref != "" {
		return Classification{
			Kind:        KindReference,
			ReferenceID: ResolveReference(node.Ref),
			Description: node.Description,
		}
	}

	switch {
	case node.Type == TypeObject && node.PropertyCount() > 0:
		out := Classification{
			Kind:        KindObject,
			Type:        node.Type,
			Description: node.Description,
			Properties:  make([]Property, 0, node.PropertyCount()),
		}
		for pair := node.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties = append(out.Properties, Property{
				Name:           pair.Key,
				Classification: Classify(pair.Value),
			})
		}
		return out
	case node.Type == TypeArray:
		items := Classify(node.Items)
		return Classification{
			Kind:        KindArray,
			Type:        node.Type,
			Description: node.Description,
			Items:       &items,
		}
	default:
		// Unrecognised shapes degrade to a primitive instead of failing.
		return Classification{
			Kind:        KindPrimitive,
			Type:        node.Type,
			Description: node.Description,
		}
	}
}

// TypeName is the label used when a classified node is printed as the type
// of something else: the referenced identifier for references, the declared
// type otherwise.
func (c Classification) TypeName() string {
	if c.Kind == KindReference {
		return c.ReferenceID
	}
	if c.Type != "" || c.Kind == KindPrimitive {
		return c.Type
	}
	return string(c.Kind)
}

// KindName labels a top-level schema: the kind for objects, arrays and
// references, the declared type for primitives.
func (c Classification) KindName() string {
	if c.Kind == KindPrimitive {
		return c.Type
	}
	return string(c.Kind)
}

// Property returns the named property of an object classification.
func (c Classification) Property(name string) (Property, bool) {
	for _, prop := range c.Properties {
		if prop.Name == name {
			return prop, true
		}
	}
	return Property{}, false
}
