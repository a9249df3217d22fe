package schema

import (
	"iter"

	"github.com/goliatone/go-oasgen/pkg/openapi"
)

// Walk yields every component schema of doc exactly once, in declaration
// order. The sequence is lazy and stops as soon as the consumer does; the
// document is never mutated.
func Walk(doc *openapi.Document) iter.Seq2[string, *openapi.SchemaNode] {
	return func(yield func(string, *openapi.SchemaNode) bool) {
		if doc == nil || doc.Components.Schemas == nil {
			return
		}
		for pair := doc.Components.Schemas.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Entry is a walked schema with its classification.
type Entry struct {
	Name           string
	Node           *openapi.SchemaNode
	Classification Classification
}

// Classified walks doc and classifies each schema independently.
func Classified(doc *openapi.Document) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for name, node := range Walk(doc) {
			if !yield(Entry{Name: name, Node: node, Classification: Classify(node)}) {
				return
			}
		}
	}
}
