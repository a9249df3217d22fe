package schema

import (
	"fmt"
	"io"

	"github.com/goliatone/go-oasgen/pkg/openapi"
)

// Trace writes a human readable description of every component schema of doc
// to w, one line per schema followed by its property or item lines.
func Trace(w io.Writer, doc *openapi.Document) error {
	for entry := range Classified(doc) {
		for _, line := range TraceEntry(doc, entry) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return fmt.Errorf("schema: write trace: %w", err)
			}
		}
	}
	return nil
}

// TraceLines collects the lines Trace would write.
func TraceLines(doc *openapi.Document) []string {
	var lines []string
	for entry := range Classified(doc) {
		lines = append(lines, TraceEntry(doc, entry)...)
	}
	return lines
}

// TraceEntry renders the trace lines of a single classified schema. doc is
// only consulted to report the declared type behind an array's item
// reference and may be nil.
func TraceEntry(doc *openapi.Document, entry Entry) []string {
	c := entry.Classification
	lines := []string{fmt.Sprintf("Schema - %s of type %s", entry.Name, c.KindName())}

	switch c.Kind {
	case KindObject:
		for _, prop := range c.Properties {
			lines = append(lines, fmt.Sprintf("Property %s of type %s. Description: %s",
				prop.Name, prop.TypeName(), prop.Description))
		}
	case KindArray:
		if c.Items != nil {
			lines = append(lines, fmt.Sprintf("of items of type of %s (%s)",
				c.Items.TypeName(), itemType(doc, *c.Items)))
		}
	}
	return lines
}

func itemType(doc *openapi.Document, items Classification) string {
	if items.Kind != KindReference {
		return items.Type
	}
	if target, ok := doc.Schema(items.ReferenceID); ok && target != nil {
		return target.Type
	}
	return items.Type
}
