package openapi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSchemaNodeNestedProperties(t *testing.T) {
	address := &SchemaNode{Type: "object", Properties: NewSchemas()}
	address.Properties.Set("street", &SchemaNode{Type: "string"})
	address.Properties.Set("city", &SchemaNode{Type: "string"})

	owner := &SchemaNode{Type: "object", Properties: NewSchemas()}
	owner.Properties.Set("name", &SchemaNode{Type: "string"})
	owner.Properties.Set("address", address)

	doc := NewDocument("memory")
	doc.Components.Schemas.Set("Owner", owner)

	if got := doc.SchemaCount(); got != 1 {
		t.Fatalf("expected 1 schema, got %d", got)
	}
	node, ok := doc.Schema("Owner")
	if !ok {
		t.Fatalf("expected Owner schema")
	}
	if diff := cmp.Diff([]string{"name", "address"}, Keys(node.Properties)); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}

	nested, _ := node.Properties.Get("address")
	if diff := cmp.Diff([]string{"street", "city"}, Keys(nested.Properties)); diff != "" {
		t.Fatalf("nested property order mismatch (-want +got):\n%s", diff)
	}
	if got := nested.DebugString(); got != "type=object,properties=2" {
		t.Fatalf("unexpected debug string %q", got)
	}
}

func TestDocumentNilSafe(t *testing.T) {
	var doc *Document
	if doc.SchemaCount() != 0 || doc.SchemaNames() != nil || doc.Location() != "" {
		t.Fatalf("nil document should report nothing")
	}
	if _, ok := doc.Schema("Pet"); ok {
		t.Fatalf("nil document should not find schemas")
	}
}
