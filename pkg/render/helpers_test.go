package render

import (
	"testing"

	"github.com/goliatone/go-oasgen/pkg/openapi"
)

func storeDocument() *openapi.Document {
	doc := openapi.NewDocument("/srv/specs/store.yaml")
	doc.OpenAPI = "3.0.3"
	doc.Info = openapi.Info{Title: "Store API", Version: "1.0.0", Description: "Pets and their categories."}

	pet := &openapi.SchemaNode{Type: "object", Properties: openapi.NewSchemas()}
	pet.Properties.Set("name", &openapi.SchemaNode{Type: "string", Description: "Display name."})
	pet.Properties.Set("category", &openapi.SchemaNode{Ref: "#/components/schemas/Category"})

	doc.Components.Schemas.Set("Pet", pet)
	doc.Components.Schemas.Set("Pets", &openapi.SchemaNode{
		Type:  "array",
		Items: &openapi.SchemaNode{Ref: "#/components/schemas/Pet"},
	})
	doc.Components.Schemas.Set("Status", &openapi.SchemaNode{Type: "string"})
	return doc
}

func newTestBinder(t *testing.T, options ...Option) *Binder {
	t.Helper()
	binder, err := NewBinder(options...)
	if err != nil {
		t.Fatalf("new binder: %v", err)
	}
	return binder
}
