package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-oasgen/pkg/openapi"
)

func parseFixture(t *testing.T, name string) (*pkgopenapi.Document, []pkgopenapi.Diagnostic) {
	t.Helper()

	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	raw := pkgopenapi.MustNewRawDocument(pkgopenapi.SourceFromFile(path), data)

	doc, diagnostics, err := New(pkgopenapi.NewParserOptions()).Parse(context.Background(), raw)
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return doc, diagnostics
}

func parseString(t *testing.T, document string) (*pkgopenapi.Document, []pkgopenapi.Diagnostic, error) {
	t.Helper()

	raw := pkgopenapi.MustNewRawDocument(pkgopenapi.SourceFromBytes("inline.yaml", []byte(document)), []byte(document))
	return New(pkgopenapi.NewParserOptions()).Parse(context.Background(), raw)
}

func TestParsePreservesDeclarationOrder(t *testing.T) {
	want := []string{"Pet", "Category", "Pets", "Status", "Empty", "Alias", "Node", "Untyped"}

	for _, fixture := range []string{"petstore.yaml", "petstore.json"} {
		t.Run(fixture, func(t *testing.T) {
			doc, _ := parseFixture(t, fixture)

			if diff := cmp.Diff(want, doc.SchemaNames()); diff != "" {
				t.Fatalf("schema order mismatch (-want +got):\n%s", diff)
			}

			pet, ok := doc.Schema("Pet")
			if !ok {
				t.Fatalf("schema Pet not found")
			}
			if diff := cmp.Diff([]string{"name", "category", "tags"}, pkgopenapi.Keys(pet.Properties)); diff != "" {
				t.Fatalf("property order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseInfo(t *testing.T) {
	doc, _ := parseFixture(t, "petstore.yaml")

	want := pkgopenapi.Info{
		Title:       "Store API",
		Version:     "1.0.0",
		Description: "Pets and their categories.",
	}
	if diff := cmp.Diff(want, doc.Info); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if doc.OpenAPI != "3.0.3" {
		t.Fatalf("openapi version = %q", doc.OpenAPI)
	}
	if doc.Location() != filepath.Join("testdata", "petstore.yaml") {
		t.Fatalf("location = %q", doc.Location())
	}
}

func TestParseKeepsReferencesOpaque(t *testing.T) {
	doc, _ := parseFixture(t, "petstore.yaml")

	pet, _ := doc.Schema("Pet")
	category, ok := pet.Properties.Get("category")
	if !ok {
		t.Fatalf("category property missing")
	}
	if category.Ref != "#/components/schemas/Category" {
		t.Fatalf("category ref = %q", category.Ref)
	}
	if category.PropertyCount() != 0 {
		t.Fatalf("reference node must not be dereferenced, got %d properties", category.PropertyCount())
	}

	pets, _ := doc.Schema("Pets")
	if pets.Type != "array" || pets.Items == nil || pets.Items.Ref != "#/components/schemas/Pet" {
		t.Fatalf("unexpected Pets schema: %s", pets.DebugString())
	}

	node, _ := doc.Schema("Node")
	next, ok := node.Properties.Get("next")
	if !ok || next.Ref != "#/components/schemas/Node" {
		t.Fatalf("self reference not preserved: %+v", next)
	}

	alias, _ := doc.Schema("Alias")
	if alias.Ref != "#/components/schemas/Pet" {
		t.Fatalf("alias ref = %q", alias.Ref)
	}
}

func TestParseReferenceSiblings(t *testing.T) {
	doc, _, err := parseString(t, `openapi: 3.1.0
info: {title: Siblings, version: "1"}
paths: {}
components:
  schemas:
    Holder:
      type: object
      properties:
        owner:
          $ref: '#/components/schemas/Owner'
          type: string
          description: The owner.
    Owner:
      type: object
      properties:
        name: {type: string}
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	holder, _ := doc.Schema("Holder")
	owner, _ := holder.Properties.Get("owner")
	want := &pkgopenapi.SchemaNode{
		Ref:         "#/components/schemas/Owner",
		Type:        "string",
		Description: "The owner.",
	}
	if diff := cmp.Diff(want, owner); diff != "" {
		t.Fatalf("reference node mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNullableTypeList(t *testing.T) {
	doc, _, err := parseString(t, `openapi: 3.1.0
info: {title: Nullable, version: "1"}
paths: {}
components:
  schemas:
    Name:
      type: [string, "null"]
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	name, _ := doc.Schema("Name")
	if name.Type != "string" {
		t.Fatalf("type = %q, want string", name.Type)
	}
}

func TestParseSwagger2Definitions(t *testing.T) {
	doc, _ := parseFixture(t, "swagger2.yaml")

	if diff := cmp.Diff([]string{"Order", "Pet"}, doc.SchemaNames()); diff != "" {
		t.Fatalf("definitions order mismatch (-want +got):\n%s", diff)
	}
	order, _ := doc.Schema("Order")
	if diff := cmp.Diff([]string{"quantity", "pet"}, pkgopenapi.Keys(order.Properties)); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}
	pet, _ := order.Properties.Get("pet")
	if !strings.HasSuffix(pet.Ref, "/Pet") {
		t.Fatalf("pet ref = %q", pet.Ref)
	}
	if doc.Info.Title != "Legacy Store" {
		t.Fatalf("title = %q", doc.Info.Title)
	}
}

func TestParseSwagger2Disabled(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "swagger2.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	raw := pkgopenapi.MustNewRawDocument(pkgopenapi.SourceFromFile("swagger2.yaml"), data)
	parser := New(pkgopenapi.NewParserOptions(pkgopenapi.WithSwagger2(false)))

	_, _, err = parser.Parse(context.Background(), raw)
	if !errors.Is(err, pkgopenapi.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestParseDanglingReferenceIsWarning(t *testing.T) {
	doc, diagnostics := parseFixture(t, "dangling.yaml")

	owner, ok := doc.Schema("Owner")
	if !ok {
		t.Fatalf("schema Owner not found")
	}
	pet, _ := owner.Properties.Get("pet")
	if pet.Ref != "#/components/schemas/Missing" {
		t.Fatalf("pet ref = %q", pet.Ref)
	}
	if len(diagnostics) == 0 {
		t.Fatalf("expected a warning for the dangling reference")
	}
	for _, diag := range diagnostics {
		if diag.Severity != pkgopenapi.SeverityWarning {
			t.Fatalf("diagnostic severity = %q, want warning", diag.Severity)
		}
	}
}

func TestParseWithoutValidationSkipsDiagnostics(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "dangling.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	raw := pkgopenapi.MustNewRawDocument(pkgopenapi.SourceFromFile("dangling.yaml"), data)
	parser := New(pkgopenapi.NewParserOptions(pkgopenapi.WithValidation(false)))

	_, diagnostics, err := parser.Parse(context.Background(), raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diagnostics)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name     string
		document string
		contains string
	}{
		{name: "blank", document: "  \n\t", contains: "empty"},
		{name: "malformed json", document: `{"openapi": "3.0.0", "info": `, contains: "decode document"},
		{name: "scalar root", document: "just some text", contains: "mapping"},
		{name: "no version", document: "info: {title: A, version: '1'}\n", contains: "neither openapi nor swagger"},
		{name: "unsupported version", document: "openapi: 4.0.0\ninfo: {title: A, version: '1'}\n", contains: "unsupported openapi version"},
		{name: "missing info", document: "openapi: 3.0.0\npaths: {}\n", contains: "missing the info object"},
		{name: "missing title", document: "openapi: 3.0.0\ninfo: {version: '1'}\npaths: {}\n", contains: "missing title"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := parseString(t, tc.document)
			if err == nil {
				t.Fatalf("expected error")
			}
			var parseErr *pkgopenapi.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if !errors.Is(err, pkgopenapi.ErrParse) {
				t.Fatalf("errors.Is(err, ErrParse) = false")
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Fatalf("error %q does not contain %q", err.Error(), tc.contains)
			}
			if len(parseErr.Diagnostics) == 0 || parseErr.Diagnostics[len(parseErr.Diagnostics)-1].Severity != pkgopenapi.SeverityError {
				t.Fatalf("expected error diagnostic, got %v", parseErr.Diagnostics)
			}
		})
	}
}

func TestParseHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	raw := pkgopenapi.MustNewRawDocument(pkgopenapi.SourceFromFile("x.yaml"), []byte("openapi: 3.0.0"))
	_, _, err := New(pkgopenapi.NewParserOptions()).Parse(ctx, raw)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
