package schema

import (
	"sort"
	"strings"

	"github.com/goliatone/go-oasgen/pkg/openapi"
)

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// ResolveReference returns the identifier a $ref pointer names: the segment
// after the last "/" (`#/components/schemas/Pet` -> `Pet`). Resolution is
// purely lexical; whether the identifier exists is not checked.
func ResolveReference(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "#")
	}
	return pointerUnescaper.Replace(trimmed)
}

// IsLocalReference reports whether pointer targets the same document.
func IsLocalReference(pointer string) bool {
	return strings.HasPrefix(strings.TrimSpace(pointer), "#/")
}

// UnresolvedReferences lists the identifiers of local references that do not
// name a component schema of doc. A pointer with no identifier, such as
// `#/components/schemas/`, is listed as written. External pointers are skipped. The walker
// never calls this; it exists for consumers that want strict validation.
func UnresolvedReferences(doc *openapi.Document) []string {
	if doc == nil {
		return nil
	}
	missing := make(map[string]struct{})
	for _, node := range Walk(doc) {
		collectMissing(doc, node, missing)
	}
	if len(missing) == 0 {
		return nil
	}
	out := make([]string, 0, len(missing))
	for id := range missing {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func collectMissing(doc *openapi.Document, node *openapi.SchemaNode, missing map[string]struct{}) {
	if node == nil {
		return
	}
	if node.Ref != "" {
		if !IsLocalReference(node.Ref) {
			return
		}
		id := ResolveReference(node.Ref)
		if id == "" {
			missing[strings.TrimSpace(node.Ref)] = struct{}{}
			return
		}
		if _, ok := doc.Schema(id); !ok {
			missing[id] = struct{}{}
		}
		return
	}
	if node.Properties != nil {
		for pair := node.Properties.Oldest(); pair != nil; pair = pair.Next() {
			collectMissing(doc, pair.Value, missing)
		}
	}
	collectMissing(doc, node.Items, missing)
}
