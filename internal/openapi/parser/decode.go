package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// decodeTree parses JSON or YAML text into a yaml.Node tree and returns the
// top-level mapping. JSON is a YAML subset, so both formats share this path.
func decodeTree(raw []byte) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	top := resolveAlias(&root)
	if top.Kind == yaml.DocumentNode {
		if len(top.Content) == 0 {
			return nil, errors.New("document is empty")
		}
		top = resolveAlias(top.Content[0])
	}
	if top.Kind != yaml.MappingNode {
		return nil, errors.New("document root must be a mapping")
	}
	return top, nil
}

// toJSON re-encodes a decoded YAML tree as JSON so kin-openapi can unmarshal
// it without its own YAML handling.
func toJSON(node *yaml.Node) ([]byte, error) {
	var generic any
	if err := node.Decode(&generic); err != nil {
		return nil, err
	}
	normalised, err := normaliseYAML(generic)
	if err != nil {
		return nil, err
	}
	return json.Marshal(normalised)
}

// normaliseYAML converts map[any]any values produced for non-string keys
// (e.g. unquoted response codes) into JSON compatible maps.
func normaliseYAML(value any) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			converted, err := normaliseYAML(item)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			converted, err := normaliseYAML(item)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(key)] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			converted, err := normaliseYAML(item)
			if err != nil {
				return nil, err
			}
			out[idx] = converted
		}
		return out, nil
	default:
		return v, nil
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// lookup walks mapping keys and returns the node at path, or nil.
func lookup(node *yaml.Node, path ...string) *yaml.Node {
	current := resolveAlias(node)
	for _, key := range path {
		if current == nil || current.Kind != yaml.MappingNode {
			return nil
		}
		var next *yaml.Node
		for i := 0; i+1 < len(current.Content); i += 2 {
			if current.Content[i].Value == key {
				next = resolveAlias(current.Content[i+1])
				break
			}
		}
		current = next
	}
	return current
}

// scalar returns the scalar value stored under key, or "".
func scalar(node *yaml.Node, key string) string {
	value := lookup(node, key)
	if value == nil || value.Kind != yaml.ScalarNode {
		return ""
	}
	return value.Value
}

// mappingKeys returns the keys of a mapping node in declaration order.
func mappingKeys(node *yaml.Node) []string {
	node = resolveAlias(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}

// orderedKeys lists every key of values, declared keys first in source order
// followed by any remaining keys sorted alphabetically.
func orderedKeys[V any](declared []string, values map[string]V) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, key := range declared {
		if _, ok := values[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	var rest []string
	for key := range values {
		if _, ok := seen[key]; !ok {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
