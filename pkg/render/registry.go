package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Field is one template-visible field of a registered type. Type names the
// registered type the field resolves to; fields whose Type is not registered
// are scalars. List marks fields holding a sequence of Type.
type Field struct {
	Name string
	Type string
	List bool
}

// Registry is the allow-list of types and the field names templates may read
// from them. Anything not registered is invisible to templates.
type Registry struct {
	mu     sync.RWMutex
	types  map[string][]Field
	lookup map[string]map[string]Field
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		types:  make(map[string][]Field),
		lookup: make(map[string]map[string]Field),
	}
}

// Register exposes fields of typeName. A type can only be registered once and
// field names must be unique within it.
func (r *Registry) Register(typeName string, fields ...Field) error {
	name := strings.TrimSpace(typeName)
	if name == "" {
		return fmt.Errorf("render: type name is required")
	}

	byName := make(map[string]Field, len(fields))
	ordered := make([]Field, 0, len(fields))
	for _, field := range fields {
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return fmt.Errorf("render: type %q: field name is required", name)
		}
		if _, exists := byName[field.Name]; exists {
			return fmt.Errorf("render: type %q: field %q listed twice", name, field.Name)
		}
		byName[field.Name] = field
		ordered = append(ordered, field)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[name]; exists {
		return fmt.Errorf("render: type %q already registered", name)
	}

	r.types[name] = ordered
	r.lookup[name] = byName
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(typeName string, fields ...Field) {
	if err := r.Register(typeName, fields...); err != nil {
		panic(err)
	}
}

// Field returns the named field of typeName when it is allow-listed.
func (r *Registry) Field(typeName, name string) (Field, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	field, ok := r.lookup[typeName][name]
	return field, ok
}

// Fields returns the fields of typeName in registration order.
func (r *Registry) Fields(typeName string) []Field {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Field(nil), r.types[typeName]...)
}

// List returns a sorted list of registered type names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a type is registered.
func (r *Registry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.types[typeName]
	return ok
}
