package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps resource type names to their sealed schemas. Registration
// happens once at application startup; lookups afterwards are read-only.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]*Schema),
	}
}

// Register validates and seals a schema. Registering the same type twice is
// an error. Relationship targets may reference types registered later;
// ValidateTargets checks them once everything is in place.
func (r *Registry) Register(s *Schema) error {
	if err := s.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[s.resourceType]; exists {
		return fmt.Errorf("schema: type %q is already registered", s.resourceType)
	}
	r.schemas[s.resourceType] = s
	return nil
}

// MustRegister registers a schema and panics on error. Registration runs at
// startup, so a failure here is a programming bug, not a runtime condition.
func (r *Registry) MustRegister(s *Schema) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// Lookup returns the schema registered for the given type name.
func (r *Registry) Lookup(resourceType string) (*Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[resourceType]
	if !ok {
		return nil, fmt.Errorf("schema: no schema registered for type %q", resourceType)
	}
	return s, nil
}

// MustLookup returns the schema for the given type, panicking when it is
// unknown. Looking up an unregistered type is a caller bug.
func (r *Registry) MustLookup(resourceType string) *Schema {
	s, err := r.Lookup(resourceType)
	if err != nil {
		panic(err)
	}
	return s
}

// Target resolves a relationship's target schema.
func (r *Registry) Target(rel Relationship) (*Schema, error) {
	return r.Lookup(rel.Target)
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateTargets checks that every relationship target names a registered
// type. Call once after all Register calls; forward references between
// schemas are legal until then.
func (r *Registry) ValidateTargets() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.schemas {
		for _, rel := range s.relationships {
			if _, ok := r.schemas[rel.Target]; !ok {
				return fmt.Errorf("schema: %s: relationship %q targets unregistered type %q",
					s.resourceType, rel.Name, rel.Target)
			}
		}
	}
	return nil
}
