// Package schema defines the static resource descriptors the document codec,
// normalizer, and query engine validate against. A Schema declares a resource
// type's identifier attribute, its attributes, and its relationships. Schemas
// are built once at application startup, registered in a Registry, and never
// mutated afterwards, so they are safe for unsynchronized concurrent reads.
package schema

import (
	"fmt"
)

// reserved field names that may never appear as attributes or relationships.
// JSON:API carries them at the resource-object level instead.
var reservedFields = map[string]bool{
	"id":   true,
	"type": true,
}

// Cardinality describes how many resources a relationship points at.
type Cardinality int

const (
	// ToOne relationships link a single related resource.
	ToOne Cardinality = iota
	// ToMany relationships link an ordered list of related resources.
	ToMany
)

// String returns the string representation of the cardinality.
func (c Cardinality) String() string {
	switch c {
	case ToOne:
		return "to-one"
	case ToMany:
		return "to-many"
	default:
		return "unknown"
	}
}

// FieldOptions carries the per-field behavior toggles. The zero value is
// returned for fields a schema does not declare, so callers can treat
// absence as default behavior.
type FieldOptions struct {
	// Serialize controls whether the attribute is written on output.
	Serialize bool
	// Deserialize controls whether the attribute is accepted on input.
	Deserialize bool
}

// defaultFieldOptions apply when a field is declared without options.
var defaultFieldOptions = FieldOptions{Serialize: true, Deserialize: true}

// Field is a single declared attribute.
type Field struct {
	Name    string
	Options FieldOptions
}

// Relationship is a single declared relationship. Target names the
// registered type of the related resource; the target Schema is resolved
// through the Registry at traversal time.
type Relationship struct {
	Name        string
	Cardinality Cardinality
	Target      string
	Options     FieldOptions
}

// Schema is the immutable descriptor for one resource type. Build it with
// New and the fluent Attr/ToOne/ToMany methods, then seal it by registering
// it. Attribute and relationship declaration order is preserved and drives
// the deterministic ordering of included resources.
type Schema struct {
	resourceType  string
	idAttribute   string
	attributes    []Field
	relationships []Relationship

	attrIndex map[string]int
	relIndex  map[string]int
}

// New starts a schema descriptor for resourceType whose identifier is read
// from idAttribute on application objects.
func New(resourceType, idAttribute string) *Schema {
	return &Schema{
		resourceType: resourceType,
		idAttribute:  idAttribute,
	}
}

// Attr declares an attribute. Passing no options applies the defaults
// (serialized and deserialized).
func (s *Schema) Attr(name string, opts ...FieldOptions) *Schema {
	options := defaultFieldOptions
	if len(opts) > 0 {
		options = opts[0]
	}
	s.attributes = append(s.attributes, Field{Name: name, Options: options})
	return s
}

// ToOne declares a to-one relationship targeting the given resource type.
func (s *Schema) ToOne(name, target string) *Schema {
	s.relationships = append(s.relationships, Relationship{
		Name:        name,
		Cardinality: ToOne,
		Target:      target,
		Options:     defaultFieldOptions,
	})
	return s
}

// ToMany declares a to-many relationship targeting the given resource type.
func (s *Schema) ToMany(name, target string) *Schema {
	s.relationships = append(s.relationships, Relationship{
		Name:        name,
		Cardinality: ToMany,
		Target:      target,
		Options:     defaultFieldOptions,
	})
	return s
}

// Type returns the registered resource type name.
func (s *Schema) Type() string { return s.resourceType }

// IDAttribute returns the name of the attribute holding the resource id on
// application objects.
func (s *Schema) IDAttribute() string { return s.idAttribute }

// Attributes returns the declared attributes in declaration order.
func (s *Schema) Attributes() []Field { return s.attributes }

// Relationships returns the declared relationships in declaration order.
func (s *Schema) Relationships() []Relationship { return s.relationships }

// HasAttribute reports whether name is a declared attribute.
func (s *Schema) HasAttribute(name string) bool {
	_, ok := s.attrIndex[name]
	return ok
}

// AttributeOptions returns the options declared for the named attribute.
// Unknown names return the zero options rather than an error.
func (s *Schema) AttributeOptions(name string) FieldOptions {
	if i, ok := s.attrIndex[name]; ok {
		return s.attributes[i].Options
	}
	return FieldOptions{}
}

// Relationship returns the declared relationship with the given name.
func (s *Schema) Relationship(name string) (Relationship, bool) {
	if i, ok := s.relIndex[name]; ok {
		return s.relationships[i], true
	}
	return Relationship{}, false
}

// WireName recases an internal field name for the wire under the given mode.
func (s *Schema) WireName(name string, mode CaseMode) string {
	return mode.Apply(name)
}

// validate checks the structural invariants and builds the lookup indexes.
// Called by Registry.Register; a schema that fails validation is not sealed.
func (s *Schema) validate() error {
	if s.resourceType == "" {
		return fmt.Errorf("schema: resource type must not be empty")
	}
	if s.idAttribute == "" {
		return fmt.Errorf("schema: %s: id attribute must not be empty", s.resourceType)
	}

	attrIndex := make(map[string]int, len(s.attributes))
	for i, f := range s.attributes {
		if f.Name == "" {
			return fmt.Errorf("schema: %s: attribute name must not be empty", s.resourceType)
		}
		if reservedFields[f.Name] {
			return fmt.Errorf("schema: %s: attribute name %q is reserved", s.resourceType, f.Name)
		}
		if _, dup := attrIndex[f.Name]; dup {
			return fmt.Errorf("schema: %s: duplicate attribute %q", s.resourceType, f.Name)
		}
		attrIndex[f.Name] = i
	}

	relIndex := make(map[string]int, len(s.relationships))
	for i, r := range s.relationships {
		if r.Name == "" {
			return fmt.Errorf("schema: %s: relationship name must not be empty", s.resourceType)
		}
		if reservedFields[r.Name] {
			return fmt.Errorf("schema: %s: relationship name %q is reserved", s.resourceType, r.Name)
		}
		if _, dup := relIndex[r.Name]; dup {
			return fmt.Errorf("schema: %s: duplicate relationship %q", s.resourceType, r.Name)
		}
		if _, clash := attrIndex[r.Name]; clash {
			return fmt.Errorf("schema: %s: %q declared as both attribute and relationship", s.resourceType, r.Name)
		}
		if r.Target == "" {
			return fmt.Errorf("schema: %s: relationship %q has no target type", s.resourceType, r.Name)
		}
		relIndex[r.Name] = i
	}

	s.attrIndex = attrIndex
	s.relIndex = relIndex
	return nil
}
