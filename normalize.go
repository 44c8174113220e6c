package jsonapi

import (
	"fmt"
	"strconv"

	"github.com/conduit-lang/jsonapi/internal/strcase"
	"github.com/conduit-lang/jsonapi/query"
	"github.com/conduit-lang/jsonapi/schema"
)

// Node is an application-level resource: attribute keys hold values,
// relationship keys hold a related Node or a []Node slice. The resource id
// is read from the schema's id attribute; a client-generated local id may
// be carried under the reserved "lid" key.
type Node = map[string]any

// Params is the flat parameter map Denormalize produces for one inbound
// resource: recased attribute values plus foreign-key style relationship
// entries ("<rel>_id" / "<rel>_ids") alongside the raw linkage.
type Params map[string]any

// Engine converts between wire documents and application object graphs for
// the schemas of one registry under one case mode. An Engine is immutable
// and safe for concurrent use.
type Engine struct {
	registry *schema.Registry
	mode     schema.CaseMode
}

// Option configures an Engine.
type Option func(*Engine)

// WithCaseMode sets the wire case mode. The default is underscore.
func WithCaseMode(mode schema.CaseMode) Option {
	return func(e *Engine) { e.mode = mode }
}

// NewEngine creates an engine over the given schema registry.
func NewEngine(registry *schema.Registry, opts ...Option) *Engine {
	e := &Engine{registry: registry, mode: schema.CaseUnderscore}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's schema registry.
func (e *Engine) Registry() *schema.Registry { return e.registry }

// CaseMode returns the engine's wire case mode.
func (e *Engine) CaseMode() schema.CaseMode { return e.mode }

// Normalize walks an object graph rooted at data (a single Node, a []Node,
// or nil) and produces the flat document: primary resources in data,
// resources reached through the include tree staged once each in included.
// Relationship linkage is always emitted for every declared relationship;
// attribute selection honors the sparse fieldsets in q.
func (e *Engine) Normalize(data any, resourceType string, q *query.Params) (*Document, error) {
	s, err := e.registry.Lookup(resourceType)
	if err != nil {
		return nil, err
	}

	n := &normalizer{
		engine:  e,
		fields:  query.Fields{},
		include: query.IncludeTree{},
		seen:    map[refKey]bool{},
	}
	if q != nil {
		if q.Fields != nil {
			n.fields = q.Fields
		}
		if q.Include != nil {
			n.include = q.Include
		}
	}

	doc := &Document{}
	switch v := data.(type) {
	case nil:
		doc.Data = NullResource()
		return doc, nil
	case map[string]any:
		// The dedup set is seeded with every primary resource before any
		// traversal so an include path leading back to primary data never
		// duplicates it.
		n.reserve(v, s)
		res, err := n.buildResource(v, s)
		if err != nil {
			return nil, err
		}
		if err := n.walkIncludes(v, s, n.include); err != nil {
			return nil, err
		}
		doc.Data = SingleResource(res)
	default:
		nodes, err := toNodes(v)
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			n.reserve(node, s)
		}
		list := make([]Resource, 0, len(nodes))
		for _, node := range nodes {
			res, err := n.buildResource(node, s)
			if err != nil {
				return nil, err
			}
			list = append(list, res)
		}
		for _, node := range nodes {
			if err := n.walkIncludes(node, s, n.include); err != nil {
				return nil, err
			}
		}
		doc.Data = ResourceCollection(list)
	}

	doc.Included = n.included
	return doc, nil
}

// refKey identifies a resource for deduplication: (type, id), falling back
// to (type, lid) for client-created resources without a server id.
type refKey struct {
	typ string
	ref string
}

type normalizer struct {
	engine   *Engine
	fields   query.Fields
	include  query.IncludeTree
	seen     map[refKey]bool
	included []Resource
}

func (n *normalizer) key(node Node, s *schema.Schema) (refKey, bool) {
	id := stringifyID(node[s.IDAttribute()])
	if id != "" {
		return refKey{typ: s.Type(), ref: id}, true
	}
	if lid, _ := node["lid"].(string); lid != "" {
		return refKey{typ: s.Type(), ref: "lid:" + lid}, true
	}
	// No identity at all: the node cannot participate in deduplication.
	return refKey{}, false
}

func (n *normalizer) reserve(node Node, s *schema.Schema) {
	if key, ok := n.key(node, s); ok {
		n.seen[key] = true
	}
}

// buildResource emits the resource object for one node: selected
// attributes plus linkage for every declared relationship. It does not
// recurse; walkIncludes stages related resources.
func (n *normalizer) buildResource(node Node, s *schema.Schema) (Resource, error) {
	res := Resource{
		Type:       s.WireName(s.Type(), n.engine.mode),
		ID:         stringifyID(node[s.IDAttribute()]),
		Attributes: map[string]any{},
	}
	if lid, _ := node["lid"].(string); lid != "" && res.ID == "" {
		res.LocalID = lid
	}

	for _, field := range s.Attributes() {
		if !field.Options.Serialize {
			continue
		}
		if !n.fields.Allows(s.Type(), field.Name) {
			continue
		}
		value, present := node[field.Name]
		if !present {
			continue
		}
		res.Attributes[s.WireName(field.Name, n.engine.mode)] = value
	}

	if rels := s.Relationships(); len(rels) > 0 {
		res.Relationships = make(map[string]Relationship, len(rels))
		for _, rel := range rels {
			linkage, err := n.linkage(node, rel)
			if err != nil {
				return res, err
			}
			wireName := s.WireName(rel.Name, n.engine.mode)
			res.Relationships[wireName] = Relationship{Data: linkage}
		}
	}

	return res, nil
}

// linkage emits identifier-only linkage for one declared relationship.
// Linkage is cheap and always present regardless of inclusion.
func (n *normalizer) linkage(node Node, rel schema.Relationship) (Linkage, error) {
	target, err := n.engine.registry.Target(rel)
	if err != nil {
		return Linkage{}, err
	}

	raw, present := node[rel.Name]
	switch rel.Cardinality {
	case schema.ToMany:
		if !present || raw == nil {
			return ToManyLinkage(nil), nil
		}
		children, err := toNodes(raw)
		if err != nil {
			return Linkage{}, fmt.Errorf("jsonapi: relationship %s: %w", rel.Name, err)
		}
		ids := make([]Identifier, 0, len(children))
		for _, child := range children {
			ids = append(ids, n.identify(child, target))
		}
		return ToManyLinkage(ids), nil
	default:
		if !present || raw == nil {
			return EmptyToOneLinkage(), nil
		}
		child, ok := raw.(map[string]any)
		if !ok {
			return Linkage{}, fmt.Errorf("jsonapi: relationship %s must hold a node, got %T",
				rel.Name, raw)
		}
		return ToOneLinkage(n.identify(child, target)), nil
	}
}

// walkIncludes recurses into the relationships named by the include tree,
// staging each related resource into included exactly once. The dedup set
// doubles as the visited guard, so cyclic graphs terminate: recursion depth
// is bounded by the include tree, repeat visits are skipped.
func (n *normalizer) walkIncludes(node Node, s *schema.Schema, tree query.IncludeTree) error {
	for _, rel := range s.Relationships() {
		subtree, included := tree[rel.Name]
		if !included {
			continue
		}
		raw, present := node[rel.Name]
		if !present || raw == nil {
			continue
		}

		target, err := n.engine.registry.Target(rel)
		if err != nil {
			return err
		}

		var children []Node
		if rel.Cardinality == schema.ToMany {
			if children, err = toNodes(raw); err != nil {
				return err
			}
		} else {
			child, ok := raw.(map[string]any)
			if !ok {
				return fmt.Errorf("jsonapi: relationship %s of %s must hold a node, got %T",
					rel.Name, s.Type(), raw)
			}
			children = []Node{child}
		}

		for _, child := range children {
			if err := n.stage(child, target, subtree); err != nil {
				return err
			}
		}
	}
	return nil
}

// stage appends one related resource to included unless its (type, id) was
// already staged, then recurses below it. Nodes without an id or lid cannot
// be referenced by any linkage, so they are never staged.
func (n *normalizer) stage(node Node, s *schema.Schema, tree query.IncludeTree) error {
	key, identifiable := n.key(node, s)
	if !identifiable {
		return nil
	}
	if n.seen[key] {
		return nil
	}
	n.seen[key] = true

	res, err := n.buildResource(node, s)
	if err != nil {
		return err
	}
	n.included = append(n.included, res)

	return n.walkIncludes(node, s, tree)
}

// identify builds the wire identifier for a related node. The type name is
// recased like every other name crossing the wire boundary.
func (n *normalizer) identify(node Node, s *schema.Schema) Identifier {
	id := Identifier{
		Type: s.WireName(s.Type(), n.engine.mode),
		ID:   stringifyID(node[s.IDAttribute()]),
	}
	if id.ID == "" {
		if lid, _ := node["lid"].(string); lid != "" {
			id.LocalID = lid
		}
	}
	return id
}

// Denormalize flattens a parsed document's primary resources into
// parameter maps, one per resource in document order. Attribute names are
// recased to internal names; declared relationships contribute foreign-key
// style entries alongside the raw linkage. Inbound attributes the schema
// does not declare pass through unfiltered; the schema restricts
// serialization, not arbitrary input.
func (e *Engine) Denormalize(doc *Document, resourceType string) ([]Params, error) {
	s, err := e.registry.Lookup(resourceType)
	if err != nil {
		return nil, err
	}

	resources := doc.Data.Resources()
	many := doc.Data != nil && doc.Data.Many
	params := make([]Params, 0, len(resources))
	for i, res := range resources {
		ptr := "/data"
		if many {
			ptr = indexPointer(ptr, i)
		}
		if strcase.Underscore(res.Type) != s.Type() {
			return nil, invalidDocument(childPointer(ptr, "type"),
				"expected a resource of type %q, got %q", s.Type(), res.Type)
		}
		p, err := e.denormalizeResource(res, s, ptr)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func (e *Engine) denormalizeResource(res Resource, s *schema.Schema, ptr string) (Params, error) {
	params := Params{}
	if res.ID != "" {
		params[s.IDAttribute()] = res.ID
	}
	if res.LocalID != "" {
		params["lid"] = res.LocalID
	}

	for wireName, value := range res.Attributes {
		name := strcase.Underscore(wireName)
		if s.HasAttribute(name) && !s.AttributeOptions(name).Deserialize {
			continue
		}
		params[name] = value
	}

	for wireName, rel := range res.Relationships {
		name := strcase.Underscore(wireName)
		kind := rel.Data.Kind

		declared, isDeclared := s.Relationship(name)
		if isDeclared && !declared.Options.Deserialize {
			continue
		}
		// Linkage must match the declared cardinality; a mismatch names
		// identifiers that would otherwise be silently dropped.
		if isDeclared && kind != LinkageNone {
			dataPtr := childPointer(childPointer(childPointer(ptr, "relationships"), wireName), "data")
			if declared.Cardinality == schema.ToMany && kind != LinkageToMany {
				return nil, invalidDocument(dataPtr,
					"to-many relationship %q requires an identifier array", wireName)
			}
			if declared.Cardinality == schema.ToOne && kind == LinkageToMany {
				return nil, invalidDocument(dataPtr,
					"to-one relationship %q must not hold an identifier array", wireName)
			}
		}

		params[name] = rel.Data
		switch kind {
		case LinkageToMany:
			ids := make([]string, 0, len(rel.Data.Many))
			for _, id := range rel.Data.Many {
				ids = append(ids, identifierRef(id))
			}
			params[name+"_ids"] = ids
		case LinkageToOne:
			if rel.Data.One == nil {
				params[name+"_id"] = nil
			} else {
				params[name+"_id"] = identifierRef(*rel.Data.One)
			}
		}
	}

	return params, nil
}

// identifierRef returns the id, falling back to the local id.
func identifierRef(id Identifier) string {
	if id.ID != "" {
		return id.ID
	}
	return id.LocalID
}

// toNodes coerces the supported collection shapes into a []Node.
func toNodes(raw any) ([]Node, error) {
	switch v := raw.(type) {
	case []Node:
		return v, nil
	case []any:
		nodes := make([]Node, 0, len(v))
		for _, item := range v {
			node, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("jsonapi: expected a node, got %T", item)
			}
			nodes = append(nodes, node)
		}
		return nodes, nil
	default:
		return nil, fmt.Errorf("jsonapi: expected a node collection, got %T", raw)
	}
}

// stringifyID renders an application id value as the wire string.
func stringifyID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case fmt.Stringer:
		return id.String()
	default:
		return fmt.Sprintf("%v", id)
	}
}
