package query

import (
	"strings"

	"github.com/conduit-lang/jsonapi/internal/strcase"
	"github.com/conduit-lang/jsonapi/schema"
)

// ParseFields validates sparse fieldsets: a map of resource type to
// comma-separated attribute list. Type keys and attribute names are recased
// to their internal form. Each type must be the root type or the target of
// a relationship reachable from it. An empty value yields the
// empty set ("no attributes"), which is distinct from a missing parameter
// ("all attributes").
func ParseFields(raw map[string]string, cfg Config) (Fields, error) {
	fields := Fields{}
	if len(raw) == 0 {
		return fields, nil
	}

	reachable, err := reachableSchemas(cfg)
	if err != nil {
		return nil, err
	}

	for typeName, list := range raw {
		internalType := strcase.Underscore(typeName)
		s, ok := reachable[internalType]
		if !ok {
			return nil, invalidParam("fields["+typeName+"]", list, cfg.Type,
				"no relationship exposes resource type %q", typeName)
		}

		set := map[string]bool{}
		var unknown []string
		for _, name := range strings.Split(list, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			internal := strcase.Underscore(name)
			if !s.HasAttribute(internal) {
				unknown = append(unknown, name)
				continue
			}
			set[internal] = true
		}
		if len(unknown) > 0 {
			return nil, invalidParam("fields["+typeName+"]", list, internalType,
				"unknown attributes: %s", strings.Join(unknown, ", "))
		}
		fields[internalType] = set
	}
	return fields, nil
}

// reachableSchemas collects the root schema and every schema reachable from
// it through declared relationships, keyed by type name.
func reachableSchemas(cfg Config) (map[string]*schema.Schema, error) {
	root, err := cfg.Registry.Lookup(cfg.Type)
	if err != nil {
		return nil, err
	}

	found := map[string]*schema.Schema{root.Type(): root}
	pending := []*schema.Schema{root}
	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]
		for _, rel := range current.Relationships() {
			if _, seen := found[rel.Target]; seen {
				continue
			}
			target, err := cfg.Registry.Target(rel)
			if err != nil {
				return nil, err
			}
			found[target.Type()] = target
			pending = append(pending, target)
		}
	}
	return found, nil
}
