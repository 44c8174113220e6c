// Package query parses and validates JSON:API query parameters (sort,
// filter, fields, include, and page) against a resource schema registry.
// Each parameter is parsed independently; the first violation aborts with a
// typed *Error identifying the parameter and the offending value. Parsed
// Params are immutable, request-scoped values.
package query

import (
	"fmt"

	"github.com/conduit-lang/jsonapi/schema"
)

// Raw holds the undecoded query parameter values as extracted by the host's
// HTTP layer. Filter and Page are `any` so that a wrongly shaped value can
// be rejected rather than silently coerced.
type Raw struct {
	Sort    string
	Include string
	Fields  map[string]string
	Filter  any
	Page    any
}

// Config supplies the static context a parse runs against.
type Config struct {
	Registry *schema.Registry
	// Type is the root resource type the request targets.
	Type string
	// AllowedIncludes optionally restricts which declared relationship
	// paths may be included. nil permits every declared relationship.
	AllowedIncludes IncludeTree
}

// Direction is a sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// SortField is one resolved sort criterion. Field is the dot-joined
// internal name of the (possibly relationship-qualified) attribute.
type SortField struct {
	Direction Direction
	Field     string
}

// Fields maps a resource type to the set of internal attribute names the
// client requested. A missing type key means "all attributes"; a present
// key with an empty set means "no attributes". The two are never collapsed.
type Fields map[string]map[string]bool

// Allows reports whether the named attribute of resourceType survives the
// sparse-fieldset restriction.
func (f Fields) Allows(resourceType, attribute string) bool {
	set, restricted := f[resourceType]
	if !restricted {
		return true
	}
	return set[attribute]
}

// Params is the validated, typed query context for one request.
type Params struct {
	Sort    []SortField
	Filter  map[string]any
	Fields  Fields
	Include IncludeTree
	Page    map[string]any
}

// Parse validates all five parameters and assembles the query context.
// It fails on the first invalid parameter.
func Parse(raw Raw, cfg Config) (*Params, error) {
	sort, err := ParseSort(raw.Sort, cfg)
	if err != nil {
		return nil, err
	}
	fields, err := ParseFields(raw.Fields, cfg)
	if err != nil {
		return nil, err
	}
	include, err := ParseInclude(raw.Include, cfg)
	if err != nil {
		return nil, err
	}
	filter, err := ParseFilter(raw.Filter)
	if err != nil {
		return nil, err
	}
	page, err := ParsePage(raw.Page)
	if err != nil {
		return nil, err
	}

	return &Params{
		Sort:    sort,
		Filter:  filter,
		Fields:  fields,
		Include: include,
		Page:    page,
	}, nil
}

// ParseFilter accepts a map unchanged and rejects any other value shape.
// Interpretation of the terms is left to the application.
func ParseFilter(value any) (map[string]any, error) {
	switch v := value.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	default:
		return nil, invalidParam("filter", stringify(value), "", "filter must be a map of filter terms")
	}
}

// ParsePage accepts the page parameter as an opaque map. Pagination
// strategy is the host's concern.
func ParsePage(value any) (map[string]any, error) {
	switch v := value.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	default:
		return nil, invalidParam("page", stringify(value), "", "page must be a map of page terms")
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
