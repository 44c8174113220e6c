package query

import (
	"strings"

	"github.com/conduit-lang/jsonapi/internal/strcase"
)

// ParseSort parses a comma-separated sort expression into resolved sort
// fields. A leading '-' selects descending order. Dotted field names sort by
// a related resource's attribute; every intermediate segment must be a
// declared relationship and the final segment a declared attribute of the
// schema the walk resolves to.
func ParseSort(value string, cfg Config) ([]SortField, error) {
	if value == "" {
		return nil, nil
	}

	var fields []SortField
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		dir := Asc
		name := item
		if strings.HasPrefix(name, "-") {
			dir = Desc
			name = name[1:]
		}

		resolved, err := resolveSortPath(name, item, cfg)
		if err != nil {
			return nil, err
		}
		fields = append(fields, SortField{Direction: dir, Field: resolved})
	}
	return fields, nil
}

// resolveSortPath walks the dot-separated segments against the schema graph
// and returns the dot-joined internal field identifier.
func resolveSortPath(name, raw string, cfg Config) (string, error) {
	current, err := cfg.Registry.Lookup(cfg.Type)
	if err != nil {
		return "", err
	}

	segments := strings.Split(name, ".")
	internal := make([]string, len(segments))
	for i, segment := range segments {
		internal[i] = strcase.Underscore(segment)

		last := i == len(segments)-1
		if last {
			if !current.HasAttribute(internal[i]) {
				return "", invalidParam("sort", raw, current.Type(),
					"%q is not a declared attribute", segment)
			}
			break
		}

		rel, ok := current.Relationship(internal[i])
		if !ok {
			return "", invalidParam("sort", raw, current.Type(),
				"%q is not a declared relationship", segment)
		}
		current, err = cfg.Registry.Target(rel)
		if err != nil {
			return "", err
		}
	}
	return strings.Join(internal, "."), nil
}
