package query

import (
	"sort"
	"strings"

	"github.com/conduit-lang/jsonapi/internal/strcase"
)

// IncludeTree is the validated, merged representation of the include
// parameter's dotted relationship paths. Keys are internal relationship
// names; each maps to the tree of nested includes below it.
// include=comments.author,comments.likes merges into
// {comments: {author: {}, likes: {}}}.
type IncludeTree map[string]IncludeTree

// Contains reports whether the relationship name is included at this level.
func (t IncludeTree) Contains(name string) bool {
	_, ok := t[name]
	return ok
}

// Child returns the subtree below the named relationship, or nil.
func (t IncludeTree) Child(name string) IncludeTree {
	return t[name]
}

// Paths flattens the tree back into sorted dotted paths. Intermediate
// segments are only listed when they are leaves themselves.
func (t IncludeTree) Paths() []string {
	var paths []string
	for name, sub := range t {
		if len(sub) == 0 {
			paths = append(paths, name)
			continue
		}
		for _, p := range sub.Paths() {
			paths = append(paths, name+"."+p)
		}
	}
	sort.Strings(paths)
	return paths
}

// merge unions other into t, recursively merging shared subtrees.
func (t IncludeTree) merge(other IncludeTree) {
	for name, sub := range other {
		if existing, ok := t[name]; ok {
			existing.merge(sub)
			continue
		}
		t[name] = sub
	}
}

// ParseInclude builds the include tree from a comma-separated list of
// dotted relationship paths. Every segment is recased to its internal name
// and validated against the schema chain; the first unknown segment fails,
// reporting the full offending path and the resource type at the point of
// failure. When cfg.AllowedIncludes is non-nil a segment must additionally
// appear in the allow-list subtree.
func ParseInclude(value string, cfg Config) (IncludeTree, error) {
	tree := IncludeTree{}
	if value == "" {
		return tree, nil
	}

	for _, path := range strings.Split(value, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		branch, err := parseIncludePath(path, cfg)
		if err != nil {
			return nil, err
		}
		tree.merge(branch)
	}
	return tree, nil
}

// parseIncludePath validates a single dotted path and returns it as a
// single-branch tree.
func parseIncludePath(path string, cfg Config) (IncludeTree, error) {
	current, err := cfg.Registry.Lookup(cfg.Type)
	if err != nil {
		return nil, err
	}
	allowed := cfg.AllowedIncludes

	root := IncludeTree{}
	leaf := root
	for _, segment := range strings.Split(path, ".") {
		name := strcase.Underscore(segment)

		rel, ok := current.Relationship(name)
		if !ok {
			return nil, invalidParam("include", path, current.Type(),
				"%q is not a declared relationship", segment)
		}
		if allowed != nil && !allowed.Contains(name) {
			return nil, invalidParam("include", path, current.Type(),
				"relationship %q may not be included", segment)
		}

		next := IncludeTree{}
		leaf[name] = next
		leaf = next

		if allowed != nil {
			// A nil child marks an allow-list leaf; nothing deeper is
			// permitted below it.
			if child := allowed.Child(name); child != nil {
				allowed = child
			} else {
				allowed = IncludeTree{}
			}
		}
		current, err = cfg.Registry.Target(rel)
		if err != nil {
			return nil, err
		}
	}
	return root, nil
}
