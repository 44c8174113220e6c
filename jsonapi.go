// Package jsonapi implements the JSON:API media type: parsing and
// serializing the document grammar, resolving resource graphs into the flat
// data/included document shape with stable deduplication, and flattening
// inbound documents back into parameter maps.
//
// Application code declares resource types as schema descriptors (see the
// schema subpackage), registers them once at startup, and hands raw query
// and body maps to an Engine. Query parameters (sort, filter, fields,
// include, page) are validated against the same descriptors by the query
// subpackage. All operations are pure transformations over immutable
// inputs; an Engine and its registry are safe for concurrent use without
// locking.
package jsonapi

import "github.com/google/uuid"

// NewLocalID generates a client-side local identifier (lid) for a resource
// that has not been assigned a server id yet.
func NewLocalID() string {
	return uuid.NewString()
}
