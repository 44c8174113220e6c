// Package web adapts the jsonapi core to net/http: it extracts raw query
// parameter values from requests, enforces JSON:API content negotiation,
// renders documents and typed failures, and mounts read endpoints on a chi
// router. The core itself never touches HTTP; everything transport-shaped
// lives here.
package web

import (
	"net/http"
	"regexp"

	"github.com/conduit-lang/jsonapi/query"
)

// Bracketed parameter families: fields[type], filter[key], page[key].
var (
	fieldsPattern = regexp.MustCompile(`^fields\[([^\]]+)\]$`)
	filterPattern = regexp.MustCompile(`^filter\[([^\]]+)\]$`)
	pagePattern   = regexp.MustCompile(`^page\[([^\]]+)\]$`)
)

// RawQuery extracts the undecoded JSON:API query parameter values from a
// request. No validation happens here; query.Parse does that against the
// schema registry.
func RawQuery(r *http.Request) query.Raw {
	values := r.URL.Query()

	raw := query.Raw{
		Sort:    values.Get("sort"),
		Include: values.Get("include"),
	}

	fields := map[string]string{}
	filter := map[string]any{}
	page := map[string]any{}
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if m := fieldsPattern.FindStringSubmatch(key); m != nil {
			fields[m[1]] = vals[0]
			continue
		}
		if m := filterPattern.FindStringSubmatch(key); m != nil {
			filter[m[1]] = vals[0]
			continue
		}
		if m := pagePattern.FindStringSubmatch(key); m != nil {
			page[m[1]] = vals[0]
		}
	}
	if len(fields) > 0 {
		raw.Fields = fields
	}

	// A bare filter or page value (no bracket key) is passed through as-is
	// so the parser can reject the shape.
	if bare := values.Get("filter"); bare != "" {
		raw.Filter = bare
	} else if len(filter) > 0 {
		raw.Filter = filter
	}
	if bare := values.Get("page"); bare != "" {
		raw.Page = bare
	} else if len(page) > 0 {
		raw.Page = page
	}

	return raw
}

// ParseQuery extracts and validates the request's query parameters in one
// step.
func ParseQuery(r *http.Request, cfg query.Config) (*query.Params, error) {
	return query.Parse(RawQuery(r), cfg)
}
