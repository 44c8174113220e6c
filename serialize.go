package jsonapi

import (
	gojson "github.com/goccy/go-json"
)

// Wire renders the document as a wire-ready map. Absent members are omitted
// entirely; meta and links are never emitted as null. An empty collection
// still renders "data": [], and empty linkage renders null for to-one and
// [] for to-many.
func (d *Document) Wire() map[string]any {
	out := map[string]any{}

	if d.Data != nil {
		out["data"] = d.Data.wire()
		if d.Included != nil {
			included := make([]any, 0, len(d.Included))
			for _, res := range d.Included {
				included = append(included, res.wire())
			}
			out["included"] = included
		}
	}

	if d.Errors != nil {
		errors := make([]any, 0, len(d.Errors))
		for _, obj := range d.Errors {
			errors = append(errors, obj.wire())
		}
		out["errors"] = errors
	}

	if d.Meta != nil {
		out["meta"] = d.Meta
	}
	if d.Links != nil {
		out["links"] = d.Links.wire()
	}
	if d.JSONAPI != nil {
		out["jsonapi"] = d.JSONAPI.wire()
	}

	return out
}

func (p *PrimaryData) wire() any {
	if p.Many {
		list := make([]any, 0, len(p.List))
		for _, res := range p.List {
			list = append(list, res.wire())
		}
		return list
	}
	if p.One == nil {
		return nil
	}
	return p.One.wire()
}

func (r Resource) wire() map[string]any {
	out := map[string]any{"type": r.Type}
	if r.ID != "" {
		out["id"] = r.ID
	}
	if r.LocalID != "" {
		out["lid"] = r.LocalID
	}
	if r.Attributes != nil {
		out["attributes"] = r.Attributes
	}
	if r.Relationships != nil {
		rels := make(map[string]any, len(r.Relationships))
		for name, rel := range r.Relationships {
			rels[name] = rel.wire()
		}
		out["relationships"] = rels
	}
	if r.Links != nil {
		out["links"] = r.Links.wire()
	}
	if r.Meta != nil {
		out["meta"] = r.Meta
	}
	return out
}

func (r Relationship) wire() map[string]any {
	out := map[string]any{}
	switch r.Data.Kind {
	case LinkageToOne:
		if r.Data.One == nil {
			out["data"] = nil
		} else {
			out["data"] = r.Data.One.wire()
		}
	case LinkageToMany:
		ids := make([]any, 0, len(r.Data.Many))
		for _, id := range r.Data.Many {
			ids = append(ids, id.wire())
		}
		out["data"] = ids
	case LinkageNone:
		// links/meta-only relationship object
	}
	if r.Links != nil {
		out["links"] = r.Links.wire()
	}
	if r.Meta != nil {
		out["meta"] = r.Meta
	}
	return out
}

func (i Identifier) wire() map[string]any {
	out := map[string]any{"type": i.Type}
	if i.ID != "" {
		out["id"] = i.ID
	}
	if i.LocalID != "" {
		out["lid"] = i.LocalID
	}
	if i.Meta != nil {
		out["meta"] = i.Meta
	}
	return out
}

func (l Links) wire() map[string]any {
	out := make(map[string]any, len(l))
	for name, link := range l {
		if link.Meta == nil {
			out[name] = link.Href
			continue
		}
		out[name] = map[string]any{"href": link.Href, "meta": link.Meta}
	}
	return out
}

func (i *Info) wire() map[string]any {
	out := map[string]any{}
	if i.Version != "" {
		out["version"] = i.Version
	}
	if i.Meta != nil {
		out["meta"] = i.Meta
	}
	return out
}

func (e ErrorObject) wire() map[string]any {
	out := map[string]any{}
	setIfNotEmpty := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	setIfNotEmpty("id", e.ID)
	setIfNotEmpty("status", e.Status)
	setIfNotEmpty("code", e.Code)
	setIfNotEmpty("title", e.Title)
	setIfNotEmpty("detail", e.Detail)
	if e.Source != nil {
		source := map[string]any{}
		if e.Source.Pointer != "" {
			source["pointer"] = e.Source.Pointer
		}
		if e.Source.Parameter != "" {
			source["parameter"] = e.Source.Parameter
		}
		out["source"] = source
	}
	if e.Links != nil {
		out["links"] = e.Links.wire()
	}
	if e.Meta != nil {
		out["meta"] = e.Meta
	}
	return out
}

// MarshalDocument serializes a document to JSON bytes.
func MarshalDocument(d *Document) ([]byte, error) {
	return gojson.Marshal(d.Wire())
}

// UnmarshalDocument decodes JSON bytes and parses them as a JSON:API
// document.
func UnmarshalDocument(data []byte) (*Document, error) {
	var raw map[string]any
	if err := gojson.Unmarshal(data, &raw); err != nil {
		return nil, &InvalidDocumentError{Message: "body is not a JSON object: " + err.Error()}
	}
	return ParseDocument(raw)
}
