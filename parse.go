package jsonapi

// ParseDocument validates a decoded wire document against the JSON:API
// grammar and returns its structured form. Parsing is top-down and
// fail-fast: the first structural violation aborts with an
// *InvalidDocumentError locating the offending member, and no partial
// document is returned.
func ParseDocument(raw map[string]any) (*Document, error) {
	doc := &Document{}

	dataRaw, hasData := raw["data"]
	errorsRaw, hasErrors := raw["errors"]
	if hasData && hasErrors {
		return nil, invalidDocument("", "document must not contain both data and errors")
	}

	if hasData {
		data, err := parsePrimaryData(dataRaw)
		if err != nil {
			return nil, err
		}
		doc.Data = data
	}

	if hasErrors {
		objects, err := parseErrorObjects(errorsRaw)
		if err != nil {
			return nil, err
		}
		doc.Errors = objects
	}

	if includedRaw, ok := raw["included"]; ok {
		if !hasData {
			return nil, invalidDocument("/included", "included is only allowed alongside data")
		}
		included, err := parseIncluded(includedRaw)
		if err != nil {
			return nil, err
		}
		doc.Included = included
	}

	if metaRaw, ok := raw["meta"]; ok {
		meta, err := parseMeta(metaRaw, "/meta")
		if err != nil {
			return nil, err
		}
		doc.Meta = meta
	}

	if linksRaw, ok := raw["links"]; ok {
		links, err := parseLinks(linksRaw, "/links")
		if err != nil {
			return nil, err
		}
		doc.Links = links
	}

	if infoRaw, ok := raw["jsonapi"]; ok {
		info, err := parseInfo(infoRaw)
		if err != nil {
			return nil, err
		}
		doc.JSONAPI = info
	}

	return doc, nil
}

func parsePrimaryData(raw any) (*PrimaryData, error) {
	switch v := raw.(type) {
	case nil:
		return NullResource(), nil
	case map[string]any:
		res, err := parseResource(v, "/data")
		if err != nil {
			return nil, err
		}
		return SingleResource(res), nil
	case []any:
		list := make([]Resource, 0, len(v))
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, invalidDocument(indexPointer("/data", i), "resource must be an object")
			}
			res, err := parseResource(obj, indexPointer("/data", i))
			if err != nil {
				return nil, err
			}
			list = append(list, res)
		}
		return ResourceCollection(list), nil
	default:
		return nil, invalidDocument("/data", "data must be an object, an array of objects, or null")
	}
}

func parseIncluded(raw any) ([]Resource, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, invalidDocument("/included", "included must be an array of resource objects")
	}
	included := make([]Resource, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, invalidDocument(indexPointer("/included", i), "resource must be an object")
		}
		res, err := parseResource(obj, indexPointer("/included", i))
		if err != nil {
			return nil, err
		}
		included = append(included, res)
	}
	return included, nil
}

// parseResource validates a resource object at the given pointer.
func parseResource(raw map[string]any, ptr string) (Resource, error) {
	res := Resource{}

	typ, err := requiredString(raw, "type", ptr)
	if err != nil {
		return res, err
	}
	res.Type = typ

	if res.ID, err = optionalString(raw, "id", ptr); err != nil {
		return res, err
	}
	if res.LocalID, err = optionalString(raw, "lid", ptr); err != nil {
		return res, err
	}

	if attrsRaw, ok := raw["attributes"]; ok {
		attrsPtr := childPointer(ptr, "attributes")
		attrs, ok := attrsRaw.(map[string]any)
		if !ok {
			return res, invalidDocument(attrsPtr, "attributes must be an object")
		}
		res.Attributes = make(map[string]any, len(attrs))
		for key, value := range attrs {
			if key == "id" || key == "type" {
				return res, invalidDocument(childPointer(attrsPtr, key),
					"attributes must not contain a %q member", key)
			}
			res.Attributes[key] = value
		}
	}

	if relsRaw, ok := raw["relationships"]; ok {
		relsPtr := childPointer(ptr, "relationships")
		rels, ok := relsRaw.(map[string]any)
		if !ok {
			return res, invalidDocument(relsPtr, "relationships must be an object")
		}
		res.Relationships = make(map[string]Relationship, len(rels))
		for name, value := range rels {
			if name == "id" || name == "type" {
				return res, invalidDocument(childPointer(relsPtr, name),
					"relationships must not contain a %q member", name)
			}
			rel, err := parseRelationship(value, childPointer(relsPtr, name))
			if err != nil {
				return res, err
			}
			res.Relationships[name] = rel
		}
	}

	if linksRaw, ok := raw["links"]; ok {
		if res.Links, err = parseLinks(linksRaw, childPointer(ptr, "links")); err != nil {
			return res, err
		}
	}
	if metaRaw, ok := raw["meta"]; ok {
		if res.Meta, err = parseMeta(metaRaw, childPointer(ptr, "meta")); err != nil {
			return res, err
		}
	}

	return res, nil
}

// parseRelationship validates a relationship object: its data member is a
// single identifier, an identifier array, null, or absent.
func parseRelationship(raw any, ptr string) (Relationship, error) {
	rel := Relationship{}

	obj, ok := raw.(map[string]any)
	if !ok {
		return rel, invalidDocument(ptr, "relationship must be an object")
	}

	if dataRaw, ok := obj["data"]; ok {
		dataPtr := childPointer(ptr, "data")
		switch v := dataRaw.(type) {
		case nil:
			rel.Data = EmptyToOneLinkage()
		case map[string]any:
			id, err := parseIdentifier(v, dataPtr)
			if err != nil {
				return rel, err
			}
			rel.Data = ToOneLinkage(id)
		case []any:
			ids := make([]Identifier, 0, len(v))
			for i, item := range v {
				idObj, ok := item.(map[string]any)
				if !ok {
					return rel, invalidDocument(indexPointer(dataPtr, i),
						"resource identifier must be an object")
				}
				id, err := parseIdentifier(idObj, indexPointer(dataPtr, i))
				if err != nil {
					return rel, err
				}
				ids = append(ids, id)
			}
			rel.Data = ToManyLinkage(ids)
		default:
			return rel, invalidDocument(dataPtr,
				"relationship data must be an identifier, an identifier array, or null")
		}
	}

	var err error
	if linksRaw, ok := obj["links"]; ok {
		if rel.Links, err = parseLinks(linksRaw, childPointer(ptr, "links")); err != nil {
			return rel, err
		}
	}
	if metaRaw, ok := obj["meta"]; ok {
		if rel.Meta, err = parseMeta(metaRaw, childPointer(ptr, "meta")); err != nil {
			return rel, err
		}
	}

	return rel, nil
}

// parseIdentifier validates a resource identifier object. Identifiers
// reference existing or client-created resources, so they need an id or a
// lid in addition to the type.
func parseIdentifier(raw map[string]any, ptr string) (Identifier, error) {
	id := Identifier{}

	typ, err := requiredString(raw, "type", ptr)
	if err != nil {
		return id, err
	}
	id.Type = typ

	if id.ID, err = optionalString(raw, "id", ptr); err != nil {
		return id, err
	}
	if id.LocalID, err = optionalString(raw, "lid", ptr); err != nil {
		return id, err
	}
	if id.ID == "" && id.LocalID == "" {
		return id, invalidDocument(ptr, "resource identifier requires an id or lid")
	}

	if metaRaw, ok := raw["meta"]; ok {
		if id.Meta, err = parseMeta(metaRaw, childPointer(ptr, "meta")); err != nil {
			return id, err
		}
	}
	return id, nil
}

func parseErrorObjects(raw any) ([]ErrorObject, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, invalidDocument("/errors", "errors must be an array of error objects")
	}
	objects := make([]ErrorObject, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, invalidDocument(indexPointer("/errors", i), "error must be an object")
		}
		parsed, err := parseErrorObject(obj, indexPointer("/errors", i))
		if err != nil {
			return nil, err
		}
		objects = append(objects, parsed)
	}
	return objects, nil
}

func parseErrorObject(raw map[string]any, ptr string) (ErrorObject, error) {
	obj := ErrorObject{}

	for _, member := range []struct {
		key string
		dst *string
	}{
		{"id", &obj.ID},
		{"status", &obj.Status},
		{"code", &obj.Code},
		{"title", &obj.Title},
		{"detail", &obj.Detail},
	} {
		value, ok := raw[member.key]
		if !ok {
			continue
		}
		s, ok := value.(string)
		if !ok {
			return obj, invalidDocument(childPointer(ptr, member.key), "%s must be a string", member.key)
		}
		*member.dst = s
	}

	if sourceRaw, ok := raw["source"]; ok {
		srcPtr := childPointer(ptr, "source")
		src, ok := sourceRaw.(map[string]any)
		if !ok {
			return obj, invalidDocument(srcPtr, "source must be an object")
		}
		source := &ErrorSource{}
		var err error
		if source.Pointer, err = optionalAnyString(src, "pointer", srcPtr); err != nil {
			return obj, err
		}
		if source.Parameter, err = optionalAnyString(src, "parameter", srcPtr); err != nil {
			return obj, err
		}
		obj.Source = source
	}

	var err error
	if linksRaw, ok := raw["links"]; ok {
		if obj.Links, err = parseLinks(linksRaw, childPointer(ptr, "links")); err != nil {
			return obj, err
		}
	}
	if metaRaw, ok := raw["meta"]; ok {
		if obj.Meta, err = parseMeta(metaRaw, childPointer(ptr, "meta")); err != nil {
			return obj, err
		}
	}

	return obj, nil
}

func parseLinks(raw any, ptr string) (Links, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, invalidDocument(ptr, "links must be an object")
	}

	links := make(Links, len(obj))
	for name, value := range obj {
		linkPtr := childPointer(ptr, name)
		switch v := value.(type) {
		case string:
			links[name] = Link{Href: v}
		case map[string]any:
			href, ok := v["href"].(string)
			if !ok {
				return nil, invalidDocument(childPointer(linkPtr, "href"), "link href must be a string")
			}
			link := Link{Href: href}
			if metaRaw, ok := v["meta"]; ok {
				meta, err := parseMeta(metaRaw, childPointer(linkPtr, "meta"))
				if err != nil {
					return nil, err
				}
				link.Meta = meta
			}
			links[name] = link
		default:
			return nil, invalidDocument(linkPtr, "link must be a string or a link object")
		}
	}
	return links, nil
}

func parseMeta(raw any, ptr string) (map[string]any, error) {
	meta, ok := raw.(map[string]any)
	if !ok {
		return nil, invalidDocument(ptr, "meta must be an object")
	}
	return meta, nil
}

func parseInfo(raw any) (*Info, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, invalidDocument("/jsonapi", "jsonapi must be an object")
	}

	info := &Info{}
	var err error
	if info.Version, err = optionalAnyString(obj, "version", "/jsonapi"); err != nil {
		return nil, err
	}
	if metaRaw, ok := obj["meta"]; ok {
		if info.Meta, err = parseMeta(metaRaw, "/jsonapi/meta"); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// requiredString reads a member that must be present and a non-empty string.
func requiredString(raw map[string]any, key, ptr string) (string, error) {
	value, ok := raw[key]
	if !ok {
		return "", invalidDocument(ptr, "%s is required", key)
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return "", invalidDocument(childPointer(ptr, key), "%s must be a non-empty string", key)
	}
	return s, nil
}

// optionalString reads a member that, when present, must be a non-empty
// string.
func optionalString(raw map[string]any, key, ptr string) (string, error) {
	value, ok := raw[key]
	if !ok {
		return "", nil
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return "", invalidDocument(childPointer(ptr, key), "%s must be a non-empty string", key)
	}
	return s, nil
}

// optionalAnyString reads a member that, when present, must be a string;
// the empty string is allowed.
func optionalAnyString(raw map[string]any, key, ptr string) (string, error) {
	value, ok := raw[key]
	if !ok {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", invalidDocument(childPointer(ptr, key), "%s must be a string", key)
	}
	return s, nil
}
