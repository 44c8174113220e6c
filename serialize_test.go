package jsonapi

import (
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireOmitsAbsentMembers(t *testing.T) {
	doc := &Document{Data: SingleResource(Resource{Type: "post", ID: "1"})}
	wire := doc.Wire()

	_, hasMeta := wire["meta"]
	assert.False(t, hasMeta, "absent meta must be omitted, never null")
	_, hasLinks := wire["links"]
	assert.False(t, hasLinks)
	_, hasErrors := wire["errors"]
	assert.False(t, hasErrors)

	res := wire["data"].(map[string]any)
	_, hasAttrs := res["attributes"]
	assert.False(t, hasAttrs, "nil attributes map must be omitted")
}

func TestWireEmptyCollection(t *testing.T) {
	doc := &Document{Data: ResourceCollection(nil)}
	wire := doc.Wire()
	assert.Equal(t, []any{}, wire["data"])
}

func TestWireNullData(t *testing.T) {
	doc := &Document{Data: NullResource()}
	wire := doc.Wire()
	value, present := wire["data"]
	require.True(t, present)
	assert.Nil(t, value)
}

func TestWireEmptyAttributesKept(t *testing.T) {
	doc := &Document{Data: SingleResource(Resource{
		Type:       "post",
		ID:         "1",
		Attributes: map[string]any{},
	})}
	res := doc.Wire()["data"].(map[string]any)
	attrs, present := res["attributes"]
	require.True(t, present, "empty attributes map must be emitted")
	assert.Empty(t, attrs)
}

func TestWireLinkage(t *testing.T) {
	doc := &Document{Data: SingleResource(Resource{
		Type: "post",
		ID:   "1",
		Relationships: map[string]Relationship{
			"author":   {Data: EmptyToOneLinkage()},
			"comments": {Data: ToManyLinkage(nil)},
			"cover":    {Data: ToOneLinkage(Identifier{Type: "image", ID: "7"})},
		},
	})}

	rels := doc.Wire()["data"].(map[string]any)["relationships"].(map[string]any)

	author := rels["author"].(map[string]any)
	value, present := author["data"]
	require.True(t, present)
	assert.Nil(t, value, "empty to-one linkage renders null")

	comments := rels["comments"].(map[string]any)
	assert.Equal(t, []any{}, comments["data"], "empty to-many linkage renders []")

	cover := rels["cover"].(map[string]any)
	id := cover["data"].(map[string]any)
	assert.Equal(t, "image", id["type"])
	assert.Equal(t, "7", id["id"])
}

func TestWireLinks(t *testing.T) {
	doc := &Document{
		Data:  NullResource(),
		Links: Links{"self": {Href: "/posts"}, "docs": {Href: "/docs", Meta: map[string]any{"v": "1"}}},
	}
	links := doc.Wire()["links"].(map[string]any)
	assert.Equal(t, "/posts", links["self"])
	docsLink := links["docs"].(map[string]any)
	assert.Equal(t, "/docs", docsLink["href"])
}

func TestWireErrorObjects(t *testing.T) {
	doc := ErrorDocument(&InvalidDocumentError{Pointer: "/data/type", Message: "type must be a non-empty string"})
	wire := doc.Wire()

	_, hasData := wire["data"]
	assert.False(t, hasData)

	errs := wire["errors"].([]any)
	require.Len(t, errs, 1)
	obj := errs[0].(map[string]any)
	assert.Equal(t, "400", obj["status"])
	assert.Equal(t, "invalid_document", obj["code"])
	source := obj["source"].(map[string]any)
	assert.Equal(t, "/data/type", source["pointer"])
}

func TestMarshalUnmarshalDocument(t *testing.T) {
	doc := &Document{
		Data: SingleResource(Resource{
			Type:       "post",
			ID:         "1",
			Attributes: map[string]any{"title": "Hi"},
			Relationships: map[string]Relationship{
				"author": {Data: ToOneLinkage(Identifier{Type: "user", ID: "9"})},
			},
		}),
		Meta:    map[string]any{"count": "1"},
		JSONAPI: &Info{Version: Version11},
	}

	data, err := MarshalDocument(doc)
	require.NoError(t, err)

	parsed, err := UnmarshalDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc.Data.One.Type, parsed.Data.One.Type)
	assert.Equal(t, doc.Data.One.Attributes, parsed.Data.One.Attributes)
	assert.Equal(t, "9", parsed.Data.One.Relationships["author"].Data.One.ID)
	assert.Equal(t, Version11, parsed.JSONAPI.Version)

	// The wire bytes themselves stay valid JSON with the expected members.
	var raw map[string]any
	require.NoError(t, gojson.Unmarshal(data, &raw))
	assert.Contains(t, raw, "data")
	assert.Contains(t, raw, "jsonapi")
}

func TestUnmarshalDocumentRejectsNonObject(t *testing.T) {
	_, err := UnmarshalDocument([]byte(`[1,2]`))
	var docErr *InvalidDocumentError
	assert.ErrorAs(t, err, &docErr)
}
