package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register(postSchema()))
	require.NoError(t, r.Register(New("user", "id").Attr("name")))
	require.NoError(t, r.Register(New("comment", "id").Attr("text").ToOne("user", "user")))
	return r
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := testRegistry(t)

	s, err := r.Lookup("post")
	require.NoError(t, err)
	assert.Equal(t, "post", s.Type())
	assert.Equal(t, "id", s.IDAttribute())

	_, err = r.Lookup("article")
	assert.Error(t, err)

	assert.Equal(t, []string{"comment", "post", "user"}, r.Types())
}

func TestRegistryRejectsDuplicateType(t *testing.T) {
	r := testRegistry(t)
	err := r.Register(New("post", "id").Attr("title"))
	assert.Error(t, err)
}

func TestRegistryRejectsInvalidSchema(t *testing.T) {
	r := NewRegistry()
	err := r.Register(New("post", "id").Attr("id"))
	assert.Error(t, err)

	// A schema that failed validation must not be registered.
	_, err = r.Lookup("post")
	assert.Error(t, err)
}

func TestRegistryMustLookupPanicsOnUnknownType(t *testing.T) {
	r := testRegistry(t)
	assert.Panics(t, func() { r.MustLookup("nope") })
	assert.NotPanics(t, func() { r.MustLookup("post") })
}

func TestRegistryTarget(t *testing.T) {
	r := testRegistry(t)
	post := r.MustLookup("post")

	rel, ok := post.Relationship("author")
	require.True(t, ok)

	target, err := r.Target(rel)
	require.NoError(t, err)
	assert.Equal(t, "user", target.Type())
}

func TestRegistryValidateTargets(t *testing.T) {
	r := testRegistry(t)
	require.NoError(t, r.ValidateTargets())

	require.NoError(t, r.Register(New("tag", "id").ToMany("posts", "ghost")))
	err := r.ValidateTargets()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}
