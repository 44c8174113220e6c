package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/jsonapi/schema"
)

// blogRegistry wires post -> user (author), post -> comment (comments),
// comment -> user, giving include chains like comments.user.
func blogRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	r := schema.NewRegistry()
	r.MustRegister(schema.New("post", "id").
		Attr("title").
		Attr("body").
		ToOne("author", "user").
		ToMany("comments", "comment"))
	r.MustRegister(schema.New("user", "id").
		Attr("name").
		Attr("email"))
	r.MustRegister(schema.New("comment", "id").
		Attr("text").
		ToOne("user", "user").
		ToMany("likes", "user"))
	require.NoError(t, r.ValidateTargets())
	return r
}

func blogConfig(t *testing.T) Config {
	return Config{Registry: blogRegistry(t), Type: "post"}
}

func TestParseSort(t *testing.T) {
	cfg := blogConfig(t)

	t.Run("direction and order", func(t *testing.T) {
		fields, err := ParseSort("-title,body", cfg)
		require.NoError(t, err)
		require.Len(t, fields, 2)
		assert.Equal(t, SortField{Direction: Desc, Field: "title"}, fields[0])
		assert.Equal(t, SortField{Direction: Asc, Field: "body"}, fields[1])
	})

	t.Run("dotted relationship path", func(t *testing.T) {
		fields, err := ParseSort("author.name", cfg)
		require.NoError(t, err)
		require.Len(t, fields, 1)
		assert.Equal(t, "author.name", fields[0].Field)
	})

	t.Run("recases wire names", func(t *testing.T) {
		fields, err := ParseSort("-author.firstName", Config{Registry: userWithFirstName(t), Type: "post"})
		require.NoError(t, err)
		assert.Equal(t, "author.first_name", fields[0].Field)
	})

	t.Run("empty value", func(t *testing.T) {
		fields, err := ParseSort("", cfg)
		require.NoError(t, err)
		assert.Nil(t, fields)
	})

	t.Run("unknown attribute fails", func(t *testing.T) {
		_, err := ParseSort("rating", cfg)
		var qe *Error
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, "sort", qe.Param)
		assert.Equal(t, "rating", qe.Value)
		assert.Equal(t, "post", qe.ResourceType)
	})

	t.Run("intermediate segment must be a relationship", func(t *testing.T) {
		_, err := ParseSort("title.name", cfg)
		var qe *Error
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, "title.name", qe.Value)
	})

	t.Run("final segment must be an attribute", func(t *testing.T) {
		_, err := ParseSort("-comments.user", cfg)
		var qe *Error
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, "comment", qe.ResourceType)
	})
}

func userWithFirstName(t *testing.T) *schema.Registry {
	t.Helper()
	r := schema.NewRegistry()
	r.MustRegister(schema.New("post", "id").Attr("title").ToOne("author", "user"))
	r.MustRegister(schema.New("user", "id").Attr("first_name"))
	return r
}

func TestParseInclude(t *testing.T) {
	cfg := blogConfig(t)

	t.Run("builds merged tree", func(t *testing.T) {
		tree, err := ParseInclude("author,comments.user", cfg)
		require.NoError(t, err)
		assert.Equal(t, IncludeTree{
			"author":   IncludeTree{},
			"comments": IncludeTree{"user": IncludeTree{}},
		}, tree)
	})

	t.Run("merges shared prefixes", func(t *testing.T) {
		tree, err := ParseInclude("comments.user,comments.likes", cfg)
		require.NoError(t, err)
		assert.Equal(t, IncludeTree{
			"comments": IncludeTree{
				"user":  IncludeTree{},
				"likes": IncludeTree{},
			},
		}, tree)
	})

	t.Run("duplicate paths are idempotent", func(t *testing.T) {
		once, err := ParseInclude("comments.user", cfg)
		require.NoError(t, err)
		twice, err := ParseInclude("comments.user,comments.user", cfg)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("unknown relationship names the path", func(t *testing.T) {
		_, err := ParseInclude("bogus", cfg)
		var qe *Error
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, "include", qe.Param)
		assert.Equal(t, "bogus", qe.Value)
		assert.Equal(t, "post", qe.ResourceType)
	})

	t.Run("unknown nested segment reports failing type", func(t *testing.T) {
		_, err := ParseInclude("comments.parent", cfg)
		var qe *Error
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, "comments.parent", qe.Value)
		assert.Equal(t, "comment", qe.ResourceType)
	})

	t.Run("recases dotted segments", func(t *testing.T) {
		r := schema.NewRegistry()
		r.MustRegister(schema.New("post", "id").ToMany("top_comments", "comment"))
		r.MustRegister(schema.New("comment", "id").Attr("text"))
		tree, err := ParseInclude("topComments", Config{Registry: r, Type: "post"})
		require.NoError(t, err)
		assert.True(t, tree.Contains("top_comments"))
	})

	t.Run("empty value yields empty tree", func(t *testing.T) {
		tree, err := ParseInclude("", cfg)
		require.NoError(t, err)
		assert.Empty(t, tree)
	})
}

func TestParseIncludeAllowList(t *testing.T) {
	reg := blogRegistry(t)

	cfg := Config{
		Registry: reg,
		Type:     "post",
		AllowedIncludes: IncludeTree{
			"comments": IncludeTree{"user": IncludeTree{}},
		},
	}

	t.Run("permitted path passes", func(t *testing.T) {
		tree, err := ParseInclude("comments.user", cfg)
		require.NoError(t, err)
		assert.True(t, tree.Child("comments").Contains("user"))
	})

	t.Run("declared but not allowed fails", func(t *testing.T) {
		_, err := ParseInclude("author", cfg)
		var qe *Error
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, "author", qe.Value)
	})

	t.Run("descent beyond allow-list leaf fails", func(t *testing.T) {
		leafCfg := Config{
			Registry:        reg,
			Type:            "post",
			AllowedIncludes: IncludeTree{"comments": nil},
		}
		_, err := ParseInclude("comments", leafCfg)
		require.NoError(t, err)
		_, err = ParseInclude("comments.user", leafCfg)
		assert.Error(t, err)
	})
}

func TestIncludeTreePaths(t *testing.T) {
	tree := IncludeTree{
		"author": IncludeTree{},
		"comments": IncludeTree{
			"user":  IncludeTree{},
			"likes": IncludeTree{},
		},
	}
	assert.Equal(t, []string{"author", "comments.likes", "comments.user"}, tree.Paths())
}

func TestParseFields(t *testing.T) {
	cfg := blogConfig(t)

	t.Run("restricts to known attributes", func(t *testing.T) {
		fields, err := ParseFields(map[string]string{"post": "title"}, cfg)
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"title": true}, fields["post"])
		assert.True(t, fields.Allows("post", "title"))
		assert.False(t, fields.Allows("post", "body"))
	})

	t.Run("unrestricted type allows everything", func(t *testing.T) {
		fields, err := ParseFields(map[string]string{"post": "title"}, cfg)
		require.NoError(t, err)
		assert.True(t, fields.Allows("user", "name"))
	})

	t.Run("empty string means no attributes", func(t *testing.T) {
		fields, err := ParseFields(map[string]string{"post": ""}, cfg)
		require.NoError(t, err)
		set, restricted := fields["post"]
		require.True(t, restricted)
		assert.Empty(t, set)
		assert.False(t, fields.Allows("post", "title"))
	})

	t.Run("relationship target types resolve", func(t *testing.T) {
		fields, err := ParseFields(map[string]string{"user": "name"}, cfg)
		require.NoError(t, err)
		assert.True(t, fields.Allows("user", "name"))
	})

	t.Run("transitively reachable types resolve", func(t *testing.T) {
		// user is only reachable from post through comments.user as well;
		// comment itself is reachable through the comments relationship.
		_, err := ParseFields(map[string]string{"comment": "text"}, cfg)
		require.NoError(t, err)
	})

	t.Run("recases requested names", func(t *testing.T) {
		r := schema.NewRegistry()
		r.MustRegister(schema.New("user", "id").Attr("first_name"))
		fields, err := ParseFields(map[string]string{"user": "firstName"},
			Config{Registry: r, Type: "user"})
		require.NoError(t, err)
		assert.True(t, fields.Allows("user", "first_name"))
	})

	t.Run("unreachable type fails", func(t *testing.T) {
		_, err := ParseFields(map[string]string{"tag": "name"}, cfg)
		var qe *Error
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, "fields[tag]", qe.Param)
	})

	t.Run("unknown attributes are listed", func(t *testing.T) {
		_, err := ParseFields(map[string]string{"post": "title,rating,views"}, cfg)
		var qe *Error
		require.ErrorAs(t, err, &qe)
		assert.Contains(t, qe.Message, "rating")
		assert.Contains(t, qe.Message, "views")
	})
}

func TestParseFieldsRecasesTypeKeys(t *testing.T) {
	r := schema.NewRegistry()
	r.MustRegister(schema.New("blog_post", "id").
		Attr("title").
		ToOne("cover_image", "media_file"))
	r.MustRegister(schema.New("media_file", "id").Attr("url"))
	cfg := Config{Registry: r, Type: "blog_post"}

	fields, err := ParseFields(map[string]string{
		"blogPost":  "title",
		"mediaFile": "url",
	}, cfg)
	require.NoError(t, err)

	assert.True(t, fields.Allows("blog_post", "title"))
	assert.True(t, fields.Allows("media_file", "url"))
	assert.False(t, fields.Allows("media_file", "checksum"))
}

func TestParseFilterAndPage(t *testing.T) {
	filter, err := ParseFilter(map[string]any{"status": "published"})
	require.NoError(t, err)
	assert.Equal(t, "published", filter["status"])

	filter, err = ParseFilter(nil)
	require.NoError(t, err)
	assert.Empty(t, filter)

	_, err = ParseFilter("status=published")
	var qe *Error
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "filter", qe.Param)

	page, err := ParsePage(map[string]any{"limit": "10"})
	require.NoError(t, err)
	assert.Equal(t, "10", page["limit"])

	_, err = ParsePage([]any{"10"})
	assert.Error(t, err)
}

func TestParseAssemblesParams(t *testing.T) {
	cfg := blogConfig(t)

	params, err := Parse(Raw{
		Sort:    "-title",
		Include: "author",
		Fields:  map[string]string{"post": "title"},
		Filter:  map[string]any{"status": "published"},
		Page:    map[string]any{"offset": "20"},
	}, cfg)
	require.NoError(t, err)

	assert.Equal(t, []SortField{{Direction: Desc, Field: "title"}}, params.Sort)
	assert.True(t, params.Include.Contains("author"))
	assert.True(t, params.Fields.Allows("post", "title"))
	assert.Equal(t, "published", params.Filter["status"])
	assert.Equal(t, "20", params.Page["offset"])
}

func TestParseFailsFast(t *testing.T) {
	cfg := blogConfig(t)

	_, err := Parse(Raw{Sort: "bogus", Include: "also.bogus"}, cfg)
	var qe *Error
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, "sort", qe.Param)
}
