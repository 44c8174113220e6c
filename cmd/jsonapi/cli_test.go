package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/jsonapi"
	"github.com/conduit-lang/jsonapi/schema"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func postEngine(t *testing.T) *jsonapi.Engine {
	t.Helper()

	reg := schema.NewRegistry()
	reg.MustRegister(schema.New("post", "id").Attr("title"))
	return jsonapi.NewEngine(reg)
}

func TestValidateFileValidDocument(t *testing.T) {
	path := writeDoc(t, "ok.json",
		`{"data": {"type": "post", "id": "1", "attributes": {"title": "Hello"}}}`)

	res := validateFile(path, nil)

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateFileStructuralFailure(t *testing.T) {
	path := writeDoc(t, "bad.json", `{"data": {"type": "", "id": "1"}}`)

	res := validateFile(path, nil)

	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "/data/type", res.Errors[0].Pointer)
}

func TestValidateFileNotJSON(t *testing.T) {
	path := writeDoc(t, "bad.json", `not json at all`)

	res := validateFile(path, nil)

	require.False(t, res.Valid)
	assert.Empty(t, res.Errors[0].Pointer)
}

func TestValidateFileMissing(t *testing.T) {
	res := validateFile(filepath.Join(t.TempDir(), "absent.json"), nil)

	assert.False(t, res.Valid)
}

func TestValidateFileTypeMismatch(t *testing.T) {
	validateType = "post"
	defer func() { validateType = "" }()

	path := writeDoc(t, "wrong.json",
		`{"data": {"type": "user", "id": "1"}}`)

	res := validateFile(path, postEngine(t))

	require.False(t, res.Valid)
	assert.Equal(t, "/data/type", res.Errors[0].Pointer)
	assert.Contains(t, res.Errors[0].Message, `"user"`)
}

func TestValidateFileTypedDocument(t *testing.T) {
	validateType = "post"
	defer func() { validateType = "" }()

	path := writeDoc(t, "ok.json",
		`{"data": [{"type": "post", "id": "1", "attributes": {"title": "A"}},
		           {"type": "post", "lid": "tmp-1", "attributes": {"title": "B"}}]}`)

	res := validateFile(path, postEngine(t))

	assert.True(t, res.Valid)
}
