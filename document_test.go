package schemawalk

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestLoadBytes(t *testing.T) {
	assert := assert.New(t)

	doc, err := LoadBytes([]byte(`{"type": "integer", "minimum": 3}`), ".json")
	assert.Nil(err)
	assert.Equal("integer", doc["type"])
	assert.Equal(json.Number("3"), doc["minimum"])

	doc, err = LoadBytes([]byte("type: object\nproperties:\n  name:\n    type: string\n"), "yaml")
	assert.Nil(err)
	props, ok := doc["properties"].(map[string]any)
	assert.True(ok)
	name, ok := props["name"].(map[string]any)
	assert.True(ok)
	assert.Equal("string", name["type"])

	_, err = LoadBytes([]byte(`[1, 2]`), "json")
	assert.NotNil(err)
	assert.Equal("document is not an object", err.Error())

	_, err = LoadBytes([]byte(`{"type": `), "json")
	assert.NotNil(err)
}

func TestFixYamlMaps(t *testing.T) {
	assert := assert.New(t)

	fixed, err := FixYamlMaps(map[any]any{
		"a": []any{map[any]any{"b": 1}},
	})
	assert.Nil(err)
	assert.Equal(map[string]any{"a": []any{map[string]any{"b": 1}}}, fixed)

	_, err = FixYamlMaps(map[any]any{
		"a": map[any]any{3: "x"},
	})
	assert.NotNil(err)
	assert.Equal("not string key .a.3", err.Error())
}

func TestLoadFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yml")
	err := os.WriteFile(path, []byte("enum: [red, amber, green]\n"), 0o644)
	assert.Nil(err)

	doc, err := LoadFile(path)
	assert.Nil(err)
	assert.Equal([]any{"red", "amber", "green"}, doc["enum"])

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.NotNil(err)
}

func TestDecodeJSON(t *testing.T) {
	assert := assert.New(t)

	v, err := DecodeJSON([]byte("{\"a\": 1}\n  \n"))
	assert.Nil(err)
	assert.Equal(map[string]any{"a": json.Number("1")}, v)

	v, err = DecodeJSON([]byte(`12`))
	assert.Nil(err)
	assert.Equal(json.Number("12"), v)

	for _, input := range []string{`{"a":1} trailing garbage`, `{"a":1}}`, `1 2`, `[] []`} {
		_, err = DecodeJSON([]byte(input))
		assert.NotNil(err, "input %s", input)
	}

	_, err = LoadBytes([]byte(`{"type": "string"} {"type": "integer"}`), "json")
	assert.Contains(err.Error(), "unexpected data after the value")
}
