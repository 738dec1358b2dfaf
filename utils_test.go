package schemawalk

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

type vt1 struct {
	Username string `json:"user_name"`
	Age      int    `json:"a"`
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	var v vt1
	err := DecodeInterface(map[string]any{
		"user_name": "boy",
		"a":         5,
	}, &v)

	assert.Nil(err)
	assert.Equal("boy", v.Username)
	assert.Equal(5, v.Age)
}

func TestGuessJson(t *testing.T) {
	assert := assert.New(t)

	v, err := GuessJson("true")
	assert.Nil(err)
	assert.Equal(true, v)

	v, err = GuessJson("null")
	assert.Nil(err)
	assert.Nil(v)

	v, err = GuessJson("-5.0")
	assert.Nil(err)
	assert.Equal(json.Number("-5.0"), v)

	v, err = GuessJson(`{"age": 3}`)
	assert.Nil(err)
	assert.Equal(map[string]any{"age": json.Number("3")}, v)

	v, err = GuessJson(`["home", 3.5]`)
	assert.Nil(err)
	assert.Equal([]any{"home", json.Number("3.5")}, v)

	v, err = GuessJson("green")
	assert.Nil(err)
	assert.Equal("green", v)

	_, err = GuessJson("{bad")
	assert.NotNil(err)

	v, err = GuessJson("12e-3")
	assert.Nil(err)
	assert.Equal(json.Number("12e-3"), v)

	// numbers outside the JSON grammar stay strings
	for _, input := range []string{"-Inf", "0x1p4", "1_0", "007", "1.", "-", "+1"} {
		v, err = GuessJson(input)
		assert.Nil(err)
		assert.Equal(input, v, "input %s", input)
	}

	_, err = GuessJson(`{"a": 1} trailing`)
	assert.NotNil(err)
}

func TestEncodePretty(t *testing.T) {
	assert := assert.New(t)

	s, err := EncodePretty(map[string]any{"type": "long"})
	assert.Nil(err)
	assert.Equal("{\n  \"type\": \"long\"\n}", s)

	s, err = MarshalJson([]any{1, "a"})
	assert.Nil(err)
	assert.Equal(`[1,"a"]`, s)
}
