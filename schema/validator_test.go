package schema

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/superisaac/schemawalk"
)

func buildSchema(t *testing.T, data string) Schema {
	builder := NewSchemaBuilder()
	s, err := builder.BuildBytes([]byte(data))
	assert.Nil(t, err)
	return s
}

func validateData(t *testing.T, s Schema, data string) error {
	v, err := schemawalk.DecodeJSON([]byte(data))
	assert.Nil(t, err)
	return Validate(s, v)
}

func validationError(t *testing.T, err error) *ValidationError {
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr), "error %v is not a validation error", err)
	return verr
}

func TestValidateString(t *testing.T) {
	assert := assert.New(t)

	s := buildSchema(t, `{"type": "string", "maxLength": 3}`)
	err := validateData(t, s, `"A green door"`)
	verr := validationError(t, err)
	assert.Equal("maxLength", verr.Rule)
	assert.Equal("$", verr.Path())
	assert.Nil(validateData(t, s, `"abc"`))
	// lengths count characters, not bytes
	assert.Nil(validateData(t, s, `"héé"`))

	s = buildSchema(t, `{"type": "string", "minLength": 15}`)
	verr = validationError(t, validateData(t, s, `"A green door"`))
	assert.Equal("minLength", verr.Rule)

	s = buildSchema(t, `{"type": "string", "pattern": "gray|grey"}`)
	verr = validationError(t, validateData(t, s, `"green"`))
	assert.Equal("pattern", verr.Rule)
	assert.Nil(validateData(t, s, `"grey goose"`))
	// the pattern is anchored at the start of the instance
	verr = validationError(t, validateData(t, s, `"light grey"`))
	assert.Equal("pattern", verr.Rule)

	verr = validationError(t, validateData(t, s, `12`))
	assert.Equal("type", verr.Rule)
}

func TestValidateBooleanAndNull(t *testing.T) {
	assert := assert.New(t)

	s := buildSchema(t, `{"type": "boolean"}`)
	verr := validationError(t, validateData(t, s, `"true"`))
	assert.Equal("type", verr.Rule)
	assert.Nil(validateData(t, s, `false`))

	s = buildSchema(t, `{"type": "null"}`)
	verr = validationError(t, validateData(t, s, `false`))
	assert.Equal("type", verr.Rule)
	assert.Nil(validateData(t, s, `null`))
}

func TestValidateNumeric(t *testing.T) {
	assert := assert.New(t)

	s := buildSchema(t, `{"type": "number", "minimum": 0, "exclusiveMaximum": 100}`)
	verr := validationError(t, validateData(t, s, `100.0`))
	assert.Equal("exclusiveMaximum", verr.Rule)
	verr = validationError(t, validateData(t, s, `-1.0`))
	assert.Equal("minimum", verr.Rule)
	assert.Nil(validateData(t, s, `0`))
	assert.Nil(validateData(t, s, `99.5`))

	s = buildSchema(t, `{"type": "number", "exclusiveMinimum": 50}`)
	verr = validationError(t, validateData(t, s, `20.0`))
	assert.Equal("exclusiveMinimum", verr.Rule)
	verr = validationError(t, validateData(t, s, `50`))
	assert.Equal("exclusiveMinimum", verr.Rule)

	s = buildSchema(t, `{"type": "number", "maximum": 100}`)
	verr = validationError(t, validateData(t, s, `101.0`))
	assert.Equal("maximum", verr.Rule)
	assert.Equal(json.Number("100"), verr.Constraint)
	assert.Nil(validateData(t, s, `100`))

	s = buildSchema(t, `{"type": "integer"}`)
	verr = validationError(t, validateData(t, s, `3.14159265359`))
	assert.Equal("type", verr.Rule)
	assert.Nil(validateData(t, s, `3`))
	// integral floats are integers
	assert.Nil(validateData(t, s, `3.0`))

	s = buildSchema(t, `{"type": "number", "multipleOf": 0.1}`)
	assert.Nil(validateData(t, s, `0.3`))
	verr = validationError(t, validateData(t, s, `0.35`))
	assert.Equal("multipleOf", verr.Rule)

	// any Go numeric kind is accepted
	s = buildSchema(t, `{"type": "integer", "maximum": 10}`)
	assert.Nil(Validate(s, 7))
	assert.Nil(Validate(s, int64(7)))
	assert.Nil(Validate(s, float32(7)))
	assert.Nil(Validate(s, json.Number("7")))
	assert.NotNil(Validate(s, uint8(11)))
	assert.NotNil(Validate(s, float64(10.5)))
}

func TestValidateExactNumbers(t *testing.T) {
	assert := assert.New(t)

	// integers above 2^53 are not rounded
	s := buildSchema(t, `{"type": "integer", "multipleOf": 2}`)
	verr := validationError(t, validateData(t, s, `9007199254740993`))
	assert.Equal("multipleOf", verr.Rule)
	assert.Equal("Validation Error: $ instance 9007199254740993 division by 2 is not an integer", verr.Error())
	assert.Nil(validateData(t, s, `9007199254740994`))
	assert.NotNil(Validate(s, uint64(18446744073709551615)))
	assert.Nil(Validate(s, int64(-9223372036854775808)))

	s = buildSchema(t, `{"type": "integer", "maximum": 9007199254740992}`)
	verr = validationError(t, validateData(t, s, `9007199254740993`))
	assert.Equal("maximum", verr.Rule)
	assert.Equal(json.Number("9007199254740992"), verr.Constraint)
	assert.Nil(validateData(t, s, `9007199254740992`))

	s = buildSchema(t, `{"type": "integer", "minimum": 100000000000000000001}`)
	verr = validationError(t, validateData(t, s, `100000000000000000000`))
	assert.Equal("minimum", verr.Rule)

	// near multiples are not multiples
	s = buildSchema(t, `{"type": "number", "multipleOf": 1000}`)
	verr = validationError(t, validateData(t, s, `3000.0000005`))
	assert.Equal("multipleOf", verr.Rule)
	assert.NotNil(Validate(s, 3000.0000005))
	assert.Nil(validateData(t, s, `3000`))
	assert.Nil(validateData(t, s, `3e3`))

	// floats compare by their shortest decimal form
	s = buildSchema(t, `{"type": "number", "multipleOf": 0.01, "maximum": 0.3}`)
	assert.Nil(Validate(s, 0.07))
	assert.NotNil(Validate(s, 0.075))
	assert.NotNil(Validate(s, 0.31))

	s = buildSchema(t, `{"enum": [0.1, 12345678901234567891]}`)
	assert.Nil(Validate(s, 0.1))
	assert.Nil(validateData(t, s, `12345678901234567891`))
	assert.NotNil(validateData(t, s, `12345678901234567890`))
}

func TestValidateArray(t *testing.T) {
	assert := assert.New(t)

	s := buildSchema(t, `{
  "type": "array",
  "items": [{"type": "string"}],
  "minItems": 1,
  "uniqueItems": true
}`)
	verr := validationError(t, validateData(t, s, `[]`))
	assert.Equal("minItems", verr.Rule)
	verr = validationError(t, validateData(t, s, `["home", "home", "green"]`))
	assert.Equal("uniqueItems", verr.Rule)

	s = buildSchema(t, `{
  "type": "array",
  "items": [{"type": "string"}],
  "additionalItems": {"type": "number"},
  "minItems": 1,
  "uniqueItems": true
}`)
	assert.Nil(validateData(t, s, `["home", 3.5]`))
	assert.Nil(validateData(t, s, `["home", 3.5, 4]`))
	verr = validationError(t, validateData(t, s, `["home", "text"]`))
	assert.Equal("type", verr.Rule)
	assert.Equal("$[1]", verr.Path())
	assert.Equal("text", verr.Instance)

	s = buildSchema(t, `{"type": "array", "maxItems": 1}`)
	verr = validationError(t, validateData(t, s, `[1, 2, 3]`))
	assert.Equal("maxItems", verr.Rule)

	s = buildSchema(t, `{"type": "array", "items": {"type": "integer"}}`)
	assert.Nil(validateData(t, s, `[1, 2, 3]`))
	verr = validationError(t, validateData(t, s, `[1, 2, "3"]`))
	assert.Equal("$[2]", verr.Path())

	s = buildSchema(t, `{"type": "array", "uniqueItems": true}`)
	verr = validationError(t, validateData(t, s, `[{"a": 1}, {"a": 1.0}]`))
	assert.Equal("uniqueItems", verr.Rule)
	assert.Nil(validateData(t, s, `[{"a": 1}, {"a": 2}, [1], 1]`))

	// a false schema rejects every element past the tuple
	s = buildSchema(t, `{"type": "array", "items": [{"type": "string"}], "additionalItems": false}`)
	assert.Nil(validateData(t, s, `["a"]`))
	verr = validationError(t, validateData(t, s, `["a", "b"]`))
	assert.Equal("not", verr.Rule)
	assert.Equal("$[1]", verr.Path())
}

func TestValidateObject(t *testing.T) {
	assert := assert.New(t)

	s := buildSchema(t, `{
  "type": "object",
  "properties": {
    "firstName": {"type": "string"},
    "lastName": {"type": "string"},
    "age": {"type": "integer", "minimum": 0}
  },
  "required": ["firstName", "lastName"]
}`)
	verr := validationError(t, validateData(t, s, `{"age": -1}`))
	assert.Equal("required", verr.Rule)
	assert.Equal("firstName", verr.Constraint)
	assert.Contains(verr.Error(), `"firstName"`)

	verr = validationError(t, validateData(t, s, `{"firstName": "John", "age": 3}`))
	assert.Equal("required", verr.Rule)
	assert.Equal("lastName", verr.Constraint)

	verr = validationError(t, validateData(t, s, `{"firstName": "John", "lastName": "Doe", "age": -1}`))
	assert.Equal("minimum", verr.Rule)
	assert.Equal("$.age", verr.Path())
	assert.Equal("Validation Error: $.age instance -1 is not greater than or exactly equal to 0", verr.Error())

	assert.Nil(validateData(t, s, `{"firstName": "John", "lastName": "Doe", "age": 40, "id": 1}`))

	s = buildSchema(t, `{
  "type": "object",
  "properties": {
    "firstName": {"type": "string"},
    "lastName": {"type": "string"}
  },
  "additionalProperties": {"type": "string"}
}`)
	verr = validationError(t, validateData(t, s, `{"firstName": "John", "lastName": "Doe", "age": 40, "id": 1}`))
	assert.Equal("$.age", verr.Path())
	assert.Nil(validateData(t, s, `{"firstName": "John", "nickName": "JD"}`))

	s = buildSchema(t, `{"type": "object", "maxProperties": 1}`)
	verr = validationError(t, validateData(t, s, `{"firstName": "John", "lastName": "Doe"}`))
	assert.Equal("maxProperties", verr.Rule)

	s = buildSchema(t, `{"type": "object", "minProperties": 1}`)
	verr = validationError(t, validateData(t, s, `{}`))
	assert.Equal("minProperties", verr.Rule)

	s = buildSchema(t, `{"type": "object", "additionalProperties": false}`)
	assert.Nil(validateData(t, s, `{}`))
	verr = validationError(t, validateData(t, s, `{"x": 1}`))
	assert.Equal("$.x", verr.Path())

	s = buildSchema(t, `{
  "type": "object",
  "properties": {
    "address": {
      "type": "object",
      "properties": {"zip": {"type": "string"}}
    }
  }
}`)
	verr = validationError(t, validateData(t, s, `{"address": {"zip": 10001}}`))
	assert.Equal("$.address.zip", verr.Path())
	verr = validationError(t, validateData(t, s, `[]`))
	assert.Equal("type", verr.Rule)
}

func TestValidateConstAndEnum(t *testing.T) {
	assert := assert.New(t)

	s := buildSchema(t, `{
  "type": "object",
  "properties": {
    "five": {"type": "number", "const": 5.0}
  }
}`)
	verr := validationError(t, validateData(t, s, `{"five": 0.0}`))
	assert.Equal("const", verr.Rule)
	assert.Nil(validateData(t, s, `{"five": 5}`))

	s = buildSchema(t, `{"enum": ["red", "amber", "green"]}`)
	verr = validationError(t, validateData(t, s, `"blue"`))
	assert.Equal("enum", verr.Rule)
	assert.Nil(validateData(t, s, `"amber"`))

	// enum is checked on typed schemas too
	s = buildSchema(t, `{"type": "integer", "enum": [1, 2]}`)
	assert.Nil(validateData(t, s, `2`))
	verr = validationError(t, validateData(t, s, `3`))
	assert.Equal("enum", verr.Rule)

	// a bare schema with no keywords accepts anything
	s = buildSchema(t, `{}`)
	assert.Nil(validateData(t, s, `{"any": [1, "thing"]}`))
}

func TestValidateUnion(t *testing.T) {
	assert := assert.New(t)

	s := buildSchema(t, `{"type": ["number", "string"]}`)
	verr := validationError(t, validateData(t, s, `true`))
	assert.Equal("type", verr.Rule)
	assert.Nil(validateData(t, s, `1.5`))
	assert.Nil(validateData(t, s, `7`))
	assert.Nil(validateData(t, s, `"seven"`))

	s = buildSchema(t, `{"type": ["integer", "null"]}`)
	assert.Nil(validateData(t, s, `null`))
	assert.NotNil(validateData(t, s, `1.5`))
}

func TestValidateCombinators(t *testing.T) {
	assert := assert.New(t)

	s := buildSchema(t, `{"allOf": [{"type": "string", "maxLength": 3}]}`)
	verr := validationError(t, validateData(t, s, `"green"`))
	assert.Equal("maxLength", verr.Rule)
	assert.Nil(validateData(t, s, `"red"`))

	s = buildSchema(t, `{
  "anyOf": [
    {"type": "string", "maxLength": 5},
    {"type": "number", "minimum": 0}
  ]
}`)
	verr = validationError(t, validateData(t, s, `"A green door"`))
	assert.Equal("anyOf", verr.Rule)
	verr = validationError(t, validateData(t, s, `-5.0`))
	assert.Equal("anyOf", verr.Rule)
	assert.Nil(validateData(t, s, `"hi"`))
	assert.Nil(validateData(t, s, `12`))

	s = buildSchema(t, `{
  "oneOf": [
    {"type": "number", "multipleOf": 5},
    {"type": "number", "multipleOf": 3}
  ]
}`)
	verr = validationError(t, validateData(t, s, `15`))
	assert.Equal("oneOf", verr.Rule)
	assert.Contains(verr.Hint(), "valid against 2 schemas")
	verr = validationError(t, validateData(t, s, `2.0`))
	assert.Equal("oneOf", verr.Rule)
	assert.Nil(validateData(t, s, `10`))
	assert.Nil(validateData(t, s, `9`))

	// combinator failures keep the location of the instance
	s = buildSchema(t, `{
  "type": "object",
  "properties": {
    "size": {"anyOf": [{"type": "string"}, {"type": "integer"}]}
  }
}`)
	verr = validationError(t, validateData(t, s, `{"size": 1.5}`))
	assert.Equal("$.size", verr.Path())
}

func TestValidateUnresolvedReference(t *testing.T) {
	assert := assert.New(t)

	s := buildSchema(t, `{
  "type": "object",
  "properties": {
    "location": {"$ref": "#/definitions/location"}
  }
}`)
	err := validateData(t, s, `{"location": {}}`)
	assert.True(errors.Is(err, ErrUnresolvedReference))

	// references inside combinators are usage errors too, not failures
	s = buildSchema(t, `{"anyOf": [{"$ref": "#/definitions/a"}, {"type": "string"}]}`)
	err = validateData(t, s, `"x"`)
	assert.True(errors.Is(err, ErrUnresolvedReference))
}

func TestValidatorReuse(t *testing.T) {
	assert := assert.New(t)

	s := buildSchema(t, `{"type": "array", "items": {"type": "string"}}`)
	validator := NewSchemaValidator()
	verr := validationError(t, validator.ValidateBytes(s, []byte(`["a", 1]`)))
	assert.Equal("$[1]", verr.Path())
	assert.Nil(validator.ValidateBytes(s, []byte(`["a", "b"]`)))
	verr = validationError(t, validator.ValidateBytes(s, []byte(`[2]`)))
	assert.Equal("$[0]", verr.Path())

	_, err := schemawalk.DecodeJSON([]byte(`[1,`))
	assert.NotNil(err)
	assert.NotNil(validator.ValidateBytes(s, []byte(`[1,`)))
}
