package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runCommand(stdin string, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestValidateCommand(t *testing.T) {
	assert := assert.New(t)

	code, stdout, _ := runCommand("",
		"-schema", "../../schema/testdata/product.json",
		"validate", "-instance", `{"productId": 1, "productName": "ice", "price": 2.5}`)
	assert.Equal(exitOK, code)
	assert.Equal("valid\n", stdout)

	code, _, stderr := runCommand("",
		"-schema", "../../schema/testdata/product.json",
		"validate", "-instance", `{"productId": 1, "price": 2.5}`)
	assert.Equal(exitInvalid, code)
	assert.Contains(stderr, `missing required property "productName"`)

	// the instance is read from stdin when not given
	code, _, _ = runCommand(`{"productId": 1, "productName": "ice", "price": -1}`,
		"-schema", "../../schema/testdata/product.json", "validate")
	assert.Equal(exitInvalid, code)

	code, _, _ = runCommand("",
		"-schema", "../../schema/testdata/product.json",
		"validate", "-instance", `{"productId": 1,`)
	assert.Equal(exitUsage, code)
}

func TestValidateEnvSchema(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("SCHEMAWALK_SCHEMA", "../../schema/testdata/shape.json")
	code, _, _ := runCommand("", "validate", "-instance", `{"radius": 3}`)
	assert.Equal(exitOK, code)

	t.Setenv("SCHEMAWALK_SCHEMA", "")
	code, _, stderr := runCommand("", "validate", "-instance", `{"radius": 3}`)
	assert.Equal(exitUsage, code)
	assert.Contains(stderr, "no schema document")
}

func TestUsageErrors(t *testing.T) {
	assert := assert.New(t)

	code, _, _ := runCommand("", "-schema", "../../schema/testdata/product.json")
	assert.Equal(exitUsage, code)

	code, _, stderr := runCommand("", "-schema", "../../schema/testdata/product.json", "explode")
	assert.Equal(exitUsage, code)
	assert.Contains(stderr, "unknown command explode")

	code, _, stderr = runCommand("", "-schema", "testdata/not-there.json", "validate")
	assert.Equal(exitUsage, code)
	assert.Contains(stderr, "load error")

	code, _, stderr = runCommand("", "-schema", "../../schema/testdata/tree.json", "validate", "-instance", "{}")
	assert.Equal(exitUsage, code)
	assert.Contains(stderr, "cyclic reference")

	code, _, _ = runCommand("", "-schema", "../../schema/testdata/product.json", "convert", "-format", "protobuf")
	assert.Equal(exitUsage, code)
}

func TestConvertCommand(t *testing.T) {
	assert := assert.New(t)

	code, stdout, _ := runCommand("", "-schema", "../../schema/testdata/product.json", "convert")
	assert.Equal(exitOK, code)
	assert.Contains(stdout, `"type": "record"`)
	assert.Contains(stdout, `"name": "Product"`)
}

func TestOpenAPICommands(t *testing.T) {
	assert := assert.New(t)

	code, stdout, _ := runCommand("",
		"-schema", "../../openapi/testdata/petstore.yaml", "-openapi",
		"validate", "-component", "Pet", "-instance", `{"id": 1, "name": "kitty"}`)
	assert.Equal(exitOK, code)
	assert.Equal("valid\n", stdout)

	code, _, _ = runCommand("",
		"-schema", "../../openapi/testdata/petstore.yaml", "-openapi",
		"validate", "-component", "Pet", "-instance", `{"id": 1}`)
	assert.Equal(exitInvalid, code)

	code, _, stderr := runCommand("",
		"-schema", "../../openapi/testdata/petstore.yaml", "-openapi",
		"validate", "-instance", `{}`)
	assert.Equal(exitUsage, code)
	assert.Contains(stderr, "-component is required")

	code, stdout, _ = runCommand("",
		"-schema", "../../openapi/testdata/petstore.yaml", "-openapi",
		"convert", "-component", "NewPet")
	assert.Equal(exitOK, code)
	assert.Contains(stdout, `"type": "record"`)
	assert.Contains(stdout, `"name": "tag"`)
}
