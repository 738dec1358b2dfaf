// schemawalk loads JSON-Schema and OpenAPI documents and hands them to
// the schema, avro and openapi packages.
package schemawalk

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"
)

// Fix string map issue from yaml format
type NonStringMap struct {
	paths []string
}

func NewNonStringMap(paths ...string) *NonStringMap {
	return &NonStringMap{paths: paths}
}

func (err NonStringMap) Error() string {
	return fmt.Sprintf("not string key %s", strings.Join(err.paths, ""))
}

// DecodeJSON decodes a single JSON value, numbers are kept as
// json.Number so integer and float literals stay distinguishable. Only
// whitespace may follow the value.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "decode json")
	}
	offset := dec.InputOffset()
	if offset < int64(len(data)) && len(bytes.TrimSpace(data[offset:])) > 0 {
		return nil, errors.Errorf("decode json: unexpected data after the value at offset %d", offset)
	}
	return v, nil
}

// DecodeYAML decodes a YAML document and normalizes every mapping to
// map[string]any.
func DecodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	return FixYamlMaps(v)
}

func FixYamlMaps(src any, paths ...string) (any, error) {
	switch v := src.(type) {
	case map[any]any:
		strMap := make(map[string]any, len(v))
		for k, elem := range v {
			sk, ok := k.(string)
			if !ok {
				return nil, NewNonStringMap(appendPath(paths, fmt.Sprintf(".%v", k))...)
			}
			newElem, err := FixYamlMaps(elem, appendPath(paths, "."+sk)...)
			if err != nil {
				return nil, err
			}
			strMap[sk] = newElem
		}
		return strMap, nil
	case map[string]any:
		for k, elem := range v {
			newElem, err := FixYamlMaps(elem, appendPath(paths, "."+k)...)
			if err != nil {
				return nil, err
			}
			v[k] = newElem
		}
		return v, nil
	case []any:
		list1 := make([]any, 0, len(v))
		for i, elem := range v {
			newElem, err := FixYamlMaps(elem, appendPath(paths, fmt.Sprintf("[%d]", i))...)
			if err != nil {
				return nil, err
			}
			list1 = append(list1, newElem)
		}
		return list1, nil
	default:
		return src, nil
	}
}

// LoadBytes decodes data as YAML when format is "yaml" or "yml" and as
// JSON otherwise.
func LoadBytes(data []byte, format string) (map[string]any, error) {
	var (
		v   any
		err error
	)
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		v, err = DecodeYAML(data)
	default:
		v, err = DecodeJSON(data)
	}
	if err != nil {
		return nil, err
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("document is not an object")
	}
	return doc, nil
}

// LoadFile reads a schema or specification document, the file
// extension selects the decoder.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	doc, err := LoadBytes(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return doc, nil
}

func appendPath(paths []string, elems ...string) []string {
	newPaths := make([]string, 0, len(paths)+len(elems))
	newPaths = append(newPaths, paths...)
	return append(newPaths, elems...)
}
