package schemawalk

import (
	"regexp"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

func MarshalJson(data any) (string, error) {
	marshaled, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(marshaled), nil
}

func EncodePretty(data any) (string, error) {
	marshaled, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(marshaled), nil
}

// number grammar of RFC 8259
var jsonNumberRe = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// GuessJson turns a command line argument into a JSON value. Anything
// that does not look like JSON is taken as a bare string.
func GuessJson(input string) (any, error) {
	if len(input) == 0 {
		return "", nil
	}
	if input == "true" || input == "false" {
		bv, _ := strconv.ParseBool(input)
		return bv, nil
	}
	if input == "null" {
		return nil, nil
	}

	fc := input[0]
	if fc == '-' || (fc >= '0' && fc <= '9') {
		if jsonNumberRe.MatchString(input) {
			return json.Number(input), nil
		}
		return input, nil
	}

	switch fc {
	case '[', '{', '"':
		return DecodeJSON([]byte(input))
	default:
		return input, nil
	}
}

// DecodeInterface decodes a generic map into a struct tagged with json
// field names.
func DecodeInterface(input any, output any) error {
	config := &mapstructure.DecoderConfig{
		Metadata: nil,
		TagName:  "json",
		Result:   output,
	}
	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return errors.Wrap(err, "decode interface")
	}
	return decoder.Decode(input)
}
