package schema

import (
	simplejson "github.com/bitly/go-simplejson"
)

// Document is a read-only view over the raw source document that
// references are resolved against.
type Document struct {
	js *simplejson.Json
}

func NewDocument(doc map[string]any) *Document {
	js := simplejson.New()
	for k, v := range doc {
		js.Set(k, v)
	}
	return &Document{js: js}
}

// Lookup follows a branch of object keys and returns the value found at
// its end.
func (doc *Document) Lookup(branch ...string) (any, bool) {
	js := doc.js
	for _, key := range branch {
		next, ok := js.CheckGet(key)
		if !ok {
			return nil, false
		}
		js = next
	}
	return js.Interface(), true
}

// Lookup finds the raw fragment a reference address points at.
type Lookup func(address string) (any, error)

// DefinitionsLookup resolves the last segment of an address inside the
// document's "definitions" section.
func DefinitionsLookup(doc *Document) Lookup {
	return func(address string) (any, error) {
		segments := ReferenceSegments(address)
		key := segments[len(segments)-1]
		fragment, ok := doc.Lookup("definitions", key)
		if !ok {
			return nil, &UnresolvedReferenceError{Address: address, Key: "definitions/" + key}
		}
		return fragment, nil
	}
}
