// Package avro converts resolved schema trees into Apache Avro schemas.
//
// Only object roots convert to records. Other roots convert to the
// matching primitive and it is up to the caller whether that is useful.
package avro

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/superisaac/schemawalk"
	"github.com/superisaac/schemawalk/schema"
)

// Converter is a schema.Visitor producing the Avro form of every node
// it visits. The result of the last visit is kept in out.
type Converter struct {
	out  map[string]any
	name string
}

func NewConverter() *Converter {
	return &Converter{}
}

// Convert returns the Avro schema of a resolved tree.
func Convert(root schema.Schema) (map[string]any, error) {
	return NewConverter().Convert(root)
}

// ConvertToString renders the Avro schema of root as indented JSON.
func ConvertToString(root schema.Schema) (string, error) {
	out, err := Convert(root)
	if err != nil {
		return "", err
	}
	repr, err := schemawalk.EncodePretty(out)
	if err != nil {
		return "", errors.Wrap(err, "marshal avro schema")
	}
	return repr, nil
}

func (c *Converter) Convert(root schema.Schema) (map[string]any, error) {
	c.name = ""
	return c.convert(root, "")
}

// convert visits s, name is the field the node is converted for and
// names anonymous records and enums.
func (c *Converter) convert(s schema.Schema, name string) (map[string]any, error) {
	c.out = nil
	if s == nil {
		return map[string]any{"type": "null"}, nil
	}
	prev := c.name
	c.name = name
	err := s.Accept(c)
	c.name = prev
	if err != nil {
		return nil, err
	}
	return c.out, nil
}

func (c *Converter) typeName(title string) string {
	if title != "" {
		return title
	}
	if c.name != "" {
		return c.name
	}
	return "Record"
}

func (c *Converter) VisitEmpty(s *schema.EmptySchema) error {
	c.out = map[string]any{"type": "null"}
	return nil
}

func (c *Converter) VisitEnum(s *schema.EnumSchema) error {
	switch {
	case len(s.Enum) > 0:
		symbols := make([]string, 0, len(s.Enum))
		for _, v := range s.Enum {
			if str, ok := v.(string); ok {
				symbols = append(symbols, str)
			} else {
				symbols = append(symbols, fmt.Sprintf("%v", v))
			}
		}
		sort.Strings(symbols)
		c.out = map[string]any{
			"type":    "enum",
			"name":    c.typeName(s.Title),
			"symbols": symbols,
		}
		return nil
	case len(s.OneOf) > 0:
		return s.OneOf.Accept(c)
	case len(s.AnyOf) > 0:
		return s.AnyOf.Accept(c)
	case len(s.AllOf) > 0:
		// a bare allOf composes a record
		if err := s.AllOf.Accept(c); err != nil {
			return err
		}
		c.out = c.record(s.Mixin(), c.out["fields"].([]any))
		return nil
	}
	c.out = map[string]any{"type": "null"}
	return nil
}

func (c *Converter) VisitBoolean(s *schema.BooleanSchema) error {
	c.out = map[string]any{"type": "boolean"}
	return nil
}

func (c *Converter) VisitNull(s *schema.NullSchema) error {
	c.out = map[string]any{"type": "null"}
	return nil
}

func (c *Converter) VisitInteger(s *schema.IntegerSchema) error {
	c.out = map[string]any{"type": "long"}
	return nil
}

func (c *Converter) VisitNumber(s *schema.NumberSchema) error {
	c.out = map[string]any{"type": "double"}
	return nil
}

func (c *Converter) VisitString(s *schema.StringSchema) error {
	c.out = map[string]any{"type": "string"}
	return nil
}

func (c *Converter) VisitUnion(s *schema.UnionSchema) error {
	names := make([]any, 0, len(s.Types))
	for _, name := range s.Types {
		names = append(names, primitiveName(name))
	}
	c.out = map[string]any{"type": names}
	return nil
}

func primitiveName(name string) string {
	switch name {
	case schema.TypeInteger:
		return "long"
	case schema.TypeNumber:
		return "double"
	case schema.TypeObject:
		return "record"
	}
	return name
}

func (c *Converter) VisitArray(s *schema.ArraySchema) error {
	// tuples convert to their first entry
	items, err := c.convert(s.ItemAt(0), c.name)
	if err != nil {
		return err
	}
	c.out = map[string]any{"type": "array", "items": collapse(items)}
	return nil
}

func (c *Converter) VisitObject(s *schema.ObjectSchema) error {
	if err := s.Properties.Accept(c); err != nil {
		return err
	}
	fields := c.out["fields"].([]any)

	if err := s.AllOf.Accept(c); err != nil {
		return err
	}
	fields = append(fields, c.out["fields"].([]any)...)
	c.out = c.record(s.Mixin(), fields)
	return nil
}

func (c *Converter) record(mixin *schema.SchemaMixin, fields []any) map[string]any {
	rec := map[string]any{
		"type":   "record",
		"name":   c.typeName(mixin.Title),
		"fields": fields,
	}
	if mixin.Description != "" {
		rec["doc"] = mixin.Description
	}
	return rec
}

func (c *Converter) VisitRef(s *schema.RefSchema) error {
	if !s.Resolved {
		return errors.Wrapf(schema.ErrUnresolvedReference, "convert %s", s.Address)
	}
	_, err := c.convert(s.Value, c.name)
	return err
}

// VisitAllOf folds the members into a list of record fields, members
// that are not records become one field each.
func (c *Converter) VisitAllOf(members schema.AllOf) error {
	fields := make([]any, 0)
	for _, member := range members {
		out, err := c.convert(member, c.name)
		if err != nil {
			return err
		}
		if memberFields, ok := out["fields"].([]any); ok {
			fields = append(fields, memberFields...)
		} else {
			fields = append(fields, out)
		}
	}
	c.out = map[string]any{"fields": fields}
	return nil
}

func (c *Converter) union(members []schema.Schema) error {
	branches := make([]any, 0, len(members))
	for _, member := range members {
		out, err := c.convert(member, c.name)
		if err != nil {
			return err
		}
		branches = append(branches, collapse(out))
	}
	c.out = map[string]any{"type": branches}
	return nil
}

func (c *Converter) VisitAnyOf(members schema.AnyOf) error {
	return c.union(members)
}

func (c *Converter) VisitOneOf(members schema.OneOf) error {
	return c.union(members)
}

// VisitProperties converts every property into a record field, in
// property name order.
func (c *Converter) VisitProperties(props schema.Properties) error {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]any, 0, len(names))
	for _, name := range names {
		member := props[name]
		out, err := c.convert(member, name)
		if err != nil {
			return err
		}
		field := out
		if wrapField(member) {
			field = map[string]any{"type": out}
		}
		field["name"] = name
		if doc := description(member); doc != "" {
			field["doc"] = doc
		}
		fields = append(fields, field)
	}
	c.out = map[string]any{"fields": fields}
	return nil
}

// definitions are not part of the record
func (c *Converter) VisitDefinitions(defs schema.Definitions) error {
	c.out = nil
	return nil
}

// collapse turns a bare {"type": name} into name, named and complex
// types are kept whole.
func collapse(out map[string]any) any {
	if len(out) == 1 {
		if name, ok := out["type"]; ok {
			return name
		}
	}
	return out
}

// wrapField reports whether the converted member is a named or complex
// type that must be nested under "type" to become a field.
func wrapField(member schema.Schema) bool {
	switch member.(type) {
	case *schema.ArraySchema, *schema.ObjectSchema, *schema.RefSchema, *schema.EnumSchema:
		return true
	}
	return false
}

func description(member schema.Schema) string {
	if ref, ok := member.(*schema.RefSchema); ok && ref.Resolved {
		if ref.Description != "" {
			return ref.Description
		}
		return description(ref.Value)
	}
	return member.Mixin().Description
}
