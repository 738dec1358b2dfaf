package schema

import (
	"fmt"
	"regexp"

	log "github.com/sirupsen/logrus"
	"github.com/superisaac/schemawalk"
)

// Builder
func NewSchemaBuilder() *SchemaBuilder {
	return &SchemaBuilder{}
}

// Warnings returns the permissive fallbacks taken so far, e.g. an
// unknown "type" name built as an enum schema.
func (builder *SchemaBuilder) Warnings() []string {
	return builder.warnings
}

func (builder *SchemaBuilder) warnf(paths []string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if len(paths) > 0 {
		msg = fmt.Sprintf("%s, paths: %s", msg, joinPaths(paths))
	}
	builder.warnings = append(builder.warnings, msg)
	log.Warnf("schema builder: %s", msg)
}

func (builder *SchemaBuilder) BuildBytes(data []byte) (Schema, error) {
	v, err := schemawalk.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return builder.Build(v)
}

func (builder *SchemaBuilder) BuildYamlBytes(data []byte) (Schema, error) {
	v, err := schemawalk.DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return builder.Build(v)
}

// Build materializes a schema tree from a decoded document fragment.
func (builder *SchemaBuilder) Build(data any) (Schema, error) {
	return builder.buildNode(data)
}

// BuildAt is Build with a path prefix used in error messages.
func (builder *SchemaBuilder) BuildAt(data any, paths ...string) (Schema, error) {
	return builder.buildNode(data, paths...)
}

func (builder *SchemaBuilder) buildNode(data any, paths ...string) (Schema, error) {
	switch v := data.(type) {
	case map[string]any:
		return builder.buildNodeMap(v, paths...)
	case bool:
		return &EmptySchema{Never: !v}, nil
	default:
		return nil, NewConstructionError("data is not an object", paths)
	}
}

func (builder *SchemaBuilder) buildNodeMap(node map[string]any, paths ...string) (Schema, error) {
	if ref, ok := node["$ref"]; ok {
		return builder.buildRefSchema(ref, paths...)
	}

	var schema Schema = nil
	var err error = nil

	switch nodeType := node["type"].(type) {
	case nil:
	case string:
		switch nodeType {
		case TypeBoolean:
			schema = &BooleanSchema{}
		case TypeNull:
			schema = &NullSchema{}
		case TypeInteger:
			s := NewIntegerSchema()
			err = builder.buildNumeric(&s.NumericConstraints, node, paths...)
			schema = s
		case TypeNumber:
			s := NewNumberSchema()
			err = builder.buildNumeric(&s.NumericConstraints, node, paths...)
			schema = s
		case TypeString:
			schema, err = builder.buildStringSchema(node, paths...)
		case TypeArray:
			schema, err = builder.buildArraySchema(node, paths...)
		case TypeObject:
			schema, err = builder.buildObjectSchema(node, paths...)
		default:
			builder.warnf(paths, "unknown type %q, built as enum schema", nodeType)
		}
	case []any:
		schema = &UnionSchema{}
	default:
		builder.warnf(paths, "type %v is neither a string nor a list, built as enum schema", nodeType)
	}

	if err != nil {
		return nil, err
	}
	if schema == nil {
		schema = &EnumSchema{}
	}

	if err := builder.buildMixin(schema.Mixin(), node, paths...); err != nil {
		return nil, err
	}
	return schema, nil
}

func (builder *SchemaBuilder) buildRefSchema(ref any, paths ...string) (*RefSchema, error) {
	address, ok := ref.(string)
	if !ok {
		return nil, &MalformedReferenceError{Address: fmt.Sprintf("%v", ref), paths: appendPath(paths, ".$ref")}
	}
	if err := CheckReference(address, appendPath(paths, ".$ref")...); err != nil {
		return nil, err
	}
	return NewRefSchema(address), nil
}

func (builder *SchemaBuilder) buildMixin(mixin *SchemaMixin, node map[string]any, paths ...string) error {
	if enum, ok, err := convertAttrList(node, "enum", paths...); err != nil {
		return err
	} else if ok {
		mixin.Enum = uniqueValues(enum)
	}

	if c, ok := node["const"]; ok {
		mixin.Const = c
		mixin.HasConst = true
	}

	switch tp := node["type"].(type) {
	case string:
		// unknown names are dropped, see buildNodeMap
		if knownType(tp) {
			mixin.SetTypes(tp)
		}
	case []any:
		types, err := convertAttrListOfString(node, "type", paths...)
		if err != nil {
			return err
		}
		known := make([]string, 0, len(types))
		for _, name := range uniqueStrings(types) {
			if knownType(name) {
				known = append(known, name)
			} else {
				builder.warnf(paths, "unknown type %q in type list, dropped", name)
			}
		}
		mixin.SetTypes(known...)
		mixin.typeIsList = true
	}

	var err error
	if mixin.AllOf, err = builder.buildList(node, "allOf", paths...); err != nil {
		return err
	}
	if mixin.AnyOf, err = builder.buildList(node, "anyOf", paths...); err != nil {
		return err
	}
	if mixin.OneOf, err = builder.buildList(node, "oneOf", paths...); err != nil {
		return err
	}
	if mixin.Definitions, err = builder.buildMap(node, "definitions", paths...); err != nil {
		return err
	}

	if mixin.Title, _, err = convertAttrString(node, "title", paths...); err != nil {
		return err
	}
	if mixin.Description, _, err = convertAttrString(node, "description", paths...); err != nil {
		return err
	}
	mixin.Default = node["default"]
	if mixin.Examples, _, err = convertAttrList(node, "examples", paths...); err != nil {
		return err
	}
	return nil
}

func (builder *SchemaBuilder) buildList(node map[string]any, attrName string, paths ...string) ([]Schema, error) {
	arr := make([]Schema, 0)
	elems, _, err := convertAttrList(node, attrName, paths...)
	if err != nil {
		return nil, err
	}
	for i, elem := range elems {
		child, err := builder.buildNode(elem, appendPath(paths, "."+attrName, fmt.Sprintf("[%d]", i))...)
		if err != nil {
			return nil, err
		}
		arr = append(arr, child)
	}
	return arr, nil
}

func (builder *SchemaBuilder) buildMap(node map[string]any, attrName string, paths ...string) (map[string]Schema, error) {
	m := make(map[string]Schema)
	members, _, err := convertAttrMap(node, attrName, paths...)
	if err != nil {
		return nil, err
	}
	for name, member := range members {
		child, err := builder.buildNode(member, appendPath(paths, "."+attrName, "."+name)...)
		if err != nil {
			return nil, err
		}
		m[name] = child
	}
	return m, nil
}

// buildOptional builds a subschema keyword, absent keywords become an
// EmptySchema.
func (builder *SchemaBuilder) buildOptional(node map[string]any, attrName string, paths ...string) (Schema, error) {
	v, ok := node[attrName]
	if !ok || v == nil {
		return &EmptySchema{}, nil
	}
	return builder.buildNode(v, appendPath(paths, "."+attrName)...)
}

func (builder *SchemaBuilder) buildNumeric(c *NumericConstraints, node map[string]any, paths ...string) error {
	var err error
	if c.MultipleOf, err = convertAttrNumber(node, "multipleOf", paths...); err != nil {
		return err
	}
	if c.MultipleOf != nil && c.MultipleOf.Sign() <= 0 {
		return NewConstructionError("multipleOf must be strictly greater than 0", appendPath(paths, ".multipleOf"))
	}
	if c.Maximum, err = convertAttrNumber(node, "maximum", paths...); err != nil {
		return err
	}
	if c.Minimum, err = convertAttrNumber(node, "minimum", paths...); err != nil {
		return err
	}

	// draft 4 spells exclusive bounds as booleans modifying maximum/minimum
	if exmax, ok := node["exclusiveMaximum"].(bool); ok {
		if exmax {
			c.ExclusiveMaximum, c.Maximum = c.Maximum, nil
		}
	} else if c.ExclusiveMaximum, err = convertAttrNumber(node, "exclusiveMaximum", paths...); err != nil {
		return err
	}
	if exmin, ok := node["exclusiveMinimum"].(bool); ok {
		if exmin {
			c.ExclusiveMinimum, c.Minimum = c.Minimum, nil
		}
	} else if c.ExclusiveMinimum, err = convertAttrNumber(node, "exclusiveMinimum", paths...); err != nil {
		return err
	}
	return nil
}

func (builder *SchemaBuilder) buildStringSchema(node map[string]any, paths ...string) (*StringSchema, error) {
	schema := NewStringSchema()
	var err error
	if schema.MaxLength, err = convertAttrCount(node, "maxLength", paths...); err != nil {
		return nil, err
	}
	if schema.MinLength, err = convertAttrCount(node, "minLength", paths...); err != nil {
		return nil, err
	}
	pattern, ok, err := convertAttrString(node, "pattern", paths...)
	if err != nil {
		return nil, err
	}
	if ok && pattern != "" {
		// patterns are searched from the start of the instance
		re, err := regexp.Compile("^(?:" + pattern + ")")
		if err != nil {
			return nil, NewConstructionError(fmt.Sprintf("invalid pattern: %s", err), appendPath(paths, ".pattern"))
		}
		schema.Pattern = pattern
		schema.patternRe = re
	}
	return schema, nil
}

func (builder *SchemaBuilder) buildArraySchema(node map[string]any, paths ...string) (*ArraySchema, error) {
	schema := NewArraySchema()
	var err error

	if itemsTuple, ok := node["items"].([]any); ok {
		schema.TupleItems = make([]Schema, 0, len(itemsTuple))
		for i, item := range itemsTuple {
			child, err := builder.buildNode(item, appendPath(paths, ".items", fmt.Sprintf("[%d]", i))...)
			if err != nil {
				return nil, err
			}
			schema.TupleItems = append(schema.TupleItems, child)
		}
	} else if schema.Items, err = builder.buildOptional(node, "items", paths...); err != nil {
		return nil, err
	}

	if schema.AdditionalItems, err = builder.buildOptional(node, "additionalItems", paths...); err != nil {
		return nil, err
	}
	if schema.Contains, err = builder.buildOptional(node, "contains", paths...); err != nil {
		return nil, err
	}
	if schema.MaxItems, err = convertAttrCount(node, "maxItems", paths...); err != nil {
		return nil, err
	}
	if schema.MinItems, err = convertAttrCount(node, "minItems", paths...); err != nil {
		return nil, err
	}
	if schema.UniqueItems, _, err = convertAttrBool(node, "uniqueItems", paths...); err != nil {
		return nil, err
	}
	return schema, nil
}

func (builder *SchemaBuilder) buildObjectSchema(node map[string]any, paths ...string) (*ObjectSchema, error) {
	schema := NewObjectSchema()
	var err error

	if schema.Properties, err = builder.buildMap(node, "properties", paths...); err != nil {
		return nil, err
	}
	if schema.AdditionalProperties, err = builder.buildOptional(node, "additionalProperties", paths...); err != nil {
		return nil, err
	}

	required, err := convertAttrListOfString(node, "required", paths...)
	if err != nil {
		return nil, err
	}
	schema.Required = uniqueStrings(required)

	if schema.MaxProperties, err = convertAttrCount(node, "maxProperties", paths...); err != nil {
		return nil, err
	}
	if schema.MinProperties, err = convertAttrCount(node, "minProperties", paths...); err != nil {
		return nil, err
	}

	if schema.PatternProperties, _, err = convertAttrMap(node, "patternProperties", paths...); err != nil {
		return nil, err
	}
	if schema.Dependencies, _, err = convertAttrMap(node, "dependencies", paths...); err != nil {
		return nil, err
	}
	schema.PropertyNames = node["propertyNames"]
	return schema, nil
}
