package schema

import (
	"sort"

	"github.com/superisaac/schemawalk"
)

// SchemaMixin
func (self *SchemaMixin) Mixin() *SchemaMixin {
	return self
}

// SetTypes sets the "type" keyword, a single name is kept as a string
// when the node is rebuilt.
func (self *SchemaMixin) SetTypes(names ...string) {
	self.Types = names
	self.typeIsList = len(names) != 1
}

func (self SchemaMixin) rebuildType() map[string]any {
	tp := map[string]any{}
	if len(self.Types) == 1 && !self.typeIsList {
		tp["type"] = self.Types[0]
	} else if len(self.Types) > 0 {
		names := make([]any, 0, len(self.Types))
		for _, name := range self.Types {
			names = append(names, name)
		}
		tp["type"] = names
	}
	if len(self.Enum) > 0 {
		tp["enum"] = self.Enum
	}
	if self.HasConst {
		tp["const"] = self.Const
	}
	if len(self.AllOf) > 0 {
		tp["allOf"] = rebuildList(self.AllOf)
	}
	if len(self.AnyOf) > 0 {
		tp["anyOf"] = rebuildList(self.AnyOf)
	}
	if len(self.OneOf) > 0 {
		tp["oneOf"] = rebuildList(self.OneOf)
	}
	if len(self.Definitions) > 0 {
		tp["definitions"] = rebuildMap(self.Definitions)
	}
	if self.Title != "" {
		tp["title"] = self.Title
	}
	if self.Description != "" {
		tp["description"] = self.Description
	}
	if self.Default != nil {
		tp["default"] = self.Default
	}
	if len(self.Examples) > 0 {
		tp["examples"] = self.Examples
	}
	return tp
}

func rebuildList(schemas []Schema) []any {
	arr := make([]any, 0, len(schemas))
	for _, s := range schemas {
		arr = append(arr, s.Map())
	}
	return arr
}

func rebuildMap(schemas map[string]Schema) map[string]any {
	m := make(map[string]any, len(schemas))
	for name, s := range schemas {
		m[name] = s.Map()
	}
	return m
}

func rebuildNumeric(tp map[string]any, c NumericConstraints) map[string]any {
	if c.MultipleOf != nil {
		tp["multipleOf"] = numberOf(c.MultipleOf)
	}
	if c.Maximum != nil {
		tp["maximum"] = numberOf(c.Maximum)
	}
	if c.ExclusiveMaximum != nil {
		tp["exclusiveMaximum"] = numberOf(c.ExclusiveMaximum)
	}
	if c.Minimum != nil {
		tp["minimum"] = numberOf(c.Minimum)
	}
	if c.ExclusiveMinimum != nil {
		tp["exclusiveMinimum"] = numberOf(c.ExclusiveMinimum)
	}
	return tp
}

// isEmpty reports whether s is an absent subschema.
func isEmpty(s Schema) bool {
	if s == nil {
		return true
	}
	e, ok := s.(*EmptySchema)
	return ok && !e.Never
}

// type = empty
func (self EmptySchema) Type() string {
	return "empty"
}

func (self *EmptySchema) Map() map[string]any {
	if self.Never {
		return map[string]any{"not": map[string]any{}}
	}
	return self.rebuildType()
}

// no type, enum only
func (self EnumSchema) Type() string {
	return "enum"
}

func (self *EnumSchema) Map() map[string]any {
	return self.rebuildType()
}

// type = "boolean"
func (self BooleanSchema) Type() string {
	return "boolean"
}

func (self *BooleanSchema) Map() map[string]any {
	return self.rebuildType()
}

// type = "null"
func (self NullSchema) Type() string {
	return "null"
}

func (self *NullSchema) Map() map[string]any {
	return self.rebuildType()
}

// type = "integer"
func NewIntegerSchema() *IntegerSchema {
	s := &IntegerSchema{}
	s.SetTypes("integer")
	return s
}

func (self IntegerSchema) Type() string {
	return "integer"
}

func (self *IntegerSchema) Map() map[string]any {
	return rebuildNumeric(self.rebuildType(), self.NumericConstraints)
}

// type = "number"
func NewNumberSchema() *NumberSchema {
	s := &NumberSchema{}
	s.SetTypes("number")
	return s
}

func (self NumberSchema) Type() string {
	return "number"
}

func (self *NumberSchema) Map() map[string]any {
	return rebuildNumeric(self.rebuildType(), self.NumericConstraints)
}

// type = "string"
func NewStringSchema() *StringSchema {
	s := &StringSchema{}
	s.SetTypes("string")
	return s
}

func (self StringSchema) Type() string {
	return "string"
}

func (self *StringSchema) Map() map[string]any {
	tp := self.rebuildType()
	if self.MaxLength != nil {
		tp["maxLength"] = *self.MaxLength
	}
	if self.MinLength != nil {
		tp["minLength"] = *self.MinLength
	}
	if self.Pattern != "" {
		tp["pattern"] = self.Pattern
	}
	return tp
}

// type = "array"
func NewArraySchema() *ArraySchema {
	s := &ArraySchema{
		Items:           &EmptySchema{},
		AdditionalItems: &EmptySchema{},
		Contains:        &EmptySchema{},
	}
	s.SetTypes("array")
	return s
}

func (self ArraySchema) Type() string {
	return "array"
}

// ItemAt returns the subschema applied to the element at index i.
func (self *ArraySchema) ItemAt(i int) Schema {
	if self.TupleItems == nil {
		return self.Items
	}
	if i < len(self.TupleItems) {
		return self.TupleItems[i]
	}
	return self.AdditionalItems
}

func (self *ArraySchema) Map() map[string]any {
	tp := self.rebuildType()
	if self.TupleItems != nil {
		tp["items"] = rebuildList(self.TupleItems)
		if !isEmpty(self.AdditionalItems) {
			tp["additionalItems"] = self.AdditionalItems.Map()
		}
	} else if !isEmpty(self.Items) {
		tp["items"] = self.Items.Map()
	}
	if self.MaxItems != nil {
		tp["maxItems"] = *self.MaxItems
	}
	if self.MinItems != nil {
		tp["minItems"] = *self.MinItems
	}
	if self.UniqueItems {
		tp["uniqueItems"] = true
	}
	if !isEmpty(self.Contains) {
		tp["contains"] = self.Contains.Map()
	}
	return tp
}

// type = "object"
func NewObjectSchema() *ObjectSchema {
	s := &ObjectSchema{
		Properties:           make(Properties),
		AdditionalProperties: &EmptySchema{},
	}
	s.SetTypes("object")
	return s
}

func (self ObjectSchema) Type() string {
	return "object"
}

// SortedProperties returns the declared property names in sorted order.
func (self *ObjectSchema) SortedProperties() []string {
	names := make([]string, 0, len(self.Properties))
	for name := range self.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (self *ObjectSchema) Map() map[string]any {
	tp := self.rebuildType()
	if len(self.Properties) > 0 {
		tp["properties"] = rebuildMap(self.Properties)
	}
	if !isEmpty(self.AdditionalProperties) {
		tp["additionalProperties"] = self.AdditionalProperties.Map()
	}
	if len(self.Required) > 0 {
		required := make([]any, 0, len(self.Required))
		for _, name := range self.Required {
			required = append(required, name)
		}
		tp["required"] = required
	}
	if self.MaxProperties != nil {
		tp["maxProperties"] = *self.MaxProperties
	}
	if self.MinProperties != nil {
		tp["minProperties"] = *self.MinProperties
	}
	if self.PatternProperties != nil {
		tp["patternProperties"] = self.PatternProperties
	}
	if self.Dependencies != nil {
		tp["dependencies"] = self.Dependencies
	}
	if self.PropertyNames != nil {
		tp["propertyNames"] = self.PropertyNames
	}
	return tp
}

// type = [...]
func (self UnionSchema) Type() string {
	return "union"
}

func (self *UnionSchema) Map() map[string]any {
	return self.rebuildType()
}

// $ref
func NewRefSchema(address string) *RefSchema {
	return &RefSchema{Address: address}
}

func (self RefSchema) Type() string {
	return "ref"
}

func (self *RefSchema) Map() map[string]any {
	return map[string]any{"$ref": self.Address}
}

func SchemaToString(schema Schema) string {
	repr, err := schemawalk.MarshalJson(schema.Map())
	if err != nil {
		panic(err)
	}
	return repr
}
