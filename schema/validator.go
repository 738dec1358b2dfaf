package schema

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/superisaac/schemawalk"
)

// schema validator
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{}
}

// Validate checks data against a resolved schema tree. The first
// violation found is returned as a *ValidationError.
func Validate(schema Schema, data any) error {
	return NewSchemaValidator().Validate(schema, data)
}

func (validator *SchemaValidator) Validate(schema Schema, data any) error {
	validator.paths = validator.paths[:0]
	validator.instances = validator.instances[:0]
	return validator.Scan(schema, "", data)
}

func (validator *SchemaValidator) ValidateBytes(schema Schema, data []byte) error {
	v, err := schemawalk.DecodeJSON(data)
	if err != nil {
		return err
	}
	return validator.Validate(schema, v)
}

// Scan validates data against schema with path appended to the current
// location.
func (validator *SchemaValidator) Scan(schema Schema, path string, data any) error {
	if schema == nil {
		return nil
	}
	validator.pushPath(path)
	validator.instances = append(validator.instances, data)
	err := schema.Accept(validator)
	validator.instances = validator.instances[:len(validator.instances)-1]
	validator.popPath(path)
	return err
}

func (validator *SchemaValidator) current() any {
	return validator.instances[len(validator.instances)-1]
}

func (validator *SchemaValidator) pushPath(path string) {
	if path != "" {
		validator.paths = append(validator.paths, path)
	}
}

func (validator *SchemaValidator) popPath(path string) {
	if path != "" {
		if len(validator.paths) < 1 || validator.paths[len(validator.paths)-1] != path {
			panic(errors.Errorf("pop path %s is different from stack top", path))
		}
		validator.paths = validator.paths[:len(validator.paths)-1]
	}
}

func (validator *SchemaValidator) NewErrorPos(rule string, constraint any, hint string) *ValidationError {
	var newPaths []string
	newPaths = append(newPaths, validator.paths...)
	return &ValidationError{
		paths:      newPaths,
		hint:       hint,
		Rule:       rule,
		Instance:   validator.current(),
		Constraint: constraint,
	}
}

func (validator *SchemaValidator) errorf(rule string, constraint any, format string, args ...any) *ValidationError {
	return validator.NewErrorPos(rule, constraint, fmt.Sprintf(format, args...))
}

// scanPrimitive checks the keywords shared by every kind: const, type,
// enum and the combinators.
func (validator *SchemaValidator) scanPrimitive(mixin *SchemaMixin) error {
	instance := validator.current()
	if mixin.HasConst && !instanceEqual(instance, mixin.Const) {
		return validator.errorf("const", mixin.Const,
			"instance %s is not equal to const %s", formatValue(instance), formatValue(mixin.Const))
	}
	if len(mixin.Types) > 0 {
		tp, ok := instanceType(instance)
		if !ok || !typeMatches(tp, mixin.Types) {
			return validator.errorf("type", mixin.Types,
				"instance %s is not in any of the sets listed %s", formatValue(instance), formatValue(mixin.Types))
		}
	}
	if len(mixin.Enum) > 0 {
		found := false
		for _, elem := range mixin.Enum {
			if instanceEqual(instance, elem) {
				found = true
				break
			}
		}
		if !found {
			return validator.errorf("enum", mixin.Enum,
				"instance %s is not equal to one of the elements %s", formatValue(instance), formatValue(mixin.Enum))
		}
	}
	if err := mixin.AllOf.Accept(validator); err != nil {
		return err
	}
	if err := mixin.AnyOf.Accept(validator); err != nil {
		return err
	}
	return mixin.OneOf.Accept(validator)
}

// type = empty
func (validator *SchemaValidator) VisitEmpty(s *EmptySchema) error {
	if s.Never {
		return validator.errorf("not", nil, "instance %s is not allowed", formatValue(validator.current()))
	}
	return nil
}

func (validator *SchemaValidator) VisitEnum(s *EnumSchema) error {
	return validator.scanPrimitive(&s.SchemaMixin)
}

func (validator *SchemaValidator) VisitBoolean(s *BooleanSchema) error {
	if err := validator.scanPrimitive(&s.SchemaMixin); err != nil {
		return err
	}
	if _, ok := validator.current().(bool); !ok {
		return validator.errorf("type", TypeBoolean, "instance %s is not a boolean", formatValue(validator.current()))
	}
	return nil
}

func (validator *SchemaValidator) VisitNull(s *NullSchema) error {
	if err := validator.scanPrimitive(&s.SchemaMixin); err != nil {
		return err
	}
	if validator.current() != nil {
		return validator.errorf("type", TypeNull, "instance %s is not null", formatValue(validator.current()))
	}
	return nil
}

func (validator *SchemaValidator) VisitUnion(s *UnionSchema) error {
	return validator.scanPrimitive(&s.SchemaMixin)
}

func (validator *SchemaValidator) VisitInteger(s *IntegerSchema) error {
	if err := validator.scanPrimitive(&s.SchemaMixin); err != nil {
		return err
	}
	return validator.scanNumeric(s.NumericConstraints, true)
}

func (validator *SchemaValidator) VisitNumber(s *NumberSchema) error {
	if err := validator.scanPrimitive(&s.SchemaMixin); err != nil {
		return err
	}
	return validator.scanNumeric(s.NumericConstraints, false)
}

func (validator *SchemaValidator) scanNumeric(c NumericConstraints, integer bool) error {
	instance := validator.current()
	v, ok := toRat(instance)
	if !ok {
		return validator.errorf("type", TypeNumber, "instance %s is not a number", formatValue(instance))
	}
	if integer && !v.IsInt() {
		return validator.errorf("type", TypeInteger, "instance %s is not an integer", formatValue(instance))
	}

	if c.MultipleOf != nil && !new(big.Rat).Quo(v, c.MultipleOf).IsInt() {
		return validator.errorf("multipleOf", numberOf(c.MultipleOf),
			"instance %s division by %s is not an integer", formatValue(instance), numberOf(c.MultipleOf))
	}
	if c.Maximum != nil && v.Cmp(c.Maximum) > 0 {
		return validator.errorf("maximum", numberOf(c.Maximum),
			"instance %s is not less than or exactly equal to %s", formatValue(instance), numberOf(c.Maximum))
	}
	if c.ExclusiveMaximum != nil && v.Cmp(c.ExclusiveMaximum) >= 0 {
		return validator.errorf("exclusiveMaximum", numberOf(c.ExclusiveMaximum),
			"instance %s is not strictly less than %s", formatValue(instance), numberOf(c.ExclusiveMaximum))
	}
	if c.Minimum != nil && v.Cmp(c.Minimum) < 0 {
		return validator.errorf("minimum", numberOf(c.Minimum),
			"instance %s is not greater than or exactly equal to %s", formatValue(instance), numberOf(c.Minimum))
	}
	if c.ExclusiveMinimum != nil && v.Cmp(c.ExclusiveMinimum) <= 0 {
		return validator.errorf("exclusiveMinimum", numberOf(c.ExclusiveMinimum),
			"instance %s is not strictly greater than %s", formatValue(instance), numberOf(c.ExclusiveMinimum))
	}
	return nil
}

// type = "string"
func (validator *SchemaValidator) VisitString(s *StringSchema) error {
	if err := validator.scanPrimitive(&s.SchemaMixin); err != nil {
		return err
	}
	str, ok := validator.current().(string)
	if !ok {
		return validator.errorf("type", TypeString, "instance %s is not a string", formatValue(validator.current()))
	}
	length := utf8.RuneCountInString(str)
	if s.MaxLength != nil && length > *s.MaxLength {
		return validator.errorf("maxLength", *s.MaxLength,
			"instance %s is not less than, or equal to %d characters", formatValue(str), *s.MaxLength)
	}
	if s.MinLength != nil && length < *s.MinLength {
		return validator.errorf("minLength", *s.MinLength,
			"instance %s is not greater than, or equal to %d characters", formatValue(str), *s.MinLength)
	}
	if s.patternRe != nil && !s.patternRe.MatchString(str) {
		return validator.errorf("pattern", s.Pattern,
			"instance %s does not match the regular expression %q", formatValue(str), s.Pattern)
	}
	return nil
}

// type = "array"
func (validator *SchemaValidator) VisitArray(s *ArraySchema) error {
	if err := validator.scanPrimitive(&s.SchemaMixin); err != nil {
		return err
	}
	items, ok := validator.current().([]any)
	if !ok {
		return validator.errorf("type", TypeArray, "instance %s is not an array", formatValue(validator.current()))
	}

	for i, item := range items {
		if err := validator.Scan(s.ItemAt(i), fmt.Sprintf("[%d]", i), item); err != nil {
			return err
		}
	}

	if s.MaxItems != nil && len(items) > *s.MaxItems {
		return validator.errorf("maxItems", *s.MaxItems,
			"instance %s is not less than, or equal to %d items", formatValue(items), *s.MaxItems)
	}
	if s.MinItems != nil && len(items) < *s.MinItems {
		return validator.errorf("minItems", *s.MinItems,
			"instance %s is not greater than, or equal to %d items", formatValue(items), *s.MinItems)
	}
	if s.UniqueItems {
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				if instanceEqual(items[i], items[j]) {
					return validator.errorf("uniqueItems", true,
						"instance %s contains duplicate elements", formatValue(items))
				}
			}
		}
	}
	return nil
}

// type = "object"
func (validator *SchemaValidator) VisitObject(s *ObjectSchema) error {
	if err := validator.scanPrimitive(&s.SchemaMixin); err != nil {
		return err
	}
	obj, ok := validator.current().(map[string]any)
	if !ok {
		return validator.errorf("type", TypeObject, "instance %s is not an object", formatValue(validator.current()))
	}

	if s.MaxProperties != nil && len(obj) > *s.MaxProperties {
		return validator.errorf("maxProperties", *s.MaxProperties,
			"instance %s number of properties is not less than, or equal to %d", formatValue(obj), *s.MaxProperties)
	}
	if s.MinProperties != nil && len(obj) < *s.MinProperties {
		return validator.errorf("minProperties", *s.MinProperties,
			"instance %s number of properties is not greater than, or equal to %d", formatValue(obj), *s.MinProperties)
	}
	for _, prop := range s.Required {
		if _, found := obj[prop]; !found {
			return validator.errorf("required", prop,
				"instance %s is missing required property %q", formatValue(obj), prop)
		}
	}

	if err := s.Properties.Accept(validator); err != nil {
		return err
	}
	for _, key := range sortedKeys(obj) {
		if _, declared := s.Properties[key]; declared {
			continue
		}
		if err := validator.Scan(s.AdditionalProperties, "."+key, obj[key]); err != nil {
			return err
		}
	}
	return nil
}

func (validator *SchemaValidator) VisitRef(s *RefSchema) error {
	if !s.Resolved {
		return errors.Wrapf(ErrUnresolvedReference, "validate %s", s.Address)
	}
	return s.Value.Accept(validator)
}

// containers
func (validator *SchemaValidator) VisitAllOf(c AllOf) error {
	for _, schema := range c {
		if err := validator.Scan(schema, "", validator.current()); err != nil {
			return err
		}
	}
	return nil
}

// scanEach validates the current instance against every schema and
// collects the violations, any other error aborts.
func (validator *SchemaValidator) scanEach(schemas []Schema) ([]string, error) {
	var failures []string
	for _, schema := range schemas {
		err := validator.Scan(schema, "", validator.current())
		if err == nil {
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		failures = append(failures, verr.Hint())
	}
	return failures, nil
}

func (validator *SchemaValidator) VisitAnyOf(c AnyOf) error {
	if len(c) == 0 {
		return nil
	}
	failures, err := validator.scanEach(c)
	if err != nil {
		return err
	}
	if len(failures) == len(c) {
		return validator.errorf("anyOf", len(c),
			"instance %s is not valid against any of the schemas: %s", formatValue(validator.current()), strings.Join(failures, ", "))
	}
	return nil
}

func (validator *SchemaValidator) VisitOneOf(c OneOf) error {
	if len(c) == 0 {
		return nil
	}
	failures, err := validator.scanEach(c)
	if err != nil {
		return err
	}
	switch passed := len(c) - len(failures); {
	case passed == 0:
		return validator.errorf("oneOf", len(c),
			"instance %s is not valid against any of the schemas: %s", formatValue(validator.current()), strings.Join(failures, ", "))
	case passed > 1:
		return validator.errorf("oneOf", len(c),
			"instance %s is valid against %d schemas, exactly one is allowed", formatValue(validator.current()), passed)
	}
	return nil
}

// VisitProperties validates the instance members declared in c, the
// members not declared are left to the enclosing object.
func (validator *SchemaValidator) VisitProperties(c Properties) error {
	obj, ok := validator.current().(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range sortedKeys(obj) {
		schema, declared := c[key]
		if !declared {
			continue
		}
		if err := validator.Scan(schema, "."+key, obj[key]); err != nil {
			return err
		}
	}
	return nil
}

// definitions play no role in validation
func (validator *SchemaValidator) VisitDefinitions(c Definitions) error {
	return nil
}
