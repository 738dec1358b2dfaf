package schema

import (
	"math/big"
	"regexp"
)

// Builder
type SchemaBuilder struct {
	warnings []string
}

// Schema validator
type SchemaValidator struct {
	paths     []string
	instances []any
}

// Schema is one node of a schema tree. The set of implementations is
// closed, every algorithm walking a tree implements Visitor.
type Schema interface {
	// returns the kind name
	Type() string
	// returns the universal keywords shared by every kind
	Mixin() *SchemaMixin
	// rebuilds a JSON compatible map of the node
	Map() map[string]any
	Accept(v Visitor) error
}

// SchemaMixin holds the keywords every schema kind carries.
type SchemaMixin struct {
	Enum     []any
	Const    any
	HasConst bool
	// Types is the declared "type" keyword, empty means any type
	Types       []string
	typeIsList  bool
	AllOf       AllOf
	AnyOf       AnyOf
	OneOf       OneOf
	Definitions Definitions

	Title       string
	Description string
	Default     any
	Examples    []any
}

// containers
type AllOf []Schema
type AnyOf []Schema
type OneOf []Schema
type Properties map[string]Schema
type Definitions map[string]Schema

// schema subclasses

// EmptySchema stands in for absent subschemas and for boolean schemas.
// It accepts everything unless Never is set (the `false` schema).
type EmptySchema struct {
	SchemaMixin
	Never bool
}

type EnumSchema struct {
	SchemaMixin
}

type BooleanSchema struct {
	SchemaMixin
}

type NullSchema struct {
	SchemaMixin
}

// NumericConstraints are kept as exact rationals, integers of any size
// and decimal fractions compare without rounding.
type NumericConstraints struct {
	MultipleOf       *big.Rat
	Maximum          *big.Rat
	ExclusiveMaximum *big.Rat
	Minimum          *big.Rat
	ExclusiveMinimum *big.Rat
}

type IntegerSchema struct {
	SchemaMixin
	NumericConstraints
}

type NumberSchema struct {
	SchemaMixin
	NumericConstraints
}

type StringSchema struct {
	SchemaMixin
	MaxLength *int
	MinLength *int
	Pattern   string
	patternRe *regexp.Regexp
}

// ArraySchema validates lists. When TupleItems is non-nil the array uses
// tuple validation and elements past the tuple use AdditionalItems,
// otherwise every element uses Items.
type ArraySchema struct {
	SchemaMixin
	Items           Schema
	TupleItems      []Schema
	AdditionalItems Schema
	MaxItems        *int
	MinItems        *int
	UniqueItems     bool
	// carried, not enforced
	Contains Schema
}

type ObjectSchema struct {
	SchemaMixin
	Properties           Properties
	AdditionalProperties Schema
	Required             []string
	MaxProperties        *int
	MinProperties        *int

	// carried as raw fragments, not enforced
	PatternProperties map[string]any
	Dependencies      map[string]any
	PropertyNames     any
}

// UnionSchema is a schema whose "type" is a list of names.
type UnionSchema struct {
	SchemaMixin
}

// RefSchema is an indirection to another fragment of the same document.
// Value is owned by the reference and is set by the Resolver.
type RefSchema struct {
	SchemaMixin
	Address  string
	Resolved bool
	Value    Schema
}
