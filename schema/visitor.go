package schema

// Visitor is implemented by every algorithm that walks a schema tree.
// It has one method per schema kind and one per container, so a new
// kind breaks every algorithm at compile time until it is handled.
//
// Algorithm arguments such as the instance under validation or the
// source document live in the visitor itself.
type Visitor interface {
	VisitEmpty(s *EmptySchema) error
	VisitEnum(s *EnumSchema) error
	VisitBoolean(s *BooleanSchema) error
	VisitNull(s *NullSchema) error
	VisitInteger(s *IntegerSchema) error
	VisitNumber(s *NumberSchema) error
	VisitString(s *StringSchema) error
	VisitArray(s *ArraySchema) error
	VisitObject(s *ObjectSchema) error
	VisitRef(s *RefSchema) error
	VisitUnion(s *UnionSchema) error

	VisitAllOf(c AllOf) error
	VisitAnyOf(c AnyOf) error
	VisitOneOf(c OneOf) error
	VisitProperties(c Properties) error
	VisitDefinitions(c Definitions) error
}

func (self *EmptySchema) Accept(v Visitor) error   { return v.VisitEmpty(self) }
func (self *EnumSchema) Accept(v Visitor) error    { return v.VisitEnum(self) }
func (self *BooleanSchema) Accept(v Visitor) error { return v.VisitBoolean(self) }
func (self *NullSchema) Accept(v Visitor) error    { return v.VisitNull(self) }
func (self *IntegerSchema) Accept(v Visitor) error { return v.VisitInteger(self) }
func (self *NumberSchema) Accept(v Visitor) error  { return v.VisitNumber(self) }
func (self *StringSchema) Accept(v Visitor) error  { return v.VisitString(self) }
func (self *ArraySchema) Accept(v Visitor) error   { return v.VisitArray(self) }
func (self *ObjectSchema) Accept(v Visitor) error  { return v.VisitObject(self) }
func (self *RefSchema) Accept(v Visitor) error     { return v.VisitRef(self) }
func (self *UnionSchema) Accept(v Visitor) error   { return v.VisitUnion(self) }

func (self AllOf) Accept(v Visitor) error       { return v.VisitAllOf(self) }
func (self AnyOf) Accept(v Visitor) error       { return v.VisitAnyOf(self) }
func (self OneOf) Accept(v Visitor) error       { return v.VisitOneOf(self) }
func (self Properties) Accept(v Visitor) error  { return v.VisitProperties(self) }
func (self Definitions) Accept(v Visitor) error { return v.VisitDefinitions(self) }

// AcceptMixin dispatches the combinators and definitions of a node in
// the fixed order allOf, anyOf, oneOf, definitions.
func AcceptMixin(m *SchemaMixin, v Visitor) error {
	if err := m.AllOf.Accept(v); err != nil {
		return err
	}
	if err := m.AnyOf.Accept(v); err != nil {
		return err
	}
	if err := m.OneOf.Accept(v); err != nil {
		return err
	}
	return m.Definitions.Accept(v)
}
