package schema

import (
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Resolver fills in every RefSchema of a tree with a freshly built copy
// of its target. Resolution happens in place and is idempotent, a
// reference already resolved is left untouched.
//
// A reference whose target chain leads back to a reference still being
// resolved fails with CyclicReferenceError.
type Resolver struct {
	builder *SchemaBuilder
	lookup  Lookup
	stack   []string
}

type ResolverOption func(r *Resolver)

// WithLookup replaces the default "definitions" lookup.
func WithLookup(lookup Lookup) ResolverOption {
	return func(r *Resolver) {
		r.lookup = lookup
	}
}

// WithBuilder sets the builder used to materialize reference targets.
func WithBuilder(builder *SchemaBuilder) ResolverOption {
	return func(r *Resolver) {
		r.builder = builder
	}
}

func NewResolver(document map[string]any, opts ...ResolverOption) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.builder == nil {
		r.builder = NewSchemaBuilder()
	}
	if r.lookup == nil {
		r.lookup = DefinitionsLookup(NewDocument(document))
	}
	return r
}

// Resolve resolves every reference reachable from root.
func (r *Resolver) Resolve(root Schema) error {
	r.stack = r.stack[:0]
	return r.accept(root)
}

// Resolve resolves root against the "definitions" of document.
func Resolve(root Schema, document map[string]any) error {
	return NewResolver(document).Resolve(root)
}

// Parse builds the schema tree of document and resolves it.
func Parse(document map[string]any) (Schema, error) {
	builder := NewSchemaBuilder()
	root, err := builder.Build(document)
	if err != nil {
		return nil, err
	}
	if err := NewResolver(document, WithBuilder(builder)).Resolve(root); err != nil {
		return nil, err
	}
	return root, nil
}

func (r *Resolver) accept(s Schema) error {
	if s == nil {
		return nil
	}
	return s.Accept(r)
}

func (r *Resolver) VisitEmpty(s *EmptySchema) error {
	return nil
}

func (r *Resolver) VisitEnum(s *EnumSchema) error {
	return AcceptMixin(&s.SchemaMixin, r)
}

func (r *Resolver) VisitBoolean(s *BooleanSchema) error {
	return AcceptMixin(&s.SchemaMixin, r)
}

func (r *Resolver) VisitNull(s *NullSchema) error {
	return AcceptMixin(&s.SchemaMixin, r)
}

func (r *Resolver) VisitInteger(s *IntegerSchema) error {
	return AcceptMixin(&s.SchemaMixin, r)
}

func (r *Resolver) VisitNumber(s *NumberSchema) error {
	return AcceptMixin(&s.SchemaMixin, r)
}

func (r *Resolver) VisitString(s *StringSchema) error {
	return AcceptMixin(&s.SchemaMixin, r)
}

func (r *Resolver) VisitUnion(s *UnionSchema) error {
	return AcceptMixin(&s.SchemaMixin, r)
}

func (r *Resolver) VisitArray(s *ArraySchema) error {
	if err := AcceptMixin(&s.SchemaMixin, r); err != nil {
		return err
	}
	if s.TupleItems != nil {
		for _, item := range s.TupleItems {
			if err := r.accept(item); err != nil {
				return err
			}
		}
	} else if err := r.accept(s.Items); err != nil {
		return err
	}
	if err := r.accept(s.AdditionalItems); err != nil {
		return err
	}
	return r.accept(s.Contains)
}

func (r *Resolver) VisitObject(s *ObjectSchema) error {
	if err := AcceptMixin(&s.SchemaMixin, r); err != nil {
		return err
	}
	if err := s.Properties.Accept(r); err != nil {
		return err
	}
	return r.accept(s.AdditionalProperties)
}

func (r *Resolver) VisitRef(s *RefSchema) error {
	if s.Resolved {
		return nil
	}
	for _, addr := range r.stack {
		if addr == s.Address {
			return &CyclicReferenceError{Address: s.Address, Chain: append([]string{}, r.stack...)}
		}
	}

	fragment, err := r.lookup(s.Address)
	if err != nil {
		return err
	}
	value, err := r.builder.BuildAt(fragment, s.Address)
	if err != nil {
		return errors.Wrapf(err, "build reference %s", s.Address)
	}

	// resolve the target too, so chains of references are flattened
	r.stack = append(r.stack, s.Address)
	err = r.accept(value)
	r.stack = r.stack[:len(r.stack)-1]
	if err != nil {
		return err
	}

	s.Value = value
	s.Resolved = true
	log.Debugf("resolved reference %s to %s schema", s.Address, value.Type())
	return nil
}

func (r *Resolver) visitList(children []Schema) error {
	for _, child := range children {
		if err := r.accept(child); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) visitMap(children map[string]Schema) error {
	for _, name := range sortedSchemaKeys(children) {
		if err := r.accept(children[name]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) VisitAllOf(c AllOf) error {
	return r.visitList(c)
}

func (r *Resolver) VisitAnyOf(c AnyOf) error {
	return r.visitList(c)
}

func (r *Resolver) VisitOneOf(c OneOf) error {
	return r.visitList(c)
}

func (r *Resolver) VisitProperties(c Properties) error {
	return r.visitMap(c)
}

func (r *Resolver) VisitDefinitions(c Definitions) error {
	return r.visitMap(c)
}

func sortedSchemaKeys(m map[string]Schema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
