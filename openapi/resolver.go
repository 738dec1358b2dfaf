package openapi

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/superisaac/schemawalk/schema"
)

// Resolver fills in the references of a Specification. Schema
// references go through schema.Resolver, other references are built
// with the type of the field holding them. Server URL templates are
// expanded on the way.
type Resolver struct {
	builder  *Builder
	document *schema.Document
	schemas  *schema.Resolver
	stack    []string
}

func NewResolver(document map[string]any, builder *Builder) *Resolver {
	if builder == nil {
		builder = NewBuilder()
	}
	r := &Resolver{
		builder:  builder,
		document: schema.NewDocument(document),
	}
	r.schemas = schema.NewResolver(document,
		schema.WithLookup(r.lookup),
		schema.WithBuilder(builder.schemas))
	return r
}

// Parse builds the specification of document and resolves it.
func Parse(document map[string]any) (*Specification, error) {
	builder := NewBuilder()
	spec, err := builder.Build(document)
	if err != nil {
		return nil, err
	}
	if err := NewResolver(document, builder).Resolve(spec); err != nil {
		return nil, err
	}
	return spec, nil
}

func (r *Resolver) Resolve(spec *Specification) error {
	r.stack = r.stack[:0]
	return spec.Accept(r)
}

// lookup finds components/<section>/<name> from the last two segments
// of address.
func (r *Resolver) lookup(address string) (any, error) {
	segments := schema.ReferenceSegments(address)
	if len(segments) < 2 {
		return nil, &schema.UnresolvedReferenceError{Address: address, Key: address}
	}
	section, name := segments[len(segments)-2], segments[len(segments)-1]
	fragment, ok := r.document.Lookup("components", section, name)
	if !ok {
		return nil, &schema.UnresolvedReferenceError{
			Address: address,
			Key:     strings.Join([]string{"components", section, name}, "/"),
		}
	}
	return fragment, nil
}

func resolveRef[T any, PT interface {
	*T
	Node
}](r *Resolver, ref *Ref[T], build func(map[string]any, ...string) (*T, error)) error {
	if ref == nil {
		return nil
	}
	if !ref.IsReference() {
		return PT(ref.Value).Accept(r)
	}
	if ref.Resolved {
		return nil
	}
	for _, addr := range r.stack {
		if addr == ref.Address {
			return &schema.CyclicReferenceError{Address: ref.Address, Chain: append([]string{}, r.stack...)}
		}
	}

	fragment, err := r.lookup(ref.Address)
	if err != nil {
		return err
	}
	node, err := asObject(fragment, ref.Address)
	if err != nil {
		return err
	}
	value, err := build(node, ref.Address)
	if err != nil {
		return errors.Wrapf(err, "build reference %s", ref.Address)
	}

	r.stack = append(r.stack, ref.Address)
	err = PT(value).Accept(r)
	r.stack = r.stack[:len(r.stack)-1]
	if err != nil {
		return err
	}

	ref.Value = value
	ref.Resolved = true
	log.Debugf("resolved reference %s", ref.Address)
	return nil
}

func resolveRefMap[T any, PT interface {
	*T
	Node
}](r *Resolver, refs map[string]*Ref[T], build func(map[string]any, ...string) (*T, error)) error {
	for _, name := range sortedKeys(refs) {
		if err := resolveRef[T, PT](r, refs[name], build); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveSchema(s schema.Schema) error {
	if s == nil {
		return nil
	}
	return r.schemas.Resolve(s)
}

func (r *Resolver) visitServers(servers []*Server) error {
	for _, server := range servers {
		if err := server.Accept(r); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) visitContent(content map[string]*MediaType) error {
	for _, name := range sortedKeys(content) {
		if err := content[name].Accept(r); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) visitParameters(params []*Ref[Parameter]) error {
	for _, param := range params {
		if err := resolveRef(r, param, r.builder.buildParameter); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) VisitSpecification(spec *Specification) error {
	if err := r.visitServers(spec.Servers); err != nil {
		return err
	}
	for _, name := range sortedKeys(spec.Paths) {
		if err := spec.Paths[name].Accept(r); err != nil {
			return err
		}
	}
	if spec.Components == nil {
		return nil
	}
	return spec.Components.Accept(r)
}

// VisitServer replaces every {name} in the URL with the default of the
// variable.
func (r *Resolver) VisitServer(server *Server) error {
	for _, name := range sortedKeys(server.Variables) {
		variable := server.Variables[name]
		if variable == nil {
			continue
		}
		server.URL = strings.ReplaceAll(server.URL, "{"+name+"}", variable.Default)
	}
	return nil
}

func (r *Resolver) VisitComponents(c *Components) error {
	for _, name := range sortedKeys(c.Schemas) {
		if err := r.resolveSchema(c.Schemas[name]); err != nil {
			return err
		}
	}
	if err := resolveRefMap(r, c.Responses, r.builder.buildResponse); err != nil {
		return err
	}
	if err := resolveRefMap(r, c.Parameters, r.builder.buildParameter); err != nil {
		return err
	}
	if err := resolveRefMap(r, c.Examples, r.builder.buildExample); err != nil {
		return err
	}
	if err := resolveRefMap(r, c.RequestBodies, r.builder.buildRequestBody); err != nil {
		return err
	}
	if err := resolveRefMap(r, c.Headers, r.builder.buildHeader); err != nil {
		return err
	}
	if err := resolveRefMap(r, c.SecuritySchemes, r.builder.buildSecurityScheme); err != nil {
		return err
	}
	if err := resolveRefMap(r, c.Links, r.builder.buildLink); err != nil {
		return err
	}
	return resolveRefMap(r, c.Callbacks, r.builder.buildCallback)
}

func (r *Resolver) VisitPathItem(item *PathItem) error {
	if err := r.visitServers(item.Servers); err != nil {
		return err
	}
	if err := r.visitParameters(item.Parameters); err != nil {
		return err
	}
	for _, method := range Methods {
		if op, ok := item.Operations[method]; ok {
			if err := op.Accept(r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Resolver) VisitOperation(op *Operation) error {
	if err := r.visitParameters(op.Parameters); err != nil {
		return err
	}
	if err := resolveRef(r, op.RequestBody, r.builder.buildRequestBody); err != nil {
		return err
	}
	if err := resolveRefMap(r, op.Responses, r.builder.buildResponse); err != nil {
		return err
	}
	if err := resolveRefMap(r, op.Callbacks, r.builder.buildCallback); err != nil {
		return err
	}
	return r.visitServers(op.Servers)
}

func (r *Resolver) VisitParameter(param *Parameter) error {
	if err := r.resolveSchema(param.Schema); err != nil {
		return err
	}
	if err := resolveRefMap(r, param.Examples, r.builder.buildExample); err != nil {
		return err
	}
	return r.visitContent(param.Content)
}

func (r *Resolver) VisitHeader(header *Header) error {
	if err := r.resolveSchema(header.Schema); err != nil {
		return err
	}
	if err := resolveRefMap(r, header.Examples, r.builder.buildExample); err != nil {
		return err
	}
	return r.visitContent(header.Content)
}

func (r *Resolver) VisitRequestBody(body *RequestBody) error {
	return r.visitContent(body.Content)
}

func (r *Resolver) VisitMediaType(mt *MediaType) error {
	if err := r.resolveSchema(mt.Schema); err != nil {
		return err
	}
	if err := resolveRefMap(r, mt.Examples, r.builder.buildExample); err != nil {
		return err
	}
	for _, name := range sortedKeys(mt.Encoding) {
		if err := mt.Encoding[name].Accept(r); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) VisitEncoding(enc *Encoding) error {
	return resolveRefMap(r, enc.Headers, r.builder.buildHeader)
}

func (r *Resolver) VisitResponse(resp *Response) error {
	if err := resolveRefMap(r, resp.Headers, r.builder.buildHeader); err != nil {
		return err
	}
	if err := r.visitContent(resp.Content); err != nil {
		return err
	}
	return resolveRefMap(r, resp.Links, r.builder.buildLink)
}

func (r *Resolver) VisitExample(example *Example) error {
	return nil
}

func (r *Resolver) VisitLink(link *Link) error {
	if link.Server == nil {
		return nil
	}
	return link.Server.Accept(r)
}

func (r *Resolver) VisitCallback(callback *Callback) error {
	for _, expr := range sortedKeys(callback.PathItems) {
		if err := callback.PathItems[expr].Accept(r); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) VisitSecurityScheme(scheme *SecurityScheme) error {
	return nil
}
