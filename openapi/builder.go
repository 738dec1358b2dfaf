package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/superisaac/schemawalk"
	"github.com/superisaac/schemawalk/schema"
)

// Builder materializes a Specification from a decoded document. Schema
// fragments are built with the embedded schema builder.
type Builder struct {
	schemas *schema.SchemaBuilder
}

func NewBuilder() *Builder {
	return &Builder{schemas: schema.NewSchemaBuilder()}
}

// Warnings returns the schema builder warnings collected so far.
func (builder *Builder) Warnings() []string {
	return builder.schemas.Warnings()
}

func (builder *Builder) Build(document map[string]any) (*Specification, error) {
	spec := &Specification{}
	var err error

	if spec.OpenAPI, err = attrString(document, "openapi"); err != nil {
		return nil, err
	}
	infoNode, ok := document["info"]
	if !ok {
		return nil, schema.NewConstructionError("info is required", []string{".info"})
	}
	spec.Info = &Info{}
	if err := decodeLeaf(infoNode, spec.Info, ".info"); err != nil {
		return nil, err
	}

	// an absent or empty server list means a single server at /
	if spec.Servers, err = builder.buildServers(document); err != nil {
		return nil, err
	}
	if len(spec.Servers) == 0 {
		spec.Servers = []*Server{{URL: "/"}}
	}

	pathsNode, ok := document["paths"].(map[string]any)
	if !ok {
		return nil, schema.NewConstructionError("paths is required", []string{".paths"})
	}
	spec.Paths = make(map[string]*PathItem, len(pathsNode))
	for _, name := range sortedKeys(pathsNode) {
		item, err := builder.buildPathItem(pathsNode[name], ".paths", "."+name)
		if err != nil {
			return nil, err
		}
		spec.Paths[name] = item
	}

	componentsNode, _ := document["components"].(map[string]any)
	if spec.Components, err = builder.buildComponents(componentsNode, ".components"); err != nil {
		return nil, err
	}

	if security, ok := document["security"]; ok {
		if err := decodeLeaf(security, &spec.Security, ".security"); err != nil {
			return nil, err
		}
	}
	if tags, ok := document["tags"]; ok {
		if err := decodeLeaf(tags, &spec.Tags, ".tags"); err != nil {
			return nil, err
		}
	}
	if docs, ok := document["externalDocs"]; ok {
		spec.ExternalDocs = &ExternalDocumentation{}
		if err := decodeLeaf(docs, spec.ExternalDocs, ".externalDocs"); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

// decodeLeaf decodes an object with no schema or reference inside.
func decodeLeaf(node any, output any, paths ...string) error {
	if err := schemawalk.DecodeInterface(node, output); err != nil {
		return schema.NewConstructionError(err.Error(), paths)
	}
	return nil
}

func attrString(node map[string]any, attrName string, paths ...string) (string, error) {
	v, ok := node[attrName]
	if !ok || v == nil {
		return "", nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", schema.NewConstructionError(fmt.Sprintf("%s must be a string", attrName), appendPath(paths, "."+attrName))
}

func attrMap(node map[string]any, attrName string, paths ...string) (map[string]any, error) {
	v, ok := node[attrName]
	if !ok || v == nil {
		return nil, nil
	}
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	return nil, schema.NewConstructionError(fmt.Sprintf("%s must be an object", attrName), appendPath(paths, "."+attrName))
}

func attrList(node map[string]any, attrName string, paths ...string) ([]any, error) {
	v, ok := node[attrName]
	if !ok || v == nil {
		return nil, nil
	}
	if l, ok := v.([]any); ok {
		return l, nil
	}
	return nil, schema.NewConstructionError(fmt.Sprintf("%s must be a list", attrName), appendPath(paths, "."+attrName))
}

func asObject(node any, paths ...string) (map[string]any, error) {
	if m, ok := node.(map[string]any); ok {
		return m, nil
	}
	return nil, schema.NewConstructionError("data is not an object", paths)
}

// buildRef builds an inline value with build, or records the address
// of a $ref for the Resolver.
func buildRef[T any](node any, build func(map[string]any, ...string) (*T, error), paths ...string) (*Ref[T], error) {
	m, err := asObject(node, paths...)
	if err != nil {
		return nil, err
	}
	if address, ok := m["$ref"]; ok {
		s, ok := address.(string)
		if !ok {
			return nil, schema.NewConstructionError("$ref must be a string", appendPath(paths, ".$ref"))
		}
		if err := schema.CheckReference(s, appendPath(paths, ".$ref")...); err != nil {
			return nil, err
		}
		return &Ref[T]{Address: s}, nil
	}
	value, err := build(m, paths...)
	if err != nil {
		return nil, err
	}
	return &Ref[T]{Resolved: true, Value: value}, nil
}

func buildRefMap[T any](node map[string]any, attrName string, build func(map[string]any, ...string) (*T, error), paths ...string) (map[string]*Ref[T], error) {
	members, err := attrMap(node, attrName, paths...)
	if err != nil {
		return nil, err
	}
	refs := make(map[string]*Ref[T], len(members))
	for _, name := range sortedKeys(members) {
		ref, err := buildRef(members[name], build, appendPath(paths, "."+attrName, "."+name)...)
		if err != nil {
			return nil, err
		}
		refs[name] = ref
	}
	return refs, nil
}

func (builder *Builder) buildSchema(node map[string]any, paths ...string) (schema.Schema, error) {
	v, ok := node["schema"]
	if !ok || v == nil {
		return &schema.EmptySchema{}, nil
	}
	return builder.schemas.BuildAt(v, appendPath(paths, ".schema")...)
}

func (builder *Builder) buildServers(node map[string]any, paths ...string) ([]*Server, error) {
	elems, err := attrList(node, "servers", paths...)
	if err != nil {
		return nil, err
	}
	servers := make([]*Server, 0, len(elems))
	for i, elem := range elems {
		server := &Server{}
		if err := decodeLeaf(elem, server, appendPath(paths, ".servers", fmt.Sprintf("[%d]", i))...); err != nil {
			return nil, err
		}
		servers = append(servers, server)
	}
	return servers, nil
}

func (builder *Builder) buildComponents(node map[string]any, paths ...string) (*Components, error) {
	c := &Components{Schemas: make(map[string]schema.Schema)}
	var err error

	schemas, err := attrMap(node, "schemas", paths...)
	if err != nil {
		return nil, err
	}
	for _, name := range sortedKeys(schemas) {
		s, err := builder.schemas.BuildAt(schemas[name], appendPath(paths, ".schemas", "."+name)...)
		if err != nil {
			return nil, err
		}
		c.Schemas[name] = s
	}

	if c.Responses, err = buildRefMap(node, "responses", builder.buildResponse, paths...); err != nil {
		return nil, err
	}
	if c.Parameters, err = buildRefMap(node, "parameters", builder.buildParameter, paths...); err != nil {
		return nil, err
	}
	if c.Examples, err = buildRefMap(node, "examples", builder.buildExample, paths...); err != nil {
		return nil, err
	}
	if c.RequestBodies, err = buildRefMap(node, "requestBodies", builder.buildRequestBody, paths...); err != nil {
		return nil, err
	}
	if c.Headers, err = buildRefMap(node, "headers", builder.buildHeader, paths...); err != nil {
		return nil, err
	}
	if c.SecuritySchemes, err = buildRefMap(node, "securitySchemes", builder.buildSecurityScheme, paths...); err != nil {
		return nil, err
	}
	if c.Links, err = buildRefMap(node, "links", builder.buildLink, paths...); err != nil {
		return nil, err
	}
	if c.Callbacks, err = buildRefMap(node, "callbacks", builder.buildCallback, paths...); err != nil {
		return nil, err
	}
	return c, nil
}

func (builder *Builder) buildPathItem(node any, paths ...string) (*PathItem, error) {
	m, err := asObject(node, paths...)
	if err != nil {
		return nil, err
	}
	item := &PathItem{Operations: make(map[string]*Operation)}
	if err := decodeLeaf(m, item, paths...); err != nil {
		return nil, err
	}
	if item.Servers, err = builder.buildServers(m, paths...); err != nil {
		return nil, err
	}
	if item.Parameters, err = builder.buildParameters(m, paths...); err != nil {
		return nil, err
	}
	for _, method := range Methods {
		opNode, ok := m[method]
		if !ok || opNode == nil {
			continue
		}
		op, err := builder.buildOperation(opNode, appendPath(paths, "."+method)...)
		if err != nil {
			return nil, err
		}
		item.Operations[method] = op
	}
	return item, nil
}

func (builder *Builder) buildParameters(node map[string]any, paths ...string) ([]*Ref[Parameter], error) {
	elems, err := attrList(node, "parameters", paths...)
	if err != nil {
		return nil, err
	}
	params := make([]*Ref[Parameter], 0, len(elems))
	for i, elem := range elems {
		param, err := buildRef(elem, builder.buildParameter, appendPath(paths, ".parameters", fmt.Sprintf("[%d]", i))...)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	return params, nil
}

func (builder *Builder) buildOperation(node any, paths ...string) (*Operation, error) {
	m, err := asObject(node, paths...)
	if err != nil {
		return nil, err
	}
	op := &Operation{}
	if err := decodeLeaf(m, op, paths...); err != nil {
		return nil, err
	}
	op.Tags = uniqueStrings(op.Tags)

	if op.Parameters, err = builder.buildParameters(m, paths...); err != nil {
		return nil, err
	}
	if body, ok := m["requestBody"]; ok && body != nil {
		if op.RequestBody, err = buildRef(body, builder.buildRequestBody, appendPath(paths, ".requestBody")...); err != nil {
			return nil, err
		}
	}
	if _, ok := m["responses"]; !ok {
		return nil, schema.NewConstructionError("responses is required", appendPath(paths, ".responses"))
	}
	if op.Responses, err = buildRefMap(m, "responses", builder.buildResponse, paths...); err != nil {
		return nil, err
	}
	if op.Callbacks, err = buildRefMap(m, "callbacks", builder.buildCallback, paths...); err != nil {
		return nil, err
	}
	if op.Servers, err = builder.buildServers(m, paths...); err != nil {
		return nil, err
	}
	return op, nil
}

func (builder *Builder) buildParameter(node map[string]any, paths ...string) (*Parameter, error) {
	param := &Parameter{}
	if err := decodeLeaf(node, param, paths...); err != nil {
		return nil, err
	}
	switch param.In {
	case InQuery, InHeader, InPath, InCookie:
	default:
		return nil, schema.NewConstructionError(
			fmt.Sprintf("parameter location %q is not one of query, header, path, cookie", param.In),
			appendPath(paths, ".in"))
	}
	var err error
	if param.Schema, err = builder.buildSchema(node, paths...); err != nil {
		return nil, err
	}
	if param.Examples, err = buildRefMap(node, "examples", builder.buildExample, paths...); err != nil {
		return nil, err
	}
	if param.Content, err = builder.buildContent(node, paths...); err != nil {
		return nil, err
	}
	return param, nil
}

func (builder *Builder) buildHeader(node map[string]any, paths ...string) (*Header, error) {
	header := &Header{}
	if err := decodeLeaf(node, header, paths...); err != nil {
		return nil, err
	}
	var err error
	if header.Schema, err = builder.buildSchema(node, paths...); err != nil {
		return nil, err
	}
	if header.Examples, err = buildRefMap(node, "examples", builder.buildExample, paths...); err != nil {
		return nil, err
	}
	if header.Content, err = builder.buildContent(node, paths...); err != nil {
		return nil, err
	}
	return header, nil
}

func (builder *Builder) buildRequestBody(node map[string]any, paths ...string) (*RequestBody, error) {
	body := &RequestBody{}
	if err := decodeLeaf(node, body, paths...); err != nil {
		return nil, err
	}
	if _, ok := node["content"]; !ok {
		return nil, schema.NewConstructionError("content is required", appendPath(paths, ".content"))
	}
	var err error
	if body.Content, err = builder.buildContent(node, paths...); err != nil {
		return nil, err
	}
	return body, nil
}

func (builder *Builder) buildContent(node map[string]any, paths ...string) (map[string]*MediaType, error) {
	members, err := attrMap(node, "content", paths...)
	if err != nil {
		return nil, err
	}
	content := make(map[string]*MediaType, len(members))
	for _, name := range sortedKeys(members) {
		mt, err := builder.buildMediaType(members[name], appendPath(paths, ".content", "."+name)...)
		if err != nil {
			return nil, err
		}
		content[name] = mt
	}
	return content, nil
}

func (builder *Builder) buildMediaType(node any, paths ...string) (*MediaType, error) {
	m, err := asObject(node, paths...)
	if err != nil {
		return nil, err
	}
	mt := &MediaType{}
	if err := decodeLeaf(m, mt, paths...); err != nil {
		return nil, err
	}
	if mt.Schema, err = builder.buildSchema(m, paths...); err != nil {
		return nil, err
	}
	if mt.Examples, err = buildRefMap(m, "examples", builder.buildExample, paths...); err != nil {
		return nil, err
	}
	encodings, err := attrMap(m, "encoding", paths...)
	if err != nil {
		return nil, err
	}
	mt.Encoding = make(map[string]*Encoding, len(encodings))
	for _, name := range sortedKeys(encodings) {
		encPaths := appendPath(paths, ".encoding", "."+name)
		encNode, err := asObject(encodings[name], encPaths...)
		if err != nil {
			return nil, err
		}
		enc := &Encoding{}
		if err := decodeLeaf(encNode, enc, encPaths...); err != nil {
			return nil, err
		}
		if enc.Headers, err = buildRefMap(encNode, "headers", builder.buildHeader, encPaths...); err != nil {
			return nil, err
		}
		mt.Encoding[name] = enc
	}
	return mt, nil
}

func (builder *Builder) buildResponse(node map[string]any, paths ...string) (*Response, error) {
	resp := &Response{}
	if err := decodeLeaf(node, resp, paths...); err != nil {
		return nil, err
	}
	var err error
	if resp.Headers, err = buildRefMap(node, "headers", builder.buildHeader, paths...); err != nil {
		return nil, err
	}
	if resp.Content, err = builder.buildContent(node, paths...); err != nil {
		return nil, err
	}
	if resp.Links, err = buildRefMap(node, "links", builder.buildLink, paths...); err != nil {
		return nil, err
	}
	return resp, nil
}

func (builder *Builder) buildExample(node map[string]any, paths ...string) (*Example, error) {
	example := &Example{}
	if err := decodeLeaf(node, example, paths...); err != nil {
		return nil, err
	}
	return example, nil
}

func (builder *Builder) buildLink(node map[string]any, paths ...string) (*Link, error) {
	link := &Link{}
	if err := decodeLeaf(node, link, paths...); err != nil {
		return nil, err
	}
	return link, nil
}

func (builder *Builder) buildCallback(node map[string]any, paths ...string) (*Callback, error) {
	callback := &Callback{PathItems: make(map[string]*PathItem, len(node))}
	for _, expr := range sortedKeys(node) {
		item, err := builder.buildPathItem(node[expr], appendPath(paths, "."+expr)...)
		if err != nil {
			return nil, err
		}
		callback.PathItems[expr] = item
	}
	return callback, nil
}

func (builder *Builder) buildSecurityScheme(node map[string]any, paths ...string) (*SecurityScheme, error) {
	scheme := &SecurityScheme{}
	if err := decodeLeaf(node, scheme, paths...); err != nil {
		return nil, err
	}
	switch scheme.Type {
	case SecurityAPIKey:
		// only api keys have a location
		switch scheme.In {
		case InQuery, InHeader, InCookie:
		default:
			return nil, schema.NewConstructionError(
				fmt.Sprintf("api key location %q is not one of query, header, cookie", scheme.In),
				appendPath(paths, ".in"))
		}
	case SecurityHTTP, SecurityOAuth2, SecurityOpenIDConnect:
	default:
		return nil, schema.NewConstructionError(
			fmt.Sprintf("security scheme type %q is not one of %s", scheme.Type,
				strings.Join([]string{SecurityAPIKey, SecurityHTTP, SecurityOAuth2, SecurityOpenIDConnect}, ", ")),
			appendPath(paths, ".type"))
	}
	return scheme, nil
}

func appendPath(paths []string, elems ...string) []string {
	newPaths := make([]string, 0, len(paths)+len(elems))
	newPaths = append(newPaths, paths...)
	return append(newPaths, elems...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func uniqueStrings(names []string) []string {
	if names == nil {
		return nil
	}
	seen := make(map[string]bool, len(names))
	arr := make([]string, 0, len(names))
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			arr = append(arr, name)
		}
	}
	return arr
}
