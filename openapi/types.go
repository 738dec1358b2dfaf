// Package openapi models OpenAPI 3 documents. Schema fields hold
// schema.Schema trees so the validator and the avro converter work on
// them unchanged.
package openapi

import (
	"github.com/superisaac/schemawalk/schema"
)

// Ref is a field that is either an inline value or a reference to a
// component. Inline values are built resolved, references get their
// Value from the Resolver.
type Ref[T any] struct {
	Address  string
	Resolved bool
	Value    *T
}

// IsReference reports whether the field was written as a $ref.
func (ref Ref[T]) IsReference() bool {
	return ref.Address != ""
}

type Specification struct {
	OpenAPI      string
	Info         *Info
	Servers      []*Server
	Paths        map[string]*PathItem
	Components   *Components
	Security     []SecurityRequirement
	Tags         []*Tag
	ExternalDocs *ExternalDocumentation
}

type Info struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	TermsOfService string   `json:"termsOfService"`
	Contact        *Contact `json:"contact"`
	License        *License `json:"license"`
	Version        string   `json:"version"`
}

type Contact struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Email string `json:"email"`
}

type License struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Server struct {
	URL         string                     `json:"url"`
	Description string                     `json:"description"`
	Variables   map[string]*ServerVariable `json:"variables"`
}

type ServerVariable struct {
	Enum        []string `json:"enum"`
	Default     string   `json:"default"`
	Description string   `json:"description"`
}

type Components struct {
	Schemas         map[string]schema.Schema
	Responses       map[string]*Ref[Response]
	Parameters      map[string]*Ref[Parameter]
	Examples        map[string]*Ref[Example]
	RequestBodies   map[string]*Ref[RequestBody]
	Headers         map[string]*Ref[Header]
	SecuritySchemes map[string]*Ref[SecurityScheme]
	Links           map[string]*Ref[Link]
	Callbacks       map[string]*Ref[Callback]
}

// PathItem holds the operations of one path keyed by lower case HTTP
// method.
type PathItem struct {
	Ref         string                `json:"$ref"`
	Summary     string                `json:"summary"`
	Description string                `json:"description"`
	Servers     []*Server             `json:"-"`
	Parameters  []*Ref[Parameter]     `json:"-"`
	Operations  map[string]*Operation `json:"-"`
}

// HTTP methods a path item may hold operations for
var Methods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

type Operation struct {
	Tags         []string                  `json:"tags"`
	Summary      string                    `json:"summary"`
	Description  string                    `json:"description"`
	ExternalDocs *ExternalDocumentation    `json:"externalDocs"`
	OperationID  string                    `json:"operationId"`
	Parameters   []*Ref[Parameter]         `json:"-"`
	RequestBody  *Ref[RequestBody]         `json:"-"`
	Responses    map[string]*Ref[Response] `json:"-"`
	Callbacks    map[string]*Ref[Callback] `json:"-"`
	Deprecated   bool                      `json:"deprecated"`
	Security     []SecurityRequirement     `json:"security"`
	Servers      []*Server                 `json:"-"`
}

// parameter locations
const (
	InQuery  = "query"
	InHeader = "header"
	InPath   = "path"
	InCookie = "cookie"
)

type Parameter struct {
	Name            string                   `json:"name"`
	In              string                   `json:"in"`
	Description     string                   `json:"description"`
	Required        bool                     `json:"required"`
	Deprecated      bool                     `json:"deprecated"`
	AllowEmptyValue bool                     `json:"allowEmptyValue"`
	Style           string                   `json:"style"`
	Explode         bool                     `json:"explode"`
	AllowReserved   bool                     `json:"allowReserved"`
	Schema          schema.Schema            `json:"-"`
	Example         any                      `json:"example"`
	Examples        map[string]*Ref[Example] `json:"-"`
	Content         map[string]*MediaType    `json:"-"`
}

type RequestBody struct {
	Description string                `json:"description"`
	Content     map[string]*MediaType `json:"-"`
	Required    bool                  `json:"required"`
}

type MediaType struct {
	Schema   schema.Schema            `json:"-"`
	Example  any                      `json:"example"`
	Examples map[string]*Ref[Example] `json:"-"`
	Encoding map[string]*Encoding     `json:"-"`
}

type Encoding struct {
	ContentType   string                  `json:"contentType"`
	Headers       map[string]*Ref[Header] `json:"-"`
	Style         string                  `json:"style"`
	Explode       bool                    `json:"explode"`
	AllowReserved bool                    `json:"allowReserved"`
}

type Response struct {
	Description string                  `json:"description"`
	Headers     map[string]*Ref[Header] `json:"-"`
	Content     map[string]*MediaType   `json:"-"`
	Links       map[string]*Ref[Link]   `json:"-"`
}

// Header is a Parameter without name and location.
type Header struct {
	Description     string                   `json:"description"`
	Required        bool                     `json:"required"`
	Deprecated      bool                     `json:"deprecated"`
	AllowEmptyValue bool                     `json:"allowEmptyValue"`
	Style           string                   `json:"style"`
	Explode         bool                     `json:"explode"`
	AllowReserved   bool                     `json:"allowReserved"`
	Schema          schema.Schema            `json:"-"`
	Example         any                      `json:"example"`
	Examples        map[string]*Ref[Example] `json:"-"`
	Content         map[string]*MediaType    `json:"-"`
}

type Example struct {
	Summary       string `json:"summary"`
	Description   string `json:"description"`
	Value         any    `json:"value"`
	ExternalValue string `json:"externalValue"`
}

type Link struct {
	OperationRef string         `json:"operationRef"`
	OperationID  string         `json:"operationId"`
	Parameters   map[string]any `json:"parameters"`
	RequestBody  any            `json:"requestBody"`
	Description  string         `json:"description"`
	Server       *Server        `json:"server"`
}

// Callback maps runtime expressions to the path items invoked.
type Callback struct {
	PathItems map[string]*PathItem
}

// security scheme types
const (
	SecurityAPIKey        = "apiKey"
	SecurityHTTP          = "http"
	SecurityOAuth2        = "oauth2"
	SecurityOpenIDConnect = "openIdConnect"
)

type SecurityScheme struct {
	Type             string      `json:"type"`
	Description      string      `json:"description"`
	Name             string      `json:"name"`
	In               string      `json:"in"`
	Scheme           string      `json:"scheme"`
	BearerFormat     string      `json:"bearerFormat"`
	Flows            *OAuthFlows `json:"flows"`
	OpenIDConnectURL string      `json:"openIdConnectUrl"`
}

type OAuthFlows struct {
	Implicit          *OAuthFlow `json:"implicit"`
	Password          *OAuthFlow `json:"password"`
	ClientCredentials *OAuthFlow `json:"clientCredentials"`
	AuthorizationCode *OAuthFlow `json:"authorizationCode"`
}

type OAuthFlow struct {
	AuthorizationURL string            `json:"authorizationUrl"`
	TokenURL         string            `json:"tokenUrl"`
	RefreshURL       string            `json:"refreshUrl"`
	Scopes           map[string]string `json:"scopes"`
}

// SecurityRequirement maps scheme names to the scopes required.
type SecurityRequirement map[string][]string

type Tag struct {
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	ExternalDocs *ExternalDocumentation `json:"externalDocs"`
}

type ExternalDocumentation struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}
