package openapi

// Visitor walks a Specification. Like schema.Visitor it has one method
// per node kind, Ref fields are resolved by the walking algorithm.
type Visitor interface {
	VisitSpecification(spec *Specification) error
	VisitServer(server *Server) error
	VisitComponents(c *Components) error
	VisitPathItem(item *PathItem) error
	VisitOperation(op *Operation) error
	VisitParameter(param *Parameter) error
	VisitRequestBody(body *RequestBody) error
	VisitMediaType(mt *MediaType) error
	VisitEncoding(enc *Encoding) error
	VisitResponse(resp *Response) error
	VisitHeader(header *Header) error
	VisitExample(example *Example) error
	VisitLink(link *Link) error
	VisitCallback(callback *Callback) error
	VisitSecurityScheme(scheme *SecurityScheme) error
}

// Node is implemented by every specification node.
type Node interface {
	Accept(v Visitor) error
}

func (self *Specification) Accept(v Visitor) error  { return v.VisitSpecification(self) }
func (self *Server) Accept(v Visitor) error         { return v.VisitServer(self) }
func (self *Components) Accept(v Visitor) error     { return v.VisitComponents(self) }
func (self *PathItem) Accept(v Visitor) error       { return v.VisitPathItem(self) }
func (self *Operation) Accept(v Visitor) error      { return v.VisitOperation(self) }
func (self *Parameter) Accept(v Visitor) error      { return v.VisitParameter(self) }
func (self *RequestBody) Accept(v Visitor) error    { return v.VisitRequestBody(self) }
func (self *MediaType) Accept(v Visitor) error      { return v.VisitMediaType(self) }
func (self *Encoding) Accept(v Visitor) error       { return v.VisitEncoding(self) }
func (self *Response) Accept(v Visitor) error       { return v.VisitResponse(self) }
func (self *Header) Accept(v Visitor) error         { return v.VisitHeader(self) }
func (self *Example) Accept(v Visitor) error        { return v.VisitExample(self) }
func (self *Link) Accept(v Visitor) error           { return v.VisitLink(self) }
func (self *Callback) Accept(v Visitor) error       { return v.VisitCallback(self) }
func (self *SecurityScheme) Accept(v Visitor) error { return v.VisitSecurityScheme(self) }
