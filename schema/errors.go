package schema

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnresolvedReference is returned when an algorithm that needs real
// values meets a reference the Resolver has not filled in.
var ErrUnresolvedReference = errors.New("reference is not resolved")

// ConstructionError reports an invalid keyword value found while
// building a schema.
type ConstructionError struct {
	info  string
	paths []string
}

func NewConstructionError(info string, paths []string) *ConstructionError {
	return &ConstructionError{info: info, paths: paths}
}

func (err ConstructionError) Error() string {
	return fmt.Sprintf("ConstructionError %s, paths: %s", err.info, strings.Join(err.paths, ""))
}

func (err ConstructionError) Path() string {
	return strings.Join(err.paths, "")
}

// MalformedReferenceError reports a $ref that is not a URI reference.
type MalformedReferenceError struct {
	Address string
	paths   []string
}

func (err MalformedReferenceError) Error() string {
	return fmt.Sprintf("MalformedReferenceError %q is not a valid URI reference, paths: %s", err.Address, strings.Join(err.paths, ""))
}

// UnresolvedReferenceError reports a reference whose target does not
// exist in the source document.
type UnresolvedReferenceError struct {
	Address string
	Key     string
}

func (err UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %s: target %q not found", err.Address, err.Key)
}

// CyclicReferenceError reports a reference chain that leads back to a
// reference still being resolved.
type CyclicReferenceError struct {
	Address string
	Chain   []string
}

func (err CyclicReferenceError) Error() string {
	chain := make([]string, 0, len(err.Chain)+1)
	chain = append(chain, err.Chain...)
	chain = append(chain, err.Address)
	return fmt.Sprintf("cyclic reference %s, chain: %s", err.Address, strings.Join(chain, " -> "))
}

// ValidationError is the violation of one constraint by an instance.
type ValidationError struct {
	paths []string
	hint  string

	// Rule is the violated keyword, e.g. "maximum" or "required"
	Rule       string
	Instance   any
	Constraint any
}

// Path returns the location of the instance value, "$" is the root.
func (pos ValidationError) Path() string {
	return "$" + strings.Join(pos.paths, "")
}

func (pos ValidationError) Hint() string {
	return pos.hint
}

func (pos ValidationError) Error() string {
	return fmt.Sprintf("Validation Error: %s %s", pos.Path(), pos.hint)
}
