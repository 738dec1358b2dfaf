package schema

import (
	"regexp"
	"strings"
)

// https://tools.ietf.org/html/rfc3986#appendix-B
var uriReference = regexp.MustCompile(`^(([^:/?#]+):)?(//([^/?#]*))?([^?#]*)(\?([^#]*))?(#(.*))?$`)

// CheckReference returns a MalformedReferenceError when address does
// not match the generic URI-reference grammar.
func CheckReference(address string, paths ...string) error {
	if !uriReference.MatchString(address) || strings.ContainsAny(address, " \t\r\n") {
		return &MalformedReferenceError{Address: address, paths: paths}
	}
	return nil
}

// ReferenceSegments splits a reference address on "/" and unescapes
// each segment as a JSON pointer token.
func ReferenceSegments(address string) []string {
	if i := strings.IndexByte(address, '#'); i >= 0 {
		address = address[i+1:]
	}
	segments := strings.Split(address, "/")
	for i, seg := range segments {
		seg = strings.ReplaceAll(seg, "~1", "/")
		segments[i] = strings.ReplaceAll(seg, "~0", "~")
	}
	return segments
}
