package schema

import (
	"fmt"
	"math/big"
	"strings"
)

// util functions, each returns (value, present, error). A present
// attribute of the wrong kind is a ConstructionError.

func convertAttrMap(node map[string]any, attrName string, paths ...string) (map[string]any, bool, error) {
	v, ok := node[attrName]
	if !ok || v == nil {
		return nil, false, nil
	}
	if m, ok := v.(map[string]any); ok {
		return m, true, nil
	}
	return nil, false, NewConstructionError(fmt.Sprintf("%s must be an object", attrName), appendPath(paths, "."+attrName))
}

func convertAttrList(node map[string]any, attrName string, paths ...string) ([]any, bool, error) {
	v, ok := node[attrName]
	if !ok || v == nil {
		return nil, false, nil
	}
	if aList, ok := v.([]any); ok {
		return aList, true, nil
	}
	return nil, false, NewConstructionError(fmt.Sprintf("%s must be a list", attrName), appendPath(paths, "."+attrName))
}

func convertAttrBool(node map[string]any, attrName string, paths ...string) (bool, bool, error) {
	v, ok := node[attrName]
	if !ok || v == nil {
		return false, false, nil
	}
	if bf, ok := v.(bool); ok {
		return bf, true, nil
	}
	return false, false, NewConstructionError(fmt.Sprintf("%s must be a boolean", attrName), appendPath(paths, "."+attrName))
}

func convertAttrString(node map[string]any, attrName string, paths ...string) (string, bool, error) {
	v, ok := node[attrName]
	if !ok || v == nil {
		return "", false, nil
	}
	if s, ok := v.(string); ok {
		return s, true, nil
	}
	return "", false, NewConstructionError(fmt.Sprintf("%s must be a string", attrName), appendPath(paths, "."+attrName))
}

func convertAttrNumber(node map[string]any, attrName string, paths ...string) (*big.Rat, error) {
	v, ok := node[attrName]
	if !ok || v == nil {
		return nil, nil
	}
	if r, ok := toRat(v); ok {
		return r, nil
	}
	return nil, NewConstructionError(fmt.Sprintf("%s must be a number", attrName), appendPath(paths, "."+attrName))
}

// convertAttrCount reads a non-negative integer such as maxLength.
func convertAttrCount(node map[string]any, attrName string, paths ...string) (*int, error) {
	v, ok := node[attrName]
	if !ok || v == nil {
		return nil, nil
	}
	if r, ok := toRat(v); ok && r.Sign() >= 0 && r.IsInt() && r.Num().IsInt64() {
		n := int(r.Num().Int64())
		return &n, nil
	}
	return nil, NewConstructionError(fmt.Sprintf("%s must be a non-negative integer", attrName), appendPath(paths, "."+attrName))
}

func convertAttrListOfString(node map[string]any, attrName string, paths ...string) ([]string, error) {
	aList, ok, err := convertAttrList(node, attrName, paths...)
	if err != nil || !ok {
		return nil, err
	}
	arr := make([]string, 0, len(aList))
	for i, item := range aList {
		strItem, ok := item.(string)
		if !ok {
			return nil, NewConstructionError(fmt.Sprintf("%s must be a list of strings", attrName), appendPath(paths, "."+attrName, fmt.Sprintf("[%d]", i)))
		}
		arr = append(arr, strItem)
	}
	return arr, nil
}

// uniqueStrings de-duplicates names keeping the first occurrence.
func uniqueStrings(names []string) []string {
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

// uniqueValues de-duplicates JSON values with instance equality.
func uniqueValues(values []any) []any {
	arr := make([]any, 0, len(values))
	for _, v := range values {
		found := false
		for _, u := range arr {
			if instanceEqual(u, v) {
				found = true
				break
			}
		}
		if !found {
			arr = append(arr, v)
		}
	}
	return arr
}

func appendPath(paths []string, elems ...string) []string {
	newPaths := make([]string, 0, len(paths)+len(elems))
	newPaths = append(newPaths, paths...)
	return append(newPaths, elems...)
}

func joinPaths(paths []string) string {
	return strings.Join(paths, "")
}
