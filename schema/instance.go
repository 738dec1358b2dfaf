package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"

	"github.com/superisaac/schemawalk"
)

// instance type names as used by the "type" keyword
const (
	TypeBoolean = "boolean"
	TypeNull    = "null"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeArray   = "array"
	TypeObject  = "object"
)

func knownType(name string) bool {
	switch name {
	case TypeBoolean, TypeNull, TypeInteger, TypeNumber, TypeString, TypeArray, TypeObject:
		return true
	}
	return false
}

// toRat converts every numeric Go kind produced by the JSON and YAML
// decoders to an exact rational. Floats go through their shortest
// decimal form, so float64(0.1) is exactly one tenth.
func toRat(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case json.Number:
		return new(big.Rat).SetString(string(n))
	case float64:
		return floatRat(n, 64)
	case float32:
		return floatRat(float64(n), 32)
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int8:
		return new(big.Rat).SetInt64(int64(n)), true
	case int16:
		return new(big.Rat).SetInt64(int64(n)), true
	case int32:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	case uint:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint8:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Rat).SetUint64(n), true
	}
	return nil, false
}

func floatRat(f float64, bitSize int) (*big.Rat, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}
	return new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, bitSize))
}

// numberOf renders an exact rational as a JSON number, non-integers are
// rounded to the nearest float64.
func numberOf(r *big.Rat) json.Number {
	if r.IsInt() {
		return json.Number(r.Num().String())
	}
	f, _ := r.Float64()
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// instanceType infers the type name of a JSON compatible value. Numbers
// with no fractional part are integers.
func instanceType(v any) (string, bool) {
	switch v.(type) {
	case nil:
		return TypeNull, true
	case bool:
		return TypeBoolean, true
	case string:
		return TypeString, true
	case []any:
		return TypeArray, true
	case map[string]any:
		return TypeObject, true
	}
	if r, ok := toRat(v); ok {
		if r.IsInt() {
			return TypeInteger, true
		}
		return TypeNumber, true
	}
	return "", false
}

// typeMatches reports whether an instance of type tp satisfies the
// declared type names.
func typeMatches(tp string, declared []string) bool {
	for _, name := range declared {
		if name == tp || (name == TypeNumber && tp == TypeInteger) {
			return true
		}
	}
	return false
}

// instanceEqual compares two JSON values, numbers compare by value
// regardless of their Go representation.
func instanceEqual(a, b any) bool {
	if ra, ok := toRat(a); ok {
		rb, ok := toRat(b)
		return ok && ra.Cmp(rb) == 0
	}
	switch va := a.(type) {
	case nil:
		return b == nil
	case bool:
		vb, ok := b.(bool)
		return ok && va == vb
	case string:
		vb, ok := b.(string)
		return ok && va == vb
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !instanceEqual(va[i], vb[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for k, v := range va {
			w, found := vb[k]
			if !found || !instanceEqual(v, w) {
				return false
			}
		}
		return true
	}
	return false
}

// formatValue renders a value for error messages.
func formatValue(v any) string {
	if repr, err := schemawalk.MarshalJson(v); err == nil {
		return repr
	}
	return fmt.Sprintf("%v", v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
