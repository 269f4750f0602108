package ordered

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
	"strconv"
)

// Clone returns a deep copy of a value tree. Unknown types are returned as-is.
func Clone(v any) any {
	switch val := v.(type) {
	case *Map:
		return val.Clone()
	case []any:
		if val == nil {
			return []any(nil)
		}
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}
		return out
	case []string:
		return slices.Clone(val)
	case map[string]any:
		if val == nil {
			return map[string]any(nil)
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Clone(item)
		}
		return out
	case map[string]string:
		return maps.Clone(val)
	default:
		return v
	}
}

// Scalar converts a json.Number to int64 when it is integral, float64 otherwise.
// Other values are returned unchanged.
func Scalar(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return string(n)
}

// Plain converts a value tree into plain Go types: *Map becomes
// map[string]any and json.Number becomes int64 or float64. Useful for
// encoders that do not know about [Map].
func Plain(v any) any {
	switch val := v.(type) {
	case *Map:
		if val == nil {
			return map[string]any(nil)
		}
		out := make(map[string]any, val.Len())
		for k, item := range val.All() {
			out[k] = Plain(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Plain(item)
		}
		return out
	default:
		return Scalar(v)
	}
}

// Number reports the numeric value of v for any of the numeric types a
// document tree may hold.
func Number(v any) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return val, true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String renders a scalar the way a loosely-typed document would print it:
// strings as-is, numbers without exponent noise, booleans as true/false.
func String(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case nil:
		return ""
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
