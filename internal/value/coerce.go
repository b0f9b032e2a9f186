package value

import (
	"fmt"
	"time"
)

// FromGo converts a native Go value (as produced by database drivers or
// decoders) into a Value. Unknown types fall back to their fmt rendering.
func FromGo(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case int64:
		return Int(t)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case uint:
		return Int(int64(t))
	case uint64:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint8:
		return Int(int64(t))
	case float64:
		return Float(t)
	case float32:
		return Float(float64(t))
	case string:
		return String(t)
	case []byte:
		return String(string(t))
	case time.Time:
		return String(t.Format(time.RFC3339))
	case Value:
		return t
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

// AsInt64 extracts an integer from a numeric value, truncating floats.
// Non-numeric values yield 0.
func AsInt64(v Value) int64 {
	switch v.Kind() {
	case KindInt:
		return v.Int()
	case KindFloat:
		return int64(v.Float())
	default:
		return 0
	}
}

// AsFloat64 extracts a float from a numeric value. Non-numeric values
// yield 0 and ok=false.
func AsFloat64(v Value) (float64, bool) {
	switch v.Kind() {
	case KindInt:
		return float64(v.Int()), true
	case KindFloat:
		return v.Float(), true
	default:
		return 0, false
	}
}
