package metadata

import (
	"encoding/json"
	"reflect"

	"github.com/arloliu/telepack/event"
	"github.com/arloliu/telepack/format"
)

// FieldValueType returns the shape tag of v.
//
// Arrays report the array flag combined with the shape of their first element
// only; the remaining elements are not inspected. Values shaped like an
// EventProperty report the event property flag combined with the shape of the
// inner value. Unsupported Go types (structs, pointers, byte slices, channels)
// report format.FieldNotSet.
func FieldValueType(v any) format.FieldValueType {
	switch x := v.(type) {
	case nil:
		return format.FieldNotSet
	case string:
		return format.FieldString
	case bool:
		return format.FieldBoolean
	case json.Number, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return format.FieldNumber
	case *event.EventProperty:
		if x == nil {
			return format.FieldNotSet
		}

		return format.FieldEventProperty | FieldValueType(x.Value)
	case event.EventProperty:
		return format.FieldEventProperty | FieldValueType(x.Value)
	case map[string]any:
		if inner, ok := x["value"]; ok {
			return format.FieldEventProperty | FieldValueType(inner)
		}

		return format.FieldObject
	case []any:
		if len(x) == 0 {
			return format.FieldArray
		}

		return format.FieldArray | FieldValueType(x[0])
	case []string:
		return typedArray(len(x), format.FieldString)
	case []float64:
		return typedArray(len(x), format.FieldNumber)
	case []int:
		return typedArray(len(x), format.FieldNumber)
	case []int64:
		return typedArray(len(x), format.FieldNumber)
	case []bool:
		return typedArray(len(x), format.FieldBoolean)
	case []byte:
		return format.FieldNotSet
	}

	return reflectValueType(reflect.ValueOf(v))
}

func typedArray(n int, elem format.FieldValueType) format.FieldValueType {
	if n == 0 {
		return format.FieldArray
	}

	return format.FieldArray | elem
}

func reflectValueType(rv reflect.Value) format.FieldValueType {
	switch rv.Kind() { //nolint: exhaustive
	case reflect.String:
		return format.FieldString
	case reflect.Bool:
		return format.FieldBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return format.FieldNumber
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return format.FieldNotSet
		}
		if inner := rv.MapIndex(reflect.ValueOf("value").Convert(rv.Type().Key())); inner.IsValid() {
			return format.FieldEventProperty | FieldValueType(inner.Interface())
		}

		return format.FieldObject
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return format.FieldNotSet
		}
		if rv.Len() == 0 {
			return format.FieldArray
		}

		return format.FieldArray | FieldValueType(rv.Index(0).Interface())
	default:
		return format.FieldNotSet
	}
}

// IsValueAssigned reports whether v carries a value: it is neither nil nor the empty string.
func IsValueAssigned(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}

	return true
}

// MaxDepth is the deepest object nesting, counted from a Common Schema part
// root, that encoders descend into. Deeper or self-referencing objects are
// rejected.
const MaxDepth = 64

// ObjectEntries returns v as a map[string]any when v has the Object shape.
// Maps with other string-keyed value types are converted into a new map.
func ObjectEntries(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}

	return m, true
}

// ArrayLen returns the length of v when v has the array shape.
func ArrayLen(v any) (int, bool) {
	switch x := v.(type) {
	case []any:
		return len(x), true
	case []string:
		return len(x), true
	case []byte:
		return 0, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return 0, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return 0, false
	}

	return rv.Len(), true
}
