package sanitizer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/telepack/event"
	"github.com/arloliu/telepack/format"
	"github.com/arloliu/telepack/metadata"
)

// SanitizeProperty converts a raw field value into a property without any
// field provider involvement. It is the default used for fields no sanitizer
// claims.
//
// It returns nil when the value is nil or "", when it has an unsupported
// shape, when it is an empty array, or when it carries a kind together with an
// array value or an unknown kind. Values with a valid kind are converted to
// their string form. Objects are kept as-is, or encoded to a JSON string when
// stringifyObjects is set.
func SanitizeProperty(_ string, value any, stringifyObjects bool) *event.EventProperty {
	prop, fieldType := classify(value, stringifyObjects)
	if prop == nil {
		return nil
	}

	return applyKind(prop, fieldType)
}

// classify wraps a raw value into a fresh property and reports the value's shape.
// It returns a nil property for values that cannot be represented.
func classify(value any, stringifyObjects bool) (*event.EventProperty, format.FieldValueType) {
	if !metadata.IsValueAssigned(value) {
		return nil, format.FieldNotSet
	}

	fieldType := metadata.FieldValueType(value)
	var prop *event.EventProperty
	switch {
	case fieldType.IsEventProperty():
		p, _ := event.AsProperty(value)
		if p == nil || !metadata.IsValueAssigned(p.Value) || !isSupportedScalar(fieldType.Inner()) {
			return nil, fieldType
		}
		prop = p
	case isSupportedScalar(fieldType):
		prop = event.NewProperty(value)
	case fieldType == format.FieldObject:
		if !stringifyObjects {
			prop = event.NewProperty(value)
			break
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fieldType
		}
		prop = event.NewProperty(string(encoded))
		fieldType = format.FieldString
	default:
		return nil, fieldType
	}

	if n, ok := metadata.ArrayLen(prop.Value); ok && n == 0 {
		return nil, fieldType
	}

	return prop, fieldType
}

// isSupportedScalar reports whether a shape may be carried by a property value directly.
func isSupportedScalar(t format.FieldValueType) bool {
	switch t {
	case format.FieldString, format.FieldNumber, format.FieldBoolean:
		return true
	default:
		return t.IsArray()
	}
}

// applyKind validates the kind annotation of prop and converts the value of a
// kind-tagged property to a string. It returns nil when the annotation is invalid.
func applyKind(prop *event.EventProperty, fieldType format.FieldValueType) *event.EventProperty {
	kind, ok := prop.Kind()
	if !ok {
		return prop
	}

	if fieldType.IsArray() || !kind.IsValid() {
		return nil
	}
	prop.Value = stringValue(prop.Value)

	return prop
}

// stringValue renders v the way the receiving service expects kind-tagged values:
// numbers in shortest round-trip form, booleans as true/false, objects as JSON.
func stringValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	}

	if _, ok := metadata.ObjectEntries(v); ok {
		if encoded, err := json.Marshal(v); err == nil {
			return string(encoded)
		}
	}

	return fmt.Sprint(v)
}

// formatFloat formats f in the shortest form that round-trips, switching to
// exponent notation outside [1e-6, 1e21) and without zero-padded exponents.
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}

	s := strconv.FormatFloat(f, 'e', -1, bitSize)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")

	return mantissa + "e" + sign + digits
}
