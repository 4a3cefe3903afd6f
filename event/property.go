package event

import "github.com/arloliu/telepack/format"

// EventProperty is a field value with optional PII/customer-content kind and
// explicit wire type annotations.
//
// The kind and property type are optional: an absent annotation is distinct
// from an explicit zero (KindNotSet, PropertyUnspecified), so they are only
// reachable through the accessor and setter methods.
type EventProperty struct {
	// Value is a string, number, boolean or non-empty array of primitives.
	Value any

	kind     format.ValueKind
	hasKind  bool
	propType format.PropertyType
	hasType  bool
}

// NewProperty creates a property with no annotations.
func NewProperty(value any) *EventProperty {
	return &EventProperty{Value: value}
}

// NewKindProperty creates a property tagged with a PII or customer-content kind.
func NewKindProperty(value any, kind format.ValueKind) *EventProperty {
	p := &EventProperty{Value: value}
	p.SetKind(kind)

	return p
}

// NewTypedProperty creates a property with an explicit wire type.
func NewTypedProperty(value any, propType format.PropertyType) *EventProperty {
	p := &EventProperty{Value: value}
	p.SetPropertyType(propType)

	return p
}

// Kind returns the kind annotation and whether it is set.
func (p *EventProperty) Kind() (format.ValueKind, bool) {
	return p.kind, p.hasKind
}

// SetKind sets the kind annotation.
func (p *EventProperty) SetKind(kind format.ValueKind) {
	p.kind = kind
	p.hasKind = true
}

// ClearKind removes the kind annotation.
func (p *EventProperty) ClearKind() {
	p.kind = format.KindNotSet
	p.hasKind = false
}

// PropertyType returns the explicit wire type and whether it is set.
func (p *EventProperty) PropertyType() (format.PropertyType, bool) {
	return p.propType, p.hasType
}

// SetPropertyType sets the explicit wire type.
func (p *EventProperty) SetPropertyType(propType format.PropertyType) {
	p.propType = propType
	p.hasType = true
}

// ClearPropertyType removes the explicit wire type.
func (p *EventProperty) ClearPropertyType() {
	p.propType = format.PropertyUnspecified
	p.hasType = false
}

// Clone returns a shallow copy of p. The Value itself is not copied.
func (p *EventProperty) Clone() *EventProperty {
	if p == nil {
		return nil
	}
	cloned := *p

	return &cloned
}

// AsProperty reports whether v has the shape of an EventProperty and returns it.
//
// EventProperty and *EventProperty values qualify, as does a map[string]any
// carrying a "value" key (the shape produced by decoding JSON input). For the
// map form, numeric "kind" and "propertyType" keys become annotations. The
// returned property is always a fresh copy that the caller may modify.
func AsProperty(v any) (*EventProperty, bool) {
	switch p := v.(type) {
	case *EventProperty:
		if p == nil {
			return nil, false
		}

		return p.Clone(), true
	case EventProperty:
		return &p, true
	case map[string]any:
		inner, ok := p["value"]
		if !ok {
			return nil, false
		}
		prop := &EventProperty{Value: inner}
		if kind, ok := smallInt(p["kind"]); ok {
			prop.SetKind(format.ValueKind(kind))
		}
		if propType, ok := smallInt(p["propertyType"]); ok {
			prop.SetPropertyType(format.PropertyType(propType))
		}

		return prop, true
	default:
		return nil, false
	}
}

// smallInt converts the numeric annotation forms found in decoded input to a
// byte-sized ordinal. Out-of-range numbers map to 0xFF, which is neither a
// valid kind nor a valid wire type, so they are rejected downstream.
func smallInt(v any) (uint8, bool) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint8:
		n = int64(x)
	case float64:
		if x != float64(int64(x)) {
			return 0xFF, true
		}
		n = int64(x)
	default:
		return 0, false
	}

	if n < 0 || n > 0xFF {
		return 0xFF, true
	}

	return uint8(n), true
}
