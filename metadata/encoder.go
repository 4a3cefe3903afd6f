package metadata

import (
	"github.com/arloliu/telepack/event"
	"github.com/arloliu/telepack/format"
)

// NoMetadata is returned by Encode when a value needs no metadata entry.
const NoMetadata = -1

// wireTypes maps inferred shapes to wire types. Shapes not in the table
// infer nothing.
var wireTypes = map[format.FieldValueType]format.PropertyType{
	format.FieldNotSet:                      format.PropertyUnspecified,
	format.FieldNumber:                      format.PropertyDouble,
	format.FieldString:                      format.PropertyString,
	format.FieldBoolean:                     format.PropertyBool,
	format.FieldArray | format.FieldNumber:  format.PropertyDouble,
	format.FieldArray | format.FieldString:  format.PropertyString,
	format.FieldArray | format.FieldBoolean: format.PropertyBool,
}

// Encode returns the Common Schema metadata integer for a value.
//
// Layout of the returned value:
//   - Bits 0-3: wire type (format.PropertyType)
//   - Bits 5-12: PII kind (kinds 1-13)
//   - Bit 13: customer content flag (kind 32)
//
// kind format.KindNotSet contributes no flags and propType
// format.PropertyNotSet means the wire type is inferred from the value shape.
// A numeric value with no flags and no explicit type still reports
// format.PropertyDouble, while other values in that situation return
// NoMetadata. The receiving service depends on this exact encoding.
func Encode(value any, kind format.ValueKind, propType format.PropertyType) int {
	if value == nil {
		return NoMetadata
	}

	encoded := NoMetadata
	if flags := kind.Flags(); flags != 0 {
		encoded = flags
	}

	if propType.IsValid() {
		if encoded == NoMetadata {
			encoded = 0
		}

		return encoded | int(propType)
	}

	inferred, ok := wireTypes[FieldValueType(value)]
	if !ok || inferred == format.PropertyUnspecified {
		return encoded
	}

	if encoded != NoMetadata {
		return encoded | int(inferred)
	}
	if inferred == format.PropertyDouble {
		return int(inferred)
	}

	return encoded
}

// EncodeProperty returns the metadata integer for prop, honouring its kind and
// explicit wire type annotations. A nil prop returns NoMetadata.
func EncodeProperty(prop *event.EventProperty) int {
	if prop == nil {
		return NoMetadata
	}

	kind, _ := prop.Kind()
	propType, ok := prop.PropertyType()
	if !ok {
		propType = format.PropertyNotSet
	}

	return Encode(prop.Value, kind, propType)
}
