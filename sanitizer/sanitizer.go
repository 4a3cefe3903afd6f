package sanitizer

import (
	"github.com/arloliu/telepack/event"
	"github.com/arloliu/telepack/format"
)

// Sanitizer validates and types field values for a (path, name) location.
//
// path is the dotted location of the containing object ("data",
// "baseData.props", "ext.app") and name the field inside it. Implementations
// chained into a ValueSanitizer must be comparable (typically pointers) so
// they can be removed again.
type Sanitizer interface {
	// HandleField reports whether the sanitizer can produce a property for the field.
	HandleField(path, name string) bool
	// Value converts a raw field value into a property, or returns nil to drop the field.
	Value(path, name string, value any, stringifyObjects bool) *event.EventProperty
	// Property validates an existing property, or returns nil to drop the field.
	Property(path, name string, prop *event.EventProperty, stringifyObjects bool) *event.EventProperty
}

// FieldProvider supplies per-field scrubbing functions, for example hashing of
// PII values before they leave the process.
//
// Providers must be comparable (typically pointers) so they can be removed again.
type FieldProvider interface {
	// HandleField reports whether the provider wants to process the field.
	HandleField(path, name string) bool
	// GetSanitizer returns the function to apply to the field, or nil to accept it unchanged.
	GetSanitizer(path, name string, fieldType format.FieldValueType, prop *event.EventProperty) FieldSanitizerFunc
}

// FieldSanitizerFunc scrubs a single property. Returning nil drops the field.
type FieldSanitizerFunc func(details FieldDetails) *event.EventProperty

// FieldDetails describes the field passed to a FieldSanitizerFunc.
type FieldDetails struct {
	Path      string
	Name      string
	Type      format.FieldValueType
	Prop      *event.EventProperty
	Sanitizer *ValueSanitizer
}

type funcProvider struct {
	handle func(path, name string) bool
	get    func(path, name string, fieldType format.FieldValueType, prop *event.EventProperty) FieldSanitizerFunc
}

// NewFieldProvider builds a FieldProvider from two functions.
// A nil handle claims no field; a nil get accepts every claimed field unchanged.
func NewFieldProvider(
	handle func(path, name string) bool,
	get func(path, name string, fieldType format.FieldValueType, prop *event.EventProperty) FieldSanitizerFunc,
) FieldProvider {
	return &funcProvider{handle: handle, get: get}
}

func (p *funcProvider) HandleField(path, name string) bool {
	if p.handle == nil {
		return false
	}

	return p.handle(path, name)
}

func (p *funcProvider) GetSanitizer(path, name string, fieldType format.FieldValueType, prop *event.EventProperty) FieldSanitizerFunc {
	if p.get == nil {
		return nil
	}

	return p.get(path, name, fieldType, prop)
}
