// Package sanitizer validates and types event field values before they are
// encoded.
//
// A ValueSanitizer resolves each (path, name) field location to one handler:
// a FieldProvider that scrubs the value (for example hashing a user id), a
// chained Sanitizer, or the default pass-through conversion. Resolutions are
// cached and the cache is rebuilt whenever the chain changes.
//
//	hashIDs := sanitizer.NewFieldProvider(
//	    func(path, name string) bool { return name == "userId" },
//	    func(path, name string, t format.FieldValueType, p *event.EventProperty) sanitizer.FieldSanitizerFunc {
//	        return func(d sanitizer.FieldDetails) *event.EventProperty {
//	            d.Prop.Value = hash(d.Prop.Value)
//	            return d.Prop
//	        }
//	    },
//	)
//	s := sanitizer.New(hashIDs)
//
// Fields no sanitizer claims are converted with SanitizeProperty.
package sanitizer
