// Package telepack packs telemetry events into compact, size-bounded NDJSON
// payloads ready for a collector endpoint.
//
// Events are Common Schema records split into three parts: Part A
// extensions (ext.*), Part B (data.baseData) and Part C custom fields
// (data.*). Every field passes through an optional sanitizer chain before it
// is written, and the encoded type of each Part B and Part C field is
// recorded in the ext.metadata tree.
//
// # Basic Usage
//
//	import "github.com/arloliu/telepack"
//
//	// Redact user ids before they leave the process
//	san := telepack.NewSanitizer(sanitizer.NewFieldProvider(
//	    func(path, name string) bool { return name == "userId" },
//	    func(path, name string, _ format.FieldValueType, _ *event.EventProperty) sanitizer.FieldSanitizerFunc {
//	        return func(d sanitizer.FieldDetails) *event.EventProperty {
//	            d.Prop.Value = "<redacted>"
//	            return d.Prop
//	        }
//	    },
//	))
//
//	s, _ := telepack.NewSerializer(serializer.WithSanitizer(san))
//
//	batch := telepack.NewBatch("tenant-key", []*event.Item{
//	    {Name: "page.view", IKey: "tenant-key", Data: map[string]any{"userId": "u1"}},
//	})
//
//	payload := s.CreatePayload(0, false, false, false, format.ReasonNormalSchedule, format.SendBatched)
//	s.AppendPayload(payload, batch, telepack.DefaultMaxEventsPerBatch)
//
//	body, _ := payload.Compress(format.CompressionGzip)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the event,
// sanitizer and serializer packages. For fine-grained control, use those
// packages directly.
package telepack

import (
	"github.com/arloliu/telepack/event"
	"github.com/arloliu/telepack/internal/hash"
	"github.com/arloliu/telepack/sanitizer"
	"github.com/arloliu/telepack/serializer"
)

// DefaultMaxEventsPerBatch is the event count limit commonly used for a
// single collector request.
const DefaultMaxEventsPerBatch = 500

// NewSerializer creates a serializer with the given options.
//
// Parameters:
//   - opts: Optional configuration functions (see serializer.Option)
//
// Returns:
//   - *serializer.Serializer: The created serializer.
//   - error: An error if an option is invalid.
//
// Available options:
//   - serializer.WithRequestLimit(normal, beacon) / serializer.WithRecordLimit(normal, beacon)
//   - serializer.WithSanitizer(s)
//   - serializer.WithStringifyObjects(true|false)
//   - serializer.WithCompoundKeys(true|false)
//   - serializer.WithMetadata(true|false) / serializer.WithoutMetadata()
//   - serializer.WithConfig(cfg)
//   - serializer.WithLogger(logger)
func NewSerializer(opts ...serializer.Option) (*serializer.Serializer, error) {
	return serializer.New(opts...)
}

// NewSerializerFromFile creates a serializer configured by the YAML or JSON
// file at path. opts are applied after the file settings.
func NewSerializerFromFile(path string, opts ...serializer.Option) (*serializer.Serializer, error) {
	cfg, err := serializer.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	return serializer.New(append([]serializer.Option{serializer.WithConfig(cfg)}, opts...)...)
}

// NewSanitizer creates a value sanitizer consulting the given field providers.
func NewSanitizer(providers ...sanitizer.FieldProvider) *sanitizer.ValueSanitizer {
	return sanitizer.New(providers...)
}

// NewBatch creates a batch of events for one tenant key.
func NewBatch(tenantKey string, items []*event.Item) *event.Batch {
	return event.NewBatch(tenantKey, items)
}

// PayloadID returns a stable 64-bit identifier for an encoded payload blob,
// suitable for deduplicating retried requests.
func PayloadID(blob []byte) uint64 {
	return hash.BytesID(blob)
}
