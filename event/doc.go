// Package event defines the telemetry event model consumed by the serializer.
//
// # Core Types
//
//   - Item: a single telemetry event with Part A extensions, Part B base data
//     and Part C custom data.
//   - EventProperty: a field value carrying optional PII/customer-content kind
//     and explicit wire type annotations.
//   - Batch: an ordered, owned sequence of events for one tenant key.
//
// # Ownership
//
// Batches transfer events instead of sharing them. Splitting a batch moves
// the selected events into a new batch:
//
//	batch := event.NewBatch("ikey1", items)
//	overflow := batch.SplitFrom(2) // batch keeps items[0:2], overflow gets the rest
//
// The serializer relies on this to route oversized and unencodable events out
// of a batch in place while the remaining events are reported as sent.
package event
