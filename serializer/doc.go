// Package serializer packs telemetry events into size-bounded NDJSON payloads.
//
// A Serializer converts each event.Item into one Common Schema record:
//
//	{"ver":"4.0","name":"page.view","time":"...","iKey":"o:tenant",
//	 "ext":{"app":{...},"metadata":{"f":{...}}},
//	 "data":{"baseType":"PageView","baseData":{...},"custom":1}}
//
// and appends records to a Payload until the event count or one of the byte
// budgets is exhausted. Events are never lost silently: each one offered to
// AppendPayload ends up in the payload blob, in Overflow (retry later), in
// SizeExceed (record too large) or in FailedEvts (cannot be encoded).
//
// # Usage
//
//	s, err := serializer.New(serializer.WithSanitizer(san))
//	if err != nil {
//	    return err
//	}
//
//	payload := s.CreatePayload(0, false, false, false, format.ReasonNormalSchedule, format.SendBatched)
//	for _, batch := range batches {
//	    if !s.AppendPayload(payload, batch, 500) {
//	        break
//	    }
//	}
//	body, err := payload.Compress(format.CompressionGzip)
//
// # Size Limits
//
// Payload blobs are limited to 3 MiB (65,000 bytes for beacon payloads) and
// single records to 2,000,000 bytes (65,000 for beacon payloads). Overrides
// larger than the builtin limits are ignored.
package serializer
