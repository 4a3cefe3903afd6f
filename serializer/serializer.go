package serializer

import (
	"github.com/arloliu/telepack/event"
	"github.com/arloliu/telepack/format"
	"github.com/arloliu/telepack/internal/options"
	"github.com/arloliu/telepack/internal/pool"
)

// Serializer packs event batches into size-bounded NDJSON payloads.
//
// A Serializer is immutable after construction and safe for concurrent use,
// as long as each Payload and Batch is used by one goroutine at a time.
type Serializer struct {
	*SerializerConfig
}

// New creates a Serializer.
//
// Parameters:
//   - opts: Optional configuration (size limits, sanitizer, metadata, compound keys, logger)
//
// Returns:
//   - *Serializer: New serializer instance
//   - error: Configuration error if an invalid option was provided
func New(opts ...Option) (*Serializer, error) {
	config := NewSerializerConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	return &Serializer{SerializerConfig: config}, nil
}

// CreatePayload returns an empty payload for one transmission attempt.
func (s *Serializer) CreatePayload(retryCnt int, isTeardown, isSync, isBeacon bool, sendReason format.SendReason, sendType format.SendType) *Payload {
	p := newPayload()
	p.RetryCnt = retryCnt
	p.IsTeardown = isTeardown
	p.IsSync = isSync
	p.IsBeacon = isBeacon
	p.SendReason = sendReason
	p.SendType = sendType

	return p
}

// AppendPayload encodes the events of batch in order and appends them to
// payload, modifying batch in place.
//
// Events whose record exceeds the record limit are moved to
// payload.SizeExceed and events that cannot be encoded to payload.FailedEvts.
// When payload reaches maxEventsPerBatch events, or the next record would
// exceed the request limit, the remaining events are moved to
// payload.Overflow and the payload is closed. A maxEventsPerBatch of zero or
// less disables the event count limit instead of closing the payload before
// its first event.
//
// If at least one event was written, batch (now holding exactly the written
// events) is added to payload.Batches and its tenant key to payload.APIKeys.
//
// It returns false without doing anything when payload is nil or closed, or
// when batch is nil or empty.
func (s *Serializer) AppendPayload(payload *Payload, batch *event.Batch, maxEventsPerBatch int) bool {
	if payload == nil || payload.Closed() || batch == nil || batch.Count() == 0 {
		return false
	}

	requestLimit := s.limits.RequestLimit(payload.IsBeacon)
	recordLimit := s.limits.RecordLimit(payload.IsBeacon)

	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)

	added := false
	for i := 0; i < batch.Count(); {
		if maxEventsPerBatch > 0 && payload.NumEvents >= maxEventsPerBatch {
			payload.Overflow = batch.SplitFrom(i)
			break
		}

		item := batch.Events()[i]
		if err := s.encodeRecord(buf, item); err != nil {
			s.logger.Debug().
				Err(err).
				Str("payload_id", payload.ID.String()).
				Str("tenant", batch.TenantKey()).
				Str("event", itemName(item)).
				Msg("dropping event that cannot be encoded")
			payload.FailedEvts = addToBucket(payload.FailedEvts, batch.Split(i, 1))

			continue
		}

		if buf.Len() > recordLimit {
			s.logger.Debug().
				Str("payload_id", payload.ID.String()).
				Str("tenant", batch.TenantKey()).
				Str("event", itemName(item)).
				Int("size", buf.Len()).
				Int("limit", recordLimit).
				Msg("event exceeds record size limit")
			payload.SizeExceed = addToBucket(payload.SizeExceed, batch.Split(i, 1))

			continue
		}

		if payload.Len()+buf.Len() > requestLimit {
			payload.Overflow = batch.SplitFrom(i)
			break
		}

		payload.appendRecord(buf.Bytes())
		added = true
		i++

		if payload.NumEvents%compactInterval == 0 {
			payload.compact(requestLimit)
		}
	}

	if payload.Overflow != nil {
		s.logger.Debug().
			Str("payload_id", payload.ID.String()).
			Str("tenant", batch.TenantKey()).
			Int("overflow", payload.Overflow.Count()).
			Int("events", payload.NumEvents).
			Msg("payload full")
	}

	if added {
		payload.Batches = append(payload.Batches, batch)
		payload.addAPIKey(batch.TenantKey())
	}

	return true
}

func itemName(item *event.Item) string {
	if item == nil {
		return ""
	}

	return item.Name
}
