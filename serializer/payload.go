package serializer

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/arloliu/telepack/compress"
	"github.com/arloliu/telepack/event"
	"github.com/arloliu/telepack/format"
	"github.com/arloliu/telepack/internal/pool"
)

// compactInterval is the number of appended records between buffer compaction passes.
const compactInterval = 20

// Payload is one transmission attempt: a newline-delimited JSON blob plus
// the classification of every event offered to it.
//
// Once Overflow is set the payload is closed and accepts no further batches.
// A Payload is not safe for concurrent use.
type Payload struct {
	// ID identifies the payload in logs and transport correlation.
	ID uuid.UUID
	// APIKeys lists the tenant keys of the included batches, without duplicates.
	APIKeys []string
	// Overflow holds the events that did not fit and must be sent later.
	Overflow *event.Batch
	// SizeExceed holds events whose encoded record exceeds the record limit, one batch per tenant.
	SizeExceed []*event.Batch
	// FailedEvts holds events that could not be encoded, one batch per tenant.
	FailedEvts []*event.Batch
	// Batches lists the batches with at least one event written to the blob.
	Batches []*event.Batch
	// NumEvents is the number of records in the blob.
	NumEvents int

	RetryCnt   int
	IsTeardown bool
	IsSync     bool
	IsBeacon   bool
	SendType   format.SendType
	SendReason format.SendReason

	blob *pool.ByteBuffer
}

func newPayload() *Payload {
	return &Payload{
		ID:   uuid.New(),
		blob: pool.GetPayloadBuffer(),
	}
}

// Closed reports whether the payload has overflowed.
func (p *Payload) Closed() bool {
	return p.Overflow != nil
}

// Blob returns the NDJSON bytes. The slice is only valid until the next
// append or Release.
func (p *Payload) Blob() []byte {
	if p.blob == nil {
		return nil
	}

	return p.blob.Bytes()
}

// String returns the NDJSON blob as a string.
func (p *Payload) String() string {
	return string(p.Blob())
}

// Len returns the blob size in bytes.
func (p *Payload) Len() int {
	if p.blob == nil {
		return 0
	}

	return p.blob.Len()
}

// Compress returns the blob encoded with the given compression type, ready
// to be sent with compression.ContentEncoding() as the Content-Encoding header.
func (p *Payload) Compress(compression format.CompressionType) ([]byte, error) {
	out, _, err := compress.Compress(compression, p.Blob())
	if err != nil {
		return nil, fmt.Errorf("payload %s: %w", p.ID, err)
	}

	return out, nil
}

// Release returns the blob buffer to the pool. The payload must not be
// appended to afterwards and Blob returns nil.
func (p *Payload) Release() {
	if p.blob == nil {
		return
	}

	pool.PutPayloadBuffer(p.blob)
	p.blob = nil
}

func (p *Payload) appendRecord(record []byte) {
	if p.blob == nil {
		p.blob = pool.GetPayloadBuffer()
	}
	if p.blob.Len() > 0 {
		_ = p.blob.WriteByte('\n')
	}
	_, _ = p.blob.Write(record)
	p.NumEvents++
}

// compact pre-grows the blob for the next compactInterval records, based on
// the average record size so far and bounded by the request limit.
func (p *Payload) compact(requestLimit int) {
	if p.NumEvents == 0 || p.blob == nil {
		return
	}

	avg := p.blob.Len()/p.NumEvents + 1
	want := min(avg*compactInterval, requestLimit-p.blob.Len())
	if want > 0 {
		p.blob.Grow(want)
	}
}

func (p *Payload) addAPIKey(key string) {
	if !slices.Contains(p.APIKeys, key) {
		p.APIKeys = append(p.APIKeys, key)
	}
}

// addToBucket merges moved into the bucket batch of the same tenant, or
// starts a new bucket with it.
func addToBucket(bucket []*event.Batch, moved *event.Batch) []*event.Batch {
	if moved == nil || moved.Count() == 0 {
		return bucket
	}

	for _, b := range bucket {
		if b.TenantKey() == moved.TenantKey() {
			for _, item := range moved.Events() {
				b.AddEvent(item)
			}

			return bucket
		}
	}

	return append(bucket, moved)
}
