package event

// Batch is an ordered sequence of events belonging to one tenant key.
//
// A Batch owns its backing slice. Split moves events out into a new Batch
// instead of copying them, so an event is referenced by at most one live
// Batch and concurrent senders working on disjoint batches never share state.
//
// Note: a Batch is NOT thread-safe.
type Batch struct {
	tenantKey     string
	events        []*Item
	correlationID string
}

// NewBatch creates a batch for tenantKey holding a shallow copy of items.
// The items themselves are not copied.
func NewBatch(tenantKey string, items []*Item) *Batch {
	b := &Batch{tenantKey: tenantKey}
	if len(items) > 0 {
		b.events = make([]*Item, len(items))
		copy(b.events, items)
	}
	b.correlationID = findCorrelationID(b.events)

	return b
}

// TenantKey returns the tenant key shared by every event in the batch.
func (b *Batch) TenantKey() string {
	return b.tenantKey
}

// Count returns the number of events in the batch.
func (b *Batch) Count() int {
	return len(b.events)
}

// Events returns a read view of the events. Callers must not modify the slice.
func (b *Batch) Events() []*Item {
	return b.events
}

// CorrelationID returns the first assigned correlation value found in the
// batch, or "" when no event carries one.
func (b *Batch) CorrelationID() string {
	return b.correlationID
}

// AddEvent appends item to the batch. It returns false and does nothing when item is nil.
func (b *Batch) AddEvent(item *Item) bool {
	if item == nil {
		return false
	}

	b.events = append(b.events, item)
	if b.correlationID == "" {
		b.correlationID = item.CorrelationID()
	}

	return true
}

// Split removes up to count events starting at from and returns them as a new
// batch with the same tenant key. A negative count removes every remaining event.
//
// When from is outside the batch the returned batch is empty and b is left
// unchanged. The retained events followed by the removed ones always equal
// the original sequence.
func (b *Batch) Split(from, count int) *Batch {
	removed := &Batch{tenantKey: b.tenantKey}
	if from < 0 || from >= len(b.events) {
		return removed
	}

	remaining := len(b.events) - from
	if count < 0 || count > remaining {
		count = remaining
	}
	if count == 0 {
		return removed
	}

	end := from + count
	removed.events = make([]*Item, count)
	copy(removed.events, b.events[from:end])
	removed.correlationID = findCorrelationID(removed.events)

	// compact in place and clear the vacated tail so moved items are not
	// reachable through b's backing array
	n := copy(b.events[from:], b.events[end:])
	tail := b.events[from+n:]
	for i := range tail {
		tail[i] = nil
	}
	b.events = b.events[:from+n]
	b.correlationID = findCorrelationID(b.events)

	return removed
}

// SplitFrom removes every event from index from onwards. It is Split(from, -1).
func (b *Batch) SplitFrom(from int) *Batch {
	return b.Split(from, -1)
}

func findCorrelationID(items []*Item) string {
	for _, item := range items {
		if id := item.CorrelationID(); id != "" {
			return id
		}
	}

	return ""
}
