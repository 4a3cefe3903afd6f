package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/telepack/compress"
	"github.com/arloliu/telepack/errs"
	"github.com/arloliu/telepack/event"
	"github.com/arloliu/telepack/format"
)

func makeItems(tenant string, n int) []*event.Item {
	items := make([]*event.Item, n)
	for i := range items {
		items[i] = &event.Item{
			Name: fmt.Sprintf("evt%d", i),
			Time: "2024-01-01T00:00:00.000Z",
			IKey: tenant,
			Data: map[string]any{"seq": i},
		}
	}

	return items
}

func newPayloadFor(s *Serializer, beacon bool) *Payload {
	return s.CreatePayload(0, false, false, beacon, format.ReasonNormalSchedule, format.SendBatched)
}

func names(items []*event.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}

	return out
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s, err := New()
		require.NoError(t, err)
		require.Equal(t, DefaultSizeLimits(), s.Limits())
		require.Nil(t, s.sanitizer)
		require.False(t, s.excludeMetadata)
		require.False(t, s.compoundKeys)
	})

	t.Run("nil sanitizer is rejected", func(t *testing.T) {
		_, err := New(WithSanitizer(nil))
		require.ErrorIs(t, err, errs.ErrNilSanitizer)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := New(WithConfig(Config{RequestLimit: []int{1, 2, 3}}))
		require.ErrorIs(t, err, errs.ErrInvalidConfig)
		require.ErrorIs(t, err, errs.ErrInvalidSizeLimit)
	})
}

func TestCreatePayload(t *testing.T) {
	s := newTestSerializer(t)

	p := s.CreatePayload(2, true, true, true, format.ReasonUnload, format.SendBeacon)
	require.Equal(t, 2, p.RetryCnt)
	require.True(t, p.IsTeardown)
	require.True(t, p.IsSync)
	require.True(t, p.IsBeacon)
	require.Equal(t, format.ReasonUnload, p.SendReason)
	require.Equal(t, format.SendBeacon, p.SendType)

	require.Zero(t, p.NumEvents)
	require.Zero(t, p.Len())
	require.Empty(t, p.String())
	require.Empty(t, p.APIKeys)
	require.Empty(t, p.Batches)
	require.Empty(t, p.SizeExceed)
	require.Empty(t, p.FailedEvts)
	require.Nil(t, p.Overflow)
	require.False(t, p.Closed())

	other := s.CreatePayload(0, false, false, false, format.ReasonUndefined, format.SendBatched)
	require.NotEqual(t, p.ID, other.ID)
}

func TestAppendPayload_AllFit(t *testing.T) {
	s := newTestSerializer(t)
	p := newPayloadFor(s, false)

	items := makeItems("ikey1", 3)
	batch := event.NewBatch("ikey1", items)

	require.True(t, s.AppendPayload(p, batch, 500))
	require.Equal(t, 3, p.NumEvents)
	require.Len(t, p.Batches, 1)
	require.Same(t, batch, p.Batches[0])
	require.Equal(t, 3, batch.Count())
	require.Nil(t, p.Overflow)
	require.Equal(t, []string{"ikey1"}, p.APIKeys)

	lines := strings.Split(p.String(), "\n")
	require.Len(t, lines, 3)
	for i, line := range lines {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		require.Equal(t, fmt.Sprintf("evt%d", i), rec["name"])
	}
}

func TestAppendPayload_RecordTooLarge(t *testing.T) {
	s := newTestSerializer(t)
	p := newPayloadFor(s, false)

	big := &event.Item{Name: "big", IKey: "ikey1", Data: map[string]any{"blob": strings.Repeat("x", 3*1024*1024)}}
	batch := event.NewBatch("ikey1", []*event.Item{big})

	require.True(t, s.AppendPayload(p, batch, 500))
	require.Zero(t, p.NumEvents)
	require.Zero(t, p.Len())
	require.Len(t, p.SizeExceed, 1)
	require.Equal(t, "ikey1", p.SizeExceed[0].TenantKey())
	require.Equal(t, []*event.Item{big}, p.SizeExceed[0].Events())
	require.Empty(t, p.Batches)
	require.Empty(t, p.APIKeys)
	require.Nil(t, p.Overflow)
}

func TestAppendPayload_EventCountOverflow(t *testing.T) {
	s := newTestSerializer(t)
	p := newPayloadFor(s, false)

	items := makeItems("ikey1", 5)
	batch := event.NewBatch("ikey1", items)

	require.True(t, s.AppendPayload(p, batch, 2))
	require.Equal(t, 2, p.NumEvents)
	require.NotNil(t, p.Overflow)
	require.True(t, p.Closed())
	require.Equal(t, 3, p.Overflow.Count())
	require.Equal(t, items[2:], p.Overflow.Events())
	require.Equal(t, items[:2], batch.Events())
	require.Equal(t, []*event.Batch{batch}, p.Batches)
}

func TestAppendPayload_ClosedPayload(t *testing.T) {
	s := newTestSerializer(t)
	p := newPayloadFor(s, false)

	require.True(t, s.AppendPayload(p, event.NewBatch("a", makeItems("a", 3)), 1))
	require.True(t, p.Closed())

	blob := p.String()
	overflow := p.Overflow
	next := event.NewBatch("b", makeItems("b", 2))

	require.False(t, s.AppendPayload(p, next, 10))
	require.Equal(t, 2, next.Count())
	require.Equal(t, 1, p.NumEvents)
	require.Equal(t, blob, p.String())
	require.Same(t, overflow, p.Overflow)
	require.Equal(t, []string{"a"}, p.APIKeys)
}

func TestAppendPayload_NoOps(t *testing.T) {
	s := newTestSerializer(t)
	p := newPayloadFor(s, false)

	require.False(t, s.AppendPayload(nil, event.NewBatch("a", makeItems("a", 1)), 10))
	require.False(t, s.AppendPayload(p, nil, 10))
	require.False(t, s.AppendPayload(p, event.NewBatch("a", nil), 10))
	require.Zero(t, p.NumEvents)
	require.Empty(t, p.Batches)
}

func TestAppendPayload_RequestLimitOverflow(t *testing.T) {
	s := newTestSerializer(t)
	items := makeItems("ikey1", 10)

	recLen := 0
	for _, item := range items[:3] {
		blob, err := s.EventBlob(item)
		require.NoError(t, err)
		recLen += len(blob)
	}

	// exactly three records fit; the separator before a new record is not counted
	s = newTestSerializer(t, WithRequestLimit(recLen+1, DefaultBeaconRequestLimit))
	p := newPayloadFor(s, false)
	batch := event.NewBatch("ikey1", items)

	require.True(t, s.AppendPayload(p, batch, 0))
	require.Equal(t, 3, p.NumEvents)
	require.True(t, p.Closed())
	require.Equal(t, names(items[3:]), names(p.Overflow.Events()))
	require.Equal(t, names(items[:3]), names(batch.Events()))
	require.Equal(t, recLen+2, p.Len())
}

func TestAppendPayload_FirstEventOverflows(t *testing.T) {
	s := newTestSerializer(t, WithRequestLimit(10, 10))
	p := newPayloadFor(s, false)
	items := makeItems("ikey1", 2)
	batch := event.NewBatch("ikey1", items)

	require.True(t, s.AppendPayload(p, batch, 10))
	require.Zero(t, p.NumEvents)
	require.Equal(t, items, p.Overflow.Events())
	require.Zero(t, batch.Count())
	require.Empty(t, p.Batches)
	require.Empty(t, p.APIKeys)
}

func TestAppendPayload_BeaconLimits(t *testing.T) {
	s := newTestSerializer(t)
	item := &event.Item{Name: "mid", IKey: "ikey1", Data: map[string]any{"blob": strings.Repeat("x", 70000)}}

	normal := newPayloadFor(s, false)
	require.True(t, s.AppendPayload(normal, event.NewBatch("ikey1", []*event.Item{item}), 10))
	require.Equal(t, 1, normal.NumEvents)

	beacon := newPayloadFor(s, true)
	require.True(t, s.AppendPayload(beacon, event.NewBatch("ikey1", []*event.Item{item}), 10))
	require.Zero(t, beacon.NumEvents)
	require.Len(t, beacon.SizeExceed, 1)
}

func TestAppendPayload_FailedEvents(t *testing.T) {
	s := newTestSerializer(t)
	p := newPayloadFor(s, false)

	cyclic := map[string]any{"a": 1}
	cyclic["self"] = cyclic

	items := makeItems("ikey1", 5)
	items[1].Data["bad"] = math.Inf(1)
	items[3].Data["obj"] = cyclic
	batch := event.NewBatch("ikey1", []*event.Item{items[0], items[1], nil, items[2], items[3], items[4]})

	require.True(t, s.AppendPayload(p, batch, 10))
	require.Equal(t, 3, p.NumEvents)
	require.Equal(t, []*event.Item{items[0], items[2], items[4]}, batch.Events())
	require.Len(t, p.FailedEvts, 1)
	require.Equal(t, []*event.Item{items[1], items[3]}, p.FailedEvts[0].Events())
	require.Empty(t, p.SizeExceed)
	require.Nil(t, p.Overflow)
}

func TestAppendPayload_BucketsMergePerTenant(t *testing.T) {
	s := newTestSerializer(t, WithRecordLimit(200, 200))
	p := newPayloadFor(s, false)

	bigA1 := &event.Item{Name: "a1", IKey: "a", Data: map[string]any{"x": strings.Repeat("x", 300)}}
	bigA2 := &event.Item{Name: "a2", IKey: "a", Data: map[string]any{"x": strings.Repeat("x", 300)}}
	bigB := &event.Item{Name: "b1", IKey: "b", Data: map[string]any{"x": strings.Repeat("x", 300)}}

	require.True(t, s.AppendPayload(p, event.NewBatch("a", []*event.Item{bigA1}), 10))
	require.True(t, s.AppendPayload(p, event.NewBatch("b", []*event.Item{bigB}), 10))
	require.True(t, s.AppendPayload(p, event.NewBatch("a", []*event.Item{bigA2}), 10))

	require.Len(t, p.SizeExceed, 2)
	require.Equal(t, "a", p.SizeExceed[0].TenantKey())
	require.Equal(t, []string{"a1", "a2"}, names(p.SizeExceed[0].Events()))
	require.Equal(t, "b", p.SizeExceed[1].TenantKey())
}

func TestAppendPayload_MultipleBatches(t *testing.T) {
	s := newTestSerializer(t)
	p := newPayloadFor(s, false)

	a := event.NewBatch("a", makeItems("a", 2))
	b := event.NewBatch("b", makeItems("b", 2))
	a2 := event.NewBatch("a", makeItems("a", 1))

	require.True(t, s.AppendPayload(p, a, 4))
	require.True(t, s.AppendPayload(p, b, 4))
	require.True(t, s.AppendPayload(p, a2, 4))

	require.Equal(t, 4, p.NumEvents)
	require.Equal(t, []*event.Batch{a, b}, p.Batches)
	require.Equal(t, []string{"a", "b"}, p.APIKeys)
	require.Equal(t, "a", p.Overflow.TenantKey())
	require.Equal(t, 1, p.Overflow.Count())
	require.Zero(t, a2.Count())
}

func TestAppendPayload_NeverExceedsMaxEvents(t *testing.T) {
	s := newTestSerializer(t)

	for _, maxEvents := range []int{1, 3, 7, 20, 45} {
		p := newPayloadFor(s, false)
		for i := 0; i < 10 && !p.Closed(); i++ {
			s.AppendPayload(p, event.NewBatch("t", makeItems("t", 4)), maxEvents)
			require.LessOrEqual(t, p.NumEvents, maxEvents)
		}
		require.Equal(t, min(maxEvents, 40), p.NumEvents)
		require.Equal(t, p.NumEvents, strings.Count(p.String(), "\n")+1)
	}
}

func TestAppendPayload_NoCountLimit(t *testing.T) {
	s := newTestSerializer(t)

	for _, maxEvents := range []int{0, -1} {
		p := newPayloadFor(s, false)
		require.True(t, s.AppendPayload(p, event.NewBatch("t", makeItems("t", 30)), maxEvents))
		require.Equal(t, 30, p.NumEvents)
		require.False(t, p.Closed())
	}
}

func TestAppendPayload_Compaction(t *testing.T) {
	s := newTestSerializer(t)
	p := newPayloadFor(s, false)

	items := makeItems("ikey1", 65)
	require.True(t, s.AppendPayload(p, event.NewBatch("ikey1", items), 0))
	require.Equal(t, 65, p.NumEvents)

	lines := strings.Split(p.String(), "\n")
	require.Len(t, lines, 65)
	for i, line := range lines {
		blob, err := s.EventBlob(items[i])
		require.NoError(t, err)
		require.Equal(t, string(blob), line)
	}
}

func TestAppendPayload_LogsRejectedEvents(t *testing.T) {
	var logs bytes.Buffer
	s := newTestSerializer(t, WithRecordLimit(50, 50), WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))
	p := newPayloadFor(s, false)

	item := &event.Item{Name: "wide", IKey: "ikey1", Data: map[string]any{"x": strings.Repeat("x", 100)}}
	require.True(t, s.AppendPayload(p, event.NewBatch("ikey1", []*event.Item{item}), 10))

	require.Contains(t, logs.String(), `"payload_id":"`+p.ID.String()+`"`)
	require.Contains(t, logs.String(), `"event":"wide"`)
	require.Contains(t, logs.String(), "event exceeds record size limit")
}

func TestPayload_Compress(t *testing.T) {
	s := newTestSerializer(t)
	p := newPayloadFor(s, false)
	require.True(t, s.AppendPayload(p, event.NewBatch("ikey1", makeItems("ikey1", 50)), 0))

	for _, ct := range []format.CompressionType{format.CompressionNone, format.CompressionZstd, format.CompressionGzip, format.CompressionLZ4, format.CompressionS2} {
		body, err := p.Compress(ct)
		require.NoError(t, err)

		out, err := compress.Decompress(ct, body)
		require.NoError(t, err)
		require.Equal(t, p.Blob(), out, ct.String())
	}

	_, err := p.Compress(format.CompressionType(0))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestPayload_Release(t *testing.T) {
	s := newTestSerializer(t)
	p := newPayloadFor(s, false)
	require.True(t, s.AppendPayload(p, event.NewBatch("ikey1", makeItems("ikey1", 2)), 0))

	p.Release()
	require.Nil(t, p.Blob())
	require.Zero(t, p.Len())
	require.NotPanics(t, p.Release)
}

func BenchmarkAppendPayload(b *testing.B) {
	s, err := New()
	if err != nil {
		b.Fatal(err)
	}
	items := makeItems("ikey1", 100)

	b.ReportAllocs()
	for b.Loop() {
		p := newPayloadFor(s, false)
		s.AppendPayload(p, event.NewBatch("ikey1", items), 0)
		p.Release()
	}
}
