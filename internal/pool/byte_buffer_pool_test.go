package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ByteBuffer Tests
// =============================================================================

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, bb.Len(), "new buffer should have zero length")
	assert.Equal(t, 1024, bb.Cap(), "new buffer should have specified capacity")
}

func TestByteBuffer_Writes(t *testing.T) {
	bb := NewByteBuffer(RecordBufferDefaultSize)

	n, err := bb.Write([]byte(`{"name":`))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	n, err = bb.WriteString(`"evt"}`)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	require.NoError(t, bb.WriteByte('\n'))

	assert.Equal(t, "{\"name\":\"evt\"}\n", bb.String())
	assert.Equal(t, []byte("{\"name\":\"evt\"}\n"), bb.Bytes())
	assert.Equal(t, 15, bb.Len())
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(RecordBufferDefaultSize)
	_, _ = bb.WriteString("some data")
	originalCap := bb.Cap()

	bb.Reset()

	assert.Equal(t, 0, bb.Len(), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, bb.Cap(), "Reset should preserve capacity")
}

func TestByteBuffer_Truncate(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.WriteString("record\n")

	bb.Truncate(6)
	assert.Equal(t, "record", bb.String())

	assert.Panics(t, func() { bb.Truncate(7) })
	assert.Panics(t, func() { bb.Truncate(-1) })
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(RecordBufferDefaultSize)
	_, _ = bb.WriteString("test data")

	var buf bytes.Buffer
	n, err := bb.WriteTo(&buf)

	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "test data", buf.String())
}

type errorWriter struct {
	err error
}

func (w *errorWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func TestByteBuffer_WriteTo_ErrorPropagation(t *testing.T) {
	bb := NewByteBuffer(RecordBufferDefaultSize)
	_, _ = bb.WriteString("test")

	n, err := bb.WriteTo(&errorWriter{err: io.ErrShortWrite})

	require.ErrorIs(t, err, io.ErrShortWrite)
	assert.Equal(t, int64(0), n)
}

// =============================================================================
// ByteBuffer Grow Tests
// =============================================================================

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(RecordBufferDefaultSize)
		bb.Grow(100)
		assert.Equal(t, RecordBufferDefaultSize, bb.Cap(), "should not reallocate when capacity is sufficient")
	})

	t.Run("small buffer grows by a fixed step", func(t *testing.T) {
		bb := NewByteBuffer(RecordBufferDefaultSize)
		bb.B = append(bb.B, make([]byte, RecordBufferDefaultSize)...)

		bb.Grow(1)

		assert.Equal(t, RecordBufferDefaultSize+growSmallStep, bb.Cap())
		assert.Equal(t, RecordBufferDefaultSize, bb.Len(), "length should not change")
	})

	t.Run("large buffer grows proportionally", func(t *testing.T) {
		bb := NewByteBuffer(0)
		largeSize := growProportionalStartFactor*growSmallStep + 1024
		bb.B = make([]byte, largeSize)

		bb.Grow(2048)

		assert.Equal(t, largeSize+largeSize/4, bb.Cap())
	})

	t.Run("huge request", func(t *testing.T) {
		bb := NewByteBuffer(RecordBufferDefaultSize)
		bb.B = append(bb.B, make([]byte, RecordBufferDefaultSize)...)

		bb.Grow(PayloadBufferMaxThreshold)

		assert.GreaterOrEqual(t, bb.Cap(), RecordBufferDefaultSize+PayloadBufferMaxThreshold)
	})

	t.Run("preserves data", func(t *testing.T) {
		bb := NewByteBuffer(8)
		_, _ = bb.WriteString("important")

		bb.Grow(RecordBufferDefaultSize * 2)

		assert.Equal(t, "important", bb.String())
	})
}

// =============================================================================
// Pool Tests
// =============================================================================

func TestDefaultPools(t *testing.T) {
	rec := GetRecordBuffer()
	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.Len())
	assert.GreaterOrEqual(t, rec.Cap(), RecordBufferDefaultSize)

	payload := GetPayloadBuffer()
	require.NotNil(t, payload)
	assert.Equal(t, 0, payload.Len())
	assert.GreaterOrEqual(t, payload.Cap(), PayloadBufferDefaultSize)

	_, _ = rec.WriteString("record")
	_, _ = payload.WriteString("payload")
	PutRecordBuffer(rec)
	PutPayloadBuffer(payload)

	assert.Equal(t, 0, rec.Len(), "Put should reset the buffer")
	assert.Equal(t, 0, payload.Len(), "Put should reset the buffer")

	assert.NotPanics(t, func() {
		PutRecordBuffer(nil)
		PutPayloadBuffer(nil)
	})
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	t.Run("discards oversized buffers", func(t *testing.T) {
		p := NewByteBufferPool(64, 128)
		bb := p.Get()
		bb.Grow(1024)
		_, _ = bb.WriteString("data")

		p.Put(bb)

		assert.Equal(t, 4, bb.Len(), "discarded buffers are not reset")
	})

	t.Run("keeps buffers under the threshold", func(t *testing.T) {
		p := NewByteBufferPool(64, 128)
		bb := p.Get()
		_, _ = bb.WriteString("data")

		p.Put(bb)

		assert.Equal(t, 0, bb.Len())
	})

	t.Run("zero threshold keeps everything", func(t *testing.T) {
		p := NewByteBufferPool(64, 0)
		bb := p.Get()
		bb.Grow(1 << 20)
		_, _ = bb.WriteString("data")

		p.Put(bb)

		assert.Equal(t, 0, bb.Len())
	})
}

func TestPool_ConcurrentAccess(t *testing.T) {
	const numGoroutines = 50
	const numIterations = 500

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for range numGoroutines {
		go func() {
			defer wg.Done()
			for range numIterations {
				bb := GetRecordBuffer()
				_, _ = bb.WriteString("data")
				assert.Equal(t, 4, bb.Len())
				PutRecordBuffer(bb)
			}
		}()
	}

	wg.Wait()
}
