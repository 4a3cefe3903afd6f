package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor encodes payload blobs as single Zstandard frames for the
// "zstd" Content-Encoding. NDJSON records repeat the same envelope keys, so
// zstd gets the best ratio of the built-in codecs.
//
// Frames carry no content checksum: the transport already protects the
// request body, and collectors reject bodies that fail to decode.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// maxDecodedPayload bounds decoded bodies at twice the largest request a
// serializer produces.
const maxDecodedPayload = 2 * 3 * 1024 * 1024

// NewZstdCompressor returns the zstd payload codec. Encoders and decoders are
// shared through package pools.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Decoders are only used by receivers and tests reading payloads back; one
// goroutine per decoder is enough for bodies of a few MiB.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(maxDecodedPayload),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd payload decoder: %v", err))
		}

		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd payload encoder: %v", err))
		}

		return encoder
	},
}

// Compress encodes a payload blob into one zstd frame.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decodes a zstd payload body. Bodies that would expand past
// maxDecodedPayload are rejected.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	decompressed, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}
