// Package compress provides the codecs used to compress serialized payloads
// before transport handoff.
//
// Supported algorithms, selected with a format.CompressionType:
//   - None: the NDJSON blob is sent as-is
//   - Zstd: best ratio, moderate speed
//   - S2: S2 framed stream, fast with a good ratio
//   - LZ4: LZ4 frame format, very fast
//   - Gzip: universally accepted by HTTP collectors
//
// Every codec is stateless and safe for concurrent use. Encoders and decoders
// are pooled internally.
//
//	data, stats, err := compress.Compress(format.CompressionZstd, payload.Blob())
//	if err != nil {
//	    return err
//	}
//	req.Header.Set("Content-Encoding", format.CompressionZstd.ContentEncoding())
//
// Compressing an empty input returns nil for every codec except None.
package compress
