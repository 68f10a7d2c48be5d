// Package ssbh provides a binary asset toolkit for the SSBH family of
// game-engine files: the compressed animation track codec and the
// packed-binary container primitives (pointer-relative arrays,
// zero-terminated names, offset fix-ups, little-endian records) the file
// formats share.
//
// # Core Features
//
//   - Lossless round-trip of compressed animation tracks up to the
//     quantization grid chosen by the writer
//   - Six track kinds: transform, uv-transform, float, pattern index,
//     boolean, vector4
//   - Uncompressed (Direct, Constant, ConstTransform) and Compressed
//     track framing
//   - Container primitives with a recursion-free offset fix-up writer
//   - Record codecs for model manifest, mesh adjacency and mesh-index
//     metadata files
//   - Optional blob archival compression (Zstd, S2, LZ4)
//
// # Basic Usage
//
// Encoding and decoding a track:
//
//	import (
//	    "github.com/zrksyd/ssbh-go/format"
//	    "github.com/zrksyd/ssbh-go/track"
//	)
//
//	blob, _ := ssbh.EncodeTrack(track.FloatValues{0.0, 0.5, 1.0}, format.CompressionCompressed)
//
//	values, _, _ := ssbh.DecodeTrack(blob, format.KindFloat, format.CompressionCompressed, 3)
//	floats := values.(track.FloatValues)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the track and
// compress packages, simplifying the most common use cases. For fine-grained
// control, use the track, section, container and formats packages directly.
package ssbh

import (
	"github.com/zrksyd/ssbh-go/compress"
	"github.com/zrksyd/ssbh-go/format"
	"github.com/zrksyd/ssbh-go/track"
)

// EncodeTrack serializes a per-frame value sequence to its wire form.
//
// This is a thin wrapper around track.Encode. See track.EncoderOption for
// the available options:
//   - track.WithCompensateScale(true|false)
//   - track.WithF32BitCount(1..32)
func EncodeTrack(values track.Values, compression format.CompressionType, opts ...track.EncoderOption) ([]byte, error) {
	return track.Encode(values, compression, opts...)
}

// DecodeTrack reads frameCount frames of the given kind from a track blob.
//
// The returned bool is the scale compensation flag of transform tracks;
// it is false for every other kind.
func DecodeTrack(data []byte, kind format.TrackKind, compression format.CompressionType, frameCount int) (track.Values, bool, error) {
	return track.Decode(data, kind, compression, frameCount)
}

// CompressBlob archives a finished blob with the chosen codec.
//
// The blob can be a track blob or a whole container file; archival is a
// plain bytes-in bytes-out transform outside the wire format.
func CompressBlob(data []byte, compression format.ArchiveCompression) ([]byte, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	return codec.Compress(data)
}

// DecompressBlob restores a blob archived with CompressBlob.
func DecompressBlob(data []byte, compression format.ArchiveCompression) ([]byte, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	return codec.Decompress(data)
}
