package ssbh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zrksyd/ssbh-go/format"
	"github.com/zrksyd/ssbh-go/track"
	"github.com/zrksyd/ssbh-go/vector"
)

// TestEncodeDecodeTrack verifies the top-level wrappers round-trip a track.
func TestEncodeDecodeTrack(t *testing.T) {
	values := track.FloatValues{0.5, 2.0}

	blob, err := EncodeTrack(values, format.CompressionCompressed)
	require.NoError(t, err)

	decoded, compensateScale, err := DecodeTrack(blob, format.KindFloat, format.CompressionCompressed, 2)
	require.NoError(t, err)
	require.False(t, compensateScale)
	require.Equal(t, values, decoded)
}

// TestEncodeDecodeTransformTrack verifies the compensate scale flag survives
// the wrappers.
func TestEncodeDecodeTransformTrack(t *testing.T) {
	values := track.TransformValues{
		{
			Scale:       vector.NewVector3(1, 1, 1),
			Rotation:    vector.NewVector4(0, 0, 0, 1),
			Translation: vector.NewVector3(0, 1, 0),
		},
	}

	blob, err := EncodeTrack(values, format.CompressionConstTransform, track.WithCompensateScale(true))
	require.NoError(t, err)

	decoded, compensateScale, err := DecodeTrack(blob, format.KindTransform, format.CompressionConstTransform, 1)
	require.NoError(t, err)
	require.True(t, compensateScale)
	require.Equal(t, values, decoded)
}

// TestCompressDecompressBlob verifies blob archival round-trips for each codec.
func TestCompressDecompressBlob(t *testing.T) {
	blob, err := EncodeTrack(track.FloatValues{0.0, 0.25, 0.5, 0.75, 1.0}, format.CompressionCompressed)
	require.NoError(t, err)

	for _, compression := range []format.ArchiveCompression{
		format.ArchiveNone, format.ArchiveZstd, format.ArchiveS2, format.ArchiveLZ4,
	} {
		compressed, err := CompressBlob(blob, compression)
		require.NoError(t, err)

		restored, err := DecompressBlob(compressed, compression)
		require.NoError(t, err)
		require.Equal(t, blob, restored)
	}
}

// TestCompressBlobUnknownCodec verifies unknown codecs are rejected.
func TestCompressBlobUnknownCodec(t *testing.T) {
	_, err := CompressBlob([]byte{1, 2, 3}, format.ArchiveCompression(0xEE))
	require.Error(t, err)
}
