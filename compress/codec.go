// Package compress provides the archival codecs used to store and ship
// whole track blobs and container files.
//
// Blobs are self-contained byte slices, so archival compression is a plain
// bytes-in bytes-out transform layered outside the wire format; the decoded
// results are unaffected by the codec choice.
package compress

import (
	"fmt"

	"github.com/zrksyd/ssbh-go/format"
)

// Compressor compresses a complete blob.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	//   - Internal buffers may be reused for efficiency
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a blob compressed with the matching Compressor.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// The decompressor validates the data format and returns an error if the
	// data is corrupted or uses an incompatible format.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Compressor instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.ArchiveCompression, target string) (Codec, error) {
	switch compressionType {
	case format.ArchiveNone:
		return NewNoOpCompressor(), nil
	case format.ArchiveZstd:
		return NewZstdCompressor(), nil
	case format.ArchiveS2:
		return NewS2Compressor(), nil
	case format.ArchiveLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.ArchiveCompression]Codec{
	format.ArchiveNone: NewNoOpCompressor(),
	format.ArchiveZstd: NewZstdCompressor(),
	format.ArchiveS2:   NewS2Compressor(),
	format.ArchiveLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.ArchiveCompression) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
