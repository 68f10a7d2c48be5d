package compress

// ZstdCompressor provides Zstandard compression for blob archival.
//
// This compressor favors compression ratio over speed, making it the default
// choice for cold storage of track blobs and container files. The
// implementation is selected at build time: cgo builds use the libzstd
// binding, pure Go builds fall back to klauspost/compress.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
