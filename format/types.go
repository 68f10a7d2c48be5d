package format

type (
	// TrackKind identifies the semantic kind of the per-frame values in a track.
	TrackKind uint8
	// CompressionType identifies how a track's frames are stored on the wire.
	CompressionType uint8
	// ScaleType is the 2-bit scale packing selector in the compression flags.
	ScaleType uint8
	// ArchiveCompression identifies the codec used to archive whole blobs.
	ArchiveCompression uint8
)

const (
	KindTransform    TrackKind = 0x1 // KindTransform stores scale, rotation and translation per frame.
	KindUvTransform  TrackKind = 0x2 // KindUvTransform stores a 5-component texture transform per frame.
	KindFloat        TrackKind = 0x3 // KindFloat stores a single scalar float per frame.
	KindPatternIndex TrackKind = 0x4 // KindPatternIndex stores an unsigned pattern index per frame.
	KindBoolean      TrackKind = 0x5 // KindBoolean stores a single flag per frame.
	KindVector4      TrackKind = 0x6 // KindVector4 stores a 4-component vector per frame.

	CompressionDirect         CompressionType = 0x1 // CompressionDirect stores uncompressed per-frame records.
	CompressionConstant       CompressionType = 0x2 // CompressionConstant stores a single uncompressed record.
	CompressionConstTransform CompressionType = 0x3 // CompressionConstTransform is the constant form used by transform tracks.
	CompressionCompressed     CompressionType = 0x4 // CompressionCompressed stores a headered quantized bitstream.

	ArchiveNone ArchiveCompression = 0x1 // ArchiveNone stores the blob as-is.
	ArchiveZstd ArchiveCompression = 0x2 // ArchiveZstd uses Zstandard compression.
	ArchiveS2   ArchiveCompression = 0x3 // ArchiveS2 uses S2 compression.
	ArchiveLZ4  ArchiveCompression = 0x4 // ArchiveLZ4 uses LZ4 block compression.

	ScaleNone          ScaleType = 0x0 // ScaleNone stores no scale components.
	ScaleNoInheritance ScaleType = 0x1 // ScaleNoInheritance stores full scale and disables scale inheritance.
	Scale              ScaleType = 0x2 // Scale stores three scale components per frame.
	UniformScale       ScaleType = 0x3 // UniformScale stores one scale component broadcast to all three.
)

func (k TrackKind) String() string {
	switch k {
	case KindTransform:
		return "Transform"
	case KindUvTransform:
		return "UvTransform"
	case KindFloat:
		return "Float"
	case KindPatternIndex:
		return "PatternIndex"
	case KindBoolean:
		return "Boolean"
	case KindVector4:
		return "Vector4"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionDirect:
		return "Direct"
	case CompressionConstant:
		return "Constant"
	case CompressionConstTransform:
		return "ConstTransform"
	case CompressionCompressed:
		return "Compressed"
	default:
		return "Unknown"
	}
}

func (s ScaleType) String() string {
	switch s {
	case ScaleNone:
		return "None"
	case ScaleNoInheritance:
		return "ScaleNoInheritance"
	case Scale:
		return "Scale"
	case UniformScale:
		return "UniformScale"
	default:
		return "Unknown"
	}
}

func (a ArchiveCompression) String() string {
	switch a {
	case ArchiveNone:
		return "None"
	case ArchiveZstd:
		return "Zstd"
	case ArchiveS2:
		return "S2"
	case ArchiveLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Uncompressed reports whether the compression type uses the contiguous
// fixed-size record framing instead of a headered bitstream.
func (c CompressionType) Uncompressed() bool {
	return c == CompressionDirect || c == CompressionConstant || c == CompressionConstTransform
}
