package section

import (
	"github.com/zrksyd/ssbh-go/endian"
	"github.com/zrksyd/ssbh-go/errs"
)

// CompressedHeader is the fixed 16-byte prelude of a compressed track blob.
//
// The two pointers are byte offsets relative to the start of the track blob.
// A zero pointer is malformed; the reader rejects it before touching the
// descriptor or bitstream.
type CompressedHeader struct {
	// Unk4 is always 4 in shipped files. Preserved on round-trip.
	Unk4 uint16 // byte offset 0-1
	// Flags determine which transform components the bitstream stores.
	Flags CompressionFlags // byte offset 2-3
	// DefaultDataPtr is the offset of the track's default value.
	DefaultDataPtr uint16 // byte offset 4-5
	// BitsPerEntry is the total bit width of one frame.
	BitsPerEntry uint16 // byte offset 6-7
	// CompressedDataPtr is the offset of the bitstream.
	CompressedDataPtr uint32 // byte offset 8-11
	// FrameCount is the number of frames the writer encoded.
	FrameCount uint32 // byte offset 12-15
}

// NewCompressedHeader creates a header for the canonical writer layout:
// descriptor directly after the header, default value directly after the
// descriptor, bitstream directly after the default value.
func NewCompressedHeader(flags CompressionFlags, descriptorSize, defaultSize int, bitsPerEntry uint64, frameCount uint32) CompressedHeader {
	defaultPtr := HeaderSize + descriptorSize

	return CompressedHeader{
		Unk4:              4,
		Flags:             flags,
		DefaultDataPtr:    uint16(defaultPtr),          //nolint:gosec
		BitsPerEntry:      uint16(bitsPerEntry),        //nolint:gosec
		CompressedDataPtr: uint32(defaultPtr + defaultSize), //nolint:gosec
		FrameCount:        frameCount,
	}
}

// Parse parses the header from the first 16 bytes of a track blob.
//
// Returns:
//   - error: errs.ErrInvalidHeaderSize if data is shorter than 16 bytes
func (h *CompressedHeader) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	engine := endian.GetLittleEndianEngine()

	h.Unk4 = engine.Uint16(data[0:2])
	h.Flags = ParseCompressionFlags(engine.Uint16(data[2:4]))
	h.DefaultDataPtr = engine.Uint16(data[4:6])
	h.BitsPerEntry = engine.Uint16(data[6:8])
	h.CompressedDataPtr = engine.Uint32(data[8:12])
	h.FrameCount = engine.Uint32(data[12:16])

	return nil
}

// Bytes serializes the header into its 16-byte wire form.
func (h *CompressedHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := endian.GetLittleEndianEngine()

	engine.PutUint16(b[0:2], h.Unk4)
	engine.PutUint16(b[2:4], h.Flags.Bits())
	engine.PutUint16(b[4:6], h.DefaultDataPtr)
	engine.PutUint16(b[6:8], h.BitsPerEntry)
	engine.PutUint32(b[8:12], h.CompressedDataPtr)
	engine.PutUint32(b[12:16], h.FrameCount)

	return b
}

// Validate checks the pointers against the blob size. A zero pointer or a
// pointer past the end of the blob is malformed.
func (h *CompressedHeader) Validate(blobSize int) error {
	if h.DefaultDataPtr == 0 || h.CompressedDataPtr == 0 {
		return errs.ErrMalformedCompressionHeader
	}
	if int64(h.DefaultDataPtr) > int64(blobSize) || int64(h.CompressedDataPtr) > int64(blobSize) {
		return errs.ErrMalformedCompressionHeader
	}

	return nil
}
