package track

import (
	"github.com/zrksyd/ssbh-go/endian"
	"github.com/zrksyd/ssbh-go/errs"
	"github.com/zrksyd/ssbh-go/format"
	"github.com/zrksyd/ssbh-go/internal/bitio"
	"github.com/zrksyd/ssbh-go/section"
	"github.com/zrksyd/ssbh-go/vector"
)

// Decode reads frameCount frames of the given kind from a track blob.
//
// The returned bool is the track's scale compensation flag; it is only
// meaningful for transform tracks and false otherwise. For uncompressed
// transform tracks whose frames disagree on the flag, the first frame's
// value is reported.
//
// All descriptor and default data is copied into the returned values; the
// input buffer may be reused after Decode returns.
//
// Returns:
//   - Values: Decoded frames; the concrete type matches kind.
//   - bool: Scale compensation flag.
//   - error: errs.ErrInvalidRange for a negative frameCount;
//     errs.ErrInvalidHeaderSize, errs.ErrMalformedCompressionHeader,
//     errs.ErrUnexpectedBitCount, errs.ErrTruncated, or
//     errs.ErrInvalidBitCount on malformed input.
func Decode(data []byte, kind format.TrackKind, compression format.CompressionType, frameCount int) (Values, bool, error) {
	if frameCount < 0 {
		return nil, false, errs.ErrInvalidRange
	}

	switch {
	case compression == format.CompressionCompressed:
		return decodeCompressed(data, kind, frameCount)
	case compression.Uncompressed():
		return decodeUncompressed(data, kind, frameCount)
	default:
		return nil, false, errs.ErrInvalidCompressionType
	}
}

func decodeUncompressed(data []byte, kind format.TrackKind, frameCount int) (Values, bool, error) {
	engine := endian.GetLittleEndianEngine()

	recordSize := map[format.TrackKind]int{
		format.KindTransform:    transformRecordSize,
		format.KindUvTransform:  uvTransformRecordSize,
		format.KindFloat:        floatRecordSize,
		format.KindPatternIndex: patternIndexRecordSize,
		format.KindBoolean:      booleanRecordSize,
		format.KindVector4:      vector4RecordSize,
	}[kind]
	if recordSize == 0 {
		return nil, false, errs.ErrInvalidTrackKind
	}
	if frameCount > len(data)/recordSize {
		return nil, false, errs.ErrTruncated
	}

	switch kind {
	case format.KindTransform:
		values := make(TransformValues, frameCount)
		compensateScale := false
		for i := range values {
			record := getTransformRecord(data[i*transformRecordSize:], engine)
			if i == 0 {
				// Frames disagreeing on the flag are unspecified; take the first.
				compensateScale = record.CompensateScale != 0
			}
			values[i] = record.transform()
		}

		return values, compensateScale, nil
	case format.KindUvTransform:
		values := make(UvTransformValues, frameCount)
		for i := range values {
			values[i] = getUvTransformRecord(data[i*uvTransformRecordSize:], engine)
		}

		return values, false, nil
	case format.KindFloat:
		values := make(FloatValues, frameCount)
		for i := range values {
			values[i] = getF32(data[i*floatRecordSize:], engine)
		}

		return values, false, nil
	case format.KindPatternIndex:
		values := make(PatternIndexValues, frameCount)
		for i := range values {
			values[i] = engine.Uint32(data[i*patternIndexRecordSize:])
		}

		return values, false, nil
	case format.KindBoolean:
		values := make(BooleanValues, frameCount)
		for i := range values {
			values[i] = data[i] != 0
		}

		return values, false, nil
	default:
		values := make(Vector4Values, frameCount)
		for i := range values {
			values[i] = getVector4(data[i*vector4RecordSize:], engine)
		}

		return values, false, nil
	}
}

// compressedTrack is a parsed compressed blob before frame decoding.
type compressedTrack struct {
	header    section.CompressedHeader
	bitstream []byte
}

// parseCompressed validates the header and pointers and slices out the
// descriptor, default and bitstream regions.
func parseCompressed(data []byte, descriptorSize, defaultSize int) (*compressedTrack, []byte, []byte, error) {
	t := &compressedTrack{}
	if err := t.header.Parse(data); err != nil {
		return nil, nil, nil, err
	}
	if err := t.header.Validate(len(data)); err != nil {
		return nil, nil, nil, err
	}

	if section.HeaderSize+descriptorSize > len(data) {
		return nil, nil, nil, errs.ErrMalformedCompressionHeader
	}
	descriptor := data[section.HeaderSize : section.HeaderSize+descriptorSize]

	defaultStart := int(t.header.DefaultDataPtr)
	if defaultStart+defaultSize > len(data) {
		return nil, nil, nil, errs.ErrMalformedCompressionHeader
	}
	defaultValue := data[defaultStart : defaultStart+defaultSize]

	t.bitstream = data[t.header.CompressedDataPtr:]

	return t, descriptor, defaultValue, nil
}

// actualFrameCount collapses the all-frames-equal-default case into one
// logical frame. This also defends against pathological frame counts such as
// 0xFFFFFFFF with an empty bitstream.
func actualFrameCount(bitsPerEntry uint64, frameCount int) int {
	if bitsPerEntry == 0 && frameCount > 0 {
		return 1
	}

	return frameCount
}

// checkFrameBudget rejects frame counts the bitstream can't possibly hold
// before any frame slice is allocated.
func (t *compressedTrack) checkFrameBudget(count int, bitsPerFrame uint64) error {
	if count == 0 || bitsPerFrame == 0 {
		return nil
	}
	if uint64(count) > uint64(len(t.bitstream))*8/bitsPerFrame {
		return errs.ErrTruncated
	}

	return nil
}

func (t *compressedTrack) checkBitsPerEntry(expected uint64) error {
	if uint64(t.header.BitsPerEntry) != expected {
		return &errs.UnexpectedBitCountError{
			Expected: expected,
			Actual:   uint64(t.header.BitsPerEntry),
		}
	}

	return nil
}

func decodeCompressed(data []byte, kind format.TrackKind, frameCount int) (Values, bool, error) {
	switch kind {
	case format.KindTransform:
		return decodeCompressedTransforms(data, frameCount)
	case format.KindUvTransform:
		values, err := decodeCompressedUvTransforms(data, frameCount)
		return values, false, err
	case format.KindFloat:
		values, err := decodeCompressedFloats(data, frameCount)
		return values, false, err
	case format.KindPatternIndex:
		values, err := decodeCompressedPatternIndices(data, frameCount)
		return values, false, err
	case format.KindBoolean:
		values, err := decodeCompressedBooleans(data, frameCount)
		return values, false, err
	case format.KindVector4:
		values, err := decodeCompressedVector4s(data, frameCount)
		return values, false, err
	default:
		return nil, false, errs.ErrInvalidTrackKind
	}
}

func decodeCompressedTransforms(data []byte, frameCount int) (TransformValues, bool, error) {
	t, descriptor, defBytes, err := parseCompressed(data, section.TransformCompressionSize, transformRecordSize)
	if err != nil {
		return nil, false, err
	}

	var compression section.TransformCompression
	if err := compression.Parse(descriptor); err != nil {
		return nil, false, err
	}
	def := getTransformRecord(defBytes, endian.GetLittleEndianEngine())

	expected := compression.BitCountPerFrame(t.header.Flags)
	if err := t.checkBitsPerEntry(expected); err != nil {
		return nil, false, err
	}

	compensateScale := def.CompensateScale != 0

	count := actualFrameCount(expected, frameCount)
	if err := t.checkFrameBudget(count, expected); err != nil {
		return nil, false, err
	}
	values := make(TransformValues, count)
	r := bitio.NewReader(t.bitstream)
	for i := range values {
		record, err := unpackTransform(r, compression, def, t.header.Flags)
		if err != nil {
			return nil, false, err
		}
		values[i] = record.transform()
	}

	return values, compensateScale, nil
}

func decodeCompressedUvTransforms(data []byte, frameCount int) (UvTransformValues, error) {
	t, descriptor, defBytes, err := parseCompressed(data, section.UvTransformCompressionSize, uvTransformRecordSize)
	if err != nil {
		return nil, err
	}

	var compression section.UvTransformCompression
	if err := compression.Parse(descriptor); err != nil {
		return nil, err
	}
	def := getUvTransformRecord(defBytes, endian.GetLittleEndianEngine())

	expected := compression.BitCountPerFrame(t.header.Flags)
	if err := t.checkBitsPerEntry(expected); err != nil {
		return nil, err
	}

	count := actualFrameCount(expected, frameCount)
	if err := t.checkFrameBudget(count, expected); err != nil {
		return nil, err
	}
	values := make(UvTransformValues, count)
	r := bitio.NewReader(t.bitstream)
	for i := range values {
		if values[i], err = unpackUvTransform(r, compression, def, t.header.Flags); err != nil {
			return nil, err
		}
	}

	return values, nil
}

func decodeCompressedFloats(data []byte, frameCount int) (FloatValues, error) {
	t, descriptor, defBytes, err := parseCompressed(data, section.F32CompressionSize, floatRecordSize)
	if err != nil {
		return nil, err
	}

	var compression section.F32Compression
	if err := compression.Parse(descriptor); err != nil {
		return nil, err
	}
	def := getF32(defBytes, endian.GetLittleEndianEngine())

	expected := compression.EffectiveBitCount()
	if err := t.checkBitsPerEntry(expected); err != nil {
		return nil, err
	}

	count := actualFrameCount(expected, frameCount)
	if err := t.checkFrameBudget(count, expected); err != nil {
		return nil, err
	}
	values := make(FloatValues, count)
	r := bitio.NewReader(t.bitstream)
	for i := range values {
		if values[i], err = readQuantF32(r, compression, def); err != nil {
			return nil, err
		}
	}

	return values, nil
}

func decodeCompressedPatternIndices(data []byte, frameCount int) (PatternIndexValues, error) {
	t, descriptor, _, err := parseCompressed(data, section.U32CompressionSize, patternIndexRecordSize)
	if err != nil {
		return nil, err
	}

	var compression section.U32Compression
	if err := compression.Parse(descriptor); err != nil {
		return nil, err
	}

	expected := compression.BitCountPerFrame()
	if err := t.checkBitsPerEntry(expected); err != nil {
		return nil, err
	}

	count := actualFrameCount(expected, frameCount)
	if err := t.checkFrameBudget(count, expected); err != nil {
		return nil, err
	}
	values := make(PatternIndexValues, count)
	r := bitio.NewReader(t.bitstream)
	for i := range values {
		if values[i], err = unpackPatternIndex(r, compression); err != nil {
			return nil, err
		}
	}

	return values, nil
}

func decodeCompressedBooleans(data []byte, frameCount int) (BooleanValues, error) {
	// Boolean compression is based on bits per entry, which is usually 1.
	// The 16 descriptor bytes carry no information, so there is no sum to
	// verify against.
	t, _, _, err := parseCompressed(data, section.BoolCompressionSize, booleanRecordSize)
	if err != nil {
		return nil, err
	}

	bitsPerEntry := uint64(t.header.BitsPerEntry)

	count := actualFrameCount(bitsPerEntry, frameCount)
	if err := t.checkFrameBudget(count, bitsPerEntry); err != nil {
		return nil, err
	}
	values := make(BooleanValues, count)
	if bitsPerEntry == 0 {
		return values, nil
	}

	r := bitio.NewReader(t.bitstream)
	for i := range values {
		bits, err := r.ReadUint64(uint(bitsPerEntry))
		if err != nil {
			return nil, err
		}
		values[i] = bits != 0
	}

	return values, nil
}

func decodeCompressedVector4s(data []byte, frameCount int) (Vector4Values, error) {
	t, descriptor, defBytes, err := parseCompressed(data, section.Vector4CompressionSize, vector4RecordSize)
	if err != nil {
		return nil, err
	}

	var compression section.Vector4Compression
	if err := compression.Parse(descriptor); err != nil {
		return nil, err
	}
	def := getVector4(defBytes, endian.GetLittleEndianEngine())

	expected := compression.BitCountPerFrame()
	if err := t.checkBitsPerEntry(expected); err != nil {
		return nil, err
	}

	count := actualFrameCount(expected, frameCount)
	if err := t.checkFrameBudget(count, expected); err != nil {
		return nil, err
	}
	values := make(Vector4Values, count)
	r := bitio.NewReader(t.bitstream)
	for i := range values {
		var frame vector.Vector4
		if frame.X, err = readQuantF32(r, compression.X, def.X); err != nil {
			return nil, err
		}
		if frame.Y, err = readQuantF32(r, compression.Y, def.Y); err != nil {
			return nil, err
		}
		if frame.Z, err = readQuantF32(r, compression.Z, def.Z); err != nil {
			return nil, err
		}
		if frame.W, err = readQuantF32(r, compression.W, def.W); err != nil {
			return nil, err
		}
		values[i] = frame
	}

	return values, nil
}
