package track

import (
	"fmt"

	"github.com/zrksyd/ssbh-go/endian"
	"github.com/zrksyd/ssbh-go/errs"
	"github.com/zrksyd/ssbh-go/format"
	"github.com/zrksyd/ssbh-go/internal/bitio"
	"github.com/zrksyd/ssbh-go/internal/options"
	"github.com/zrksyd/ssbh-go/section"
	"github.com/zrksyd/ssbh-go/vector"
)

type encoderConfig struct {
	compensateScale bool
	f32BitCount     uint64
}

// EncoderOption configures Encode.
type EncoderOption = options.Option[*encoderConfig]

// WithCompensateScale sets the scale compensation flag written with transform
// tracks. Other kinds ignore it.
func WithCompensateScale(enabled bool) EncoderOption {
	return options.NoError(func(cfg *encoderConfig) {
		cfg.compensateScale = enabled
	})
}

// WithF32BitCount overrides the quantization width used for non-degenerate
// float components. The default is section.DefaultF32BitCount.
func WithF32BitCount(bits uint64) EncoderOption {
	return options.New(func(cfg *encoderConfig) error {
		if bits == 0 || bits > section.MaxF32BitCount {
			return fmt.Errorf("f32 bit count %d: %w", bits, errs.ErrInvalidBitCount)
		}
		cfg.f32BitCount = bits

		return nil
	})
}

// Encode serializes a track to its wire form.
//
// Direct, Constant and ConstTransform produce contiguous fixed-size records;
// Compressed produces a headered quantized bitstream. The compression
// descriptor and default value are derived from the frames: per-component
// min/max as the grid range and the min as the default.
//
// Returns:
//   - []byte: The track blob, owned by the caller.
//   - error: errs.ErrInvalidCompressionType for an unknown compression type,
//     or an option validation error.
func Encode(values Values, compression format.CompressionType, opts ...EncoderOption) ([]byte, error) {
	cfg := encoderConfig{f32BitCount: section.DefaultF32BitCount}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	switch {
	case compression == format.CompressionCompressed:
		return encodeCompressed(values, cfg)
	case compression.Uncompressed():
		return encodeUncompressed(values, cfg)
	default:
		return nil, errs.ErrInvalidCompressionType
	}
}

func encodeUncompressed(values Values, cfg encoderConfig) ([]byte, error) {
	engine := endian.GetLittleEndianEngine()

	switch v := values.(type) {
	case TransformValues:
		buf := make([]byte, 0, len(v)*transformRecordSize)
		for _, t := range v {
			buf = appendTransformRecord(buf, engine, newUncompressedTransform(t, cfg.compensateScale))
		}

		return buf, nil
	case UvTransformValues:
		buf := make([]byte, 0, len(v)*uvTransformRecordSize)
		for _, t := range v {
			buf = appendUvTransformRecord(buf, engine, t)
		}

		return buf, nil
	case FloatValues:
		buf := make([]byte, 0, len(v)*floatRecordSize)
		for _, f := range v {
			buf = appendF32(buf, engine, f)
		}

		return buf, nil
	case PatternIndexValues:
		buf := make([]byte, 0, len(v)*patternIndexRecordSize)
		for _, p := range v {
			buf = engine.AppendUint32(buf, p)
		}

		return buf, nil
	case BooleanValues:
		buf := make([]byte, 0, len(v)*booleanRecordSize)
		for _, b := range v {
			if b {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		}

		return buf, nil
	case Vector4Values:
		buf := make([]byte, 0, len(v)*vector4RecordSize)
		for _, vec := range v {
			buf = appendVector4(buf, engine, vec)
		}

		return buf, nil
	default:
		return nil, errs.ErrInvalidTrackKind
	}
}

func encodeCompressed(values Values, cfg encoderConfig) ([]byte, error) {
	engine := endian.GetLittleEndianEngine()

	switch v := values.(type) {
	case TransformValues:
		flags := transformFlags(v)

		records := make([]uncompressedTransform, len(v))
		for i, t := range v {
			records[i] = newUncompressedTransform(t, cfg.compensateScale)
		}

		def, compression := deriveTransform(records, cfg.compensateScale, cfg.f32BitCount)

		descriptor := compression.AppendBytes(make([]byte, 0, section.TransformCompressionSize))
		defBytes := appendTransformRecord(make([]byte, 0, transformRecordSize), engine, def)

		return assembleCompressed(flags, descriptor, defBytes,
			compression.BitCountPerFrame(flags), len(v),
			func(w *bitio.Writer) {
				for _, t := range records {
					packTransform(w, t, compression, flags)
				}
			}), nil
	case UvTransformValues:
		flags := uvTransformFlags(v)
		def, compression := deriveUvTransform(v, cfg.f32BitCount)

		descriptor := compression.AppendBytes(make([]byte, 0, section.UvTransformCompressionSize))
		defBytes := appendUvTransformRecord(make([]byte, 0, uvTransformRecordSize), engine, def)

		return assembleCompressed(flags, descriptor, defBytes,
			compression.BitCountPerFrame(flags), len(v),
			func(w *bitio.Writer) {
				for _, t := range v {
					packUvTransform(w, t, compression, flags)
				}
			}), nil
	case FloatValues:
		def, compression := deriveFloat(v, cfg.f32BitCount)

		descriptor := compression.AppendBytes(make([]byte, 0, section.F32CompressionSize))
		defBytes := appendF32(make([]byte, 0, floatRecordSize), engine, def)

		return assembleCompressed(section.CompressionFlags{}, descriptor, defBytes,
			compression.EffectiveBitCount(), len(v),
			func(w *bitio.Writer) {
				for _, f := range v {
					writeQuantF32(w, f, compression)
				}
			}), nil
	case PatternIndexValues:
		def, compression := derivePatternIndex(v)

		descriptor := compression.AppendBytes(make([]byte, 0, section.U32CompressionSize))
		defBytes := engine.AppendUint32(make([]byte, 0, patternIndexRecordSize), def)

		return assembleCompressed(section.CompressionFlags{}, descriptor, defBytes,
			compression.BitCountPerFrame(), len(v),
			func(w *bitio.Writer) {
				for _, p := range v {
					packPatternIndex(w, p, compression)
				}
			}), nil
	case BooleanValues:
		// The 16 descriptor bytes are informational and always zero; each
		// frame is a single bit.
		descriptor := make([]byte, section.BoolCompressionSize)
		defBytes := []byte{0}

		return assembleCompressed(section.CompressionFlags{}, descriptor, defBytes,
			1, len(v),
			func(w *bitio.Writer) {
				for _, b := range v {
					w.WriteBool(b)
				}
			}), nil
	case Vector4Values:
		var min, max vector.Vector4
		for i, vec := range v {
			if i == 0 {
				min, max = vec, vec
				continue
			}
			min = min.Min(vec)
			max = max.Max(vec)
		}

		compression := section.Vector4CompressionFromRange(min, max, cfg.f32BitCount)

		descriptor := compression.AppendBytes(make([]byte, 0, section.Vector4CompressionSize))
		defBytes := appendVector4(make([]byte, 0, vector4RecordSize), engine, min)

		return assembleCompressed(section.CompressionFlags{}, descriptor, defBytes,
			compression.BitCountPerFrame(), len(v),
			func(w *bitio.Writer) {
				for _, vec := range v {
					writeQuantF32(w, vec.X, compression.X)
					writeQuantF32(w, vec.Y, compression.Y)
					writeQuantF32(w, vec.Z, compression.Z)
					writeQuantF32(w, vec.W, compression.W)
				}
			}), nil
	default:
		return nil, errs.ErrInvalidTrackKind
	}
}

// assembleCompressed lays the track blob out as
// [header][descriptor][default][bitstream].
func assembleCompressed(flags section.CompressionFlags, descriptor, defaultValue []byte, bitsPerEntry uint64, frameCount int, pack func(w *bitio.Writer)) []byte {
	header := section.NewCompressedHeader(flags, len(descriptor), len(defaultValue), bitsPerEntry, uint32(frameCount)) //nolint:gosec

	w := bitio.NewWriter(uint64(frameCount) * bitsPerEntry)
	pack(w)
	bitstream := w.Bytes()

	blob := make([]byte, 0, section.HeaderSize+len(descriptor)+len(defaultValue)+len(bitstream))
	blob = append(blob, header.Bytes()...)
	blob = append(blob, descriptor...)
	blob = append(blob, defaultValue...)
	blob = append(blob, bitstream...)

	return blob
}
