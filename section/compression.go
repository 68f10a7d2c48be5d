package section

import (
	"math"

	"github.com/zrksyd/ssbh-go/endian"
	"github.com/zrksyd/ssbh-go/errs"
	"github.com/zrksyd/ssbh-go/format"
	"github.com/zrksyd/ssbh-go/vector"
)

// F32Compression describes the quantization grid of one float component:
// 2^BitCount evenly spaced values between Min and Max.
//
// Unsigned normalized u8 would use Min: 0.0, Max: 1.0, and BitCount: 8,
// so 0b00000000 decodes to 0.0 and 0b11111111 decodes to 1.0.
type F32Compression struct {
	Min      float32
	Max      float32
	BitCount uint64
}

// F32CompressionFromRange chooses the canonical descriptor for an observed
// value range: bitCount wide when the range is non-degenerate, zero bits
// (decode to default) otherwise.
func F32CompressionFromRange(min, max float32, bitCount uint64) F32Compression {
	if min == max {
		bitCount = 0
	}

	return F32Compression{Min: min, Max: max, BitCount: bitCount}
}

// EffectiveBitCount is the number of bits one frame actually consumes for
// this component. Shipped files carry degenerate ranges with a nonzero
// stored bit count; those components consume no bits and decode to the
// default, so both the header accounting and the reader use this value.
func (c F32Compression) EffectiveBitCount() uint64 {
	if c.Min == c.Max {
		return 0
	}

	return c.BitCount
}

// Parse parses the 16-byte wire form.
func (c *F32Compression) Parse(data []byte) error {
	if len(data) < F32CompressionSize {
		return errs.ErrInvalidHeaderSize
	}

	engine := endian.GetLittleEndianEngine()
	c.Min = math.Float32frombits(engine.Uint32(data[0:4]))
	c.Max = math.Float32frombits(engine.Uint32(data[4:8]))
	c.BitCount = engine.Uint64(data[8:16])

	return nil
}

// AppendBytes appends the 16-byte wire form to buf.
func (c F32Compression) AppendBytes(buf []byte) []byte {
	engine := endian.GetLittleEndianEngine()
	buf = engine.AppendUint32(buf, math.Float32bits(c.Min))
	buf = engine.AppendUint32(buf, math.Float32bits(c.Max))
	buf = engine.AppendUint64(buf, c.BitCount)

	return buf
}

// U32Compression describes the stored range of an unsigned integer component.
// Values are stored biased by Min in BitCount bits.
type U32Compression struct {
	Min      uint32
	Max      uint32
	BitCount uint64
}

// Parse parses the 16-byte wire form.
func (c *U32Compression) Parse(data []byte) error {
	if len(data) < U32CompressionSize {
		return errs.ErrInvalidHeaderSize
	}

	engine := endian.GetLittleEndianEngine()
	c.Min = engine.Uint32(data[0:4])
	c.Max = engine.Uint32(data[4:8])
	c.BitCount = engine.Uint64(data[8:16])

	return nil
}

// AppendBytes appends the 16-byte wire form to buf.
func (c U32Compression) AppendBytes(buf []byte) []byte {
	engine := endian.GetLittleEndianEngine()
	buf = engine.AppendUint32(buf, c.Min)
	buf = engine.AppendUint32(buf, c.Max)
	buf = engine.AppendUint64(buf, c.BitCount)

	return buf
}

// BitCountPerFrame returns the bits one frame consumes for this component.
func (c U32Compression) BitCountPerFrame() uint64 {
	return c.BitCount
}

// Vector3Compression describes the grids of a three-component vector.
type Vector3Compression struct {
	X F32Compression
	Y F32Compression
	Z F32Compression
}

// Vector3CompressionFromRange builds per-component canonical descriptors.
func Vector3CompressionFromRange(min, max vector.Vector3, bitCount uint64) Vector3Compression {
	return Vector3Compression{
		X: F32CompressionFromRange(min.X, max.X, bitCount),
		Y: F32CompressionFromRange(min.Y, max.Y, bitCount),
		Z: F32CompressionFromRange(min.Z, max.Z, bitCount),
	}
}

// BitCountPerFrame sums the effective component widths.
func (c Vector3Compression) BitCountPerFrame() uint64 {
	return c.X.EffectiveBitCount() + c.Y.EffectiveBitCount() + c.Z.EffectiveBitCount()
}

// Parse parses the 48-byte wire form.
func (c *Vector3Compression) Parse(data []byte) error {
	if len(data) < Vector3CompressionSize {
		return errs.ErrInvalidHeaderSize
	}
	if err := c.X.Parse(data[0:]); err != nil {
		return err
	}
	if err := c.Y.Parse(data[F32CompressionSize:]); err != nil {
		return err
	}

	return c.Z.Parse(data[2*F32CompressionSize:])
}

// AppendBytes appends the 48-byte wire form to buf.
func (c Vector3Compression) AppendBytes(buf []byte) []byte {
	buf = c.X.AppendBytes(buf)
	buf = c.Y.AppendBytes(buf)
	buf = c.Z.AppendBytes(buf)

	return buf
}

// Vector4Compression describes the grids of a four-component vector.
type Vector4Compression struct {
	X F32Compression
	Y F32Compression
	Z F32Compression
	W F32Compression
}

// Vector4CompressionFromRange builds per-component canonical descriptors.
func Vector4CompressionFromRange(min, max vector.Vector4, bitCount uint64) Vector4Compression {
	return Vector4Compression{
		X: F32CompressionFromRange(min.X, max.X, bitCount),
		Y: F32CompressionFromRange(min.Y, max.Y, bitCount),
		Z: F32CompressionFromRange(min.Z, max.Z, bitCount),
		W: F32CompressionFromRange(min.W, max.W, bitCount),
	}
}

// BitCountPerFrame sums the effective component widths.
func (c Vector4Compression) BitCountPerFrame() uint64 {
	return c.X.EffectiveBitCount() + c.Y.EffectiveBitCount() +
		c.Z.EffectiveBitCount() + c.W.EffectiveBitCount()
}

// Parse parses the 64-byte wire form.
func (c *Vector4Compression) Parse(data []byte) error {
	if len(data) < Vector4CompressionSize {
		return errs.ErrInvalidHeaderSize
	}
	if err := c.X.Parse(data[0:]); err != nil {
		return err
	}
	if err := c.Y.Parse(data[F32CompressionSize:]); err != nil {
		return err
	}
	if err := c.Z.Parse(data[2*F32CompressionSize:]); err != nil {
		return err
	}

	return c.W.Parse(data[3*F32CompressionSize:])
}

// AppendBytes appends the 64-byte wire form to buf.
func (c Vector4Compression) AppendBytes(buf []byte) []byte {
	buf = c.X.AppendBytes(buf)
	buf = c.Y.AppendBytes(buf)
	buf = c.Z.AppendBytes(buf)
	buf = c.W.AppendBytes(buf)

	return buf
}

// UvTransformCompression describes the grids of the five texture transform
// components.
type UvTransformCompression struct {
	ScaleU     F32Compression
	ScaleV     F32Compression
	Rotation   F32Compression
	TranslateU F32Compression
	TranslateV F32Compression
}

// BitCountPerFrame sums the effective widths the flags select. UniformScale
// stores a single scale float broadcast to both components.
func (c UvTransformCompression) BitCountPerFrame(flags CompressionFlags) uint64 {
	bits := c.Rotation.EffectiveBitCount() +
		c.TranslateU.EffectiveBitCount() +
		c.TranslateV.EffectiveBitCount()

	if flags.ScaleType == format.UniformScale {
		bits += c.ScaleU.EffectiveBitCount()
	} else {
		bits += c.ScaleU.EffectiveBitCount() + c.ScaleV.EffectiveBitCount()
	}

	return bits
}

// Parse parses the 80-byte wire form.
func (c *UvTransformCompression) Parse(data []byte) error {
	if len(data) < UvTransformCompressionSize {
		return errs.ErrInvalidHeaderSize
	}
	fields := []*F32Compression{&c.ScaleU, &c.ScaleV, &c.Rotation, &c.TranslateU, &c.TranslateV}
	for i, f := range fields {
		if err := f.Parse(data[i*F32CompressionSize:]); err != nil {
			return err
		}
	}

	return nil
}

// AppendBytes appends the 80-byte wire form to buf.
func (c UvTransformCompression) AppendBytes(buf []byte) []byte {
	buf = c.ScaleU.AppendBytes(buf)
	buf = c.ScaleV.AppendBytes(buf)
	buf = c.Rotation.AppendBytes(buf)
	buf = c.TranslateU.AppendBytes(buf)
	buf = c.TranslateV.AppendBytes(buf)

	return buf
}

// TransformCompression describes the grids of a transform track.
//
// The scale X entry is used alone for uniform scale. The rotation W component
// is never quantized; it is reconstructed from xyz plus a sign bit.
type TransformCompression struct {
	Scale       Vector3Compression
	Rotation    Vector3Compression
	Translation Vector3Compression
}

// BitCountPerFrame sums the widths selected by the flags: scale per the scale
// type, rotation xyz plus one sign bit when rotations are present, and
// translation.
func (c TransformCompression) BitCountPerFrame(flags CompressionFlags) uint64 {
	bits := c.Translation.BitCountPerFrame()

	switch flags.ScaleType {
	case format.Scale, format.ScaleNoInheritance:
		bits += c.Scale.BitCountPerFrame()
	case format.UniformScale:
		bits += c.Scale.X.EffectiveBitCount()
	case format.ScaleNone:
	}

	// Three compressed floats and a single sign bit.
	bits += c.Rotation.BitCountPerFrame()
	if flags.HasRotation {
		bits++
	}

	return bits
}

// Parse parses the 144-byte wire form.
func (c *TransformCompression) Parse(data []byte) error {
	if len(data) < TransformCompressionSize {
		return errs.ErrInvalidHeaderSize
	}
	if err := c.Scale.Parse(data[0:]); err != nil {
		return err
	}
	if err := c.Rotation.Parse(data[Vector3CompressionSize:]); err != nil {
		return err
	}

	return c.Translation.Parse(data[2*Vector3CompressionSize:])
}

// AppendBytes appends the 144-byte wire form to buf.
func (c TransformCompression) AppendBytes(buf []byte) []byte {
	buf = c.Scale.AppendBytes(buf)
	buf = c.Rotation.AppendBytes(buf)
	buf = c.Translation.AppendBytes(buf)

	return buf
}
