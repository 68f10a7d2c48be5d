// Package track implements the compressed animation track codec.
//
// A track is a self-contained blob holding a per-frame sequence of one
// semantic kind: transforms, texture transforms, scalar floats, pattern
// indices, booleans, or 4-vectors. Tracks are stored either as contiguous
// fixed-size records (Direct, Constant, ConstTransform) or as a quantized
// bitstream behind a compact header (Compressed).
//
// Encode and Decode are pure functions over byte slices: no shared state,
// safe for parallel use on distinct tracks.
package track

import (
	"math"

	"github.com/zrksyd/ssbh-go/endian"
	"github.com/zrksyd/ssbh-go/format"
	"github.com/zrksyd/ssbh-go/vector"
)

// Transform is a decomposed affine transform sample.
type Transform struct {
	Scale vector.Vector3
	// Rotation is a unit quaternion, xyzw.
	Rotation    vector.Vector4
	Translation vector.Vector3
}

// UvTransform is a texture coordinate transform sample.
type UvTransform struct {
	ScaleU     float32
	ScaleV     float32
	Rotation   float32
	TranslateU float32
	TranslateV float32
}

// Values is a tagged per-frame value sequence. The concrete type determines
// the track kind.
type Values interface {
	// Kind returns the semantic kind of the sequence.
	Kind() format.TrackKind
	// Len returns the number of frames.
	Len() int
}

type (
	// TransformValues is a sequence of transform frames.
	TransformValues []Transform
	// UvTransformValues is a sequence of texture transform frames.
	UvTransformValues []UvTransform
	// FloatValues is a sequence of scalar float frames.
	FloatValues []float32
	// PatternIndexValues is a sequence of pattern index frames.
	PatternIndexValues []uint32
	// BooleanValues is a sequence of boolean frames.
	BooleanValues []bool
	// Vector4Values is a sequence of 4-vector frames.
	Vector4Values []vector.Vector4
)

func (v TransformValues) Kind() format.TrackKind    { return format.KindTransform }
func (v UvTransformValues) Kind() format.TrackKind  { return format.KindUvTransform }
func (v FloatValues) Kind() format.TrackKind        { return format.KindFloat }
func (v PatternIndexValues) Kind() format.TrackKind { return format.KindPatternIndex }
func (v BooleanValues) Kind() format.TrackKind      { return format.KindBoolean }
func (v Vector4Values) Kind() format.TrackKind      { return format.KindVector4 }

func (v TransformValues) Len() int    { return len(v) }
func (v UvTransformValues) Len() int  { return len(v) }
func (v FloatValues) Len() int        { return len(v) }
func (v PatternIndexValues) Len() int { return len(v) }
func (v BooleanValues) Len() int      { return len(v) }
func (v Vector4Values) Len() int      { return len(v) }

// uncompressedTransform is the wire form of one transform record: the
// transform plus the per-track scale compensation flag. Compressed tracks
// store it once as the default value; uncompressed tracks store it per frame.
type uncompressedTransform struct {
	Scale           vector.Vector3
	Rotation        vector.Vector4
	Translation     vector.Vector3
	CompensateScale uint32
}

func (t uncompressedTransform) transform() Transform {
	return Transform{Scale: t.Scale, Rotation: t.Rotation, Translation: t.Translation}
}

func newUncompressedTransform(t Transform, compensateScale bool) uncompressedTransform {
	u := uncompressedTransform{
		Scale:       t.Scale,
		Rotation:    t.Rotation,
		Translation: t.Translation,
	}
	if compensateScale {
		u.CompensateScale = 1
	}

	return u
}

// Record sizes of the uncompressed per-frame layouts.
const (
	transformRecordSize    = 44 // scale3 + rotation4 + translation3 + compensate scale u32
	uvTransformRecordSize  = 20 // 5 x f32
	floatRecordSize        = 4
	patternIndexRecordSize = 4
	booleanRecordSize      = 1 // any non-zero byte is true
	vector4RecordSize      = 16
)

func appendF32(buf []byte, engine endian.EndianEngine, v float32) []byte {
	return engine.AppendUint32(buf, math.Float32bits(v))
}

func getF32(data []byte, engine endian.EndianEngine) float32 {
	return math.Float32frombits(engine.Uint32(data))
}

func appendVector3(buf []byte, engine endian.EndianEngine, v vector.Vector3) []byte {
	buf = appendF32(buf, engine, v.X)
	buf = appendF32(buf, engine, v.Y)

	return appendF32(buf, engine, v.Z)
}

func getVector3(data []byte, engine endian.EndianEngine) vector.Vector3 {
	return vector.Vector3{
		X: getF32(data[0:], engine),
		Y: getF32(data[4:], engine),
		Z: getF32(data[8:], engine),
	}
}

func appendVector4(buf []byte, engine endian.EndianEngine, v vector.Vector4) []byte {
	buf = appendF32(buf, engine, v.X)
	buf = appendF32(buf, engine, v.Y)
	buf = appendF32(buf, engine, v.Z)

	return appendF32(buf, engine, v.W)
}

func getVector4(data []byte, engine endian.EndianEngine) vector.Vector4 {
	return vector.Vector4{
		X: getF32(data[0:], engine),
		Y: getF32(data[4:], engine),
		Z: getF32(data[8:], engine),
		W: getF32(data[12:], engine),
	}
}

func appendTransformRecord(buf []byte, engine endian.EndianEngine, t uncompressedTransform) []byte {
	buf = appendVector3(buf, engine, t.Scale)
	buf = appendVector4(buf, engine, t.Rotation)
	buf = appendVector3(buf, engine, t.Translation)

	return engine.AppendUint32(buf, t.CompensateScale)
}

func getTransformRecord(data []byte, engine endian.EndianEngine) uncompressedTransform {
	return uncompressedTransform{
		Scale:           getVector3(data[0:], engine),
		Rotation:        getVector4(data[12:], engine),
		Translation:     getVector3(data[28:], engine),
		CompensateScale: engine.Uint32(data[40:]),
	}
}

func appendUvTransformRecord(buf []byte, engine endian.EndianEngine, t UvTransform) []byte {
	buf = appendF32(buf, engine, t.ScaleU)
	buf = appendF32(buf, engine, t.ScaleV)
	buf = appendF32(buf, engine, t.Rotation)
	buf = appendF32(buf, engine, t.TranslateU)

	return appendF32(buf, engine, t.TranslateV)
}

func getUvTransformRecord(data []byte, engine endian.EndianEngine) UvTransform {
	return UvTransform{
		ScaleU:     getF32(data[0:], engine),
		ScaleV:     getF32(data[4:], engine),
		Rotation:   getF32(data[8:], engine),
		TranslateU: getF32(data[12:], engine),
		TranslateV: getF32(data[16:], engine),
	}
}
