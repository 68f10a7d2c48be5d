package track

import (
	"math"

	"github.com/zrksyd/ssbh-go/errs"
	"github.com/zrksyd/ssbh-go/format"
	"github.com/zrksyd/ssbh-go/internal/bitio"
	"github.com/zrksyd/ssbh-go/section"
	"github.com/zrksyd/ssbh-go/vector"
)

// writeQuantF32 emits one component. Degenerate components emit nothing; the
// reader substitutes the default.
func writeQuantF32(w *bitio.Writer, v float32, c section.F32Compression) {
	n := c.EffectiveBitCount()
	if n == 0 {
		return
	}

	w.WriteBits(uint64(quantizeF32(v, c.Min, c.Max, n)), uint(n))
}

func readQuantF32(r *bitio.Reader, c section.F32Compression, def float32) (float32, error) {
	n := c.EffectiveBitCount()
	if n == 0 {
		return def, nil
	}
	if n > section.MaxF32BitCount {
		return 0, errs.ErrInvalidBitCount
	}

	q, err := r.ReadUint64(uint(n))
	if err != nil {
		return 0, err
	}

	return dequantizeF32(uint32(q), c.Min, c.Max, n), nil
}

func writeQuantVector3(w *bitio.Writer, v vector.Vector3, c section.Vector3Compression) {
	writeQuantF32(w, v.X, c.X)
	writeQuantF32(w, v.Y, c.Y)
	writeQuantF32(w, v.Z, c.Z)
}

func readQuantVector3(r *bitio.Reader, c section.Vector3Compression, def vector.Vector3) (vector.Vector3, error) {
	x, err := readQuantF32(r, c.X, def.X)
	if err != nil {
		return vector.Vector3{}, err
	}
	y, err := readQuantF32(r, c.Y, def.Y)
	if err != nil {
		return vector.Vector3{}, err
	}
	z, err := readQuantF32(r, c.Z, def.Z)
	if err != nil {
		return vector.Vector3{}, err
	}

	return vector.Vector3{X: x, Y: y, Z: z}, nil
}

// calculateRotationW reconstructs the unstored quaternion component.
//
// Rotations are encoded as xyzw unit quaternions, so x^2 + y^2 + z^2 + w^2 = 1
// determines w up to sign; the wire stores only the sign bit. A negative
// discriminant (non-unit xyz) clamps w to 0.
func calculateRotationW(r *bitio.Reader, rotation vector.Vector3) (float32, error) {
	flipW, err := r.ReadBool()
	if err != nil {
		return 0, err
	}

	w2 := 1.0 - (rotation.X*rotation.X + rotation.Y*rotation.Y + rotation.Z*rotation.Z)

	var w float32
	if !math.Signbit(float64(w2)) {
		w = float32(math.Sqrt(float64(w2)))
	}

	if flipW {
		w = -w
	}

	return w, nil
}

// Transform

// transformFlags derives the canonical writer flags: uniform scale when every
// frame has equal scale components, full scale otherwise. Rotation and
// translation are always present on this path.
func transformFlags(values []Transform) section.CompressionFlags {
	scaleType := format.Scale
	if uniform := len(values) > 0; uniform {
		for _, t := range values {
			if t.Scale.X != t.Scale.Y || t.Scale.Y != t.Scale.Z {
				uniform = false
				break
			}
		}
		if uniform {
			scaleType = format.UniformScale
		}
	}

	return section.CompressionFlags{
		ScaleType:      scaleType,
		HasRotation:    true,
		HasTranslation: true,
	}
}

// deriveTransform picks the default value and compression descriptor from the
// observed frames: per-component min as the default, elementwise min/max as
// the grid range.
func deriveTransform(values []uncompressedTransform, compensateScale bool, bitCount uint64) (uncompressedTransform, section.TransformCompression) {
	var minScale, maxScale, minTranslation, maxTranslation vector.Vector3
	var minRotation, maxRotation vector.Vector4

	for i, t := range values {
		if i == 0 {
			minScale, maxScale = t.Scale, t.Scale
			minRotation, maxRotation = t.Rotation, t.Rotation
			minTranslation, maxTranslation = t.Translation, t.Translation
			continue
		}
		minScale = minScale.Min(t.Scale)
		maxScale = maxScale.Max(t.Scale)
		minRotation = minRotation.Min(t.Rotation)
		maxRotation = maxRotation.Max(t.Rotation)
		minTranslation = minTranslation.Min(t.Translation)
		maxTranslation = maxTranslation.Max(t.Translation)
	}

	def := uncompressedTransform{
		Scale:       minScale,
		Rotation:    minRotation,
		Translation: minTranslation,
	}
	if compensateScale {
		def.CompensateScale = 1
	}

	compression := section.TransformCompression{
		Scale:       section.Vector3CompressionFromRange(minScale, maxScale, bitCount),
		Rotation:    section.Vector3CompressionFromRange(minRotation.XYZ(), maxRotation.XYZ(), bitCount),
		Translation: section.Vector3CompressionFromRange(minTranslation, maxTranslation, bitCount),
	}

	return def, compression
}

func packTransform(w *bitio.Writer, t uncompressedTransform, c section.TransformCompression, flags section.CompressionFlags) {
	switch flags.ScaleType {
	case format.Scale, format.ScaleNoInheritance:
		writeQuantVector3(w, t.Scale, c.Scale)
	case format.UniformScale:
		writeQuantF32(w, t.Scale.X, c.Scale.X)
	case format.ScaleNone:
	}

	if flags.HasRotation {
		writeQuantVector3(w, t.Rotation.XYZ(), c.Rotation)
	}

	if flags.HasTranslation {
		writeQuantVector3(w, t.Translation, c.Translation)
	}

	if flags.HasRotation {
		// A single sign bit instead of storing w explicitly.
		w.WriteBool(math.Signbit(float64(t.Rotation.W)))
	}
}

func unpackTransform(r *bitio.Reader, c section.TransformCompression, def uncompressedTransform, flags section.CompressionFlags) (uncompressedTransform, error) {
	var scale vector.Vector3
	var err error

	switch flags.ScaleType {
	case format.UniformScale:
		// Divergent sub-compressions trust the x entry.
		var uniform float32
		uniform, err = readQuantF32(r, c.Scale.X, def.Scale.X)
		scale = vector.NewVector3(uniform, uniform, uniform)
	case format.ScaleNone:
		scale = def.Scale
	default:
		scale, err = readQuantVector3(r, c.Scale, def.Scale)
	}
	if err != nil {
		return uncompressedTransform{}, err
	}

	rotationXYZ, err := readQuantVector3(r, c.Rotation, def.Rotation.XYZ())
	if err != nil {
		return uncompressedTransform{}, err
	}

	translation, err := readQuantVector3(r, c.Translation, def.Translation)
	if err != nil {
		return uncompressedTransform{}, err
	}

	rotationW := def.Rotation.W
	if flags.HasRotation {
		rotationW, err = calculateRotationW(r, rotationXYZ)
		if err != nil {
			return uncompressedTransform{}, err
		}
	}

	return uncompressedTransform{
		Scale:       scale,
		Rotation:    vector.NewVector4(rotationXYZ.X, rotationXYZ.Y, rotationXYZ.Z, rotationW),
		Translation: translation,
		// Compressed transforms don't allow specifying compensate scale per frame.
		CompensateScale: def.CompensateScale,
	}, nil
}

// UvTransform

func uvTransformFlags(values []UvTransform) section.CompressionFlags {
	scaleType := format.Scale
	if uniform := len(values) > 0; uniform {
		for _, t := range values {
			if t.ScaleU != t.ScaleV {
				uniform = false
				break
			}
		}
		if uniform {
			scaleType = format.UniformScale
		}
	}

	return section.CompressionFlags{
		ScaleType:      scaleType,
		HasRotation:    true,
		HasTranslation: true,
	}
}

func deriveUvTransform(values []UvTransform, bitCount uint64) (UvTransform, section.UvTransformCompression) {
	var def, max UvTransform

	for i, t := range values {
		if i == 0 {
			def, max = t, t
			continue
		}
		def.ScaleU = minf32(def.ScaleU, t.ScaleU)
		def.ScaleV = minf32(def.ScaleV, t.ScaleV)
		def.Rotation = minf32(def.Rotation, t.Rotation)
		def.TranslateU = minf32(def.TranslateU, t.TranslateU)
		def.TranslateV = minf32(def.TranslateV, t.TranslateV)
		max.ScaleU = maxf32(max.ScaleU, t.ScaleU)
		max.ScaleV = maxf32(max.ScaleV, t.ScaleV)
		max.Rotation = maxf32(max.Rotation, t.Rotation)
		max.TranslateU = maxf32(max.TranslateU, t.TranslateU)
		max.TranslateV = maxf32(max.TranslateV, t.TranslateV)
	}

	compression := section.UvTransformCompression{
		ScaleU:     section.F32CompressionFromRange(def.ScaleU, max.ScaleU, bitCount),
		ScaleV:     section.F32CompressionFromRange(def.ScaleV, max.ScaleV, bitCount),
		Rotation:   section.F32CompressionFromRange(def.Rotation, max.Rotation, bitCount),
		TranslateU: section.F32CompressionFromRange(def.TranslateU, max.TranslateU, bitCount),
		TranslateV: section.F32CompressionFromRange(def.TranslateV, max.TranslateV, bitCount),
	}

	return def, compression
}

func packUvTransform(w *bitio.Writer, t UvTransform, c section.UvTransformCompression, flags section.CompressionFlags) {
	if flags.ScaleType == format.UniformScale {
		writeQuantF32(w, t.ScaleU, c.ScaleU)
	} else {
		writeQuantF32(w, t.ScaleU, c.ScaleU)
		writeQuantF32(w, t.ScaleV, c.ScaleV)
	}

	writeQuantF32(w, t.Rotation, c.Rotation)
	writeQuantF32(w, t.TranslateU, c.TranslateU)
	writeQuantF32(w, t.TranslateV, c.TranslateV)
}

func unpackUvTransform(r *bitio.Reader, c section.UvTransformCompression, def UvTransform, flags section.CompressionFlags) (UvTransform, error) {
	var scaleU, scaleV float32
	var err error

	if flags.ScaleType == format.UniformScale {
		scaleU, err = readQuantF32(r, c.ScaleU, def.ScaleU)
		scaleV = scaleU
	} else {
		scaleU, err = readQuantF32(r, c.ScaleU, def.ScaleU)
		if err == nil {
			scaleV, err = readQuantF32(r, c.ScaleV, def.ScaleV)
		}
	}
	if err != nil {
		return UvTransform{}, err
	}

	rotation, err := readQuantF32(r, c.Rotation, def.Rotation)
	if err != nil {
		return UvTransform{}, err
	}
	translateU, err := readQuantF32(r, c.TranslateU, def.TranslateU)
	if err != nil {
		return UvTransform{}, err
	}
	translateV, err := readQuantF32(r, c.TranslateV, def.TranslateV)
	if err != nil {
		return UvTransform{}, err
	}

	return UvTransform{
		ScaleU:     scaleU,
		ScaleV:     scaleV,
		Rotation:   rotation,
		TranslateU: translateU,
		TranslateV: translateV,
	}, nil
}

// Float

func deriveFloat(values []float32, bitCount uint64) (float32, section.F32Compression) {
	var min, max float32

	for i, v := range values {
		if i == 0 {
			min, max = v, v
			continue
		}
		min = minf32(min, v)
		max = maxf32(max, v)
	}

	return min, section.F32CompressionFromRange(min, max, bitCount)
}

// PatternIndex

// derivePatternIndex keeps the convention of the only known compressed
// pattern index asset: values are stored biased by min, the default is unused.
func derivePatternIndex(values []uint32) (uint32, section.U32Compression) {
	var min, max uint32

	for i, v := range values {
		if i == 0 {
			min, max = v, v
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	return 0, section.U32Compression{Min: min, Max: max, BitCount: section.DefaultF32BitCount}
}

func packPatternIndex(w *bitio.Writer, v uint32, c section.U32Compression) {
	w.WriteBits(uint64(v-c.Min), uint(c.BitCount))
}

func unpackPatternIndex(r *bitio.Reader, c section.U32Compression) (uint32, error) {
	if c.BitCount == 0 {
		return c.Min, nil
	}
	if c.BitCount > section.MaxF32BitCount {
		return 0, errs.ErrInvalidBitCount
	}

	stored, err := r.ReadUint64(uint(c.BitCount))
	if err != nil {
		return 0, err
	}

	return uint32(stored) + c.Min, nil
}

func minf32(a, b float32) float32 {
	if b != b || a < b {
		return a
	}

	return b
}

func maxf32(a, b float32) float32 {
	if b != b || a > b {
		return a
	}

	return b
}
