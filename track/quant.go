package track

import "math"

// bitMask returns a mask of n bits set to 1. n must be positive.
func bitMask(n uint64) uint64 {
	if n >= 64 {
		return math.MaxUint64
	}

	return 1<<n - 1
}

// quantizeF32 maps value onto the n-bit grid between min and max.
//
// The multiplication result is truncated toward zero like a hardware float to
// integer cast, with NaN and out-of-range products saturating. The writer is
// responsible for choosing min <= value <= max.
func quantizeF32(value, min, max float32, bitCount uint64) uint32 {
	scale := bitMask(bitCount)

	ratio := (value - min) / (max - min)
	compressed := ratio * float32(scale)

	return saturatingU32(compressed)
}

// dequantizeF32 maps an n-bit grid index back to a float. The lerp is
// evaluated in float64 and rounded to float32 once, which yields decoded
// values bit-identical to the reference decoder.
func dequantizeF32(value uint32, min, max float32, bitCount uint64) float32 {
	scale := bitMask(bitCount)

	t := float64(value) / float64(scale)

	return float32(float64(min)*(1-t) + float64(max)*t)
}

// saturatingU32 converts with the same semantics as a saturating float cast:
// NaN and negatives to 0, values at or above 2^32 to MaxUint32.
func saturatingU32(v float32) uint32 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 1<<32 {
		return math.MaxUint32
	}

	return uint32(v)
}
