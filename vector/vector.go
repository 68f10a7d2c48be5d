// Package vector provides the small fixed-size float vector types shared by
// the SSBH formats.
package vector

// Vector3 is an ordered triple of 32-bit floats.
type Vector3 struct {
	X float32
	Y float32
	Z float32
}

// NewVector3 creates a new Vector3 from x, y and z components.
func NewVector3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Min returns the componentwise minimum of v and other.
func (v Vector3) Min(other Vector3) Vector3 {
	return Vector3{
		X: minf(v.X, other.X),
		Y: minf(v.Y, other.Y),
		Z: minf(v.Z, other.Z),
	}
}

// Max returns the componentwise maximum of v and other.
func (v Vector3) Max(other Vector3) Vector3 {
	return Vector3{
		X: maxf(v.X, other.X),
		Y: maxf(v.Y, other.Y),
		Z: maxf(v.Z, other.Z),
	}
}

// Vector4 is an ordered quadruple of 32-bit floats.
type Vector4 struct {
	X float32
	Y float32
	Z float32
	W float32
}

// NewVector4 creates a new Vector4 from x, y, z and w components.
func NewVector4(x, y, z, w float32) Vector4 {
	return Vector4{X: x, Y: y, Z: z, W: w}
}

// XYZ returns the first three components as a Vector3.
func (v Vector4) XYZ() Vector3 {
	return Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// Min returns the componentwise minimum of v and other.
func (v Vector4) Min(other Vector4) Vector4 {
	return Vector4{
		X: minf(v.X, other.X),
		Y: minf(v.Y, other.Y),
		Z: minf(v.Z, other.Z),
		W: minf(v.W, other.W),
	}
}

// Max returns the componentwise maximum of v and other.
func (v Vector4) Max(other Vector4) Vector4 {
	return Vector4{
		X: maxf(v.X, other.X),
		Y: maxf(v.Y, other.Y),
		Z: maxf(v.Z, other.Z),
		W: maxf(v.W, other.W),
	}
}

// min/max return the value that isn't NaN so a single NaN frame doesn't
// poison the whole range.
func minf(a, b float32) float32 {
	if a != a {
		return b
	}
	if b != b {
		return a
	}
	if a < b {
		return a
	}

	return b
}

func maxf(a, b float32) float32 {
	if a != a {
		return b
	}
	if b != b {
		return a
	}
	if a > b {
		return a
	}

	return b
}
