// Package container implements the packed-binary container primitives shared
// by the SSBH file family: self-relative pointers, array descriptors,
// NUL-terminated strings, and the offset fix-up writer.
//
// A relative pointer is a 64-bit signed offset stored at position P;
// dereferencing it yields data at P + offset, and offset 0 denotes null. An
// array descriptor is a relative pointer followed by a 64-bit element count.
package container

import (
	"math"

	"github.com/zrksyd/ssbh-go/endian"
	"github.com/zrksyd/ssbh-go/errs"
	"github.com/zrksyd/ssbh-go/vector"
)

// Reader decodes container records from a byte slice.
//
// The cursor advances with each read; pointer reads return absolute offsets
// that callers visit with SetPos. All accesses are bounds-checked and report
// errs.BufferOffsetOutOfRangeError instead of panicking.
type Reader struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
}

// NewReader creates a Reader over data starting at offset 0.
func NewReader(data []byte) *Reader {
	return &Reader{
		data:   data,
		engine: endian.GetLittleEndianEngine(),
	}
}

// Pos returns the current byte offset.
func (r *Reader) Pos() int {
	return r.pos
}

// SetPos moves the cursor to an absolute byte offset.
func (r *Reader) SetPos(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return r.rangeErr(pos, pos)
	}
	r.pos = pos

	return nil
}

// Len returns the total buffer size.
func (r *Reader) Len() int {
	return len(r.data)
}

func (r *Reader) rangeErr(start, end int) error {
	return &errs.BufferOffsetOutOfRangeError{
		Start:      uint64(max(start, 0)),
		End:        uint64(max(end, 0)),
		BufferSize: uint64(len(r.data)),
	}
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, r.rangeErr(r.pos, r.pos+n)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

// ReadUint8 reads one byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadUint16 reads a little-endian u16.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint16(b), nil
}

// ReadUint32 reads a little-endian u32.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint32(b), nil
}

// ReadUint64 reads a little-endian u64.
func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint64(b), nil
}

// ReadInt16 reads a little-endian i16.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()

	return int16(v), err
}

// ReadFloat32 reads a little-endian f32.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()

	return math.Float32frombits(v), err
}

// ReadVector3 reads three consecutive f32 components.
func (r *Reader) ReadVector3() (vector.Vector3, error) {
	var v vector.Vector3
	var err error
	if v.X, err = r.ReadFloat32(); err != nil {
		return v, err
	}
	if v.Y, err = r.ReadFloat32(); err != nil {
		return v, err
	}
	v.Z, err = r.ReadFloat32()

	return v, err
}

// ReadVector4 reads four consecutive f32 components.
func (r *Reader) ReadVector4() (vector.Vector4, error) {
	var v vector.Vector4
	var err error
	if v.X, err = r.ReadFloat32(); err != nil {
		return v, err
	}
	if v.Y, err = r.ReadFloat32(); err != nil {
		return v, err
	}
	if v.Z, err = r.ReadFloat32(); err != nil {
		return v, err
	}
	v.W, err = r.ReadFloat32()

	return v, err
}

// ReadRelPtr64 reads a self-relative 64-bit pointer and resolves it to an
// absolute offset. A zero offset reports null with no error.
func (r *Reader) ReadRelPtr64() (offset int, null bool, err error) {
	base := r.pos
	raw, err := r.ReadUint64()
	if err != nil {
		return 0, false, err
	}
	if raw == 0 {
		return 0, true, nil
	}

	abs := base + int(int64(raw))
	if abs < 0 || abs > len(r.data) {
		return 0, false, r.rangeErr(abs, abs)
	}

	return abs, false, nil
}

// ReadAbsPtr64 reads a 64-bit absolute pointer. A zero offset reports null.
func (r *Reader) ReadAbsPtr64() (offset int, null bool, err error) {
	raw, err := r.ReadUint64()
	if err != nil {
		return 0, false, err
	}
	if raw == 0 {
		return 0, true, nil
	}
	if raw > uint64(len(r.data)) {
		return 0, false, r.rangeErr(int(raw), int(raw)) //nolint:gosec
	}

	return int(raw), false, nil //nolint:gosec
}

// ReadArray reads an array descriptor: a relative pointer to the first
// element followed by a u64 element count.
func (r *Reader) ReadArray() (offset int, count uint64, null bool, err error) {
	offset, null, err = r.ReadRelPtr64()
	if err != nil {
		return 0, 0, false, err
	}
	count, err = r.ReadUint64()
	if err != nil {
		return 0, 0, false, err
	}

	return offset, count, null, nil
}

// ReadStringAt reads the NUL-terminated byte sequence at an absolute offset.
// The bytes are returned as-is; callers needing text should treat the result
// as possibly non-UTF-8.
func (r *Reader) ReadStringAt(offset int) (string, error) {
	if offset < 0 || offset > len(r.data) {
		return "", r.rangeErr(offset, offset)
	}
	end := offset
	for end < len(r.data) && r.data[end] != 0 {
		end++
	}
	if end == len(r.data) {
		return "", r.rangeErr(offset, end+1)
	}

	return string(r.data[offset:end]), nil
}

// ReadString reads a relative string pointer at the cursor and follows it.
// A null pointer yields an empty string.
func (r *Reader) ReadString() (string, error) {
	offset, null, err := r.ReadRelPtr64()
	if err != nil || null {
		return "", err
	}

	return r.ReadStringAt(offset)
}

// Bytes returns size bytes at an absolute offset.
func (r *Reader) Bytes(offset, size int) ([]byte, error) {
	if offset < 0 || size < 0 || offset+size > len(r.data) {
		return nil, r.rangeErr(offset, offset+size)
	}

	return r.data[offset : offset+size], nil
}
