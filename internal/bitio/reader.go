// Package bitio implements the LSB-first little-endian bit packing used by
// compressed track bitstreams.
//
// Bit index i lives in byte i/8 at bit position i%8; multi-bit fields place
// their least significant bit first. Reading past the end of the buffer is an
// error; writers are pre-sized and treat overflow as a programming error.
package bitio

import (
	"github.com/zrksyd/ssbh-go/errs"
)

// Reader reads bit fields of 1..64 bits from a byte slice.
//
// The read cursor is a single monotonic bit index. The Reader does not copy
// the input; callers must not mutate the slice while reading.
type Reader struct {
	data []byte
	pos  uint64 // bit cursor
}

// NewReader creates a Reader over data starting at bit 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadUint64 returns the next n bits, 1 <= n <= 64, least significant bit
// first. Returns errs.ErrTruncated when fewer than n bits remain.
func (r *Reader) ReadUint64(n uint) (uint64, error) {
	if n == 0 || n > 64 {
		return 0, errs.ErrInvalidBitCount
	}
	if r.pos+uint64(n) > uint64(len(r.data))*8 {
		return 0, errs.ErrTruncated
	}

	var value uint64
	var shift uint
	for n > 0 {
		byteIdx := r.pos >> 3
		bitOff := uint(r.pos & 7)

		take := 8 - bitOff
		if take > n {
			take = n
		}

		chunk := (r.data[byteIdx] >> bitOff) & byte(1<<take-1)
		value |= uint64(chunk) << shift

		shift += take
		r.pos += uint64(take)
		n -= take
	}

	return value, nil
}

// ReadBool reads a single bit.
func (r *Reader) ReadBool() (bool, error) {
	bit, err := r.ReadUint64(1)
	if err != nil {
		return false, err
	}

	return bit != 0, nil
}

// Pos returns the current bit index.
func (r *Reader) Pos() uint64 {
	return r.pos
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() uint64 {
	return uint64(len(r.data))*8 - r.pos
}
