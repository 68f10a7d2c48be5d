package section

import (
	"github.com/zrksyd/ssbh-go/format"
)

// CompressionFlags is the unpacked form of the 16-bit flags field in the
// compressed track header. The flags determine which transform components are
// stored in the bit buffer; missing components come from the track's default
// value.
type CompressionFlags struct {
	// ScaleType selects absent, full, or uniform scale packing (bits 0-1).
	ScaleType format.ScaleType
	// HasRotation indicates rotation xyz plus a W sign bit per frame (bit 2).
	HasRotation bool
	// HasTranslation indicates translation components per frame (bit 3).
	HasTranslation bool
}

// ParseCompressionFlags unpacks the 16-bit flags field.
// Bits 4-15 are reserved and ignored.
func ParseCompressionFlags(bits uint16) CompressionFlags {
	return CompressionFlags{
		ScaleType:      format.ScaleType(bits & 0x3),
		HasRotation:    bits&0x4 != 0,
		HasTranslation: bits&0x8 != 0,
	}
}

// Bits packs the flags into their 16-bit wire form with reserved bits zero.
func (f CompressionFlags) Bits() uint16 {
	bits := uint16(f.ScaleType) & 0x3
	if f.HasRotation {
		bits |= 0x4
	}
	if f.HasTranslation {
		bits |= 0x8
	}

	return bits
}
