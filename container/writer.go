package container

import (
	"math"

	"github.com/zrksyd/ssbh-go/endian"
	"github.com/zrksyd/ssbh-go/internal/hash"
	"github.com/zrksyd/ssbh-go/internal/options"
	"github.com/zrksyd/ssbh-go/internal/pool"
	"github.com/zrksyd/ssbh-go/vector"
)

// String alignments used by the SSBH formats.
const (
	stringAlignment  = 4
	string8Alignment = 8
)

// PayloadFunc writes the target of a relative pointer. It runs after the
// record containing the pointer has been fully written and may itself write
// further pointers.
type PayloadFunc func(w *Writer) error

type deferredPayload struct {
	patchAt int // position of the 8-byte placeholder offset
	align   int
	write   PayloadFunc
	str     string // set for string payloads, enables dedup
	isStr   bool
	abs     bool // absolute pointer instead of self-relative
}

// Writer serializes container records without recursion.
//
// The outer record is written with placeholder offsets; each deferred payload
// advances a monotonic data pointer (the buffer tail, always the next free
// byte), gets back-patched into its placeholder, and may enqueue payloads of
// its own. Payloads are drained in first-in order, so a record's children are
// laid out after the record itself.
//
// A Writer is single-use: call Finish exactly once.
type Writer struct {
	buf      *pool.ByteBuffer
	engine   endian.EndianEngine
	deferred []deferredPayload

	dedupStrings  bool
	stringOffsets map[uint64]int // hash.ID of string payload -> patched absolute offset
}

type writerConfig struct {
	dedupStrings bool
}

// WriterOption configures NewWriter.
type WriterOption = options.Option[*writerConfig]

// WithStringDedup makes the writer store identical string payloads once,
// keyed by xxHash64. Decoded results are unchanged; only the layout differs
// from the straight-line writer.
func WithStringDedup() WriterOption {
	return options.NoError(func(cfg *writerConfig) {
		cfg.dedupStrings = true
	})
}

// NewWriter creates an empty Writer.
func NewWriter(opts ...WriterOption) (*Writer, error) {
	var cfg writerConfig
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	w := &Writer{
		buf:          pool.GetTrackBuffer(),
		engine:       endian.GetLittleEndianEngine(),
		dedupStrings: cfg.dedupStrings,
	}
	if cfg.dedupStrings {
		w.stringOffsets = make(map[uint64]int)
	}

	return w, nil
}

// Pos returns the current write offset, which is also the monotonic data
// pointer: the next free byte.
func (w *Writer) Pos() int {
	return w.buf.Len()
}

// WriteUint8 appends one byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf.MustWrite([]byte{v})
}

// WriteUint16 appends a little-endian u16.
func (w *Writer) WriteUint16(v uint16) {
	w.buf.B = w.engine.AppendUint16(w.buf.B, v)
}

// WriteUint32 appends a little-endian u32.
func (w *Writer) WriteUint32(v uint32) {
	w.buf.B = w.engine.AppendUint32(w.buf.B, v)
}

// WriteUint64 appends a little-endian u64.
func (w *Writer) WriteUint64(v uint64) {
	w.buf.B = w.engine.AppendUint64(w.buf.B, v)
}

// WriteInt16 appends a little-endian i16.
func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

// WriteFloat32 appends a little-endian f32.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteVector3 appends three f32 components.
func (w *Writer) WriteVector3(v vector.Vector3) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
	w.WriteFloat32(v.Z)
}

// WriteVector4 appends four f32 components.
func (w *Writer) WriteVector4(v vector.Vector4) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
	w.WriteFloat32(v.Z)
	w.WriteFloat32(v.W)
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.buf.MustWrite(b)
}

// WriteRelPtr64 appends a relative pointer whose target payload writes
// deferred. A nil payload writes a null pointer.
func (w *Writer) WriteRelPtr64(align int, payload PayloadFunc) {
	if payload == nil {
		w.WriteUint64(0)
		return
	}

	w.deferred = append(w.deferred, deferredPayload{
		patchAt: w.Pos(),
		align:   align,
		write:   payload,
	})
	w.WriteUint64(0)
}

// WriteAbsPtr64 appends an absolute 64-bit pointer whose target payload
// writes deferred. A nil payload writes a null pointer. Used by the formats
// that address from the start of the file instead of the pointer position.
func (w *Writer) WriteAbsPtr64(align int, payload PayloadFunc) {
	if payload == nil {
		w.WriteUint64(0)
		return
	}

	w.deferred = append(w.deferred, deferredPayload{
		patchAt: w.Pos(),
		align:   align,
		write:   payload,
		abs:     true,
	})
	w.WriteUint64(0)
}

// WriteString appends a relative pointer to a NUL-terminated string payload.
func (w *Writer) WriteString(s string) {
	w.writeStringPtr(s, stringAlignment, false)
}

// WriteString8 appends a relative pointer to a NUL-terminated string payload
// aligned to 8 bytes.
func (w *Writer) WriteString8(s string) {
	w.writeStringPtr(s, string8Alignment, false)
}

// WriteAbsString appends an absolute pointer to a NUL-terminated string
// payload.
func (w *Writer) WriteAbsString(s string) {
	w.writeStringPtr(s, stringAlignment, true)
}

func (w *Writer) writeStringPtr(s string, align int, abs bool) {
	w.deferred = append(w.deferred, deferredPayload{
		patchAt: w.Pos(),
		align:   align,
		str:     s,
		isStr:   true,
		abs:     abs,
	})
	w.WriteUint64(0)
}

// WriteArray appends an array descriptor whose elements write deferred.
// Elements are written back to back by repeated elem calls.
func (w *Writer) WriteArray(count int, align int, elem func(w *Writer, i int) error) {
	w.WriteRelPtr64(align, func(w *Writer) error {
		for i := 0; i < count; i++ {
			if err := elem(w, i); err != nil {
				return err
			}
		}

		return nil
	})
	w.WriteUint64(uint64(count))
}

func (w *Writer) pad(align int) {
	if align <= 1 {
		return
	}
	for w.buf.Len()%align != 0 {
		w.buf.MustWrite([]byte{0})
	}
}

func (w *Writer) patch(p deferredPayload, target int) {
	offset := target - p.patchAt
	if p.abs {
		offset = target
	}
	w.engine.PutUint64(w.buf.Slice(p.patchAt, p.patchAt+8), uint64(int64(offset)))
}

// Finish drains all deferred payloads, back-patches their offsets and
// returns the finished buffer. The Writer must not be used afterwards.
func (w *Writer) Finish() ([]byte, error) {
	// The queue grows while draining as payloads enqueue their own children.
	for i := 0; i < len(w.deferred); i++ {
		p := w.deferred[i]

		if p.isStr {
			w.patchString(p)
			continue
		}

		w.pad(p.align)
		w.patch(p, w.Pos())
		if err := p.write(w); err != nil {
			return nil, err
		}
	}

	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())

	pool.PutTrackBuffer(w.buf)
	w.buf = nil
	w.deferred = nil

	return out, nil
}

func (w *Writer) patchString(p deferredPayload) {
	if w.dedupStrings {
		id := hash.ID(p.str)
		if offset, ok := w.stringOffsets[id]; ok {
			w.patch(p, offset)
			return
		}

		w.pad(p.align)
		w.stringOffsets[id] = w.Pos()
	} else {
		w.pad(p.align)
	}

	w.patch(p, w.Pos())
	w.buf.MustWrite(append([]byte(p.str), 0))
}
