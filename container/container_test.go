package container

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zrksyd/ssbh-go/errs"
	"github.com/zrksyd/ssbh-go/vector"
)

func TestWriterSelfRelativeOffsets(t *testing.T) {
	w, err := NewWriter()
	require.NoError(t, err)

	w.WriteUint32(0xAABBCCDD)
	w.WriteString("abc")

	out, err := w.Finish()
	require.NoError(t, err)

	// Record is 12 bytes; the string payload lands at 12, already 4-aligned.
	// The pointer is stored at 4, so its value is 12 - 4 = 8.
	require.Len(t, out, 12+4)

	r := NewReader(out)
	v, err := r.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xAABBCCDD), v)

	offset, null, err := r.ReadRelPtr64()
	require.NoError(t, err)
	require.False(t, null)
	require.Equal(t, 12, offset)

	s, err := r.ReadStringAt(offset)
	require.NoError(t, err)
	require.Equal(t, "abc", s)
}

func TestWriterNullPointer(t *testing.T) {
	w, err := NewWriter()
	require.NoError(t, err)

	w.WriteRelPtr64(8, nil)

	out, err := w.Finish()
	require.NoError(t, err)
	require.Equal(t, make([]byte, 8), out)

	r := NewReader(out)
	_, null, err := r.ReadRelPtr64()
	require.NoError(t, err)
	require.True(t, null)
}

func TestWriterArrayRoundTrip(t *testing.T) {
	names := []string{"model", "skeleton", "anim"}

	w, err := NewWriter()
	require.NoError(t, err)

	w.WriteArray(len(names), 8, func(w *Writer, i int) error {
		w.WriteString(names[i])
		return nil
	})

	out, err := w.Finish()
	require.NoError(t, err)

	r := NewReader(out)
	offset, count, null, err := r.ReadArray()
	require.NoError(t, err)
	require.False(t, null)
	require.Equal(t, uint64(len(names)), count)

	for i := range names {
		require.NoError(t, r.SetPos(offset+i*8))
		s, err := r.ReadString()
		require.NoError(t, err)
		require.Equal(t, names[i], s)
	}
}

func TestWriterNestedPayloads(t *testing.T) {
	// A deferred payload may write pointers of its own; children are laid
	// out after their parent without recursion.
	w, err := NewWriter()
	require.NoError(t, err)

	w.WriteRelPtr64(8, func(w *Writer) error {
		w.WriteUint32(7)
		w.WriteString("inner")

		return nil
	})

	out, err := w.Finish()
	require.NoError(t, err)

	r := NewReader(out)
	offset, null, err := r.ReadRelPtr64()
	require.NoError(t, err)
	require.False(t, null)

	require.NoError(t, r.SetPos(offset))
	v, err := r.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(7), v)

	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "inner", s)
}

func TestWriterString8Alignment(t *testing.T) {
	w, err := NewWriter()
	require.NoError(t, err)

	w.WriteUint32(1)
	w.WriteString8("aligned")

	out, err := w.Finish()
	require.NoError(t, err)

	r := NewReader(out)
	_, err = r.ReadUint32()
	require.NoError(t, err)

	offset, null, err := r.ReadRelPtr64()
	require.NoError(t, err)
	require.False(t, null)
	require.Equal(t, 0, offset%8)

	s, err := r.ReadStringAt(offset)
	require.NoError(t, err)
	require.Equal(t, "aligned", s)
}

func TestWriterStringDedup(t *testing.T) {
	build := func(opts ...WriterOption) []byte {
		w, err := NewWriter(opts...)
		require.NoError(t, err)

		w.WriteString("repeated")
		w.WriteString("repeated")
		w.WriteString("repeated")

		out, err := w.Finish()
		require.NoError(t, err)

		return out
	}

	plain := build()
	deduped := build(WithStringDedup())
	require.Less(t, len(deduped), len(plain))

	for _, out := range [][]byte{plain, deduped} {
		r := NewReader(out)
		for i := 0; i < 3; i++ {
			s, err := r.ReadString()
			require.NoError(t, err)
			require.Equal(t, "repeated", s)
		}
	}
}

func TestReaderVectorFields(t *testing.T) {
	w, err := NewWriter()
	require.NoError(t, err)

	w.WriteVector3(vector.NewVector3(1, 2, 3))
	w.WriteVector4(vector.NewVector4(4, 5, 6, 7))

	out, err := w.Finish()
	require.NoError(t, err)

	r := NewReader(out)
	v3, err := r.ReadVector3()
	require.NoError(t, err)
	require.Equal(t, vector.NewVector3(1, 2, 3), v3)

	v4, err := r.ReadVector4()
	require.NoError(t, err)
	require.Equal(t, vector.NewVector4(4, 5, 6, 7), v4)
}

func TestReaderBoundsChecks(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})

	_, err := r.ReadUint64()
	require.ErrorIs(t, err, errs.ErrBufferOffsetOutOfRange)

	var rangeErr *errs.BufferOffsetOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	require.Equal(t, uint64(2), rangeErr.BufferSize)

	require.Error(t, r.SetPos(3))
	require.Error(t, r.SetPos(-1))
}

func TestReaderPointerOutOfRange(t *testing.T) {
	// A relative pointer past the end of the buffer is rejected when read.
	data := []byte{0xF0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

	r := NewReader(data)
	_, _, err := r.ReadRelPtr64()
	require.ErrorIs(t, err, errs.ErrBufferOffsetOutOfRange)
}

func TestReaderUnterminatedString(t *testing.T) {
	r := NewReader([]byte{'a', 'b', 'c'})

	_, err := r.ReadStringAt(0)
	require.ErrorIs(t, err, errs.ErrBufferOffsetOutOfRange)
}

func TestReaderNonUtf8String(t *testing.T) {
	// Strings are raw bytes; decoding must not assume UTF-8.
	r := NewReader([]byte{0xFF, 0xFE, 0x80, 0x00})

	s, err := r.ReadStringAt(0)
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0xFE, 0x80}, []byte(s))
}
