package formats

import (
	"github.com/zrksyd/ssbh-go/endian"
	"github.com/zrksyd/ssbh-go/errs"
)

// AdjEntry is one on-disk adjacency record: which mesh object it belongs to
// and where its run starts in the shared index buffer.
type AdjEntry struct {
	MeshObjectIndex   uint32
	IndexBufferOffset uint32
}

// Adj is the on-disk form of a mesh adjacency file: an entry table followed
// by a shared buffer of signed 16-bit vertex indices. Each entry's run
// extends to the next entry's offset, the last to the end of the buffer.
type Adj struct {
	Entries     []AdjEntry
	IndexBuffer []int16
}

// AdjEntryData is the friendly form of one entry with its adjacency run
// sliced out of the shared buffer.
type AdjEntryData struct {
	MeshObjectIndex int
	VertexAdjacency []int16
}

// AdjData is the friendly form of an adjacency file.
type AdjData struct {
	Entries []AdjEntryData
}

const adjEntrySize = 8

// ReadAdj decodes the on-disk form: a u32 entry count, the entry table, and
// the index buffer running to the end of the file.
func ReadAdj(data []byte) (*Adj, error) {
	engine := endian.GetLittleEndianEngine()

	if len(data) < 4 {
		return nil, &errs.BufferOffsetOutOfRangeError{Start: 0, End: 4, BufferSize: uint64(len(data))}
	}
	entryCount := int(engine.Uint32(data[0:4]))

	if entryCount > (len(data)-4)/adjEntrySize {
		return nil, &errs.BufferOffsetOutOfRangeError{
			Start:      4,
			End:        4 + uint64(entryCount)*adjEntrySize,
			BufferSize: uint64(len(data)),
		}
	}
	tableEnd := 4 + entryCount*adjEntrySize

	adj := &Adj{Entries: make([]AdjEntry, entryCount)}
	for i := range adj.Entries {
		base := 4 + i*adjEntrySize
		adj.Entries[i] = AdjEntry{
			MeshObjectIndex:   engine.Uint32(data[base:]),
			IndexBufferOffset: engine.Uint32(data[base+4:]),
		}
	}

	buffer := data[tableEnd:]
	adj.IndexBuffer = make([]int16, len(buffer)/2)
	for i := range adj.IndexBuffer {
		adj.IndexBuffer[i] = int16(engine.Uint16(buffer[i*2:]))
	}

	return adj, nil
}

// Bytes serializes the on-disk form.
func (a *Adj) Bytes() []byte {
	engine := endian.GetLittleEndianEngine()

	buf := make([]byte, 0, 4+len(a.Entries)*adjEntrySize+len(a.IndexBuffer)*2)
	buf = engine.AppendUint32(buf, uint32(len(a.Entries))) //nolint:gosec
	for _, entry := range a.Entries {
		buf = engine.AppendUint32(buf, entry.MeshObjectIndex)
		buf = engine.AppendUint32(buf, entry.IndexBufferOffset)
	}
	for _, index := range a.IndexBuffer {
		buf = engine.AppendUint16(buf, uint16(index))
	}

	return buf
}

// Data slices each entry's adjacency run out of the shared buffer.
//
// Buffer offsets are byte offsets and assumed to be increasing; an offset
// range that does not fit the buffer yields errs.BufferOffsetOutOfRangeError.
func (a *Adj) Data() (*AdjData, error) {
	bufferSize := len(a.IndexBuffer) * 2

	data := &AdjData{Entries: make([]AdjEntryData, len(a.Entries))}
	for i, entry := range a.Entries {
		startByte := int(entry.IndexBufferOffset)
		endByte := bufferSize
		if i+1 < len(a.Entries) {
			endByte = int(a.Entries[i+1].IndexBufferOffset)
		}

		start := startByte / 2
		end := endByte / 2
		if startByte > endByte || endByte > bufferSize {
			return nil, &errs.BufferOffsetOutOfRangeError{
				Start:      uint64(startByte),
				End:        uint64(max(endByte, 0)),
				BufferSize: uint64(bufferSize),
			}
		}

		data.Entries[i] = AdjEntryData{
			MeshObjectIndex: int(entry.MeshObjectIndex),
			VertexAdjacency: append([]int16(nil), a.IndexBuffer[start:end]...),
		}
	}

	return data, nil
}

// Adj converts back to the on-disk form, recomputing monotone buffer offsets.
func (d *AdjData) Adj() *Adj {
	adj := &Adj{Entries: make([]AdjEntry, len(d.Entries))}

	offset := 0
	for i, entry := range d.Entries {
		adj.Entries[i] = AdjEntry{
			MeshObjectIndex:   uint32(entry.MeshObjectIndex), //nolint:gosec
			IndexBufferOffset: uint32(offset),                //nolint:gosec
		}
		offset += len(entry.VertexAdjacency) * 2
		adj.IndexBuffer = append(adj.IndexBuffer, entry.VertexAdjacency...)
	}

	return adj
}
