package formats

import (
	"github.com/zrksyd/ssbh-go/container"
	"github.com/zrksyd/ssbh-go/endian"
	"github.com/zrksyd/ssbh-go/errs"
	"github.com/zrksyd/ssbh-go/vector"
)

// MeshEx is the mesh-index metadata file. Unlike the other SSBH records it
// addresses its payloads with absolute 64-bit pointers from the start of the
// file.
type MeshEx struct {
	// AllDataName names the group covering every mesh object, conventionally
	// "All".
	AllDataName       string
	AllBoundingSphere vector.Vector4
	MeshObjectGroups  []MeshObjectGroup
	Entries           []MeshEntry
	EntryFlags        []MeshEntryFlags
	Unk1              uint32
}

// MeshObjectGroup is one named group of mesh objects with a bounding sphere.
type MeshObjectGroup struct {
	BoundingSphere vector.Vector4
	// MeshObjectFullName keeps the name tags such as "_VIS" or "_O".
	MeshObjectFullName string
	MeshObjectName     string
}

// MeshEntry maps one mesh object to its group.
type MeshEntry struct {
	MeshObjectGroupIndex uint32
	Unk1                 vector.Vector3
}

// MeshEntryFlags is the per-entry render flag pair.
type MeshEntryFlags struct {
	DrawModel  bool
	CastShadow bool
}

const (
	meshObjectGroupSize = 32 // bounding sphere + two name pointers
	meshEntrySize       = 16 // group index + unk vector3
	meshEntryFlagSize   = 2
)

// ReadMeshEx decodes a mesh-index metadata file.
func ReadMeshEx(data []byte) (*MeshEx, error) {
	r := container.NewReader(data)
	m := &MeshEx{}

	// file_length is informational; trust the buffer we were given.
	if _, err := r.ReadUint64(); err != nil {
		return nil, err
	}

	entryCount, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	groupCount, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	allDataOffset, allDataNull, err := r.ReadAbsPtr64()
	if err != nil {
		return nil, err
	}
	groupsOffset, groupsNull, err := r.ReadAbsPtr64()
	if err != nil {
		return nil, err
	}
	entriesOffset, entriesNull, err := r.ReadAbsPtr64()
	if err != nil {
		return nil, err
	}
	flagsOffset, flagsNull, err := r.ReadAbsPtr64()
	if err != nil {
		return nil, err
	}
	if m.Unk1, err = r.ReadUint32(); err != nil {
		return nil, err
	}

	// Counts can't exceed what the buffer could hold; this bounds allocation
	// on corrupt files.
	if int64(entryCount) > int64(r.Len()) || int64(groupCount) > int64(r.Len())/meshObjectGroupSize {
		return nil, &errs.BufferOffsetOutOfRangeError{
			Start:      0,
			End:        uint64(entryCount),
			BufferSize: uint64(r.Len()),
		}
	}

	if !allDataNull {
		if err := r.SetPos(allDataOffset); err != nil {
			return nil, err
		}
		if m.AllBoundingSphere, err = r.ReadVector4(); err != nil {
			return nil, err
		}
		nameOffset, nameNull, err := r.ReadAbsPtr64()
		if err != nil {
			return nil, err
		}
		if !nameNull {
			if m.AllDataName, err = r.ReadStringAt(nameOffset); err != nil {
				return nil, err
			}
		}
	}

	if !groupsNull && groupCount > 0 {
		m.MeshObjectGroups = make([]MeshObjectGroup, groupCount)
		for i := range m.MeshObjectGroups {
			if err := r.SetPos(groupsOffset + i*meshObjectGroupSize); err != nil {
				return nil, err
			}
			group := &m.MeshObjectGroups[i]
			if group.BoundingSphere, err = r.ReadVector4(); err != nil {
				return nil, err
			}

			fullNameOffset, fullNameNull, err := r.ReadAbsPtr64()
			if err != nil {
				return nil, err
			}
			nameOffset, nameNull, err := r.ReadAbsPtr64()
			if err != nil {
				return nil, err
			}
			if !fullNameNull {
				if group.MeshObjectFullName, err = r.ReadStringAt(fullNameOffset); err != nil {
					return nil, err
				}
			}
			if !nameNull {
				if group.MeshObjectName, err = r.ReadStringAt(nameOffset); err != nil {
					return nil, err
				}
			}
		}
	}

	if !entriesNull && entryCount > 0 {
		m.Entries = make([]MeshEntry, entryCount)
		for i := range m.Entries {
			if err := r.SetPos(entriesOffset + i*meshEntrySize); err != nil {
				return nil, err
			}
			entry := &m.Entries[i]
			if entry.MeshObjectGroupIndex, err = r.ReadUint32(); err != nil {
				return nil, err
			}
			if entry.Unk1, err = r.ReadVector3(); err != nil {
				return nil, err
			}
		}
	}

	if !flagsNull && entryCount > 0 {
		m.EntryFlags = make([]MeshEntryFlags, entryCount)
		for i := range m.EntryFlags {
			if err := r.SetPos(flagsOffset + i*meshEntryFlagSize); err != nil {
				return nil, err
			}
			bits, err := r.ReadUint16()
			if err != nil {
				return nil, err
			}
			m.EntryFlags[i] = MeshEntryFlags{
				DrawModel:  bits&0x1 != 0,
				CastShadow: bits&0x2 != 0,
			}
		}
	}

	return m, nil
}

// Write serializes the file, back-patching the file length once the total
// size is known.
func (m *MeshEx) Write(opts ...container.WriterOption) ([]byte, error) {
	w, err := container.NewWriter(opts...)
	if err != nil {
		return nil, err
	}

	w.WriteUint64(0) // file_length, patched below
	w.WriteUint32(uint32(len(m.Entries)))          //nolint:gosec
	w.WriteUint32(uint32(len(m.MeshObjectGroups))) //nolint:gosec

	w.WriteAbsPtr64(8, func(w *container.Writer) error {
		w.WriteVector4(m.AllBoundingSphere)
		w.WriteAbsString(m.AllDataName)

		return nil
	})

	w.WriteAbsPtr64(8, func(w *container.Writer) error {
		for _, group := range m.MeshObjectGroups {
			w.WriteVector4(group.BoundingSphere)
			w.WriteAbsString(group.MeshObjectFullName)
			w.WriteAbsString(group.MeshObjectName)
		}

		return nil
	})

	w.WriteAbsPtr64(8, func(w *container.Writer) error {
		for _, entry := range m.Entries {
			w.WriteUint32(entry.MeshObjectGroupIndex)
			w.WriteVector3(entry.Unk1)
		}

		return nil
	})

	w.WriteAbsPtr64(8, func(w *container.Writer) error {
		for _, flags := range m.EntryFlags {
			var bits uint16
			if flags.DrawModel {
				bits |= 0x1
			}
			if flags.CastShadow {
				bits |= 0x2
			}
			w.WriteUint16(bits)
		}

		return nil
	})

	w.WriteUint32(m.Unk1)

	out, err := w.Finish()
	if err != nil {
		return nil, err
	}

	// file_length covers the whole buffer.
	endian.GetLittleEndianEngine().PutUint64(out[0:8], uint64(len(out)))

	return out, nil
}
