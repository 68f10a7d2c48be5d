// Package formats provides record codecs for the secondary SSBH file kinds:
// model manifests (modl), mesh adjacency (adj) and mesh-index metadata
// (meshex). They map between friendly structs and the container layout
// field by field; all interesting byte plumbing lives in the container
// package.
package formats

import (
	"github.com/zrksyd/ssbh-go/container"
	"github.com/zrksyd/ssbh-go/errs"
)

// Modl describes the files associated with a model: the mesh, materials and
// skeleton used to render it. Compatible with file version 1.7.
type Modl struct {
	MajorVersion uint16
	MinorVersion uint16
	// ModelName is the name of the model such as "model".
	ModelName string
	// SkeletonFileName is the associated skeleton file such as "model.nusktb".
	SkeletonFileName string
	// MaterialFileNames are the associated material files, usually one.
	MaterialFileNames []string
	// AnimationFileName is the optional associated animation file.
	// Nil when the record stores a null pointer.
	AnimationFileName *string
	// MeshFileName is the associated mesh file such as "model.numshb".
	MeshFileName string
	// Entries assign materials to mesh objects.
	Entries []ModlEntry
}

// ModlEntry associates a material label with a mesh object.
type ModlEntry struct {
	MeshObjectName     string
	MeshObjectSubIndex uint64
	MaterialLabel      string
}

const modlEntrySize = 24 // name ptr + sub index + label ptr

// ReadModl decodes a model manifest record.
func ReadModl(data []byte) (*Modl, error) {
	r := container.NewReader(data)
	m := &Modl{}

	var err error
	if m.MajorVersion, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	if m.MinorVersion, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	if m.ModelName, err = r.ReadString(); err != nil {
		return nil, err
	}
	if m.SkeletonFileName, err = r.ReadString(); err != nil {
		return nil, err
	}

	materialsOffset, materialCount, materialsNull, err := r.ReadArray()
	if err != nil {
		return nil, err
	}

	animOffset, animNull, err := r.ReadRelPtr64()
	if err != nil {
		return nil, err
	}

	if m.MeshFileName, err = r.ReadString(); err != nil {
		return nil, err
	}

	entriesOffset, entryCount, entriesNull, err := r.ReadArray()
	if err != nil {
		return nil, err
	}

	// Element counts can't exceed what the buffer could hold; this bounds
	// allocation on corrupt files.
	if materialCount > uint64(r.Len())/8 || entryCount > uint64(r.Len())/modlEntrySize {
		return nil, &errs.BufferOffsetOutOfRangeError{
			Start:      0,
			End:        materialCount * 8,
			BufferSize: uint64(r.Len()),
		}
	}

	if !materialsNull && materialCount > 0 {
		m.MaterialFileNames = make([]string, materialCount)
		for i := range m.MaterialFileNames {
			if err := r.SetPos(materialsOffset + i*8); err != nil {
				return nil, err
			}
			if m.MaterialFileNames[i], err = r.ReadString(); err != nil {
				return nil, err
			}
		}
	}

	if !animNull {
		// The animation name is stored behind an extra indirection.
		if err := r.SetPos(animOffset); err != nil {
			return nil, err
		}
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		m.AnimationFileName = &name
	}

	if !entriesNull && entryCount > 0 {
		m.Entries = make([]ModlEntry, entryCount)
		for i := range m.Entries {
			if err := r.SetPos(entriesOffset + i*modlEntrySize); err != nil {
				return nil, err
			}
			entry := &m.Entries[i]
			if entry.MeshObjectName, err = r.ReadString(); err != nil {
				return nil, err
			}
			if entry.MeshObjectSubIndex, err = r.ReadUint64(); err != nil {
				return nil, err
			}
			if entry.MaterialLabel, err = r.ReadString(); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// Write serializes the manifest to its container form.
func (m *Modl) Write(opts ...container.WriterOption) ([]byte, error) {
	w, err := container.NewWriter(opts...)
	if err != nil {
		return nil, err
	}

	w.WriteUint16(m.MajorVersion)
	w.WriteUint16(m.MinorVersion)
	w.WriteString(m.ModelName)
	w.WriteString(m.SkeletonFileName)

	w.WriteArray(len(m.MaterialFileNames), 8, func(w *container.Writer, i int) error {
		w.WriteString(m.MaterialFileNames[i])
		return nil
	})

	if m.AnimationFileName != nil {
		name := *m.AnimationFileName
		w.WriteRelPtr64(8, func(w *container.Writer) error {
			w.WriteString(name)
			return nil
		})
	} else {
		w.WriteRelPtr64(8, nil)
	}

	w.WriteString8(m.MeshFileName)

	w.WriteArray(len(m.Entries), 8, func(w *container.Writer, i int) error {
		entry := m.Entries[i]
		w.WriteString(entry.MeshObjectName)
		w.WriteUint64(entry.MeshObjectSubIndex)
		w.WriteString(entry.MaterialLabel)

		return nil
	})

	return w.Finish()
}
