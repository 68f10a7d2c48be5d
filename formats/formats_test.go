package formats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zrksyd/ssbh-go/container"
	"github.com/zrksyd/ssbh-go/errs"
	"github.com/zrksyd/ssbh-go/vector"
)

func TestModlRoundTrip(t *testing.T) {
	anim := "model.nuanmb"
	modl := &Modl{
		MajorVersion:      1,
		MinorVersion:      7,
		ModelName:         "model",
		SkeletonFileName:  "model.nusktb",
		MaterialFileNames: []string{"model.numatb"},
		AnimationFileName: &anim,
		MeshFileName:      "model.numshb",
		Entries: []ModlEntry{
			{MeshObjectName: "bodyShape", MeshObjectSubIndex: 0, MaterialLabel: "skin_mat"},
			{MeshObjectName: "bodyShape", MeshObjectSubIndex: 1, MaterialLabel: "eye_mat"},
		},
	}

	data, err := modl.Write()
	require.NoError(t, err)

	decoded, err := ReadModl(data)
	require.NoError(t, err)
	require.Equal(t, modl, decoded)
}

func TestModlNullAnimation(t *testing.T) {
	modl := &Modl{
		MajorVersion:      1,
		MinorVersion:      7,
		ModelName:         "model",
		SkeletonFileName:  "model.nusktb",
		MaterialFileNames: []string{"model.numatb"},
		MeshFileName:      "model.numshb",
	}

	data, err := modl.Write()
	require.NoError(t, err)

	decoded, err := ReadModl(data)
	require.NoError(t, err)
	require.Nil(t, decoded.AnimationFileName)
	require.Equal(t, modl, decoded)
}

func TestModlStringDedup(t *testing.T) {
	modl := &Modl{
		ModelName:        "model",
		SkeletonFileName: "model",
		MeshFileName:     "model",
		MaterialFileNames: []string{
			"model", "model",
		},
	}

	plain, err := modl.Write()
	require.NoError(t, err)
	deduped, err := modl.Write(container.WithStringDedup())
	require.NoError(t, err)
	require.Less(t, len(deduped), len(plain))

	decodedPlain, err := ReadModl(plain)
	require.NoError(t, err)
	decodedDeduped, err := ReadModl(deduped)
	require.NoError(t, err)
	require.Equal(t, decodedPlain, decodedDeduped)
}

func TestAdjRoundTrip(t *testing.T) {
	adj := &Adj{
		Entries: []AdjEntry{
			{MeshObjectIndex: 0, IndexBufferOffset: 0},
			{MeshObjectIndex: 2, IndexBufferOffset: 6},
		},
		IndexBuffer: []int16{0, 1, 2, 2, 3, -1},
	}

	data := adj.Bytes()
	decoded, err := ReadAdj(data)
	require.NoError(t, err)
	require.Equal(t, adj, decoded)
}

func TestAdjDataSlicing(t *testing.T) {
	adj := &Adj{
		Entries: []AdjEntry{
			{MeshObjectIndex: 0, IndexBufferOffset: 0},
			{MeshObjectIndex: 2, IndexBufferOffset: 6},
		},
		IndexBuffer: []int16{0, 1, 2, 2, 3, -1},
	}

	data, err := adj.Data()
	require.NoError(t, err)

	require.Equal(t, &AdjData{Entries: []AdjEntryData{
		{MeshObjectIndex: 0, VertexAdjacency: []int16{0, 1, 2}},
		{MeshObjectIndex: 2, VertexAdjacency: []int16{2, 3, -1}},
	}}, data)

	require.Equal(t, adj, data.Adj())
}

func TestAdjDataOffsetOutOfRange(t *testing.T) {
	adj := &Adj{
		Entries:     []AdjEntry{{MeshObjectIndex: 0, IndexBufferOffset: 100}},
		IndexBuffer: []int16{0, 1},
	}

	_, err := adj.Data()
	require.ErrorIs(t, err, errs.ErrBufferOffsetOutOfRange)

	var rangeErr *errs.BufferOffsetOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	require.Equal(t, uint64(100), rangeErr.Start)
	require.Equal(t, uint64(4), rangeErr.BufferSize)
}

func TestAdjReadTruncatedTable(t *testing.T) {
	// Entry count claims more records than the file holds.
	data := []byte{0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}

	_, err := ReadAdj(data)
	require.ErrorIs(t, err, errs.ErrBufferOffsetOutOfRange)
}

func TestMeshExRoundTrip(t *testing.T) {
	meshex := &MeshEx{
		AllDataName:       "All",
		AllBoundingSphere: vector.NewVector4(0, 0, 0, 10),
		MeshObjectGroups: []MeshObjectGroup{
			{
				BoundingSphere:     vector.NewVector4(1, 2, 3, 4),
				MeshObjectFullName: "bodyShape_VIS",
				MeshObjectName:     "bodyShape",
			},
			{
				BoundingSphere:     vector.NewVector4(5, 6, 7, 8),
				MeshObjectFullName: "eyeShape_O",
				MeshObjectName:     "eyeShape",
			},
		},
		Entries: []MeshEntry{
			{MeshObjectGroupIndex: 0, Unk1: vector.NewVector3(0, 1, 0)},
			{MeshObjectGroupIndex: 0, Unk1: vector.NewVector3(0, 1, 0)},
			{MeshObjectGroupIndex: 1, Unk1: vector.NewVector3(0, 1, 0)},
		},
		EntryFlags: []MeshEntryFlags{
			{DrawModel: false, CastShadow: true},
			{DrawModel: true, CastShadow: false},
			{DrawModel: true, CastShadow: true},
		},
	}

	data, err := meshex.Write()
	require.NoError(t, err)

	decoded, err := ReadMeshEx(data)
	require.NoError(t, err)
	require.Equal(t, meshex, decoded)
}

func TestMeshExFileLength(t *testing.T) {
	meshex := &MeshEx{AllDataName: "All"}

	data, err := meshex.Write()
	require.NoError(t, err)

	r := container.NewReader(data)
	length, err := r.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(len(data)), length)
}
