package meshtri

import (
	"errors"
	"testing"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditMeshRoundTrip(t *testing.T) {
	src := pentagonMesh()
	src.Polygons[0].Material = 2
	src.Polygons[0].UVs = []vec2.T{{0, 0}, {1, 0}, {1, 1}, {0.5, 1}, {0, 1}}
	want := src.Clone()

	em := NewEditMesh()
	defer em.Free()
	require.NoError(t, em.FromMesh(src))
	assert.Len(t, em.Verts, 5)
	assert.Equal(t, 1, em.FaceCount())

	out := NewMesh()
	require.NoError(t, em.ToMesh(out))
	assert.Equal(t, want, out)
}

func TestEditMeshFromMeshErrors(t *testing.T) {
	tests := []struct {
		name string
		mesh *Mesh
		err  error
	}{
		{"nil mesh", nil, ErrNoMeshData},
		{
			"two corners",
			&Mesh{Vertices: []vec3.T{{0, 0, 0}, {1, 0, 0}}, Polygons: []Polygon{{Verts: []uint32{0, 1}}}},
			ErrDegenerateFace,
		},
		{
			"index out of range",
			&Mesh{Vertices: []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, Polygons: []Polygon{{Verts: []uint32{0, 1, 7}}}},
			ErrVertexIndex,
		},
		{
			"uv count mismatch",
			&Mesh{
				Vertices: []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
				Polygons: []Polygon{{Verts: []uint32{0, 1, 2}, UVs: []vec2.T{{0, 0}}}},
			},
			ErrCornerData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := NewEditMesh()
			defer em.Free()
			err := em.FromMesh(tt.mesh)
			assert.True(t, errors.Is(err, tt.err), "got %v, want %v", err, tt.err)
		})
	}
}

func TestEditMeshFree(t *testing.T) {
	em := NewEditMesh()
	require.NoError(t, em.FromMesh(quadMesh()))

	em.Free()
	em.Free()
	assert.True(t, em.Freed())
	assert.Empty(t, em.Faces())

	assert.ErrorIs(t, em.FromMesh(quadMesh()), ErrFreed)
	assert.ErrorIs(t, em.ToMesh(NewMesh()), ErrFreed)
	_, err := Triangulate(em, nil, QuadBeauty, NgonBeauty)
	assert.ErrorIs(t, err, ErrFreed)
}

func TestEditMeshSharedVertices(t *testing.T) {
	m := &Mesh{Vertices: []vec3.T{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {2, 0, 0}, {2, 1, 0}}}
	m.AddPolygon(0, 0, 1, 2, 3)
	m.AddPolygon(1, 1, 4, 5, 2)

	em := NewEditMesh()
	defer em.Free()
	require.NoError(t, em.FromMesh(m))

	faces := em.Faces()
	require.Len(t, faces, 2)
	assert.Same(t, faces[0].Loops[1].Vert, faces[1].Loops[0].Vert)
	assert.Same(t, faces[0].Loops[2].Vert, faces[1].Loops[3].Vert)
}
