package meshtri

import (
	"testing"

	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangulateMesh(t *testing.T, m *Mesh, quad QuadMethod, ngon NgonMethod) *Mesh {
	t.Helper()
	em := NewEditMesh()
	defer em.Free()
	require.NoError(t, em.FromMesh(m))
	_, err := Triangulate(em, em.Faces(), quad, ngon)
	require.NoError(t, err)
	out := NewMesh()
	require.NoError(t, em.ToMesh(out))
	return out
}

func triVerts(m *Mesh) [][]uint32 {
	var res [][]uint32
	for _, p := range m.Polygons {
		res = append(res, p.Verts)
	}
	return res
}

// assertSameOrientation checks every triangle faces the same way as the source face.
func assertSameOrientation(t *testing.T, m *Mesh, want vec3d.T) {
	t.Helper()
	for i := range m.Polygons {
		n := polygonNormal(m, &m.Polygons[i])
		assert.Greater(t, vec3d.Dot(&n, &want), 0.0, "triangle %d %v flipped", i, m.Polygons[i].Verts)
	}
}

func TestTriangulateQuadCoversBoundary(t *testing.T) {
	for _, method := range []QuadMethod{QuadBeauty, QuadFixed, QuadAlternate, QuadShortEdge, QuadLongEdge} {
		t.Run(method.String(), func(t *testing.T) {
			src := quadMesh()
			out := triangulateMesh(t, src, method, NgonBeauty)

			require.Len(t, out.Polygons, 2)
			assert.True(t, out.IsTriangulated())
			assert.Equal(t, src.Vertices, out.Vertices)
			assert.InDelta(t, 1.0, totalArea(out), 1e-6)

			edges := undirectedEdges(out)
			for _, e := range [][2]uint32{{0, 1}, {1, 2}, {2, 3}, {0, 3}} {
				assert.Equal(t, 1, edges[e], "boundary edge %v", e)
			}
			assert.Len(t, edges, 5)
		})
	}
}

func TestTriangulateQuadSplits(t *testing.T) {
	// rhombus whose 1-3 diagonal is the short one
	rhombus := func() *Mesh {
		m := &Mesh{Vertices: []vec3.T{{-2, 0, 0}, {0, -1, 0}, {2, 0, 0}, {0, 1, 0}}}
		m.AddPolygon(0, 0, 1, 2, 3)
		return m
	}
	// concave at corner 3, only the 1-3 split keeps both triangles inside
	dart := func() *Mesh {
		m := &Mesh{Vertices: []vec3.T{{0, 4, 0}, {0, 0, 0}, {4, 0, 0}, {1, 1, 0}}}
		m.AddPolygon(0, 0, 1, 2, 3)
		return m
	}
	split02 := [][]uint32{{0, 1, 2}, {0, 2, 3}}
	split13 := [][]uint32{{0, 1, 3}, {1, 2, 3}}

	tests := []struct {
		name   string
		mesh   func() *Mesh
		method QuadMethod
		want   [][]uint32
	}{
		{"square beauty", quadMesh, QuadBeauty, split02},
		{"square fixed", quadMesh, QuadFixed, split02},
		{"square alternate", quadMesh, QuadAlternate, split13},
		{"rhombus shortest", rhombus, QuadShortEdge, split13},
		{"rhombus longest", rhombus, QuadLongEdge, split02},
		{"rhombus beauty", rhombus, QuadBeauty, split13},
		{"dart beauty", dart, QuadBeauty, split13},
		{"dart fixed", dart, QuadFixed, split02},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := triangulateMesh(t, tt.mesh(), tt.method, NgonBeauty)
			assert.Equal(t, tt.want, triVerts(out))
		})
	}
}

func TestTriangulateNgons(t *testing.T) {
	tests := []struct {
		name string
		mesh func() *Mesh
		area float64
	}{
		{"pentagon", pentagonMesh, 0},
		{"l shape", lShapeMesh, 3},
	}
	for _, tt := range tests {
		for _, method := range []NgonMethod{NgonBeauty, NgonEarClip} {
			t.Run(tt.name+"/"+method.String(), func(t *testing.T) {
				src := tt.mesh()
				want := polygonNormal(src, &src.Polygons[0])
				wantArea := polygonArea(src, &src.Polygons[0])
				if tt.area > 0 {
					assert.InDelta(t, tt.area, wantArea, 1e-6)
				}

				out := triangulateMesh(t, src, QuadBeauty, method)
				corners := len(src.Polygons[0].Verts)
				require.Len(t, out.Polygons, corners-2)
				assert.True(t, out.IsTriangulated())
				assert.Equal(t, src.Vertices, out.Vertices)
				assert.InDelta(t, wantArea, totalArea(out), 1e-5)
				assertSameOrientation(t, out, want)

				edges := undirectedEdges(out)
				for k := 0; k < corners; k++ {
					a, b := uint32(k), uint32((k+1)%corners)
					if a > b {
						a, b = b, a
					}
					assert.Equal(t, 1, edges[[2]uint32{a, b}], "boundary edge %d-%d", a, b)
				}
			})
		}
	}
}

func TestTriangulateKeepsCornerData(t *testing.T) {
	src := pentagonMesh()
	src.Polygons[0].Material = 4
	uvs := []vec2.T{{0, 0}, {0.2, 0}, {0.4, 0}, {0.6, 0}, {0.8, 0}}
	src.Polygons[0].UVs = uvs

	out := triangulateMesh(t, src, QuadBeauty, NgonBeauty)
	for _, p := range out.Polygons {
		assert.Equal(t, int32(4), p.Material)
		require.Len(t, p.UVs, 3)
		for k, vi := range p.Verts {
			assert.Equal(t, uvs[vi], p.UVs[k])
		}
	}
}

func TestTriangulateLeavesTriangles(t *testing.T) {
	m := &Mesh{Vertices: []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {0, 2, 0}}}
	m.AddPolygon(0, 0, 1, 2)
	m.AddPolygon(1, 1, 3, 4, 2)

	em := NewEditMesh()
	defer em.Free()
	require.NoError(t, em.FromMesh(m))
	before := em.Faces()

	created, err := Triangulate(em, em.Faces(), QuadFixed, NgonBeauty)
	require.NoError(t, err)
	assert.Len(t, created, 2)

	after := em.Faces()
	require.Len(t, after, 3)
	assert.Same(t, before[0], after[0])
	assert.Same(t, created[0], after[1])
	assert.Same(t, created[1], after[2])
	for i, f := range after {
		assert.Equal(t, i, f.Index)
		assert.Equal(t, 3, f.Len())
	}
	assert.Equal(t, int32(1), after[2].Material)
}

func TestTriangulateSubset(t *testing.T) {
	m := &Mesh{Vertices: []vec3.T{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {2, 0, 0}, {2, 1, 0}}}
	m.AddPolygon(0, 0, 1, 2, 3)
	m.AddPolygon(0, 1, 4, 5, 2)

	em := NewEditMesh()
	defer em.Free()
	require.NoError(t, em.FromMesh(m))
	faces := em.Faces()

	_, err := Triangulate(em, faces[1:], QuadBeauty, NgonBeauty)
	require.NoError(t, err)
	after := em.Faces()
	require.Len(t, after, 3)
	assert.Same(t, faces[0], after[0])
	assert.Equal(t, 4, after[0].Len())
}

func TestTriangulateForeignFace(t *testing.T) {
	em := NewEditMesh()
	defer em.Free()
	require.NoError(t, em.FromMesh(quadMesh()))

	other := NewEditMesh()
	defer other.Free()
	require.NoError(t, other.FromMesh(pentagonMesh()))

	faces := append(em.Faces(), other.Faces()...)
	_, err := Triangulate(em, faces, QuadBeauty, NgonBeauty)
	assert.ErrorIs(t, err, ErrForeignFace)
	assert.Equal(t, 1, em.FaceCount())
	assert.Equal(t, 4, em.Faces()[0].Len())
}

func TestTriangulateCollinearFace(t *testing.T) {
	m := &Mesh{Vertices: []vec3.T{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}, {4, 0, 0}}}
	m.AddPolygon(0, 0, 1, 2, 3, 4)

	out := triangulateMesh(t, m, QuadBeauty, NgonBeauty)
	assert.Len(t, out.Polygons, 3)
	assert.True(t, out.IsTriangulated())
}

func TestTriangulateIdempotent(t *testing.T) {
	once := triangulateMesh(t, lShapeMesh(), QuadBeauty, NgonBeauty)
	twice := triangulateMesh(t, once.Clone(), QuadBeauty, NgonBeauty)
	assert.Equal(t, once.Vertices, twice.Vertices)
	assert.Equal(t, len(once.Polygons), len(twice.Polygons))
}
