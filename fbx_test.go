package meshtri

import (
	"testing"

	"github.com/flywave/go3d/vec2"
	fbx "github.com/flywave/ofbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertFbxMesh(t *testing.T) {
	g := &fbx.Geometry{Faces: [][]int{{0, 1, 2, 3}, {1, 4, 2}}, Materials: []int{0, 1}}
	for _, v := range [][3]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {2, 0.5, 0}} {
		g.Vertices = append(g.Vertices, v)
	}
	for _, uv := range [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0.5, 0.5}} {
		g.UVs[0] = append(g.UVs[0], uv)
	}

	m := convertFbxMesh(&fbx.Mesh{Geometry: g})
	require.Len(t, m.Vertices, 5)
	require.Len(t, m.Polygons, 2)
	assert.Equal(t, []uint32{0, 1, 2, 3}, m.Polygons[0].Verts)
	assert.Equal(t, int32(1), m.Polygons[1].Material)
	assert.Equal(t, []vec2.T{{1, 0}, {0.5, 0.5}, {1, 1}}, m.Polygons[1].UVs)
}

func TestConvertFbxMeshWithoutGeometry(t *testing.T) {
	m := convertFbxMesh(&fbx.Mesh{})
	assert.Empty(t, m.Polygons)
}

func TestConvertFbxMaterial(t *testing.T) {
	mt := &fbx.Material{
		DiffuseColor:  fbx.Color{R: 1, G: 0.5, B: 0},
		SpecularColor: fbx.Color{R: 1, G: 1, B: 1},
		Shininess:     20,
	}
	m := convertFbxMaterial(mt, "assets")
	assert.Equal(t, [3]byte{255, 128, 0}, m.Color)
	assert.Equal(t, [3]byte{255, 255, 255}, m.Specular)
	assert.Equal(t, float32(20), m.Shininess)
	assert.Equal(t, float32(1), m.Roughness)
	assert.Empty(t, m.Texture)
	assert.Empty(t, m.Normal)
}

func TestFbxMaterialsAreShared(t *testing.T) {
	mt := &fbx.Material{DiffuseColor: fbx.Color{R: 1}}
	ld := &FbxLoader{materials: make(map[*fbx.Material]*Material)}
	a := ld.meshMaterials(&fbx.Mesh{Materials: []*fbx.Material{mt}})
	b := ld.meshMaterials(&fbx.Mesh{Materials: []*fbx.Material{nil, mt}})
	require.Len(t, b, 2)
	assert.Nil(t, b[0])
	assert.Same(t, a[0], b[1])
}
