package meshtri

import (
	"errors"
	"fmt"
	"io"

	mst "github.com/flywave/go-mst"
	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

var ErrNotTriangulated = errors.New("mesh has non triangular faces")

// MstWriter encodes the triangulated mesh objects of a scene as an MST mesh.
type MstWriter struct{}

func (mw *MstWriter) Write(w io.Writer, s *Scene) error {
	mh, _, err := SceneToMst(s)
	if err != nil {
		return err
	}
	mst.MeshMarshal(w, mh)
	return nil
}

// SceneToMst builds one mesh node per mesh object, with world space vertices and
// one face group per material. It returns the scene bounding box.
func SceneToMst(s *Scene) (*mst.Mesh, *[6]float64, error) {
	mesh := mst.NewMesh()
	ext := vec3d.MinBox
	mc := &materialCache{slots: make(map[materialKey]int32), textures: newTextureCache()}

	for _, obj := range s.Objects {
		if !obj.IsMesh() || obj.Mesh == nil {
			continue
		}
		if !obj.Mesh.IsTriangulated() {
			return nil, nil, fmt.Errorf("%s: %w", obj.Name, ErrNotTriangulated)
		}
		nd, bx := objectToMeshNode(mesh, obj, mc)
		if nd == nil {
			continue
		}
		nd.ReComputeNormal()
		mesh.Nodes = append(mesh.Nodes, nd)
		ext.Join(bx)
	}
	return mesh, ext.Array(), nil
}

// materialKey identifies an output material. Objects that share a *Material share
// the MST material, faces without one share a grey material per slot number.
type materialKey struct {
	mat  *Material
	slot int32
}

type materialCache struct {
	slots    map[materialKey]int32
	textures *textureCache
}

func (mc *materialCache) batchID(mesh *mst.Mesh, obj *Object, slot int32, repeated bool) int32 {
	key := materialKey{slot: slot}
	if mt := obj.Material(slot); mt != nil {
		key = materialKey{mat: mt}
	}
	if bid, ok := mc.slots[key]; ok {
		return bid
	}
	bid := int32(len(mesh.Materials))
	mc.slots[key] = bid
	mesh.Materials = append(mesh.Materials, key.mat.toMst(mc.textures, repeated))
	return bid
}

func objectToMeshNode(mesh *mst.Mesh, obj *Object, mc *materialCache) (*mst.MeshNode, *vec3d.Box) {
	m := obj.Mesh
	if len(m.Polygons) == 0 {
		return nil, nil
	}
	nd := &mst.MeshNode{}
	bbx := vec3d.MinBox
	groups := make(map[int32]*mst.MeshTriangle)

	hasUV, repeated := false, false
	for i := range m.Polygons {
		for _, uv := range m.Polygons[i].UVs {
			hasUV = true
			repeated = repeated || uv[0] > 1.1 || uv[1] > 1.1 || uv[0] < 0 || uv[1] < 0
		}
	}

	for _, p := range m.Polygons {
		bid := mc.batchID(mesh, obj, p.Material, repeated)
		mtg, ok := groups[bid]
		if !ok {
			mtg = &mst.MeshTriangle{Batchid: bid}
			groups[bid] = mtg
			nd.FaceGroup = append(nd.FaceGroup, mtg)
		}

		baseIndex := uint32(len(nd.Vertices))
		for k, vi := range p.Verts {
			v := m.Vertices[vi]
			wp := worldPoint(obj.Matrix, v[0], v[1], v[2])
			bbx.Extend(&wp)
			nd.Vertices = append(nd.Vertices, vec3.T{float32(wp[0]), float32(wp[1]), float32(wp[2])})
			if hasUV {
				var uv vec2.T
				if len(p.UVs) > 0 {
					uv = p.UVs[k]
				}
				nd.TexCoords = append(nd.TexCoords, uv)
			}
		}
		mtg.Faces = append(mtg.Faces, &mst.Face{
			Vertex: [3]uint32{baseIndex, baseIndex + 1, baseIndex + 2},
		})
	}
	return nd, &bbx
}

// meshFromMstNode reads a triangle mesh node back into a Mesh, one polygon per face.
func meshFromMstNode(nd *mst.MeshNode) *Mesh {
	m := &Mesh{Vertices: append([]vec3.T(nil), nd.Vertices...)}
	hasUV := len(nd.TexCoords) == len(nd.Vertices) && len(nd.TexCoords) > 0
	for _, fg := range nd.FaceGroup {
		for _, f := range fg.Faces {
			p := Polygon{Verts: []uint32{f.Vertex[0], f.Vertex[1], f.Vertex[2]}, Material: fg.Batchid}
			if hasUV {
				p.UVs = []vec2.T{nd.TexCoords[f.Vertex[0]], nd.TexCoords[f.Vertex[1]], nd.TexCoords[f.Vertex[2]]}
			}
			m.Polygons = append(m.Polygons, p)
		}
	}
	return m
}

var _ SceneWriter = (*MstWriter)(nil)
