package meshtri

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/flywave/gltf"
	"github.com/flywave/gltf/modeler"
	mat4d "github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/float64/quaternion"
	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// GltfLoader reads glTF and GLB documents. Each node becomes an object: MESH for
// nodes with a mesh, CAMERA for camera nodes and EMPTY for the rest. Mesh
// objects share the document materials.
type GltfLoader struct {
	doc       *gltf.Document
	baseDir   string
	parentMap map[uint32]uint32
	meshes    map[uint32]*Mesh
	materials []*Material
}

func (g *GltfLoader) Load(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}
	g.baseDir = filepath.Dir(path)
	s, err := g.LoadDoc(doc)
	if err != nil {
		return nil, err
	}
	s.Name = sceneName(path)
	return s, nil
}

func (g *GltfLoader) LoadDoc(doc *gltf.Document) (*Scene, error) {
	g.doc = doc
	g.parentMap = make(map[uint32]uint32)
	g.meshes = make(map[uint32]*Mesh)
	g.materials = g.convertMaterials()
	for i, nd := range doc.Nodes {
		for _, cn := range nd.Children {
			g.parentMap[cn] = uint32(i)
		}
	}

	s := &Scene{}
	for i, nd := range doc.Nodes {
		name := nd.Name
		if name == "" {
			name = fmt.Sprintf("node.%03d", i)
		}
		obj := &Object{Name: name, Type: EMPTY}
		switch {
		case nd.Mesh != nil:
			mh, err := g.mesh(*nd.Mesh)
			if err != nil {
				return nil, fmt.Errorf("gltf node %s: %w", name, err)
			}
			obj.Type = MESH
			obj.Mesh = mh.Clone()
			obj.Materials = g.materials
		case nd.Camera != nil:
			obj.Type = CAMERA
		}
		obj.Matrix = g.toMat(uint32(i))
		s.Add(obj)
	}
	return s, nil
}

func (g *GltfLoader) mesh(id uint32) (*Mesh, error) {
	if m, ok := g.meshes[id]; ok {
		return m, nil
	}
	if int(id) >= len(g.doc.Meshes) {
		return nil, fmt.Errorf("mesh %d: %w", id, ErrVertexIndex)
	}
	m, err := g.transMesh(g.doc.Meshes[id])
	if err != nil {
		return nil, err
	}
	g.meshes[id] = m
	return m, nil
}

var ErrPrimitiveMode = errors.New("primitive mode has no faces")

func (g *GltfLoader) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(g.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", idx, ErrVertexIndex)
	}
	acr := g.doc.Accessors[idx]
	if acr.BufferView == nil && acr.Sparse == nil {
		return nil, fmt.Errorf("accessor %d has no data", idx)
	}
	if acr.BufferView != nil {
		if int(*acr.BufferView) >= len(g.doc.BufferViews) {
			return nil, fmt.Errorf("accessor %d: buffer view %d out of range", idx, *acr.BufferView)
		}
		if acr.ByteOffset > g.doc.BufferViews[*acr.BufferView].ByteLength {
			return nil, fmt.Errorf("accessor %d: offset past buffer view", idx)
		}
	}
	return acr, nil
}

// triangleIndices turns the index list of a primitive into triangle corner
// triples according to its mode.
func triangleIndices(mode gltf.PrimitiveMode, fv []uint32) ([]uint32, error) {
	switch mode {
	case gltf.PrimitiveTriangles:
		return fv[:len(fv)/3*3], nil
	case gltf.PrimitiveTriangleStrip:
		var tris []uint32
		for i := 0; i+2 < len(fv); i++ {
			if i%2 == 0 {
				tris = append(tris, fv[i], fv[i+1], fv[i+2])
			} else {
				tris = append(tris, fv[i+1], fv[i], fv[i+2])
			}
		}
		return tris, nil
	case gltf.PrimitiveTriangleFan:
		var tris []uint32
		for i := 1; i+1 < len(fv); i++ {
			tris = append(tris, fv[0], fv[i], fv[i+1])
		}
		return tris, nil
	}
	return nil, fmt.Errorf("%v: %w", mode, ErrPrimitiveMode)
}

func (g *GltfLoader) transMesh(mh *gltf.Mesh) (*Mesh, error) {
	doc := g.doc
	m := NewMesh()
	posBase := make(map[uint32]int)
	for _, ps := range mh.Primitives {
		posIdx, ok := ps.Attributes["POSITION"]
		if !ok {
			continue
		}
		acr, err := g.accessor(posIdx)
		if err != nil {
			return nil, err
		}
		count := int(acr.Count)
		base, seen := posBase[posIdx]
		if !seen {
			pos, err := modeler.ReadPosition(doc, acr, nil)
			if err != nil {
				return nil, err
			}
			base = len(m.Vertices)
			posBase[posIdx] = base
			for _, v := range pos {
				m.Vertices = append(m.Vertices, vec3.T(v))
			}
		}

		var uvs [][2]float32
		if idx, ok := ps.Attributes["TEXCOORD_0"]; ok {
			tacr, err := g.accessor(idx)
			if err != nil {
				return nil, err
			}
			if uvs, err = modeler.ReadTextureCoord(doc, tacr, nil); err != nil {
				return nil, err
			}
		}

		var fv []uint32
		if ps.Indices != nil {
			iacr, err := g.accessor(*ps.Indices)
			if err != nil {
				return nil, err
			}
			if fv, err = modeler.ReadIndices(doc, iacr, nil); err != nil {
				return nil, err
			}
		} else {
			fv = make([]uint32, count)
			for i := range fv {
				fv[i] = uint32(i)
			}
		}
		for _, vi := range fv {
			if int(vi) >= count {
				return nil, ErrVertexIndex
			}
		}
		tris, err := triangleIndices(ps.Mode, fv)
		if err != nil {
			return nil, err
		}

		material := int32(-1)
		if ps.Material != nil {
			material = int32(*ps.Material)
		}
		for i := 0; i+2 < len(tris); i += 3 {
			p := Polygon{
				Verts:    []uint32{uint32(base) + tris[i], uint32(base) + tris[i+1], uint32(base) + tris[i+2]},
				Material: material,
			}
			if len(uvs) == count {
				p.UVs = []vec2.T{uvs[tris[i]], uvs[tris[i+1]], uvs[tris[i+2]]}
			}
			m.Polygons = append(m.Polygons, p)
		}
	}
	return m, nil
}

func (g *GltfLoader) imagePath(tex uint32) string {
	doc := g.doc
	if int(tex) >= len(doc.Textures) || doc.Textures[tex].Source == nil {
		return ""
	}
	src := *doc.Textures[tex].Source
	if int(src) >= len(doc.Images) {
		return ""
	}
	im := doc.Images[src]
	if im.BufferView != nil || im.URI == "" || im.IsEmbeddedResource() {
		return ""
	}
	return filepath.Join(g.baseDir, im.URI)
}

func (g *GltfLoader) convertMaterials() []*Material {
	var res []*Material
	for i, gm := range g.doc.Materials {
		name := gm.Name
		if name == "" {
			name = fmt.Sprintf("material.%03d", i)
		}
		m := &Material{
			Name:      name,
			Color:     [3]byte{255, 255, 255},
			Emissive:  toColor(gm.EmissiveFactor[0], gm.EmissiveFactor[1], gm.EmissiveFactor[2]),
			Metallic:  1,
			Roughness: 1,
		}
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			c := pbr.BaseColorFactorOrDefault()
			m.Color = toColor(c[0], c[1], c[2])
			m.Transparency = 1 - c[3]
			m.Metallic = pbr.MetallicFactorOrDefault()
			m.Roughness = pbr.RoughnessFactorOrDefault()
			if pbr.BaseColorTexture != nil {
				m.Texture = g.imagePath(pbr.BaseColorTexture.Index)
			}
		}
		if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
			m.Normal = g.imagePath(*gm.NormalTexture.Index)
		}
		res = append(res, m)
	}
	return res
}

func (g *GltfLoader) toMat(idx uint32) *mat4d.T {
	mat := mat4d.Ident
	if pid, ok := g.parentMap[idx]; ok {
		mat = *g.toMat(pid)
	}
	nd := g.doc.Nodes[idx]

	var local mat4d.T
	if m := nd.MatrixOrDefault(); m != gltf.DefaultMatrix {
		var arr [16]float64
		for i, v := range m {
			arr[i] = float64(v)
		}
		local = mat4d.FromArray(arr)
	} else {
		ndSc := nd.ScaleOrDefault()
		ndRot := nd.RotationOrDefault()
		sc := vec3d.T{float64(ndSc[0]), float64(ndSc[1]), float64(ndSc[2])}
		tra := vec3d.T{float64(nd.Translation[0]), float64(nd.Translation[1]), float64(nd.Translation[2])}
		rot := quaternion.T{float64(ndRot[0]), float64(ndRot[1]), float64(ndRot[2]), float64(ndRot[3])}
		local = *mat4d.Compose(&tra, &rot, &sc)
	}
	res := mat4d.Ident
	res.AssignMul(&mat, &local)
	return &res
}

var _ SceneLoader = (*GltfLoader)(nil)
