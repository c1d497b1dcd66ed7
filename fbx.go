package meshtri

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mat4d "github.com/flywave/go3d/float64/mat4"
	vec4d "github.com/flywave/go3d/float64/vec4"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	fbx "github.com/flywave/ofbx"
)

// FbxLoader reads every FBX mesh as one mesh object. Geometry stays in local
// space; the global matrix is kept on the object.
type FbxLoader struct {
	baseDir   string
	materials map[*fbx.Material]*Material
}

func (ld *FbxLoader) Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scene, err := fbx.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load fbx %s: %w", path, err)
	}

	ld.baseDir = filepath.Dir(path)
	ld.materials = make(map[*fbx.Material]*Material)
	s := &Scene{Name: sceneName(path)}
	for _, mh := range scene.Meshes {
		obj := NewMeshObject(mh.Name(), convertFbxMesh(mh))
		obj.Materials = ld.meshMaterials(mh)
		mtx := fbx.GetGlobalMatrix(mh)
		obj.Matrix = arryToMat(mtx.ToArray())
		s.Add(obj)
	}
	return s, nil
}

func (ld *FbxLoader) meshMaterials(mh *fbx.Mesh) []*Material {
	var res []*Material
	for _, mt := range mh.Materials {
		if mt == nil {
			res = append(res, nil)
			continue
		}
		m, ok := ld.materials[mt]
		if !ok {
			m = convertFbxMaterial(mt, ld.baseDir)
			ld.materials[mt] = m
		}
		res = append(res, m)
	}
	return res
}

func fbxTexturePath(tex *fbx.Texture, dir string) string {
	if tex == nil || tex.GetRelativeFileName() == nil {
		return ""
	}
	_, file := filepath.Split(strings.ReplaceAll(tex.GetRelativeFileName().String(), "\\", "/"))
	if file == "" {
		return ""
	}
	return filepath.Join(dir, file)
}

func convertFbxMaterial(mt *fbx.Material, dir string) *Material {
	cl := func(c fbx.Color) [3]byte {
		return toColor(c.R, c.G, c.B)
	}
	return &Material{
		Name:      mt.Name(),
		Color:     cl(mt.DiffuseColor),
		Ambient:   cl(mt.AmbientColor),
		Specular:  cl(mt.SpecularColor),
		Emissive:  cl(mt.EmissiveColor),
		Shininess: float32(mt.Shininess),
		Roughness: 1,
		Texture:   fbxTexturePath(mt.Textures[fbx.DIFFUSE], dir),
		Normal:    fbxTexturePath(mt.Textures[fbx.NORMAL], dir),
	}
}

func convertFbxMesh(mh *fbx.Mesh) *Mesh {
	m := NewMesh()
	g := mh.Geometry
	if g == nil {
		return m
	}
	for _, v := range g.Vertices {
		m.Vertices = append(m.Vertices, vec3.T{float32(v[0]), float32(v[1]), float32(v[2])})
	}
	uvs := g.UVs[0]
	hasUV := len(uvs) > 0 && len(uvs) == len(g.Vertices)
	for i, face := range g.Faces {
		p := Polygon{Verts: make([]uint32, len(face))}
		if i < len(g.Materials) {
			p.Material = int32(g.Materials[i])
		}
		if hasUV {
			p.UVs = make([]vec2.T, len(face))
		}
		for k, vi := range face {
			p.Verts[k] = uint32(vi)
			if hasUV && vi >= 0 && vi < len(uvs) {
				p.UVs[k] = vec2.T{float32(uvs[vi][0]), float32(uvs[vi][1])}
			}
		}
		m.Polygons = append(m.Polygons, p)
	}
	return m
}

func arryToMat(mat [16]float64) *mat4d.T {
	m := &mat4d.T{}
	m[0] = vec4d.T{mat[0], mat[1], mat[2], mat[3]}
	m[1] = vec4d.T{mat[4], mat[5], mat[6], mat[7]}
	m[2] = vec4d.T{mat[8], mat[9], mat[10], mat[11]}
	m[3] = vec4d.T{mat[12], mat[13], mat[14], mat[15]}
	return m
}

var _ SceneLoader = (*FbxLoader)(nil)
