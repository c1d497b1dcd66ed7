package meshtri

import (
	"fmt"
	"os"
	"path/filepath"

	gobj "github.com/flywave/go-obj"
	"github.com/flywave/go3d/vec2"
)

// ObjLoader reads a Wavefront OBJ file as a single mesh object. Faces keep
// their corner count and material slots are numbered in order of first use.
// Materials come from the referenced MTL library when it can be read.
type ObjLoader struct{}

func (ld *ObjLoader) Load(path string) (*Scene, error) {
	reader := &gobj.ObjReader{}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := reader.Read(file); err != nil {
		return nil, fmt.Errorf("read obj %s: %w", path, err)
	}

	mesh := NewMesh()
	mesh.Vertices = append(mesh.Vertices, reader.V...)

	var library map[string]*gobj.Material
	if reader.MTL != "" {
		library, _ = gobj.ReadMaterials(filepath.Join(filepath.Dir(path), reader.MTL))
	}

	var materials []*Material
	materialIndexMap := make(map[string]int32)
	for i, face := range reader.F {
		materialName := face.Material
		if materialName == "" {
			materialName = "default"
		}
		mid, ok := materialIndexMap[materialName]
		if !ok {
			mid = int32(len(materials))
			materialIndexMap[materialName] = mid
			materials = append(materials, convertObjMaterial(materialName, library[materialName], filepath.Dir(path)))
		}

		p := Polygon{Verts: make([]uint32, len(face.Corners)), Material: mid}
		hasUV := len(reader.VT) > 0
		for _, corner := range face.Corners {
			if corner.TexcoordIndex < 0 || corner.TexcoordIndex >= len(reader.VT) {
				hasUV = false
			}
		}
		if hasUV {
			p.UVs = make([]vec2.T, len(face.Corners))
		}
		for k, corner := range face.Corners {
			if corner.VertexIndex < 0 || corner.VertexIndex >= len(reader.V) {
				return nil, fmt.Errorf("obj face %d: %w", i, ErrVertexIndex)
			}
			p.Verts[k] = uint32(corner.VertexIndex)
			if hasUV {
				p.UVs[k] = reader.VT[corner.TexcoordIndex]
			}
		}
		mesh.Polygons = append(mesh.Polygons, p)
	}

	name := sceneName(path)
	obj := NewMeshObject(name, mesh)
	obj.Materials = materials
	return &Scene{Name: name, Objects: []*Object{obj}}, nil
}

func objColor(c []float32) [3]byte {
	if len(c) < 3 {
		return [3]byte{}
	}
	return toColor(c[0], c[1], c[2])
}

func convertObjMaterial(name string, om *gobj.Material, dir string) *Material {
	if om == nil {
		return NewMaterial(name)
	}
	m := &Material{
		Name:         name,
		Color:        objColor(om.Diffuse),
		Ambient:      objColor(om.Ambient),
		Specular:     objColor(om.Specular),
		Emissive:     objColor(om.Emissive),
		Shininess:    float32(om.Shininess),
		Transparency: float32(1 - om.Opacity),
		Metallic:     om.Metallic,
		Roughness:    om.Roughness,
	}
	if om.DiffuseTexture != "" {
		m.Texture = filepath.Join(dir, om.DiffuseTexture)
	}
	if om.BumpTexture != "" {
		m.Normal = filepath.Join(dir, om.BumpTexture)
	}
	return m
}

var _ SceneLoader = (*ObjLoader)(nil)
