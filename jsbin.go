package meshtri

import (
	"fmt"

	jsbin "github.com/flywave/go-3jsbin"
	mst "github.com/flywave/go-mst"
)

// ThreejsBinLoader reads a three.js binary model. Every node of the decoded
// mesh becomes one mesh object.
type ThreejsBinLoader struct{}

func (ld *ThreejsBinLoader) Load(path string) (*Scene, error) {
	mh, err := jsbin.ThreejsBin2Mst(path)
	if err != nil {
		return nil, err
	}
	name := sceneName(path)
	materials := make([]*Material, len(mh.Materials))
	for i, mtl := range mh.Materials {
		materials[i] = materialFromMst(fmt.Sprintf("material_%d", i), mtl)
	}
	s := &Scene{Name: name}
	for i, nd := range mh.Nodes {
		obj := NewMeshObject(fmt.Sprintf("%s.%03d", name, i), meshFromMstNode(nd))
		obj.Materials = materials
		s.Add(obj)
	}
	return s, nil
}

// materialFromMst keeps the colors of a decoded material. Embedded texture
// images have no file path and are dropped.
func materialFromMst(name string, mtl mst.MeshMaterial) *Material {
	if mtl == nil {
		return nil
	}
	m := &Material{Name: name, Color: mtl.GetColor(), Emissive: mtl.GetEmissive()}
	switch v := mtl.(type) {
	case *mst.PhongMaterial:
		m.Ambient = v.Ambient
		m.Specular = v.Specular
		m.Shininess = v.Shininess
		m.Transparency = v.Transparency
	case *mst.LambertMaterial:
		m.Ambient = v.Ambient
		m.Transparency = v.Transparency
	case *mst.PbrMaterial:
		m.Metallic = v.Metallic
		m.Roughness = v.Roughness
		m.Transparency = v.Transparency
	case *mst.TextureMaterial:
		m.Transparency = v.Transparency
	case *mst.BaseMaterial:
		m.Transparency = v.Transparency
	}
	return m
}

var _ SceneLoader = (*ThreejsBinLoader)(nil)
