package meshtri

import (
	mst "github.com/flywave/go-mst"
)

var defaultMstMaterial = mst.BaseMaterial{Color: [3]byte{200, 200, 200}}

func isBlack(c [3]byte) bool {
	return c[0] == 0 && c[1] == 0 && c[2] == 0
}

// toMst picks the simplest MST material kind that carries every property set on m.
// Textures that fail to load are left off the material.
func (m *Material) toMst(tc *textureCache, repeated bool) mst.MeshMaterial {
	if m == nil {
		mtl := defaultMstMaterial
		return &mtl
	}
	base := mst.BaseMaterial{Color: m.Color, Transparency: m.Transparency}
	tex := mst.TextureMaterial{BaseMaterial: base}
	if m.Texture != "" && tc != nil {
		tex.Texture, _ = tc.get(m.Texture, repeated)
	}
	if m.Normal != "" && tc != nil {
		tex.Normal, _ = tc.get(m.Normal, repeated)
	}

	switch {
	case m.Metallic > 0 || m.Roughness > 0:
		return &mst.PbrMaterial{
			TextureMaterial:  tex,
			Emissive:         m.Emissive,
			Metallic:         m.Metallic,
			Roughness:        m.Roughness,
			Reflectance:      0.5,
			AmbientOcclusion: 1.0,
		}
	case m.Shininess > 0 || !isBlack(m.Specular):
		return &mst.PhongMaterial{
			LambertMaterial: mst.LambertMaterial{
				TextureMaterial: tex,
				Ambient:         m.Ambient,
				Diffuse:         m.Color,
				Emissive:        m.Emissive,
			},
			Specular:    m.Specular,
			Shininess:   m.Shininess,
			Specularity: 1.0,
		}
	case !isBlack(m.Ambient) || !isBlack(m.Emissive):
		return &mst.LambertMaterial{
			TextureMaterial: tex,
			Ambient:         m.Ambient,
			Diffuse:         m.Color,
			Emissive:        m.Emissive,
		}
	case tex.Texture != nil || tex.Normal != nil:
		return &tex
	}
	return &base
}
