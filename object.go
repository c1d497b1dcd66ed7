package meshtri

import (
	mat4d "github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

type ObjectType string

const (
	MESH   ObjectType = "MESH"
	CAMERA ObjectType = "CAMERA"
	LIGHT  ObjectType = "LIGHT"
	EMPTY  ObjectType = "EMPTY"
)

// Polygon is one face of a Mesh. Verts index Mesh.Vertices in winding order.
// UVs is either empty or holds one coordinate per corner.
type Polygon struct {
	Verts    []uint32
	UVs      []vec2.T
	Material int32
}

func (p *Polygon) IsTriangle() bool {
	return len(p.Verts) == 3
}

// Mesh is the persistent geometry owned by an Object.
type Mesh struct {
	Vertices []vec3.T
	Polygons []Polygon
}

func NewMesh() *Mesh {
	return &Mesh{}
}

func (m *Mesh) AddPolygon(material int32, verts ...uint32) {
	m.Polygons = append(m.Polygons, Polygon{Verts: verts, Material: material})
}

// IsTriangulated reports whether every polygon has exactly three corners.
func (m *Mesh) IsTriangulated() bool {
	for i := range m.Polygons {
		if !m.Polygons[i].IsTriangle() {
			return false
		}
	}
	return true
}

func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Vertices: append([]vec3.T(nil), m.Vertices...),
		Polygons: make([]Polygon, len(m.Polygons)),
	}
	for i, p := range m.Polygons {
		c.Polygons[i] = Polygon{
			Verts:    append([]uint32(nil), p.Verts...),
			Material: p.Material,
		}
		if len(p.UVs) > 0 {
			c.Polygons[i].UVs = append([]vec2.T(nil), p.UVs...)
		}
	}
	return c
}

// Material describes the surface of the faces that point at it through
// Polygon.Material. Colors are 8 bit RGB.
type Material struct {
	Name         string
	Color        [3]byte
	Ambient      [3]byte
	Specular     [3]byte
	Emissive     [3]byte
	Shininess    float32
	Transparency float32
	Metallic     float32
	Roughness    float32
	// Texture and Normal are image file paths, empty when the material has none.
	Texture string
	Normal  string
}

// NewMaterial returns a named material with the default grey color.
func NewMaterial(name string) *Material {
	return &Material{Name: name, Color: [3]byte{200, 200, 200}}
}

type Object struct {
	Name string
	Type ObjectType
	Mesh *Mesh
	// Materials are the material slots indexed by Polygon.Material.
	Materials []*Material
	// Matrix is the world transform, nil means identity.
	Matrix *mat4d.T
}

func NewMeshObject(name string, mesh *Mesh) *Object {
	return &Object{Name: name, Type: MESH, Mesh: mesh}
}

func (o *Object) IsMesh() bool {
	return o != nil && o.Type == MESH
}

// Material returns the material in slot idx, or nil when the slot is empty.
func (o *Object) Material(idx int32) *Material {
	if idx < 0 || int(idx) >= len(o.Materials) {
		return nil
	}
	return o.Materials[idx]
}

func colorByte(f float32) byte {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return byte(f*255 + 0.5)
}

func toColor(r, g, b float32) [3]byte {
	return [3]byte{colorByte(r), colorByte(g), colorByte(b)}
}

type Scene struct {
	Name    string
	Objects []*Object
}

func (s *Scene) Add(objs ...*Object) {
	s.Objects = append(s.Objects, objs...)
}

func (s *Scene) MeshObjects() []*Object {
	var res []*Object
	for _, o := range s.Objects {
		if o.IsMesh() {
			res = append(res, o)
		}
	}
	return res
}
