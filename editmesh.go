package meshtri

import (
	"errors"
	"fmt"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

var (
	ErrFreed          = errors.New("edit mesh already freed")
	ErrNoMeshData     = errors.New("object has no mesh data")
	ErrDegenerateFace = errors.New("face has fewer than 3 corners")
	ErrVertexIndex    = errors.New("vertex index out of range")
	ErrCornerData     = errors.New("corner data does not match face size")
	ErrForeignFace    = errors.New("face does not belong to edit mesh")
)

type EditVert struct {
	Co    vec3.T
	Index int
}

type EditLoop struct {
	Vert *EditVert
	UV   vec2.T
}

type EditFace struct {
	Loops    []EditLoop
	Material int32
	Index    int
	hasUV    bool
}

func (f *EditFace) Len() int {
	return len(f.Loops)
}

// EditMesh is the working copy a Mesh is loaded into for editing.
// It is built with FromMesh, flushed with ToMesh and must be released with Free.
type EditMesh struct {
	Verts []*EditVert
	faces []*EditFace
	owned map[*EditFace]bool
	freed bool
}

func NewEditMesh() *EditMesh {
	return &EditMesh{owned: make(map[*EditFace]bool)}
}

func (em *EditMesh) Freed() bool {
	return em.freed
}

// Faces returns a snapshot of the current face list.
func (em *EditMesh) Faces() []*EditFace {
	return append([]*EditFace(nil), em.faces...)
}

func (em *EditMesh) FaceCount() int {
	return len(em.faces)
}

// FromMesh appends the geometry of m to the edit mesh.
func (em *EditMesh) FromMesh(m *Mesh) error {
	if em.freed {
		return ErrFreed
	}
	if m == nil {
		return ErrNoMeshData
	}
	base := len(em.Verts)
	for i, v := range m.Vertices {
		em.Verts = append(em.Verts, &EditVert{Co: v, Index: base + i})
	}
	for i := range m.Polygons {
		p := &m.Polygons[i]
		if len(p.Verts) < 3 {
			return fmt.Errorf("polygon %d: %w", i, ErrDegenerateFace)
		}
		if len(p.UVs) != 0 && len(p.UVs) != len(p.Verts) {
			return fmt.Errorf("polygon %d: %w", i, ErrCornerData)
		}
		f := &EditFace{
			Loops:    make([]EditLoop, len(p.Verts)),
			Material: p.Material,
			hasUV:    len(p.UVs) > 0,
		}
		for k, vi := range p.Verts {
			if int(vi) >= len(m.Vertices) {
				return fmt.Errorf("polygon %d corner %d: %w", i, k, ErrVertexIndex)
			}
			f.Loops[k].Vert = em.Verts[base+int(vi)]
			if f.hasUV {
				f.Loops[k].UV = p.UVs[k]
			}
		}
		em.addFace(f)
	}
	return nil
}

func (em *EditMesh) addFace(f *EditFace) {
	f.Index = len(em.faces)
	em.faces = append(em.faces, f)
	em.owned[f] = true
}

// splice swaps every face in repl for its triangles, keeping face order.
func (em *EditMesh) splice(repl map[*EditFace][]*EditFace) {
	if len(repl) == 0 {
		return
	}
	faces := make([]*EditFace, 0, len(em.faces)+len(repl))
	for _, f := range em.faces {
		tris, ok := repl[f]
		if !ok {
			faces = append(faces, f)
			continue
		}
		delete(em.owned, f)
		for _, t := range tris {
			em.owned[t] = true
		}
		faces = append(faces, tris...)
	}
	for i, f := range faces {
		f.Index = i
	}
	em.faces = faces
}

// ToMesh overwrites m with the edit mesh content.
func (em *EditMesh) ToMesh(m *Mesh) error {
	if em.freed {
		return ErrFreed
	}
	if m == nil {
		return ErrNoMeshData
	}
	verts := make([]vec3.T, len(em.Verts))
	for i, v := range em.Verts {
		v.Index = i
		verts[i] = v.Co
	}
	polys := make([]Polygon, len(em.faces))
	for i, f := range em.faces {
		p := Polygon{Verts: make([]uint32, len(f.Loops)), Material: f.Material}
		if f.hasUV {
			p.UVs = make([]vec2.T, len(f.Loops))
		}
		for k, l := range f.Loops {
			p.Verts[k] = uint32(l.Vert.Index)
			if f.hasUV {
				p.UVs[k] = l.UV
			}
		}
		polys[i] = p
	}
	m.Vertices = verts
	m.Polygons = polys
	return nil
}

// Free drops all references held by the edit mesh. It is safe to call more than once.
func (em *EditMesh) Free() {
	em.Verts = nil
	em.faces = nil
	em.owned = nil
	em.freed = true
}
