package meshtri

import (
	mat4d "github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/float64/quaternion"
	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec3"
)

func quadMesh() *Mesh {
	m := &Mesh{Vertices: []vec3.T{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}}
	m.AddPolygon(0, 0, 1, 2, 3)
	return m
}

func pentagonMesh() *Mesh {
	m := &Mesh{Vertices: []vec3.T{{0, 0, 0}, {2, 0, 0}, {3, 1.5, 0}, {1, 3, 0}, {-1, 1.5, 0}}}
	m.AddPolygon(0, 0, 1, 2, 3, 4)
	return m
}

// lShapeMesh is a concave hexagon of area 3 lying in the XZ plane.
func lShapeMesh() *Mesh {
	m := &Mesh{Vertices: []vec3.T{{0, 0, 0}, {0, 0, -2}, {1, 0, -2}, {1, 0, -1}, {2, 0, -1}, {2, 0, 0}}}
	m.AddPolygon(0, 0, 1, 2, 3, 4, 5)
	return m
}

func toDouble(v vec3.T) vec3d.T {
	return vec3d.T{float64(v[0]), float64(v[1]), float64(v[2])}
}

func polygonNormal(m *Mesh, p *Polygon) vec3d.T {
	pts := make([]vec3d.T, len(p.Verts))
	for i, vi := range p.Verts {
		pts[i] = toDouble(m.Vertices[vi])
	}
	return newellNormal(pts)
}

// polygonArea is half the length of the Newell normal, valid for planar faces.
func polygonArea(m *Mesh, p *Polygon) float64 {
	n := polygonNormal(m, p)
	return n.Length() / 2
}

func totalArea(m *Mesh) float64 {
	a := 0.0
	for i := range m.Polygons {
		a += polygonArea(m, &m.Polygons[i])
	}
	return a
}

func undirectedEdges(m *Mesh) map[[2]uint32]int {
	res := make(map[[2]uint32]int)
	for _, p := range m.Polygons {
		for k := range p.Verts {
			a, b := p.Verts[k], p.Verts[(k+1)%len(p.Verts)]
			if a > b {
				a, b = b, a
			}
			res[[2]uint32{a, b}]++
		}
	}
	return res
}

func translation(x, y, z float64) *mat4d.T {
	return mat4d.Compose(&vec3d.T{x, y, z}, &quaternion.Ident, &vec3d.T{1, 1, 1})
}
