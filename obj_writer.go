package meshtri

import (
	"bufio"
	"fmt"
	"io"

	mat4d "github.com/flywave/go3d/float64/mat4"
	vec3d "github.com/flywave/go3d/float64/vec3"
)

// ObjWriter writes mesh objects as Wavefront OBJ text, one "o" block each.
// Vertex positions are moved to world space when the object has a matrix.
type ObjWriter struct{}

func (ow *ObjWriter) Write(w io.Writer, s *Scene) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n", s.Name)

	vbase, tbase := 1, 1
	for _, obj := range s.Objects {
		if !obj.IsMesh() || obj.Mesh == nil {
			continue
		}
		m := obj.Mesh
		fmt.Fprintf(bw, "o %s\n", obj.Name)
		for _, v := range m.Vertices {
			p := worldPoint(obj.Matrix, v[0], v[1], v[2])
			fmt.Fprintf(bw, "v %g %g %g\n", p[0], p[1], p[2])
		}
		tcount := 0
		for _, p := range m.Polygons {
			for _, uv := range p.UVs {
				fmt.Fprintf(bw, "vt %g %g\n", uv[0], uv[1])
			}
			tcount += len(p.UVs)
		}

		material := int32(-1)
		t := tbase
		for _, p := range m.Polygons {
			if p.Material != material {
				material = p.Material
				if mt := obj.Material(material); mt != nil && mt.Name != "" {
					fmt.Fprintf(bw, "usemtl %s\n", mt.Name)
				} else {
					fmt.Fprintf(bw, "usemtl material_%d\n", material)
				}
			}
			bw.WriteString("f")
			for k, vi := range p.Verts {
				if len(p.UVs) > 0 {
					fmt.Fprintf(bw, " %d/%d", int(vi)+vbase, t+k)
				} else {
					fmt.Fprintf(bw, " %d", int(vi)+vbase)
				}
			}
			bw.WriteString("\n")
			t += len(p.UVs)
		}
		vbase += len(m.Vertices)
		tbase += tcount
	}
	return bw.Flush()
}

func worldPoint(mat *mat4d.T, x, y, z float32) vec3d.T {
	p := vec3d.T{float64(x), float64(y), float64(z)}
	if mat == nil {
		return p
	}
	return mat.MulVec3(&p)
}

var _ SceneWriter = (*ObjWriter)(nil)
