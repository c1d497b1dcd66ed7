package meshtri

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	dae "github.com/flywave/go-collada"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// DaeLoader reads the geometry library of a COLLADA document. Each geometry
// becomes a mesh object; polylist faces keep their corner count. Material
// symbols are numbered across the document and shared by every object.
type DaeLoader struct {
	mtlIndex  map[string]int32
	materials []*Material
}

func (cv *DaeLoader) Load(path string) (*Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	collada, err := dae.LoadDocumentFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("load collada %s: %w", path, err)
	}

	cv.mtlIndex = make(map[string]int32)
	cv.materials = nil
	s := &Scene{Name: sceneName(path)}
	for _, g := range collada.LibraryGeometries {
		for _, geo := range g.Geometry {
			if geo.Mesh == nil {
				continue
			}
			mh, err := cv.convertMesh(geo.Mesh)
			if err != nil {
				return nil, fmt.Errorf("collada geometry %s: %w", string(geo.Id), err)
			}
			s.Add(NewMeshObject(string(geo.Id), mh))
		}
	}
	for _, obj := range s.Objects {
		obj.Materials = cv.materials
	}
	return s, nil
}

// daeSource is a float source split into tuples of its accessor stride.
type daeSource struct {
	values []float32
	stride int
}

func (ds *daeSource) count() int {
	return len(ds.values) / ds.stride
}

func (ds *daeSource) vec3(i int) vec3.T {
	o := i * ds.stride
	return vec3.T{ds.values[o], ds.values[o+1], ds.values[o+2]}
}

func (ds *daeSource) vec2(i int) vec2.T {
	o := i * ds.stride
	return vec2.T{ds.values[o], ds.values[o+1]}
}

func readDaeSource(src *dae.Source, minStride int) (*daeSource, error) {
	if src.FloatArray == nil {
		return nil, fmt.Errorf("source %s has no float array", string(src.Id))
	}
	ay := src.FloatArray.ToSlice()
	ds := &daeSource{stride: src.TechniqueCommon.Accessor.Stride}
	if ds.stride < minStride {
		ds.stride = minStride
	}
	ds.values = make([]float32, len(ay))
	for i, s := range ay {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
		if err != nil {
			return nil, err
		}
		ds.values[i] = float32(f)
	}
	ds.values = ds.values[:len(ds.values)/ds.stride*ds.stride]
	return ds, nil
}

// daeInputs locates the attributes of one primitive element inside its
// interleaved index list.
type daeInputs struct {
	stride   int
	vertex   int
	texcoord int
	uvs      *daeSource
}

func (cv *DaeLoader) sharedInputs(inputs []*dae.InputShared, srcMap map[string]*dae.Source) (*daeInputs, bool, error) {
	in := &daeInputs{vertex: -1, texcoord: -1}
	for _, input := range inputs {
		if int(input.Offset)+1 > in.stride {
			in.stride = int(input.Offset) + 1
		}
		switch input.Semantic {
		case "VERTEX":
			in.vertex = int(input.Offset)
		case "TEXCOORD":
			if in.texcoord >= 0 {
				continue
			}
			src, ok := srcMap[input.Source.GetId()]
			if !ok {
				return nil, false, fmt.Errorf("missing texcoord source %s", input.Source.GetId())
			}
			uvs, err := readDaeSource(src, 2)
			if err != nil {
				return nil, false, err
			}
			in.texcoord, in.uvs = int(input.Offset), uvs
		}
	}
	return in, in.vertex >= 0, nil
}

// corner reads the vertex index at corner position at, and its uv when the
// primitive has texture coordinates.
func (in *daeInputs) corner(idxs []string, at, vcount int) (uint32, vec2.T, error) {
	v, err := parseIndex(idxs, at*in.stride+in.vertex)
	if err != nil {
		return 0, vec2.T{}, err
	}
	if int(v) >= vcount {
		return 0, vec2.T{}, ErrVertexIndex
	}
	if in.uvs == nil {
		return v, vec2.T{}, nil
	}
	t, err := parseIndex(idxs, at*in.stride+in.texcoord)
	if err != nil {
		return 0, vec2.T{}, err
	}
	if int(t) >= in.uvs.count() {
		return 0, vec2.T{}, ErrVertexIndex
	}
	return v, in.uvs.vec2(int(t)), nil
}

func (cv *DaeLoader) convertMesh(mh *dae.Mesh) (*Mesh, error) {
	m := NewMesh()

	srcMap := make(map[string]*dae.Source)
	for _, src := range mh.Source {
		srcMap[string(src.Id)] = src
	}

	for _, input := range mh.Vertices.Input {
		if input.Semantic != "POSITION" {
			continue
		}
		src, ok := srcMap[input.Source.GetId()]
		if !ok {
			return nil, fmt.Errorf("missing position source %s", input.Source.GetId())
		}
		pos, err := readDaeSource(src, 3)
		if err != nil {
			return nil, err
		}
		for i := 0; i < pos.count(); i++ {
			m.Vertices = append(m.Vertices, pos.vec3(i))
		}
	}

	for _, p := range mh.Polylist {
		in, ok, err := cv.sharedInputs(p.Input, srcMap)
		if err != nil {
			return nil, err
		}
		if !ok || p.VCount == nil || p.P == nil {
			continue
		}
		fc := p.VCount.ToSlice()
		idxs := p.P.ToSlice()
		material := cv.material(p.Material)
		at := 0
		for i := 0; i < len(fc); i++ {
			count, err := strconv.Atoi(strings.TrimSpace(fc[i]))
			if err != nil {
				return nil, err
			}
			poly := Polygon{Verts: make([]uint32, count), Material: material}
			if in.uvs != nil {
				poly.UVs = make([]vec2.T, count)
			}
			for k := 0; k < count; k++ {
				v, uv, err := in.corner(idxs, at, len(m.Vertices))
				if err != nil {
					return nil, err
				}
				poly.Verts[k] = v
				if in.uvs != nil {
					poly.UVs[k] = uv
				}
				at++
			}
			m.Polygons = append(m.Polygons, poly)
		}
	}

	for _, t := range mh.Triangles {
		var trg dae.Trig = t
		in, ok, err := cv.sharedInputs(trg.GetSharedInput(), srcMap)
		if err != nil {
			return nil, err
		}
		if !ok || trg.GetP() == nil {
			continue
		}
		idxs := trg.GetP().ToSlice()
		material := cv.material(trg.GetMaterial())
		for k := 0; k < trg.GetCount(); k++ {
			poly := Polygon{Verts: make([]uint32, 3), Material: material}
			if in.uvs != nil {
				poly.UVs = make([]vec2.T, 3)
			}
			for c := 0; c < 3; c++ {
				v, uv, err := in.corner(idxs, k*3+c, len(m.Vertices))
				if err != nil {
					return nil, err
				}
				poly.Verts[c] = v
				if in.uvs != nil {
					poly.UVs[c] = uv
				}
			}
			m.Polygons = append(m.Polygons, poly)
		}
	}
	return m, nil
}

func (cv *DaeLoader) material(symbol string) int32 {
	if idx, ok := cv.mtlIndex[symbol]; ok {
		return idx
	}
	idx := int32(len(cv.materials))
	cv.mtlIndex[symbol] = idx
	name := symbol
	if name == "" {
		name = "default"
	}
	cv.materials = append(cv.materials, NewMaterial(name))
	return idx
}

func parseIndex(idxs []string, at int) (uint32, error) {
	if at >= len(idxs) {
		return 0, ErrVertexIndex
	}
	v, err := strconv.ParseUint(strings.TrimSpace(idxs[at]), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

var _ SceneLoader = (*DaeLoader)(nil)
