package meshtri

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	tds "github.com/flywave/go-3ds"
	mat4d "github.com/flywave/go3d/float64/mat4"
	vec4d "github.com/flywave/go3d/float64/vec4"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// ThreeDsLoader reads the meshes of a 3DS file. Faces in 3DS are already
// triangles; loading them still lets the file flow through the same pipeline.
type ThreeDsLoader struct{}

var Err3dsFormat = errors.New("not a 3ds file")

const (
	chunkMain3ds = 0x4D4D
	chunkHeader  = 6
)

func (cv *ThreeDsLoader) Load(path string) (*Scene, error) {
	if err := check3dsHeader(path); err != nil {
		return nil, err
	}
	s := &Scene{Name: sceneName(path)}
	if err := read3ds(path, s); err != nil {
		return nil, err
	}
	return s, nil
}

// check3dsHeader rejects files whose main chunk is missing or larger than
// the file before the C reader sees them.
func check3dsHeader(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	st, err := file.Stat()
	if err != nil {
		return err
	}
	var hdr [chunkHeader]byte
	if _, err := io.ReadFull(file, hdr[:]); err != nil {
		return fmt.Errorf("%s: %w", path, Err3dsFormat)
	}
	id := binary.LittleEndian.Uint16(hdr[0:])
	size := binary.LittleEndian.Uint32(hdr[2:])
	if id != chunkMain3ds || size < chunkHeader || int64(size) > st.Size() {
		return fmt.Errorf("%s: %w", path, Err3dsFormat)
	}
	return nil
}

// read3ds fills s from the file. A file lib3ds cannot parse leaves the handle
// empty, which shows up as a panic on first access.
func read3ds(path string, s *Scene) (err error) {
	f := tds.OpenFile(path)
	defer func() {
		if r := recover(); r != nil {
			runtime.SetFinalizer(f, nil)
			err = fmt.Errorf("%s: %w: %v", path, Err3dsFormat, r)
		}
	}()

	dir := filepath.Dir(path)
	var materials []*Material
	for _, mt := range f.GetMaterials() {
		materials = append(materials, convert3dsMaterial(&mt, dir))
	}
	for _, m := range f.GetMeshs() {
		obj := NewMeshObject(cString([]byte(m.Name)), convert3dsMesh(&m))
		obj.Matrix = convert3dsMatrix(&m)
		obj.Materials = materials
		s.Add(obj)
	}
	return nil
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func convert3dsMaterial(mt *tds.Material, dir string) *Material {
	m := &Material{
		Name:         cString(mt.Name[:]),
		Color:        toColor(mt.Diffuse[0], mt.Diffuse[1], mt.Diffuse[2]),
		Ambient:      toColor(mt.Ambient[0], mt.Ambient[1], mt.Ambient[2]),
		Specular:     toColor(mt.Specular[0], mt.Specular[1], mt.Specular[2]),
		Shininess:    mt.Shininess,
		Transparency: mt.Transparency,
	}
	if tex := cString(mt.Texture1Map.Name[:]); tex != "" {
		m.Texture = filepath.Join(dir, tex)
	}
	if bump := cString(mt.BumpMap.Name[:]); bump != "" {
		m.Normal = filepath.Join(dir, bump)
	}
	return m
}

func convert3dsMesh(m *tds.Mesh) *Mesh {
	mh := NewMesh()
	for _, v := range m.Vertices {
		mh.Vertices = append(mh.Vertices, vec3.T{float32(v[0]), float32(v[1]), float32(v[2])})
	}
	hasUV := len(m.Texcos) == len(m.Vertices) && len(m.Texcos) > 0
	for _, f := range m.Faces {
		p := Polygon{
			Verts:    []uint32{uint32(f.Index[0]), uint32(f.Index[1]), uint32(f.Index[2])},
			Material: int32(f.Material),
		}
		if hasUV {
			for _, vi := range p.Verts {
				t := m.Texcos[vi]
				p.UVs = append(p.UVs, vec2.T{float32(t[0]), float32(t[1])})
			}
		}
		mh.Polygons = append(mh.Polygons, p)
	}
	return mh
}

func convert3dsMatrix(m *tds.Mesh) *mat4d.T {
	mat := mat4d.Ident
	for i, r := range m.Matrix {
		if i > 3 {
			break
		}
		mat[i] = vec4d.T{float64(r[0]), float64(r[1]), float64(r[2]), float64(r[3])}
	}
	return &mat
}

var _ SceneLoader = (*ThreeDsLoader)(nil)
