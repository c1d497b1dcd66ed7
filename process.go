package meshtri

import (
	"fmt"

	"go.uber.org/zap"
)

// Stats summarizes one Process run.
type Stats struct {
	Objects      int
	Meshes       int
	Skipped      int
	FacesIn      int
	TrianglesOut int
}

type Triangulator struct {
	opts Options
	log  *zap.Logger

	newEditMesh func() *EditMesh
}

func NewTriangulator(opts Options, log *zap.Logger) *Triangulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Triangulator{opts: opts, log: log, newEditMesh: NewEditMesh}
}

func (t *Triangulator) Options() Options {
	return t.opts
}

// Process triangulates the mesh objects of objects in order. Other objects are
// not touched. It stops at the first object that fails.
func (t *Triangulator) Process(objects []*Object) (*Stats, error) {
	st := &Stats{}
	for _, obj := range objects {
		st.Objects++
		if obj == nil {
			st.Skipped++
			t.log.Debug("Skipping nil object")
			continue
		}
		if !obj.IsMesh() {
			st.Skipped++
			t.log.Debug("Skipping", zap.String("object", obj.Name), zap.String("type", string(obj.Type)))
			continue
		}
		t.log.Info("Triangulating", zap.String("object", obj.Name))
		if obj.Mesh != nil {
			st.FacesIn += len(obj.Mesh.Polygons)
		}
		if err := t.TriangulateObject(obj); err != nil {
			return st, fmt.Errorf("triangulate %s: %w", obj.Name, err)
		}
		st.Meshes++
		st.TrianglesOut += len(obj.Mesh.Polygons)
	}
	return st, nil
}

func (t *Triangulator) ProcessScene(s *Scene) (*Stats, error) {
	st, err := t.Process(s.Objects)
	if err == nil {
		t.log.Debug("Scene triangulated",
			zap.String("scene", s.Name),
			zap.Int("meshes", st.Meshes),
			zap.Int("faces_in", st.FacesIn),
			zap.Int("triangles_out", st.TrianglesOut))
	}
	return st, err
}

// TriangulateObject rebuilds obj.Mesh so that every face is a triangle.
func (t *Triangulator) TriangulateObject(obj *Object) error {
	if obj == nil || obj.Mesh == nil {
		return ErrNoMeshData
	}
	em := t.newEditMesh()
	defer em.Free()

	if err := em.FromMesh(obj.Mesh); err != nil {
		return err
	}
	if _, err := Triangulate(em, em.Faces(), t.opts.QuadMethod, t.opts.NgonMethod); err != nil {
		return err
	}
	return em.ToMesh(obj.Mesh)
}
