package meshtri

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	THREEDS = "3ds"
	DAE     = "dae"
	FBX     = "fbx"
	GLTF    = "gltf"
	GLB     = "glb"
	OBJ     = "obj"
	TBIN    = "bin"
	MST     = "mst"
)

// SceneLoader reads an asset file into a Scene.
type SceneLoader interface {
	Load(path string) (*Scene, error)
}

// SceneWriter serializes a Scene.
type SceneWriter interface {
	Write(w io.Writer, s *Scene) error
}

func LoaderFactory(format string) SceneLoader {
	switch format {
	case THREEDS:
		return &ThreeDsLoader{}
	case DAE:
		return &DaeLoader{}
	case FBX:
		return &FbxLoader{}
	case GLTF, GLB:
		return &GltfLoader{}
	case OBJ:
		return &ObjLoader{}
	case TBIN:
		return &ThreejsBinLoader{}
	}
	return nil
}

func WriterFactory(format string) SceneWriter {
	switch format {
	case MST:
		return &MstWriter{}
	case OBJ:
		return &ObjWriter{}
	}
	return nil
}

func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func LoaderForPath(path string) (SceneLoader, error) {
	ld := LoaderFactory(FormatOf(path))
	if ld == nil {
		return nil, fmt.Errorf("no loader for %s", path)
	}
	return ld, nil
}

func WriterForPath(path string) (SceneWriter, error) {
	wr := WriterFactory(FormatOf(path))
	if wr == nil {
		return nil, fmt.Errorf("no writer for %s", path)
	}
	return wr, nil
}

// WriteFile writes s to path with the writer picked from the extension. A path
// without a known output extension is written in format instead.
func WriteFile(path, format string, s *Scene) error {
	wr := WriterFactory(FormatOf(path))
	if wr == nil {
		wr = WriterFactory(format)
	}
	if wr == nil {
		return fmt.Errorf("no writer for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := wr.Write(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func sceneName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
