package meshtri

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/tiff"
	mst "github.com/flywave/go-mst"
	"golang.org/x/image/bmp"
)

var ErrImageFormat = errors.New("unsupported image format")

// textureCache loads every image path once and numbers the textures in load order.
type textureCache struct {
	textures map[string]*mst.Texture
	failed   map[string]error
	nextID   int32
}

func newTextureCache() *textureCache {
	return &textureCache{
		textures: make(map[string]*mst.Texture),
		failed:   make(map[string]error),
	}
}

func (tc *textureCache) get(path string, repeated bool) (*mst.Texture, error) {
	if t, ok := tc.textures[path]; ok {
		return t, nil
	}
	if err, ok := tc.failed[path]; ok {
		return nil, err
	}
	t, err := convertTex(path, tc.nextID)
	if err != nil {
		tc.failed[path] = err
		return nil, err
	}
	t.Repeated = repeated
	tc.nextID++
	tc.textures[path] = t
	return t, nil
}

func convertTex(path string, texID int32) (*mst.Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	_, ft, err := image.DecodeConfig(f)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	img, err := readImage(f, ft)
	if err != nil {
		return nil, err
	}

	bd := img.Bounds()
	buf := make([]byte, 0, bd.Dx()*bd.Dy()*4)
	for y := bd.Min.Y; y < bd.Max.Y; y++ {
		for x := bd.Min.X; x < bd.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			buf = append(buf, c.R, c.G, c.B, c.A)
		}
	}

	t := &mst.Texture{}
	t.Id = texID
	t.Name = filepath.Base(path)
	t.Format = mst.TEXTURE_FORMAT_RGBA
	t.Size = [2]uint64{uint64(bd.Dx()), uint64(bd.Dy())}
	t.Compressed = mst.TEXTURE_COMPRESSED_ZLIB
	t.Data = mst.CompressImage(buf)
	return t, nil
}

func readImage(rd io.Reader, ft string) (image.Image, error) {
	switch ft {
	case "jpeg", "jpg":
		return jpeg.Decode(rd)
	case "png":
		return png.Decode(rd)
	case "gif":
		return gif.Decode(rd)
	case "bmp":
		return bmp.Decode(rd)
	case "tif", "tiff":
		return tiff.Decode(rd)
	}
	return nil, ErrImageFormat
}
