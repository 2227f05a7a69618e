package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/houseview/engine/resources"
)

// EnvironmentLoader decodes equirectangular environment maps. Radiance
// images keep their dynamic range; 8-bit images are converted from sRGB.
type EnvironmentLoader struct{}

func (el *EnvironmentLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	var (
		width, height int
		pixels        []float32
	)
	if strings.EqualFold(filepath.Ext(path), ".hdr") {
		width, height, pixels, err = DecodeRGBE(file)
	} else {
		width, height, pixels, err = decodeLDR(file)
	}
	if err != nil {
		return nil, fmt.Errorf("decode environment %s: %w", path, err)
	}

	return &resources.Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		Type:     resources.ResourceTypeEnvironment,
		DataSize: uint64(info.Size()),
		Data: &resources.EnvironmentResourceData{
			Width:  uint32(width),
			Height: uint32(height),
			Pixels: pixels,
		},
	}, nil
}

func (el *EnvironmentLoader) Unload(res *resources.Resource) error {
	res.Data = nil
	return nil
}

func decodeLDR(f *os.File) (int, int, []float32, error) {
	img, _, err := image.Decode(f)
	if err != nil {
		return 0, 0, nil, err
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]float32, 0, w*h*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				// fully transparent pixel
				pixels = append(pixels, 0, 0, 0)
				continue
			}
			r, g, bl := c.LinearRgb()
			pixels = append(pixels, float32(r), float32(g), float32(bl))
		}
	}
	return w, h, pixels, nil
}
