package extraction_engine

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"

	"golang.org/x/image/draw"

	"github.com/markdave123-py/pagetext/internal/core"
)

// EphemeralImage is a rendered page on local disk. It lives only as long as its page task.
type EphemeralImage struct {
	Path   string
	Page   int
	Width  int
	Height int
}

// Release deletes the image file. It is safe to call more than once.
func (img *EphemeralImage) Release() error {
	err := os.Remove(img.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// rasterize renders page at dpi and writes it as a PNG into dir.
func rasterize(page core.Page, dpi int, mode ColorMode, dir string) (*EphemeralImage, error) {
	idx := page.Index()

	src, err := page.Render(dpi)
	if err != nil {
		return nil, core.RasterizeError(fmt.Sprintf("render page %d at %d dpi", idx, dpi), err)
	}
	if src == nil {
		return nil, core.RasterizeError(fmt.Sprintf("render page %d: empty image", idx), nil)
	}
	if mode != ColorModeRGB {
		src = toGray(src)
	}

	f, err := os.CreateTemp(dir, fmt.Sprintf("page-%04d-*.png", idx))
	if err != nil {
		return nil, core.RasterizeError(fmt.Sprintf("create image file for page %d", idx), err)
	}

	b := src.Bounds()
	img := &EphemeralImage{Path: f.Name(), Page: idx, Width: b.Dx(), Height: b.Dy()}

	if err := pngEncoder.Encode(f, src); err != nil {
		_ = f.Close()
		_ = img.Release()
		return nil, core.RasterizeError(fmt.Sprintf("encode page %d", idx), err)
	}
	if err := f.Close(); err != nil {
		_ = img.Release()
		return nil, core.RasterizeError(fmt.Sprintf("write page %d", idx), err)
	}
	return img, nil
}

func toGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	b := src.Bounds()
	dst := image.NewGray(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}
