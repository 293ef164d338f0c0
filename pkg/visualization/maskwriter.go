// Package visualization exports rasterized region masks as images for
// inspection. The overlay compositing done by a display layer is out of
// scope; these files exist to eyeball a rasterization result.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"rtsplit/pkg/rasterize"
)

// MaskWriter renders one region's per-slice masks to grayscale PNGs, white
// where the mask is set.
type MaskWriter struct {
	masks  map[int]*rasterize.Mask
	width  int
	height int
}

// NewMaskWriter creates a writer for one region's mask set.
func NewMaskWriter(masks map[int]*rasterize.Mask, width, height int) *MaskWriter {
	return &MaskWriter{
		masks:  masks,
		width:  width,
		height: height,
	}
}

// Slices returns the slice indices that have a mask, ascending.
func (w *MaskWriter) Slices() []int {
	out := make([]int, 0, len(w.masks))
	for k := range w.masks {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// MaskImage renders the mask for one slice index as a grayscale image.
func (w *MaskWriter) MaskImage(slice int) (image.Image, error) {
	mask, ok := w.masks[slice]
	if !ok {
		return nil, fmt.Errorf("no mask for slice %d", slice)
	}
	img := image.NewGray(image.Rect(0, 0, w.width, w.height))
	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			if mask.At(x, y) {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img, nil
}

// SaveMask writes a rendered mask image as a PNG file.
func (w *MaskWriter) SaveMask(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveMaskSequence renders and saves every slice's mask into outputDir,
// named mask_z_NNN.png.
func (w *MaskWriter) SaveMaskSequence(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for _, slice := range w.Slices() {
		img, err := w.MaskImage(slice)
		if err != nil {
			return err
		}
		filename := filepath.Join(outputDir, fmt.Sprintf("mask_z_%03d.png", slice))
		if err := w.SaveMask(img, filename); err != nil {
			return err
		}
	}
	return nil
}
