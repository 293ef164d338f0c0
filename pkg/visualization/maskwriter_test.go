package visualization

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtsplit/pkg/rasterize"
)

func testMasks() map[int]*rasterize.Mask {
	m0 := rasterize.NewMask(4, 4)
	m0.Set(1, 1, true)
	m0.Set(2, 2, true)

	m1 := rasterize.NewMask(4, 4)
	m1.Set(0, 3, true)

	return map[int]*rasterize.Mask{3: m0, 7: m1}
}

func TestSlicesSorted(t *testing.T) {
	w := NewMaskWriter(testMasks(), 4, 4)
	assert.Equal(t, []int{3, 7}, w.Slices())
}

func TestMaskImage(t *testing.T) {
	w := NewMaskWriter(testMasks(), 4, 4)

	img, err := w.MaskImage(3)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())

	white := color.Gray{Y: 255}
	black := color.Gray{Y: 0}
	assert.Equal(t, white, img.At(1, 1))
	assert.Equal(t, white, img.At(2, 2))
	assert.Equal(t, black, img.At(0, 0))

	_, err = w.MaskImage(99)
	assert.Error(t, err)
}

func TestSaveMaskSequence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "masks")
	w := NewMaskWriter(testMasks(), 4, 4)
	require.NoError(t, w.SaveMaskSequence(dir))

	for _, name := range []string{"mask_z_003.png", "mask_z_007.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected %s to be written", name)
	}
}
