// Package rasterize projects a region's patient-space contours into a
// volume's index space and rasterizes them into per-slice boolean masks.
package rasterize

// Mask is a boolean 2D occupancy grid matching a volume's in-plane
// dimensions, stored row-major.
type Mask struct {
	Width, Height int
	bits          []bool
}

// NewMask returns an all-false mask of the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, bits: make([]bool, width*height)}
}

// At reports the value at (x,y). Out-of-bounds coordinates are false.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return m.bits[y*m.Width+x]
}

// Set writes the value at (x,y). Out-of-bounds coordinates are ignored.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return
	}
	m.bits[y*m.Width+x] = v
}

// Or merges other into m with logical OR. Both masks must have the same
// dimensions.
func (m *Mask) Or(other *Mask) {
	for i, v := range other.bits {
		if v {
			m.bits[i] = true
		}
	}
}

// Empty reports whether no pixel is set.
func (m *Mask) Empty() bool {
	for _, v := range m.bits {
		if v {
			return false
		}
	}
	return true
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.bits {
		if v {
			n++
		}
	}
	return n
}
