// Package geometry converts points between patient millimeter space and
// image voxel index space using the affine model
//
//	patient = direction * (index o spacing) + origin
//
// where direction is the 3x3 matrix mapping voxel axes to patient axes.
package geometry

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrSingularDirection indicates that a volume's direction matrix could not
// be inverted. Direction matrices coming from image orientation metadata are
// orthonormal in practice, so hitting this means the geometry is corrupt.
var ErrSingularDirection = errors.New("geometry: direction matrix is singular")

// Point3 is a triple of coordinates. Depending on context it holds either
// patient-space millimeters or fractional voxel indices; the caller tracks
// which space a point lives in.
type Point3 struct {
	X, Y, Z float64
}

// VolumeGeometry describes the placement of a loaded volume in patient space.
// It is supplied by the volume-loading collaborator and treated as immutable.
type VolumeGeometry struct {
	// Origin is the patient-space position of voxel (0,0,0) in mm.
	Origin [3]float64

	// Spacing is the voxel size in mm along each voxel axis.
	Spacing [3]float64

	// Direction is the row-major 3x3 matrix mapping voxel axes to
	// patient axes.
	Direction [3][3]float64

	// Depth, Height and Width are the voxel extents along z, y and x.
	Depth, Height, Width int
}

// Transform converts points between patient space and index space for one
// VolumeGeometry. The direction matrix is inverted once at construction; the
// per-point operations are pure and allocation-free.
type Transform struct {
	origin  [3]float64
	spacing [3]float64
	dir     [3][3]float64
	inv     [3][3]float64
}

// NewTransform builds a Transform for the given geometry. It returns
// ErrSingularDirection if the direction matrix cannot be inverted.
func NewTransform(g *VolumeGeometry) (*Transform, error) {
	dense := mat.NewDense(3, 3, []float64{
		g.Direction[0][0], g.Direction[0][1], g.Direction[0][2],
		g.Direction[1][0], g.Direction[1][1], g.Direction[1][2],
		g.Direction[2][0], g.Direction[2][1], g.Direction[2][2],
	})
	var inv mat.Dense
	if err := inv.Inverse(dense); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularDirection, err)
	}

	t := &Transform{
		origin:  g.Origin,
		spacing: g.Spacing,
		dir:     g.Direction,
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t.inv[i][j] = inv.At(i, j)
		}
	}
	return t, nil
}

// ToIndex converts a patient-space point (mm) to fractional voxel indices:
// inverse(direction) * (p - origin), divided element-wise by spacing.
func (t *Transform) ToIndex(p Point3) Point3 {
	rx := p.X - t.origin[0]
	ry := p.Y - t.origin[1]
	rz := p.Z - t.origin[2]
	return Point3{
		X: (t.inv[0][0]*rx + t.inv[0][1]*ry + t.inv[0][2]*rz) / t.spacing[0],
		Y: (t.inv[1][0]*rx + t.inv[1][1]*ry + t.inv[1][2]*rz) / t.spacing[1],
		Z: (t.inv[2][0]*rx + t.inv[2][1]*ry + t.inv[2][2]*rz) / t.spacing[2],
	}
}

// ToPatient converts fractional voxel indices back to a patient-space point:
// direction * (index o spacing) + origin. It is the exact inverse of ToIndex
// up to floating-point rounding.
func (t *Transform) ToPatient(p Point3) Point3 {
	sx := p.X * t.spacing[0]
	sy := p.Y * t.spacing[1]
	sz := p.Z * t.spacing[2]
	return Point3{
		X: t.dir[0][0]*sx + t.dir[0][1]*sy + t.dir[0][2]*sz + t.origin[0],
		Y: t.dir[1][0]*sx + t.dir[1][1]*sy + t.dir[1][2]*sz + t.origin[1],
		Z: t.dir[2][0]*sx + t.dir[2][1]*sy + t.dir[2][2]*sz + t.origin[2],
	}
}

// ToIndexBatch transforms a slice of patient-space points. The result is
// identical to calling ToIndex on each point in order.
func (t *Transform) ToIndexBatch(pts []Point3) []Point3 {
	out := make([]Point3, len(pts))
	for i, p := range pts {
		out[i] = t.ToIndex(p)
	}
	return out
}
