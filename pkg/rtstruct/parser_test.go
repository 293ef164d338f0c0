package rtstruct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squareContour returns a flat (x,y,z) contour for an axis-aligned square
// with corner (x0,y0) and the given side length, at level z.
func squareContour(x0, y0, side, z float64) []float64 {
	return []float64{
		x0, y0, z,
		x0 + side, y0, z,
		x0 + side, y0 + side, z,
		x0, y0 + side, z,
	}
}

func TestParseMalformedRecord(t *testing.T) {
	cases := []*Record{
		nil,
		{},
		{ROIs: []ROIDefinition{{Number: 1, Name: "A"}}},
		{Contours: []ContourGroup{{ReferencedROI: 1}}},
	}
	for _, rec := range cases {
		_, err := Parse(rec, Options{})
		assert.ErrorIs(t, err, ErrMalformedStructureSet)
	}
}

func TestParseBasic(t *testing.T) {
	rec := &Record{
		ROIs: []ROIDefinition{
			{Number: 2, Name: "PTV"},
			{Number: 1, Name: "GTV"},
		},
		Contours: []ContourGroup{
			{ReferencedROI: 2, Contours: [][]float64{squareContour(0, 0, 10, 5)}},
			{ReferencedROI: 1, Contours: [][]float64{squareContour(2, 2, 4, 5)}},
		},
	}
	regions, err := Parse(rec, Options{})
	require.NoError(t, err)
	require.Len(t, regions, 2)

	// Sorted by id ascending regardless of declaration order.
	assert.Equal(t, 1, regions[0].ID)
	assert.Equal(t, "GTV", regions[0].Name)
	assert.Equal(t, 2, regions[1].ID)
	assert.Equal(t, "PTV", regions[1].Name)

	require.Len(t, regions[0].Levels(), 1)
	assert.InDelta(t, 5.0, regions[0].Levels()[0], 1e-9)
	assert.Len(t, regions[0].PolygonsAt(regions[0].Levels()[0]), 1)
}

func TestParseUnknownReferenceSkipped(t *testing.T) {
	rec := &Record{
		ROIs: []ROIDefinition{{Number: 1, Name: "A"}},
		Contours: []ContourGroup{
			{ReferencedROI: 99, Contours: [][]float64{squareContour(0, 0, 10, 5)}},
			{ReferencedROI: 1, Contours: [][]float64{squareContour(0, 0, 10, 5)}},
		},
	}
	regions, err := Parse(rec, Options{})
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "A", regions[0].Name)
}

func TestParseBadContourLengthSkipped(t *testing.T) {
	rec := &Record{
		ROIs: []ROIDefinition{{Number: 1, Name: "A"}},
		Contours: []ContourGroup{
			{ReferencedROI: 1, Contours: [][]float64{
				{1, 2, 3, 4, 5, 6, 7}, // not a multiple of 3
				squareContour(0, 0, 10, 5),
			}},
		},
	}
	regions, err := Parse(rec, Options{})
	require.NoError(t, err)
	require.Len(t, regions, 1)
	require.Len(t, regions[0].Levels(), 1)
	assert.Len(t, regions[0].PolygonsAt(regions[0].Levels()[0]), 1)
}

func TestParseThreePointContourClosed(t *testing.T) {
	rec := &Record{
		ROIs: []ROIDefinition{{Number: 1, Name: "A"}},
		Contours: []ContourGroup{
			{ReferencedROI: 1, Contours: [][]float64{
				{0, 0, 5, 10, 0, 5, 0, 10, 5},
			}},
		},
	}
	regions, err := Parse(rec, Options{})
	require.NoError(t, err)
	require.Len(t, regions, 1)

	polys := regions[0].PolygonsAt(regions[0].Levels()[0])
	require.Len(t, polys, 1)
	ring := polys[0][0]
	require.Len(t, ring, 4)
	assert.Equal(t, ring[0], ring[3])
}

func TestParseDegenerateContoursDropped(t *testing.T) {
	rec := &Record{
		ROIs: []ROIDefinition{{Number: 1, Name: "A"}},
		Contours: []ContourGroup{
			{ReferencedROI: 1, Contours: [][]float64{
				{0, 0, 5, 1, 1, 5}, // two points
				{0, 0, 5, 1, 1, 5, 2, 2, 5, 3, 3, 5}, // collinear, zero area
			}},
		},
	}
	regions, err := Parse(rec, Options{})
	require.NoError(t, err)
	assert.Empty(t, regions, "region with no valid contour must be dropped")
}

func TestParseZMeanAndQuantization(t *testing.T) {
	// Near-planar contour: z values average to 10.0004, which snaps to
	// 10.0 on the default 1e-3 grid.
	rec := &Record{
		ROIs: []ROIDefinition{{Number: 1, Name: "A"}},
		Contours: []ContourGroup{
			{ReferencedROI: 1, Contours: [][]float64{
				{0, 0, 10.0001, 10, 0, 10.0005, 10, 10, 10.0006, 0, 10, 10.0004},
			}},
		},
	}
	regions, err := Parse(rec, Options{})
	require.NoError(t, err)
	require.Len(t, regions, 1)
	require.Len(t, regions[0].Levels(), 1)
	assert.InDelta(t, 10.0, regions[0].Levels()[0], 1e-9)
}

func TestParseQuantizationMergesLevels(t *testing.T) {
	// Two contours whose z differs by less than the tolerance land on the
	// same level; a third clearly apart does not.
	rec := &Record{
		ROIs: []ROIDefinition{{Number: 1, Name: "A"}},
		Contours: []ContourGroup{
			{ReferencedROI: 1, Contours: [][]float64{
				squareContour(0, 0, 10, 5.0001),
				squareContour(20, 20, 10, 4.9999),
				squareContour(0, 0, 10, 7.5),
			}},
		},
	}
	regions, err := Parse(rec, Options{ZTolerance: 0.01})
	require.NoError(t, err)
	require.Len(t, regions, 1)
	require.Len(t, regions[0].Levels(), 2)
	assert.Len(t, regions[0].PolygonsAt(regions[0].Levels()[0]), 2)
}

func TestParseNameFilter(t *testing.T) {
	rec := &Record{
		ROIs: []ROIDefinition{
			{Number: 1, Name: "GTV"},
			{Number: 2, Name: "PTV"},
		},
		Contours: []ContourGroup{
			{ReferencedROI: 1, Contours: [][]float64{squareContour(0, 0, 10, 5)}},
			{ReferencedROI: 2, Contours: [][]float64{squareContour(0, 0, 10, 5)}},
		},
	}
	regions, err := Parse(rec, Options{
		NameFilter: map[string]struct{}{"PTV": {}},
	})
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "PTV", regions[0].Name)
}

func TestParseRegionWithoutContoursDropped(t *testing.T) {
	rec := &Record{
		ROIs: []ROIDefinition{
			{Number: 1, Name: "A"},
			{Number: 2, Name: "B"},
		},
		Contours: []ContourGroup{
			{ReferencedROI: 1, Contours: [][]float64{squareContour(0, 0, 10, 5)}},
		},
	}
	regions, err := Parse(rec, Options{})
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "A", regions[0].Name)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile("/nonexistent/rtss.dcm")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingInput)
}
