// Package rtstruct parses radiotherapy structure-set records into per-region
// collections of patient-space polygon contours, bucketed by quantized
// z-level.
package rtstruct

// Record is the in-memory form of one structure-set record: the declared
// regions of interest and the contour groups referencing them. It is built by
// ReadFile or assembled directly by a caller that already holds the data.
type Record struct {
	// ROIs lists the declared regions of interest.
	ROIs []ROIDefinition

	// Contours lists the contour groups, each referencing one declared ROI.
	Contours []ContourGroup
}

// ROIDefinition declares one region of interest: a numeric identifier and a
// display name. Names are not guaranteed unique in source data but are used
// as the addressing key downstream.
type ROIDefinition struct {
	Number int
	Name   string
}

// ContourGroup holds the contours belonging to one referenced ROI. Each
// contour is a flat sequence of patient-space millimeter coordinates whose
// length must be a multiple of 3, interpreted as (x,y,z) triples.
type ContourGroup struct {
	ReferencedROI int
	Contours      [][]float64
}
