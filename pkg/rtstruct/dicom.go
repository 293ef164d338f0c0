package rtstruct

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// ReadFile reads an RTSTRUCT DICOM file into a Record. Only the structure-set
// sequences are extracted; pixel data and all other modules are ignored.
// Structural validation happens later in Parse, so a file that parses as
// DICOM but lacks the required sequences yields an empty Record here.
func ReadFile(path string) (*Record, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingInput, err)
	}
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("rtstruct: read %s: %w", path, err)
	}

	rec := &Record{}
	if el, err := ds.FindElementByTag(tag.StructureSetROISequence); err == nil {
		for _, item := range sequenceItems(el) {
			def := ROIDefinition{Number: -1}
			for _, sub := range item {
				switch sub.Tag {
				case tag.ROINumber:
					if n, ok := firstInt(sub); ok {
						def.Number = n
					}
				case tag.ROIName:
					if s, ok := firstString(sub); ok {
						def.Name = s
					}
				}
			}
			if def.Number < 0 {
				log.Warn("structure set ROI item without ROINumber, skipping")
				continue
			}
			if def.Name == "" {
				def.Name = fmt.Sprintf("ROI_%d", def.Number)
			}
			rec.ROIs = append(rec.ROIs, def)
		}
	}

	if el, err := ds.FindElementByTag(tag.ROIContourSequence); err == nil {
		for _, item := range sequenceItems(el) {
			grp := ContourGroup{ReferencedROI: -1}
			for _, sub := range item {
				switch sub.Tag {
				case tag.ReferencedROINumber:
					if n, ok := firstInt(sub); ok {
						grp.ReferencedROI = n
					}
				case tag.ContourSequence:
					for _, contour := range sequenceItems(sub) {
						for _, cel := range contour {
							if cel.Tag != tag.ContourData {
								continue
							}
							if pts, ok := floatList(cel); ok {
								grp.Contours = append(grp.Contours, pts)
							}
						}
					}
				}
			}
			rec.Contours = append(rec.Contours, grp)
		}
	}
	return rec, nil
}

// sequenceItems unpacks an SQ element into per-item element lists.
func sequenceItems(el *dicom.Element) [][]*dicom.Element {
	items, ok := el.Value.GetValue().([]*dicom.SequenceItemValue)
	if !ok {
		return nil
	}
	out := make([][]*dicom.Element, 0, len(items))
	for _, it := range items {
		if els, ok := it.GetValue().([]*dicom.Element); ok {
			out = append(out, els)
		}
	}
	return out
}

func firstInt(el *dicom.Element) (int, bool) {
	switch v := el.Value.GetValue().(type) {
	case []int:
		if len(v) > 0 {
			return v[0], true
		}
	case []string:
		if len(v) > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(v[0])); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func firstString(el *dicom.Element) (string, bool) {
	if v, ok := el.Value.GetValue().([]string); ok && len(v) > 0 {
		return strings.TrimSpace(v[0]), true
	}
	return "", false
}

// floatList decodes a decimal-string or float element into float64s.
func floatList(el *dicom.Element) ([]float64, bool) {
	switch v := el.Value.GetValue().(type) {
	case []float64:
		return v, true
	case []string:
		out := make([]float64, 0, len(v))
		for _, s := range v {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, false
			}
			out = append(out, f)
		}
		return out, true
	}
	return nil, false
}
