package annotation

import (
	"fmt"

	"github.com/dhconnelly/rtreego"
)

// FeatureSlice represents a slice of Feature, sortable by contig and start position
type FeatureSlice []*Feature

func (s FeatureSlice) Len() int {
	return len(s)
}
func (s FeatureSlice) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}
func (s FeatureSlice) Less(i, j int) bool {
	if s[i].Chr() != s[j].Chr() {
		return s[i].Chr() < s[j].Chr()
	}
	if s[i].Start() != s[j].Start() {
		return s[i].Start() < s[j].Start()
	}
	return s[i].End() < s[j].End()
}

// NewFeatureSlice returns a new FeatureSlice instance from a slice of rtreego.Spatial
func NewFeatureSlice(intervals []rtreego.Spatial) FeatureSlice {
	var fs FeatureSlice
	for _, i := range intervals {
		if f, ok := i.(*Feature); ok {
			fs = append(fs, f)
		}
	}
	return fs
}

// Feature represents an annotated element of a contig.
type Feature struct {
	location     *rtreego.Rect
	chr, element []byte
}

// Chr returns the contig of the feature
func (f *Feature) Chr() string {
	return string(f.chr)
}

// Start returns the start position of the feature
func (f *Feature) Start() float64 {
	return f.location.PointCoord(0)
}

// End returns the end position of the feature
func (f *Feature) End() float64 {
	return f.location.LengthsCoord(0) + f.Start()
}

// Len returns the length of the feature
func (f *Feature) Len() float64 {
	return f.location.LengthsCoord(0)
}

// Bounds returns the location of the feature. It is used within the Rtree.
func (f *Feature) Bounds() *rtreego.Rect {
	return f.location
}

// String returns the string representation of a Feature
func (f *Feature) String() string {
	return fmt.Sprintf("%s:%.0f-%.0f:%s", f.Chr(), f.Start(), f.End(), f.element)
}

// NewFeature returns a new instance of a Feature
func NewFeature(chr []byte, element []byte, rect *rtreego.Rect) *Feature {
	return &Feature{
		location: rect,
		chr:      chr,
		element:  element,
	}
}
