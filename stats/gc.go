package stats

import (
	"fmt"

	"github.com/guigolab/binqc/bins"
	"github.com/guigolab/binqc/gc"
	"github.com/guigolab/binqc/utils"
)

// ContigGC represents the GC content of a contig, globally and by frames.
type ContigGC struct {
	Name   string    `json:"name"`
	Length int       `json:"length"`
	GC     fraction  `json:"gc"`
	Frame  int       `json:"frame"`
	Frames []float64 `json:"frames"`
}

// GCStats represents the GC map of a bin.
type GCStats struct {
	Window    int         `json:"window"`
	Contigs   []*ContigGC `json:"contigs"`
	Histogram Histogram   `json:"histogram"`
}

// NewGCStats creates a new instance of GCStats
func NewGCStats(window int) *GCStats {
	return &GCStats{
		Window:    window,
		Histogram: make(Histogram),
	}
}

// Collect computes the GC frames of a contig. Contigs shorter than the window
// make a single frame.
func (s *GCStats) Collect(c *bins.Contig) error {
	frame := utils.Min(s.Window, c.Len())
	frames, err := gc.AverageGC(c.Seq, frame)
	if err != nil {
		return fmt.Errorf("contig %s: %w", c.Name, err)
	}
	whole, err := gc.Average(c.Seq)
	if err != nil {
		return fmt.Errorf("contig %s: %w", c.Name, err)
	}
	s.Contigs = append(s.Contigs, &ContigGC{
		Name:   c.Name,
		Length: c.Len(),
		GC:     fraction(whole[0]),
		Frame:  frame,
		Frames: frames,
	})
	return nil
}

// Finalize counts the frames by integer GC percentage.
func (s *GCStats) Finalize() {
	h := make(Histogram)
	for _, c := range s.Contigs {
		for _, v := range c.Frames {
			h[int(v)]++
		}
	}
	s.Histogram = h
}

// Values returns the GC of every contig.
func (s *GCStats) Values() []float64 {
	values := make([]float64, len(s.Contigs))
	for i, c := range s.Contigs {
		values[i] = float64(c.GC)
	}
	return values
}

// Lookup returns the GC of each contig by name.
func (s *GCStats) Lookup() map[string]float64 {
	m := make(map[string]float64, len(s.Contigs))
	for _, c := range s.Contigs {
		m[c.Name] = float64(c.GC)
	}
	return m
}
