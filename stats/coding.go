package stats

import (
	"github.com/guigolab/binqc/annotation"
	"github.com/guigolab/binqc/bins"
)

// ContigCoding represents the coding density of a contig.
type ContigCoding struct {
	Name    string   `json:"name"`
	Length  int      `json:"length"`
	Density fraction `json:"density"`
}

// CodingStats represents the coding density of the contigs of a bin.
type CodingStats struct {
	Density fraction        `json:"density"`
	Contigs []*ContigCoding `json:"contigs"`
	index   annotation.RtreeMap
}

// NewCodingStats creates a new instance of CodingStats
func NewCodingStats(index annotation.RtreeMap) *CodingStats {
	return &CodingStats{index: index}
}

// Collect computes the coding density of a contig.
func (s *CodingStats) Collect(c *bins.Contig) error {
	s.Contigs = append(s.Contigs, &ContigCoding{
		Name:    c.Name,
		Length:  c.Len(),
		Density: fraction(annotation.CodingDensity(s.index, c.Name, c.Len())),
	})
	return nil
}

// Finalize computes the coding density of the whole bin.
func (s *CodingStats) Finalize() {
	var coding float64
	var size int
	for _, c := range s.Contigs {
		coding += float64(c.Density) * float64(c.Length)
		size += c.Length
	}
	if size > 0 {
		s.Density = fraction(coding / float64(size))
	}
}
