package stats

import (
	"github.com/guigolab/binqc/bins"
	"github.com/guigolab/binqc/coverage"
)

// ContigDepth represents the mean read depth of a contig.
type ContigDepth struct {
	Name  string   `json:"name"`
	Depth fraction `json:"depth"`
	Reads uint64   `json:"reads"`
	Uniq  uint64   `json:"uniq"`
	Pairs uint64   `json:"pairs"`
	Split uint64   `json:"split"`
}

// DepthStats represents the read depth of the contigs of a bin.
type DepthStats struct {
	Depth   fraction       `json:"depth"`
	Reads   uint64         `json:"reads"`
	Uniq    uint64         `json:"uniq"`
	Pairs   uint64         `json:"pairs"`
	Split   uint64         `json:"split"`
	Contigs []*ContigDepth `json:"contigs"`
	depths  coverage.Table
	bases   uint64
	size    int
}

// NewDepthStats creates a new instance of DepthStats
func NewDepthStats(depths coverage.Table) *DepthStats {
	return &DepthStats{depths: depths}
}

// Collect looks up the depth of a contig. Contigs without alignments have depth 0.
func (s *DepthStats) Collect(c *bins.Contig) error {
	cd := &ContigDepth{Name: c.Name}
	if d, ok := s.depths[c.Name]; ok {
		cd.Depth = fraction(d.Mean())
		cd.Reads = d.Reads
		cd.Uniq = d.Uniq
		cd.Pairs = d.Pairs
		cd.Split = d.Split
		s.bases += d.Bases
	}
	s.size += c.Len()
	s.Contigs = append(s.Contigs, cd)
	return nil
}

// Finalize computes the totals and the mean depth of the whole bin.
func (s *DepthStats) Finalize() {
	s.Reads, s.Uniq, s.Pairs, s.Split = 0, 0, 0, 0
	for _, c := range s.Contigs {
		s.Reads += c.Reads
		s.Uniq += c.Uniq
		s.Pairs += c.Pairs
		s.Split += c.Split
	}
	if s.size > 0 {
		s.Depth = fraction(float64(s.bases) / float64(s.size))
	}
}
