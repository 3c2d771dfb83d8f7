package stats

import (
	"github.com/guigolab/binqc/bins"
	"github.com/guigolab/binqc/gc"
)

// GeneralStats represents assembly statistics of a bin.
type GeneralStats struct {
	Contigs int      `json:"contigs"`
	Size    int      `json:"size"`
	N50     int      `json:"n50"`
	Longest int      `json:"longest"`
	GC      fraction `json:"gc"`
	bin     bins.Bin
	gcSum   float64
}

// NewGeneralStats creates a new instance of GeneralStats
func NewGeneralStats() *GeneralStats {
	return &GeneralStats{}
}

// Collect adds a contig to the counts.
func (s *GeneralStats) Collect(c *bins.Contig) error {
	v, err := gc.Average(c.Seq)
	if err != nil {
		return err
	}
	s.bin.Contigs = append(s.bin.Contigs, c)
	s.gcSum += v[0] * float64(c.Len())
	return nil
}

// Finalize updates dependent counts of a GeneralStats instance. GC is the
// length weighted mean of the contig GC.
func (s *GeneralStats) Finalize() {
	s.Contigs = s.bin.Len()
	s.Size = s.bin.Size()
	s.N50 = s.bin.N50()
	s.Longest = s.bin.Longest()
	if s.Size > 0 {
		s.GC = fraction(s.gcSum / float64(s.Size))
	}
}
