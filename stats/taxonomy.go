package stats

import (
	"sort"

	"github.com/guigolab/binqc/bins"
	"github.com/guigolab/binqc/taxonomy"
)

// TaxonCount represents the contigs of a bin assigned to a taxon.
type TaxonCount struct {
	Taxon   string `json:"taxon"`
	Contigs int    `json:"contigs"`
	Size    int    `json:"size"`
}

// TaxonomyStats represents the taxonomic composition of a bin.
type TaxonomyStats struct {
	Taxa   []*TaxonCount `json:"taxa"`
	assign taxonomy.Assignments
	counts map[string]*TaxonCount
}

// NewTaxonomyStats creates a new instance of TaxonomyStats
func NewTaxonomyStats(assign taxonomy.Assignments) *TaxonomyStats {
	return &TaxonomyStats{
		assign: assign,
		counts: make(map[string]*TaxonCount),
	}
}

// Collect adds a contig to the counts of its taxon.
func (s *TaxonomyStats) Collect(c *bins.Contig) error {
	taxon := s.assign.Taxon(c.Name)
	tc, ok := s.counts[taxon]
	if !ok {
		tc = &TaxonCount{Taxon: taxon}
		s.counts[taxon] = tc
	}
	tc.Contigs++
	tc.Size += c.Len()
	return nil
}

// Finalize sorts the taxa by decreasing size.
func (s *TaxonomyStats) Finalize() {
	s.Taxa = s.Taxa[:0]
	for _, tc := range s.counts {
		s.Taxa = append(s.Taxa, tc)
	}
	sort.Slice(s.Taxa, func(i, j int) bool {
		if s.Taxa[i].Size != s.Taxa[j].Size {
			return s.Taxa[i].Size > s.Taxa[j].Size
		}
		return s.Taxa[i].Taxon < s.Taxa[j].Taxon
	})
}
