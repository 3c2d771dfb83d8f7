package stats

import (
	"github.com/andrew-torda/matrix"
	"github.com/guigolab/binqc/bins"
	"github.com/guigolab/binqc/tetra"
	"github.com/sirupsen/logrus"
)

// TetraStats represents the tetranucleotide clustering of the contigs of a bin.
type TetraStats struct {
	MinLength  int               `json:"min_length"`
	Contigs    []string          `json:"contigs"`
	Dendrogram *tetra.Dendrogram `json:"dendrogram"`
	Distances  *matrix.FMatrix2d `json:"-"`
	profiles   []tetra.Profile
}

// NewTetraStats creates a new instance of TetraStats
func NewTetraStats(minLength int) *TetraStats {
	return &TetraStats{MinLength: minLength}
}

// Collect computes the profile of contigs at least MinLength long.
func (s *TetraStats) Collect(c *bins.Contig) error {
	if c.Len() < s.MinLength {
		return nil
	}
	s.Contigs = append(s.Contigs, c.Name)
	s.profiles = append(s.profiles, tetra.NewProfile(c.Seq))
	return nil
}

// Finalize clusters the collected profiles.
func (s *TetraStats) Finalize() {
	s.Distances = tetra.Distances(s.profiles)
	s.Dendrogram = tetra.Cluster(s.Distances)
	logrus.WithFields(logrus.Fields{
		"Contigs": len(s.Contigs),
	}).Debug("Tetranucleotide clustering done")
}
