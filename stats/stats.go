// Package stats collects quality metrics over the contigs of a bin.
package stats

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/guigolab/binqc/annotation"
	"github.com/guigolab/binqc/bins"
	"github.com/guigolab/binqc/config"
	"github.com/guigolab/binqc/coverage"
	"github.com/guigolab/binqc/taxonomy"
)

type fraction float64

func (m fraction) String() string {
	return fmt.Sprintf("%.6g", float64(m))
}

func (m fraction) MarshalJSON() ([]byte, error) {
	v, err := strconv.ParseFloat(m.String(), 64)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// Stats represents metrics collected contig by contig.
type Stats interface {
	Collect(c *bins.Contig) error
	Finalize()
}

// Map is a map of Stats instances with string keys.
type Map map[string]Stats

// Add adds a new Stats object to sm
func (sm Map) Add(key string, s Stats) {
	sm[key] = s
}

// Collect feeds every contig of b to all the Stats and finalizes them.
func (sm Map) Collect(b *bins.Bin) error {
	for _, c := range b.Contigs {
		for key, s := range sm {
			if err := s.Collect(c); err != nil {
				return fmt.Errorf("%s stats for %s: %w", key, b.Name(), err)
			}
		}
	}
	for _, s := range sm {
		s.Finalize()
	}
	return nil
}

// NewMap creates an instance of a stats.Map. Coding, depth and taxonomy stats
// are only added when the corresponding input is given.
func NewMap(cfg *config.Config, index annotation.RtreeMap, depths coverage.Table, taxa taxonomy.Assignments) Map {
	m := make(Map)
	m.Add("general", NewGeneralStats())
	m.Add("gc", NewGCStats(cfg.Window))
	m.Add("tetra", NewTetraStats(cfg.TetraMinLength))
	if index != nil {
		m.Add("coding", NewCodingStats(index))
	}
	if depths != nil {
		m.Add("depth", NewDepthStats(depths))
	}
	if taxa != nil {
		m.Add("taxonomy", NewTaxonomyStats(taxa))
	}
	return m
}
