package stats

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/guigolab/binqc/annotation"
	"github.com/guigolab/binqc/bins"
	"github.com/guigolab/binqc/config"
	"github.com/guigolab/binqc/coverage"
	"github.com/guigolab/binqc/gc"
	"github.com/guigolab/binqc/taxonomy"
	"github.com/guigolab/binqc/utils"
)

func testBin() *bins.Bin {
	return &bins.Bin{
		Filename: "bin.1.fa",
		Contigs: []*bins.Contig{
			{Name: "c1", Seq: []byte("GGGGCCCCAAAA")},
			{Name: "c2", Seq: []byte("ATATAT")},
			{Name: "c3", Seq: []byte("GCGCNN")},
		},
	}
}

func testIndex(t *testing.T) annotation.RtreeMap {
	path := filepath.Join(t.TempDir(), "cds.bed")
	if err := os.WriteFile(path, []byte("c1\t0\t6\n"), 0644); err != nil {
		t.Fatal(err)
	}
	index, err := annotation.CreateIndex(path)
	if err != nil {
		t.Fatal(err)
	}
	return index
}

func testMap(t *testing.T) Map {
	cfg := config.NewConfig()
	cfg.Window = 5
	cfg.TetraMinLength = 10
	depths := coverage.Table{"c1": &coverage.Depth{Length: 12, Bases: 24, Reads: 3, Uniq: 2, Pairs: 1, Split: 1}}
	taxa := taxonomy.Assignments{"c1": "A", "c2": "B"}
	m := NewMap(cfg, testIndex(t), depths, taxa)
	if err := m.Collect(testBin()); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewMap(t *testing.T) {
	cfg := config.NewConfig()
	m := NewMap(cfg, nil, nil, nil)
	for _, key := range []string{"general", "gc", "tetra"} {
		if _, ok := m[key]; !ok {
			t.Errorf("(NewMap) expected %s stats", key)
		}
	}
	if len(m) != 3 {
		t.Errorf("(NewMap) expected 3 stats, got %d", len(m))
	}
	m = NewMap(cfg, annotation.RtreeMap{}, coverage.Table{}, taxonomy.Assignments{})
	if len(m) != 6 {
		t.Errorf("(NewMap) expected 6 stats, got %d", len(m))
	}
}

func TestGeneralStats(t *testing.T) {
	s := testMap(t)["general"].(*GeneralStats)
	if s.Contigs != 3 || s.Size != 24 || s.N50 != 12 || s.Longest != 12 {
		t.Errorf("(GeneralStats) unexpected counts %+v", s)
	}
	if math.Abs(float64(s.GC)-58.333333) > 1e-5 {
		t.Errorf("(GeneralStats) expected GC 58.3333, got %v", s.GC)
	}
}

func TestGCStats(t *testing.T) {
	s := testMap(t)["gc"].(*GCStats)
	for i, c := range []struct {
		name   string
		frame  int
		frames []float64
	}{
		{"c1", 5, []float64{100, 60, 0}},
		{"c2", 5, []float64{0, 0}},
		{"c3", 5, []float64{100, 0}},
	} {
		got := s.Contigs[i]
		if got.Name != c.name || got.Frame != c.frame || !cmp.Equal(got.Frames, c.frames) {
			t.Errorf("(GCStats) [%d] expected %v %d %v, got %v %d %v", i, c.name, c.frame, c.frames, got.Name, got.Frame, got.Frames)
		}
	}
	if !cmp.Equal(s.Histogram, Histogram{0: 4, 60: 1, 100: 2}) {
		t.Errorf("(GCStats) unexpected histogram %v", s.Histogram)
	}
	if !cmp.Equal(s.Values(), []float64{100 * 8.0 / 12.0, 0, 100}) {
		t.Errorf("(GCStats) unexpected values %v", s.Values())
	}
}

func TestGCStatsShortContig(t *testing.T) {
	s := NewGCStats(5000)
	if err := s.Collect(&bins.Contig{Name: "short", Seq: []byte("GATCGATGGGCCTATATAGGATCGAAAATC")}); err != nil {
		t.Fatal(err)
	}
	c := s.Contigs[0]
	if c.Frame != 30 || !cmp.Equal(c.Frames, []float64{43.333333333333336}) {
		t.Errorf("(GCStats) expected a single frame of 30, got %d %v", c.Frame, c.Frames)
	}
}

func TestCollectError(t *testing.T) {
	b := testBin()
	b.Contigs = append(b.Contigs, &bins.Contig{Name: "empty"})
	err := NewMap(config.NewConfig(), nil, nil, nil).Collect(b)
	if !errors.Is(err, gc.ErrEmptySequence) || !errors.Is(err, gc.ErrInvalidInput) {
		t.Errorf("(Collect) expected an empty sequence error, got %v", err)
	}
}

func TestCodingStats(t *testing.T) {
	s := testMap(t)["coding"].(*CodingStats)
	densities := make([]float64, len(s.Contigs))
	for i, c := range s.Contigs {
		densities[i] = float64(c.Density)
	}
	if !cmp.Equal(densities, []float64{0.5, 0, 0}) {
		t.Errorf("(CodingStats) unexpected densities %v", densities)
	}
	if s.Density != 0.25 {
		t.Errorf("(CodingStats) expected bin density 0.25, got %v", s.Density)
	}
}

func TestDepthStats(t *testing.T) {
	s := testMap(t)["depth"].(*DepthStats)
	if s.Contigs[0].Depth != 2 || s.Contigs[1].Depth != 0 {
		t.Errorf("(DepthStats) unexpected depths %v %v", s.Contigs[0].Depth, s.Contigs[1].Depth)
	}
	if s.Depth != 1 || s.Reads != 3 {
		t.Errorf("(DepthStats) expected depth 1 and 3 reads, got %v %v", s.Depth, s.Reads)
	}
	if s.Uniq != 2 || s.Pairs != 1 || s.Split != 1 || s.Contigs[0].Uniq != 2 {
		t.Errorf("(DepthStats) expected 2 uniq, 1 pair and 1 split read, got %v %v %v", s.Uniq, s.Pairs, s.Split)
	}
}

func TestTetraStats(t *testing.T) {
	s := testMap(t)["tetra"].(*TetraStats)
	if !cmp.Equal(s.Contigs, []string{"c1"}) {
		t.Errorf("(TetraStats) expected only c1, got %v", s.Contigs)
	}
	if !cmp.Equal(s.Dendrogram.Order, []int{0}) {
		t.Errorf("(TetraStats) unexpected order %v", s.Dendrogram.Order)
	}
	s = NewTetraStats(1)
	for _, c := range testBin().Contigs {
		s.Collect(c)
	}
	s.Finalize()
	if len(s.Dendrogram.Merges) != 2 || len(s.Dendrogram.Order) != 3 {
		t.Errorf("(TetraStats) unexpected dendrogram %+v", s.Dendrogram)
	}
}

func TestTaxonomyStats(t *testing.T) {
	s := testMap(t)["taxonomy"].(*TaxonomyStats)
	expected := []*TaxonCount{
		{"A", 1, 12},
		{"B", 1, 6},
		{taxonomy.Unassigned, 1, 6},
	}
	if !cmp.Equal(s.Taxa, expected) {
		t.Errorf("(TaxonomyStats) expected %v, got %v", expected, s.Taxa)
	}
}

func TestHistogram(t *testing.T) {
	h := Histogram{10: 1, 2: 3}
	h.Update(Histogram{2: 1, 5: 2})
	if h.Total() != 7 || !cmp.Equal(h.Keys(), []int{2, 5, 10}) {
		t.Errorf("(Histogram) unexpected %v", h)
	}
	b, err := json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"2":4,"5":2,"10":1}` {
		t.Errorf("(MarshalJSON) unexpected %s", b)
	}
	var other Histogram
	if err := json.Unmarshal(b, &other); err != nil || !cmp.Equal(h, other) {
		t.Errorf("(UnmarshalJSON) expected %v, got %v (%v)", h, other, err)
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := utils.OutputJSON(&buf, testMap(t)); err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{`"n50": 12`, `"gc": 58.3333`, `"density": 0.25`, `"taxon": "A"`} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("(OutputJSON) expected %s in output", s)
		}
	}
}
