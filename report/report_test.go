package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guigolab/binqc/bins"
	"github.com/guigolab/binqc/config"
	"github.com/guigolab/binqc/graphs"
	"github.com/guigolab/binqc/stats"
)

func testReport(t *testing.T) *Report {
	cfg := config.NewConfig()
	cfg.Genomes = []string{"bins/bin.1.fa", "bins/bin.2.fa"}
	cfg.Output = t.TempDir()
	cfg.Window = 5
	cfg.Cpu = 2
	cfg.TetraMinLength = 1
	r := &Report{Header: NewHeader(cfg, "1.0.0")}
	r.Header.Date = "Sun Oct 18 10:00:00 2026"
	b := &bins.Bin{
		Filename: "bin.1.fa",
		Path:     "bins/bin.1.fa",
		Contigs: []*bins.Contig{
			{Name: "contig_<1>", Seq: []byte("GATCGATGGGCCTATATAGGATCGAAAATC")},
			{Name: "contig_2", Seq: []byte("GATCGATGGGCCTATATAGGATCGAAAATCTAACTTG")},
		},
	}
	sm := stats.NewMap(cfg, nil, nil, nil)
	if err := sm.Collect(b); err != nil {
		t.Fatal(err)
	}
	bd, err := NewBinData(b, sm, cfg.Window)
	if err != nil {
		t.Fatal(err)
	}
	r.Bins = append(r.Bins, bd)
	return r
}

func TestNewBinData(t *testing.T) {
	bd := testReport(t).Bins[0]
	if bd.Name != "bin.1" || bd.Path != "bins/bin.1.fa" || bd.Window != 5 {
		t.Errorf("(NewBinData) unexpected bin %s %s %d", bd.Name, bd.Path, bd.Window)
	}
	for i, p := range []string{string(bd.AverageGC), string(bd.GCDensity), string(bd.TetraHeatmap)} {
		if !strings.HasPrefix(p, "<svg") {
			t.Errorf("(NewBinData) [%d] expected a plot", i)
		}
	}
	for i, p := range []string{string(bd.CodingDensity), string(bd.TaxonomyMap), string(bd.DepthMap)} {
		if p != string(graphs.NoData) {
			t.Errorf("(NewBinData) [%d] expected no data", i)
		}
	}
}

func TestRender(t *testing.T) {
	b, err := testReport(t).Render()
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	for i, s := range []string{
		"<td>Sun Oct 18 10:00:00 2026</td>",
		"<td>bins/bin.1.fa, bins/bin.2.fa</td>",
		"<td>1.0.0</td>",
		"<td>none</td>",
		`<section class="bin" id="bin.1">`,
		"GC content (window of 5 bp)",
		"<td>43.3333</td>",
		"contig_&lt;1&gt;",
		"<svg",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("(Render) [%d] expected %q in the report", i, s)
		}
	}
}

func TestRenderNoBins(t *testing.T) {
	r := &Report{Header: NewHeader(config.NewConfig(), "dev")}
	b, err := r.Render()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "no bins") {
		t.Error("(Render) expected a no bins notice")
	}
}

func TestWrite(t *testing.T) {
	r := testReport(t)
	dir := r.Header.Output
	if err := os.WriteFile(filepath.Join(dir, config.ReportFile), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := r.Write(dir); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(dir, config.ReportFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "<!DOCTYPE html>") {
		t.Errorf("(Write) unexpected report %.40q", b)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("(Write) expected only the report in %s, got %d files", dir, len(entries))
	}
	if err := r.Write(filepath.Join(dir, "missing")); err == nil {
		t.Error("(Write) expected an error for a missing directory")
	}
}

func TestWriteSummary(t *testing.T) {
	r := testReport(t)
	dir := r.Header.Output
	if err := r.WriteSummary(dir); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(dir, config.SummaryFile))
	if err != nil {
		t.Fatal(err)
	}
	var summary map[string]map[string]json.RawMessage
	if err := json.Unmarshal(b, &summary); err != nil {
		t.Fatal(err)
	}
	if _, ok := summary["bin.1"]["general"]; !ok {
		t.Errorf("(WriteSummary) expected general stats for bin.1, got %s", b)
	}
}
