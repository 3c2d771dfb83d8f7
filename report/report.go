// Package report assembles the per-bin plots and the run settings into the
// HTML quality control report.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/guigolab/binqc/bins"
	"github.com/guigolab/binqc/config"
	"github.com/guigolab/binqc/graphs"
	"github.com/guigolab/binqc/stats"
	"github.com/guigolab/binqc/utils"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templates embed.FS

var funcs = template.FuncMap{
	"join": strings.Join,
	"orNone": func(s string) string {
		if s == "" {
			return "none"
		}
		return s
	},
}

var tmpl = template.Must(template.New("report").Funcs(funcs).ParseFS(templates, "templates/*.html"))

// Header holds the settings of the run.
type Header struct {
	Date       string
	Inputs     []string
	Output     string
	Window     int
	Cpu        int
	Annotation string
	Alignments string
	Taxonomy   string
	Version    string
}

// NewHeader returns the header of a run started now.
func NewHeader(cfg *config.Config, version string) *Header {
	return &Header{
		Date:       time.Now().Format(time.ANSIC),
		Inputs:     cfg.Genomes,
		Output:     cfg.Output,
		Window:     cfg.Window,
		Cpu:        cfg.Cpu,
		Annotation: cfg.Annotation,
		Alignments: cfg.Alignments,
		Taxonomy:   cfg.Taxonomy,
		Version:    version,
	}
}

// BinData holds the stats and plots of a bin.
type BinData struct {
	Name          string
	Path          string
	Window        int
	Stats         stats.Map
	AverageGC     template.HTML
	GCDensity     template.HTML
	CodingDensity template.HTML
	TetraHeatmap  template.HTML
	TaxonomyMap   template.HTML
	DepthMap      template.HTML
}

// NewBinData renders the plots of a bin from its collected stats.
func NewBinData(b *bins.Bin, sm stats.Map, window int) (*BinData, error) {
	bd := &BinData{
		Name:   b.Name(),
		Path:   b.Path,
		Window: window,
		Stats:  sm,
	}
	g, _ := sm["gc"].(*stats.GCStats)
	c, _ := sm["coding"].(*stats.CodingStats)
	d, _ := sm["depth"].(*stats.DepthStats)
	te, _ := sm["tetra"].(*stats.TetraStats)
	tx, _ := sm["taxonomy"].(*stats.TaxonomyStats)
	var err error
	for _, p := range []struct {
		out  *template.HTML
		plot func() (template.HTML, error)
	}{
		{&bd.AverageGC, func() (template.HTML, error) { return graphs.ScatterGC(g) }},
		{&bd.GCDensity, func() (template.HTML, error) { return graphs.DistGC(g) }},
		{&bd.CodingDensity, func() (template.HTML, error) { return graphs.ScatterCodingDensity(g, c) }},
		{&bd.TetraHeatmap, func() (template.HTML, error) { return graphs.DendrogramTetra(te) }},
		{&bd.TaxonomyMap, func() (template.HTML, error) { return graphs.ContigsTaxonomy(tx) }},
		{&bd.DepthMap, func() (template.HTML, error) { return graphs.ScatterDepth(g, d) }},
	} {
		if *p.out, err = p.plot(); err != nil {
			return nil, fmt.Errorf("plotting %s: %w", bd.Name, err)
		}
	}
	return bd, nil
}

// Report is the header and the data of every bin.
type Report struct {
	Header *Header
	Bins   []*BinData
}

func (bd *BinData) slots() map[string]interface{} {
	var contigs []*stats.ContigGC
	if g, ok := bd.Stats["gc"].(*stats.GCStats); ok {
		contigs = g.Contigs
	}
	general, _ := bd.Stats["general"].(*stats.GeneralStats)
	return map[string]interface{}{
		"bin_name":       bd.Name,
		"bin_path":       bd.Path,
		"window":         bd.Window,
		"contigs":        contigs,
		"general":        general,
		"average_gc":     bd.AverageGC,
		"gc_density":     bd.GCDensity,
		"coding_density": bd.CodingDensity,
		"tetra_heatmap":  bd.TetraHeatmap,
		"taxonomy_map":   bd.TaxonomyMap,
		"depth_map":      bd.DepthMap,
	}
}

// Render returns the complete HTML document.
func (r *Report) Render() ([]byte, error) {
	binReports := make([]template.HTML, len(r.Bins))
	for i, bd := range r.Bins {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, "bin_report.html", bd.slots()); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", bd.Name, err)
		}
		binReports[i] = template.HTML(buf.String())
	}
	h := r.Header
	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "report.html", map[string]interface{}{
		"date":        h.Date,
		"inputs":      h.Inputs,
		"output":      h.Output,
		"window":      h.Window,
		"cpu":         h.Cpu,
		"annotation":  h.Annotation,
		"alignments":  h.Alignments,
		"taxonomy":    h.Taxonomy,
		"version":     h.Version,
		"bin_reports": binReports,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders the report into the QC report file of dir. The file is
// replaced atomically.
func (r *Report) Write(dir string) error {
	logrus.Info("Make a wonderful report for you")
	start := time.Now()
	b, err := r.Render()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, config.ReportFile)
	if err := writeAtomic(path, b); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"File": path,
		"Bins": len(r.Bins),
	}).Infof("The QC report has been successfully written in %v", time.Since(start))
	return nil
}

func writeAtomic(path string, b []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(b); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Chmod(0644); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// WriteSummary writes the stats of every bin as JSON in the summary file of dir.
func (r *Report) WriteSummary(dir string) error {
	summary := make(map[string]stats.Map, len(r.Bins))
	for _, bd := range r.Bins {
		summary[bd.Name] = bd.Stats
	}
	path := filepath.Join(dir, config.SummaryFile)
	out, err := utils.NewOutput(path)
	if err != nil {
		return err
	}
	if err := utils.OutputJSON(out, summary); err != nil {
		out.Close()
		return err
	}
	logrus.WithField("File", path).Info("Summary written")
	return out.Close()
}
