// Package graphs renders the stats of a bin as inline SVG plots.
package graphs

import (
	"bytes"
	"html/template"
	"image/color"
	"strings"

	"github.com/guigolab/binqc/stats"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"
)

const (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
	// histogram bins
	gcBins = 20
	// bars of the taxonomy chart, the smaller taxa are summed up
	maxTaxa = 15
)

// NoData is rendered in place of a plot without data.
const NoData = template.HTML(`<p class="no-data">no data</p>`)

var (
	pointColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	barColor   = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	return p
}

// render returns the SVG element of p, without the XML prolog.
func render(p *plot.Plot, w, h vg.Length) (template.HTML, error) {
	c := vgsvg.New(w, h)
	p.Draw(draw.New(c))
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return "", err
	}
	svg := buf.String()
	if i := strings.Index(svg, "<svg"); i >= 0 {
		svg = svg[i:]
	}
	logrus.WithFields(logrus.Fields{
		"Plot":  p.Title.Text,
		"Bytes": len(svg),
	}).Debug("Plot rendered")
	return template.HTML(svg), nil
}

func newScatter(xys plotter.XYs) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = pointColor
	s.GlyphStyle.Radius = vg.Points(2)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	return s, nil
}

func scatter(title, x, y string, xys plotter.XYs) (template.HTML, error) {
	if len(xys) == 0 {
		return NoData, nil
	}
	p := newPlot(title, x, y)
	s, err := newScatter(xys)
	if err != nil {
		return "", err
	}
	p.Add(s, plotter.NewGrid())
	return render(p, width, height)
}

// ScatterGC plots the GC of each frame along the concatenated contigs of a bin.
func ScatterGC(s *stats.GCStats) (template.HTML, error) {
	if s == nil {
		return NoData, nil
	}
	var xys plotter.XYs
	offset := 0
	for _, c := range s.Contigs {
		for i, v := range c.Frames {
			start := i * c.Frame
			end := start + c.Frame
			if end > c.Length {
				end = c.Length
			}
			xys = append(xys, plotter.XY{X: float64(offset + (start+end)/2), Y: v})
		}
		offset += c.Length
	}
	if len(xys) == 0 {
		return NoData, nil
	}
	p := newPlot("GC content by frame", "position (bp)", "GC (%)")
	p.Y.Min, p.Y.Max = 0, 100
	sc, err := newScatter(xys)
	if err != nil {
		return "", err
	}
	p.Add(sc, plotter.NewGrid())
	return render(p, width, height)
}

// DistGC plots the distribution of the GC of the contigs.
func DistGC(s *stats.GCStats) (template.HTML, error) {
	if s == nil || len(s.Contigs) == 0 {
		return NoData, nil
	}
	h, err := plotter.NewHist(plotter.Values(s.Values()), gcBins)
	if err != nil {
		return "", err
	}
	h.FillColor = pointColor
	p := newPlot("GC distribution", "GC (%)", "contigs")
	p.Add(h)
	return render(p, width, height)
}

// ScatterCodingDensity plots the coding density of the contigs against their GC.
func ScatterCodingDensity(g *stats.GCStats, c *stats.CodingStats) (template.HTML, error) {
	if g == nil || c == nil {
		return NoData, nil
	}
	gc := g.Lookup()
	var xys plotter.XYs
	for _, cd := range c.Contigs {
		if v, ok := gc[cd.Name]; ok {
			xys = append(xys, plotter.XY{X: v, Y: float64(cd.Density)})
		}
	}
	return scatter("Coding density", "GC (%)", "coding density", xys)
}

// ScatterDepth plots the mean read depth of the contigs against their GC.
func ScatterDepth(g *stats.GCStats, d *stats.DepthStats) (template.HTML, error) {
	if g == nil || d == nil {
		return NoData, nil
	}
	gc := g.Lookup()
	var xys plotter.XYs
	for _, cd := range d.Contigs {
		if v, ok := gc[cd.Name]; ok {
			xys = append(xys, plotter.XY{X: v, Y: float64(cd.Depth)})
		}
	}
	return scatter("Read depth", "GC (%)", "mean depth", xys)
}

// ContigsTaxonomy plots the size of the bin assigned to each taxon.
func ContigsTaxonomy(s *stats.TaxonomyStats) (template.HTML, error) {
	if s == nil || len(s.Taxa) == 0 {
		return NoData, nil
	}
	var names []string
	var values plotter.Values
	for i, t := range s.Taxa {
		if i < maxTaxa {
			names = append(names, t.Taxon)
			values = append(values, float64(t.Size))
			continue
		}
		if i == maxTaxa {
			names = append(names, "other")
			values = append(values, 0)
		}
		values[maxTaxa] += float64(t.Size)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return "", err
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p := newPlot("Taxonomy", "", "size (bp)")
	p.Add(bars)
	p.NominalX(names...)
	return render(p, width+vg.Length(len(names))*vg.Points(10), height)
}
