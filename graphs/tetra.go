package graphs

import (
	"html/template"

	"github.com/andrew-torda/matrix"
	"github.com/guigolab/binqc/stats"
	"github.com/guigolab/binqc/tetra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// contigs get a named tick up to this number
const maxLabels = 40

// distGrid is the distance matrix seen as a plotter.GridXYZ, rows and columns
// following the leaf order of the dendrogram.
type distGrid struct {
	m     *matrix.FMatrix2d
	order []int
}

func (g distGrid) Dims() (c, r int) {
	return len(g.order), len(g.order)
}

func (g distGrid) Z(c, r int) float64 {
	return float64(g.m.Mat[g.order[r]][g.order[c]])
}

func (g distGrid) X(c int) float64 {
	return float64(c)
}

func (g distGrid) Y(r int) float64 {
	return float64(r)
}

// dendrogramLines returns the branches of the tree drawn above a heatmap whose
// rows follow order.
func dendrogramLines(order []int, merges []tetra.Merge) []plotter.XYs {
	n := len(order)
	var top float64
	for _, m := range merges {
		if m.Height > top {
			top = m.Height
		}
	}
	base := float64(n) - 0.5
	scale := 0.0
	if top > 0 {
		scale = float64(n) / 3 / top
	}
	x := make(map[int]float64, n+len(merges))
	y := make(map[int]float64, n+len(merges))
	for i, leaf := range order {
		x[leaf], y[leaf] = float64(i), base
	}
	lines := make([]plotter.XYs, 0, len(merges))
	for i, m := range merges {
		h := base + scale*m.Height
		lines = append(lines, plotter.XYs{
			{X: x[m.Left], Y: y[m.Left]},
			{X: x[m.Left], Y: h},
			{X: x[m.Right], Y: h},
			{X: x[m.Right], Y: y[m.Right]},
		})
		x[n+i], y[n+i] = (x[m.Left]+x[m.Right])/2, h
	}
	return lines
}

// DendrogramTetra plots the tetranucleotide distances between contigs as a
// heatmap ordered by the dendrogram, with the dendrogram on top.
func DendrogramTetra(s *stats.TetraStats) (template.HTML, error) {
	if s == nil || s.Dendrogram == nil || len(s.Dendrogram.Order) < 2 {
		return NoData, nil
	}
	order := s.Dendrogram.Order
	n := len(order)
	h := plotter.NewHeatMap(distGrid{s.Distances, order}, palette.Heat(12, 1))
	if h.Min == h.Max {
		h.Max = h.Min + 1
	}
	p := newPlot("Tetranucleotide distances", "", "")
	p.Add(h)

	for _, xys := range dendrogramLines(order, s.Dendrogram.Merges) {
		l, err := plotter.NewLine(xys)
		if err != nil {
			return "", err
		}
		l.LineStyle.Width = vg.Points(1)
		p.Add(l)
	}

	ticks := plot.ConstantTicks{}
	if n <= maxLabels {
		for i, leaf := range order {
			ticks = append(ticks, plot.Tick{Value: float64(i), Label: s.Contigs[leaf]})
		}
	}
	p.X.Tick.Marker = plot.ConstantTicks{}
	p.Y.Tick.Marker = ticks
	return render(p, width, width)
}
