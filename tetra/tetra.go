// Package tetra computes tetranucleotide frequency profiles of sequences and
// clusters them hierarchically.
package tetra

import (
	"math"

	"github.com/andrew-torda/matrix"
)

// Size is the number of canonical tetranucleotides.
const Size = 136

const k = 4

var (
	code      [256]int8
	canonical [1 << (2 * k)]int
	kmers     [Size]string
)

func init() {
	for i := range code {
		code[i] = -1
	}
	for i, b := range []byte("ACGT") {
		code[b] = int8(i)
		code[b+'a'-'A'] = int8(i)
	}
	next := 0
	for kmer := 0; kmer < len(canonical); kmer++ {
		rc := revcomp(kmer)
		if rc < kmer {
			canonical[kmer] = canonical[rc]
			continue
		}
		canonical[kmer] = next
		kmers[next] = decode(kmer)
		next++
	}
}

func revcomp(kmer int) (rc int) {
	for i := 0; i < k; i++ {
		rc = rc<<2 | (3 - kmer&3)
		kmer >>= 2
	}
	return
}

func decode(kmer int) string {
	b := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		b[i] = "ACGT"[kmer&3]
		kmer >>= 2
	}
	return string(b)
}

// Kmer returns the tetranucleotide of the i-th profile entry.
func Kmer(i int) string {
	return kmers[i]
}

// Profile holds the frequencies of the canonical tetranucleotides of a sequence.
type Profile []float64

// NewProfile counts the tetranucleotides of seq on both strands. Words holding
// a symbol other than A, C, G or T are skipped.
func NewProfile(seq []byte) Profile {
	p := make(Profile, Size)
	var kmer, valid, total int
	mask := len(canonical) - 1
	for _, b := range seq {
		c := code[b]
		if c < 0 {
			valid = 0
			continue
		}
		kmer = (kmer<<2 | int(c)) & mask
		valid++
		if valid >= k {
			p[canonical[kmer]]++
			total++
		}
	}
	if total > 0 {
		for i := range p {
			p[i] /= float64(total)
		}
	}
	return p
}

// Distance returns the euclidean distance between two profiles.
func Distance(a, b Profile) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Distances returns the symmetric matrix of the pairwise distances of profiles.
func Distances(profiles []Profile) *matrix.FMatrix2d {
	n := len(profiles)
	m := matrix.NewFMatrix2d(n, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := float32(Distance(profiles[i], profiles[j]))
			m.Mat[i][j] = d
			m.Mat[j][i] = d
		}
	}
	return m
}

// Merge is a step of the hierarchical clustering. Leaves are numbered 0..n-1
// and the cluster created by the i-th merge is numbered n+i.
type Merge struct {
	Left   int     `json:"left"`
	Right  int     `json:"right"`
	Height float64 `json:"height"`
	Size   int     `json:"size"`
}

// Dendrogram is the result of a hierarchical clustering.
type Dendrogram struct {
	Merges []Merge `json:"merges"`
	// leaves in drawing order
	Order []int `json:"order"`
}

// Cluster performs an average linkage (UPGMA) clustering of a distance matrix.
func Cluster(dist *matrix.FMatrix2d) *Dendrogram {
	n, _ := dist.Size()
	dg := &Dendrogram{}
	if n == 0 {
		return dg
	}
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		for j := range d[i] {
			d[i][j] = float64(dist.Mat[i][j])
		}
	}
	ids := make([]int, n)
	sizes := make([]int, n)
	active := make([]int, n)
	for i := range ids {
		ids[i], sizes[i], active[i] = i, 1, i
	}
	for step := 0; len(active) > 1; step++ {
		bi, bj := 0, 1
		for x := 0; x < len(active); x++ {
			for y := x + 1; y < len(active); y++ {
				if d[active[x]][active[y]] < d[active[bi]][active[bj]] {
					bi, bj = x, y
				}
			}
		}
		i, j := active[bi], active[bj]
		left, right := ids[i], ids[j]
		if left > right {
			left, right = right, left
		}
		size := sizes[i] + sizes[j]
		dg.Merges = append(dg.Merges, Merge{left, right, d[i][j], size})
		for _, c := range active {
			if c == i || c == j {
				continue
			}
			v := (d[i][c]*float64(sizes[i]) + d[j][c]*float64(sizes[j])) / float64(size)
			d[i][c], d[c][i] = v, v
		}
		ids[i], sizes[i] = n+step, size
		active = append(active[:bj], active[bj+1:]...)
	}
	dg.Order = leaves(n, dg.Merges)
	return dg
}

func leaves(n int, merges []Merge) []int {
	if len(merges) == 0 {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		return order
	}
	var order []int
	var walk func(id int)
	walk = func(id int) {
		if id < n {
			order = append(order, id)
			return
		}
		m := merges[id-n]
		walk(m.Left)
		walk(m.Right)
	}
	walk(n + len(merges) - 1)
	return order
}
