// Package annotation indexes coding sequence annotations of contigs and
// computes coding densities.
package annotation

import (
	"math"
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/shenwei356/xopen"
	"github.com/sirupsen/logrus"
)

type chunk struct {
	chr   string
	feats chan rtreego.Spatial
}

type tree struct {
	chr  string
	tree *rtreego.Rtree
}

// RtreeMap is a map of pointers to Rtree with string keys.
type RtreeMap map[string]*rtreego.Rtree

// Get returns the pointer to the Rtree of the specified contig, nil if not present.
func (t RtreeMap) Get(chr string) *rtreego.Rtree {
	v, ok := t[chr]
	if ok {
		return v
	}
	return nil
}

// Len returns the number of elements in the map.
func (t RtreeMap) Len() int {
	return len(t)
}

// scan groups features by contig. Features of a contig do not need to be contiguous in the input.
func scan(scanner *Scanner, regions chan chunk) {
	regMap := make(map[string]chan rtreego.Spatial)
	for scanner.Next() {
		feature := scanner.Feat()
		chr := feature.Chr()
		c, ok := regMap[chr]
		if !ok {
			c = make(chan rtreego.Spatial, 64)
			regMap[chr] = c
			regions <- chunk{chr, c}
		}
		c <- feature
	}
	for _, c := range regMap {
		close(c)
	}
	close(regions)
}

func chan2slice(c <-chan rtreego.Spatial) []rtreego.Spatial {
	var s []rtreego.Spatial
	for item := range c {
		s = append(s, item)
	}
	return s
}

func createTree(trees chan *tree, chr string, feats chan rtreego.Spatial, wg *sync.WaitGroup) {
	defer wg.Done()
	featSlice := chan2slice(feats)
	trees <- &tree{chr, rtreego.NewTree(1, 25, 50, featSlice...)}
}

// CreateIndex creates the Rtree indices for the specified annotation file. It builds a Rtree
// for each contig and returns a RtreeMap having the contig names as keys.
func CreateIndex(annoFile string) (RtreeMap, error) {
	f, err := xopen.Ropen(annoFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	scanner := NewScanner(f.Reader)
	index := createIndex(scanner)
	if err := scanner.Error(); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"format":  scanner.Format(),
		"contigs": index.Len(),
	}).Debugf("Indexed %s", annoFile)
	return index, nil
}

func createIndex(scanner *Scanner) RtreeMap {
	trees := make(RtreeMap)
	regions := make(chan chunk)
	treeChan := make(chan *tree)

	go scan(scanner, regions)

	var wg sync.WaitGroup
	for c := range regions {
		wg.Add(1)
		go createTree(treeChan, c.chr, c.feats, &wg)
	}

	go func() {
		wg.Wait()
		close(treeChan)
	}()

	for t := range treeChan {
		trees[t.chr] = t.tree
	}

	return trees
}

// QueryIndex perform a SearchIntersect on the specified index given a start and end position.
func QueryIndex(index *rtreego.Rtree, begin, end float64) []rtreego.Spatial {
	size := end - begin
	// Create the bounding box for the query:
	bb, err := rtreego.NewRect(rtreego.Point{begin}, []float64{size})
	if err != nil {
		return nil
	}

	// Get a slice of the objects in rt that intersect bb:
	return index.SearchIntersect(bb)
}

// mergeIntervals returns the union of the features clipped to [start, end), sorted by position.
// The input features are not modified.
func mergeIntervals(intervals []rtreego.Spatial, start, end float64) [][2]float64 {
	fs := NewFeatureSlice(intervals)
	sort.Sort(fs)
	var out [][2]float64
	for _, f := range fs {
		s, e := math.Max(f.Start(), start), math.Min(f.End(), end)
		if e <= s {
			continue
		}
		if n := len(out); n > 0 && s <= out[n-1][1] {
			out[n-1][1] = math.Max(out[n-1][1], e)
			continue
		}
		out = append(out, [2]float64{s, e})
	}
	return out
}

// CodingDensity returns the fraction of the first length bases of chr covered by at least one feature.
func CodingDensity(index RtreeMap, chr string, length int) float64 {
	rtree := index.Get(chr)
	if rtree == nil || rtree.Size() == 0 || length <= 0 {
		return 0
	}
	end := float64(length)
	var covered float64
	for _, i := range mergeIntervals(QueryIndex(rtree, 0, end), 0, end) {
		covered += i[1] - i[0]
	}
	return covered / end
}
