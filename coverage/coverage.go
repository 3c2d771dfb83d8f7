// Package coverage computes the mean read depth of contigs from alignments.
package coverage

import (
	"sync"
	"time"

	"github.com/guigolab/binqc/config"
	"github.com/guigolab/binqc/sam"
	log "github.com/sirupsen/logrus"
)

// Depth represents the alignment counts of a contig.
type Depth struct {
	Length int    `json:"length"`
	Bases  uint64 `json:"bases"`
	Reads  uint64 `json:"reads"`
	// reads with NH:i:1
	Uniq uint64 `json:"uniq"`
	// properly paired read-pairs, counted on their first read
	Pairs uint64 `json:"pairs"`
	// reads spanning a skipped region
	Split uint64 `json:"split"`
}

// Mean returns the mean depth, 0 when the length is unknown.
func (d *Depth) Mean() float64 {
	if d == nil || d.Length <= 0 {
		return 0
	}
	return float64(d.Bases) / float64(d.Length)
}

// Table is a map of Depth with contig names as keys.
type Table map[string]*Depth

func (t Table) get(name string) *Depth {
	d, ok := t[name]
	if !ok {
		d = &Depth{}
		t[name] = d
	}
	return d
}

// Collect counts a primary, mapped, non duplicated record which passed quality controls.
func (t Table) Collect(r *sam.Record) {
	if !r.IsPrimary() || r.IsUnmapped() || r.IsDuplicate() || r.IsQCFail() {
		return
	}
	d := t.get(r.Ref.Name())
	d.Reads++
	d.Bases += uint64(r.AlignedBases())
	if r.IsUniq() {
		d.Uniq++
	}
	if r.IsFirstOfValidPair() {
		d.Pairs++
	}
	if r.IsSplit() {
		d.Split++
	}
}

// Update adds the counts of other.
func (t Table) Update(other Table) {
	for name, o := range other {
		d := t.get(name)
		d.Bases += o.Bases
		d.Reads += o.Reads
		d.Uniq += o.Uniq
		d.Pairs += o.Pairs
		d.Split += o.Split
		if o.Length > d.Length {
			d.Length = o.Length
		}
	}
}

// Merge merges tables from a channel.
func (t Table) Merge(others chan Table) {
	for other := range others {
		t.Update(other)
	}
}

// Mean returns the mean depth of a contig, 0 when not present.
func (t Table) Mean(name string) float64 {
	return t[name].Mean()
}

func worker(id int, in chan *sam.Record, out chan Table, wg *sync.WaitGroup) {
	defer wg.Done()
	logger := log.WithFields(log.Fields{
		"worker": id,
	})
	logger.Debug("Starting")
	t := make(Table)
	for record := range in {
		t.Collect(record)
	}
	logger.Debug("Done")
	out <- t
}

func waitProcess(st chan Table, wg *sync.WaitGroup) {
	wg.Wait()
	close(st)
}

// Compute reads an alignment file and returns the depth table of the aligned contigs.
func Compute(file string, cfg *config.Config) (Table, error) {
	start := time.Now()
	log.Infof("Collecting depths for %s", file)
	br, err := sam.NewReader(file, cfg)
	if err != nil {
		return nil, err
	}
	defer br.Close()

	var wg sync.WaitGroup
	st := make(chan Table, br.Workers)
	for i := 0; i < br.Workers; i++ {
		wg.Add(1)
		go worker(i+1, br.Channels[i], st, &wg)
	}
	readErr := br.Read()
	go waitProcess(st, &wg)

	t := make(Table)
	t.Merge(st)
	if readErr != nil {
		return nil, readErr
	}
	for _, ref := range br.Refs {
		t.get(ref.Name()).Length = ref.Len()
	}
	log.Infof("Depths done in %v", time.Since(start))
	return t, nil
}
