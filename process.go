// Package binqc builds quality control reports of metagenomic bins.
package binqc

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/guigolab/binqc/annotation"
	"github.com/guigolab/binqc/bins"
	"github.com/guigolab/binqc/config"
	"github.com/guigolab/binqc/coverage"
	"github.com/guigolab/binqc/gc"
	"github.com/guigolab/binqc/report"
	"github.com/guigolab/binqc/stats"
	"github.com/guigolab/binqc/taxonomy"
	"github.com/guigolab/binqc/utils"
	log "github.com/sirupsen/logrus"
)

func init() {
	log.SetLevel(log.WarnLevel)
}

// ErrNoBins is returned when the inputs hold no FASTA file.
var ErrNoBins = errors.New("no bins found")

type job struct {
	id   int
	path string
}

type result struct {
	id   int
	data *report.BinData
	err  error
}

// inputs shared by all the bins
type inputs struct {
	index  annotation.RtreeMap
	depths coverage.Table
	taxa   taxonomy.Assignments
}

func loadInputs(cfg *config.Config) (*inputs, error) {
	in := &inputs{}
	var err error
	if cfg.Annotation != "" {
		log.Infof("Creating index for %s", cfg.Annotation)
		start := time.Now()
		if in.index, err = annotation.CreateIndex(cfg.Annotation); err != nil {
			return nil, fmt.Errorf("annotation: %w", err)
		}
		log.Infof("Index done in %v", time.Since(start))
	}
	if cfg.Alignments != "" {
		if in.depths, err = coverage.Compute(cfg.Alignments, cfg); err != nil {
			return nil, fmt.Errorf("alignments: %w", err)
		}
	}
	if cfg.Taxonomy != "" {
		if in.taxa, err = taxonomy.Read(cfg.Taxonomy); err != nil {
			return nil, fmt.Errorf("taxonomy: %w", err)
		}
	}
	return in, nil
}

func processBin(path string, in *inputs, cfg *config.Config) (*report.BinData, error) {
	b, err := bins.Load(path)
	if err != nil {
		return nil, err
	}
	sm := stats.NewMap(cfg, in.index, in.depths, in.taxa)
	if err := sm.Collect(b); err != nil {
		return nil, err
	}
	return report.NewBinData(b, sm, cfg.Window)
}

func worker(id int, jobs chan job, out chan result, in *inputs, cfg *config.Config, wg *sync.WaitGroup) {
	defer wg.Done()
	logger := log.WithFields(log.Fields{
		"worker": id,
	})
	logger.Debug("Starting")
	for j := range jobs {
		logger.WithField("bin", j.path).Debug("Processing")
		bd, err := processBin(j.path, in, cfg)
		out <- result{j.id, bd, err}
	}
	logger.Debug("Done")
}

func waitProcess(out chan result, wg *sync.WaitGroup) {
	wg.Wait()
	close(out)
}

// Process loads the bins of cfg and computes their stats and plots with cfg.Cpu
// workers. The bins of the report follow the order of their paths. The first
// failing bin aborts the whole report.
func Process(cfg *config.Config) (*report.Report, error) {
	paths, err := bins.Discover(cfg.Genomes)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoBins
	}
	in, err := loadInputs(cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	log.Infof("Collecting stats for %d bins", len(paths))
	jobs := make(chan job)
	done := make(chan struct{})
	go func() {
		defer close(jobs)
		for i, p := range paths {
			select {
			case jobs <- job{i, p}:
			case <-done:
				return
			}
		}
	}()

	var wg sync.WaitGroup
	workers := utils.Max(1, utils.Min(cfg.Cpu, len(paths)))
	out := make(chan result, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker(i+1, jobs, out, in, cfg, &wg)
	}
	go waitProcess(out, &wg)

	r := &report.Report{
		Header: report.NewHeader(cfg, Version()),
		Bins:   make([]*report.BinData, len(paths)),
	}
	var firstErr error
	for res := range out {
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", paths[res.id], res.err)
				close(done)
			}
			continue
		}
		r.Bins[res.id] = res.data
	}
	if firstErr != nil {
		return nil, firstErr
	}
	log.Infof("Stats done in %v", time.Since(start))
	return r, nil
}

// Run builds the report of cfg and writes it, with the JSON summary when asked.
func Run(cfg *config.Config) error {
	r, err := Process(cfg)
	if err != nil {
		return err
	}
	if err := r.Write(cfg.Output); err != nil {
		return err
	}
	if cfg.Summary {
		return r.WriteSummary(cfg.Output)
	}
	return nil
}

// WriteGC writes the GC percentage of each frame of the contigs of a FASTA file
// as tab separated contig, frame and GC columns. A frame size of zero or less
// measures each contig as a whole. Nothing is written unless every contig can
// be measured.
func WriteGC(w io.Writer, path string, frameSize int) error {
	b, err := bins.Load(path)
	if err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteString("contig\tframe\tgc\n")
	for _, c := range b.Contigs {
		var frames []float64
		if frameSize <= 0 {
			frames, err = gc.Average(c.Seq)
		} else {
			frames, err = gc.AverageGC(c.Seq, frameSize)
		}
		if err != nil {
			return fmt.Errorf("contig %s: %w", c.Name, err)
		}
		for i, v := range frames {
			sb.WriteString(c.Name + "\t" + strconv.Itoa(i+1) + "\t" + strconv.FormatFloat(v, 'f', -1, 64) + "\n")
		}
	}
	_, err = io.WriteString(w, sb.String())
	return err
}
