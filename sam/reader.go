package sam

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/guigolab/binqc/config"
	log "github.com/sirupsen/logrus"
)

type recordReader interface {
	Read() (*sam.Record, error)
	Header() *sam.Header
}

type Reader struct {
	rr       recordReader
	f        io.Closer
	FileName string
	Workers  int
	Refs     []*sam.Reference
	Channels []chan *Record
	cfg      *config.Config
}

// NewReader opens a BAM or SAM file and prepares one record channel per worker.
func NewReader(file string, cfg *config.Config) (*Reader, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	r, err := newReader(f, file, cfg)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func newReader(f io.ReadCloser, file string, cfg *config.Config) (*Reader, error) {
	rr, err := newRecordReader(f, cfg.Cpu)
	if err != nil {
		return nil, err
	}
	workers := cfg.Cpu
	if workers < 1 {
		workers = 1
	}
	chans := make([]chan *Record, workers)
	for i := 0; i < workers; i++ {
		chans[i] = make(chan *Record, cfg.MaxBuf)
	}
	return &Reader{
		rr,
		f,
		file,
		workers,
		rr.Header().Refs(),
		chans,
		cfg,
	}, nil
}

func isBgzf(b *bufio.Reader) bool {
	m, err := b.Peek(2)
	return err == nil && bytes.Equal(m, []byte{0x1f, 0x8b})
}

func newRecordReader(r io.Reader, cpu int) (recordReader, error) {
	br := bufio.NewReader(r)
	if isBgzf(br) {
		log.Debug("Reading BAM input")
		return bam.NewReader(br, cpu)
	}
	log.Debug("Reading SAM input")
	return sam.NewReader(br)
}

// Read dispatches the records to the worker channels, round robin, and closes them when done.
func (r *Reader) Read() error {
	defer func() {
		for _, c := range r.Channels {
			close(c)
		}
	}()
	c := 0
	for {
		record, err := r.rr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		r.Channels[c%r.Workers] <- NewRecord(record)
		c++
	}
	log.WithFields(log.Fields{
		"File":    r.FileName,
		"Records": c,
	}).Debug("Reading done")
	return nil
}

// Close closes the underlying readers.
func (r *Reader) Close() error {
	if br, ok := r.rr.(*bam.Reader); ok {
		br.Close()
	}
	return r.f.Close()
}
