// Package bins loads metagenomic bins from FASTA files.
package bins

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/edsrzf/mmap-go"
	"github.com/shenwei356/xopen"
	"github.com/sirupsen/logrus"
)

var (
	fastaExts    = []string{".fa", ".fna", ".fasta", ".fas"}
	compressExts = []string{".gz", ".bz2", ".xz", ".zst"}
)

// ErrNoContigs is returned when a bin file holds no sequence.
var ErrNoContigs = errors.New("no contigs found")

// Contig represents an assembled sequence of a bin.
type Contig struct {
	Name string
	Seq  []byte
}

// Len returns the length of the contig.
func (c *Contig) Len() int {
	return len(c.Seq)
}

// Bin represents a cluster of contigs.
type Bin struct {
	Filename string
	Path     string
	Contigs  []*Contig
}

// Name returns the file name of the bin without its extensions.
func (b *Bin) Name() string {
	name := b.Filename
	for {
		ext := filepath.Ext(name)
		if ext == "" || !(hasExt(ext, fastaExts) || hasExt(ext, compressExts)) {
			return name
		}
		name = strings.TrimSuffix(name, ext)
	}
}

// Len returns the number of contigs.
func (b *Bin) Len() int {
	return len(b.Contigs)
}

// Size returns the total length of the contigs.
func (b *Bin) Size() (size int) {
	for _, c := range b.Contigs {
		size += c.Len()
	}
	return
}

// Longest returns the length of the longest contig.
func (b *Bin) Longest() (l int) {
	for _, c := range b.Contigs {
		if c.Len() > l {
			l = c.Len()
		}
	}
	return
}

// N50 returns the length of the contig at which half of the bin size is reached,
// contigs being sorted by decreasing length.
func (b *Bin) N50() int {
	if len(b.Contigs) == 0 {
		return 0
	}
	lens := make([]int, len(b.Contigs))
	for i, c := range b.Contigs {
		lens[i] = c.Len()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lens)))
	size, csum := b.Size(), 0
	for _, l := range lens {
		csum += l
		if 2*csum >= size {
			return l
		}
	}
	return lens[len(lens)-1]
}

func hasExt(ext string, exts []string) bool {
	ext = strings.ToLower(ext)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// IsFasta reports whether name has a FASTA extension, possibly followed by a compression one.
func IsFasta(name string) bool {
	ext := filepath.Ext(name)
	if hasExt(ext, compressExts) {
		ext = filepath.Ext(strings.TrimSuffix(name, ext))
	}
	return hasExt(ext, fastaExts)
}

func isCompressed(name string) bool {
	return hasExt(filepath.Ext(name), compressExts)
}

// Discover expands directories into the FASTA files they contain. Explicit file
// names are kept whatever their extension. The result is sorted and without duplicates.
func Discover(inputs []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(f string) {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(filepath.Clean(in))
			continue
		}
		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !IsFasta(e.Name()) {
				continue
			}
			add(filepath.Join(in, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Load reads all the contigs of a FASTA file into a Bin.
func Load(path string) (*Bin, error) {
	var (
		contigs []*Contig
		err     error
	)
	if isCompressed(path) {
		contigs, err = readCompressed(path)
	} else {
		contigs, err = readMapped(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(contigs) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoContigs)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	logrus.WithFields(logrus.Fields{
		"bin":     filepath.Base(path),
		"contigs": len(contigs),
	}).Debug("Bin loaded")
	return &Bin{
		Filename: filepath.Base(path),
		Path:     abs,
		Contigs:  contigs,
	}, nil
}

func readMapped(path string) ([]*Contig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, ErrNoContigs
	}
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer mm.Unmap()
	return ReadContigs(bytes.NewReader(mm))
}

func readCompressed(path string) ([]*Contig, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadContigs(r)
}

// ReadContigs parses FASTA records from r. Sequences are copied, so r may be
// backed by memory that is released afterwards.
func ReadContigs(r io.Reader) ([]*Contig, error) {
	t := linear.NewSeq("", nil, alphabet.DNAredundant)
	sc := seqio.NewScanner(fasta.NewReader(r, t))
	var contigs []*Contig
	for sc.Next() {
		s, ok := sc.Seq().(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("unexpected sequence type %T", sc.Seq())
		}
		seq := make([]byte, len(s.Seq))
		for i, l := range s.Seq {
			seq[i] = byte(l)
		}
		contigs = append(contigs, &Contig{Name: s.Name(), Seq: seq})
	}
	if err := sc.Error(); err != nil {
		return nil, err
	}
	return contigs, nil
}
