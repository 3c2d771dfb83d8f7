package annotation

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"unsafe"

	"github.com/dhconnelly/rtreego"
)

var (
	cdsElement  = []byte("CDS")
	fastaMarker = []byte("##FASTA")
	gffMarker   = []byte("##gff-version")
)

type FeatureReader struct {
	r      *bufio.Reader
	format Format
	line   int
	done   bool
}

func NewFeatureReader(r *bufio.Reader) *FeatureReader {
	return &FeatureReader{
		r:      r,
		format: UNDEF,
	}
}

func isNumber(b []byte) bool {
	_, err := strconv.ParseFloat(unsafeString(b), 64)
	return err == nil
}

// scanFormat guesses the format of the first data line. GFF has 9 columns with
// a feature type in the third and coordinates in the fourth and fifth; any
// other line with at least 3 columns is BED, BED9 included.
func scanFormat(line []byte) Format {
	fields := bytes.Split(line, []byte{'\t'})
	switch {
	case len(fields) == 9 && !isNumber(fields[2]) && isNumber(fields[3]) && isNumber(fields[4]):
		return GFF
	case len(fields) >= 3:
		return BED
	default:
		return UNDEF
	}
}

// This function cannot be used to create strings that are expected to persist.
func unsafeString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

// Read returns the next feature. A nil feature with a nil error is returned
// for annotation lines which are not coding sequences.
func (r *FeatureReader) Read() (f *Feature, err error) {
	if r.done {
		return nil, io.EOF
	}
	var line []byte
	for {
		line, err = r.r.ReadBytes('\n')
		if err != nil && (err != io.EOF || len(line) == 0) {
			if err == io.EOF {
				return nil, err
			}
			return nil, &csv.ParseError{Line: r.line, Err: err}
		}
		r.line++
		if bytes.HasPrefix(line, fastaMarker) {
			r.done = true
			return nil, io.EOF
		}
		line = bytes.TrimSpace(line)
		if r.format == UNDEF && bytes.HasPrefix(line, gffMarker) {
			r.format = GFF
		}
		if !skip(line) { // ignore blank lines and comment lines
			break
		}
		if err == io.EOF {
			return nil, err
		}
	}
	if r.format == UNDEF {
		r.format = scanFormat(line)
	}
	switch r.format {
	case BED:
		f, err = readBed(line)
	case GFF:
		f, err = readGff(line)
	default:
		err = fmt.Errorf("FeatureReader, %s format error", r.format)
	}
	if err != nil {
		return nil, &csv.ParseError{Line: r.line, Err: err}
	}
	return
}

func skip(line []byte) bool {
	if len(line) == 0 {
		return true
	}
	if bytes.HasPrefix(line, []byte{'#'}) {
		return true
	}
	if bytes.HasPrefix(line, []byte("track")) || bytes.HasPrefix(line, []byte("browser")) {
		return true
	}
	return false
}

func parseInterval(b, e []byte) (begin, end float64, err error) {
	begin, err = strconv.ParseFloat(unsafeString(b), 64)
	if err != nil {
		return
	}
	end, err = strconv.ParseFloat(unsafeString(e), 64)
	return
}

func parseFeature(chr, element []byte, begin, end float64) (*Feature, error) {
	loc := rtreego.Point{begin}
	size := end - begin
	rect, err := rtreego.NewRect(loc, []float64{size})
	if err != nil {
		return nil, err
	}
	return NewFeature(chr, element, rect), nil
}

func readBed(line []byte) (*Feature, error) {
	fields := bytes.Split(line, []byte{'\t'})
	if len(fields) < 3 {
		return nil, fmt.Errorf("expected at least 3 BED fields, got %d", len(fields))
	}
	element := cdsElement
	if len(fields) > 3 && len(fields[3]) > 0 {
		element = fields[3]
	}
	s, e, err := parseInterval(fields[1], fields[2])
	if err != nil {
		return nil, err
	}
	if e <= s {
		return nil, nil
	}
	return parseFeature(fields[0], element, s, e)
}

func readGff(line []byte) (*Feature, error) {
	fields := bytes.Split(line, []byte{'\t'})
	if len(fields) != 9 {
		return nil, fmt.Errorf("expected 9 GFF fields, got %d", len(fields))
	}
	if !bytes.Equal(fields[2], cdsElement) {
		return nil, nil
	}
	s, e, err := parseInterval(fields[3], fields[4])
	if err != nil {
		return nil, err
	}
	// 1-based inclusive coordinates
	s--
	if e <= s {
		return nil, nil
	}
	return parseFeature(fields[0], fields[2], s, e)
}
