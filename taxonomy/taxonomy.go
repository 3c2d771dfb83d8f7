// Package taxonomy reads contig to taxon assignments.
package taxonomy

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shenwei356/xopen"
	"github.com/sirupsen/logrus"
)

// Unassigned is the taxon of contigs missing from the assignments.
const Unassigned = "unassigned"

// Assignments maps contig names to taxa.
type Assignments map[string]string

// Taxon returns the taxon assigned to contig.
func (a Assignments) Taxon(contig string) string {
	if t, ok := a[contig]; ok && t != "" {
		return t
	}
	return Unassigned
}

// Read reads a tab separated contig/taxon file, possibly compressed.
func Read(path string) (Assignments, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	a, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logrus.WithFields(logrus.Fields{
		"File":    path,
		"Contigs": len(a),
	}).Debug("Taxonomy loaded")
	return a, nil
}

// Parse reads assignments from r. Lines starting with # are comments and extra
// columns are ignored.
func Parse(r io.Reader) (Assignments, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	a := make(Assignments)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 2 {
			line, _ := cr.FieldPos(0)
			return nil, &csv.ParseError{StartLine: line, Line: line, Err: csv.ErrFieldCount}
		}
		contig := strings.TrimSpace(rec[0])
		if contig == "" {
			continue
		}
		a[contig] = strings.TrimSpace(rec[1])
	}
	return a, nil
}
