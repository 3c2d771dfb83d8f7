package annotation

import (
	"bufio"
	"io"
)

type Scanner struct {
	r    *FeatureReader
	feat *Feature
	err  error
}

// NewScanner returns a new instance of a Scanner
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{
		r: NewFeatureReader(br),
	}
}

// Next reads the next feature, skipping lines that do not describe a coding sequence.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}
	for {
		s.feat, s.err = s.r.Read()
		if s.err != nil || s.feat != nil {
			break
		}
	}
	return s.err == nil
}

// Error returns the first non-EOF error that was encountered by the Scanner.
func (s *Scanner) Error() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

// Feat returns the current read feature
func (s *Scanner) Feat() *Feature {
	return s.feat
}

// Format returns the detected format of the underlying reader
func (s *Scanner) Format() Format {
	return s.r.format
}
