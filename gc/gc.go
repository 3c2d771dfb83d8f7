// Package gc computes the GC content of DNA sequences, globally or by frames.
package gc

import "errors"

// ErrInvalidInput is wrapped by every precondition error returned by AverageGC.
var ErrInvalidInput = errors.New("invalid input")

var (
	// ErrEmptySequence is returned for a sequence of length zero.
	ErrEmptySequence error = &inputError{"the sequence is void"}
	// ErrInvalidFrameSize is returned when the frame size is zero or negative.
	ErrInvalidFrameSize error = &inputError{"frame size is negative or null"}
	// ErrFrameSizeTooLarge is returned when the frame size is greater than the sequence length.
	ErrFrameSizeTooLarge error = &inputError{"frame size exceeds sequence length"}
)

type inputError struct {
	msg string
}

func (e *inputError) Error() string {
	return e.msg
}

func (e *inputError) Unwrap() error {
	return ErrInvalidInput
}

type class uint8

const (
	excluded class = iota
	weak
	strong
)

// classes maps a symbol to its GC class. S (G or C) and W (A or T) resolve
// unambiguously, every other ambiguity code is excluded.
var classes [256]class

func init() {
	for _, b := range []byte("GCSgcs") {
		classes[b] = strong
	}
	for _, b := range []byte("ATUWatuw") {
		classes[b] = weak
	}
}

// Average returns the GC percentage of the whole sequence as a single element slice.
func Average(seq []byte) ([]float64, error) {
	return AverageGC(seq, len(seq))
}

// AverageGC returns the GC percentage of each consecutive frame of frameSize
// symbols in seq. The last frame is shorter when frameSize does not divide the
// sequence length.
func AverageGC(seq []byte, frameSize int) ([]float64, error) {
	if len(seq) == 0 {
		return nil, ErrEmptySequence
	}
	if frameSize <= 0 {
		return nil, ErrInvalidFrameSize
	}
	if frameSize > len(seq) {
		return nil, ErrFrameSizeTooLarge
	}
	frames := make([]float64, 0, (len(seq)+frameSize-1)/frameSize)
	for start := 0; start < len(seq); start += frameSize {
		end := start + frameSize
		if end > len(seq) {
			end = len(seq)
		}
		frames = append(frames, percent(seq[start:end]))
	}
	return frames, nil
}

// percent returns 0 for a window without countable bases.
func percent(window []byte) float64 {
	var gc, total int
	for _, b := range window {
		switch classes[b] {
		case strong:
			gc++
			total++
		case weak:
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(gc) / float64(total)
}
