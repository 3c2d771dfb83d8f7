package utils

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Check logs err and exits.
func Check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func Max(a, b int) int {
	if a < b {
		return b
	}
	return a
}

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// OutputJSON writes the indented json representation of stats to an io.Writer
func OutputJSON(writer io.Writer, stats interface{}) error {
	b, err := json.MarshalIndent(stats, "", "\t")
	if err != nil {
		return err
	}
	if _, err = writer.Write(b); err != nil {
		return err
	}
	if w, ok := writer.(*bufio.Writer); ok {
		return w.Flush()
	}
	return nil
}

type output struct {
	*bufio.Writer
	f *os.File
}

func (o *output) Close() error {
	if err := o.Flush(); err != nil {
		o.f.Close()
		return err
	}
	if o.f == os.Stdout {
		return nil
	}
	return o.f.Close()
}

// NewOutput returns a buffered io.WriteCloser given an output file name. If the file name is '-' os.Stdout is used
// and closing does not close it.
func NewOutput(name string) (io.WriteCloser, error) {
	switch name {
	case "-":
		return &output{bufio.NewWriter(os.Stdout), os.Stdout}, nil
	default:
		f, err := os.Create(name)
		if err != nil {
			return nil, err
		}
		return &output{bufio.NewWriter(f), f}, nil
	}
}
