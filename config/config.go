// Package config holds the run settings, unmarshalled by viper from the
// command line flags and an optional configuration file.
package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/viper"
)

// ReportFile and SummaryFile are written in the output directory.
const (
	ReportFile  = "QC_report.html"
	SummaryFile = "QC_summary.json"
)

// Config is the root-level settings struct.
type Config struct {
	// fasta files or directories holding the bins
	Genomes []string `mapstructure:"genomes"`
	// output directory
	Output string `mapstructure:"output"`
	// frame size for the GC map
	Window int `mapstructure:"window"`
	Cpu    int `mapstructure:"cpu"`
	// maximum number of buffered alignment records per worker
	MaxBuf int `mapstructure:"max-buf"`
	// CDS annotation (GFF/GTF or BED) for coding density
	Annotation string `mapstructure:"annotation"`
	// BAM or SAM file of reads mapped on the contigs
	Alignments string `mapstructure:"bam"`
	// contig to taxon assignments
	Taxonomy string `mapstructure:"taxonomy"`
	// contigs shorter than this are left out of tetranucleotide clustering
	TetraMinLength int `mapstructure:"tetra-min-length"`
	// also write the per-bin stats as JSON
	Summary bool `mapstructure:"json"`
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Output:         ".",
		Window:         5000,
		Cpu:            runtime.NumCPU(),
		MaxBuf:         1000000,
		TetraMinLength: 1000,
	}
}

// SetDefaults registers the defaults of NewConfig in v.
func SetDefaults(v *viper.Viper) {
	d := NewConfig()
	v.SetDefault("output", d.Output)
	v.SetDefault("window", d.Window)
	v.SetDefault("cpu", d.Cpu)
	v.SetDefault("max-buf", d.MaxBuf)
	v.SetDefault("tetra-min-length", d.TetraMinLength)
}

// Load reads the optional configuration file and unmarshals v into a Config.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	}
	c := NewConfig()
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return c, c.Validate()
}

// Validate checks the settings needed to build a report.
func (c *Config) Validate() error {
	if len(c.Genomes) == 0 {
		return errors.New("no input genomes specified")
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive, got %d", c.Window)
	}
	if c.Cpu <= 0 {
		return fmt.Errorf("cpu must be positive, got %d", c.Cpu)
	}
	if c.MaxBuf < 0 {
		return fmt.Errorf("max-buf must not be negative, got %d", c.MaxBuf)
	}
	if c.Output == "" {
		return errors.New("no output directory specified")
	}
	return nil
}
