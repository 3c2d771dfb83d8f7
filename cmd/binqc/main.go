package main

import (
	"os"
	"runtime"

	"github.com/guigolab/binqc"
	"github.com/guigolab/binqc/config"
	"github.com/guigolab/binqc/utils"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var loglevel string

func setLogLevel(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(loglevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}

func newReportCmd() *cobra.Command {
	var configFile string
	v := viper.New()
	c := &cobra.Command{
		Use:   "report",
		Short: "Build the QC report of a set of bins",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			logger := log.WithFields(log.Fields{
				"version": binqc.Version(),
				"bins":    cfg.Genomes,
			})
			logger.Infof("Running %s", cmd.Use)
			log.Infof("Using %v out of %v logical CPUs", cfg.Cpu, runtime.NumCPU())
			return binqc.Run(cfg)
		},
	}
	d := config.NewConfig()
	f := c.Flags()
	f.StringSliceP("genomes", "g", nil, "bin FASTA files or directories of bins (required)")
	f.StringP("output", "o", d.Output, "output directory")
	f.IntP("window", "w", d.Window, "frame size for the GC content")
	f.IntP("cpu", "c", d.Cpu, "number of cpus to be used")
	f.Int("max-buf", d.MaxBuf, "maximum number of buffered alignment records")
	f.StringP("annotation", "a", "", "CDS annotation file (GFF/GTF or BED)")
	f.StringP("bam", "b", "", "alignments of reads on the contigs (BAM or SAM)")
	f.StringP("taxonomy", "t", "", "contig to taxon assignments (TSV)")
	f.Int("tetra-min-length", d.TetraMinLength, "minimum contig length for tetranucleotide clustering")
	f.Bool("json", false, "also write the stats as JSON")
	f.StringVar(&configFile, "config", "", "configuration file (YAML, TOML or JSON)")
	config.SetDefaults(v)
	utils.Check(v.BindPFlags(f))
	return c
}

func newGCCmd() *cobra.Command {
	var input, output string
	var frame int
	c := &cobra.Command{
		Use:   "gc",
		Short: "Print the GC content of the contigs of a FASTA file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := utils.NewOutput(output)
			if err != nil {
				return err
			}
			if err := binqc.WriteGC(out, input, frame); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		},
	}
	c.Flags().StringVarP(&input, "input", "i", "", "input FASTA file (required)")
	c.Flags().IntVarP(&frame, "window", "w", 0, "frame size, the whole contig when 0")
	c.Flags().StringVarP(&output, "output", "o", "-", "output file")
	c.MarkFlagRequired("input")
	return c
}

func main() {
	var rootCmd = &cobra.Command{
		Use:               "binqc",
		Short:             "Quality control of metagenomic bins",
		Long:              "binqc - build an HTML quality control report of metagenomic bins",
		Version:           binqc.BuildInfo(),
		PersistentPreRunE: setLogLevel,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	rootCmd.PersistentFlags().StringVarP(&loglevel, "loglevel", "", "warn", "logging level")
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "== %s ==\n" .}}{{end}}{{printf "%s\n" .Version}}`)
	rootCmd.AddCommand(newReportCmd(), newGCCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
