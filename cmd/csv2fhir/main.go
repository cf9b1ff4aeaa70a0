// Command csv2fhir converts a directory of clinical CSV exports into FHIR
// R4 transaction bundles.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/csvsource"
	"github.com/gofhir/csv2fhir/engine"
	"github.com/gofhir/csv2fhir/validate"
)

type cliConfig struct {
	inputDir    string
	outputDir   string
	name        string
	optionsFile string
	perPatient  bool
	pretty      bool
	validate    bool
	allowList   []string
	workers     int
	verbose     bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := &cliConfig{}
	cmd := &cobra.Command{
		Use:     "csv2fhir",
		Short:   "Convert clinical CSV exports to FHIR R4 transaction bundles",
		Version: csv2fhir.Version,
		Long: `csv2fhir reads the CSV tables of a clinical data export and converts
them into FHIR R4 transaction bundles, one for the whole dataset or one
per patient.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.inputDir, "input", "i", ".", "directory containing the CSV tables")
	f.StringVarP(&cfg.outputDir, "output", "o", "output", "directory the bundles are written to")
	f.StringVarP(&cfg.name, "name", "n", "bundle", "base name of the output files")
	f.StringVarP(&cfg.optionsFile, "config", "c", "", "converter options file (properties format)")
	f.BoolVar(&cfg.perPatient, "per-patient", false, "write one bundle per patient")
	f.BoolVar(&cfg.pretty, "pretty", false, "indent the bundle JSON")
	f.BoolVar(&cfg.validate, "validate", false, "validate every resource against the FHIR R4 definitions")
	f.StringSliceVar(&cfg.allowList, "ignore", nil, "validation diagnostics substrings to downgrade to ignorable")
	f.IntVar(&cfg.workers, "workers", 0, "parallel patient conversions, 0 = one per CPU")
	f.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func run(ctx context.Context, cfg *cliConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := newLogger(cfg.verbose)

	opts, err := csv2fhir.LoadOptions(cfg.optionsFile)
	if err != nil {
		log.Error().Err(err).Msg("load options")
		return err
	}

	engineOpts := []engine.Option{
		engine.WithLogger(log),
		engine.WithWorkers(cfg.workers),
		engine.WithName(cfg.name),
	}
	if cfg.validate {
		v, err := validate.New(ctx, validate.WithAllowList(cfg.allowList))
		if err != nil {
			log.Error().Err(err).Msg("start validator")
			return err
		}
		defer v.Close()
		engineOpts = append(engineOpts, engine.WithValidator(v))
	}

	conv, err := engine.New(csvsource.New(cfg.inputDir), opts, engineOpts...)
	if err != nil {
		log.Error().Err(err).Msg("create converter")
		return err
	}

	if err := os.MkdirAll(cfg.outputDir, 0o755); err != nil {
		log.Error().Err(err).Msg("create output directory")
		return err
	}

	start := time.Now()
	var outputs []*engine.Output
	if cfg.perPatient {
		outputs, err = conv.ConvertPerPatient(ctx)
	} else {
		var out *engine.Output
		out, err = conv.ConvertAll(ctx)
		if out != nil {
			outputs = []*engine.Output{out}
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("conversion failed")
		return err
	}

	for _, out := range outputs {
		path := outputPath(cfg, out.PatientID)
		if err := writeBundle(path, out, cfg.pretty); err != nil {
			log.Error().Err(err).Str("file", path).Msg("write bundle")
			return err
		}
		evt := log.Info().
			Str("file", path).
			Str("status", csv2fhir.Worst(out.Result.Findings).String()).
			Int("records", out.Result.Records).
			Int("errors", out.Result.Counts.Errors).
			Int("warnings", out.Result.Counts.Warnings)
		if out.PatientID != "" {
			evt = evt.Str("patient", out.PatientID)
		}
		evt.Msg("bundle written")
	}

	m := conv.Metrics()
	counts := m.Counts()
	log.Info().
		Uint64("bundles", m.Bundles()).
		Uint64("records", m.Records()).
		Int("errors", counts.Errors).
		Int("warnings", counts.Warnings).
		Int("ignored", counts.Ignored).
		Dur("elapsed", time.Since(start)).
		Msg("conversion finished")

	if counts.Errors > 0 {
		return fmt.Errorf("%d conversion errors", counts.Errors)
	}
	return nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func outputPath(cfg *cliConfig, patientID string) string {
	name := cfg.name + ".json"
	if patientID != "" {
		name = cfg.name + "-" + patientID + ".json"
	}
	return filepath.Join(cfg.outputDir, name)
}

func writeBundle(path string, out *engine.Output, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(out.Bundle, "", "  ")
	} else {
		data, err = json.Marshal(out.Bundle)
	}
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
