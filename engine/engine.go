// Package engine orchestrates the conversion: it pulls rows from the
// source, dispatches them to the mappers, resolves the encounter hierarchy,
// optionally validates the finished records and assembles the transaction
// bundle.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/bundle"
	"github.com/gofhir/csv2fhir/fhir"
	"github.com/gofhir/csv2fhir/hierarchy"
	"github.com/gofhir/csv2fhir/mapper"
	"github.com/gofhir/csv2fhir/registry"
	"github.com/gofhir/csv2fhir/service"
	"github.com/gofhir/csv2fhir/terminology"
	"github.com/gofhir/csv2fhir/worker"
)

// Converter converts one dataset. It is safe for concurrent use once
// constructed; every conversion run gets its own registry, allocator and
// result.
type Converter struct {
	source    service.RowSource
	opts      *csv2fhir.Options
	validator service.Validator
	term      service.TerminologyService
	log       zerolog.Logger
	workers   int
	name      string
	metrics   *csv2fhir.Metrics
}

// Option configures a Converter.
type Option func(*Converter)

// WithValidator enables per-record validation of the assembled resources.
func WithValidator(v service.Validator) Option {
	return func(c *Converter) { c.validator = v }
}

// WithTerminology replaces the embedded terminology service.
func WithTerminology(t service.TerminologyService) Option {
	return func(c *Converter) { c.term = t }
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Converter) { c.log = log }
}

// WithWorkers sets the parallelism of per-patient conversion. A
// non-positive value uses one worker per CPU.
func WithWorkers(n int) Option {
	return func(c *Converter) { c.workers = n }
}

// WithName sets the output name that seeds the identifier of a
// whole-dataset bundle. Per-patient bundles are seeded by the patient id.
func WithName(name string) Option {
	return func(c *Converter) { c.name = name }
}

// New creates a Converter over the given row source and options. Nil
// options select the compiled-in defaults.
func New(source service.RowSource, opts *csv2fhir.Options, options ...Option) (*Converter, error) {
	if source == nil {
		return nil, errors.New("engine: row source is nil")
	}
	if opts == nil {
		opts = csv2fhir.DefaultOptions()
	}
	c := &Converter{
		source:  source,
		opts:    opts,
		log:     zerolog.Nop(),
		name:    "bundle",
		metrics: csv2fhir.NewMetrics(),
	}
	for _, o := range options {
		o(c)
	}
	if c.term == nil {
		t, err := terminology.New()
		if err != nil {
			return nil, fmt.Errorf("engine: load terminology: %w", err)
		}
		c.term = t
	}
	return c, nil
}

// Metrics returns the run-wide conversion metrics.
func (c *Converter) Metrics() *csv2fhir.Metrics { return c.metrics }

// Output is the outcome of one bundle conversion.
type Output struct {
	// PatientID is the raw, uppercased patient id in per-patient mode,
	// empty for a whole-dataset bundle.
	PatientID string

	Bundle *fhir.Bundle
	Result *csv2fhir.Result
}

// ConvertAll converts the whole dataset into a single transaction bundle.
func (c *Converter) ConvertAll(ctx context.Context) (*Output, error) {
	return c.convert(ctx, "", nil)
}

// ConvertPatient converts the rows of one patient into a bundle. The id is
// matched case-insensitively against the raw Patient-ID column.
func (c *Converter) ConvertPatient(ctx context.Context, patientID string) (*Output, error) {
	want := strings.ToUpper(strings.TrimSpace(patientID))
	return c.convert(ctx, want, func(rawPID string) bool {
		return strings.ToUpper(rawPID) == want
	})
}

// PatientIDs returns the distinct raw patient ids of the Person table,
// uppercased and sorted. Only persons get a bundle of their own; ids that
// appear solely in clinical tables have no Patient resource to anchor one.
func (c *Converter) PatientIDs() ([]string, error) {
	seen := make(map[string]struct{})
	rows, err := c.source.Rows(csv2fhir.TablePerson)
	if errors.Is(err, service.ErrMissingColumn) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		pid := strings.ToUpper(row.Get(csv2fhir.PatientIDColumn))
		if pid == "" {
			continue
		}
		seen[pid] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for pid := range seen {
		ids = append(ids, pid)
	}
	sort.Strings(ids)
	return ids, nil
}

// ConvertPerPatient converts every patient of the dataset into its own
// bundle, running the conversions on the worker pool. Outputs come back
// ordered by patient id; a row-level problem stays confined to its bundle,
// only infrastructure failures abort the run.
func (c *Converter) ConvertPerPatient(ctx context.Context) ([]*Output, error) {
	pids, err := c.PatientIDs()
	if err != nil {
		return nil, err
	}
	if len(pids) == 0 {
		return nil, nil
	}

	outputs := make([]*Output, len(pids))
	pool := worker.NewPool(ctx, c.workers)

	go func() {
		for i, pid := range pids {
			i, pid := i, pid
			pool.Submit(worker.Job{ID: pid, Run: func(ctx context.Context) error {
				out, err := c.ConvertPatient(ctx, pid)
				if err != nil {
					return err
				}
				outputs[i] = out
				return nil
			}})
		}
		pool.Wait()
	}()

	var firstErr error
	for res := range pool.Results() {
		if res.Err != nil && firstErr == nil {
			firstErr = fmt.Errorf("convert patient %s: %w", res.ID, res.Err)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return outputs, nil
}

func (c *Converter) convert(ctx context.Context, patientID string, filter func(rawPID string) bool) (*Output, error) {
	start := time.Now()
	res := &csv2fhir.Result{PatientID: patientID}
	reg := registry.New()
	docs, _ := c.source.(service.DocumentReader)
	mc := &mapper.Context{
		Options:     c.opts,
		Registry:    reg,
		Alloc:       registry.NewAllocator(c.opts),
		Result:      res,
		Terminology: c.term,
		Documents:   docs,
		Log:         c.log,
	}

	for _, table := range csv2fhir.Tables() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := c.source.Rows(table)
		if errors.Is(err, service.ErrMissingColumn) {
			// Fatal for this file only; the remaining tables convert.
			res.Error(table.String(), "", err.Error())
			c.log.Error().Str("table", table.String()).Err(err).Msg("table skipped")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read table %s: %w", table, err)
		}
		m, ok := mapper.ForTable(table)
		if !ok || len(rows) == 0 {
			continue
		}
		for _, row := range rows {
			if filter != nil && !filter(row.Get(csv2fhir.PatientIDColumn)) {
				continue
			}
			if err := m.MapRow(mc, row); err != nil {
				// Fatal for this row only.
				rowID := fmt.Sprintf("%s:%d", table.FileName(), row.Line)
				res.Error(table.String(), rowID, err.Error())
				c.log.Warn().
					Str("table", table.String()).
					Int("line", row.Line).
					Err(err).
					Msg("row skipped")
			}
		}
	}

	resolver := &hierarchy.Resolver{
		Options:  c.opts,
		Registry: reg,
		Result:   res,
		Log:      c.log,
	}
	resolver.Resolve()

	res.Records = reg.Len()
	if c.validator != nil {
		if err := c.validateRecords(ctx, reg, res); err != nil {
			return nil, err
		}
	}

	seed := patientID
	if seed == "" {
		seed = c.name
	}
	b := bundle.Assemble(reg, seed)
	c.metrics.RecordBundle(reg.Len(), res.Counts, time.Since(start))
	return &Output{PatientID: patientID, Bundle: b, Result: res}, nil
}

// validateRecords runs the configured validator over every registered
// resource. Validation problems are findings on the record, never run
// failures; only a canceled context aborts.
func (c *Converter) validateRecords(ctx context.Context, reg *registry.Registry, res *csv2fhir.Result) error {
	for _, rec := range reg.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.Marshal(rec.Resource)
		if err != nil {
			res.Error(rec.Kind.String(), rec.ID, "marshal: "+err.Error())
			continue
		}
		findings, err := c.validator.Validate(ctx, data)
		if err != nil {
			res.Error(rec.Kind.String(), rec.ID, "validate: "+err.Error())
			continue
		}
		if len(findings) == 0 {
			res.AddFinding(csv2fhir.Finding{Class: csv2fhir.FindingValid, RecordID: rec.ID})
			continue
		}
		for _, f := range findings {
			f.RecordID = rec.ID
			res.AddFinding(f)
		}
	}
	return nil
}
