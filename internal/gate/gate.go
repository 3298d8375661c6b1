package gate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"raisingate/adapters/tabular/coercer"
	"raisingate/domain/core"
	"raisingate/domain/dataset"
	"raisingate/domain/schema"
	"raisingate/internal"
)

// Config carries every constant the checks depend on
type Config struct {
	Schema                schema.Schema `json:"schema"`
	CollinearityThreshold float64       `json:"collinearity_threshold"`
	LeakageThreshold      float64       `json:"leakage_threshold"`
	CheckRanges           bool          `json:"check_ranges"`
	HaltOnStructural      bool          `json:"halt_on_structural"` // stop Run after a format or column failure
	Parallel              bool          `json:"parallel"`
}

// DefaultConfig returns the raisin schema with the stock thresholds
func DefaultConfig() Config {
	return Config{
		Schema:                schema.Raisin(),
		CollinearityThreshold: 0.9,
		LeakageThreshold:      0.5,
		HaltOnStructural:      true,
		Parallel:              true,
	}
}

// Gate evaluates dataset quality checks against a schema
type Gate struct {
	config  Config
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// New creates a gate. The config is copied so later edits by the caller do not leak in.
func New(config Config) *Gate {
	config.Schema = config.Schema.Clone()
	return &Gate{
		config:  config,
		coercer: coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()),
		logger:  internal.DefaultLogger,
	}
}

// WithLogger overrides the gate's logger
func (g *Gate) WithLogger(logger *internal.Logger) *Gate {
	g.logger = logger
	return g
}

// Config returns a copy of the gate's configuration
func (g *Gate) Config() Config {
	c := g.config
	c.Schema = c.Schema.Clone()
	return c
}

type check struct {
	name CheckName
	run  func(*dataset.Dataset) (Result, error)
}

func (g *Gate) statisticalChecks() []check {
	checks := []check{
		{CheckTypes, g.CheckTypes},
		{CheckMissingValues, g.CheckMissing},
		{CheckDuplicates, g.CheckDuplicates},
	}
	if g.config.CheckRanges {
		checks = append(checks, check{CheckRanges, g.CheckRanges})
	}
	checks = append(checks,
		check{CheckCollinearity, func(ds *dataset.Dataset) (Result, error) { return g.CheckCollinearity(ds), nil }},
		check{CheckTargetLeakage, g.CheckLeakage},
	)
	return checks
}

// Run evaluates the format and column checks, then every statistical check.
// Results keep the fixed check order whatever order they complete in. When
// HaltOnStructural is set the first structural failure ends the run with
// Report.Halted true, so a bad extension never looks at ds. A missing
// expected column surfaces as an error wrapping core.ErrColumnNotFound.
func (g *Gate) Run(ctx context.Context, path string, ds *dataset.Dataset) (*Report, error) {
	report := &Report{
		ID:        core.NewReportID(),
		Source:    path,
		Rows:      ds.RowCount(),
		CreatedAt: core.Now(),
	}

	for _, structural := range []func() Result{
		func() Result { return g.CheckFormat(path) },
		func() Result { return g.CheckColumns(ds) },
	} {
		res := structural()
		report.Results = append(report.Results, res)
		if g.config.HaltOnStructural && !res.Pass {
			report.Halted = true
			g.logger.Warn("[Gate] %s check failed for %s, skipping remaining checks", res.Check, path)
			return report, nil
		}
	}

	checks := g.statisticalChecks()
	results := make([]Result, len(checks))

	eg, ctx := errgroup.WithContext(ctx)
	if !g.config.Parallel {
		eg.SetLimit(1)
	}
	for i, c := range checks {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := c.run(ds)
			if err != nil {
				return fmt.Errorf("%s check: %w", c.name, err)
			}
			results[i] = res
			g.logger.Debug("[Gate] %s: pass=%t", c.name, res.Pass)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report.Results = append(report.Results, results...)
	g.logger.Info("[Gate] validated %s (%d rows): %d failure(s)", path, report.Rows, len(report.Failures()))
	return report, nil
}
