package prep

import (
	"strings"

	"raisingate/domain/dataset"
	"raisingate/internal"
)

// Options configures the clean, split and scale pipeline
type Options struct {
	Clean    CleanConfig
	Target   string
	TestSize float64
	Seed     int64
}

// DefaultOptions matches the historical processing: 80/20 split, seed 123
func DefaultOptions() Options {
	return Options{
		Clean:    DefaultCleanConfig(),
		Target:   "Class",
		TestSize: 0.2,
		Seed:     123,
	}
}

// Result holds the processed splits and the scaler fitted on the training split
type Result struct {
	Train  *dataset.Dataset
	Test   *dataset.Dataset
	Scaler *StandardScaler
	Stats  CleanStats
}

// Process cleans ds, splits it and scales both splits with statistics
// learned from the training split only
func Process(ds *dataset.Dataset, opts Options, logger *internal.Logger) (*Result, error) {
	cleaned, stats, err := Clean(ds, opts.Clean)
	if err != nil {
		return nil, err
	}
	logger.Info("[Prep] cleaned %d -> %d rows (%d duplicate, %d incomplete)",
		stats.InputRows, stats.OutputRows, stats.DuplicateRows, stats.IncompleteRows)

	train, test, err := Split(cleaned, opts.TestSize, opts.Seed)
	if err != nil {
		return nil, err
	}

	scaler, err := FitScaler(train, FeatureNames(train, opts.Target))
	if err != nil {
		return nil, err
	}
	if train, err = scaler.Transform(train); err != nil {
		return nil, err
	}
	if test, err = scaler.Transform(test); err != nil {
		return nil, err
	}
	logger.Debug("[Prep] split into %d train / %d test rows, scaled %d features",
		train.RowCount(), test.RowCount(), len(scaler.Features))

	return &Result{Train: train, Test: test, Scaler: scaler, Stats: stats}, nil
}

// SplitPaths derives the train and test output paths by replacing ".csv"
func SplitPaths(output string) (train, test string) {
	if strings.Contains(output, ".csv") {
		return strings.Replace(output, ".csv", "_train.csv", 1), strings.Replace(output, ".csv", "_test.csv", 1)
	}
	return output + "_train.csv", output + "_test.csv"
}
