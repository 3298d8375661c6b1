package model

import (
	"encoding/json"
	"fmt"
	"os"

	"raisingate/domain/core"
	"raisingate/domain/dataset"
	"raisingate/internal/prep"
)

// TrainConfig holds the gradient descent settings
type TrainConfig struct {
	LearningRate float64 `json:"learning_rate"`
	Iterations   int     `json:"iterations"`
	L2           float64 `json:"l2"`
}

// DefaultTrainConfig returns settings that converge on standardised raisin features
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{LearningRate: 0.1, Iterations: 1000, L2: 1.0}
}

// Classifier is a fitted model together with everything needed to apply it
// to raw measurements. Labels[1] is the positive class.
type Classifier struct {
	ID        core.ModelID         `json:"id"`
	Target    string               `json:"target"`
	Features  []string             `json:"features"`
	Labels    []string             `json:"labels"`
	Scaler    *prep.StandardScaler `json:"scaler"`
	Model     *LogisticRegression  `json:"model"`
	TrainedAt core.Timestamp       `json:"trained_at"`
	TrainRows int                  `json:"train_rows"`
}

// Train fits a classifier on every numeric feature of ds against target.
// Features are standardised with statistics from ds. The target must hold
// exactly two distinct labels, encoded in sorted order.
func Train(ds *dataset.Dataset, target string, config TrainConfig) (*Classifier, error) {
	col, err := ds.Column(target)
	if err != nil {
		return nil, err
	}
	codes, labels := col.Codes()
	if len(labels) != 2 {
		return nil, fmt.Errorf("%w: target %s has %d labels, want 2", core.ErrLabelCount, target, len(labels))
	}
	if col.MissingCount() > 0 {
		return nil, fmt.Errorf("%w: target %s has missing labels", core.ErrInsufficientData, target)
	}

	features := prep.FeatureNames(ds, target)
	scaler, err := prep.FitScaler(ds, features)
	if err != nil {
		return nil, err
	}

	c := &Classifier{
		ID:        core.NewModelID(),
		Target:    target,
		Features:  features,
		Labels:    labels,
		Scaler:    scaler,
		Model:     NewLogisticRegression(len(features), config.LearningRate, config.Iterations, config.L2),
		TrainedAt: core.Now(),
		TrainRows: ds.RowCount(),
	}

	X, err := c.matrix(ds)
	if err != nil {
		return nil, err
	}
	if err := c.Model.Fit(X, codes); err != nil {
		return nil, err
	}
	return c, nil
}

// matrix extracts the scaled feature rows of ds. Missing values are rejected.
func (c *Classifier) matrix(ds *dataset.Dataset) ([][]float64, error) {
	cols := make([]*dataset.Column, len(c.Features))
	for j, name := range c.Features {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		if col.Type != dataset.TypeFloat {
			return nil, core.NewTypeError(name, core.ErrNotNumeric)
		}
		if col.MissingCount() > 0 {
			return nil, fmt.Errorf("%w: feature %s has missing values", core.ErrInsufficientData, name)
		}
		cols[j] = col
	}

	X := make([][]float64, ds.RowCount())
	raw := make([]float64, len(cols))
	for i := range X {
		for j, col := range cols {
			raw[j] = col.Floats[i]
		}
		row, err := c.Scaler.Apply(raw)
		if err != nil {
			return nil, err
		}
		X[i] = row
	}
	return X, nil
}

// Predict returns a label per row of ds
func (c *Classifier) Predict(ds *dataset.Dataset) ([]string, error) {
	X, err := c.matrix(ds)
	if err != nil {
		return nil, err
	}
	pred, err := c.Model.Predict(X)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(pred))
	for i, p := range pred {
		out[i] = c.Labels[p]
	}
	return out, nil
}

// PredictProba returns the probability of Labels[1] per row of ds
func (c *Classifier) PredictProba(ds *dataset.Dataset) ([]float64, error) {
	X, err := c.matrix(ds)
	if err != nil {
		return nil, err
	}
	return c.Model.PredictProba(X)
}

// Coefficients pairs each feature with its weight on the standardised scale
func (c *Classifier) Coefficients() map[string]float64 {
	out := make(map[string]float64, len(c.Features))
	for i, f := range c.Features {
		out[f] = c.Model.Weights[i]
	}
	return out
}

// Save writes the classifier as JSON
func (c *Classifier) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a classifier written by Save
func Load(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrNotFound, path)
		}
		return nil, err
	}
	var c Classifier
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", path, err)
	}
	if c.Model == nil || c.Scaler == nil || len(c.Labels) != 2 || len(c.Model.Weights) != len(c.Features) {
		return nil, fmt.Errorf("%w: model %s is incomplete", core.ErrFeatureMismatch, path)
	}
	return &c, nil
}
