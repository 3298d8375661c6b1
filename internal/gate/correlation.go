package gate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"raisingate/domain/dataset"
)

// FeatureCorrelation is one feature's correlation with another series
type FeatureCorrelation struct {
	Feature string  `json:"feature"`
	R       float64 `json:"r"`
}

// Pearson returns the correlation of x and y over the rows where both are
// present. It is NaN with fewer than two such rows or when either side is
// constant.
func Pearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

// numericFeatures returns the float columns other than target, in dataset
// order. A repeated name resolves to its first column.
func numericFeatures(ds *dataset.Dataset, target string) []*dataset.Column {
	seen := make(map[string]bool)
	var out []*dataset.Column
	for _, col := range ds.Columns() {
		if col.Type != dataset.TypeFloat || col.Name == target || seen[col.Name] {
			continue
		}
		seen[col.Name] = true
		out = append(out, col)
	}
	return out
}

// HighlyCorrelated scans the strict upper triangle of the feature correlation
// matrix and returns, in column order, every feature j with |r(i, j)| >
// threshold for some earlier feature i. The target is not a feature.
func HighlyCorrelated(ds *dataset.Dataset, target string, threshold float64) []string {
	cols := numericFeatures(ds, target)
	var out []string
	for j := 1; j < len(cols); j++ {
		for i := 0; i < j; i++ {
			if math.Abs(Pearson(cols[i].Floats, cols[j].Floats)) > threshold {
				out = append(out, cols[j].Name)
				break
			}
		}
	}
	return out
}

// CorrelateWithTarget encodes the target as sorted-label codes and returns
// every numeric feature's correlation with it, in dataset order. It returns
// core.ErrColumnNotFound when the target is absent.
func CorrelateWithTarget(ds *dataset.Dataset, target string) ([]FeatureCorrelation, error) {
	col, err := ds.Column(target)
	if err != nil {
		return nil, err
	}
	codes, _ := col.Codes()

	features := numericFeatures(ds, target)
	out := make([]FeatureCorrelation, len(features))
	for i, f := range features {
		out[i] = FeatureCorrelation{Feature: f.Name, R: Pearson(f.Floats, codes)}
	}
	return out, nil
}

// HighCorrelation returns the features to consider dropping for multicollinearity
func (g *Gate) HighCorrelation(ds *dataset.Dataset) []string {
	return HighlyCorrelated(ds, g.config.Schema.Target, g.config.CollinearityThreshold)
}

// TargetCorrelation returns the features whose |r| with the encoded target
// exceeds the leakage threshold. The target itself is never listed.
func (g *Gate) TargetCorrelation(ds *dataset.Dataset) ([]string, error) {
	corrs, err := CorrelateWithTarget(ds, g.config.Schema.Target)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, c := range corrs {
		if math.Abs(c.R) > g.config.LeakageThreshold {
			out = append(out, c.Feature)
		}
	}
	return out, nil
}

// CheckCollinearity reports HighCorrelation as an advisory result
func (g *Gate) CheckCollinearity(ds *dataset.Dataset) Result {
	names := g.HighCorrelation(ds)
	if len(names) == 0 {
		return advisory(CheckCollinearity, "No highly correlated features found", nil)
	}
	return advisory(CheckCollinearity,
		"Recommend dropping highly correlated features: "+pyList(names), names)
}

// CheckLeakage reports TargetCorrelation as an advisory result
func (g *Gate) CheckLeakage(ds *dataset.Dataset) (Result, error) {
	names, err := g.TargetCorrelation(ds)
	if err != nil {
		return Result{}, err
	}
	if len(names) == 0 {
		return advisory(CheckTargetLeakage, "No features highly correlated with target", nil), nil
	}
	return advisory(CheckTargetLeakage,
		fmt.Sprintf("Features highly correlated with target '%s': %s", g.config.Schema.Target, pyList(names)),
		names), nil
}
