package prep

import (
	"github.com/montanaflynn/stats"

	"raisingate/domain/core"
	"raisingate/domain/dataset"
)

// StandardScaler centres features on the training mean and divides by the
// population standard deviation. A constant feature gets a scale of 1.
type StandardScaler struct {
	Features []string  `json:"features"`
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
}

// FeatureNames returns the float columns of ds other than target
func FeatureNames(ds *dataset.Dataset, target string) []string {
	var names []string
	for _, col := range ds.Columns() {
		if col.Name != target && col.Type == dataset.TypeFloat {
			names = append(names, col.Name)
		}
	}
	return names
}

// FitScaler learns per-feature mean and scale from ds
func FitScaler(ds *dataset.Dataset, features []string) (*StandardScaler, error) {
	s := &StandardScaler{
		Features: append([]string(nil), features...),
		Mean:     make([]float64, len(features)),
		Scale:    make([]float64, len(features)),
	}
	for i, name := range features {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		if col.Type != dataset.TypeFloat {
			return nil, core.NewTypeError(name, core.ErrNotNumeric)
		}
		present := col.Present()
		if len(present) == 0 {
			return nil, core.ErrInsufficientData
		}
		mean, _ := stats.Mean(present)
		std, _ := stats.StandardDeviationPopulation(present)
		if std == 0 {
			std = 1
		}
		s.Mean[i] = mean
		s.Scale[i] = std
	}
	return s, nil
}

// Transform returns a copy of ds with the scaled features replaced
func (s *StandardScaler) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	pos := make(map[string]int, len(s.Features))
	for i, name := range s.Features {
		if !ds.Has(name) {
			return nil, core.NewColumnNotFoundError(name)
		}
		pos[name] = i
	}

	cols := ds.Columns()
	for c, col := range cols {
		i, ok := pos[col.Name]
		if !ok || col.Type != dataset.TypeFloat {
			continue
		}
		scaled := make([]float64, col.Len())
		for r, v := range col.Floats {
			scaled[r] = (v - s.Mean[i]) / s.Scale[i]
		}
		cols[c] = dataset.NewFloatColumn(col.Name, scaled)
	}

	out, err := dataset.New(cols...)
	if err != nil {
		return nil, err
	}
	out.Name = ds.Name
	return out, nil
}

// Apply scales one row of raw feature values in Features order
func (s *StandardScaler) Apply(row []float64) ([]float64, error) {
	if len(row) != len(s.Features) {
		return nil, core.ErrFeatureMismatch
	}
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}
