package visualize

import (
	"path/filepath"

	"raisingate/domain/dataset"
	"raisingate/domain/schema"
	"raisingate/internal"
	"raisingate/internal/model"
)

// EDA writes the exploratory charts for ds into dir and returns their paths:
// the axis-length scatter, the feature correlation heatmap, the class
// distribution, |r| with the target and one class-split histogram per feature.
func EDA(ds *dataset.Dataset, target, dir string, logger *internal.Logger) ([]string, error) {
	var written []string
	add := func(path string, err error) error {
		if err != nil {
			return err
		}
		logger.Info("[Visualize] saved %s", path)
		written = append(written, path)
		return nil
	}

	if ds.Has(schema.MajorAxisLength) && ds.Has(schema.MinorAxisLength) {
		path := filepath.Join(dir, "eda_scatter_plot.png")
		if err := add(path, Scatter(ds, target, schema.MajorAxisLength, schema.MinorAxisLength, path)); err != nil {
			return written, err
		}
	}

	path := filepath.Join(dir, "eda_correlation_heatmap.png")
	if err := add(path, CorrelationHeatmap(ds, target, path)); err != nil {
		return written, err
	}
	path = filepath.Join(dir, "eda_class_distribution.png")
	if err := add(path, ClassDistribution(ds, target, path)); err != nil {
		return written, err
	}
	path = filepath.Join(dir, "eda_target_correlation.png")
	if err := add(path, TargetCorrelation(ds, target, path)); err != nil {
		return written, err
	}

	for _, col := range ds.Columns() {
		if col.Type != dataset.TypeFloat || col.Name == target {
			continue
		}
		path := filepath.Join(dir, "eda_hist_"+col.Name+".png")
		if err := add(path, Histogram(ds, target, col.Name, 20, path)); err != nil {
			return written, err
		}
	}
	return written, nil
}

// ConfusionMatrix draws the evaluation counts, actual labels on the y axis
func ConfusionMatrix(m *model.Metrics, path string) error {
	n := len(m.Labels)
	z := make([][]float64, n)
	hi := 0.0
	for r := range z {
		z[r] = make([]float64, n)
		for c := range z[r] {
			// Flip rows so the first label sits at the top.
			v := float64(m.Confusion[n-1-r][c])
			z[r][c] = v
			if v > hi {
				hi = v
			}
		}
	}
	rows := make([]string, n)
	for i, l := range m.Labels {
		rows[n-1-i] = l
	}
	return Heatmap("Confusion Matrix", m.Labels, rows, z, 0, hi, "%.0f", path)
}

// FeatureImportance draws each feature's coefficient in importance order
func FeatureImportance(imp []model.Importance, path string) error {
	names := make([]string, len(imp))
	values := make([]float64, len(imp))
	for i, f := range imp {
		names[i] = f.Feature
		values[i] = f.Coefficient
	}
	return Bars("Feature Importances (Logistic Regression Coefficients)", "Coefficient", names, values, path)
}
