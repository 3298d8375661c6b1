package visualize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raisingate/domain/core"
	"raisingate/domain/dataset"
	"raisingate/internal"
	"raisingate/internal/model"
	"raisingate/internal/testkit"
)

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, path)
	require.Greater(t, len(data), 8, path)
	assert.Equal(t, "\x89PNG", string(data[:4]), path)
}

func TestEDA(t *testing.T) {
	ds := testkit.RaisinDataset(testkit.ValidRaisins(80, 3))
	dir := filepath.Join(t.TempDir(), "figures")

	paths, err := EDA(ds, "Class", dir, internal.NewLogger(internal.LogLevelError))
	require.NoError(t, err)
	assert.Len(t, paths, 4+7)
	for _, p := range paths {
		assertPNG(t, p)
	}
	assert.Contains(t, paths, filepath.Join(dir, "eda_hist_Perimeter.png"))
}

func TestPlotErrors(t *testing.T) {
	dir := t.TempDir()
	ds := dataset.MustNew(
		dataset.NewStringColumn("Area", []string{"a", "b"}),
		dataset.NewStringColumn("Class", []string{"Besni", "Kecimen"}),
	)

	err := Histogram(ds, "Class", "Area", 10, filepath.Join(dir, "h.png"))
	assert.ErrorIs(t, err, core.ErrNotNumeric)

	err = ClassDistribution(ds, "Label", filepath.Join(dir, "c.png"))
	assert.ErrorIs(t, err, core.ErrColumnNotFound)

	err = TargetCorrelation(ds, "Class", filepath.Join(dir, "t.png"))
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestModelCharts(t *testing.T) {
	dir := t.TempDir()

	m, err := model.Score(
		[]string{"Besni", "Kecimen"},
		[]string{"Besni", "Besni", "Kecimen", "Kecimen"},
		[]string{"Besni", "Kecimen", "Kecimen", "Kecimen"},
	)
	require.NoError(t, err)
	cm := filepath.Join(dir, "raisin_confusion_matrix.png")
	require.NoError(t, ConfusionMatrix(m, cm))
	assertPNG(t, cm)

	fi := filepath.Join(dir, "raisin_feature_importance.png")
	require.NoError(t, FeatureImportance([]model.Importance{
		{Feature: "Perimeter", Coefficient: -1.4},
		{Feature: "Area", Coefficient: 0.6},
	}, fi))
	assertPNG(t, fi)
}
