package model

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raisingate/domain/core"
	"raisingate/domain/dataset"
	"raisingate/internal/testkit"
)

func TestLogisticRegressionSeparable(t *testing.T) {
	X := [][]float64{{-2}, {-1}, {1}, {2}}
	y := []float64{0, 0, 1, 1}

	m := NewLogisticRegression(1, 0.5, 500, 0)
	require.NoError(t, m.Fit(X, y))
	assert.Greater(t, m.Weights[0], 0.0)

	pred, err := m.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1}, pred)

	loss, err := m.LogLoss(X, y)
	require.NoError(t, err)
	assert.Less(t, loss, 0.2)

	_, err = m.PredictProba([][]float64{{1, 2}})
	assert.ErrorIs(t, err, core.ErrFeatureMismatch)
	assert.ErrorIs(t, NewLogisticRegression(1, 0.1, 1, 0).Fit(nil, nil), core.ErrInsufficientData)
}

func TestRegularisationShrinksWeights(t *testing.T) {
	X := [][]float64{{-2}, {-1}, {1}, {2}}
	y := []float64{0, 0, 1, 1}

	free := NewLogisticRegression(1, 0.5, 300, 0)
	require.NoError(t, free.Fit(X, y))
	penalised := NewLogisticRegression(1, 0.5, 300, 4)
	require.NoError(t, penalised.Fit(X, y))

	assert.Less(t, math.Abs(penalised.Weights[0]), math.Abs(free.Weights[0]))
}

func TestScore(t *testing.T) {
	m, err := Score(
		[]string{"Besni", "Kecimen"},
		[]string{"Besni", "Besni", "Kecimen", "Kecimen"},
		[]string{"Besni", "Kecimen", "Kecimen", "Kecimen"},
	)
	require.NoError(t, err)

	assert.Equal(t, [][]int{{1, 1}, {0, 2}}, m.Confusion)
	assert.Equal(t, 0.75, m.Accuracy)

	besni := m.Classes[0]
	assert.Equal(t, 1.0, besni.Precision)
	assert.Equal(t, 0.5, besni.Recall)
	assert.InDelta(t, 2.0/3.0, besni.F1, 1e-12)
	assert.Equal(t, 2, besni.Support)

	kecimen := m.Classes[1]
	assert.InDelta(t, 2.0/3.0, kecimen.Precision, 1e-12)
	assert.Equal(t, 1.0, kecimen.Recall)
	assert.InDelta(t, 0.8, kecimen.F1, 1e-12)

	assert.InDelta(t, (2.0/3.0+0.8)/2, m.MacroAvg.F1, 1e-12)
	assert.Equal(t, 4, m.WeightedAvg.Support)
	assert.Contains(t, m.Report(), "accuracy")

	_, err = Score([]string{"Besni", "Kecimen"}, []string{"Sultana"}, []string{"Besni"})
	assert.ErrorIs(t, err, core.ErrLabelCount)
}

func TestTrainAndEvaluate(t *testing.T) {
	train := testkit.RaisinDataset(testkit.ValidRaisins(300, 11))
	test := testkit.RaisinDataset(testkit.ValidRaisins(100, 12))

	c, err := Train(train, "Class", DefaultTrainConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"Besni", "Kecimen"}, c.Labels)
	assert.Len(t, c.Features, 7)
	assert.False(t, c.ID.IsEmpty())

	m, err := c.Evaluate(test)
	require.NoError(t, err)
	assert.Greater(t, m.Accuracy, 0.8)
	assert.Equal(t, 100, m.Total)

	imp := c.FeatureImportance()
	for i := 1; i < len(imp); i++ {
		assert.GreaterOrEqual(t, math.Abs(imp[i-1].Coefficient), math.Abs(imp[i].Coefficient))
	}
}

func TestTrainRejectsBadTargets(t *testing.T) {
	ds := dataset.MustNew(
		dataset.NewFloatColumn("Area", []float64{1, 2, 3}),
		dataset.NewStringColumn("Class", []string{"Besni", "Kecimen", "Sultana"}),
	)
	_, err := Train(ds, "Class", DefaultTrainConfig())
	assert.ErrorIs(t, err, core.ErrLabelCount)

	_, err = Train(ds, "Label", DefaultTrainConfig())
	assert.ErrorIs(t, err, core.ErrColumnNotFound)
}

func TestWriteArtifactsAndLoad(t *testing.T) {
	train := testkit.RaisinDataset(testkit.ValidRaisins(120, 21))
	test := testkit.RaisinDataset(testkit.ValidRaisins(40, 22))

	cfg := DefaultTrainConfig()
	cfg.Iterations = 200
	c, err := Train(train, "Class", cfg)
	require.NoError(t, err)
	m, err := c.Evaluate(test)
	require.NoError(t, err)

	prefix := filepath.Join(t.TempDir(), "results", "raisin")
	paths, err := WriteArtifacts(prefix, c, m)
	require.NoError(t, err)

	for _, p := range []string{paths.Model, paths.ClassificationReport, paths.Summary, paths.FeatureImportance, paths.ConfusionMatrix} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}

	summary, err := os.ReadFile(paths.Summary)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(summary), "Model: Logistic Regression\nAccuracy: "))

	f, err := os.Open(paths.ConfusionMatrix)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"actual\\predicted", "Besni", "Kecimen"}, records[0])
	assert.Len(t, records, 3)

	loaded, err := Load(paths.Model)
	require.NoError(t, err)
	assert.Equal(t, c.ID, loaded.ID)

	want, err := c.Predict(test)
	require.NoError(t, err)
	got, err := loaded.Predict(test)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}
