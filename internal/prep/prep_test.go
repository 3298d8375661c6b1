package prep

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raisingate/domain/core"
	"raisingate/domain/dataset"
	"raisingate/internal"
	"raisingate/internal/testkit"
)

func TestClean(t *testing.T) {
	raw := dataset.MustNew(
		dataset.NewFloatColumn("Unnamed: 0", []float64{0, 1, 2, 3}),
		dataset.NewStringColumn("Area", []string{"1.0", "2.0", "2.0", "3.0"}),
		dataset.NewFloatColumn("ConvexArea", []float64{3, 4, 4, math.NaN()}),
		dataset.NewFloatColumn("Class", []float64{1, 0, 0, 1}),
	)
	snapshot := raw.Clone()

	cleaned, st, err := Clean(raw, DefaultCleanConfig())
	require.NoError(t, err)

	assert.False(t, cleaned.Has("Unnamed: 0"))
	assert.Equal(t, []string{"Unnamed: 0"}, st.DroppedColumns)
	assert.Equal(t, 0, st.DuplicateRows, "the index column makes every row distinct")
	assert.Equal(t, 1, st.IncompleteRows)
	assert.Equal(t, 3, cleaned.RowCount())

	area, _ := cleaned.Column("Area")
	assert.Equal(t, dataset.TypeFloat, area.Type)
	assert.Equal(t, []float64{1, 2, 2}, area.Floats)

	class, _ := cleaned.Column("Class")
	assert.Equal(t, dataset.TypeString, class.Type)
	assert.Equal(t, []string{"1", "0", "0"}, class.Strings)

	assert.Equal(t, snapshot.Row(3), raw.Row(3), "input must not change")
}

func TestCleanDropsFullDuplicates(t *testing.T) {
	rows := testkit.ValidRaisins(5, 1)
	rows = append(rows, rows[2], rows[2])
	cleaned, st, err := Clean(testkit.RaisinDataset(rows), DefaultCleanConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, st.DuplicateRows)
	assert.Equal(t, 5, cleaned.RowCount())
	assert.Nil(t, st.DroppedColumns)
}

func TestCleanRejectsUnparseableFloat(t *testing.T) {
	raw := dataset.MustNew(
		dataset.NewStringColumn("Area", []string{"1.0", "big"}),
		dataset.NewFloatColumn("ConvexArea", []float64{3, 4}),
		dataset.NewStringColumn("Class", []string{"Besni", "Kecimen"}),
	)
	_, _, err := Clean(raw, DefaultCleanConfig())
	assert.ErrorIs(t, err, core.ErrNotNumeric)
}

func TestSplit(t *testing.T) {
	ds := dataset.MustNew(
		dataset.NewFloatColumn("Area", []float64{1, 2, 3, 4, 5}),
		dataset.NewFloatColumn("ConvexArea", []float64{10, 11, 12, 13, 14}),
		dataset.NewStringColumn("Class", []string{"A", "A", "B", "A", "B"}),
	)

	train, test, err := Split(ds, 0.2, 123)
	require.NoError(t, err)
	assert.Equal(t, 4, train.RowCount())
	assert.Equal(t, 1, test.RowCount())

	again, _, err := Split(ds, 0.2, 123)
	require.NoError(t, err)
	assert.Equal(t, train.Row(0), again.Row(0))

	area := map[string]bool{}
	for _, part := range []*dataset.Dataset{train, test} {
		for r := 0; r < part.RowCount(); r++ {
			area[part.Row(r)[0]] = true
		}
	}
	assert.Len(t, area, 5, "every row lands in exactly one split")

	_, _, err = Split(ds, 0, 1)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
	_, _, err = Split(dataset.MustNew(dataset.NewFloatColumn("Area", []float64{1})), 0.2, 1)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestScaler(t *testing.T) {
	train := dataset.MustNew(
		dataset.NewFloatColumn("Area", []float64{1, 2}),
		dataset.NewFloatColumn("ConvexArea", []float64{3, 4}),
		dataset.NewFloatColumn("Extent", []float64{7, 7}),
		dataset.NewStringColumn("Class", []string{"A", "B"}),
	)
	test := dataset.MustNew(
		dataset.NewFloatColumn("Area", []float64{5}),
		dataset.NewFloatColumn("ConvexArea", []float64{6}),
		dataset.NewFloatColumn("Extent", []float64{7}),
		dataset.NewStringColumn("Class", []string{"A"}),
	)

	features := FeatureNames(train, "Class")
	assert.Equal(t, []string{"Area", "ConvexArea", "Extent"}, features)

	s, err := FitScaler(train, features)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 3.5, 7}, s.Mean)
	assert.Equal(t, []float64{0.5, 0.5, 1}, s.Scale, "population std, constant feature scales by 1")

	scaledTrain, err := s.Transform(train)
	require.NoError(t, err)
	area, _ := scaledTrain.Column("Area")
	mean, _ := stats.Mean(area.Floats)
	assert.InDelta(t, 0, mean, 1e-9)
	assert.Equal(t, []float64{-1, 1}, area.Floats)

	scaledTest, err := s.Transform(test)
	require.NoError(t, err)
	testArea, _ := scaledTest.Column("Area")
	assert.Equal(t, []float64{7}, testArea.Floats)

	class, _ := scaledTest.Column("Class")
	assert.Equal(t, dataset.TypeString, class.Type)

	row, err := s.Apply([]float64{2, 4, 7})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 0}, row)
	_, err = s.Apply([]float64{1})
	assert.ErrorIs(t, err, core.ErrFeatureMismatch)
}

func TestProcess(t *testing.T) {
	rows := testkit.ValidRaisins(50, 2)
	rows[7].Area = math.NaN()
	rows = append(rows, rows[0])

	res, err := Process(testkit.RaisinDataset(rows), DefaultOptions(), internal.NewLogger(internal.LogLevelError))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.DuplicateRows)
	assert.Equal(t, 1, res.Stats.IncompleteRows)
	assert.Equal(t, 39, res.Train.RowCount())
	assert.Equal(t, 10, res.Test.RowCount())
	assert.Len(t, res.Scaler.Features, 7)
}

func TestSplitPaths(t *testing.T) {
	train, test := SplitPaths("data/processed/raisin.csv")
	assert.Equal(t, "data/processed/raisin_train.csv", train)
	assert.Equal(t, "data/processed/raisin_test.csv", test)

	train, _ = SplitPaths("out/raisin")
	assert.Equal(t, "out/raisin_train.csv", train)
}
