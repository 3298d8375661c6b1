package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raisingate/domain/dataset"
)

func TestRaisinSchemaShape(t *testing.T) {
	s := Raisin()

	assert.Equal(t, []string{
		"Area", "MajorAxisLength", "MinorAxisLength",
		"Eccentricity", "ConvexArea", "Extent", "Perimeter", "Class",
	}, s.Names())
	assert.Equal(t, "Class", s.Target)
	assert.Equal(t, []string{"Kecimen", "Besni"}, s.Labels())
	assert.Len(t, s.Features(), 7)
	assert.Len(t, s.DuplicateKey, 6)
	assert.NotContains(t, s.DuplicateKey, "Class")
	assert.NotContains(t, s.DuplicateKey, "Extent")
}

func TestRaisinNullThresholds(t *testing.T) {
	s := Raisin()

	for _, name := range []string{Area, MajorAxisLength, MinorAxisLength, ConvexArea, Perimeter} {
		spec, ok := s.Spec(name)
		require.True(t, ok, name)
		require.NotNil(t, spec.MaxNullFraction, name)
		assert.Equal(t, 0.05, *spec.MaxNullFraction, name)
	}
	for _, name := range []string{Eccentricity, Extent} {
		spec, _ := s.Spec(name)
		assert.True(t, spec.Nullable, name)
		assert.Nil(t, spec.MaxNullFraction, name)
	}

	target, ok := s.TargetSpec()
	require.True(t, ok)
	assert.Equal(t, dataset.TypeString, target.Type)
}

func TestRangeContainsIsClosed(t *testing.T) {
	r := Range{Min: 0.379, Max: 0.836}
	assert.True(t, r.Contains(0.379))
	assert.True(t, r.Contains(0.836))
	assert.False(t, r.Contains(0.3789))
	assert.False(t, r.Contains(0.8361))
	assert.Equal(t, "[0.379, 0.836]", r.String())
}

func TestCloneDoesNotShareThresholds(t *testing.T) {
	s := Raisin()
	c := s.Clone()

	spec := c.Columns[0]
	*spec.MaxNullFraction = 0.5
	spec.Range.Max = 1

	orig, _ := s.Spec(Area)
	assert.Equal(t, 0.05, *orig.MaxNullFraction)
	assert.Equal(t, 235050.0, orig.Range.Max)
}
