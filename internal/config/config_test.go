package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raisingate/domain/schema"
	"raisingate/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.05, cfg.Gate.NullThreshold)
	assert.Equal(t, 0.9, cfg.Gate.CollinearityThreshold)
	assert.Equal(t, 0.5, cfg.Gate.LeakageThreshold)
	assert.False(t, cfg.Gate.CheckRanges)
	assert.Equal(t, 0.2, cfg.Prep.TestSize)
	assert.Equal(t, int64(123), cfg.Prep.Seed)
	assert.Equal(t, 30*time.Second, cfg.Acquire.Timeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GATE_COLLINEARITY_THRESHOLD", "0.95")
	t.Setenv("GATE_CHECK_RANGES", "true")
	t.Setenv("SPLIT_SEED", "7")
	t.Setenv("MODEL_ITERATIONS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.95, cfg.Gate.CollinearityThreshold)
	assert.True(t, cfg.Gate.CheckRanges)
	assert.Equal(t, int64(7), cfg.Prep.Seed)
	assert.Equal(t, 1000, cfg.Model.Iterations, "unparseable values fall back to the default")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"GATE_NULL_THRESHOLD", "1.5"},
		{"GATE_LEAKAGE_THRESHOLD", "-0.1"},
		{"SPLIT_TEST_SIZE", "1"},
		{"MODEL_L2", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestGateConfigWithProfile(t *testing.T) {
	path := writeProfile(t, `
null_threshold = 0.1
leakage_threshold = 0.7
check_ranges = true
labels = ["Kecimen", "Besni", "Sultana"]

[ranges.Area]
min = 20000
max = 250000
`)
	t.Setenv("GATE_PROFILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	gc, err := cfg.GateConfig()
	require.NoError(t, err)

	assert.Equal(t, 0.7, gc.LeakageThreshold)
	assert.Equal(t, 0.9, gc.CollinearityThreshold)
	assert.True(t, gc.CheckRanges)
	assert.Equal(t, []string{"Kecimen", "Besni", "Sultana"}, gc.Schema.Labels())

	area, _ := gc.Schema.Spec(schema.Area)
	assert.Equal(t, schema.Range{Min: 20000, Max: 250000}, *area.Range)
	assert.Equal(t, 0.1, *area.MaxNullFraction)

	extent, _ := gc.Schema.Spec(schema.Extent)
	assert.Nil(t, extent.MaxNullFraction, "unconstrained columns stay unconstrained")

	perimeter, _ := gc.Schema.Spec(schema.Perimeter)
	assert.Equal(t, 2698.0, perimeter.Range.Max)
}

func TestLoadProfileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "colinearity_threshold = 0.9\n"},
		{"bad toml", "null_threshold = \n"},
		{"threshold out of range", "null_threshold = 2.0\n"},
		{"inverted range", "[ranges.Area]\nmin = 5\nmax = 1\n"},
		{"unknown feature", "[ranges.Colour]\nmin = 0\nmax = 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GATE_PROFILE", writeProfile(t, tt.body))
			cfg, err := Load()
			require.NoError(t, err)

			_, err = cfg.GateConfig()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestGateConfigMissingProfile(t *testing.T) {
	t.Setenv("GATE_PROFILE", filepath.Join(t.TempDir(), "absent.toml"))
	cfg, err := Load()
	require.NoError(t, err)

	_, err = cfg.GateConfig()
	assert.Error(t, err)
}
