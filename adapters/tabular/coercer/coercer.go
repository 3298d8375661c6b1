package coercer

import (
	"math"
	"strconv"
	"strings"

	"raisingate/domain/dataset"
)

// TypeCoercer handles deterministic coercion of raw table cells into typed columns
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]bool
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold float64  `json:"numeric_threshold"` // share of present values that must parse as numbers
	MissingTokens    []string `json:"missing_tokens"`    // cell contents read as missing
	TrimSpace        bool     `json:"trim_space"`
}

// DefaultCoercionConfig mirrors the pandas read_csv defaults: a column is numeric
// only when every present cell parses, and the usual NA spellings are missing.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 1.0,
		MissingTokens: []string{
			"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
			"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
			"n/a", "nan", "null",
		},
		TrimSpace: true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	missing := make(map[string]bool, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[tok] = true
	}
	return &TypeCoercer{config: config, missing: missing}
}

func (c *TypeCoercer) clean(raw string) string {
	if c.config.TrimSpace {
		return strings.TrimSpace(raw)
	}
	return raw
}

// IsMissing reports whether a raw cell denotes a missing value
func (c *TypeCoercer) IsMissing(raw string) bool {
	return c.missing[c.clean(raw)]
}

// ParseNumeric parses a raw cell as a finite float64
func (c *TypeCoercer) ParseNumeric(raw string) (float64, bool) {
	s := c.clean(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int                `json:"total_count"`
	MissingCount    int                `json:"missing_count"`
	ValidCount      int                `json:"valid_count"`
	NumericCount    int                `json:"numeric_count"`
	NumericRatio    float64            `json:"numeric_ratio"`
	FirstInvalidRow int                `json:"first_invalid_row"` // -1 when every present cell is numeric
	FirstInvalid    string             `json:"first_invalid,omitempty"`
	RecommendedType dataset.ColumnType `json:"recommended_type"`
}

// AnalyzeTypeDistribution counts how many present cells parse as numbers and
// recommends a storage type. A column with no present cells is numeric.
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{
		TotalCount:      len(values),
		FirstInvalidRow: -1,
	}

	for i, raw := range values {
		if c.IsMissing(raw) {
			analysis.MissingCount++
			continue
		}
		analysis.ValidCount++
		if _, ok := c.ParseNumeric(raw); ok {
			analysis.NumericCount++
		} else if analysis.FirstInvalidRow < 0 {
			analysis.FirstInvalidRow = i
			analysis.FirstInvalid = raw
		}
	}

	if analysis.ValidCount == 0 {
		analysis.NumericRatio = 1
	} else {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}

	analysis.RecommendedType = dataset.TypeString
	if analysis.NumericRatio >= c.config.NumericThreshold {
		analysis.RecommendedType = dataset.TypeFloat
	}
	return analysis
}

// CoerceColumn builds a typed column from raw cells. Numeric columns store
// unparseable and missing cells as NaN; string columns keep the trimmed text.
func (c *TypeCoercer) CoerceColumn(name string, values []string) *dataset.Column {
	analysis := c.AnalyzeTypeDistribution(values)

	if analysis.RecommendedType == dataset.TypeFloat {
		floats := make([]float64, len(values))
		for i, raw := range values {
			if v, ok := c.ParseNumeric(raw); ok && !c.IsMissing(raw) {
				floats[i] = v
			} else {
				floats[i] = math.NaN()
			}
		}
		return dataset.NewFloatColumn(name, floats)
	}

	strs := make([]string, len(values))
	nulls := make([]bool, len(values))
	for i, raw := range values {
		if c.IsMissing(raw) {
			nulls[i] = true
			continue
		}
		strs[i] = c.clean(raw)
	}
	return &dataset.Column{Name: name, Type: dataset.TypeString, Strings: strs, Nulls: nulls}
}
