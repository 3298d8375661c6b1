package testkit

import (
	"math"
	"math/rand"

	"raisingate/domain/dataset"
	"raisingate/domain/schema"
)

// RaisinRow is one raisin measurement. NaN marks a missing feature and an
// empty Class a missing label.
type RaisinRow struct {
	Area            float64
	MajorAxisLength float64
	MinorAxisLength float64
	Eccentricity    float64
	ConvexArea      float64
	Extent          float64
	Perimeter       float64
	Class           string
}

// RaisinGeneratorConfig configures the raisin data generator
type RaisinGeneratorConfig struct {
	Rows      int     `json:"rows"`
	BesniRate float64 `json:"besni_rate"`
	Noise     float64 `json:"noise"` // relative standard deviation around the class profile
	Seed      int64   `json:"seed"`
}

// DefaultRaisinConfig returns a small balanced dataset configuration
func DefaultRaisinConfig() RaisinGeneratorConfig {
	return RaisinGeneratorConfig{
		Rows:      100,
		BesniRate: 0.5,
		Noise:     0.12,
		Seed:      42,
	}
}

type classProfile struct {
	area, major, minor, ecc, extent float64
}

// Mean measurements per variety, taken from the published dataset
var profiles = map[string]classProfile{
	"Kecimen": {area: 63413, major: 352.9, minor: 229.4, ecc: 0.743, extent: 0.706},
	"Besni":   {area: 112195, major: 509.0, minor: 279.6, ecc: 0.821, extent: 0.693},
}

// RaisinGenerator generates plausible raisin measurements that satisfy the
// raisin schema: every value in range, no missing cells, no duplicates
type RaisinGenerator struct {
	config RaisinGeneratorConfig
	rng    *rand.Rand
	bounds schema.Schema
}

// NewRaisinGenerator creates a new raisin data generator
func NewRaisinGenerator(config RaisinGeneratorConfig) *RaisinGenerator {
	return &RaisinGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
		bounds: schema.Raisin(),
	}
}

// Generate produces config.Rows rows
func (g *RaisinGenerator) Generate() []RaisinRow {
	rows := make([]RaisinRow, g.config.Rows)
	for i := range rows {
		class := "Kecimen"
		if g.rng.Float64() < g.config.BesniRate {
			class = "Besni"
		}
		rows[i] = g.row(class)
	}
	return rows
}

// Dataset generates rows and assembles them into a dataset
func (g *RaisinGenerator) Dataset() *dataset.Dataset {
	return RaisinDataset(g.Generate())
}

func (g *RaisinGenerator) row(class string) RaisinRow {
	p := profiles[class]
	major := g.clamp(schema.MajorAxisLength, g.jitter(p.major))
	minor := g.clamp(schema.MinorAxisLength, math.Min(g.jitter(p.minor), major*0.95))
	area := g.clamp(schema.Area, g.jitter(p.area))

	ecc := math.Sqrt(1 - (minor*minor)/(major*major))
	ecc = g.clamp(schema.Eccentricity, ecc*0.5+g.jitter(p.ecc)*0.5)

	// Convex hull is never smaller than the shape and perimeter tracks the ellipse.
	convex := g.clamp(schema.ConvexArea, area*(1.02+0.03*g.rng.Float64()))
	a, b := major/2, minor/2
	perimeter := g.clamp(schema.Perimeter, math.Pi*(3*(a+b)-math.Sqrt((3*a+b)*(a+3*b)))*1.05)

	return RaisinRow{
		Area:            round(area, 0),
		MajorAxisLength: round(major, 6),
		MinorAxisLength: round(minor, 6),
		Eccentricity:    round(ecc, 6),
		ConvexArea:      round(convex, 0),
		Extent:          round(g.clamp(schema.Extent, g.jitter(p.extent)), 6),
		Perimeter:       round(perimeter, 3),
		Class:           class,
	}
}

func (g *RaisinGenerator) jitter(mean float64) float64 {
	return mean * (1 + g.rng.NormFloat64()*g.config.Noise)
}

func (g *RaisinGenerator) clamp(column string, v float64) float64 {
	spec, _ := g.bounds.Spec(column)
	return math.Max(spec.Range.Min, math.Min(spec.Range.Max, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// RaisinDataset assembles rows into a dataset with the raisin column order
func RaisinDataset(rows []RaisinRow) *dataset.Dataset {
	n := len(rows)
	area := make([]float64, n)
	major := make([]float64, n)
	minor := make([]float64, n)
	ecc := make([]float64, n)
	convex := make([]float64, n)
	extent := make([]float64, n)
	perimeter := make([]float64, n)
	class := make([]string, n)
	for i, r := range rows {
		area[i] = r.Area
		major[i] = r.MajorAxisLength
		minor[i] = r.MinorAxisLength
		ecc[i] = r.Eccentricity
		convex[i] = r.ConvexArea
		extent[i] = r.Extent
		perimeter[i] = r.Perimeter
		class[i] = r.Class
	}
	return dataset.MustNew(
		dataset.NewFloatColumn(schema.Area, area),
		dataset.NewFloatColumn(schema.MajorAxisLength, major),
		dataset.NewFloatColumn(schema.MinorAxisLength, minor),
		dataset.NewFloatColumn(schema.Eccentricity, ecc),
		dataset.NewFloatColumn(schema.ConvexArea, convex),
		dataset.NewFloatColumn(schema.Extent, extent),
		dataset.NewFloatColumn(schema.Perimeter, perimeter),
		dataset.NewStringColumn(schema.Class, class),
	)
}

// ValidRaisins returns n generated rows with the default profile noise
func ValidRaisins(n int, seed int64) []RaisinRow {
	cfg := DefaultRaisinConfig()
	cfg.Rows = n
	cfg.Seed = seed
	return NewRaisinGenerator(cfg).Generate()
}
