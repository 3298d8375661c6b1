package schema

import (
	"fmt"

	"raisingate/domain/dataset"
)

// Range is a closed numeric interval
type Range struct {
	Min float64 `json:"min" toml:"min"`
	Max float64 `json:"max" toml:"max"`
}

// Contains reports whether v lies within [Min, Max]
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// ColumnSpec declares what one column of a dataset must look like
type ColumnSpec struct {
	Name            string             `json:"name"`
	Type            dataset.ColumnType `json:"type"`
	Nullable        bool               `json:"nullable"`
	MaxNullFraction *float64           `json:"max_null_fraction,omitempty"` // nil: no threshold
	Range           *Range             `json:"range,omitempty"`
	Allowed         []string           `json:"allowed,omitempty"` // categorical membership
}

// Schema is the expected shape of a dataset
type Schema struct {
	Columns      []ColumnSpec `json:"columns"`
	Target       string       `json:"target"`
	DuplicateKey []string     `json:"duplicate_key"` // columns that identify a measurement
}

// Names returns the expected column names in schema order
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Spec returns the spec for a column
func (s Schema) Spec(name string) (ColumnSpec, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// Features returns the numeric column specs, excluding the target
func (s Schema) Features() []ColumnSpec {
	out := make([]ColumnSpec, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c.Name != s.Target && c.Type == dataset.TypeFloat {
			out = append(out, c)
		}
	}
	return out
}

// TargetSpec returns the spec of the target column
func (s Schema) TargetSpec() (ColumnSpec, bool) {
	return s.Spec(s.Target)
}

// Labels returns the allowed target labels
func (s Schema) Labels() []string {
	spec, ok := s.TargetSpec()
	if !ok {
		return nil
	}
	return spec.Allowed
}

// Clone returns a deep copy so callers can adjust thresholds without sharing state
func (s Schema) Clone() Schema {
	out := Schema{
		Target:       s.Target,
		DuplicateKey: append([]string(nil), s.DuplicateKey...),
		Columns:      make([]ColumnSpec, len(s.Columns)),
	}
	for i, c := range s.Columns {
		cp := c
		if c.MaxNullFraction != nil {
			f := *c.MaxNullFraction
			cp.MaxNullFraction = &f
		}
		if c.Range != nil {
			r := *c.Range
			cp.Range = &r
		}
		cp.Allowed = append([]string(nil), c.Allowed...)
		out.Columns[i] = cp
	}
	return out
}

// Column names of the raisin dataset
const (
	Area            = "Area"
	MajorAxisLength = "MajorAxisLength"
	MinorAxisLength = "MinorAxisLength"
	Eccentricity    = "Eccentricity"
	ConvexArea      = "ConvexArea"
	Extent          = "Extent"
	Perimeter       = "Perimeter"
	Class           = "Class"
)

// DefaultNullThreshold is the largest tolerated share of missing values
const DefaultNullThreshold = 0.05

// Raisin returns the expected schema of the raisin grain dataset
func Raisin() Schema {
	threshold := func() *float64 {
		f := DefaultNullThreshold
		return &f
	}
	numeric := func(name string, lo, hi float64, maxNull *float64) ColumnSpec {
		return ColumnSpec{
			Name:            name,
			Type:            dataset.TypeFloat,
			Nullable:        true,
			MaxNullFraction: maxNull,
			Range:           &Range{Min: lo, Max: hi},
		}
	}

	return Schema{
		Columns: []ColumnSpec{
			numeric(Area, 25380, 235050, threshold()),
			numeric(MajorAxisLength, 223, 1000, threshold()),
			numeric(MinorAxisLength, 140, 495, threshold()),
			numeric(Eccentricity, 0.348, 0.9622, nil),
			numeric(ConvexArea, 26138, 278218, threshold()),
			numeric(Extent, 0.379, 0.836, nil),
			numeric(Perimeter, 619, 2698, threshold()),
			{
				Name:    Class,
				Type:    dataset.TypeString,
				Allowed: []string{"Kecimen", "Besni"},
			},
		},
		Target: Class,
		DuplicateKey: []string{
			Area, Perimeter, MajorAxisLength, MinorAxisLength, Eccentricity, ConvexArea,
		},
	}
}
