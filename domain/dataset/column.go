package dataset

import (
	"math"
	"strconv"
)

// ColumnType is the storage type of a column
type ColumnType string

const (
	TypeFloat  ColumnType = "float64"
	TypeString ColumnType = "string"
)

// Column is a named sequence of scalars of a single storage type.
// Float columns mark missing entries with NaN; string columns carry a null mask.
type Column struct {
	Name    string     `json:"name"`
	Type    ColumnType `json:"type"`
	Floats  []float64  `json:"floats,omitempty"`
	Strings []string   `json:"strings,omitempty"`
	Nulls   []bool     `json:"nulls,omitempty"`
}

// NewFloatColumn creates a float64 column. NaN values are treated as missing.
func NewFloatColumn(name string, values []float64) *Column {
	return &Column{Name: name, Type: TypeFloat, Floats: values}
}

// NewStringColumn creates a string column. Empty strings are treated as missing.
func NewStringColumn(name string, values []string) *Column {
	nulls := make([]bool, len(values))
	for i, v := range values {
		nulls[i] = v == ""
	}
	return &Column{Name: name, Type: TypeString, Strings: values, Nulls: nulls}
}

// Len returns the number of entries in the column
func (c *Column) Len() int {
	if c.Type == TypeFloat {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// IsMissing reports whether entry i is missing
func (c *Column) IsMissing(i int) bool {
	if c.Type == TypeFloat {
		return math.IsNaN(c.Floats[i])
	}
	return c.Nulls[i]
}

// MissingCount returns the number of missing entries
func (c *Column) MissingCount() int {
	count := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			count++
		}
	}
	return count
}

// MissingFraction returns the share of missing entries. An empty column has none.
func (c *Column) MissingFraction() float64 {
	n := c.Len()
	if n == 0 {
		return 0
	}
	return float64(c.MissingCount()) / float64(n)
}

// Present returns the non-missing float values in row order
func (c *Column) Present() []float64 {
	if c.Type != TypeFloat {
		return nil
	}
	out := make([]float64, 0, len(c.Floats))
	for _, v := range c.Floats {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Raw renders entry i the way it would be written back to a CSV cell
func (c *Column) Raw(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	if c.Type == TypeFloat {
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	}
	return c.Strings[i]
}

// Clone returns a deep copy of the column
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Type: c.Type}
	if c.Floats != nil {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Strings != nil {
		out.Strings = append([]string(nil), c.Strings...)
	}
	if c.Nulls != nil {
		out.Nulls = append([]bool(nil), c.Nulls...)
	}
	return out
}

// take builds a new column from the given row indices
func (c *Column) take(rows []int) *Column {
	out := &Column{Name: c.Name, Type: c.Type}
	if c.Type == TypeFloat {
		out.Floats = make([]float64, len(rows))
		for i, r := range rows {
			out.Floats[i] = c.Floats[r]
		}
		return out
	}
	out.Strings = make([]string, len(rows))
	out.Nulls = make([]bool, len(rows))
	for i, r := range rows {
		out.Strings[i] = c.Strings[r]
		out.Nulls[i] = c.Nulls[r]
	}
	return out
}
