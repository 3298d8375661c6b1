package prep

import (
	"fmt"

	"raisingate/adapters/tabular/coercer"
	"raisingate/domain/core"
	"raisingate/domain/dataset"
	"raisingate/domain/schema"
)

// CleanConfig lists the column fixes applied while cleaning
type CleanConfig struct {
	DropColumns []string `json:"drop_columns"` // removed when present
	Float       []string `json:"float"`        // coerced to float64
	Categorical []string `json:"categorical"`  // coerced to string labels
}

// DefaultCleanConfig drops the index column pandas writes and pins the types
// of the columns that are sometimes read as integers
func DefaultCleanConfig() CleanConfig {
	return CleanConfig{
		DropColumns: []string{"Unnamed: 0"},
		Float:       []string{schema.Area, schema.ConvexArea},
		Categorical: []string{schema.Class},
	}
}

// CleanStats records what cleaning removed
type CleanStats struct {
	InputRows      int      `json:"input_rows"`
	DuplicateRows  int      `json:"duplicate_rows"`
	IncompleteRows int      `json:"incomplete_rows"`
	OutputRows     int      `json:"output_rows"`
	DroppedColumns []string `json:"dropped_columns,omitempty"`
}

// Clean drops rows duplicated across every column (keeping the first), then
// rows with any missing value, then the configured columns, and finally
// coerces column types. The input is left untouched.
func Clean(ds *dataset.Dataset, config CleanConfig) (*dataset.Dataset, CleanStats, error) {
	stats := CleanStats{InputRows: ds.RowCount()}

	keys, err := ds.RowKeys()
	if err != nil {
		return nil, stats, err
	}
	seen := make(map[string]bool, len(keys))
	out := ds.FilterRows(func(r int) bool {
		if seen[keys[r]] {
			return false
		}
		seen[keys[r]] = true
		return true
	})
	stats.DuplicateRows = ds.RowCount() - out.RowCount()

	deduped := out.RowCount()
	cols := out.Columns()
	out = out.FilterRows(func(r int) bool {
		for _, c := range cols {
			if c.IsMissing(r) {
				return false
			}
		}
		return true
	})
	stats.IncompleteRows = deduped - out.RowCount()

	for _, name := range config.DropColumns {
		if out.Has(name) {
			out = out.DropColumn(name)
			stats.DroppedColumns = append(stats.DroppedColumns, name)
		}
	}

	if out, err = coerceTypes(out, config); err != nil {
		return nil, stats, err
	}
	stats.OutputRows = out.RowCount()
	return out, stats, nil
}

func coerceTypes(ds *dataset.Dataset, config CleanConfig) (*dataset.Dataset, error) {
	c := coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	want := make(map[string]dataset.ColumnType)
	for _, name := range config.Float {
		want[name] = dataset.TypeFloat
	}
	for _, name := range config.Categorical {
		want[name] = dataset.TypeString
	}

	cols := ds.Columns()
	for i, col := range cols {
		t, ok := want[col.Name]
		if !ok || col.Type == t {
			continue
		}
		if t == dataset.TypeString {
			labels := make([]string, col.Len())
			for r := range labels {
				labels[r] = col.Raw(r)
			}
			cols[i] = dataset.NewStringColumn(col.Name, labels)
			continue
		}
		floats := make([]float64, col.Len())
		for r := range floats {
			v, ok := c.ParseNumeric(col.Strings[r])
			if !ok {
				return nil, fmt.Errorf("%w: value %q at row %d",
					core.NewTypeError(col.Name, core.ErrNotNumeric), col.Strings[r], r)
			}
			floats[r] = v
		}
		cols[i] = dataset.NewFloatColumn(col.Name, floats)
	}

	for name := range want {
		if !ds.Has(name) {
			return nil, core.NewColumnNotFoundError(name)
		}
	}

	out, err := dataset.New(cols...)
	if err != nil {
		return nil, err
	}
	out.Name = ds.Name
	return out, nil
}
