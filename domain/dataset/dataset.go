package dataset

import (
	"raisingate/domain/core"
)

// Dataset is the in-memory table every stage of the workflow operates on.
// Column order is load order; names may repeat, in which case lookups by name
// resolve to the first occurrence.
type Dataset struct {
	Name    string
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a dataset from columns of equal length
func New(columns ...*Column) (*Dataset, error) {
	d := &Dataset{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if i == 0 {
			d.rows = col.Len()
		} else if col.Len() != d.rows {
			return nil, core.NewLengthMismatchError(col.Name, col.Len(), d.rows)
		}
		if _, seen := d.index[col.Name]; !seen {
			d.index[col.Name] = i
		}
	}
	return d, nil
}

// MustNew is New for fixtures whose shape is known to be valid
func MustNew(columns ...*Column) *Dataset {
	d, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return d
}

// RowCount returns the number of rows
func (d *Dataset) RowCount() int {
	return d.rows
}

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int {
	return len(d.columns)
}

// ColumnNames returns the column names in dataset order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}
	return names
}

// Columns returns the columns in dataset order. Callers must treat them as read-only.
func (d *Dataset) Columns() []*Column {
	return append([]*Column(nil), d.columns...)
}

// Has reports whether a column with the given name exists
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column looks up a column by name, returning core.ErrColumnNotFound when absent
func (d *Dataset) Column(name string) (*Column, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, core.NewColumnNotFoundError(name)
	}
	return d.columns[i], nil
}

// Clone returns a deep copy of the dataset
func (d *Dataset) Clone() *Dataset {
	cols := make([]*Column, len(d.columns))
	for i, col := range d.columns {
		cols[i] = col.Clone()
	}
	out := MustNew(cols...)
	out.Name = d.Name
	out.rows = d.rows
	return out
}

// Select returns a dataset holding copies of the named columns, in the given order
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		col, err := d.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col.Clone())
	}
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	out.Name = d.Name
	out.rows = d.rows
	return out, nil
}

// DropColumn returns a copy of the dataset without any column of the given name
func (d *Dataset) DropColumn(name string) *Dataset {
	cols := make([]*Column, 0, len(d.columns))
	for _, col := range d.columns {
		if col.Name != name {
			cols = append(cols, col.Clone())
		}
	}
	out := MustNew(cols...)
	out.Name = d.Name
	out.rows = d.rows
	return out
}

// Take returns a new dataset made of the given rows, in the given order
func (d *Dataset) Take(rows []int) *Dataset {
	cols := make([]*Column, len(d.columns))
	for i, col := range d.columns {
		cols[i] = col.take(rows)
	}
	out := MustNew(cols...)
	out.Name = d.Name
	out.rows = len(rows)
	return out
}

// FilterRows returns a new dataset with the rows for which keep returns true
func (d *Dataset) FilterRows(keep func(row int) bool) *Dataset {
	rows := make([]int, 0, d.rows)
	for r := 0; r < d.rows; r++ {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return d.Take(rows)
}

// Row renders row r as CSV cells in column order
func (d *Dataset) Row(r int) []string {
	out := make([]string, len(d.columns))
	for i, col := range d.columns {
		out[i] = col.Raw(r)
	}
	return out
}
