package tabular

// RawTable is a table as read from disk, before any type coercion
type RawTable struct {
	Headers []string   // Column headers
	Rows    [][]string // Data rows, padded to len(Headers)
}

// Column returns the raw cells of column i
func (t *RawTable) Column(i int) []string {
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}
