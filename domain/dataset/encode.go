package dataset

import (
	"encoding/binary"
	"math"
	"sort"
	"strconv"
	"strings"
)

// RowKeys returns one comparable key per row over the named columns (all
// columns when none are named). Rows with equal keys hold equal values in those
// columns; NaN equals NaN and -0 equals +0, matching pandas duplicated().
func (d *Dataset) RowKeys(names ...string) ([]string, error) {
	cols := d.columns
	if len(names) > 0 {
		cols = make([]*Column, len(names))
		for i, name := range names {
			col, err := d.Column(name)
			if err != nil {
				return nil, err
			}
			cols[i] = col
		}
	}

	keys := make([]string, d.rows)
	var b strings.Builder
	var buf [8]byte
	for r := 0; r < d.rows; r++ {
		b.Reset()
		for _, col := range cols {
			switch {
			case col.IsMissing(r):
				b.WriteByte(0)
			case col.Type == TypeFloat:
				v := col.Floats[r]
				if v == 0 {
					v = 0
				}
				b.WriteByte(1)
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
				b.Write(buf[:])
			default:
				b.WriteByte(2)
				b.WriteString(strconv.Itoa(len(col.Strings[r])))
				b.WriteByte(':')
				b.WriteString(col.Strings[r])
			}
		}
		keys[r] = b.String()
	}
	return keys, nil
}

// Codes encodes a column as integer category codes assigned in sorted label
// order (numeric order for float columns). Missing entries encode as NaN.
// The returned labels are indexed by code.
func (c *Column) Codes() ([]float64, []string) {
	seen := make(map[string]float64)
	var labels []string
	var numeric []float64
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		raw := c.Raw(i)
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = 0
		labels = append(labels, raw)
		if c.Type == TypeFloat {
			numeric = append(numeric, c.Floats[i])
		}
	}

	if c.Type == TypeFloat {
		sort.Sort(byValue{labels: labels, values: numeric})
	} else {
		sort.Strings(labels)
	}
	for code, label := range labels {
		seen[label] = float64(code)
	}

	codes := make([]float64, c.Len())
	for i := range codes {
		if c.IsMissing(i) {
			codes[i] = math.NaN()
			continue
		}
		codes[i] = seen[c.Raw(i)]
	}
	return codes, labels
}

type byValue struct {
	labels []string
	values []float64
}

func (s byValue) Len() int           { return len(s.labels) }
func (s byValue) Less(i, j int) bool { return s.values[i] < s.values[j] }
func (s byValue) Swap(i, j int) {
	s.labels[i], s.labels[j] = s.labels[j], s.labels[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}
