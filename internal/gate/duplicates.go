package gate

import (
	"fmt"
	"strconv"
	"strings"

	"raisingate/domain/dataset"
)

// DuplicateGroups returns every set of rows that are identical across the
// duplicate key, as ascending row indices ordered by their first row. Class
// and other columns outside the key are ignored. NaN matches NaN.
func (g *Gate) DuplicateGroups(ds *dataset.Dataset) ([][]int, error) {
	keys, err := ds.RowKeys(g.config.Schema.DuplicateKey...)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string][]int, len(keys))
	var order []string
	for row, k := range keys {
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], row)
	}

	var groups [][]int
	for _, k := range order {
		if rows := byKey[k]; len(rows) > 1 {
			groups = append(groups, rows)
		}
	}
	return groups, nil
}

// CheckDuplicates fails when two rows share every duplicate-key value. Key
// columns must be numeric; a text key column is a failed verdict. It returns
// core.ErrColumnNotFound when a key column is absent.
func (g *Gate) CheckDuplicates(ds *dataset.Dataset) (Result, error) {
	for _, name := range g.config.Schema.DuplicateKey {
		col, err := ds.Column(name)
		if err != nil {
			return Result{}, err
		}
		if col.Type != dataset.TypeFloat {
			return fail(CheckDuplicates, "Duplicate validation failed",
				fmt.Sprintf("%s: key column is %s, expected float64", name, col.Type)), nil
		}
	}

	groups, err := g.DuplicateGroups(ds)
	if err != nil {
		return Result{}, err
	}
	if len(groups) == 0 {
		return pass(CheckDuplicates, "No duplicate rows found"), nil
	}

	details := make([]string, len(groups))
	for i, rows := range groups {
		idx := make([]string, len(rows))
		for j, r := range rows {
			idx[j] = strconv.Itoa(r)
		}
		details[i] = "rows " + strings.Join(idx, ", ")
	}
	return fail(CheckDuplicates, "Duplicate validation failed", details...), nil
}
