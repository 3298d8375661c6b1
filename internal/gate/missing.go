package gate

import (
	"fmt"
	"strings"

	"raisingate/domain/dataset"
)

// CheckMissing applies each column's null constraint. Columns with a threshold
// pass when missing/rows <= threshold. Non-nullable columns tolerate no
// missing values, and a column with allowed labels requires every value to be
// one of them. Nullable columns without a threshold are not constrained. It
// requires every expected column and returns core.ErrColumnNotFound otherwise.
func (g *Gate) CheckMissing(ds *dataset.Dataset) (Result, error) {
	cols, err := g.expectedColumns(ds)
	if err != nil {
		return Result{}, err
	}

	var details []string
	for i, spec := range g.config.Schema.Columns {
		col := cols[i]
		switch {
		case len(spec.Allowed) > 0:
			if d := checkMembership(col, spec.Allowed); d != "" {
				details = append(details, d)
			}
		case spec.MaxNullFraction != nil:
			frac := col.MissingFraction()
			if frac > *spec.MaxNullFraction {
				details = append(details, fmt.Sprintf("%s: %.2f%% missing exceeds %.2f%%",
					spec.Name, frac*100, *spec.MaxNullFraction*100))
			}
		case !spec.Nullable:
			if n := col.MissingCount(); n > 0 {
				details = append(details, fmt.Sprintf("%s: %d missing value(s) in non-nullable column", spec.Name, n))
			}
		}
	}

	if len(details) > 0 {
		return fail(CheckMissingValues, "Missing values validation failed", details...), nil
	}
	return pass(CheckMissingValues, "Missing values within acceptable threshold"), nil
}

// checkMembership returns a diagnostic when any value is missing or outside allowed
func checkMembership(col *dataset.Column, allowed []string) string {
	ok := toSet(allowed)
	missing := 0
	bad := make(map[string]int)
	var order []string
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			missing++
			continue
		}
		v := col.Raw(i)
		if ok[v] {
			continue
		}
		if bad[v] == 0 {
			order = append(order, v)
		}
		bad[v]++
	}
	if missing == 0 && len(order) == 0 {
		return ""
	}

	var parts []string
	if missing > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", missing))
	}
	for _, v := range order {
		parts = append(parts, fmt.Sprintf("%q x%d", v, bad[v]))
	}
	return fmt.Sprintf("%s: values outside %s: %s", col.Name, pyList(allowed), strings.Join(parts, ", "))
}
