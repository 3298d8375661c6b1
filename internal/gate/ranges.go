package gate

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"raisingate/domain/dataset"
)

// CheckRanges fails when any present value of a feature lies outside its
// closed interval. Missing values are skipped. Details name each offending
// column with its count and observed extremes. It returns
// core.ErrColumnNotFound when a ranged column is absent.
func (g *Gate) CheckRanges(ds *dataset.Dataset) (Result, error) {
	var details []string
	for _, spec := range g.config.Schema.Columns {
		if spec.Range == nil {
			continue
		}
		col, err := ds.Column(spec.Name)
		if err != nil {
			return Result{}, err
		}
		if col.Type != dataset.TypeFloat {
			details = append(details, fmt.Sprintf("%s: not numeric, range not checked", spec.Name))
			continue
		}

		present := col.Present()
		outside := 0
		for _, v := range present {
			if !spec.Range.Contains(v) {
				outside++
			}
		}
		if outside == 0 {
			continue
		}
		lo, _ := stats.Min(present)
		hi, _ := stats.Max(present)
		details = append(details, fmt.Sprintf("%s: %d value(s) outside %s (observed [%g, %g])",
			spec.Name, outside, spec.Range, lo, hi))
	}

	if len(details) > 0 {
		return fail(CheckRanges, "Data ranges are invalid", details...), nil
	}
	return pass(CheckRanges, "Data ranges are valid"), nil
}
