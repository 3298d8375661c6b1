package gate

import (
	"fmt"
	"path/filepath"
	"strings"

	"raisingate/domain/dataset"
)

// ValidateFileFormat reports whether the final extension of path is .csv in
// any case. It is purely lexical: "FILE.CSV" passes, "file.csv.backup" and
// ".csvfile" do not.
func ValidateFileFormat(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".csv"
}

// CheckFormat wraps ValidateFileFormat as a report result
func (g *Gate) CheckFormat(path string) Result {
	if ValidateFileFormat(path) {
		return pass(CheckFileFormat, "Correct file format")
	}
	return fail(CheckFileFormat, "Incorrect file format",
		fmt.Sprintf("expected a .csv file, got %q", filepath.Ext(path)))
}

// ValidateColumns reports whether the dataset's column names equal the
// expected set. Order and repeated names do not matter.
func (g *Gate) ValidateColumns(ds *dataset.Dataset) bool {
	want := toSet(g.config.Schema.Names())
	got := toSet(ds.ColumnNames())
	if len(want) != len(got) {
		return false
	}
	for name := range want {
		if !got[name] {
			return false
		}
	}
	return true
}

// CheckColumns reports the column-set verdict with the expected and found
// names on failure
func (g *Gate) CheckColumns(ds *dataset.Dataset) Result {
	if g.ValidateColumns(ds) {
		return pass(CheckColumns, "Column names are correct")
	}
	return fail(CheckColumns, "Column names incorrect",
		"Expected: "+pyList(g.config.Schema.Names()),
		"Found: "+pyList(ds.ColumnNames()),
	)
}

// CheckTypes verifies every numeric column holds floats and the target holds
// labels. A non-numeric token is a failed verdict naming the token. It
// requires every expected column and returns core.ErrColumnNotFound otherwise.
func (g *Gate) CheckTypes(ds *dataset.Dataset) (Result, error) {
	cols, err := g.expectedColumns(ds)
	if err != nil {
		return Result{}, err
	}

	var details []string
	for i, spec := range g.config.Schema.Columns {
		col := cols[i]
		if col.Type == spec.Type {
			continue
		}
		if spec.Type == dataset.TypeFloat {
			analysis := g.coercer.AnalyzeTypeDistribution(rawStrings(col))
			details = append(details, fmt.Sprintf(
				"%s: expected float64, found non-numeric value %q at row %d",
				spec.Name, analysis.FirstInvalid, analysis.FirstInvalidRow))
			continue
		}
		details = append(details, fmt.Sprintf("%s: expected %s, found %s", spec.Name, spec.Type, col.Type))
	}

	if len(details) > 0 {
		return fail(CheckTypes, "Data types are incorrect", details...), nil
	}
	return pass(CheckTypes, "Data types are correct"), nil
}

// expectedColumns resolves every schema column in schema order
func (g *Gate) expectedColumns(ds *dataset.Dataset) ([]*dataset.Column, error) {
	cols := make([]*dataset.Column, len(g.config.Schema.Columns))
	for i, spec := range g.config.Schema.Columns {
		col, err := ds.Column(spec.Name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return cols, nil
}

func rawStrings(col *dataset.Column) []string {
	out := make([]string, col.Len())
	for i := range out {
		out[i] = col.Raw(i)
	}
	return out
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// pyList renders names the way the CLI has always printed them: ['a', 'b']
func pyList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
