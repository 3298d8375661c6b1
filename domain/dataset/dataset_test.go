package dataset

import (
	"errors"
	"math"
	"testing"

	"raisingate/domain/core"
)

func sample(t *testing.T) *Dataset {
	t.Helper()
	d, err := New(
		NewFloatColumn("Area", []float64{1, 2, math.NaN(), 4}),
		NewStringColumn("Class", []string{"Kecimen", "", "Besni", "Besni"}),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return d
}

func TestNewRejectsUnequalColumns(t *testing.T) {
	_, err := New(
		NewFloatColumn("Area", []float64{1, 2, 3}),
		NewFloatColumn("Perimeter", []float64{1, 2}),
	)
	if !errors.Is(err, core.ErrLengthMismatch) {
		t.Fatalf("Expected ErrLengthMismatch, got %v", err)
	}
}

func TestColumnLookup(t *testing.T) {
	d := sample(t)

	col, err := d.Column("Area")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if col.Type != TypeFloat {
		t.Errorf("Expected float column, got %s", col.Type)
	}

	_, err = d.Column("Perimeter")
	if !errors.Is(err, core.ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
}

func TestMissingAccounting(t *testing.T) {
	d := sample(t)

	area, _ := d.Column("Area")
	if area.MissingCount() != 1 {
		t.Errorf("Expected 1 missing Area value, got %d", area.MissingCount())
	}
	if area.MissingFraction() != 0.25 {
		t.Errorf("Expected missing fraction 0.25, got %f", area.MissingFraction())
	}
	if got := area.Present(); len(got) != 3 {
		t.Errorf("Expected 3 present values, got %v", got)
	}

	class, _ := d.Column("Class")
	if !class.IsMissing(1) || class.IsMissing(0) {
		t.Error("Expected only row 1 of Class to be missing")
	}
	if class.Raw(1) != "" || class.Raw(2) != "Besni" {
		t.Errorf("Unexpected raw rendering: %q %q", class.Raw(1), class.Raw(2))
	}
}

func TestDuplicateNamesResolveToFirst(t *testing.T) {
	d := MustNew(
		NewFloatColumn("Area", []float64{1}),
		NewFloatColumn("Area", []float64{2}),
	)
	if d.ColumnCount() != 2 {
		t.Fatalf("Expected both columns kept, got %d", d.ColumnCount())
	}
	col, _ := d.Column("Area")
	if col.Floats[0] != 1 {
		t.Errorf("Expected first Area column, got %v", col.Floats)
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := sample(t)
	c := d.Clone()

	col, _ := c.Column("Area")
	col.Floats[0] = 99

	orig, _ := d.Column("Area")
	if orig.Floats[0] != 1 {
		t.Errorf("Clone shares storage with original: %v", orig.Floats)
	}
}

func TestTakeFilterSelectDrop(t *testing.T) {
	d := sample(t)

	taken := d.Take([]int{3, 0})
	if taken.RowCount() != 2 {
		t.Fatalf("Expected 2 rows, got %d", taken.RowCount())
	}
	if row := taken.Row(0); row[0] != "4" || row[1] != "Besni" {
		t.Errorf("Unexpected first row after Take: %v", row)
	}

	filtered := d.FilterRows(func(r int) bool { return r%2 == 0 })
	if filtered.RowCount() != 2 {
		t.Errorf("Expected 2 rows after filter, got %d", filtered.RowCount())
	}

	selected, err := d.Select("Class")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if names := selected.ColumnNames(); len(names) != 1 || names[0] != "Class" {
		t.Errorf("Unexpected selected columns: %v", names)
	}
	if _, err := d.Select("Missing"); !core.IsNotFoundError(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}

	dropped := d.DropColumn("Area")
	if dropped.Has("Area") || !d.Has("Area") {
		t.Error("DropColumn must remove the column from the copy only")
	}
	if dropped.RowCount() != d.RowCount() {
		t.Errorf("DropColumn changed row count: %d", dropped.RowCount())
	}
}
