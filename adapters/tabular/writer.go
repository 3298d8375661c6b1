package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"raisingate/domain/dataset"
)

// WriteCSV writes a dataset with a header row and no index column
func WriteCSV(w io.Writer, ds *dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for r := 0; r < ds.RowCount(); r++ {
		if err := cw.Write(ds.Row(r)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes a dataset to path, creating parent directories as needed
func SaveCSV(path string, ds *dataset.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, ds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
