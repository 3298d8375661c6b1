package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"raisingate/adapters/tabular/coercer"
	"raisingate/domain/core"
	"raisingate/domain/dataset"
	"raisingate/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading CSV and Excel files into datasets
type DataReader struct {
	filePath string
	fileType string // "csv" or "xlsx"
	config   ReaderConfig
	coercer  *coercer.TypeCoercer
	logger   *internal.Logger
}

// NewDataReader creates a reader that picks CSV or XLSX parsing from the file extension
func NewDataReader(filePath string, config ReaderConfig) *DataReader {
	return &DataReader{
		filePath: filePath,
		fileType: detectFileType(filePath),
		config:   config,
		coercer:  coercer.NewTypeCoercer(config.CoercionConfig),
		logger:   internal.DefaultLogger,
	}
}

// WithLogger overrides the reader's logger
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	r.logger = logger
	return r
}

func detectFileType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	case ".csv", ".txt", "":
		return "csv"
	default:
		return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
}

// Load reads the file and coerces every column to its inferred type
func (r *DataReader) Load() (*dataset.Dataset, error) {
	raw, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	ds, err := r.coerce(raw)
	if err != nil {
		return nil, err
	}
	ds.Name = filepath.Base(r.filePath)
	return ds, nil
}

// ReadData reads the file into raw header/row form
func (r *DataReader) ReadData() (*RawTable, error) {
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, r.filePath)
	}

	switch r.fileType {
	case "csv":
		f, err := os.Open(r.filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()
		return r.readCSV(f)
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFile, r.fileType)
	}
}

// FromRaw coerces a raw header/row table, such as records pulled from a JSON
// payload, into a typed dataset
func FromRaw(raw *RawTable, config ReaderConfig) (*dataset.Dataset, error) {
	r := &DataReader{
		config:  config,
		coercer: coercer.NewTypeCoercer(config.CoercionConfig),
		logger:  internal.DefaultLogger,
	}
	return r.coerce(raw)
}

// ReadCSV loads a dataset from an already-open CSV stream
func ReadCSV(src io.Reader, config ReaderConfig) (*dataset.Dataset, error) {
	r := &DataReader{
		fileType: "csv",
		config:   config,
		coercer:  coercer.NewTypeCoercer(config.CoercionConfig),
		logger:   internal.DefaultLogger,
	}
	raw, err := r.readCSV(src)
	if err != nil {
		return nil, err
	}
	return r.coerce(raw)
}

func (r *DataReader) readCSV(src io.Reader) (*RawTable, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Debug("[DataReader] CSV read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// readExcelData reads the configured sheet (or the first one) into raw form
func (r *DataReader) readExcelData() (*RawTable, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, core.ErrEmptyTable
		}
		sheet = sheets[0]
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	r.logger.Debug("[DataReader] Sheet %s read in %.2fms (%d rows)", sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// processRows splits off the header and normalizes row widths. Blank header
// cells get the "Unnamed: i" name an index column written by pandas carries.
func (r *DataReader) processRows(rows [][]string) (*RawTable, error) {
	if len(rows) == 0 {
		return nil, core.ErrEmptyTable
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
		if headers[i] == "" {
			headers[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}

	data := make([][]string, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) > len(headers) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i, len(row), len(headers))
		}
		if isBlank(row) {
			continue
		}
		padded := make([]string, len(headers))
		copy(padded, row)
		data = append(data, padded)
	}

	r.logger.Debug("[DataReader] %s processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(data))

	return &RawTable{Headers: headers, Rows: data}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func (r *DataReader) coerce(raw *RawTable) (*dataset.Dataset, error) {
	cols := make([]*dataset.Column, len(raw.Headers))
	for i, name := range raw.Headers {
		cols[i] = r.coercer.CoerceColumn(name, raw.Column(i))
		r.logger.Trace("[DataReader] column %s inferred as %s", name, cols[i].Type)
	}
	return dataset.New(cols...)
}
