package tabular

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"raisingate/domain/core"
	"raisingate/domain/dataset"
)

const raisinCSV = `,Area,MajorAxisLength,MinorAxisLength,Eccentricity,ConvexArea,Extent,Perimeter,Class
0,87524,442.2460114,253.291155,0.819738392,90546,0.758650579,1184.04,Kecimen
1,75166,406.690687,243.0324363,0.801805234,78789,0.68412957,1121.786,Kecimen
2,,442.2460114,253.291155,NA,90546,0.758650579,1184.04,Besni
`

func TestReadCSVInfersTypes(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(raisinCSV), DefaultReaderConfig())
	require.NoError(t, err)

	assert.Equal(t, 3, ds.RowCount())
	assert.Equal(t, "Unnamed: 0", ds.ColumnNames()[0])

	area, err := ds.Column("Area")
	require.NoError(t, err)
	assert.Equal(t, dataset.TypeFloat, area.Type)
	assert.Equal(t, 1, area.MissingCount())

	ecc, _ := ds.Column("Eccentricity")
	assert.True(t, ecc.IsMissing(2))

	class, _ := ds.Column("Class")
	assert.Equal(t, dataset.TypeString, class.Type)
	assert.Equal(t, "Besni", class.Strings[2])
}

func TestReadCSVNonNumericTokenKeepsColumnAsString(t *testing.T) {
	src := "Area,Class\n0.1,Kecimen\nnot_a_float,Besni\n"
	ds, err := ReadCSV(strings.NewReader(src), DefaultReaderConfig())
	require.NoError(t, err)

	area, _ := ds.Column("Area")
	assert.Equal(t, dataset.TypeString, area.Type)
}

func TestReadCSVPadsShortRowsAndRejectsLongOnes(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("A,B\n1\n2,3\n"), DefaultReaderConfig())
	require.NoError(t, err)
	b, _ := ds.Column("B")
	assert.True(t, b.IsMissing(0))

	_, err = ReadCSV(strings.NewReader("A,B\n1,2,3\n"), DefaultReaderConfig())
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader(""), DefaultReaderConfig())
	assert.True(t, errors.Is(err, core.ErrEmptyTable))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "absent.csv"), DefaultReaderConfig()).Load()
	assert.True(t, core.IsNotFoundError(err))
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, SaveCSV(path, dataset.MustNew(dataset.NewFloatColumn("A", []float64{1}))))

	_, err := NewDataReader(path, DefaultReaderConfig()).Load()
	assert.True(t, errors.Is(err, core.ErrUnsupportedFile))
}

func TestCSVRoundTripThroughDisk(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(raisinCSV), DefaultReaderConfig())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "raisin.csv")
	require.NoError(t, SaveCSV(path, ds))

	loaded, err := NewDataReader(path, DefaultReaderConfig()).Load()
	require.NoError(t, err)
	assert.Equal(t, ds.ColumnNames(), loaded.ColumnNames())
	assert.Equal(t, "raisin.csv", loaded.Name)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, loaded))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "2,,442.2460114,253.291155,,90546,0.758650579,1184.04,Besni", lines[3])
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raisin.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Area", "Extent", "Class"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{87524, 0.75, "Kecimen"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{75166, 0.68, "Besni"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := NewDataReader(path, DefaultReaderConfig()).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"Area", "Extent", "Class"}, ds.ColumnNames())
	area, _ := ds.Column("Area")
	assert.Equal(t, dataset.TypeFloat, area.Type)
	assert.Equal(t, []float64{87524, 75166}, area.Floats)
	class, _ := ds.Column("Class")
	assert.Equal(t, dataset.TypeString, class.Type)
}
