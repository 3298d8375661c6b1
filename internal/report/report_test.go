package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raisingate/domain/schema"
	"raisingate/internal/gate"
	"raisingate/internal/testkit"
)

func runGate(t *testing.T, path string, rows []testkit.RaisinRow) *gate.Report {
	t.Helper()
	r, err := gate.New(gate.DefaultConfig()).Run(context.Background(), path, testkit.RaisinDataset(rows))
	require.NoError(t, err)
	return r
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatText, true},
		{"JSON", FormatJSON, true},
		{"md", FormatMarkdown, true},
		{"html", FormatHTML, true},
		{"yaml", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.ok {
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got)
		} else {
			assert.Error(t, err, tt.in)
		}
	}
}

func TestTextWording(t *testing.T) {
	r := runGate(t, "raisin.csv", testkit.ValidRaisins(30, 1))

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, r))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	assert.Equal(t, "Correct file format", lines[0])
	assert.Equal(t, "Column names are correct", lines[1])
	assert.Equal(t, "Data types are correct", lines[2])
	assert.Equal(t, "Missing values within acceptable threshold", lines[3])
	assert.Equal(t, "No duplicate rows found", lines[4])
	assert.Equal(t, "Validation complete!", lines[len(lines)-1])
}

func TestTextHaltedColumns(t *testing.T) {
	ds := testkit.RaisinDataset(testkit.ValidRaisins(5, 2)).DropColumn(schema.Extent)
	r, err := gate.New(gate.DefaultConfig()).Run(context.Background(), "raisin.csv", ds)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "Column names incorrect\nExpected: [")
	assert.Contains(t, out, "\nFound: [")
	assert.NotContains(t, out, "Validation complete!")
}

func TestJSON(t *testing.T) {
	r := runGate(t, "raisin.csv", testkit.ValidRaisins(10, 3))

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, r))

	var decoded gate.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.ID, decoded.ID)
	assert.Equal(t, r.Results, decoded.Results)
}

func TestMarkdownAndHTML(t *testing.T) {
	rows := testkit.ValidRaisins(10, 4)
	rows[1] = rows[0]
	r := runGate(t, "raisin.csv", rows)

	md := string(Markdown(r))
	assert.Contains(t, md, "| duplicates | FAIL | Duplicate validation failed |")
	assert.Contains(t, md, "## duplicates\n\n- rows 0, 1")
	assert.Contains(t, md, "**Verdict:** failed (1)")

	page := string(HTML(r))
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<title>Validation report: raisin.csv</title>")
	assert.Contains(t, page, "Duplicate validation failed")
}
