package visualize

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"raisingate/domain/core"
	"raisingate/domain/dataset"
	"raisingate/internal/gate"
)

const (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
)

func save(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}

// classRows groups row indices by target label in sorted label order
func classRows(ds *dataset.Dataset, target string) ([]string, [][]int, error) {
	col, err := ds.Column(target)
	if err != nil {
		return nil, nil, err
	}
	codes, labels := col.Codes()
	rows := make([][]int, len(labels))
	for r, c := range codes {
		if math.IsNaN(c) {
			continue
		}
		rows[int(c)] = append(rows[int(c)], r)
	}
	return labels, rows, nil
}

func numericColumn(ds *dataset.Dataset, name string) (*dataset.Column, error) {
	col, err := ds.Column(name)
	if err != nil {
		return nil, err
	}
	if col.Type != dataset.TypeFloat {
		return nil, core.NewTypeError(name, core.ErrNotNumeric)
	}
	return col, nil
}

// Scatter plots y against x with one colour per class
func Scatter(ds *dataset.Dataset, target, x, y, path string) error {
	xs, err := numericColumn(ds, x)
	if err != nil {
		return err
	}
	ys, err := numericColumn(ds, y)
	if err != nil {
		return err
	}
	labels, rows, err := classRows(ds, target)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs. %s by %s", y, x, target)
	p.X.Label.Text = x
	p.Y.Label.Text = y

	for i, label := range labels {
		pts := make(plotter.XYs, 0, len(rows[i]))
		for _, r := range rows[i] {
			if xs.IsMissing(r) || ys.IsMissing(r) {
				continue
			}
			pts = append(pts, plotter.XY{X: xs.Floats[r], Y: ys.Floats[r]})
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add(label, s)
	}
	return save(p, path)
}

// Histogram overlays one histogram per class for a numeric feature
func Histogram(ds *dataset.Dataset, target, feature string, bins int, path string) error {
	col, err := numericColumn(ds, feature)
	if err != nil {
		return err
	}
	labels, rows, err := classRows(ds, target)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s by %s", feature, target)
	p.X.Label.Text = feature
	p.Y.Label.Text = "Count"

	for i, label := range labels {
		var values plotter.Values
		for _, r := range rows[i] {
			if !col.IsMissing(r) {
				values = append(values, col.Floats[r])
			}
		}
		if len(values) == 0 {
			continue
		}
		h, err := plotter.NewHist(values, bins)
		if err != nil {
			return err
		}
		h.FillColor = plotutil.Color(i)
		h.LineStyle.Color = plotutil.Color(i)
		p.Add(h)
		p.Legend.Add(label, h)
	}
	return save(p, path)
}

// ClassDistribution draws a bar per label with its row count
func ClassDistribution(ds *dataset.Dataset, target, path string) error {
	labels, rows, err := classRows(ds, target)
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		return core.ErrEmptyTable
	}
	counts := make(plotter.Values, len(labels))
	for i := range labels {
		counts[i] = float64(len(rows[i]))
	}
	return bars("Class Distribution", "Count", labels, counts, path)
}

// TargetCorrelation draws |r| between each numeric feature and the encoded
// target. Undefined correlations are drawn as zero.
func TargetCorrelation(ds *dataset.Dataset, target, path string) error {
	corrs, err := gate.CorrelateWithTarget(ds, target)
	if err != nil {
		return err
	}
	if len(corrs) == 0 {
		return core.ErrInsufficientData
	}
	names := make([]string, len(corrs))
	values := make(plotter.Values, len(corrs))
	for i, c := range corrs {
		names[i] = c.Feature
		if !math.IsNaN(c.R) {
			values[i] = math.Abs(c.R)
		}
	}
	return bars(fmt.Sprintf("|r| with %s", target), "|r|", names, values, path)
}

// Bars draws a labelled bar chart
func Bars(title, yLabel string, names []string, values []float64, path string) error {
	return bars(title, yLabel, names, plotter.Values(values), path)
}

func bars(title, yLabel string, names []string, values plotter.Values, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel

	b, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	b.Color = plotutil.Color(0)
	b.LineStyle.Width = vg.Length(0)
	p.Add(b)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = -1
	return save(p, path)
}

// matrixGrid adapts a square matrix to plotter.GridXYZ
type matrixGrid struct {
	z [][]float64
}

func (g matrixGrid) Dims() (c, r int)   { return len(g.z[0]), len(g.z) }
func (g matrixGrid) Z(c, r int) float64 { return g.z[r][c] }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

// Heatmap draws z with each cell annotated using format. Row r is drawn at
// y = r, so rowNames[0] is at the bottom.
func Heatmap(title string, colNames, rowNames []string, z [][]float64, lo, hi float64, format, path string) error {
	if len(z) == 0 || len(z[0]) == 0 {
		return core.ErrEmptyTable
	}
	if hi <= lo {
		hi = lo + 1
	}

	hm := plotter.NewHeatMap(matrixGrid{z: z}, palette.Heat(12, 1))
	hm.Min, hm.Max = lo, hi

	var pts plotter.XYs
	var text []string
	for r, row := range z {
		for c, v := range row {
			pts = append(pts, plotter.XY{X: float64(c), Y: float64(r)})
			if math.IsNaN(v) {
				text = append(text, "nan")
			} else {
				text = append(text, fmt.Sprintf(format, v))
			}
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: text})
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.Add(hm, labels)
	p.NominalX(colNames...)
	p.NominalY(rowNames...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = -1
	return save(p, path)
}

// CorrelationHeatmap draws the Pearson matrix of the numeric features
func CorrelationHeatmap(ds *dataset.Dataset, target, path string) error {
	var cols []*dataset.Column
	for _, col := range ds.Columns() {
		if col.Type == dataset.TypeFloat && col.Name != target {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return core.ErrInsufficientData
	}

	names := make([]string, len(cols))
	z := make([][]float64, len(cols))
	for i, a := range cols {
		names[i] = a.Name
		z[i] = make([]float64, len(cols))
		for j, b := range cols {
			z[i][j] = gate.Pearson(a.Floats, b.Floats)
		}
	}
	return Heatmap("Feature Correlation Matrix", names, names, z, -1, 1, "%.2f", path)
}
