package model

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Artifacts are the files written for a fitted model
type Artifacts struct {
	Model                string `json:"model"`
	ClassificationReport string `json:"classification_report"`
	Summary              string `json:"summary"`
	FeatureImportance    string `json:"feature_importance"`
	ConfusionMatrix      string `json:"confusion_matrix"`
}

// ArtifactPaths derives every artifact path from an output prefix
func ArtifactPaths(prefix string) Artifacts {
	return Artifacts{
		Model:                prefix + "_model.json",
		ClassificationReport: prefix + "_classification_report.csv",
		Summary:              prefix + "_model_summary.txt",
		FeatureImportance:    prefix + "_feature_importance.csv",
		ConfusionMatrix:      prefix + "_confusion_matrix.csv",
	}
}

// Importance is a feature's coefficient on the standardised scale
type Importance struct {
	Feature     string
	Coefficient float64
}

// FeatureImportance orders features by absolute coefficient, largest first
func (c *Classifier) FeatureImportance() []Importance {
	out := make([]Importance, len(c.Features))
	for i, f := range c.Features {
		out[i] = Importance{Feature: f, Coefficient: c.Model.Weights[i]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Coefficient) > math.Abs(out[j].Coefficient)
	})
	return out
}

// WriteArtifacts saves the model and its evaluation under prefix
func WriteArtifacts(prefix string, c *Classifier, m *Metrics) (Artifacts, error) {
	paths := ArtifactPaths(prefix)
	if dir := filepath.Dir(prefix); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return paths, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := c.Save(paths.Model); err != nil {
		return paths, err
	}
	if err := writeRecords(paths.ClassificationReport, classificationRecords(m)); err != nil {
		return paths, err
	}
	if err := writeRecords(paths.FeatureImportance, importanceRecords(c)); err != nil {
		return paths, err
	}
	if err := writeRecords(paths.ConfusionMatrix, confusionRecords(m)); err != nil {
		return paths, err
	}

	summary := fmt.Sprintf("Model: Logistic Regression\nAccuracy: %.4f\n\nClassification Report:\n%s", m.Accuracy, m.Report())
	if err := os.WriteFile(paths.Summary, []byte(summary), 0o644); err != nil {
		return paths, fmt.Errorf("failed to write %s: %w", paths.Summary, err)
	}
	return paths, nil
}

func classificationRecords(m *Metrics) [][]string {
	records := [][]string{{"", "precision", "recall", "f1-score", "support"}}
	row := func(c ClassMetrics) []string {
		return []string{c.Label, ftoa(c.Precision), ftoa(c.Recall), ftoa(c.F1), strconv.Itoa(c.Support)}
	}
	for _, c := range m.Classes {
		records = append(records, row(c))
	}
	records = append(records, []string{"accuracy", "", "", ftoa(m.Accuracy), strconv.Itoa(m.Total)})
	records = append(records, row(m.MacroAvg), row(m.WeightedAvg))
	return records
}

func importanceRecords(c *Classifier) [][]string {
	records := [][]string{{"feature", "coefficient", "abs_coefficient"}}
	for _, imp := range c.FeatureImportance() {
		records = append(records, []string{imp.Feature, ftoa(imp.Coefficient), ftoa(math.Abs(imp.Coefficient))})
	}
	return records
}

func confusionRecords(m *Metrics) [][]string {
	header := []string{"actual\\predicted"}
	header = append(header, m.Labels...)
	records := [][]string{header}
	for i, label := range m.Labels {
		row := []string{label}
		for _, n := range m.Confusion[i] {
			row = append(row, strconv.Itoa(n))
		}
		records = append(records, row)
	}
	return records
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeRecords(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
