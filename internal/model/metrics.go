package model

import (
	"fmt"
	"strings"

	"raisingate/domain/core"
	"raisingate/domain/dataset"
)

// ClassMetrics holds the per-label scores of a classification report
type ClassMetrics struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Metrics summarises predictions against true labels. Confusion[i][j] counts
// rows with true label Labels[i] predicted as Labels[j].
type Metrics struct {
	Labels      []string       `json:"labels"`
	Accuracy    float64        `json:"accuracy"`
	Classes     []ClassMetrics `json:"classes"`
	MacroAvg    ClassMetrics   `json:"macro_avg"`
	WeightedAvg ClassMetrics   `json:"weighted_avg"`
	Confusion   [][]int        `json:"confusion"`
	Total       int            `json:"total"`
}

// Score computes metrics for predicted against actual over the given labels.
// Undefined ratios are reported as 0.
func Score(labels, actual, predicted []string) (*Metrics, error) {
	if len(actual) != len(predicted) {
		return nil, core.NewLengthMismatchError("predicted", len(predicted), len(actual))
	}
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}

	m := &Metrics{Labels: append([]string(nil), labels...), Total: len(actual)}
	m.Confusion = make([][]int, len(labels))
	for i := range m.Confusion {
		m.Confusion[i] = make([]int, len(labels))
	}

	correct := 0
	for r := range actual {
		a, ok := idx[actual[r]]
		if !ok {
			return nil, fmt.Errorf("%w: unknown label %q at row %d", core.ErrLabelCount, actual[r], r)
		}
		p, ok := idx[predicted[r]]
		if !ok {
			return nil, fmt.Errorf("%w: unknown prediction %q at row %d", core.ErrLabelCount, predicted[r], r)
		}
		m.Confusion[a][p]++
		if a == p {
			correct++
		}
	}
	if m.Total > 0 {
		m.Accuracy = float64(correct) / float64(m.Total)
	}

	m.MacroAvg.Label = "macro avg"
	m.WeightedAvg.Label = "weighted avg"
	for i, label := range labels {
		tp := m.Confusion[i][i]
		predictedAs, support := 0, 0
		for j := range labels {
			predictedAs += m.Confusion[j][i]
			support += m.Confusion[i][j]
		}
		cm := ClassMetrics{
			Label:     label,
			Precision: ratio(tp, predictedAs),
			Recall:    ratio(tp, support),
			Support:   support,
		}
		if cm.Precision+cm.Recall > 0 {
			cm.F1 = 2 * cm.Precision * cm.Recall / (cm.Precision + cm.Recall)
		}
		m.Classes = append(m.Classes, cm)

		n := float64(len(labels))
		m.MacroAvg.Precision += cm.Precision / n
		m.MacroAvg.Recall += cm.Recall / n
		m.MacroAvg.F1 += cm.F1 / n
		if m.Total > 0 {
			w := float64(support) / float64(m.Total)
			m.WeightedAvg.Precision += cm.Precision * w
			m.WeightedAvg.Recall += cm.Recall * w
			m.WeightedAvg.F1 += cm.F1 * w
		}
	}
	m.MacroAvg.Support = m.Total
	m.WeightedAvg.Support = m.Total
	return m, nil
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// Evaluate predicts every row of ds and scores the predictions against the
// classifier's target column
func (c *Classifier) Evaluate(ds *dataset.Dataset) (*Metrics, error) {
	col, err := ds.Column(c.Target)
	if err != nil {
		return nil, err
	}
	predicted, err := c.Predict(ds)
	if err != nil {
		return nil, err
	}
	actual := make([]string, col.Len())
	for i := range actual {
		actual[i] = col.Raw(i)
	}
	return Score(c.Labels, actual, predicted)
}

// Report renders the metrics as a fixed-width classification report
func (m *Metrics) Report() string {
	width := len("weighted avg")
	for _, l := range m.Labels {
		if len(l) > width {
			width = len(l)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, c := range m.Classes {
		fmt.Fprintf(&b, "%*s %9.2f %9.2f %9.2f %9d\n", width, c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%*s %9s %9s %9.2f %9d\n", width, "accuracy", "", "", m.Accuracy, m.Total)
	for _, c := range []ClassMetrics{m.MacroAvg, m.WeightedAvg} {
		fmt.Fprintf(&b, "%*s %9.2f %9.2f %9.2f %9d\n", width, c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	return b.String()
}
