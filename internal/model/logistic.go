package model

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"raisingate/domain/core"
)

// LogisticRegression is a binary classifier trained by full-batch gradient
// descent on the L2-penalised log loss. Weights start at zero so training is
// deterministic.
type LogisticRegression struct {
	Weights      []float64 `json:"weights"`
	Bias         float64   `json:"bias"`
	LearningRate float64   `json:"learning_rate"`
	Iterations   int       `json:"iterations"`
	L2           float64   `json:"l2"`
}

// NewLogisticRegression creates an untrained model
func NewLogisticRegression(nFeatures int, lr float64, iterations int, l2 float64) *LogisticRegression {
	return &LogisticRegression{
		Weights:      make([]float64, nFeatures),
		LearningRate: lr,
		Iterations:   iterations,
		L2:           l2,
	}
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// Fit trains on rows X with 0/1 targets y
func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return core.ErrInsufficientData
	}
	if len(y) != n {
		return core.NewLengthMismatchError("target", len(y), n)
	}
	for _, row := range X {
		if len(row) != len(m.Weights) {
			return core.ErrFeatureMismatch
		}
	}

	grad := make([]float64, len(m.Weights))
	inv := 1 / float64(n)
	for it := 0; it < m.Iterations; it++ {
		for j := range grad {
			grad[j] = 0
		}
		gradB := 0.0
		for i, row := range X {
			residual := sigmoid(floats.Dot(m.Weights, row)+m.Bias) - y[i]
			floats.AddScaled(grad, residual, row)
			gradB += residual
		}
		floats.Scale(inv, grad)
		floats.AddScaled(grad, m.L2*inv, m.Weights)

		floats.AddScaled(m.Weights, -m.LearningRate, grad)
		m.Bias -= m.LearningRate * gradB * inv
	}
	return nil
}

// PredictProba returns P(y=1) for each row
func (m *LogisticRegression) PredictProba(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.Weights) {
			return nil, core.ErrFeatureMismatch
		}
		out[i] = sigmoid(floats.Dot(m.Weights, row) + m.Bias)
	}
	return out, nil
}

// Predict thresholds PredictProba at 0.5
func (m *LogisticRegression) Predict(X [][]float64) ([]int, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, p := range proba {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

// LogLoss returns the mean cross-entropy of the model on X, y
func (m *LogisticRegression) LogLoss(X [][]float64, y []float64) (float64, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return 0, err
	}
	const eps = 1e-15
	loss := 0.0
	for i, p := range proba {
		p = math.Min(math.Max(p, eps), 1-eps)
		loss -= y[i]*math.Log(p) + (1-y[i])*math.Log(1-p)
	}
	return loss / float64(len(proba)), nil
}
