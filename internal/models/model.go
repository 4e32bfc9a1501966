package models

import (
	"fmt"
	"math"
)

// Scorer applies a fitted estimator to a row-major feature matrix whose
// columns follow RequiredFeatures order. Implementations are immutable once
// loaded; the pipeline never depends on the concrete estimator type.
type Scorer interface {
	RequiredFeatures() []string
	Score(rows [][]float64) ([]float64, error)
}

// LogisticModel is a fitted binary logistic regression. Score returns the
// positive-class probability for each row.
type LogisticModel struct {
	Features []string  `json:"features"`
	Weights  []float64 `json:"weights"`
	Bias     float64   `json:"bias"`
}

func (m *LogisticModel) Validate() error {
	return validateShape(m.Features, m.Weights)
}

func (m *LogisticModel) RequiredFeatures() []string {
	return copyNames(m.Features)
}

func (m *LogisticModel) Score(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		z, err := dot(m.Weights, row, m.Bias, i)
		if err != nil {
			return nil, err
		}
		out[i] = sigmoid(z)
	}
	return out, nil
}

// LinearModel is a fitted linear regression. In this system revenue models
// are trained on log-transformed targets, so Score returns log-scale
// estimates; the caller applies the inverse transform.
type LinearModel struct {
	Features []string  `json:"features"`
	Weights  []float64 `json:"weights"`
	Bias     float64   `json:"bias"`
}

func (m *LinearModel) Validate() error {
	return validateShape(m.Features, m.Weights)
}

func (m *LinearModel) RequiredFeatures() []string {
	return copyNames(m.Features)
}

func (m *LinearModel) Score(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		z, err := dot(m.Weights, row, m.Bias, i)
		if err != nil {
			return nil, err
		}
		out[i] = z
	}
	return out, nil
}

func validateShape(features []string, weights []float64) error {
	if len(features) == 0 {
		return fmt.Errorf("model declares no features")
	}
	if len(weights) != len(features) {
		return fmt.Errorf("model has %d weights for %d features", len(weights), len(features))
	}
	return nil
}

func dot(weights, row []float64, bias float64, i int) (float64, error) {
	if len(row) != len(weights) {
		return 0, fmt.Errorf("row %d has %d values, model expects %d", i, len(row), len(weights))
	}
	z := bias
	for j, w := range weights {
		z += w * row[j]
	}
	return z, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func copyNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}
