package features

import "fmt"

// StandardScaler is a fitted per-column standardizer: (x - mean) / std.
// Means and stds are fixed at fit time and persisted with the model
// artifacts. A zero std scales the column to zero rather than dividing.
type StandardScaler struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Std     []float64 `json:"std"`
}

// Validate checks the fitted state is usable.
func (s *StandardScaler) Validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("scaler has no columns")
	}
	if len(s.Mean) != len(s.Columns) || len(s.Std) != len(s.Columns) {
		return fmt.Errorf("scaler shape mismatch: %d columns, %d means, %d stds",
			len(s.Columns), len(s.Mean), len(s.Std))
	}
	for i, sd := range s.Std {
		if sd < 0 {
			return fmt.Errorf("scaler std for %s is negative", s.Columns[i])
		}
	}
	return nil
}

// Scale standardizes a row-major matrix whose columns follow the scaler's
// fitted column order. The input is not mutated.
func (s *StandardScaler) Scale(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(s.Columns) {
			return nil, fmt.Errorf("row %d has %d values, scaler expects %d", i, len(row), len(s.Columns))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			if s.Std[j] == 0 {
				scaled[j] = 0
				continue
			}
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}
	return out, nil
}
