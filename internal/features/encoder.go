package features

import "fmt"

// OneHotEncoder is a fitted single-column one-hot encoder. The category
// vocabulary is fixed at fit time and persisted with the model artifacts;
// output column order follows the vocabulary order.
type OneHotEncoder struct {
	Column     string   `json:"column"`
	Categories []string `json:"categories"`
}

// Validate checks the fitted state is usable.
func (e *OneHotEncoder) Validate() error {
	if e.Column == "" {
		return fmt.Errorf("encoder has no column name")
	}
	if len(e.Categories) == 0 {
		return fmt.Errorf("encoder for %s has an empty vocabulary", e.Column)
	}
	seen := make(map[string]bool, len(e.Categories))
	for _, c := range e.Categories {
		if seen[c] {
			return fmt.Errorf("encoder for %s repeats category %s", e.Column, c)
		}
		seen[c] = true
	}
	return nil
}

// FeatureNames returns the encoder's output column names, one per category,
// in vocabulary order.
func (e *OneHotEncoder) FeatureNames() []string {
	names := make([]string, len(e.Categories))
	for i, c := range e.Categories {
		names[i] = e.Column + "_" + c
	}
	return names
}

// Encode maps each input value to its indicator row. Values outside the
// fitted vocabulary encode as all zeros; upstream cleanup already maps
// missing values to the Unknown sentinel, which is part of the vocabulary.
func (e *OneHotEncoder) Encode(values []string) [][]float64 {
	index := make(map[string]int, len(e.Categories))
	for i, c := range e.Categories {
		index[c] = i
	}
	rows := make([][]float64, len(values))
	for i, v := range values {
		row := make([]float64, len(e.Categories))
		if j, ok := index[v]; ok {
			row[j] = 1
		}
		rows[i] = row
	}
	return rows
}
