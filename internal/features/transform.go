package features

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/wuyx05/propensity/internal/dataset"
)

// Transformer derives the feature table from merged client records using
// the fitted encoder and scaler artifacts. It holds no mutable state; the
// same transformer can serve any number of runs.
type Transformer struct {
	encoder *OneHotEncoder
	scaler  *StandardScaler
}

// NewTransformer validates the fitted artifacts against the declared
// schema. The scaler must have been fitted on exactly the declared count
// columns, in order, and the encoder on the declared categorical column.
func NewTransformer(encoder *OneHotEncoder, scaler *StandardScaler) (*Transformer, error) {
	if err := encoder.Validate(); err != nil {
		return nil, fmt.Errorf("invalid encoder artifact: %w", err)
	}
	if err := scaler.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scaler artifact: %w", err)
	}
	if encoder.Column != CategoricalColumn {
		return nil, fmt.Errorf("encoder fitted on %s, schema declares %s", encoder.Column, CategoricalColumn)
	}
	declared := CountColumns()
	if len(scaler.Columns) != len(declared) {
		return nil, fmt.Errorf("scaler fitted on %d columns, schema declares %d", len(scaler.Columns), len(declared))
	}
	for i, col := range declared {
		if scaler.Columns[i] != col {
			return nil, fmt.Errorf("scaler column %d is %s, schema declares %s", i, scaler.Columns[i], col)
		}
	}
	return &Transformer{encoder: encoder, scaler: scaler}, nil
}

// Transform builds the feature table: encoded categorical columns, scaled
// count columns, then a log1p companion for every declared amount field, in
// that order, with input row order preserved. A declared amount field
// absent from the records is a MissingFeatureError, never a silent NaN.
func (tr *Transformer) Transform(records []dataset.ClientRecord) (*Table, error) {
	if err := tr.checkAmountFields(records); err != nil {
		return nil, err
	}

	clients := make([]int64, len(records))
	sexes := make([]string, len(records))
	counts := make([][]float64, len(records))
	for i, rec := range records {
		clients[i] = rec.Client
		sexes[i] = rec.Sex
		row := make([]float64, len(tr.scaler.Columns))
		for j, col := range tr.scaler.Columns {
			row[j] = rec.Counts[col]
		}
		counts[i] = row
	}

	table := NewTable(clients)

	encoded := tr.encoder.Encode(sexes)
	for j, name := range tr.encoder.FeatureNames() {
		col := make([]float64, len(records))
		for i := range encoded {
			col[i] = encoded[i][j]
		}
		if err := table.AddColumn(name, col); err != nil {
			return nil, err
		}
	}

	scaled, err := tr.scaler.Scale(counts)
	if err != nil {
		return nil, err
	}
	for j, name := range tr.scaler.Columns {
		col := make([]float64, len(records))
		for i := range scaled {
			col[i] = scaled[i][j]
		}
		if err := table.AddColumn(name, col); err != nil {
			return nil, err
		}
	}

	for _, amount := range AmountColumns() {
		col := make([]float64, len(records))
		for i, rec := range records {
			col[i] = math.Log1p(rec.Amounts[amount])
		}
		if err := table.AddColumn(LogColumn(amount), col); err != nil {
			return nil, err
		}
	}

	log.Debug().
		Int("rows", table.Len()).
		Int("columns", len(table.Columns())).
		Msg("feature table assembled")
	return table, nil
}

// checkAmountFields verifies every declared amount field is present on
// every record, collecting all offenders before failing.
func (tr *Transformer) checkAmountFields(records []dataset.ClientRecord) error {
	missing := make(map[string]bool)
	for _, amount := range AmountColumns() {
		for _, rec := range records {
			if _, ok := rec.Amounts[amount]; !ok {
				missing[amount] = true
				break
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	return NewMissingFeatureError(names...)
}
