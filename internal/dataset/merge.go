package dataset

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// unknownSex is substituted for a missing categorical value. It matches the
// sentinel the encoder artifact was fitted with.
const unknownSex = "Unknown"

// Merge left-joins the balances and flows relations onto the demographics
// relation by client identifier and applies the cleanup policy: missing Sex
// becomes the Unknown sentinel, missing count/amount values become 0, and
// negative count/amount values are clamped to 0. Every returned record
// carries all declared count and amount fields. Row order follows the
// demographics relation.
func Merge(rel *Relations, countCols, amountCols []string) ([]ClientRecord, error) {
	balances, err := indexRows(rel.Balances, RelationBalances)
	if err != nil {
		return nil, err
	}
	flows, err := indexRows(rel.Flows, RelationFlows)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(rel.Demographics))
	records := make([]ClientRecord, 0, len(rel.Demographics))
	for _, demo := range rel.Demographics {
		if seen[demo.Client] {
			return nil, fmt.Errorf("relation %s repeats client %d", RelationDemographics, demo.Client)
		}
		seen[demo.Client] = true

		sex := demo.Sex
		if sex == "" {
			sex = unknownSex
		}

		rec := ClientRecord{
			Client:  demo.Client,
			Sex:     sex,
			Counts:  make(map[string]float64, len(countCols)),
			Amounts: make(map[string]float64, len(amountCols)),
		}
		for _, col := range countCols {
			rec.Counts[col] = cleanValue(lookup(col, balances[demo.Client], flows[demo.Client]))
		}
		for _, col := range amountCols {
			rec.Amounts[col] = cleanValue(lookup(col, balances[demo.Client], flows[demo.Client]))
		}
		records = append(records, rec)
	}

	log.Debug().
		Int("clients", len(records)).
		Int("balance_rows", len(rel.Balances)).
		Int("flow_rows", len(rel.Flows)).
		Msg("merged client relations")
	return records, nil
}

func indexRows(rows []NumericRow, relation string) (map[int64]NumericRow, error) {
	index := make(map[int64]NumericRow, len(rows))
	for _, row := range rows {
		if _, ok := index[row.Client]; ok {
			return nil, fmt.Errorf("relation %s repeats client %d", relation, row.Client)
		}
		index[row.Client] = row
	}
	return index, nil
}

// lookup probes the joined relations in order for a column value. A client
// absent from a relation, or a column missing from its row, reads as
// missing (ok=false).
func lookup(col string, rows ...NumericRow) (float64, bool) {
	for _, row := range rows {
		if row.Values == nil {
			continue
		}
		if v, ok := row.Values[col]; ok {
			return v, true
		}
	}
	return 0, false
}

func cleanValue(v float64, ok bool) float64 {
	if !ok || v < 0 {
		return 0
	}
	return v
}
