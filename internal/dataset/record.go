package dataset

import "context"

// Relation file / table names for the three source relations.
const (
	RelationDemographics = "soc_dem"
	RelationBalances     = "products_actbalance"
	RelationFlows        = "inflow_outflow"
)

// Demographic is one row of the demographics relation, the anchor of the
// merge. Columns beyond the identifier and Sex are ignored.
type Demographic struct {
	Client int64
	Sex    string
}

// NumericRow is one row of a numeric source relation. A column absent from
// Values was missing in the source; the merge step substitutes zero.
type NumericRow struct {
	Client int64
	Values map[string]float64
}

// Relations groups the three source relations before merging.
type Relations struct {
	Demographics []Demographic
	Balances     []NumericRow
	Flows        []NumericRow
}

// Source loads the raw client relations from some backing store.
type Source interface {
	Load(ctx context.Context) (*Relations, error)
}

// ClientRecord is one merged, cleaned row of the client table. Counts and
// Amounts hold every declared field; values are never negative and never
// missing once the record leaves Merge. Records are not mutated downstream.
type ClientRecord struct {
	Client  int64
	Sex     string
	Counts  map[string]float64
	Amounts map[string]float64
}
