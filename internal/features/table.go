package features

import "fmt"

// Table is the columnar feature table one pipeline run operates on. The
// client identifier is carried alongside the float columns; all feature
// columns share the identifier slice's length and row order. A Table is
// append-only while being assembled and read-only afterwards.
type Table struct {
	clients []int64
	order   []string
	cols    map[string][]float64
}

// NewTable creates an empty feature table over the given client identifiers.
func NewTable(clients []int64) *Table {
	ids := make([]int64, len(clients))
	copy(ids, clients)
	return &Table{
		clients: ids,
		cols:    make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.clients)
}

// Clients returns the client identifier column in row order.
func (t *Table) Clients() []int64 {
	return t.clients
}

// Columns returns the feature column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Has reports whether the table carries the named feature column.
func (t *Table) Has(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// AddColumn appends a feature column. The column length must match the
// client column and the name must be new.
func (t *Table) AddColumn(name string, values []float64) error {
	if len(values) != len(t.clients) {
		return fmt.Errorf("column %s has %d rows, table has %d", name, len(values), len(t.clients))
	}
	if _, ok := t.cols[name]; ok {
		return fmt.Errorf("column %s already present", name)
	}
	t.order = append(t.order, name)
	t.cols[name] = values
	return nil
}

// Column returns the named feature column.
func (t *Table) Column(name string) ([]float64, bool) {
	col, ok := t.cols[name]
	return col, ok
}

// Select extracts the named columns, in the given order, as a row-major
// matrix. Absent columns produce a MissingFeatureError listing every one of
// them.
func (t *Table) Select(names []string) ([][]float64, error) {
	var missing []string
	for _, name := range names {
		if _, ok := t.cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, NewMissingFeatureError(missing...)
	}

	rows := make([][]float64, len(t.clients))
	for i := range rows {
		row := make([]float64, len(names))
		for j, name := range names {
			row[j] = t.cols[name][i]
		}
		rows[i] = row
	}
	return rows, nil
}
