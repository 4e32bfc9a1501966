package dataset

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Tables maps the three source relations to database table names.
type Tables struct {
	Demographics string
	Balances     string
	Flows        string
}

// DefaultTables returns the conventional table names.
func DefaultTables() Tables {
	return Tables{
		Demographics: RelationDemographics,
		Balances:     RelationBalances,
		Flows:        RelationFlows,
	}
}

// PostgresSource loads the client relations from Postgres, one table per
// relation. NULL numeric cells read as missing.
type PostgresSource struct {
	db      *sqlx.DB
	tables  Tables
	timeout time.Duration
}

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// NewPostgresSource creates a source over an open connection. A zero
// timeout disables the per-query deadline.
func NewPostgresSource(db *sqlx.DB, tables Tables, timeout time.Duration) *PostgresSource {
	return &PostgresSource{db: db, tables: tables, timeout: timeout}
}

func (s *PostgresSource) Load(ctx context.Context) (*Relations, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	demographics, err := s.loadDemographics(ctx)
	if err != nil {
		return nil, err
	}
	balances, err := s.loadNumeric(ctx, s.tables.Balances)
	if err != nil {
		return nil, err
	}
	flows, err := s.loadNumeric(ctx, s.tables.Flows)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("clients", len(demographics)).
		Msg("loaded client relations from database")
	return &Relations{
		Demographics: demographics,
		Balances:     balances,
		Flows:        flows,
	}, nil
}

func (s *PostgresSource) loadDemographics(ctx context.Context) ([]Demographic, error) {
	rows, err := s.queryRows(ctx, s.tables.Demographics)
	if err != nil {
		return nil, err
	}

	out := make([]Demographic, 0, len(rows))
	for i, row := range rows {
		client, err := clientID(row, s.tables.Demographics, i)
		if err != nil {
			return nil, err
		}
		sex, _ := asString(row["Sex"])
		out = append(out, Demographic{Client: client, Sex: sex})
	}
	return out, nil
}

func (s *PostgresSource) loadNumeric(ctx context.Context, table string) ([]NumericRow, error) {
	rows, err := s.queryRows(ctx, table)
	if err != nil {
		return nil, err
	}

	out := make([]NumericRow, 0, len(rows))
	for i, row := range rows {
		client, err := clientID(row, table, i)
		if err != nil {
			return nil, err
		}
		values := make(map[string]float64, len(row)-1)
		for col, raw := range row {
			if col == "Client" {
				continue
			}
			if v, ok := asFloat(raw); ok {
				values[col] = v
			}
		}
		out = append(out, NumericRow{Client: client, Values: values})
	}
	return out, nil
}

func (s *PostgresSource) queryRows(ctx context.Context, table string) ([]map[string]interface{}, error) {
	query := fmt.Sprintf("SELECT * FROM %s", pq.QuoteIdentifier(table))
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

func clientID(row map[string]interface{}, table string, i int) (int64, error) {
	raw, ok := row["Client"]
	if !ok {
		return 0, fmt.Errorf("table %s lacks column Client", table)
	}
	switch v := raw.(type) {
	case int64:
		return v, nil
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	case string:
		return strconv.ParseInt(v, 10, 64)
	}
	return 0, fmt.Errorf("table %s row %d has invalid client id %v", table, i+1, raw)
}

func asFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

func asString(raw interface{}) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return "", false
}
