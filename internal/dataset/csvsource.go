package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
)

// CSVSource loads the client relations from a directory holding one CSV
// file per relation: soc_dem.csv, products_actbalance.csv and
// inflow_outflow.csv. Each file carries a header row including the Client
// column; empty numeric cells read as missing.
type CSVSource struct {
	dir string
}

// NewCSVSource creates a source over the given directory.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

func (s *CSVSource) Load(ctx context.Context) (*Relations, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	demographics, err := s.loadDemographics()
	if err != nil {
		return nil, err
	}
	balances, err := s.loadNumeric(RelationBalances)
	if err != nil {
		return nil, err
	}
	flows, err := s.loadNumeric(RelationFlows)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("dir", s.dir).
		Int("clients", len(demographics)).
		Msg("loaded client relations from CSV")
	return &Relations{
		Demographics: demographics,
		Balances:     balances,
		Flows:        flows,
	}, nil
}

func (s *CSVSource) loadDemographics() ([]Demographic, error) {
	header, rows, err := s.readFile(RelationDemographics)
	if err != nil {
		return nil, err
	}
	clientIdx, err := columnIndex(header, "Client", RelationDemographics)
	if err != nil {
		return nil, err
	}
	sexIdx, err := columnIndex(header, "Sex", RelationDemographics)
	if err != nil {
		return nil, err
	}

	out := make([]Demographic, 0, len(rows))
	for i, row := range rows {
		client, err := parseClient(row[clientIdx], RelationDemographics, i)
		if err != nil {
			return nil, err
		}
		out = append(out, Demographic{Client: client, Sex: row[sexIdx]})
	}
	return out, nil
}

func (s *CSVSource) loadNumeric(relation string) ([]NumericRow, error) {
	header, rows, err := s.readFile(relation)
	if err != nil {
		return nil, err
	}
	clientIdx, err := columnIndex(header, "Client", relation)
	if err != nil {
		return nil, err
	}

	out := make([]NumericRow, 0, len(rows))
	for i, row := range rows {
		client, err := parseClient(row[clientIdx], relation, i)
		if err != nil {
			return nil, err
		}
		values := make(map[string]float64, len(header)-1)
		for j, cell := range row {
			if j == clientIdx || cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("relation %s row %d column %s: %w", relation, i+1, header[j], err)
			}
			values[header[j]] = v
		}
		out = append(out, NumericRow{Client: client, Values: values})
	}
	return out, nil
}

func (s *CSVSource) readFile(relation string) ([]string, [][]string, error) {
	path := filepath.Join(s.dir, relation+".csv")
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open relation %s: %w", relation, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read relation %s: %w", relation, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("relation %s is empty", relation)
	}
	return all[0], all[1:], nil
}

func columnIndex(header []string, name, relation string) (int, error) {
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("relation %s lacks column %s", relation, name)
}

func parseClient(cell, relation string, row int) (int64, error) {
	client, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("relation %s row %d has invalid client id %q: %w", relation, row+1, cell, err)
	}
	return client, nil
}
