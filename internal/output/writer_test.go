package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuyx05/propensity/internal/recommend"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteRecommendationsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recommendations.csv")
	recs := []recommend.Recommendation{
		{Client: 101, Product: "CC"},
		{Client: 5, Product: "MF"},
	}

	require.NoError(t, WriteRecommendationsCSV(path, recs))

	rows := readCSV(t, path)
	assert.Equal(t, [][]string{
		{"Client", "Recommended_Product"},
		{"101", "CC"},
		{"5", "MF"},
	}, rows)
}

func TestWriteRecommendationsCSV_EmptyKeepsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recommendations.csv")
	require.NoError(t, WriteRecommendationsCSV(path, nil))

	rows := readCSV(t, path)
	assert.Equal(t, [][]string{{"Client", "Recommended_Product"}}, rows)
}

func TestWriteRecommendationsCSV_BadPath(t *testing.T) {
	err := WriteRecommendationsCSV(filepath.Join(t.TempDir(), "no", "such", "dir.csv"), nil)
	assert.Error(t, err)
}
