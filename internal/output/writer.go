package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/wuyx05/propensity/internal/features"
	"github.com/wuyx05/propensity/internal/recommend"
)

// WriteRecommendationsCSV writes the terminal artifact: a two-column CSV
// (Client, Recommended_Product) in the order the selector produced. Callers
// invoke this only after the whole pipeline succeeded, so a failed run
// leaves no partial file behind.
func WriteRecommendationsCSV(path string, recommendations []recommend.Recommendation) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{features.ClientIDColumn, "Recommended_Product"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, rec := range recommendations {
		record := []string{
			strconv.FormatInt(rec.Client, 10),
			rec.Product,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}

	log.Info().
		Str("path", path).
		Int("rows", len(recommendations)).
		Msg("recommendations written")
	return nil
}
