package predict

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/wuyx05/propensity/internal/features"
)

// scoreProduct scores one product over the feature table. Each model sees
// exactly its required columns, in its declared order. Revenue estimates
// come back on the log scale and are mapped through exp, which also makes
// them positive by construction.
func scoreProduct(table *features.Table, pm ProductModels) ([]Prediction, error) {
	propensityRows, err := table.Select(pm.Propensity.RequiredFeatures())
	if err != nil {
		return nil, &ScoringError{Product: pm.Product, Stage: "propensity", Err: err}
	}
	propensities, err := pm.Propensity.Score(propensityRows)
	if err != nil {
		return nil, &ScoringError{Product: pm.Product, Stage: "propensity", Err: err}
	}

	revenueRows, err := table.Select(pm.Revenue.RequiredFeatures())
	if err != nil {
		return nil, &ScoringError{Product: pm.Product, Stage: "revenue", Err: err}
	}
	logRevenues, err := pm.Revenue.Score(revenueRows)
	if err != nil {
		return nil, &ScoringError{Product: pm.Product, Stage: "revenue", Err: err}
	}

	clients := table.Clients()
	rows := make([]Prediction, len(clients))
	for i, client := range clients {
		rows[i] = Prediction{
			Client:     client,
			Product:    pm.Product,
			Propensity: propensities[i],
			Revenue:    math.Exp(logRevenues[i]),
		}
	}

	log.Debug().
		Str("product", pm.Product).
		Int("rows", len(rows)).
		Msg("product scored")
	return rows, nil
}
