package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wuyx05/propensity/internal/dataset"
	"github.com/wuyx05/propensity/internal/features"
	"github.com/wuyx05/propensity/internal/models"
	"github.com/wuyx05/propensity/internal/output"
	"github.com/wuyx05/propensity/internal/predict"
	"github.com/wuyx05/propensity/internal/recommend"
	"github.com/wuyx05/propensity/internal/telemetry"
)

// Runner wires one end-to-end batch run: load relations, merge, transform,
// validate and score, select, write. A run either completes fully or aborts
// on the first failure; no partial output artifact is ever written.
type Runner struct {
	source  dataset.Source
	bundle  *models.Bundle
	policy  recommend.Policy
	metrics *telemetry.Collector
	outPath string
}

// New builds a runner over an already-loaded artifact bundle and a
// validated selection policy. The metrics collector is optional.
func New(source dataset.Source, bundle *models.Bundle, policy recommend.Policy, metrics *telemetry.Collector, outPath string) (*Runner, error) {
	if source == nil {
		return nil, fmt.Errorf("no relation source configured")
	}
	if bundle == nil {
		return nil, fmt.Errorf("no model bundle loaded")
	}
	if outPath == "" {
		return nil, fmt.Errorf("no output path configured")
	}
	return &Runner{
		source:  source,
		bundle:  bundle,
		policy:  policy,
		metrics: metrics,
		outPath: outPath,
	}, nil
}

// Run executes the pipeline once.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.NewString()
	start := time.Now()
	logger := log.With().Str("run_id", runID).Logger()
	logger.Info().Str("policy", r.policy.String()).Msg("pipeline run starting")

	relations, err := r.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load relations: %w", err)
	}

	records, err := dataset.Merge(relations, features.CountColumns(), features.AmountColumns())
	if err != nil {
		return fmt.Errorf("merge relations: %w", err)
	}
	if r.metrics != nil {
		r.metrics.ObserveClients(len(records))
	}

	transformer, err := features.NewTransformer(r.bundle.Encoder, r.bundle.Scaler)
	if err != nil {
		return err
	}
	table, err := transformer.Transform(records)
	if err != nil {
		return fmt.Errorf("transform features: %w", err)
	}

	assembler, err := predict.NewAssembler(r.productModels())
	if err != nil {
		return err
	}
	predictions, err := assembler.Predict(table)
	if err != nil {
		return fmt.Errorf("assemble predictions: %w", err)
	}
	if r.metrics != nil {
		perProduct := make(map[string]int, len(r.bundle.Products))
		for _, p := range predictions {
			perProduct[p.Product]++
		}
		for product, n := range perProduct {
			r.metrics.ObservePredictions(product, n)
		}
	}

	recommendations, stats := recommend.NewSelector(r.policy).Recommend(predictions)
	if r.metrics != nil {
		r.metrics.ObserveQualified(stats.Qualified)
		r.metrics.ObserveRecommendations(stats.Selected)
	}

	if err := output.WriteRecommendationsCSV(r.outPath, recommendations); err != nil {
		return err
	}

	logger.Info().
		Int("clients", len(records)).
		Int("recommendations", len(recommendations)).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline run complete")
	return nil
}

func (r *Runner) productModels() []predict.ProductModels {
	out := make([]predict.ProductModels, 0, len(r.bundle.Products))
	for _, product := range r.bundle.Products {
		out = append(out, predict.ProductModels{
			Product:    product,
			Propensity: r.bundle.Propensity[product],
			Revenue:    r.bundle.Revenue[product],
		})
	}
	return out
}
