package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/wuyx05/propensity/internal/features"
)

// Bundle holds every fitted artifact one run needs: the feature-level
// encoder and scaler plus, per product, a propensity classifier and a
// log-revenue regressor. Loaded once at process start, immutable after.
type Bundle struct {
	Products   []string
	Encoder    *features.OneHotEncoder
	Scaler     *features.StandardScaler
	Propensity map[string]Scorer
	Revenue    map[string]Scorer
}

// LoadBundle reads the artifact directory: encoder.json, scaler.json and,
// for each product code P, sale_P.json (logistic) and revenue_P.json
// (linear). Any missing or malformed artifact fails the load.
func LoadBundle(dir string, products []string) (*Bundle, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("no products configured")
	}

	bundle := &Bundle{
		Products:   append([]string(nil), products...),
		Encoder:    &features.OneHotEncoder{},
		Scaler:     &features.StandardScaler{},
		Propensity: make(map[string]Scorer, len(products)),
		Revenue:    make(map[string]Scorer, len(products)),
	}

	if err := readArtifact(filepath.Join(dir, "encoder.json"), bundle.Encoder); err != nil {
		return nil, fmt.Errorf("load encoder: %w", err)
	}
	if err := bundle.Encoder.Validate(); err != nil {
		return nil, fmt.Errorf("load encoder: %w", err)
	}
	if err := readArtifact(filepath.Join(dir, "scaler.json"), bundle.Scaler); err != nil {
		return nil, fmt.Errorf("load scaler: %w", err)
	}
	if err := bundle.Scaler.Validate(); err != nil {
		return nil, fmt.Errorf("load scaler: %w", err)
	}

	for _, product := range products {
		propensity := &LogisticModel{}
		if err := readArtifact(filepath.Join(dir, "sale_"+product+".json"), propensity); err != nil {
			return nil, fmt.Errorf("load propensity model for %s: %w", product, err)
		}
		if err := propensity.Validate(); err != nil {
			return nil, fmt.Errorf("load propensity model for %s: %w", product, err)
		}
		bundle.Propensity[product] = propensity

		revenue := &LinearModel{}
		if err := readArtifact(filepath.Join(dir, "revenue_"+product+".json"), revenue); err != nil {
			return nil, fmt.Errorf("load revenue model for %s: %w", product, err)
		}
		if err := revenue.Validate(); err != nil {
			return nil, fmt.Errorf("load revenue model for %s: %w", product, err)
		}
		bundle.Revenue[product] = revenue
	}

	log.Info().
		Str("dir", dir).
		Strs("products", products).
		Msg("model artifacts loaded")
	return bundle, nil
}

func readArtifact(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse artifact %s: %w", filepath.Base(path), err)
	}
	return nil
}
