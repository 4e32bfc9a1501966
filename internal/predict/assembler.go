package predict

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/wuyx05/propensity/internal/features"
	"github.com/wuyx05/propensity/internal/models"
)

// Prediction is one scored (client, product) pair. Propensity is the
// positive-class probability; Revenue is on the original (non-log) scale.
type Prediction struct {
	Client     int64
	Product    string
	Propensity float64
	Revenue    float64
}

// ScoringError reports a failure inside one product's scoring call. Any
// such failure aborts the whole run; no partial per-product pool is
// emitted.
type ScoringError struct {
	Product string
	Stage   string
	Err     error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring %s %s: %v", e.Stage, e.Product, e.Err)
}

func (e *ScoringError) Unwrap() error {
	return e.Err
}

// ProductModels pairs the two fitted scorers for one product.
type ProductModels struct {
	Product    string
	Propensity models.Scorer
	Revenue    models.Scorer
}

// Assembler scores every configured product over a validated feature table.
// The union of every model's required features is computed once at
// construction and checked once per run, before any scoring starts.
type Assembler struct {
	products []ProductModels
	required []string
}

// NewAssembler validates the product set and precomputes the required
// feature union.
func NewAssembler(products []ProductModels) (*Assembler, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("no products configured")
	}
	union := make(map[string]bool)
	seen := make(map[string]bool, len(products))
	for _, pm := range products {
		if pm.Product == "" {
			return nil, fmt.Errorf("product with empty code")
		}
		if seen[pm.Product] {
			return nil, fmt.Errorf("product %s configured twice", pm.Product)
		}
		seen[pm.Product] = true
		if pm.Propensity == nil || pm.Revenue == nil {
			return nil, fmt.Errorf("product %s lacks a fitted model", pm.Product)
		}
		for _, name := range pm.Propensity.RequiredFeatures() {
			union[name] = true
		}
		for _, name := range pm.Revenue.RequiredFeatures() {
			union[name] = true
		}
	}

	required := make([]string, 0, len(union))
	for name := range union {
		required = append(required, name)
	}
	sort.Strings(required)

	return &Assembler{
		products: append([]ProductModels(nil), products...),
		required: required,
	}, nil
}

// RequiredFeatures returns the sorted union of every feature name any
// configured model requires.
func (a *Assembler) RequiredFeatures() []string {
	out := make([]string, len(a.required))
	copy(out, a.required)
	return out
}

// Predict validates the feature table against the required union, then
// scores each product and stacks the rows. Validation failure lists every
// missing feature; any scoring failure aborts with no partial output.
func (a *Assembler) Predict(table *features.Table) ([]Prediction, error) {
	var missing []string
	for _, name := range a.required {
		if !table.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, features.NewMissingFeatureError(missing...)
	}

	predictions := make([]Prediction, 0, table.Len()*len(a.products))
	for _, pm := range a.products {
		rows, err := scoreProduct(table, pm)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, rows...)
	}

	log.Info().
		Int("clients", table.Len()).
		Int("products", len(a.products)).
		Int("predictions", len(predictions)).
		Msg("prediction pool assembled")
	return predictions, nil
}
