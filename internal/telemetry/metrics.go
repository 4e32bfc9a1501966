package telemetry

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Collector aggregates run counters on a private registry. One collector
// covers one process; batch runs dump the gathered families to a text file
// instead of serving a scrape endpoint.
type Collector struct {
	registry *prometheus.Registry

	clientsLoaded   prometheus.Counter
	predictions     *prometheus.CounterVec
	qualified       prometheus.Counter
	recommendations prometheus.Counter
}

// NewCollector creates and registers the run counters.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		clientsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "propensity_clients_loaded_total",
			Help: "Clients present in the merged input table.",
		}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "propensity_predictions_total",
			Help: "Prediction rows produced, by product.",
		}, []string{"product"}),
		qualified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "propensity_qualified_candidates_total",
			Help: "Prediction rows at or above the qualifying propensity threshold.",
		}),
		recommendations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "propensity_recommendations_total",
			Help: "Recommendation rows written to the output artifact.",
		}),
	}
	c.registry.MustRegister(c.clientsLoaded, c.predictions, c.qualified, c.recommendations)
	return c
}

func (c *Collector) ObserveClients(n int) {
	c.clientsLoaded.Add(float64(n))
}

func (c *Collector) ObservePredictions(product string, n int) {
	c.predictions.WithLabelValues(product).Add(float64(n))
}

func (c *Collector) ObserveQualified(n int) {
	c.qualified.Add(float64(n))
}

func (c *Collector) ObserveRecommendations(n int) {
	c.recommendations.Add(float64(n))
}

// Gather returns the collected metric families.
func (c *Collector) Gather() ([]*dto.MetricFamily, error) {
	return c.registry.Gather()
}

// WriteTextFile dumps the gathered counters as "name{labels} value" lines.
func (c *Collector) WriteTextFile(path string) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var b strings.Builder
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			b.WriteString(family.GetName())
			if labels := formatLabels(metric.GetLabel()); labels != "" {
				b.WriteString(labels)
			}
			fmt.Fprintf(&b, " %v\n", metric.GetCounter().GetValue())
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
