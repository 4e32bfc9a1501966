package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the run configuration. CLI flags override whatever the file
// sets; the zero-config path falls back to Default.
type Config struct {
	Products  []string        `yaml:"products"`
	Artifacts string          `yaml:"artifacts_dir"`
	Database  DatabaseConfig  `yaml:"database"`
	Selection SelectionConfig `yaml:"selection"`
}

// DatabaseConfig configures the optional Postgres relation source.
type DatabaseConfig struct {
	DSN          string        `yaml:"dsn"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
	Tables       TablesConfig  `yaml:"tables"`
}

// TablesConfig maps the three source relations to table names.
type TablesConfig struct {
	Demographics string `yaml:"demographics"`
	Balances     string `yaml:"balances"`
	Flows        string `yaml:"flows"`
}

// SelectionConfig carries the optional selection policy knobs. Both being
// set is rejected when the policy is constructed, not here.
type SelectionConfig struct {
	TopRatio *float64 `yaml:"top_ratio,omitempty"`
	TopN     *int     `yaml:"top_n,omitempty"`
}

// Default returns the built-in configuration: the three product codes and
// the conventional artifact and table names.
func Default() Config {
	return Config{
		Products:  []string{"CC", "MF", "CL"},
		Artifacts: "artifacts",
		Database: DatabaseConfig{
			QueryTimeout: 30 * time.Second,
			Tables: TablesConfig{
				Demographics: "soc_dem",
				Balances:     "products_actbalance",
				Flows:        "inflow_outflow",
			},
		},
	}
}

// Load reads a yaml config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config YAML: %w", err)
	}

	if len(cfg.Products) == 0 {
		return cfg, fmt.Errorf("config declares no products")
	}
	return cfg, nil
}
