package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wuyx05/propensity/internal/config"
	"github.com/wuyx05/propensity/internal/dataset"
	"github.com/wuyx05/propensity/internal/models"
	"github.com/wuyx05/propensity/internal/pipeline"
	"github.com/wuyx05/propensity/internal/recommend"
	"github.com/wuyx05/propensity/internal/telemetry"
)

func scoreCmd() *cobra.Command {
	var (
		inputDir    string
		dsn         string
		outPath     string
		artifacts   string
		configPath  string
		topRatio    float64
		topN        int
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score clients and write the recommendation table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if artifacts != "" {
				cfg.Artifacts = artifacts
			}
			if dsn != "" {
				cfg.Database.DSN = dsn
			}

			policy, err := selectionPolicy(cmd.Flags(), cfg.Selection, topRatio, topN)
			if err != nil {
				return err
			}

			source, closeSource, err := relationSource(inputDir, cfg.Database)
			if err != nil {
				return err
			}
			defer closeSource()

			bundle, err := models.LoadBundle(cfg.Artifacts, cfg.Products)
			if err != nil {
				return err
			}

			metrics := telemetry.NewCollector()
			runner, err := pipeline.New(source, bundle, policy, metrics, outPath)
			if err != nil {
				return err
			}
			if err := runner.Run(cmd.Context()); err != nil {
				return err
			}

			if metricsFile != "" {
				if err := metrics.WriteTextFile(metricsFile); err != nil {
					return err
				}
				log.Info().Str("path", metricsFile).Msg("run metrics written")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input", "", "directory of relation CSV files")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres DSN for the relation source")
	cmd.Flags().StringVar(&outPath, "output", "", "recommendation CSV path")
	cmd.Flags().StringVar(&artifacts, "artifacts", "", "model artifacts directory")
	cmd.Flags().StringVar(&configPath, "config", "", "yaml config path")
	cmd.Flags().Float64Var(&topRatio, "top-ratio", 0, "fraction of qualified clients to recommend (default 0.15)")
	cmd.Flags().IntVar(&topN, "top-n", 0, "exact number of clients to recommend")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "optional run metrics dump path")
	cmd.MarkFlagRequired("output")
	return cmd
}

// selectionPolicy resolves the policy from flags, falling back to the
// config file. Flags count as supplied only when explicitly set, so the
// ratio XOR count exclusivity can be enforced at construction.
func selectionPolicy(flags *pflag.FlagSet, sel config.SelectionConfig, topRatio float64, topN int) (recommend.Policy, error) {
	ratioPtr := sel.TopRatio
	nPtr := sel.TopN
	if flags.Changed("top-ratio") || flags.Changed("top-n") {
		ratioPtr, nPtr = nil, nil
		if flags.Changed("top-ratio") {
			ratioPtr = &topRatio
		}
		if flags.Changed("top-n") {
			nPtr = &topN
		}
	}
	return recommend.FromOptions(ratioPtr, nPtr)
}

func relationSource(inputDir string, db config.DatabaseConfig) (dataset.Source, func(), error) {
	switch {
	case inputDir != "" && db.DSN != "":
		return nil, nil, fmt.Errorf("use either --input or a database DSN, not both")
	case inputDir != "":
		return dataset.NewCSVSource(inputDir), func() {}, nil
	case db.DSN != "":
		conn, err := dataset.Open(db.DSN)
		if err != nil {
			return nil, nil, err
		}
		tables := dataset.Tables{
			Demographics: db.Tables.Demographics,
			Balances:     db.Tables.Balances,
			Flows:        db.Tables.Flows,
		}
		return dataset.NewPostgresSource(conn, tables, db.QueryTimeout), func() { conn.Close() }, nil
	}
	return nil, nil, fmt.Errorf("no relation source: set --input or a database DSN")
}
