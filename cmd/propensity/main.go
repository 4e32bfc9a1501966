package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := Execute(context.Background()); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

// Execute builds the root command and runs it.
func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:          "propensity",
		Short:        "Batch product recommendation pipeline",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	}
	root.AddCommand(scoreCmd())
	return root.ExecuteContext(ctx)
}
