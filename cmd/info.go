package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hrkey/refvalid/internal/validation"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the validator version, enabled features and loaded thresholds",
	Run: func(_ *cobra.Command, _ []string) {
		config, err := getConfig()
		if err != nil {
			log.Fatalf("getting a config: %v", err)
		}

		// An unreachable provider (e.g. missing api key) just shows up as
		// embeddings disabled; info never fails on it.
		embedder, err := newEmbedder(context.Background(), config.Embeddings, zap.NewNop())
		if err != nil {
			embedder = nil
		}

		validator := validation.New(*config.Validation, validation.Deps{
			Logger:   zap.NewNop(),
			Embedder: embedder,
		}, version)
		printJSON(validator.GetInfo())
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
