package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hrkey/refvalid/internal/embedding"
	"github.com/hrkey/refvalid/internal/embedding/gemini"
	"github.com/hrkey/refvalid/internal/embedding/local"
	"github.com/hrkey/refvalid/internal/embedding/openai"
	"github.com/hrkey/refvalid/internal/logger"
	"github.com/hrkey/refvalid/internal/output"
	"github.com/hrkey/refvalid/internal/reference"
	"github.com/hrkey/refvalid/internal/secrets"
	"github.com/hrkey/refvalid/internal/validation"
)

const (
	PromptShowRecord     = "Show full record"
	PromptScoringView    = "Scoring engine view"
	PromptPublicView     = "Public API view"
	PromptInternalView   = "Public API view with internals"
	PromptStoragePayload = "Storage payload"
	PromptDumpToFile     = "Dump record to file"
	PromptExit           = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Inspect the validated record?",
	Items: []string{
		PromptShowRecord,
		PromptScoringView,
		PromptPublicView,
		PromptInternalView,
		PromptStoragePayload,
		PromptDumpToFile,
		PromptExit,
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Validate a reference submission and inspect the resulting record",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("submission", "s", "", "path to the submission JSON file (required)")
	runCmd.Flags().String("history", "", "path to a JSON file with the subject's prior validated records")
	runCmd.Flags().Bool("skip-embeddings", false, "bypass embedding generation entirely")
	runCmd.Flags().Bool("skip-consistency", false, "treat the submission as having no history")
	runCmd.Flags().BoolP("auto-approve", "y", false, "print the record and exit without the interactive prompt")

	runCmd.MarkFlagRequired("submission")
	viper.BindPFlag("history-file", runCmd.Flags().Lookup("history"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting refvalid", zap.String("version", version))

	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	submissionPath := cmd.Flag("submission").Value.String()
	submission, err := reference.GetSubmissionFromFile(submissionPath)
	if err != nil {
		logger.Fatal("loading submission", zap.Error(err), zap.String("path", submissionPath))
	}

	opts := validation.Options{
		SkipEmbeddings:       flagBool(cmd, "skip-embeddings"),
		SkipConsistencyCheck: flagBool(cmd, "skip-consistency"),
	}

	if historyPath := strings.TrimSpace(viper.GetString("history-file")); historyPath != "" && !opts.SkipConsistencyCheck {
		history, err := reference.GetHistoryFromFile(historyPath)
		if err != nil {
			logger.Fatal("loading history", zap.Error(err), zap.String("path", historyPath))
		}
		opts.PreviousReferences = history
		logger.Info("loaded prior validated records",
			zap.Int("count", history.Len()),
			zap.String("path", historyPath),
		)
	}

	embedder, err := newEmbedder(ctx, config.Embeddings, logger)
	if err != nil {
		logger.Fatal("building embedding provider", zap.Error(err))
	}

	validator := validation.New(*config.Validation, validation.Deps{
		Logger:   logger,
		Embedder: embedder,
	}, version)

	record, err := validator.ValidateReference(ctx, submission, opts)
	if err != nil {
		logger.Fatal("validation failed", zap.Error(err))
	}

	logger.Info("reference validated",
		zap.String("status", string(record.ValidationStatus)),
		zap.Int("fraud_score", record.FraudScore),
		zap.Float64("consistency_score", record.ConsistencyScore),
		zap.Float64("confidence", record.Confidence),
		zap.String("subject_id", record.Metadata.SubjectID),
	)

	if flagBool(cmd, "auto-approve") {
		printJSON(record)
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, record, validator, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, record *reference.Record, validator *validation.Validator, logger *zap.Logger) error {
	switch action {
	case PromptShowRecord:
		printJSON(record)
		return nil
	case PromptScoringView:
		printJSON(output.ForScoringEngine(record))
		return nil
	case PromptPublicView:
		printJSON(output.ForPublicAPI(record, false))
		return nil
	case PromptInternalView:
		printJSON(output.ForPublicAPI(record, true))
		return nil
	case PromptStoragePayload:
		printJSON(output.ForStorage(record, validator.Thresholds()))
		return nil
	case PromptDumpToFile:
		filename, err := record.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump record to file: %w", err)
		}
		logger.Info("dumping record to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// newEmbedder builds the configured embedding provider. The local
// deterministic provider is the default; "none" disables embeddings.
func newEmbedder(ctx context.Context, cfg *EmbeddingsConfig, baseLogger *zap.Logger) (embedding.Service, error) {
	provider := "local"
	dimensions := 0
	if cfg != nil {
		if p := strings.TrimSpace(strings.ToLower(cfg.Provider)); p != "" {
			provider = p
		}
		dimensions = cfg.Dimensions
	}

	switch provider {
	case "none":
		return nil, nil
	case "local":
		return local.New(dimensions), nil
	case "gemini":
		if cfg.Gemini == nil {
			return nil, fmt.Errorf("gemini configuration is required when the gemini provider is enabled")
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
			Env:  "GEMINI_API_KEY_FILE",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set embeddings.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		genLogger := logger.WithEmbeddingFields(baseLogger, "gemini", cfg.Gemini.Model)
		return gemini.New(ctx, apiKey, cfg.Gemini.Model, dimensions, cfg.Gemini.MaxRetries, genLogger)
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai configuration is required when the openai provider is enabled")
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "openai api key",
			File: cfg.OpenAI.APIKeyFile,
			Env:  "OPENAI_API_KEY_FILE",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set embeddings.openai.api-key-file or OPENAI_API_KEY_FILE)", err)
		}

		return openai.New(apiKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, dimensions)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

func flagBool(cmd *cobra.Command, name string) bool {
	flag := cmd.Flag(name)
	return flag != nil && strings.EqualFold(flag.Value.String(), "true")
}

func printJSON(v any) {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("marshal output: %v", err)
		return
	}
	fmt.Println(string(pretty))
}
