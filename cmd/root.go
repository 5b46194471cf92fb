package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrkey/refvalid/internal/validation"
)

const (
	app = "refvalid"
)

type Config struct {
	Validation  *validation.Config `mapstructure:"validation"`
	Embeddings  *EmbeddingsConfig  `mapstructure:"embeddings"`
	HistoryFile string             `mapstructure:"history-file"`
}

type EmbeddingsConfig struct {
	// Provider selects the embedding backend: local (default), gemini,
	// openai or none.
	Provider   string        `mapstructure:"provider"`
	Dimensions int           `mapstructure:"dimensions"`
	Gemini     *GeminiConfig `mapstructure:"gemini"`
	OpenAI     *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type OpenAIConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "refvalid validates third-party reference submissions into scored, structured records",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("history-file", "REFVALID_HISTORY_FILE"); err != nil {
		log.Fatalf("binding REFVALID_HISTORY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is refvalid.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional: defaults cover every threshold. An
	// explicitly requested file must still parse.
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || cfgFile != "" {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Validation == nil {
		defaults := validation.DefaultConfig()
		config.Validation = &defaults
	}
	if config.Embeddings == nil {
		config.Embeddings = &EmbeddingsConfig{}
	}

	return config, nil
}
