// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the kgextract CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/kgextract/internal/logging"
	"github.com/pdiddy/kgextract/internal/secrets"
	"github.com/pdiddy/kgextract/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	logger = logging.Discard()
)

// rootCmd is the base command for the kgextract CLI.
var rootCmd = &cobra.Command{
	Use:   "kgextract",
	Short: "Extract a knowledge graph of triples from free text",
	Long: `kgextract builds a knowledge graph from text documents. Each document is
tokenized, parsed into a discourse representation (Boxer), and entity-linked
(Babelfy); the results are aligned into co-mention triples between linked
entities and relation triples connecting entities to verb frames.

Use extract to process documents, and triples, export, import, and stats to
work with the persistent triple store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		logger = logging.New(logging.Options{Debug: debug || viper.GetBool("debug")})

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", "keys", secrets.Names(s))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./kgextract.yaml or ~/.config/kgextract/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of secret files (babelfy-api-key, boxer-token)")
	rootCmd.PersistentFlags().String("db", "", "SQLite triple store path (overrides store.path)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("kgextract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "kgextract"))
		}
	}

	viper.SetEnvPrefix("KGEXTRACT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment variables reach
// viper.Unmarshal.
func setDefaults() {
	d := types.PipelineConfig{}.WithDefaults()
	viper.SetDefault("tokenizer.backend", d.Tokenizer.Backend)
	viper.SetDefault("tokenizer.container.image", "")
	viper.SetDefault("tokenizer.container.args", []string{})
	viper.SetDefault("parser.backend", d.Parser.Backend)
	viper.SetDefault("parser.http.url", "")
	viper.SetDefault("parser.http.user_agent", "")
	viper.SetDefault("parser.container.image", "")
	viper.SetDefault("parser.container.args", []string{})
	viper.SetDefault("linker.backend", d.Linker.Backend)
	viper.SetDefault("linker.http.url", "")
	viper.SetDefault("linker.http.user_agent", "")
	viper.SetDefault("linker.lang", d.Linker.Lang)
	viper.SetDefault("linker.api_key", "")
	viper.SetDefault("extraction.frames_path", "")
	viper.SetDefault("extraction.workers", d.Extraction.Workers)
	viper.SetDefault("extraction.call_timeout", d.Extraction.CallTimeout)
	viper.SetDefault("extraction.comention_predicate", d.Extraction.ComentionPredicate)
	viper.SetDefault("store.path", "")
	viper.SetDefault("store.max_results", d.Store.MaxResults)
}

// loadConfig decodes the merged configuration (flags, env, file, defaults)
// and fills secrets.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	cfg = cfg.WithDefaults()
	cfg.Linker.APIKey = secrets.Default(loadedSecrets, secrets.BabelfyAPIKey, cfg.Linker.APIKey)
	return cfg, nil
}

func userAgent(configured string) string {
	if configured != "" {
		return configured
	}
	return "kgextract/" + version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
