package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aangers/ragmeta/internal/config"
	"github.com/aangers/ragmeta/internal/home"
	"github.com/aangers/ragmeta/version"
)

var (
	cfgFile  string
	homeDir  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "ragmeta",
	Short: "Metadata extraction pipeline for annual-report PDFs",
	Long: `Ragmeta turns archives of annual-report PDFs into structured business
metadata and challenge answer submissions.

The pipeline includes:
  - Archive ingestion with dataset matching by content hash
  - PDF partitioning into per-page layout elements
  - LLM descriptions of report images and tables
  - Batch metadata extraction with a durable 24h job lifecycle
  - Aggregation into per-document metadata records
  - Question analysis and answering over the aggregates`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.ragmeta/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "ragmeta home directory (default: ~/.ragmeta)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn, error",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// Best effort; a .env file is optional.
		_ = godotenv.Load()
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(partitionCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(callsCmd)
	rootCmd.AddCommand(runCmd)
}

// newLogger builds the process logger from the --log-level flag.
func newLogger() *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// setup resolves the home directory and configuration for a command run.
func setup() (*home.Dir, *config.Config, *slog.Logger, error) {
	logger := newLogger()

	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, nil, nil, err
	}

	path := cfgFile
	if path == "" && h.ConfigExists() {
		path = h.ConfigPath()
	}
	mgr, err := config.NewManager(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	return h, mgr.Get(), logger, nil
}

// apiKey resolves the OpenAI key, failing fast when absent.
func apiKey(cfg *config.Config) (string, error) {
	key := cfg.ResolvedAPIKey()
	if key == "" {
		return "", fmt.Errorf("no OpenAI API key: set openai.api_key or OPENAI_API_KEY")
	}
	return key, nil
}

func openAITimeout(cfg *config.Config) time.Duration {
	if cfg.OpenAI.TimeoutSeconds <= 0 {
		return 500 * time.Second
	}
	return time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second
}
