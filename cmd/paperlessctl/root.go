package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rodstewart/paperless-cli/internal/api"
	"github.com/rodstewart/paperless-cli/internal/config"
	"github.com/rodstewart/paperless-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	jsonOutput bool
	debugMode  bool
	dryRun     bool
	flagURL    string
	flagToken  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "paperlessctl",
	Short: "Paperless CLI - Upload and organize documents on a Paperless server",
	Long: `paperlessctl is a command-line interface for a Paperless document server.

Configure your connection with 'paperlessctl config init', then use commands like
'paperlessctl upload', 'paperlessctl documents list', and 'paperlessctl task wait'
to ingest and organize your documents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ~/.config/paperlessctl/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON instead of human-readable")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "build mutating requests without sending them")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "Paperless server URL (overrides config and env)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "API token (overrides config and env)")
}

// loadConfig loads the configuration from file and environment variables,
// then applies CLI flag overrides if provided.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil && !errors.Is(err, config.ErrNotConfigured) {
		return nil, err
	}

	// Flags may complete a partial configuration
	if flagURL != "" {
		cfg.URL = flagURL
	}
	if flagToken != "" {
		cfg.Token = flagToken
	}
	if dryRun {
		cfg.DryRun = true
	}

	if cfg.URL == "" || cfg.Token == "" {
		return nil, config.ErrNotConfigured
	}

	return cfg, nil
}

// newClient sets up logging and builds an API client from cfg
func newClient(cfg *config.Config) (*api.Client, error) {
	level := logging.Level(cfg.LogLevel)
	if debugMode {
		level = logging.LevelDebug
	}
	logging.Setup(logging.Config{Level: level, Pretty: true, Output: os.Stderr})

	builder := api.NewBuilder().
		SetURL(cfg.URL).
		SetToken(cfg.Token).
		SetDryRun(cfg.DryRun).
		SetLogger(logging.NewLogger("paperless"))
	if cfg.MaxPages != 0 {
		builder.SetMaxPages(cfg.MaxPages)
	}
	if cfg.NextScheme != "" {
		builder.SetNextRewrite(api.UpgradeScheme(cfg.NextScheme))
	}

	return builder.Build()
}

// setup loads the configuration and builds a client in one step
func setup() (*api.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return newClient(cfg)
}

func outputJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
