package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rodstewart/paperless-cli/internal/api"
	"github.com/rodstewart/paperless-cli/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Paperless configuration",
	Long:  `Manage the server URL, API token and client defaults used by paperlessctl.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration interactively",
	Long: `Prompt for the Paperless URL and API token and write them to the config file.
The URL must be an absolute http or https URL. An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long:  `Show the effective configuration after file, environment and flags are merged. The token is redacted.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to Paperless",
	Long:  `Send one authenticated request to the API root to check the URL and token.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigTest,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configTestCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}

// settingsView is the redacted form of a Config shown to the user
type settingsView struct {
	URL        string `json:"url"`
	Token      string `json:"token"`
	DryRun     bool   `json:"dry_run"`
	MaxPages   int    `json:"max_pages,omitempty"`
	NextScheme string `json:"next_scheme,omitempty"`
	LogLevel   string `json:"log_level"`
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	in := bufio.NewReader(os.Stdin)
	serverURL, err := prompt(in, "Paperless URL: ")
	if err != nil {
		return err
	}
	token, err := promptSecret(in, "API Token: ")
	if err != nil {
		return err
	}
	if serverURL == "" || token == "" {
		return errors.New("URL and token are required")
	}

	// Same validation the client applies, before anything is written
	client, err := api.NewBuilder().SetURL(serverURL).SetToken(token).Build()
	if err != nil {
		return err
	}

	cfg := &config.Config{URL: client.BaseURL(), Token: token}
	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if jsonOutput {
		return outputJSON(map[string]string{"status": "success", "path": path})
	}
	fmt.Printf("✓ Configuration saved to %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	view := settingsView{
		URL:        cfg.URL,
		Token:      redactToken(cfg.Token),
		DryRun:     cfg.DryRun,
		MaxPages:   cfg.MaxPages,
		NextScheme: cfg.NextScheme,
		LogLevel:   cfg.LogLevel,
	}
	if jsonOutput {
		return outputJSON(view)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
	fmt.Fprintf(w, "URL:\t%s\n", view.URL)
	fmt.Fprintf(w, "Token:\t%s\n", view.Token)
	fmt.Fprintf(w, "Dry run:\t%t\n", view.DryRun)
	if view.MaxPages != 0 {
		fmt.Fprintf(w, "Max pages:\t%d\n", view.MaxPages)
	}
	if view.NextScheme != "" {
		fmt.Fprintf(w, "Next scheme:\t%s\n", view.NextScheme)
	}
	fmt.Fprintf(w, "Log level:\t%s\n", view.LogLevel)
	return w.Flush()
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	client, err := setup()
	if err != nil {
		return err
	}

	pingErr := client.Ping(cmd.Context())
	if jsonOutput {
		report := map[string]any{"url": client.BaseURL(), "status": "success", "status_code": 200}
		if pingErr != nil {
			report["status"] = "failed"
			report["status_code"] = api.StatusCode(pingErr)
			report["error"] = pingErr.Error()
		}
		if err := outputJSON(report); err != nil {
			return err
		}
		return pingErr
	}

	if pingErr != nil {
		return fmt.Errorf("✗ Connection failed: %w", pingErr)
	}
	fmt.Printf("✓ Successfully connected to %s\n", client.BaseURL())
	return nil
}

// resolveConfigPath returns --config or the default location
func resolveConfigPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultConfigPath()
}

// prompt prints label and reads one trimmed line
func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads without echo on a terminal and falls back to a plain
// line for piped input.
func promptSecret(in *bufio.Reader, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(in, label)
	}

	fmt.Print(label)
	secret, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

// redactToken masks most of the token
func redactToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
