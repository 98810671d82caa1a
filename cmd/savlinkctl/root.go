package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rodstewart/savlink-cli/internal/api"
	"github.com/rodstewart/savlink-cli/internal/config"
	"github.com/rodstewart/savlink-cli/internal/logger"
	"github.com/rodstewart/savlink-cli/internal/models"
	"github.com/rodstewart/savlink-cli/internal/store"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	jsonOutput bool
	debugMode  bool
	flagURL    string
	flagToken  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "savlinkctl",
	Short: "Savlink CLI - Manage your Savlink links from the command line",
	Long: `savlinkctl is a command-line interface for your Savlink links, folders and tags.

Configure your Savlink connection with 'savlinkctl config init', then use commands like
'savlinkctl list', 'savlinkctl add' and 'savlinkctl folders' to manage your collection.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ~/.config/savlink/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON instead of human-readable")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "Savlink API URL (overrides config and env)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "API token (overrides config and env)")
}

// loadConfig loads the configuration from file and environment variables,
// with --url and --token taking precedence when given.
func loadConfig() (*config.Config, error) {
	return config.LoadWithFlags(cfgFile, rootCmd.PersistentFlags())
}

// newLogger builds the diagnostic logger. --debug wins over the configured
// level.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	level := logger.ParseLevel(cfg.LogLevel)
	if debugMode {
		level = slog.LevelDebug
	}
	return logger.New(logger.Config{
		Writer: cmd.ErrOrStderr(),
		Format: cfg.LogFormat,
		Level:  level,
	})
}

// newClient loads the configuration and returns an API client for it.
func newClient(cmd *cobra.Command) (*api.Client, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}
	client := api.NewClient(cfg.URL, cfg.Token, api.WithLogger(newLogger(cmd, cfg)))
	return client, cfg, nil
}

// loadStore fetches the whole collection into a fresh store, sorted by the
// configured default.
func loadStore(client *api.Client, cfg *config.Config) (*store.Store, error) {
	s := store.New()
	if by, err := models.ParseSort(cfg.DefaultSort, cfg.DefaultOrder); err == nil {
		s.SetSort(by)
	}
	if err := s.Load(client); err != nil {
		return nil, err
	}
	return s, nil
}

func parseID(arg, kind string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s (must be a number)", kind, arg)
	}
	return id, nil
}

func parseIDs(args []string, kind string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg, kind)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseFolderRef reads a folder argument. "root" and "none" mean no folder.
func parseFolderRef(arg string) (*int, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "root", "none":
		return nil, nil
	}
	id, err := parseID(arg, "folder")
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (y/N): ", prompt)

	reader := bufio.NewReader(cmd.InOrStdin())
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read input: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
