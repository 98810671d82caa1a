package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rodstewart/savlink-cli/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Savlink configuration",
	Long:  `Manage your savlinkctl configuration including connection settings, API token and display defaults.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration interactively",
	Long:  `Create a new configuration file by prompting for the Savlink API URL, API token and short-link base URL.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long:  `Show the current configuration with API token redacted for security.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"url":           cfg.URL,
				"token":         redactToken(cfg.Token),
				"base_url":      cfg.BaseURL,
				"slug_length":   cfg.SlugLength,
				"default_sort":  cfg.DefaultSort,
				"default_order": cfg.DefaultOrder,
				"log_level":     cfg.LogLevel,
				"log_format":    cfg.LogFormat,
			})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "URL: %s\n", cfg.URL)
		fmt.Fprintf(out, "Token: %s\n", redactToken(cfg.Token))
		fmt.Fprintf(out, "Base URL: %s\n", orDash(cfg.BaseURL))
		fmt.Fprintf(out, "Slug length: %d\n", cfg.SlugLength)
		fmt.Fprintf(out, "Default sort: %s %s\n", cfg.DefaultSort, cfg.DefaultOrder)
		fmt.Fprintf(out, "Log: %s (%s)\n", cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

var configTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to Savlink",
	Long:  `Verify that the configured URL and token can successfully connect to the Savlink API.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient(cmd)
		if err != nil {
			return err
		}

		if err := client.TestConnection(); err != nil {
			if jsonOutput {
				_ = writeJSON(cmd.OutOrStdout(), map[string]string{
					"status": "failed",
					"error":  err.Error(),
				})
				return err
			}
			return fmt.Errorf("✗ Connection failed: %w", err)
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]string{
				"status": "success",
				"url":    cfg.URL,
			})
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Successfully connected to %s\n", cfg.URL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configTestCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "Savlink API URL: ")
	url, err := readLine(reader)
	if err != nil {
		return fmt.Errorf("failed to read URL: %w", err)
	}

	fmt.Fprint(out, "API Token: ")
	var token string
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		tokenBytes, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = strings.TrimSpace(string(tokenBytes))
		fmt.Fprintln(out)
	} else {
		token, err = readLine(reader)
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}

	fmt.Fprint(out, "Short-link base URL (optional): ")
	baseURL, err := readLine(reader)
	if err != nil {
		return fmt.Errorf("failed to read base URL: %w", err)
	}

	if url == "" || token == "" {
		return fmt.Errorf("URL and token are required")
	}

	cfg := config.Defaults()
	cfg.URL = url
	cfg.Token = token
	cfg.BaseURL = baseURL
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	configPath := cfgFile
	if configPath == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		configPath = defaultPath
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if jsonOutput {
		return writeJSON(out, map[string]string{
			"status": "success",
			"path":   configPath,
		})
	}

	fmt.Fprintf(out, "✓ Configuration saved to %s\n", configPath)
	return nil
}

// readLine reads one trimmed line. A final line without a newline is accepted.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// redactToken masks most of the token for security
func redactToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
