package main

import (
	"errors"
	"fmt"

	"github.com/rodstewart/savlink-cli/internal/config"
	"github.com/rodstewart/savlink-cli/internal/urlutil"
	"github.com/spf13/cobra"
)

// urlCmd groups the offline URL helpers. None of them talk to the server.
var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "URL helpers for normalizing, inspecting and shortening links",
}

var urlNormalizeCmd = &cobra.Command{
	Use:   "normalize <url>",
	Short: "Print the canonical form of a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(cmd, "url", urlutil.NormalizeURL(args[0]))
	},
}

var urlDomainCmd = &cobra.Command{
	Use:   "domain <url>",
	Short: "Print the domain of a URL without www.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain := urlutil.ExtractDomain(args[0])
		if domain == "" {
			return fmt.Errorf("no domain found in %q", args[0])
		}
		return printResult(cmd, "domain", domain)
	},
}

var urlInfoCmd = &cobra.Command{
	Use:   "info <url>",
	Short: "Show everything the URL helpers know about a URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runURLInfo,
}

var urlSlugCmd = &cobra.Command{
	Use:   "slug",
	Short: "Generate a random short-link slug",
	Args:  cobra.NoArgs,
	RunE:  runURLSlug,
}

var urlCheckSlugCmd = &cobra.Command{
	Use:   "check-slug <slug>",
	Short: "Check whether a slug is well formed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		valid := urlutil.ValidateSlug(args[0])
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"slug": args[0], "valid": valid})
		}
		if !valid {
			return fmt.Errorf("✗ %q is not a valid slug: use at least 3 lowercase letters, digits or hyphens, not starting or ending with a hyphen", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is a valid slug\n", args[0])
		return nil
	},
}

var urlUTMCmd = &cobra.Command{
	Use:   "utm <url>",
	Short: "Add or strip campaign parameters",
	Long: `Add utm_* campaign parameters to a URL, or remove them with --strip.

Examples:
  savlinkctl url utm https://example.com --source newsletter --campaign spring
  savlinkctl url utm "https://example.com/?utm_source=x&id=4" --strip`,
	Args: cobra.ExactArgs(1),
	RunE: runURLUTM,
}

var (
	slugLength int
	utmParams  urlutil.UTMParams
	utmStrip   bool
	infoBase   string
)

var utmKeys = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content"}

func init() {
	rootCmd.AddCommand(urlCmd)
	urlCmd.AddCommand(urlNormalizeCmd, urlDomainCmd, urlInfoCmd, urlSlugCmd, urlCheckSlugCmd, urlUTMCmd)

	urlSlugCmd.Flags().IntVarP(&slugLength, "length", "l", 0, "Slug length (default: slug_length from config, else 7)")

	urlUTMCmd.Flags().StringVar(&utmParams.Source, "source", "", "utm_source")
	urlUTMCmd.Flags().StringVar(&utmParams.Medium, "medium", "", "utm_medium")
	urlUTMCmd.Flags().StringVar(&utmParams.Campaign, "campaign", "", "utm_campaign")
	urlUTMCmd.Flags().StringVar(&utmParams.Term, "term", "", "utm_term")
	urlUTMCmd.Flags().StringVar(&utmParams.Content, "content", "", "utm_content")
	urlUTMCmd.Flags().BoolVar(&utmStrip, "strip", false, "Remove all utm_* parameters instead")

	urlInfoCmd.Flags().StringVar(&infoBase, "base", "", "Short-link host to compare against (default: base_url from config)")
}

func printResult(cmd *cobra.Command, key, value string) error {
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), map[string]string{key: value})
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

// optionalConfig loads the config for commands that work without one.
func optionalConfig() (*config.Config, error) {
	cfg, err := loadConfig()
	if errors.Is(err, config.ErrNotConfigured) {
		return config.Defaults(), nil
	}
	return cfg, err
}

func runURLSlug(cmd *cobra.Command, args []string) error {
	length := slugLength
	if length == 0 {
		cfg, err := optionalConfig()
		if err != nil {
			return err
		}
		length = cfg.SlugLength
	}
	if length < 3 {
		return fmt.Errorf("slug length must be at least 3")
	}

	slug, err := urlutil.GenerateSlug(length)
	if err != nil {
		return fmt.Errorf("failed to generate slug: %w", err)
	}
	return printResult(cmd, "slug", slug)
}

func runURLUTM(cmd *cobra.Command, args []string) error {
	if !urlutil.IsValidURL(args[0]) {
		return fmt.Errorf("invalid URL: %s", args[0])
	}

	var result string
	if utmStrip {
		result = urlutil.RemoveQueryParams(args[0], utmKeys...)
	} else {
		if utmParams == (urlutil.UTMParams{}) {
			return fmt.Errorf("no parameters given. Use --source, --medium, --campaign, --term or --content")
		}
		result = urlutil.AppendUTMParams(args[0], utmParams)
	}
	return printResult(cmd, "url", result)
}

type urlInfo struct {
	Input      string `json:"input"`
	Valid      bool   `json:"valid"`
	Normalized string `json:"normalized"`
	Domain     string `json:"domain"`
	Display    string `json:"display"`
	Secure     bool   `json:"secure"`
	Internal   bool   `json:"internal"`
	Favicon    string `json:"favicon"`
}

func runURLInfo(cmd *cobra.Command, args []string) error {
	base := infoBase
	if base == "" {
		cfg, err := optionalConfig()
		if err != nil {
			return err
		}
		base = cfg.BaseURL
	}

	normalized := urlutil.NormalizeURL(args[0])
	info := urlInfo{
		Input:      args[0],
		Valid:      urlutil.IsValidURL(normalized),
		Normalized: normalized,
		Domain:     urlutil.ExtractDomain(normalized),
		Display:    urlutil.ExtractDisplayURL(normalized),
		Secure:     urlutil.IsSecure(normalized),
		Internal:   urlutil.IsInternalURL(normalized, base),
		Favicon:    urlutil.FaviconURL(normalized),
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), info)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Valid:       %t\n", info.Valid)
	fmt.Fprintf(out, "Normalized:  %s\n", info.Normalized)
	fmt.Fprintf(out, "Domain:      %s\n", orDash(info.Domain))
	fmt.Fprintf(out, "Display:     %s\n", info.Display)
	fmt.Fprintf(out, "Secure:      %t\n", info.Secure)
	fmt.Fprintf(out, "Internal:    %t\n", info.Internal)
	fmt.Fprintf(out, "Favicon:     %s\n", orDash(info.Favicon))
	return nil
}
