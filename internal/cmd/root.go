package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/webmint/mint-go-cli/internal/mint"
	"golang.org/x/term"
)

var (
	// Global flags
	baseURL            string
	organization       string
	username           string
	timeout            int
	verbose            bool
	outputFormat       string
	compactJSON        bool
	insecureSkipVerify bool

	// Global config
	cfg *mint.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mintctl",
	Short: "mintctl - Manage monetization developers",
	Long: `A command-line client for the monetization management API.

mintctl talks to the developer resources under
/mint/organizations/{org}/developers: balances, accepted rate plans,
eligible products, payments and revenue reports.

Configuration can be provided via:
  - Config file: ~/.config/mintctl/config.yaml (or platform-equivalent)
  - Environment variables: MINT_BASE_URL, MINT_ORG, MINT_USERNAME, etc.
  - Command-line flags: --url, --org, --username, etc.

Examples:
  # Show a developer's prepaid balance for the current month
  mintctl developers balance dev@example.com

  # List the rate plans a developer has accepted
  mintctl developers rateplans dev@example.com

  # Products the developer may purchase
  mintctl developers eligible-products dev@example.com`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that manage local state don't need a reachable API
		skipCommands := []string{"completion", "version", "help", "login", "config"}
		for _, skip := range skipCommands {
			if cmd.Name() == skip || (cmd.Parent() != nil && cmd.Parent().Name() == skip) {
				return nil
			}
		}

		var err error
		cfg, err = mint.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Command-line flags override file and environment settings
		cfg.MergeWithFlags(mint.FlagValues{
			BaseURL:            getValueWithEnvFallback(baseURL, "MINT_BASE_URL"),
			Organization:       getValueWithEnvFallback(organization, "MINT_ORG"),
			Username:           getValueWithEnvFallback(username, "MINT_USERNAME"),
			Password:           getValueWithEnvFallback("", "MINT_PASSWORD"),
			Timeout:            timeout,
			Verbose:            verbose,
			OutputFormat:       outputFormat,
			InsecureSkipVerify: insecureSkipVerify,
		})
		if outputFormat == "" {
			outputFormat = cfg.OutputFormat
		}

		configureColorOutput(cfg.Color)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "Base URL of the management API")
	rootCmd.PersistentFlags().StringVar(&organization, "org", "", "Organization name")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "Username for Basic authentication")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 0, "Request timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format (table or json)")
	rootCmd.PersistentFlags().BoolVar(&compactJSON, "compact", false, "Compact JSON output")
	rootCmd.PersistentFlags().BoolVar(&insecureSkipVerify, "insecure", false, "Skip TLS certificate verification")
}

// getValueWithEnvFallback returns the flag value or falls back to an environment variable
func getValueWithEnvFallback(flagValue, envVar string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envVar)
}

// configureColorOutput sets color mode from the config setting
func configureColorOutput(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // auto
		color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
	}
}
