package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/webmint/mint-go-cli/internal/mint"
	"github.com/webmint/mint-go-cli/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage local configuration",
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := mint.LoadConfig()
		if err != nil {
			return err
		}

		// never print the stored password
		redacted := *config
		if redacted.Password != "" {
			redacted.Password = "********"
		}

		format := output.Format(outputFormat)
		if format == "" {
			format = output.Format(config.OutputFormat)
		}
		return output.PrintTo(cmd.OutOrStdout(), redacted, format)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Supported keys: base-url, org, username, timeout, output-format, color.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := mint.LoadConfig()
		if err != nil {
			return err
		}

		key, value := args[0], args[1]
		switch key {
		case mint.ConfigKeyBaseURL:
			config.BaseURL = value
		case mint.ConfigKeyOrganization:
			config.Organization = value
		case mint.ConfigKeyUsername:
			config.Username = value
		case mint.ConfigKeyOutputFormat:
			config.OutputFormat = value
		case mint.ConfigKeyColor:
			config.Color = value
		case mint.ConfigKeyTimeout:
			if _, err := fmt.Sscanf(value, "%d", &config.Timeout); err != nil {
				return fmt.Errorf("invalid timeout value %q", value)
			}
		default:
			return fmt.Errorf("unknown config key %q", key)
		}

		if err := config.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStderr(), "Set %s\n", key)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
