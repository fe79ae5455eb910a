package cmd

import (
	"bufio"
	"fmt"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/webmint/mint-go-cli/internal/mint"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store API credentials in the config file",
	Long: `Prompt for credentials and write them to the config file.

The password is read without echo when stdin is a terminal.`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	config, err := mint.LoadConfig()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if config.BaseURL == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Base URL: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		config.BaseURL = strings.TrimSpace(line)
	}

	if organization != "" {
		config.Organization = organization
	}
	if config.Organization == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Organization: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		config.Organization = strings.TrimSpace(line)
	}

	if username != "" {
		config.Username = username
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Username [%s]: ", config.Username)
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		if line = strings.TrimSpace(line); line != "" {
			config.Username = line
		}
	}

	password, err := readPassword(cmd, reader)
	if err != nil {
		return err
	}
	config.Password = password

	if err := config.Validate(); err != nil {
		return err
	}
	if err := config.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Credentials saved."))
	return nil
}

// readPassword reads the password without echo when attached to a terminal,
// falling back to a plain line read so tests and pipes still work.
func readPassword(cmd *cobra.Command, reader *bufio.Reader) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
