package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/webmint/mint-go-cli/internal/mint"
)

var (
	reportDefData string
	reportData    string
	reportOutFile string
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Run revenue reports and manage report definitions",
}

var reportsRunCmd = &cobra.Command{
	Use:         "run <email>",
	Short:       "Run a revenue report for a developer",
	Annotations: map[string]string{"route": "POST /mint/organizations/:org/developers/:email/revenue-reports"},
	Args:        cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var criteria interface{}
		if err := parseJSONData(reportData, &criteria); err != nil {
			return err
		}

		client, err := mint.NewClient(cfg)
		if err != nil {
			return err
		}

		dev := client.Developer()
		dev.SetEmail(args[0])

		report, err := dev.RevenueReport(context.Background(), criteria)
		if err != nil {
			return err
		}

		if reportOutFile != "" {
			if err := os.WriteFile(reportOutFile, report, 0644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStderr(), "Report written to %s\n", reportOutFile)
			return nil
		}
		cmd.OutOrStdout().Write(report)
		return nil
	},
}

var reportsSaveDefCmd = &cobra.Command{
	Use:         "save-definition <email>",
	Short:       "Save a report definition for a developer",
	Annotations: map[string]string{"route": "POST /mint/organizations/:org/developers/:email/report-definitions"},
	Args:        cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var definition interface{}
		if err := parseJSONData(reportDefData, &definition); err != nil {
			return err
		}

		client, err := mint.NewClient(cfg)
		if err != nil {
			return err
		}

		dev := client.Developer()
		dev.SetEmail(args[0])

		if err := dev.SaveReportDefinition(context.Background(), definition); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStderr(), "Report definition saved for %s\n", args[0])
		return nil
	},
}

func init() {
	reportsRunCmd.Flags().StringVar(&reportData, "data", "", "Report criteria as JSON, @file, or - for stdin")
	reportsRunCmd.MarkFlagRequired("data")
	reportsRunCmd.Flags().StringVar(&reportOutFile, "out", "", "Write the report to a file instead of stdout")
	reportsSaveDefCmd.Flags().StringVar(&reportDefData, "data", "", "Report definition as JSON, @file, or - for stdin")
	reportsSaveDefCmd.MarkFlagRequired("data")

	reportsCmd.AddCommand(reportsRunCmd)
	reportsCmd.AddCommand(reportsSaveDefCmd)
	rootCmd.AddCommand(reportsCmd)
}
