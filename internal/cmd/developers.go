package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/webmint/mint-go-cli/internal/mint"
	"github.com/webmint/mint-go-cli/internal/output"
)

var (
	// Balance flags
	balanceMonth    int
	balanceYear     int
	balanceCurrency string
	// Top-up flags
	topUpCurrency string
)

var developersCmd = &cobra.Command{
	Use:   "developers",
	Short: "Manage monetization developers",
	Long:  `Inspect and operate on developer resources: profile, balances, rate plans, products and reports.`,
}

var developersGetCmd = &cobra.Command{
	Use:         "get <email>",
	Short:       "Get a developer",
	Annotations: map[string]string{"route": "GET /mint/organizations/:org/developers/:email"},
	Args:        cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mint.NewClient(cfg)
		if err != nil {
			return err
		}

		dev := client.Developer()
		if err := dev.Load(context.Background(), args[0]); err != nil {
			return err
		}

		if output.Format(outputFormat) == output.JSON {
			raw, err := dev.MarshalJSON()
			if err != nil {
				return err
			}
			return output.PrintRawJSON(cmd.OutOrStdout(), raw, compactJSON)
		}
		return output.PrintTo(cmd.OutOrStdout(), dev.RawMap(), output.Format(outputFormat))
	},
}

var developersBalanceCmd = &cobra.Command{
	Use:         "balance <email>",
	Short:       "Show the prepaid balance of a developer",
	Annotations: map[string]string{"route": "GET /mint/organizations/:org/developers/:id/prepaid-developer-balance"},
	Args:        cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mint.NewClient(cfg)
		if err != nil {
			return err
		}

		dev := client.Developer()
		dev.SetEmail(args[0])

		balances, err := dev.PrepaidBalance(context.Background(),
			time.Month(balanceMonth), balanceYear, balanceCurrency, "")
		if err != nil {
			return err
		}
		return output.PrintTo(cmd.OutOrStdout(), balances, output.Format(outputFormat))
	},
}

var developersRatePlansCmd = &cobra.Command{
	Use:         "rateplans <email>",
	Short:       "List the rate plans a developer has accepted",
	Annotations: map[string]string{"route": "GET /mint/organizations/:org/developers/:email/developer-accepted-rateplans"},
	Args:        cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mint.NewClient(cfg)
		if err != nil {
			return err
		}

		dev := client.Developer()
		dev.SetEmail(args[0])
		dev.SetID(args[0])

		plans, err := dev.AcceptedRatePlans(context.Background())
		if err != nil {
			return err
		}
		return output.PrintTo(cmd.OutOrStdout(), plans, output.Format(outputFormat))
	},
}

var developersEligibleProductsCmd = &cobra.Command{
	Use:         "eligible-products <email>",
	Short:       "List the products a developer may purchase",
	Annotations: map[string]string{"route": "GET /mint/organizations/:org/developers/:id/eligible-products"},
	Args:        cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mint.NewClient(cfg)
		if err != nil {
			return err
		}

		dev := client.Developer()
		dev.SetEmail(args[0])

		products, err := dev.EligibleProducts(context.Background())
		if err != nil {
			return err
		}
		return output.PrintTo(cmd.OutOrStdout(), products, output.Format(outputFormat))
	},
}

var developersRatePlanCmd = &cobra.Command{
	Use:         "rate-plan <email> <product-id>",
	Short:       "Show the rate plan bound to a developer and product",
	Annotations: map[string]string{"route": "GET /mint/organizations/:org/developers/:id/products/:product/rate-plan-by-developer-product/"},
	Args:        cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mint.NewClient(cfg)
		if err != nil {
			return err
		}

		dev := client.Developer()
		dev.SetEmail(args[0])

		plan, err := dev.RatePlanByProduct(context.Background(), args[1], "")
		if err != nil {
			return err
		}
		return output.PrintTo(cmd.OutOrStdout(), plan, output.Format(outputFormat))
	},
}

var developersTopUpCmd = &cobra.Command{
	Use:         "topup <email> <amount>",
	Short:       "Top up the prepaid balance of a developer",
	Annotations: map[string]string{"route": "POST /mint/organizations/:org/developers/:id/developer-balances"},
	Args:        cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[1], err)
		}

		client, err := mint.NewClient(cfg)
		if err != nil {
			return err
		}

		dev := client.Developer()
		dev.SetEmail(args[0])

		balance := map[string]interface{}{"amount": amount}
		if topUpCurrency != "" {
			balance["supportedCurrency"] = map[string]interface{}{"id": topUpCurrency}
		}
		if err := dev.TopUpPrepaidBalance(context.Background(), balance, ""); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStderr(), "Balance topped up for %s: %s\n", args[0], args[1])
		return nil
	},
}

var developersReportDefsCmd = &cobra.Command{
	Use:         "report-definitions <email>",
	Short:       "List the report definitions saved for a developer",
	Annotations: map[string]string{"route": "GET /mint/organizations/:org/developers/:email/report-definitions"},
	Args:        cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mint.NewClient(cfg)
		if err != nil {
			return err
		}

		dev := client.Developer()
		dev.SetEmail(args[0])

		reports, err := dev.ReportDefinitions(context.Background())
		if err != nil {
			return err
		}
		return output.PrintTo(cmd.OutOrStdout(), reports, output.Format(outputFormat))
	},
}

func init() {
	developersBalanceCmd.Flags().IntVar(&balanceMonth, "month", 0, "Billing month (1-12, defaults to current)")
	developersBalanceCmd.Flags().IntVar(&balanceYear, "year", 0, "Billing year (defaults to current)")
	developersBalanceCmd.Flags().StringVar(&balanceCurrency, "currency", "", "Supported currency id")
	developersTopUpCmd.Flags().StringVar(&topUpCurrency, "currency", "", "Supported currency id")

	developersCmd.AddCommand(developersGetCmd)
	developersCmd.AddCommand(developersBalanceCmd)
	developersCmd.AddCommand(developersRatePlansCmd)
	developersCmd.AddCommand(developersEligibleProductsCmd)
	developersCmd.AddCommand(developersRatePlanCmd)
	developersCmd.AddCommand(developersTopUpCmd)
	developersCmd.AddCommand(developersReportDefsCmd)
	rootCmd.AddCommand(developersCmd)
}
