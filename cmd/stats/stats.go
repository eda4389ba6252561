// Package stats implements the stats command
package stats

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fjacquet/chatledger/cmd/root"
)

// MonthLayout is the accepted --month format.
const MonthLayout = "2006-01"

var (
	month  string
	userID int64
	format string
)

// Cmd represents the stats command
var Cmd = &cobra.Command{
	Use:   "stats",
	Short: "Show monthly income and expense statistics",
	Long: `Show the income, expenses, balance and top categories recorded in the
ledger for one month, the current one by default.

Example:
  chatledger stats
  chatledger stats --month 2026-09 --user 42 --format json`,
	Args: cobra.NoArgs,
	RunE: statsFunc,
}

func init() {
	Cmd.Flags().StringVarP(&month, "month", "m", "", "Month to report (YYYY-MM), defaults to the current month")
	Cmd.Flags().Int64VarP(&userID, "user", "u", 0, "Only count this user's transactions (0 for everyone)")
	Cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
}

func statsFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	period := time.Now()
	if month != "" {
		period, err = time.ParseInLocation(MonthLayout, month, time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q (expected %s): %w", month, MonthLayout, err)
		}
	}

	transactions, err := c.GetLedger().List(root.Context(cmd))
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	generator := c.GetReport()
	summary := generator.MonthlySummary(transactions, period.Year(), period.Month(), userID, c.GetConfig().Currency.Home)
	out, err := generator.GenerateReport(summary, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
