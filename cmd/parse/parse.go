// Package parse implements the parse command
package parse

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/chatledger/cmd/root"
	"fjacquet/chatledger/internal/models"
)

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse [message]",
	Short: "Parse a chat message without recording it",
	Long: `Parse a chat message and print the extracted amount, direction, category,
description and confidence. Nothing is written to the ledger.

Example:
  chatledger parse "потратил 500 руб на продукты"`,
	Args: cobra.MinimumNArgs(1),
	RunE: parseFunc,
}

func parseFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	p := c.GetParser()

	text := strings.Join(args, " ")
	parsed := p.Parse(text)
	PrintParsed(cmd.OutOrStdout(), parsed, p.Accepted(parsed))
	return nil
}

// PrintParsed writes a human readable view of a parse result.
func PrintParsed(w io.Writer, parsed models.ParsedTransaction, accepted bool) {
	amount := "-"
	if parsed.HasAmount() {
		amount = models.FormatAmount(parsed.Amount.Decimal, parsed.Currency)
	}
	direction := parsed.Direction.String()
	if parsed.DirectionSource != models.SourceNone {
		direction += " (" + string(parsed.DirectionSource) + ")"
	}
	status := "rejected"
	if accepted {
		status = "accepted"
	}

	fmt.Fprintf(w, "Message:     %s\n", parsed.RawText)
	fmt.Fprintf(w, "Amount:      %s\n", amount)
	fmt.Fprintf(w, "Direction:   %s\n", direction)
	fmt.Fprintf(w, "Category:    %s\n", orDash(parsed.Category))
	fmt.Fprintf(w, "Description: %s\n", orDash(parsed.Description))
	fmt.Fprintf(w, "Confidence:  %.2f (%s)\n", parsed.Confidence, status)
	if parsed.MultipleAmounts {
		fmt.Fprintln(w, "Warning:     several amounts found, only the first one was kept")
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
