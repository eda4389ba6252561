// Package suggest implements the suggest command
package suggest

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/chatledger/cmd/root"
	"fjacquet/chatledger/internal/models"
)

var (
	topN      int
	direction string
)

// Cmd represents the suggest command
var Cmd = &cobra.Command{
	Use:   "suggest [message]",
	Short: "Suggest categories for a chat message",
	Long: `Suggest categories for a chat message, best keyword score first.

The direction is read from the message unless --direction is given.

Example:
  chatledger suggest -n 5 "кофе и кино"`,
	Args: cobra.MinimumNArgs(1),
	RunE: suggestFunc,
}

func init() {
	Cmd.Flags().IntVarP(&topN, "top", "n", 3, "Number of suggestions to show (0 for all)")
	Cmd.Flags().StringVarP(&direction, "direction", "d", "", "Direction to suggest for: expense or income")
}

func suggestFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	d := models.ParseDirection(direction)
	if direction != "" && !d.IsKnown() {
		return fmt.Errorf("invalid direction: %s (must be 'expense' or 'income')", direction)
	}
	if !d.IsKnown() {
		d = c.GetParser().Parse(text).Direction
	}
	if !d.IsKnown() {
		return fmt.Errorf("cannot tell income from expense in %q, use --direction", text)
	}

	classifier := c.GetClassifier()
	suggestions := classifier.Suggest(text, d, topN)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Direction: %s\n", d)
	if len(suggestions) == 0 {
		fmt.Fprintf(out, "No keyword matched, fallback: %s\n", classifier.Fallback(d))
		return nil
	}
	for i, s := range suggestions {
		fmt.Fprintf(out, "%d. %s %s (%.2f)\n", i+1, models.CategoryEmoji(s.Category), s.Category, s.Score)
	}
	return nil
}
