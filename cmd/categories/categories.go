// Package categories implements the categories command
package categories

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/chatledger/cmd/root"
	"fjacquet/chatledger/internal/categorizer"
	"fjacquet/chatledger/internal/logging"
	"fjacquet/chatledger/internal/models"
	"fjacquet/chatledger/internal/store"
)

var (
	direction string
	export    string
	keywords  bool
)

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "List the category taxonomy",
	Long: `List the expense and income categories known to the classifier, in
taxonomy order with the fallback category last.

Use --export to write the active taxonomy to a YAML file that can be edited
and loaded back with --categories.

Example:
  chatledger categories --direction income
  chatledger categories --export config/categories.yaml`,
	Args: cobra.NoArgs,
	RunE: categoriesFunc,
}

func init() {
	Cmd.Flags().StringVarP(&direction, "direction", "d", "", "Only list expense or income categories")
	Cmd.Flags().StringVarP(&export, "export", "e", "", "Write the taxonomy to this YAML file")
	Cmd.Flags().BoolVarP(&keywords, "keywords", "k", false, "Show the keywords of each category")
}

func categoriesFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	taxonomy := c.GetTaxonomy()

	if export != "" {
		if err := store.SaveTaxonomy(export, taxonomy); err != nil {
			return fmt.Errorf("failed to export categories: %w", err)
		}
		root.Log.Info("Exported category taxonomy", logging.F(logging.FieldFile, export))
		fmt.Fprintf(cmd.OutOrStdout(), "Categories written to %s\n", export)
		return nil
	}

	directions := []models.Direction{models.DirectionExpense, models.DirectionIncome}
	if direction != "" {
		d := models.ParseDirection(direction)
		if !d.IsKnown() {
			return fmt.Errorf("invalid direction: %s (must be 'expense' or 'income')", direction)
		}
		directions = []models.Direction{d}
	}

	for _, d := range directions {
		set, _ := taxonomy.For(d)
		printSet(cmd.OutOrStdout(), d, set)
	}
	return nil
}

func printSet(w io.Writer, d models.Direction, set categorizer.CategorySet) {
	fmt.Fprintf(w, "%s:\n", d)
	for _, rule := range set.Categories {
		fmt.Fprintf(w, "  %s %s\n", models.CategoryEmoji(rule.Name), rule.Name)
		if keywords && len(rule.Keywords) > 0 {
			fmt.Fprintf(w, "      %s\n", strings.Join(rule.Keywords, ", "))
		}
	}
	fmt.Fprintf(w, "  %s %s (fallback)\n", models.CategoryEmoji(set.Fallback), set.Fallback)
}
