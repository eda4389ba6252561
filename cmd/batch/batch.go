// Package batch handles batch processing of message files
package batch

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fjacquet/chatledger/cmd/root"
	"fjacquet/chatledger/internal/batch"
	"fjacquet/chatledger/internal/ingest"
	"fjacquet/chatledger/internal/logging"
	"fjacquet/chatledger/internal/validation"
)

var (
	userID  int64
	verbose bool
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Batch process a file of chat messages",
	Long: `Batch process a text file of chat messages, one message per line, and
append the confident ones to the ledger.

Blank lines and lines starting with '#' are skipped. A line may start with a
"YYYY-MM-DD HH:MM" date; otherwise the message is dated now. Each line is
handled exactly like a chat message sent by --user.

Example:
  chatledger batch -u 42 messages.txt`,
	Args: cobra.ExactArgs(1),
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().Int64VarP(&userID, "user", "u", 0, "Chat user ID the messages are recorded for")
	Cmd.Flags().BoolVar(&verbose, "verbose", false, "Print the outcome of every line")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	inputFile := args[0]
	root.Log.Info("Batch command called", logging.F(logging.FieldFile, inputFile))

	if err := validation.IsValidInputFile(inputFile); err != nil {
		return err
	}

	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	file, err := os.Open(inputFile) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			root.Log.WithError(cerr).Warn("Failed to close file")
		}
	}()

	summary, err := c.GetBatch().Process(root.Context(cmd), file, userID)
	PrintSummary(cmd.OutOrStdout(), summary, verbose)
	if err != nil {
		return fmt.Errorf("batch stopped: %w", err)
	}
	return nil
}

var outcomeOrder = []ingest.Outcome{
	ingest.OutcomeRecorded,
	ingest.OutcomeNeedsConfirmation,
	ingest.OutcomeUnclear,
	ingest.OutcomeInvalid,
	ingest.OutcomeIgnored,
}

// PrintSummary writes the per-outcome counts of a batch, and the outcome of
// each line when verbose is set.
func PrintSummary(w io.Writer, summary batch.Summary, verbose bool) {
	if verbose {
		for _, r := range summary.Results {
			fmt.Fprintf(w, "%4d  %-18s  %s\n", r.Line, r.Result.Outcome, r.Text)
		}
	}

	fmt.Fprintf(w, "Messages: %d\n", summary.Lines)
	for _, outcome := range outcomeOrder {
		fmt.Fprintf(w, "  %-18s %d\n", outcome, summary.Count(outcome))
	}
	if dr := summary.DateRange.String(); dr != "" {
		fmt.Fprintf(w, "Period:   %s\n", dr)
	}
	if summary.Duplicates > 0 {
		fmt.Fprintf(w, "Possible duplicates: %d\n", summary.Duplicates)
	}
}
