// Package record implements the record command
package record

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fjacquet/chatledger/cmd/root"
	"fjacquet/chatledger/internal/ingest"
	"fjacquet/chatledger/internal/logging"
)

// DateLayout is the accepted --date format.
const DateLayout = "2006-01-02 15:04"

var (
	userID    int64
	messageID int64
	date      string
	confirm   bool
	category  string
)

// Cmd represents the record command
var Cmd = &cobra.Command{
	Use:   "record [message]",
	Short: "Record a chat message in the ledger",
	Long: `Record a chat message in the ledger the way the chat bot does: confident
messages are appended, unclear ones get a hint and low confidence ones ask
for confirmation.

Use --confirm to record a low confidence message anyway, optionally with
--category to pick the category by name.

Example:
  chatledger record -u 42 "потратил 500 руб на продукты"
  chatledger record -u 42 --confirm --category транспорт "300 руб"`,
	Args: cobra.MinimumNArgs(1),
	RunE: recordFunc,
}

func init() {
	Cmd.Flags().Int64VarP(&userID, "user", "u", 0, "Chat user ID sending the message")
	Cmd.Flags().Int64VarP(&messageID, "message-id", "m", 0, "Chat message ID")
	Cmd.Flags().StringVarP(&date, "date", "t", "", "Message date (YYYY-MM-DD HH:MM), defaults to now")
	Cmd.Flags().BoolVar(&confirm, "confirm", false, "Record the parse even when confidence is low")
	Cmd.Flags().StringVar(&category, "category", "", "Category to use with --confirm")
}

func recordFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	msg := ingest.Message{
		UserID:    userID,
		MessageID: messageID,
		Text:      strings.Join(args, " "),
	}
	if date != "" {
		msg.Date, err = time.ParseInLocation(DateLayout, date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q (expected %s): %w", date, DateLayout, err)
		}
	}
	if category != "" && !confirm {
		return fmt.Errorf("--category requires --confirm")
	}

	service := c.GetIngest()
	ctx := root.Context(cmd)

	var result ingest.Result
	if confirm {
		parsed := c.GetParser().Parse(strings.TrimSpace(msg.Text))
		result, err = service.Confirm(ctx, msg, parsed, category)
	} else {
		result, err = service.HandleMessage(ctx, msg)
	}

	PrintResult(cmd.OutOrStdout(), result)
	if err != nil {
		return err
	}
	root.Log.Debug("Record command finished", logging.F(logging.FieldOutcome, string(result.Outcome)))
	return nil
}

// PrintResult writes the chat reply for a handled message, or the reason an
// ignored message got none.
func PrintResult(w io.Writer, result ingest.Result) {
	if result.Outcome == ingest.OutcomeIgnored {
		fmt.Fprintf(w, "Ignored: %s\n", result.Reason)
		return
	}
	if result.Reply != "" {
		fmt.Fprintln(w, result.Reply)
	}
}
