// Package batch feeds files of chat messages through the ingest service,
// one message per line, and summarises what happened to them.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"fjacquet/chatledger/internal/ingest"
	"fjacquet/chatledger/internal/logging"
	"fjacquet/chatledger/internal/models"
)

// LineDateLayout is the optional date prefix of a message line:
//
//	2026-10-18 12:30 потратил 500 руб на продукты
const LineDateLayout = "2006-01-02 15:04"

// maxLineBytes bounds a single message line.
const maxLineBytes = 64 * 1024

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// Include widens the range to cover t.
func (dr DateRange) Include(t time.Time) DateRange {
	if t.IsZero() {
		return dr
	}
	if dr.Start.IsZero() || t.Before(dr.Start) {
		dr.Start = t
	}
	if dr.End.IsZero() || t.After(dr.End) {
		dr.End = t
	}
	return dr
}

// MessageHandler is the part of the ingest service the processor drives.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg ingest.Message) (ingest.Result, error)
}

// LineResult is the outcome of one message line.
type LineResult struct {
	Line   int
	Text   string
	Result ingest.Result
}

// Summary describes a processed batch.
type Summary struct {
	Lines    int
	Outcomes map[ingest.Outcome]int
	Results  []LineResult
	// Recorded lists the transactions appended to the ledger, in input order.
	Recorded   []models.Transaction
	DateRange  DateRange
	Duplicates int
}

// Count returns how many lines ended with outcome.
func (s Summary) Count(outcome ingest.Outcome) int {
	return s.Outcomes[outcome]
}

// Processor runs message files through a MessageHandler.
type Processor struct {
	handler MessageHandler
	logger  logging.Logger
}

// NewProcessor creates a new Processor instance
func NewProcessor(handler MessageHandler, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Processor{handler: handler, logger: logger}
}

// Process handles every non-empty line of r as a message from userID. Lines
// starting with '#' are comments. The line number becomes the message ID.
// Processing stops at the first handler error (unauthorized sender or ledger
// failure); the summary covers the lines handled so far.
func (p *Processor) Process(ctx context.Context, r io.Reader, userID int64) (Summary, error) {
	summary := Summary{Outcomes: make(map[ingest.Outcome]int)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		msg := ParseLine(raw)
		msg.UserID = userID
		msg.MessageID = int64(line)

		result, err := p.handler.HandleMessage(ctx, msg)
		summary.Lines++
		if err != nil {
			p.logger.WithError(err).Error("Failed to process message line",
				logging.F("line", line))
			return summary, fmt.Errorf("line %d: %w", line, err)
		}

		summary.Outcomes[result.Outcome]++
		summary.Results = append(summary.Results, LineResult{Line: line, Text: msg.Text, Result: result})
		if result.Outcome == ingest.OutcomeRecorded && result.Transaction != nil {
			summary.Recorded = append(summary.Recorded, *result.Transaction)
			summary.DateRange = summary.DateRange.Include(result.Transaction.Date)
		}

		p.logger.Debug("Processed message line",
			logging.F("line", line),
			logging.F(logging.FieldOutcome, string(result.Outcome)))
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("failed to read messages: %w", err)
	}

	summary.Duplicates = p.detectAndLogDuplicates(summary.Recorded)

	p.logger.Info("Batch processed",
		logging.F(logging.FieldCount, summary.Lines),
		logging.F("recorded", summary.Count(ingest.OutcomeRecorded)),
		logging.F("duplicates", summary.Duplicates))
	return summary, nil
}

// ParseLine splits an optional LineDateLayout prefix from the message text.
func ParseLine(raw string) ingest.Message {
	raw = strings.TrimSpace(raw)
	if len(raw) > len(LineDateLayout) {
		if date, err := time.ParseInLocation(LineDateLayout, raw[:len(LineDateLayout)], time.Local); err == nil {
			return ingest.Message{Date: date, Text: strings.TrimSpace(raw[len(LineDateLayout):])}
		}
	}
	return ingest.Message{Text: raw}
}

// detectAndLogDuplicates warns about recorded transactions that look like
// the same purchase sent twice. Nothing is removed from the ledger.
func (p *Processor) detectAndLogDuplicates(transactions []models.Transaction) int {
	sorted := make([]models.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	duplicates := 0
	for i := 0; i < len(sorted)-1; i++ {
		for j := i + 1; j < len(sorted); j++ {
			if arePotentialDuplicates(sorted[i], sorted[j]) {
				duplicates++
				p.logger.Warn("Potential duplicate transaction",
					logging.F("date", sorted[i].Date.Format("2006-01-02")),
					logging.F(logging.FieldAmount, sorted[i].Amount.StringFixed(2)),
					logging.F(logging.FieldCategory, sorted[i].Category),
					logging.F(logging.FieldRow, sorted[j].Row))
				break
			}
		}
	}
	return duplicates
}

// arePotentialDuplicates reports same user, day, signed amount, category
// and description.
func arePotentialDuplicates(a, b models.Transaction) bool {
	if a.UserID != b.UserID {
		return false
	}
	y1, m1, d1 := a.Date.Date()
	y2, m2, d2 := b.Date.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		return false
	}
	if !a.SignedAmount().Equal(b.SignedAmount()) {
		return false
	}
	return a.Category == b.Category &&
		strings.EqualFold(strings.TrimSpace(a.Description), strings.TrimSpace(b.Description))
}
