// Package ingest turns incoming chat messages into ledger records. It decides
// whether a message is recorded, needs the user's confirmation, or is
// ignored, and renders the reply sent back to the chat.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"fjacquet/chatledger/internal/categorizer"
	"fjacquet/chatledger/internal/logging"
	"fjacquet/chatledger/internal/models"
	"fjacquet/chatledger/internal/parsererror"
	"fjacquet/chatledger/internal/validation"
)

// minMessageRunes is the shortest message worth parsing.
const minMessageRunes = 3

// suggestionCount is how many alternative categories a confirmation offers.
const suggestionCount = 3

// Outcome is what happened to a message.
type Outcome string

const (
	OutcomeIgnored           Outcome = "ignored"
	OutcomeUnclear           Outcome = "unclear"
	OutcomeNeedsConfirmation Outcome = "needs_confirmation"
	OutcomeInvalid           Outcome = "invalid"
	OutcomeRecorded          Outcome = "recorded"
)

// Message is one incoming chat message.
type Message struct {
	UserID    int64
	MessageID int64
	Text      string
	// Date is when the message was sent; zero means now.
	Date time.Time
}

// Result describes how a message was handled.
type Result struct {
	Outcome     Outcome
	Parsed      models.ParsedTransaction
	Transaction *models.Transaction
	// Suggestions are alternative categories offered with a confirmation.
	Suggestions []categorizer.Suggestion
	// Errors holds validation failures for OutcomeInvalid.
	Errors []error
	// Reason explains an ignored message.
	Reason string
	Reply  string
}

// TransactionParser extracts a transaction from text. *parser.Parser
// implements it.
type TransactionParser interface {
	Parse(text string) models.ParsedTransaction
	Accepted(p models.ParsedTransaction) bool
}

// CategoryAdvisor proposes and resolves categories. *categorizer.Classifier
// implements it.
type CategoryAdvisor interface {
	Suggest(text string, d models.Direction, topN int) []categorizer.Suggestion
	Resolve(input string, d models.Direction) (string, bool)
}

// Ledger persists transactions. *store.Ledger implements it.
type Ledger interface {
	Append(ctx context.Context, tx *models.Transaction) (int, error)
}

// Service handles chat messages for a set of authorized users.
type Service struct {
	parser    TransactionParser
	advisor   CategoryAdvisor
	validator *validation.TransactionValidator
	messages  validation.MessageValidator
	ledger    Ledger
	users     map[int64]struct{}
	logger    logging.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for transaction dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the UUID generator for transaction IDs.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService wires a Service. An empty authorized list lets every user in.
func NewService(
	parser TransactionParser,
	advisor CategoryAdvisor,
	validator *validation.TransactionValidator,
	ledger Ledger,
	authorized []int64,
	logger logging.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{
		parser:    parser,
		advisor:   advisor,
		validator: validator,
		ledger:    ledger,
		users:     make(map[int64]struct{}, len(authorized)),
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, id := range authorized {
		s.users[id] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	logger.Info("Ingest service initialized", logging.F("authorized_users_count", len(s.users)))
	return s
}

// Authorized reports whether userID may use the service.
func (s *Service) Authorized(userID int64) bool {
	if len(s.users) == 0 {
		return true
	}
	_, ok := s.users[userID]
	return ok
}

// HandleMessage parses msg and records it when the parse is confident
// enough. Only authorization and ledger failures are returned as errors;
// everything else is described by the Result.
func (s *Service) HandleMessage(ctx context.Context, msg Message) (Result, error) {
	logger := s.logger.WithFields(
		logging.F(logging.FieldUserID, msg.UserID),
		logging.F(logging.FieldMessageID, msg.MessageID))

	if !s.Authorized(msg.UserID) {
		logger.Warn("Unauthorized access attempt")
		return Result{Reply: UnauthorizedReply}, parsererror.ErrUnauthorized
	}

	text := strings.TrimSpace(msg.Text)
	logger.Info("Processing text message", logging.F(logging.FieldTextLength, utf8.RuneCountInString(text)))

	if err := s.messages.ValidateText(text); err != nil {
		return s.ignore(logger, "invalid text", Result{Errors: []error{err}}), nil
	}
	if s.messages.IsCommand(text) {
		return s.ignore(logger, "command", Result{}), nil
	}
	if utf8.RuneCountInString(text) < minMessageRunes {
		return s.ignore(logger, "too short", Result{}), nil
	}

	parsed := s.parser.Parse(text)
	logger.Info("Parsed transaction message",
		logging.F(logging.FieldAmount, parsed.AmountString()),
		logging.F(logging.FieldDirection, parsed.Direction.String()),
		logging.F(logging.FieldCategory, parsed.Category),
		logging.F(logging.FieldConfidence, parsed.Confidence))

	switch {
	case !parsed.HasAmount() && !parsed.HasDirection():
		return s.ignore(logger, "not a transaction", Result{Parsed: parsed}), nil
	case !parsed.HasAmount() || !parsed.HasDirection():
		logger.Info("Handling unclear transaction message", logging.F(logging.FieldOutcome, OutcomeUnclear))
		return Result{Outcome: OutcomeUnclear, Parsed: parsed, Reply: renderUnclear(parsed)}, nil
	case !s.parser.Accepted(parsed):
		suggestions := s.advisor.Suggest(text, parsed.Direction, suggestionCount)
		logger.Info("Handling low confidence transaction message",
			logging.F(logging.FieldOutcome, OutcomeNeedsConfirmation),
			logging.F(logging.FieldConfidence, parsed.Confidence))
		return Result{
			Outcome:     OutcomeNeedsConfirmation,
			Parsed:      parsed,
			Suggestions: suggestions,
			Reply:       renderConfirmation(parsed, suggestions),
		}, nil
	}

	return s.record(ctx, logger, msg, parsed, parsed.Category)
}

// Confirm records a parse the user approved, optionally with a category
// typed by the user. The typed name is matched against the taxonomy of the
// parsed direction.
func (s *Service) Confirm(ctx context.Context, msg Message, parsed models.ParsedTransaction, category string) (Result, error) {
	logger := s.logger.WithFields(
		logging.F(logging.FieldUserID, msg.UserID),
		logging.F(logging.FieldMessageID, msg.MessageID))

	if !s.Authorized(msg.UserID) {
		logger.Warn("Unauthorized access attempt")
		return Result{Reply: UnauthorizedReply}, parsererror.ErrUnauthorized
	}
	if !parsed.HasAmount() || !parsed.HasDirection() {
		return Result{Outcome: OutcomeUnclear, Parsed: parsed, Reply: renderUnclear(parsed)}, nil
	}

	chosen := parsed.Category
	if strings.TrimSpace(category) != "" {
		resolved, ok := s.advisor.Resolve(category, parsed.Direction)
		if !ok {
			err := &parsererror.ValidationError{
				Field:  "category",
				Reason: fmt.Sprintf("неизвестная категория: %s", category),
			}
			return s.invalid(logger, Result{Parsed: parsed, Errors: []error{err}}), nil
		}
		chosen = resolved
	}
	return s.record(ctx, logger, msg, parsed, chosen)
}

func (s *Service) record(ctx context.Context, logger logging.Logger, msg Message, parsed models.ParsedTransaction, category string) (Result, error) {
	date := msg.Date
	if date.IsZero() {
		date = s.now()
	}
	tx := &models.Transaction{
		ID:          s.newID(),
		UserID:      msg.UserID,
		Amount:      parsed.Amount.Decimal,
		Direction:   parsed.Direction,
		Category:    category,
		Description: parsed.Description,
		Currency:    parsed.Currency,
		Date:        date,
		MessageID:   msg.MessageID,
	}

	result := Result{Parsed: parsed, Transaction: tx}
	if errs := s.validator.Validate(*tx); len(errs) > 0 {
		result.Errors = errs
		return s.invalid(logger, result), nil
	}

	row, err := s.ledger.Append(ctx, tx)
	if err != nil {
		logger.WithError(err).Error("Failed to save transaction")
		return Result{Parsed: parsed, Transaction: tx, Reply: StoreFailureReply},
			fmt.Errorf("recording message %d: %w", msg.MessageID, err)
	}
	tx.Row = row

	logger.Info("Transaction processed successfully",
		logging.F(logging.FieldOutcome, OutcomeRecorded),
		logging.F(logging.FieldAmount, tx.Amount.StringFixed(2)),
		logging.F(logging.FieldCategory, tx.Category),
		logging.F(logging.FieldRow, row))

	result.Outcome = OutcomeRecorded
	result.Reply = renderRecorded(*tx)
	return result, nil
}

func (s *Service) ignore(logger logging.Logger, reason string, result Result) Result {
	logger.Debug("Ignoring message",
		logging.F(logging.FieldOutcome, OutcomeIgnored),
		logging.F(logging.FieldReason, reason))
	result.Outcome = OutcomeIgnored
	result.Reason = reason
	return result
}

func (s *Service) invalid(logger logging.Logger, result Result) Result {
	reasons := make([]string, 0, len(result.Errors))
	for _, err := range result.Errors {
		reasons = append(reasons, err.Error())
	}
	logger.Warn("Transaction validation failed",
		logging.F(logging.FieldOutcome, OutcomeInvalid),
		logging.F(logging.FieldReason, strings.Join(reasons, "; ")))
	result.Outcome = OutcomeInvalid
	result.Reply = renderInvalid(result.Errors)
	return result
}
