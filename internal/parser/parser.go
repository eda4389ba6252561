package parser

import (
	"github.com/shopspring/decimal"

	"fjacquet/chatledger/internal/logging"
	"fjacquet/chatledger/internal/models"
)

// CategoryClassifier assigns a category of the given direction to a message.
// *categorizer.Classifier implements it.
type CategoryClassifier interface {
	Classify(text string, d models.Direction) string
}

// Parser runs the full extraction pipeline. It is immutable after New.
type Parser struct {
	rules      Rules
	amounts    *AmountExtractor
	directions *DirectionClassifier
	categories CategoryClassifier
	cleaner    *DescriptionCleaner
	scorer     ConfidenceScorer
	logger     logging.Logger
}

// New validates rules and compiles every pattern table once.
func New(rules Rules, categories CategoryClassifier, logger logging.Logger) (*Parser, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if categories == nil {
		return nil, configError("categories", errNoClassifier)
	}

	verbs := make([]string, 0, len(rules.IncomeLexicon)+len(rules.ExpenseLexicon))
	verbs = append(verbs, rules.IncomeLexicon...)
	verbs = append(verbs, rules.ExpenseLexicon...)
	amounts, err := NewAmountExtractor(verbs)
	if err != nil {
		return nil, configError("amount_patterns", err)
	}

	directions, err := NewDirectionClassifier(rules.IncomeLexicon, rules.ExpenseLexicon)
	if err != nil {
		return nil, err
	}

	cleaner, err := NewDescriptionCleaner(amounts, directions, rules.Stopwords)
	if err != nil {
		return nil, err
	}

	return &Parser{
		rules:      rules,
		amounts:    amounts,
		directions: directions,
		categories: categories,
		cleaner:    cleaner,
		scorer:     NewConfidenceScorer(rules.MinPlausible, rules.MaxPlausible),
		logger:     logger,
	}, nil
}

// Parse extracts a transaction from text. It never fails: whatever could not
// be determined is left absent and lowers the confidence.
func (p *Parser) Parse(text string) models.ParsedTransaction {
	result := models.ParsedTransaction{
		RawText:  text,
		Currency: p.rules.HomeCurrency,
	}

	if amount, ok := p.amounts.Extract(text); ok {
		result.Amount = decimal.NewNullDecimal(amount)
	}
	result.MultipleAmounts = p.amounts.CountMarked(text) > 1

	result.Direction, result.DirectionSource = p.directions.Classify(text)
	if !result.HasDirection() && result.HasAmount() && p.rules.DefaultDirection.IsKnown() {
		result.Direction = p.rules.DefaultDirection
		result.DirectionSource = models.SourceDefault
	}

	if result.HasDirection() {
		result.Category = p.categories.Classify(text, result.Direction)
		result.Description = p.cleaner.Clean(text, result.Direction)
	}

	result.Confidence = p.scorer.Score(result)

	p.logger.Debug("Parsed message",
		logging.F(logging.FieldAmount, result.AmountString()),
		logging.F(logging.FieldDirection, result.Direction.String()),
		logging.F(logging.FieldDirectionSource, string(result.DirectionSource)),
		logging.F(logging.FieldCategory, result.Category),
		logging.F(logging.FieldConfidence, result.Confidence))

	return result
}

// Accepted reports whether the parse reaches the confidence threshold.
func (p *Parser) Accepted(t models.ParsedTransaction) bool {
	return t.Confidence >= p.rules.Threshold
}

// IsTransactionMessage reports whether text parses into an accepted
// transaction with an amount.
func (p *Parser) IsTransactionMessage(text string) bool {
	t := p.Parse(text)
	return t.HasAmount() && p.Accepted(t)
}

// Threshold returns the acceptance threshold.
func (p *Parser) Threshold() float64 {
	return p.rules.Threshold
}

// Rules returns a copy of the rules the parser was built with.
func (p *Parser) Rules() Rules {
	r := p.rules
	r.IncomeLexicon = append([]string(nil), p.rules.IncomeLexicon...)
	r.ExpenseLexicon = append([]string(nil), p.rules.ExpenseLexicon...)
	r.Stopwords = append([]string(nil), p.rules.Stopwords...)
	return r
}
