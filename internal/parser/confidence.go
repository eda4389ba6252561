package parser

import (
	"github.com/shopspring/decimal"

	"fjacquet/chatledger/internal/models"
)

var (
	weightAmount      = decimal.RequireFromString("0.4")
	weightPlausible   = decimal.RequireFromString("0.1")
	weightDirection   = decimal.RequireFromString("0.3")
	weightCategory    = decimal.RequireFromString("0.2")
	weightDescription = decimal.RequireFromString("0.1")

	// multiAmountCap keeps ambiguous messages below the default threshold.
	multiAmountCap = decimal.RequireFromString("0.4")
	maxConfidence  = decimal.NewFromInt(1)
)

// ConfidenceScorer turns the populated fields of a parse into a score in
// [0, 1]. Weights are summed as decimals so that thresholds compare exactly.
type ConfidenceScorer struct {
	min decimal.Decimal
	max decimal.Decimal
}

// NewConfidenceScorer returns a scorer with the given plausibility bounds.
func NewConfidenceScorer(lo, hi decimal.Decimal) ConfidenceScorer {
	return ConfidenceScorer{min: lo, max: hi}
}

// Score computes the confidence of p. A direction supplied by the default
// policy, and the category derived from it, earn nothing. A message with
// MultipleAmounts never scores above 0.4, which keeps it under the default
// acceptance threshold.
func (s ConfidenceScorer) Score(p models.ParsedTransaction) float64 {
	total := decimal.Zero

	if p.HasAmount() {
		total = total.Add(weightAmount)
		a := p.Amount.Decimal
		if a.GreaterThanOrEqual(s.min) && a.LessThanOrEqual(s.max) {
			total = total.Add(weightPlausible)
		}
	}

	inferred := p.HasDirection() && p.DirectionSource != models.SourceDefault
	if inferred {
		total = total.Add(weightDirection)
		if p.HasCategory() {
			total = total.Add(weightCategory)
		}
	}

	if p.HasDescription() {
		total = total.Add(weightDescription)
	}

	if p.MultipleAmounts {
		total = decimal.Min(total, multiAmountCap)
	}
	return decimal.Min(total, maxConfidence).InexactFloat64()
}
