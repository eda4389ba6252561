package parser

import (
	"regexp"

	"fjacquet/chatledger/internal/models"
	"fjacquet/chatledger/internal/textutils"
)

var (
	plusMarker  = regexp.MustCompile(`(?m)^\s*\+`)
	minusMarker = regexp.MustCompile(`(?m)^\s*-`)
	signMarker  = regexp.MustCompile(`(?m)^\s*[+-]`)
)

// DirectionClassifier decides income versus expense from sign markers and
// lexicon words.
type DirectionClassifier struct {
	income  *textutils.WordPattern
	expense *textutils.WordPattern
}

// NewDirectionClassifier compiles both lexicons as whole-word patterns.
func NewDirectionClassifier(income, expense []string) (*DirectionClassifier, error) {
	in, err := textutils.CompileWords(income)
	if err != nil {
		return nil, configError("income_lexicon", err)
	}
	ex, err := textutils.CompileWords(expense)
	if err != nil {
		return nil, configError("expense_lexicon", err)
	}
	return &DirectionClassifier{income: in, expense: ex}, nil
}

// Classify checks, in order: a line starting with +, a line starting with -,
// an income word, an expense word.
func (c *DirectionClassifier) Classify(text string) (models.Direction, models.DirectionSource) {
	switch {
	case plusMarker.MatchString(text):
		return models.DirectionIncome, models.SourceSign
	case minusMarker.MatchString(text):
		return models.DirectionExpense, models.SourceSign
	case c.income.MatchString(text):
		return models.DirectionIncome, models.SourceKeyword
	case c.expense.MatchString(text):
		return models.DirectionExpense, models.SourceKeyword
	}
	return models.DirectionUnknown, models.SourceNone
}

// Lexicon returns the word pattern of d. Anything but income gets the expense
// lexicon.
func (c *DirectionClassifier) Lexicon(d models.Direction) *textutils.WordPattern {
	if d == models.DirectionIncome {
		return c.income
	}
	return c.expense
}
