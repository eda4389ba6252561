// Package parser turns free-text chat messages into ParsedTransaction values.
//
// The pipeline runs amount extraction, direction inference, category
// classification, description cleaning and confidence scoring, in that order.
// Every stage is deterministic and works on precompiled pattern tables, so a
// Parser can be shared between goroutines.
package parser

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"fjacquet/chatledger/internal/models"
	"fjacquet/chatledger/internal/parsererror"
)

// DefaultThreshold is the confidence at or above which a parse is accepted.
const DefaultThreshold = 0.5

var (
	defaultIncomeLexicon = []string{
		"получил", "получила", "заработал", "заработала", "зарплата", "доход",
		"пришло", "перевод", "премия", "аванс", "подработка", "фриланс",
	}
	defaultExpenseLexicon = []string{
		"потратил", "потратила", "купил", "купила", "заплатил", "заплатила",
		"потрачено", "потратили", "оплатил", "оплатила", "покупка", "трата",
	}
	defaultStopwords = []string{
		"на", "в", "за", "для", "с", "по", "от", "до", "из", "к", "у", "о", "об",
		"и", "а", "но", "или", "что", "это", "тот", "та", "то", "те",
	}
)

// Rules is the configuration a Parser is built from.
type Rules struct {
	HomeCurrency   string
	IncomeLexicon  []string
	ExpenseLexicon []string
	Stopwords      []string

	// Threshold is the minimum confidence for a parse to be accepted.
	Threshold float64

	// MinPlausible and MaxPlausible bound the amounts that earn the
	// plausibility bonus.
	MinPlausible decimal.Decimal
	MaxPlausible decimal.Decimal

	// DefaultDirection is applied when an amount was found but no direction
	// could be read from the message. DirectionUnknown disables the policy.
	DefaultDirection models.Direction
}

// DefaultRules returns the built-in Russian lexicons with RUB as home currency.
func DefaultRules() Rules {
	return Rules{
		HomeCurrency:     "RUB",
		IncomeLexicon:    append([]string(nil), defaultIncomeLexicon...),
		ExpenseLexicon:   append([]string(nil), defaultExpenseLexicon...),
		Stopwords:        append([]string(nil), defaultStopwords...),
		Threshold:        DefaultThreshold,
		MinPlausible:     decimal.NewFromInt(1),
		MaxPlausible:     decimal.NewFromInt(1_000_000),
		DefaultDirection: models.DirectionExpense,
	}
}

// Validate checks the rules before any pattern is compiled.
func (r Rules) Validate() error {
	switch {
	case r.HomeCurrency == "":
		return configError("home_currency", fmt.Errorf("must not be empty"))
	case len(r.IncomeLexicon) == 0:
		return configError("income_lexicon", fmt.Errorf("must not be empty"))
	case len(r.ExpenseLexicon) == 0:
		return configError("expense_lexicon", fmt.Errorf("must not be empty"))
	case r.Threshold < 0 || r.Threshold > 1:
		return configError("threshold", fmt.Errorf("%v is outside [0, 1]", r.Threshold))
	case r.MinPlausible.IsNegative():
		return configError("min_amount", fmt.Errorf("%s is negative", r.MinPlausible))
	case r.MinPlausible.GreaterThan(r.MaxPlausible):
		return configError("max_amount",
			fmt.Errorf("%s is below min_amount %s", r.MaxPlausible, r.MinPlausible))
	case r.DefaultDirection != models.DirectionUnknown && !r.DefaultDirection.IsKnown():
		return configError("default_direction", fmt.Errorf("unknown direction %q", string(r.DefaultDirection)))
	}
	return nil
}

func configError(setting string, err error) error {
	return &parsererror.ConfigError{Component: "parser", Setting: setting, Err: err}
}

var errNoClassifier = errors.New("category classifier is required")
