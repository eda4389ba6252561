// Package categorizer maps free-text messages to a fixed category taxonomy
// using weighted whole-word keyword matching.
package categorizer

import (
	"sort"
	"strings"

	"fjacquet/chatledger/internal/logging"
	"fjacquet/chatledger/internal/models"
	"fjacquet/chatledger/internal/parsererror"
	"fjacquet/chatledger/internal/textutils"
)

// Suggestion is a category together with its keyword score.
type Suggestion struct {
	Category string
	Score    float64
}

type compiledCategory struct {
	name    string
	pattern *textutils.WordPattern
}

// table is the compiled form of one CategorySet.
type table struct {
	categories []compiledCategory
	fallback   string
	names      []string
	members    map[string]struct{}
}

// Classifier scores a message against the keyword table of a direction.
// It is immutable after New and safe for concurrent use.
type Classifier struct {
	expense *table
	income  *table
	logger  logging.Logger
}

// New validates the taxonomy and compiles one whole-word pattern per category.
func New(taxonomy Taxonomy, logger logging.Logger) (*Classifier, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if err := taxonomy.Validate(); err != nil {
		return nil, err
	}

	expense, err := compileSet(models.DirectionExpense, taxonomy.Expense)
	if err != nil {
		return nil, err
	}
	income, err := compileSet(models.DirectionIncome, taxonomy.Income)
	if err != nil {
		return nil, err
	}

	logger.Debug("Compiled category taxonomy",
		logging.F("expense_categories", len(expense.names)),
		logging.F("income_categories", len(income.names)))

	return &Classifier{expense: expense, income: income, logger: logger}, nil
}

func compileSet(d models.Direction, set CategorySet) (*table, error) {
	t := &table{
		fallback: set.Fallback,
		names:    set.Names(),
		members:  make(map[string]struct{}, len(set.Categories)+1),
	}
	for _, name := range t.names {
		t.members[name] = struct{}{}
	}
	for _, c := range set.Categories {
		p, err := textutils.CompileWords(c.Keywords)
		if err != nil {
			return nil, &parsererror.ConfigError{
				Component: "categorizer",
				Setting:   d.String() + " keywords for " + c.Name,
				Err:       err,
			}
		}
		t.categories = append(t.categories, compiledCategory{name: c.Name, pattern: p})
	}
	return t, nil
}

func (c *Classifier) tableFor(d models.Direction) *table {
	switch d {
	case models.DirectionExpense:
		return c.expense
	case models.DirectionIncome:
		return c.income
	default:
		return nil
	}
}

// scores returns every category with a positive score, in taxonomy order.
// A category scores one point per keyword hit plus a tenth of a point per
// matched rune, so longer keywords break ties between equal hit counts.
func (t *table) scores(text string) []Suggestion {
	text = strings.ToLower(strings.TrimSpace(text))
	var out []Suggestion
	for _, cat := range t.categories {
		matches := cat.pattern.FindAll(text)
		if len(matches) == 0 {
			continue
		}
		runes := 0
		for _, m := range matches {
			runes += m.RuneLen()
		}
		out = append(out, Suggestion{
			Category: cat.name,
			Score:    float64(len(matches)) + float64(runes)/10,
		})
	}
	return out
}

// Classify returns the best category for text within the taxonomy of d.
// The set's fallback is returned when nothing scores; for an unknown
// direction the result is empty because there is no taxonomy to pick from.
func (c *Classifier) Classify(text string, d models.Direction) string {
	t := c.tableFor(d)
	if t == nil {
		return ""
	}

	best := Suggestion{Category: t.fallback}
	for _, s := range t.scores(text) {
		if s.Score > best.Score {
			best = s
		}
	}

	c.logger.Debug("Classified category",
		logging.F(logging.FieldDirection, d.String()),
		logging.F(logging.FieldCategory, best.Category),
		logging.F("score", best.Score))
	return best.Category
}

// Suggest returns up to topN categories with a positive score, best first.
// Equal scores keep taxonomy order. A non-positive topN returns all of them.
func (c *Classifier) Suggest(text string, d models.Direction, topN int) []Suggestion {
	t := c.tableFor(d)
	if t == nil {
		return nil
	}
	scored := t.scores(text)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if topN > 0 && len(scored) > topN {
		scored = scored[:topN]
	}
	return scored
}

// Categories lists the taxonomy of d in order, fallback last.
func (c *Classifier) Categories(d models.Direction) []string {
	t := c.tableFor(d)
	if t == nil {
		return nil
	}
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Fallback returns the catch-all category of d.
func (c *Classifier) Fallback(d models.Direction) string {
	if t := c.tableFor(d); t != nil {
		return t.fallback
	}
	return ""
}

// IsMember reports whether category belongs to the taxonomy of d.
func (c *Classifier) IsMember(category string, d models.Direction) bool {
	t := c.tableFor(d)
	if t == nil {
		return false
	}
	_, ok := t.members[category]
	return ok
}
