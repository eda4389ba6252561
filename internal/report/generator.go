// Package report builds monthly income and expense summaries from ledger
// transactions and renders them as chat text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"fjacquet/chatledger/internal/logging"
	"fjacquet/chatledger/internal/models"
)

// TopCategories is how many categories the text report lists.
const TopCategories = 5

var monthNames = [...]string{
	"январь", "февраль", "март", "апрель", "май", "июнь",
	"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
}

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string          `json:"category" yaml:"category"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
}

// Summary totals the transactions of one month.
type Summary struct {
	Year             int             `json:"year" yaml:"year"`
	Month            int             `json:"month" yaml:"month"`
	Currency         string          `json:"currency" yaml:"currency"`
	TotalIncome      decimal.Decimal `json:"total_income" yaml:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses" yaml:"total_expenses"`
	Net              decimal.Decimal `json:"net" yaml:"net"`
	TransactionCount int             `json:"transaction_count" yaml:"transaction_count"`
	// Categories is sorted by amount, largest first.
	Categories []CategoryTotal `json:"categories" yaml:"categories"`
}

// Period renders the month as "октябрь 2026".
func (s Summary) Period() string {
	if s.Month < 1 || s.Month > 12 {
		return fmt.Sprintf("%d", s.Year)
	}
	return fmt.Sprintf("%s %d", monthNames[s.Month-1], s.Year)
}

// Generator provides functionality to generate monthly reports in various formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new instance of Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Generator{logger: logger}
}

// MonthlySummary totals the transactions dated in the given month. A
// non-zero userID keeps only that user's transactions.
func (g *Generator) MonthlySummary(transactions []models.Transaction, year int, month time.Month, userID int64, currency string) Summary {
	summary := Summary{
		Year:          year,
		Month:         int(month),
		Currency:      currency,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		Categories:    []CategoryTotal{},
	}

	byCategory := map[string]decimal.Decimal{}
	for _, tx := range transactions {
		if tx.Date.Year() != year || tx.Date.Month() != month {
			continue
		}
		if userID != 0 && tx.UserID != userID {
			continue
		}
		amount := tx.Amount.Abs()
		if tx.Direction == models.DirectionIncome {
			summary.TotalIncome = summary.TotalIncome.Add(amount)
		} else {
			summary.TotalExpenses = summary.TotalExpenses.Add(amount)
		}
		byCategory[tx.Category] = byCategory[tx.Category].Add(amount)
		summary.TransactionCount++
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpenses)

	for category, amount := range byCategory {
		summary.Categories = append(summary.Categories, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Category < b.Category
	})

	g.logger.Info("Generated monthly summary",
		logging.F("period", fmt.Sprintf("%04d-%02d", year, int(month))),
		logging.F(logging.FieldCount, summary.TransactionCount),
		logging.F("net", summary.Net.StringFixed(2)))
	return summary
}

// GenerateReport renders a summary in the specified format (text, json or yaml).
func (g *Generator) GenerateReport(summary Summary, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return []byte(RenderText(summary)), nil
	case "json":
		return g.generateJSONReport(summary)
	case "yaml":
		return g.generateYAMLReport(summary)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSONReport(summary Summary) ([]byte, error) {
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}

func (g *Generator) generateYAMLReport(summary Summary) ([]byte, error) {
	out, err := yaml.Marshal(summary)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}

// RenderText renders the chat statistics message for a summary.
func RenderText(s Summary) string {
	if s.TransactionCount == 0 {
		return fmt.Sprintf("📊 Статистика за %s пуста.\nНачните добавлять транзакции!", s.Period())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Статистика за %s\n\n", s.Period())
	fmt.Fprintf(&b, "💰 Доходы: +%s\n", models.FormatAmount(s.TotalIncome, s.Currency))
	fmt.Fprintf(&b, "💸 Расходы: -%s\n", models.FormatAmount(s.TotalExpenses, s.Currency))
	sign := "+"
	if s.Net.IsNegative() {
		sign = "-"
	}
	fmt.Fprintf(&b, "📈 Баланс: %s%s\n", sign, models.FormatAmount(s.Net.Abs(), s.Currency))
	fmt.Fprintf(&b, "📝 Операций: %d\n", s.TransactionCount)

	if len(s.Categories) > 0 {
		b.WriteString("\n🏷️ Топ категории:\n")
		for i, c := range s.Categories {
			if i == TopCategories {
				break
			}
			fmt.Fprintf(&b, "• %s %s: %s\n", models.CategoryEmoji(c.Category), c.Category, models.FormatAmount(c.Amount, s.Currency))
		}
	}

	switch s.Net.Sign() {
	case 1:
		b.WriteString("\n✅ Доходы превышают расходы.")
	case 0:
		b.WriteString("\n⚖️ Доходы равны расходам.")
	default:
		b.WriteString("\n⚠️ Расходы превышают доходы.")
	}
	return b.String()
}
