package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// RowDateFormat is the date layout used in ledger rows.
const RowDateFormat = "2006-01-02 15:04:05"

// Transaction is a persisted ledger record built from an accepted
// ParsedTransaction.
type Transaction struct {
	ID          string
	UserID      int64
	Amount      decimal.Decimal
	Direction   Direction
	Category    string
	Description string
	Currency    string
	Date        time.Time
	MessageID   int64
	// Row is the 1-based data row in the ledger; zero until stored.
	Row int
}

// SignedAmount returns the amount negated for expenses.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Direction == DirectionExpense {
		return t.Amount.Abs().Neg()
	}
	return t.Amount.Abs()
}

// FormattedAmount renders the unsigned amount with currency.
func (t Transaction) FormattedAmount() string {
	return FormatAmount(t.Amount.Abs(), t.Currency)
}

// FormattedAmountWithSign renders "+1,000.00 RUB" or "-500.00 RUB".
func (t Transaction) FormattedAmountWithSign() string {
	sign := "+"
	if t.SignedAmount().IsNegative() {
		sign = "-"
	}
	return sign + FormatAmount(t.Amount.Abs(), t.Currency)
}

// TypeEmoji returns the emoji shown for the transaction direction.
func (t Transaction) TypeEmoji() string {
	if t.Direction == DirectionIncome {
		return "💰"
	}
	return "💸"
}

func (t Transaction) String() string {
	s := fmt.Sprintf("%s %s %s - %s", t.TypeEmoji(), CategoryEmoji(t.Category), t.FormattedAmountWithSign(), t.Category)
	if t.Description != "" {
		s += " (" + t.Description + ")"
	}
	return s
}

// categoryEmojis covers the built-in taxonomy; unknown categories get a memo.
var categoryEmojis = map[string]string{
	"Продукты питания":    "🛒",
	"Транспорт":           "🚗",
	"Развлечения":         "🎉",
	"Одежда":              "👕",
	"Здоровье/медицина":   "🏥",
	"Коммунальные услуги": "🏠",
	"Прочие расходы":      "💳",
	"Зарплата":            "💼",
	"Подработка":          "🔧",
	"Прочие доходы":       "💰",
}

// CategoryEmoji returns the emoji for a category name.
func CategoryEmoji(category string) string {
	if e, ok := categoryEmojis[category]; ok {
		return e
	}
	return "📝"
}

// LedgerRow is the spreadsheet layout of a Transaction: one column per field,
// everything rendered as text.
type LedgerRow struct {
	Date        string `csv:"date"`
	UserID      string `csv:"user_id"`
	Type        string `csv:"type"`
	Amount      string `csv:"amount"`
	Category    string `csv:"category"`
	Description string `csv:"description"`
	MessageID   string `csv:"message_id"`
	ID          string `csv:"id"`
}

// ToRow renders the transaction as a ledger row.
func (t Transaction) ToRow() LedgerRow {
	row := LedgerRow{
		UserID:      strconv.FormatInt(t.UserID, 10),
		Type:        string(t.Direction),
		Amount:      t.Amount.StringFixed(2),
		Category:    t.Category,
		Description: t.Description,
		ID:          t.ID,
	}
	if !t.Date.IsZero() {
		row.Date = t.Date.Format(RowDateFormat)
	}
	if t.MessageID != 0 {
		row.MessageID = strconv.FormatInt(t.MessageID, 10)
	}
	return row
}

// TransactionFromRow parses a ledger row back into a Transaction. The
// currency is not part of the row layout and must be supplied by the caller.
func TransactionFromRow(row LedgerRow, currency string) (Transaction, error) {
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid amount %q: %w", row.Amount, err)
	}
	direction := ParseDirection(row.Type)
	if !direction.IsKnown() {
		return Transaction{}, fmt.Errorf("invalid type %q", row.Type)
	}

	tx := Transaction{
		ID:          row.ID,
		Amount:      amount,
		Direction:   direction,
		Category:    row.Category,
		Description: row.Description,
		Currency:    currency,
	}
	if row.UserID != "" {
		if tx.UserID, err = strconv.ParseInt(row.UserID, 10, 64); err != nil {
			return Transaction{}, fmt.Errorf("invalid user_id %q: %w", row.UserID, err)
		}
	}
	if row.MessageID != "" {
		if tx.MessageID, err = strconv.ParseInt(row.MessageID, 10, 64); err != nil {
			return Transaction{}, fmt.Errorf("invalid message_id %q: %w", row.MessageID, err)
		}
	}
	if row.Date != "" {
		if tx.Date, err = time.ParseInLocation(RowDateFormat, row.Date, time.Local); err != nil {
			return Transaction{}, fmt.Errorf("invalid date %q: %w", row.Date, err)
		}
	}
	return tx, nil
}
