package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"fjacquet/chatledger/internal/models"
	"fjacquet/chatledger/internal/parsererror"
	"fjacquet/chatledger/internal/textutils"
)

const (
	MaxDescriptionRunes = 200
	futureTolerance     = time.Hour
)

var (
	MinAmount = decimal.RequireFromString("0.01")
	MaxAmount = decimal.NewFromInt(1_000_000)

	// DefaultCurrencies are accepted when no list is configured.
	DefaultCurrencies = []string{"RUB", "USD", "EUR"}

	prohibitedWords = textutils.MustCompileWords("спам", "реклама", "ссылка", "http")
	prohibitedWWW   = regexp.MustCompile(`(?i)www\.`)
	markupChars     = regexp.MustCompile(`[<>{}\[\]\\]`)
)

// CategoryMembership reports whether a category belongs to the taxonomy of a
// direction. *categorizer.Classifier implements it.
type CategoryMembership interface {
	IsMember(category string, d models.Direction) bool
}

// TransactionValidator checks a transaction field by field.
type TransactionValidator struct {
	categories CategoryMembership
	currencies map[string]struct{}
	now        func() time.Time
}

// Option configures a TransactionValidator.
type Option func(*TransactionValidator)

// WithClock replaces time.Now, which the date check is relative to.
func WithClock(now func() time.Time) Option {
	return func(v *TransactionValidator) { v.now = now }
}

// NewTransactionValidator builds a validator. An empty currency list means
// DefaultCurrencies.
func NewTransactionValidator(categories CategoryMembership, currencies []string, opts ...Option) *TransactionValidator {
	if len(currencies) == 0 {
		currencies = DefaultCurrencies
	}
	v := &TransactionValidator{
		categories: categories,
		currencies: make(map[string]struct{}, len(currencies)),
		now:        time.Now,
	}
	for _, c := range currencies {
		v.currencies[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func invalid(field, format string, args ...interface{}) error {
	return &parsererror.ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ValidateAmount checks bounds and that at most two decimal places are used.
func (v *TransactionValidator) ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThan(MinAmount) {
		return invalid("amount", "сумма должна быть не менее %s", MinAmount.StringFixed(2))
	}
	if amount.GreaterThan(MaxAmount) {
		return invalid("amount", "сумма должна быть не более %s", MaxAmount.String())
	}
	if !amount.Equal(amount.Truncate(2)) {
		return invalid("amount", "сумма может содержать максимум 2 десятичных знака")
	}
	return nil
}

// ValidateDirection requires income or expense.
func (v *TransactionValidator) ValidateDirection(d models.Direction) error {
	if !d.IsKnown() {
		return invalid("type", "неверный тип транзакции")
	}
	return nil
}

// ValidateCategory requires a member of the taxonomy of d.
func (v *TransactionValidator) ValidateCategory(category string, d models.Direction) error {
	if category == "" {
		return invalid("category", "категория обязательна")
	}
	if v.categories == nil || !v.categories.IsMember(category, d) {
		if d == models.DirectionIncome {
			return invalid("category", "неверная категория дохода: %s", category)
		}
		return invalid("category", "неверная категория расхода: %s", category)
	}
	return nil
}

// ValidateDescription accepts an empty description. Otherwise it limits the
// length and rejects links, spam words and markup characters.
func (v *TransactionValidator) ValidateDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil
	}
	if utf8.RuneCountInString(description) > MaxDescriptionRunes {
		return invalid("description", "описание слишком длинное (максимум %d символов)", MaxDescriptionRunes)
	}
	if prohibitedWords.MatchString(description) ||
		prohibitedWWW.MatchString(description) ||
		markupChars.MatchString(description) {
		return invalid("description", "описание содержит недопустимые символы или слова")
	}
	return nil
}

// ValidateCurrency checks the code against the allowed set, ignoring case.
func (v *TransactionValidator) ValidateCurrency(currency string) error {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		return invalid("currency", "валюта обязательна")
	}
	if _, ok := v.currencies[code]; !ok {
		return invalid("currency", "неподдерживаемая валюта: %s", code)
	}
	return nil
}

// ValidateUserID requires a positive chat user ID.
func (v *TransactionValidator) ValidateUserID(id int64) error {
	if id <= 0 {
		return invalid("user_id", "ID пользователя должен быть положительным числом")
	}
	return nil
}

// ValidateDate rejects dates more than an hour ahead or older than one year
// (counted from the start of today).
func (v *TransactionValidator) ValidateDate(date time.Time) error {
	now := v.now()
	if date.Sub(now) > futureTolerance {
		return invalid("date", "дата не может быть в будущем")
	}
	y, m, d := now.AddDate(-1, 0, 0).Date()
	if date.Before(time.Date(y, m, d, 0, 0, 0, 0, now.Location())) {
		return invalid("date", "дата слишком старая (максимум 1 год назад)")
	}
	return nil
}

// Validate runs every check and returns all failures. A zero date is not
// checked.
func (v *TransactionValidator) Validate(tx models.Transaction) []error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	add(v.ValidateUserID(tx.UserID))
	add(v.ValidateAmount(tx.Amount))
	add(v.ValidateDirection(tx.Direction))
	if tx.Direction.IsKnown() {
		add(v.ValidateCategory(tx.Category, tx.Direction))
	}
	add(v.ValidateDescription(tx.Description))
	add(v.ValidateCurrency(tx.Currency))
	if !tx.Date.IsZero() {
		add(v.ValidateDate(tx.Date))
	}
	return errs
}

// IsValid reports whether Validate finds nothing.
func (v *TransactionValidator) IsValid(tx models.Transaction) bool {
	return len(v.Validate(tx)) == 0
}
