package validation_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/chatledger/internal/categorizer"
	"fjacquet/chatledger/internal/models"
	"fjacquet/chatledger/internal/parsererror"
	"fjacquet/chatledger/internal/validation"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newValidator(t *testing.T) *validation.TransactionValidator {
	t.Helper()
	classifier, err := categorizer.New(categorizer.DefaultTaxonomy(), nil)
	require.NoError(t, err)
	return validation.NewTransactionValidator(classifier, nil,
		validation.WithClock(func() time.Time { return fixedNow }))
}

func validTransaction() models.Transaction {
	return models.Transaction{
		UserID:      123,
		Amount:      decimal.RequireFromString("500"),
		Direction:   models.DirectionExpense,
		Category:    "Продукты питания",
		Description: "продукты",
		Currency:    "RUB",
		Date:        fixedNow.Add(-time.Hour),
	}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var vErr *parsererror.ValidationError
	require.ErrorAs(t, err, &vErr)
	return vErr.Field
}

func TestValidateAmount(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		amount  string
		wantErr bool
	}{
		{"0.01", false},
		{"500", false},
		{"1000000", false},
		{"99.99", false},
		{"0", true},
		{"0.001", true},
		{"-5", true},
		{"1000000.01", true},
		{"10.555", true},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := v.ValidateAmount(decimal.RequireFromString(tt.amount))
			if tt.wantErr {
				assert.Equal(t, "amount", fieldOf(t, err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.ValidateCategory("Транспорт", models.DirectionExpense))
	assert.NoError(t, v.ValidateCategory("Прочие доходы", models.DirectionIncome))

	err := v.ValidateCategory("Зарплата", models.DirectionExpense)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "расхода")

	err = v.ValidateCategory("Транспорт", models.DirectionIncome)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "дохода")

	assert.Equal(t, "category", fieldOf(t, v.ValidateCategory("", models.DirectionExpense)))
}

func TestValidateCategory_NoTaxonomy(t *testing.T) {
	v := validation.NewTransactionValidator(nil, nil)
	assert.Error(t, v.ValidateCategory("Транспорт", models.DirectionExpense))
}

func TestValidateDescription(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name        string
		description string
		wantErr     bool
	}{
		{"empty", "", false},
		{"blank", "   ", false},
		{"plain", "обед с коллегами", false},
		{"exact limit", strings.Repeat("я", validation.MaxDescriptionRunes), false},
		{"too long", strings.Repeat("я", validation.MaxDescriptionRunes+1), true},
		{"spam word", "это спам", true},
		{"link word", "ССЫЛКА тут", true},
		{"url", "смотри http://example.com", true},
		{"www", "www.example.com", true},
		{"markup", "<script>", true},
		{"braces", "a{b}", true},
		{"word containing spam is fine", "спамер", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDescription(tt.description)
			if tt.wantErr {
				assert.Equal(t, "description", fieldOf(t, err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCurrency(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.ValidateCurrency("RUB"))
	assert.NoError(t, v.ValidateCurrency("usd"))
	assert.Error(t, v.ValidateCurrency("GBP"))
	assert.Error(t, v.ValidateCurrency(""))

	custom := validation.NewTransactionValidator(nil, []string{"gbp"})
	assert.NoError(t, custom.ValidateCurrency("GBP"))
	assert.Error(t, custom.ValidateCurrency("RUB"))
}

func TestValidateUserID(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.ValidateUserID(1))
	assert.Equal(t, "user_id", fieldOf(t, v.ValidateUserID(0)))
	assert.Error(t, v.ValidateUserID(-7))
}

func TestValidateDate(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		date    time.Time
		wantErr bool
	}{
		{"now", fixedNow, false},
		{"within tolerance", fixedNow.Add(59 * time.Minute), false},
		{"too far ahead", fixedNow.Add(2 * time.Hour), true},
		{"one year ago today", time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), false},
		{"older than a year", time.Date(2023, 6, 14, 23, 59, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDate(tt.date)
			if tt.wantErr {
				assert.Equal(t, "date", fieldOf(t, err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	v := newValidator(t)

	assert.Empty(t, v.Validate(validTransaction()))
	assert.True(t, v.IsValid(validTransaction()))

	noDate := validTransaction()
	noDate.Date = time.Time{}
	assert.True(t, v.IsValid(noDate))

	bad := validTransaction()
	bad.UserID = 0
	bad.Amount = decimal.Zero
	bad.Category = "Зарплата"
	bad.Currency = "JPY"
	errs := v.Validate(bad)
	require.Len(t, errs, 4)

	fields := make([]string, 0, len(errs))
	for _, err := range errs {
		fields = append(fields, fieldOf(t, err))
	}
	assert.Equal(t, []string{"user_id", "amount", "category", "currency"}, fields)

	unknown := validTransaction()
	unknown.Direction = models.DirectionUnknown
	errs = v.Validate(unknown)
	require.Len(t, errs, 1)
	assert.Equal(t, "type", fieldOf(t, errs[0]))
}

func TestMessageValidator(t *testing.T) {
	var m validation.MessageValidator

	assert.NoError(t, m.ValidateText("потратил 500 руб"))
	assert.Error(t, m.ValidateText(""))
	assert.Error(t, m.ValidateText("   "))
	assert.NoError(t, m.ValidateText(strings.Repeat("ы", validation.MaxMessageRunes)))
	assert.Error(t, m.ValidateText(strings.Repeat("ы", validation.MaxMessageRunes+1)))

	assert.True(t, m.IsCommand("/start"))
	assert.True(t, m.IsCommand("  /help"))
	assert.False(t, m.IsCommand("500 руб / кофе"))
}

func TestIsValidInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "messages.txt")
	require.NoError(t, os.WriteFile(file, []byte("500"), 0600))

	assert.NoError(t, validation.IsValidInputFile(file))

	err := validation.IsValidInputFile(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	err = validation.IsValidInputFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a regular file")
}
