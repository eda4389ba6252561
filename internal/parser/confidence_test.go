package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"fjacquet/chatledger/internal/models"
)

func amountOf(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestConfidenceScorer_Score(t *testing.T) {
	s := NewConfidenceScorer(decimal.NewFromInt(1), decimal.NewFromInt(1_000_000))

	tests := []struct {
		name string
		p    models.ParsedTransaction
		want float64
	}{
		{"nothing", models.ParsedTransaction{}, 0},
		{"plausible amount", models.ParsedTransaction{Amount: amountOf("500")}, 0.5},
		{"amount below bounds", models.ParsedTransaction{Amount: amountOf("0.5")}, 0.4},
		{"amount above bounds", models.ParsedTransaction{Amount: amountOf("2000000")}, 0.4},
		{"amount on upper bound", models.ParsedTransaction{Amount: amountOf("1000000")}, 0.5},
		{"non-positive amount ignored", models.ParsedTransaction{Amount: amountOf("-5")}, 0},
		{
			"amount and inferred direction",
			models.ParsedTransaction{Amount: amountOf("500"), Direction: models.DirectionExpense, DirectionSource: models.SourceKeyword},
			0.8,
		},
		{
			"amount direction category",
			models.ParsedTransaction{Amount: amountOf("500"), Direction: models.DirectionExpense, DirectionSource: models.SourceSign, Category: "Транспорт"},
			1.0,
		},
		{
			"everything is capped",
			models.ParsedTransaction{Amount: amountOf("500"), Direction: models.DirectionExpense, DirectionSource: models.SourceKeyword, Category: "Транспорт", Description: "такси"},
			1.0,
		},
		{
			"default direction earns nothing",
			models.ParsedTransaction{Amount: amountOf("500"), Direction: models.DirectionExpense, DirectionSource: models.SourceDefault, Category: "Прочие расходы"},
			0.5,
		},
		{
			"no amount",
			models.ParsedTransaction{Direction: models.DirectionExpense, DirectionSource: models.SourceKeyword, Category: "Продукты питания", Description: "кофе"},
			0.6,
		},
		{
			"two rune description ignored",
			models.ParsedTransaction{Amount: amountOf("500"), Description: "ок"},
			0.5,
		},
		{
			"multiple amounts capped",
			models.ParsedTransaction{Amount: amountOf("500"), Direction: models.DirectionIncome, DirectionSource: models.SourceKeyword, Category: "Зарплата", MultipleAmounts: true},
			0.4,
		},
		{
			"multiple amounts with full evidence",
			models.ParsedTransaction{Amount: amountOf("500"), Direction: models.DirectionExpense, DirectionSource: models.SourceSign, Category: "Транспорт", Description: "такси", MultipleAmounts: true},
			0.4,
		},
		{
			"multiple amounts below the cap are kept",
			models.ParsedTransaction{Direction: models.DirectionExpense, DirectionSource: models.SourceKeyword, MultipleAmounts: true},
			0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(tt.p))
		})
	}
}

func TestConfidenceScorer_Monotonic(t *testing.T) {
	s := NewConfidenceScorer(decimal.NewFromInt(1), decimal.NewFromInt(1_000_000))

	amountOnly := models.ParsedTransaction{Amount: amountOf("500")}
	withDirection := amountOnly
	withDirection.Direction = models.DirectionExpense
	withDirection.DirectionSource = models.SourceKeyword
	withDescription := withDirection
	withDescription.Description = "продукты"

	assert.Less(t, s.Score(amountOnly), s.Score(withDirection))
	assert.Less(t, s.Score(withDirection), s.Score(withDescription))
}
