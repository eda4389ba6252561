package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAmountExtractor(t *testing.T) *AmountExtractor {
	t.Helper()
	rules := DefaultRules()
	e, err := NewAmountExtractor(append(rules.IncomeLexicon, rules.ExpenseLexicon...))
	require.NoError(t, err)
	return e
}

func TestAmountExtractor_Extract(t *testing.T) {
	e := newTestAmountExtractor(t)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"verb number currency", "потратил 500 руб на продукты", "500.00"},
		{"number currency word", "такси 300 рублей", "300.00"},
		{"comma decimal", "кофе 12,50 руб", "12.50"},
		{"dot decimal", "обед 349.9 руб.", "349.90"},
		{"ruble sign after", "кино 450₽", "450.00"},
		{"ruble sign before", "₽300 кино", "300.00"},
		{"short р", "хлеб 100р", "100.00"},
		{"short р with dot", "хлеб 100 р. и молоко", "100.00"},
		{"latin rub", "taxi 250 RUB", "250.00"},
		{"verb without currency", "потратил 250 на обед", "250.00"},
		{"leading bare number", "500 такси", "500.00"},
		{"trailing bare number", "такси 500", "500.00"},
		{"bare number", "500", "500.00"},
		{"surrounding spaces", "  700  ", "700.00"},
		{"zero falls through", "0 руб и ещё 300", "300.00"},
		{"word starting with р is not a currency", "200 рыба", "200.00"},
		{"space grouped thousands", "потратил 1 500 руб на такси", "1500.00"},
		{"no-break space thousands", "зарплата 15\u00a0000 руб", "15000.00"},
		{"grouped thousands with kopecks", "1 500,50 ₽", "1500.50"},
		{"ungrouped large amount", "заказ 12345 руб", "12345.00"},
		{"leading minus", "-300 такси", "300.00"},
		{"leading plus with space", "+ 2500 премия", "2500.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.Extract(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestAmountExtractor_NoAmount(t *testing.T) {
	e := newTestAmountExtractor(t)

	for _, text := range []string{"", "привет", "0", "0 руб", "сегодня 5 кофе было", "-0 такси"} {
		t.Run(text, func(t *testing.T) {
			_, ok := e.Extract(text)
			assert.False(t, ok)
		})
	}
}

func TestAmountExtractor_DigitRunsAreNotSplit(t *testing.T) {
	e := newTestAmountExtractor(t)

	tests := []struct {
		name string
		text string
	}{
		{"three decimals after verb", "потрачено 99.999 руб"},
		{"three decimals alone", "99.999"},
		{"dot thousands", "1.500 руб"},
		{"three decimals at the end", "такси 10,125"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.Extract(tt.text)
			assert.False(t, ok, "extracted %s", got.String())
			assert.Zero(t, e.CountMarked(tt.text))
		})
	}
}

func TestAmountExtractor_PriorityOrder(t *testing.T) {
	e := newTestAmountExtractor(t)

	// the verb-anchored currency amount wins over an earlier bare number
	got, ok := e.Extract("10 раз потратил 500 руб")
	require.True(t, ok)
	assert.Equal(t, "500.00", got.StringFixed(2))

	// a currency-marked amount wins over a leading number
	got, ok = e.Extract("2 такси за 600 руб")
	require.True(t, ok)
	assert.Equal(t, "600.00", got.StringFixed(2))
}

func TestAmountExtractor_CountMarked(t *testing.T) {
	e := newTestAmountExtractor(t)

	tests := []struct {
		text string
		want int
	}{
		{"500", 0},
		{"500 руб", 1},
		{"потратил 500р и получил 200р", 2},
		{"100 руб и 200 ₽", 2},
		{"такси 300 рублей", 1},
		{"1 500 руб", 1},
		{"100р 200р", 2},
		{"потрачено 99.999 руб", 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, e.CountMarked(tt.text))
		})
	}
}

func TestAmountExtractor_Strip(t *testing.T) {
	e := newTestAmountExtractor(t)

	assert.Equal(t, " на продукты", e.Strip("потратил 500 руб на продукты"))
	assert.Equal(t, "такси ", e.Strip("такси 300 рублей"))
	assert.Equal(t, "", e.Strip("500"))
	assert.Equal(t, " на такси", e.Strip("потратил 1 500 руб на такси"))
	assert.Equal(t, " такси", e.Strip("-300 такси"))
	assert.Equal(t, "версия 99.999 руб", e.Strip("версия 99.999 руб"))
}

func TestNewAmountExtractor_Errors(t *testing.T) {
	_, err := NewAmountExtractor(nil)
	assert.Error(t, err)

	_, err = NewAmountExtractor([]string{"купил", "  "})
	assert.Error(t, err)
}
