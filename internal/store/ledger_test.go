package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/chatledger/internal/logging"
	"fjacquet/chatledger/internal/models"
	"fjacquet/chatledger/internal/parsererror"
)

func sampleTransaction(userID int64, amount string) *models.Transaction {
	return &models.Transaction{
		ID:          "tx-" + amount,
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Direction:   models.DirectionExpense,
		Category:    "Продукты питания",
		Description: "хлеб, молоко",
		Currency:    "RUB",
		Date:        time.Date(2024, 3, 5, 14, 30, 0, 0, time.Local),
		MessageID:   42,
	}
}

func TestLedger_AppendCreatesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.csv")
	l, err := NewLedger(path, ',', "RUB", nil)
	require.NoError(t, err)

	row, err := l.Append(context.Background(), sampleTransaction(1, "500"))
	require.NoError(t, err)
	assert.Equal(t, 1, row)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date,user_id,type,amount,category,description,message_id,id", lines[0])
	assert.Equal(t, `2024-03-05 14:30:00,1,expense,500.00,Продукты питания,"хлеб, молоко",42,tx-500`, lines[1])
}

func TestLedger_AppendAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	logger := logging.NewMockLogger()
	l, err := NewLedger(path, ';', "RUB", logger)
	require.NoError(t, err)
	ctx := context.Background()

	first := sampleTransaction(1, "500")
	second := sampleTransaction(2, "12.5")
	second.Direction = models.DirectionIncome
	second.Category = "Зарплата"

	row, err := l.Append(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, first.Row)

	row, err = l.Append(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 2, row)

	got, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].UserID)
	assert.True(t, decimal.RequireFromString("500").Equal(got[0].Amount))
	assert.Equal(t, "хлеб, молоко", got[0].Description)
	assert.Equal(t, 1, got[0].Row)
	assert.Equal(t, models.DirectionIncome, got[1].Direction)
	assert.Equal(t, "Зарплата", got[1].Category)
	assert.True(t, decimal.RequireFromString("12.50").Equal(got[1].Amount))
	assert.Equal(t, "RUB", got[1].Currency)
	assert.Equal(t, 2, got[1].Row)

	assert.Len(t, logger.EntriesByLevel("INFO"), 2)
}

func TestLedger_ContinuesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	ctx := context.Background()

	l, err := NewLedger(path, ',', "RUB", nil)
	require.NoError(t, err)
	_, err = l.Append(ctx, sampleTransaction(1, "100"))
	require.NoError(t, err)

	reopened, err := NewLedger(path, ',', "RUB", nil)
	require.NoError(t, err)
	row, err := reopened.Append(ctx, sampleTransaction(1, "200"))
	require.NoError(t, err)
	assert.Equal(t, 2, row)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "date,user_id"))
}

func TestLedger_ListMissingFile(t *testing.T) {
	l, err := NewLedger(filepath.Join(t.TempDir(), "absent.csv"), ',', "RUB", nil)
	require.NoError(t, err)

	got, err := l.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLedger_ListBadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	content := "date,user_id,type,amount,category,description,message_id,id\n" +
		"2024-03-05 14:30:00,1,expense,abc,Транспорт,такси,1,x\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	l, err := NewLedger(path, ',', "RUB", nil)
	require.NoError(t, err)

	_, err = l.List(context.Background())
	require.Error(t, err)
	var storeErr *parsererror.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "read", storeErr.Operation)
	assert.Contains(t, err.Error(), "row 1")
}

func TestLedger_ConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	l, err := NewLedger(path, ',', "RUB", nil)
	require.NoError(t, err)
	ctx := context.Background()

	const n = 20
	rows := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			row, err := l.Append(ctx, sampleTransaction(int64(i+1), "10"))
			assert.NoError(t, err)
			rows <- row
		}(i)
	}
	wg.Wait()
	close(rows)

	seen := map[int]bool{}
	for r := range rows {
		seen[r] = true
	}
	assert.Len(t, seen, n)

	got, err := l.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, n)
}

func TestLedger_CancelledContext(t *testing.T) {
	l, err := NewLedger(filepath.Join(t.TempDir(), "ledger.csv"), ',', "RUB", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = l.Append(ctx, sampleTransaction(1, "1"))
	assert.ErrorIs(t, err, context.Canceled)
	_, err = l.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLedger_NilTransaction(t *testing.T) {
	l, err := NewLedger(filepath.Join(t.TempDir(), "ledger.csv"), ',', "RUB", nil)
	require.NoError(t, err)

	_, err = l.Append(context.Background(), nil)
	var storeErr *parsererror.StoreError
	assert.ErrorAs(t, err, &storeErr)
}

func TestNewLedger_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		delimiter rune
	}{
		{"empty path", "", ','},
		{"zero delimiter", "ledger.csv", 0},
		{"newline delimiter", "ledger.csv", '\n'},
		{"quote delimiter", "ledger.csv", '"'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLedger(tt.path, tt.delimiter, "RUB", nil)
			assert.Nil(t, l)
			var cfgErr *parsererror.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}
