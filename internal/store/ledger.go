package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"

	"fjacquet/chatledger/internal/logging"
	"fjacquet/chatledger/internal/models"
	"fjacquet/chatledger/internal/parsererror"
)

// Ledger is a spreadsheet-like CSV file with one transaction per row. The
// header is written when the file is created. Appends are serialised, so a
// single process may share one Ledger between goroutines.
type Ledger struct {
	path      string
	delimiter rune
	currency  string
	logger    logging.Logger

	mu     sync.Mutex
	rows   int
	loaded bool
}

// NewLedger returns a ledger backed by path. Currency is attached to the
// transactions read back, since the row layout does not carry it.
func NewLedger(path string, delimiter rune, currency string, logger logging.Logger) (*Ledger, error) {
	if path == "" {
		return nil, &parsererror.ConfigError{Component: "store", Setting: "ledger file", Err: errors.New("path is empty")}
	}
	if delimiter == 0 || delimiter == '\n' || delimiter == '\r' || delimiter == '"' {
		return nil, &parsererror.ConfigError{Component: "store", Setting: "ledger delimiter", Err: fmt.Errorf("invalid delimiter %q", delimiter)}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Ledger{path: path, delimiter: delimiter, currency: currency, logger: logger}, nil
}

// Path returns the ledger file path.
func (l *Ledger) Path() string {
	return l.path
}

// Append writes tx as a new row and returns its 1-based row number, which is
// also stored in tx.Row.
func (l *Ledger) Append(ctx context.Context, tx *models.Transaction) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if tx == nil {
		return 0, l.storeError("append", errors.New("nil transaction"))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.loaded {
		rows, err := l.readRows()
		if err != nil {
			return 0, l.storeError("append", err)
		}
		l.rows = len(rows)
		l.loaded = true
	}

	if err := l.writeRow(tx.ToRow()); err != nil {
		return 0, l.storeError("append", err)
	}
	l.rows++
	tx.Row = l.rows

	l.logger.Info("Appended transaction to ledger",
		logging.F(logging.FieldFile, l.path),
		logging.F(logging.FieldRow, tx.Row),
		logging.F(logging.FieldUserID, tx.UserID),
		logging.F(logging.FieldAmount, tx.Amount.StringFixed(2)),
		logging.F(logging.FieldCategory, tx.Category))
	return tx.Row, nil
}

// List reads every transaction of the ledger in row order.
func (l *Ledger) List(ctx context.Context) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	rows, err := l.readRows()
	l.mu.Unlock()
	if err != nil {
		return nil, l.storeError("read", err)
	}

	transactions := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		tx, err := models.TransactionFromRow(*row, l.currency)
		if err != nil {
			return nil, l.storeError("read", fmt.Errorf("row %d: %w", i+1, err))
		}
		tx.Row = i + 1
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func (l *Ledger) readRows() ([]*models.LedgerRow, error) {
	file, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			l.logger.WithError(err).Warn("Failed to close ledger file")
		}
	}()

	reader := csv.NewReader(file)
	reader.Comma = l.delimiter

	var rows []*models.LedgerRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, err
	}
	return rows, nil
}

func (l *Ledger) writeRow(row models.LedgerRow) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			l.logger.WithError(err).Warn("Failed to close ledger file")
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	writer.Comma = l.delimiter
	out := gocsv.NewSafeCSVWriter(writer)
	rows := []models.LedgerRow{row}
	if info.Size() == 0 {
		return gocsv.MarshalCSV(rows, out)
	}
	return gocsv.MarshalCSVWithoutHeaders(rows, out)
}

func (l *Ledger) storeError(op string, err error) error {
	return &parsererror.StoreError{Operation: op, Path: l.path, Err: err}
}
