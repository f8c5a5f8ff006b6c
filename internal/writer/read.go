package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-validator/internal/models"
)

// ReadCSV loads a ledger previously written by CSVWriter. The header row is
// required. Status is not read back; records come out pending so they can
// be validated again. Type markers that are not "##" or "*" load as
// DirectionUnknown.
func ReadCSV(r io.Reader) ([]models.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numColumns

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if !isHeader(records[0]) {
		return nil, fmt.Errorf("reading ledger CSV: expected header %s", strings.Join(Columns, ","))
	}

	txns := make([]models.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		txn, err := unmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// ReadCSVFile is ReadCSV on the file at path.
func ReadCSVFile(path string) ([]models.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %q: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func isHeader(rec []string) bool {
	for i, col := range Columns {
		if strings.TrimSpace(rec[i]) != col {
			return false
		}
	}
	return true
}

func unmarshalRow(rec []string) (models.Transaction, error) {
	txn := models.Transaction{
		Date:        rec[colDate],
		Description: rec[colDescription],
		Direction:   models.DirectionFromCode(strings.TrimSpace(rec[colType])),
		AmountText:  strings.TrimSpace(rec[colAmount]),
		BalanceText: strings.TrimSpace(rec[colBalance]),
	}

	var err error
	if txn.Amount, err = parseColumn(txn.AmountText); err != nil {
		return txn, fmt.Errorf("parsing amount %q: %w", txn.AmountText, err)
	}
	if txn.Balance, err = parseColumn(txn.BalanceText); err != nil {
		return txn, fmt.Errorf("parsing balance %q: %w", txn.BalanceText, err)
	}
	return txn, nil
}

func parseColumn(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
