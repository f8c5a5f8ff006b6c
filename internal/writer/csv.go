package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/statement-validator/internal/models"
)

// Columns is the fixed output column order.
var Columns = []string{"Date", "Description", "Type", "Label", "Amount", "Balance", "Status"}

const (
	colDate = iota
	colDescription
	colType
	colLabel
	colAmount
	colBalance
	colStatus
	numColumns
)

// Row renders one transaction in column order.
func Row(txn models.Transaction) []string {
	row := make([]string, numColumns)
	row[colDate] = txn.Date
	row[colDescription] = txn.Description
	row[colType] = txn.Direction.Code()
	row[colLabel] = txn.Direction.Label()
	row[colAmount] = txn.AmountText
	row[colBalance] = txn.BalanceText
	row[colStatus] = txn.Status.String()
	return row
}

// CSVWriter writes validated transactions as CSV.
type CSVWriter struct {
	// IncludeHeader writes the Date,Description,... row first.
	IncludeHeader bool
}

// WriteToFile writes transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, txns []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	if err := w.Write(f, txns); err != nil {
		return err
	}
	return f.Close()
}

// Write writes transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, txns []models.Transaction) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader {
		if err := writer.Write(Columns); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	for _, txn := range txns {
		if err := writer.Write(Row(txn)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
