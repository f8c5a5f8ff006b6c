package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/statement-validator/internal/models"
)

// SheetName is the worksheet XLSXWriter fills.
const SheetName = "Ledger"

// XLSXWriter writes validated transactions as an Excel workbook with the
// same columns as the CSV output. Cells are written as text so codes like
// "##" and amounts keep their exact form.
type XLSXWriter struct{}

// WriteToFile saves the workbook at path.
func (w *XLSXWriter) WriteToFile(path string, txns []models.Transaction) error {
	f, err := w.build(txns)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %q: %w", path, err)
	}
	return nil
}

// Write streams the workbook to out.
func (w *XLSXWriter) Write(out io.Writer, txns []models.Transaction) error {
	f, err := w.build(txns)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *XLSXWriter) build(txns []models.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, 1, Columns); err != nil {
		f.Close()
		return nil, err
	}
	for i, txn := range txns {
		if err := setRow(f, i+2, Row(txn)); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", rowNum, err)
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
