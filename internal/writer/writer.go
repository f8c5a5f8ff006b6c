package writer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/insightdelivered/statement-validator/internal/models"
)

// Writer is an output sink for a validated ledger.
type Writer interface {
	Write(out io.Writer, txns []models.Transaction) error
	WriteToFile(path string, txns []models.Transaction) error
}

// Format names a supported output format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// New returns the writer for format.
func New(format Format) (Writer, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatCSV, "":
		return &CSVWriter{IncludeHeader: true}, nil
	case FormatXLSX:
		return &XLSXWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}
}

// FormatFromPath picks the format from path's extension. Paths without an
// extension use fallback; unknown extensions are returned as is so New
// rejects them.
func FormatFromPath(path string, fallback Format) Format {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return fallback
	}
	return Format(ext)
}

// Extension returns the file extension, with dot, for format.
func (f Format) Extension() string {
	if strings.EqualFold(string(f), string(FormatXLSX)) {
		return ".xlsx"
	}
	return ".csv"
}

// ContentType returns the MIME type for format.
func (f Format) ContentType() string {
	if strings.EqualFold(string(f), string(FormatXLSX)) {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}
