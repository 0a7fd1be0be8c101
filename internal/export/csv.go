package export

import (
	"encoding/csv"
	"os"

	apperrors "task-timer/internal/errors"
)

// CSVWriter writes tables as comma-separated values. The title is not
// part of the file.
type CSVWriter struct{}

// NewCSVWriter creates a new CSVWriter instance
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// Extension returns the file extension
func (w *CSVWriter) Extension() string { return FormatCSV }

// WriteTable writes the header and rows to destination
func (w *CSVWriter) WriteTable(_ string, rows []Row, destination string) error {
	file, err := os.Create(destination)
	if err != nil {
		return apperrors.NewExportError("create report file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		return apperrors.NewExportError("write CSV header", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.cells()); err != nil {
			return apperrors.NewExportError("write CSV row", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewExportError("flush CSV report", err)
	}
	return file.Close()
}
