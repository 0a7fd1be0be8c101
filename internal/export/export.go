// Package export writes report tables to files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "task-timer/internal/errors"
)

// Supported formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Header is the column row written above every table.
var Header = []string{"Task Name", "Total Time", "Percentage"}

// Row is one rendered report line.
type Row struct {
	Name    string
	Time    string
	Percent string
}

func (r Row) cells() []string {
	return []string{r.Name, r.Time, r.Percent}
}

// Writer stores a titled table at destination.
type Writer interface {
	WriteTable(title string, rows []Row, destination string) error
	Extension() string
}

// ForFormat returns the writer for format.
func ForFormat(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatXLSX:
		return NewXLSXWriter(), nil
	case FormatCSV:
		return NewCSVWriter(), nil
	default:
		return nil, apperrors.NewInvalidInputError("format", format, "supported formats: xlsx, csv")
	}
}

// ReportFileName returns report_<year>_<MM>_<RAND6>.<ext>.
func ReportFileName(year, month int, ext string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("report_%04d_%02d_%s.%s", year, month, suffix, ext)
}

// Destination creates dir if needed and returns a fresh report path in it.
func Destination(dir string, year, month int, ext string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.NewExportError("create reports directory", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return filepath.Join(abs, ReportFileName(year, month, ext)), nil
}
