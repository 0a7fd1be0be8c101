package export

import (
	"github.com/xuri/excelize/v2"

	apperrors "task-timer/internal/errors"
)

// maxSheetName is the longest sheet name spreadsheet programs accept.
const maxSheetName = 31

// XLSXWriter writes tables as a single-sheet workbook.
type XLSXWriter struct{}

// NewXLSXWriter creates a new XLSXWriter instance
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// Extension returns the file extension
func (w *XLSXWriter) Extension() string { return FormatXLSX }

// WriteTable saves the workbook at destination with the table on a sheet named title
func (w *XLSXWriter) WriteTable(title string, rows []Row, destination string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := title
	if len(sheet) > maxSheetName {
		sheet = sheet[:maxSheetName]
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return apperrors.NewExportError("name report sheet", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &Header); err != nil {
		return apperrors.NewExportError("write report header", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewExportError("address report row", err)
		}
		cells := row.cells()
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return apperrors.NewExportError("write report row", err)
		}
	}

	if err := f.SaveAs(destination); err != nil {
		return apperrors.NewExportError("save report", err)
	}
	return nil
}
