package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	apperrors "flowcellcli/internal/errors"
	"flowcellcli/pkg/contracts/domain"
)

// ArtifactWriter stores a streamed artifact at a path
type ArtifactWriter interface {
	WriteAtomic(path string, write func(w io.Writer) error) error
}

// WorkbookWriter writes tables as .xlsx workbooks
type WorkbookWriter struct {
	out    ArtifactWriter
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer storing through out
func NewWorkbookWriter(out ArtifactWriter, logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{out: out, logger: logger}
}

// Sheet is one named table of a workbook
type Sheet struct {
	Name  string
	Table *domain.Table
}

// WriteSummary writes the three aggregate tables as one workbook with the
// sheets in fixed order: figures of merit, flow and power summary, pulse and
// cycle calc.
func (w *WorkbookWriter) WriteSummary(path string, summary domain.Summary) error {
	sheets := make([]Sheet, 0, len(domain.SheetOrder))
	for _, category := range domain.SheetOrder {
		table, ok := summary[category]
		if !ok || table == nil {
			return apperrors.NewValidationError(fmt.Sprintf("summary has no %q table", category), nil)
		}
		sheets = append(sheets, Sheet{Name: string(category), Table: table})
	}
	return w.WriteSheets(path, sheets)
}

// WriteTable writes a single-sheet workbook
func (w *WorkbookWriter) WriteTable(path, sheet string, table *domain.Table) error {
	if table == nil {
		return apperrors.NewValidationError("no table to write", nil)
	}
	return w.WriteSheets(path, []Sheet{{Name: sheet, Table: table}})
}

// WriteSheets writes a workbook with one sheet per entry, in order. The first
// row of every sheet holds the column names; no index column is written.
func (w *WorkbookWriter) WriteSheets(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return apperrors.NewValidationError("workbook needs at least one sheet", nil)
	}

	f, err := buildWorkbook(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.out.WriteAtomic(path, func(out io.Writer) error {
		return f.Write(out)
	}); err != nil {
		return err
	}

	w.logger.Info("Workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(sheets)))
	return nil
}

func buildWorkbook(sheets []Sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, apperrors.NewStorageError("failed to create header style", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				f.Close()
				return nil, apperrors.NewStorageError(fmt.Sprintf("invalid sheet name %q", sheet.Name), err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			f.Close()
			return nil, apperrors.NewStorageError(fmt.Sprintf("invalid sheet name %q", sheet.Name), err)
		}

		if err := writeSheet(f, sheet, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// writeSheet streams the header and rows of one sheet
func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	sw, err := f.NewStreamWriter(sheet.Name)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to open sheet %q", sheet.Name), err)
	}

	header := make([]interface{}, len(sheet.Table.Columns))
	for i, c := range sheet.Table.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write header of %q", sheet.Name), err)
	}

	for r, row := range sheet.Table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return apperrors.NewStorageError("row out of range", err)
		}
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = cellValue(v)
		}
		if err := sw.SetRow(cell, values); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d of %q", r+1, sheet.Name), err)
		}
	}

	if err := sw.Flush(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to flush sheet %q", sheet.Name), err)
	}
	return nil
}
