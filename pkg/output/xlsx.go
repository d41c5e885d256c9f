package output

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the name of the data sheet.
const DefaultSheet = "Extracted Data"

// documentsSheet lists the input documents in verbose mode.
const documentsSheet = "Documents"

// xlsxHeaders is the column order of the data sheet.
var xlsxHeaders = []string{
	"Auftragsnummer",
	"Modell",
	"Bestätigungsnummer",
	"Wunschliefertermin",
}

// XLSXFormatter writes reports as an Excel workbook.
type XLSXFormatter struct {
	opts FormatOptions
}

// NewXLSXFormatter creates a new xlsx formatter with the given options.
func NewXLSXFormatter(opts FormatOptions) *XLSXFormatter {
	if opts.Sheet == "" {
		opts.Sheet = DefaultSheet
	}
	return &XLSXFormatter{opts: opts}
}

// Name returns the format name.
func (f *XLSXFormatter) Name() string {
	return FormatXLSX
}

// workbookStyles holds the style IDs registered on a workbook.
type workbookStyles struct {
	header int
	plain  int
	red    int
}

func newWorkbookStyles(wb *excelize.File) (workbookStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	var (
		s   workbookStyles
		err error
	)
	if s.header, err = wb.NewStyle(&excelize.Style{Border: border, Alignment: center, Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	if s.plain, err = wb.NewStyle(&excelize.Style{Border: border, Alignment: center}); err != nil {
		return s, err
	}
	if s.red, err = wb.NewStyle(&excelize.Style{Border: border, Alignment: center, Font: &excelize.Font{Color: "FF0000"}}); err != nil {
		return s, err
	}
	return s, nil
}

// Format renders the report as an xlsx workbook. Highlighted model and date
// cells get a red font.
func (f *XLSXFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := f.opts.Sheet
	if err := wb.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	styles, err := newWorkbookStyles(wb)
	if err != nil {
		return fmt.Errorf("xlsx styles: %w", err)
	}

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := wb.SetCellStr(sheet, cell, h); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(xlsxHeaders), 1)
	if err := wb.SetCellStyle(sheet, "A1", lastHeader, styles.header); err != nil {
		return err
	}

	for i, r := range report.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := i + 2

		write := func(col int, v string, highlighted bool) error {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			// Absent values stay empty cells
			if v != "" {
				if err := wb.SetCellStr(sheet, cell, v); err != nil {
					return err
				}
			}
			style := styles.plain
			if highlighted {
				style = styles.red
			}
			return wb.SetCellStyle(sheet, cell, cell, style)
		}

		// 1) Auftragsnummer
		if err := write(1, r.OrderNumber, false); err != nil {
			return err
		}
		// 2) Modell
		if err := write(2, r.Model, r.HighlightModel); err != nil {
			return err
		}
		// 3) Bestätigungsnummer
		if err := write(3, r.ConfirmationNumber, false); err != nil {
			return err
		}
		// 4) Wunschliefertermin
		if err := write(4, r.DesiredDate, r.HighlightDate); err != nil {
			return err
		}
	}

	_ = wb.SetColWidth(sheet, "A", "A", 18) // order
	_ = wb.SetColWidth(sheet, "B", "B", 22) // model
	_ = wb.SetColWidth(sheet, "C", "C", 22) // confirmation
	_ = wb.SetColWidth(sheet, "D", "D", 22) // date

	if f.opts.Verbose {
		if err := f.writeDocuments(wb, report, styles); err != nil {
			return err
		}
	}

	if _, err := wb.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func (f *XLSXFormatter) writeDocuments(wb *excelize.File, report *Report, styles workbookStyles) error {
	if _, err := wb.NewSheet(documentsSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	headers := []string{"Path", "Strategy", "Records", "Error"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := wb.SetCellStr(documentsSheet, cell, h); err != nil {
			return err
		}
	}
	if err := wb.SetCellStyle(documentsSheet, "A1", "D1", styles.header); err != nil {
		return err
	}

	for i, d := range report.Documents {
		row := i + 2
		values := []any{d.Path, string(d.Strategy), d.Records, d.Error}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := wb.SetCellValue(documentsSheet, cell, v); err != nil {
				return err
			}
		}
	}

	_ = wb.SetColWidth(documentsSheet, "A", "A", 60) // path
	_ = wb.SetColWidth(documentsSheet, "D", "D", 60) // error
	return nil
}
