package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter renders datasets into a single-sheet workbook.
type XLSXExporter struct {
	SheetName string
}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{SheetName: "Lịch học"}
}

// Render writes headers in bold on the first row followed by one row per record.
func (e *XLSXExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := e.SheetName
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	row := 1
	if title != "" {
		if err := f.SetCellValue(sheet, "A1", title); err != nil {
			return nil, fmt.Errorf("write title: %w", err)
		}
		row = 3
	}

	headerCell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, err
	}
	headers := make([]interface{}, len(data.Headers))
	for i, h := range data.Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheet, headerCell, &headers); err != nil {
		return nil, fmt.Errorf("write xlsx headers: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(data.Headers), row)
	if err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, headerCell, lastHeader, bold); err != nil {
		return nil, fmt.Errorf("style xlsx headers: %w", err)
	}

	for _, r := range data.Rows {
		row++
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		values := record(data.Headers, r)
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("write xlsx row %d: %w", row, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
