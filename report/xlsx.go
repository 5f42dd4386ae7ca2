package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Password Expiry"

// WriteXLSX writes rows as a spreadsheet with a bold header row and
// sized columns.
func WriteXLSX(path string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	f.SetSheetRow(sheetName, "A1", &header)

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("build header style: %w", err)
	}
	f.SetCellStyle(sheetName, "A1", "I1", style)

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		cells := exportRow(r)
		row := make([]interface{}, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		f.SetSheetRow(sheetName, cell, &row)
	}

	f.SetColWidth(sheetName, "A", "C", 24)
	f.SetColWidth(sheetName, "D", "E", 40)
	f.SetColWidth(sheetName, "F", "G", 28)
	f.SetColWidth(sheetName, "H", "I", 12)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
