package tabular

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// WriteXLSX renders the table as a single-sheet spreadsheet workbook with
// the columns in row 1 and one data row per table row.
func WriteXLSX(table *Table) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	for i, column := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, errors.Wrap(err, "failed to name header cell")
		}
		if err := file.SetCellValue(sheetName, cell, column); err != nil {
			return nil, errors.Wrap(err, "failed to write header cell")
		}
	}

	for rowIdx, row := range table.Rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, errors.Wrap(err, "failed to name cell")
			}
			if err := file.SetCellValue(sheetName, cell, value); err != nil {
				return nil, errors.Wrap(err, "failed to write cell")
			}
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to render workbook")
	}

	return buf.Bytes(), nil
}
