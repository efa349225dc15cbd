package export

import (
	"io"

	"github.com/couchcryptid/realestate-search-service/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet that holds the listings.
const SheetName = "Properties"

// WriteXLSX writes the properties as a workbook with one header row and one
// row per listing. Missing values are left as empty cells.
func WriteXLSX(w io.Writer, props []domain.Property, cols []string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return err
	}

	// Use Stream Writer for performance
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, p := range props {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = cellValue(p, c)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1") //nolint:errcheck // the default sheet is always present

	_, err = f.WriteTo(w)
	return err
}
