package projects

import (
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheetName = "Projects"
)

// WriteProjectsXLSX writes the snapshot's rows as a workbook. The header row
// holds the visible column labels; cells hold the same text as the table.
func WriteProjectsXLSX(w io.Writer, snap TableSnapshot, loc *time.Location) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return err
	}

	header := make([]any, 0, len(snap.Columns))
	for _, c := range snap.Columns {
		header = append(header, c.Label)
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return err
	}

	for i, row := range FormatRows(snap.Rows, snap.Columns, loc) {
		values := make([]any, 0, len(row.Cells))
		for _, cell := range row.Cells {
			values = append(values, cell.Text)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheetName, axis, &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}
