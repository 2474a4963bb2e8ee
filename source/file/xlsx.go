package file

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/tablecompare/tablecompare"
)

// XLSXSource loads a Dataset from one sheet of an XLSX workbook. The first
// row is taken as Headers. Cells excelize reports as numeric, or as untyped
// (which the file format treats as numeric), are tagged Number up front when
// their text parses as a number; every other cell starts out Raw.
type XLSXSource struct {
	Path  string
	Sheet string // empty means the workbook's first sheet
}

func (s XLSXSource) Load(ctx context.Context) (tablecompare.Dataset, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return tablecompare.Dataset{}, fmt.Errorf("xlsx: open %s: %w", s.Path, err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetList()[0]
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return tablecompare.Dataset{}, fmt.Errorf("xlsx: read sheet %s: %w", sheet, err)
	}
	if len(records) == 0 {
		return tablecompare.Dataset{SourceName: s.Path, SourceKind: tablecompare.SourceFile}, nil
	}

	headers := records[0]
	rows := make([]tablecompare.Row, 0, len(records)-1)
	for rowIdx, record := range records[1:] {
		row := make(tablecompare.Row, len(headers))
		for colIdx, h := range headers {
			if colIdx >= len(record) {
				row[h] = tablecompare.NullCell()
				continue
			}
			row[h] = s.cellAt(f, sheet, colIdx, rowIdx+2, record[colIdx])
		}
		rows = append(rows, row)
	}

	return tablecompare.Dataset{
		SourceName: s.Path,
		Headers:    headers,
		Rows:       rows,
		SourceKind: tablecompare.SourceFile,
	}, nil
}

// cellAt tags value as Number when excelize's own cell-type metadata says it
// is numeric or leaves it untyped, falling back to Raw otherwise.
func (s XLSXSource) cellAt(f *excelize.File, sheet string, col, row int, value string) tablecompare.Cell {
	axis, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return tablecompare.RawCell(value)
	}
	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return tablecompare.RawCell(value)
	}
	if cellType == excelize.CellTypeNumber || cellType == excelize.CellTypeUnset {
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return tablecompare.NumberCell(n)
		}
	}
	return tablecompare.RawCell(value)
}
