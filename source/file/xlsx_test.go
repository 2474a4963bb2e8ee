package file

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tablecompare/tablecompare"
)

func writeTempXLSX(t *testing.T, header []string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetList()[0]
	for col, h := range header {
		axis, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, axis, h))
	}
	for rowIdx, row := range rows {
		for col, v := range row {
			axis, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, axis, v))
		}
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSXSourceLoadHeadersAndRows(t *testing.T) {
	path := writeTempXLSX(t,
		[]string{"ID", "NAME", "SCORE"},
		[][]interface{}{
			{1, "Ada", 92.5},
			{2, "Bo", 81},
		},
	)

	ds, err := XLSXSource{Path: path}.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, path, ds.SourceName)
	assert.Equal(t, tablecompare.SourceFile, ds.SourceKind)
	assert.Equal(t, []string{"ID", "NAME", "SCORE"}, ds.Headers)
	require.Len(t, ds.Rows, 2)

	assert.Equal(t, tablecompare.NumberCell(1), ds.Rows[0]["ID"])
	assert.Equal(t, tablecompare.RawCell("Ada"), ds.Rows[0]["NAME"])
	assert.Equal(t, tablecompare.NumberCell(92.5), ds.Rows[0]["SCORE"])
	assert.Equal(t, tablecompare.NumberCell(81), ds.Rows[1]["SCORE"])
}

func TestXLSXSourceShortRowsPadWithNull(t *testing.T) {
	path := writeTempXLSX(t,
		[]string{"ID", "NAME", "CITY"},
		[][]interface{}{
			{1, "Ada"},
		},
	)

	ds, err := XLSXSource{Path: path}.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Rows, 1)
	assert.Equal(t, tablecompare.NullCell(), ds.Rows[0]["CITY"])
}

func TestXLSXSourceSpecificSheet(t *testing.T) {
	f := excelize.NewFile()
	first := f.GetSheetList()[0]
	second := "Data"
	_, err := f.NewSheet(second)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue(first, "A1", "WRONG"))
	require.NoError(t, f.SetCellValue(second, "A1", "ID"))
	require.NoError(t, f.SetCellValue(second, "A2", 7))

	path := filepath.Join(t.TempDir(), "multi.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := XLSXSource{Path: path, Sheet: second}.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"ID"}, ds.Headers)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, tablecompare.NumberCell(7), ds.Rows[0]["ID"])
}

func TestXLSXSourceMissingFileErrors(t *testing.T) {
	_, err := XLSXSource{Path: filepath.Join(t.TempDir(), "nope.xlsx")}.Load(context.Background())
	assert.Error(t, err)
}
