package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablecompare/tablecompare"
)

func writeTempCSV(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestCSVSourceLoadHeadersAndRows(t *testing.T) {
	path := writeTempCSV(t, "ID,NAME,CITY\n1,Ada,Paris\n2,Bo,Oslo\n")

	ds, err := CSVSource{Path: path}.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, path, ds.SourceName)
	assert.Equal(t, tablecompare.SourceFile, ds.SourceKind)
	assert.Equal(t, []string{"ID", "NAME", "CITY"}, ds.Headers)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, tablecompare.RawCell("1"), ds.Rows[0]["ID"])
	assert.Equal(t, tablecompare.RawCell("Ada"), ds.Rows[0]["NAME"])
	assert.Equal(t, tablecompare.RawCell("Oslo"), ds.Rows[1]["CITY"])
}

func TestCSVSourceShortRowsPadWithNull(t *testing.T) {
	path := writeTempCSV(t, "ID,NAME,CITY\n1,Ada\n")

	ds, err := CSVSource{Path: path}.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Rows, 1)
	assert.Equal(t, tablecompare.NullCell(), ds.Rows[0]["CITY"])
}

func TestCSVSourceHeaderOnlyFileYieldsNoRows(t *testing.T) {
	path := writeTempCSV(t, "ID,NAME,CITY\n")

	ds, err := CSVSource{Path: path}.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "NAME", "CITY"}, ds.Headers)
	assert.Empty(t, ds.Rows)
}

func TestCSVSourceEmptyFileYieldsEmptyDataset(t *testing.T) {
	path := writeTempCSV(t, "")

	ds, err := CSVSource{Path: path}.Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, ds.Headers)
	assert.Empty(t, ds.Rows)
	assert.Equal(t, path, ds.SourceName)
}

func TestCSVSourceMissingFileErrors(t *testing.T) {
	_, err := CSVSource{Path: filepath.Join(t.TempDir(), "nope.csv")}.Load(context.Background())
	assert.Error(t, err)
}
