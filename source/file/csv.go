package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/tablecompare/tablecompare"
)

// CSVSource loads a Dataset from a CSV file. The first row is taken as
// Headers; every other row's cells start out Raw, since without a schema to
// consult the engine's normalized comparison mode is what actually decides
// whether a value reads as a date, a number, or plain text.
type CSVSource struct {
	Path string
}

func (s CSVSource) Load(ctx context.Context) (tablecompare.Dataset, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return tablecompare.Dataset{}, fmt.Errorf("csv: open %s: %w", s.Path, err)
	}
	defer f.Close()

	reader := gocsv.DefaultCSVReader(f)
	if r, ok := reader.(*csv.Reader); ok {
		r.FieldsPerRecord = -1 // short rows are padded with Null below
	}
	records, err := reader.ReadAll()
	if err != nil {
		return tablecompare.Dataset{}, fmt.Errorf("csv: read %s: %w", s.Path, err)
	}
	if len(records) == 0 {
		return tablecompare.Dataset{SourceName: s.Path, SourceKind: tablecompare.SourceFile}, nil
	}

	headers := records[0]
	rows := make([]tablecompare.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(tablecompare.Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = tablecompare.RawCell(record[i])
			} else {
				row[h] = tablecompare.NullCell()
			}
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
