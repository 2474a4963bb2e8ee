// Package oracle loads tablecompare Datasets from Oracle tables and ad-hoc
// SQL queries, using go-ora's pure-Go driver through sqlx.
package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2"

	"github.com/tablecompare/tablecompare"
)

// Config holds the connection parameters shared by TableSource and
// QuerySource. Fields are assembled from CLI flags or a config.Profile; a
// DSN is never read from or written to disk.
type Config struct {
	Host     string
	Port     int
	Service  string
	User     string
	Password string
}

// dsn builds a go-ora connection string. go-ora accepts the password
// unescaped in the URL's userinfo component; Config.Password is expected to
// already come from a flag, environment variable, or interactive prompt.
func (c Config) dsn() string {
	port := c.Port
	if port == 0 {
		port = 1521
	}
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, port, c.Service)
}

func connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("oracle", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("oracle: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("oracle: ping: %w", err)
	}
	return db, nil
}

// TableSource loads every row of a single Oracle table, with column order
// taken from ALL_TAB_COLUMNS rather than from the SELECT * result set, so
// Headers is stable even across driver versions that reorder result
// metadata.
type TableSource struct {
	Config
	Table string
}

func (s TableSource) Load(ctx context.Context) (tablecompare.Dataset, error) {
	db, err := connect(ctx, s.Config)
	if err != nil {
		return tablecompare.Dataset{}, err
	}
	defer db.Close()

	headers, err := tableColumns(ctx, db, s.Table)
	if err != nil {
		return tablecompare.Dataset{}, err
	}

	rows, err := db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s", s.Table))
	if err != nil {
		return tablecompare.Dataset{}, fmt.Errorf("oracle: query table %s: %w", s.Table, err)
	}
	defer rows.Close()

	datasetRows, err := scanRows(rows)
	if err != nil {
		return tablecompare.Dataset{}, err
	}

	return tablecompare.Dataset{
		SourceName: fmt.Sprintf("%s/%s", s.Service, s.Table),
		Headers:    headers,
		Rows:       datasetRows,
		SourceKind: tablecompare.SourceOracleTable,
	}, nil
}

func tableColumns(ctx context.Context, db *sqlx.DB, table string) ([]string, error) {
	const q = `SELECT column_name FROM ALL_TAB_COLUMNS WHERE table_name = :1 ORDER BY column_id`
	var names []string
	rows, err := db.QueryxContext(ctx, q, strings.ToUpper(table))
	if err != nil {
		return nil, fmt.Errorf("oracle: read ALL_TAB_COLUMNS for %s: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("oracle: scan column name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// QuerySource loads the result of an arbitrary SQL SELECT, with Headers
// taken from the executed statement's own column descriptors.
type QuerySource struct {
	Config
	SQL string
}

func (s QuerySource) Load(ctx context.Context) (tablecompare.Dataset, error) {
	db, err := connect(ctx, s.Config)
	if err != nil {
		return tablecompare.Dataset{}, err
	}
	defer db.Close()

	rows, err := db.QueryxContext(ctx, s.SQL)
	if err != nil {
		return tablecompare.Dataset{}, fmt.Errorf("oracle: execute query: %w", err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return tablecompare.Dataset{}, fmt.Errorf("oracle: read result columns: %w", err)
	}

	datasetRows, err := scanRows(rows)
	if err != nil {
		return tablecompare.Dataset{}, err
	}

	return tablecompare.Dataset{
		SourceName: s.Service,
		Headers:    headers,
		Rows:       datasetRows,
		SourceKind: tablecompare.SourceOracleSQL,
	}, nil
}

// scanRows walks a *sqlx.Rows result with MapScan, converting each driver
// value to a Cell via cellFromDriverValue.
func scanRows(rows *sqlx.Rows) ([]tablecompare.Row, error) {
	var out []tablecompare.Row
	for rows.Next() {
		raw := make(map[string]interface{})
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("oracle: scan row: %w", err)
		}
		row := make(tablecompare.Row, len(raw))
		for name, value := range raw {
			row[name] = cellFromDriverValue(value)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// cellFromDriverValue maps a database/sql driver value, as returned by
// go-ora, to a Cell. NUMBER columns surface as int64 or float64, DATE and
// TIMESTAMP columns surface as time.Time, and everything else (VARCHAR2,
// CHAR, CLOB) surfaces as string or []byte.
func cellFromDriverValue(value interface{}) tablecompare.Cell {
	switch v := value.(type) {
	case nil:
		return tablecompare.NullCell()
	case int64:
		return tablecompare.NumberCell(float64(v))
	case float64:
		return tablecompare.NumberCell(v)
	case bool:
		return tablecompare.BooleanCell(v)
	case time.Time:
		return tablecompare.DateCell(v.Format("2006-01-02"))
	case []byte:
		return tablecompare.TextCell(string(v))
	case string:
		return tablecompare.TextCell(v)
	default:
		return tablecompare.TextCell(fmt.Sprintf("%v", v))
	}
}
