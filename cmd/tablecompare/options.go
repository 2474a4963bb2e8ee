package main

import (
	"strings"

	"github.com/tablecompare/tablecompare"
)

// options is the go-flags option struct: connection flags, then the pair of
// things being compared, then the comparison knobs.
type options struct {
	User     string `short:"U" long:"user" description:"Oracle user"`
	Host     string `long:"host" description:"Oracle host" default:"localhost"`
	Port     int    `long:"port" description:"Oracle listener port" default:"1521"`
	Service  string `long:"service" description:"Oracle service name"`
	Password string `long:"password" description:"Oracle password; prompted if omitted and a TTY is attached"`
	Config   string `long:"config" description:"path to a YAML connection-profile file"`

	// Table vs SQL: compare an Oracle table's current rows against the
	// result of an ad-hoc SELECT, on the same connection — the
	// "does this query reproduce the table" regression shape.
	Table string `long:"table" description:"Oracle table to use as source A"`
	SQL   string `long:"sql" description:"SQL query to use as source B"`

	// FileA/FileB: compare two CSV or XLSX files directly, no Oracle
	// connection involved. Takes precedence over Table/SQL when set.
	FileA string `long:"file-a" description:"path to source A's CSV or XLSX file"`
	FileB string `long:"file-b" description:"path to source B's CSV or XLSX file"`

	Key       string `long:"key" description:"comma-separated key column names"`
	Fields    string `long:"fields" description:"comma-separated field names to compare; default is every common field"`
	Mode      string `long:"mode" default:"key" description:"key or position"`
	ValueMode string `long:"value-mode" default:"strict" description:"strict or normalized"`
	Threshold float64 `long:"threshold" default:"0.5" description:"change-ratio threshold between char_diff and cell_diff"`
	JSON      bool    `long:"json" description:"print the ComparisonResult as JSON instead of a summary table"`
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (o options) matchMode() tablecompare.MatchMode {
	if strings.EqualFold(o.Mode, "position") {
		return tablecompare.MatchByPosition
	}
	return tablecompare.MatchByKey
}

func (o options) valueMode() tablecompare.ValueMode {
	if strings.EqualFold(o.ValueMode, "normalized") {
		return tablecompare.ValueNormalized
	}
	return tablecompare.ValueStrict
}
