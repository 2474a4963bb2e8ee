package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/tablecompare/tablecompare"
	"github.com/tablecompare/tablecompare/compare"
	"github.com/tablecompare/tablecompare/config"
	"github.com/tablecompare/tablecompare/source"
	"github.com/tablecompare/tablecompare/source/file"
	"github.com/tablecompare/tablecompare/source/oracle"
	"github.com/tablecompare/tablecompare/util"
)

func main() {
	util.InitSlog()

	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	ctx := context.Background()

	profile, err := config.Load(opts.Config)
	if err != nil {
		return err
	}
	applyProfileDefaults(&opts, profile)

	if opts.Password == "" && opts.FileA == "" && opts.FileB == "" {
		opts.Password = promptPassword()
	}

	srcA, srcB, err := resolveSources(opts)
	if err != nil {
		return err
	}

	dsA, err := srcA.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading source A: %w", err)
	}
	dsB, err := srcB.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading source B: %w", err)
	}

	compareOpts := tablecompare.Options{
		KeyColumns:    firstNonEmpty(splitCSV(opts.Key), profile.DefaultKey),
		CompareFields: firstNonEmpty(splitCSV(opts.Fields), profile.DefaultFields),
		MatchMode:     opts.matchMode(),
		ValueMode:     opts.valueMode(),
		ChangeRatioThreshold: opts.Threshold,
	}

	slog.Debug("running comparison", "source_a", dsA.SourceName, "source_b", dsB.SourceName)

	result, err := compare.Compare(dsA, dsB, compareOpts)
	if err != nil {
		return fmt.Errorf("comparing: %w", err)
	}

	if opts.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printSummary(result)
	return nil
}

func firstNonEmpty(primary, fallback []string) []string {
	if len(primary) > 0 {
		return primary
	}
	return fallback
}

// resolveSources picks the file-vs-file shape when both --file-a and
// --file-b are set, and otherwise the table-vs-query shape against a single
// Oracle connection.
func resolveSources(opts options) (source.Provider, source.Provider, error) {
	if opts.FileA != "" && opts.FileB != "" {
		a, err := fileSource(opts.FileA)
		if err != nil {
			return nil, nil, err
		}
		b, err := fileSource(opts.FileB)
		if err != nil {
			return nil, nil, err
		}
		return a, b, nil
	}

	if opts.Table == "" || opts.SQL == "" {
		return nil, nil, fmt.Errorf("either both --file-a/--file-b or both --table/--sql must be set")
	}

	conn := oracle.Config{
		Host:     opts.Host,
		Port:     opts.Port,
		Service:  opts.Service,
		User:     opts.User,
		Password: opts.Password,
	}
	return oracle.TableSource{Config: conn, Table: opts.Table},
		oracle.QuerySource{Config: conn, SQL: opts.SQL},
		nil
}

func fileSource(path string) (source.Provider, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return file.CSVSource{Path: path}, nil
	case ".xlsx":
		return file.XLSXSource{Path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension for %s (expected .csv or .xlsx)", path)
	}
}

func applyProfileDefaults(opts *options, profile config.Profile) {
	conn, ok := profile.Connections[opts.Service]
	if !ok {
		return
	}
	if opts.Host == "" || opts.Host == "localhost" {
		opts.Host = conn.Host
	}
	if opts.Port == 0 || opts.Port == 1521 {
		opts.Port = conn.Port
	}
	if opts.User == "" {
		opts.User = conn.User
	}
}

func promptPassword() string {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return ""
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return ""
	}
	return string(b)
}

func printSummary(result *tablecompare.ComparisonResult) {
	fmt.Printf("%s vs %s\n", result.SourceNameA, result.SourceNameB)
	fmt.Printf("  total:     %d\n", result.Summary.Total)
	fmt.Printf("  match:     %d\n", result.Summary.Match)
	fmt.Printf("  differ:    %d\n", result.Summary.Differ)
	fmt.Printf("  only in A: %d\n", result.Summary.OnlyInA)
	fmt.Printf("  only in B: %d\n", result.Summary.OnlyInB)

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		for _, row := range result.Rows {
			if row.Status == tablecompare.StatusDiffer {
				pp.Println(row)
			}
		}
	}

	for _, d := range result.DuplicateKeysA {
		fmt.Printf("  duplicate key in A: %s (x%d)\n", d.Key, d.Count)
	}
	for _, d := range result.DuplicateKeysB {
		fmt.Printf("  duplicate key in B: %s (x%d)\n", d.Key, d.Count)
	}
}
