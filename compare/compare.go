// Package compare orchestrates the column reconciler, key indexer, value
// normalizer and diff primitives into the full dataset comparison described
// by tablecompare.Compare.
package compare

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/tablecompare/tablecompare"
	"github.com/tablecompare/tablecompare/diffkit"
	"github.com/tablecompare/tablecompare/keyindex"
	"github.com/tablecompare/tablecompare/normalize"
	"github.com/tablecompare/tablecompare/reconcile"
)

// progressCadence is how many processed keys elapse between progress
// callback invocations and cancellation checks.
const progressCadence = 100

// annotatedRow pairs a ComparisonRow with the raw composite-key string used
// only to apply the status-rank-then-key sort order; the string itself is
// not always part of the row's public Key (it only appears there when there
// are no configured key columns).
type annotatedRow struct {
	row     tablecompare.ComparisonRow
	sortKey string
}

// Compare reconciles the columns of dsA and dsB, indexes both sides (or
// aligns them positionally), walks the union of keys, computes per-field
// differences, and returns a fully sorted ComparisonResult.
//
// Compare never mutates dsA or dsB, and performs no I/O; it is the single
// entry point the tablecompare package's EXTERNAL INTERFACES section
// describes as "compare".
func Compare(dsA, dsB tablecompare.Dataset, opts tablecompare.Options) (*tablecompare.ComparisonResult, error) {
	threshold := opts.ChangeRatioThreshold
	if threshold == 0 {
		threshold = tablecompare.DefaultChangeRatioThreshold
	}

	if len(dsA.Rows) == 0 && len(dsB.Rows) == 0 {
		return &tablecompare.ComparisonResult{
			SourceNameA: dsA.SourceName,
			SourceNameB: dsB.SourceName,
		}, nil
	}

	fields := reconcile.Reconcile(dsA.Headers, dsB.Headers, opts.FieldNameMode)

	spellingA := make(map[string]string, len(fields.CommonMapped))
	spellingB := make(map[string]string, len(fields.CommonMapped))
	commonSet := make(map[string]bool, len(fields.CommonMapped))
	for _, m := range fields.CommonMapped {
		spellingA[m.Canonical] = m.InA
		spellingB[m.Canonical] = m.InB
		commonSet[m.Canonical] = true
	}

	fold := func(name string) string {
		if opts.FieldNameMode == tablecompare.FieldNameCaseInsensitive {
			return strings.ToLower(name)
		}
		return name
	}

	keyColumns := make([]string, len(opts.KeyColumns))
	for i, kc := range opts.KeyColumns {
		canonical := fold(kc)
		if !commonSet[canonical] {
			return nil, tablecompare.NewKeyColumnsNotCommonError(kc)
		}
		keyColumns[i] = canonical
	}

	compareFields := opts.CompareFields
	if len(compareFields) == 0 {
		compareFields = fields.Common
	} else {
		filtered := make([]string, 0, len(compareFields))
		for _, f := range compareFields {
			if commonSet[fold(f)] {
				filtered = append(filtered, fold(f))
			}
		}
		compareFields = filtered
	}

	serialAllowed := make(map[string]bool, len(opts.SerialDateColumns))
	for _, c := range opts.SerialDateColumns {
		serialAllowed[fold(c)] = true
	}

	keyColsA := make([]string, len(keyColumns))
	keyColsB := make([]string, len(keyColumns))
	for i, canonical := range keyColumns {
		keyColsA[i] = spellingA[canonical]
		keyColsB[i] = spellingB[canonical]
	}

	b := &builder{
		compareFields: compareFields,
		keyColumns:    keyColumns,
		spellingA:     spellingA,
		spellingB:     spellingB,
		valueMode:     opts.ValueMode,
		serialAllowed: serialAllowed,
		fold:          fold,
		threshold:     threshold,
		byPosition:    opts.MatchMode == tablecompare.MatchByPosition,
	}

	var annotated []annotatedRow
	var dupA, dupB []tablecompare.DuplicateKey

	total := 0
	processed := 0
	emit := func(phase tablecompare.ProgressPhase) {
		if opts.ProgressCallback == nil {
			return
		}
		percent := 0.0
		if total > 0 {
			percent = float64(processed) / float64(total) * 100
		}
		opts.ProgressCallback(phase, processed, total, percent)
	}

	if opts.MatchMode == tablecompare.MatchByPosition {
		n := len(dsA.Rows)
		if len(dsB.Rows) > n {
			n = len(dsB.Rows)
		}
		total = n
		for i := 0; i < n; i++ {
			if cancelled(opts.Cancel, processed) {
				return nil, tablecompare.ErrCancelled
			}
			syntheticKey := fmt.Sprintf("Row %d", i+1)
			var rowA, rowB tablecompare.Row
			var posA, posB *int
			if i < len(dsA.Rows) {
				rowA = dsA.Rows[i]
				posA = &i
			}
			if i < len(dsB.Rows) {
				rowB = dsB.Rows[i]
				posB = &i
			}
			annotated = append(annotated, annotatedRow{
				row:     b.buildRow(syntheticKey, rowA, posA, rowB, posB),
				sortKey: syntheticKey,
			})
			processed++
			if processed%progressCadence == 0 {
				emit(tablecompare.PhaseComparing)
			}
		}
	} else {
		idxA := keyindex.Build(dsA.Rows, keyColsA)
		idxB := keyindex.Build(dsB.Rows, keyColsB)
		dupA = idxA.Duplicates()
		dupB = idxB.Duplicates()

		// A base key unique on one side is stored unsuffixed there but as
		// "{base}#1".. on a side where it repeats, so sides pair on base key
		// plus occurrence ordinal rather than on the stored key string.
		unionKeyFor := make(map[string]string, idxA.Len()+idxB.Len())
		keyBFor := make(map[string]string, idxB.Len()) // union key -> B-side key
		var union []string
		for _, k := range idxA.Keys() {
			e, _ := idxA.Lookup(k)
			unionKeyFor[keyindex.CompositeKey(e.Row, keyColsA)+"#"+strconv.Itoa(e.Occurrence)] = k
			union = append(union, k)
		}
		for _, k := range idxB.Keys() {
			e, _ := idxB.Lookup(k)
			uk, ok := unionKeyFor[keyindex.CompositeKey(e.Row, keyColsB)+"#"+strconv.Itoa(e.Occurrence)]
			if !ok {
				uk = k
				union = append(union, k)
			}
			keyBFor[uk] = k
		}
		total = len(union)

		for _, key := range union {
			if cancelled(opts.Cancel, processed) {
				return nil, tablecompare.ErrCancelled
			}

			entryA, okA := idxA.Lookup(key)
			keyB, okB := keyBFor[key]
			entryB, _ := idxB.Lookup(keyB)

			var rowA, rowB tablecompare.Row
			var posA, posB *int
			if okA {
				rowA = entryA.Row
				p := entryA.Position
				posA = &p
			}
			if okB {
				rowB = entryB.Row
				p := entryB.Position
				posB = &p
			}

			annotated = append(annotated, annotatedRow{
				row:     b.buildRow(key, rowA, posA, rowB, posB),
				sortKey: key,
			})
			processed++
			if processed%progressCadence == 0 {
				emit(tablecompare.PhaseComparing)
			}
		}
	}

	emit(tablecompare.PhaseDone)

	sort.SliceStable(annotated, func(i, j int) bool {
		ri, rj := annotated[i].row.Status.SortRank(), annotated[j].row.Status.SortRank()
		if ri != rj {
			return ri < rj
		}
		return annotated[i].sortKey < annotated[j].sortKey
	})

	rows := make([]tablecompare.ComparisonRow, len(annotated))
	summary := tablecompare.Summary{Total: len(annotated)}
	for i, a := range annotated {
		rows[i] = a.row
		switch a.row.Status {
		case tablecompare.StatusMatch:
			summary.Match++
		case tablecompare.StatusDiffer:
			summary.Differ++
		case tablecompare.StatusOnlyInA:
			summary.OnlyInA++
		case tablecompare.StatusOnlyInB:
			summary.OnlyInB++
		}
	}

	slog.Debug("comparison complete",
		"source_a", dsA.SourceName, "source_b", dsB.SourceName,
		"total", summary.Total, "match", summary.Match, "differ", summary.Differ,
		"only_in_a", summary.OnlyInA, "only_in_b", summary.OnlyInB)

	return &tablecompare.ComparisonResult{
		SourceNameA:    dsA.SourceName,
		SourceNameB:    dsB.SourceName,
		Summary:        summary,
		Rows:           rows,
		DuplicateKeysA: dupA,
		DuplicateKeysB: dupB,
	}, nil
}

func cancelled(cancel <-chan struct{}, processed int) bool {
	if cancel == nil || processed%progressCadence != 0 {
		return false
	}
	select {
	case <-cancel:
		return true
	default:
		return false
	}
}

// builder carries the per-comparison configuration needed to construct each
// ComparisonRow, so buildRow itself stays a plain method with no sprawling
// parameter list.
type builder struct {
	compareFields []string
	keyColumns    []string // canonical names; empty means "use the synthetic KEY field"
	spellingA     map[string]string
	spellingB     map[string]string
	valueMode     tablecompare.ValueMode
	serialAllowed map[string]bool
	fold          func(string) string
	threshold     float64
	byPosition    bool
}

// buildRow constructs one ComparisonRow for a single (possibly one-sided) key
// occurrence, comparing every configured field when both sides are present.
func (b *builder) buildRow(rawKey string, rowA tablecompare.Row, posA *int, rowB tablecompare.Row, posB *int) tablecompare.ComparisonRow {
	out := tablecompare.ComparisonRow{
		IndexA: posA,
		IndexB: posB,
	}

	switch {
	case rowA != nil && rowB != nil:
		out.DataA = rowA
		out.DataB = rowB
		var diffs []tablecompare.FieldDiff
		for _, canonical := range b.compareFields {
			cellA := rowA.Get(b.spellingA[canonical])
			cellB := rowB.Get(b.spellingB[canonical])
			if !valuesEqual(cellA, cellB, b.valueMode, b.serialAllowed[b.fold(canonical)]) {
				diffs = append(diffs, diffkit.AdaptiveDiff(canonical, cellA, cellB, b.threshold))
			}
		}
		if len(diffs) == 0 {
			out.Status = tablecompare.StatusMatch
		} else {
			out.Status = tablecompare.StatusDiffer
			out.Differences = diffs
		}
		out.Key = b.buildKey(rawKey, rowA, b.spellingA)
	case rowA != nil:
		out.DataA = rowA
		out.Status = tablecompare.StatusOnlyInA
		out.Key = b.buildKey(rawKey, rowA, b.spellingA)
	case rowB != nil:
		out.DataB = rowB
		out.Status = tablecompare.StatusOnlyInB
		out.Key = b.buildKey(rawKey, rowB, b.spellingB)
	}

	return out
}

// buildKey returns either the per-key-column value mapping (when key columns
// are configured) or the synthetic KEY field carrying the raw composite-key
// string (when they are not, or in by_position mode where rawKey is
// "Row {i+1}"). source and its spelling map are whichever side actually holds
// the row being keyed.
func (b *builder) buildKey(rawKey string, source tablecompare.Row, spelling map[string]string) tablecompare.Key {
	if len(b.keyColumns) == 0 || b.byPosition {
		return tablecompare.Key{tablecompare.SyntheticKeyField: tablecompare.RawCell(rawKey)}
	}
	key := make(tablecompare.Key, len(b.keyColumns))
	for _, canonical := range b.keyColumns {
		key[canonical] = source.Get(spelling[canonical])
	}
	return key
}

// valuesEqual treats Null as equal only to Null or an empty string, and
// otherwise defers to normalize.CompareValues.
func valuesEqual(a, b tablecompare.Cell, mode tablecompare.ValueMode, allowSerial bool) bool {
	if a.Kind == tablecompare.CellNull || b.Kind == tablecompare.CellNull {
		return a.IsEmpty() && b.IsEmpty()
	}
	return normalize.CompareValues(a.Stringify(), b.Stringify(), mode == tablecompare.ValueNormalized, allowSerial)
}
