// Package keyindex builds a lookup from composite-key string to row
// occurrence, assigning deterministic synthetic suffixes to duplicate keys so
// that no row is ever silently dropped from a comparison.
package keyindex

import (
	"strconv"
	"strings"

	"github.com/tablecompare/tablecompare"
	"github.com/tablecompare/tablecompare/util"
)

// Delimiter separates the stringified values of a composite key's columns.
// The three-byte NUL-bracketed pipe is chosen to be absent from any plausible
// business data.
const Delimiter = "\x00|\x00"

// Entry is one row occurrence stored under a (possibly suffixed) key.
type Entry struct {
	Row        tablecompare.Row
	Position   int // original ordinal of the row within its Dataset
	Occurrence int // 1 for unique keys; 1..n for the n-th occurrence of a duplicated base key
}

// Index maps composite-key strings (including any "#N" duplicate suffix) to
// the row occurrence they identify.
type Index struct {
	entries map[string]Entry
	order   []string // keys in first-seen row order, for deterministic iteration
	dups    []tablecompare.DuplicateKey
}

// CompositeKey joins the stringified values of keyColumns for row, in order,
// using Delimiter. A missing cell stringifies to the empty string.
func CompositeKey(row tablecompare.Row, keyColumns []string) string {
	if len(keyColumns) == 0 {
		return ""
	}
	parts := make([]string, len(keyColumns))
	for i, col := range keyColumns {
		parts[i] = row.Get(col).Stringify()
	}
	return strings.Join(parts, Delimiter)
}

// Build indexes rows by their composite key over keyColumns. Rows sharing a
// base composite key are re-keyed to "{base}#1".."{base}#n" in their original
// positional order; every occurrence is retained.
func Build(rows []tablecompare.Row, keyColumns []string) *Index {
	baseKeys := make([]string, len(rows))
	positions := make(map[string][]int)
	var baseOrder []string

	for i, row := range rows {
		base := CompositeKey(row, keyColumns)
		baseKeys[i] = base
		if _, seen := positions[base]; !seen {
			baseOrder = append(baseOrder, base)
		}
		positions[base] = append(positions[base], i)
	}

	idx := &Index{entries: make(map[string]Entry, len(rows))}

	dupCounts := make(map[string]int)
	finalKeyFor := make(map[int]string, len(rows)) // row position -> its assigned (possibly suffixed) key
	for _, base := range baseOrder {
		positionsForBase := positions[base]
		if len(positionsForBase) == 1 {
			pos := positionsForBase[0]
			finalKeyFor[pos] = base
			idx.entries[base] = Entry{Row: rows[pos], Position: pos, Occurrence: 1}
			continue
		}
		dupCounts[base] = len(positionsForBase)
		for occurrence, pos := range positionsForBase {
			suffixed := base + "#" + strconv.Itoa(occurrence+1)
			finalKeyFor[pos] = suffixed
			idx.entries[suffixed] = Entry{Row: rows[pos], Position: pos, Occurrence: occurrence + 1}
		}
	}

	// Base keys are walked above in first-seen order (needed so occurrence
	// suffixes stay stable), but the duplicates report is a user-facing
	// diagnostic, not something downstream logic keys off of, so it's
	// presented in canonical (sorted) key order via util.CanonicalMapIter,
	// which walks the map in sorted order, rather than happenstance
	// insertion order.
	for base, count := range util.CanonicalMapIter(dupCounts) {
		idx.dups = append(idx.dups, tablecompare.DuplicateKey{Key: base, Count: count})
	}

	for i := range rows {
		idx.order = append(idx.order, finalKeyFor[i])
	}

	return idx
}

// Lookup returns the entry stored under key, if any.
func (idx *Index) Lookup(key string) (Entry, bool) {
	e, ok := idx.entries[key]
	return e, ok
}

// Keys returns every key in first-seen (original row) order.
func (idx *Index) Keys() []string {
	return idx.order
}

// Duplicates returns the base keys that occurred more than once, in sorted
// key order, each with its occurrence count.
func (idx *Index) Duplicates() []tablecompare.DuplicateKey {
	return idx.dups
}

// Len reports how many (possibly suffixed) keys the index holds.
func (idx *Index) Len() int {
	return len(idx.entries)
}
