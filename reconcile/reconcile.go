// Package reconcile computes the set of fields common to two datasets' header
// lists, under either strict or case-insensitive name matching, plus the sets
// unique to each side.
package reconcile

import (
	"strings"

	"github.com/tablecompare/tablecompare"
	"github.com/tablecompare/tablecompare/util"
)

// FieldMapping records, for one common field, its canonical name and its
// original spelling on each side. Under case-sensitive matching the
// canonical name and both original spellings are identical; under
// case-insensitive matching the canonical name is the lower-cased form and
// the original spellings let the engine look up cells in each source's rows
// without renaming them.
type FieldMapping struct {
	Canonical string
	InA       string
	InB       string
}

// Fields is the output of a Reconcile call.
type Fields struct {
	Common       []string
	CommonMapped []FieldMapping
	OnlyInA      []string
	OnlyInB      []string
	IsExactMatch bool
}

// foldName normalizes a header name the way NormalizeIdentifierName folds a
// SQL identifier for comparison purposes, generalized here from two dialect-
// specific quoting rules down to a single two-mode switch: case_sensitive
// leaves the name untouched, case_insensitive folds it to lowercase.
func foldName(name string, mode tablecompare.FieldNameMode) string {
	if mode == tablecompare.FieldNameCaseInsensitive {
		return strings.ToLower(name)
	}
	return name
}

// Reconcile computes the common and side-exclusive field sets for two header
// lists. The order of Common follows the A-side header order, which makes the
// result deterministic regardless of how headersB is ordered.
func Reconcile(headersA, headersB []string, mode tablecompare.FieldNameMode) Fields {
	foldedB := make(map[string]string, len(headersB)) // folded -> original B spelling
	for _, h := range headersB {
		foldedB[foldName(h, mode)] = h
	}

	seenA := make(map[string]bool, len(headersA))

	var mapped []FieldMapping
	var onlyInA []string

	for _, h := range headersA {
		folded := foldName(h, mode)
		if seenA[folded] {
			continue // headers within one side are assumed unique; ignore repeats defensively
		}
		seenA[folded] = true

		if origB, ok := foldedB[folded]; ok {
			canonical := folded
			if mode == tablecompare.FieldNameCaseSensitive {
				canonical = h
			}
			mapped = append(mapped, FieldMapping{Canonical: canonical, InA: h, InB: origB})
		} else {
			onlyInA = append(onlyInA, h)
		}
	}

	// Common follows the A-side header order for free, since mapped was
	// built while walking headersA in order; TransformSlice just projects
	// out the field the caller-facing Common slice needs.
	common := util.TransformSlice(mapped, func(m FieldMapping) string { return m.Canonical })

	seenFoldedCommon := make(map[string]bool, len(mapped))
	for _, m := range mapped {
		key := foldName(m.InB, mode)
		seenFoldedCommon[key] = true
	}

	var onlyInB []string
	seenB := make(map[string]bool, len(headersB))
	for _, h := range headersB {
		folded := foldName(h, mode)
		if seenB[folded] {
			continue
		}
		seenB[folded] = true
		if !seenFoldedCommon[folded] {
			onlyInB = append(onlyInB, h)
		}
	}

	return Fields{
		Common:       common,
		CommonMapped: mapped,
		OnlyInA:      onlyInA,
		OnlyInB:      onlyInB,
		IsExactMatch: len(onlyInA) == 0 && len(onlyInB) == 0,
	}
}
