// Package diffkit computes character- and word-level edits between two
// strings and classifies how similar they are, on top of
// github.com/pmezard/go-difflib's port of Python's difflib SequenceMatcher.
package diffkit

import (
	"regexp"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/tablecompare/tablecompare"
)

// wordTokenRe splits a string into maximal runs of whitespace and maximal
// runs of non-whitespace, alternating, so that concatenating every token
// reconstructs the original string exactly.
var wordTokenRe = regexp.MustCompile(`\s+|\S+`)

// CharDiff computes a character-granularity edit between a and b. Equal
// inputs produce a single "equal" segment.
func CharDiff(a, b string) []tablecompare.Segment {
	segs, _, _ := diffSegments(splitChars(a), splitChars(b))
	return segs
}

// WordDiff computes a whitespace-delimited word-granularity edit between a
// and b.
func WordDiff(a, b string) []tablecompare.Segment {
	segs, _, _ := diffSegments(splitWords(a), splitWords(b))
	return segs
}

// ChangeRatio reports the fraction of characters an edit script marks as
// inserted or deleted, relative to the total characters considered (equal
// characters counted once per side they appear on). It returns 0 for
// identical inputs and 1 when exactly one side is empty.
func ChangeRatio(a, b string) float64 {
	_, changed, total := diffSegments(splitChars(a), splitChars(b))
	if total == 0 {
		return 0
	}
	return float64(changed) / float64(total)
}

// AdaptiveDiff chooses char-level inline segments when cellA and cellB's
// string forms are mostly similar, and falls back to a side-by-side cell diff
// (no segments, but the full original Cell values) when they are mostly
// different, switching at threshold. A mostly-different cell is more legible
// rendered side-by-side than with inline highlights.
func AdaptiveDiff(fieldName string, cellA, cellB tablecompare.Cell, threshold float64) tablecompare.FieldDiff {
	a, b := cellA.Stringify(), cellB.Stringify()
	if a == b {
		return tablecompare.FieldDiff{FieldName: fieldName, Kind: tablecompare.FieldUnchanged}
	}

	segs, changed, total := diffSegments(splitChars(a), splitChars(b))
	ratio := 0.0
	if total > 0 {
		ratio = float64(changed) / float64(total)
	}

	if ratio <= threshold {
		return tablecompare.FieldDiff{
			FieldName:   fieldName,
			Kind:        tablecompare.FieldCharDiff,
			ChangeRatio: ratio,
			Segments:    segs,
		}
	}

	return tablecompare.FieldDiff{
		FieldName:   fieldName,
		Kind:        tablecompare.FieldCellDiff,
		ChangeRatio: ratio,
		LeftValue:   &cellA,
		RightValue:  &cellB,
	}
}

func splitChars(s string) []string {
	runes := []rune(s)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}

func splitWords(s string) []string {
	if s == "" {
		return nil
	}
	return wordTokenRe.FindAllString(s, -1)
}

// diffSegments runs difflib's SequenceMatcher opcode diff between two tokenized
// sequences and returns the equivalent Segment run, plus the changed/total
// character counts used by ChangeRatio (changed = inserted+deleted tokens,
// total = changed + 2*matched, i.e. matched tokens counted once per side).
func diffSegments(a, b []string) (segs []tablecompare.Segment, changed, total int) {
	matcher := difflib.NewMatcher(a, b)
	for _, op := range matcher.GetOpCodes() {
		eqLen := 0
		switch op.Tag {
		case 'e':
			eqLen = op.I2 - op.I1
			segs = append(segs, tablecompare.Segment{Kind: tablecompare.SegEqual, Text: join(a[op.I1:op.I2])})
		case 'd':
			delLen := op.I2 - op.I1
			changed += delLen
			segs = append(segs, tablecompare.Segment{Kind: tablecompare.SegDelete, Text: join(a[op.I1:op.I2])})
		case 'i':
			insLen := op.J2 - op.J1
			changed += insLen
			segs = append(segs, tablecompare.Segment{Kind: tablecompare.SegInsert, Text: join(b[op.J1:op.J2])})
		case 'r':
			delLen := op.I2 - op.I1
			insLen := op.J2 - op.J1
			changed += delLen + insLen
			segs = append(segs, tablecompare.Segment{Kind: tablecompare.SegDelete, Text: join(a[op.I1:op.I2])})
			segs = append(segs, tablecompare.Segment{Kind: tablecompare.SegInsert, Text: join(b[op.J1:op.J2])})
		}
		total += eqLen
	}
	total = changed + 2*total
	return segs, changed, total
}

func join(tokens []string) string {
	switch len(tokens) {
	case 0:
		return ""
	case 1:
		return tokens[0]
	}
	n := 0
	for _, t := range tokens {
		n += len(t)
	}
	buf := make([]byte, 0, n)
	for _, t := range tokens {
		buf = append(buf, t...)
	}
	return string(buf)
}
