package diffkit

import (
	"testing"

	"github.com/tablecompare/tablecompare"
)

func reconstructLeft(segs []tablecompare.Segment) string {
	out := ""
	for _, s := range segs {
		if s.Kind == tablecompare.SegEqual || s.Kind == tablecompare.SegDelete {
			out += s.Text
		}
	}
	return out
}

func reconstructRight(segs []tablecompare.Segment) string {
	out := ""
	for _, s := range segs {
		if s.Kind == tablecompare.SegEqual || s.Kind == tablecompare.SegInsert {
			out += s.Text
		}
	}
	return out
}

func TestCharDiffIdenticalIsSingleEqual(t *testing.T) {
	segs := CharDiff("same", "same")
	if len(segs) != 1 || segs[0].Kind != tablecompare.SegEqual || segs[0].Text != "same" {
		t.Fatalf("unexpected segments: %+v", segs)
	}
}

func TestCharDiffReconstructsBothSides(t *testing.T) {
	cases := [][2]string{
		{"Oslo", "Olso"},
		{"hello world", "hello WORLD"},
		{"", "abc"},
		{"abc", ""},
		{"kitten", "sitting"},
	}
	for _, c := range cases {
		segs := CharDiff(c[0], c[1])
		if got := reconstructLeft(segs); got != c[0] {
			t.Fatalf("left reconstruction mismatch for %v: got %q", c, got)
		}
		if got := reconstructRight(segs); got != c[1] {
			t.Fatalf("right reconstruction mismatch for %v: got %q", c, got)
		}
	}
}

func TestWordDiffReconstructsBothSides(t *testing.T) {
	cases := [][2]string{
		{"the quick fox", "the slow fox"},
		{"a  b", "a b"},
		{"", "hello there"},
	}
	for _, c := range cases {
		segs := WordDiff(c[0], c[1])
		if got := reconstructLeft(segs); got != c[0] {
			t.Fatalf("left reconstruction mismatch for %v: got %q", c, got)
		}
		if got := reconstructRight(segs); got != c[1] {
			t.Fatalf("right reconstruction mismatch for %v: got %q", c, got)
		}
	}
}

func TestChangeRatioIdentical(t *testing.T) {
	if r := ChangeRatio("same", "same"); r != 0 {
		t.Fatalf("expected 0, got %v", r)
	}
}

func TestChangeRatioOneSideEmpty(t *testing.T) {
	if r := ChangeRatio("", "abc"); r != 1 {
		t.Fatalf("expected 1, got %v", r)
	}
	if r := ChangeRatio("abc", ""); r != 1 {
		t.Fatalf("expected 1, got %v", r)
	}
}

func TestChangeRatioBothEmpty(t *testing.T) {
	if r := ChangeRatio("", ""); r != 0 {
		t.Fatalf("expected 0, got %v", r)
	}
}

// "hello world" vs "hello WORLD" has change ratio approximately 5/11 ≈ 0.4545.
func TestChangeRatioKnownValue(t *testing.T) {
	r := ChangeRatio("hello world", "hello WORLD")
	want := 5.0 / 11.0
	if diff := r - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("got %v, want %v", r, want)
	}
}

func TestAdaptiveDiffUnchanged(t *testing.T) {
	fd := AdaptiveDiff("f", tablecompare.TextCell("same"), tablecompare.TextCell("same"), 0.5)
	if fd.Kind != tablecompare.FieldUnchanged {
		t.Fatalf("expected unchanged, got %v", fd.Kind)
	}
}

// The threshold boundary: with threshold 0.5 the pair is a char_diff;
// with threshold 0.4 it is a cell_diff.
func TestAdaptiveDiffBoundary(t *testing.T) {
	fd := AdaptiveDiff("f", tablecompare.TextCell("hello world"), tablecompare.TextCell("hello WORLD"), 0.5)
	if fd.Kind != tablecompare.FieldCharDiff {
		t.Fatalf("expected char_diff at threshold 0.5, got %v", fd.Kind)
	}
	if got := reconstructLeft(fd.Segments); got != "hello world" {
		t.Fatalf("left reconstruction mismatch: %q", got)
	}
	if got := reconstructRight(fd.Segments); got != "hello WORLD" {
		t.Fatalf("right reconstruction mismatch: %q", got)
	}

	fd = AdaptiveDiff("f", tablecompare.TextCell("hello world"), tablecompare.TextCell("hello WORLD"), 0.4)
	if fd.Kind != tablecompare.FieldCellDiff {
		t.Fatalf("expected cell_diff at threshold 0.4, got %v", fd.Kind)
	}
	if fd.Segments != nil {
		t.Fatalf("cell_diff must carry no segments")
	}
	if fd.LeftValue == nil || fd.RightValue == nil {
		t.Fatalf("cell_diff must carry both values")
	}
}

func TestAdaptiveDiffMostlyDifferentIsCellDiff(t *testing.T) {
	fd := AdaptiveDiff("f", tablecompare.TextCell("apple"), tablecompare.TextCell("zebra truck"), 0.5)
	if fd.Kind != tablecompare.FieldCellDiff {
		t.Fatalf("expected cell_diff, got %v", fd.Kind)
	}
}
