package normalize

import "testing"

func TestNormalizeDateISO(t *testing.T) {
	got, ok := NormalizeDate("2024-01-05", false)
	if !ok || got != "2024-01-05" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestNormalizeDateISOWithTime(t *testing.T) {
	got, ok := NormalizeDate("2024-01-05T10:30:00", false)
	if !ok || got != "2024-01-05" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestNormalizeDateUSSlashIsMonthFirst(t *testing.T) {
	// "5/1/2024" parses as US M/D => 2024-05-01, not 2024-01-05.
	got, ok := NormalizeDate("5/1/2024", false)
	if !ok || got != mustFormat(2024, 5, 1) {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestNormalizeDateEuropeanDash(t *testing.T) {
	// "5-1-2024" parses as European D-M => 2024-01-05.
	got, ok := NormalizeDate("5-1-2024", false)
	if !ok || got != mustFormat(2024, 1, 5) {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestNormalizeDateTextMonth(t *testing.T) {
	got, ok := NormalizeDate("5-Jan-24", false)
	if !ok || got != mustFormat(2024, 1, 5) {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestNormalizeDateTwoDigitYearBoundary(t *testing.T) {
	got, ok := NormalizeDate("1-1-50", false)
	if !ok || got != mustFormat(2050, 1, 1) {
		t.Fatalf("50 should map to 2050, got %q", got)
	}
	got, ok = NormalizeDate("1-1-51", false)
	if !ok || got != mustFormat(1951, 1, 1) {
		t.Fatalf("51 should map to 1951, got %q", got)
	}
}

func TestNormalizeDateSerialRequiresOptIn(t *testing.T) {
	if _, ok := NormalizeDate("45000", false); ok {
		t.Fatal("serial date should not parse without allowSerial")
	}
	got, ok := NormalizeDate("45000", true)
	if !ok {
		t.Fatal("serial date should parse with allowSerial")
	}
	if got == "" {
		t.Fatal("expected a canonical date")
	}
}

func TestNormalizeDateInvalid(t *testing.T) {
	for _, v := range []string{"not a date", "2024-13-40", "", "   "} {
		if _, ok := NormalizeDate(v, true); ok {
			t.Fatalf("expected %q to fail to parse", v)
		}
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	for _, v := range []string{"2024-01-05", "5/1/2024", "5-Jan-24"} {
		first, ok := NormalizeDate(v, false)
		if !ok {
			t.Fatalf("expected %q to parse", v)
		}
		second, ok := NormalizeDate(first, false)
		if !ok || second != first {
			t.Fatalf("normalize not idempotent for %q: %q vs %q", v, first, second)
		}
	}
}
