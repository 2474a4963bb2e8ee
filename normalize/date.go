// Package normalize canonicalizes individual cell values for the "normalized"
// comparison mode: dates across locales and locale-aware numbers. Every
// function here is pure and total — parse failure is reported by the second
// return value, never by a panic or an error, so callers can fall through to
// plain string comparison without special-casing exceptions.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// spreadsheetEpoch is 1899-12-30, the day spreadsheet serial date 0 maps to.
// Day 60 is the famous non-existent 1900-02-29 that the format preserves for
// compatibility; using this epoch (rather than 1899-12-31) reproduces that
// well-known off-by-one without special-casing it.
var spreadsheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var (
	isoDateRe     = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:[T ](\d{2}):(\d{2}):(\d{2}))?$`)
	usSlashRe     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)
	euroDashRe    = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{2}|\d{4})$`)
	textMonthRe   = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3})-(\d{2}|\d{4})$`)
	serialRe      = regexp.MustCompile(`^\d{5}$`)
)

// NormalizeDate maps value to a canonical ISO YYYY-MM-DD date string, or
// reports ok=false if no rule matches. Parsing happens in UTC throughout so
// that no rule's result depends on the host's local timezone.
//
// allowSerial enables the 5-digit spreadsheet-serial-date heuristic. Callers
// should only set it for columns explicitly opted in (tablecompare.Options.
// SerialDateColumns), since it otherwise misfires on ordinary 5-digit numeric
// identifiers.
func NormalizeDate(value string, allowSerial bool) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	if m := isoDateRe.FindStringSubmatch(value); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return formatISODate(y, mo, d)
	}

	if m := usSlashRe.FindStringSubmatch(value); m != nil {
		mo, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[2])
		y, ok := expandYear(m[3])
		if !ok {
			return "", false
		}
		return formatISODate(y, mo, d)
	}

	if m := textMonthRe.FindStringSubmatch(value); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, ok := monthAbbrev[strings.ToLower(m[2])]
		if !ok {
			return "", false
		}
		y, ok := expandYear(m[3])
		if !ok {
			return "", false
		}
		return formatISODate(y, int(mo), d)
	}

	if m := euroDashRe.FindStringSubmatch(value); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, ok := expandYear(m[3])
		if !ok {
			return "", false
		}
		return formatISODate(y, mo, d)
	}

	if allowSerial && serialRe.MatchString(value) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", false
		}
		t := spreadsheetEpoch.AddDate(0, 0, n)
		return t.Format("2006-01-02"), true
	}

	return "", false
}

// expandYear applies the two-digit-year rule: "≤ 50" maps to 20YY, else 19YY.
// Four-digit years pass through unchanged.
func expandYear(raw string) (int, bool) {
	y, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	if len(raw) == 4 {
		return y, true
	}
	if y <= 50 {
		return 2000 + y, true
	}
	return 1900 + y, true
}

// formatISODate validates the (year, month, day) triple in UTC and renders it
// canonically. time.Date normalizes out-of-range components (e.g. month 13),
// which would silently accept bad input, so overflow is checked explicitly.
func formatISODate(y, mo, d int) (string, bool) {
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return "", false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// mustFormat is a small helper used only by tests to build expected values.
// Unlike the parsing functions, it panics on an invalid date.
func mustFormat(y, mo, d int) string {
	s, ok := formatISODate(y, mo, d)
	if !ok {
		panic(fmt.Sprintf("invalid date %04d-%02d-%02d", y, mo, d))
	}
	return s
}
