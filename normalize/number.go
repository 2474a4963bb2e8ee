package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	signPrefixRe = regexp.MustCompile(`^[+-]`)
	letterRe     = regexp.MustCompile(`[A-Za-z]`)
)

// NormalizeNumber parses value as a locale-ambiguous number and returns it
// rounded to 10 decimal places, or reports ok=false if value contains letters
// (other than a leading sign) or no digits at all.
//
// Locale is detected from the relative position of the last ',' and the last
// '.': whichever comes later is the decimal separator, and the other (if
// present) is treated as a grouping separator and stripped.
//
// The final rounding step goes through shopspring/decimal rather than
// strconv.ParseFloat followed by manual rounding, so the binary-float noise
// the rounding is meant to neutralize is never reintroduced by the rounding
// arithmetic itself.
func NormalizeNumber(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}

	body := signPrefixRe.ReplaceAllString(trimmed, "")
	if letterRe.MatchString(body) {
		return 0, false
	}
	if !strings.ContainsAny(body, "0123456789") {
		return 0, false
	}

	cleaned := stripLocaleSeparators(trimmed)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}

	rounded := d.Round(10)
	f, _ := rounded.Float64()
	return f, true
}

// stripLocaleSeparators removes the grouping separator and rewrites the
// decimal separator to '.', based on which of ',' and '.' appears last.
func stripLocaleSeparators(s string) string {
	lastComma := strings.LastIndexByte(s, ',')
	lastDot := strings.LastIndexByte(s, '.')

	switch {
	case lastComma == -1 && lastDot == -1:
		return s
	case lastComma > lastDot:
		// ',' is the decimal separator; '.' (if any) is grouping.
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)
	default:
		// '.' is the decimal separator; ',' (if any) is grouping.
		return strings.ReplaceAll(s, ",", "")
	}
}
