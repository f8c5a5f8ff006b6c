package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// DD-Mon-YYYY at the very start of a normalized line (e.g. 09-Apr-2023).
var datePattern = regexp.MustCompile(`^\d{2}-[A-Za-z]{3}-\d{4}`)

// StartsWithDate reports whether line begins with a DD-Mon-YYYY token.
func StartsWithDate(line string) bool {
	return datePattern.MatchString(line)
}

// extractDate returns the leading DD-Mon-YYYY token, or "".
func extractDate(line string) string {
	return datePattern.FindString(line)
}

// parseDecimal converts a cleaned numeric string ("-1332896.00") to a decimal.
// The empty string is zero.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// cleanBalance drops thousands separators and OCR-inserted spaces, then
// guarantees a decimal point ("-1,332 896" → "-1332896.00").
func cleanBalance(raw string) string {
	s := stripSeparators(raw)
	if s != "" && !strings.Contains(s, ".") {
		s += ".00"
	}
	return s
}

// cleanAmount drops thousands separators ("2,000,000.00" → "2000000.00").
func cleanAmount(raw string) string {
	return stripSeparators(raw)
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// cleanDescription keeps ASCII letters and whitespace, collapsing runs of
// whitespace to single spaces.
func cleanDescription(s string) string {
	kept := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	return strings.Join(strings.Fields(kept), " ")
}
