package parser

import (
	"strings"
	"unicode"
)

// Normalize strips leading OCR noise from a candidate line and repairs
// common numeric corruptions. It never fails.
//
//	"; 09-Aug-2023 Penal Int 58.35 -1,810,963.63" → "09-Aug-2023 Penal Int 58.35 -1,810,963.63"
//	"... 82,104 00"                               → "... 82,104.00"
//	"... -1,865,288.7O"                           → "... -1,865,288.70"
func Normalize(line string) string {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return line
	}

	// Stray symbols like "=", ";" or ":" ahead of the date.
	if !startsWithDigit(parts[0]) && len(parts) > 1 {
		line = strings.Join(parts[1:], " ")
	}

	// OCR splits "1234.00" into "1234 00".
	line = strings.ReplaceAll(line, " 00", ".00")

	return repairDecimalTail(line)
}

// repairDecimalTail replaces non-digits in the fractional part of the final
// token with zeros ("1,234.O0" → "1,234.00").
func repairDecimalTail(line string) string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return line
	}
	last := words[len(words)-1]
	intPart, frac, ok := strings.Cut(last, ".")
	if !ok || strings.Contains(frac, ".") || allDigits(frac) {
		return line
	}

	var b strings.Builder
	for _, r := range frac {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('0')
		}
	}
	words[len(words)-1] = intPart + "." + b.String()
	return strings.Join(words, " ")
}

func startsWithDigit(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}

// allDigits reports whether s has no non-digit characters. The empty string
// counts as all digits.
func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
