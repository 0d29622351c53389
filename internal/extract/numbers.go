package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Number is a numeric value parsed out of prose or bullet text
type Number struct {
	Value float64 // Scaled value ($5B -> 5e9, 20% -> 20)
	Raw   string  // The text as matched, e.g. "$5B"
	Unit  string  // "%", "$", "€", "£", or ""
}

// The % alternative carries no trailing word boundary: % is a non-word
// character, so \b can never hold between it and the following space or
// end of text.
var numberPattern = regexp.MustCompile(
	`([$€£]?)(\d[\d,]*(?:\.\d+)?)\s*(%|(?:percent|trillion|billion|million|thousand|tn|bn|mn|[TtBbMmKk])\b|\b)`,
)

var scaleFactors = map[string]float64{
	"trillion": 1e12, "tn": 1e12, "t": 1e12,
	"billion": 1e9, "bn": 1e9, "b": 1e9,
	"million": 1e6, "mn": 1e6, "m": 1e6,
	"thousand": 1e3, "k": 1e3,
}

// Numbers extracts every numeric value from text, scaled by magnitude
// suffixes. Four-digit bare integers that look like years are skipped: they
// label quantities rather than measure them.
func Numbers(text string) []Number {
	matches := numberPattern.FindAllStringSubmatch(text, -1)
	var out []Number

	for _, m := range matches {
		currency, digits, suffix := m[1], m[2], strings.ToLower(m[3])

		val, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", ""), 64)
		if err != nil {
			continue
		}

		unit := currency
		switch suffix {
		case "":
			if currency == "" && isYearLike(digits, val) {
				continue
			}
		case "%", "percent":
			unit = "%"
		default:
			if factor, ok := scaleFactors[suffix]; ok {
				val *= factor
			}
		}

		out = append(out, Number{
			Value: val,
			Raw:   strings.TrimSpace(m[0]),
			Unit:  unit,
		})
	}

	return out
}

func isYearLike(digits string, val float64) bool {
	return len(digits) == 4 && !strings.Contains(digits, ",") && val >= 1900 && val <= 2100
}

// WithinTolerance reports whether two values agree within the given relative
// tolerance. Exact match is required when the reference value is zero.
func WithinTolerance(a, b, tolerance float64) bool {
	if a == b {
		return true
	}
	ref := a
	if ref < 0 {
		ref = -ref
	}
	if b < 0 && -b > ref {
		ref = -b
	} else if b > ref {
		ref = b
	}
	if ref == 0 {
		return false
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff/ref <= tolerance
}
