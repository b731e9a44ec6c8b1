package core

// convert.go provides the cell-level conversions used during import and
// rendering:
//   - NA token recognition
//   - Boolean and date/time recognition for text columns
//   - Number formatting for display
//
// Integer and float detection is left to gota's type inference.

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// NATokens are the cell values treated as null in addition to empty cells.
var NATokens = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "<nil>", "#N/A"}

var naTokenSet = func() map[string]bool {
	m := make(map[string]bool, len(NATokens))
	for _, tok := range NATokens {
		m[tok] = true
	}
	return m
}()

// IsNAToken reports whether a trimmed cell value counts as null.
func IsNAToken(s string) bool {
	return naTokenSet[s]
}

// dateTimeLayouts lists the accepted date and date-time layouts, ISO first.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"01-02-2006",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
}

// ParseDateTime parses s with the first matching layout.
func ParseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseBool accepts true/false in any letter case.
func ParseBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// FormatFloat renders a float with the shortest exact representation.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatStat renders a summary statistic with at most 4 decimals.
func FormatStat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return FormatFloat(v)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatPercent renders a ratio in [0,1] as a percentage with one decimal.
func FormatPercent(ratio float64) string {
	return strconv.FormatFloat(ratio*100, 'f', 1, 64) + "%"
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// cleanCell trims surrounding whitespace and collapses NA tokens to "".
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if IsNAToken(s) {
		return ""
	}
	return s
}
