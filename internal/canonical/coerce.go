package canonical

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Layouts are tried in order. Unambiguous year-first forms come first, then
// day-first numeric forms; month-first forms are a fallback for values that
// cannot be a day-first date (e.g. 03/25/2024).
var (
	isoLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"2006-1-2",
		"2006/01/02 15:04:05",
		"2006/01/02 15:04",
		"2006/01/02",
		"2006/1/2",
		"20060102",
	}
	dayFirstLayouts = []string{
		"2/1/2006",
		"2/1/2006 15:04",
		"2/1/2006 15:04:05",
		"2/1/2006 3:04 PM",
		"2/1/2006 3:04:05 PM",
		"2-1-2006",
		"2-1-2006 15:04",
		"2-1-2006 15:04:05",
		"2.1.2006",
		"2.1.2006 15:04",
		"2.1.2006 15:04:05",
		"2/1/06",
		"2-1-06",
		"2.1.06",
		"2 Jan 2006",
		"2 Jan 2006 15:04",
		"2 Jan 2006 15:04:05",
		"2-Jan-2006",
		"2-Jan-06",
		"2 January 2006",
		"2 January 2006 15:04",
		"Jan 2, 2006",
		"January 2, 2006",
		"Jan 2 2006",
		"January 2 2006",
		time.RFC1123,
		time.RFC1123Z,
	}
	monthFirstLayouts = []string{
		"1/2/2006",
		"1/2/2006 15:04",
		"1/2/2006 15:04:05",
		"1/2/2006 3:04 PM",
		"1-2-2006",
		"1-2-2006 15:04:05",
		"1/2/06",
	}
)

// Excel serial day numbers count from 1899-12-30.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// parseDate reads a date with day-before-month disambiguation.
func parseDate(s string, excelSerial bool) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, group := range [][]string{isoLayouts, dayFirstLayouts, monthFirstLayouts} {
		for _, l := range group {
			if t, err := time.Parse(l, s); err == nil {
				return t, true
			}
		}
	}
	if excelSerial {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f < 2958466 {
			days := math.Floor(f)
			frac := f - days
			t := excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(math.Round(frac*86400)) * time.Second)
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumber reads a plain decimal number. NaN is treated as a failure so
// it ends up missing like any unparsable value.
func parseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" || strings.ContainsAny(raw, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// parseLocaleNumber reads numbers written with locale separators such as
// "1.234,5" or "1 234.5". A zero decimal separator is the counterpart of a
// '.' or ',' thousands separator, and is otherwise detected per value.
func parseLocaleNumber(s string, dec, thou rune) (float64, bool) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if dec == 0 {
		switch thou {
		case '.':
			dec = ','
		case ',':
			dec = '.'
		default:
			cpos := strings.LastIndex(raw, ",")
			dpos := strings.LastIndex(raw, ".")
			switch {
			case cpos >= 0 && dpos >= 0 && thou == 0:
				if cpos > dpos {
					dec, thou = ',', '.'
				} else {
					dec, thou = '.', ','
				}
			case cpos > dpos:
				dec = ','
			default:
				dec = '.'
			}
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	return parseNumber(raw)
}

// ParseDate is the order_date coercion applied to a single value.
func ParseDate(s string) (time.Time, bool) { return parseDate(s, false) }

// ParseNumber is the strict numeric coercion applied to a single value.
func ParseNumber(s string) (float64, bool) { return parseNumber(s) }
