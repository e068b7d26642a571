package query

import (
	"regexp"
	"strconv"
	"time"
)

// datePattern pairs a pattern with its handler. The grammar is an ordered
// list so priority between overlapping forms stays explicit.
type datePattern struct {
	re    *regexp.Regexp
	build func(m []string) (DateRange, bool)
}

// dateGrammar is tried in order; the first match wins. Only ISO-ordered
// forms are accepted, so ambiguous day/month orderings never parse.
var dateGrammar = []datePattern{
	{
		// YYYY-YYYY: inclusive year range.
		re: regexp.MustCompile(`^(\d{4})-(\d{4})$`),
		build: func(m []string) (DateRange, bool) {
			start := yearStart(atoi(m[1]))
			end := yearEnd(atoi(m[2]))
			return DateRange{Start: &start, End: &end}, true
		},
	},
	{
		// YYYY-MM..YYYY-MM: first of start month to last day of end month.
		re: regexp.MustCompile(`^(\d{4})-(\d{2})\.\.(\d{4})-(\d{2})$`),
		build: func(m []string) (DateRange, bool) {
			sm, em := atoi(m[2]), atoi(m[4])
			if !validMonth(sm) || !validMonth(em) {
				return DateRange{}, false
			}
			start := monthStart(atoi(m[1]), sm)
			end := monthEnd(atoi(m[3]), em)
			return DateRange{Start: &start, End: &end}, true
		},
	},
	{
		// YYYY: single year.
		re: regexp.MustCompile(`^(\d{4})$`),
		build: func(m []string) (DateRange, bool) {
			start := yearStart(atoi(m[1]))
			end := yearEnd(atoi(m[1]))
			return DateRange{Start: &start, End: &end}, true
		},
	},
	{
		// YYYY-MM-DD: single calendar day.
		re: regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`),
		build: func(m []string) (DateRange, bool) {
			y, mo, d := atoi(m[1]), atoi(m[2]), atoi(m[3])
			day := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
			// time.Date normalizes overflow (2024-02-31 becomes March),
			// which means the input was not a real calendar day.
			if day.Year() != y || day.Month() != time.Month(mo) || day.Day() != d {
				return DateRange{}, false
			}
			start, end := dayBounds(day)
			return DateRange{Start: &start, End: &end}, true
		},
	},
}

// ParseDateValue parses a date filter value. A relative keyword is stored
// unresolved; absolute forms resolve immediately. Unrecognized input
// yields a zero range: the filter degrades to "no constraint".
//
// Reversed ranges like 2025-2022 still parse; the validator reports them
// rather than the parser silently dropping them.
func ParseDateValue(value string) DateRange {
	if r := Relative(value); r.IsValid() {
		return DateRange{Relative: r}
	}
	for _, p := range dateGrammar {
		if m := p.re.FindStringSubmatch(value); m != nil {
			if d, ok := p.build(m); ok {
				return d
			}
			return DateRange{}
		}
	}
	return DateRange{}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func validMonth(m int) bool { return m >= 1 && m <= 12 }

func yearStart(y int) time.Time {
	return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func yearEnd(y int) time.Time {
	return time.Date(y, time.December, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

func monthStart(y, m int) time.Time {
	return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
}

func monthEnd(y, m int) time.Time {
	// Day 0 of the next month is the last day of this month.
	last := time.Date(y, time.Month(m)+1, 0, 0, 0, 0, 0, time.UTC)
	_, end := dayBounds(last)
	return end
}
