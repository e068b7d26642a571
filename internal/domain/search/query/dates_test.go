package query

import (
	"testing"
	"time"
)

func TestParseDateValue_Year(t *testing.T) {
	r := ParseDateValue("2024")
	if r.Start == nil || r.End == nil {
		t.Fatal("expected absolute bounds")
	}
	wantStart := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !r.Start.Equal(wantStart) {
		t.Errorf("Start = %v", r.Start)
	}
	if r.End.Year() != 2024 || r.End.Month() != time.December || r.End.Day() != 31 {
		t.Errorf("End = %v", r.End)
	}
}

func TestParseDateValue_YearRange(t *testing.T) {
	r := ParseDateValue("2020-2022")
	if r.Start == nil || r.End == nil {
		t.Fatal("expected absolute bounds")
	}
	if r.Start.Year() != 2020 || r.End.Year() != 2022 {
		t.Errorf("bounds = %v .. %v", r.Start, r.End)
	}
}

func TestParseDateValue_ReversedYearRangeStillParses(t *testing.T) {
	// The validator reports reversed ranges; the parser keeps them.
	r := ParseDateValue("2025-2022")
	if r.Start == nil || r.End == nil {
		t.Fatal("expected bounds")
	}
	if !r.Start.After(*r.End) {
		t.Error("expected reversed bounds to survive parsing")
	}
}

func TestParseDateValue_Day(t *testing.T) {
	r := ParseDateValue("2024-03-12")
	if r.Start == nil || r.End == nil {
		t.Fatal("expected bounds")
	}
	if r.Start.Day() != 12 || r.End.Day() != 12 {
		t.Errorf("bounds = %v .. %v", r.Start, r.End)
	}
	if r.End.Hour() != 23 || r.End.Minute() != 59 {
		t.Errorf("End = %v, want end of day", r.End)
	}
}

func TestParseDateValue_ImpossibleDay(t *testing.T) {
	if r := ParseDateValue("2024-02-31"); !r.IsZero() {
		t.Errorf("got %+v, want zero range", r)
	}
}

func TestParseDateValue_MonthRange(t *testing.T) {
	r := ParseDateValue("2024-01..2024-03")
	if r.Start == nil || r.End == nil {
		t.Fatal("expected bounds")
	}
	if r.Start.Month() != time.January || r.Start.Day() != 1 {
		t.Errorf("Start = %v", r.Start)
	}
	if r.End.Month() != time.March || r.End.Day() != 31 {
		t.Errorf("End = %v", r.End)
	}
}

func TestParseDateValue_MonthRangeInvalidMonth(t *testing.T) {
	if r := ParseDateValue("2024-13..2024-14"); !r.IsZero() {
		t.Errorf("got %+v, want zero range", r)
	}
}

func TestParseDateValue_RelativeKeywords(t *testing.T) {
	for _, kw := range []string{"today", "yesterday", "last-week", "last-month", "last-year"} {
		r := ParseDateValue(kw)
		if r.Relative != Relative(kw) {
			t.Errorf("ParseDateValue(%q).Relative = %q", kw, r.Relative)
		}
		if r.Start != nil || r.End != nil {
			t.Errorf("ParseDateValue(%q) resolved at parse time", kw)
		}
	}
}

func TestParseDateValue_Garbage(t *testing.T) {
	for _, v := range []string{"", "banana", "20241", "03-2024", "2024/03/12"} {
		if r := ParseDateValue(v); !r.IsZero() {
			t.Errorf("ParseDateValue(%q) = %+v, want zero", v, r)
		}
	}
}

func TestDateRangeResolve_Absolute(t *testing.T) {
	s := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	e := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	r := DateRange{Start: &s, End: &e}

	start, end := r.Resolve(time.Now())
	if start != &s || end != &e {
		t.Error("absolute bounds must pass through unchanged")
	}
}

func TestDateRangeResolve_Today(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	start, end := DateRange{Relative: Today}.Resolve(now)
	if start == nil || end == nil {
		t.Fatal("expected bounds")
	}
	if start.Day() != 15 || start.Hour() != 0 {
		t.Errorf("start = %v", start)
	}
	if end.Day() != 15 || end.Hour() != 23 {
		t.Errorf("end = %v", end)
	}
}

func TestDateRangeResolve_Yesterday(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	start, end := DateRange{Relative: Yesterday}.Resolve(now)
	if start == nil || end == nil {
		t.Fatal("expected bounds")
	}
	if start.Month() != time.May || start.Day() != 31 {
		t.Errorf("start = %v", start)
	}
	if end.Day() != 31 {
		t.Errorf("end = %v", end)
	}
}

func TestDateRangeResolve_Windows(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		rel       Relative
		wantStart time.Time
	}{
		{LastWeek, now.AddDate(0, 0, -7)},
		{LastMonth, now.AddDate(0, -1, 0)},
		{LastYear, now.AddDate(-1, 0, 0)},
	}
	for _, tc := range tests {
		start, end := DateRange{Relative: tc.rel}.Resolve(now)
		if start == nil || !start.Equal(tc.wantStart) {
			t.Errorf("%s: start = %v, want %v", tc.rel, start, tc.wantStart)
		}
		if end == nil || !end.Equal(now) {
			t.Errorf("%s: end = %v, want now", tc.rel, end)
		}
	}
}

func TestDateRangeResolve_SameInputSameOutput(t *testing.T) {
	// Resolution is a pure function of the range and the instant.
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	r := DateRange{Relative: LastWeek}
	s1, e1 := r.Resolve(now)
	s2, e2 := r.Resolve(now)
	if !s1.Equal(*s2) || !e1.Equal(*e2) {
		t.Error("repeated resolution against the same instant diverged")
	}
}
