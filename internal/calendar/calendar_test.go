package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/ethos-app/ethos-backend/internal/errs"
)

func TestDayKeyUsesZoneCalendar(t *testing.T) {
	instant := time.Date(2025, time.January, 14, 20, 0, 0, 0, time.UTC)

	cases := []struct {
		tz   string
		want string
	}{
		{"UTC", "2025-01-14"},
		{"Asia/Kolkata", "2025-01-15"},
		{"America/Los_Angeles", "2025-01-14"},
		{"Pacific/Kiritimati", "2025-01-15"},
	}
	for _, tc := range cases {
		got, err := DayKey(instant, tc.tz)
		if err != nil {
			t.Fatalf("DayKey(%s) error: %v", tc.tz, err)
		}
		if got != tc.want {
			t.Errorf("DayKey(%s) = %s, want %s", tc.tz, got, tc.want)
		}
	}
}

func TestDayKeyAcrossDSTTransitions(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 2024-03-10 has 23 hours in New York; 2024-11-03 has 25.
	for _, day := range []string{"2024-03-10", "2024-11-03"} {
		start, _ := time.ParseInLocation(dayLayout, day, ny)
		next := start.AddDate(0, 0, 1)
		last := next.Add(-time.Minute)

		for _, instant := range []time.Time{start, start.Add(2*time.Hour + 30*time.Minute), last} {
			got, err := DayKey(instant, "America/New_York")
			if err != nil {
				t.Fatalf("DayKey error: %v", err)
			}
			if got != day {
				t.Errorf("DayKey(%s) = %s, want %s", instant, got, day)
			}
		}
		if got, _ := DayKey(next, "America/New_York"); got != Shift(day, 1) {
			t.Errorf("next midnight = %s, want %s", got, Shift(day, 1))
		}
	}
}

func TestDayKeyInvalidTimezone(t *testing.T) {
	for _, tz := range []string{"Mars/Olympus_Mons", "", "Local"} {
		_, err := DayKey(time.Now(), tz)
		var tzErr *errs.InvalidTimezoneError
		if !errors.As(err, &tzErr) {
			t.Fatalf("DayKey(%q) error = %v, want InvalidTimezoneError", tz, err)
		}
		if tzErr.TimeZone != tz {
			t.Errorf("TimeZone = %q, want %q", tzErr.TimeZone, tz)
		}
	}
}

func TestWeekKeyISOBoundaries(t *testing.T) {
	cases := map[string]string{
		"2023-01-01": "2022-W52", // Sunday, belongs to the previous ISO year
		"2023-01-02": "2023-W01",
		"2024-12-29": "2024-W52",
		"2024-12-30": "2025-W01", // Monday of the week holding 2025's first Thursday
		"2025-01-01": "2025-W01",
		"2020-12-31": "2020-W53",
		"2021-01-03": "2020-W53",
		"2026-10-15": "2026-W42",
	}
	for day, want := range cases {
		if got := WeekKey(day); got != want {
			t.Errorf("WeekKey(%s) = %s, want %s", day, got, want)
		}
	}
}

func TestMonthAndYearKey(t *testing.T) {
	if got := MonthKey("2024-02-29"); got != "2024-02" {
		t.Errorf("MonthKey = %s", got)
	}
	if got := YearKey("2024-12-30"); got != "2024" {
		t.Errorf("YearKey = %s, want calendar year 2024", got)
	}
}

func TestShift(t *testing.T) {
	cases := []struct {
		day   string
		delta int
		want  string
	}{
		{"2024-02-28", 1, "2024-02-29"},
		{"2023-02-28", 1, "2023-03-01"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2025-01-01", -1, "2024-12-31"},
		{"2025-03-15", -45, "2025-01-29"},
		{"2025-03-15", 0, "2025-03-15"},
	}
	for _, tc := range cases {
		if got := Shift(tc.day, tc.delta); got != tc.want {
			t.Errorf("Shift(%s, %d) = %s, want %s", tc.day, tc.delta, got, tc.want)
		}
	}
}

func TestPeriodStart(t *testing.T) {
	cases := []struct {
		day    string
		period Period
		want   string
	}{
		{"2025-01-01", PeriodWeek, "2024-12-30"},
		{"2025-01-05", PeriodWeek, "2024-12-30"},
		{"2025-01-06", PeriodWeek, "2025-01-06"},
		{"2025-02-17", PeriodMonth, "2025-02-01"},
		{"2025-02-17", PeriodYear, "2025-01-01"},
		{"2025-02-17", PeriodDay, "2025-02-17"},
	}
	for _, tc := range cases {
		if got := PeriodStart(tc.day, tc.period); got != tc.want {
			t.Errorf("PeriodStart(%s, %s) = %s, want %s", tc.day, tc.period, got, tc.want)
		}
	}
}

func TestWindowFor(t *testing.T) {
	w, err := WindowFor(time.Date(2024, time.December, 30, 12, 0, 0, 0, time.UTC), "UTC")
	if err != nil {
		t.Fatalf("WindowFor error: %v", err)
	}
	want := Window{DayKey: "2024-12-30", PeriodKeys: PeriodKeys{WeekKey: "2025-W01", MonthKey: "2024-12", YearKey: "2024"}}
	if w != want {
		t.Fatalf("WindowFor = %+v, want %+v", w, want)
	}
	if w.Key(PeriodWeek) != "2025-W01" || w.Key(PeriodDay) != "2024-12-30" || w.Key(PeriodYear) != "2024" {
		t.Fatalf("unexpected Key() results for %+v", w)
	}
}

func TestMalformedDayKeyPanics(t *testing.T) {
	for _, bad := range []string{"2024-1-01", "2024-13-01", "20240101", "", "2024-02-30"} {
		if Valid(bad) {
			t.Errorf("Valid(%q) = true", bad)
		}
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("WeekKey(%q) did not panic", bad)
				}
			}()
			WeekKey(bad)
		}()
	}
}

func TestDaysBetween(t *testing.T) {
	if got := DaysBetween("2024-12-30", "2025-01-02"); got != 3 {
		t.Errorf("DaysBetween = %d, want 3", got)
	}
	if got := DaysBetween("2025-01-02", "2024-12-30"); got != -3 {
		t.Errorf("DaysBetween = %d, want -3", got)
	}
}
