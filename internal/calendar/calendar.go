// Package calendar derives civil day keys and their ISO week, month and year
// period keys. Day keys are "YYYY-MM-DD" strings in a user's time zone; once
// derived they are time-zone-naive and all further arithmetic is done on
// UTC midnights.
package calendar

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethos-app/ethos-backend/internal/errs"
)

const dayLayout = "2006-01-02"

// Period names a rollup window.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	default:
		return false
	}
}

// PeriodKeys are the precomputed rollup keys stored on each day document.
type PeriodKeys struct {
	WeekKey  string `firestore:"weekKey" json:"weekKey"`
	MonthKey string `firestore:"monthKey" json:"monthKey"`
	YearKey  string `firestore:"yearKey,omitempty" json:"yearKey,omitempty"`
}

// Window pins "now" for a user: the current day key and the period keys it
// falls in.
type Window struct {
	DayKey string `json:"dayKey"`
	PeriodKeys
}

// Key returns the window's key for the given period.
func (w Window) Key(p Period) string {
	switch p {
	case PeriodWeek:
		return w.WeekKey
	case PeriodMonth:
		return w.MonthKey
	case PeriodYear:
		return w.YearKey
	default:
		return w.DayKey
	}
}

var locations sync.Map // tz name -> *time.Location

// LoadLocation resolves an IANA zone name. Empty and "Local" are rejected so
// a day key never silently depends on the server's zone.
func LoadLocation(tz string) (*time.Location, error) {
	if cached, ok := locations.Load(tz); ok {
		return cached.(*time.Location), nil
	}
	if strings.TrimSpace(tz) == "" || tz == "Local" {
		return nil, errs.NewInvalidTimezoneError(tz)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errs.NewInvalidTimezoneError(tz)
	}
	locations.Store(tz, loc)
	return loc, nil
}

// DayKey returns the calendar date of t as observed in tz.
func DayKey(t time.Time, tz string) (string, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return "", err
	}
	return t.In(loc).Format(dayLayout), nil
}

// Parse converts a day key to its UTC midnight.
func Parse(dayKey string) (time.Time, error) {
	if len(dayKey) != len(dayLayout) {
		return time.Time{}, fmt.Errorf("calendar: malformed day key %q", dayKey)
	}
	t, err := time.Parse(dayLayout, dayKey)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: malformed day key %q: %w", dayKey, err)
	}
	return t, nil
}

// Valid reports whether s is a well-formed day key. Request input must pass
// this before reaching the key functions below, which panic on bad input.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func mustParse(dayKey string) time.Time {
	t, err := Parse(dayKey)
	if err != nil {
		panic(err)
	}
	return t
}

// WeekKey returns the ISO-8601 week key "YYYY-Www" for a day key.
func WeekKey(dayKey string) string {
	year, week := mustParse(dayKey).ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// MonthKey returns "YYYY-MM".
func MonthKey(dayKey string) string {
	mustParse(dayKey)
	return dayKey[:7]
}

// YearKey returns the calendar year "YYYY". Yearly rollups use calendar years,
// not ISO week-years.
func YearKey(dayKey string) string {
	mustParse(dayKey)
	return dayKey[:4]
}

// Shift adds deltaDays whole days, rolling over months and years.
func Shift(dayKey string, deltaDays int) string {
	return mustParse(dayKey).AddDate(0, 0, deltaDays).Format(dayLayout)
}

// Keys derives the period keys for a day key.
func Keys(dayKey string) PeriodKeys {
	return PeriodKeys{
		WeekKey:  WeekKey(dayKey),
		MonthKey: MonthKey(dayKey),
		YearKey:  YearKey(dayKey),
	}
}

// WindowForDay builds the window containing dayKey.
func WindowForDay(dayKey string) Window {
	return Window{DayKey: dayKey, PeriodKeys: Keys(dayKey)}
}

// WindowFor builds the window for instant t in tz.
func WindowFor(t time.Time, tz string) (Window, error) {
	day, err := DayKey(t, tz)
	if err != nil {
		return Window{}, err
	}
	return WindowForDay(day), nil
}

// PeriodStart returns the first day key of the period containing dayKey:
// the ISO Monday for weeks, the 1st for months, January 1st for years.
func PeriodStart(dayKey string, p Period) string {
	t := mustParse(dayKey)
	switch p {
	case PeriodWeek:
		offset := (int(t.Weekday()) + 6) % 7 // Mon=0..Sun=6
		return t.AddDate(0, 0, -offset).Format(dayLayout)
	case PeriodMonth:
		return dayKey[:7] + "-01"
	case PeriodYear:
		return dayKey[:4] + "-01-01"
	default:
		return dayKey
	}
}

// DaysBetween returns the whole days from a to b (negative when b is earlier).
func DaysBetween(a, b string) int {
	return int(mustParse(b).Sub(mustParse(a)).Hours() / 24)
}
