package models

import (
	"time"

	"github.com/ethos-app/ethos-backend/internal/calendar"
)

// DayDoc is the per-(user, day) aggregate document at users/{uid}/days/{dayKey}.
// It is a derived cache over the day's entries.
type DayDoc struct {
	DayKey    string
	TimeZone  string
	Period    calendar.PeriodKeys
	Tracks    map[string]Aggregate
	UpdatedAt time.Time
}

// Aggregate returns the summary for one track, if any entries exist.
func (d DayDoc) Aggregate(trackID string) (Aggregate, bool) {
	a, ok := d.Tracks[trackID]
	return a, ok && a != nil
}

// Keys returns the stored period keys, filling any that older documents lack.
func (d DayDoc) Keys() calendar.PeriodKeys {
	k := d.Period
	if k.WeekKey == "" || k.MonthKey == "" || k.YearKey == "" {
		derived := calendar.Keys(d.DayKey)
		if k.WeekKey == "" {
			k.WeekKey = derived.WeekKey
		}
		if k.MonthKey == "" {
			k.MonthKey = derived.MonthKey
		}
		if k.YearKey == "" {
			k.YearKey = derived.YearKey
		}
	}
	return k
}

// InPeriod reports whether the day falls in the window's period.
func (d DayDoc) InPeriod(w calendar.Window, p calendar.Period) bool {
	if p == calendar.PeriodDay {
		return d.DayKey == w.DayKey
	}
	k := d.Keys()
	switch p {
	case calendar.PeriodWeek:
		return k.WeekKey == w.WeekKey
	case calendar.PeriodMonth:
		return k.MonthKey == w.MonthKey
	case calendar.PeriodYear:
		return k.YearKey == w.YearKey
	default:
		return false
	}
}
