// Package rollup folds day aggregates into a value for a week, month or year.
package rollup

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ethos-app/ethos-backend/internal/calendar"
	"github.com/ethos-app/ethos-backend/internal/models"
)

// PeriodValue is one track's folded aggregate over a period. Aggregate is nil
// when no day in the period had entries for the track.
type PeriodValue struct {
	TrackID   string
	Period    calendar.Period
	Key       string
	Aggregate models.Aggregate
	// ActiveDays counts days in the period with an aggregate for the track.
	ActiveDays int
	// Occurrences counts entries, or done days for done-only booleans.
	Occurrences int64
}

// PeriodForCadence maps a track cadence onto a calendar period.
func PeriodForCadence(c models.Cadence) calendar.Period {
	switch c {
	case models.CadenceWeekly:
		return calendar.PeriodWeek
	case models.CadenceMonthly:
		return calendar.PeriodMonth
	case models.CadenceYearly:
		return calendar.PeriodYear
	default:
		return calendar.PeriodDay
	}
}

// Rollup folds the track's aggregates from the days inside w's period.
// Days outside the period and days without the track contribute nothing.
// The fold shape follows the track's current type and boolean mode.
func Rollup(track models.Track, days []models.DayDoc, w calendar.Window, p calendar.Period) PeriodValue {
	pv := PeriodValue{TrackID: track.TrackID, Period: p, Key: w.Key(p)}

	inPeriod := make([]models.DayDoc, 0, len(days))
	for _, d := range days {
		if d.InPeriod(w, p) {
			inPeriod = append(inPeriod, d)
		}
	}
	// Oldest first, so later days overwrite last-value fields.
	slices.SortFunc(inPeriod, func(a, b models.DayDoc) int {
		switch {
		case a.DayKey < b.DayKey:
			return -1
		case a.DayKey > b.DayKey:
			return 1
		}
		return 0
	})

	f := newFolder(track)
	for _, d := range inPeriod {
		a, ok := d.Aggregate(track.TrackID)
		if !ok {
			continue
		}
		if f.add(a) {
			pv.ActiveDays++
		}
	}
	pv.Aggregate, pv.Occurrences = f.result()
	return pv
}

// Score is the number a period is ranked and measured by: the sum for
// counters, 1 or 0 for done-only booleans, the latest value for numbers and
// the entry count for text and dropdown tracks. Empty periods score zero.
func (v PeriodValue) Score() decimal.Decimal {
	switch a := v.Aggregate.(type) {
	case *models.CounterAggregate:
		return a.Sum
	case *models.BooleanDoneAggregate:
		if a.Done {
			return decimal.NewFromInt(1)
		}
	case *models.BooleanCountAggregate:
		return a.Sum
	case *models.NumberAggregate:
		return a.Value
	case *models.TextAggregate:
		return decimal.NewFromInt(a.Count)
	case *models.DropdownAggregate:
		return decimal.NewFromInt(a.Count)
	}
	return decimal.Zero
}

// Progress measures the period against a target. A count target compares
// Occurrences, a value target compares Score. Percent is capped at 100.
func (v PeriodValue) Progress(target *models.Target) (percent float64, met bool) {
	if target == nil {
		return 0, false
	}
	actual := v.Score()
	if target.Mode == models.TargetCount {
		actual = decimal.NewFromInt(v.Occurrences)
	}
	goal := decimal.NewFromFloat(target.Value)
	if !goal.IsPositive() {
		return 100, true
	}
	met = actual.GreaterThanOrEqual(goal)
	percent = actual.Div(goal).Mul(decimal.NewFromInt(100)).InexactFloat64()
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	return percent, met
}

type folder struct {
	typ   models.TrackType
	mode  models.BooleanMode
	count int64
	sum   decimal.Decimal
	done  bool
	value decimal.Decimal
	text  string
	last  []string
	occ   int64
	at    time.Time
	seen  bool
}

func newFolder(track models.Track) *folder {
	f := &folder{typ: track.Type}
	if track.Type == models.TrackBoolean {
		f.mode = track.Config.Mode()
	}
	return f
}

// add merges one day's aggregate and reports whether it contributed.
func (f *folder) add(a models.Aggregate) bool {
	if a.TrackType() != f.typ {
		return false
	}
	switch x := a.(type) {
	case *models.CounterAggregate:
		f.count += x.Count
		f.sum = f.sum.Add(x.Sum)
		f.occ += x.Count
	case *models.BooleanDoneAggregate:
		if f.mode == models.BooleanCount {
			if !x.Done {
				return false
			}
			f.count++
			f.sum = f.sum.Add(decimal.NewFromInt(1))
			f.occ++
			break
		}
		if x.Done {
			f.done = true
			f.occ++
		}
	case *models.BooleanCountAggregate:
		if f.mode == models.BooleanDoneOnly {
			if x.Count > 0 {
				f.done = true
				f.occ++
			}
			break
		}
		f.count += x.Count
		f.sum = f.sum.Add(x.Sum)
		f.occ += x.Count
	case *models.NumberAggregate:
		f.value = x.Value
		f.occ++
	case *models.TextAggregate:
		f.count += x.Count
		f.text = x.Preview
		f.occ += x.Count
	case *models.DropdownAggregate:
		f.count += x.Count
		f.last = slices.Clone(x.LastValue)
		f.occ += x.Count
	default:
		return false
	}
	if x := a.LastUpdated(); x.After(f.at) {
		f.at = x
	}
	f.seen = true
	return true
}

func (f *folder) result() (models.Aggregate, int64) {
	if !f.seen {
		return nil, 0
	}
	switch f.typ {
	case models.TrackCounter:
		return &models.CounterAggregate{Count: f.count, Sum: f.sum, LastAt: f.at}, f.occ
	case models.TrackBoolean:
		if f.mode == models.BooleanCount {
			return &models.BooleanCountAggregate{Count: f.count, Sum: f.sum, LastAt: f.at}, f.occ
		}
		return &models.BooleanDoneAggregate{Done: f.done, LastAt: f.at}, f.occ
	case models.TrackNumber:
		return &models.NumberAggregate{Value: f.value, LastAt: f.at}, f.occ
	case models.TrackText:
		return &models.TextAggregate{Count: f.count, Preview: f.text, LastAt: f.at}, f.occ
	case models.TrackDropdown:
		return &models.DropdownAggregate{Count: f.count, LastValue: f.last, LastAt: f.at}, f.occ
	}
	return nil, 0
}
