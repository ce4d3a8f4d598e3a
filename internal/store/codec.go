package store

import (
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"

	"github.com/ethos-app/ethos-backend/internal/aggregate"
	"github.com/ethos-app/ethos-backend/internal/calendar"
	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/models"
)

// Sums are written twice: "sum" as a double for readers of the raw document
// and "sumMicros" as an integer, incremented exactly, which wins on decode.
// Callers keep sums within aggregate.FitsSum.
const sumScale = aggregate.SumScale

func sumMicros(d decimal.Decimal) int64 {
	return d.Shift(sumScale).Round(0).IntPart()
}

// checkSumHeadroom rejects an update that would push the stored running sum
// past what sumMicros can hold.
func checkSumHeadroom(u aggregate.Update, existing models.Aggregate) error {
	if !u.HasSum() {
		return nil
	}
	total := u.Sum
	if sameShape(existing, u) {
		switch x := existing.(type) {
		case *models.CounterAggregate:
			total = total.Add(x.Sum.Round(sumScale))
		case *models.BooleanCountAggregate:
			total = total.Add(x.Sum.Round(sumScale))
		}
	}
	if !aggregate.FitsSum(total) {
		return errs.NewInvalidEntryPayloadError(u.TrackID(), string(u.Type()), "day total is out of range")
	}
	return nil
}

// combine merges updates for the same track in one submission so the day
// document receives a single write per track.
func combine(a, b aggregate.Update) aggregate.Update {
	out := b
	out.Count = a.Count + b.Count
	out.Sum = a.Sum.Add(b.Sum)
	if out.Done == nil {
		out.Done = a.Done
	}
	if out.Value == nil {
		out.Value = a.Value
	}
	if out.Preview == nil {
		out.Preview = a.Preview
	}
	if out.LastValue == nil {
		out.LastValue = a.LastValue
	}
	return out
}

func sameShape(existing models.Aggregate, u aggregate.Update) bool {
	if existing == nil || existing.TrackType() != u.Type() {
		return false
	}
	if u.Type() == models.TrackBoolean {
		return models.ModeOf(existing) == u.Mode()
	}
	return true
}

// updateFields builds the merge for one track's aggregate. Counts and sums
// use server-side increments. When the stored aggregate has a different
// shape it is reset instead. Last-write-wins fields are left alone when the
// stored aggregate is newer than the update.
func updateFields(u aggregate.Update, existing models.Aggregate) map[string]interface{} {
	reset := existing != nil && !sameShape(existing, u)
	stale := !reset && existing != nil && existing.LastUpdated().After(u.At())

	f := map[string]interface{}{"type": string(u.Type())}
	if !stale {
		f["lastAt"] = u.At()
	}

	count := func() {
		if reset {
			f["count"] = u.Count
			return
		}
		f["count"] = firestore.Increment(u.Count)
	}
	sum := func() {
		if reset {
			f["sum"] = u.Sum.InexactFloat64()
			f["sumMicros"] = sumMicros(u.Sum)
			return
		}
		f["sum"] = firestore.Increment(u.Sum.InexactFloat64())
		f["sumMicros"] = firestore.Increment(sumMicros(u.Sum))
	}
	drop := func(fields ...string) {
		if !reset {
			return
		}
		for _, name := range fields {
			f[name] = firestore.Delete
		}
	}

	switch u.Type() {
	case models.TrackCounter:
		count()
		sum()
		drop("done", "value", "preview", "lastValue", "mode")
	case models.TrackBoolean:
		f["mode"] = string(u.Mode())
		if u.Mode() == models.BooleanCount {
			count()
			sum()
			drop("done", "value", "preview", "lastValue")
			break
		}
		if !stale && u.Done != nil {
			f["done"] = *u.Done
		}
		drop("count", "sum", "sumMicros", "value", "preview", "lastValue")
	case models.TrackNumber:
		if !stale && u.Value != nil {
			f["value"] = u.Value.InexactFloat64()
		}
		drop("count", "sum", "sumMicros", "done", "preview", "lastValue", "mode")
	case models.TrackText:
		count()
		if !stale && u.Preview != nil {
			f["preview"] = *u.Preview
		}
		drop("sum", "sumMicros", "done", "value", "lastValue", "mode")
	case models.TrackDropdown:
		count()
		if !stale && u.LastValue != nil {
			f["lastValue"] = u.LastValue
		}
		drop("sum", "sumMicros", "done", "value", "preview", "mode")
	}
	return f
}

// encodeAggregate is the full stored form of an aggregate, used when a day is
// rebuilt from its entries.
func encodeAggregate(a models.Aggregate) map[string]interface{} {
	f := map[string]interface{}{
		"type":   string(a.TrackType()),
		"lastAt": a.LastUpdated(),
	}
	switch x := a.(type) {
	case *models.CounterAggregate:
		f["count"] = x.Count
		f["sum"] = x.Sum.InexactFloat64()
		f["sumMicros"] = sumMicros(x.Sum)
	case *models.BooleanDoneAggregate:
		f["mode"] = string(models.BooleanDoneOnly)
		f["done"] = x.Done
	case *models.BooleanCountAggregate:
		f["mode"] = string(models.BooleanCount)
		f["count"] = x.Count
		f["sum"] = x.Sum.InexactFloat64()
		f["sumMicros"] = sumMicros(x.Sum)
	case *models.NumberAggregate:
		f["value"] = x.Value.InexactFloat64()
	case *models.TextAggregate:
		f["count"] = x.Count
		f["preview"] = x.Preview
	case *models.DropdownAggregate:
		f["count"] = x.Count
		f["lastValue"] = x.LastValue
	}
	return f
}

// decodeAggregate reads a stored per-track map. Boolean aggregates written
// without a mode are treated as count mode when they carry a count or sum.
func decodeAggregate(m map[string]interface{}) (models.Aggregate, bool) {
	typ, _ := m["type"].(string)
	lastAt, _ := m["lastAt"].(time.Time)

	switch models.TrackType(typ) {
	case models.TrackCounter:
		return &models.CounterAggregate{Count: toInt(m["count"]), Sum: toSum(m), LastAt: lastAt}, true
	case models.TrackBoolean:
		mode, _ := m["mode"].(string)
		_, hasSum := m["sum"]
		_, hasCount := m["count"]
		if models.BooleanMode(mode) == models.BooleanCount || (mode == "" && (hasSum || hasCount)) {
			count := toInt(m["count"])
			s := toSum(m)
			if !hasSum {
				s = decimal.NewFromInt(count)
			}
			return &models.BooleanCountAggregate{Count: count, Sum: s, LastAt: lastAt}, true
		}
		done, _ := m["done"].(bool)
		return &models.BooleanDoneAggregate{Done: done, LastAt: lastAt}, true
	case models.TrackNumber:
		return &models.NumberAggregate{Value: toDecimal(m["value"]), LastAt: lastAt}, true
	case models.TrackText:
		preview, _ := m["preview"].(string)
		return &models.TextAggregate{Count: toInt(m["count"]), Preview: preview, LastAt: lastAt}, true
	case models.TrackDropdown:
		var last []string
		if raw, ok := m["lastValue"].([]interface{}); ok {
			for _, v := range raw {
				if s, ok := v.(string); ok {
					last = append(last, s)
				}
			}
		}
		return &models.DropdownAggregate{Count: toInt(m["count"]), LastValue: last, LastAt: lastAt}, true
	}
	return nil, false
}

func decodeDay(id string, data map[string]interface{}) models.DayDoc {
	d := models.DayDoc{DayKey: id, Tracks: map[string]models.Aggregate{}}
	if s, ok := data["dayKey"].(string); ok && s != "" {
		d.DayKey = s
	}
	d.TimeZone, _ = data["timeZone"].(string)
	d.UpdatedAt, _ = data["updatedAt"].(time.Time)
	if p, ok := data["period"].(map[string]interface{}); ok {
		d.Period.WeekKey, _ = p["weekKey"].(string)
		d.Period.MonthKey, _ = p["monthKey"].(string)
		d.Period.YearKey, _ = p["yearKey"].(string)
	}
	if tracks, ok := data["tracks"].(map[string]interface{}); ok {
		for id, raw := range tracks {
			m, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			if a, ok := decodeAggregate(m); ok {
				d.Tracks[id] = a
			}
		}
	}
	return d
}

func dayBase(w calendar.Window, tz string) map[string]interface{} {
	return map[string]interface{}{
		"dayKey":   w.DayKey,
		"timeZone": tz,
		"period": map[string]interface{}{
			"weekKey":  w.WeekKey,
			"monthKey": w.MonthKey,
			"yearKey":  w.YearKey,
		},
		"updatedAt": firestore.ServerTimestamp,
	}
}

func toInt(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

func toDecimal(v interface{}) decimal.Decimal {
	switch n := v.(type) {
	case int64:
		return decimal.NewFromInt(n)
	case float64:
		return decimal.NewFromFloat(n)
	}
	return decimal.Zero
}

func toSum(m map[string]interface{}) decimal.Decimal {
	if micros, ok := m["sumMicros"].(int64); ok {
		return decimal.New(micros, -sumScale)
	}
	return toDecimal(m["sum"])
}
