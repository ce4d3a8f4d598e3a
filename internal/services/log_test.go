package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethos-app/ethos-backend/internal/aggregate"
	"github.com/ethos-app/ethos-backend/internal/calendar"
	"github.com/ethos-app/ethos-backend/internal/dto"
	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/pkg/helpers"
)

// fakeDayStore folds logged updates in memory the same way the Firestore
// transaction does.
type fakeDayStore struct {
	days     map[string]*models.DayDoc
	entries  map[string][]models.Entry
	logCalls int
	logErr   error
	daysErr  error
	lastFrom string
}

func newFakeDayStore() *fakeDayStore {
	return &fakeDayStore{days: map[string]*models.DayDoc{}, entries: map[string][]models.Entry{}}
}

func (f *fakeDayStore) LogEntries(_ context.Context, _ string, w calendar.Window, tz string, updates []aggregate.Update) ([]string, error) {
	f.logCalls++
	if f.logErr != nil {
		return nil, f.logErr
	}
	day, ok := f.days[w.DayKey]
	if !ok {
		day = &models.DayDoc{DayKey: w.DayKey, TimeZone: tz, Period: w.PeriodKeys, Tracks: map[string]models.Aggregate{}}
		f.days[w.DayKey] = day
	}
	ids := make([]string, 0, len(updates))
	for _, u := range updates {
		e := u.Entry
		e.EntryID = e.TrackID + "-" + e.CreatedAt.Format(time.RFC3339Nano)
		f.entries[w.DayKey] = append(f.entries[w.DayKey], e)
		day.Tracks[u.TrackID()] = u.Apply(day.Tracks[u.TrackID()])
		ids = append(ids, e.EntryID)
	}
	return ids, nil
}

func (f *fakeDayStore) GetDay(_ context.Context, _, dayKey string) (*models.DayDoc, error) {
	d, ok := f.days[dayKey]
	if !ok {
		return nil, errs.NewNotFoundError("day not found")
	}
	return d, nil
}

func (f *fakeDayStore) ListEntries(_ context.Context, _, dayKey, trackID string, limit int) ([]models.Entry, error) {
	var out []models.Entry
	for _, e := range f.entries[dayKey] {
		if trackID == "" || e.TrackID == trackID {
			out = append(out, e)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeDayStore) ReplaceDayTracks(_ context.Context, _ string, w calendar.Window, tz string, aggs map[string]models.Aggregate) error {
	f.days[w.DayKey] = &models.DayDoc{DayKey: w.DayKey, TimeZone: tz, Period: w.PeriodKeys, Tracks: aggs}
	return nil
}

func (f *fakeDayStore) ListDaysSince(_ context.Context, _, fromDay string, _ int) ([]models.DayDoc, error) {
	f.lastFrom = fromDay
	if f.daysErr != nil {
		return nil, f.daysErr
	}
	var out []models.DayDoc
	for k, d := range f.days {
		if k >= fromDay {
			out = append(out, *d)
		}
	}
	return out, nil
}

func logFixtures() (*fakeTrackStore, *stubUserStore) {
	tracks := newFakeTrackStore(
		models.Track{TrackID: "water", Name: "Water", Type: models.TrackCounter, Cadence: models.CadenceDaily, Unit: "ml", IsActive: true},
		models.Track{TrackID: "gym", Name: "Gym", Type: models.TrackBoolean, Cadence: models.CadenceWeekly, IsActive: true},
		models.Track{TrackID: "mood", Name: "Mood", Type: models.TrackDropdown, Cadence: models.CadenceDaily, IsActive: true,
			Config: models.TrackConfig{Options: []models.DropdownOption{{ID: "ok", Label: "OK"}}}},
	)
	users := newStubUserStore()
	users.addUser("u1", "Asha", "UTC")
	return tracks, users
}

func newTestLogService(days *fakeDayStore) *logService {
	tracks, users := logFixtures()
	svc := NewLogService(tracks, days, users, "UTC", 45, 200)
	svc.now = fixedNow
	return svc
}

func TestLogServiceLogEntries(t *testing.T) {
	days := newFakeDayStore()
	svc := newTestLogService(days)

	res, err := svc.LogEntries(helpers.TestCtx(), "u1", dto.LogEntriesRequest{Entries: []dto.EntryInput{
		{TrackID: "water", DeltaValue: helpers.Ptr(250.0)},
		{TrackID: "water", DeltaValue: helpers.Ptr(500.0)},
		{TrackID: "gym", Done: helpers.Ptr(true)},
		{TrackID: "mood"},
	}})
	if err != nil {
		t.Fatalf("LogEntries returned error: %v", err)
	}
	if !res.Saved || res.Status != dto.LogStatusSaved || res.DayKey != "2024-03-10" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.EntryIDs) != 3 {
		t.Fatalf("got %d entry ids, want 3", len(res.EntryIDs))
	}

	water, ok := days.days["2024-03-10"].Aggregate("water")
	if !ok {
		t.Fatal("water aggregate missing")
	}
	c := water.(*models.CounterAggregate)
	if c.Count != 2 || c.Sum.String() != "750" {
		t.Fatalf("water aggregate = count %d sum %s, want 2 / 750", c.Count, c.Sum)
	}

	entries := days.entries["2024-03-10"]
	if !entries[0].CreatedAt.Before(entries[1].CreatedAt) {
		t.Fatal("entries in one submission must have increasing timestamps")
	}
}

func TestLogServiceNothingToSave(t *testing.T) {
	days := newFakeDayStore()
	svc := newTestLogService(days)

	res, err := svc.LogEntries(helpers.TestCtx(), "u1", dto.LogEntriesRequest{Entries: []dto.EntryInput{{TrackID: "water"}}})
	if err != nil {
		t.Fatalf("LogEntries returned error: %v", err)
	}
	if res.Saved || res.Status != dto.LogStatusNothingToSave {
		t.Fatalf("unexpected result: %+v", res)
	}
	if days.logCalls != 0 {
		t.Fatal("store written for an empty submission")
	}
}

func TestLogServiceRejectsBeforeWriting(t *testing.T) {
	tests := []struct {
		name  string
		req   dto.LogEntriesRequest
		check func(error) bool
	}{
		{
			name: "invalid payload",
			req: dto.LogEntriesRequest{Entries: []dto.EntryInput{
				{TrackID: "water", DeltaValue: helpers.Ptr(100.0)},
				{TrackID: "mood", OptionID: helpers.Ptr("bad")},
			}},
			check: func(err error) bool { var e *errs.InvalidEntryPayloadError; return errors.As(err, &e) },
		},
		{
			name:  "unknown track",
			req:   dto.LogEntriesRequest{Entries: []dto.EntryInput{{TrackID: "ghost", DeltaValue: helpers.Ptr(1.0)}}},
			check: func(err error) bool { var e *errs.NotFoundError; return errors.As(err, &e) },
		},
		{
			name:  "future day",
			req:   dto.LogEntriesRequest{DayKey: "2024-03-11", Entries: []dto.EntryInput{{TrackID: "water", DeltaValue: helpers.Ptr(1.0)}}},
			check: func(err error) bool { var e *errs.ValidationError; return errors.As(err, &e) },
		},
		{
			name:  "outside retention",
			req:   dto.LogEntriesRequest{DayKey: "2024-01-01", Entries: []dto.EntryInput{{TrackID: "water", DeltaValue: helpers.Ptr(1.0)}}},
			check: func(err error) bool { var e *errs.ValidationError; return errors.As(err, &e) },
		},
		{
			name:  "malformed day",
			req:   dto.LogEntriesRequest{DayKey: "2024-3-1", Entries: []dto.EntryInput{{TrackID: "water", DeltaValue: helpers.Ptr(1.0)}}},
			check: func(err error) bool { var e *errs.ValidationError; return errors.As(err, &e) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := newFakeDayStore()
			svc := newTestLogService(days)

			_, err := svc.LogEntries(helpers.TestCtx(), "u1", tt.req)
			if !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			if days.logCalls != 0 {
				t.Fatal("store written despite rejected submission")
			}
		})
	}
}

func TestLogServiceBackfillWithinRetention(t *testing.T) {
	days := newFakeDayStore()
	svc := newTestLogService(days)

	res, err := svc.LogEntries(helpers.TestCtx(), "u1", dto.LogEntriesRequest{
		DayKey:  "2024-02-01",
		Entries: []dto.EntryInput{{TrackID: "water", DeltaValue: helpers.Ptr(1.0)}},
	})
	if err != nil {
		t.Fatalf("LogEntries returned error: %v", err)
	}
	if res.DayKey != "2024-02-01" {
		t.Fatalf("DayKey = %q, want 2024-02-01", res.DayKey)
	}
	if got := days.days["2024-02-01"].Period.WeekKey; got != "2024-W05" {
		t.Fatalf("WeekKey = %q, want 2024-W05", got)
	}
}

func TestLogServiceGetDayMissingIsEmpty(t *testing.T) {
	svc := newTestLogService(newFakeDayStore())

	got, err := svc.GetDay(helpers.TestCtx(), "u1", "2024-03-01")
	if err != nil {
		t.Fatalf("GetDay returned error: %v", err)
	}
	if got.DayKey != "2024-03-01" || len(got.Tracks) != 0 {
		t.Fatalf("unexpected day: %+v", got)
	}
	if got.Period.WeekKey != "2024-W09" {
		t.Fatalf("WeekKey = %q, want 2024-W09", got.Period.WeekKey)
	}
}

func TestLogServiceRebuildDayMatchesIncrementalFold(t *testing.T) {
	days := newFakeDayStore()
	svc := newTestLogService(days)
	ctx := helpers.TestCtx()

	_, err := svc.LogEntries(ctx, "u1", dto.LogEntriesRequest{Entries: []dto.EntryInput{
		{TrackID: "water", DeltaValue: helpers.Ptr(0.1)},
		{TrackID: "water", DeltaValue: helpers.Ptr(0.2)},
		{TrackID: "mood", OptionID: helpers.Ptr("ok")},
	}})
	if err != nil {
		t.Fatalf("LogEntries returned error: %v", err)
	}
	before := days.days["2024-03-10"].Tracks["water"].(*models.CounterAggregate)

	// corrupt the cached aggregate; rebuild must restore it from the log
	days.days["2024-03-10"].Tracks["water"] = &models.CounterAggregate{Count: 99}

	res, err := svc.RebuildDay(ctx, "u1", "2024-03-10")
	if err != nil {
		t.Fatalf("RebuildDay returned error: %v", err)
	}
	if res.Tracks != 2 || res.Entries != 3 {
		t.Fatalf("unexpected rebuild result: %+v", res)
	}
	after := days.days["2024-03-10"].Tracks["water"].(*models.CounterAggregate)
	if after.Count != before.Count || !after.Sum.Equal(before.Sum) || after.Sum.String() != "0.3" {
		t.Fatalf("rebuilt aggregate %+v differs from incremental %+v", after, before)
	}
	if days.days["2024-03-10"].TimeZone != "UTC" {
		t.Fatalf("TimeZone = %q, want UTC", days.days["2024-03-10"].TimeZone)
	}
}
