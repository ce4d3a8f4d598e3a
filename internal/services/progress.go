package services

import (
	"context"
	"time"

	"github.com/ethos-app/ethos-backend/internal/calendar"
	"github.com/ethos-app/ethos-backend/internal/dto"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/internal/rollup"
)

type activeTrackStore interface {
	ListActive(ctx context.Context, uid string) ([]models.Track, error)
}

type daysSinceStore interface {
	ListDaysSince(ctx context.Context, uid, fromDay string, limit int) ([]models.DayDoc, error)
}

type progressService struct {
	users           logUserStore
	tracks          activeTrackStore
	days            daysSinceStore
	defaultTimeZone string
	maxDays         int
	now             func() time.Time
}

func NewProgressService(users logUserStore, tracks activeTrackStore, days daysSinceStore, defaultTimeZone string, maxDays int) *progressService {
	return &progressService{
		users:           users,
		tracks:          tracks,
		days:            days,
		defaultTimeZone: defaultTimeZone,
		maxDays:         maxDays,
		now:             time.Now,
	}
}

// GetProgress rolls each active track up over its own cadence for the
// current period in the user's time zone.
func (s *progressService) GetProgress(ctx context.Context, uid string) (*dto.ProgressResponse, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	tz := user.TimeZone
	if tz == "" {
		tz = s.defaultTimeZone
	}
	w, err := calendar.WindowFor(s.now(), tz)
	if err != nil {
		return nil, err
	}

	tracks, err := s.tracks.ListActive(ctx, uid)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProgressResponse{DayKey: w.DayKey, Tracks: make([]dto.TrackProgress, 0, len(tracks))}
	if len(tracks) == 0 {
		return resp, nil
	}

	days, err := s.days.ListDaysSince(ctx, uid, earliestStart(tracks, w, ""), s.maxDays)
	if err != nil {
		return nil, err
	}

	for _, t := range tracks {
		pv := rollup.Rollup(t, days, w, rollup.PeriodForCadence(t.Cadence))
		percent, met := pv.Progress(t.Target)
		resp.Tracks = append(resp.Tracks, dto.TrackProgress{
			Track:       t,
			Period:      pv.Period,
			PeriodKey:   pv.Key,
			Value:       pv.Score().InexactFloat64(),
			Occurrences: pv.Occurrences,
			ActiveDays:  pv.ActiveDays,
			Aggregate:   dto.NewAggregateView(pv.Aggregate),
			Target:      t.Target,
			Percent:     percent,
			Met:         met,
		})
	}
	return resp, nil
}

// earliestStart returns the first day any of the tracks needs for its
// current period. A non-empty forced period overrides each cadence.
func earliestStart(tracks []models.Track, w calendar.Window, forced calendar.Period) string {
	from := w.DayKey
	for _, t := range tracks {
		p := forced
		if p == "" {
			p = rollup.PeriodForCadence(t.Cadence)
		}
		if start := calendar.PeriodStart(w.DayKey, p); start < from {
			from = start
		}
	}
	return from
}
