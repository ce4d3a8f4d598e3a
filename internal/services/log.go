package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethos-app/ethos-backend/internal/aggregate"
	"github.com/ethos-app/ethos-backend/internal/calendar"
	"github.com/ethos-app/ethos-backend/internal/dto"
	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/pkg/logger"
)

type logTrackStore interface {
	List(ctx context.Context, uid string) ([]models.Track, error)
}

type logDayStore interface {
	LogEntries(ctx context.Context, uid string, w calendar.Window, tz string, updates []aggregate.Update) ([]string, error)
	GetDay(ctx context.Context, uid, dayKey string) (*models.DayDoc, error)
	ListEntries(ctx context.Context, uid, dayKey, trackID string, limit int) ([]models.Entry, error)
	ReplaceDayTracks(ctx context.Context, uid string, w calendar.Window, tz string, aggs map[string]models.Aggregate) error
}

type logUserStore interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type logService struct {
	tracks          logTrackStore
	days            logDayStore
	users           logUserStore
	defaultTimeZone string
	retentionDays   int
	pageSize        int
	now             func() time.Time
}

func NewLogService(tracks logTrackStore, days logDayStore, users logUserStore, defaultTimeZone string, retentionDays, pageSize int) *logService {
	return &logService{
		tracks:          tracks,
		days:            days,
		users:           users,
		defaultTimeZone: defaultTimeZone,
		retentionDays:   retentionDays,
		pageSize:        pageSize,
		now:             time.Now,
	}
}

// LogEntries validates every input against its track and then commits all
// of them in one write. Inputs without a value are ignored; when nothing is
// left the result reports nothing_to_save.
func (s *logService) LogEntries(ctx context.Context, uid string, req dto.LogEntriesRequest) (*dto.LogResult, error) {
	log := logger.FromContext(ctx)

	inputs := make([]dto.EntryInput, 0, len(req.Entries))
	for _, in := range req.Entries {
		if !in.Empty() {
			inputs = append(inputs, in)
		}
	}
	if len(inputs) == 0 {
		return &dto.LogResult{Saved: false, Status: dto.LogStatusNothingToSave}, nil
	}

	tz, err := s.timeZone(ctx, uid)
	if err != nil {
		return nil, err
	}
	now := s.now()
	today, err := calendar.DayKey(now, tz)
	if err != nil {
		return nil, err
	}
	dayKey := req.DayKey
	if dayKey == "" {
		dayKey = today
	}
	if err := s.checkLoggable(dayKey, today); err != nil {
		return nil, err
	}

	tracks, err := s.tracks.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Track, len(tracks))
	for _, t := range tracks {
		byID[t.TrackID] = t
	}

	updates := make([]aggregate.Update, 0, len(inputs))
	for i, in := range inputs {
		track, ok := byID[in.TrackID]
		if !ok {
			return nil, errs.NewNotFoundError(fmt.Sprintf("track %s not found", in.TrackID))
		}
		// distinct timestamps keep replay order equal to submission order
		u, err := aggregate.NewUpdate(track, in.Entry(), now.Add(time.Duration(i)*time.Microsecond))
		if err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}

	ids, err := s.days.LogEntries(ctx, uid, calendar.WindowForDay(dayKey), tz, updates)
	if err != nil {
		return nil, err
	}
	log.Info("entry logged", "day_key", dayKey, "entries", len(ids))
	return &dto.LogResult{Saved: true, Status: dto.LogStatusSaved, DayKey: dayKey, EntryIDs: ids}, nil
}

// GetDay returns the day's aggregates. A day with no entries is returned
// empty rather than as an error.
func (s *logService) GetDay(ctx context.Context, uid, dayKey string) (*dto.DayResponse, error) {
	if !calendar.Valid(dayKey) {
		return nil, errs.NewValidationError("dayKey must be YYYY-MM-DD")
	}
	day, err := s.days.GetDay(ctx, uid, dayKey)
	if err != nil {
		var nf *errs.NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
		day = &models.DayDoc{DayKey: dayKey}
	}
	resp := dto.NewDayResponse(*day)
	return &resp, nil
}

func (s *logService) ListEntries(ctx context.Context, uid, dayKey, trackID string) ([]models.Entry, error) {
	if !calendar.Valid(dayKey) {
		return nil, errs.NewValidationError("dayKey must be YYYY-MM-DD")
	}
	entries, err := s.days.ListEntries(ctx, uid, dayKey, trackID, s.pageSize)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

// RebuildDay recomputes every aggregate on the day from its entry log and
// overwrites the stored aggregates with the result.
func (s *logService) RebuildDay(ctx context.Context, uid, dayKey string) (*dto.RebuildResult, error) {
	log := logger.FromContext(ctx)

	if !calendar.Valid(dayKey) {
		return nil, errs.NewValidationError("dayKey must be YYYY-MM-DD")
	}

	entries, err := s.days.ListEntries(ctx, uid, dayKey, "", 0)
	if err != nil {
		return nil, err
	}
	byTrack := map[string][]models.Entry{}
	for _, e := range entries {
		byTrack[e.TrackID] = append(byTrack[e.TrackID], e)
	}

	aggs := make(map[string]models.Aggregate, len(byTrack))
	for trackID, es := range byTrack {
		a, err := aggregate.Replay(es)
		if err != nil {
			log.Error("failed to replay entries", "day_key", dayKey, "track_id", trackID, "error", err)
			return nil, err
		}
		if a != nil {
			aggs[trackID] = a
		}
	}

	tz := ""
	if day, err := s.days.GetDay(ctx, uid, dayKey); err == nil {
		tz = day.TimeZone
	}
	if tz == "" {
		if tz, err = s.timeZone(ctx, uid); err != nil {
			return nil, err
		}
	}

	if err := s.days.ReplaceDayTracks(ctx, uid, calendar.WindowForDay(dayKey), tz, aggs); err != nil {
		return nil, err
	}
	log.Info("day rebuilt", "day_key", dayKey, "tracks", len(aggs), "entries", len(entries))
	return &dto.RebuildResult{DayKey: dayKey, Tracks: len(aggs), Entries: len(entries)}, nil
}

func (s *logService) checkLoggable(dayKey, today string) error {
	if !calendar.Valid(dayKey) {
		return errs.NewValidationError("dayKey must be YYYY-MM-DD")
	}
	if dayKey > today {
		return errs.NewValidationError("cannot log entries for a future day")
	}
	if s.retentionDays > 0 && calendar.DaysBetween(dayKey, today) > s.retentionDays {
		return errs.NewValidationError(fmt.Sprintf("cannot log entries older than %d days", s.retentionDays))
	}
	return nil
}

func (s *logService) timeZone(ctx context.Context, uid string) (string, error) {
	u, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return "", err
	}
	if u.TimeZone != "" {
		return u.TimeZone, nil
	}
	return s.defaultTimeZone, nil
}
