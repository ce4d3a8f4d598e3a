package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ethos-app/ethos-backend/internal/calendar"
	"github.com/ethos-app/ethos-backend/internal/dto"
	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/leaderboard"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/pkg/logger"
)

// participantLoads caps concurrent friend loads per request.
const participantLoads = 8

type leaderboardUserStore interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
}

type leaderboardService struct {
	users           leaderboardUserStore
	tracks          activeTrackStore
	days            daysSinceStore
	defaultTimeZone string
	excluded        []models.TrackType
	priority        []string
	maxDays         int
	now             func() time.Time
}

func NewLeaderboardService(users leaderboardUserStore, tracks activeTrackStore, days daysSinceStore, defaultTimeZone string, excluded []models.TrackType, priority []string, maxDays int) *leaderboardService {
	return &leaderboardService{
		users:           users,
		tracks:          tracks,
		days:            days,
		defaultTimeZone: defaultTimeZone,
		excluded:        excluded,
		priority:        priority,
		maxDays:         maxDays,
		now:             time.Now,
	}
}

// GetLeaderboard ranks the viewer against their friends on every track kind
// they share. period is "cadence" (or empty) to score each row over its own
// track's cadence, or a calendar period to force one window for all rows.
// Friends that fail to load are left out; a viewer failure is returned.
func (s *leaderboardService) GetLeaderboard(ctx context.Context, viewerUID, period string) (*dto.LeaderboardResponse, error) {
	log := logger.FromContext(ctx)

	forced, label, err := parseLeaderboardPeriod(period)
	if err != nil {
		return nil, err
	}

	viewerUser, err := s.users.GetUser(ctx, viewerUID)
	if err != nil {
		return nil, err
	}
	friendUIDs := viewerUser.Friends

	var (
		mu      sync.Mutex
		viewer  leaderboard.Participant
		friends = make([]*leaderboard.Participant, len(friendUIDs))
	)

	at := s.now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(participantLoads)

	g.Go(func() error {
		p, err := s.loadParticipant(gctx, viewerUID, viewerUser.DisplayName, viewerUser.TimeZone, at, forced)
		if err != nil {
			return err
		}
		mu.Lock()
		viewer = p
		mu.Unlock()
		return nil
	})
	for i, uid := range friendUIDs {
		g.Go(func() error {
			p, err := s.loadFriend(gctx, uid, at, forced)
			if err != nil {
				failed := errs.NewParticipantLoadFailedError(uid, err)
				log.Warn("participant omitted from leaderboard", "friend_uid", uid, "error", failed)
				return nil
			}
			mu.Lock()
			friends[i] = &p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	loaded := make([]leaderboard.Participant, 0, len(friends))
	for _, p := range friends {
		if p != nil {
			loaded = append(loaded, *p)
		}
	}

	groups := leaderboard.Build(viewer, loaded, leaderboard.Options{
		ExcludedTypes: s.excluded,
		Priority:      s.priority,
		Period:        forced,
		OnSkip: func(uid string, t models.Track) {
			log.Warn("track skipped: no comparable key", "owner_uid", uid, "track_id", t.TrackID)
		},
	})
	log.Debug("leaderboard built", "friends", len(loaded), "groups", len(groups))

	resp := dto.NewLeaderboardResponse(label, groups)
	return &resp, nil
}

func (s *leaderboardService) loadFriend(ctx context.Context, uid string, at time.Time, forced calendar.Period) (leaderboard.Participant, error) {
	profile, err := s.users.GetProfile(ctx, uid)
	if err != nil {
		return leaderboard.Participant{}, err
	}
	return s.loadParticipant(ctx, uid, profile.DisplayName, profile.TimeZone, at, forced)
}

// loadParticipant reads the active tracks and the day documents covering
// the periods being compared, with "now" taken in the participant's zone.
func (s *leaderboardService) loadParticipant(ctx context.Context, uid, name, tz string, at time.Time, forced calendar.Period) (leaderboard.Participant, error) {
	if tz == "" {
		tz = s.defaultTimeZone
	}
	w, err := calendar.WindowFor(at, tz)
	if err != nil {
		return leaderboard.Participant{}, err
	}
	tracks, err := s.tracks.ListActive(ctx, uid)
	if err != nil {
		return leaderboard.Participant{}, err
	}
	p := leaderboard.Participant{UID: uid, DisplayName: name, Tracks: tracks, Window: w}
	if len(tracks) == 0 {
		return p, nil
	}
	p.Days, err = s.days.ListDaysSince(ctx, uid, earliestStart(tracks, w, forced), s.maxDays)
	if err != nil {
		return leaderboard.Participant{}, err
	}
	return p, nil
}

func parseLeaderboardPeriod(period string) (calendar.Period, string, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" || period == dto.LeaderboardPeriodCadence {
		return "", dto.LeaderboardPeriodCadence, nil
	}
	p := calendar.Period(period)
	if !p.Valid() {
		return "", "", errs.NewValidationError("period must be one of cadence, day, week, month, year")
	}
	return p, period, nil
}
