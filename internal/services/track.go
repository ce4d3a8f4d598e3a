package services

import (
	"context"
	"time"

	"github.com/ethos-app/ethos-backend/internal/dto"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/internal/trackdef"
	"github.com/ethos-app/ethos-backend/pkg/logger"
)

type trackStore interface {
	Create(ctx context.Context, uid string, t *models.Track) error
	Get(ctx context.Context, uid, trackID string) (*models.Track, error)
	List(ctx context.Context, uid string) ([]models.Track, error)
	ListActive(ctx context.Context, uid string) ([]models.Track, error)
	FindByNormalizedKey(ctx context.Context, uid, key string) (*models.Track, error)
	Update(ctx context.Context, uid string, t *models.Track) error
	SetActive(ctx context.Context, uid, trackID string, active bool) error
	Delete(ctx context.Context, uid, trackID string) error
	SeedDefaults(ctx context.Context, uid string, tracks []models.Track) (int, error)
}

// trackTemplates is the part of the template catalog the track service uses.
type trackTemplates interface {
	GetTemplate(ctx context.Context, templateID string) (*models.TrackTemplate, error)
	Publish(ctx context.Context, uid string, track models.Track) (*models.TrackTemplate, error)
}

type trackService struct {
	store     trackStore
	templates trackTemplates
	now       func() time.Time
}

func NewTrackService(store trackStore, templates trackTemplates) *trackService {
	return &trackService{store: store, templates: templates, now: time.Now}
}

func (s *trackService) ListTracks(ctx context.Context, uid string, activeOnly bool) ([]models.Track, error) {
	if activeOnly {
		return s.store.ListActive(ctx, uid)
	}
	return s.store.List(ctx, uid)
}

// CreateTrack validates and stores a new track. When the user already has a
// track with the same definition, that track is reactivated and returned.
func (s *trackService) CreateTrack(ctx context.Context, uid string, req dto.TrackRequest) (*dto.CreateTrackResult, error) {
	log := logger.FromContext(ctx)

	t := trackdef.Normalize(req.Track())
	if err := trackdef.Validate(t); err != nil {
		return nil, err
	}
	key := trackdef.CanonicalKey(t)

	existing, err := s.store.FindByNormalizedKey(ctx, uid, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !existing.IsActive {
			if err := s.store.SetActive(ctx, uid, existing.TrackID, true); err != nil {
				return nil, err
			}
			existing.IsActive = true
		}
		log.Info("existing track returned for duplicate definition", "track_id", existing.TrackID)
		return &dto.CreateTrackResult{Track: existing, Reactivated: true}, nil
	}

	order, err := s.nextSortOrder(ctx, uid)
	if err != nil {
		return nil, err
	}

	now := s.now()
	t.Meta.NormalizedKey = key
	t.Meta.CreatedBy = uid
	t.IsActive = true
	t.SortOrder = order
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.store.Create(ctx, uid, &t); err != nil {
		log.Error("failed to create track", "error", err)
		return nil, err
	}
	log.Info("track created", "track_id", t.TrackID, "type", t.Type)

	if req.PublishAsTemplate {
		if _, err := s.templates.Publish(ctx, uid, t); err != nil {
			log.Warn("failed to publish track as template", "track_id", t.TrackID, "error", err)
		}
	}
	return &dto.CreateTrackResult{Track: &t}, nil
}

// AddFromTemplate creates a track from a catalog template.
func (s *trackService) AddFromTemplate(ctx context.Context, uid, templateID string) (*dto.CreateTrackResult, error) {
	tmpl, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	t := tmpl.Track()
	return s.CreateTrack(ctx, uid, dto.TrackRequest{
		Name:       t.Name,
		Type:       t.Type,
		Cadence:    t.Cadence,
		Unit:       t.Unit,
		Target:     t.Target,
		Config:     t.Config,
		Category:   t.Meta.Category,
		TemplateID: templateID,
	})
}

// UpdateTrack replaces the editable fields of a track. Ordering, activity
// and creation metadata are kept.
func (s *trackService) UpdateTrack(ctx context.Context, uid, trackID string, req dto.TrackRequest) (*models.Track, error) {
	current, err := s.store.Get(ctx, uid, trackID)
	if err != nil {
		return nil, err
	}

	t := trackdef.Normalize(req.Track())
	if err := trackdef.Validate(t); err != nil {
		return nil, err
	}
	t.TrackID = current.TrackID
	t.IsActive = current.IsActive
	t.SortOrder = current.SortOrder
	t.CreatedAt = current.CreatedAt
	t.Meta.CreatedBy = current.Meta.CreatedBy
	if t.Meta.TemplateID == "" {
		t.Meta.TemplateID = current.Meta.TemplateID
	}
	if t.Meta.Category == "" {
		t.Meta.Category = current.Meta.Category
	}
	t.Meta.NormalizedKey = trackdef.CanonicalKey(t)
	t.UpdatedAt = s.now()

	if err := s.store.Update(ctx, uid, &t); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("track updated", "track_id", trackID)
	return &t, nil
}

func (s *trackService) DeactivateTrack(ctx context.Context, uid, trackID string) error {
	if err := s.store.SetActive(ctx, uid, trackID, false); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("track deactivated", "track_id", trackID)
	return nil
}

// DeleteTrack removes the definition only. Day aggregates and entries that
// reference it are left in place.
func (s *trackService) DeleteTrack(ctx context.Context, uid, trackID string) error {
	if err := s.store.Delete(ctx, uid, trackID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("track deleted", "track_id", trackID)
	return nil
}

// SeedDefaults gives a new user the starter tracks. Users that already have
// tracks are left alone.
func (s *trackService) SeedDefaults(ctx context.Context, uid string) (*dto.SeedResult, error) {
	now := s.now()
	tracks := make([]models.Track, 0, len(DefaultSeedTemplateIDs))
	for i, id := range DefaultSeedTemplateIDs {
		tmpl, ok := seedTemplate(id)
		if !ok {
			continue
		}
		t := trackdef.Normalize(tmpl.Track())
		t.Meta.NormalizedKey = trackdef.CanonicalKey(t)
		t.Meta.CreatedBy = uid
		t.IsActive = true
		t.SortOrder = int64(i+1) * 10
		t.CreatedAt = now
		t.UpdatedAt = now
		tracks = append(tracks, t)
	}

	n, err := s.store.SeedDefaults(ctx, uid, tracks)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("default tracks seeded", "created", n)
	return &dto.SeedResult{Created: n}, nil
}

func (s *trackService) nextSortOrder(ctx context.Context, uid string) (int64, error) {
	tracks, err := s.store.List(ctx, uid)
	if err != nil {
		return 0, err
	}
	var highest int64
	for _, t := range tracks {
		if t.SortOrder > highest {
			highest = t.SortOrder
		}
	}
	return highest + 10, nil
}
