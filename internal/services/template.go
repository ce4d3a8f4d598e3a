package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/internal/trackdef"
	"github.com/ethos-app/ethos-backend/pkg/logger"
)

type templateStore interface {
	Create(ctx context.Context, t *models.TrackTemplate) error
	Get(ctx context.Context, templateID string) (*models.TrackTemplate, error)
	FindByNormalizedKey(ctx context.Context, key string) (*models.TrackTemplate, error)
	List(ctx context.Context) ([]models.TrackTemplate, error)
}

type templateProfiles interface {
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
}

type templateService struct {
	store    templateStore
	profiles templateProfiles
}

func NewTemplateService(store templateStore, profiles templateProfiles) *templateService {
	return &templateService{store: store, profiles: profiles}
}

// ListTemplates merges the built-in catalog with published templates. A
// published template replaces a built-in one with the same canonical key.
func (s *templateService) ListTemplates(ctx context.Context) ([]models.TrackTemplate, error) {
	stored, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]models.TrackTemplate, len(SeedTemplates)+len(stored))
	for _, t := range SeedTemplates {
		byKey[t.NormalizedKey] = t
	}
	for _, t := range stored {
		key := t.NormalizedKey
		if key == "" {
			key = trackdef.CanonicalKey(t.Track())
		}
		byKey[key] = t
	}

	out := make([]models.TrackTemplate, 0, len(byKey))
	for _, t := range byKey {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// GetTemplate looks in the built-in catalog first, then the store.
func (s *templateService) GetTemplate(ctx context.Context, templateID string) (*models.TrackTemplate, error) {
	if t, ok := seedTemplate(templateID); ok {
		return &t, nil
	}
	return s.store.Get(ctx, templateID)
}

// Publish shares a track definition as a template. An existing template
// with the same canonical key is returned instead of a duplicate.
func (s *templateService) Publish(ctx context.Context, uid string, track models.Track) (*models.TrackTemplate, error) {
	log := logger.FromContext(ctx)

	key := trackdef.CanonicalKey(track)
	for _, t := range SeedTemplates {
		if t.NormalizedKey == key {
			return &t, nil
		}
	}
	existing, err := s.store.FindByNormalizedKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Debug("template already published", "template_id", existing.TemplateID)
		return existing, nil
	}

	creatorName := ""
	if p, err := s.profiles.GetProfile(ctx, uid); err == nil {
		creatorName = p.DisplayName
	} else {
		var nf *errs.NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	t := &models.TrackTemplate{
		Name:          track.Name,
		DisplayLabel:  track.Name,
		Category:      track.Meta.Category,
		Type:          track.Type,
		Cadence:       track.Cadence,
		Unit:          track.Unit,
		Target:        track.Target,
		Config:        track.Config,
		CreatedBy:     uid,
		CreatedByName: creatorName,
		NormalizedKey: key,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	log.Info("template published", "template_id", t.TemplateID)
	return t, nil
}
