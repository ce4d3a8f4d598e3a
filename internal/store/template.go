package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/models"
)

type templateStore struct {
	client *firestore.Client
}

func NewTemplateStore(client *firestore.Client) *templateStore {
	return &templateStore{client: client}
}

func (s *templateStore) collection() *firestore.CollectionRef {
	return s.client.Collection("trackTemplates")
}

func (s *templateStore) Create(ctx context.Context, t *models.TrackTemplate) error {
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now

	ref := s.collection().NewDoc()
	t.TemplateID = ref.ID
	if _, err := ref.Create(ctx, t); err != nil {
		return errs.NewDatabaseError("create", "failed to create template", err)
	}
	return nil
}

func (s *templateStore) Get(ctx context.Context, templateID string) (*models.TrackTemplate, error) {
	doc, err := s.collection().Doc(templateID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("template not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get template", err)
	}
	return decodeTemplate(doc)
}

// FindByNormalizedKey returns the template with the given canonical key, or
// nil when there is none.
func (s *templateStore) FindByNormalizedKey(ctx context.Context, key string) (*models.TrackTemplate, error) {
	docs, err := s.collection().Where("normalizedKey", "==", key).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to query templates", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decodeTemplate(docs[0])
}

func (s *templateStore) List(ctx context.Context) ([]models.TrackTemplate, error) {
	docs, err := s.collection().OrderBy("name", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list templates", err)
	}
	out := make([]models.TrackTemplate, 0, len(docs))
	for _, d := range docs {
		t, err := decodeTemplate(d)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

func decodeTemplate(doc *firestore.DocumentSnapshot) (*models.TrackTemplate, error) {
	var t models.TrackTemplate
	if err := doc.DataTo(&t); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse template data", err)
	}
	t.TemplateID = doc.Ref.ID
	return &t, nil
}
