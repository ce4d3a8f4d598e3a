package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/pkg/logger"
)

type trackStore struct {
	client *firestore.Client
}

func NewTrackStore(client *firestore.Client) *trackStore {
	return &trackStore{client: client}
}

func (s *trackStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("tracks")
}

// Create assigns a new id to the track and stores it.
func (s *trackStore) Create(ctx context.Context, uid string, t *models.Track) error {
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	ref := s.collection(uid).NewDoc()
	t.TrackID = ref.ID
	if _, err := ref.Create(ctx, t); err != nil {
		return errs.NewDatabaseError("create", "failed to create track", err)
	}
	return nil
}

func (s *trackStore) Get(ctx context.Context, uid, trackID string) (*models.Track, error) {
	doc, err := s.collection(uid).Doc(trackID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("track not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get track", err)
	}
	return decodeTrack(doc)
}

// List returns every track in sortOrder.
func (s *trackStore) List(ctx context.Context, uid string) ([]models.Track, error) {
	return s.query(ctx, s.collection(uid).OrderBy("sortOrder", firestore.Asc))
}

// ListActive returns active tracks in sortOrder. Needs the
// (isActive, sortOrder) composite index.
func (s *trackStore) ListActive(ctx context.Context, uid string) ([]models.Track, error) {
	q := s.collection(uid).Where("isActive", "==", true).OrderBy("sortOrder", firestore.Asc)
	return s.query(ctx, q)
}

// FindByNormalizedKey returns the first track with the given canonical key,
// or nil when there is none.
func (s *trackStore) FindByNormalizedKey(ctx context.Context, uid, key string) (*models.Track, error) {
	tracks, err := s.query(ctx, s.collection(uid).Where("meta.normalizedKey", "==", key).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, nil
	}
	return &tracks[0], nil
}

// Update overwrites the stored definition.
func (s *trackStore) Update(ctx context.Context, uid string, t *models.Track) error {
	t.UpdatedAt = time.Now()
	_, err := s.collection(uid).Doc(t.TrackID).Set(ctx, t)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update track", err)
	}
	return nil
}

func (s *trackStore) SetActive(ctx context.Context, uid, trackID string, active bool) error {
	_, err := s.collection(uid).Doc(trackID).Update(ctx, []firestore.Update{
		{Path: "isActive", Value: active},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("track not found")
		}
		return errs.NewDatabaseError("update", "failed to update track", err)
	}
	return nil
}

// Delete removes the definition only; days and entries keep their history.
func (s *trackStore) Delete(ctx context.Context, uid, trackID string) error {
	_, err := s.collection(uid).Doc(trackID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete track", err)
	}
	return nil
}

// SeedDefaults writes the given tracks when the user has none yet. It
// returns the number written.
func (s *trackStore) SeedDefaults(ctx context.Context, uid string, tracks []models.Track) (int, error) {
	log := logger.FromContext(ctx)

	existing, err := s.collection(uid).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to check existing tracks", err)
	}
	if len(existing) > 0 || len(tracks) == 0 {
		return 0, nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(tracks))
	now := time.Now()

	for i := range tracks {
		t := tracks[i]
		t.CreatedAt, t.UpdatedAt = now, now
		ref := s.collection(uid).NewDoc()
		job, err := bw.Create(ref, t)
		if err != nil {
			bw.End()
			return 0, errs.NewDatabaseError("create", "failed to schedule track seed", err)
		}
		jobs = append(jobs, job)
	}

	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			log.Error("failed to seed track", "uid", uid, "error", err)
			return 0, errs.NewDatabaseError("create", "failed to seed tracks", err)
		}
	}
	return len(jobs), nil
}

func (s *trackStore) query(ctx context.Context, q firestore.Query) ([]models.Track, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()
	return collectTracks(ctx, iter.Next)
}

// collectTracks drains next. Documents that do not decode as a track are
// logged and left out so one corrupt definition cannot fail the whole list.
func collectTracks(ctx context.Context, next func() (*firestore.DocumentSnapshot, error)) ([]models.Track, error) {
	var tracks []models.Track
	for {
		doc, err := next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list tracks", err)
		}
		t, err := decodeTrack(doc)
		if err != nil {
			logger.FromContext(ctx).Warn("skipping unreadable track", "track_id", docID(doc), "error", err)
			continue
		}
		tracks = append(tracks, *t)
	}
	return tracks, nil
}

func docID(doc *firestore.DocumentSnapshot) string {
	if doc == nil || doc.Ref == nil {
		return ""
	}
	return doc.Ref.ID
}

func decodeTrack(doc *firestore.DocumentSnapshot) (*models.Track, error) {
	var t models.Track
	if err := doc.DataTo(&t); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse track data", err)
	}
	t.TrackID = doc.Ref.ID
	return &t, nil
}
