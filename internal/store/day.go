package store

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ethos-app/ethos-backend/internal/aggregate"
	"github.com/ethos-app/ethos-backend/internal/calendar"
	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/pkg/logger"
)

type dayStore struct {
	client *firestore.Client
}

func NewDayStore(client *firestore.Client) *dayStore {
	return &dayStore{client: client}
}

func (s *dayStore) days(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("days")
}

func (s *dayStore) entries(uid, dayKey string) *firestore.CollectionRef {
	return s.days(uid).Doc(dayKey).Collection("entries")
}

// LogEntries appends one entry per update and folds the updates into the
// day document, all in a single transaction. It returns the new entry ids
// in update order.
func (s *dayStore) LogEntries(ctx context.Context, uid string, w calendar.Window, tz string, updates []aggregate.Update) ([]string, error) {
	if len(updates) == 0 {
		return nil, nil
	}
	log := logger.FromContext(ctx)
	dayRef := s.days(uid).Doc(w.DayKey)

	var ids []string
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ids = ids[:0]

		existing := map[string]models.Aggregate{}
		snap, err := tx.Get(dayRef)
		switch {
		case err == nil:
			existing = decodeDay(w.DayKey, snap.Data()).Tracks
		case status.Code(err) != codes.NotFound:
			return err
		}

		combined := map[string]aggregate.Update{}
		var order []string
		for _, u := range updates {
			ref := s.entries(uid, w.DayKey).NewDoc()
			if err := tx.Create(ref, u.Entry); err != nil {
				return err
			}
			ids = append(ids, ref.ID)

			if prev, ok := combined[u.TrackID()]; ok {
				combined[u.TrackID()] = combine(prev, u)
				continue
			}
			combined[u.TrackID()] = u
			order = append(order, u.TrackID())
		}

		tracks := make(map[string]interface{}, len(combined))
		for _, id := range order {
			if err := checkSumHeadroom(combined[id], existing[id]); err != nil {
				return err
			}
			tracks[id] = updateFields(combined[id], existing[id])
		}
		day := dayBase(w, tz)
		day["tracks"] = tracks
		return tx.Set(dayRef, day, firestore.MergeAll)
	})
	var payloadErr *errs.InvalidEntryPayloadError
	if errors.As(err, &payloadErr) {
		log.Warn("entries rejected", "uid", uid, "day_key", w.DayKey, "track_id", payloadErr.TrackID, "error", err)
		return nil, payloadErr
	}
	if err != nil {
		log.Error("failed to log entries", "uid", uid, "day_key", w.DayKey, "error", err)
		return nil, errs.NewDatabaseError("write", "failed to log entries", err)
	}
	return ids, nil
}

func (s *dayStore) GetDay(ctx context.Context, uid, dayKey string) (*models.DayDoc, error) {
	snap, err := s.days(uid).Doc(dayKey).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("day not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get day", err)
	}
	d := decodeDay(snap.Ref.ID, snap.Data())
	return &d, nil
}

// ListDaysSince returns up to limit day documents on or after fromDay,
// newest first.
func (s *dayStore) ListDaysSince(ctx context.Context, uid, fromDay string, limit int) ([]models.DayDoc, error) {
	q := s.days(uid).
		Where("dayKey", ">=", fromDay).
		OrderBy("dayKey", firestore.Desc).
		Limit(limit)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []models.DayDoc
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list days", err)
		}
		out = append(out, decodeDay(snap.Ref.ID, snap.Data()))
	}
	return out, nil
}

// ListEntries returns a day's entries oldest first. An empty trackID lists
// every track. Filtering by track needs the (trackId, createdAt) index.
func (s *dayStore) ListEntries(ctx context.Context, uid, dayKey, trackID string, limit int) ([]models.Entry, error) {
	q := s.entries(uid, dayKey).Query
	if trackID != "" {
		q = q.Where("trackId", "==", trackID)
	}
	q = q.OrderBy("createdAt", firestore.Asc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []models.Entry
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list entries", err)
		}
		var e models.Entry
		if err := snap.DataTo(&e); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse entry data", err)
		}
		e.EntryID = snap.Ref.ID
		out = append(out, e)
	}
	return out, nil
}

// ReplaceDayTracks overwrites the day's whole tracks map. Tracks missing
// from aggs are removed from the day.
func (s *dayStore) ReplaceDayTracks(ctx context.Context, uid string, w calendar.Window, tz string, aggs map[string]models.Aggregate) error {
	tracks := make(map[string]interface{}, len(aggs))
	for id, a := range aggs {
		tracks[id] = encodeAggregate(a)
	}
	day := dayBase(w, tz)
	day["tracks"] = tracks

	_, err := s.days(uid).Doc(w.DayKey).Set(ctx, day, firestore.Merge(
		[]string{"dayKey"},
		[]string{"timeZone"},
		[]string{"period"},
		[]string{"tracks"},
		[]string{"updatedAt"},
	))
	if err != nil {
		return errs.NewDatabaseError("write", "failed to replace day aggregates", err)
	}
	return nil
}
