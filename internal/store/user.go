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

type userStore struct {
	client *firestore.Client
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{client: client}
}

func (s *userStore) users() *firestore.CollectionRef {
	return s.client.Collection("users")
}

func (s *userStore) profiles() *firestore.CollectionRef {
	return s.client.Collection("profiles")
}

// CreateUser writes the private user document and its public profile mirror
// together.
func (s *userStore) CreateUser(ctx context.Context, user *models.User) error {
	userRef := s.users().Doc(user.UID)
	profileRef := s.profiles().Doc(user.UID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(userRef, user); err != nil {
			return err
		}
		return tx.Set(profileRef, models.Profile{
			DisplayName: user.DisplayName,
			TimeZone:    user.TimeZone,
			UpdatedAt:   user.UpdatedAt,
		})
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("user already exists")
		}
		return errs.NewDatabaseError("create", "failed to create user", err)
	}
	return nil
}

// UpdateProfile changes the user's display name and time zone and refreshes
// the profile mirror.
func (s *userStore) UpdateProfile(ctx context.Context, uid, displayName, timeZone string) error {
	now := time.Now()
	userRef := s.users().Doc(uid)
	profileRef := s.profiles().Doc(uid)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		err := tx.Update(userRef, []firestore.Update{
			{Path: "displayName", Value: displayName},
			{Path: "timeZone", Value: timeZone},
			{Path: "updatedAt", Value: now},
		})
		if err != nil {
			return err
		}
		return tx.Set(profileRef, map[string]interface{}{
			"displayName": displayName,
			"timeZone":    timeZone,
			"updatedAt":   now,
		}, firestore.MergeAll)
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("user not found")
		}
		return errs.NewDatabaseError("update", "failed to update user", err)
	}
	return nil
}

func (s *userStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	doc, err := s.users().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get user", err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user data", err)
	}
	return &user, nil
}

func (s *userStore) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	doc, err := s.profiles().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("profile not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get profile", err)
	}

	var p models.Profile
	if err := doc.DataTo(&p); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse profile data", err)
	}
	p.UID = doc.Ref.ID
	return &p, nil
}

func (s *userStore) AddFriend(ctx context.Context, uid, friendUID string) error {
	return s.updateFriends(ctx, uid, firestore.ArrayUnion(friendUID))
}

func (s *userStore) RemoveFriend(ctx context.Context, uid, friendUID string) error {
	return s.updateFriends(ctx, uid, firestore.ArrayRemove(friendUID))
}

func (s *userStore) updateFriends(ctx context.Context, uid string, op interface{}) error {
	_, err := s.users().Doc(uid).Update(ctx, []firestore.Update{
		{Path: "friends", Value: op},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("user not found")
		}
		return errs.NewDatabaseError("update", "failed to update friends", err)
	}
	return nil
}

func (s *userStore) GetFriends(ctx context.Context, uid string) ([]string, error) {
	user, err := s.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return user.Friends, nil
}
