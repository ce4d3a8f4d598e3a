package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ethos-app/ethos-backend/internal/calendar"
	"github.com/ethos-app/ethos-backend/internal/dto"
	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/leaderboard"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/pkg/logger"
)

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, uid, displayName, timeZone string) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
	AddFriend(ctx context.Context, uid, friendUID string) error
	RemoveFriend(ctx context.Context, uid, friendUID string) error
	GetFriends(ctx context.Context, uid string) ([]string, error)
}

type userService struct {
	Store           userUSStore
	DefaultTimeZone string
}

func NewUserService(store userUSStore, defaultTimeZone string) *userService {
	return &userService{
		Store:           store,
		DefaultTimeZone: defaultTimeZone,
	}
}

func (s *userService) CreateUser(ctx context.Context, uid, email, displayName, timeZone string) (*models.User, error) {
	// uid and email are already on the context logger
	log := logger.FromContext(ctx)

	tz, err := s.timeZoneOrDefault(timeZone)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		UID:         uid,
		Email:       email,
		DisplayName: strings.TrimSpace(displayName),
		TimeZone:    tz,
		Friends:     []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Store.CreateUser(ctx, user); err != nil {
		log.Error("failed to create user in store", "error", err)
		return nil, err
	}

	log.Info("user created successfully", "time_zone", tz)
	log.Debug("user created with full details", "user", user)
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, uid string, req dto.UpdateProfileRequest) error {
	log := logger.FromContext(ctx)

	tz, err := s.timeZoneOrDefault(req.TimeZone)
	if err != nil {
		return err
	}
	if err := s.Store.UpdateProfile(ctx, uid, strings.TrimSpace(req.DisplayName), tz); err != nil {
		return err
	}
	log.Info("profile updated", "time_zone", tz)
	return nil
}

func (s *userService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	return s.Store.GetUser(ctx, uid)
}

func (s *userService) AddFriend(ctx context.Context, uid, friendUID string) error {
	log := logger.FromContext(ctx)

	friendUID = strings.TrimSpace(friendUID)
	if friendUID == "" {
		return errs.NewValidationError("friend uid is required")
	}
	if friendUID == uid {
		return errs.NewValidationError("cannot add yourself as a friend")
	}
	if _, err := s.Store.GetProfile(ctx, friendUID); err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			return errs.NewNotFoundError("friend not found")
		}
		return err
	}
	if err := s.Store.AddFriend(ctx, uid, friendUID); err != nil {
		return err
	}
	log.Info("friend added", "friend_uid", friendUID)
	return nil
}

func (s *userService) RemoveFriend(ctx context.Context, uid, friendUID string) error {
	if err := s.Store.RemoveFriend(ctx, uid, friendUID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("friend removed", "friend_uid", friendUID)
	return nil
}

// ListFriends resolves display names from the profile mirror. Friends
// without a profile are listed under the fallback name.
func (s *userService) ListFriends(ctx context.Context, uid string) ([]dto.Friend, error) {
	log := logger.FromContext(ctx)

	uids, err := s.Store.GetFriends(ctx, uid)
	if err != nil {
		return nil, err
	}

	friends := make([]dto.Friend, 0, len(uids))
	for _, fid := range uids {
		name := leaderboard.FallbackName
		p, err := s.Store.GetProfile(ctx, fid)
		switch {
		case err == nil && strings.TrimSpace(p.DisplayName) != "":
			name = p.DisplayName
		case err != nil:
			var nf *errs.NotFoundError
			if !errors.As(err, &nf) {
				return nil, err
			}
			log.Debug("friend has no profile", "friend_uid", fid)
		}
		friends = append(friends, dto.Friend{UID: fid, DisplayName: name})
	}
	return friends, nil
}

func (s *userService) timeZoneOrDefault(tz string) (string, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = s.DefaultTimeZone
	}
	if _, err := calendar.LoadLocation(tz); err != nil {
		return "", err
	}
	return tz, nil
}
