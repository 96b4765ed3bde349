package service

import (
	"context"

	"garagelog/internal/model"
	"garagelog/internal/repository"

	"github.com/rs/zerolog"
)

// UserService maps verified identity subjects to local user records.
type UserService interface {
	GetByAuthUID(ctx context.Context, authUID string) (*model.User, error)
	// Sync creates the local user on first verified-identity sync, or
	// updates the profile on later syncs (blank fields are filled, existing
	// values kept). It reports whether a new row was created.
	Sync(ctx context.Context, authUID string, profile SyncProfile) (*model.User, bool, error)
}

// SyncProfile carries the profile fields supplied by the client after a
// successful identity-provider login.
type SyncProfile struct {
	Username   string
	Email      string
	NationalID *string
	Phone      *string
}

type userService struct {
	repo   repository.UserRepository
	logger zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{repo: repo, logger: logger.With().Str("service", "UserService").Logger()}
}

func (s *userService) GetByAuthUID(ctx context.Context, authUID string) (*model.User, error) {
	u, err := s.repo.GetByAuthUID(ctx, authUID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *userService) Sync(ctx context.Context, authUID string, profile SyncProfile) (*model.User, bool, error) {
	u, err := s.repo.GetByAuthUID(ctx, authUID)
	if err != nil {
		return nil, false, err
	}

	if u == nil {
		username := profile.Username
		if username == "" {
			username = profile.Email
		}
		u = &model.User{
			AuthUID:    authUID,
			Username:   username,
			Email:      profile.Email,
			NationalID: profile.NationalID,
			Phone:      profile.Phone,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			s.logger.Error().Err(err).Str("auth_uid", authUID).Msg("Failed to create user on sync")
			return nil, false, err
		}
		s.logger.Info().Str("auth_uid", authUID).Str("user_id", u.ID).Msg("New user synced")
		return u, true, nil
	}

	updated := false
	if profile.Username != "" && profile.Username != u.Username {
		u.Username = profile.Username
		updated = true
	}
	if u.NationalID == nil && profile.NationalID != nil {
		u.NationalID = profile.NationalID
		updated = true
	}
	if u.Phone == nil && profile.Phone != nil {
		u.Phone = profile.Phone
		updated = true
	}
	if updated {
		if err := s.repo.UpdateProfile(ctx, u); err != nil {
			s.logger.Error().Err(err).Str("user_id", u.ID).Msg("Failed to update user on sync")
			return nil, false, err
		}
	}
	return u, false, nil
}
