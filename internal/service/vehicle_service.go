package service

import (
	"context"
	"fmt"

	"garagelog/internal/model"
	"garagelog/internal/repository"
	"garagelog/internal/storage"

	"github.com/rs/zerolog"
)

// VehicleService owns the vehicle lifecycle, including the delete cascade
// across maintenances, images and external storage.
type VehicleService interface {
	List(ctx context.Context, user *model.User) ([]model.Vehicle, error)
	Get(ctx context.Context, user *model.User, vehicleID string) (*model.Vehicle, error)
	Add(ctx context.Context, user *model.User, v *model.Vehicle) error
	Delete(ctx context.Context, user *model.User, vehicleID string) error
}

type vehicleService struct {
	repo   repository.VehicleRepository
	quota  QuotaService
	store  storage.ObjectStore
	logger zerolog.Logger
}

// NewVehicleService creates a new VehicleService with a scoped logger.
func NewVehicleService(repo repository.VehicleRepository, quota QuotaService, store storage.ObjectStore, logger zerolog.Logger) VehicleService {
	return &vehicleService{
		repo:   repo,
		quota:  quota,
		store:  store,
		logger: logger.With().Str("service", "VehicleService").Logger(),
	}
}

func (s *vehicleService) List(ctx context.Context, user *model.User) ([]model.Vehicle, error) {
	return s.repo.ListByUser(ctx, user.ID)
}

func (s *vehicleService) Get(ctx context.Context, user *model.User, vehicleID string) (*model.Vehicle, error) {
	v, err := s.repo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}
	if v.UserID != user.ID {
		return nil, ErrForbidden
	}
	return v, nil
}

func (s *vehicleService) Add(ctx context.Context, user *model.User, v *model.Vehicle) error {
	allowed, err := s.quota.CheckLimits(ctx, user, ActionAddVehicle, 1)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrQuotaExceeded
	}
	if !v.Type.Valid() {
		return fmt.Errorf("%w: unrecognized vehicle type %q", ErrValidation, v.Type)
	}

	v.UserID = user.ID
	if err := s.repo.Create(ctx, v); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create vehicle")
		return err
	}
	return nil
}

// Delete removes the vehicle and everything under it. The DB cascade and the
// photo_count adjustment commit together; blob cleanup runs afterwards and
// tolerates individual failures, so storage may briefly hold orphans.
func (s *vehicleService) Delete(ctx context.Context, user *model.User, vehicleID string) error {
	if _, err := s.Get(ctx, user, vehicleID); err != nil {
		return err
	}

	locators, err := s.repo.DeleteCascade(ctx, vehicleID, user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("vehicle_id", vehicleID).Msg("Failed to delete vehicle")
		return err
	}

	for _, locator := range locators {
		if err := s.store.Delete(ctx, locator); err != nil {
			s.logger.Warn().Err(err).Str("locator", locator).Msg("Failed to delete blob after vehicle cascade")
		}
	}
	return nil
}
