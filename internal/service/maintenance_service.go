package service

import (
	"context"
	"fmt"
	"time"

	"garagelog/internal/model"
	"garagelog/internal/repository"
	"garagelog/internal/storage"

	"github.com/rs/zerolog"
)

// MaintenanceService owns the maintenance lifecycle under a vehicle.
type MaintenanceService interface {
	ListForVehicle(ctx context.Context, user *model.User, vehicleID string) ([]model.Maintenance, error)
	Get(ctx context.Context, user *model.User, maintenanceID string) (*model.Maintenance, error)
	// Add creates a maintenance after the add_service quota check,
	// optionally attaching initial image locators in the same transaction.
	Add(ctx context.Context, user *model.User, m *model.Maintenance, imageLocators []string) error
	// Update applies the merged record and, when imagesProvided is set,
	// replaces the attached images with the given locators in the same
	// transaction as the field update.
	Update(ctx context.Context, user *model.User, m *model.Maintenance, images []string, imagesProvided bool) error
	Delete(ctx context.Context, user *model.User, maintenanceID string) error
}

type maintenanceService struct {
	repo        repository.MaintenanceRepository
	vehicleRepo repository.VehicleRepository
	quota       QuotaService
	store       storage.ObjectStore
	logger      zerolog.Logger
}

// NewMaintenanceService creates a new MaintenanceService with a scoped logger.
func NewMaintenanceService(
	repo repository.MaintenanceRepository,
	vehicleRepo repository.VehicleRepository,
	quota QuotaService,
	store storage.ObjectStore,
	logger zerolog.Logger,
) MaintenanceService {
	return &maintenanceService{
		repo:        repo,
		vehicleRepo: vehicleRepo,
		quota:       quota,
		store:       store,
		logger:      logger.With().Str("service", "MaintenanceService").Logger(),
	}
}

// ownedVehicle verifies the vehicle exists and belongs to the user.
func (s *maintenanceService) ownedVehicle(ctx context.Context, user *model.User, vehicleID string) error {
	v, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return err
	}
	if v == nil {
		return ErrNotFound
	}
	if v.UserID != user.ID {
		return ErrForbidden
	}
	return nil
}

func (s *maintenanceService) ListForVehicle(ctx context.Context, user *model.User, vehicleID string) ([]model.Maintenance, error) {
	if err := s.ownedVehicle(ctx, user, vehicleID); err != nil {
		return nil, err
	}
	return s.repo.ListByVehicle(ctx, vehicleID)
}

func (s *maintenanceService) Get(ctx context.Context, user *model.User, maintenanceID string) (*model.Maintenance, error) {
	m, ownerID, err := s.repo.GetWithOwner(ctx, maintenanceID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	if ownerID != user.ID {
		return nil, ErrForbidden
	}
	return m, nil
}

func (s *maintenanceService) Add(ctx context.Context, user *model.User, m *model.Maintenance, imageLocators []string) error {
	if err := s.ownedVehicle(ctx, user, m.VehicleID); err != nil {
		return err
	}
	if m.ServiceType == "" || m.Workshop == "" {
		return fmt.Errorf("%w: service_type and workshop are required", ErrValidation)
	}

	allowed, err := s.quota.CheckLimits(ctx, user, ActionAddService, 1)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrQuotaExceeded
	}

	if len(imageLocators) > 0 {
		if len(imageLocators) > model.MaxImagesPerMaintenance {
			return fmt.Errorf("%w: at most %d images per maintenance", ErrConflict, model.MaxImagesPerMaintenance)
		}
		allowed, err := s.quota.CheckLimits(ctx, user, ActionAddPhoto, len(imageLocators))
		if err != nil {
			return err
		}
		if !allowed {
			return ErrQuotaExceeded
		}
	}

	if m.ServiceDate.IsZero() {
		m.ServiceDate = time.Now().UTC()
	}

	if err := s.repo.Create(ctx, m, user.ID, imageLocators); err != nil {
		s.logger.Error().Err(err).Str("vehicle_id", m.VehicleID).Msg("Failed to create maintenance")
		return err
	}
	return nil
}

// Update rejects the whole request before writing anything: a bad image
// payload must not leave a half-applied field update behind. Field changes
// and the image swap commit in one transaction.
func (s *maintenanceService) Update(ctx context.Context, user *model.User, m *model.Maintenance, images []string, imagesProvided bool) error {
	current, err := s.Get(ctx, user, m.ID)
	if err != nil {
		return err
	}

	if !imagesProvided {
		if err := s.repo.Update(ctx, m); err != nil {
			s.logger.Error().Err(err).Str("maintenance_id", m.ID).Msg("Failed to update maintenance")
			return err
		}
		return nil
	}

	if len(images) > model.MaxImagesPerMaintenance {
		return fmt.Errorf("%w: at most %d images per maintenance", ErrConflict, model.MaxImagesPerMaintenance)
	}
	if delta := len(images) - len(current.Images); delta > 0 {
		allowed, err := s.quota.CheckLimits(ctx, user, ActionAddPhoto, delta)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrQuotaExceeded
		}
	}

	removed, err := s.repo.UpdateWithImages(ctx, m, user.ID, images)
	if err != nil {
		s.logger.Error().Err(err).Str("maintenance_id", m.ID).Msg("Failed to update maintenance")
		return err
	}
	s.cleanupBlobs(ctx, removed)
	return nil
}

func (s *maintenanceService) Delete(ctx context.Context, user *model.User, maintenanceID string) error {
	if _, err := s.Get(ctx, user, maintenanceID); err != nil {
		return err
	}

	locators, err := s.repo.DeleteCascade(ctx, maintenanceID, user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("maintenance_id", maintenanceID).Msg("Failed to delete maintenance")
		return err
	}
	s.cleanupBlobs(ctx, locators)
	return nil
}

// cleanupBlobs deletes blobs after the DB commit. Failures are logged and
// never surfaced; the database is authoritative.
func (s *maintenanceService) cleanupBlobs(ctx context.Context, locators []string) {
	for _, locator := range locators {
		if err := s.store.Delete(ctx, locator); err != nil {
			s.logger.Warn().Err(err).Str("locator", locator).Msg("Failed to delete blob after maintenance change")
		}
	}
}
