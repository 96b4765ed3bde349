package service

import (
	"context"
	"errors"
	"fmt"

	"garagelog/internal/model"
	"garagelog/internal/repository"
	"garagelog/internal/storage"
	"garagelog/internal/util"

	"github.com/rs/zerolog"
)

// ImageService owns image attach/detach, coordinating the external blob
// store with the image rows and the user's photo counter.
type ImageService interface {
	// Add decodes a base64 data-URI payload, uploads it and attaches the
	// resulting locator to the maintenance.
	Add(ctx context.Context, user *model.User, maintenanceID, dataURI string) (*model.MaintenanceImage, error)
	Delete(ctx context.Context, user *model.User, imageID string) error
}

type imageService struct {
	repo            repository.ImageRepository
	maintenanceRepo repository.MaintenanceRepository
	quota           QuotaService
	store           storage.ObjectStore
	logger          zerolog.Logger
}

// NewImageService creates a new ImageService with a scoped logger.
func NewImageService(
	repo repository.ImageRepository,
	maintenanceRepo repository.MaintenanceRepository,
	quota QuotaService,
	store storage.ObjectStore,
	logger zerolog.Logger,
) ImageService {
	return &imageService{
		repo:            repo,
		maintenanceRepo: maintenanceRepo,
		quota:           quota,
		store:           store,
		logger:          logger.With().Str("service", "ImageService").Logger(),
	}
}

func (s *imageService) Add(ctx context.Context, user *model.User, maintenanceID, dataURI string) (*model.MaintenanceImage, error) {
	m, ownerID, err := s.maintenanceRepo.GetWithOwner(ctx, maintenanceID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	if ownerID != user.ID {
		return nil, ErrForbidden
	}

	// Reject before touching storage when the cap is already reached; the
	// insert below rechecks atomically.
	if len(m.Images) >= model.MaxImagesPerMaintenance {
		return nil, fmt.Errorf("%w: at most %d images per maintenance", ErrConflict, model.MaxImagesPerMaintenance)
	}

	allowed, err := s.quota.CheckLimits(ctx, user, ActionAddPhoto, 1)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrQuotaExceeded
	}

	data, format, err := util.DecodeImageDataURI(dataURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Storage first, DB second. A failed insert leaves the blob behind;
	// that loss is logged and reconciled out of band.
	locator, err := s.store.Put(ctx, "maintenances/"+maintenanceID, data, format)
	if err != nil {
		s.logger.Error().Err(err).Str("maintenance_id", maintenanceID).Msg("Failed to store image blob")
		return nil, err
	}

	img := &model.MaintenanceImage{MaintenanceID: maintenanceID, Locator: locator}
	if err := s.repo.CheckAndInsert(ctx, img, user.ID); err != nil {
		if delErr := s.store.Delete(ctx, locator); delErr != nil {
			s.logger.Warn().Err(delErr).Str("locator", locator).Msg("Orphaned blob after failed image insert")
		}
		if errors.Is(err, repository.ErrImageLimitReached) {
			return nil, fmt.Errorf("%w: at most %d images per maintenance", ErrConflict, model.MaxImagesPerMaintenance)
		}
		s.logger.Error().Err(err).Str("maintenance_id", maintenanceID).Msg("Failed to insert image row")
		return nil, err
	}
	return img, nil
}

func (s *imageService) Delete(ctx context.Context, user *model.User, imageID string) error {
	img, ownerID, err := s.repo.GetWithOwner(ctx, imageID)
	if err != nil {
		return err
	}
	if img == nil {
		return ErrNotFound
	}
	if ownerID != user.ID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, imageID, user.ID); err != nil {
		s.logger.Error().Err(err).Str("image_id", imageID).Msg("Failed to delete image row")
		return err
	}

	// DB state is authoritative; a failed blob delete is logged only.
	if err := s.store.Delete(ctx, img.Locator); err != nil {
		s.logger.Warn().Err(err).Str("locator", img.Locator).Msg("Failed to delete blob after image delete")
	}
	return nil
}
