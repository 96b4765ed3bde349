package service

import (
	"context"
	"time"

	"garagelog/internal/model"
	"garagelog/internal/repository"

	"github.com/rs/zerolog"
)

// QuotaAction names an action subject to tier limits.
type QuotaAction string

const (
	ActionAddVehicle QuotaAction = "add_vehicle"
	ActionAddService QuotaAction = "add_service"
	ActionAddPhoto   QuotaAction = "add_photo"
)

// UsageSummary reports the resolved entitlement and live usage for a user.
type UsageSummary struct {
	Tier          model.Tier   `json:"tier"`
	EffectiveTier model.Tier   `json:"effective_tier"`
	Limits        model.Limits `json:"limits"`
	Vehicles      int          `json:"vehicles"`
	Services      int          `json:"services"`
	Photos        int          `json:"photos"`
}

// QuotaService decides whether a user may perform an action under the
// entitlement model. It never mutates state; callers check before writing.
type QuotaService interface {
	CheckLimits(ctx context.Context, user *model.User, action QuotaAction, count int) (bool, error)
	Usage(ctx context.Context, user *model.User) (*UsageSummary, error)
}

type quotaService struct {
	vehicleRepo     repository.VehicleRepository
	maintenanceRepo repository.MaintenanceRepository
	now             func() time.Time
	logger          zerolog.Logger
}

// NewQuotaService creates a new QuotaService with a scoped logger.
func NewQuotaService(vehicleRepo repository.VehicleRepository, maintenanceRepo repository.MaintenanceRepository, logger zerolog.Logger) QuotaService {
	return &quotaService{
		vehicleRepo:     vehicleRepo,
		maintenanceRepo: maintenanceRepo,
		now:             time.Now,
		logger:          logger.With().Str("service", "QuotaService").Logger(),
	}
}

// CheckLimits reports whether the action is allowed for the user. Admins
// bypass every limit; unknown tiers and unknown actions fail closed.
func (s *quotaService) CheckLimits(ctx context.Context, user *model.User, action QuotaAction, count int) (bool, error) {
	if user.IsAdmin {
		return true, nil
	}

	tier := model.EffectiveTier(user, s.now())
	limits, ok := model.TierLimits[tier]
	if !ok {
		s.logger.Warn().Str("user_id", user.ID).Str("tier", string(tier)).Msg("Unknown tier, denying action")
		return false, nil
	}

	switch action {
	case ActionAddVehicle:
		vehicles, err := s.vehicleRepo.CountByUser(ctx, user.ID)
		if err != nil {
			return false, err
		}
		return vehicles < limits.Vehicles, nil

	case ActionAddService:
		if limits.Services == model.UnlimitedServices {
			return true, nil
		}
		services, err := s.maintenanceRepo.CountByUser(ctx, user.ID)
		if err != nil {
			return false, err
		}
		return services < limits.Services, nil

	case ActionAddPhoto:
		// Checks the stored counter, not a live recount; the lifecycle
		// paths keep photo_count accurate inside their transactions.
		return user.PhotoCount+count <= limits.Photos, nil
	}

	s.logger.Warn().Str("user_id", user.ID).Str("action", string(action)).Msg("Unknown quota action, denying")
	return false, nil
}

// Usage resolves the user's effective tier, limits and current counts.
func (s *quotaService) Usage(ctx context.Context, user *model.User) (*UsageSummary, error) {
	effective := model.EffectiveTier(user, s.now())
	limits := model.TierLimits[effective]

	vehicles, err := s.vehicleRepo.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	services, err := s.maintenanceRepo.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &UsageSummary{
		Tier:          user.Tier,
		EffectiveTier: effective,
		Limits:        limits,
		Vehicles:      vehicles,
		Services:      services,
		Photos:        user.PhotoCount,
	}, nil
}
