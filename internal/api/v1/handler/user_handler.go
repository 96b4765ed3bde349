package handler

import (
	"encoding/json"
	"net/http"

	"garagelog/internal/api/v1/dto"
	"garagelog/internal/middleware"
	"garagelog/internal/model"
	"garagelog/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	userService  service.UserService
	quotaService service.QuotaService
	validate     *validator.Validate
	logger       zerolog.Logger
}

func NewUserHandler(userService service.UserService, quotaService service.QuotaService, v *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{userService: userService, quotaService: quotaService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 user routes. The sync endpoint runs behind the
// token check only; the rest also require a resolved local user.
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw, userMw func(http.Handler) http.Handler) {
	mux.Handle("/auth/sync", authMw(http.HandlerFunc(h.syncUser)))
	mux.Handle("/users/me", authMw(userMw(http.HandlerFunc(h.getUser))))
	mux.Handle("/users/me/limits", authMw(userMw(http.HandlerFunc(h.getLimits))))
}

// syncUser godoc
// @Summary Sync the authenticated identity with the local user record
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} dto.UserResponseDTO
// @Success 201 {object} dto.UserResponseDTO
// @Router /auth/sync [post]
func (h *UserHandler) syncUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	authUID, ok := r.Context().Value(middleware.AuthUIDContextKey).(string)
	if !ok || authUID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.UserSyncDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, created, err := h.userService.Sync(r.Context(), authUID, service.SyncProfile{
		Username:   req.Username,
		Email:      req.Email,
		NationalID: req.NationalID,
		Phone:      req.Phone,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toUserResponse(user))
}

// getUser godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponseDTO
// @Router /users/me [get]
func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// getLimits godoc
// @Summary Get the authenticated user's resolved limits and usage
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserLimitsResponseDTO
// @Router /users/me/limits [get]
func (h *UserHandler) getLimits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	usage, err := h.quotaService.Usage(r.Context(), user)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to resolve usage")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.UserLimitsResponseDTO{
		Tier:          string(usage.Tier),
		EffectiveTier: string(usage.EffectiveTier),
		MaxVehicles:   usage.Limits.Vehicles,
		MaxServices:   usage.Limits.Services,
		MaxPhotos:     usage.Limits.Photos,
		Vehicles:      usage.Vehicles,
		Services:      usage.Services,
		Photos:        usage.Photos,
	})
}

func toUserResponse(u *model.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		NationalID:          u.NationalID,
		Phone:               u.Phone,
		Tier:                string(u.Tier),
		SubscriptionEndDate: u.SubscriptionEndDate,
		PhotoCount:          u.PhotoCount,
		CreatedAt:           u.CreatedAt,
	}
}
