package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"garagelog/internal/api/v1/dto"
	"garagelog/internal/middleware"
	"garagelog/internal/model"
	"garagelog/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type VehicleHandler struct {
	vehicleService     service.VehicleService
	maintenanceService service.MaintenanceService
	validate           *validator.Validate
	logger             zerolog.Logger
}

func NewVehicleHandler(vehicleService service.VehicleService, maintenanceService service.MaintenanceService, v *validator.Validate, logger zerolog.Logger) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService, maintenanceService: maintenanceService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 vehicle routes.
func (h *VehicleHandler) RegisterRoutes(mux *http.ServeMux, authMw, userMw func(http.Handler) http.Handler) {
	mux.Handle("/vehicles", authMw(userMw(http.HandlerFunc(h.handleVehicles))))
	mux.Handle("/vehicles/", authMw(userMw(http.HandlerFunc(h.handleVehicle))))
}

func (h *VehicleHandler) handleVehicles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listVehicles(w, r)
	case http.MethodPost:
		h.addVehicle(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *VehicleHandler) handleVehicle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/vehicles/")
	if r.Method == http.MethodGet && strings.HasSuffix(path, "/maintenances") {
		h.listMaintenances(w, r, strings.TrimSuffix(path, "/maintenances"))
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getVehicle(w, r, path)
	case http.MethodDelete:
		h.deleteVehicle(w, r, path)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// listVehicles godoc
// @Summary List the caller's vehicles
// @Tags vehicles
// @Produce json
// @Success 200 {array} dto.VehicleResponseDTO
// @Router /vehicles [get]
func (h *VehicleHandler) listVehicles(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	vehicles, err := h.vehicleService.List(r.Context(), user)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to list vehicles")
		writeServiceError(w, err)
		return
	}
	resp := make([]dto.VehicleResponseDTO, 0, len(vehicles))
	for i := range vehicles {
		resp = append(resp, toVehicleResponse(&vehicles[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// addVehicle godoc
// @Summary Register a vehicle
// @Tags vehicles
// @Accept json
// @Produce json
// @Param vehicle body dto.VehicleCreateDTO true "Vehicle"
// @Success 201 {object} dto.VehicleResponseDTO
// @Failure 402 {string} string "quota exceeded for current plan"
// @Router /vehicles [post]
func (h *VehicleHandler) addVehicle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.VehicleCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	vehicle := &model.Vehicle{
		Type:         model.VehicleType(req.Type),
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		LicensePlate: req.LicensePlate,
		Color:        req.Color,
	}
	if err := h.vehicleService.Add(r.Context(), user, vehicle); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVehicleResponse(vehicle))
}

// getVehicle godoc
// @Summary Get a vehicle
// @Tags vehicles
// @Produce json
// @Param vehicleId path string true "Vehicle ID"
// @Success 200 {object} dto.VehicleResponseDTO
// @Router /vehicles/{vehicleId} [get]
func (h *VehicleHandler) getVehicle(w http.ResponseWriter, r *http.Request, vehicleID string) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	vehicle, err := h.vehicleService.Get(r.Context(), user, vehicleID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleResponse(vehicle))
}

// deleteVehicle godoc
// @Summary Delete a vehicle and everything under it
// @Tags vehicles
// @Param vehicleId path string true "Vehicle ID"
// @Success 204 {string} string ""
// @Router /vehicles/{vehicleId} [delete]
func (h *VehicleHandler) deleteVehicle(w http.ResponseWriter, r *http.Request, vehicleID string) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.vehicleService.Delete(r.Context(), user, vehicleID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listMaintenances godoc
// @Summary List a vehicle's maintenances, most recent service first
// @Tags maintenances
// @Produce json
// @Param vehicleId path string true "Vehicle ID"
// @Success 200 {array} dto.MaintenanceResponseDTO
// @Router /vehicles/{vehicleId}/maintenances [get]
func (h *VehicleHandler) listMaintenances(w http.ResponseWriter, r *http.Request, vehicleID string) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	maintenances, err := h.maintenanceService.ListForVehicle(r.Context(), user, vehicleID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]dto.MaintenanceResponseDTO, 0, len(maintenances))
	for i := range maintenances {
		resp = append(resp, toMaintenanceResponse(&maintenances[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toVehicleResponse(v *model.Vehicle) dto.VehicleResponseDTO {
	return dto.VehicleResponseDTO{
		ID:           v.ID,
		Type:         string(v.Type),
		Brand:        v.Brand,
		Model:        v.Model,
		Year:         v.Year,
		LicensePlate: v.LicensePlate,
		Color:        v.Color,
		CreatedAt:    v.CreatedAt,
	}
}
