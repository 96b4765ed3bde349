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

type MaintenanceHandler struct {
	maintenanceService service.MaintenanceService
	imageService       service.ImageService
	validate           *validator.Validate
	logger             zerolog.Logger
}

func NewMaintenanceHandler(maintenanceService service.MaintenanceService, imageService service.ImageService, v *validator.Validate, logger zerolog.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService, imageService: imageService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 maintenance routes.
func (h *MaintenanceHandler) RegisterRoutes(mux *http.ServeMux, authMw, userMw func(http.Handler) http.Handler) {
	mux.Handle("/maintenances", authMw(userMw(http.HandlerFunc(h.addMaintenance))))
	mux.Handle("/maintenances/", authMw(userMw(http.HandlerFunc(h.handleMaintenance))))
}

func (h *MaintenanceHandler) handleMaintenance(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/maintenances/")
	if r.Method == http.MethodPost && strings.HasSuffix(path, "/images") {
		h.addImage(w, r, strings.TrimSuffix(path, "/images"))
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getMaintenance(w, r, path)
	case http.MethodPut:
		h.updateMaintenance(w, r, path)
	case http.MethodDelete:
		h.deleteMaintenance(w, r, path)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// addMaintenance godoc
// @Summary Log a maintenance record against a vehicle
// @Tags maintenances
// @Accept json
// @Produce json
// @Param maintenance body dto.MaintenanceCreateDTO true "Maintenance"
// @Success 201 {object} dto.MaintenanceResponseDTO
// @Failure 402 {string} string "quota exceeded for current plan"
// @Router /maintenances [post]
func (h *MaintenanceHandler) addMaintenance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.MaintenanceCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	m := &model.Maintenance{
		VehicleID:         req.VehicleID,
		ServiceType:       req.ServiceType,
		Workshop:          req.Workshop,
		Mechanic:          req.Mechanic,
		LaborWarrantyDate: req.LaborWarrantyDate,
		LaborCost:         req.LaborCost,
		Parts:             req.Parts,
		PartsStore:        req.PartsStore,
		PartsWarrantyDate: req.PartsWarrantyDate,
		PartsCost:         req.PartsCost,
	}
	if req.ServiceDate != nil {
		m.ServiceDate = *req.ServiceDate
	}

	if err := h.maintenanceService.Add(r.Context(), user, m, req.Images); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMaintenanceResponse(m))
}

// getMaintenance godoc
// @Summary Get a maintenance record
// @Tags maintenances
// @Produce json
// @Param maintenanceId path string true "Maintenance ID"
// @Success 200 {object} dto.MaintenanceResponseDTO
// @Router /maintenances/{maintenanceId} [get]
func (h *MaintenanceHandler) getMaintenance(w http.ResponseWriter, r *http.Request, maintenanceID string) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	m, err := h.maintenanceService.Get(r.Context(), user, maintenanceID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMaintenanceResponse(m))
}

// updateMaintenance godoc
// @Summary Update a maintenance record
// @Tags maintenances
// @Accept json
// @Param maintenanceId path string true "Maintenance ID"
// @Param maintenance body dto.MaintenanceUpdateDTO true "Fields to update"
// @Success 200 {object} dto.MaintenanceResponseDTO
// @Router /maintenances/{maintenanceId} [put]
func (h *MaintenanceHandler) updateMaintenance(w http.ResponseWriter, r *http.Request, maintenanceID string) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.MaintenanceUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.maintenanceService.Get(r.Context(), user, maintenanceID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	applyMaintenanceUpdate(m, &req)

	var images []string
	imagesProvided := req.Images != nil
	if imagesProvided {
		images = *req.Images
	}
	if err := h.maintenanceService.Update(r.Context(), user, m, images, imagesProvided); err != nil {
		writeServiceError(w, err)
		return
	}

	updated, err := h.maintenanceService.Get(r.Context(), user, maintenanceID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMaintenanceResponse(updated))
}

// deleteMaintenance godoc
// @Summary Delete a maintenance record and its images
// @Tags maintenances
// @Param maintenanceId path string true "Maintenance ID"
// @Success 204 {string} string ""
// @Router /maintenances/{maintenanceId} [delete]
func (h *MaintenanceHandler) deleteMaintenance(w http.ResponseWriter, r *http.Request, maintenanceID string) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.maintenanceService.Delete(r.Context(), user, maintenanceID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// addImage godoc
// @Summary Attach an image to a maintenance record
// @Tags images
// @Accept json
// @Produce json
// @Param maintenanceId path string true "Maintenance ID"
// @Param image body dto.ImageUploadDTO true "Base64 data-URI payload"
// @Success 201 {object} dto.ImageResponseDTO
// @Failure 409 {string} string "image cap reached"
// @Router /maintenances/{maintenanceId}/images [post]
func (h *MaintenanceHandler) addImage(w http.ResponseWriter, r *http.Request, maintenanceID string) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.ImageUploadDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	img, err := h.imageService.Add(r.Context(), user, maintenanceID, req.Image)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.ImageResponseDTO{
		ID:            img.ID,
		MaintenanceID: img.MaintenanceID,
		Locator:       img.Locator,
		CreatedAt:     img.CreatedAt,
	})
}

func applyMaintenanceUpdate(m *model.Maintenance, req *dto.MaintenanceUpdateDTO) {
	if req.ServiceType != nil {
		m.ServiceType = *req.ServiceType
	}
	if req.Workshop != nil {
		m.Workshop = *req.Workshop
	}
	if req.Mechanic != nil {
		m.Mechanic = req.Mechanic
	}
	if req.LaborWarrantyDate != nil {
		m.LaborWarrantyDate = req.LaborWarrantyDate
	}
	if req.LaborCost != nil {
		m.LaborCost = req.LaborCost
	}
	if req.Parts != nil {
		m.Parts = req.Parts
	}
	if req.PartsStore != nil {
		m.PartsStore = req.PartsStore
	}
	if req.PartsWarrantyDate != nil {
		m.PartsWarrantyDate = req.PartsWarrantyDate
	}
	if req.PartsCost != nil {
		m.PartsCost = req.PartsCost
	}
	if req.ServiceDate != nil {
		m.ServiceDate = *req.ServiceDate
	}
}

func toMaintenanceResponse(m *model.Maintenance) dto.MaintenanceResponseDTO {
	images := make([]string, 0, len(m.Images))
	for _, img := range m.Images {
		images = append(images, img.Locator)
	}
	return dto.MaintenanceResponseDTO{
		ID:                m.ID,
		VehicleID:         m.VehicleID,
		ServiceType:       m.ServiceType,
		Workshop:          m.Workshop,
		Mechanic:          m.Mechanic,
		LaborWarrantyDate: m.LaborWarrantyDate,
		LaborCost:         m.LaborCost,
		Parts:             m.Parts,
		PartsStore:        m.PartsStore,
		PartsWarrantyDate: m.PartsWarrantyDate,
		PartsCost:         m.PartsCost,
		ServiceDate:       m.ServiceDate,
		CreatedAt:         m.CreatedAt,
		Images:            images,
	}
}
