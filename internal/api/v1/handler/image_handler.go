package handler

import (
	"net/http"
	"strings"

	"garagelog/internal/middleware"
	"garagelog/internal/service"

	"github.com/rs/zerolog"
)

type ImageHandler struct {
	imageService service.ImageService
	logger       zerolog.Logger
}

func NewImageHandler(imageService service.ImageService, logger zerolog.Logger) *ImageHandler {
	return &ImageHandler{imageService: imageService, logger: logger}
}

// RegisterRoutes mounts v1 image routes. Uploads go through the
// maintenance handler; this one only serves deletion by image id.
func (h *ImageHandler) RegisterRoutes(mux *http.ServeMux, authMw, userMw func(http.Handler) http.Handler) {
	mux.Handle("/images/", authMw(userMw(http.HandlerFunc(h.deleteImage))))
}

// deleteImage godoc
// @Summary Delete an attached image
// @Tags images
// @Param imageId path string true "Image ID"
// @Success 204 {string} string ""
// @Router /images/{imageId} [delete]
func (h *ImageHandler) deleteImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	imageID := strings.TrimPrefix(r.URL.Path, "/images/")
	if err := h.imageService.Delete(r.Context(), user, imageID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
