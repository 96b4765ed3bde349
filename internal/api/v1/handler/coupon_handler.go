package handler

import (
	"encoding/json"
	"net/http"

	"garagelog/internal/api/v1/dto"
	"garagelog/internal/middleware"
	"garagelog/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type CouponHandler struct {
	couponService service.CouponService
	validate      *validator.Validate
	logger        zerolog.Logger
}

func NewCouponHandler(couponService service.CouponService, v *validator.Validate, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{couponService: couponService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 coupon routes.
func (h *CouponHandler) RegisterRoutes(mux *http.ServeMux, authMw, userMw func(http.Handler) http.Handler) {
	mux.Handle("/coupons/redeem", authMw(userMw(http.HandlerFunc(h.redeem))))
}

// redeem godoc
// @Summary Redeem a coupon code to extend the subscription
// @Tags coupons
// @Accept json
// @Produce json
// @Param coupon body dto.CouponRedeemDTO true "Coupon code"
// @Success 200 {object} dto.CouponRedeemResponseDTO
// @Failure 409 {string} string "coupon already used"
// @Router /coupons/redeem [post]
func (h *CouponHandler) redeem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.CouponRedeemDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	newEnd, err := h.couponService.Redeem(r.Context(), user, req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CouponRedeemResponseDTO{
		Tier:                string(user.Tier),
		SubscriptionEndDate: newEnd,
	})
}
