package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"dkcal-backend/application/services"
	"dkcal-backend/pkg/auth"
	"dkcal-backend/pkg/errors"
	"dkcal-backend/pkg/utils"
)

// EstimateHandler handles nutrition estimation HTTP requests. Both
// endpoints are rate limited per user since they call a paid external API.
type EstimateHandler struct {
	estimator *services.EstimatorService
	limiter   *auth.UserRateLimiter
	logger    *zap.Logger
}

// NewEstimateHandler creates a new estimate handler
func NewEstimateHandler(estimator *services.EstimatorService, limiter *auth.UserRateLimiter, logger *zap.Logger) *EstimateHandler {
	return &EstimateHandler{estimator: estimator, limiter: limiter, logger: logger}
}

// EstimateRequest is the body for POST /estimate
type EstimateRequest struct {
	Description string `json:"description" validate:"required,min=2,max=500"`
	Unit        string `json:"unit" validate:"omitempty,oneof=100g 100ml portion"`
	Name        string `json:"name" validate:"omitempty,max=200"`
}

// EstimateImageRequest is the body for POST /estimate/image
type EstimateImageRequest struct {
	Image string `json:"image" validate:"required"`
	Unit  string `json:"unit" validate:"omitempty,oneof=100g 100ml portion"`
	Name  string `json:"name" validate:"omitempty,max=200"`
}

// EstimateText handles POST /estimate
func (h *EstimateHandler) EstimateText(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	if !h.allow(w, r, userID) {
		return
	}

	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, errors.NewValidationError(err.Error()))
		return
	}

	estimate, err := h.estimator.EstimateText(r.Context(), req.Description, req.Unit, req.Name)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, estimate)
}

// EstimateImage handles POST /estimate/image with a base64-encoded JPEG.
func (h *EstimateHandler) EstimateImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	if !h.allow(w, r, userID) {
		return
	}

	var req EstimateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, errors.NewValidationError(err.Error()))
		return
	}

	estimate, err := h.estimator.EstimateImage(r.Context(), req.Image, req.Unit, req.Name)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, estimate)
}

func (h *EstimateHandler) allow(w http.ResponseWriter, r *http.Request, userID string) bool {
	allowed, err := h.limiter.Allow(r.Context(), userID)
	if err != nil || !allowed {
		respondJSON(w, h.logger, http.StatusTooManyRequests, map[string]interface{}{
			"error":   true,
			"message": "Rate limit exceeded",
			"code":    http.StatusTooManyRequests,
		})
		return false
	}
	return true
}
