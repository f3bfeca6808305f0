package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"dkcal-backend/application/services"
	"dkcal-backend/domain/profile"
	"dkcal-backend/pkg/errors"
)

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	profiles *services.ProfileService
	logger   *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profileService, logger: logger}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	p, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, p)
}

// UpdateProfile handles PUT /profile with a partial patch.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var patch profile.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	p, err := h.profiles.Update(r.Context(), userID, patch)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, p)
}
