package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"dkcal-backend/pkg/auth"
	"dkcal-backend/pkg/errors"
)

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	errors.WriteError(w, logger, err)
}

// requestUserID returns the authenticated user for the request. The auth
// middleware guarantees it is present on every API route.
func requestUserID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, logger, errors.NewUnauthorizedError(""))
		return "", false
	}
	return user.UserID, true
}
