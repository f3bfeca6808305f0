package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"dkcal-backend/application/services"
	"dkcal-backend/pkg/utils"
)

// StatsHandler handles statistics HTTP requests
type StatsHandler struct {
	stats  *services.StatsService
	logger *zap.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *services.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{stats: statsService, logger: logger}
}

// GetStats handles GET /stats?from=YYYY-MM-DD&to=YYYY-MM-DD. The range
// defaults to the last 30 days.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	to := r.URL.Query().Get("to")
	if to == "" {
		to = utils.Today()
	}
	from := r.URL.Query().Get("from")
	if from == "" {
		from = utils.AddDays(to, -29)
	}

	stats, err := h.stats.Compute(r.Context(), userID, from, to)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, stats)
}
