package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dkcal-backend/application/services"
	"dkcal-backend/pkg/errors"
)

// DayHandler handles daily ledger HTTP requests
type DayHandler struct {
	ledger *services.LedgerService
	logger *zap.Logger
}

// NewDayHandler creates a new day handler
func NewDayHandler(ledgerService *services.LedgerService, logger *zap.Logger) *DayHandler {
	return &DayHandler{ledger: ledgerService, logger: logger}
}

// GetDay handles GET /day/{date}
func (h *DayHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	day, err := h.ledger.GetDay(r.Context(), userID, chi.URLParam(r, "date"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, day)
}

// UpdateDay handles PUT /day/{date}. The body carries any combination of a
// weight change, a single entry to add, a full entry replacement, and an
// entry removal.
func (h *DayHandler) UpdateDay(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var upd services.DayUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	day, err := h.ledger.UpdateDay(r.Context(), userID, chi.URLParam(r, "date"), upd)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, day)
}
