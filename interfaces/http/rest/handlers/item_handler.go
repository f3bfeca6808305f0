package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dkcal-backend/application/services"
	"dkcal-backend/domain/catalog"
	"dkcal-backend/pkg/errors"
)

// ItemHandler handles catalog item HTTP requests
type ItemHandler struct {
	catalog *services.CatalogService
	logger  *zap.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(catalogService *services.CatalogService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{catalog: catalogService, logger: logger}
}

// ListItems handles GET /items?search=
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	items, err := h.catalog.List(r.Context(), userID, r.URL.Query().Get("search"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, items)
}

// CreateItem handles POST /items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var draft catalog.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	item, err := h.catalog.Create(r.Context(), userID, draft)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, item)
}

// UpdateItem handles PUT /items/{itemID}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "itemID")

	var draft catalog.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	item, err := h.catalog.Update(r.Context(), userID, itemID, draft)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, item)
}

// DeleteItem handles DELETE /items/{itemID}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "itemID")

	if err := h.catalog.Delete(r.Context(), userID, itemID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]bool{"ok": true})
}
