package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"github.com/maniadelimpeza/crm-api/internal/service"
	"go.uber.org/zap"
)

type QuoteItemHandler struct {
	itemService *service.QuoteItemService
	logger      *zap.Logger
}

func NewQuoteItemHandler(itemService *service.QuoteItemService, logger *zap.Logger) *QuoteItemHandler {
	return &QuoteItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// Add godoc
// @Summary Add an item to a quote
// @Description Appends the item at the end of the quote and recalculates the quote total
// @Tags QuoteItems
// @Accept json
// @Produce json
// @Param quoteId path string true "Quote ID"
// @Param request body domain.AddQuoteItemRequest true "Item data"
// @Success 201 {object} domain.QuoteItemDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /quotes/{quoteId}/items [post]
func (h *QuoteItemHandler) Add(w http.ResponseWriter, r *http.Request) {
	quoteID, err := uuid.Parse(chi.URLParam(r, "quoteId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	var req domain.AddQuoteItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.itemService.AddItem(r.Context(), quoteID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// Update godoc
// @Summary Update a quote item
// @Description Recalculates the item total and the parent quote total
// @Tags QuoteItems
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body domain.UpdateQuoteItemRequest true "Item data"
// @Success 200 {object} domain.QuoteItemDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /quote-items/{id} [put]
func (h *QuoteItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req domain.UpdateQuoteItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.itemService.UpdateItem(r.Context(), itemID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Delete godoc
// @Summary Delete a quote item
// @Description Refuses to delete the last remaining item of a quote
// @Tags QuoteItems
// @Param id path string true "Item ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Security BearerAuth
// @Router /quote-items/{id} [delete]
func (h *QuoteItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.itemService.DeleteItem(r.Context(), itemID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Reorder godoc
// @Summary Reorder the items of a quote
// @Description The submitted ID list must exactly match the quote's items; order follows the list position
// @Tags QuoteItems
// @Accept json
// @Param quoteId path string true "Quote ID"
// @Param request body domain.ReorderQuoteItemsRequest true "Ordered item IDs"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Security BearerAuth
// @Router /quotes/{quoteId}/items/reorder [post]
func (h *QuoteItemHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	quoteID, err := uuid.Parse(chi.URLParam(r, "quoteId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	var req domain.ReorderQuoteItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := h.itemService.ReorderItems(r.Context(), quoteID, req.ItemIDs); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
