package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/maniadelimpeza/crm-api/internal/domain"
	"github.com/maniadelimpeza/crm-api/internal/service"
	"go.uber.org/zap"
)

type CoworkerHandler struct {
	coworkerService *service.CoworkerService
	logger          *zap.Logger
}

func NewCoworkerHandler(coworkerService *service.CoworkerService, logger *zap.Logger) *CoworkerHandler {
	return &CoworkerHandler{
		coworkerService: coworkerService,
		logger:          logger,
	}
}

// List godoc
// @Summary List coworkers
// @Description Admin only. Inactive coworkers are excluded unless includeInactive=true.
// @Tags Coworkers
// @Produce json
// @Param includeInactive query bool false "Include deactivated coworkers"
// @Success 200 {array} domain.UserDTO
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /coworkers [get]
func (h *CoworkerHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("includeInactive"))

	result, err := h.coworkerService.List(r.Context(), includeInactive)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Get godoc
// @Summary Get a coworker by ID
// @Tags Coworkers
// @Produce json
// @Param id path string true "Coworker ID"
// @Success 200 {object} domain.UserDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /coworkers/{id} [get]
func (h *CoworkerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid coworker ID")
		return
	}

	result, err := h.coworkerService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create a coworker
// @Description Admin only. The requested profile must be employee.
// @Tags Coworkers
// @Accept json
// @Produce json
// @Param request body domain.CreateCoworkerRequest true "Coworker data"
// @Success 201 {object} domain.UserDTO
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /coworkers [post]
func (h *CoworkerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCoworkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.coworkerService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Warn("failed to create coworker", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// Update godoc
// @Summary Update a coworker
// @Description Coworkers may edit themselves; editing others requires an admin profile
// @Tags Coworkers
// @Accept json
// @Produce json
// @Param id path string true "Coworker ID"
// @Param request body domain.UpdateCoworkerRequest true "Coworker data"
// @Success 200 {object} domain.UserDTO
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /coworkers/{id} [put]
func (h *CoworkerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid coworker ID")
		return
	}

	var req domain.UpdateCoworkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.coworkerService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Deactivate godoc
// @Summary Deactivate a coworker
// @Description Admin only. Sets the profile to inactive; the record is kept.
// @Tags Coworkers
// @Param id path string true "Coworker ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /coworkers/{id} [delete]
func (h *CoworkerHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid coworker ID")
		return
	}

	if err := h.coworkerService.Deactivate(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Reactivate godoc
// @Summary Reactivate a coworker
// @Description Admin only. Restores an inactive coworker to the employee profile.
// @Tags Coworkers
// @Param id path string true "Coworker ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /coworkers/{id}/reactivate [post]
func (h *CoworkerHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid coworker ID")
		return
	}

	if err := h.coworkerService.Reactivate(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
