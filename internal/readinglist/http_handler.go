package readinglist

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookrec/internal/auth"
	"bookrec/internal/httpx"
	"bookrec/internal/logging"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /reading-lists
// @Summary List the caller's reading lists
// @Tags reading-lists
// @Produce json
// @Param userId query string false "Owner, honoured only without verified claims"
// @Success 200 {array} ReadingList
// @Failure 500 {object} httpx.ErrorResponse
// @Router /reading-lists [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.CallerID(r)
	lists, err := h.service.List(r.Context(), userID)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", userID).Msg("list reading lists")
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Failed to fetch reading lists.")
		return
	}
	httpx.JSON(w, r, http.StatusOK, lists)
}

// Create handles POST /reading-lists
// @Summary Create a reading list
// @Tags reading-lists
// @Accept json
// @Produce json
// @Param request body CreateInput true "Reading list"
// @Success 201 {object} ReadingList
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /reading-lists [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if !decodeBody(w, r, &in) {
		return
	}

	userID := auth.CallerID(r)
	l, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		if errors.Is(err, ErrNameRequired) {
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "List name is required")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", userID).Msg("create reading list")
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Failed to create reading list")
		return
	}
	httpx.JSON(w, r, http.StatusCreated, l)
}

// Update handles PUT /reading-lists/{id}
// @Summary Update a reading list
// @Description Only the fields present in the body change; updatedAt is always refreshed.
// @Tags reading-lists
// @Accept json
// @Produce json
// @Param id path string true "List ID"
// @Param request body UpdateInput true "Fields to change"
// @Success 200 {object} ReadingList
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /reading-lists/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "List ID is required")
		return
	}

	var in UpdateInput
	if !decodeBody(w, r, &in) {
		return
	}

	userID := auth.CallerID(r)
	l, err := h.service.Update(r.Context(), userID, id, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrIDRequired):
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "List ID is required")
		case errors.Is(err, ErrNameRequired):
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "List name cannot be blank")
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Reading list not found")
		default:
			logging.Ctx(r.Context()).Error().Err(err).Str("list_id", id).Str("user_id", userID).Msg("update reading list")
			httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Failed to update reading list")
		}
		return
	}
	httpx.JSON(w, r, http.StatusOK, l)
}

// Delete handles DELETE /reading-lists/{id}
// @Summary Delete a reading list
// @Tags reading-lists
// @Param id path string true "List ID"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /reading-lists/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := auth.CallerID(r)
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, ErrIDRequired) {
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "List ID is required")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("list_id", id).Str("user_id", userID).Msg("delete reading list")
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Failed to delete reading list")
		return
	}
	httpx.NoContent(w)
}

// decodeBody reads a JSON body into dst. An empty body leaves dst zero.
// It writes the error response and returns false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := httpx.DecodeJSON(r, dst)
	switch {
	case err == nil, errors.Is(err, httpx.ErrEmptyBody):
		return true
	case httpx.IsTooLarge(err):
		httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, httpx.CodeTooLarge, "Request body too large")
	default:
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body")
	}
	return false
}
