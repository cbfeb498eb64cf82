package book

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"bookrec/internal/httpx"
	"bookrec/internal/logging"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /books
// @Summary List the catalog
// @Tags books
// @Produce json
// @Success 200 {array} Book
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		// Store failures on this route answer 404, not 500.
		logging.Ctx(r.Context()).Error().Err(err).Msg("list books")
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Failed to fetch books")
		return
	}
	httpx.JSON(w, r, http.StatusOK, books)
}

// Get handles GET /books/{id}
// @Summary Get a catalog entry
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Book ID is required")
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("book_id", id).Msg("get book")
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Failed to fetch the book.")
		return
	}
	httpx.JSON(w, r, http.StatusOK, b)
}

// Create handles POST /books
// @Summary Add a catalog entry
// @Description Requires a verified caller in the admin group.
// @Tags books
// @Accept json
// @Produce json
// @Param request body CreateInput true "Book"
// @Success 201 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		if httpx.IsTooLarge(err) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, httpx.CodeTooLarge, "Request body too large")
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body")
		return
	}
	if errs := httpx.ValidateStruct(in); len(errs) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, httpx.ValidationMessage(errs))
		return
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("create book")
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Failed to create the book.")
		return
	}
	logging.Ctx(r.Context()).Info().Str("book_id", b.ID).Msg("book created")
	httpx.JSON(w, r, http.StatusCreated, b)
}
