package recommend

import (
	"errors"
	"net/http"

	"bookrec/internal/auth"
	"bookrec/internal/httpx"
	"bookrec/internal/logging"
)

// FailureResponse is the 500 body of a failed recommendation request.
type FailureResponse struct {
	Error       string `json:"error"`
	Code        string `json:"code"`
	Details     string `json:"details,omitempty"`
	RawResponse string `json:"rawResponse,omitempty"`
}

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Recommend handles POST /recommendations
// @Summary Get book recommendations for a free-text query
// @Tags recommendations
// @Accept json
// @Produce json
// @Param request body Request true "Query"
// @Success 200 {object} Response
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} FailureResponse
// @Router /recommendations [post]
func (h *HTTPHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		if httpx.IsTooLarge(err) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, httpx.CodeTooLarge, "Request body too large")
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body")
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", auth.CallerID(r)).Msg("recommendation request")

	recs, err := h.service.Recommend(r.Context(), req.Query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, r, http.StatusOK, Response{Recommendations: recs})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrQueryRequired) {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Query is required")
		return
	}

	var recErr *Error
	if !errors.As(err, &recErr) {
		logging.Ctx(r.Context()).Error().Err(err).Msg("recommend")
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Failed to get recommendations")
		return
	}

	body := FailureResponse{Code: string(recErr.Kind), RawResponse: recErr.Raw}
	switch recErr.Kind {
	case KindParse, KindInvalidStructure:
		body.Error = "Failed to parse AI response"
		body.Details = "Parse error: " + recErr.Message
	default:
		body.Error = "Failed to get recommendations"
		body.Details = recErr.Message
	}
	httpx.JSON(w, r, http.StatusInternalServerError, body)
}
