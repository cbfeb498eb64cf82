package httpx

import (
	"net/http"

	"github.com/google/uuid"

	"bookrec/internal/logging"
)

const requestIDHeader = "X-Request-Id"

// RequestIDMiddleware echoes or generates X-Request-Id and stores a logger
// carrying request_id in the request context.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, requestID)
		ctx := ContextWithRequestID(r.Context(), requestID)
		ctx = logging.WithContext(ctx, logging.With().Str("request_id", requestID).Logger())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
