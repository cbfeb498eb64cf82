package httpx

import (
	"net/http"
	"strings"

	"bookrec/internal/auth"
	"bookrec/internal/logging"
)

// AuthMiddleware verifies an Authorization bearer token when one is sent.
// Requests without the header continue unverified; a present but invalid
// token is rejected with 401. A nil verifier ignores bearer tokens.
func AuthMiddleware(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if verifier == nil || header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				JSONError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
				return
			}

			claims, err := verifier.Verify(r.Context(), strings.TrimSpace(token))
			if err != nil {
				logging.Ctx(r.Context()).Warn().Err(err).Msg("bearer token rejected")
				JSONError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
				return
			}

			noteCaller(r.Context(), auth.IdentityFromClaims(claims))
			next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
		})
	}
}

// RequireIdentity rejects requests without verified claims unless anonymous
// callers are allowed.
func RequireIdentity(allowAnonymous bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowAnonymous && auth.IdentityFromClaims(auth.ClaimsFrom(r.Context())) == "" {
				JSONError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireGroup allows only verified callers in group: 401 without claims, 403 otherwise.
func RequireGroup(group string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.ClaimsFrom(r.Context())
			if claims == nil {
				JSONError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
				return
			}
			if !claims.InGroup(group) {
				JSONError(w, r, http.StatusForbidden, CodeForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
