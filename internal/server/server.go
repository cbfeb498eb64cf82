// Package server assembles the HTTP router shared by the standalone server and
// the serverless adapter.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookrec/internal/auth"
	"bookrec/internal/book"
	"bookrec/internal/httpx"
	"bookrec/internal/logging"
	"bookrec/internal/readinglist"
	"bookrec/internal/recommend"
)

const readyTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Options struct {
	Books           *book.HTTPHandler
	ReadingLists    *readinglist.HTTPHandler
	Recommendations *recommend.HTTPHandler

	// Verifier checks bearer tokens; nil leaves them unverified.
	Verifier       auth.Verifier
	AllowAnonymous bool
	AdminGroup     string

	MaxBodyBytes int64
	EnableHSTS   bool

	// Ready is checked by /readyz; nil always reports ready.
	Ready []Pinger
}

// NewRouter returns the service's routes behind the middleware chain. CORS runs
// first so that OPTIONS on any path is answered before routing or auth.
func NewRouter(opts Options) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}

	r := chi.NewRouter()
	r.Use(httpx.CORSMiddleware)
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware)
	r.Use(httpx.RecoveryMiddleware)
	r.Use(httpx.SecurityHeadersMiddleware(opts.EnableHSTS))
	r.Use(httpx.RequestSizeLimitMiddleware(opts.MaxBodyBytes))
	r.Use(httpx.AuthMiddleware(opts.Verifier))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", readyHandler(opts.Ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if opts.Books != nil {
		r.Route("/books", func(r chi.Router) {
			r.Get("/", opts.Books.List)
			r.Get("/{id}", opts.Books.Get)
			r.With(httpx.RequireGroup(opts.AdminGroup)).Post("/", opts.Books.Create)
		})
	}

	if opts.ReadingLists != nil {
		r.Route("/reading-lists", func(r chi.Router) {
			r.Use(httpx.RequireIdentity(opts.AllowAnonymous))
			r.Get("/", opts.ReadingLists.List)
			r.Post("/", opts.ReadingLists.Create)
			r.Put("/{id}", opts.ReadingLists.Update)
			r.Delete("/{id}", opts.ReadingLists.Delete)
			// Without an id the handlers answer 400.
			r.Put("/", opts.ReadingLists.Update)
			r.Delete("/", opts.ReadingLists.Delete)
		})
	}

	if opts.Recommendations != nil {
		r.With(httpx.RequireIdentity(opts.AllowAnonymous)).
			Post("/recommendations", opts.Recommendations.Recommend)
	}

	return r
}

func readyHandler(checks []Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		for _, c := range checks {
			if err := c.Ping(ctx); err != nil {
				logging.Ctx(r.Context()).Warn().Err(err).Msg("readiness check failed")
				httpx.JSONError(w, r, http.StatusServiceUnavailable, httpx.CodeUnavailable, "Store not ready")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}
