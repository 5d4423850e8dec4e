package httpapi

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"speechd/internal/manager"
	"speechd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	List() []string
	Load(ctx context.Context, modelID string) (*manager.Lease, error)
	Release(l *manager.Lease)
	Unload(modelID string) error
	ListModels() ([]types.Model, error)
	Status() types.StatusResponse
	Transcribe(ctx context.Context, modelID string, audio io.Reader, opts manager.TranscribeOptions) (manager.Transcript, error)
	IsOverloaded(limit *int) bool
	ActiveTranscriptions() int64
}

func NewMux(svc Service) http.Handler {
	gaugeSvc.Store(&svc)

	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(MetricsMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	if corsEnabled {
		r.Use(cors.Handler(corsOptions()))
	}
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5, "application/json"))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(InflightMiddleware)

		r.Get("/health", healthHandler(svc))
		r.Get("/api/ps", listLoadedHandler(svc))
		r.Post("/api/ps/*", loadHandler(svc))
		r.Delete("/api/ps/*", unloadHandler(svc))
		r.Get("/status", statusHandler(svc))
		r.Get("/v1/models", modelsHandler(svc))
		r.Post("/v1/audio/transcriptions", transcriptionHandler(svc))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

func corsOptions() cors.Options {
	opts := cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: corsAllowedMethods,
		AllowedHeaders: corsAllowedHeaders,
		MaxAge:         300,
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if len(opts.AllowedMethods) == 0 {
		opts.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	}
	if len(opts.AllowedHeaders) == 0 {
		opts.AllowedHeaders = []string{"Accept", "Content-Type", "X-Request-ID", "X-Log-Level"}
	}
	return opts
}
