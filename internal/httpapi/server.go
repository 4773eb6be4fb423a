package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"vllmctl/pkg/types"
)

// Service defines the methods required by the supervisor HTTP API layer.
type Service interface {
	// Status probes the managed server and reports the combined view.
	Status(ctx context.Context) types.StatusResponse
	// Ready reports whether the managed server currently answers its
	// health endpoint.
	Ready(ctx context.Context) bool
}

// zlog is an optional structured logger. If unset, requests are not logged.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// NewMux builds the supervisor router: /status, /healthz, /readyz and
// /metrics. /healthz answers for the supervisor itself; /readyz reflects
// the managed server.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(MetricsMiddleware)
	r.Use(logMiddleware)

	// Status godoc
	// @Summary Combined supervisor and server status
	// @Produce json
	// @Success 200 {object} types.StatusResponse
	// @Router /status [get]
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		st := svc.Status(r.Context())
		ObserveProbe(st.Server.IsHealthy)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(st); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ready := svc.Ready(r.Context())
		ObserveProbe(ready)
		if ready {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		writeJSONError(w, http.StatusServiceUnavailable, "server not ready")
	})

	r.Handle("/metrics", promhttp.Handler())
	MountSwagger(r)
	return r
}

// logMiddleware emits one structured line per request when a logger is set.
func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if zlog == nil {
			next.ServeHTTP(w, r)
			return
		}
		sr := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(sr, r)
		ev := zlog.Info().Str("path", r.URL.Path).Str("method", r.Method).Int("status", sr.status)
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			ev = ev.Str("request_id", rid)
		}
		ev.Msg("request")
	})
}
