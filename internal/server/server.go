// Package server exposes the pipeline over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/sells-group/glance/internal/config"
	"github.com/sells-group/glance/internal/model"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Service is the pipeline surface the handlers call.
type Service interface {
	Analyze(ctx context.Context, env model.QueryEnvelope) (*model.AnalysisResponse, error)
	Profile(ctx context.Context, firmName string) (*model.ProfileResponse, error)
	FirmTicker(ctx context.Context, firmName string) (*model.FirmTicker, error)
}

// Server holds the router and its dependencies.
type Server struct {
	svc     Service
	cfg     config.ServerConfig
	limiter *rate.Limiter
	router  chi.Router
}

// New builds the router. A non-positive rate limit disables limiting.
func New(svc Service, cfg config.ServerConfig) *Server {
	s := &Server{svc: svc, cfg: cfg}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(recoverer)
	r.Use(observe)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/message", s.handleMessage)
		r.Post("/ticker", s.handleProfile)
		r.Post("/firm-ticker", s.handleFirmTicker)
	})
	return r
}
