// Package server exposes the generation pipeline over an HTTP JSON API.
// Responses share a {success, data, error} envelope; the plan endpoint
// additionally streams server-sent events.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/pitchforge/pitchforge/internal/extract"
	"github.com/pitchforge/pitchforge/internal/finmodel"
	"github.com/pitchforge/pitchforge/internal/plan"
	"github.com/pitchforge/pitchforge/internal/questionnaire"
	"github.com/pitchforge/pitchforge/internal/store"
	"github.com/pitchforge/pitchforge/pkg/llm"
)

// Config tunes the HTTP layer.
type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	AllowedOrigins []string
}

// Server routes API requests to the generation pipeline and the store.
type Server struct {
	extractor *extract.Extractor
	planGen   *plan.Generator
	finGen    *finmodel.Generator
	questGen  *questionnaire.Generator
	store     store.Store
	router    chi.Router
}

// New builds a Server with all routes and middleware installed.
func New(client llm.Client, st store.Store, cfg Config) *Server {
	s := &Server{
		extractor: extract.NewExtractor(client),
		planGen:   plan.NewGenerator(client),
		finGen:    finmodel.NewGenerator(client),
		questGen:  questionnaire.NewGenerator(client),
		store:     st,
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 10
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(rps), burst)))

		r.Post("/extract", s.handleExtract)
		r.Post("/plan", s.handlePlan)
		r.Post("/financial-model", s.handleFinancialModel)
		r.Post("/questionnaire", s.handleQuestionnaire)
		r.Post("/competitor-analysis", s.handleCompetitorAnalysis)

		r.Route("/history", func(r chi.Router) {
			r.Post("/", s.handleHistorySave)
			r.Get("/", s.handleHistoryList)
			r.Get("/{id}", s.handleHistoryGet)
			r.Delete("/{id}", s.handleHistoryDelete)
		})
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
