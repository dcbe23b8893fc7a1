package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/autosave"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/catalog"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/planner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalog  *catalog.Catalog
	planner  *planner.Planner
	autosave *autosave.Service
	log      *slog.Logger
	apiKey   string
	origins  []string
	router   chi.Router
	now      func() time.Time

	// ctx outlives requests; the auto-save timer is bound to it.
	ctx context.Context

	mu   sync.Mutex // guards live
	live *liveSession
}

// New creates a new Server with all routes configured. The auto-save timer
// of a live session stops when ctx is done. An empty origins list allows
// browser calls from anywhere.
func New(ctx context.Context, c *catalog.Catalog, p *planner.Planner, saver *autosave.Service, apiKey string, origins []string, log *slog.Logger) *Server {
	s := &Server{
		catalog:  c,
		planner:  p,
		autosave: saver,
		log:      log,
		apiKey:   apiKey,
		origins:  origins,
		router:   chi.NewRouter(),
		now:      time.Now,
		ctx:      ctx,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(CORS(s.origins))

	// Stateless planning endpoints
	s.router.Get("/api/v1/catalog", s.handleCatalog)
	s.router.Post("/api/v1/equipment/normalize", s.handleNormalize)
	s.router.Post("/api/v1/equipment/availability", s.handleAvailability)
	s.router.Post("/api/v1/plans/day", s.handleGenerateDay)
	s.router.Post("/api/v1/plans", s.handleGeneratePlan)
	s.router.Post("/api/v1/workouts/validate", s.handleValidate)

	// Live session and drafts (API key required when configured)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/sessions", s.handleStartSession)
		r.Get("/api/v1/sessions/{id}", s.handleGetSession)
		r.Put("/api/v1/sessions/{id}", s.handleUpdateSession)
		r.Delete("/api/v1/sessions/{id}", s.handleFinishSession)
		r.Get("/api/v1/drafts/recover", s.handleRecoverDraft)
		r.Delete("/api/v1/drafts/{id}", s.handleDiscardDraft)
	})
}
