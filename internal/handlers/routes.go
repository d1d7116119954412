package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/juegos-api/backend/internal/middleware"
)

// healthTimeout bounds the pool ping behind GET /health.
const healthTimeout = 2 * time.Second

// NewRouter registers every route of the API on a chi router.
//
// Router-wide middleware runs in order: request id, real client ip,
// access log, panic recovery, CORS. Authentication is mounted per route
// with r.With so only GET /juegos/{id} requires a token.
func NewRouter(s *Server, accessLog *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(accessLog))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS())

	requireToken := middleware.Authenticate(s.Secret)

	r.Get("/", Hello)
	r.Get("/health", s.Health)

	r.Route("/juegos", func(r chi.Router) {
		r.Get("/", s.ListGames)
		r.Post("/", s.CreateGame)
		r.Put("/", s.UpdateGame)
		r.Delete("/", s.DeleteGame)
		r.Post("/urlencoded", s.CreateTecForm)
		r.Post("/multipart", s.CreateTecMultipart)
		r.With(requireToken).Get("/{id}", s.GetGame)
	})

	r.Post("/login", s.Login)

	r.Get(apiDocJSONPath, s.APIDocJSON)
	r.Get("/api-docs-redoc", Redoc)
	r.Get("/api-docs", redirectToExplorer)
	r.Get("/api-docs/", redirectToExplorer)
	r.Get("/api-docs/*", SwaggerUI())

	return r
}

func redirectToExplorer(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api-docs/index.html", http.StatusMovedPermanently)
}

// Hello handles GET /
func Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("hello, world!"))
}

// Health handles GET /health by pinging the pool.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.DB.PingContext(ctx); err != nil {
		s.logger().WarnContext(r.Context(), "health check failed", "error", err)
		respond(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
