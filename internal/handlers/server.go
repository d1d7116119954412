// Package handlers contains the HTTP handlers of the juegos API.
//
// ────────────────────────────────────────────────────────────────────
// LEARNING NOTE: package structure
// ────────────────────────────────────────────────────────────────────
// All handlers hang off Server, which holds what every request needs:
// the connection pool, the token secret, the accepted credentials and a
// logger. Nothing on Server changes after startup, so concurrent requests
// share it without locks. Tests build their own Server over a private
// in-memory SQLite database.
package handlers

import (
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/juegos-api/backend/internal/auth"
	"github.com/juegos-api/backend/internal/db"
	"github.com/juegos-api/backend/internal/models"
)

// Server holds shared dependencies for all handlers.
type Server struct {
	// DB is the bounded connection pool built by db.Open.
	DB *sql.DB
	// Secret is the HMAC key used to sign and verify tokens.
	Secret string
	// Credentials is the single login accepted by /login.
	Credentials *auth.Credentials
	// Logger receives handler failures. Nil discards them.
	Logger *slog.Logger
	// APIDoc is the merged OpenAPI document served at /api-docs-json.
	APIDoc []byte
}

// respond writes v as JSON with the given HTTP status code.
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondMessage sends {"mensaje": msg}.
func respondMessage(w http.ResponseWriter, status int, msg string) {
	respond(w, status, models.MessageResponse{Mensaje: msg})
}

// respondError sends {"error": msg}.
func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"error": msg})
}

// respondDBError logs err and sends a 500 carrying the error text and,
// for MySQL, the server's own message.
func (s *Server) respondDBError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger().ErrorContext(r.Context(), "database error",
		"op", op,
		"request_id", chimw.GetReqID(r.Context()),
		"error", err,
	)
	respond(w, http.StatusInternalServerError, models.ErrorResponse{
		Mensaje: "Error de conexión",
		Tipo:    err.Error(),
		SQL:     db.ServerMessage(err),
	})
}

// decode reads and parses a JSON request body into v.
func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}
