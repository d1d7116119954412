// Package middleware provides the HTTP middleware for the juegos API.
//
// Each middleware has the shape func(http.Handler) http.Handler, so it can
// be mounted router-wide with r.Use or on a single route with r.With.
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/juegos-api/backend/internal/auth"
	"github.com/juegos-api/backend/internal/models"
)

// contextKey is a private type for context keys in this package.
type contextKey string

// ContextClaims is the key under which Authenticate stores *auth.Claims.
const ContextClaims contextKey = "claims"

// Authenticate returns a middleware that requires a valid bearer token.
//
//   - no Authorization header, or no token after "Bearer " -> 401
//   - token present but bad signature, malformed or expired -> 403
//
// On success the decoded claims are stored in the request context.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Acceso no autorizado")
				return
			}

			claims, err := auth.ParseToken(tokenStr, secret)
			if err != nil {
				writeMessage(w, http.StatusForbidden, "Token inválido")
				return
			}

			ctx := context.WithValue(r.Context(), ContextClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.MessageResponse{Mensaje: msg})
}

// GetClaims returns the claims stored by Authenticate, or nil when the
// route is not protected.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ContextClaims).(*auth.Claims)
	return claims
}

// GetUsername returns the authenticated username, or "".
func GetUsername(ctx context.Context) string {
	if c := GetClaims(ctx); c != nil {
		return c.Username
	}
	return ""
}

// CORS allows any origin to call the API from a browser, including the
// Swagger explorer served from another host. Preflight requests are
// answered with 204 and never reach the router.
func CORS() func(http.Handler) http.Handler {
	withHeaders := cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
		AllowedHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials:   true,
		OptionsPassthrough: true,
	})
	return func(next http.Handler) http.Handler {
		return withHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// AccessLog writes one record per request to logger once the handler
// returns: method, path, status, bytes written, duration, remote address
// and the chi request id.
func AccessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.LogAttrs(r.Context(), slog.LevelInfo, "request",
				slog.String("request_id", chimw.GetReqID(r.Context())),
				slog.String("remote", r.RemoteAddr),
				slog.String("method", r.Method),
				slog.String("path", r.URL.RequestURI()),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("user_agent", r.UserAgent()),
			)
		})
	}
}
