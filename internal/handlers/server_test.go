package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/juegos-api/backend/internal/auth"
	"github.com/juegos-api/backend/internal/config"
	"github.com/juegos-api/backend/internal/db"
	"github.com/juegos-api/backend/internal/models"
)

const testSecret = "handler-test-secret"

var (
	testDBCounter uint64

	// bcrypt is slow on purpose; hash the test credentials once.
	testCredentials = sync.OnceValue(func() *auth.Credentials {
		c, err := auth.NewCredentials("a", "a")
		if err != nil {
			panic(err)
		}
		return c
	})
)

// newTestServer creates a Server backed by a unique in-memory SQLite database.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	// Each test gets its own named shared-cache memory DB so connections
	// in the pool all see the same tables without interfering across tests.
	id := atomic.AddUint64(&testDBCounter, 1)
	testDB, err := db.Open(context.Background(), config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         fmt.Sprintf("file:handlers%d?mode=memory&cache=shared", id),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	})
	if err != nil {
		t.Fatalf("newTestServer: open db: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })

	return &Server{
		DB:          testDB,
		Secret:      testSecret,
		Credentials: testCredentials(),
		APIDoc:      []byte(`{"openapi":"3.0.3","info":{"title":"test","description":"overview"}}`),
	}
}

// newTestRouter wraps srv in the full router with a discarded access log.
func newTestRouter(srv *Server) http.Handler {
	return NewRouter(srv, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// do sends req through h and returns the recorder.
func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// jsonBody encodes v to JSON and returns a bytes.Buffer.
func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("jsonBody: %v", err)
	}
	return buf
}

// decodeBody decodes the recorder body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// mensaje returns the "mensaje" field of a JSON response.
func mensaje(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var m models.MessageResponse
	decodeBody(t, rec, &m)
	return m.Mensaje
}

// seedGame inserts a game directly and returns its id.
func seedGame(t *testing.T, srv *Server, nombre, precio string) int64 {
	t.Helper()
	res, err := srv.DB.Exec(`INSERT INTO juegos (nombre, precio) VALUES (?, ?)`, nombre, precio)
	if err != nil {
		t.Fatalf("seedGame: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seedGame: %v", err)
	}
	return id
}

// validToken returns a token signed with the test secret.
func validToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken("a", testSecret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

// getGame issues GET /juegos/{id} with the given bearer token ("" for none).
func getGame(h http.Handler, id any, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/juegos/%v", id), nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return do(h, req)
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(b)
}
