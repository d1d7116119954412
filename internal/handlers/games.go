package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/juegos-api/backend/internal/models"
)

// ListGames handles GET /juegos
func (s *Server) ListGames(w http.ResponseWriter, r *http.Request) {
	rows, err := s.DB.QueryContext(r.Context(), `SELECT id, nombre, precio FROM juegos ORDER BY id`)
	if err != nil {
		s.respondDBError(w, r, "list games", err)
		return
	}
	defer rows.Close()

	// Initialised to empty slice so JSON encodes as [] not null when empty.
	games := []models.Game{}
	for rows.Next() {
		var g models.Game
		if err := rows.Scan(&g.ID, &g.Nombre, &g.Precio); err != nil {
			s.respondDBError(w, r, "list games", err)
			return
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		s.respondDBError(w, r, "list games", err)
		return
	}

	respond(w, http.StatusOK, games)
}

// GetGame handles GET /juegos/{id}  (token required)
//
// The id is bound as given; its numeric shape is left to the database.
func (s *Server) GetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var g models.Game
	err := s.DB.QueryRowContext(r.Context(),
		`SELECT id, nombre, precio FROM juegos WHERE id = ?`, id,
	).Scan(&g.ID, &g.Nombre, &g.Precio)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondMessage(w, http.StatusNotFound, "Juego no encontrado")
			return
		}
		s.respondDBError(w, r, "get game", err)
		return
	}

	respond(w, http.StatusOK, g)
}

// CreateGame handles POST /juegos
//
// Fields are not validated here: a missing nombre or precio is written as
// NULL and the NOT NULL constraint turns it into a 500.
func (s *Server) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGameRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	_, err := s.DB.ExecContext(r.Context(),
		`INSERT INTO juegos (nombre, precio) VALUES (?, ?)`,
		req.Nombre, req.Precio,
	)
	if err != nil {
		s.respondDBError(w, r, "create game", err)
		return
	}

	respondMessage(w, http.StatusCreated, "Juego agregado correctamente")
}

// UpdateGame handles PUT /juegos
//
// The body must carry id plus at least one column from mutableColumns.
// Only the supplied columns are assigned, in the order they appear in
// the body; column names come from the allow-list and every value is bound.
func (s *Server) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id, fields, err := parseUpdate(r.Body)
	if err != nil {
		var fe *fieldError
		switch {
		case errors.As(err, &fe):
			respondError(w, http.StatusBadRequest, fe.Error())
		case errors.Is(err, errBadUpdate):
			respondError(w, http.StatusBadRequest, "Solicitud incorrecta")
		default:
			respondError(w, http.StatusBadRequest, "JSON inválido")
		}
		return
	}

	query, args := buildUpdate(id, fields)
	res, err := s.DB.ExecContext(r.Context(), query, args...)
	if err != nil {
		s.respondDBError(w, r, "update game", err)
		return
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.respondDBError(w, r, "update game", err)
		return
	}
	if n == 0 {
		respondMessage(w, http.StatusNotFound, "Juego no encontrado")
		return
	}

	respondMessage(w, http.StatusOK, "Juego modificado correctamente")
}

// DeleteGame handles DELETE /juegos?id=
//
// A delete that matches no row still answers 200, with a negative message;
// existing clients read the message rather than the status.
func (s *Server) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		respondMessage(w, http.StatusBadRequest, "Falta el parámetro id")
		return
	}

	res, err := s.DB.ExecContext(r.Context(), `DELETE FROM juegos WHERE id = ?`, id)
	if err != nil {
		s.respondDBError(w, r, "delete game", err)
		return
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.respondDBError(w, r, "delete game", err)
		return
	}
	if n == 0 {
		respondMessage(w, http.StatusOK, "Registro No Eliminado")
		return
	}

	respondMessage(w, http.StatusOK, "Registro Eliminado")
}

// mutableColumns are the juegos columns PUT /juegos may assign.
var mutableColumns = map[string]bool{
	"nombre": true,
	"precio": true,
}

// errBadUpdate means the body lacks id or has no column to assign.
var errBadUpdate = errors.New("update needs id and at least one field")

// fieldError rejects one key of an update body.
type fieldError struct {
	field  string
	reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("campo %q: %s", e.field, e.reason)
}

// updateField is one column assignment, in request order.
type updateField struct {
	column string
	value  string
}

// parseUpdate reads a PUT /juegos body, keeping the key order of the JSON
// object. A repeated key keeps its first position and its last value.
func parseUpdate(body io.Reader) (id string, fields []updateField, err error) {
	dec := json.NewDecoder(body)

	tok, err := dec.Token()
	if err != nil {
		return "", nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return "", nil, errors.New("body must be a JSON object")
	}

	var hasID bool
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", nil, err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return "", nil, err
		}

		if key == "id" {
			if string(raw) == "null" {
				continue
			}
			v, err := models.ScalarString(raw)
			if err != nil {
				return "", nil, &fieldError{field: key, reason: err.Error()}
			}
			id, hasID = v, true
			continue
		}

		if !mutableColumns[key] {
			return "", nil, &fieldError{field: key, reason: "no se puede modificar"}
		}
		v, err := models.ScalarString(raw)
		if err != nil {
			return "", nil, &fieldError{field: key, reason: err.Error()}
		}
		fields = setField(fields, key, v)
	}

	if _, err := dec.Token(); err != nil {
		return "", nil, err
	}

	if !hasID || emptyID(id) || len(fields) == 0 {
		return "", nil, errBadUpdate
	}
	return id, fields, nil
}

func setField(fields []updateField, column, value string) []updateField {
	for i := range fields {
		if fields[i].column == column {
			fields[i].value = value
			return fields
		}
	}
	return append(fields, updateField{column: column, value: value})
}

// emptyID treats "", "0" and "false" as an absent id, matching what
// existing clients send when they have no id to give.
func emptyID(id string) bool {
	switch strings.TrimSpace(id) {
	case "", "0", "false":
		return true
	}
	return false
}

// buildUpdate renders the UPDATE statement for fields. Column names are
// only ever taken from mutableColumns, never from raw request text.
func buildUpdate(id string, fields []updateField) (string, []any) {
	assignments := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for _, f := range fields {
		assignments = append(assignments, f.column+" = ?")
		args = append(args, f.value)
	}
	args = append(args, id)
	return "UPDATE juegos SET " + strings.Join(assignments, ", ") + " WHERE id = ?", args
}
