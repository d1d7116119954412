package handlers

import (
	"net/http"
	"net/url"

	"github.com/juegos-api/backend/internal/models"
)

// maxMultipartMemory caps the in-memory part of a multipart body.
const maxMultipartMemory = 1 << 20

// CreateTecForm handles POST /juegos/urlencoded
func (s *Server) CreateTecForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "formulario inválido")
		return
	}
	s.insertTec(w, r, r.PostForm)
}

// CreateTecMultipart handles POST /juegos/multipart
//
// Only text fields are accepted; a body carrying files is rejected.
func (s *Server) CreateTecMultipart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, http.StatusBadRequest, "formulario multipart inválido")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck
	if len(r.MultipartForm.File) > 0 {
		respondError(w, http.StatusBadRequest, "no se aceptan archivos")
		return
	}
	s.insertTec(w, r, r.MultipartForm.Value)
}

// insertTec writes id, nombre and apellido from values. Missing fields go
// to the database as NULL and surface as a 500.
func (s *Server) insertTec(w http.ResponseWriter, r *http.Request, values url.Values) {
	t := models.Tec{
		ID:       formText(values, "id"),
		Nombre:   formText(values, "nombre"),
		Apellido: formText(values, "apellido"),
	}

	_, err := s.DB.ExecContext(r.Context(),
		`INSERT INTO tec (id, nombre, apellido) VALUES (?, ?, ?)`,
		t.ID, t.Nombre, t.Apellido,
	)
	if err != nil {
		s.respondDBError(w, r, "create tec", err)
		return
	}

	respondMessage(w, http.StatusCreated, "Registro agregado correctamente")
}

func formText(values url.Values, key string) models.Text {
	if v, ok := values[key]; ok && len(v) > 0 {
		return models.NewText(v[0])
	}
	return models.Text{}
}
