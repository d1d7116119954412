package handlers

import (
	"net/http"

	"github.com/juegos-api/backend/internal/auth"
	"github.com/juegos-api/backend/internal/models"
)

// Login handles POST /login
//
// There is one accepted credential pair. A mismatch answers 401 with no
// hint about which half was wrong.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	if !s.Credentials.Check(req.Username, req.Password) {
		respondMessage(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}

	token, err := auth.GenerateToken(req.Username, s.Secret)
	if err != nil {
		s.logger().ErrorContext(r.Context(), "sign token", "error", err)
		respondError(w, http.StatusInternalServerError, "no se pudo generar el token")
		return
	}

	respond(w, http.StatusOK, models.LoginResponse{Token: token})
}
