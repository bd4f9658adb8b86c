package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/financeme/api/internal/lib/apperr"
	"github.com/financeme/api/internal/lib/jwt"
	"github.com/financeme/api/internal/storage/postgres"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (s *APIServer) loginHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, apperr.BadRequest("Invalid request body"))
			return
		}

		user, err := s.storage.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				s.writeError(w, apperr.Unauthorized("Invalid credentials"))
				return
			}
			s.writeError(w, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			s.writeError(w, apperr.Unauthorized("Invalid credentials"))
			return
		}

		token, err := jwt.NewToken(user.ID, string(s.jwtSecret), s.config.Jwt.Ttl)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.logger.Info("User logged in", "id", user.ID)

		s.writeJSON(w, http.StatusOK, LoginResponse{Token: token})
	}
}
