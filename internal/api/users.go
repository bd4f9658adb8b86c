package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/financeme/api/internal/domain/models"
	"github.com/financeme/api/internal/lib/apperr"
	"github.com/financeme/api/internal/storage/postgres"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req CreateUserRequest) Validate() error {
	if len(req.Name) < 2 || len(req.Name) > 32 {
		return apperr.BadRequest("Name must be between 2 and 32 characters")
	}
	if len(req.Email) < 6 || len(req.Email) > 255 {
		return apperr.BadRequest("E-mail must be between 6 and 255 characters")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return apperr.BadRequest("Invalid E-mail")
	}
	if len(req.Password) < 6 {
		return apperr.BadRequest("Password must be at least 6 characters")
	}
	return nil
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (req UpdateUserRequest) Validate() error {
	if req.Name != nil && (len(*req.Name) < 2 || len(*req.Name) > 32) {
		return apperr.BadRequest("Name must be between 2 and 32 characters")
	}
	if req.Password != nil && len(*req.Password) < 6 {
		return apperr.BadRequest("Password must be at least 6 characters")
	}
	return nil
}

type UserResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Email        string                `json:"email"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Transactions []TransactionResponse `json:"transactions"`
}

// toUserResponse projects a stored user onto the response shape,
// stripping the password hash and rendering cent amounts as units.
func toUserResponse(user *models.User) UserResponse {
	transactions := make([]TransactionResponse, 0, len(user.Transactions))
	for _, t := range user.Transactions {
		transactions = append(transactions, toTransactionResponse(&t))
	}

	return UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
		Transactions: transactions,
	}
}

func (s *APIServer) createUserHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, apperr.BadRequest("Invalid request body"))
			return
		}

		if err := req.Validate(); err != nil {
			s.writeError(w, err)
			return
		}

		passHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.writeError(w, err)
			return
		}

		user := models.User{
			ID:           uuid.NewString(),
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: string(passHash),
		}

		if err := s.storage.SaveUser(r.Context(), &user); err != nil {
			if postgres.IsUniqueViolation(err) {
				s.writeError(w, apperr.BadRequest("The E-mail is Already Used"))
				return
			}
			s.writeError(w, err)
			return
		}

		s.logger.Info("User created", "id", user.ID)

		s.writeJSON(w, http.StatusCreated, toUserResponse(&user))
	}
}

func (s *APIServer) listUsersHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := s.storage.GetUsers(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}

		res := make([]UserResponse, 0, len(users))
		for i := range users {
			res = append(res, toUserResponse(&users[i]))
		}

		s.writeJSON(w, http.StatusOK, res)
	}
}

func (s *APIServer) getUserHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if _, err := uuid.Parse(id); err != nil {
			s.writeError(w, apperr.BadRequest("Invalid user id"))
			return
		}

		user, err := s.storage.GetUserByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				s.writeError(w, apperr.NotFound("User Not Found!"))
				return
			}
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, toUserResponse(user))
	}
}

func (s *APIServer) updateUserHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if _, err := uuid.Parse(id); err != nil {
			s.writeError(w, apperr.BadRequest("Invalid user id"))
			return
		}

		var req UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, apperr.BadRequest("Invalid request body"))
			return
		}

		if err := req.Validate(); err != nil {
			s.writeError(w, err)
			return
		}

		user, err := s.storage.GetUserByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				s.writeError(w, apperr.NotFound("User Not Found!"))
				return
			}
			s.writeError(w, err)
			return
		}

		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Password != nil {
			passHash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				s.writeError(w, err)
				return
			}
			user.PasswordHash = string(passHash)
		}

		if err := s.storage.UpdateUser(r.Context(), user); err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				s.writeError(w, apperr.NotFound("User Not Found!"))
				return
			}
			s.writeError(w, err)
			return
		}

		s.logger.Info("User updated", "id", user.ID)

		s.writeJSON(w, http.StatusOK, toUserResponse(user))
	}
}

func (s *APIServer) deleteUserHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if _, err := uuid.Parse(id); err != nil {
			s.writeError(w, apperr.BadRequest("Invalid user id"))
			return
		}

		if _, err := s.storage.GetUserByID(r.Context(), id); err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				s.writeError(w, apperr.NotFound("User Not Found!"))
				return
			}
			s.writeError(w, err)
			return
		}

		if err := s.storage.DeleteUser(r.Context(), id); err != nil {
			s.writeError(w, err)
			return
		}

		s.logger.Info("User deleted", "id", id)

		w.WriteHeader(http.StatusNoContent)
	}
}
