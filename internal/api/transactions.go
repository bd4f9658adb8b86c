package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/financeme/api/internal/domain/models"
	"github.com/financeme/api/internal/lib/apperr"
	"github.com/financeme/api/internal/lib/money"
	"github.com/financeme/api/internal/storage/postgres"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type CreateTransactionRequest struct {
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Amount      *float64 `json:"amount"`
}

func (req CreateTransactionRequest) Validate() error {
	if strings.TrimSpace(req.Description) == "" {
		return apperr.BadRequest("Description must not be empty")
	}
	if !models.TransactionType(req.Type).Valid() {
		return apperr.BadRequest("Type must be income or expense")
	}
	if req.Amount == nil {
		return apperr.BadRequest("Amount is required")
	}
	return nil
}

type UpdateTransactionRequest struct {
	Description *string  `json:"description"`
	Type        *string  `json:"type"`
	Amount      *float64 `json:"amount"`
}

func (req UpdateTransactionRequest) Validate() error {
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		return apperr.BadRequest("Description must not be empty")
	}
	if req.Type != nil && !models.TransactionType(*req.Type).Valid() {
		return apperr.BadRequest("Type must be income or expense")
	}
	return nil
}

type TransactionResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTransactionResponse(transaction *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          transaction.ID,
		Description: transaction.Description,
		Type:        string(transaction.Type),
		Amount:      money.ToUnits(transaction.AmountCents),
		CreatedAt:   transaction.CreatedAt,
		UpdatedAt:   transaction.UpdatedAt,
	}
}

func (s *APIServer) createTransactionHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, apperr.BadRequest("Invalid request body"))
			return
		}

		if err := req.Validate(); err != nil {
			s.writeError(w, err)
			return
		}

		amountCents, err := money.ToCents(*req.Amount)
		if err != nil {
			s.writeError(w, apperr.BadRequest("Amount must be a non-negative number"))
			return
		}

		// The owner is always the authenticated caller, never a body field.
		ownerID := callerID(r)

		if _, err := s.storage.GetUserByID(r.Context(), ownerID); err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				s.writeError(w, apperr.BadRequest("User Not Found!"))
				return
			}
			s.writeError(w, err)
			return
		}

		transaction := models.Transaction{
			ID:          uuid.NewString(),
			Description: req.Description,
			Type:        models.TransactionType(req.Type),
			AmountCents: amountCents,
			UserID:      ownerID,
		}

		if err := s.storage.SaveTransaction(r.Context(), &transaction); err != nil {
			s.writeError(w, apperr.BadRequest("Error while creating transaction"))
			return
		}

		s.logger.Info("Transaction created", "id", transaction.ID, "user_id", ownerID)

		s.writeJSON(w, http.StatusCreated, toTransactionResponse(&transaction))
	}
}

func (s *APIServer) getTransactionHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		transaction, err := s.storage.GetTransactionByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				s.writeError(w, apperr.NotFound("Transaction Not Found!"))
				return
			}
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, toTransactionResponse(transaction))
	}
}

func (s *APIServer) updateTransactionHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var req UpdateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, apperr.BadRequest("Invalid request body"))
			return
		}

		if err := req.Validate(); err != nil {
			s.writeError(w, err)
			return
		}

		transaction, err := s.storage.GetTransactionByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				s.writeError(w, apperr.NotFound("Transaction Not Found!"))
				return
			}
			s.writeError(w, err)
			return
		}

		if req.Description != nil {
			transaction.Description = *req.Description
		}
		if req.Type != nil {
			transaction.Type = models.TransactionType(*req.Type)
		}
		if req.Amount != nil {
			amountCents, err := money.ToCents(*req.Amount)
			if err != nil {
				s.writeError(w, apperr.BadRequest("Amount must be a non-negative number"))
				return
			}
			transaction.AmountCents = amountCents
		}

		if err := s.storage.UpdateTransaction(r.Context(), transaction); err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				s.writeError(w, apperr.NotFound("Transaction Not Found!"))
				return
			}
			s.writeError(w, err)
			return
		}

		s.logger.Info("Transaction updated", "id", transaction.ID)

		s.writeJSON(w, http.StatusOK, toTransactionResponse(transaction))
	}
}

func (s *APIServer) deleteTransactionHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if _, err := s.storage.GetTransactionByID(r.Context(), id); err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				s.writeError(w, apperr.NotFound("Transaction Not Found!"))
				return
			}
			s.writeError(w, err)
			return
		}

		if err := s.storage.DeleteTransaction(r.Context(), id); err != nil {
			s.writeError(w, err)
			return
		}

		s.logger.Info("Transaction deleted", "id", id)

		w.WriteHeader(http.StatusNoContent)
	}
}
