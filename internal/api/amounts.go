package api

import (
	"errors"
	"net/http"

	"github.com/financeme/api/internal/domain/models"
	"github.com/financeme/api/internal/lib/apperr"
	"github.com/financeme/api/internal/lib/money"
	"github.com/financeme/api/internal/storage/postgres"
	"github.com/gorilla/mux"
)

type AmountResponse struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Amount  string `json:"amount"`
}

// amountsHandler computes the caller's income/expense/net totals. The path
// id must match the token identity; a caller can never read another user's
// aggregate.
func (s *APIServer) amountsHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if id != callerID(r) {
			s.writeError(w, apperr.Unauthorized("Unauthorized"))
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

		amounts := models.CalcAmounts(user.Transactions)

		s.writeJSON(w, http.StatusOK, AmountResponse{
			Income:  money.FormatBRL(amounts.IncomeCents),
			Expense: money.FormatBRL(amounts.ExpenseCents),
			Amount:  money.FormatBRL(amounts.NetCents),
		})
	}
}
