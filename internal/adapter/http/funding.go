package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mesa-settle/internal/core/domain"
)

type creditRequest struct {
	Reference string         `json:"reference"`
	Account   domain.Account `json:"account"`
	Amount    domain.Amount  `json:"amount"`
}

type creditResponse struct {
	Funds     domain.Amount `json:"funds"`
	Duplicate bool          `json:"duplicate"`
}

// handleCredit records an inbound payment reported by the funding
// operator. It responds 201 for a new payment and 200 for a replay.
func (h *Handler) handleCredit(w http.ResponseWriter, r *http.Request) {
	caller, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req creditRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	res, err := h.funding.Credit(r.Context(), caller, domain.InboundPayment{
		Reference: req.Reference,
		Account:   req.Account,
		Amount:    req.Amount,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	status := http.StatusCreated
	if res.Duplicate {
		status = http.StatusOK
	}
	h.writeJSON(w, status, creditResponse{Funds: res.Funds, Duplicate: res.Duplicate})
}

func (h *Handler) handleFunds(w http.ResponseWriter, r *http.Request) {
	funds, err := h.funding.Funds(r.Context(), domain.Account(chi.URLParam(r, "account")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]domain.Amount{"funds": funds})
}
