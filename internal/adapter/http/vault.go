package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
)

type depositRequest struct {
	domain.Beneficiaries
	Value domain.Amount `json:"value"`
}

type distributionResponse struct {
	User      domain.Amount `json:"user"`
	Publisher domain.Amount `json:"publisher"`
	Staker    domain.Amount `json:"staker"`
	Treasury  domain.Amount `json:"treasury"`
	Dust      domain.Amount `json:"dust"`
}

func (h *Handler) vault(w http.ResponseWriter, r *http.Request) (port.RewardVault, bool) {
	v, err := h.vaults.Vault(domain.Account(chi.URLParam(r, "vault")))
	if err != nil {
		http.Error(w, "vault not found", http.StatusNotFound)
		return nil, false
	}
	return v, true
}

func (h *Handler) handleDeposit(w http.ResponseWriter, r *http.Request) {
	caller, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	v, ok := h.vault(w, r)
	if !ok {
		return
	}
	var req depositRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	d, err := v.Deposit(r.Context(), caller, req.Value, req.Beneficiaries)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, distributionResponse{
		User:      d.User,
		Publisher: d.Publisher,
		Staker:    d.Staker,
		Treasury:  d.Treasury,
		Dust:      d.Dust,
	})
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	v, ok := h.vault(w, r)
	if !ok {
		return
	}
	amount, err := v.Withdraw(r.Context(), caller)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]domain.Amount{"amount": amount})
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	v, ok := h.vault(w, r)
	if !ok {
		return
	}
	bal, err := v.Balance(r.Context(), domain.Account(chi.URLParam(r, "account")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]domain.Amount{"balance": bal})
}
