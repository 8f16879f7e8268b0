package httpadapter

import (
	"net/http"

	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
)

type submitCampaignRequest struct {
	PayoutPerImpression domain.Amount  `json:"payout_per_impression"`
	MaxImpressions      uint64         `json:"max_impressions"`
	RewardVault         domain.Account `json:"reward_vault"`
	// Value is the amount attached to the call and escrowed.
	Value domain.Amount `json:"value"`
}

type campaignResponse struct {
	ID                  uint64                `json:"id"`
	Advertiser          domain.Account        `json:"advertiser"`
	RewardVault         domain.Account        `json:"reward_vault"`
	PayoutPerImpression domain.Amount         `json:"payout_per_impression"`
	MaxImpressions      uint64                `json:"max_impressions"`
	InitialDeposit      domain.Amount         `json:"initial_deposit"`
	DepositRemaining    domain.Amount         `json:"deposit_remaining"`
	Impressions         uint64                `json:"impressions"`
	Approved            bool                  `json:"approved"`
	Killed              bool                  `json:"killed"`
	Status              domain.CampaignStatus `json:"status"`
}

func toCampaignResponse(c domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:                  c.ID,
		Advertiser:          c.Advertiser,
		RewardVault:         c.RewardVault,
		PayoutPerImpression: c.PayoutPerImpression,
		MaxImpressions:      c.MaxImpressions,
		InitialDeposit:      c.InitialDeposit,
		DepositRemaining:    c.DepositRemaining,
		Impressions:         c.Impressions,
		Approved:            c.Approved,
		Killed:              c.Killed,
		Status:              c.Status(),
	}
}

// handleSubmitCampaign escrows the attached value against a new campaign
// owned by the caller. It responds 201 with the campaign id.
func (h *Handler) handleSubmitCampaign(w http.ResponseWriter, r *http.Request) {
	caller, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req submitCampaignRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	id, err := h.registry.SubmitCampaign(r.Context(), caller, req.Value, port.SubmitCampaignReq{
		PayoutPerImpression: req.PayoutPerImpression,
		MaxImpressions:      req.MaxImpressions,
		RewardVault:         req.RewardVault,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]uint64{"id": id})
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	c, err := h.registry.Campaign(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCampaignResponse(c))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	caller, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := campaignID(r)
	if !ok {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	if err := h.registry.Approve(r.Context(), caller, id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleKill stops a campaign and reports whether the remaining escrow was
// refunded or parked for a later claim.
func (h *Handler) handleKill(w http.ResponseWriter, r *http.Request) {
	caller, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := campaignID(r)
	if !ok {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	res, err := h.registry.Kill(r.Context(), caller, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]domain.Amount{
		"refunded": res.Refunded,
		"parked":   res.Parked,
	})
}

func (h *Handler) handleClaimRefund(w http.ResponseWriter, r *http.Request) {
	caller, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	amount, err := h.registry.ClaimRefund(r.Context(), caller)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]domain.Amount{"amount": amount})
}
