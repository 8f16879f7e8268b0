package httpadapter

import (
	"net/http"

	"mesa-settle/internal/core/domain"
)

type batchRequest struct {
	Records []domain.ImpressionRecord `json:"records"`
}

type batchResponse struct {
	BatchID  string `json:"batch_id"`
	Recorded int    `json:"recorded"`
}

// handleRecordImpression forwards a single impression directly to the
// registry. Only callers on the registry's forwarder list succeed when the
// list is configured.
func (h *Handler) handleRecordImpression(w http.ResponseWriter, r *http.Request) {
	caller, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := campaignID(r)
	if !ok {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	var b domain.Beneficiaries
	if err := decode(r, &b); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.registry.RecordImpression(r.Context(), caller, id, b); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleBatchRecord submits an aggregator batch. The batch either applies
// in full or not at all; the error names the first failing record.
func (h *Handler) handleBatchRecord(w http.ResponseWriter, r *http.Request) {
	caller, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req batchRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	res, err := h.gateway.BatchRecord(r.Context(), caller, req.Records)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, batchResponse{BatchID: res.BatchID, Recorded: res.Recorded})
}
