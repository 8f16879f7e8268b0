package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
)

// PrincipalHeader carries the authenticated caller identity. Requests are
// expected to pass an authenticating gateway that sets it.
const PrincipalHeader = "X-Principal"

// Handler contains dependencies and routes. It is an inbound adapter for HTTP.
// It exposes the registry, the impression gateway, the vaults and the
// funding ledger, and logs unexpected failures. Routes are registered on a
// chi.Router.
type Handler struct {
	registry port.CampaignRegistry
	gateway  port.ImpressionLogger
	vaults   port.VaultDirectory
	funding  port.FundingLedger
	logger   *slog.Logger
	router   chi.Router
}

// NewHandler creates a handler with all routes configured, plus the
// prometheus scrape endpoint at /metrics.
func NewHandler(registry port.CampaignRegistry, gateway port.ImpressionLogger, vaults port.VaultDirectory, funding port.FundingLedger, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{registry: registry, gateway: gateway, vaults: vaults, funding: funding, logger: logger}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/campaigns", h.handleSubmitCampaign)
		r.Route("/campaigns/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetCampaign)
			r.Post("/approve", h.handleApprove)
			r.Post("/kill", h.handleKill)
			r.Post("/impressions", h.handleRecordImpression)
		})
		r.Post("/impressions/batch", h.handleBatchRecord)
		r.Post("/refunds/claim", h.handleClaimRefund)
		r.Post("/funding", h.handleCredit)
		r.Get("/funding/{account}", h.handleFunds)
		r.Route("/vaults/{vault}", func(r chi.Router) {
			r.Post("/deposit", h.handleDeposit)
			r.Post("/withdraw", h.handleWithdraw)
			r.Get("/balances/{account}", h.handleBalance)
		})
	})
	r.Handle("/metrics", promhttp.Handler())
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func principal(r *http.Request) domain.Account {
	return domain.Account(r.Header.Get(PrincipalHeader))
}
