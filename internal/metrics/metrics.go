package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry metrics - campaign lifecycle and escrow consumption
var (
	CampaignsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settle_campaigns_submitted_total",
		Help: "Total number of campaigns submitted",
	})

	CampaignTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settle_campaign_transitions_total",
			Help: "Total number of campaign lifecycle transitions by target state",
		},
		[]string{"state"},
	)

	ImpressionsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settle_impressions_recorded_total",
		Help: "Total number of impressions that consumed escrow",
	})

	RefundsParked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settle_refunds_parked_total",
		Help: "Total number of kill refunds parked after a failed transfer",
	})
)

// Vault metrics - value distribution
var (
	ValueDistributed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settle_value_distributed_total",
			Help: "Total value credited to claimable balances by party",
		},
		[]string{"party"},
	)

	DustStranded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settle_dust_stranded_total",
		Help: "Total value lost to floor division and credited to nobody",
	})

	Payouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settle_payouts_total",
			Help: "Total number of committed payouts by reason",
		},
		[]string{"reason"},
	)
)

// Funding metrics - inbound value
var (
	InboundPayments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settle_inbound_payments_total",
			Help: "Total number of inbound payments by outcome",
		},
		[]string{"outcome"},
	)

	FundsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settle_funds_received_total",
		Help: "Total value admitted from the payment rail",
	})
)

// Gateway metrics - aggregator batches
var (
	Batches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settle_batches_total",
			Help: "Total number of impression batches by outcome",
		},
		[]string{"outcome"},
	)

	BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "settle_batch_size",
		Help:    "Number of records in committed impression batches",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
)
