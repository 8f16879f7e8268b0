package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
	"mesa-settle/internal/metrics"
)

// DefaultMaxBatchSize bounds a batch when no limit is configured.
const DefaultMaxBatchSize = 1000

// LoggerOptions configures an ImpressionLogger. Owner is the only
// aggregator allowed to submit batches; Address is the identity the
// logger presents to the registry.
type LoggerOptions struct {
	Address      domain.Account
	Owner        domain.Account
	MaxBatchSize int
}

// ImpressionLogger is the aggregator gateway into the registry. A batch is
// all-or-nothing: records are forwarded in order inside one transaction
// and the first failure rolls back every record already applied.
type ImpressionLogger struct {
	recorder port.ImpressionRecorder
	store    port.Store
	logger   *slog.Logger

	address  domain.Account
	owner    domain.Account
	maxBatch int
}

// NewImpressionLogger returns a gateway forwarding to recorder. store must
// be the store recorder writes to, so that the batch transaction spans
// every forwarded call.
func NewImpressionLogger(recorder port.ImpressionRecorder, store port.Store, logger *slog.Logger, opts LoggerOptions) *ImpressionLogger {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = DefaultMaxBatchSize
	}
	return &ImpressionLogger{
		recorder: recorder,
		store:    store,
		logger:   logger.With(slog.String("component", "impression_logger")),
		address:  opts.Address,
		owner:    opts.Owner,
		maxBatch: opts.MaxBatchSize,
	}
}

// Address returns the identity used when forwarding impressions.
func (l *ImpressionLogger) Address() domain.Account { return l.address }

// BatchRecord forwards records to the registry. It returns the number of
// records applied, which is always len(records) on success.
func (l *ImpressionLogger) BatchRecord(ctx context.Context, caller domain.Account, records []domain.ImpressionRecord) (port.BatchResult, error) {
	if caller != l.owner {
		return port.BatchResult{}, domain.ErrNotAuthorized
	}
	if len(records) > l.maxBatch {
		return port.BatchResult{}, fmt.Errorf("%w: %d records, limit %d", domain.ErrBatchTooLarge, len(records), l.maxBatch)
	}

	batchID := uuid.NewString()
	err := l.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		for i, rec := range records {
			if err := l.recorder.RecordImpression(ctx, l.address, rec.CampaignID, rec.Beneficiaries); err != nil {
				return fmt.Errorf("record %d (campaign %d): %w", i, rec.CampaignID, err)
			}
		}
		tx.OnCommit(func() {
			metrics.Batches.WithLabelValues("committed").Inc()
			metrics.BatchSize.Observe(float64(len(records)))
			l.logger.Info("batch recorded", slog.String("batch_id", batchID), slog.Int("records", len(records)))
		})
		return nil
	})
	if err != nil {
		metrics.Batches.WithLabelValues("rolled_back").Inc()
		l.logger.Warn("batch rolled back", slog.String("batch_id", batchID), slog.Any("error", err))
		return port.BatchResult{}, err
	}
	return port.BatchResult{BatchID: batchID, Recorded: len(records)}, nil
}
