package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mesa-settle/internal/adapter/memory"
	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port/mocks"
)

func TestBatchRecordRequiresAggregator(t *testing.T) {
	recorder := mocks.NewMockImpressionRecorder(t)
	l := NewImpressionLogger(recorder, memory.NewStore(), discardLogger(), LoggerOptions{Address: gatewayAddr, Owner: aggregator})

	_, err := l.BatchRecord(context.Background(), "mallory", []domain.ImpressionRecord{{CampaignID: 0, Beneficiaries: parties}})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
	recorder.AssertNotCalled(t, "RecordImpression", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchRecordForwardsInOrder(t *testing.T) {
	recorder := mocks.NewMockImpressionRecorder(t)
	l := NewImpressionLogger(recorder, memory.NewStore(), discardLogger(), LoggerOptions{Address: gatewayAddr, Owner: aggregator})

	var seen []uint64
	recorder.EXPECT().
		RecordImpression(mock.Anything, gatewayAddr, mock.Anything, parties).
		Run(func(_ context.Context, _ domain.Account, id uint64, _ domain.Beneficiaries) {
			seen = append(seen, id)
		}).
		Return(nil).
		Times(3)

	res, err := l.BatchRecord(context.Background(), aggregator, []domain.ImpressionRecord{
		{CampaignID: 2, Beneficiaries: parties},
		{CampaignID: 0, Beneficiaries: parties},
		{CampaignID: 1, Beneficiaries: parties},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Recorded)
	assert.NotEmpty(t, res.BatchID)
	assert.Equal(t, []uint64{2, 0, 1}, seen)
}

func TestBatchRecordStopsAtFirstFailure(t *testing.T) {
	recorder := mocks.NewMockImpressionRecorder(t)
	l := NewImpressionLogger(recorder, memory.NewStore(), discardLogger(), LoggerOptions{Address: gatewayAddr, Owner: aggregator})

	recorder.EXPECT().RecordImpression(mock.Anything, gatewayAddr, uint64(0), parties).Return(nil).Once()
	recorder.EXPECT().RecordImpression(mock.Anything, gatewayAddr, uint64(9), parties).Return(domain.ErrCampaignNotFound).Once()

	_, err := l.BatchRecord(context.Background(), aggregator, []domain.ImpressionRecord{
		{CampaignID: 0, Beneficiaries: parties},
		{CampaignID: 9, Beneficiaries: parties},
		{CampaignID: 0, Beneficiaries: parties},
	})
	require.ErrorIs(t, err, domain.ErrCampaignNotFound)
	assert.Contains(t, err.Error(), "record 1 (campaign 9)")
}

func TestBatchRecordTooLarge(t *testing.T) {
	recorder := mocks.NewMockImpressionRecorder(t)
	l := NewImpressionLogger(recorder, memory.NewStore(), discardLogger(), LoggerOptions{Address: gatewayAddr, Owner: aggregator, MaxBatchSize: 1})

	_, err := l.BatchRecord(context.Background(), aggregator, make([]domain.ImpressionRecord, 2))
	require.ErrorIs(t, err, domain.ErrBatchTooLarge)
}

func TestBatchRecordAppliesAllRecords(t *testing.T) {
	f := newFixture(t, withForwarders(gatewayAddr))
	a := f.submitApproved(t, 100, 5)
	b := f.submitApproved(t, 10, 5)

	res, err := f.gateway.BatchRecord(context.Background(), aggregator, []domain.ImpressionRecord{
		{CampaignID: a, Beneficiaries: parties},
		{CampaignID: b, Beneficiaries: parties},
		{CampaignID: a, Beneficiaries: parties},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Recorded)

	assert.Equal(t, domain.Amount(300), f.campaign(t, a).DepositRemaining)
	assert.Equal(t, domain.Amount(40), f.campaign(t, b).DepositRemaining)
	assert.Equal(t, domain.Amount(105), f.balance(t, parties.User))
}

func TestBatchRecordRollsBackWholeBatch(t *testing.T) {
	f := newFixture(t, withForwarders(gatewayAddr))
	ctx := context.Background()
	a := f.submitApproved(t, 100, 5)
	b := f.submitApproved(t, 10, 5)
	_, err := f.vault.Deposit(ctx, depositor, 10000, parties)
	require.NoError(t, err)

	beforeA, beforeB, beforeBalances := f.campaign(t, a), f.campaign(t, b), f.balances(t)
	other := domain.Beneficiaries{User: "viewer-2", Publisher: parties.Publisher, Staker: parties.Staker}

	_, err = f.gateway.BatchRecord(ctx, aggregator, []domain.ImpressionRecord{
		{CampaignID: a, Beneficiaries: parties},
		{CampaignID: b, Beneficiaries: other},
		{CampaignID: a, Beneficiaries: other},
		{CampaignID: 404, Beneficiaries: parties},
	})
	require.ErrorIs(t, err, domain.ErrCampaignNotFound)
	assert.True(t, errors.Is(err, domain.ErrState))

	assert.Equal(t, beforeA, f.campaign(t, a))
	assert.Equal(t, beforeB, f.campaign(t, b))
	assert.Equal(t, beforeBalances, f.balances(t))
}

func TestBatchRecordRollsBackOnExhaustedEscrow(t *testing.T) {
	f := newFixture(t, withForwarders(gatewayAddr))
	id := f.submitApproved(t, 100, 2)

	_, err := f.gateway.BatchRecord(context.Background(), aggregator, []domain.ImpressionRecord{
		{CampaignID: id, Beneficiaries: parties},
		{CampaignID: id, Beneficiaries: parties},
		{CampaignID: id, Beneficiaries: parties},
	})
	require.ErrorIs(t, err, domain.ErrCampaignOutOfFunds)

	c := f.campaign(t, id)
	assert.Equal(t, domain.Amount(200), c.DepositRemaining)
	assert.Zero(t, c.Impressions)
	assert.Zero(t, f.balance(t, parties.User))
}

func TestBatchRecordEmpty(t *testing.T) {
	f := newFixture(t)
	res, err := f.gateway.BatchRecord(context.Background(), aggregator, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Recorded)
}
