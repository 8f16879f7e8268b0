package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredDeposit(t *testing.T) {
	v, ok := RequiredDeposit(100, 10)
	require.True(t, ok)
	assert.Equal(t, Amount(1000), v)

	_, ok = RequiredDeposit(math.MaxUint64, 2)
	assert.False(t, ok)
}

func TestMulDivUsesWideIntermediate(t *testing.T) {
	got := Amount(math.MaxUint64).MulDiv(5000, BasisPoints)
	assert.Equal(t, Amount(math.MaxUint64/2), got)
}

func TestCampaignStatus(t *testing.T) {
	c := Campaign{}
	assert.Equal(t, CampaignPending, c.Status())
	assert.False(t, c.Active())

	c.Approved = true
	assert.Equal(t, CampaignApproved, c.Status())
	assert.True(t, c.Active())

	c.Killed = true
	assert.Equal(t, CampaignKilled, c.Status())
	assert.False(t, c.Active())
}
