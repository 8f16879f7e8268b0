package domain

// CampaignStatus is the lifecycle state derived from the approved and
// killed flags.
type CampaignStatus string

const (
	CampaignPending  CampaignStatus = "pending"
	CampaignApproved CampaignStatus = "approved"
	CampaignKilled   CampaignStatus = "killed"
)

// Campaign is an advertiser's escrowed pay-per-impression agreement.
// Amounts are stored in the smallest currency unit.
type Campaign struct {
	ID                  uint64
	Advertiser          Account
	RewardVault         Account
	PayoutPerImpression Amount
	MaxImpressions      uint64
	InitialDeposit      Amount
	DepositRemaining    Amount
	Impressions         uint64
	Approved            bool
	Killed              bool
}

// Status returns the lifecycle state. Killed wins over approved.
func (c Campaign) Status() CampaignStatus {
	switch {
	case c.Killed:
		return CampaignKilled
	case c.Approved:
		return CampaignApproved
	default:
		return CampaignPending
	}
}

// Active reports whether impressions may be recorded against c.
func (c Campaign) Active() bool {
	return c.Approved && !c.Killed
}

// Funded reports whether c can pay for one more impression.
func (c Campaign) Funded() bool {
	return c.DepositRemaining >= c.PayoutPerImpression
}
