package domain

import (
	"fmt"
	"strings"
)

// BasisPoints is the denominator of every split weight.
const BasisPoints = 10000

// Split divides a payment between the four beneficiaries. Weights are in
// parts per BasisPoints.
type Split struct {
	User      uint16
	Publisher uint16
	Staker    uint16
	Treasury  uint16
}

// DefaultSplit is 50% viewer, 40% publisher, 5% staker, 5% treasury.
var DefaultSplit = Split{User: 5000, Publisher: 4000, Staker: 500, Treasury: 500}

// Validate reports ErrInvalidSplit unless the weights sum to BasisPoints.
func (s Split) Validate() error {
	sum := uint32(s.User) + uint32(s.Publisher) + uint32(s.Staker) + uint32(s.Treasury)
	if sum != BasisPoints {
		return fmt.Errorf("%w: got %d", ErrInvalidSplit, sum)
	}
	return nil
}

// DustPolicy decides what happens to the remainder lost to floor division.
type DustPolicy string

const (
	// DustStrand leaves the remainder uncredited.
	DustStrand DustPolicy = "strand"
	// DustToTreasury adds the remainder to the treasury share.
	DustToTreasury DustPolicy = "treasury"
)

// ParseDustPolicy accepts "strand" and "treasury", case-insensitively.
func ParseDustPolicy(s string) (DustPolicy, error) {
	switch DustPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case DustStrand, "":
		return DustStrand, nil
	case DustToTreasury:
		return DustToTreasury, nil
	default:
		return "", fmt.Errorf("%w: unknown dust policy %q", ErrInvalidArgument, s)
	}
}

// Distribution is the outcome of splitting one payment.
type Distribution struct {
	User      Amount
	Publisher Amount
	Staker    Amount
	Treasury  Amount
	// Dust is the part of the payment credited to nobody.
	Dust Amount
}

// Credited is the sum of the four shares.
func (d Distribution) Credited() Amount {
	return d.User + d.Publisher + d.Staker + d.Treasury
}

// Distribute splits v. Each share is floor(v*w/BasisPoints); the
// remainder is either reported as Dust or swept to the treasury according
// to policy. Credited()+Dust always equals v.
func (s Split) Distribute(v Amount, policy DustPolicy) Distribution {
	d := Distribution{
		User:      v.MulDiv(uint64(s.User), BasisPoints),
		Publisher: v.MulDiv(uint64(s.Publisher), BasisPoints),
		Staker:    v.MulDiv(uint64(s.Staker), BasisPoints),
		Treasury:  v.MulDiv(uint64(s.Treasury), BasisPoints),
	}
	rest := v - d.Credited()
	if policy == DustToTreasury {
		d.Treasury += rest
		return d
	}
	d.Dust = rest
	return d
}
