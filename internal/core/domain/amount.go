package domain

import (
	"math/bits"
	"strconv"
)

// Account identifies a principal or a component address. Accounts are
// opaque to the ledger; authentication happens upstream.
type Account string

// Amount is an unsigned quantity of the settlement currency in its
// smallest unit.
type Amount uint64

func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// ParseAmount parses a base-10 unsigned amount.
func ParseAmount(s string) (Amount, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return Amount(v), nil
}

// MulDiv returns floor(a*num/den) computed with a 128-bit intermediate.
// The result must fit in 64 bits, which always holds when num <= den.
func (a Amount) MulDiv(num, den uint64) Amount {
	hi, lo := bits.Mul64(uint64(a), num)
	q, _ := bits.Div64(hi, lo, den)
	return Amount(q)
}

// RequiredDeposit returns payout*count. ok is false when the product does
// not fit in an Amount, in which case no attached value can cover it.
func RequiredDeposit(payout Amount, count uint64) (Amount, bool) {
	hi, lo := bits.Mul64(uint64(payout), count)
	if hi != 0 {
		return 0, false
	}
	return Amount(lo), true
}
