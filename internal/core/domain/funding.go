package domain

import "time"

// InboundPayment is value received on the payment rail and credited to the
// spendable funds of Account. Reference is the rail's payment id; a
// reference is credited at most once.
type InboundPayment struct {
	Reference  string
	Account    Account
	Amount     Amount
	ReceivedAt time.Time
}
