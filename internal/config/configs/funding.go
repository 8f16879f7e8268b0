package configs

import "mesa-settle/internal/core/domain"

// Funding configures the funding ledger. Operator is the payment gateway
// principal allowed to report inbound payments.
type Funding struct {
	Operator string `env:"OPERATOR" envDefault:"payment-gateway"`
}

// OperatorAccount returns Operator as a ledger account.
func (c Funding) OperatorAccount() domain.Account {
	return domain.Account(c.Operator)
}
